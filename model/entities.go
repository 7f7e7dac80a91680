// Copyright 2017-25 the original author or authors.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package model

import (
	"time"
)

// UID is the identifier of the OSM user that last modified an entity.
type UID int64

// Info is the metadata every OSM entity carries.
type Info struct {
	Version   int32
	UID       UID
	Timestamp time.Time
	Changeset int64
	User      string
	Visible   bool
}

// Tag is a single key/value annotation.
type Tag struct {
	Key   string
	Value string
}

// Tags keeps tags in document order.
type Tags []Tag

// Get returns the value of the first tag with key k.
func (t Tags) Get(k string) (string, bool) {
	for _, tag := range t {
		if tag.Key == k {
			return tag.Value, true
		}
	}

	return "", false
}

// Entity is the interface implemented by nodes, ways and relations.
type Entity interface {
	isEntity() // prevents extensions

	GetID() ID

	GetType() EntityType

	GetTags() Tags

	GetInfo() *Info
}

// ID is the identifier of an entity, unique per EntityType.
type ID int64

// EntityType names the kind of an OSM entity.
type EntityType int32

const (
	// NODE denotes that the member is a node.
	NODE EntityType = iota

	// WAY denotes that the member is a way.
	WAY

	// RELATION denotes that the member is a relation.
	RELATION
)

func (t EntityType) String() string {
	switch t {
	case NODE:
		return "node"
	case WAY:
		return "way"
	case RELATION:
		return "relation"
	default:
		return "unknown"
	}
}

// Node is a single geographic point.
type Node struct {
	ID   ID
	Tags Tags
	Info *Info
	Lat  Degrees
	Lon  Degrees
}

var _ Entity = (*Node)(nil)

func (n *Node) isEntity() {}

func (n *Node) GetID() ID {
	return n.ID
}

func (n *Node) GetType() EntityType {
	return NODE
}

func (n *Node) GetTags() Tags {
	return n.Tags
}

func (n *Node) GetInfo() *Info {
	return n.Info
}

// Way is an ordered list of node references.
type Way struct {
	ID      ID
	Tags    Tags
	Info    *Info
	NodeIDs []ID
}

var _ Entity = (*Way)(nil)

func (w *Way) isEntity() {}

func (w *Way) GetID() ID {
	return w.ID
}

func (w *Way) GetType() EntityType {
	return WAY
}

func (w *Way) GetTags() Tags {
	return w.Tags
}

func (w *Way) GetInfo() *Info {
	return w.Info
}

// Member is a reference from a relation to another entity.
type Member struct {
	ID   ID
	Type EntityType
	Role string
}

// Relation groups other entities.
type Relation struct {
	ID      ID
	Tags    Tags
	Info    *Info
	Members []Member
}

var _ Entity = (*Relation)(nil)

func (r *Relation) isEntity() {}

func (r *Relation) GetID() ID {
	return r.ID
}

func (r *Relation) GetType() EntityType {
	return RELATION
}

func (r *Relation) GetTags() Tags {
	return r.Tags
}

func (r *Relation) GetInfo() *Info {
	return r.Info
}
