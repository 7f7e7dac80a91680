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

package osmwrangle

import (
	"time"

	"github.com/paulmach/osm"

	"m4o.io/osmwrangle/model"
)

func toInfo(version int, uid osm.UserID, user string, changeset osm.ChangesetID, ts time.Time, visible bool) *model.Info {
	return &model.Info{
		Version:   int32(version),
		UID:       model.UID(uid),
		Timestamp: ts,
		Changeset: int64(changeset),
		User:      user,
		Visible:   visible,
	}
}

func toTags(tags osm.Tags) model.Tags {
	if len(tags) == 0 {
		return nil
	}

	t := make(model.Tags, len(tags))
	for i, tag := range tags {
		t[i] = model.Tag{Key: tag.Key, Value: tag.Value}
	}

	return t
}

func toNode(n *osm.Node) *model.Node {
	return &model.Node{
		ID:   model.ID(n.ID),
		Tags: toTags(n.Tags),
		Info: toInfo(n.Version, n.UserID, n.User, n.ChangesetID, n.Timestamp, n.Visible),
		Lat:  model.Degrees(n.Lat),
		Lon:  model.Degrees(n.Lon),
	}
}

func toWay(w *osm.Way) *model.Way {
	refs := make([]model.ID, len(w.Nodes))
	for i, wn := range w.Nodes {
		refs[i] = model.ID(wn.ID)
	}

	return &model.Way{
		ID:      model.ID(w.ID),
		Tags:    toTags(w.Tags),
		Info:    toInfo(w.Version, w.UserID, w.User, w.ChangesetID, w.Timestamp, w.Visible),
		NodeIDs: refs,
	}
}

func toRelation(r *osm.Relation) *model.Relation {
	members := make([]model.Member, len(r.Members))
	for i, m := range r.Members {
		members[i] = model.Member{ID: model.ID(m.Ref), Type: toEntityType(m.Type), Role: m.Role}
	}

	return &model.Relation{
		ID:      model.ID(r.ID),
		Tags:    toTags(r.Tags),
		Info:    toInfo(r.Version, r.UserID, r.User, r.ChangesetID, r.Timestamp, r.Visible),
		Members: members,
	}
}

func toEntityType(t osm.Type) model.EntityType {
	switch t {
	case osm.TypeWay:
		return model.WAY
	case osm.TypeRelation:
		return model.RELATION
	default:
		return model.NODE
	}
}
