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
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"os"
	"sync"
	"time"

	"m4o.io/osmwrangle/internal/codec"
	"m4o.io/osmwrangle/model"
)

// Encoder writes entities as an OSM XML 0.6 document.  The <osm> root is
// opened by the first call to Encode and closed by Close.
type Encoder struct {
	Header model.Header

	cfg     encoderOptions
	wrtr    io.WriteCloser
	xml     *xml.Encoder
	file    *os.File
	started bool
	count   int64

	err   error
	close sync.Once
}

// NewEncoder returns a new encoder, configured with options, that writes to
// wrtr.  Closing the encoder does not close wrtr.
func NewEncoder(wrtr io.Writer, opts ...EncoderOption) (*Encoder, error) {
	cfg := defaultEncoderConfig

	for _, opt := range opts {
		opt(&cfg)
	}

	cw, err := codec.NewWriter(wrtr, cfg.compression)
	if err != nil {
		return nil, err
	}

	e := &Encoder{
		Header: model.Header{
			Version:     "0.6",
			Generator:   cfg.generator,
			BoundingBox: cfg.bbox,
		},

		cfg:  cfg,
		wrtr: cw,
		xml:  xml.NewEncoder(cw),
	}

	if cfg.indent {
		e.xml.Indent("  ", "  ")
	}

	return e, nil
}

// Create creates the named file and returns an encoder writing to it.  The
// compression is chosen by the file extension unless given as an option.
func Create(path string, opts ...EncoderOption) (*Encoder, error) {
	c, _ := codec.FromPath(path)

	f, err := os.Create(path)
	if err != nil {
		return nil, err
	}

	e, err := NewEncoder(f, append([]EncoderOption{WithCompression(c)}, opts...)...)
	if err != nil {
		_ = f.Close()

		return nil, err
	}

	e.file = f

	return e, nil
}

// Encode writes a single entity.
func (e *Encoder) Encode(entity model.Entity) error {
	if e.err != nil {
		return e.err
	}

	if err := e.start(); err != nil {
		return e.fail(err)
	}

	var v any
	switch t := entity.(type) {
	case *model.Node:
		v = newXMLNode(t)
	case *model.Way:
		v = newXMLWay(t)
	case *model.Relation:
		v = newXMLRelation(t)
	default:
		return fmt.Errorf("unknown entity type %T", entity)
	}

	if err := e.xml.Encode(v); err != nil {
		return e.fail(fmt.Errorf("encoding %s %d: %w", entity.GetType(), entity.GetID(), err))
	}

	e.count++

	return nil
}

// EncodeBatch writes an array of entities.
func (e *Encoder) EncodeBatch(entities []model.Entity) error {
	for _, entity := range entities {
		if err := e.Encode(entity); err != nil {
			return err
		}
	}

	return nil
}

// Count returns the number of entities written so far.
func (e *Encoder) Count() int64 {
	return e.count
}

// Close terminates the document and flushes any compression.  A file opened
// by Create is closed as well.
func (e *Encoder) Close() error {
	e.close.Do(func() {
		errs := []error{e.err}

		if e.err == nil {
			errs = append(errs, e.finish())
		}

		errs = append(errs, e.wrtr.Close())

		if e.file != nil {
			errs = append(errs, e.file.Close())
		}

		e.err = errors.Join(errs...)
	})

	return e.err
}

func (e *Encoder) fail(err error) error {
	e.err = err

	return err
}

func (e *Encoder) start() error {
	if e.started {
		return nil
	}

	e.started = true

	root := fmt.Sprintf("%s<osm version=%q generator=%q>\n", xml.Header, e.Header.Version, e.Header.Generator)
	if _, err := io.WriteString(e.wrtr, root); err != nil {
		return err
	}

	if b := e.Header.BoundingBox; b != nil && !b.IsEmpty() {
		return e.xml.Encode(xmlBounds{
			MinLat: b.Bottom.Text(),
			MinLon: b.Left.Text(),
			MaxLat: b.Top.Text(),
			MaxLon: b.Right.Text(),
		})
	}

	return nil
}

func (e *Encoder) finish() error {
	if err := e.start(); err != nil {
		return err
	}

	tail := "</osm>\n"
	if e.cfg.indent && (e.count > 0 || e.Header.BoundingBox != nil) {
		tail = "\n" + tail
	}

	_, err := io.WriteString(e.wrtr, tail)

	return err
}

type xmlBounds struct {
	XMLName xml.Name `xml:"bounds"`
	MinLat  string   `xml:"minlat,attr"`
	MinLon  string   `xml:"minlon,attr"`
	MaxLat  string   `xml:"maxlat,attr"`
	MaxLon  string   `xml:"maxlon,attr"`
}

type xmlInfo struct {
	Version   int32  `xml:"version,attr,omitempty"`
	Timestamp string `xml:"timestamp,attr,omitempty"`
	Changeset int64  `xml:"changeset,attr,omitempty"`
	UID       int64  `xml:"uid,attr,omitempty"`
	User      string `xml:"user,attr,omitempty"`
}

type xmlTag struct {
	Key   string `xml:"k,attr"`
	Value string `xml:"v,attr"`
}

type xmlNode struct {
	XMLName xml.Name `xml:"node"`
	ID      int64    `xml:"id,attr"`
	Lat     string   `xml:"lat,attr"`
	Lon     string   `xml:"lon,attr"`
	xmlInfo
	Tags []xmlTag `xml:"tag"`
}

type xmlNd struct {
	Ref int64 `xml:"ref,attr"`
}

type xmlWay struct {
	XMLName xml.Name `xml:"way"`
	ID      int64    `xml:"id,attr"`
	xmlInfo
	Nds  []xmlNd  `xml:"nd"`
	Tags []xmlTag `xml:"tag"`
}

type xmlMember struct {
	Type string `xml:"type,attr"`
	Ref  int64  `xml:"ref,attr"`
	Role string `xml:"role,attr"`
}

type xmlRelation struct {
	XMLName xml.Name `xml:"relation"`
	ID      int64    `xml:"id,attr"`
	xmlInfo
	Members []xmlMember `xml:"member"`
	Tags    []xmlTag    `xml:"tag"`
}

func newXMLInfo(i *model.Info) xmlInfo {
	if i == nil {
		return xmlInfo{}
	}

	var ts string
	if !i.Timestamp.IsZero() {
		ts = i.Timestamp.UTC().Format(time.RFC3339)
	}

	return xmlInfo{
		Version:   i.Version,
		Timestamp: ts,
		Changeset: i.Changeset,
		UID:       int64(i.UID),
		User:      i.User,
	}
}

func newXMLTags(tags model.Tags) []xmlTag {
	t := make([]xmlTag, len(tags))
	for i, tag := range tags {
		t[i] = xmlTag{Key: tag.Key, Value: tag.Value}
	}

	return t
}

func newXMLNode(n *model.Node) xmlNode {
	return xmlNode{
		ID:      int64(n.ID),
		Lat:     n.Lat.Text(),
		Lon:     n.Lon.Text(),
		xmlInfo: newXMLInfo(n.Info),
		Tags:    newXMLTags(n.Tags),
	}
}

func newXMLWay(w *model.Way) xmlWay {
	nds := make([]xmlNd, len(w.NodeIDs))
	for i, id := range w.NodeIDs {
		nds[i] = xmlNd{Ref: int64(id)}
	}

	return xmlWay{
		ID:      int64(w.ID),
		xmlInfo: newXMLInfo(w.Info),
		Nds:     nds,
		Tags:    newXMLTags(w.Tags),
	}
}

func newXMLRelation(r *model.Relation) xmlRelation {
	members := make([]xmlMember, len(r.Members))
	for i, m := range r.Members {
		members[i] = xmlMember{Type: m.Type.String(), Ref: int64(m.ID), Role: m.Role}
	}

	return xmlRelation{
		ID:      int64(r.ID),
		xmlInfo: newXMLInfo(r.Info),
		Members: members,
		Tags:    newXMLTags(r.Tags),
	}
}
