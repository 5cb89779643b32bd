package tracking

import (
	"fmt"
	"io"

	"github.com/vmihailenco/msgpack/v5"

	"facet/internal/model"
	"facet/internal/source"
)

// SnapshotSchema is bumped whenever Snapshot changes shape.
const SnapshotSchema uint16 = 2

// Record is the serialisable access state of one declaration.
type Record struct {
	Node    uint32 `msgpack:"node"`
	Kind    string `msgpack:"kind"`
	Name    string `msgpack:"name"`
	Line    uint32 `msgpack:"line,omitempty"`
	Col     uint32 `msgpack:"col,omitempty"`
	Read    bool   `msgpack:"read"`
	Written bool   `msgpack:"written"`
}

// Snapshot is the table of one unit, detached from the model so it can be
// handed to an external diagnostics pass. Digest identifies the model content
// and processor set the snapshot came from.
type Snapshot struct {
	Schema  uint16   `msgpack:"schema"`
	Unit    string   `msgpack:"unit"`
	Path    string   `msgpack:"path"`
	Digest  string   `msgpack:"digest,omitempty"`
	Records []Record `msgpack:"records"`
}

// Snapshot copies the table into ordered records.
func (t *ReadAndWriteTracking) Snapshot(unit, path string) Snapshot {
	snap := Snapshot{Schema: SnapshotSchema, Unit: unit, Path: path}
	for _, n := range t.Nodes() {
		a := t.entries[n.ID()]
		pos := n.Pos()
		snap.Records = append(snap.Records, Record{
			Node:    uint32(n.ID()),
			Kind:    n.Kind().String(),
			Name:    model.DisplayName(n),
			Line:    pos.Line,
			Col:     pos.Col,
			Read:    a.Read,
			Written: a.Written,
		})
	}
	return snap
}

// Pos rebuilds the source position of r inside file.
func (r Record) Pos(file source.FileID) source.Pos {
	return source.Pos{File: file, Line: r.Line, Col: r.Col}
}

// Encode writes s as msgpack.
func (s Snapshot) Encode(w io.Writer) error {
	return msgpack.NewEncoder(w).Encode(&s)
}

// DecodeSnapshot reads a msgpack snapshot and checks its schema.
func DecodeSnapshot(r io.Reader) (Snapshot, error) {
	var s Snapshot
	if err := msgpack.NewDecoder(r).Decode(&s); err != nil {
		return Snapshot{}, fmt.Errorf("decode tracking snapshot: %w", err)
	}
	if s.Schema != SnapshotSchema {
		return Snapshot{}, fmt.Errorf("tracking snapshot schema %d, want %d", s.Schema, SnapshotSchema)
	}
	return s, nil
}
