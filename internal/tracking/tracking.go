// Package tracking records which declarations macro code has read from or
// written to. The table is scoped to one compilation unit and consumed after
// the macro phase by unused-member and dead-store checks.
package tracking

import (
	"slices"

	"facet/internal/model"
)

// Access is the read/write state of one declaration.
type Access struct {
	Read    bool
	Written bool
}

// ReadAndWriteTracking is the per-unit access table. Marks are idempotent and
// monotonic: once set they stay set until Reset. Not safe for concurrent use;
// a unit is processed by a single goroutine.
type ReadAndWriteTracking struct {
	entries map[model.NodeID]Access
	nodes   map[model.NodeID]model.Node
}

// New creates an empty table.
func New() *ReadAndWriteTracking {
	return &ReadAndWriteTracking{
		entries: make(map[model.NodeID]Access),
		nodes:   make(map[model.NodeID]model.Node),
	}
}

// MarkReadAccess records that n was read.
func (t *ReadAndWriteTracking) MarkReadAccess(n model.Node) {
	t.update(n, func(a *Access) { a.Read = true })
}

// MarkWriteAccess records that n was written.
func (t *ReadAndWriteTracking) MarkWriteAccess(n model.Node) {
	t.update(n, func(a *Access) { a.Written = true })
}

func (t *ReadAndWriteTracking) update(n model.Node, fn func(*Access)) {
	if n == nil {
		return
	}
	id := n.ID()
	a := t.entries[id]
	fn(&a)
	t.entries[id] = a
	t.nodes[id] = n
}

// Access returns the recorded state of n; untracked nodes report the zero value.
func (t *ReadAndWriteTracking) Access(n model.Node) Access {
	if n == nil {
		return Access{}
	}
	return t.entries[n.ID()]
}

// IsRead reports whether n was marked as read.
func (t *ReadAndWriteTracking) IsRead(n model.Node) bool { return t.Access(n).Read }

// IsWritten reports whether n was marked as written.
func (t *ReadAndWriteTracking) IsWritten(n model.Node) bool { return t.Access(n).Written }

// Len counts tracked declarations.
func (t *ReadAndWriteTracking) Len() int { return len(t.entries) }

// Nodes returns tracked nodes ordered by NodeID.
func (t *ReadAndWriteTracking) Nodes() []model.Node {
	ids := make([]model.NodeID, 0, len(t.nodes))
	for id := range t.nodes {
		ids = append(ids, id)
	}
	slices.Sort(ids)
	out := make([]model.Node, len(ids))
	for i, id := range ids {
		out[i] = t.nodes[id]
	}
	return out
}

// Reset drops every record. Only the owning unit calls it, on dispose.
func (t *ReadAndWriteTracking) Reset() {
	clear(t.entries)
	clear(t.nodes)
}
