package tracking

import (
	"bytes"
	"testing"

	"facet/internal/model"
	"facet/internal/source"
)

func newModel(t *testing.T) (*model.Model, *model.Operation, *model.Field) {
	t.Helper()
	m := model.New("demo", source.FileID(1))
	typ, err := m.NewType("Widget", model.TypeClass, model.OriginSource, source.Pos{File: 1, Line: 1, Col: 1})
	if err != nil {
		t.Fatalf("new type: %v", err)
	}
	op := typ.AddOperation("compute", source.Pos{File: 1, Line: 3, Col: 5})
	f := typ.AddField("count", m.TypeInterner().Builtins().Int, source.Pos{File: 1, Line: 2, Col: 5})
	return m, op, f
}

func TestMarkReadAccessIsIdempotent(t *testing.T) {
	_, op, _ := newModel(t)
	tr := New()

	tr.MarkReadAccess(op)
	once := tr.Access(op)
	tr.MarkReadAccess(op)
	twice := tr.Access(op)

	if once != twice {
		t.Fatalf("second mark changed state: %+v -> %+v", once, twice)
	}
	if !twice.Read || twice.Written {
		t.Fatalf("unexpected access %+v", twice)
	}
	if tr.Len() != 1 {
		t.Fatalf("expected one record, got %d", tr.Len())
	}
}

func TestMarksAreMonotonic(t *testing.T) {
	_, _, f := newModel(t)
	tr := New()

	tr.MarkWriteAccess(f)
	tr.MarkReadAccess(f)
	tr.MarkWriteAccess(f)

	if a := tr.Access(f); !a.Read || !a.Written {
		t.Fatalf("expected read and written, got %+v", a)
	}
	tr.MarkReadAccess(nil)
	if tr.Len() != 1 {
		t.Fatalf("nil node must be ignored")
	}
}

func TestSnapshotRoundTrip(t *testing.T) {
	_, op, f := newModel(t)
	tr := New()
	tr.MarkReadAccess(op)
	tr.MarkWriteAccess(f)

	snap := tr.Snapshot("unit-1", "models/widget.decl.yaml")
	if len(snap.Records) != 2 {
		t.Fatalf("expected 2 records, got %d", len(snap.Records))
	}
	// records follow NodeID order: compute was declared before count
	if snap.Records[0].Name != "demo.Widget.compute" || snap.Records[1].Name != "demo.Widget.count" {
		t.Fatalf("unexpected order: %+v", snap.Records)
	}

	var buf bytes.Buffer
	if err := snap.Encode(&buf); err != nil {
		t.Fatalf("encode: %v", err)
	}
	got, err := DecodeSnapshot(&buf)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if got.Unit != "unit-1" || len(got.Records) != 2 || !got.Records[1].Written || got.Records[1].Line != 2 {
		t.Fatalf("unexpected decoded snapshot: %+v", got)
	}
}

func TestResetClearsTable(t *testing.T) {
	_, op, _ := newModel(t)
	tr := New()
	tr.MarkReadAccess(op)
	tr.Reset()
	if tr.Len() != 0 || tr.IsRead(op) {
		t.Fatalf("reset must clear records")
	}
}
