package navmesh

import "testing"

func TestBuildCompactHeightfield(t *testing.T) {
	hf := NewHeightfield(1, 1, [3]float32{}, [3]float32{0, 10, 0}, 1, 1)
	hf.addSpan(0, 0, 0, 1, 1, 1)
	hf.addSpan(0, 0, 3, 4, 1, 1)

	chf, err := BuildCompactHeightfield(nil, 2, 1, hf)
	if err != nil {
		t.Fatalf("BuildCompactHeightfield() error = %v", err)
	}
	if chf.SpanCount != 2 {
		t.Fatalf("SpanCount = %d, want 2", chf.SpanCount)
	}
	if chf.Cells[0].Count != 2 {
		t.Fatalf("column span count = %d, want 2", chf.Cells[0].Count)
	}
}

// TestBuildCompactHeightfieldRejectsColumnOverrun packs a single column
// with more than NotConnected (63) walkable spans, one voxel thick
// with a one-voxel gap between each so none of them merge. Con packs a
// neighbor index into 6 bits, so a 64th span in the same column would
// silently wrap its encoded index instead of failing loudly.
func TestBuildCompactHeightfieldRejectsColumnOverrun(t *testing.T) {
	hf := NewHeightfield(1, 1, [3]float32{}, [3]float32{0, 1000, 0}, 1, 1)
	for i := int32(0); i < 70; i++ {
		hf.addSpan(0, 0, uint16(i*2), uint16(i*2+1), 1, 1)
	}

	_, err := BuildCompactHeightfield(nil, 1, 0, hf)
	if err == nil {
		t.Fatalf("expected an error for a column with more than 63 walkable spans")
	}
	nerr, ok := err.(*Error)
	if !ok {
		t.Fatalf("error type = %T, want *Error", err)
	}
	if nerr.Category != ErrResourceExhausted || nerr.Code != CodeTooManySpansInColumn {
		t.Fatalf("error = %+v, want category %s code %d", nerr, ErrResourceExhausted, CodeTooManySpansInColumn)
	}
}

// TestBuildCompactHeightfieldColumnCapBoundary pins down the exact
// boundary: a column of exactly 63 walkable spans (local indices 0..62)
// must succeed, since 63 is also NotConnected's value and Con must still
// be able to distinguish "neighbor at local index 62" from "no neighbor".
// A 64th span must fail.
func TestBuildCompactHeightfieldColumnCapBoundary(t *testing.T) {
	buildColumn := func(n int32) (*CompactHeightfield, error) {
		hf := NewHeightfield(1, 1, [3]float32{}, [3]float32{0, 1000, 0}, 1, 1)
		for i := int32(0); i < n; i++ {
			hf.addSpan(0, 0, uint16(i*2), uint16(i*2+1), 1, 1)
		}
		return BuildCompactHeightfield(nil, 1, 0, hf)
	}

	chf, err := buildColumn(63)
	if err != nil {
		t.Fatalf("63 spans: unexpected error = %v", err)
	}
	if chf.Cells[0].Count != 63 {
		t.Fatalf("63 spans: column span count = %d, want 63", chf.Cells[0].Count)
	}

	if _, err := buildColumn(64); err == nil {
		t.Fatalf("64 spans: expected an error, got none")
	}
}
