package navmesh

import "testing"

func TestIMin(t *testing.T) {
	ttable := []struct{ a, b, res int32 }{
		{1, 2, 1},
		{2, 1, 1},
		{1, 1, 1},
	}
	for _, tt := range ttable {
		if got := iMin(tt.a, tt.b); got != tt.res {
			t.Fatalf("iMin(%v, %v) = %v, want %v", tt.a, tt.b, got, tt.res)
		}
	}
}

func TestIMax(t *testing.T) {
	ttable := []struct{ a, b, res int32 }{
		{1, 2, 2},
		{2, 1, 2},
		{1, 1, 1},
	}
	for _, tt := range ttable {
		if got := iMax(tt.a, tt.b); got != tt.res {
			t.Fatalf("iMax(%v, %v) = %v, want %v", tt.a, tt.b, got, tt.res)
		}
	}
}

func TestIClamp(t *testing.T) {
	ttable := []struct{ v, lo, hi, res int32 }{
		{5, 0, 10, 5},
		{-1, 0, 10, 0},
		{11, 0, 10, 10},
	}
	for _, tt := range ttable {
		if got := iClamp(tt.v, tt.lo, tt.hi); got != tt.res {
			t.Fatalf("iClamp(%v, %v, %v) = %v, want %v", tt.v, tt.lo, tt.hi, got, tt.res)
		}
	}
}

func TestDirForOffset(t *testing.T) {
	for dir := int32(0); dir < 4; dir++ {
		got := dirForOffset(dirOffsetXDir(dir), dirOffsetZDir(dir))
		if got != dir {
			t.Fatalf("dirForOffset(%d,%d) = %d, want %d", dirOffsetXDir(dir), dirOffsetZDir(dir), got, dir)
		}
	}
	if got := dirForOffset(1, 1); got != -1 {
		t.Fatalf("dirForOffset(1,1) = %d, want -1", got)
	}
}

func TestCalcGridSize(t *testing.T) {
	verts := []float32{
		1, 2, 3,
		0, 2, 6,
	}
	bmin, bmax := CalcBounds(verts)

	cellSize := float32(1.5)
	w, h := CalcGridSize(bmin, bmax, cellSize)
	if w != 1 {
		t.Fatalf("width should be 1, got %v", w)
	}
	if h != 2 {
		t.Fatalf("height should be 2, got %v", h)
	}
}

func TestNewHeightfield(t *testing.T) {
	verts := []float32{
		1, 2, 3,
		0, 2, 6,
	}
	bmin, bmax := CalcBounds(verts)
	cellSize := float32(1.5)
	cellHeight := float32(2)
	w, h := CalcGridSize(bmin, bmax, cellSize)

	hf := NewHeightfield(w, h, bmin, bmax, cellSize, cellHeight)
	if hf.Width != w {
		t.Fatalf("should have heightfield.Width == width")
	}
	if hf.Height != h {
		t.Fatalf("should have heightfield.Height == height")
	}
	if hf.Cs != cellSize {
		t.Fatalf("hf.Cs should equal cellSize")
	}
	if hf.Ch != cellHeight {
		t.Fatalf("hf.Ch should equal cellHeight")
	}
	if len(hf.spans) != int(w*h) {
		t.Fatalf("hf.spans should have w*h entries")
	}
}

func TestMarkWalkableTriangles(t *testing.T) {
	walkableSlopeAngle := float32(45)
	verts := []float32{
		0, 0, 0,
		1, 0, 0,
		0, 0, -1,
	}
	walkableTri := []int32{0, 1, 2}
	unwalkableTri := []int32{0, 2, 1}
	areas := []uint8{NullArea}

	t.Run("one walkable triangle", func(t *testing.T) {
		areas[0] = NullArea
		MarkWalkableTriangles(walkableSlopeAngle, verts, walkableTri, areas)
		if areas[0] != WalkableArea {
			t.Fatalf("areas[0] should be WalkableArea, got %v", areas[0])
		}
	})

	t.Run("one non-walkable triangle", func(t *testing.T) {
		areas[0] = NullArea
		MarkWalkableTriangles(walkableSlopeAngle, verts, unwalkableTri, areas)
		if areas[0] != NullArea {
			t.Fatalf("areas[0] should be NullArea, got %v", areas[0])
		}
	})

	t.Run("non-walkable triangle area ids are not modified", func(t *testing.T) {
		areas[0] = 42
		MarkWalkableTriangles(walkableSlopeAngle, verts, unwalkableTri, areas)
		if areas[0] != 42 {
			t.Fatalf("areas[0] should stay 42, got %v", areas[0])
		}
	})

	t.Run("slopes equal to the max slope are unwalkable", func(t *testing.T) {
		areas[0] = NullArea
		MarkWalkableTriangles(0, verts, walkableTri, areas)
		if areas[0] != NullArea {
			t.Fatalf("areas[0] should be NullArea, got %v", areas[0])
		}
	})
}
