package navmesh

import "testing"

// buildFlatCHF assembles a CompactHeightfield directly from a walkable
// grid, bypassing rasterization: one span per walkable cell at Y=0 with
// generous clearance, cardinal Con links wired to every in-bounds
// walkable neighbor. walkable is indexed [z][x].
func buildFlatCHF(walkable [][]bool) *CompactHeightfield {
	h := int32(len(walkable))
	w := int32(len(walkable[0]))

	chf := &CompactHeightfield{
		Width: w, Height: h,
		Cells: make([]CompactCell, w*h),
	}

	var spans []CompactSpan
	var areas []uint8
	for z := int32(0); z < h; z++ {
		for x := int32(0); x < w; x++ {
			if !walkable[z][x] {
				continue
			}
			idx := uint32(len(spans))
			spans = append(spans, CompactSpan{Y: 0, H: 100})
			areas = append(areas, 1)
			chf.Cells[x+z*w] = CompactCell{Index: idx, Count: 1}
		}
	}
	chf.Spans = spans
	chf.Areas = areas
	chf.SpanCount = int32(len(spans))

	inBounds := func(x, z int32) bool { return x >= 0 && x < w && z >= 0 && z < h }
	present := func(x, z int32) bool { return inBounds(x, z) && walkable[z][x] }

	// Every present cell holds exactly one span, so a neighbor's local
	// index within its own cell is always 0.
	for z := int32(0); z < h; z++ {
		for x := int32(0); x < w; x++ {
			if !walkable[z][x] {
				continue
			}
			s := &chf.Spans[chf.Cells[x+z*w].Index]
			for dir := int32(0); dir < 4; dir++ {
				nx, nz := x+dirOffsetXDir(dir), z+dirOffsetZDir(dir)
				if present(nx, nz) {
					SetCon(s, dir, 0)
				} else {
					SetCon(s, dir, NotConnected)
				}
			}
		}
	}
	return chf
}

// referenceChamferDistance independently computes, for every walkable
// cell, its shortest-path distance (cardinal hop cost 2, diagonal hop
// cost 3) to the nearest cell with a missing cardinal neighbor, using
// the same four single-path diagonals the two-pass chamfer sweep
// relies on: SW via west-then-south, SE via south-then-east, NE via
// east-then-north, NW via north-then-west. It is a plain relaxation to
// a fixpoint, not a port of chamferPass/distChamferPass16.
func referenceChamferDistance(walkable [][]bool) [][]int32 {
	h := len(walkable)
	w := len(walkable[0])

	inBounds := func(x, z int) bool { return x >= 0 && x < w && z >= 0 && z < h }
	present := func(x, z int) bool { return inBounds(x, z) && walkable[z][x] }

	const inf = int32(1 << 20)
	dist := make([][]int32, h)
	for z := range dist {
		dist[z] = make([]int32, w)
		for x := range dist[z] {
			dist[z][x] = inf
		}
	}

	isBorder := func(x, z int) bool {
		for dir := 0; dir < 4; dir++ {
			dx, dz := int(dirOffsetXDir(int32(dir))), int(dirOffsetZDir(int32(dir)))
			if !present(x+dx, z+dz) {
				return true
			}
		}
		return false
	}

	for z := 0; z < h; z++ {
		for x := 0; x < w; x++ {
			if walkable[z][x] && isBorder(x, z) {
				dist[z][x] = 0
			}
		}
	}

	relax := func(x, z, nx, nz int, cost int32) {
		if !present(nx, nz) {
			return
		}
		if d := dist[nz][nx] + cost; d < dist[z][x] {
			dist[z][x] = d
		}
	}

	for iter := 0; iter < w+h; iter++ {
		changed := false
		for z := 0; z < h; z++ {
			for x := 0; x < w; x++ {
				if !walkable[z][x] {
					continue
				}
				before := dist[z][x]
				for dir := 0; dir < 4; dir++ {
					dx, dz := int(dirOffsetXDir(int32(dir))), int(dirOffsetZDir(int32(dir)))
					relax(x, z, x+dx, z+dz, 2)
				}
				if present(x-1, z) && present(x-1, z-1) {
					relax(x, z, x-1, z-1, 3) // SW
				}
				if present(x, z-1) && present(x+1, z-1) {
					relax(x, z, x+1, z-1, 3) // SE
				}
				if present(x+1, z) && present(x+1, z+1) {
					relax(x, z, x+1, z+1, 3) // NE
				}
				if present(x, z+1) && present(x-1, z+1) {
					relax(x, z, x-1, z+1, 3) // NW
				}
				if dist[z][x] != before {
					changed = true
				}
			}
		}
		if !changed {
			break
		}
	}
	return dist
}

// diagonalWallGrid carves a single-cell-wide diagonal wall of holes
// across an n x n grid, splitting it into two triangular walkable
// regions. Cells near the wall but not touching it must route around
// its corners, which only a correctly-wired SW/NE diagonal chamfer hop
// can shortcut as cheaply as the true grid distance.
func diagonalWallGrid(n int) [][]bool {
	g := make([][]bool, n)
	for z := range g {
		g[z] = make([]bool, n)
		for x := range g[z] {
			g[z][x] = x+z != n-1
		}
	}
	return g
}

func TestComputeDistanceFieldMatchesBruteForce(t *testing.T) {
	grid := diagonalWallGrid(11)
	chf := buildFlatCHF(grid)

	got, err := computeDistanceField(nil, chf)
	if err != nil {
		t.Fatalf("computeDistanceField() error = %v", err)
	}
	want := referenceChamferDistance(grid)

	w, h := chf.Width, chf.Height
	mismatches := 0
	for z := int32(0); z < h; z++ {
		for x := int32(0); x < w; x++ {
			if !grid[z][x] {
				continue
			}
			i := chf.Cells[x+z*w].Index
			if int32(got[i]) != want[z][x] {
				t.Errorf("dist(%d,%d) = %d, want %d", x, z, got[i], want[z][x])
				mismatches++
			}
			if mismatches > 10 {
				t.Fatal("too many mismatches, aborting")
			}
		}
	}
}

func TestErodeWalkableAreaMatchesBruteForce(t *testing.T) {
	grid := diagonalWallGrid(11)
	chf := buildFlatCHF(grid)
	want := referenceChamferDistance(grid)

	const radius = int32(2)
	if err := ErodeWalkableArea(nil, radius, chf); err != nil {
		t.Fatalf("ErodeWalkableArea() error = %v", err)
	}

	w, h := chf.Width, chf.Height
	for z := int32(0); z < h; z++ {
		for x := int32(0); x < w; x++ {
			if !grid[z][x] {
				continue
			}
			i := chf.Cells[x+z*w].Index
			wantEroded := want[z][x] < radius*2
			gotEroded := chf.Areas[i] == NullArea
			if gotEroded != wantEroded {
				t.Errorf("eroded(%d,%d) = %v, want %v (dist=%d, thr=%d)", x, z, gotEroded, wantEroded, want[z][x], radius*2)
			}
		}
	}
}
