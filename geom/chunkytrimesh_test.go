package geom

import "testing"

// a 2x2 grid of 8 triangles (4 unit quads split in half), on the xz
// plane at y=0, used to exercise chunk subdivision and overlap queries.
func gridMesh() ([]float32, []int32) {
	verts := []float32{
		0, 0, 0,
		1, 0, 0,
		2, 0, 0,
		0, 0, 1,
		1, 0, 1,
		2, 0, 1,
		0, 0, 2,
		1, 0, 2,
		2, 0, 2,
	}
	tris := []int32{
		0, 1, 4, 0, 4, 3,
		1, 2, 5, 1, 5, 4,
		3, 4, 7, 3, 7, 6,
		4, 5, 8, 4, 8, 7,
	}
	return verts, tris
}

func TestNewChunkyTriMesh(t *testing.T) {
	verts, tris := gridMesh()
	cm := NewChunkyTriMesh(verts, tris, 2)

	if got := len(cm.Tris()) / 3; got != 8 {
		t.Fatalf("Tris() should carry all 8 triangles, got %d", got)
	}
	if cm.MaxTrisPerChunk() > 2 {
		t.Fatalf("MaxTrisPerChunk() = %d, want <= 2", cm.MaxTrisPerChunk())
	}
}

func TestChunksOverlappingRect(t *testing.T) {
	verts, tris := gridMesh()
	cm := NewChunkyTriMesh(verts, tris, 2)

	t.Run("whole mesh", func(t *testing.T) {
		chunks := cm.ChunksOverlappingRect([2]float32{-1, -1}, [2]float32{3, 3})
		var total int32
		for _, c := range chunks {
			total += c[1]
		}
		if total != 8 {
			t.Fatalf("expected all 8 triangles across overlapping chunks, got %d", total)
		}
	})

	t.Run("no overlap", func(t *testing.T) {
		chunks := cm.ChunksOverlappingRect([2]float32{10, 10}, [2]float32{11, 11})
		if len(chunks) != 0 {
			t.Fatalf("expected no overlapping chunks, got %d", len(chunks))
		}
	})

	t.Run("partial overlap returns a subset", func(t *testing.T) {
		chunks := cm.ChunksOverlappingRect([2]float32{-1, -1}, [2]float32{0.5, 0.5})
		var total int32
		for _, c := range chunks {
			total += c[1]
		}
		if total == 0 || total > 8 {
			t.Fatalf("expected a nonzero subset of triangles, got %d", total)
		}
	})
}
