package geom

import (
	"os"
	"path/filepath"
	"testing"
)

const squareOBJ = `
v 0 0 0
v 1 0 0
v 1 0 1
v 0 0 1
f 1 2 3 4
`

func writeTempOBJ(t *testing.T, content string) string {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "mesh.obj")
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("failed to write fixture: %v", err)
	}
	return path
}

func TestLoad(t *testing.T) {
	path := writeTempOBJ(t, squareOBJ)

	t.Run("unscaled", func(t *testing.T) {
		m, err := Load(path, 1)
		if err != nil {
			t.Fatalf("Load() error = %v", err)
		}
		if m.NVerts != 4 {
			t.Fatalf("NVerts = %d, want 4", m.NVerts)
		}
		// a single quad fan-triangulates into 2 triangles
		if m.NTris != 2 {
			t.Fatalf("NTris = %d, want 2", m.NTris)
		}
		if len(m.Normals) != int(m.NTris)*3 {
			t.Fatalf("len(Normals) = %d, want %d", len(m.Normals), m.NTris*3)
		}
	})

	t.Run("scaled", func(t *testing.T) {
		m, err := Load(path, 2)
		if err != nil {
			t.Fatalf("Load() error = %v", err)
		}
		if m.Verts[3] != 2 {
			t.Fatalf("scaled vertex x = %v, want 2", m.Verts[3])
		}
	})
}

func TestLoadBounds(t *testing.T) {
	path := writeTempOBJ(t, squareOBJ)
	m, err := Load(path, 1)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	bmin, bmax := m.Bounds()
	if bmin != ([3]float32{0, 0, 0}) {
		t.Fatalf("bmin = %v, want {0,0,0}", bmin)
	}
	if bmax != ([3]float32{1, 0, 1}) {
		t.Fatalf("bmax = %v, want {1,0,1}", bmax)
	}
}
