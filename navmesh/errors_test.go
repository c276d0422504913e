package navmesh

import (
	"strings"
	"testing"
)

func TestNewError(t *testing.T) {
	err := newError(ErrInvalidGeometry, CodeEmptyGeometry, "no input geometry")
	if err.Category != ErrInvalidGeometry {
		t.Fatalf("Category = %v, want %v", err.Category, ErrInvalidGeometry)
	}
	if err.Code != CodeEmptyGeometry {
		t.Fatalf("Code = %v, want %v", err.Code, CodeEmptyGeometry)
	}
	if !strings.Contains(err.Error(), "no input geometry") {
		t.Fatalf("Error() = %q, want it to contain the message", err.Error())
	}
}

func TestNewErrorf(t *testing.T) {
	err := newErrorf(ErrAlgorithmFailed, CodeTriangulationFailed, "contour %d has %d verts", 3, 2)
	want := "contour 3 has 2 verts"
	if err.Message != want {
		t.Fatalf("Message = %q, want %q", err.Message, want)
	}
}

func TestErrorWith(t *testing.T) {
	err := newError(ErrInvalidParameter, CodeBadCellSize, "cs must be > 0").With("cs", -1)
	v, ok := err.Context["cs"]
	if !ok {
		t.Fatalf("expected Context to carry key %q", "cs")
	}
	if v != -1 {
		t.Fatalf("Context[\"cs\"] = %v, want -1", v)
	}
}
