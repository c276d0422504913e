package geom

import "testing"

func TestLoadInputGeom(t *testing.T) {
	path := writeTempOBJ(t, squareOBJ)

	ig, err := LoadInputGeom(path, 1)
	if err != nil {
		t.Fatalf("LoadInputGeom() error = %v", err)
	}
	if ig.Mesh.NTris != 2 {
		t.Fatalf("Mesh.NTris = %d, want 2", ig.Mesh.NTris)
	}
	if ig.ChunkyMesh == nil {
		t.Fatalf("expected a non-nil ChunkyMesh")
	}
	if len(ig.ChunkyMesh.Tris())/3 != 2 {
		t.Fatalf("ChunkyMesh should index all 2 triangles")
	}
}

func TestInputGeomConvexVolumes(t *testing.T) {
	ig := &InputGeom{}

	ig.AddConvexVolume([][2]float32{{0, 0}, {1, 0}, {1, 1}}, 0, 1, 5)
	ig.AddConvexVolume([][2]float32{{2, 2}, {3, 2}, {3, 3}}, 0, 1, 6)
	if len(ig.Volumes) != 2 {
		t.Fatalf("expected 2 volumes, got %d", len(ig.Volumes))
	}

	ig.DeleteConvexVolume(0)
	if len(ig.Volumes) != 1 {
		t.Fatalf("expected 1 volume after delete, got %d", len(ig.Volumes))
	}
	if ig.Volumes[0].AreaID != 6 {
		t.Fatalf("expected remaining volume to have AreaID 6, got %d", ig.Volumes[0].AreaID)
	}
}

func TestInputGeomOffMeshConnections(t *testing.T) {
	ig := &InputGeom{}

	ig.AddOffMeshConnection(OffMeshConnection{Start: [3]float32{0, 0, 0}, End: [3]float32{1, 0, 1}, Radius: 0.5})
	ig.AddOffMeshConnection(OffMeshConnection{Start: [3]float32{2, 0, 2}, End: [3]float32{3, 0, 3}, Radius: 0.5})
	if len(ig.Connections) != 2 {
		t.Fatalf("expected 2 connections, got %d", len(ig.Connections))
	}

	ig.DeleteOffMeshConnection(0)
	if len(ig.Connections) != 1 {
		t.Fatalf("expected 1 connection after delete, got %d", len(ig.Connections))
	}
	if ig.Connections[0].Start != ([3]float32{2, 0, 2}) {
		t.Fatalf("expected remaining connection to start at {2,0,2}, got %v", ig.Connections[0].Start)
	}
}
