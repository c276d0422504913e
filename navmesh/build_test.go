package navmesh

import "testing"

// flatPlane returns a tessellated NxN unit-quad flat plane on the xz
// plane at y=0, large enough to produce a handful of walkable voxel
// columns and at least one region under typical agent settings.
func flatPlane(n int) ([]float32, []int32) {
	var verts []float32
	for z := 0; z <= n; z++ {
		for x := 0; x <= n; x++ {
			verts = append(verts, float32(x), 0, float32(z))
		}
	}
	var tris []int32
	stride := int32(n + 1)
	for z := 0; z < n; z++ {
		for x := 0; x < n; x++ {
			a := int32(z)*stride + int32(x)
			b := a + 1
			c := a + stride
			d := c + 1
			tris = append(tris, a, c, b, b, c, d)
		}
	}
	return verts, tris
}

func testConfig() *Config {
	return &Config{
		Cs:                     0.3,
		Ch:                     0.2,
		WalkableSlopeAngle:     45,
		WalkableHeight:         2,
		WalkableClimb:          1,
		WalkableRadius:         1,
		MaxEdgeLen:             12,
		MaxSimplificationError: 1.3,
		MinRegionArea:          2,
		MergeRegionArea:        4,
		MaxVertsPerPoly:        6,
		DetailSampleDist:       6 * 0.3,
		DetailSampleMaxError:   1 * 0.2,
	}
}

func TestBuildFlatPlaneWatershed(t *testing.T) {
	verts, tris := flatPlane(20)
	ctx := NewContext()
	cfg := testConfig()

	result, err := Build(ctx, cfg, verts, tris, nil, PartitionWatershed)
	if err != nil {
		t.Fatalf("Build() error = %v; log: %v", err, ctx.Messages())
	}
	if result.Mesh == nil || result.Mesh.NPolys == 0 {
		t.Fatalf("expected at least one polygon, got %+v", result.Mesh)
	}
	if result.Detail == nil || result.Detail.NMeshes != result.Mesh.NPolys {
		t.Fatalf("expected one detail sub-mesh per polygon")
	}
}

func TestBuildFlatPlaneMonotone(t *testing.T) {
	verts, tris := flatPlane(20)
	ctx := NewContext()
	cfg := testConfig()

	result, err := Build(ctx, cfg, verts, tris, nil, PartitionMonotone)
	if err != nil {
		t.Fatalf("Build() error = %v; log: %v", err, ctx.Messages())
	}
	if result.Mesh == nil || result.Mesh.NPolys == 0 {
		t.Fatalf("expected at least one polygon, got %+v", result.Mesh)
	}
}

func TestBuildRejectsInvalidConfig(t *testing.T) {
	verts, tris := flatPlane(4)
	cfg := testConfig()
	cfg.Cs = 0

	_, err := Build(nil, cfg, verts, tris, nil, PartitionWatershed)
	if err == nil {
		t.Fatalf("expected an error for an invalid config")
	}
}

func TestBuildRejectsEmptyGeometry(t *testing.T) {
	cfg := testConfig()
	_, err := Build(nil, cfg, nil, nil, nil, PartitionWatershed)
	if err == nil {
		t.Fatalf("expected an error for empty geometry")
	}
}

func TestBuildWithConvexVolume(t *testing.T) {
	verts, tris := flatPlane(20)
	cfg := testConfig()

	vol := ConvexVolume{
		Verts:  [][2]float32{{2, 2}, {6, 2}, {6, 6}, {2, 6}},
		YMin:   -1,
		YMax:   1,
		AreaID: NullArea,
	}

	result, err := Build(nil, cfg, verts, tris, []ConvexVolume{vol}, PartitionWatershed)
	if err != nil {
		t.Fatalf("Build() error = %v", err)
	}
	if result.Mesh.NPolys == 0 {
		t.Fatalf("expected at least one polygon")
	}
}
