package navmesh

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

// TestPolyMeshStructuralInvariants builds a navmesh over a flat plane and
// checks aggregate structural invariants that are easier to assert with
// testify than to unroll by hand: NPolys is positive and at most
// MaxPolys, the area and region arrays hold MaxPolys entries, every
// vertex index before a polygon's first MeshNullIdx is below NVerts, and
// every polygon has at least 3 vertices.
func TestPolyMeshStructuralInvariants(t *testing.T) {
	verts, tris := flatPlane(20)
	cfg := testConfig()

	result, err := Build(nil, cfg, verts, tris, nil, PartitionWatershed)
	assert.NoError(t, err)
	assert.NotNil(t, result.Mesh)

	mesh := result.Mesh
	assert.Greater(t, mesh.NPolys, int32(0))
	assert.LessOrEqual(t, mesh.NPolys, mesh.MaxPolys)
	assert.Len(t, mesh.Areas, int(mesh.MaxPolys))
	assert.Len(t, mesh.Regs, int(mesh.MaxPolys))

	nvp := mesh.Nvp
	for i := int32(0); i < mesh.NPolys; i++ {
		p := mesh.Polys[i*nvp*2 : i*nvp*2+nvp]
		vertCount := 0
		for _, v := range p {
			if v == MeshNullIdx {
				break
			}
			assert.Less(t, v, uint16(mesh.NVerts), "polygon %d references an out-of-range vertex", i)
			vertCount++
		}
		assert.GreaterOrEqual(t, vertCount, 3, "polygon %d should have at least 3 vertices", i)
	}
}
