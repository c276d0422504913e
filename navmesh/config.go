package navmesh

import assert "github.com/aurelien-rainone/assertgo"

// Config specifies a configuration to use when running a navmesh Build.
//
// All fields are required unless documented otherwise. Distances marked
// "vx" are in voxel/cell units; "wu" are in world units.
type Config struct {
	// Width and Height of the field along the x/z axes. [Units: vx]
	Width, Height int32

	// TileSize is the width/height of a tile on the xz-plane. Build does
	// not read it; border painting and portal encoding use BorderSize.
	// [Units: vx]
	TileSize int32

	// BorderSize is the width of the non-navigable border painted around
	// the heightfield. [Units: vx]
	BorderSize int32

	// Cs is the xz-plane cell size. [Units: wu] [Limit: > 0]
	Cs float32

	// Ch is the y-axis cell size. [Units: wu] [Limit: > 0]
	Ch float32

	// BMin, BMax are the world-space bounds of the field. If both are
	// zero-valued, they are derived from the input vertices.
	BMin, BMax [3]float32

	// WalkableSlopeAngle is the maximum slope, in degrees, still
	// considered walkable. [Limit: 0 <= value < 90]
	WalkableSlopeAngle float32

	// WalkableHeight is the minimum floor-to-ceiling clearance an agent
	// needs. [Units: vx] [Limit: >= 1]
	WalkableHeight int32

	// WalkableClimb is the maximum ledge height an agent can still climb.
	// [Units: vx] [Limit: >= 0]
	WalkableClimb int32

	// WalkableRadius is the agent radius used to erode the walkable area
	// away from obstructions. [Units: vx] [Limit: >= 0]
	WalkableRadius int32

	// MaxEdgeLen is the maximum length allowed for contour edges along
	// the mesh border before they are tessellated. 0 disables.
	// [Units: vx]
	MaxEdgeLen int32

	// MaxSimplificationError is the maximum distance a simplified
	// contour edge may deviate from the raw boundary. [Units: vx]
	// [Limit: > 0]
	MaxSimplificationError float32

	// MinRegionArea is the minimum span count an isolated region must
	// have to survive the region filter. [Units: vx]
	MinRegionArea int32

	// MergeRegionArea is the span-count threshold below which a region
	// is merged into a neighbor, when possible. [Units: vx]
	MergeRegionArea int32

	// MaxVertsPerPoly bounds the vertex count of polygons produced
	// during polygonization. [Limit: 3 <= value <= 12]
	MaxVertsPerPoly int32

	// DetailSampleDist is the sampling distance used to build the detail
	// mesh. 0 disables detail-mesh sampling. [Units: wu]
	DetailSampleDist float32

	// DetailSampleMaxError is the maximum allowed deviation of the
	// detail mesh surface from the source heightfield. [Units: wu]
	DetailSampleMaxError float32
}

// Validate checks the subset of Config invariants that can be verified
// without reference to input geometry, returning an *Error with category
// InvalidParameter on the first violation found.
func (c *Config) Validate() error {
	switch {
	case c.Cs <= 0:
		return newError(ErrInvalidParameter, CodeBadCellSize, "cs must be > 0")
	case c.Ch <= 0:
		return newError(ErrInvalidParameter, CodeBadCellSize, "ch must be > 0")
	case c.WalkableSlopeAngle < 0 || c.WalkableSlopeAngle >= 90:
		return newError(ErrInvalidParameter, CodeBadSlopeAngle, "walkableSlopeAngle must be in [0, 90)")
	case c.WalkableHeight < 1:
		return newError(ErrInvalidParameter, CodeBadWalkableHeight, "walkableHeight must be >= 1")
	case c.WalkableClimb < 0:
		return newError(ErrInvalidParameter, CodeBadWalkableClimb, "walkableClimb must be >= 0")
	case c.WalkableRadius < 0:
		return newError(ErrInvalidParameter, CodeBadWalkableRadius, "walkableRadius must be >= 0")
	case c.MaxEdgeLen < 0:
		return newError(ErrInvalidParameter, CodeBadMaxEdgeLen, "maxEdgeLen must be >= 0")
	case c.MaxSimplificationError <= 0:
		return newError(ErrInvalidParameter, CodeBadSimplificationError, "maxSimplificationError must be > 0")
	case c.MinRegionArea < 0:
		return newError(ErrInvalidParameter, CodeBadRegionArea, "minRegionArea must be >= 0")
	case c.MergeRegionArea < 0:
		return newError(ErrInvalidParameter, CodeBadRegionArea, "mergeRegionArea must be >= 0")
	case c.MaxVertsPerPoly < 3 || c.MaxVertsPerPoly > 12:
		return newError(ErrInvalidParameter, CodeBadVertsPerPoly, "maxVertsPerPoly must be in [3, 12]")
	}
	return nil
}

// CalcGridSize calculates the voxel grid size spanning bmin..bmax at cell
// size cs.
func CalcGridSize(bmin, bmax [3]float32, cs float32) (w, h int32) {
	w = int32((bmax[0]-bmin[0])/cs + 0.5)
	h = int32((bmax[2]-bmin[2])/cs + 0.5)
	return
}

// CalcBounds computes the AABB of a packed (x,y,z) vertex buffer.
func CalcBounds(verts []float32) (bmin, bmax [3]float32) {
	assert.True(len(verts) >= 3 && len(verts)%3 == 0, "verts should hold at least one packed (x,y,z) vertex")

	bmin[0], bmin[1], bmin[2] = verts[0], verts[1], verts[2]
	bmax = bmin
	for i := 3; i+2 < len(verts); i += 3 {
		for k := 0; k < 3; k++ {
			if verts[i+k] < bmin[k] {
				bmin[k] = verts[i+k]
			}
			if verts[i+k] > bmax[k] {
				bmax[k] = verts[i+k]
			}
		}
	}
	return
}
