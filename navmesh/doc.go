// Package navmesh turns an indexed triangle soup describing the walkable
// surfaces of a level into a compact, connected, polygonal navigation mesh.
//
// The pipeline is a fixed sequence of stages, each owning its own transient
// buffers and handing its output to the next:
//
//   - Rasterize the input triangles into a voxel Heightfield.
//   - Filter the heightfield to remove spans an agent cannot stand on.
//   - Compact the heightfield into a CompactHeightfield with 4-neighbor
//     connectivity.
//   - Erode the walkable area by the agent radius and build a distance
//     field over what remains.
//   - Partition the compact heightfield into Regions, either by watershed
//     or monotone sweep.
//   - Trace and simplify the boundary of every region into a ContourSet.
//   - Triangulate and greedily merge the contours into a convex PolyMesh.
//   - Sample floor height per polygon to build a PolyMeshDetail.
//
// Build orchestrates the whole sequence; the individual Build* functions
// can also be called directly by a caller that wants to intervene between
// stages (for instance to paint custom area ids with MarkConvexPolyArea
// before distance-field construction).
package navmesh
