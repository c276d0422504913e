package geom

import "github.com/polytopix/navmesh/navmesh"

// maxTrisPerChunk bounds how many triangles a ChunkyTriMesh leaf holds.
const maxTrisPerChunk = 256

// OffMeshConnection is a scripted link between two points on the mesh
// that the walkable surface itself doesn't provide — a ladder, a jump,
// a teleporter. InputGeom stores them; the navmesh build does not use
// them.
type OffMeshConnection struct {
	Start, End [3]float32
	Radius     float32
	Bidir      bool
	Area       uint8
	Flags      uint16
	UserID     uint32
}

// InputGeom gathers everything a Build call needs from a level: the
// triangle soup and its spatial index, plus author-placed convex
// volumes and off-mesh connections layered on top of it. Volumes and
// connections are plain slices rather than fixed-size arrays, since
// this package has no interactive editor imposing a capacity budget.
type InputGeom struct {
	Mesh       *Mesh
	ChunkyMesh *ChunkyTriMesh

	BMin, BMax [3]float32

	Volumes     []navmesh.ConvexVolume
	Connections []OffMeshConnection
}

// LoadInputGeom reads path as an OBJ file and builds the spatial index
// over it, on top of the plain Load mesh loader.
func LoadInputGeom(path string, scale float32) (*InputGeom, error) {
	mesh, err := Load(path, scale)
	if err != nil {
		return nil, err
	}
	bmin, bmax := mesh.Bounds()
	return &InputGeom{
		Mesh:       mesh,
		ChunkyMesh: NewChunkyTriMesh(mesh.Verts, mesh.Tris, maxTrisPerChunk),
		BMin:       bmin,
		BMax:       bmax,
	}, nil
}

// AddConvexVolume appends a new convex volume to the geometry. verts is
// the polygon's 2D (x,z) footprint.
func (ig *InputGeom) AddConvexVolume(verts [][2]float32, ymin, ymax float32, area uint8) {
	ig.Volumes = append(ig.Volumes, navmesh.ConvexVolume{
		Verts:  verts,
		YMin:   ymin,
		YMax:   ymax,
		AreaID: area,
	})
}

// DeleteConvexVolume removes the ith convex volume.
func (ig *InputGeom) DeleteConvexVolume(i int) {
	ig.Volumes = append(ig.Volumes[:i], ig.Volumes[i+1:]...)
}

// AddOffMeshConnection appends a new off-mesh connection to the
// geometry.
func (ig *InputGeom) AddOffMeshConnection(c OffMeshConnection) {
	ig.Connections = append(ig.Connections, c)
}

// DeleteOffMeshConnection removes the ith off-mesh connection.
func (ig *InputGeom) DeleteOffMeshConnection(i int) {
	ig.Connections = append(ig.Connections[:i], ig.Connections[i+1:]...)
}
