// Package geom loads level geometry and the navmesh build inputs derived
// from it: the flat triangle soup Build consumes, a spatial index over
// that soup for fast region queries, and the convex volumes that paint
// custom area ids before region partitioning.
package geom

import (
	"github.com/aurelien-rainone/gobj"
	"github.com/aurelien-rainone/math32"

	"github.com/polytopix/navmesh/navmesh"
)

// Mesh is an indexed triangle soup scaled and ready to feed
// navmesh.Build, plus its per-triangle face normals.
type Mesh struct {
	Verts   []float32 // packed (x,y,z) * NVerts
	Tris    []int32   // packed (a,b,c) * NTris, indices into Verts
	Normals []float32 // packed (x,y,z) * NTris
	NVerts  int32
	NTris   int32
}

// Load reads an OBJ file, scaling every vertex by scale (pass 1 for no
// scaling). gobj resolves face indices into vertex values while
// parsing, so unlike an index-preserving loader, geometry shared between
// faces is duplicated here rather than welded — acceptable for Build,
// which only cares about the triangle soup, not vertex identity.
func Load(path string, scale float32) (*Mesh, error) {
	obj, err := gobj.Load(path)
	if err != nil {
		return nil, err
	}

	m := &Mesh{}
	for _, poly := range obj.Polys() {
		if len(poly) < 3 {
			continue
		}
		base := m.NVerts
		for _, v := range poly {
			m.Verts = append(m.Verts, float32(v.X())*scale, float32(v.Y())*scale, float32(v.Z())*scale)
			m.NVerts++
		}
		for i := int32(2); i < int32(len(poly)); i++ {
			m.Tris = append(m.Tris, base, base+i-1, base+i)
			m.NTris++
		}
	}

	m.Normals = make([]float32, m.NTris*3)
	for i := int32(0); i < m.NTris; i++ {
		v0 := m.Verts[m.Tris[i*3+0]*3:]
		v1 := m.Verts[m.Tris[i*3+1]*3:]
		v2 := m.Verts[m.Tris[i*3+2]*3:]
		var e0, e1 [3]float32
		for k := 0; k < 3; k++ {
			e0[k] = v1[k] - v0[k]
			e1[k] = v2[k] - v0[k]
		}
		n := m.Normals[i*3 : i*3+3]
		n[0] = e0[1]*e1[2] - e0[2]*e1[1]
		n[1] = e0[2]*e1[0] - e0[0]*e1[2]
		n[2] = e0[0]*e1[1] - e0[1]*e1[0]
		d := math32.Sqrt(n[0]*n[0] + n[1]*n[1] + n[2]*n[2])
		if d > 0 {
			d = 1 / d
			n[0] *= d
			n[1] *= d
			n[2] *= d
		}
	}

	return m, nil
}

// Bounds computes the mesh's world-space AABB, matching
// navmesh.CalcBounds so InputGeom and Build agree on the same box.
func (m *Mesh) Bounds() ([3]float32, [3]float32) {
	return navmesh.CalcBounds(m.Verts)
}
