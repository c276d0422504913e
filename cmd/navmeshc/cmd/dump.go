package cmd

import (
	"io/ioutil"

	yaml "gopkg.in/yaml.v2"

	"github.com/polytopix/navmesh/navmesh"
)

// NavMeshDump is the debug serialization of a navmesh.Result. Per
// project scope this is a human-inspectable YAML dump, not the binary
// tile format a Detour-style runtime consumer would load.
type NavMeshDump struct {
	PolyMesh   PolyMeshDump       `yaml:"poly_mesh"`
	PolyDetail *PolyMeshDetailDump `yaml:"poly_mesh_detail,omitempty"`
}

// PolyMeshDump mirrors navmesh.PolyMesh field for field.
type PolyMeshDump struct {
	Verts        []uint16   `yaml:"verts"`
	Polys        []uint16   `yaml:"polys"`
	Regs         []uint16   `yaml:"regs"`
	Flags        []uint16   `yaml:"flags"`
	Areas        []uint8    `yaml:"areas"`
	NVerts       int32      `yaml:"nverts"`
	NPolys       int32      `yaml:"npolys"`
	Nvp          int32      `yaml:"nvp"`
	BMin         [3]float32 `yaml:"bmin,flow"`
	BMax         [3]float32 `yaml:"bmax,flow"`
	Cs           float32    `yaml:"cs"`
	Ch           float32    `yaml:"ch"`
	BorderSize   int32      `yaml:"border_size"`
	MaxEdgeError float32    `yaml:"max_edge_error"`
}

// PolyMeshDetailDump mirrors navmesh.PolyMeshDetail field for field.
type PolyMeshDetailDump struct {
	Meshes  []int32   `yaml:"meshes"`
	Verts   []float32 `yaml:"verts"`
	Tris    []uint8   `yaml:"tris"`
	NMeshes int32     `yaml:"nmeshes"`
	NVerts  int32     `yaml:"nverts"`
	NTris   int32     `yaml:"ntris"`
}

func dumpFromResult(r *navmesh.Result) NavMeshDump {
	d := NavMeshDump{
		PolyMesh: PolyMeshDump{
			Verts:        r.Mesh.Verts,
			Polys:        r.Mesh.Polys,
			Regs:         r.Mesh.Regs,
			Flags:        r.Mesh.Flags,
			Areas:        r.Mesh.Areas,
			NVerts:       r.Mesh.NVerts,
			NPolys:       r.Mesh.NPolys,
			Nvp:          r.Mesh.Nvp,
			BMin:         r.Mesh.BMin,
			BMax:         r.Mesh.BMax,
			Cs:           r.Mesh.Cs,
			Ch:           r.Mesh.Ch,
			BorderSize:   r.Mesh.BorderSize,
			MaxEdgeError: r.Mesh.MaxEdgeError,
		},
	}
	if r.Detail != nil {
		d.PolyDetail = &PolyMeshDetailDump{
			Meshes:  r.Detail.Meshes,
			Verts:   r.Detail.Verts,
			Tris:    r.Detail.Tris,
			NMeshes: r.Detail.NMeshes,
			NVerts:  r.Detail.NVerts,
			NTris:   r.Detail.NTris,
		}
	}
	return d
}

func writeDump(path string, d NavMeshDump) error {
	buf, err := yaml.Marshal(d)
	if err != nil {
		return err
	}
	return ioutil.WriteFile(path, buf, 0644)
}

func readDump(path string) (NavMeshDump, error) {
	var d NavMeshDump
	buf, err := ioutil.ReadFile(path)
	if err != nil {
		return d, err
	}
	err = yaml.Unmarshal(buf, &d)
	return d, err
}
