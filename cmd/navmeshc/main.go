// Command navmeshc builds navigation meshes from OBJ level geometry
// using the navmesh package, driven by a YAML build profile.
package main

import "github.com/polytopix/navmesh/cmd/navmeshc/cmd"

func main() {
	cmd.Execute()
}
