package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

var infoCmd = &cobra.Command{
	Use:   "info NAVMESH",
	Short: "show info about a built navmesh dump",
	Long: `Read a navmesh YAML dump written by "navmeshc build" and print
summary information about it on standard output.`,
	Args: cobra.ExactArgs(1),
	Run:  runInfo,
}

func init() {
	RootCmd.AddCommand(infoCmd)
}

func runInfo(cmd *cobra.Command, args []string) {
	dump, err := readDump(args[0])
	check(err)

	pm := dump.PolyMesh
	fmt.Printf("poly mesh:   %d verts, %d polys (max %d verts/poly), border %d\n",
		pm.NVerts, pm.NPolys, pm.Nvp, pm.BorderSize)
	fmt.Printf("bounds:      min %v max %v (cs=%.3f ch=%.3f)\n", pm.BMin, pm.BMax, pm.Cs, pm.Ch)

	if dump.PolyDetail != nil {
		pd := dump.PolyDetail
		fmt.Printf("detail mesh: %d sub-meshes, %d verts, %d tris\n", pd.NMeshes, pd.NVerts, pd.NTris)
	} else {
		fmt.Println("detail mesh: none")
	}
}
