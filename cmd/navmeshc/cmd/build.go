package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/polytopix/navmesh/geom"
	"github.com/polytopix/navmesh/navmesh"
)

var buildCmd = &cobra.Command{
	Use:   "build OUTFILE",
	Short: "build a navigation mesh from input geometry",
	Long: `Build a navigation mesh from input geometry in OBJ format.
The build is controlled by the profile loaded with --profile. The
resulting PolyMesh/PolyMeshDetail pair is written to OUTFILE as a YAML
debug dump.`,
	Args: cobra.ExactArgs(1),
	Run:  runBuild,
}

var (
	profilePath string
	inputPath   string
)

func init() {
	RootCmd.AddCommand(buildCmd)

	buildCmd.Flags().StringVar(&profilePath, "profile", "navmeshc.yml", "build profile")
	buildCmd.Flags().StringVar(&inputPath, "input", "", "input geometry OBJ file (required)")
	buildCmd.MarkFlagRequired("input")
}

func runBuild(cmd *cobra.Command, args []string) {
	outPath := args[0]

	profile, err := loadProfile(profilePath)
	check(err)

	ig, err := geom.LoadInputGeom(inputPath, profile.Scale)
	check(err)

	ctx := navmesh.NewContext()
	cfg := profile.toConfig()
	cfg.BMin, cfg.BMax = ig.BMin, ig.BMax

	result, err := navmesh.Build(ctx, cfg, ig.Mesh.Verts, ig.Mesh.Tris, ig.Volumes, profile.partitionType())
	if err != nil {
		for _, m := range ctx.Messages() {
			fmt.Fprintln(os.Stderr, m)
		}
		check(err)
	}

	check(writeDump(outPath, dumpFromResult(result)))

	fmt.Printf("wrote %s (%d verts, %d polys)\n", outPath, result.Mesh.NVerts, result.Mesh.NPolys)
	ctx.DumpTimings(os.Stdout)
}
