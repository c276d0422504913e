package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// RootCmd is the base command invoked when navmeshc is called without a
// subcommand.
var RootCmd = &cobra.Command{
	Use:   "navmeshc",
	Short: "build navigation meshes from level geometry",
	Long: `navmeshc builds navigation meshes from OBJ level geometry:
	- build a navmesh from an input OBJ and a YAML build profile,
	- write a prefilled default build profile,
	- print summary info about a previously built navmesh dump.`,
}

// Execute runs RootCmd. Called once from main.main.
func Execute() {
	if err := RootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}
