package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

var configCmd = &cobra.Command{
	Use:   "config FILE",
	Short: "write a build profile file",
	Long: `Write a build profile in YAML format, prefilled with default values.

If FILE is not provided, 'navmeshc.yml' is used.`,
	Run: func(cmd *cobra.Command, args []string) {
		path := "navmeshc.yml"
		if len(args) >= 1 {
			path = args[0]
		}
		ok, err := confirmIfExists(path, fmt.Sprintf("file %q already exists, overwrite? [y/N]", path))
		if !ok {
			if err == nil {
				fmt.Println("aborted by user")
			} else {
				fmt.Println("aborted,", err)
			}
			return
		}

		check(saveProfile(path, DefaultProfile()))
		fmt.Printf("build profile written to %q\n", path)
	},
}

func init() {
	RootCmd.AddCommand(configCmd)
}
