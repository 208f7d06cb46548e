package cmd

import (
	"fmt"
	"path/filepath"

	"github.com/apex/log"
	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/BiatuAutMiahn/wimboot"
	"github.com/BiatuAutMiahn/wimboot/pkg/vdisk"
)

// lsCmd represents the ls command
var lsCmd = &cobra.Command{
	Use:   "ls <MEDIUM>",
	Short: "List the file table extracted from a boot medium",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {

		if Verbose {
			log.SetLevel(log.DebugLevel)
		}

		boot, err := wimboot.Open(filepath.Clean(args[0]), bootConfig())
		if err != nil {
			return err
		}
		defer boot.Close()

		for _, e := range boot.Files() {
			name := e.Name
			if name == boot.BootFile() {
				name = vdisk.BootColor("%s", name)
			}
			var note string
			if e.Patched() {
				note = vdisk.PatchColor("patched")
			}
			fmt.Printf("%-32s %10s  %s\n", name, humanize.Bytes(uint64(e.Size)), note)
		}
		fmt.Printf("\nboot file: %s\n", vdisk.BootColor("%s", boot.BootFile()))

		return nil
	},
}

func init() {
	rootCmd.AddCommand(lsCmd)
}
