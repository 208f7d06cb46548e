package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/apex/log"
	"github.com/spf13/cobra"
	"github.com/vbauerster/mpb/v7"
	"github.com/vbauerster/mpb/v7/decor"

	"github.com/BiatuAutMiahn/wimboot"
	"github.com/BiatuAutMiahn/wimboot/pkg/vdisk"
)

const cpChunkSize = 64 * 1024

// cpCmd represents the cp command
var cpCmd = &cobra.Command{
	Use:   "cp <MEDIUM> <NAME> [DST]",
	Short: "Copy a served file out of a boot medium",
	Args:  cobra.MinimumNArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {

		if Verbose {
			log.SetLevel(log.DebugLevel)
		}

		boot, err := wimboot.Open(filepath.Clean(args[0]), bootConfig())
		if err != nil {
			return err
		}
		defer boot.Close()

		entry, ok := boot.Lookup(args[1])
		if !ok {
			return fmt.Errorf("no file %q on medium", args[1])
		}

		dest := entry.Name
		if len(args) > 2 {
			dest = filepath.Join(args[2], entry.Name)
		}

		if err := copyEntry(entry, dest); err != nil {
			log.Fatal(err.Error())
		}
		log.Infof("Created %s", dest)

		return nil
	},
}

// copyEntry writes the served (patched) content of an entry to dest.
func copyEntry(entry *vdisk.Entry, dest string) error {
	fo, err := os.Create(dest)
	if err != nil {
		return fmt.Errorf("failed to create %s: %v", dest, err)
	}
	defer fo.Close()

	// initialize progress bar
	p := mpb.New(mpb.WithWidth(80))
	bar := p.Add(entry.Size,
		mpb.NewBarFiller(mpb.BarStyle().Lbound("[").Filler("=").Tip(">").Padding("-").Rbound("|")),
		mpb.PrependDecorators(
			decor.Name(entry.Name, decor.WC{W: len(entry.Name) + 1, C: decor.DidentRight}),
			decor.OnComplete(
				decor.AverageETA(decor.ET_STYLE_GO, decor.WC{W: 4}), "✅ ",
			),
		),
		mpb.AppendDecorators(decor.Percentage()),
	)

	buf := make([]byte, cpChunkSize)
	for off := int64(0); off < entry.Size; off += cpChunkSize {
		n := entry.Size - off
		if n > cpChunkSize {
			n = cpChunkSize
		}
		if err := entry.ReadAt(buf[:n], off); err != nil {
			return err
		}
		if _, err := fo.Write(buf[:n]); err != nil {
			return fmt.Errorf("failed to write %s: %v", dest, err)
		}
		bar.IncrBy(int(n))
	}
	p.Wait()

	return nil
}

func init() {
	rootCmd.AddCommand(cpCmd)
}
