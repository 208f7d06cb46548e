package cmd

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/apex/log"
	"github.com/c-bata/go-prompt"
	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/BiatuAutMiahn/wimboot"
	"github.com/BiatuAutMiahn/wimboot/pkg/vdisk"
)

type promptContext struct {
	boot *wimboot.Boot
}

var pctx *promptContext

func completer(d prompt.Document) []prompt.Suggest {
	s := []prompt.Suggest{
		{Text: "cat", Description: "Print served file content"},
		{Text: "cp", Description: "Copy served file out"},
		{Text: "exit", Description: "Quit prompt"},
		{Text: "ls", Description: "List the file table"},
	}
	for _, e := range pctx.boot.Files() {
		s = append(s, prompt.Suggest{Text: e.Name, Description: humanize.Bytes(uint64(e.Size))})
	}
	return prompt.FilterHasPrefix(s, d.TextBeforeCursor(), true)
}

func Executor(s string) {
	s = strings.TrimSpace(s)

	if s == "" {
		return
	} else if s == "exit" {
		os.Exit(0)
		return
	}

	args := strings.Fields(s)

	switch args[0] {
	case "ls":
		for _, e := range pctx.boot.Files() {
			name := e.Name
			if name == pctx.boot.BootFile() {
				name = vdisk.BootColor("%s", name)
			}
			fmt.Printf("%-32s %10s\n", name, humanize.Bytes(uint64(e.Size)))
		}
	case "cat":
		if len(args) < 2 {
			return
		}
		for i := 1; i < len(args); i++ {
			entry, ok := pctx.boot.Lookup(args[i])
			if !ok {
				fmt.Fprintln(os.Stderr, "no file: "+args[i])
				return
			}
			buf := make([]byte, entry.Size)
			if err := entry.ReadAt(buf, 0); err != nil {
				fmt.Fprintln(os.Stderr, "Error:", err.Error())
				return
			}
			os.Stdout.Write(buf)
		}
	case "cp":
		if len(args) < 2 {
			return
		}
		entry, ok := pctx.boot.Lookup(args[1])
		if !ok {
			fmt.Fprintln(os.Stderr, "no file: "+args[1])
			return
		}
		dest := entry.Name
		if len(args) >= 3 {
			dest = filepath.Join(args[2], entry.Name)
		}
		if err := copyEntry(entry, dest); err != nil {
			fmt.Fprintln(os.Stderr, "Error: "+err.Error())
			return
		}
	default:
		fmt.Fprintln(os.Stderr, "command not found: "+args[0])
	}
}

func PromptPrefix() (string, bool) {
	return "wimboot > ", true
}

// promptCmd represents the prompt command
var promptCmd = &cobra.Command{
	Use:   "prompt <MEDIUM>",
	Short: "Prompt to interactively browse an extracted boot medium",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if Verbose {
			log.SetLevel(log.DebugLevel)
		}

		boot, err := wimboot.Open(filepath.Clean(args[0]), bootConfig())
		if err != nil {
			return err
		}
		defer boot.Close()

		pctx = &promptContext{
			boot: boot,
		}

		p := prompt.New(Executor, completer, prompt.OptionLivePrefix(PromptPrefix))

		p.Run()

		return nil
	},
}

func init() {
	rootCmd.AddCommand(promptCmd)
}
