package cmd

import (
	"github.com/apex/log"
	clihander "github.com/apex/log/handlers/cli"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/BiatuAutMiahn/wimboot"
)

// Verbose enables debug logging.
var Verbose bool

var rootCmd = &cobra.Command{
	Use:   "wimboot",
	Short: "Extract and serve the boot files of a Windows boot medium",
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	cobra.CheckErr(rootCmd.Execute())
}

func init() {
	log.SetHandler(clihander.Default)
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().BoolVarP(&Verbose, "verbose", "V", false, "verbose output")
	rootCmd.PersistentFlags().Bool("rawbcd", false, "disable BCD .exe to .efi rewriting")
	rootCmd.PersistentFlags().String("arch", "", "boot architecture (amd64, 386, arm64, arm)")
	viper.BindPFlag("rawbcd", rootCmd.PersistentFlags().Lookup("rawbcd"))
	viper.BindPFlag("arch", rootCmd.PersistentFlags().Lookup("arch"))
}

func initConfig() {
	viper.SetEnvPrefix("wimboot")
	viper.AutomaticEnv()
}

func bootConfig() *wimboot.Config {
	return &wimboot.Config{
		RawBCD: viper.GetBool("rawbcd"),
		Arch:   viper.GetString("arch"),
	}
}
