// Package cmd implements the command-line interface for quickplay.
package cmd

import (
	"fmt"
	"os"
	"strings"

	cc "github.com/ivanpirog/coloredcobra"
	"github.com/quickplay-cli/quickplay/color"
	"github.com/quickplay-cli/quickplay/constant"
	"github.com/quickplay-cli/quickplay/key"
	"github.com/quickplay-cli/quickplay/log"
	"github.com/quickplay-cli/quickplay/style"
	"github.com/samber/lo"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

func init() {
	rootCmd.Flags().BoolP("version", "v", false, "Print the application version")

	rootCmd.PersistentFlags().StringP("engine", "e", "", "Path to the QuickSeed engine executable")
	lo.Must0(viper.BindPFlag(key.EnginePath, rootCmd.PersistentFlags().Lookup("engine")))
}

// rootCmd defines the entry point for the quickplay application.
var rootCmd = &cobra.Command{
	Use:   constant.Quickplay + " [locator]",
	Short: "Stream torrent media from the terminal through the QuickSeed engine",
	Long: style.New().Italic(true).Foreground(color.HiCyan).
		Render("    - Stream torrent media from the terminal through the QuickSeed engine"),
	Args: cobra.MaximumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		if cmd.Flags().Changed("version") {
			versionCmd.Run(versionCmd, args)
			return
		}

		CheckDependencies()

		var locator string
		if len(args) > 0 {
			locator = args[0]
		}
		handleErr(runSession(locator))
	},
}

// Execute initializes child command routing and processes the CLI entry point.
func Execute() {
	if viper.GetBool(key.CliColored) {
		cc.Init(&cc.Config{
			RootCmd:       rootCmd,
			Headings:      cc.HiCyan + cc.Bold + cc.Underline,
			Commands:      cc.HiYellow + cc.Bold,
			Example:       cc.Italic,
			ExecName:      cc.Bold,
			Flags:         cc.Bold,
			FlagsDataType: cc.Italic + cc.HiBlue,
		})
	}

	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

func handleErr(err error) {
	if err != nil {
		log.Error(err)
		_, _ = fmt.Fprintf(os.Stderr, "%s %s\n",
			style.Fg(color.Red)("✗"),
			strings.Trim(err.Error(), " \n"))
		os.Exit(1)
	}
}
