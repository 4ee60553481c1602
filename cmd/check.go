// Package cmd implements the command-line interface for quickplay.
package cmd

import (
	"fmt"
	"os"
	"os/exec"
	"runtime"

	"github.com/charmbracelet/lipgloss"
	"github.com/quickplay-cli/quickplay/color"
	"github.com/quickplay-cli/quickplay/constant"
	"github.com/quickplay-cli/quickplay/key"
	"github.com/quickplay-cli/quickplay/style"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

func init() {
	rootCmd.AddCommand(checkCmd)
	checkCmd.SetOut(os.Stdout)
}

// checkCmd verifies that every external dependency is reachable.
var checkCmd = &cobra.Command{
	Use:   "check",
	Short: "Verify that the QuickSeed engine and the ffmpeg toolchain are available",
	Run: func(cmd *cobra.Command, args []string) {
		CheckDependencies()

		ok := style.Fg(color.HiGreen)("✓")
		cmd.Printf("%s %s\n", ok, enginePath())
		for _, tool := range []string{"ffmpeg", "ffprobe"} {
			cmd.Printf("%s %s\n", ok, tool)
		}
	},
}

// enginePath resolves the configured engine executable, preferring a PATH
// lookup over the literal value.
func enginePath() string {
	path := viper.GetString(key.EnginePath)
	if path == "" {
		path = "./" + constant.Engine
	}

	if resolved, err := exec.LookPath(path); err == nil {
		return resolved
	}
	return path
}

// CheckDependencies verifies the availability of required external programs:
// the QuickSeed engine executable and the ffmpeg toolchain used for playback.
func CheckDependencies() {
	for _, tool := range []string{"ffmpeg", "ffprobe"} {
		if _, err := exec.LookPath(tool); err != nil {
			printMissingDependencyError(tool)
			os.Exit(1)
		}
	}

	path := enginePath()
	if _, err := os.Stat(path); err != nil {
		printMissingDependencyError(constant.Engine)
		os.Exit(1)
	}
}

func printMissingDependencyError(dep string) {
	var installCmd string
	switch dep {
	case constant.Engine:
		installCmd = fmt.Sprintf("set %s to the engine executable", style.Fg(color.Yellow)(key.EnginePath))
	default:
		switch runtime.GOOS {
		case "darwin":
			installCmd = "brew install ffmpeg"
		case "linux":
			installCmd = "sudo apt install ffmpeg"
		case "windows":
			installCmd = "scoop install ffmpeg"
		}
	}

	box := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(color.HiRed).
		Padding(1, 2).
		Margin(1, 0)

	title := style.New().Bold(true).Foreground(color.HiRed).Render("✗ Error: Missing Dependency")
	body := fmt.Sprintf("The required dependency '%s' was not found.", dep)

	suggestion := ""
	if installCmd != "" {
		suggestion = fmt.Sprintf("\n\nTo fix it, try:\n  %s", style.Bold(installCmd))
	}

	fmt.Println(box.Render(
		lipgloss.JoinVertical(lipgloss.Left,
			title,
			"\n",
			body,
			suggestion,
		),
	))
}
