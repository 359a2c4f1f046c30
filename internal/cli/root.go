package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var verbose bool

var rootCmd = &cobra.Command{
	Use:   "dashboard",
	Short: "Project-management dashboard",
	Long: `dashboard manages your projects from the terminal.

Without PMDASH_BACKEND_URL it runs in demo mode: accounts and projects live in
a local state file and a demo account (demo@example.com / demo123) is ready to
use. With PMDASH_BACKEND_URL set it talks to a pmdash server.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, errorStyle.Render("Error: "+err.Error()))
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Log adapter activity to stderr")
}
