package main

import (
	"context"
	"os"
	"runtime/debug"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"go.uber.org/fx"

	"github.com/gridlight/gridlight-cli/internal/app"
	"github.com/gridlight/gridlight-cli/internal/config"
	"github.com/gridlight/gridlight-cli/internal/logger"
	"github.com/gridlight/gridlight-cli/internal/session"
)

func main() {
	defer func() {
		if r := recover(); r != nil {
			pterm.Error.Printf("\nCaught panic: %v\n", r)
			pterm.Error.Printf("%s\n", debug.Stack())
			os.Exit(2)
		}
	}()
	Execute()
}

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "gridlight",
	Short: "Client for the GridLight energy-monitoring service",
	Long: `GridLight CLI is the companion client for the GridLight energy-monitoring
service. It manages your session (sign in, sign out, onboarding, account
recovery) and keeps a local credential cache so the app stays usable offline.`,
	Run: func(cmd *cobra.Command, args []string) {
		runDashboard(cmd, args)
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	// Place version check in PreRun to ensure flags are parsed first
	rootCmd.PersistentPreRun = func(cmd *cobra.Command, args []string) {
		versionFlag, _ := cmd.Flags().GetBool("version")
		if versionFlag {
			pterm.Info.Println(config.GetVersionInfo())
			os.Exit(0)
		}
	}

	if err := rootCmd.Execute(); err != nil {
		pterm.Error.Println(err)
		os.Exit(1)
	}
}

func init() {
	config.InitFlags()
	rootCmd.PersistentFlags().AddFlagSet(pflag.CommandLine)
	rootCmd.PersistentFlags().BoolP("version", "v", false, "Show version information")
}

// withManager builds the application graph and hands the session
// manager to fn. Every subcommand goes through here.
func withManager(fn func(ctx context.Context, mgr *session.Manager) error) error {
	var mgr *session.Manager
	fxApp := app.New(fx.Populate(&mgr))

	ctx := context.Background()
	if err := fxApp.Start(ctx); err != nil {
		return err
	}
	defer func() {
		_ = fxApp.Stop(ctx)
		_ = logger.Sync()
	}()

	return fn(ctx, mgr)
}
