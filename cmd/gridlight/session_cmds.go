package main

import (
	"context"
	"fmt"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	"github.com/gridlight/gridlight-cli/internal/session"
	"github.com/gridlight/gridlight-cli/internal/tui"
)

var (
	loginEmail    string
	loginPassword string
	googleCode    string
)

var loginCmd = &cobra.Command{
	Use:   "login",
	Short: "Sign in to your GridLight account",
	Long: `Sign in with email and password, or with --google-code to complete a
federated sign-in. Without flags an interactive form is shown. When
offline, a recently synced cached session for the same account is used.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return withManager(func(ctx context.Context, mgr *session.Manager) error {
			if googleCode != "" {
				result, err := mgr.FederatedSignIn(ctx, googleCode)
				if err != nil {
					return err
				}
				pterm.Success.Printfln("Signed in as %s", result.User.Email)
				return nil
			}

			if loginEmail == "" || loginPassword == "" {
				return runSessionTUI(ctx, mgr)
			}

			result, err := mgr.Login(ctx, loginEmail, loginPassword)
			if err != nil {
				return err
			}
			if result.FromCache {
				pterm.Info.Printfln("Signed in as %s (from cached session, offline)", result.User.Email)
			} else {
				pterm.Success.Printfln("Signed in as %s", result.User.Email)
			}
			return nil
		})
	},
}

var logoutCmd = &cobra.Command{
	Use:   "logout",
	Short: "Sign out and clear the local credential cache",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withManager(func(ctx context.Context, mgr *session.Manager) error {
			if err := mgr.Logout(ctx); err != nil {
				return err
			}
			pterm.Success.Println("Signed out")
			return nil
		})
	},
}

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show the current session status",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withManager(func(ctx context.Context, mgr *session.Manager) error {
			state, err := mgr.RestoreOnLaunch(ctx)
			if err != nil {
				return err
			}

			if state.Online {
				pterm.Info.Println("Network: online")
			} else {
				pterm.Warning.Println("Network: offline")
			}

			if !state.Authenticated {
				pterm.Info.Println("Not signed in")
				return nil
			}

			pterm.Success.Printfln("Signed in as %s", state.User.Email)
			if !state.LastSyncedAt.IsZero() {
				pterm.Info.Printfln("Last synced: %s", state.LastSyncedAt.Local().Format(time.RFC822))
			}
			if expiry, ok := mgr.TokenExpiry(ctx); ok {
				pterm.Info.Printfln("Token expires: %s", expiry.Local().Format(time.RFC822))
			}
			return nil
		})
	},
}

var whoamiCmd = &cobra.Command{
	Use:   "whoami",
	Short: "Print the signed-in user's profile",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withManager(func(ctx context.Context, mgr *session.Manager) error {
			state, err := mgr.RestoreOnLaunch(ctx)
			if err != nil {
				return err
			}
			if !state.Authenticated {
				return fmt.Errorf("not signed in")
			}

			user := state.User
			pterm.DefaultSection.Println("Profile")
			pterm.Info.Printfln("ID:         %s", user.ID)
			pterm.Info.Printfln("Email:      %s  (verified: %t)", user.Email, user.EmailVerified)
			pterm.Info.Printfln("Name:       %s %s", user.FirstName, user.LastName)
			pterm.Info.Printfln("Role:       %s", user.Role)
			pterm.Info.Printfln("Avatar:     %s", user.Avatar)
			pterm.Info.Printfln("Onboarded:  %t", user.HasCompletedOnboarding)
			return nil
		})
	},
}

var dashboardCmd = &cobra.Command{
	Use:   "dashboard",
	Short: "Open the interactive session dashboard",
	Run:   runDashboard,
}

func runDashboard(cmd *cobra.Command, args []string) {
	err := withManager(func(ctx context.Context, mgr *session.Manager) error {
		return runSessionTUI(ctx, mgr)
	})
	if err != nil {
		pterm.Error.Println(err)
	}
}

func runSessionTUI(ctx context.Context, mgr *session.Manager) error {
	if _, err := mgr.RestoreOnLaunch(ctx); err != nil {
		return err
	}

	p := tea.NewProgram(tui.NewAppModel(mgr), tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("error running program: %w", err)
	}
	return nil
}

func init() {
	loginCmd.Flags().StringVar(&loginEmail, "email", "", "Account email")
	loginCmd.Flags().StringVar(&loginPassword, "password", "", "Account password")
	loginCmd.Flags().StringVar(&googleCode, "google-code", "", "Authorization code from the federated consent flow")

	rootCmd.AddCommand(loginCmd, logoutCmd, statusCmd, whoamiCmd, dashboardCmd)
}
