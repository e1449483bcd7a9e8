package main

import (
	"context"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	"github.com/gridlight/gridlight-cli/internal/session"
)

var onboardData session.OnboardingData

var onboardCmd = &cobra.Command{
	Use:   "onboard",
	Short: "Complete onboarding for the signed-in account",
	Long: `Records onboarding answers locally and marks onboarding as complete.
The remote profile sync happens in the background and never blocks.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return withManager(func(ctx context.Context, mgr *session.Manager) error {
			if _, err := mgr.RestoreOnLaunch(ctx); err != nil {
				return err
			}
			if err := mgr.CompleteOnboarding(ctx, onboardData); err != nil {
				return err
			}
			pterm.Success.Println("Onboarding complete")
			return nil
		})
	},
}

var forgotPasswordCmd = &cobra.Command{
	Use:   "forgot-password <email>",
	Short: "Request a password-reset email",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withManager(func(ctx context.Context, mgr *session.Manager) error {
			if err := mgr.ForgotPassword(ctx, args[0]); err != nil {
				return err
			}
			pterm.Success.Println("Reset email sent, check your inbox")
			return nil
		})
	},
}

var (
	resetToken    string
	resetPassword string
)

var resetPasswordCmd = &cobra.Command{
	Use:   "reset-password",
	Short: "Set a new password using the emailed reset token",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withManager(func(ctx context.Context, mgr *session.Manager) error {
			if err := mgr.ResetPassword(ctx, resetToken, resetPassword); err != nil {
				return err
			}
			pterm.Success.Println("Password updated")
			return nil
		})
	},
}

var verifyEmailCmd = &cobra.Command{
	Use:   "verify-email <token>",
	Short: "Confirm your email address with the emailed token",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withManager(func(ctx context.Context, mgr *session.Manager) error {
			if err := mgr.VerifyEmail(ctx, args[0]); err != nil {
				return err
			}
			pterm.Success.Println("Email verified")
			return nil
		})
	},
}

var resendVerificationCmd = &cobra.Command{
	Use:   "resend-verification <email>",
	Short: "Re-send the address-confirmation email",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withManager(func(ctx context.Context, mgr *session.Manager) error {
			if err := mgr.ResendVerification(ctx, args[0]); err != nil {
				return err
			}
			pterm.Success.Println("Verification email sent")
			return nil
		})
	},
}

func init() {
	onboardCmd.Flags().StringVar(&onboardData.FirstName, "first-name", "", "First name")
	onboardCmd.Flags().StringVar(&onboardData.LastName, "last-name", "", "Last name")
	onboardCmd.Flags().IntVar(&onboardData.HouseholdSize, "household-size", 1, "Number of people in the household")
	onboardCmd.Flags().StringVar(&onboardData.TariffPlan, "tariff", "standard", "Electricity tariff plan")
	onboardCmd.Flags().BoolVar(&onboardData.HasSolarPanels, "solar", false, "Household has solar panels")

	resetPasswordCmd.Flags().StringVar(&resetToken, "token", "", "Reset token from the email")
	resetPasswordCmd.Flags().StringVar(&resetPassword, "new-password", "", "New password")
	_ = resetPasswordCmd.MarkFlagRequired("token")
	_ = resetPasswordCmd.MarkFlagRequired("new-password")

	rootCmd.AddCommand(onboardCmd, forgotPasswordCmd, resetPasswordCmd, verifyEmailCmd, resendVerificationCmd)
}
