package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newLoginCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "login",
		Short: "Log in and store the session",
		Long: `Log in with the account's password. When the platform asks for a
second factor, a one-time password is texted to the phone on the account and
read from the terminal or from VENMO_OTP_FILE.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if app.Account == "" {
				return fmt.Errorf("--account is required")
			}
			if app.Password == "" {
				return fmt.Errorf("--password or VENMO_PASSWORD is required")
			}

			session, err := app.Sessions.Login(cmd.Context(), app.Account, app.Password, app.DeviceID)
			if err != nil {
				return err
			}
			app.Client.Transport().UpdateAccessToken(session.AccessToken)

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Logged in as %s.\n", session.Account)
			fmt.Fprintf(out, "Device id: %s\n", session.DeviceID)
			return nil
		},
	}
	cmd.Flags().StringVar(&app.Password, "password", app.Password, "Account password")
	cmd.Flags().StringVar(&app.DeviceID, "device-id", app.DeviceID, "Device id to log in from")
	return cmd
}

func newLogoutCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Revoke the access token and forget the stored session",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := app.Sessions.Logout(cmd.Context(), app.Account, app.Client.Transport().AccessToken()); err != nil {
				return err
			}
			app.Client.Transport().UpdateAccessToken("")
			fmt.Fprintln(cmd.OutOrStdout(), "Logged out.")
			return nil
		},
	}
}
