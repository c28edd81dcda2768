// Package cli is the command-line driving adapter.
package cli

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/ericfisherdev/govenmo/internal/adapter/driven/venmo"
	"github.com/ericfisherdev/govenmo/internal/application"
	"github.com/ericfisherdev/govenmo/internal/domain/model"
)

// App holds what the commands act on.
type App struct {
	Client   *venmo.Client
	Sessions *application.SessionService
	// Account keys the stored session and is the login name.
	Account  string
	DeviceID string
	Password string
}

// NewRootCommand builds the command tree around app.
func NewRootCommand(app *App) *cobra.Command {
	root := &cobra.Command{
		Use:           "venmo",
		Short:         "Venmo from the command line",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.PersistentFlags().StringVar(&app.Account, "account", app.Account, "Login name the session is stored under")

	root.AddCommand(
		newLoginCmd(app),
		newLogoutCmd(app),
		newMeCmd(app),
		newSearchCmd(app),
		newUserCmd(app),
		newFriendsCmd(app),
		newTransactionsCmd(app),
		newMethodsCmd(app),
		newSendCmd(app),
		newRequestCmd(app),
		newPendingCmd(app),
		newRemindCmd(app),
		newCancelCmd(app),
	)
	return root
}

// authorize makes sure the client carries an access token, loading the
// stored session when none was configured.
func (a *App) authorize(ctx context.Context) error {
	if a.Client.Transport().AccessToken() != "" {
		return nil
	}
	if a.Account == "" {
		return fmt.Errorf("no access token: set VENMO_ACCESS_TOKEN or log in with --account")
	}

	session, err := a.Sessions.Resume(ctx, a.Account)
	if err != nil {
		return err
	}
	a.Client.Transport().UpdateAccessToken(session.AccessToken)
	return nil
}

// resolveUserID accepts a user id or an @username.
func (a *App) resolveUserID(ctx context.Context, ref string) (string, error) {
	username, isUsername := strings.CutPrefix(ref, "@")
	if !isUsername {
		return ref, nil
	}

	user, err := a.Client.GetUserByUsername(ctx, username)
	if err != nil {
		return "", err
	}
	if user == nil {
		return "", fmt.Errorf("no user with username %q", username)
	}
	return user.ID, nil
}

// resolveUserOrMe resolves ref, defaulting to the logged-in user.
func (a *App) resolveUserOrMe(ctx context.Context, args []string) (string, error) {
	if len(args) > 0 {
		return a.resolveUserID(ctx, args[0])
	}
	me, err := a.Client.MyProfile(ctx, false)
	if err != nil {
		return "", err
	}
	return me.ID, nil
}

func parsePrivacy(s string) (model.PaymentPrivacy, error) {
	p := model.ParsePaymentPrivacy(strings.ToLower(s))
	if !p.Valid() {
		return p, fmt.Errorf("invalid privacy %q: use private, friends or public", s)
	}
	return p, nil
}
