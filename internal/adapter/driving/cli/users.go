package cli

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/ericfisherdev/govenmo/internal/adapter/driven/venmo"
	"github.com/ericfisherdev/govenmo/internal/domain/model"
)

func newMeCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "me",
		Short: "Show the logged-in user",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := app.authorize(cmd.Context()); err != nil {
				return err
			}
			me, err := app.Client.MyProfile(cmd.Context(), true)
			if err != nil {
				return err
			}
			printUserDetail(cmd.OutOrStdout(), me)
			return nil
		},
	}
}

func newSearchCmd(app *App) *cobra.Command {
	var (
		opts       venmo.ListOptions
		byUsername bool
	)
	cmd := &cobra.Command{
		Use:   "search <query>",
		Short: "Search users",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := app.authorize(cmd.Context()); err != nil {
				return err
			}
			if byUsername {
				user, err := app.Client.GetUserByUsername(cmd.Context(), args[0])
				if err != nil {
					return err
				}
				if user == nil {
					fmt.Fprintln(cmd.OutOrStdout(), "No users found.")
					return nil
				}
				printUsers(cmd.OutOrStdout(), []model.User{*user})
				return nil
			}

			page, err := app.Client.SearchUsers(cmd.Context(), args[0], opts)
			if err != nil {
				return err
			}
			printUsers(cmd.OutOrStdout(), page.Items)
			return nil
		},
	}
	cmd.Flags().IntVar(&opts.Limit, "limit", 0, "Maximum number of users (at most 50)")
	cmd.Flags().IntVar(&opts.Offset, "offset", 0, "Number of users to skip")
	cmd.Flags().BoolVar(&byUsername, "username", false, "Match the username exactly")
	return cmd
}

func newUserCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "user <id|@username>",
		Short: "Show a user",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := app.authorize(cmd.Context()); err != nil {
				return err
			}
			id, err := app.resolveUserID(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			user, err := app.Client.GetUser(cmd.Context(), id)
			if err != nil {
				return err
			}
			printUserDetail(cmd.OutOrStdout(), user)
			return nil
		},
	}
}

func newFriendsCmd(app *App) *cobra.Command {
	var (
		opts venmo.ListOptions
		all  bool
	)
	cmd := &cobra.Command{
		Use:   "friends [id|@username]",
		Short: "List friends of a user, by default yourself",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			if err := app.authorize(ctx); err != nil {
				return err
			}
			id, err := app.resolveUserOrMe(ctx, args)
			if err != nil {
				return err
			}

			page, err := app.Client.FriendsList(ctx, id, opts)
			if err != nil {
				return err
			}
			if page.Len() == 0 {
				printUsers(cmd.OutOrStdout(), nil)
				return nil
			}
			for err == nil && page.Len() > 0 {
				printUsers(cmd.OutOrStdout(), page.Items)
				if !all {
					break
				}
				page, err = page.Next(ctx)
			}
			return err
		},
	}
	cmd.Flags().IntVar(&opts.Limit, "limit", 0, "Page size")
	cmd.Flags().IntVar(&opts.Offset, "offset", 0, "Number of friends to skip")
	cmd.Flags().BoolVar(&all, "all", false, "Follow pages until the list ends")
	return cmd
}

func printUsers(w io.Writer, users []model.User) {
	if len(users) == 0 {
		fmt.Fprintln(w, "No users found.")
		return
	}
	for _, u := range users {
		fmt.Fprintf(w, "%-20s @%-20s %s\n", u.ID, u.Username, u.DisplayName)
	}
}

func printUserDetail(w io.Writer, u *model.User) {
	if u == nil {
		fmt.Fprintln(w, "No user found.")
		return
	}
	fmt.Fprintf(w, "ID:       %s\n", u.ID)
	fmt.Fprintf(w, "Username: @%s\n", u.Username)
	fmt.Fprintf(w, "Name:     %s\n", u.DisplayName)
	if !u.DateJoined.IsZero() {
		fmt.Fprintf(w, "Joined:   %s\n", u.DateJoined.Format("2006-01-02"))
	}
	if u.IsBusiness {
		fmt.Fprintln(w, "Business: yes")
	}
}
