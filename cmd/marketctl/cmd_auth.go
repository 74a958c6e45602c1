package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/georgemunganga/localmarket/internal/ui"
)

// readSecret returns flagValue, or the first line of in when the flag is unset.
func readSecret(in io.Reader, flagValue string, set bool) (string, error) {
	if set {
		return flagValue, nil
	}
	line, err := bufio.NewReader(in).ReadString('\n')
	if err != nil && err != io.EOF {
		return "", fmt.Errorf("read password: %w", err)
	}
	return strings.TrimRight(line, "\r\n"), nil
}

func newLoginCmd(a *app) *cobra.Command {
	var email, password string
	cmd := &cobra.Command{
		Use:   "login",
		Short: "Sign in and save the session",
		Long: `Sign in with email and password. The password is read from --password
or, when the flag is omitted, from the first line of standard input.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			pw, err := readSecret(cmd.InOrStdin(), password, cmd.Flags().Changed("password"))
			if err != nil {
				return err
			}
			s, err := a.sessions.Login(cmd.Context(), email, pw)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Signed in as %s <%s>\n", s.User.FullName(), s.User.Email)
			return nil
		},
	}
	cmd.Flags().StringVar(&email, "email", "", "account email")
	cmd.Flags().StringVar(&password, "password", "", "account password (prefer stdin)")
	_ = cmd.MarkFlagRequired("email")
	return cmd
}

func newLogoutCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Forget the saved session",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := a.store.Delete(cmd.Context(), ""); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Signed out.")
			return nil
		},
	}
}

func newWhoamiCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "whoami",
		Short: "Show the signed-in user",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx, _, err := a.signedIn(cmd.Context())
			if err != nil {
				return err
			}
			resp, err := a.client.Auth.Me(ctx)
			if err != nil {
				return err
			}
			u := resp.Data
			role := "buyer"
			if u.IsVendor {
				role = "vendor"
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s <%s> (%s, id %d)\n", u.FullName(), u.Email, role, u.ID)
			return nil
		},
	}
}

func newAccountCmd(a *app) *cobra.Command {
	account := &cobra.Command{
		Use:   "account",
		Short: "Manage your account",
	}

	var password string
	del := &cobra.Command{
		Use:   "delete",
		Short: "Permanently delete your account",
		Long: `Permanently delete the signed-in account. Confirm with your password via
--password or the first line of standard input. On success the saved
session is removed.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx, s, err := a.signedIn(cmd.Context())
			if err != nil {
				return err
			}
			pw, err := readSecret(cmd.InOrStdin(), password, cmd.Flags().Changed("password"))
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			nav := ui.NavigatorFunc(func(_ context.Context, _, message string) {
				fmt.Fprintln(out, message)
			})
			flow := ui.NewDeleteAccountFlow(a.client.Auth, a.sessions.Bind(s), nav)
			if err := flow.Submit(ctx, pw); err != nil {
				if flow.State() == ui.DeleteSuccess {
					return err
				}
				return errors.New(flow.Message())
			}
			return nil
		},
	}
	del.Flags().StringVar(&password, "password", "", "account password (prefer stdin)")
	account.AddCommand(del)
	return account
}
