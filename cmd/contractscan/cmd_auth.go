package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"contract-scanner/internal/session"
	"contract-scanner/internal/users"
)

func (c *cli) signupCmd() *cobra.Command {
	var form session.SignupForm
	cmd := &cobra.Command{
		Use:   "signup",
		Short: "Create an account and sign in",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := c.sessionClient()
			if err != nil {
				return err
			}
			user, err := client.Signup(cmd.Context(), form)
			if err != nil {
				return err
			}
			printUser(cmd, "Signed up as", user)
			return nil
		},
	}
	cmd.Flags().StringVar(&form.Name, "name", "", "your name")
	cmd.Flags().StringVar(&form.Email, "email", "", "email address")
	cmd.Flags().StringVar(&form.Password, "password", "", "password, at least 6 characters")
	cmd.Flags().StringVar(&form.ConfirmPassword, "confirm-password", "", "repeat the password")
	return cmd
}

func (c *cli) loginCmd() *cobra.Command {
	var email, password string
	cmd := &cobra.Command{
		Use:   "login",
		Short: "Sign in and remember the session",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := c.sessionClient()
			if err != nil {
				return err
			}
			user, err := client.Login(cmd.Context(), email, password)
			if err != nil {
				return err
			}
			printUser(cmd, "Logged in as", user)
			return nil
		},
	}
	cmd.Flags().StringVar(&email, "email", "", "email address")
	cmd.Flags().StringVar(&password, "password", "", "password")
	return cmd
}

func (c *cli) logoutCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "End the session and forget the token",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := c.sessionClient()
			if err != nil {
				return err
			}
			if err := client.Logout(cmd.Context()); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Logged out")
			return nil
		},
	}
}

func (c *cli) meCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "me",
		Short: "Show the signed-in user",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := c.sessionClient()
			if err != nil {
				return err
			}
			user, err := client.Me(cmd.Context())
			if err != nil {
				return err
			}
			printUser(cmd, "Signed in as", user)
			return nil
		},
	}
}

func printUser(cmd *cobra.Command, prefix string, u users.User) {
	fmt.Fprintf(cmd.OutOrStdout(), "%s %s <%s>\n", prefix, u.Name, u.Email)
}
