package main

import (
	"fmt"

	"github.com/pantryhub/pantry/internal/session"
	"github.com/spf13/cobra"
)

func (application *app) registerCommand() *cobra.Command {
	var password string
	cmd := &cobra.Command{
		Use:   "register <username> <email>",
		Short: "Create an account and log in",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			if password == "" {
				var err error
				if password, err = application.prompt("Password"); err != nil {
					return err
				}
			}
			user, token, err := application.client.Register(cmd.Context(), args[0], args[1], password)
			if err != nil {
				return err
			}
			if err := application.store.Save(session.New(user, token)); err != nil {
				return err
			}
			fmt.Fprintf(application.out, "Registered and logged in as %s\n", user.Username)
			return nil
		},
	}
	cmd.Flags().StringVarP(&password, "password", "p", "", "password (prompted when empty)")
	return cmd
}

func (application *app) loginCommand() *cobra.Command {
	var password string
	cmd := &cobra.Command{
		Use:   "login <email>",
		Short: "Log in and remember the session",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if password == "" {
				var err error
				if password, err = application.prompt("Password"); err != nil {
					return err
				}
			}
			user, token, err := application.client.Login(cmd.Context(), args[0], password)
			if err != nil {
				return err
			}
			if err := application.store.Save(session.New(user, token)); err != nil {
				return err
			}
			fmt.Fprintf(application.out, "Logged in as %s\n", user.Username)
			return nil
		},
	}
	cmd.Flags().StringVarP(&password, "password", "p", "", "password (prompted when empty)")
	return cmd
}

func (application *app) logoutCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Forget the saved session",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := application.store.Clear(); err != nil {
				return err
			}
			fmt.Fprintln(application.out, "Logged out")
			return nil
		},
	}
}

func (application *app) whoamiCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "whoami",
		Short: "Show the logged in user",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if _, err := application.session(); err != nil {
				return err
			}
			user, err := application.client.Profile(cmd.Context())
			if err != nil {
				return err
			}
			fmt.Fprintf(application.out, "%s <%s>\n", user.Username, user.Email)
			return nil
		},
	}
}
