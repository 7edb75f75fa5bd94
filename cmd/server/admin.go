package main

import (
	"context"
	"errors"
	"fmt"

	"wellhub-backend-go/internal/models"
	"wellhub-backend-go/internal/services"

	"github.com/spf13/cobra"
)

func migrateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Apply pending database migrations",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := bootstrap()
			if err != nil {
				return err
			}
			defer a.Close()
			conn, err := a.openDB()
			if err != nil {
				return err
			}
			return conn.Close()
		},
	}
}

// createUserCmd is the only way to create operators and admins; the HTTP
// registration endpoint always makes viewers.
func createUserCmd() *cobra.Command {
	var email, password, role string

	cmd := &cobra.Command{
		Use:   "create-user <username>",
		Short: "Create a user with any role",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			parsed, err := models.ParseRole(role)
			if err != nil {
				return err
			}
			a, err := bootstrap()
			if err != nil {
				return err
			}
			defer a.Close()
			conn, err := a.openDB()
			if err != nil {
				return err
			}
			defer conn.Close()

			user, err := services.CreateUser(context.Background(), conn, args[0], email, password, parsed)
			if err != nil {
				return describe(err)
			}
			a.log.WithField("username", user.Username).WithField("role", user.Role).Info("user created")
			fmt.Fprintf(cmd.OutOrStdout(), "created %s (id %d, role %s)\n", user.Username, user.ID, user.Role)
			return nil
		},
	}
	cmd.Flags().StringVar(&email, "email", "", "email address")
	cmd.Flags().StringVar(&password, "password", "", "initial password")
	cmd.Flags().StringVar(&role, "role", "viewer", "admin|operator|viewer|guest")
	_ = cmd.MarkFlagRequired("password")
	return cmd
}

func setRoleCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "set-role <username> <role>",
		Short: "Change a user's role",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			role, err := models.ParseRole(args[1])
			if err != nil {
				return err
			}
			a, err := bootstrap()
			if err != nil {
				return err
			}
			defer a.Close()
			conn, err := a.openDB()
			if err != nil {
				return err
			}
			defer conn.Close()

			if err := services.SetRole(context.Background(), conn, args[0], role); err != nil {
				return describe(err)
			}
			a.log.WithField("username", args[0]).WithField("role", role).Info("role changed")
			fmt.Fprintf(cmd.OutOrStdout(), "%s is now %s\n", args[0], role)
			return nil
		},
	}
}

// describe flattens field errors into one line for the terminal.
func describe(err error) error {
	var verr services.ValidationError
	if errors.As(err, &verr) {
		return fmt.Errorf("invalid input: %v", verr.Fields)
	}
	return err
}
