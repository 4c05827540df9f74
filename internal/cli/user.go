package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"vortexgames/internal/config"
	"vortexgames/internal/db"
)

func newUserCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "user",
		Short: "Manage console accounts",
	}
	cmd.AddCommand(newUserAddCmd())
	return cmd
}

func newUserAddCmd() *cobra.Command {
	var (
		username string
		password string
		role     string
	)

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Create a user account",
		RunE: func(cmd *cobra.Command, args []string) error {
			if role != db.RoleUser && role != db.RoleAdmin {
				return fmt.Errorf("role must be %q or %q", db.RoleUser, db.RoleAdmin)
			}
			cfg := config.Load()
			setupLogger(cfg.Debug)
			return addUser(cmd.Context(), cfg, username, password, role, cmd)
		},
	}

	cmd.Flags().StringVarP(&username, "username", "u", "", "login name")
	cmd.Flags().StringVarP(&password, "password", "p", "", "password")
	cmd.Flags().StringVar(&role, "role", db.RoleUser, "user or admin")
	cmd.MarkFlagRequired("username")
	cmd.MarkFlagRequired("password")
	return cmd
}

func addUser(ctx context.Context, cfg *config.Config, username, password, role string, cmd *cobra.Command) error {
	gdb, err := db.Connect(cfg)
	if err != nil {
		return fmt.Errorf("connect database: %w", err)
	}
	store := db.NewStore(gdb)
	defer store.Close()

	u := &db.User{Username: username, Password: password, Role: role}
	if err := store.CreateUser(ctx, u); err != nil {
		if errors.Is(err, db.ErrDuplicate) {
			return fmt.Errorf("user %q already exists", username)
		}
		return err
	}
	cmd.Printf("Created %s %q (id %d)\n", u.Role, u.Username, u.ID)
	return nil
}
