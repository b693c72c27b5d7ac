package cmd

import (
	"context"
	"fmt"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/angelous0/erp-textil/internal/infra/postgres"
	"github.com/angelous0/erp-textil/pkg/domain/permission"
	"github.com/angelous0/erp-textil/pkg/domain/user"
)

var (
	flagEmail       string
	flagDisplayName string
	flagRole        string
	flagPassword    string
)

var createUserCmd = &cobra.Command{
	Use:   "create-user <username>",
	Short: "Create a user account",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		role := user.Role(flagRole)
		if !role.IsValid() {
			return fmt.Errorf("invalid role %q (viewer, editor, admin, super_admin)", flagRole)
		}
		if flagPassword == "" {
			return fmt.Errorf("a password is required (use --password)")
		}

		db, err := openDB()
		if err != nil {
			return err
		}
		defer db.Close()

		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		users := postgres.NewUserRepository(db)
		perms := postgres.NewPermissionRepository(db)

		exists, err := users.ExistsByUsername(ctx, args[0])
		if err != nil {
			return err
		}
		if exists {
			return user.AlreadyExistsError(args[0])
		}

		u, err := user.New(args[0], flagEmail, flagDisplayName, flagPassword, role)
		if err != nil {
			return err
		}
		if err := users.Create(ctx, u); err != nil {
			return err
		}

		switch role {
		case user.RoleEditor:
			err = perms.ReplaceGrants(ctx, u.ID, permission.DefaultsForEditor())
		case user.RoleViewer:
			err = perms.ReplaceGrants(ctx, u.ID, permission.DefaultsForViewer())
		}
		if err != nil {
			return fmt.Errorf("user created but seeding default grants failed: %w", err)
		}

		fmt.Fprintf(cmd.OutOrStdout(), "Created user %s (%s) with role %s\n", u.Username, u.ID, u.Role)
		return nil
	},
}

var listUsersCmd = &cobra.Command{
	Use:   "list-users",
	Short: "List user accounts",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		db, err := openDB()
		if err != nil {
			return err
		}
		defer db.Close()

		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		users, err := postgres.NewUserRepository(db).List(ctx)
		if err != nil {
			return err
		}

		w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
		fmt.Fprintln(w, "USERNAME\tROLE\tACTIVE\tID")
		for _, u := range users {
			fmt.Fprintf(w, "%s\t%s\t%t\t%s\n", u.Username, u.Role, u.Active, u.ID)
		}
		return w.Flush()
	},
}

var setRoleCmd = &cobra.Command{
	Use:   "set-role <username> <role>",
	Short: "Change a user's role",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		role := user.Role(args[1])
		if !role.IsValid() {
			return fmt.Errorf("invalid role %q (viewer, editor, admin, super_admin)", args[1])
		}

		db, err := openDB()
		if err != nil {
			return err
		}
		defer db.Close()

		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		users := postgres.NewUserRepository(db)
		u, err := users.GetByUsername(ctx, args[0])
		if err != nil {
			return err
		}

		u.Role = role
		if err := users.Update(ctx, u); err != nil {
			return err
		}

		// Overrides from the previous role no longer apply.
		if role.IsPrivileged() {
			if err := postgres.NewPermissionRepository(db).DeleteGrants(ctx, u.ID); err != nil {
				return fmt.Errorf("role changed but clearing grants failed: %w", err)
			}
		}

		fmt.Fprintf(cmd.OutOrStdout(), "User %s is now %s\n", u.Username, u.Role)
		return nil
	},
}

var resetPasswordCmd = &cobra.Command{
	Use:   "reset-password <username>",
	Short: "Set a new password for a user",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if flagPassword == "" {
			return fmt.Errorf("a password is required (use --password)")
		}

		db, err := openDB()
		if err != nil {
			return err
		}
		defer db.Close()

		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		users := postgres.NewUserRepository(db)
		u, err := users.GetByUsername(ctx, args[0])
		if err != nil {
			return err
		}

		if err := u.SetPassword(flagPassword); err != nil {
			return err
		}
		if err := users.Update(ctx, u); err != nil {
			return err
		}

		fmt.Fprintf(cmd.OutOrStdout(), "Password updated for %s\n", u.Username)
		return nil
	},
}

func init() {
	createUserCmd.Flags().StringVar(&flagEmail, "email", "", "Email address")
	createUserCmd.Flags().StringVar(&flagDisplayName, "name", "", "Display name")
	createUserCmd.Flags().StringVar(&flagRole, "role", "viewer", "Role: viewer, editor, admin, super_admin")
	createUserCmd.Flags().StringVar(&flagPassword, "password", "", "Initial password")

	resetPasswordCmd.Flags().StringVar(&flagPassword, "password", "", "New password")
}
