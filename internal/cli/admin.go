package cli

import (
	"context"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/jomarimuli/debbie-and-krys-beach-resort-sub002/internal/auth"
	"github.com/jomarimuli/debbie-and-krys-beach-resort-sub002/internal/user"
)

// NewCreateAdminCommand creates the create-admin command.
func NewCreateAdminCommand(rootOpts *RootOptions) *cobra.Command {
	var email, password, name string

	cmd := &cobra.Command{
		Use:   "create-admin --email EMAIL --password PASSWORD",
		Short: "Create an admin account",
		Long: `Create an admin account.

The first admin has to be created this way; later staff and admin
accounts can be created through the API.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := connect(cmd.Context(), rootOpts)
			if err != nil {
				return err
			}
			defer e.Close()

			c, err := e.container()
			if err != nil {
				return err
			}
			return createAdmin(cmd.Context(), c.UserService, email, password, name, cmd.OutOrStdout())
		},
	}

	cmd.Flags().StringVar(&email, "email", "", "admin email")
	cmd.Flags().StringVar(&password, "password", "", "admin password")
	cmd.Flags().StringVar(&name, "name", "", "display name")
	_ = cmd.MarkFlagRequired("email")
	_ = cmd.MarkFlagRequired("password")
	return cmd
}

func createAdmin(ctx context.Context, users user.Service, email, password, name string, out io.Writer) error {
	u, err := users.Create(ctx, user.CreateRequest{
		Email:       email,
		Password:    password,
		DisplayName: name,
		Role:        auth.RoleAdmin,
	})
	if err != nil {
		return fmt.Errorf("failed to create admin: %w", err)
	}
	fmt.Fprintf(out, "created admin %s (%s)\n", u.Email, u.ID)
	return nil
}
