package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/userauth/rbac-api/internal/core/service"
	"github.com/userauth/rbac-api/internal/infrastructure/security"
	"github.com/userauth/rbac-api/pkg/logger"
)

func newCreateAdminCmd() *cobra.Command {
	var (
		username string
		password string
		promote  bool
	)

	cmd := &cobra.Command{
		Use:   "create-admin",
		Short: "Create the first admin account",
		Long: `Create an admin account directly in the credential store.
With --promote, an existing user with that username is given the admin role.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if username == "" || password == "" {
				return errors.New("--username and --password are required")
			}

			cfg, err := setup(cmd)
			if err != nil {
				return err
			}
			log := logger.Get()

			st, err := openStore(cmd.Context(), cfg, log)
			if err != nil {
				return err
			}
			defer st.Close(cmd.Context())

			users := service.NewUserService(st.repo, security.NewBcryptHasher(cfg.Auth.BcryptCost), log)
			created, err := users.EnsureAdmin(cmd.Context(), username, password, promote)
			if err != nil {
				return err
			}

			switch {
			case created:
				fmt.Fprintf(cmd.OutOrStdout(), "admin %q created\n", username)
			case promote:
				fmt.Fprintf(cmd.OutOrStdout(), "user %q is an admin\n", username)
			default:
				fmt.Fprintf(cmd.OutOrStdout(), "user %q already exists; use --promote to grant admin\n", username)
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&username, "username", "u", "", "admin username")
	cmd.Flags().StringVarP(&password, "password", "p", "", "admin password")
	cmd.Flags().BoolVar(&promote, "promote", false, "grant admin to an existing user")
	return cmd
}
