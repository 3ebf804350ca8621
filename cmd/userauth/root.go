package main

import (
	"github.com/spf13/cobra"

	"github.com/userauth/rbac-api/internal/pkg/config"
	"github.com/userauth/rbac-api/pkg/logger"
)

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "userauth",
		Short:         "User authentication & RBAC API",
		Long:          "Registration, JWT login and admin-only user management over HTTP.",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.AddCommand(newServeCmd(), newCreateAdminCmd())
	return root
}

// setup loads configuration and initialises the process logger. Commands
// fetch the logger with logger.Get afterwards.
func setup(cmd *cobra.Command) (*config.Config, error) {
	cfg, err := config.Load(cmd.Context())
	if err != nil {
		return nil, err
	}
	logger.Init(logger.Options{
		Level:   cfg.LogLevel,
		Pretty:  cfg.IsDevelopment(),
		Service: "userauth",
	})
	return cfg, nil
}
