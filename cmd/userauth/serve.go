package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	_ "github.com/userauth/rbac-api/docs" // swagger docs
	"github.com/userauth/rbac-api/internal/api"
	"github.com/userauth/rbac-api/internal/core/service"
	"github.com/userauth/rbac-api/internal/infrastructure/security"
	"github.com/userauth/rbac-api/pkg/logger"
)

const shutdownTimeout = 10 * time.Second

func newServeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP API",
		Long: `Start the HTTP API. When ADMIN_USERNAME and ADMIN_PASSWORD are set and
no such user exists, an admin account is created before serving.`,
		RunE: runServe,
	}
}

func runServe(cmd *cobra.Command, _ []string) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := setup(cmd)
	if err != nil {
		return err
	}
	log := logger.Get()

	st, err := openStore(ctx, cfg, log)
	if err != nil {
		return err
	}
	defer st.Close(context.Background())
	log.Info().Str("driver", cfg.Store.Driver).Msg("credential store ready")

	hasher := security.NewBcryptHasher(cfg.Auth.BcryptCost)
	tokens := security.NewJWTService(cfg.Auth.JWTSecret, cfg.Auth.JWTIssuer, cfg.Auth.JWTTTL)

	authService := service.NewAuthService(st.repo, hasher, tokens, log)
	userService := service.NewUserService(st.repo, hasher, log)

	if cfg.Admin.Username != "" && cfg.Admin.Password != "" {
		created, err := userService.EnsureAdmin(ctx, cfg.Admin.Username, cfg.Admin.Password, false)
		if err != nil {
			return err
		}
		if !created {
			log.Info().Str("username", cfg.Admin.Username).Msg("bootstrap admin already exists")
		}
	}

	e := api.NewRouter(api.Deps{
		AuthService: authService,
		UserService: userService,
		Verifier:    tokens,
		Checks:      st.checks,
		Log:         log,
	})

	errCh := make(chan error, 1)
	go func() {
		log.Info().Str("port", cfg.Port).Msg("http server listening")
		if err := e.Start(":" + cfg.Port); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	log.Info().Msg("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return e.Shutdown(shutdownCtx)
}
