package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/api-sage/core-banking-ledger/internal/adapter/http/controller"
	"github.com/api-sage/core-banking-ledger/internal/adapter/http/middleware"
	"github.com/api-sage/core-banking-ledger/internal/adapter/http/router"
	"github.com/api-sage/core-banking-ledger/internal/adapter/repository/postgres"
	"github.com/api-sage/core-banking-ledger/internal/adapter/repository/repo_interfaces"
	"github.com/api-sage/core-banking-ledger/internal/config"
	"github.com/api-sage/core-banking-ledger/internal/domain"
	"github.com/api-sage/core-banking-ledger/internal/logger"
	"github.com/api-sage/core-banking-ledger/internal/usecase/services"
	"golang.org/x/crypto/bcrypt"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		logger.Error("load configuration", err, nil)
		os.Exit(1)
	}

	ctx := context.Background()

	if err := postgres.RunMigrations(ctx, cfg.DatabaseDSN, cfg.MigrationsDir); err != nil {
		logger.Error("run migrations", err, nil)
		os.Exit(1)
	}

	db, err := postgres.Open(ctx, cfg.DatabaseDSN)
	if err != nil {
		logger.Error("open database", err, nil)
		os.Exit(1)
	}
	defer db.Close()

	uow := postgres.NewUnitOfWork(db, cfg.LockTimeout)
	accountRepo := postgres.NewAccountRepository(db)
	userRepo := postgres.NewUserRepository(db)

	if err := seedAdmin(ctx, cfg, userRepo); err != nil {
		logger.Error("seed admin user", err, nil)
		os.Exit(1)
	}

	userService := services.NewUserService(userRepo)
	accountService := services.NewAccountService(accountRepo, userRepo)
	ledgerService := services.NewLedgerService(uow)
	reconciliationService := services.NewReconciliationService(uow)

	mux := router.New(
		controller.NewUserController(userService),
		controller.NewAccountController(accountService),
		controller.NewTransactionController(ledgerService),
		controller.NewAdminController(reconciliationService, accountService),
		middleware.BasicAuth(userService),
	)

	server := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           mux,
		ReadHeaderTimeout: 10 * time.Second,
	}

	logger.Info("server listening", logger.Fields{"addr": cfg.HTTPAddr})
	if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.Error("server stopped", err, nil)
		os.Exit(1)
	}
}

// seedAdmin provisions the operator account from the environment on boot.
// It is a no-op when the credentials are unset or the user already exists.
func seedAdmin(ctx context.Context, cfg config.Config, users repo_interfaces.UserRepository) error {
	if cfg.AdminEmail == "" || cfg.AdminPassword == "" {
		return nil
	}

	email := strings.ToLower(strings.TrimSpace(cfg.AdminEmail))
	if _, err := users.GetByEmail(ctx, email); err == nil {
		return nil
	} else if !errors.Is(err, domain.ErrRecordNotFound) {
		return err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(cfg.AdminPassword), bcrypt.DefaultCost)
	if err != nil {
		return err
	}

	_, err = users.Create(ctx, domain.User{
		Email:        email,
		PasswordHash: string(hash),
		FirstName:    "System",
		LastName:     "Admin",
		IsAdmin:      true,
	})
	if errors.Is(err, domain.ErrDuplicateIdentifier) {
		// Another replica seeded it first.
		return nil
	}
	return err
}
