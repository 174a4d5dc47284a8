package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/SscSPs/payment_reconciler/internal/adapters/adyen"
	"github.com/SscSPs/payment_reconciler/internal/adapters/gocardless"
	"github.com/SscSPs/payment_reconciler/internal/adapters/wise"
	portsrepo "github.com/SscSPs/payment_reconciler/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/payment_reconciler/internal/core/ports/services"
	"github.com/SscSPs/payment_reconciler/internal/core/services"
	"github.com/SscSPs/payment_reconciler/internal/platform/config"
	"github.com/SscSPs/payment_reconciler/internal/repositories/database/pgsql"
	"github.com/SscSPs/payment_reconciler/pkg/database"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/spf13/cobra"
	"golang.org/x/time/rate"
)

// app carries what the subcommands share. It is filled in by the root command's
// PersistentPreRunE; the database is only opened by commands that need it.
type app struct {
	cfg     *config.Config
	methods *config.PaymentMethods
	logger  *slog.Logger
	level   *slog.LevelVar

	pool     *pgxpool.Pool
	repos    portsrepo.RepositoryProvider
	services *portssvc.ServiceContainer
}

func main() {
	a := &app{level: new(slog.LevelVar)}

	rootCmd := &cobra.Command{
		Use:           "recon",
		Short:         "Payment provider reconciliation and ledger posting",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.loadConfig()
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			database.ClosePgxPool(a.pool)
		},
	}

	rootCmd.AddCommand(adyenReportsCmd(a))
	rootCmd.AddCommand(wiseFetchCmd(a))
	rootCmd.AddCommand(gocardlessVerifyCmd(a))
	rootCmd.AddCommand(serveCmd(a))
	rootCmd.AddCommand(migrateCmd(a))
	rootCmd.AddCommand(hashPasswordCmd())

	if err := rootCmd.Execute(); err != nil {
		if a.logger != nil {
			a.logger.Error("Command failed", slog.String("error", err.Error()))
		} else {
			fmt.Fprintln(os.Stderr, err)
		}
		os.Exit(1)
	}
}

func (a *app) loadConfig() error {
	cfg, err := config.LoadConfig()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	a.cfg = cfg

	if err := a.level.UnmarshalText([]byte(strings.ToUpper(cfg.LogLevel))); err != nil {
		a.level.Set(slog.LevelInfo)
	}
	a.logger = slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: a.level}))
	slog.SetDefault(a.logger)

	methods, err := config.LoadPaymentMethods(cfg.PaymentMethodsFile)
	if err != nil {
		return fmt.Errorf("failed to load payment methods: %w", err)
	}
	a.methods = methods
	return nil
}

// quiet drops info level logging for scheduled runs.
func (a *app) quiet() {
	a.level.Set(slog.LevelWarn)
}

// connect opens the database pool and builds the repositories and services.
func (a *app) connect(ctx context.Context) error {
	pool, err := database.NewPgxPool(ctx, a.cfg.DatabaseURL)
	if err != nil {
		return fmt.Errorf("failed to initialize database pool: %w", err)
	}
	a.pool = pool
	a.repos = pgsql.NewRepositoryProvider(pool)

	// One limiter per provider, shared by every payment method using it
	newLimiter := func() *rate.Limiter {
		return rate.NewLimiter(rate.Limit(a.cfg.ProviderRateLimit), 1)
	}
	clients := services.ProviderClients{
		Reports:  adyen.NewReportClient(a.cfg.HTTPTimeout, newLimiter()),
		Wise:     wise.NewClient(a.cfg.WiseBaseURL, a.cfg.HTTPTimeout, newLimiter()),
		Balances: gocardless.NewClient(a.cfg.GoCardlessBaseURL, a.cfg.HTTPTimeout, newLimiter()),
	}
	a.services = services.NewServiceContainer(a.cfg, a.repos, clients, nil)
	return nil
}
