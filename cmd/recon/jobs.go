package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/SscSPs/payment_reconciler/internal/core/services"
	"github.com/SscSPs/payment_reconciler/internal/middleware"
	"github.com/spf13/cobra"
)

// runLocked runs fn for one payment method under the job lock "<job>:<method id>".
func (a *app) runLocked(ctx context.Context, job string, methodID int, methodName string, fn func(ctx context.Context) error) error {
	logger := a.logger.With(
		slog.String("job", job),
		slog.Int("payment_method", methodID),
		slog.String("payment_method_name", methodName),
	)
	ctx = middleware.WithLogger(ctx, logger)

	ran, err := services.RunExclusive(ctx, a.repos.Locker, fmt.Sprintf("%s:%d", job, methodID), fn)
	if err != nil {
		logger.Error("Job failed", slog.String("error", err.Error()))
		return fmt.Errorf("%s for payment method %d: %w", job, methodID, err)
	}
	if ran {
		logger.Info("Job completed")
	}
	return nil
}

func adyenReportsCmd(a *app) *cobra.Command {
	var only string
	var quiet bool

	cmd := &cobra.Command{
		Use:   "adyen-reports",
		Short: "Download and process pending Adyen reports",
		RunE: func(cmd *cobra.Command, args []string) error {
			if only != "" && only != "download" && only != "process" {
				return fmt.Errorf("invalid value for --only: %q (want download or process)", only)
			}
			if quiet {
				a.quiet()
			}
			ctx := cmd.Context()
			if err := a.connect(ctx); err != nil {
				return err
			}

			var errs []error
			for _, method := range a.methods.AdyenMethods() {
				err := a.runLocked(ctx, "adyen-reports", method.ID, method.Name, func(ctx context.Context) error {
					if only != "process" {
						if err := a.services.ReportFetcher.DownloadReports(ctx, method); err != nil {
							return err
						}
					}
					if only != "download" {
						return a.services.ReportProcessor.ProcessReports(ctx, method)
					}
					return nil
				})
				errs = append(errs, err)
			}
			return errors.Join(errs...)
		},
	}

	cmd.Flags().StringVar(&only, "only", "", "only run one step (download or process)")
	cmd.Flags().BoolVarP(&quiet, "quiet", "q", false, "only log warnings and errors")
	return cmd
}

func wiseFetchCmd(a *app) *cobra.Command {
	var days int

	cmd := &cobra.Command{
		Use:   "wise-fetch",
		Short: "Fetch Wise transactions and reconcile refunds, returns and payouts",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			if err := a.connect(ctx); err != nil {
				return err
			}

			since := sinceDays(time.Now(), days)

			var errs []error
			for _, method := range a.methods.WiseMethods() {
				err := a.runLocked(ctx, "wise-fetch", method.ID, method.Name, func(ctx context.Context) error {
					return a.services.WiseReconciler.FetchTransactions(ctx, method, since)
				})
				errs = append(errs, err)
			}
			return errors.Join(errs...)
		},
	}

	cmd.Flags().IntVar(&days, "days", 0, "number of days back to get transactions for")
	return cmd
}

// sinceDays returns midnight UTC days days before now, or nil if days is not positive.
func sinceDays(now time.Time, days int) *time.Time {
	if days <= 0 {
		return nil
	}
	y, m, d := now.UTC().Date()
	start := time.Date(y, m, d, 0, 0, 0, 0, time.UTC).AddDate(0, 0, -days)
	return &start
}

func gocardlessVerifyCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "gocardless-verify",
		Short: "Compare GoCardless balances with the ledger",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			if err := a.connect(ctx); err != nil {
				return err
			}

			var errs []error
			for _, method := range a.methods.GoCardlessMethods() {
				if !method.VerifyBalances {
					continue
				}
				err := a.runLocked(ctx, "gocardless-verify", method.ID, method.Name, func(ctx context.Context) error {
					_, err := a.services.BalanceVerifier.VerifyBalance(ctx, method)
					return err
				})
				errs = append(errs, err)
			}
			return errors.Join(errs...)
		},
	}
}
