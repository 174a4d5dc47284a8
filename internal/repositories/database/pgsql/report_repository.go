package pgsql

import (
	"context"
	"strconv"

	"github.com/SscSPs/payment_reconciler/internal/apperrors"
	"github.com/SscSPs/payment_reconciler/internal/core/domain"
	portsrepo "github.com/SscSPs/payment_reconciler/internal/core/ports/repositories"
	"github.com/SscSPs/payment_reconciler/internal/models"
	"github.com/SscSPs/payment_reconciler/internal/utils/mapping"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type PgxReportRepository struct {
	BaseRepository
}

func newPgxReportRepository(pool *pgxpool.Pool) portsrepo.ReportRepositoryFacade {
	return &PgxReportRepository{BaseRepository: BaseRepository{Pool: pool}}
}

var _ portsrepo.ReportRepositoryFacade = (*PgxReportRepository)(nil)

const reportColumns = `report_id, payment_method_id, url, kind, batch_number, merchant_account,
	contents, received_at, downloaded_at, processed_at`

// CreateReport inserts a new report row.
func (r *PgxReportRepository) CreateReport(ctx context.Context, report domain.Report) error {
	m := mapping.ToModelReport(report)
	query := `INSERT INTO payment_reports (` + reportColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10);`
	_, err := r.conn(ctx).Exec(ctx, query,
		m.ReportID, m.PaymentMethodID, m.URL, m.Kind, m.BatchNumber, m.MerchantAccount,
		m.Contents, m.ReceivedAt, m.DownloadedAt, m.ProcessedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return apperrors.ErrDuplicate
		}
		return apperrors.NewAppError(500, "failed to insert report "+m.URL, err)
	}
	return nil
}

// UpdateReport stores contents and timestamps of an existing report.
func (r *PgxReportRepository) UpdateReport(ctx context.Context, report domain.Report) error {
	m := mapping.ToModelReport(report)
	query := `
		UPDATE payment_reports
		SET contents = $2, downloaded_at = $3, processed_at = $4
		WHERE report_id = $1;
	`
	tag, err := r.conn(ctx).Exec(ctx, query, m.ReportID, m.Contents, m.DownloadedAt, m.ProcessedAt)
	if err != nil {
		return apperrors.NewAppError(500, "failed to update report "+m.ReportID, err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

// FindReportsPendingDownload lists reports that were never fetched.
func (r *PgxReportRepository) FindReportsPendingDownload(ctx context.Context, paymentMethodID int) ([]domain.Report, error) {
	query := `SELECT ` + reportColumns + `
		FROM payment_reports
		WHERE payment_method_id = $1 AND downloaded_at IS NULL
		ORDER BY received_at, report_id;`
	return r.queryReports(ctx, query, paymentMethodID)
}

// FindReportsPendingProcessing lists fetched reports that still need to be processed.
func (r *PgxReportRepository) FindReportsPendingProcessing(ctx context.Context, paymentMethodID int) ([]domain.Report, error) {
	query := `SELECT ` + reportColumns + `
		FROM payment_reports
		WHERE payment_method_id = $1 AND downloaded_at IS NOT NULL AND processed_at IS NULL
		ORDER BY downloaded_at, report_id;`
	return r.queryReports(ctx, query, paymentMethodID)
}

func (r *PgxReportRepository) queryReports(ctx context.Context, query string, paymentMethodID int) ([]domain.Report, error) {
	rows, err := r.conn(ctx).Query(ctx, query, paymentMethodID)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to query reports for payment method "+strconv.Itoa(paymentMethodID), err)
	}

	reports, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (models.Report, error) {
		var m models.Report
		err := row.Scan(
			&m.ReportID, &m.PaymentMethodID, &m.URL, &m.Kind, &m.BatchNumber, &m.MerchantAccount,
			&m.Contents, &m.ReceivedAt, &m.DownloadedAt, &m.ProcessedAt,
		)
		return m, err
	})
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to scan reports", err)
	}
	return mapping.ToDomainReports(reports), nil
}
