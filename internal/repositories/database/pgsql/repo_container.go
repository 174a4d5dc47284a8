package pgsql

import (
	portsrepo "github.com/SscSPs/payment_reconciler/internal/core/ports/repositories"
	"github.com/jackc/pgx/v5/pgxpool"
)

func NewRepositoryProvider(dbPool *pgxpool.Pool) portsrepo.RepositoryProvider {
	return portsrepo.RepositoryProvider{
		TxManager:         newPgxTxManager(dbPool),
		Locker:            newPgxAdvisoryLocker(dbPool),
		ReportRepo:        newPgxReportRepository(dbPool),
		TransactionRepo:   newPgxTransactionStatusRepository(dbPool),
		LedgerRepo:        newPgxLedgerRepository(dbPool),
		MatcherRepo:       newPgxBankMatcherRepository(dbPool),
		BankTxnRepo:       newPgxBankTransactionRepository(dbPool),
		InvoiceRefundRepo: newPgxInvoiceRefundRepository(dbPool),
		ManagedAcctRepo:   newPgxManagedAccountRepository(dbPool),
		WiseRepo:          newPgxWiseRepository(dbPool),
		ProviderLogRepo:   newPgxProviderLogRepository(dbPool),
		MailRepo:          newPgxMailQueueRepository(dbPool),
	}
}
