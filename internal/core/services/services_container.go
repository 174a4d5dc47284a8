package services

import (
	"github.com/SscSPs/payment_reconciler/internal/core/domain"
	"github.com/SscSPs/payment_reconciler/internal/core/ports/providers"
	portsrepo "github.com/SscSPs/payment_reconciler/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/payment_reconciler/internal/core/ports/services"
	"github.com/SscSPs/payment_reconciler/internal/platform/config"
	"github.com/patrickmn/go-cache"
)

// ProviderClients holds the outbound provider API clients.
type ProviderClients struct {
	Reports  providers.ReportSource
	Wise     providers.WiseFeed
	Balances providers.BalanceSource
}

// NewServiceContainer creates a new service container with properly initialized dependencies.
// invoiceMatcher may be nil.
func NewServiceContainer(cfg *config.Config, repos portsrepo.RepositoryProvider, clients ProviderClients, invoiceMatcher portssvc.InvoicePaymentMatcher) *portssvc.ServiceContainer {
	container := &portssvc.ServiceContainer{}

	// Leaf services first, the batch services depend on them
	container.Audit = NewAuditService(repos.ProviderLogRepo)
	container.Notification = NewNotificationService(repos.MailRepo)
	container.Ledger = NewLedgerService(repos.LedgerRepo, cfg.CurrencyCode)
	container.BankMatcher = NewBankMatcherService(repos.TxManager, repos.MatcherRepo, container.Ledger)
	container.ManagedAccount = NewManagedAccountService(repos.ManagedAcctRepo,
		cache.New(cfg.ManagedAccountCacheTTL, 2*cfg.ManagedAccountCacheTTL))
	container.BankTransaction = NewBankTransactionService(repos.BankTxnRepo, invoiceMatcher)
	container.Refund = NewRefundService(repos.InvoiceRefundRepo, container.Ledger, cfg.RefundAccount)

	container.ReportIntake = NewReportIntakeService(repos.TxManager, repos.ReportRepo, container.Audit)
	container.ReportFetcher = NewReportFetcherService(repos.TxManager, repos.ReportRepo, clients.Reports, container.Audit)
	container.ReportProcessor = NewReportProcessorService(repos.TxManager, repos.ReportRepo, container.Audit,
		WithReportHandler(domain.ReportKindPaymentsAccounting,
			NewPaymentsAccountingHandler(repos.TransactionRepo, container.Ledger, container.Audit)),
		WithReportHandler(domain.ReportKindReceivedPayments, ReceivedPaymentsHandler{}),
		WithReportHandler(domain.ReportKindSettlementDetail,
			NewSettlementDetailHandler(container.Ledger, container.BankMatcher, container.ManagedAccount,
				container.Notification, cfg.InvoiceSenderEmail)),
	)

	container.WiseReconciler = NewWiseReconcilerService(WiseReconcilerDeps{
		TxManager:    repos.TxManager,
		Feed:         clients.Wise,
		WiseRepo:     repos.WiseRepo,
		Ledger:       container.Ledger,
		Matchers:     container.BankMatcher,
		Managed:      container.ManagedAccount,
		BankTxns:     container.BankTransaction,
		Refunds:      container.Refund,
		Audit:        container.Audit,
		OrgShortname: cfg.OrgShortname,
	})
	container.BalanceVerifier = NewBalanceVerifierService(clients.Balances, container.Ledger, repos.BankTxnRepo,
		container.Notification, cfg.InvoiceSenderEmail)

	return container
}
