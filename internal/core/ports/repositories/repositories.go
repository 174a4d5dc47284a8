package repositories

// RepositoryProvider holds all repository interfaces needed by services.
// This makes passing dependencies to the service container constructor cleaner.
type RepositoryProvider struct {
	TxManager         TransactionManager
	Locker            JobLocker
	ReportRepo        ReportRepositoryFacade
	TransactionRepo   TransactionStatusRepositoryFacade
	LedgerRepo        LedgerRepositoryFacade
	MatcherRepo       BankMatcherRepositoryFacade
	BankTxnRepo       BankTransactionRepositoryFacade
	InvoiceRefundRepo InvoiceRefundRepositoryFacade
	ManagedAcctRepo   ManagedAccountRepository
	WiseRepo          WiseRepositoryFacade
	ProviderLogRepo   ProviderLogRepository
	MailRepo          MailQueueRepository
}
