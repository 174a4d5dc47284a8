package services

// ServiceContainer holds instances of all the application services.
// This is the main entry point for accessing service functionality and
// is used by the command runners and the handlers.
type ServiceContainer struct {
	Ledger          LedgerPosterSvc
	BankMatcher     BankMatcherSvc
	ManagedAccount  ManagedAccountSvc
	BankTransaction BankTransactionSvc
	Refund          RefundCompleterSvc
	Notification    NotificationSvc
	Audit           AuditLoggerSvc
	ReportFetcher   ReportFetcherSvc
	ReportProcessor ReportProcessorSvc
	ReportIntake    ReportIntakeSvc
	WiseReconciler  WiseReconcilerSvc
	BalanceVerifier BalanceVerifierSvc
}
