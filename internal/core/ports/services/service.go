package services

// ServiceContainer holds instances of all the application services.
// This is the main entry point for accessing service functionality and
// is used throughout the application, particularly in the handlers.
type ServiceContainer struct {
	Account   AccountSvcFacade
	Sequence  SequenceSvc
	Ledger    LedgerSvcFacade
	Settings  SettingsSvc
	Reporting ReportingService
	Posting   PostingSvc
	Sweeper   SweeperSvc
	Payment   PaymentSvcFacade
	Gateway   GatewaySvc
}
