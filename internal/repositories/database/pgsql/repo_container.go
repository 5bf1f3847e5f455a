package pgsql

import (
	portsrepo "github.com/SscSPs/coop_ledger/internal/core/ports/repositories"
	"github.com/jackc/pgx/v5/pgxpool"
)

func NewRepositoryProvider(dbPool *pgxpool.Pool) portsrepo.RepositoryProvider {
	return portsrepo.RepositoryProvider{
		AccountRepo:   newPgxAccountRepository(dbPool),
		JournalRepo:   newPgxJournalRepository(dbPool),
		PaymentRepo:   newPgxPaymentRepository(dbPool),
		SequenceRepo:  newPgxSequenceRepository(dbPool),
		ReportingRepo: newReportingRepository(dbPool),
		SettingsRepo:  newPgxSettingsRepository(dbPool),
	}
}
