// Package memory is a mutex-guarded, map-backed implementation of every
// repository port. It backs STORAGE_DRIVER=memory and the store-level tests.
package memory

import (
	"sync"

	"github.com/SscSPs/coop_ledger/internal/core/domain"
	portsrepo "github.com/SscSPs/coop_ledger/internal/core/ports/repositories"
)

type Store struct {
	mu sync.RWMutex

	accounts map[string]domain.Account

	entries   map[string]domain.JournalEntry
	byPayment map[string]string // payment id -> journal id
	lines     map[string]domain.MirroredLine

	payments map[string]domain.Payment

	sequences map[string]int64

	caches    map[string]domain.ReportCache
	snapshots []domain.ReportSnapshot

	settings map[string][]byte

	lockMu      sync.Mutex
	memberLocks map[string]*sync.Mutex
}

func New() *Store {
	return &Store{
		accounts:    make(map[string]domain.Account),
		entries:     make(map[string]domain.JournalEntry),
		byPayment:   make(map[string]string),
		lines:       make(map[string]domain.MirroredLine),
		payments:    make(map[string]domain.Payment),
		sequences:   make(map[string]int64),
		caches:      make(map[string]domain.ReportCache),
		settings:    make(map[string][]byte),
		memberLocks: make(map[string]*sync.Mutex),
	}
}

// Repositories exposes the store through the repository ports.
func (s *Store) Repositories() portsrepo.RepositoryProvider {
	return portsrepo.RepositoryProvider{
		AccountRepo:   s,
		JournalRepo:   s,
		PaymentRepo:   s,
		SequenceRepo:  s,
		ReportingRepo: s,
		SettingsRepo:  s,
	}
}

var (
	_ portsrepo.AccountRepositoryFacade   = (*Store)(nil)
	_ portsrepo.JournalRepositoryFacade   = (*Store)(nil)
	_ portsrepo.PaymentRepositoryFacade   = (*Store)(nil)
	_ portsrepo.SequenceRepository        = (*Store)(nil)
	_ portsrepo.ReportingRepositoryFacade = (*Store)(nil)
	_ portsrepo.SettingsRepository        = (*Store)(nil)
)
