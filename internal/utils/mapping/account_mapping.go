package mapping

import (
	"github.com/SscSPs/coop_ledger/internal/core/domain"
	"github.com/SscSPs/coop_ledger/internal/models"
)

// ToModelAccount converts a domain Account to a model Account
func ToModelAccount(d domain.Account) models.Account {
	return models.Account{
		AccountID:   d.AccountID,
		Code:        d.Code,
		Main:        d.Main,
		Individual:  d.Individual,
		AccountType: string(d.AccountType.Normalize()),
		Role:        string(d.Role),
		OwnerRef:    nullable(d.OwnerRef),
		Archived:    d.Archived,
		AuditFields: ToModelAuditFields(d.AuditFields),
	}
}

// ToDomainAccount converts a model Account to a domain Account
func ToDomainAccount(m models.Account) domain.Account {
	return domain.Account{
		AccountID:   m.AccountID,
		Code:        m.Code,
		Main:        m.Main,
		Individual:  m.Individual,
		AccountType: domain.AccountType(m.AccountType),
		Role:        domain.AccountRole(m.Role),
		OwnerRef:    deref(m.OwnerRef),
		Archived:    m.Archived,
		AuditFields: ToDomainAuditFields(m.AuditFields),
	}
}

// ToDomainAccountSlice converts a slice of model Accounts to a slice of domain Accounts
func ToDomainAccountSlice(ms []models.Account) []domain.Account {
	ds := make([]domain.Account, len(ms))
	for i, m := range ms {
		ds[i] = ToDomainAccount(m)
	}
	return ds
}
