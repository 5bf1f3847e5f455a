package dto

import (
	"time"

	"github.com/SscSPs/coop_ledger/internal/core/domain"
)

// CreateAccountRequest defines the data needed to create a new account.
type CreateAccountRequest struct {
	Code        *int               `json:"code"` // Optional; must fall in the type's code block
	Main        string             `json:"main" binding:"required"`
	Individual  string             `json:"individual"`
	AccountType domain.AccountType `json:"accountType" binding:"required,oneof=ASSET LIABILITY EQUITY REVENUE INCOME EXPENSE"`
	Role        domain.AccountRole `json:"role" binding:"omitempty,oneof=CASH LOAN_RECEIVABLE INVENTORY SHARE_CAPITAL"`
	OwnerRef    string             `json:"ownerRef"`
}

// AccountResponse defines the data returned for an account.
type AccountResponse struct {
	AccountID     string             `json:"accountID"`
	Code          *int               `json:"code,omitempty"`
	Main          string             `json:"main"`
	Individual    string             `json:"individual"`
	DisplayName   string             `json:"displayName"`
	AccountType   domain.AccountType `json:"accountType"`
	Role          domain.AccountRole `json:"role,omitempty"`
	Archived      bool               `json:"archived"`
	OwnerRef      string             `json:"ownerRef,omitempty"`
	CreatedAt     time.Time          `json:"createdAt"`
	CreatedBy     string             `json:"createdBy"`
	LastUpdatedAt time.Time          `json:"lastUpdatedAt"`
	LastUpdatedBy string             `json:"lastUpdatedBy"`
}

// ToAccountResponse converts a domain.Account to AccountResponse DTO
func ToAccountResponse(acc *domain.Account) AccountResponse {
	return AccountResponse{
		AccountID:     acc.AccountID,
		Code:          acc.Code,
		Main:          acc.Main,
		Individual:    acc.Individual,
		DisplayName:   acc.DisplayName(),
		AccountType:   acc.AccountType,
		Role:          acc.Role,
		Archived:      acc.Archived,
		OwnerRef:      acc.OwnerRef,
		CreatedAt:     acc.CreatedAt,
		CreatedBy:     acc.CreatedBy,
		LastUpdatedAt: acc.LastUpdatedAt,
		LastUpdatedBy: acc.LastUpdatedBy,
	}
}

// ToListAccountResponse converts a slice of domain.Account to a slice of AccountResponse DTOs
func ToListAccountResponse(accounts []domain.Account) []AccountResponse {
	res := make([]AccountResponse, len(accounts))
	for i := range accounts {
		res[i] = ToAccountResponse(&accounts[i])
	}
	return res
}

// ListAccountsParams defines query parameters for listing accounts.
type ListAccountsParams struct {
	IncludeArchived bool `form:"includeArchived,default=false"`
}
