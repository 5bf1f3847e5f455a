package models

// Account is a row of the accounts table.
type Account struct {
	AccountID   string  `db:"account_id"`
	Code        *int    `db:"code"` // Nullable for legacy rows
	Main        string  `db:"main"`
	Individual  string  `db:"individual"`
	AccountType string  `db:"account_type"`
	Role        string  `db:"role"`
	OwnerRef    *string `db:"owner_ref"` // Nullable on canonical rows
	Archived    bool    `db:"archived"`
	AuditFields
}
