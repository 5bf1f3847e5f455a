package domain_test

import (
	"testing"

	"github.com/SscSPs/coop_ledger/internal/core/domain"
	"github.com/stretchr/testify/assert"
)

func TestComposeDisplayName(t *testing.T) {
	tests := []struct {
		name string
		in   domain.MemberName
		want string
	}{
		{"first middle last", domain.MemberName{FirstName: "Juan", MiddleName: "santos", LastName: "Dela Cruz"}, "Juan S. Dela Cruz"},
		{"no middle", domain.MemberName{FirstName: "Ana", LastName: "Reyes"}, "Ana Reyes"},
		{"collapses whitespace", domain.MemberName{FirstName: "  Ana ", LastName: " de   la  Paz "}, "Ana de la Paz"},
		{"display fallback", domain.MemberName{FirstName: "Ana", DisplayName: " Ana  R. "}, "Ana R."},
		{"first only", domain.MemberName{FirstName: "Ana"}, "Ana"},
		{"empty", domain.MemberName{}, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, domain.ComposeDisplayName(tt.in))
		})
	}
}

func TestAccount_DisplayName(t *testing.T) {
	assert.Equal(t, "Share Capital", domain.Account{Main: "Share Capital"}.DisplayName())
	assert.Equal(t, "Share Capital - Ana Reyes", domain.Account{Main: "Share Capital", Individual: "Ana Reyes"}.DisplayName())
	assert.True(t, domain.SameMain(" share capital", "Share Capital "))
}
