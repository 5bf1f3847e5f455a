package gateway

import (
	"testing"
	"time"

	"github.com/SscSPs/coop_ledger/internal/apperrors"
	"github.com/stretchr/testify/assert"
)

func TestVerifySignature(t *testing.T) {
	const secret = "whsec_test"
	now := time.Unix(1_700_000_000, 0)
	body := []byte(`{"data":{"id":"evt_1"}}`)
	valid := Sign(body, secret, now)

	tests := []struct {
		name      string
		header    string
		body      []byte
		tolerance time.Duration
		wantErr   error
	}{
		{name: "valid", header: valid, body: body},
		{name: "extra pairs are ignored", header: "v=1," + valid + ",te=abc", body: body},
		{name: "whitespace around pairs", header: " t=1700000000 , s=" + valid[len("t=1700000000,s="):], body: body},
		{name: "tampered body", header: valid, body: []byte(`{"data":{"id":"evt_2"}}`), wantErr: ErrInvalidSignature},
		{name: "wrong secret", header: Sign(body, "other", now), body: body, wantErr: ErrInvalidSignature},
		{name: "missing signature", header: "t=1700000000", body: body, wantErr: ErrInvalidSignatureHeader},
		{name: "missing timestamp", header: "s=abcd", body: body, wantErr: ErrInvalidSignatureHeader},
		{name: "empty header", header: "", body: body, wantErr: ErrInvalidSignatureHeader},
		{name: "non-hex signature", header: "t=1700000000,s=zz", body: body, wantErr: ErrInvalidSignatureHeader},
		{name: "inside tolerance", header: valid, body: body, tolerance: time.Minute},
		{name: "outside tolerance", header: Sign(body, secret, now.Add(-10*time.Minute)), body: body, tolerance: 5 * time.Minute, wantErr: ErrSignatureExpired},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := VerifySignature(tt.header, tt.body, secret, tt.tolerance, now)
			if tt.wantErr == nil {
				assert.NoError(t, err)
				return
			}
			assert.ErrorIs(t, err, tt.wantErr)
			assert.ErrorIs(t, err, apperrors.ErrUnauthorized)
		})
	}
}

func TestParseEvent(t *testing.T) {
	body := []byte(`{
		"data": {
			"id": "evt_123",
			"attributes": {
				"type": "checkout_session.payment.paid",
				"data": {
					"id": "cs_1",
					"attributes": {
						"reference_number": "COOP-abc",
						"description": "Membership fee",
						"metadata": {"payment_id": "abc"}
					}
				}
			}
		}
	}`)

	ev, err := ParseEvent(body)

	assert.NoError(t, err)
	assert.Equal(t, "evt_123", ev.ID)
	assert.True(t, ev.IsPaid())
	assert.Equal(t, "COOP-abc", ev.Reference())
	assert.Equal(t, "abc", ev.PaymentID)
}

func TestParseEvent_FallsBackToDescription(t *testing.T) {
	ev, err := ParseEvent([]byte(`{"data":{"attributes":{"type":"payment.paid","data":{"attributes":{"description":"COOP-xyz"}}}}}`))

	assert.NoError(t, err)
	assert.Equal(t, "COOP-xyz", ev.Reference())
	assert.Empty(t, ev.PaymentID)
}

func TestParseEvent_InvalidJSON(t *testing.T) {
	_, err := ParseEvent([]byte(`not json`))
	assert.ErrorIs(t, err, apperrors.ErrValidation)
}

func TestStripPrefix(t *testing.T) {
	assert.Equal(t, "abc", StripPrefix("COOP-abc", "COOP-"))
	assert.Equal(t, "abc", StripPrefix(" coop-abc ", "COOP-"))
	assert.Equal(t, "abc", StripPrefix("abc", "COOP-"))
	assert.Equal(t, "COOP-abc", StripPrefix("COOP-abc", ""))
}
