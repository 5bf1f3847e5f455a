package gateway

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/SscSPs/coop_ledger/internal/apperrors"
)

var (
	ErrInvalidSignatureHeader = fmt.Errorf("%w: malformed signature header", apperrors.ErrUnauthorized)
	ErrInvalidSignature       = fmt.Errorf("%w: signature mismatch", apperrors.ErrUnauthorized)
	ErrSignatureExpired       = fmt.Errorf("%w: signature timestamp outside tolerance", apperrors.ErrUnauthorized)
)

// SignatureHeader is the request header carrying "t=<unix>,s=<hex>".
const SignatureHeader = "X-Signature"

// parseHeader extracts t and s from a comma-separated k=v header. Unknown keys are ignored.
func parseHeader(header string) (string, string, error) {
	var ts, sig string
	for _, part := range strings.Split(header, ",") {
		k, v, ok := strings.Cut(strings.TrimSpace(part), "=")
		if !ok {
			continue
		}
		switch strings.TrimSpace(k) {
		case "t":
			ts = strings.TrimSpace(v)
		case "s":
			sig = strings.TrimSpace(v)
		}
	}
	if ts == "" || sig == "" {
		return "", "", ErrInvalidSignatureHeader
	}
	return ts, sig, nil
}

func mac(secret, ts string, body []byte) []byte {
	h := hmac.New(sha256.New, []byte(secret))
	h.Write([]byte(ts))
	h.Write([]byte("."))
	h.Write(body)
	return h.Sum(nil)
}

// VerifySignature checks HMAC-SHA256(secret, "{t}.{body}") against the header's s value.
// A positive tolerance also rejects timestamps further than tolerance from now.
func VerifySignature(header string, body []byte, secret string, tolerance time.Duration, now time.Time) error {
	ts, sig, err := parseHeader(header)
	if err != nil {
		return err
	}
	given, err := hex.DecodeString(sig)
	if err != nil {
		return ErrInvalidSignatureHeader
	}
	if tolerance > 0 {
		unix, err := strconv.ParseInt(ts, 10, 64)
		if err != nil {
			return ErrInvalidSignatureHeader
		}
		skew := now.Sub(time.Unix(unix, 0))
		if skew < 0 {
			skew = -skew
		}
		if skew > tolerance {
			return ErrSignatureExpired
		}
	}
	if !hmac.Equal(given, mac(secret, ts, body)) {
		return ErrInvalidSignature
	}
	return nil
}

// Sign produces a header value VerifySignature accepts.
func Sign(body []byte, secret string, at time.Time) string {
	ts := strconv.FormatInt(at.Unix(), 10)
	return "t=" + ts + ",s=" + hex.EncodeToString(mac(secret, ts, body))
}
