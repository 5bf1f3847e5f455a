package handlers_test

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/SscSPs/coop_ledger/internal/adapters/gateway"
	"github.com/SscSPs/coop_ledger/internal/core/domain"
	"github.com/SscSPs/coop_ledger/internal/core/services"
	"github.com/SscSPs/coop_ledger/internal/handlers"
	"github.com/SscSPs/coop_ledger/internal/middleware"
	"github.com/SscSPs/coop_ledger/internal/platform/config"
	"github.com/SscSPs/coop_ledger/internal/repositories/memory"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/suite"
)

const (
	testJWTSecret     = "handler-test-secret"
	testJWTIssuer     = "coop-ledger"
	testWebhookSecret = "whsec_handlers"
)

type HandlersTestSuite struct {
	suite.Suite
	router        *gin.Engine
	memberToken   string
	treasurerTok  string
	otherMemberTk string
}

func (s *HandlersTestSuite) SetupSuite() {
	gin.SetMode(gin.TestMode)
	s.Require().NoError(handlers.RegisterValidators())

	var err error
	s.memberToken, err = middleware.IssueToken(testJWTSecret, testJWTIssuer, "u1", nil, time.Hour)
	s.Require().NoError(err)
	s.otherMemberTk, err = middleware.IssueToken(testJWTSecret, testJWTIssuer, "u2", nil, time.Hour)
	s.Require().NoError(err)
	s.treasurerTok, err = middleware.IssueToken(testJWTSecret, testJWTIssuer, "t1", []string{domain.RoleNameTreasurer}, time.Hour)
	s.Require().NoError(err)
}

func (s *HandlersTestSuite) SetupTest() {
	cfg := &config.Config{
		IsProduction:       true,
		StorageDriver:      config.StorageMemory,
		JWTSecret:          testJWTSecret,
		JWTIssuer:          testJWTIssuer,
		RebuildTimezone:    time.UTC,
		SweepPageSize:      50,
		PostingMaxAttempts: 5,
		PostingStaleAfter:  5 * time.Minute,
		PostingBackoffMax:  time.Hour,
		Accounting:         domain.DefaultAccountingSettings(),
		Payment: domain.PaymentSettings{
			ReferencePrefix:    "COOP-",
			WebhookSecret:      testWebhookSecret,
			SignatureTolerance: 5 * time.Minute,
			Currency:           "PHP",
		},
	}
	store := memory.New()
	container := services.NewServiceContainer(cfg, store.Repositories(), gateway.NewProviderClient(nil), nil)
	_, err := container.Account.EnsureCanonicalAccounts(context.Background())
	s.Require().NoError(err)

	s.router = gin.New()
	handlers.RegisterRoutes(s.router, cfg, container, nil, nil)
}

func (s *HandlersTestSuite) do(method, path, token string, body any) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		s.Require().NoError(json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)
	return w
}

func (s *HandlersTestSuite) decode(w *httptest.ResponseRecorder, v any) {
	s.Require().NoError(json.Unmarshal(w.Body.Bytes(), v), w.Body.String())
}

func (s *HandlersTestSuite) createMembershipFee(token string) domain.Payment {
	w := s.do(http.MethodPost, "/api/v1/payments", token, gin.H{
		"type":        "membership_fee",
		"amount":      "300",
		"method":      "gcash",
		"displayName": "Juan Dela Cruz",
	})
	s.Require().Equal(http.StatusCreated, w.Code, w.Body.String())
	var p domain.Payment
	s.decode(w, &p)
	return p
}

func (s *HandlersTestSuite) TestHealth() {
	w := s.do(http.MethodGet, "/health", "", nil)
	s.Equal(http.StatusOK, w.Code)
	s.Equal("OK", w.Body.String())
}

func (s *HandlersTestSuite) TestAPIRequiresToken() {
	w := s.do(http.MethodGet, "/api/v1/accounts", "", nil)
	s.Equal(http.StatusUnauthorized, w.Code)
}

func (s *HandlersTestSuite) TestListAccounts() {
	w := s.do(http.MethodGet, "/api/v1/accounts", s.memberToken, nil)
	s.Require().Equal(http.StatusOK, w.Code)
	var accounts []map[string]any
	s.decode(w, &accounts)
	s.Len(accounts, len(domain.DefaultChart))
	s.Equal("Cash on Hand", accounts[0]["main"])
}

func (s *HandlersTestSuite) TestCreatePayment_RejectsNonPositiveAmount() {
	w := s.do(http.MethodPost, "/api/v1/payments", s.memberToken, gin.H{
		"type":   "membership_fee",
		"amount": "0",
		"method": "cash",
	})
	s.Equal(http.StatusBadRequest, w.Code)
}

func (s *HandlersTestSuite) TestApproveFlow() {
	payment := s.createMembershipFee(s.memberToken)
	s.Equal(domain.PaymentPending, payment.Status)

	path := fmt.Sprintf("/api/v1/payments/%s/approve", payment.PaymentID)
	s.Equal(http.StatusForbidden, s.do(http.MethodPost, path, s.memberToken, nil).Code)

	w := s.do(http.MethodPost, path, s.treasurerTok, nil)
	s.Require().Equal(http.StatusOK, w.Code, w.Body.String())
	var res map[string]any
	s.decode(w, &res)
	s.Equal(true, res["ok"])
	s.NotEmpty(res["journalID"])
	s.Equal("000001", res["refNumber"])

	w = s.do(http.MethodGet, "/api/v1/ledger/lines", s.memberToken, nil)
	s.Require().Equal(http.StatusOK, w.Code)
	var lines struct {
		Lines       []domain.MirroredLine `json:"lines"`
		TotalDebit  string                `json:"totalDebit"`
		TotalCredit string                `json:"totalCredit"`
	}
	s.decode(w, &lines)
	s.Len(lines.Lines, 2)
	s.Equal("300", lines.TotalDebit)
	s.Equal("300", lines.TotalCredit)

	// Approving again is a no-op, not an error.
	w = s.do(http.MethodPost, path, s.treasurerTok, nil)
	s.Equal(http.StatusOK, w.Code)
}

func (s *HandlersTestSuite) TestGetPayment_OwnerOnly() {
	payment := s.createMembershipFee(s.memberToken)
	path := "/api/v1/payments/" + payment.PaymentID

	s.Equal(http.StatusOK, s.do(http.MethodGet, path, s.memberToken, nil).Code)
	s.Equal(http.StatusForbidden, s.do(http.MethodGet, path, s.otherMemberTk, nil).Code)
	s.Equal(http.StatusOK, s.do(http.MethodGet, path, s.treasurerTok, nil).Code)
	s.Equal(http.StatusNotFound, s.do(http.MethodGet, "/api/v1/payments/missing", s.treasurerTok, nil).Code)
}

func (s *HandlersTestSuite) TestVoidThenApproveIsRejected() {
	payment := s.createMembershipFee(s.memberToken)

	w := s.do(http.MethodPost, "/api/v1/payments/"+payment.PaymentID+"/void", s.memberToken, nil)
	s.Require().Equal(http.StatusOK, w.Code, w.Body.String())

	w = s.do(http.MethodPost, "/api/v1/payments/"+payment.PaymentID+"/approve", s.treasurerTok, nil)
	s.Equal(http.StatusBadRequest, w.Code)
}

func (s *HandlersTestSuite) TestReports() {
	s.Equal(http.StatusForbidden, s.do(http.MethodPost, "/api/v1/reports/rebuild", s.memberToken, nil).Code)
	s.Equal(http.StatusNotFound, s.do(http.MethodGet, "/api/v1/reports/auto_TB", s.memberToken, nil).Code)

	w := s.do(http.MethodPost, "/api/v1/reports/rebuild", s.treasurerTok, nil)
	s.Require().Equal(http.StatusOK, w.Code, w.Body.String())
	s.JSONEq(`{"ok":true}`, w.Body.String())

	w = s.do(http.MethodGet, "/api/v1/reports/"+domain.AutoReportID(domain.TrialBalanceReport), s.memberToken, nil)
	s.Require().Equal(http.StatusOK, w.Code)
	var report map[string]any
	s.decode(w, &report)
	s.Equal("TB", report["type"])
	s.NotNil(report["payload"])

	w = s.do(http.MethodPost, "/api/v1/reports/snapshots/balance-sheet", s.treasurerTok, nil)
	s.Require().Equal(http.StatusCreated, w.Code, w.Body.String())

	w = s.do(http.MethodGet, "/api/v1/reports/snapshots?type=bs", s.memberToken, nil)
	s.Require().Equal(http.StatusOK, w.Code)
	var snaps []domain.ReportSnapshot
	s.decode(w, &snaps)
	s.Len(snaps, 1)
}

func (s *HandlersTestSuite) postWebhook(body []byte, header string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, "/webhooks/payments", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	if header != "" {
		req.Header.Set(gateway.SignatureHeader, header)
	}
	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)
	return w
}

func (s *HandlersTestSuite) TestWebhook() {
	payment := s.createMembershipFee(s.memberToken)
	body := []byte(fmt.Sprintf(`{"data":{"id":"evt_1","attributes":{"type":"payment.paid","data":{"id":"pay_1","attributes":{"reference_number":%q}}}}}`,
		payment.ReferenceNo))

	s.Run("other methods are not allowed", func() {
		w := s.do(http.MethodGet, "/webhooks/payments", "", nil)
		s.Equal(http.StatusMethodNotAllowed, w.Code)
		s.Equal(http.MethodPost, w.Header().Get("Allow"))
	})

	s.Run("bad signature", func() {
		w := s.postWebhook(body, gateway.Sign(body, "wrong", time.Now()))
		s.Equal(http.StatusUnauthorized, w.Code)
		w = s.postWebhook(body, "")
		s.Equal(http.StatusUnauthorized, w.Code)
	})

	s.Run("paid event marks payment paid", func() {
		w := s.postWebhook(body, gateway.Sign(body, testWebhookSecret, time.Now()))
		s.Require().Equal(http.StatusOK, w.Code, w.Body.String())

		w = s.do(http.MethodGet, "/api/v1/payments/"+payment.PaymentID, s.memberToken, nil)
		s.Require().Equal(http.StatusOK, w.Code)
		var stored domain.Payment
		s.decode(w, &stored)
		s.Equal(domain.PaymentPaid, stored.Status)
		s.Equal(domain.PostingPosted, stored.Posting.Status)
	})
}

func (s *HandlersTestSuite) TestManualEntry() {
	ids := s.accountIDs()
	entry := gin.H{
		"date":        "2025-03-01T00:00:00Z",
		"description": "Office supplies",
		"lines": []gin.H{
			{"accountID": ids["Operating Expenses"], "debit": "150", "credit": "0"},
			{"accountID": ids["Cash on Hand"], "debit": "0", "credit": "150"},
		},
	}
	s.Equal(http.StatusForbidden, s.do(http.MethodPost, "/api/v1/ledger/entries", s.memberToken, entry).Code)

	w := s.do(http.MethodPost, "/api/v1/ledger/entries", s.treasurerTok, entry)
	s.Require().Equal(http.StatusCreated, w.Code, w.Body.String())
	var created map[string]any
	s.decode(w, &created)

	w = s.do(http.MethodGet, "/api/v1/ledger/entries/"+created["journalID"].(string), s.memberToken, nil)
	s.Equal(http.StatusOK, w.Code)

	entry["lines"] = []gin.H{
		{"accountID": ids["Operating Expenses"], "debit": "150", "credit": "0"},
		{"accountID": ids["Cash on Hand"], "debit": "0", "credit": "100"},
	}
	w = s.do(http.MethodPost, "/api/v1/ledger/entries", s.treasurerTok, entry)
	s.Equal(http.StatusBadRequest, w.Code)
}

func (s *HandlersTestSuite) accountIDs() map[string]string {
	w := s.do(http.MethodGet, "/api/v1/accounts", s.treasurerTok, nil)
	s.Require().Equal(http.StatusOK, w.Code)
	var accounts []map[string]any
	s.decode(w, &accounts)
	ids := map[string]string{}
	for _, a := range accounts {
		ids[a["main"].(string)] = a["accountID"].(string)
	}
	return ids
}

func (s *HandlersTestSuite) TestListEntries_Paged() {
	ids := s.accountIDs()
	for _, day := range []string{"2025-03-01", "2025-03-02", "2025-03-03"} {
		w := s.do(http.MethodPost, "/api/v1/ledger/entries", s.treasurerTok, gin.H{
			"date":        day + "T00:00:00Z",
			"description": "Supplies " + day,
			"lines": []gin.H{
				{"accountID": ids["Operating Expenses"], "debit": "10", "credit": "0"},
				{"accountID": ids["Cash on Hand"], "debit": "0", "credit": "10"},
			},
		})
		s.Require().Equal(http.StatusCreated, w.Code, w.Body.String())
	}

	type page struct {
		Entries []struct {
			RefNumber string `json:"refNumber"`
		} `json:"entries"`
		NextToken string `json:"nextToken"`
	}

	w := s.do(http.MethodGet, "/api/v1/ledger/entries?limit=2", s.memberToken, nil)
	s.Require().Equal(http.StatusOK, w.Code, w.Body.String())
	var first page
	s.decode(w, &first)
	s.Require().Len(first.Entries, 2)
	s.Equal("000001", first.Entries[0].RefNumber)
	s.Require().NotEmpty(first.NextToken)

	w = s.do(http.MethodGet, "/api/v1/ledger/entries?limit=2&nextToken="+first.NextToken, s.memberToken, nil)
	s.Require().Equal(http.StatusOK, w.Code, w.Body.String())
	var second page
	s.decode(w, &second)
	s.Require().Len(second.Entries, 1)
	s.Equal("000003", second.Entries[0].RefNumber)
	s.Empty(second.NextToken)

	w = s.do(http.MethodGet, "/api/v1/ledger/entries?nextToken=%25%25", s.memberToken, nil)
	s.Equal(http.StatusBadRequest, w.Code)
}

func (s *HandlersTestSuite) TestSettingsAndMemberIDs() {
	admin, err := middleware.IssueToken(testJWTSecret, testJWTIssuer, "a1", []string{domain.RoleNameAdmin}, time.Hour)
	s.Require().NoError(err)

	w := s.do(http.MethodGet, "/api/v1/settings/accounting", s.treasurerTok, nil)
	s.Require().Equal(http.StatusOK, w.Code)
	var settings domain.AccountingSettings
	s.decode(w, &settings)
	s.Equal("Cash on Hand", settings.CashAccount)

	update := gin.H{"cashAccount": "Cash in Bank", "fiscalYearStartMonth": 7}
	s.Equal(http.StatusForbidden, s.do(http.MethodPut, "/api/v1/settings/accounting", s.treasurerTok, update).Code)
	w = s.do(http.MethodPut, "/api/v1/settings/accounting", admin, update)
	s.Require().Equal(http.StatusOK, w.Code, w.Body.String())
	s.decode(w, &settings)
	s.Equal("Cash in Bank", settings.CashAccount)
	s.Equal(time.July, settings.FiscalYearStartMonth)
	s.Equal("Share Capital", settings.ShareCapitalAccount)

	s.Equal(http.StatusForbidden, s.do(http.MethodPost, "/api/v1/members/ids", s.memberToken, nil).Code)
	for _, want := range []string{"2025-00001", "2025-00002"} {
		w = s.do(http.MethodPost, "/api/v1/members/ids", s.treasurerTok, gin.H{"year": 2025})
		s.Require().Equal(http.StatusCreated, w.Code, w.Body.String())
		var res map[string]string
		s.decode(w, &res)
		s.Equal(want, res["memberID"])
	}
}

func TestHandlersTestSuite(t *testing.T) {
	suite.Run(t, new(HandlersTestSuite))
}
