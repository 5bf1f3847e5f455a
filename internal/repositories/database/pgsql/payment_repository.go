package pgsql

import (
	"context"
	"fmt"
	"time"

	"github.com/SscSPs/coop_ledger/internal/apperrors"
	"github.com/SscSPs/coop_ledger/internal/core/domain"
	portsrepo "github.com/SscSPs/coop_ledger/internal/core/ports/repositories"
	"github.com/SscSPs/coop_ledger/internal/models"
	"github.com/SscSPs/coop_ledger/internal/utils/mapping"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
)

const paymentColumns = `payment_id, user_id, member_name, payment_type, amount, principal, interest, method, status,
	posting_status, posting_attempts, posting_started_at, posting_finished_at, posting_error,
	receipt_no, reference_no, linked_id, checkout_url, provider_id, created_at, updated_at`

type PgxPaymentRepository struct {
	BaseRepository
}

func newPgxPaymentRepository(pool *pgxpool.Pool) *PgxPaymentRepository {
	return &PgxPaymentRepository{BaseRepository: BaseRepository{Pool: pool}}
}

var _ portsrepo.PaymentRepositoryFacade = (*PgxPaymentRepository)(nil)

func (r *PgxPaymentRepository) findOne(ctx context.Context, what, where string, arg any) (*domain.Payment, error) {
	rows, err := r.db(ctx).Query(ctx, `SELECT `+paymentColumns+` FROM payments WHERE `+where, arg)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to query "+what, err)
	}
	m, err := pgx.CollectOneRow(rows, pgx.RowToStructByName[models.Payment])
	if err != nil {
		return nil, notFoundOr(err, what)
	}
	p := mapping.ToDomainPayment(m)
	return &p, nil
}

func (r *PgxPaymentRepository) FindPaymentByID(ctx context.Context, paymentID string) (*domain.Payment, error) {
	return r.findOne(ctx, "payment "+paymentID, `payment_id = $1`, paymentID)
}

func (r *PgxPaymentRepository) FindPaymentByReference(ctx context.Context, referenceNo string) (*domain.Payment, error) {
	return r.findOne(ctx, "payment "+referenceNo, `lower(reference_no) = lower(btrim($1))`, referenceNo)
}

// ListPaidPayments pages paid payments with retryable postings ahead of posted
// or exhausted ones, so the latter never crowd the former out of a page.
func (r *PgxPaymentRepository) ListPaidPayments(ctx context.Context, maxAttempts, limit int) ([]domain.Payment, error) {
	rows, err := r.db(ctx).Query(ctx, `
		SELECT `+paymentColumns+`
		FROM payments
		WHERE status = $1
		ORDER BY (posting_status <> $2 AND posting_attempts < $3) DESC, created_at, payment_id
		LIMIT $4`, string(domain.PaymentPaid), string(domain.PostingPosted), maxAttempts, limit)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to query paid payments", err)
	}
	ms, err := pgx.CollectRows(rows, pgx.RowToStructByName[models.Payment])
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to scan paid payments", err)
	}
	out := make([]domain.Payment, len(ms))
	for i, m := range ms {
		out[i] = mapping.ToDomainPayment(m)
	}
	return out, nil
}

func (r *PgxPaymentRepository) SavePayment(ctx context.Context, payment domain.Payment) error {
	m := mapping.ToModelPayment(payment)
	_, err := r.db(ctx).Exec(ctx, `
		INSERT INTO payments (`+paymentColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19, $20, $21)`,
		m.PaymentID,
		m.UserID,
		m.MemberName,
		m.PaymentType,
		m.Amount,
		m.Principal,
		m.Interest,
		m.Method,
		m.Status,
		m.PostingStatus,
		m.PostingAttempts,
		m.PostingStarted,
		m.PostingFinished,
		m.PostingError,
		m.ReceiptNo,
		m.ReferenceNo,
		m.LinkedID,
		m.CheckoutURL,
		m.ProviderID,
		m.CreatedAt,
		m.UpdatedAt,
	)
	if err != nil {
		if pgCode(err) == codeUniqueViolation {
			return fmt.Errorf("%w: payment %s", apperrors.ErrDuplicate, m.PaymentID)
		}
		return apperrors.NewAppError(500, "failed to save payment "+m.PaymentID, err)
	}
	return nil
}

// conditional runs a guarded UPDATE. Zero affected rows is false, or ErrNotFound
// when the payment does not exist at all.
func (r *PgxPaymentRepository) conditional(ctx context.Context, paymentID, query string, args ...any) (bool, error) {
	tag, err := r.db(ctx).Exec(ctx, query, args...)
	if err != nil {
		return false, apperrors.NewAppError(500, "failed to update payment "+paymentID, err)
	}
	if tag.RowsAffected() > 0 {
		return true, nil
	}
	var exists bool
	if err := r.db(ctx).QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM payments WHERE payment_id = $1)`, paymentID).Scan(&exists); err != nil {
		return false, apperrors.NewAppError(500, "failed to check payment "+paymentID, err)
	}
	if !exists {
		return false, fmt.Errorf("%w: payment %s", apperrors.ErrNotFound, paymentID)
	}
	return false, nil
}

func (r *PgxPaymentRepository) TransitionStatus(ctx context.Context, paymentID string, from, to domain.PaymentStatus, now time.Time) (bool, error) {
	return r.conditional(ctx, paymentID, `
		UPDATE payments SET status = $3, updated_at = $4
		WHERE payment_id = $1 AND status = $2`,
		paymentID, string(from), string(to), now)
}

func (r *PgxPaymentRepository) UpdateLoanSplit(ctx context.Context, paymentID string, principal, interest decimal.Decimal, now time.Time) error {
	_, err := r.conditional(ctx, paymentID, `
		UPDATE payments SET principal = $2, interest = $3, updated_at = $4
		WHERE payment_id = $1`,
		paymentID, principal, interest, now)
	return err
}

func (r *PgxPaymentRepository) UpdateCheckout(ctx context.Context, paymentID, checkoutURL, providerID string, now time.Time) error {
	_, err := r.conditional(ctx, paymentID, `
		UPDATE payments SET checkout_url = $2, provider_id = $3, updated_at = $4
		WHERE payment_id = $1`,
		paymentID, checkoutURL, providerID, now)
	return err
}

// ClaimPosting is a single compare-and-set so concurrent posters cannot both win.
func (r *PgxPaymentRepository) ClaimPosting(ctx context.Context, paymentID string, now, staleBefore time.Time) (bool, error) {
	return r.conditional(ctx, paymentID, `
		UPDATE payments
		SET posting_status = $2, posting_started_at = $3, updated_at = $3
		WHERE payment_id = $1
		  AND status = $4
		  AND (posting_status IN ($5, $6)
		       OR (posting_status = $2 AND (posting_started_at IS NULL OR posting_started_at < $7)))`,
		paymentID,
		string(domain.PostingInProgress),
		now,
		string(domain.PaymentPaid),
		string(domain.PostingNone),
		string(domain.PostingFailed),
		staleBefore,
	)
}

func (r *PgxPaymentRepository) CompletePosting(ctx context.Context, paymentID string, receiptNo string, now time.Time) error {
	_, err := r.conditional(ctx, paymentID, `
		UPDATE payments
		SET posting_status = $2,
		    posting_attempts = posting_attempts + 1,
		    posting_finished_at = $3,
		    posting_error = NULL,
		    receipt_no = COALESCE(NULLIF($4, ''), receipt_no),
		    updated_at = $3
		WHERE payment_id = $1`,
		paymentID, string(domain.PostingPosted), now, receiptNo)
	return err
}

func (r *PgxPaymentRepository) FailPosting(ctx context.Context, paymentID string, errMsg string, now time.Time) error {
	_, err := r.conditional(ctx, paymentID, `
		UPDATE payments
		SET posting_status = $2,
		    posting_attempts = posting_attempts + 1,
		    posting_finished_at = $3,
		    posting_error = $4,
		    updated_at = $3
		WHERE payment_id = $1`,
		paymentID, string(domain.PostingFailed), now, errMsg)
	return err
}
