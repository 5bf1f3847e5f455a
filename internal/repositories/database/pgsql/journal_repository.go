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
)

const (
	entryColumns  = `journal_id, ref_number, entry_date, description, linked_payment_id, created_at, created_by`
	lineColumns   = `journal_id, line_index, account_id, debit, credit, memo`
	mirrorColumns = `line_id, journal_id, line_index, account_id, entry_date, debit, credit`
)

type PgxJournalRepository struct {
	BaseRepository
}

// newPgxJournalRepository creates a new repository for journal entries and their mirror.
func newPgxJournalRepository(pool *pgxpool.Pool) *PgxJournalRepository {
	return &PgxJournalRepository{BaseRepository: BaseRepository{Pool: pool}}
}

// Ensure PgxJournalRepository implements portsrepo.JournalRepositoryFacade
var _ portsrepo.JournalRepositoryFacade = (*PgxJournalRepository)(nil)

// AppendEntry saves the entry header, its lines and the mirrored lines within one DB transaction.
func (r *PgxJournalRepository) AppendEntry(ctx context.Context, entry domain.JournalEntry) error {
	header, lines := mapping.ToModelJournalEntry(entry)

	return r.withTx(ctx, pgx.TxOptions{}, func(ctx context.Context) error {
		// 1. Header. The partial unique index on linked_payment_id rejects a second posting.
		_, err := r.db(ctx).Exec(ctx, `
			INSERT INTO journal_entries (`+entryColumns+`)
			VALUES ($1, $2, $3, $4, $5, $6, $7)`,
			header.JournalID,
			header.RefNumber,
			header.EntryDate,
			header.Description,
			header.LinkedPaymentID,
			header.CreatedAt,
			header.CreatedBy,
		)
		if err != nil {
			if pgCode(err) == codeUniqueViolation {
				return fmt.Errorf("%w: journal entry %s", apperrors.ErrDuplicate, header.JournalID)
			}
			return apperrors.NewAppError(500, "failed to insert journal entry "+header.JournalID, err)
		}

		// 2. Lines
		batch := &pgx.Batch{}
		for _, l := range lines {
			batch.Queue(`INSERT INTO journal_lines (`+lineColumns+`) VALUES ($1, $2, $3, $4, $5, $6)`,
				l.JournalID, l.LineIndex, l.AccountID, l.Debit, l.Credit, l.Memo)
		}
		if err := r.sendBatch(ctx, batch); err != nil {
			return apperrors.NewAppError(500, "failed to insert lines for journal "+header.JournalID, err)
		}

		// 3. Mirror
		if err := r.mirror(ctx, entry); err != nil {
			return apperrors.NewAppError(500, "failed to mirror journal "+header.JournalID, err)
		}
		return nil
	})
}

// MirrorEntry upserts the mirrored lines of entry keyed by line id.
func (r *PgxJournalRepository) MirrorEntry(ctx context.Context, entry domain.JournalEntry) error {
	if err := r.mirror(ctx, entry); err != nil {
		return apperrors.NewAppError(500, "failed to mirror journal "+entry.JournalID, err)
	}
	return nil
}

func (r *PgxJournalRepository) mirror(ctx context.Context, entry domain.JournalEntry) error {
	batch := &pgx.Batch{}
	for _, ml := range entry.MirroredLines() {
		m := mapping.ToModelMirroredLine(ml)
		batch.Queue(`
			INSERT INTO journal_line_mirror (`+mirrorColumns+`)
			VALUES ($1, $2, $3, $4, $5, $6, $7)
			ON CONFLICT (line_id) DO UPDATE SET
				account_id = EXCLUDED.account_id,
				entry_date = EXCLUDED.entry_date,
				debit      = EXCLUDED.debit,
				credit     = EXCLUDED.credit`,
			m.LineID, m.JournalID, m.LineIndex, m.AccountID, m.EntryDate, m.Debit, m.Credit)
	}
	return r.sendBatch(ctx, batch)
}

// sendBatch runs batch on the ctx transaction, or the pool when there is none.
func (r *PgxJournalRepository) sendBatch(ctx context.Context, batch *pgx.Batch) error {
	if batch.Len() == 0 {
		return nil
	}
	if tx, ok := ctx.Value(txCtxKey{}).(pgx.Tx); ok {
		return tx.SendBatch(ctx, batch).Close()
	}
	return r.Pool.SendBatch(ctx, batch).Close()
}

// FindEntryByID retrieves a journal entry with its lines.
func (r *PgxJournalRepository) FindEntryByID(ctx context.Context, journalID string) (*domain.JournalEntry, error) {
	return r.findEntry(ctx, "journal entry "+journalID, `journal_id = $1`, journalID)
}

func (r *PgxJournalRepository) FindEntryByPaymentID(ctx context.Context, paymentID string) (*domain.JournalEntry, error) {
	return r.findEntry(ctx, "journal entry for payment "+paymentID, `linked_payment_id = $1`, paymentID)
}

func (r *PgxJournalRepository) findEntry(ctx context.Context, what, where string, arg any) (*domain.JournalEntry, error) {
	rows, err := r.db(ctx).Query(ctx, `SELECT `+entryColumns+` FROM journal_entries WHERE `+where, arg)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to query "+what, err)
	}
	header, err := pgx.CollectOneRow(rows, pgx.RowToStructByName[models.JournalEntry])
	if err != nil {
		return nil, notFoundOr(err, what)
	}
	lines, err := r.linesFor(ctx, []string{header.JournalID})
	if err != nil {
		return nil, err
	}
	entry := mapping.ToDomainJournalEntry(header, lines[header.JournalID])
	return &entry, nil
}

func (r *PgxJournalRepository) linesFor(ctx context.Context, journalIDs []string) (map[string][]models.JournalLine, error) {
	rows, err := r.db(ctx).Query(ctx, `
		SELECT `+lineColumns+`
		FROM journal_lines
		WHERE journal_id = ANY($1)
		ORDER BY journal_id, line_index`, journalIDs)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to query journal lines", err)
	}
	lines, err := pgx.CollectRows(rows, pgx.RowToStructByName[models.JournalLine])
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to scan journal lines", err)
	}
	byJournal := make(map[string][]models.JournalLine, len(journalIDs))
	for _, l := range lines {
		byJournal[l.JournalID] = append(byJournal[l.JournalID], l)
	}
	return byJournal, nil
}

// ListEntries pages entries in (entry_date, ref_number) order, seeking past q.After.
func (r *PgxJournalRepository) ListEntries(ctx context.Context, q domain.EntryQuery) ([]domain.JournalEntry, error) {
	var afterDate *time.Time
	var afterRef *string
	if q.After != nil {
		afterDate, afterRef = &q.After.Date, &q.After.RefNumber
	}
	var limit *int
	if q.Limit > 0 {
		limit = &q.Limit
	}
	rows, err := r.db(ctx).Query(ctx, `
		SELECT `+entryColumns+`
		FROM journal_entries
		WHERE ($1::timestamptz IS NULL OR entry_date >= $1)
		  AND ($2::timestamptz IS NULL OR entry_date <= $2)
		  AND ($3::timestamptz IS NULL OR (entry_date, ref_number) > ($3, $4::text))
		ORDER BY entry_date, ref_number
		LIMIT $5`, q.From, q.To, afterDate, afterRef, limit)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to query journal entries", err)
	}
	headers, err := pgx.CollectRows(rows, pgx.RowToStructByName[models.JournalEntry])
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to scan journal entries", err)
	}
	if len(headers) == 0 {
		return []domain.JournalEntry{}, nil
	}

	ids := make([]string, len(headers))
	for i, h := range headers {
		ids[i] = h.JournalID
	}
	lines, err := r.linesFor(ctx, ids)
	if err != nil {
		return nil, err
	}
	entries := make([]domain.JournalEntry, len(headers))
	for i, h := range headers {
		entries[i] = mapping.ToDomainJournalEntry(h, lines[h.JournalID])
	}
	return entries, nil
}

// LinesInRange reads the mirror, optionally filtered by account, dates inclusive.
func (r *PgxJournalRepository) LinesInRange(ctx context.Context, accountID *string, from, to *time.Time) ([]domain.MirroredLine, error) {
	rows, err := r.db(ctx).Query(ctx, `
		SELECT `+mirrorColumns+`
		FROM journal_line_mirror
		WHERE ($1::text IS NULL OR account_id = $1)
		  AND ($2::timestamptz IS NULL OR entry_date >= $2)
		  AND ($3::timestamptz IS NULL OR entry_date <= $3)
		ORDER BY entry_date, line_id`, accountID, from, to)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to query mirrored lines", err)
	}
	modelLines, err := pgx.CollectRows(rows, pgx.RowToStructByName[models.MirroredLine])
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to scan mirrored lines", err)
	}
	out := make([]domain.MirroredLine, len(modelLines))
	for i, m := range modelLines {
		out[i] = mapping.ToDomainMirroredLine(m)
	}
	return out, nil
}
