package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"testing"
	"time"

	"github.com/SscSPs/coop_ledger/internal/apperrors"
	"github.com/SscSPs/coop_ledger/internal/core/domain"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNextValue_ConcurrentCallersGetDistinctIncreasingValues(t *testing.T) {
	store := New()
	ctx := context.Background()

	const workers, perWorker = 20, 25
	var (
		wg     sync.WaitGroup
		mu     sync.Mutex
		values []int64
	)
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := 0; i < perWorker; i++ {
				v, err := store.NextValue(ctx, domain.SequenceReceipts)
				assert.NoError(t, err)
				mu.Lock()
				values = append(values, v)
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	require.Len(t, values, workers*perWorker)
	sort.Slice(values, func(i, j int) bool { return values[i] < values[j] })
	for i, v := range values {
		assert.Equal(t, int64(i+1), v, "values must be 1..n without gaps or repeats")
	}

	other, err := store.NextValue(ctx, domain.SequenceJournals)
	require.NoError(t, err)
	assert.Equal(t, int64(1), other, "counters are independent")
}

func TestMirrorEntry_IsIdempotent(t *testing.T) {
	store := New()
	ctx := context.Background()
	date := time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC)
	entry := domain.JournalEntry{
		JournalID: "j1",
		RefNumber: "000001",
		Date:      date,
		Lines: []domain.JournalLine{
			{AccountID: "cash", Debit: decimal.NewFromInt(100), Credit: decimal.Zero},
			{AccountID: "income", Debit: decimal.Zero, Credit: decimal.NewFromInt(100)},
		},
	}
	require.NoError(t, store.AppendEntry(ctx, entry))
	require.NoError(t, store.MirrorEntry(ctx, entry))
	require.NoError(t, store.MirrorEntry(ctx, entry))

	lines, err := store.LinesInRange(ctx, nil, nil, nil)
	require.NoError(t, err)
	require.Len(t, lines, 2)
	assert.Equal(t, "j1_0", lines[0].LineID)
	assert.Equal(t, "j1_1", lines[1].LineID)

	cash := "cash"
	from := date.AddDate(0, 0, 1)
	filtered, err := store.LinesInRange(ctx, &cash, &from, nil)
	require.NoError(t, err)
	assert.Empty(t, filtered)

	filtered, err = store.LinesInRange(ctx, &cash, &date, &date)
	require.NoError(t, err)
	assert.Len(t, filtered, 1, "date bounds are inclusive")
}

func TestListEntries_SeeksPastCursor(t *testing.T) {
	store := New()
	ctx := context.Background()
	day := time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC)
	for _, e := range []struct {
		id, ref string
		date    time.Time
	}{
		{"j3", "000003", day.AddDate(0, 0, 1)},
		{"j1", "000001", day},
		{"j2", "000002", day},
	} {
		require.NoError(t, store.AppendEntry(ctx, domain.JournalEntry{JournalID: e.id, RefNumber: e.ref, Date: e.date}))
	}

	page, err := store.ListEntries(ctx, domain.EntryQuery{Limit: 2})
	require.NoError(t, err)
	require.Len(t, page, 2)
	assert.Equal(t, "j1", page[0].JournalID)
	assert.Equal(t, "j2", page[1].JournalID)

	rest, err := store.ListEntries(ctx, domain.EntryQuery{After: &domain.EntryCursor{Date: day, RefNumber: "000002"}})
	require.NoError(t, err)
	require.Len(t, rest, 1)
	assert.Equal(t, "j3", rest[0].JournalID)

	to := day
	bounded, err := store.ListEntries(ctx, domain.EntryQuery{To: &to})
	require.NoError(t, err)
	assert.Len(t, bounded, 2)
}

func TestAppendEntry_RejectsSecondEntryForPayment(t *testing.T) {
	store := New()
	ctx := context.Background()
	pid := "pay-1"
	first := domain.JournalEntry{JournalID: "j1", LinkedPaymentID: &pid}
	second := domain.JournalEntry{JournalID: "j2", LinkedPaymentID: &pid}

	require.NoError(t, store.AppendEntry(ctx, first))
	err := store.AppendEntry(ctx, second)
	assert.ErrorIs(t, err, apperrors.ErrDuplicate)

	found, err := store.FindEntryByPaymentID(ctx, pid)
	require.NoError(t, err)
	assert.Equal(t, "j1", found.JournalID)
}

func TestSaveAccount_OneSubaccountPerOwner(t *testing.T) {
	store := New()
	ctx := context.Background()

	require.NoError(t, store.SaveAccount(ctx, domain.Account{AccountID: "a1", Main: "Share Capital", Individual: "Juan", OwnerRef: "u1"}))
	err := store.SaveAccount(ctx, domain.Account{AccountID: "a2", Main: "share capital ", Individual: "Juan D.", OwnerRef: "u1"})
	assert.ErrorIs(t, err, apperrors.ErrDuplicate)

	require.NoError(t, store.SaveAccount(ctx, domain.Account{AccountID: "a3", Main: "Loan Receivable", Individual: "Juan", OwnerRef: "u1"}))

	got, err := store.FindAccountByOwner(ctx, "SHARE CAPITAL", "u1")
	require.NoError(t, err)
	assert.Equal(t, "a1", got.AccountID)

	_, err = store.FindAccountByOwner(ctx, "Share Capital", "u2")
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
}

func TestClaimPosting(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2025, 5, 1, 12, 0, 0, 0, time.UTC)

	t.Run("pending payments cannot be claimed", func(t *testing.T) {
		store := New()
		require.NoError(t, store.SavePayment(ctx, domain.Payment{PaymentID: "p", Status: domain.PaymentPending}))
		won, err := store.ClaimPosting(ctx, "p", now, now.Add(-5*time.Minute))
		require.NoError(t, err)
		assert.False(t, won)
	})

	t.Run("only one of two claimers wins", func(t *testing.T) {
		store := New()
		require.NoError(t, store.SavePayment(ctx, domain.Payment{PaymentID: "p", Status: domain.PaymentPaid}))
		first, err := store.ClaimPosting(ctx, "p", now, now.Add(-5*time.Minute))
		require.NoError(t, err)
		second, err := store.ClaimPosting(ctx, "p", now, now.Add(-5*time.Minute))
		require.NoError(t, err)
		assert.True(t, first)
		assert.False(t, second)
	})

	t.Run("stale claims can be taken over", func(t *testing.T) {
		store := New()
		started := now.Add(-10 * time.Minute)
		require.NoError(t, store.SavePayment(ctx, domain.Payment{
			PaymentID: "p",
			Status:    domain.PaymentPaid,
			Posting:   domain.PostingState{Status: domain.PostingInProgress, LastStartedAt: &started},
		}))
		won, err := store.ClaimPosting(ctx, "p", now, now.Add(-5*time.Minute))
		require.NoError(t, err)
		assert.True(t, won)
	})

	t.Run("failed then completed bumps attempts", func(t *testing.T) {
		store := New()
		require.NoError(t, store.SavePayment(ctx, domain.Payment{PaymentID: "p", Status: domain.PaymentPaid}))
		require.NoError(t, store.FailPosting(ctx, "p", "boom", now))
		won, err := store.ClaimPosting(ctx, "p", now, now.Add(-5*time.Minute))
		require.NoError(t, err)
		require.True(t, won)
		require.NoError(t, store.CompletePosting(ctx, "p", "000001", now))

		p, err := store.FindPaymentByID(ctx, "p")
		require.NoError(t, err)
		assert.Equal(t, domain.PostingPosted, p.Posting.Status)
		assert.Equal(t, 2, p.Posting.Attempts)
		assert.Empty(t, p.Posting.Error)
		require.NotNil(t, p.ReceiptNo)
		assert.Equal(t, "000001", *p.ReceiptNo)

		paid, err := store.ListPaidPayments(ctx, 5, 10)
		require.NoError(t, err)
		require.Len(t, paid, 1)
		assert.Equal(t, domain.PostingPosted, paid[0].Posting.Status)
	})
}

func TestListPaidPayments_RetryableRowsComeFirst(t *testing.T) {
	store := New()
	ctx := context.Background()
	base := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	for i := 0; i < 10; i++ {
		require.NoError(t, store.SavePayment(ctx, domain.Payment{
			PaymentID: fmt.Sprintf("exhausted-%02d", i),
			Status:    domain.PaymentPaid,
			Posting:   domain.PostingState{Status: domain.PostingFailed, Attempts: 5},
			CreatedAt: base.Add(time.Duration(i) * time.Minute),
		}))
	}
	require.NoError(t, store.SavePayment(ctx, domain.Payment{
		PaymentID: "posted",
		Status:    domain.PaymentPaid,
		Posting:   domain.PostingState{Status: domain.PostingPosted, Attempts: 1},
		CreatedAt: base.Add(-time.Hour),
	}))
	require.NoError(t, store.SavePayment(ctx, domain.Payment{
		PaymentID: "retryable",
		Status:    domain.PaymentPaid,
		Posting:   domain.PostingState{Status: domain.PostingFailed, Attempts: 2},
		CreatedAt: base.Add(time.Hour),
	}))
	require.NoError(t, store.SavePayment(ctx, domain.Payment{PaymentID: "pending", Status: domain.PaymentPending, CreatedAt: base}))

	page, err := store.ListPaidPayments(ctx, 5, 3)
	require.NoError(t, err)
	require.Len(t, page, 3)
	assert.Equal(t, "retryable", page[0].PaymentID)
	assert.Equal(t, "posted", page[1].PaymentID)
	assert.Equal(t, "exhausted-00", page[2].PaymentID)

	all, err := store.ListPaidPayments(ctx, 5, 100)
	require.NoError(t, err)
	assert.Len(t, all, 12, "only paid rows are listed")
}

func TestFindLatestSnapshotBefore(t *testing.T) {
	store := New()
	ctx := context.Background()
	day := func(d int) time.Time { return time.Date(2025, 1, d, 0, 0, 0, 0, time.UTC) }

	require.NoError(t, store.SaveSnapshot(ctx, domain.ReportSnapshot{SnapshotID: "s1", ReportType: domain.BalanceSheetReport, AsOf: day(1)}))
	require.NoError(t, store.SaveSnapshot(ctx, domain.ReportSnapshot{SnapshotID: "s2", ReportType: domain.BalanceSheetReport, AsOf: day(5)}))
	require.NoError(t, store.SaveSnapshot(ctx, domain.ReportSnapshot{SnapshotID: "s3", ReportType: domain.BalanceSheetReport, AsOf: day(10)}))
	require.NoError(t, store.SaveSnapshot(ctx, domain.ReportSnapshot{SnapshotID: "t1", ReportType: domain.TrialBalanceReport, AsOf: day(9)}))

	got, err := store.FindLatestSnapshotBefore(ctx, domain.BalanceSheetReport, day(10))
	require.NoError(t, err)
	assert.Equal(t, "s2", got.SnapshotID, "the cutoff is exclusive")

	_, err = store.FindLatestSnapshotBefore(ctx, domain.BalanceSheetReport, day(1))
	assert.ErrorIs(t, err, apperrors.ErrNotFound)

	list, err := store.ListSnapshots(ctx, domain.BalanceSheetReport, 2)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "s3", list[0].SnapshotID)
}
