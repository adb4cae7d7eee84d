package service

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iliyamo/song-request-queue/internal/model"
)

// seedSubmission creates a pending submission directly in the fake store.
func seedSubmission(t *testing.T, env *testEnv, id string) *model.Submission {
	t.Helper()
	s := &model.Submission{
		ID:         id,
		SongURL:    "https://youtube.com/watch?v=" + id,
		ArtistName: "Artist " + id,
		SongTitle:  "Title " + id,
		Status:     model.StatusPending,
	}
	require.NoError(t, env.subs.Create(context.Background(), s))
	return s
}

// placeBid runs the full create-then-verify cycle for one bid.
func placeBid(t *testing.T, env *testEnv, submissionID string, amountCents int64, email string) *BidVerifyResult {
	t.Helper()
	ctx := context.Background()
	ref, err := env.engine.CreateBidSession(ctx, BidRequest{
		SubmissionID: submissionID,
		AmountCents:  amountCents,
		Email:        email,
	})
	require.NoError(t, err)
	env.pay.markPaid(ref.SessionID)
	res, err := env.engine.VerifyBidSession(ctx, ref.SessionID)
	require.NoError(t, err)
	return res
}

func TestBidLedger(t *testing.T) {
	ctx := context.Background()

	t.Run("first bid creates the ledger row", func(t *testing.T) {
		env := newTestEnv()
		seedSubmission(t, env, "s1")

		res := placeBid(t, env, "s1", 500, "a@example.com")
		assert.True(t, res.Applied)
		assert.Equal(t, int64(500), res.TotalPaidCents)

		sub, err := env.subs.GetByID(ctx, "s1")
		require.NoError(t, err)
		assert.True(t, sub.IsPriority)
		assert.Equal(t, int64(500), sub.BoostAmountCents)
	})

	t.Run("totals are additive across bids", func(t *testing.T) {
		env := newTestEnv()
		seedSubmission(t, env, "s1")

		placeBid(t, env, "s1", 500, "a@example.com")
		res := placeBid(t, env, "s1", 300, "b@example.com")

		assert.Equal(t, int64(800), res.TotalPaidCents, "second bid must add to the stored total, never replace it")

		sub, err := env.subs.GetByID(ctx, "s1")
		require.NoError(t, err)
		assert.Equal(t, int64(800), sub.BoostAmountCents)
	})

	t.Run("re-verifying a session applies it exactly once", func(t *testing.T) {
		env := newTestEnv()
		seedSubmission(t, env, "s1")

		ref, err := env.engine.CreateBidSession(ctx, BidRequest{SubmissionID: "s1", AmountCents: 500, Email: "a@example.com"})
		require.NoError(t, err)
		env.pay.markPaid(ref.SessionID)

		first, err := env.engine.VerifyBidSession(ctx, ref.SessionID)
		require.NoError(t, err)
		assert.True(t, first.Applied)
		assert.Equal(t, int64(500), first.TotalPaidCents)

		second, err := env.engine.VerifyBidSession(ctx, ref.SessionID)
		require.NoError(t, err)
		assert.False(t, second.Applied)
		assert.Equal(t, int64(500), second.TotalPaidCents, "replay must not change the total")
	})

	t.Run("concurrent payments for the same submission both land", func(t *testing.T) {
		env := newTestEnv()
		seedSubmission(t, env, "s1")

		const n = 10
		refs := make([]*CheckoutRef, n)
		for i := 0; i < n; i++ {
			ref, err := env.engine.CreateBidSession(ctx, BidRequest{SubmissionID: "s1", AmountCents: 100, Email: "c@example.com"})
			require.NoError(t, err)
			env.pay.markPaid(ref.SessionID)
			refs[i] = ref
		}

		var wg sync.WaitGroup
		for i := 0; i < n; i++ {
			wg.Add(1)
			go func(i int) {
				defer wg.Done()
				_, err := env.engine.VerifyBidSession(ctx, refs[i].SessionID)
				require.NoError(t, err)
			}(i)
		}
		wg.Wait()

		sub, err := env.subs.GetByID(ctx, "s1")
		require.NoError(t, err)
		assert.Equal(t, int64(n*100), sub.BoostAmountCents)
	})

	t.Run("bid on unknown submission is rejected", func(t *testing.T) {
		env := newTestEnv()
		_, err := env.engine.CreateBidSession(ctx, BidRequest{SubmissionID: "missing", AmountCents: 500, Email: "a@example.com"})
		require.ErrorIs(t, err, ErrNotFound)
	})

	t.Run("bid amount bounds are enforced", func(t *testing.T) {
		env := newTestEnv()
		seedSubmission(t, env, "s1")

		_, err := env.engine.CreateBidSession(ctx, BidRequest{SubmissionID: "s1", AmountCents: 49, Email: "a@example.com"})
		require.ErrorIs(t, err, ErrInvalidAmount)

		_, err = env.engine.CreateBidSession(ctx, BidRequest{SubmissionID: "s1", AmountCents: 100001, Email: "a@example.com"})
		require.ErrorIs(t, err, ErrInvalidAmount)

		_, err = env.engine.CreateBidSession(ctx, BidRequest{SubmissionID: "s1", AmountCents: 50, Email: "a@example.com"})
		require.NoError(t, err)

		_, err = env.engine.CreateBidSession(ctx, BidRequest{SubmissionID: "s1", AmountCents: 100000, Email: "a@example.com"})
		require.NoError(t, err)
	})

	t.Run("unpaid bid session cannot be verified", func(t *testing.T) {
		env := newTestEnv()
		seedSubmission(t, env, "s1")

		ref, err := env.engine.CreateBidSession(ctx, BidRequest{SubmissionID: "s1", AmountCents: 500, Email: "a@example.com"})
		require.NoError(t, err)

		_, err = env.engine.VerifyBidSession(ctx, ref.SessionID)
		require.ErrorIs(t, err, ErrPaymentIncomplete)
	})
}
