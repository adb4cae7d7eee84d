package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iliyamo/song-request-queue/internal/model"
)

func TestPriorityPurchaseFlow(t *testing.T) {
	env := newTestEnv()
	ctx := context.Background()

	t.Run("create then verify yields one priority submission", func(t *testing.T) {
		ref, err := env.engine.CreatePrioritySession(ctx, PriorityRequest{
			SongRequest: SongRequest{
				SongURL:  "https://youtube.com/watch?v=abc",
				Platform: "youtube",
				Email:    "viewer@example.com",
			},
			AmountCents: 750,
		})
		require.NoError(t, err)
		require.NotEmpty(t, ref.URL)
		require.NotEmpty(t, ref.SessionID)

		env.pay.markPaid(ref.SessionID)

		sub, err := env.engine.VerifyPrioritySession(ctx, ref.SessionID)
		require.NoError(t, err)
		assert.True(t, sub.IsPriority)
		assert.Equal(t, int64(750), sub.AmountPaidCents)
		assert.Equal(t, "Unknown Artist", sub.ArtistName)
		assert.Equal(t, "Untitled", sub.SongTitle)
		assert.Equal(t, "pending", sub.Status)
		require.NotNil(t, sub.Email)
		assert.Equal(t, "viewer@example.com", *sub.Email)
		assert.Equal(t, 1, env.subs.count())
	})

	t.Run("amount below floor is rejected before any session exists", func(t *testing.T) {
		before := env.subs.count()
		_, err := env.engine.CreatePrioritySession(ctx, PriorityRequest{
			SongRequest: SongRequest{SongURL: "https://youtube.com/watch?v=low"},
			AmountCents: 499,
		})
		require.ErrorIs(t, err, ErrAmountTooLow)
		assert.Equal(t, before, env.subs.count())
	})

	t.Run("missing song url is invalid input", func(t *testing.T) {
		_, err := env.engine.CreatePrioritySession(ctx, PriorityRequest{AmountCents: 750})
		require.ErrorIs(t, err, ErrInvalidInput)
	})

	t.Run("unpaid session cannot be verified", func(t *testing.T) {
		ref, err := env.engine.CreatePrioritySession(ctx, PriorityRequest{
			SongRequest: SongRequest{SongURL: "https://youtube.com/watch?v=unpaid"},
			AmountCents: 600,
		})
		require.NoError(t, err)

		_, err = env.engine.VerifyPrioritySession(ctx, ref.SessionID)
		require.ErrorIs(t, err, ErrPaymentIncomplete)
	})

	t.Run("re-verifying the same session does not duplicate the submission", func(t *testing.T) {
		ref, err := env.engine.CreatePrioritySession(ctx, PriorityRequest{
			SongRequest: SongRequest{SongURL: "https://youtube.com/watch?v=twice", ArtistName: "Artist", SongTitle: "Song"},
			AmountCents: 900,
		})
		require.NoError(t, err)
		env.pay.markPaid(ref.SessionID)

		first, err := env.engine.VerifyPrioritySession(ctx, ref.SessionID)
		require.NoError(t, err)
		countAfterFirst := env.subs.count()

		second, err := env.engine.VerifyPrioritySession(ctx, ref.SessionID)
		require.NoError(t, err)
		assert.Equal(t, first.ID, second.ID)
		assert.Equal(t, countAfterFirst, env.subs.count())
	})

	t.Run("submission is rebuilt from metadata, not the create request", func(t *testing.T) {
		env2 := newTestEnv()
		ref, err := env2.engine.CreatePrioritySession(ctx, PriorityRequest{
			SongRequest: SongRequest{
				SongURL:    "https://soundcloud.com/track",
				Platform:   "soundcloud",
				ArtistName: "DJ Example",
				SongTitle:  "Night Drive",
				Message:    "play this one loud",
			},
			AmountCents: 1500,
		})
		require.NoError(t, err)
		env2.pay.markPaid(ref.SessionID)

		sub, err := env2.engine.VerifyPrioritySession(ctx, ref.SessionID)
		require.NoError(t, err)
		assert.Equal(t, "DJ Example", sub.ArtistName)
		assert.Equal(t, "Night Drive", sub.SongTitle)
		assert.Equal(t, "soundcloud", sub.Platform)
		require.NotNil(t, sub.Message)
		assert.Equal(t, "play this one loud", *sub.Message)
	})
}

func TestPriorityFloorFallsBackToDefault(t *testing.T) {
	env := newTestEnv()
	ctx := context.Background()
	// Deactivate the configured floor; the engine falls back to 500.
	env.configs.set(&model.PricingConfig{ConfigType: model.ConfigSkipLine, MinAmountCents: 100, IsActive: false})

	_, err := env.engine.CreatePrioritySession(ctx, PriorityRequest{
		SongRequest: SongRequest{SongURL: "https://youtube.com/watch?v=x"},
		AmountCents: 499,
	})
	assert.ErrorIs(t, err, ErrAmountTooLow)

	ref, err := env.engine.CreatePrioritySession(ctx, PriorityRequest{
		SongRequest: SongRequest{SongURL: "https://youtube.com/watch?v=x"},
		AmountCents: 500,
	})
	assert.NoError(t, err)
	assert.NotNil(t, ref)
}
