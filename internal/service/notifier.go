package service

import (
	"context"
	"time"

	"github.com/iliyamo/song-request-queue/internal/model"
	"github.com/iliyamo/song-request-queue/internal/queue"
	"github.com/iliyamo/song-request-queue/internal/utils"
)

// notifyOutbid records a notification for every other paying backer of
// a pending submission whose cumulative total fell below the new
// leading total.  The scan is an unconditional broadcast: trailing
// backers are re-notified on every new leading bid, so nobody is ever
// missed under concurrent writes at the cost of occasional repeats.
//
// All failures here are logged and swallowed; the ledger update has
// already committed and the payer must still see success.
func (e *Engine) notifyOutbid(ctx context.Context, leaderSubmissionID string, leaderTotalCents int64) {
	trailing, err := e.bids.TrailingBids(ctx, leaderTotalCents, leaderSubmissionID)
	if err != nil {
		e.log.Errorw("outbid scan failed", "submission_id", leaderSubmissionID, "error", err)
		return
	}
	if len(trailing) == 0 {
		return
	}

	percent := e.bidIncrementPercent(ctx)
	offer := utils.SuggestedCounterBid(leaderTotalCents, percent)

	for _, t := range trailing {
		n := &model.BidNotification{
			SubmissionID:     t.SubmissionID,
			Email:            t.Email,
			NotificationType: model.NotificationOutbid,
			OfferAmountCents: offer,
		}
		if err := e.notes.Create(ctx, n); err != nil {
			e.log.Errorw("outbid notification write failed",
				"submission_id", t.SubmissionID, "email", t.Email, "error", err)
			continue
		}
		if e.events != nil {
			ev := queue.OutbidEvent{
				SubmissionID:       t.SubmissionID,
				Email:              t.Email,
				LeaderTotalCents:   leaderTotalCents,
				PreviousTotalCents: t.TotalPaidCents,
				OfferAmountCents:   offer,
				OccurredAt:         time.Now().UTC().Format(time.RFC3339),
			}
			if err := e.events.PublishOutbid(ctx, ev); err != nil {
				e.log.Warnw("outbid event publish failed",
					"submission_id", t.SubmissionID, "error", err)
			}
		}
	}
	e.log.Infow("outbid notifications recorded",
		"leader_submission_id", leaderSubmissionID,
		"leader_total_cents", leaderTotalCents,
		"notified", len(trailing),
		"offer_cents", offer)
}
