package service

import (
	"context"
	"fmt"
	"sync"

	"github.com/iliyamo/song-request-queue/internal/model"
	"github.com/iliyamo/song-request-queue/internal/payment"
	"github.com/iliyamo/song-request-queue/internal/queue"
	"github.com/iliyamo/song-request-queue/internal/repository"
)

// In-memory stores mirroring the repository semantics: conditional spot
// claims, per-session dedup and read-modify-write ledger totals.  They
// guard everything with a mutex so tests can exercise concurrent
// verifications.

type fakeConfigStore struct {
	mu      sync.Mutex
	configs map[string]*model.PricingConfig
}

func newFakeConfigStore() *fakeConfigStore {
	return &fakeConfigStore{configs: map[string]*model.PricingConfig{}}
}

func (f *fakeConfigStore) set(cfg *model.PricingConfig) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.configs[cfg.ConfigType] = cfg
}

func (f *fakeConfigStore) GetActive(_ context.Context, configType string) (*model.PricingConfig, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	cfg, ok := f.configs[configType]
	if !ok || !cfg.IsActive {
		return nil, repository.ErrNotFound
	}
	c := *cfg
	return &c, nil
}

type fakeSubmissionStore struct {
	mu        sync.Mutex
	byID      map[string]*model.Submission
	bySession map[string]string // session id -> submission id
}

func newFakeSubmissionStore() *fakeSubmissionStore {
	return &fakeSubmissionStore{byID: map[string]*model.Submission{}, bySession: map[string]string{}}
}

func (f *fakeSubmissionStore) Create(_ context.Context, s *model.Submission) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if s.PaymentSessionID != nil {
		if _, dup := f.bySession[*s.PaymentSessionID]; dup {
			return repository.ErrConflict
		}
		f.bySession[*s.PaymentSessionID] = s.ID
	}
	cp := *s
	f.byID[s.ID] = &cp
	return nil
}

func (f *fakeSubmissionStore) GetByID(_ context.Context, id string) (*model.Submission, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	s, ok := f.byID[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	cp := *s
	return &cp, nil
}

func (f *fakeSubmissionStore) GetBySessionID(_ context.Context, sessionID string) (*model.Submission, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	id, ok := f.bySession[sessionID]
	if !ok {
		return nil, repository.ErrNotFound
	}
	cp := *f.byID[id]
	return &cp, nil
}

func (f *fakeSubmissionStore) count() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.byID)
}

type fakeSpotStore struct {
	mu    sync.Mutex
	spots map[uint64]*model.PreStreamSpot
}

func newFakeSpotStore() *fakeSpotStore {
	return &fakeSpotStore{spots: map[uint64]*model.PreStreamSpot{}}
}

func (f *fakeSpotStore) set(sp *model.PreStreamSpot) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.spots[sp.ID] = sp
}

func (f *fakeSpotStore) GetByID(_ context.Context, id uint64) (*model.PreStreamSpot, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	sp, ok := f.spots[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	cp := *sp
	return &cp, nil
}

func (f *fakeSpotStore) Claim(_ context.Context, spotID uint64, buyerEmail, submissionID string) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	sp, ok := f.spots[spotID]
	if !ok || !sp.IsAvailable {
		return false, nil
	}
	sp.IsAvailable = false
	sp.PurchasedBy = &buyerEmail
	sp.SubmissionID = &submissionID
	return true, nil
}

type fakeBidStore struct {
	mu       sync.Mutex
	sessions map[string]struct{}        // applied session ids
	ledger   map[string]*model.SubmissionBid // submission id -> row
	subs     *fakeSubmissionStore
}

func newFakeBidStore(subs *fakeSubmissionStore) *fakeBidStore {
	return &fakeBidStore{sessions: map[string]struct{}{}, ledger: map[string]*model.SubmissionBid{}, subs: subs}
}

func (f *fakeBidStore) ApplyPayment(_ context.Context, sessionID, submissionID string, amountCents int64, email string, userID *string) (int64, bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, dup := f.sessions[sessionID]; dup {
		if row, ok := f.ledger[submissionID]; ok {
			return row.TotalPaidCents, false, nil
		}
		return 0, false, nil
	}
	f.sessions[sessionID] = struct{}{}
	row, ok := f.ledger[submissionID]
	if !ok {
		row = &model.SubmissionBid{SubmissionID: submissionID}
		f.ledger[submissionID] = row
	}
	row.TotalPaidCents += amountCents
	row.BidAmountCents = amountCents
	row.Email = email
	if userID != nil {
		row.UserID = userID
	}
	if f.subs != nil {
		f.subs.mu.Lock()
		if s, ok := f.subs.byID[submissionID]; ok {
			s.IsPriority = true
			s.BoostAmountCents = row.TotalPaidCents
		}
		f.subs.mu.Unlock()
	}
	return row.TotalPaidCents, true, nil
}

func (f *fakeBidStore) TrailingBids(_ context.Context, belowCents int64, excludeSubmissionID string) ([]model.TrailingBid, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := []model.TrailingBid{}
	for id, row := range f.ledger {
		if id == excludeSubmissionID || row.TotalPaidCents >= belowCents {
			continue
		}
		if f.subs != nil {
			f.subs.mu.Lock()
			s, ok := f.subs.byID[id]
			pending := ok && s.Status == model.StatusPending
			f.subs.mu.Unlock()
			if !pending {
				continue
			}
		}
		out = append(out, model.TrailingBid{SubmissionID: id, Email: row.Email, TotalPaidCents: row.TotalPaidCents})
	}
	return out, nil
}

type fakeNotificationStore struct {
	mu    sync.Mutex
	notes []model.BidNotification
	fail  bool
}

func (f *fakeNotificationStore) Create(_ context.Context, n *model.BidNotification) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.fail {
		return fmt.Errorf("notification store down")
	}
	f.notes = append(f.notes, *n)
	return nil
}

func (f *fakeNotificationStore) all() []model.BidNotification {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]model.BidNotification, len(f.notes))
	copy(out, f.notes)
	return out
}

type fakePublisher struct {
	mu     sync.Mutex
	events []queue.OutbidEvent
}

func (f *fakePublisher) PublishOutbid(_ context.Context, ev queue.OutbidEvent) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.events = append(f.events, ev)
	return nil
}

// fakeProvider hands out sessions with deterministic ids and lets tests
// flip a session to paid the way the real provider does out of band.
type fakeProvider struct {
	mu       sync.Mutex
	next     int
	sessions map[string]*payment.Session
	failNext bool
}

func newFakeProvider() *fakeProvider {
	return &fakeProvider{sessions: map[string]*payment.Session{}}
}

func (f *fakeProvider) CreateSession(_ context.Context, p payment.SessionParams) (*payment.Session, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failNext {
		f.failNext = false
		return nil, fmt.Errorf("provider unavailable")
	}
	f.next++
	id := fmt.Sprintf("cs_test_%03d", f.next)
	md := map[string]string{}
	for k, v := range p.Metadata {
		md[k] = v
	}
	s := &payment.Session{
		ID:               id,
		URL:              "https://pay.example.com/" + id,
		PaymentStatus:    payment.StatusUnpaid,
		AmountTotalCents: p.AmountCents,
		Metadata:         md,
	}
	f.sessions[id] = s
	return s, nil
}

func (f *fakeProvider) GetSession(_ context.Context, id string) (*payment.Session, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	s, ok := f.sessions[id]
	if !ok {
		return nil, fmt.Errorf("no such session %q", id)
	}
	cp := *s
	return &cp, nil
}

func (f *fakeProvider) markPaid(id string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if s, ok := f.sessions[id]; ok {
		s.PaymentStatus = payment.StatusPaid
	}
}

// testEnv bundles an engine wired to fakes.
type testEnv struct {
	engine  *Engine
	configs *fakeConfigStore
	subs    *fakeSubmissionStore
	spots   *fakeSpotStore
	bids    *fakeBidStore
	notes   *fakeNotificationStore
	events  *fakePublisher
	pay     *fakeProvider
}

func newTestEnv() *testEnv {
	configs := newFakeConfigStore()
	subs := newFakeSubmissionStore()
	spots := newFakeSpotStore()
	bids := newFakeBidStore(subs)
	notes := &fakeNotificationStore{}
	events := &fakePublisher{}
	pay := newFakeProvider()

	configs.set(&model.PricingConfig{ConfigType: model.ConfigSkipLine, MinAmountCents: 500, MaxAmountCents: 10000, StepCents: 100, IsActive: true})
	configs.set(&model.PricingConfig{ConfigType: model.ConfigBidIncrement, Percent: 10, IsActive: true})

	engine := NewEngine(configs, subs, spots, bids, notes, pay, events, nil, Options{
		SuccessURL: "https://app.example.com/success",
		CancelURL:  "https://app.example.com/cancel",
		Currency:   "eur",
	})
	return &testEnv{engine: engine, configs: configs, subs: subs, spots: spots, bids: bids, notes: notes, events: events, pay: pay}
}
