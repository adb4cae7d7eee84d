package model

import "time"

// Submission review states, advanced by the streamer while working
// through the queue.
const (
	StatusPending   = "pending"
	StatusReviewing = "reviewing"
	StatusReviewed  = "reviewed"
)

// Submission is a single song request in the queue.  Paid submissions
// carry the verified amount; when the bidding mechanism is used,
// BoostAmountCents mirrors the current leading total from the ledger.
//
// Fields:
//  ID               – uuid primary key.
//  SongURL          – link to the requested song.
//  Platform         – source platform (youtube, spotify, ...).
//  ArtistName       – artist, defaulted to "Unknown Artist".
//  SongTitle        – title, defaulted to "Untitled".
//  Message          – optional note from the requester.
//  Email            – optional contact for paid requests.
//  UserID           – optional authenticated requester.
//  AudioFileURL     – optional uploaded audio reference.
//  AmountPaidCents  – verified payment amount in cents, 0 for free requests.
//  IsPriority       – reviewed ahead of unpaid requests when set.
//  BoostAmountCents – current cumulative bid total backing this request.
//  Status           – review state (pending, reviewing, reviewed).
//  PaymentSessionID – checkout session that created this row, unique when set.
//  CreatedAt        – creation timestamp.
type Submission struct {
	ID               string    `json:"id"`
	SongURL          string    `json:"song_url"`
	Platform         string    `json:"platform"`
	ArtistName       string    `json:"artist_name"`
	SongTitle        string    `json:"song_title"`
	Message          *string   `json:"message,omitempty"`
	Email            *string   `json:"email,omitempty"`
	UserID           *string   `json:"user_id,omitempty"`
	AudioFileURL     *string   `json:"audio_file_url,omitempty"`
	AmountPaidCents  int64     `json:"amount_paid_cents"`
	IsPriority       bool      `json:"is_priority"`
	BoostAmountCents int64     `json:"boost_amount_cents"`
	Status           string    `json:"status"`
	PaymentSessionID *string   `json:"-"`
	CreatedAt        time.Time `json:"created_at"`
}
