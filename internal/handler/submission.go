package handler

import (
	"net/http"
	"strconv"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/iliyamo/song-request-queue/internal/model"
	"github.com/iliyamo/song-request-queue/internal/repository"
	"github.com/iliyamo/song-request-queue/pkg/logger"
)

const (
	defaultQueueLimit = 100
	maxQueueLimit     = 500
)

// SubmissionHandler serves free submissions and the public queue and
// spot listings.
type SubmissionHandler struct {
	Subs  *repository.SubmissionRepo
	Spots *repository.SpotRepo
	Log   *logger.Logger
}

// NewSubmissionHandler constructs a SubmissionHandler.
func NewSubmissionHandler(subs *repository.SubmissionRepo, spots *repository.SpotRepo, log *logger.Logger) *SubmissionHandler {
	if log == nil {
		log = logger.NewNop()
	}
	return &SubmissionHandler{Subs: subs, Spots: spots, Log: log}
}

// Create handles POST /v1/submissions: a free request that joins the
// queue behind every paid one.  Only the song url is mandatory.
func (h *SubmissionHandler) Create(c echo.Context) error {
	var body struct {
		SongURL      string `json:"songUrl"`
		Platform     string `json:"platform"`
		ArtistName   string `json:"artistName"`
		SongTitle    string `json:"songTitle"`
		Message      string `json:"message"`
		Email        string `json:"email"`
		AudioFileURL string `json:"audioFileUrl"`
	}
	if err := c.Bind(&body); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	if body.SongURL == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "songUrl is required"})
	}
	if body.ArtistName == "" {
		body.ArtistName = "Unknown Artist"
	}
	if body.SongTitle == "" {
		body.SongTitle = "Untitled"
	}
	userID, authEmail := identity(c)
	if body.Email == "" {
		body.Email = authEmail
	}

	sub := &model.Submission{
		ID:         uuid.NewString(),
		SongURL:    body.SongURL,
		Platform:   body.Platform,
		ArtistName: body.ArtistName,
		SongTitle:  body.SongTitle,
		Status:     model.StatusPending,
		UserID:     userID,
	}
	if body.Message != "" {
		sub.Message = &body.Message
	}
	if body.Email != "" {
		sub.Email = &body.Email
	}
	if body.AudioFileURL != "" {
		sub.AudioFileURL = &body.AudioFileURL
	}

	if err := h.Subs.Create(c.Request().Context(), sub); err != nil {
		h.Log.Errorw("create free submission", "error", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "internal error"})
	}
	return c.JSON(http.StatusCreated, sub)
}

// Queue handles GET /v1/queue: pending submissions in review order —
// priority first, then by boost, then by paid amount, oldest first
// within ties.  An optional limit query parameter caps the page size.
func (h *SubmissionHandler) Queue(c echo.Context) error {
	limit := defaultQueueLimit
	if raw := c.QueryParam("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "limit must be a positive integer"})
		}
		if n > maxQueueLimit {
			n = maxQueueLimit
		}
		limit = n
	}

	subs, err := h.Subs.ListPending(c.Request().Context(), limit)
	if err != nil {
		h.Log.Errorw("list queue", "error", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "internal error"})
	}
	return c.JSON(http.StatusOK, echo.Map{"submissions": subs, "count": len(subs)})
}

// AvailableSpots handles GET /v1/spots: the purchasable pre-stream
// spots, cheapest position first.
func (h *SubmissionHandler) AvailableSpots(c echo.Context) error {
	spots, err := h.Spots.ListAvailable(c.Request().Context())
	if err != nil {
		h.Log.Errorw("list available spots", "error", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "internal error"})
	}
	return c.JSON(http.StatusOK, echo.Map{"spots": spots, "count": len(spots)})
}
