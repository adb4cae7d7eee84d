package handler

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"

	"github.com/iliyamo/song-request-queue/internal/service"
)

func newJSONContext(t *testing.T, method, path, body string) (echo.Context, *httptest.ResponseRecorder) {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	return e.NewContext(req, rec), rec
}

func TestWriteEngineErrorMapping(t *testing.T) {
	cases := []struct {
		err  error
		code int
	}{
		{service.ErrInvalidInput, http.StatusBadRequest},
		{service.ErrInvalidAmount, http.StatusBadRequest},
		{service.ErrAmountTooLow, http.StatusBadRequest},
		{service.ErrPaymentIncomplete, http.StatusBadRequest},
		{service.ErrNotFound, http.StatusNotFound},
		{service.ErrSpotUnavailable, http.StatusConflict},
		{assert.AnError, http.StatusInternalServerError},
	}
	for _, tc := range cases {
		c, rec := newJSONContext(t, http.MethodPost, "/", "")
		_ = writeEngineError(c, tc.err)
		assert.Equal(t, tc.code, rec.Code, "error %v", tc.err)
	}
}

func TestIdentityAbsentByDefault(t *testing.T) {
	c, _ := newJSONContext(t, http.MethodGet, "/", "")
	userID, email := identity(c)
	assert.Nil(t, userID)
	assert.Empty(t, email)
}

func TestIdentityReadsContext(t *testing.T) {
	c, _ := newJSONContext(t, http.MethodGet, "/", "")
	c.Set("user_id", "u-9")
	c.Set("user_email", "viewer@example.com")
	userID, email := identity(c)
	if assert.NotNil(t, userID) {
		assert.Equal(t, "u-9", *userID)
	}
	assert.Equal(t, "viewer@example.com", email)
}

func TestCreateSubmissionRequiresSongURL(t *testing.T) {
	h := NewSubmissionHandler(nil, nil, nil)
	c, rec := newJSONContext(t, http.MethodPost, "/v1/submissions", `{"artistName":"A"}`)
	_ = h.Create(c)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestQueueRejectsBadLimit(t *testing.T) {
	h := NewSubmissionHandler(nil, nil, nil)
	c, rec := newJSONContext(t, http.MethodGet, "/v1/queue?limit=zero", "")
	_ = h.Queue(c)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestUpsertPricingRejectsUnknownType(t *testing.T) {
	h := NewAdminHandler(nil, nil, nil, nil)
	c, rec := newJSONContext(t, http.MethodPut, "/v1/admin/pricing/mystery", `{"minAmountCents":100}`)
	c.SetParamNames("type")
	c.SetParamValues("mystery")
	_ = h.UpsertPricing(c)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestUpsertPricingValidatesPercentRange(t *testing.T) {
	h := NewAdminHandler(nil, nil, nil, nil)
	c, rec := newJSONContext(t, http.MethodPut, "/v1/admin/pricing/bid_increment", `{"percent":3}`)
	c.SetParamNames("type")
	c.SetParamValues("bid_increment")
	_ = h.UpsertPricing(c)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestCreateSpotsRejectsEmptyBatch(t *testing.T) {
	h := NewAdminHandler(nil, nil, nil, nil)
	c, rec := newJSONContext(t, http.MethodPost, "/v1/admin/spots", `{"spots":[]}`)
	_ = h.CreateSpots(c)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestUpdateSubmissionStatusRejectsUnknownStatus(t *testing.T) {
	h := NewAdminHandler(nil, nil, nil, nil)
	c, rec := newJSONContext(t, http.MethodPatch, "/v1/admin/submissions/abc/status", `{"status":"archived"}`)
	c.SetParamNames("id")
	c.SetParamValues("abc")
	_ = h.UpdateSubmissionStatus(c)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
