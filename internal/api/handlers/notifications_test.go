package handlers

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"kudosnotify/internal/core"
	"kudosnotify/internal/notify"
	"kudosnotify/internal/types"
)

type mockNotifier struct{ mock.Mock }

func (m *mockNotifier) Notify(ctx context.Context, req notify.Request) (*notify.Result, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*notify.Result), args.Error(1)
}

func newTestRouter(t *testing.T) (*chi.Mux, *mockNotifier) {
	t.Helper()

	notifier := &mockNotifier{}
	handler := NewNotificationHandler(
		notifier,
		core.NewValidator(),
		slog.New(slog.NewTextHandler(io.Discard, nil)),
	)

	router := chi.NewRouter()
	handler.RegisterRoutes(router)
	return router, notifier
}

func postJSON(router http.Handler, path, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func TestHandleKudosEmail(t *testing.T) {
	router, notifier := newTestRouter(t)
	notifier.On("Notify", mock.Anything, notify.Request{
		Kind:    notify.KindKudos,
		KudosID: "kudos-1",
	}).Return(&notify.Result{Sent: 1}, nil)

	rec := postJSON(router, "/send-kudos-email", `{"kudosId":"kudos-1"}`)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"success":true}`, rec.Body.String())
	notifier.AssertExpectations(t)
}

func TestHandleKudosEmail_MissingKudosID(t *testing.T) {
	router, notifier := newTestRouter(t)

	rec := postJSON(router, "/send-kudos-email", `{}`)

	assert.Equal(t, http.StatusInternalServerError, rec.Code)

	var body core.ErrorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Contains(t, body.Error, "KudosID")
	notifier.AssertNotCalled(t, "Notify", mock.Anything, mock.Anything)
}

func TestHandleKudosEmail_MalformedJSON(t *testing.T) {
	router, notifier := newTestRouter(t)

	rec := postJSON(router, "/send-kudos-email", `{"kudosId":`)

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Contains(t, rec.Body.String(), "malformed JSON")
	notifier.AssertNotCalled(t, "Notify", mock.Anything, mock.Anything)
}

func TestHandleKudosEmail_NotifierError(t *testing.T) {
	router, notifier := newTestRouter(t)
	notifier.On("Notify", mock.Anything, mock.Anything).
		Return(nil, types.NewAppError(types.ErrCodeNotFoundKudos, "kudos not found", nil))

	rec := postJSON(router, "/send-kudos-email", `{"kudosId":"missing"}`)

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.JSONEq(t, `{"error":"kudos not found"}`, rec.Body.String())
}

func TestHandleRewardStatusEmail(t *testing.T) {
	router, notifier := newTestRouter(t)
	notifier.On("Notify", mock.Anything, notify.Request{
		Kind:       notify.KindRewardStatus,
		UserID:     "user-1",
		Status:     "confirmed",
		AdminNotes: "Enjoy!",
	}).Return(&notify.Result{Sent: 1}, nil)

	rec := postJSON(router, "/send-reward-status-email",
		`{"userId":"user-1","status":"confirmed","adminNotes":"Enjoy!"}`)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"success":true}`, rec.Body.String())
	notifier.AssertExpectations(t)
}

func TestHandleRewardStatusEmail_MissingStatus(t *testing.T) {
	router, notifier := newTestRouter(t)

	rec := postJSON(router, "/send-reward-status-email", `{"userId":"user-1"}`)

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	notifier.AssertNotCalled(t, "Notify", mock.Anything, mock.Anything)
}

func TestHandleAdminNotification(t *testing.T) {
	router, notifier := newTestRouter(t)
	notifier.On("Notify", mock.Anything, notify.Request{
		Kind:     notify.KindAdminClaim,
		RewardID: "reward-1",
		UserID:   "user-1",
	}).Return(&notify.Result{Sent: 2}, nil)

	rec := postJSON(router, "/send-admin-notification",
		`{"rewardId":"reward-1","userId":"user-1"}`)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"success":true}`, rec.Body.String())
	notifier.AssertExpectations(t)
}

func TestHandleAdminNotification_ZeroSendsStillSucceeds(t *testing.T) {
	router, notifier := newTestRouter(t)
	notifier.On("Notify", mock.Anything, mock.Anything).
		Return(&notify.Result{Sent: 0}, nil)

	rec := postJSON(router, "/send-admin-notification",
		`{"rewardId":"reward-1","userId":"user-1"}`)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"success":true}`, rec.Body.String())
}

func TestHandleSendEmail_ReceiptPassthrough(t *testing.T) {
	router, notifier := newTestRouter(t)
	notifier.On("Notify", mock.Anything, notify.Request{
		Kind:      notify.KindGeneric,
		To:        "user@example.com",
		EmailType: "kudos",
	}).Return(&notify.Result{
		Receipt: &types.ProviderReceipt{ID: "msg-123", Raw: json.RawMessage(`{"id":"msg-123"}`)},
		Sent:    1,
	}, nil)

	rec := postJSON(router, "/send-email", `{"to":"user@example.com","type":"kudos"}`)

	// The provider's response body is passed through verbatim.
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"id":"msg-123"}`, rec.Body.String())
	notifier.AssertExpectations(t)
}

func TestHandleSendEmail_InvalidEmail(t *testing.T) {
	router, notifier := newTestRouter(t)

	rec := postJSON(router, "/send-email", `{"to":"not-an-email","type":"kudos"}`)

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	notifier.AssertNotCalled(t, "Notify", mock.Anything, mock.Anything)
}

func TestHandleSendEmail_InvalidType(t *testing.T) {
	router, notifier := newTestRouter(t)

	rec := postJSON(router, "/send-email", `{"to":"user@example.com","type":"newsletter"}`)

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	notifier.AssertNotCalled(t, "Notify", mock.Anything, mock.Anything)
}

func TestHandleNotificationEmail_ChainedClaim(t *testing.T) {
	router, notifier := newTestRouter(t)
	notifier.On("Notify", mock.Anything, notify.Request{
		Kind:      notify.KindGeneric,
		To:        "carol@example.com",
		EmailType: "reward_status",
		RewardID:  "reward-1",
		UserID:    "user-1",
	}).Return(&notify.Result{
		Receipt: &types.ProviderReceipt{ID: "msg-456", Raw: json.RawMessage(`{"id":"msg-456"}`)},
		Sent:    1,
	}, nil)

	rec := postJSON(router, "/send-notification-email",
		`{"to":"carol@example.com","type":"reward_status","rewardId":"reward-1","userId":"user-1"}`)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"id":"msg-456"}`, rec.Body.String())
	notifier.AssertExpectations(t)
}

func TestHandleNotificationEmail_NoReceiptFallsBackToSuccess(t *testing.T) {
	router, notifier := newTestRouter(t)
	notifier.On("Notify", mock.Anything, mock.Anything).
		Return(&notify.Result{Sent: 1}, nil)

	rec := postJSON(router, "/send-notification-email",
		`{"to":"user@example.com","type":"kudos"}`)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"success":true}`, rec.Body.String())
}

func TestHandleNotificationEmail_ProviderUnavailable(t *testing.T) {
	router, notifier := newTestRouter(t)
	notifier.On("Notify", mock.Anything, mock.Anything).
		Return(nil, types.NewAppError(types.ErrCodeConfigEmailProvider, "email service is not configured", nil))

	rec := postJSON(router, "/send-notification-email",
		`{"to":"user@example.com","type":"kudos"}`)

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.JSONEq(t, `{"error":"email service is not configured"}`, rec.Body.String())
}
