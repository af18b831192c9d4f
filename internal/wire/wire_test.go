package wire

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"rental-booking/internal/data/repository"
	"rental-booking/internal/notification"
	"rental-booking/internal/payment"
	"rental-booking/internal/usecase"
	"rental-booking/pkg/middleware"
	"rental-booking/pkg/utils"

	"github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// newTestApp wires the real router over a mock pool that expects no queries.
func newTestApp(t *testing.T) (*App, pgxmock.PgxPoolIface) {
	t.Helper()
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	t.Cleanup(mock.Close)

	log := zap.NewNop()
	config := &utils.Config{
		Booking: utils.BookingConfig{CodePrefix: "RSV", CodeMaxAttempts: 5},
		Payment: utils.PaymentConfig{WebhookSecret: "s3cret"},
	}
	clock := utils.SystemClock{}
	deps := usecase.Collaborators{
		Clock:    clock,
		Gateway:  payment.NewStubGateway(clock, log),
		Notifier: notification.NewLogNotifier(log),
	}

	return Wiring(repository.NewRepository(mock, log), config, deps, log), mock
}

func TestHealth(t *testing.T) {
	app, _ := newTestApp(t)

	rec := httptest.NewRecorder()
	app.Router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "OK", rec.Body.String())
}

func TestProtectedRoutesRequireSession(t *testing.T) {
	app, mock := newTestApp(t)

	routes := []struct{ method, path string }{
		{http.MethodGet, "/api/user/profile"},
		{http.MethodPost, "/api/reservations"},
		{http.MethodPost, "/api/reservations/instant"},
		{http.MethodPut, "/api/reservations/8b0e8f63-4a1c-4b7e-9a57-0f1f2c3d4e5f/cancel"},
		{http.MethodGet, "/api/user/reservations"},
		{http.MethodPost, "/api/reviews"},
		{http.MethodDelete, "/api/admin/reservations/8b0e8f63-4a1c-4b7e-9a57-0f1f2c3d4e5f"},
	}

	for _, route := range routes {
		t.Run(route.method+" "+route.path, func(t *testing.T) {
			rec := httptest.NewRecorder()
			app.Router.ServeHTTP(rec, httptest.NewRequest(route.method, route.path, nil))
			assert.Equal(t, http.StatusUnauthorized, rec.Code)
		})
	}

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPaymentCallbackRequiresSecret(t *testing.T) {
	app, _ := newTestApp(t)

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/payments/confirmations", strings.NewReader(`{}`))
	app.Router.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	// With the secret the request reaches validation.
	rec = httptest.NewRecorder()
	req = httptest.NewRequest(http.MethodPost, "/api/payments/confirmations", strings.NewReader(`{}`))
	req.Header.Set(middleware.WebhookSecretHeader, "s3cret")
	app.Router.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
