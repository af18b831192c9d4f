package adaptor

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"rental-booking/internal/dto/request"
	"rental-booking/internal/dto/response"
	"rental-booking/internal/usecase"
	"rental-booking/pkg/utils"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// stubReservationService answers only the calls a test configures; the
// embedded interface panics on anything else.
type stubReservationService struct {
	usecase.ReservationService

	createErr     error
	cancelErr     error
	recordErr     error
	gotCreate     *request.CreateReservationRequest
	gotGuestID    string
	gotCancelID   string
	recordedCalls int
}

func (s *stubReservationService) CreateReservation(ctx context.Context, guestID string, req *request.CreateReservationRequest) (*response.ReservationResponse, error) {
	s.gotGuestID = guestID
	s.gotCreate = req
	if s.createErr != nil {
		return nil, s.createErr
	}
	return &response.ReservationResponse{ID: uuid.NewString(), ReservationCode: "RSV-ABCDEFGHJK"}, nil
}

func (s *stubReservationService) CancelReservation(ctx context.Context, reservationID, requesterID string, req *request.CancelReservationRequest) (*response.CancellationResponse, error) {
	s.gotCancelID = reservationID
	if s.cancelErr != nil {
		return nil, s.cancelErr
	}
	return &response.CancellationResponse{ReservationID: reservationID, RefundPercent: 100}, nil
}

func (s *stubReservationService) RecordPayment(ctx context.Context, req *request.PaymentConfirmationRequest) (*response.ReservationResponse, error) {
	s.recordedCalls++
	if s.recordErr != nil {
		return nil, s.recordErr
	}
	return &response.ReservationResponse{ID: req.ReservationID}, nil
}

type envelope struct {
	Status  bool            `json:"status"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
	Errors  map[string]any  `json:"errors"`
}

func decodeEnvelope(t *testing.T, rec *httptest.ResponseRecorder) envelope {
	t.Helper()
	var env envelope
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env))
	return env
}

func reservationRouter(service usecase.ReservationService, userID *uuid.UUID) *chi.Mux {
	handler := NewReservationHandler(service, zap.NewNop())

	r := chi.NewRouter()
	r.Use(func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
			if userID != nil {
				req = req.WithContext(utils.SetUserContext(req.Context(), *userID, "guest"))
			}
			next.ServeHTTP(w, req)
		})
	})
	r.Post("/api/reservations", handler.CreateReservation)
	r.Put("/api/reservations/{id}/cancel", handler.CancelReservation)
	return r
}

func serveJSON(router http.Handler, method, path, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

const validCreateBody = `{
	"property_id": "8b0e8f63-4a1c-4b7e-9a57-0f1f2c3d4e5f",
	"check_in": "2026-04-10",
	"check_out": "2026-04-13",
	"adults": 2,
	"children": 1
}`

func TestCreateReservationHandler(t *testing.T) {
	userID := uuid.New()

	t.Run("created", func(t *testing.T) {
		service := &stubReservationService{}
		rec := serveJSON(reservationRouter(service, &userID), http.MethodPost, "/api/reservations", validCreateBody)

		assert.Equal(t, http.StatusCreated, rec.Code)
		assert.True(t, decodeEnvelope(t, rec).Status)
		assert.Equal(t, userID.String(), service.gotGuestID)
		require.NotNil(t, service.gotCreate)
		assert.Equal(t, "2026-04-10", service.gotCreate.CheckIn)
		assert.Equal(t, 1, service.gotCreate.Children)
	})

	t.Run("requires authentication", func(t *testing.T) {
		rec := serveJSON(reservationRouter(&stubReservationService{}, nil), http.MethodPost, "/api/reservations", validCreateBody)
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("rejects unknown fields", func(t *testing.T) {
		body := strings.Replace(validCreateBody, `"adults": 2`, `"adults": 2, "pets": 1`, 1)
		service := &stubReservationService{}
		rec := serveJSON(reservationRouter(service, &userID), http.MethodPost, "/api/reservations", body)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Nil(t, service.gotCreate)
	})

	t.Run("reports field validation errors", func(t *testing.T) {
		body := strings.Replace(validCreateBody, `"2026-04-13"`, `"13/04/2026"`, 1)
		rec := serveJSON(reservationRouter(&stubReservationService{}, &userID), http.MethodPost, "/api/reservations", body)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
		env := decodeEnvelope(t, rec)
		assert.Equal(t, "Validation failed", env.Message)
		assert.Contains(t, env.Errors, "check_out")
	})
}

func TestServiceErrorStatuses(t *testing.T) {
	userID := uuid.New()
	checkIn := time.Date(2026, 4, 11, 0, 0, 0, 0, time.UTC)

	cases := []struct {
		name   string
		err    error
		status int
		kind   string
	}{
		{"not available", &usecase.AvailabilityConflict{ReservationCode: "RSV-QQQQQQQQQQ", CheckIn: checkIn, CheckOut: checkIn.AddDate(0, 0, 2)}, http.StatusConflict, "NotAvailable"},
		{"lost race", usecase.ErrDatesNoLongerAvailable, http.StatusConflict, "DatesNoLongerAvailable"},
		{"below min nights", fmt.Errorf("%w: 1 < 2", usecase.ErrBelowMinNights), http.StatusBadRequest, "BelowMinNights"},
		{"capacity", usecase.ErrCapacityExceeded, http.StatusBadRequest, "CapacityExceeded"},
		{"missing property", fmt.Errorf("property: %w", usecase.ErrNotFound), http.StatusNotFound, "NotFound"},
		{"payment declined", usecase.ErrPaymentFailed, http.StatusPaymentRequired, "PaymentFailed"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			service := &stubReservationService{createErr: tc.err}
			rec := serveJSON(reservationRouter(service, &userID), http.MethodPost, "/api/reservations", validCreateBody)

			assert.Equal(t, tc.status, rec.Code)
			env := decodeEnvelope(t, rec)
			assert.False(t, env.Status)
			assert.Equal(t, tc.kind, env.Errors["kind"])
		})
	}

	t.Run("conflict details name the blocking reservation", func(t *testing.T) {
		service := &stubReservationService{createErr: cases[0].err}
		rec := serveJSON(reservationRouter(service, &userID), http.MethodPost, "/api/reservations", validCreateBody)

		env := decodeEnvelope(t, rec)
		assert.Equal(t, "RSV-QQQQQQQQQQ", env.Errors["reservation_code"])
		assert.Equal(t, "2026-04-11", env.Errors["check_in"])
		assert.Equal(t, "2026-04-13", env.Errors["check_out"])
	})

	t.Run("unexpected errors are hidden", func(t *testing.T) {
		service := &stubReservationService{createErr: fmt.Errorf("insert reservation: connection reset")}
		rec := serveJSON(reservationRouter(service, &userID), http.MethodPost, "/api/reservations", validCreateBody)

		assert.Equal(t, http.StatusInternalServerError, rec.Code)
		assert.Equal(t, "Internal server error", decodeEnvelope(t, rec).Message)
	})

	t.Run("service validation errors keep their fields", func(t *testing.T) {
		err := &usecase.ValidationError{Fields: map[string]string{"property_id": "must be a valid UUID"}}
		service := &stubReservationService{createErr: err}
		rec := serveJSON(reservationRouter(service, &userID), http.MethodPost, "/api/reservations", validCreateBody)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Equal(t, "must be a valid UUID", decodeEnvelope(t, rec).Errors["property_id"])
	})
}

func TestCancelReservationHandler(t *testing.T) {
	userID := uuid.New()
	reservationID := uuid.NewString()

	t.Run("passes the path id", func(t *testing.T) {
		service := &stubReservationService{}
		rec := serveJSON(reservationRouter(service, &userID), http.MethodPut,
			"/api/reservations/"+reservationID+"/cancel", `{"reason":"plans changed"}`)

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, reservationID, service.gotCancelID)
	})

	t.Run("not cancellable is a conflict", func(t *testing.T) {
		service := &stubReservationService{cancelErr: usecase.ErrNotCancellable}
		rec := serveJSON(reservationRouter(service, &userID), http.MethodPut,
			"/api/reservations/"+reservationID+"/cancel", `{"reason":"plans changed"}`)

		assert.Equal(t, http.StatusConflict, rec.Code)
		assert.Equal(t, "NotCancellable", decodeEnvelope(t, rec).Errors["kind"])
	})

	t.Run("someone else's reservation is forbidden", func(t *testing.T) {
		service := &stubReservationService{cancelErr: usecase.ErrUnauthorized}
		rec := serveJSON(reservationRouter(service, &userID), http.MethodPut,
			"/api/reservations/"+reservationID+"/cancel", `{"reason":"plans changed"}`)

		assert.Equal(t, http.StatusForbidden, rec.Code)
	})
}

func TestConfirmPaymentHandler(t *testing.T) {
	body := `{
		"reservation_id": "8b0e8f63-4a1c-4b7e-9a57-0f1f2c3d4e5f",
		"amount_paid": 37000,
		"transaction_id": "PAY-1",
		"method": "card",
		"paid_at": "2026-03-01T10:00:00Z"
	}`

	serve := func(service *stubReservationService, body string) *httptest.ResponseRecorder {
		handler := NewPaymentHandler(service, zap.NewNop())
		rec := httptest.NewRecorder()
		handler.ConfirmPayment(rec, httptest.NewRequest(http.MethodPost, "/api/payments/confirmations", strings.NewReader(body)))
		return rec
	}

	t.Run("recorded", func(t *testing.T) {
		service := &stubReservationService{}
		rec := serve(service, body)
		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, 1, service.recordedCalls)
	})

	t.Run("mismatch", func(t *testing.T) {
		rec := serve(&stubReservationService{recordErr: usecase.ErrPaymentMismatch}, body)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Equal(t, "PaymentMismatch", decodeEnvelope(t, rec).Errors["kind"])
	})

	t.Run("sub-cent amount", func(t *testing.T) {
		service := &stubReservationService{}
		rec := serve(service, strings.Replace(body, `"amount_paid": 37000`, `"amount_paid": 370.004`, 1))
		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Zero(t, service.recordedCalls)
	})

	t.Run("missing paid_at", func(t *testing.T) {
		service := &stubReservationService{}
		rec := serve(service, strings.Replace(body, `"paid_at": "2026-03-01T10:00:00Z"`, `"paid_at": null`, 1))
		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Zero(t, service.recordedCalls)
	})
}
