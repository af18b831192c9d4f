package adaptor

import (
	"net/http"

	"rental-booking/internal/dto/request"
	"rental-booking/internal/usecase"
	"rental-booking/pkg/utils"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

type PropertyHandler struct {
	service usecase.PropertyService
	log     *zap.Logger
}

func NewPropertyHandler(service usecase.PropertyService, log *zap.Logger) *PropertyHandler {
	return &PropertyHandler{
		service: service,
		log:     log.With(zap.String("handler", "property")),
	}
}

// GetProperty handles GET /api/properties/{id} (public)
func (h *PropertyHandler) GetProperty(w http.ResponseWriter, r *http.Request) {
	property, err := h.service.GetProperty(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		handleServiceError(h.log, w, err, "get property")
		return
	}

	utils.ResponseSuccess(w, "success", property)
}

// CheckAvailability handles GET /api/properties/{id}/availability?check_in=&check_out= (public)
func (h *PropertyHandler) CheckAvailability(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	req := request.AvailabilityRequest{
		StayDates: request.StayDates{
			CheckIn:  query.Get("check_in"),
			CheckOut: query.Get("check_out"),
		},
	}

	// Validate request
	if validationErrors := utils.ValidateStruct(req); len(validationErrors) > 0 {
		utils.ResponseBadRequest(w, "Validation failed", validationErrors)
		return
	}

	availability, err := h.service.CheckAvailability(r.Context(), chi.URLParam(r, "id"), &req)
	if err != nil {
		handleServiceError(h.log, w, err, "check availability")
		return
	}

	utils.ResponseSuccess(w, "success", availability)
}

// GetQuote handles GET /api/properties/{id}/quote (public)
// Query: check_in, check_out, adults, children, infants
func (h *PropertyHandler) GetQuote(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	req := request.QuoteRequest{
		StayDates: request.StayDates{
			CheckIn:  query.Get("check_in"),
			CheckOut: query.Get("check_out"),
		},
		Occupancy: request.Occupancy{
			Adults:   utils.ParseInt(query.Get("adults"), 1),
			Children: utils.ParseNonNegativeInt(query.Get("children"), 0),
			Infants:  utils.ParseNonNegativeInt(query.Get("infants"), 0),
		},
	}

	if validationErrors := utils.ValidateStruct(req); len(validationErrors) > 0 {
		utils.ResponseBadRequest(w, "Validation failed", validationErrors)
		return
	}

	quote, err := h.service.GetQuote(r.Context(), chi.URLParam(r, "id"), &req)
	if err != nil {
		handleServiceError(h.log, w, err, "get quote")
		return
	}

	utils.ResponseSuccess(w, "success", quote)
}

// CheckMultipleAvailability handles POST /api/properties/availability (public)
func (h *PropertyHandler) CheckMultipleAvailability(w http.ResponseWriter, r *http.Request) {
	var req request.MultiAvailabilityRequest
	if err := decodeJSON(r, &req); err != nil {
		utils.ResponseBadRequest(w, "Invalid request body", nil)
		return
	}

	if validationErrors := utils.ValidateStruct(req); len(validationErrors) > 0 {
		utils.ResponseBadRequest(w, "Validation failed", validationErrors)
		return
	}

	results, err := h.service.CheckMultipleAvailability(r.Context(), &req)
	if err != nil {
		handleServiceError(h.log, w, err, "check multiple availability")
		return
	}

	utils.ResponseSuccess(w, "success", results)
}
