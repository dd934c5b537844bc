package taxyearhandler

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"flpayroll/internal/domain/taxconfig"
	"flpayroll/internal/transport/http/api"
	"flpayroll/internal/transport/http/middleware"
)

type Handler struct {
	Loader *taxconfig.Loader
}

func New(loader *taxconfig.Loader) *Handler {
	return &Handler{Loader: loader}
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Get("/taxyears/{year}/validate", h.Validate)
}

// Validate runs the full file-set gate for a year and frequency and returns
// the structured report whether it passed or failed.
func (h *Handler) Validate(w http.ResponseWriter, r *http.Request) {
	reqID := middleware.GetRequestID(r.Context())

	year, err := strconv.Atoi(chi.URLParam(r, "year"))
	if err != nil || year <= 0 {
		api.Fail(w, http.StatusBadRequest, "invalid_request", "year must be a positive integer", reqID)
		return
	}
	frequency := r.URL.Query().Get("frequency")
	if frequency == "" {
		frequency = taxconfig.FrequencyMonthly
	}

	result := h.Loader.Validate(year, frequency)
	api.Success(w, result, reqID)
}
