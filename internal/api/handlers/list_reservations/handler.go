package list_reservations

import (
	"errors"
	"net/http"

	"github.com/peluqueriacool/PC-ReservationService/internal/api/handlers"
	"github.com/peluqueriacool/PC-ReservationService/internal/service/reservations"
	"github.com/peluqueriacool/PC-ReservationService/internal/service/reservations/models"
)

const (
	msgInvalidDate   = "formato de fecha inválido, se espera YYYY-MM-DD"
	msgInvalidStatus = "estado de reserva inválido"
	msgInvalidView   = "vista desconocida, se espera today, week o pending"
)

type Handler struct {
	service ReservationService
	logger  Logger
}

func NewHandler(service ReservationService, logger Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// Handle GET /api/v1/reservations
// Query params: view (today|week|pending) или комбинация status, date, dateFrom, dateTo
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	var (
		result *models.ReservationListResponse
		err    error
	)

	if view := r.URL.Query().Get("view"); view != "" {
		switch view {
		case viewToday:
			result, err = h.service.ListToday(r.Context())
		case viewWeek:
			result, err = h.service.ListThisWeek(r.Context())
		case viewPending:
			result, err = h.service.ListPending(r.Context())
		default:
			h.logger.Warn("GET /reservations - Unknown view: %s", view)
			handlers.RespondBadRequest(w, msgInvalidView)
			return
		}
	} else {
		var req *models.ListReservationsRequest
		req, err = ToServiceRequest(r.URL.Query())
		if err != nil {
			h.logger.Warn("GET /reservations - Invalid date filter: %v", err)
			handlers.RespondBadRequest(w, msgInvalidDate)
			return
		}

		result, err = h.service.List(r.Context(), req)
	}

	if err != nil {
		switch {
		case errors.Is(err, reservations.ErrInvalidStatus):
			h.logger.Warn("GET /reservations - Invalid status filter: %v", err)
			handlers.RespondBadRequest(w, msgInvalidStatus)

		default:
			h.logger.Error("GET /reservations - Failed to list reservations: %v", err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("GET /reservations - Listed %d reservations", len(result.Reservations))
	handlers.RespondJSON(w, http.StatusOK, result)
}
