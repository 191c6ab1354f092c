package add_note

import (
	"errors"
	"net/http"

	"github.com/google/uuid"
	"github.com/gorilla/mux"

	"github.com/peluqueriacool/PC-ReservationService/internal/api/handlers"
	"github.com/peluqueriacool/PC-ReservationService/internal/service/reservations"
	"github.com/peluqueriacool/PC-ReservationService/internal/service/reservations/models"
)

const (
	msgInvalidReservationID = "ID de reserva inválido"
	msgInvalidRequestBody   = "cuerpo de la solicitud inválido"
	msgNotFound             = "reserva no encontrada"
	msgInvalidNote          = "la nota es obligatoria y no puede superar los 500 caracteres"
	msgVersionConflict      = "la reserva fue modificada por otra operación, recargue e intente de nuevo"
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

// Handle POST /api/v1/reservations/{reservationId}/notes
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	reservationID := vars["reservationId"]

	if err := uuid.Validate(reservationID); err != nil {
		h.logger.Warn("POST /reservations/{id}/notes - Invalid reservation ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidReservationID)
		return
	}

	var req models.AddNoteRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("POST /reservations/{id}/notes - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	reservation, err := h.service.AddNote(r.Context(), reservationID, &req)
	if err != nil {
		switch {
		case errors.Is(err, reservations.ErrReservationNotFound):
			h.logger.Warn("POST /reservations/{id}/notes - Reservation not found: reservation_id=%s", reservationID)
			handlers.RespondNotFound(w, msgNotFound)

		case errors.Is(err, reservations.ErrInvalidInput):
			h.logger.Warn("POST /reservations/{id}/notes - Invalid note: reservation_id=%s, error=%v", reservationID, err)
			handlers.RespondBadRequest(w, msgInvalidNote)

		case errors.Is(err, reservations.ErrVersionConflict):
			h.logger.Warn("POST /reservations/{id}/notes - Version conflict: reservation_id=%s", reservationID)
			handlers.RespondError(w, http.StatusConflict, msgVersionConflict)

		default:
			h.logger.Error("POST /reservations/{id}/notes - Failed to add note: reservation_id=%s, error=%v", reservationID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("POST /reservations/{id}/notes - Note added successfully: reservation_id=%s", reservationID)
	handlers.RespondJSON(w, http.StatusOK, reservation)
}
