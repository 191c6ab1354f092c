package create_reservation

import (
	"errors"
	"net/http"

	"github.com/peluqueriacool/PC-ReservationService/internal/api/handlers"
	createReservation "github.com/peluqueriacool/PC-ReservationService/internal/usecase/create_reservation"
)

const (
	msgInvalidRequestBody = "cuerpo de la solicitud inválido"
	msgInvalidDateOrTime  = "formato de fecha u hora inválido, se espera YYYY-MM-DD y HH:MM"
	msgUnknownService     = "servicio no encontrado"
	msgOutOfWindow        = "la fecha está fuera del período de reserva permitido"
	msgClosed             = "el salón está cerrado en la fecha seleccionada"
	msgInvalidSlot        = "horario inválido para la fecha seleccionada"
	msgSlotTaken          = "el horario seleccionado ya está ocupado"
	msgInvalidInput       = "datos de la reserva inválidos"
)

type Handler struct {
	useCase CreateReservationUseCase
	logger  Logger
}

func NewHandler(useCase CreateReservationUseCase, logger Logger) *Handler {
	return &Handler{
		useCase: useCase,
		logger:  logger,
	}
}

// Handle POST /api/v1/reservations
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	var req CreateReservationRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("POST /reservations - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	// Конвертируем HTTP запрос в модель use case (с парсингом даты и времени)
	useCaseReq, err := req.ToUseCaseRequest()
	if err != nil {
		h.logger.Warn("POST /reservations - Failed to parse request: %v", err)
		handlers.RespondBadRequest(w, msgInvalidDateOrTime)
		return
	}

	result, err := h.useCase.Execute(r.Context(), useCaseReq)
	if err != nil {
		switch {
		case errors.Is(err, createReservation.ErrUnknownService):
			h.logger.Warn("POST /reservations - Unknown service: service_code=%s", req.ServiceCode)
			handlers.RespondNotFound(w, msgUnknownService)

		case errors.Is(err, createReservation.ErrOutOfAdvanceWindow):
			h.logger.Warn("POST /reservations - Date out of advance window: date=%s", req.Date)
			handlers.RespondBadRequest(w, msgOutOfWindow)

		case errors.Is(err, createReservation.ErrClosed):
			h.logger.Warn("POST /reservations - Salon closed: date=%s", req.Date)
			handlers.RespondBadRequest(w, msgClosed)

		case errors.Is(err, createReservation.ErrInvalidSlot):
			h.logger.Warn("POST /reservations - Invalid slot: date=%s, time=%s", req.Date, req.Time)
			handlers.RespondBadRequest(w, msgInvalidSlot)

		case errors.Is(err, createReservation.ErrSlotTaken):
			h.logger.Warn("POST /reservations - Slot taken: date=%s, time=%s", req.Date, req.Time)
			handlers.RespondError(w, http.StatusConflict, msgSlotTaken)

		case errors.Is(err, createReservation.ErrInvalidInput):
			h.logger.Warn("POST /reservations - Invalid input: %v", err)
			handlers.RespondBadRequest(w, msgInvalidInput)

		default:
			h.logger.Error("POST /reservations - Failed to create reservation: date=%s, time=%s, error=%v",
				req.Date, req.Time, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	response := FromUseCaseResponse(result)

	h.logger.Info("POST /reservations - Reservation created successfully: reservation_id=%s, date=%s, time=%s",
		result.ID, req.Date, req.Time)
	handlers.RespondJSON(w, http.StatusCreated, response)
}
