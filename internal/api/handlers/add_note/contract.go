package add_note

import (
	"context"

	"github.com/peluqueriacool/PC-ReservationService/internal/service/reservations/models"
)

type ReservationService interface {
	AddNote(ctx context.Context, id string, req *models.AddNoteRequest) (*models.ReservationResponse, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
