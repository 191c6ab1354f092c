package create_reservation

import (
	"time"

	"github.com/peluqueriacool/PC-ReservationService/internal/domain"
	"github.com/peluqueriacool/PC-ReservationService/pkg/types"
)

// Request модель запроса на создание брони
type Request struct {
	CustomerName  string
	CustomerPhone string
	CustomerEmail *string // опционально

	ServiceCode string
	Date        time.Time        // дата брони (без времени)
	Time        types.TimeString // время начала слота (например, "10:00")
}

// Response модель ответа с созданной бронью
type Response struct {
	ID            string
	CustomerName  string
	CustomerPhone string
	CustomerEmail *string

	ServiceCode string
	ServiceName string // снимок названия услуги на момент брони

	Date   time.Time
	Time   types.TimeString
	Status string

	CreatedAt time.Time
	UpdatedAt time.Time
}

// fromDomain конвертирует domain модель в ответ usecase
func fromDomain(r *domain.Reservation) *Response {
	return &Response{
		ID:            r.ID,
		CustomerName:  r.CustomerName,
		CustomerPhone: r.CustomerPhone,
		CustomerEmail: r.CustomerEmail,
		ServiceCode:   r.ServiceCode,
		ServiceName:   r.ServiceName,
		Date:          r.Date,
		Time:          r.Time,
		Status:        string(r.Status),
		CreatedAt:     r.CreatedAt,
		UpdatedAt:     r.UpdatedAt,
	}
}
