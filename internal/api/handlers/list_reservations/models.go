package list_reservations

import (
	"net/url"
	"time"

	"github.com/peluqueriacool/PC-ReservationService/internal/domain"
	"github.com/peluqueriacool/PC-ReservationService/internal/service/reservations/models"
)

// Предустановленные выборки дашборда
const (
	viewToday   = "today"
	viewWeek    = "week"
	viewPending = "pending"
)

// ToServiceRequest конвертирует query параметры в модель сервиса
func ToServiceRequest(query url.Values) (*models.ListReservationsRequest, error) {
	req := &models.ListReservationsRequest{}

	if status := query.Get("status"); status != "" {
		req.Status = &status
	}

	if dateStr := query.Get("date"); dateStr != "" {
		date, err := time.Parse(domain.DateFormat, dateStr)
		if err != nil {
			return nil, err
		}
		req.Date = &date
	}

	if fromStr := query.Get("dateFrom"); fromStr != "" {
		from, err := time.Parse(domain.DateFormat, fromStr)
		if err != nil {
			return nil, err
		}
		req.DateFrom = &from
	}

	if toStr := query.Get("dateTo"); toStr != "" {
		to, err := time.Parse(domain.DateFormat, toStr)
		if err != nil {
			return nil, err
		}
		req.DateTo = &to
	}

	return req, nil
}
