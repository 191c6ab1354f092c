package create_reservation

import (
	"time"

	"github.com/peluqueriacool/PC-ReservationService/internal/domain"
	createReservation "github.com/peluqueriacool/PC-ReservationService/internal/usecase/create_reservation"
	"github.com/peluqueriacool/PC-ReservationService/pkg/types"
)

// CreateReservationRequest HTTP request model
type CreateReservationRequest struct {
	CustomerName  string  `json:"customerName"`
	CustomerPhone string  `json:"customerPhone"`
	CustomerEmail *string `json:"customerEmail,omitempty"`
	ServiceCode   string  `json:"serviceCode"`
	Date          string  `json:"date"` // "2026-03-12"
	Time          string  `json:"time"` // "10:00"
}

// ReservationResponse HTTP response model
type ReservationResponse struct {
	ID            string  `json:"id"`
	CustomerName  string  `json:"customerName"`
	CustomerPhone string  `json:"customerPhone"`
	CustomerEmail *string `json:"customerEmail,omitempty"`
	ServiceCode   string  `json:"serviceCode"`
	ServiceName   string  `json:"serviceName"`
	Date          string  `json:"date"`
	Time          string  `json:"time"`
	Status        string  `json:"status"`
	CreatedAt     string  `json:"createdAt"`
	UpdatedAt     string  `json:"updatedAt"`
}

// ToUseCaseRequest конвертирует HTTP запрос в модель use case
func (r *CreateReservationRequest) ToUseCaseRequest() (*createReservation.Request, error) {
	date, err := time.Parse(domain.DateFormat, r.Date)
	if err != nil {
		return nil, err
	}

	slot, err := types.NewTimeStringFromString(r.Time)
	if err != nil {
		return nil, err
	}

	return &createReservation.Request{
		CustomerName:  r.CustomerName,
		CustomerPhone: r.CustomerPhone,
		CustomerEmail: r.CustomerEmail,
		ServiceCode:   r.ServiceCode,
		Date:          date,
		Time:          slot,
	}, nil
}

// FromUseCaseResponse конвертирует ответ use case в HTTP response
func FromUseCaseResponse(resp *createReservation.Response) *ReservationResponse {
	return &ReservationResponse{
		ID:            resp.ID,
		CustomerName:  resp.CustomerName,
		CustomerPhone: resp.CustomerPhone,
		CustomerEmail: resp.CustomerEmail,
		ServiceCode:   resp.ServiceCode,
		ServiceName:   resp.ServiceName,
		Date:          resp.Date.Format(domain.DateFormat),
		Time:          resp.Time.String(),
		Status:        resp.Status,
		CreatedAt:     resp.CreatedAt.Format(time.RFC3339),
		UpdatedAt:     resp.UpdatedAt.Format(time.RFC3339),
	}
}
