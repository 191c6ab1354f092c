package get_available_slots

import (
	"time"

	"github.com/peluqueriacool/PC-ReservationService/internal/domain"
	getAvailableSlots "github.com/peluqueriacool/PC-ReservationService/internal/usecase/get_available_slots"
)

// AvailableSlotsResponse HTTP response model
type AvailableSlotsResponse struct {
	Date   string   `json:"date"`
	Closed bool     `json:"closed"`
	Slots  []string `json:"slots"`
}

// ToUseCaseRequest конвертирует query параметры в модель use case
func ToUseCaseRequest(dateStr string) (*getAvailableSlots.Request, error) {
	date, err := time.Parse(domain.DateFormat, dateStr)
	if err != nil {
		return nil, err
	}

	return &getAvailableSlots.Request{Date: date}, nil
}

// FromUseCaseResponse конвертирует ответ use case в HTTP response
func FromUseCaseResponse(resp *getAvailableSlots.Response) *AvailableSlotsResponse {
	slots := make([]string, len(resp.Slots))
	for i, slot := range resp.Slots {
		slots[i] = slot.String()
	}

	return &AvailableSlotsResponse{
		Date:   resp.Date.Format(domain.DateFormat),
		Closed: resp.Closed,
		Slots:  slots,
	}
}
