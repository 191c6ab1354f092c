package models

import (
	"errors"
	"strings"
	"time"

	"github.com/peluqueriacool/PC-ReservationService/internal/domain"
)

var (
	// ErrInvalidStatus возвращается при некорректном статусе
	ErrInvalidStatus = errors.New("invalid reservation status")
)

// Request модели

// RejectReservationRequest запрос на отклонение резервации
type RejectReservationRequest struct {
	Reason string `json:"reason,omitempty"`
}

// AddNoteRequest запрос на добавление заметки
type AddNoteRequest struct {
	Text string `json:"text"`
}

// ListReservationsRequest запрос на получение резерваций с фильтрацией
type ListReservationsRequest struct {
	Status   *string    `json:"status,omitempty"`   // Фильтр по статусу (опционально)
	Date     *time.Time `json:"date,omitempty"`     // Фильтр по конкретной дате (опционально)
	DateFrom *time.Time `json:"dateFrom,omitempty"` // Начало периода (опционально)
	DateTo   *time.Time `json:"dateTo,omitempty"`   // Конец периода (опционально)
}

// ToDomainFilter конвертирует request в domain фильтр
func (r *ListReservationsRequest) ToDomainFilter() (domain.ReservationsFilter, error) {
	filter := domain.ReservationsFilter{
		Date:     r.Date,
		DateFrom: r.DateFrom,
		DateTo:   r.DateTo,
	}

	// Конвертируем статус если указан
	if r.Status != nil {
		status, err := ToDomainReservationStatus(*r.Status)
		if err != nil {
			return filter, err
		}
		filter.Status = &status
	}

	return filter, nil
}

// Response модели

// ReservationResponse ответ с данными резервации
type ReservationResponse struct {
	ID            string  `json:"id"`
	CustomerName  string  `json:"customerName"`
	CustomerPhone string  `json:"customerPhone"`
	CustomerEmail *string `json:"customerEmail,omitempty"`
	ServiceCode   string  `json:"serviceCode"`
	ServiceName   string  `json:"serviceName"`
	Date          string  `json:"date"` // "2026-03-12"
	Time          string  `json:"time"` // "10:00"
	Status        string  `json:"status"`

	Notes []string `json:"notes"` // Заметки, по одной строке на запись

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// ReservationListResponse ответ со списком резерваций
type ReservationListResponse struct {
	Reservations []ReservationResponse `json:"reservations"`
}

// StatsResponse ответ со счетчиками дашборда
type StatsResponse struct {
	Today   int `json:"today"`
	Pending int `json:"pending"`
	Week    int `json:"week"`
	Month   int `json:"month"`
}

// Методы конвертации

// FromDomainReservation конвертирует domain модель в DTO
func FromDomainReservation(r *domain.Reservation) *ReservationResponse {
	if r == nil {
		return nil
	}

	notes := []string{}
	if r.Notes != "" {
		notes = strings.Split(r.Notes, "\n")
	}

	return &ReservationResponse{
		ID:            r.ID,
		CustomerName:  r.CustomerName,
		CustomerPhone: r.CustomerPhone,
		CustomerEmail: r.CustomerEmail,
		ServiceCode:   r.ServiceCode,
		ServiceName:   r.ServiceName,
		Date:          r.Date.Format(domain.DateFormat),
		Time:          r.Time.String(),
		Status:        string(r.Status),
		Notes:         notes,
		CreatedAt:     r.CreatedAt,
		UpdatedAt:     r.UpdatedAt,
	}
}

// FromDomainReservationList конвертирует список domain моделей в DTO
func FromDomainReservationList(reservations []*domain.Reservation) *ReservationListResponse {
	if reservations == nil {
		return &ReservationListResponse{
			Reservations: []ReservationResponse{},
		}
	}

	resp := &ReservationListResponse{
		Reservations: make([]ReservationResponse, len(reservations)),
	}

	for i, reservation := range reservations {
		if r := FromDomainReservation(reservation); r != nil {
			resp.Reservations[i] = *r
		}
	}

	return resp
}

// FromDomainStats конвертирует счетчики в DTO
func FromDomainStats(s *domain.Stats) *StatsResponse {
	if s == nil {
		return nil
	}

	return &StatsResponse{
		Today:   s.Today,
		Pending: s.Pending,
		Week:    s.Week,
		Month:   s.Month,
	}
}

// ToDomainReservationStatus конвертирует строку в domain.ReservationStatus с валидацией
func ToDomainReservationStatus(status string) (domain.ReservationStatus, error) {
	s := domain.ReservationStatus(status)
	if !s.IsValid() {
		return "", ErrInvalidStatus
	}
	return s, nil
}
