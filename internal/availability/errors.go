package availability

import "errors"

var (
	// ErrUnknownService возвращается, когда код услуги не найден в календаре
	ErrUnknownService = errors.New("availability: unknown service")

	// ErrOutOfAdvanceWindow возвращается, когда дата вне окна предварительной записи
	ErrOutOfAdvanceWindow = errors.New("availability: date is outside the advance booking window")

	// ErrClosed возвращается, когда салон закрыт в указанную дату
	// (выходной день недели или праздник)
	ErrClosed = errors.New("availability: salon is closed on this date")

	// ErrInvalidSlot возвращается, когда время не входит в список слотов дня
	ErrInvalidSlot = errors.New("availability: time is not a configured slot")
)
