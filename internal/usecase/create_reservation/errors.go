package create_reservation

import "errors"

var (
	// ErrUnknownService возвращается, когда код услуги не найден в календаре
	ErrUnknownService = errors.New("create_reservation: unknown service")

	// ErrOutOfAdvanceWindow возвращается, когда дата вне окна предварительной записи
	ErrOutOfAdvanceWindow = errors.New("create_reservation: date is outside the advance booking window")

	// ErrClosed возвращается, когда салон закрыт в указанную дату
	ErrClosed = errors.New("create_reservation: salon is closed on this date")

	// ErrInvalidSlot возвращается, когда время не является слотом этого дня
	ErrInvalidSlot = errors.New("create_reservation: time is not a configured slot")

	// ErrSlotTaken возвращается, когда слот уже занят активной бронью
	// Возможен только при allow_overlap = false
	ErrSlotTaken = errors.New("create_reservation: slot is already taken")

	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("create_reservation: invalid input data")

	// ErrInternal возвращается при внутренних ошибках usecase
	ErrInternal = errors.New("create_reservation: internal error")
)
