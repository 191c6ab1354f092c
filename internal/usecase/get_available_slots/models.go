package get_available_slots

import (
	"time"

	"github.com/peluqueriacool/PC-ReservationService/pkg/types"
)

// Request модель запроса на получение слотов
type Request struct {
	Date time.Time // дата, на которую запрашиваются слоты (без времени)
}

// Response модель ответа со списком слотов
type Response struct {
	Date   time.Time          // дата, на которую запрашивались слоты
	Closed bool               // салон закрыт в этот день (выходной или праздник)
	Slots  []types.TimeString // упорядоченный список слотов; пустой, если Closed
}
