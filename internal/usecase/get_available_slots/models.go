package get_available_slots

import (
	"time"

	"github.com/m04kA/SMC-BookingWizard/pkg/types"
)

// Request модель запроса на получение слотов
type Request struct {
	ModelID   string    // ID модели
	ServiceID string    // ID услуги
	Date      time.Time // Дата (время игнорируется)
}

// Response модель ответа со списком слотов
type Response struct {
	Date      time.Time
	ModelID   string
	ServiceID string
	Slots     []Slot
}

// Slot модель временного слота
type Slot struct {
	StartTime       types.TimeString // Время начала слота (например, "10:00")
	DurationMinutes int              // Длительность услуги в минутах
	Available       bool             // false, если слот пересекается с активным бронированием
}
