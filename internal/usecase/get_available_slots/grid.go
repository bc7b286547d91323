package get_available_slots

import (
	"time"

	"github.com/m04kA/SMC-BookingWizard/internal/domain"
	"github.com/m04kA/SMC-BookingWizard/pkg/types"
)

// generateGrid генерирует начала слотов с шагом step от открытия.
// Слот длиной duration должен закончиться не позже закрытия.
func generateGrid(day *domain.WorkingDay, step, duration int) []types.TimeString {
	if day == nil || !day.IsOpen || step <= 0 || duration <= 0 {
		return []types.TimeString{}
	}

	starts := make([]types.TimeString, 0)
	for current := day.OpenTime; ; {
		end, err := current.AddMinutes(duration)
		if err != nil || end.IsAfter(day.CloseTime) {
			break
		}
		starts = append(starts, current)

		current, err = current.AddMinutes(step)
		if err != nil {
			break
		}
	}

	return starts
}

// filterByNotice оставляет слоты, начинающиеся не раньше now + notice
func filterByNotice(starts []types.TimeString, day, now time.Time, noticeMinutes int) []types.TimeString {
	earliest := now.Add(time.Duration(noticeMinutes) * time.Minute)

	result := make([]types.TimeString, 0, len(starts))
	for _, start := range starts {
		if !start.On(day).Before(earliest) {
			result = append(result, start)
		}
	}
	return result
}

// overlapsAny проверяет пересечение слота с активными бронированиями.
// Граничащие интервалы (конец одного = начало другого) не пересекаются.
func overlapsAny(start types.TimeString, duration int, bookings []*domain.Booking) bool {
	slotStart := start.Minutes()
	slotEnd := slotStart + duration

	for _, booking := range bookings {
		if !booking.IsActive() {
			continue
		}
		bookingStart := booking.StartTime.Minutes()
		bookingEnd := bookingStart + booking.DurationMinutes
		if bookingStart < slotEnd && bookingEnd > slotStart {
			return true
		}
	}
	return false
}
