package create_booking

import (
	"fmt"
	"strings"
	"time"

	"github.com/m04kA/SMC-BookingWizard/internal/domain"
	"github.com/m04kA/SMC-BookingWizard/pkg/types"
)

// validateRequest валидирует входные данные запроса
func validateRequest(req *Request) error {
	if strings.TrimSpace(req.ModelID) == "" {
		return fmt.Errorf("%w: modelID is required", ErrInvalidInput)
	}

	if strings.TrimSpace(req.ServiceID) == "" {
		return fmt.Errorf("%w: serviceID is required", ErrInvalidInput)
	}

	if req.Date.IsZero() {
		return fmt.Errorf("%w: date is required", ErrInvalidInput)
	}

	if err := req.StartTime.Validate(); err != nil {
		return fmt.Errorf("%w: invalid startTime: %v", ErrInvalidInput, err)
	}

	if !req.Location.IsValid() {
		return fmt.Errorf("%w: unknown location %q", ErrInvalidInput, req.Location)
	}

	if fields := req.Client.Validate(req.Location); fields != nil {
		return &ClientDetailsError{Fields: fields}
	}

	return nil
}

// validateDate проверяет, что дата подходит для бронирования
func validateDate(day, now time.Time, advanceBookingDays int) error {
	today := startOfDay(now, now.Location())
	if day.Before(today) {
		return ErrInvalidDate
	}

	// advanceBookingDays = 0 - без ограничений
	if advanceBookingDays == 0 {
		return nil
	}

	if day.After(today.AddDate(0, 0, advanceBookingDays)) {
		return fmt.Errorf("%w: can only book %d days in advance", ErrDateTooFarInFuture, advanceBookingDays)
	}

	return nil
}

// validateTimeSlot проверяет, что слот лежит на сетке и заканчивается до закрытия
func validateTimeSlot(start types.TimeString, duration, step int, day *domain.WorkingDay) error {
	if start.IsBefore(day.OpenTime) {
		return fmt.Errorf("%w: %s is before opening at %s", ErrInvalidTimeSlot, start, day.OpenTime)
	}

	if step > 0 && (start.Minutes()-day.OpenTime.Minutes())%step != 0 {
		return fmt.Errorf("%w: %s is not aligned to %d minute grid", ErrInvalidTimeSlot, start, step)
	}

	end, err := start.AddMinutes(duration)
	if err != nil || end.IsAfter(day.CloseTime) {
		return fmt.Errorf("%w: %s + %d min ends after closing at %s", ErrInvalidTimeSlot, start, duration, day.CloseTime)
	}

	return nil
}

// validateNotice проверяет minBookingNoticeMinutes
func validateNotice(start types.TimeString, day, now time.Time, noticeMinutes int) error {
	earliest := now.Add(time.Duration(noticeMinutes) * time.Minute)
	if start.On(day).Before(earliest) {
		return fmt.Errorf("%w: must book at least %d minutes in advance", ErrTooLateToBook, noticeMinutes)
	}
	return nil
}

// hasOverlap проверяет пересечение с активными бронированиями; граничащие интервалы не пересекаются
func hasOverlap(start types.TimeString, duration int, bookings []*domain.Booking) bool {
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

func startOfDay(d time.Time, loc *time.Location) time.Time {
	return time.Date(d.Year(), d.Month(), d.Day(), 0, 0, 0, 0, loc)
}
