package domain

// Default configuration values
const (
	DefaultSlotStepMinutes         = 30
	DefaultAdvanceBookingDays      = 0  // 0 = unlimited
	DefaultMinBookingNoticeMinutes = 60 // 1 hour
)

// Business validation constants
const (
	MinSlotStepMinutes      = 5
	MaxSlotStepMinutes      = 240
	MinAdvanceBookingDays   = 0
	MaxAdvanceBookingDays   = 365 // 1 year
	MinBookingNoticeMinutes = 0
	MaxBookingNoticeMinutes = 10080 // 1 week

	MaxClientNameLength    = 100
	MaxClientAddressLength = 300
	MinContactDigits       = 8
	MaxContactDigits       = 15
)

// Time format constants
const (
	TimeFormat = "15:04"      // HH:MM
	DateFormat = "2006-01-02" // YYYY-MM-DD
)

// InactiveStatuses список статусов, не занимающих слот
// Используется для фильтрации при расчёте доступных слотов
var InactiveStatuses = []BookingStatus{
	StatusDeclined,
	StatusCancelledByClient,
	StatusNoShow,
}
