package wizard

import "time"

// Session сохраненный мастер одной вкладки браузера.
// Version увеличивается при каждом сохранении и служит для оптимистичной блокировки.
type Session struct {
	ID        string
	Version   int64
	Machine   Machine
	CreatedAt time.Time
	UpdatedAt time.Time
	ExpiresAt time.Time
}

// IsExpired сообщает, что к моменту now время жизни сессии истекло
func (s *Session) IsExpired(now time.Time) bool {
	return !s.ExpiresAt.IsZero() && !now.Before(s.ExpiresAt)
}
