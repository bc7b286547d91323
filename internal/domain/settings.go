package domain

import "time"

// ModelSlotsConfig represents the booking configuration of a model.
// Supports hierarchical configuration:
// 1. Service-specific (model_id, service_id)
// 2. Model-wide (model_id, NULL)
type ModelSlotsConfig struct {
	ID                      int64
	ModelID                 string
	ServiceID               *string // NULL = config for all services
	SlotStepMinutes         int
	AdvanceBookingDays      int // 0 = unlimited
	MinBookingNoticeMinutes int
	CreatedAt               time.Time
	UpdatedAt               time.Time
}

// DefaultSlotsConfig returns the configuration used when a model has none
func DefaultSlotsConfig(modelID string) *ModelSlotsConfig {
	return &ModelSlotsConfig{
		ModelID:                 modelID,
		SlotStepMinutes:         DefaultSlotStepMinutes,
		AdvanceBookingDays:      DefaultAdvanceBookingDays,
		MinBookingNoticeMinutes: DefaultMinBookingNoticeMinutes,
	}
}

// IsServiceSpecific returns true if this configuration is for a single service
func (c *ModelSlotsConfig) IsServiceSpecific() bool {
	return c.ServiceID != nil
}

// HasAdvanceBookingLimit returns true if there's a limit on how far in advance bookings can be made
func (c *ModelSlotsConfig) HasAdvanceBookingLimit() bool {
	return c.AdvanceBookingDays > 0
}
