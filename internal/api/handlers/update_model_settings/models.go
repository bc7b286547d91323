package update_model_settings

import (
	"github.com/m04kA/SMC-BookingWizard/internal/service/settings/models"
)

// UpdateModelSettingsRequest HTTP request model
type UpdateModelSettingsRequest struct {
	ServiceID               *string `json:"serviceId,omitempty"` // не указан = настройки для всех услуг
	SlotStepMinutes         *int    `json:"slotStepMinutes,omitempty"`
	AdvanceBookingDays      *int    `json:"advanceBookingDays,omitempty"`
	MinBookingNoticeMinutes *int    `json:"minBookingNoticeMinutes,omitempty"`
}

// ToServiceRequest конвертирует HTTP request в модель сервиса
func (r *UpdateModelSettingsRequest) ToServiceRequest(modelID string, userID int64) *models.UpsertSettingsRequest {
	return &models.UpsertSettingsRequest{
		UserID:                  userID,
		ModelID:                 modelID,
		ServiceID:               r.ServiceID,
		SlotStepMinutes:         r.SlotStepMinutes,
		AdvanceBookingDays:      r.AdvanceBookingDays,
		MinBookingNoticeMinutes: r.MinBookingNoticeMinutes,
	}
}
