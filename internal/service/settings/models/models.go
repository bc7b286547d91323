package models

import (
	"time"

	"github.com/m04kA/SMC-BookingWizard/internal/domain"
)

// Request модели

// GetSettingsRequest запрос на получение действующих настроек
type GetSettingsRequest struct {
	ModelID   string
	ServiceID *string // nil = общие настройки модели
}

// UpsertSettingsRequest запрос на создание или обновление настроек.
// Незаполненные поля сохраняют текущее значение (или значение по умолчанию).
type UpsertSettingsRequest struct {
	UserID                  int64   `json:"-"`
	ModelID                 string  `json:"-"`
	ServiceID               *string `json:"serviceId,omitempty"` // NULL = для всех услуг
	SlotStepMinutes         *int    `json:"slotStepMinutes,omitempty"`
	AdvanceBookingDays      *int    `json:"advanceBookingDays,omitempty"` // 0 = без ограничений
	MinBookingNoticeMinutes *int    `json:"minBookingNoticeMinutes,omitempty"`
}

// ApplyTo применяет заполненные поля к настройкам
func (r *UpsertSettingsRequest) ApplyTo(cfg *domain.ModelSlotsConfig) {
	if r.SlotStepMinutes != nil {
		cfg.SlotStepMinutes = *r.SlotStepMinutes
	}
	if r.AdvanceBookingDays != nil {
		cfg.AdvanceBookingDays = *r.AdvanceBookingDays
	}
	if r.MinBookingNoticeMinutes != nil {
		cfg.MinBookingNoticeMinutes = *r.MinBookingNoticeMinutes
	}
}

// Response модели

// SettingsResponse ответ с настройками слотов
type SettingsResponse struct {
	ID                      int64      `json:"id,omitempty"`
	ModelID                 string     `json:"modelId"`
	ServiceID               *string    `json:"serviceId,omitempty"`
	SlotStepMinutes         int        `json:"slotStepMinutes"`
	AdvanceBookingDays      int        `json:"advanceBookingDays"`
	MinBookingNoticeMinutes int        `json:"minBookingNoticeMinutes"`
	IsDefault               bool       `json:"isDefault"`
	CreatedAt               *time.Time `json:"createdAt,omitempty"`
	UpdatedAt               *time.Time `json:"updatedAt,omitempty"`
}

// SettingsListResponse ответ со списком настроек
type SettingsListResponse struct {
	Settings []SettingsResponse `json:"settings"`
}

// FromDomainSettings конвертирует domain модель в DTO
func FromDomainSettings(c *domain.ModelSlotsConfig) *SettingsResponse {
	if c == nil {
		return nil
	}

	resp := &SettingsResponse{
		ID:                      c.ID,
		ModelID:                 c.ModelID,
		ServiceID:               c.ServiceID,
		SlotStepMinutes:         c.SlotStepMinutes,
		AdvanceBookingDays:      c.AdvanceBookingDays,
		MinBookingNoticeMinutes: c.MinBookingNoticeMinutes,
		IsDefault:               c.ID == 0,
	}
	if !c.CreatedAt.IsZero() {
		resp.CreatedAt = &c.CreatedAt
	}
	if !c.UpdatedAt.IsZero() {
		resp.UpdatedAt = &c.UpdatedAt
	}

	return resp
}

// FromDomainSettingsList конвертирует список domain моделей в DTO
func FromDomainSettingsList(configs []*domain.ModelSlotsConfig) *SettingsListResponse {
	resp := &SettingsListResponse{
		Settings: make([]SettingsResponse, 0, len(configs)),
	}

	for _, cfg := range configs {
		if item := FromDomainSettings(cfg); item != nil {
			resp.Settings = append(resp.Settings, *item)
		}
	}

	return resp
}
