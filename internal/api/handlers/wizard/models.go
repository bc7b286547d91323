package wizard

import (
	"github.com/m04kA/SMC-BookingWizard/internal/service/wizard/models"
)

// ValidationErrorResponse ответ на невалидные данные клиента: ошибки полей и состояние сессии
type ValidationErrorResponse struct {
	Code    string              `json:"code"`
	Message string              `json:"message"`
	Fields  map[string]string   `json:"fields"`
	Session *models.SessionView `json:"session"`
}
