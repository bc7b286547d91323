package get_model_settings

import (
	"strings"

	"github.com/m04kA/SMC-BookingWizard/internal/service/settings/models"
)

// ToServiceRequest формирует запрос к сервису из URL и query параметров
func ToServiceRequest(modelID string, serviceIDStr string) *models.GetSettingsRequest {
	req := &models.GetSettingsRequest{
		ModelID:   modelID,
		ServiceID: nil, // nil означает общие настройки модели
	}

	if serviceID := strings.TrimSpace(serviceIDStr); serviceID != "" {
		req.ServiceID = &serviceID
	}

	return req
}
