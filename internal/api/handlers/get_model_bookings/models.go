package get_model_bookings

import (
	"fmt"
	"strconv"
	"time"

	"github.com/m04kA/SMC-BookingWizard/internal/domain"
	"github.com/m04kA/SMC-BookingWizard/internal/service/bookings/models"
)

// QueryParams необязательные параметры фильтрации
type QueryParams struct {
	Date            string // одна дата, взаимоисключающая с периодом
	StartDate       string
	EndDate         string
	Status          string
	IncludeInactive string
}

// ToServiceRequest формирует запрос к сервису из query параметров
func ToServiceRequest(modelID string, userID int64, q QueryParams) (*models.GetModelBookingsRequest, error) {
	req := &models.GetModelBookingsRequest{
		UserID:          userID,
		ModelID:         modelID,
		IncludeInactive: false, // По умолчанию только активные
	}

	if q.Date != "" {
		if q.StartDate != "" || q.EndDate != "" {
			return nil, fmt.Errorf("date cannot be combined with startDate/endDate")
		}
		date, err := time.Parse(domain.DateFormat, q.Date)
		if err != nil {
			return nil, err
		}
		req.StartDate = &date
		req.EndDate = &date
	}

	if q.StartDate != "" {
		start, err := time.Parse(domain.DateFormat, q.StartDate)
		if err != nil {
			return nil, err
		}
		req.StartDate = &start
	}

	if q.EndDate != "" {
		end, err := time.Parse(domain.DateFormat, q.EndDate)
		if err != nil {
			return nil, err
		}
		req.EndDate = &end
	}

	if q.Status != "" {
		req.Status = &q.Status
	}

	if q.IncludeInactive != "" {
		includeInactive, err := strconv.ParseBool(q.IncludeInactive)
		if err != nil {
			return nil, fmt.Errorf("invalid includeInactive value: %w", err)
		}
		req.IncludeInactive = includeInactive
	}

	return req, nil
}
