package list_models

import "github.com/m04kA/SMC-BookingWizard/internal/domain"

// ModelListResponse HTTP response model
type ModelListResponse struct {
	Models []ModelResponse `json:"models"`
}

// ModelResponse модель каталога с активными услугами
type ModelResponse struct {
	ID           string            `json:"id"`
	Slug         string            `json:"slug"`
	Name         string            `json:"name"`
	Description  string            `json:"description"`
	City         string            `json:"city"`
	Neighborhood string            `json:"neighborhood"`
	Services     []ServiceResponse `json:"services"`
}

// ServiceResponse услуга модели
type ServiceResponse struct {
	ID              string   `json:"id"`
	Name            string   `json:"name"`
	Description     string   `json:"description"`
	Price           float64  `json:"price"`
	DurationMinutes int      `json:"durationMinutes"`
	LocationTypes   []string `json:"locationTypes"`
}

// FromDomain конвертирует каталог в HTTP response
func FromDomain(models []domain.BookableModel) *ModelListResponse {
	resp := &ModelListResponse{Models: make([]ModelResponse, 0, len(models))}
	for _, m := range models {
		model := ModelResponse{
			ID:           m.ID,
			Slug:         m.Slug,
			Name:         m.Name,
			Description:  m.Description,
			City:         m.City,
			Neighborhood: m.Neighborhood,
			Services:     make([]ServiceResponse, 0, len(m.Services)),
		}
		for _, s := range m.Services {
			locations := make([]string, 0, len(s.LocationTypes))
			for _, l := range s.LocationTypes {
				locations = append(locations, string(l))
			}
			model.Services = append(model.Services, ServiceResponse{
				ID:              s.ID,
				Name:            s.Name,
				Description:     s.Description,
				Price:           s.Price,
				DurationMinutes: s.DurationMinutes,
				LocationTypes:   locations,
			})
		}
		resp.Models = append(resp.Models, model)
	}
	return resp
}
