package wizard

import (
	"slices"

	"github.com/m04kA/SMC-BookingWizard/internal/domain"
)

// LocationOptions возвращает различные типы локаций всех услуг модели
// в порядке первого появления.
func LocationOptions(model *domain.BookableModel) []domain.LocationType {
	if model == nil {
		return nil
	}

	seen := make(map[domain.LocationType]struct{})
	options := make([]domain.LocationType, 0, len(domain.AllLocationTypes))
	for _, service := range model.Services {
		for _, location := range service.LocationTypes {
			if _, ok := seen[location]; ok {
				continue
			}
			seen[location] = struct{}{}
			options = append(options, location)
		}
	}
	return options
}

// HasMultipleLocations сообщает, что услуги модели вместе используют больше одного типа локации.
// Иначе шаг выбора локации пропускается.
func HasMultipleLocations(model *domain.BookableModel) bool {
	return len(LocationOptions(model)) > 1
}

// FilterServices возвращает услуги, доступные в location, сохраняя порядок.
// Пустая локация возвращает все услуги. Входной срез не изменяется.
func FilterServices(services []domain.BookableService, location domain.LocationType) []domain.BookableService {
	if location == "" {
		return slices.Clone(services)
	}

	filtered := make([]domain.BookableService, 0, len(services))
	for i := range services {
		if services[i].SupportsLocation(location) {
			filtered = append(filtered, services[i])
		}
	}
	return filtered
}

// CurrentModel выбранная модель из снимка каталога
func CurrentModel(m Machine) *domain.BookableModel {
	if m.Selection.ModelID == "" {
		return nil
	}
	return findModel(m.Catalog.Models, m.Selection.ModelID)
}

// CurrentService выбранная услуга выбранной модели
func CurrentService(m Machine) *domain.BookableService {
	model := CurrentModel(m)
	if model == nil || m.Selection.ServiceID == "" {
		return nil
	}
	return model.FindService(m.Selection.ServiceID)
}

// VisibleServices услуги, доступные для выбора при текущем выборе.
// Пока модель не выбрана или ждет выбора локации, список пуст.
func VisibleServices(m Machine) []domain.BookableService {
	model := CurrentModel(m)
	if model == nil {
		return nil
	}
	if m.Selection.Location == "" && HasMultipleLocations(model) {
		return nil
	}
	return FilterServices(model.Services, m.Selection.Location)
}

// CanGoBack сообщает, доступен ли шаг назад
func CanGoBack(m Machine) bool {
	_, err := backTarget(m)
	return err == nil
}

// SubmitEnabled сообщает, активна ли кнопка отправки
func SubmitEnabled(m Machine) bool {
	return m.State == StateEnterClientDetails
}

// CanRetry сообщает, можно ли повторить последний отклоненный запрос
func CanRetry(m Machine) bool {
	return m.State == StateEnterClientDetails &&
		m.Submission.Request != nil &&
		m.Submission.Rejection != nil
}

func findModel(models []domain.BookableModel, id string) *domain.BookableModel {
	for i := range models {
		if models[i].ID == id {
			return &models[i]
		}
	}
	return nil
}
