package models

import (
	"time"

	"github.com/m04kA/SMC-BookingWizard/internal/domain"
	"github.com/m04kA/SMC-BookingWizard/internal/wizard"
)

// Event types accepted by Apply
const (
	EventSelectModel    = "select_model"
	EventSelectLocation = "select_location"
	EventSelectService  = "select_service"
	EventSelectDateTime = "select_datetime"
	EventBack           = "back"
)

// Request модели

// StartRequest запрос на создание сессии мастера.
// ModelID или ModelSlug открывают мастер с предвыбранной моделью.
type StartRequest struct {
	ModelID   string `json:"modelId,omitempty"`
	ModelSlug string `json:"modelSlug,omitempty"`
}

// EventRequest пользовательское действие в мастере
type EventRequest struct {
	Type      string `json:"type"`
	ModelID   string `json:"modelId,omitempty"`
	Location  string `json:"location,omitempty"`
	ServiceID string `json:"serviceId,omitempty"`
	Date      string `json:"date,omitempty"` // "2025-10-15"
	Time      string `json:"time,omitempty"` // "10:00"
}

// ClientDetailsRequest данные клиента для отправки бронирования
type ClientDetailsRequest struct {
	Name    string `json:"name"`
	Contact string `json:"contact"`
	Address string `json:"address,omitempty"`
}

// ToDomain конвертирует данные клиента в domain модель
func (r ClientDetailsRequest) ToDomain() domain.ClientDetails {
	return domain.ClientDetails{Name: r.Name, Contact: r.Contact, Address: r.Address}
}

// Response модели

// SessionView полное представление шага мастера для клиента
type SessionView struct {
	SessionID       string            `json:"sessionId"`
	Version         int64             `json:"version"`
	State           string            `json:"state"`
	Preselected     bool              `json:"preselected"`
	Catalog         CatalogView       `json:"catalog"`
	Selection       SelectionView     `json:"selection"`
	LocationOptions []string          `json:"locationOptions"`
	Services        []ServiceView     `json:"services"`
	Slots           SlotsView         `json:"slots"`
	FieldErrors     map[string]string `json:"fieldErrors,omitempty"`
	Rejection       *RejectionView    `json:"rejection,omitempty"`
	Confirmation    *ConfirmationView `json:"confirmation,omitempty"`
	CanGoBack       bool              `json:"canGoBack"`
	SubmitEnabled   bool              `json:"submitEnabled"`
	CanRetry        bool              `json:"canRetry"`
	ExpiresAt       time.Time         `json:"expiresAt"`
}

// CatalogView состояние загрузки каталога
type CatalogView struct {
	Status string      `json:"status"`
	Models []ModelView `json:"models"`
	Error  string      `json:"error,omitempty"`
}

// ModelView модель в каталоге
type ModelView struct {
	ID           string `json:"id"`
	Slug         string `json:"slug"`
	Name         string `json:"name"`
	Description  string `json:"description,omitempty"`
	City         string `json:"city,omitempty"`
	Neighborhood string `json:"neighborhood,omitempty"`
	ServiceCount int    `json:"serviceCount"`
}

// ServiceView услуга, доступная для выбора
type ServiceView struct {
	ID              string   `json:"id"`
	Name            string   `json:"name"`
	Description     string   `json:"description,omitempty"`
	Price           float64  `json:"price"`
	DurationMinutes int      `json:"durationMinutes"`
	LocationTypes   []string `json:"locationTypes"`
}

// SelectionView сделанный пользователем выбор
type SelectionView struct {
	ModelID       string            `json:"modelId,omitempty"`
	ModelName     string            `json:"modelName,omitempty"`
	Location      string            `json:"location,omitempty"`
	ServiceID     string            `json:"serviceId,omitempty"`
	ServiceName   string            `json:"serviceName,omitempty"`
	Date          string            `json:"date,omitempty"`
	Time          string            `json:"time,omitempty"`
	ClientDetails ClientDetailsView `json:"clientDetails"`
}

// ClientDetailsView введенные данные клиента
type ClientDetailsView struct {
	Name    string `json:"name"`
	Contact string `json:"contact"`
	Address string `json:"address,omitempty"`
}

// SlotsView результат загрузки слотов
type SlotsView struct {
	Status    string         `json:"status"`
	Date      string         `json:"date,omitempty"`
	Items     []SlotView     `json:"items"`
	Rejection *RejectionView `json:"rejection,omitempty"`
}

// SlotView временной слот
type SlotView struct {
	StartTime       string `json:"startTime"` // "10:00"
	DurationMinutes int    `json:"durationMinutes"`
	Available       bool   `json:"available"`
}

// RejectionView структурированный отказ бэкенда
type RejectionView struct {
	Code    string            `json:"code"`
	Message string            `json:"message"`
	Fields  map[string]string `json:"fields,omitempty"`
}

// ConfirmationView подтверждение бронирования
type ConfirmationView struct {
	BookingID        int64     `json:"bookingId"`
	ModelID          string    `json:"modelId"`
	ServiceID        string    `json:"serviceId"`
	ServiceName      string    `json:"serviceName"`
	ServicePrice     float64   `json:"servicePrice"`
	AppointmentDate  string    `json:"appointmentDate"`
	AppointmentTime  string    `json:"appointmentTime"`
	SelectedLocation string    `json:"selectedLocation"`
	DurationMinutes  int       `json:"durationMinutes"`
	Status           string    `json:"status"`
	CreatedAt        time.Time `json:"createdAt"`
}

// FromSession строит представление сессии
func FromSession(s *wizard.Session) *SessionView {
	m := s.Machine

	view := &SessionView{
		SessionID:       s.ID,
		Version:         s.Version,
		State:           string(m.State),
		Preselected:     m.IsPreselected(),
		Catalog:         fromCatalog(m.Catalog),
		Selection:       fromSelection(m),
		LocationOptions: make([]string, 0),
		Services:        make([]ServiceView, 0),
		Slots:           fromSlots(m.Slots),
		FieldErrors:     m.Submission.FieldErrors,
		Rejection:       FromRejection(m.Submission.Rejection),
		Confirmation:    FromConfirmation(m.Submission.Confirmation),
		CanGoBack:       wizard.CanGoBack(m),
		SubmitEnabled:   wizard.SubmitEnabled(m),
		CanRetry:        wizard.CanRetry(m),
		ExpiresAt:       s.ExpiresAt,
	}

	for _, l := range wizard.LocationOptions(wizard.CurrentModel(m)) {
		view.LocationOptions = append(view.LocationOptions, string(l))
	}
	for _, svc := range wizard.VisibleServices(m) {
		view.Services = append(view.Services, fromService(svc))
	}

	return view
}

func fromCatalog(c wizard.Catalog) CatalogView {
	view := CatalogView{
		Status: string(c.Status),
		Models: make([]ModelView, 0, len(c.Models)),
		Error:  c.Error,
	}
	for _, model := range c.Models {
		view.Models = append(view.Models, ModelView{
			ID:           model.ID,
			Slug:         model.Slug,
			Name:         model.Name,
			Description:  model.Description,
			City:         model.City,
			Neighborhood: model.Neighborhood,
			ServiceCount: len(model.Services),
		})
	}
	return view
}

func fromSelection(m wizard.Machine) SelectionView {
	sel := m.Selection
	view := SelectionView{
		ModelID:   sel.ModelID,
		Location:  string(sel.Location),
		ServiceID: sel.ServiceID,
		Date:      sel.Date,
		Time:      sel.Time,
		ClientDetails: ClientDetailsView{
			Name:    sel.ClientDetails.Name,
			Contact: sel.ClientDetails.Contact,
			Address: sel.ClientDetails.Address,
		},
	}
	if model := wizard.CurrentModel(m); model != nil {
		view.ModelName = model.Name
	}
	if svc := wizard.CurrentService(m); svc != nil {
		view.ServiceName = svc.Name
	}
	return view
}

func fromService(s domain.BookableService) ServiceView {
	locations := make([]string, 0, len(s.LocationTypes))
	for _, l := range s.LocationTypes {
		locations = append(locations, string(l))
	}
	return ServiceView{
		ID:              s.ID,
		Name:            s.Name,
		Description:     s.Description,
		Price:           s.Price,
		DurationMinutes: s.DurationMinutes,
		LocationTypes:   locations,
	}
}

func fromSlots(s wizard.Slots) SlotsView {
	view := SlotsView{
		Status:    string(s.Status),
		Date:      s.Key.Date,
		Items:     make([]SlotView, 0, len(s.Items)),
		Rejection: FromRejection(s.Rejection),
	}
	for _, slot := range s.Items {
		view.Items = append(view.Items, SlotView{
			StartTime:       slot.StartTime.String(),
			DurationMinutes: slot.DurationMinutes,
			Available:       slot.Available,
		})
	}
	return view
}

// FromRejection конвертирует отказ бэкенда
func FromRejection(r *domain.Rejection) *RejectionView {
	if r == nil {
		return nil
	}
	return &RejectionView{Code: string(r.Code), Message: r.Message, Fields: r.Fields}
}

// FromConfirmation конвертирует подтверждение бронирования
func FromConfirmation(c *domain.BookingConfirmation) *ConfirmationView {
	if c == nil {
		return nil
	}
	return &ConfirmationView{
		BookingID:        c.BookingID,
		ModelID:          c.ModelID,
		ServiceID:        c.ServiceID,
		ServiceName:      c.ServiceName,
		ServicePrice:     c.ServicePrice,
		AppointmentDate:  c.AppointmentDate.Format(domain.DateFormat),
		AppointmentTime:  c.AppointmentTime.String(),
		SelectedLocation: string(c.SelectedLocation),
		DurationMinutes:  c.DurationMinutes,
		Status:           string(c.Status),
		CreatedAt:        c.CreatedAt,
	}
}
