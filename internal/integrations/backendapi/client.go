package backendapi

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/m04kA/SMC-BookingWizard/internal/domain"
	"github.com/m04kA/SMC-BookingWizard/pkg/types"
)

const apiPrefix = "/api/v1"

// Сообщения для ответов без тела (прокси, балансировщик)
const (
	msgSlotUnavailable = "выбранное время уже занято, выберите другое"
	msgInvalidDetails  = "бэкенд отклонил данные бронирования, проверьте их"
	msgBackendError    = "сервис бронирования временно недоступен, попробуйте позже"
)

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}

// Client клиент удаленного бэкенда бронирований.
// Реализует каталог и расписание для мастера бронирования.
type Client struct {
	baseURL    string
	httpClient *http.Client
	log        Logger
}

// NewClient создает новый экземпляр клиента
func NewClient(baseURL string, timeout time.Duration, log Logger) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{
			Timeout: timeout,
		},
		log: log,
	}
}

// ListBookableModels получает каталог моделей
func (c *Client) ListBookableModels(ctx context.Context) ([]domain.BookableModel, error) {
	var body ModelListResponse
	status, err := c.do(ctx, http.MethodGet, apiPrefix+"/catalog/models", nil, &body)
	if err != nil {
		return nil, err
	}
	if status != http.StatusOK {
		return nil, fmt.Errorf("%w: unexpected status code %d", ErrInvalidResponse, status)
	}

	models := make([]domain.BookableModel, 0, len(body.Models))
	for _, m := range body.Models {
		model, err := m.toDomain()
		if err != nil {
			return nil, err
		}
		models = append(models, model)
	}
	return models, nil
}

// ResolveModelSlug получает ID модели по slug; неизвестный slug дает domain.ErrModelNotFound
func (c *Client) ResolveModelSlug(ctx context.Context, slug string) (string, error) {
	var body SlugResponse
	status, err := c.do(ctx, http.MethodGet, apiPrefix+"/catalog/models/by-slug/"+url.PathEscape(slug), nil, &body)
	if err != nil {
		return "", err
	}

	switch status {
	case http.StatusOK:
		return body.ModelID, nil
	case http.StatusNotFound, http.StatusBadRequest:
		return "", domain.ErrModelNotFound
	default:
		return "", fmt.Errorf("%w: unexpected status code %d", ErrInvalidResponse, status)
	}
}

// GetAvailableSlots получает слоты услуги на дату.
// Отказ бэкенда возвращается как *domain.Rejection.
func (c *Client) GetAvailableSlots(ctx context.Context, modelID, serviceID string, date time.Time) ([]domain.TimeSlot, error) {
	query := url.Values{}
	query.Set("serviceId", serviceID)
	query.Set("date", date.Format(domain.DateFormat))
	path := fmt.Sprintf("%s/models/%s/available-slots?%s", apiPrefix, url.PathEscape(modelID), query.Encode())

	var body SlotsResponse
	var errBody ErrorResponse
	status, err := c.doWithError(ctx, http.MethodGet, path, nil, &body, &errBody)
	if err != nil {
		return nil, err
	}
	if status != http.StatusOK {
		return nil, toRejection(status, errBody, domain.RejectionSlotUnavailable)
	}

	slots := make([]domain.TimeSlot, 0, len(body.Slots))
	for _, s := range body.Slots {
		start, err := types.NewTimeStringFromString(s.StartTime)
		if err != nil {
			return nil, fmt.Errorf("%w: slot start %q: %v", ErrInvalidResponse, s.StartTime, err)
		}
		slots = append(slots, domain.TimeSlot{
			StartTime:       start,
			DurationMinutes: s.DurationMinutes,
			Available:       s.Available,
		})
	}
	return slots, nil
}

// SubmitBooking создает бронирование. Отказ бэкенда возвращается как *domain.Rejection.
func (c *Client) SubmitBooking(ctx context.Context, req domain.BookingRequest) (*domain.BookingConfirmation, error) {
	payload := CreateBookingRequest{
		ModelID:          req.ModelID,
		ServiceID:        req.ServiceID,
		AppointmentDate:  req.AppointmentDate.Format(domain.DateFormat),
		AppointmentTime:  req.AppointmentTime.String(),
		SelectedLocation: string(req.SelectedLocation),
		ClientData: ClientData{
			Name:    req.ClientData.Name,
			Contact: req.ClientData.Contact,
			Address: req.ClientData.Address,
		},
	}

	var body BookingResponse
	var errBody ErrorResponse
	status, err := c.doWithError(ctx, http.MethodPost, apiPrefix+"/bookings", payload, &body, &errBody)
	if err != nil {
		return nil, err
	}

	switch status {
	case http.StatusCreated, http.StatusOK:
		return body.toDomain()
	case http.StatusConflict:
		return nil, toRejection(status, errBody, domain.RejectionSlotUnavailable)
	case http.StatusBadRequest, http.StatusUnprocessableEntity:
		return nil, toRejection(status, errBody, domain.RejectionInvalidDetails)
	default:
		return nil, toRejection(status, errBody, domain.RejectionBackendError)
	}
}

func (c *Client) do(ctx context.Context, method, path string, payload, out interface{}) (int, error) {
	return c.doWithError(ctx, method, path, payload, out, nil)
}

// doWithError выполняет запрос; тело 2xx декодируется в out, иначе в errOut
func (c *Client) doWithError(ctx context.Context, method, path string, payload, out interface{}, errOut *ErrorResponse) (int, error) {
	var reqBody io.Reader
	if payload != nil {
		data, err := json.Marshal(payload)
		if err != nil {
			return 0, fmt.Errorf("%w: failed to encode request: %v", ErrInternal, err)
		}
		reqBody = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reqBody)
	if err != nil {
		return 0, fmt.Errorf("%w: failed to create request: %v", ErrInternal, err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.log.Error("backendapi: %s %s failed: %v", method, path, err)
		return 0, fmt.Errorf("%w: failed to execute request: %v", ErrUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return resp.StatusCode, fmt.Errorf("%w: failed to decode response: %v", ErrInvalidResponse, err)
		}
		return resp.StatusCode, nil
	}

	raw, _ := io.ReadAll(io.LimitReader(resp.Body, 64<<10))
	c.log.Warn("backendapi: %s %s returned %d: %s", method, path, resp.StatusCode, string(raw))
	if errOut != nil {
		// тело ошибки может быть не JSON (прокси, балансировщик)
		_ = json.Unmarshal(raw, errOut)
	}
	return resp.StatusCode, nil
}

// toRejection строит отказ из ответа; 5xx всегда считается ошибкой бэкенда
func toRejection(status int, body ErrorResponse, fallback domain.RejectionCode) *domain.Rejection {
	code := domain.RejectionCode(body.Code)
	switch code {
	case domain.RejectionSlotUnavailable, domain.RejectionInvalidDetails, domain.RejectionBackendError:
	default:
		code = fallback
	}
	if status >= http.StatusInternalServerError {
		code = domain.RejectionBackendError
	}

	message := body.Message
	if message == "" {
		message = defaultMessage(code)
	}
	return &domain.Rejection{Code: code, Message: message, Fields: body.Fields}
}

func defaultMessage(code domain.RejectionCode) string {
	switch code {
	case domain.RejectionSlotUnavailable:
		return msgSlotUnavailable
	case domain.RejectionInvalidDetails:
		return msgInvalidDetails
	default:
		return msgBackendError
	}
}

func (m Model) toDomain() (domain.BookableModel, error) {
	model := domain.BookableModel{
		ID:           m.ID,
		Slug:         m.Slug,
		Name:         m.Name,
		Description:  m.Description,
		City:         m.City,
		Neighborhood: m.Neighborhood,
		Services:     make([]domain.BookableService, 0, len(m.Services)),
	}

	for _, s := range m.Services {
		locations := make([]domain.LocationType, 0, len(s.LocationTypes))
		for _, raw := range s.LocationTypes {
			location, err := domain.ParseLocationType(raw)
			if err != nil {
				return domain.BookableModel{}, fmt.Errorf("%w: model %s service %s: %v", ErrInvalidResponse, m.ID, s.ID, err)
			}
			locations = append(locations, location)
		}
		model.Services = append(model.Services, domain.BookableService{
			ID:              s.ID,
			Name:            s.Name,
			Description:     s.Description,
			Price:           s.Price,
			DurationMinutes: s.DurationMinutes,
			LocationTypes:   locations,
		})
	}

	return model, nil
}

func (b BookingResponse) toDomain() (*domain.BookingConfirmation, error) {
	date, err := time.Parse(domain.DateFormat, b.AppointmentDate)
	if err != nil {
		return nil, fmt.Errorf("%w: appointment date %q: %v", ErrInvalidResponse, b.AppointmentDate, err)
	}
	start, err := types.NewTimeStringFromString(b.AppointmentTime)
	if err != nil {
		return nil, fmt.Errorf("%w: appointment time %q: %v", ErrInvalidResponse, b.AppointmentTime, err)
	}

	return &domain.BookingConfirmation{
		BookingID:        b.BookingID,
		ModelID:          b.ModelID,
		ServiceID:        b.ServiceID,
		AppointmentDate:  date,
		AppointmentTime:  start,
		SelectedLocation: domain.LocationType(b.SelectedLocation),
		DurationMinutes:  b.DurationMinutes,
		ServiceName:      b.ServiceName,
		ServicePrice:     b.ServicePrice,
		Status:           domain.BookingStatus(b.Status),
		CreatedAt:        b.CreatedAt,
	}, nil
}
