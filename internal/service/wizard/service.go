package wizard

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/m04kA/SMC-BookingWizard/internal/domain"
	"github.com/m04kA/SMC-BookingWizard/internal/infra/sessions"
	"github.com/m04kA/SMC-BookingWizard/internal/service/wizard/models"
	fsm "github.com/m04kA/SMC-BookingWizard/internal/wizard"
)

const (
	// DefaultSessionTTL время жизни сессии без активности
	DefaultSessionTTL = 30 * time.Minute

	// DefaultSubmitTimeout время, после которого отправка без ответа считается неудачной
	DefaultSubmitTimeout = time.Minute

	// maxSaveAttempts количество попыток сохранить сессию при конфликте версий
	maxSaveAttempts = 3

	outcomeConfirmed = "confirmed"

	msgCatalogUnavailable = "не удалось загрузить каталог моделей, попробуйте еще раз"
)

// Service управляет сессиями мастера бронирования.
// Переходы выполняет чистая машина состояний, сервис отвечает за вызовы провайдеров и хранение.
type Service struct {
	catalog       CatalogProvider
	scheduling    SchedulingProvider
	store         SessionStore
	metrics       MetricsRecorder
	logger        Logger
	timeProvider  TimeProvider
	sessionTTL    time.Duration
	submitTimeout time.Duration
}

// NewService создает новый экземпляр сервиса мастера.
// metrics и timeProvider могут быть nil, нулевые длительности заменяются значениями по умолчанию.
func NewService(
	catalog CatalogProvider,
	scheduling SchedulingProvider,
	store SessionStore,
	metrics MetricsRecorder,
	logger Logger,
	timeProvider TimeProvider,
	sessionTTL time.Duration,
	submitTimeout time.Duration,
) *Service {
	if metrics == nil {
		metrics = noopRecorder{}
	}
	if timeProvider == nil {
		timeProvider = RealTimeProvider{}
	}
	if sessionTTL <= 0 {
		sessionTTL = DefaultSessionTTL
	}
	if submitTimeout <= 0 {
		submitTimeout = DefaultSubmitTimeout
	}
	return &Service{
		catalog:       catalog,
		scheduling:    scheduling,
		store:         store,
		metrics:       metrics,
		logger:        logger,
		timeProvider:  timeProvider,
		sessionTTL:    sessionTTL,
		submitTimeout: submitTimeout,
	}
}

// Start создает сессию мастера и сразу загружает каталог.
// Ссылка по slug разрешается через каталог; неизвестный slug дает ErrModelNotFound.
func (s *Service) Start(ctx context.Context, req models.StartRequest) (*models.SessionView, error) {
	s.logger.Info("Start: creating wizard session, modelId=%q, modelSlug=%q", req.ModelID, req.ModelSlug)

	preselected := req.ModelID
	if preselected == "" && req.ModelSlug != "" {
		modelID, err := s.catalog.ResolveModelSlug(ctx, req.ModelSlug)
		if err != nil {
			if errors.Is(err, domain.ErrModelNotFound) {
				s.logger.Warn("Start: model slug=%q not found", req.ModelSlug)
				return nil, ErrModelNotFound
			}
			s.logger.Error("Start: failed to resolve slug=%q: %v", req.ModelSlug, err)
			return nil, fmt.Errorf("%w: Start - resolve slug: %v", ErrInternal, err)
		}
		preselected = modelID
	}

	m, err := s.transition(fsm.New(preselected), fsm.CatalogRequested{})
	if err != nil {
		return nil, fmt.Errorf("%w: Start - request catalog: %v", ErrInternal, err)
	}

	m, err = s.transition(m, s.fetchCatalog(ctx, m.Catalog.Seq))
	if err != nil {
		return nil, fmt.Errorf("%w: Start - apply catalog: %v", ErrInternal, err)
	}
	if preselected != "" && m.Catalog.Status == fsm.LoadLoaded && !m.IsPreselected() {
		s.logger.Warn("Start: preselected model=%s is not bookable, falling back to model selection", preselected)
	}

	now := s.timeProvider.Now()
	session := &fsm.Session{
		ID:        uuid.NewString(),
		Version:   1,
		Machine:   m,
		CreatedAt: now,
		UpdatedAt: now,
		ExpiresAt: now.Add(s.sessionTTL),
	}
	if err := s.store.Create(ctx, session); err != nil {
		s.logger.Error("Start: failed to store session: %v", err)
		return nil, fmt.Errorf("%w: Start - store session: %v", ErrInternal, err)
	}
	s.metrics.RecordSessionStarted()

	s.logger.Info("Start: session=%s created, state=%s", session.ID, m.State)
	return models.FromSession(session), nil
}

// Get возвращает текущее состояние сессии.
// Зависшая отправка при этом переводится в неудачную и сохраняется.
func (s *Service) Get(ctx context.Context, sessionID string) (*models.SessionView, error) {
	session, err := s.load(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if !s.stalled(session) {
		return models.FromSession(session), nil
	}

	session, err = s.mutate(ctx, sessionID, func(m fsm.Machine) (fsm.Machine, error) {
		return m, nil
	})
	if err != nil {
		return nil, err
	}
	return models.FromSession(session), nil
}

// Apply применяет действие пользователя: выбор модели, локации, услуги, даты и времени или шаг назад
func (s *Service) Apply(ctx context.Context, sessionID string, req models.EventRequest) (*models.SessionView, error) {
	ev, err := toEvent(req)
	if err != nil {
		s.logger.Warn("Apply: session=%s invalid event: %v", sessionID, err)
		return nil, err
	}

	session, err := s.mutate(ctx, sessionID, func(m fsm.Machine) (fsm.Machine, error) {
		return s.transition(m, ev)
	})
	if err != nil {
		s.logger.Warn("Apply: session=%s event=%s rejected: %v", sessionID, ev.Name(), err)
		return nil, err
	}

	s.logger.Info("Apply: session=%s event=%s, state=%s", sessionID, ev.Name(), session.Machine.State)
	return models.FromSession(session), nil
}

// ReloadCatalog повторно загружает каталог после ошибки.
// Результат более раннего запроса, пришедший позже, отбрасывается.
func (s *Service) ReloadCatalog(ctx context.Context, sessionID string) (*models.SessionView, error) {
	session, err := s.mutate(ctx, sessionID, func(m fsm.Machine) (fsm.Machine, error) {
		return s.transition(m, fsm.CatalogRequested{})
	})
	if err != nil {
		s.logger.Warn("ReloadCatalog: session=%s: %v", sessionID, err)
		return nil, err
	}

	result := s.fetchCatalog(ctx, session.Machine.Catalog.Seq)

	session, err = s.mutate(ctx, sessionID, func(m fsm.Machine) (fsm.Machine, error) {
		return s.transition(m, result)
	})
	return s.settle(ctx, "ReloadCatalog", sessionID, session, err)
}

// LoadSlots запоминает дату и загружает слоты для выбранных модели и услуги.
// Ответ применяется, только если выбор не изменился за время запроса.
func (s *Service) LoadSlots(ctx context.Context, sessionID, date string) (*models.SessionView, error) {
	session, err := s.mutate(ctx, sessionID, func(m fsm.Machine) (fsm.Machine, error) {
		return s.transition(m, fsm.SlotsRequested{Date: date})
	})
	if err != nil {
		s.logger.Warn("LoadSlots: session=%s date=%s: %v", sessionID, date, err)
		return nil, err
	}

	key := session.Machine.Slots.Key
	day, err := time.Parse(domain.DateFormat, key.Date)
	if err != nil {
		return nil, fmt.Errorf("%w: LoadSlots - parse date: %v", ErrInternal, err)
	}

	var result fsm.Event
	slots, err := s.scheduling.GetAvailableSlots(ctx, key.ModelID, key.ServiceID, day)
	if err != nil {
		s.logger.Warn("LoadSlots: session=%s provider failed for model=%s service=%s date=%s: %v",
			sessionID, key.ModelID, key.ServiceID, key.Date, err)
		result = fsm.SlotsFailed{Key: key, Rejection: domain.AsRejection(err)}
	} else {
		result = fsm.SlotsLoaded{Key: key, Slots: slots}
	}

	session, err = s.mutate(ctx, sessionID, func(m fsm.Machine) (fsm.Machine, error) {
		return s.transition(m, result)
	})
	return s.settle(ctx, "LoadSlots", sessionID, session, err)
}

// Submit проверяет данные клиента и отправляет бронирование.
// Невалидные данные возвращают представление с ошибками полей вместе с *fsm.ValidationError.
func (s *Service) Submit(ctx context.Context, sessionID string, details domain.ClientDetails) (*models.SessionView, error) {
	session, err := s.mutate(ctx, sessionID, func(m fsm.Machine) (fsm.Machine, error) {
		return s.transition(m, fsm.Submit{Details: details})
	})
	if err != nil {
		var vErr *fsm.ValidationError
		if errors.As(err, &vErr) && session != nil {
			s.logger.Warn("Submit: session=%s invalid client details: %v", sessionID, err)
			return models.FromSession(session), err
		}
		s.logger.Warn("Submit: session=%s: %v", sessionID, err)
		return nil, err
	}

	return s.dispatch(ctx, "Submit", session)
}

// Retry повторно отправляет последний отклоненный запрос без изменений
func (s *Service) Retry(ctx context.Context, sessionID string) (*models.SessionView, error) {
	session, err := s.mutate(ctx, sessionID, func(m fsm.Machine) (fsm.Machine, error) {
		return s.transition(m, fsm.Retry{})
	})
	if err != nil {
		s.logger.Warn("Retry: session=%s: %v", sessionID, err)
		return nil, err
	}

	return s.dispatch(ctx, "Retry", session)
}

// dispatch отправляет запрос сессии в состоянии submitting и применяет ответ бэкенда
func (s *Service) dispatch(ctx context.Context, op string, session *fsm.Session) (*models.SessionView, error) {
	req := session.Machine.Submission.Request
	if req == nil {
		return nil, fmt.Errorf("%w: %s - no request to send", ErrInternal, op)
	}

	s.logger.Info("%s: session=%s sending booking model=%s service=%s date=%s time=%s location=%s",
		op, session.ID, req.ModelID, req.ServiceID,
		req.AppointmentDate.Format(domain.DateFormat), req.AppointmentTime, req.SelectedLocation)

	var result fsm.Event
	confirmation, err := s.scheduling.SubmitBooking(ctx, *req)
	if err != nil {
		rejection := domain.AsRejection(err)
		s.logger.Warn("%s: session=%s booking rejected, code=%s: %v", op, session.ID, rejection.Code, err)
		s.metrics.RecordSubmission(string(rejection.Code))
		result = fsm.SubmissionFailed{Rejection: rejection}
	} else {
		s.logger.Info("%s: session=%s booking confirmed, booking_id=%d", op, session.ID, confirmation.BookingID)
		s.metrics.RecordSubmission(outcomeConfirmed)
		result = fsm.SubmissionSucceeded{Confirmation: confirmation}
	}

	// исход сохраняется, даже если клиент уже отключился
	updated, err := s.update(context.WithoutCancel(ctx), session.ID, false, func(m fsm.Machine) (fsm.Machine, error) {
		return s.transition(m, result)
	})
	if err != nil {
		s.logger.Error("%s: session=%s failed to record submission outcome: %v", op, session.ID, err)
		return nil, err
	}
	return models.FromSession(updated), nil
}

// settle завершает асинхронную операцию: устаревший результат не является ошибкой для клиента
func (s *Service) settle(ctx context.Context, op, sessionID string, session *fsm.Session, err error) (*models.SessionView, error) {
	if err == nil {
		return models.FromSession(session), nil
	}
	if errors.Is(err, fsm.ErrStaleResult) {
		s.logger.Info("%s: session=%s result discarded as stale", op, sessionID)
		return s.Get(ctx, sessionID)
	}
	s.logger.Warn("%s: session=%s: %v", op, sessionID, err)
	return nil, err
}

// fetchCatalog загружает каталог и превращает результат в событие машины
func (s *Service) fetchCatalog(ctx context.Context, seq uint64) fsm.Event {
	catalog, err := s.catalog.ListBookableModels(ctx)
	if err != nil {
		s.logger.Error("fetchCatalog: failed to load catalog: %v", err)
		return fsm.CatalogFailed{Seq: seq, Reason: msgCatalogUnavailable}
	}
	return fsm.CatalogLoaded{Seq: seq, Models: catalog}
}

// transition применяет событие и записывает метрику перехода
func (s *Service) transition(m fsm.Machine, ev fsm.Event) (fsm.Machine, error) {
	from := m.State
	next, err := fsm.Transition(m, ev)
	s.metrics.RecordTransition(ev.Name(), string(from), err)
	return next, err
}

// mutate читает сессию, применяет fn и сохраняет результат с проверкой версии.
// При конфликте версий операция повторяется на свежей копии; fn не должна иметь побочных эффектов.
// Ошибка валидации данных клиента сохраняется вместе с сессией и возвращается вызывающему.
func (s *Service) mutate(ctx context.Context, sessionID string, fn func(fsm.Machine) (fsm.Machine, error)) (*fsm.Session, error) {
	return s.update(ctx, sessionID, true, fn)
}

// update реализует mutate. healStalled=false используется для записи ответа бэкенда:
// запоздавший ответ применяется к submitting как есть, без перевода в неудачную отправку.
func (s *Service) update(ctx context.Context, sessionID string, healStalled bool, fn func(fsm.Machine) (fsm.Machine, error)) (*fsm.Session, error) {
	for attempt := 1; attempt <= maxSaveAttempts; attempt++ {
		session, err := s.load(ctx, sessionID)
		if err != nil {
			return nil, err
		}
		if healStalled {
			s.recoverStalled(session)
		}

		next, fnErr := fn(session.Machine)
		var vErr *fsm.ValidationError
		if fnErr != nil && !errors.As(fnErr, &vErr) {
			return session, fnErr
		}

		now := s.timeProvider.Now()
		session.Machine = next
		session.UpdatedAt = now
		session.ExpiresAt = now.Add(s.sessionTTL)

		err = s.store.Save(ctx, session)
		switch {
		case err == nil:
			return session, fnErr
		case errors.Is(err, sessions.ErrVersionConflict):
			s.logger.Warn("mutate: session=%s version conflict, attempt %d/%d", sessionID, attempt, maxSaveAttempts)
			continue
		case errors.Is(err, sessions.ErrSessionNotFound):
			return nil, ErrSessionNotFound
		default:
			s.logger.Error("mutate: session=%s failed to save: %v", sessionID, err)
			return nil, fmt.Errorf("%w: save session: %v", ErrInternal, err)
		}
	}
	return nil, ErrConcurrentUpdate
}

// stalled сообщает, что сессия ждет ответа бэкенда дольше submitTimeout.
// Пока сессия в submitting, ее никто не сохраняет, поэтому UpdatedAt равен моменту отправки.
func (s *Service) stalled(session *fsm.Session) bool {
	return session.Machine.State == fsm.StateSubmitting &&
		!s.timeProvider.Now().Before(session.UpdatedAt.Add(s.submitTimeout))
}

// recoverStalled возвращает зависшую отправку в enter_client_details с отказом backend_error,
// чтобы клиент мог повторить отправку или вернуться назад
func (s *Service) recoverStalled(session *fsm.Session) {
	if !s.stalled(session) {
		return
	}
	m, err := s.transition(session.Machine, fsm.SubmissionFailed{
		Rejection: domain.AsRejection(domain.ErrBackendUnavailable),
	})
	if err != nil {
		s.logger.Error("recoverStalled: session=%s: %v", session.ID, err)
		return
	}
	s.logger.Warn("recoverStalled: session=%s submission got no answer since %s, marked as failed",
		session.ID, session.UpdatedAt.Format(time.RFC3339))
	s.metrics.RecordSubmission(string(domain.RejectionBackendError))
	session.Machine = m
}

func (s *Service) load(ctx context.Context, sessionID string) (*fsm.Session, error) {
	session, err := s.store.Get(ctx, sessionID)
	if err != nil {
		if errors.Is(err, sessions.ErrSessionNotFound) {
			return nil, ErrSessionNotFound
		}
		s.logger.Error("load: session=%s storage error: %v", sessionID, err)
		return nil, fmt.Errorf("%w: load session: %v", ErrInternal, err)
	}
	if session.IsExpired(s.timeProvider.Now()) {
		if err := s.store.Delete(ctx, sessionID); err != nil {
			s.logger.Warn("load: session=%s failed to drop expired session: %v", sessionID, err)
		}
		return nil, ErrSessionNotFound
	}
	return session, nil
}

// toEvent конвертирует запрос клиента в событие машины
func toEvent(req models.EventRequest) (fsm.Event, error) {
	switch req.Type {
	case models.EventSelectModel:
		if req.ModelID == "" {
			return nil, fmt.Errorf("%w: modelId is required", ErrInvalidInput)
		}
		return fsm.SelectModel{ModelID: req.ModelID}, nil
	case models.EventSelectLocation:
		location, err := domain.ParseLocationType(req.Location)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
		}
		return fsm.SelectLocation{Location: location}, nil
	case models.EventSelectService:
		if req.ServiceID == "" {
			return nil, fmt.Errorf("%w: serviceId is required", ErrInvalidInput)
		}
		return fsm.SelectService{ServiceID: req.ServiceID}, nil
	case models.EventSelectDateTime:
		return fsm.SelectDateTime{Date: req.Date, Time: req.Time}, nil
	case models.EventBack:
		return fsm.Back{}, nil
	default:
		return nil, fmt.Errorf("%w: unknown event type %q", ErrInvalidInput, req.Type)
	}
}
