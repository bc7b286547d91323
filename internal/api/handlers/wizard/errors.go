package wizard

import (
	"errors"
	"net/http"

	"github.com/m04kA/SMC-BookingWizard/internal/api/handlers"
	wizardService "github.com/m04kA/SMC-BookingWizard/internal/service/wizard"
	fsm "github.com/m04kA/SMC-BookingWizard/internal/wizard"
)

// Коды ошибок мастера для клиента
const (
	codeSessionNotFound   = "session_not_found"
	codeModelNotFound     = "model_not_found"
	codeInvalidInput      = "invalid_input"
	codeInvalidStep       = "invalid_step"
	codeInvalidSelection  = "invalid_selection"
	codeSubmissionPending = "submission_in_progress"
	codeConcurrentUpdate  = "concurrent_update"
	codeInvalidDetails    = "invalid_details"
)

type errorMapping struct {
	target  error
	status  int
	code    string
	message string
}

// Порядок важен: ошибки сервиса проверяются раньше ошибок машины состояний
var errorMappings = []errorMapping{
	{wizardService.ErrSessionNotFound, http.StatusNotFound, codeSessionNotFound, "сессия не найдена или истекла"},
	{wizardService.ErrModelNotFound, http.StatusNotFound, codeModelNotFound, "модель не найдена"},
	{wizardService.ErrInvalidInput, http.StatusBadRequest, codeInvalidInput, "некорректное действие"},
	{wizardService.ErrConcurrentUpdate, http.StatusConflict, codeConcurrentUpdate, "сессия изменена параллельно, повторите действие"},
	{fsm.ErrSubmissionInFlight, http.StatusConflict, codeSubmissionPending, "бронирование уже отправляется"},
	{fsm.ErrInvalidTransition, http.StatusConflict, codeInvalidStep, "действие недоступно на этом шаге"},
	{fsm.ErrBackDisabled, http.StatusConflict, codeInvalidStep, "возврат назад недоступен на этом шаге"},
	{fsm.ErrNothingToRetry, http.StatusConflict, codeInvalidStep, "нет отклоненной заявки для повтора"},
	{fsm.ErrCatalogNotLoaded, http.StatusConflict, codeInvalidStep, "каталог еще не загружен"},
	{fsm.ErrIncompleteDateTime, http.StatusBadRequest, codeInvalidInput, "укажите дату и время"},
	{fsm.ErrInvalidDateTime, http.StatusBadRequest, codeInvalidInput, "некорректная дата или время"},
	{fsm.ErrUnknownModel, http.StatusUnprocessableEntity, codeInvalidSelection, "модель недоступна для записи"},
	{fsm.ErrUnknownLocation, http.StatusUnprocessableEntity, codeInvalidSelection, "модель не работает в этом месте"},
	{fsm.ErrServiceNotAvailable, http.StatusUnprocessableEntity, codeInvalidSelection, "услуга недоступна в выбранном месте"},
	{fsm.ErrSlotNotOffered, http.StatusUnprocessableEntity, codeInvalidSelection, "это время недоступно для записи"},
}

// respondServiceError отвечает ошибкой сервиса мастера. Возвращает true, если ошибка известна.
func respondServiceError(w http.ResponseWriter, err error) bool {
	for _, m := range errorMappings {
		if errors.Is(err, m.target) {
			handlers.RespondJSON(w, m.status, handlers.ErrorResponse{Code: m.code, Message: m.message})
			return true
		}
	}
	handlers.RespondInternalError(w)
	return false
}
