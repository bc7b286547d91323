package create_booking

import (
	"errors"

	"github.com/m04kA/SMC-BookingWizard/internal/domain"
	"github.com/m04kA/SMC-BookingWizard/pkg/txmanager"
)

const (
	msgSlotUnavailable     = "выбранное время уже занято, выберите другое"
	msgModelClosed         = "модель не работает в этот день"
	msgTooLate             = "слишком поздно для записи на это время"
	msgTooFar              = "на эту дату запись пока не открыта"
	msgPastDate            = "нельзя записаться на прошедшую дату"
	msgInvalidTimeSlot     = "это время недоступно для записи"
	msgInvalidDetails      = "проверьте введенные данные"
	msgLocationUnsupported = "услуга недоступна в выбранном месте"
	msgServiceNotFound     = "услуга недоступна"
	msgBackendError        = "не удалось создать запись, попробуйте позже"
)

// ToRejection переводит ошибку use case в отказ с кодом для клиента
func ToRejection(err error) *domain.Rejection {
	if err == nil {
		return nil
	}

	var detailsErr *ClientDetailsError
	switch {
	case errors.As(err, &detailsErr):
		return &domain.Rejection{Code: domain.RejectionInvalidDetails, Message: msgInvalidDetails, Fields: detailsErr.Fields}
	case errors.Is(err, ErrSlotNotAvailable), errors.Is(err, txmanager.ErrSerializationFailure):
		return domain.NewRejection(domain.RejectionSlotUnavailable, msgSlotUnavailable)
	case errors.Is(err, ErrModelClosed):
		return domain.NewRejection(domain.RejectionSlotUnavailable, msgModelClosed)
	case errors.Is(err, ErrTooLateToBook):
		return domain.NewRejection(domain.RejectionSlotUnavailable, msgTooLate)
	case errors.Is(err, ErrDateTooFarInFuture):
		return domain.NewRejection(domain.RejectionSlotUnavailable, msgTooFar)
	case errors.Is(err, ErrInvalidDate):
		return domain.NewRejection(domain.RejectionSlotUnavailable, msgPastDate)
	case errors.Is(err, ErrInvalidTimeSlot):
		return domain.NewRejection(domain.RejectionSlotUnavailable, msgInvalidTimeSlot)
	case errors.Is(err, ErrLocationNotSupported):
		return domain.NewRejection(domain.RejectionInvalidDetails, msgLocationUnsupported)
	case errors.Is(err, ErrServiceNotFound):
		return domain.NewRejection(domain.RejectionInvalidDetails, msgServiceNotFound)
	case errors.Is(err, ErrInvalidInput):
		return domain.NewRejection(domain.RejectionInvalidDetails, msgInvalidDetails)
	default:
		return domain.NewRejection(domain.RejectionBackendError, msgBackendError)
	}
}
