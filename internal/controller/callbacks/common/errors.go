package common

import (
	"errors"

	"github.com/MasloRich/Beauty-bot/internal/model"
)

// Ошибки транспорта
var (
	ErrNoMessage     = errors.New("no message in callback")
	ErrInvalidFormat = errors.New("invalid callback format")
)

// ErrorMessage возвращает пользовательское сообщение для ошибки
func ErrorMessage(err error) string {
	switch {
	case errors.Is(err, model.ErrNotAuthorized):
		return "❌ Это действие вам недоступно"
	case errors.Is(err, model.ErrNotFound):
		return "❌ Запись не найдена или больше недоступна"
	case errors.Is(err, model.ErrInvalidTransition):
		return "❌ Статус записи уже изменён"
	case errors.Is(err, model.ErrSlotConflict):
		return "❌ Это время уже занято"
	case errors.Is(err, model.ErrValidation):
		return "❌ Неверные данные"
	case errors.Is(err, model.ErrUnavailable):
		return "⏳ Сервис временно недоступен, попробуйте позже"
	case errors.Is(err, ErrNoMessage):
		return "❌ Ошибка обработки сообщения"
	case errors.Is(err, ErrInvalidFormat):
		return "❌ Неверный формат данных"
	default:
		return "❌ Произошла ошибка"
	}
}
