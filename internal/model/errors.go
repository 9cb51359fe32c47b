package model

import "errors"

// Виды ошибок ядра. Нижние слои оборачивают их через fmt.Errorf("...: %w", err).
var (
	ErrNotAuthorized     = errors.New("not authorized")
	ErrNotFound          = errors.New("not found")
	ErrInvalidTransition = errors.New("invalid status transition")
	ErrSlotConflict      = errors.New("slot conflict")
	ErrValidation        = errors.New("validation error")
	ErrUnavailable       = errors.New("store unavailable")
)
