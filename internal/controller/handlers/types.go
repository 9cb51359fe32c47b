package handlers

import (
	"github.com/MasloRich/Beauty-bot/internal/controller/callbacks/callbacktypes"
)

// Handlers обработчики команд. Зависимости общие с callback handlers
type Handlers struct {
	*callbacktypes.Handler
}

// NewHandlers создаёт новый обработчик команд
func NewHandlers(deps *callbacktypes.Handler) *Handlers {
	return &Handlers{Handler: deps}
}
