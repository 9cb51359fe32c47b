package callbacktypes

import (
	"time"

	"go.uber.org/zap"

	"github.com/MasloRich/Beauty-bot/internal/booking"
	"github.com/MasloRich/Beauty-bot/internal/model"
	"github.com/MasloRich/Beauty-bot/internal/service"
)

// Handler содержит общие зависимости для всех callback handlers и команд
type Handler struct {
	Flow         *booking.Flow
	Appointments *service.AppointmentService
	Catalog      *service.CatalogService
	Roles        *service.RoleService
	Studio       model.Studio
	Location     *time.Location
	Logger       *zap.Logger
}
