package controller

import (
	"context"
	"strings"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	"go.uber.org/zap"

	"github.com/MasloRich/Beauty-bot/internal/controller/callbacks"
	"github.com/MasloRich/Beauty-bot/internal/controller/callbacks/callbacktypes"
	"github.com/MasloRich/Beauty-bot/internal/controller/handlers"
)

type BotController struct {
	bot             *bot.Bot
	handlers        *handlers.Handlers
	callbackHandler *callbacks.Handler
	logger          *zap.Logger
}

func NewBotController(botInstance *bot.Bot, deps *callbacktypes.Handler) *BotController {
	return &BotController{
		bot:             botInstance,
		handlers:        handlers.NewHandlers(deps),
		callbackHandler: callbacks.NewHandler(deps),
		logger:          deps.Logger,
	}
}

// RegisterHandlers регистрирует все обработчики команд
func (c *BotController) RegisterHandlers(ctx context.Context) error {
	// Команды клиента
	c.bot.RegisterHandler(bot.HandlerTypeMessageText, "/start", bot.MatchTypeExact, c.handlers.HandleStart)
	c.bot.RegisterHandler(bot.HandlerTypeMessageText, "/help", bot.MatchTypeExact, c.handlers.HandleHelp)
	c.bot.RegisterHandler(bot.HandlerTypeMessageText, "/book", bot.MatchTypeExact, c.handlers.HandleBook)
	c.bot.RegisterHandler(bot.HandlerTypeMessageText, "/mybookings", bot.MatchTypeExact, c.handlers.HandleMyBookings)
	c.bot.RegisterHandler(bot.HandlerTypeMessageText, "/cancel", bot.MatchTypeExact, c.handlers.HandleCancel)

	// Команды мастера
	c.bot.RegisterHandler(bot.HandlerTypeMessageText, "/master", bot.MatchTypeExact, c.handlers.HandleMaster)

	// Команды администратора
	c.bot.RegisterHandler(bot.HandlerTypeMessageText, "/admin", bot.MatchTypeExact, c.handlers.HandleAdmin)
	c.bot.RegisterHandler(bot.HandlerTypeMessageText, "/addmaster", bot.MatchTypePrefix, c.handlers.HandleAddMaster)
	c.bot.RegisterHandler(bot.HandlerTypeMessageText, "/addservice", bot.MatchTypePrefix, c.handlers.HandleAddService)
	c.bot.RegisterHandler(bot.HandlerTypeMessageText, "/addwindow", bot.MatchTypePrefix, c.handlers.HandleAddWindow)

	// Обычный текст вне команд
	c.bot.RegisterHandlerMatchFunc(isPlainText, c.handlers.HandleTextMessage)

	// Обработчик нажатий на inline кнопки
	c.bot.RegisterHandler(bot.HandlerTypeCallbackQueryData, "", bot.MatchTypePrefix, c.callbackHandler.HandleCallbackQuery)

	// Устанавливаем меню команд
	return c.setCommands(ctx)
}

func isPlainText(update *models.Update) bool {
	return update.Message != nil && update.Message.Text != "" && !strings.HasPrefix(update.Message.Text, "/")
}

// setCommands устанавливает список команд в меню бота
func (c *BotController) setCommands(ctx context.Context) error {
	commands := []models.BotCommand{
		{Command: "start", Description: "🏠 Главное меню"},
		{Command: "book", Description: "📅 Записаться к мастеру"},
		{Command: "mybookings", Description: "📋 Мои записи"},
		{Command: "cancel", Description: "❌ Прервать оформление записи"},
		{Command: "master", Description: "💼 Панель мастера"},
		{Command: "help", Description: "❓ Справка по командам"},
	}

	_, err := c.bot.SetMyCommands(ctx, &bot.SetMyCommandsParams{
		Commands: commands,
	})

	if err != nil {
		c.logger.Error("Failed to set bot commands", zap.Error(err))
		return err
	}

	c.logger.Info("Bot commands menu set")
	return nil
}

// Start запускает long polling и блокируется до отмены ctx
func (c *BotController) Start(ctx context.Context) error {
	c.logger.Info("Starting bot...")
	c.bot.Start(ctx)
	return nil
}
