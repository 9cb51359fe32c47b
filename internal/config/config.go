package config

import (
	"fmt"
	"log"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/ilyakaznacheev/cleanenv"
	"github.com/joho/godotenv"

	"github.com/MasloRich/Beauty-bot/internal/model"
)

type Config struct {
	TelegramToken string `env:"TELEGRAM_TOKEN" env-required:"true" validate:"required"`
	DBDSN         string `env:"DB_DSN" env-required:"true" validate:"required"`
	Environment   string `env:"ENV" env-default:"development" validate:"oneof=development production test"`

	// Telegram ID администраторов студии
	AdminIDs []int64 `env:"ADMIN_IDS" env-separator:","`

	// Пустой адрес = черновики и блокировки в памяти процесса
	RedisURL string `env:"REDIS_URL"`

	Timezone           string        `env:"TIMEZONE" env-default:"Europe/Moscow" validate:"required"`
	SlotStep           time.Duration `env:"SLOT_STEP" env-default:"30m" validate:"gte=0"`
	BookingHorizonDays int           `env:"BOOKING_HORIZON_DAYS" env-default:"14" validate:"gte=1,lte=90"`
	MinBookingNotice   time.Duration `env:"MIN_BOOKING_NOTICE" env-default:"1h" validate:"gte=0"`
	DraftIdleTimeout   time.Duration `env:"DRAFT_IDLE_TIMEOUT" env-default:"30m" validate:"gt=0"`
	LockTTL            time.Duration `env:"LOCK_TTL" env-default:"5s" validate:"gt=0"`
	ReadRetries        uint64        `env:"READ_RETRIES" env-default:"3" validate:"lte=10"`

	// Справка для клиентов
	StudioName       string   `env:"STUDIO_NAME" env-default:"Студия красоты"`
	StudioAddress    string   `env:"STUDIO_ADDRESS"`
	StudioPhone      string   `env:"STUDIO_PHONE"`
	StudioEmail      string   `env:"STUDIO_EMAIL" validate:"omitempty,email"`
	StudioHours      string   `env:"STUDIO_HOURS" env-default:"Пн-Пт: 9:00 - 21:00, Сб-Вс: 10:00 - 20:00"`
	StudioDirections string   `env:"STUDIO_DIRECTIONS"`
	StudioSocials    []string `env:"STUDIO_SOCIALS" env-separator:","`

	HTTPAddr          string `env:"HTTP_ADDR" env-default:":8080"`
	MigrationsEnabled bool   `env:"MIGRATIONS_ENABLED" env-default:"true"`
}

func Load() (*Config, error) {
	// Пытаемся загрузить .env файл (игнорируем ошибку, если файла нет)
	if err := godotenv.Load(".env"); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	var cfg Config
	if err := cleanenv.ReadEnv(&cfg); err != nil {
		return nil, fmt.Errorf("read env: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// Validate проверяет значения и часовой пояс
func (c *Config) Validate() error {
	if err := validator.New().Struct(c); err != nil {
		return fmt.Errorf("validate config: %w", err)
	}

	if _, err := time.LoadLocation(c.Timezone); err != nil {
		return fmt.Errorf("load timezone %q: %w", c.Timezone, err)
	}

	return nil
}

func (c *Config) GetDBDSN() string {
	return c.DBDSN
}

// Location часовой пояс студии
func (c *Config) Location() *time.Location {
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return time.Local
	}
	return loc
}

// Studio справочные данные студии
func (c *Config) Studio() model.Studio {
	return model.Studio{
		Name:       c.StudioName,
		Address:    c.StudioAddress,
		Phone:      c.StudioPhone,
		Email:      c.StudioEmail,
		Hours:      c.StudioHours,
		Directions: c.StudioDirections,
		Socials:    c.StudioSocials,
	}
}

// IsAdmin проверяет наличие telegram ID в списке администраторов
func (c *Config) IsAdmin(telegramID int64) bool {
	for _, id := range c.AdminIDs {
		if id == telegramID {
			return true
		}
	}
	return false
}

func (c *Config) IsProduction() bool {
	return c.Environment == "production"
}
