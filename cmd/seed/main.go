package main

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/brianvoe/gofakeit/v7"

	"github.com/MasloRich/Beauty-bot/internal/app"
	"github.com/MasloRich/Beauty-bot/internal/config"
	"github.com/MasloRich/Beauty-bot/internal/model"
	"github.com/MasloRich/Beauty-bot/internal/repository"
	"github.com/MasloRich/Beauty-bot/internal/repository/base"
	"github.com/MasloRich/Beauty-bot/internal/service"
)

type serviceSeed struct {
	name     string
	minutes  int
	price    int
	describe string
}

var services = []serviceSeed{
	{"Маникюр с покрытием", 90, 2500, "Аппаратный маникюр и гель-лак"},
	{"Педикюр", 60, 2800, "Классический педикюр"},
	{"Стрижка женская", 60, 2000, "Стрижка и укладка"},
	{"Окрашивание", 120, 5500, "Однотонное окрашивание"},
	{"Коррекция бровей", 30, 900, ""},
}

func main() {
	log.SetFlags(log.LstdFlags | log.Lshortfile)
	log.Println("seed starting")

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("load config: %v", err)
	}
	logger := app.NewLogger(cfg.Environment)
	defer logger.Sync()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	pool, err := app.ConnectPostgres(ctx, cfg.GetDBDSN(), cfg.Timezone)
	if err != nil {
		log.Fatalf("connect postgres: %v", err)
	}
	defer pool.Close()

	migrator, err := app.NewMigrator(pool, logger)
	if err != nil {
		log.Fatalf("create migrator: %v", err)
	}
	if err := migrator.Run(ctx); err != nil {
		log.Fatalf("run migrations: %v", err)
	}
	_ = migrator.Close()

	loc := cfg.Location()
	db := base.NewRepository(pool, cfg.ReadRetries)
	masterRepo := repository.NewMasterRepository(db)
	catalogService := service.NewCatalogService(
		masterRepo,
		repository.NewServiceRepository(db),
		repository.NewScheduleRepository(db, loc),
		logger, loc,
	)
	clientRepo := repository.NewClientRepository(db)

	gofakeit.Seed(time.Now().UnixNano())

	masters, err := seedMasters(ctx, catalogService, 3)
	if err != nil {
		log.Fatalf("seed masters: %v", err)
	}
	if err := seedServices(ctx, catalogService, masters); err != nil {
		log.Fatalf("seed services: %v", err)
	}
	if err := seedWindows(ctx, catalogService, masters, loc, 7); err != nil {
		log.Fatalf("seed windows: %v", err)
	}
	if err := seedClients(ctx, clientRepo, 20); err != nil {
		log.Fatalf("seed clients: %v", err)
	}

	log.Println("seed complete")
}

func seedMasters(ctx context.Context, catalog *service.CatalogService, count int) ([]*model.Master, error) {
	log.Printf("seeding %d masters", count)

	masters := make([]*model.Master, 0, count)
	for i := 0; i < count; i++ {
		master, err := catalog.AddMaster(ctx, service.NewMasterInput{
			TelegramID: int64(gofakeit.Number(100_000_000, 999_999_999)),
			FullName:   gofakeit.FirstName() + " " + gofakeit.LastName(),
			Experience: fmt.Sprintf("%d лет", gofakeit.Number(2, 15)),
			Percentage: gofakeit.Number(30, 60),
		})
		if err != nil {
			return nil, err
		}
		masters = append(masters, master)
	}
	return masters, nil
}

// seedServices раздаёт услуги каталога мастерам по кругу
func seedServices(ctx context.Context, catalog *service.CatalogService, masters []*model.Master) error {
	for i, s := range services {
		master := masters[i%len(masters)]
		if _, err := catalog.AddService(ctx, service.NewServiceInput{
			MasterID:        master.ID,
			Name:            s.name,
			Description:     s.describe,
			DurationMinutes: s.minutes,
			Price:           s.price,
		}); err != nil {
			return err
		}
	}
	log.Printf("services seeded: %d", len(services))
	return nil
}

// seedWindows рабочие окна 10:00-18:00 по будням на days дней вперёд
func seedWindows(ctx context.Context, catalog *service.CatalogService, masters []*model.Master, loc *time.Location, days int) error {
	today := time.Now().In(loc)
	count := 0

	for d := 1; d <= days; d++ {
		day := today.AddDate(0, 0, d)
		if day.Weekday() == time.Saturday || day.Weekday() == time.Sunday {
			continue
		}
		for _, master := range masters {
			if _, err := catalog.AddScheduleWindow(ctx, service.NewWindowInput{
				MasterID: master.ID,
				Date:     day.Format("2006-01-02"),
				Start:    "10:00",
				End:      "18:00",
			}); err != nil {
				return err
			}
			count++
		}
	}

	log.Printf("windows seeded: %d", count)
	return nil
}

func seedClients(ctx context.Context, clients *repository.ClientRepository, count int) error {
	for i := 0; i < count; i++ {
		if _, err := clients.EnsureByTelegramID(ctx, int64(gofakeit.Number(100_000_000, 999_999_999)), gofakeit.FirstName()); err != nil {
			return err
		}
	}
	log.Printf("clients seeded: %d", count)
	return nil
}
