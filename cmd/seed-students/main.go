package main

import (
	"context"
	"fmt"
	"time"

	"github.com/scholarspoint/sphub-backend/internal/config"
	"github.com/scholarspoint/sphub-backend/internal/database"
	"github.com/scholarspoint/sphub-backend/internal/logger"
	"github.com/scholarspoint/sphub-backend/internal/model"
	"github.com/scholarspoint/sphub-backend/internal/service"
	"github.com/scholarspoint/sphub-backend/internal/storage"
	"github.com/scholarspoint/sphub-backend/internal/store"
)

// Seeds a demo roster through the regular persistence path. Safe to re-run:
// it refuses to touch a non-empty roster.
func main() {
	cfg := config.Load()
	log := logger.Setup(cfg.LogLevel, cfg.LogFormat)
	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	var gateway storage.Gateway
	switch cfg.StorageBackend {
	case "redis":
		rdb, err := database.NewRedisClient(ctx, cfg, log)
		if err != nil {
			log.Fatal().Err(err).Msg("Failed to connect to Redis")
		}
		defer rdb.Close()
		gateway = storage.NewRedisGateway(rdb, cfg.StorageKey, log)
	default:
		pool, err := database.NewPostgresPool(ctx, cfg, log)
		if err != nil {
			log.Fatal().Err(err).Msg("Failed to connect to PostgreSQL")
		}
		defer pool.Close()
		gateway = storage.NewPostgresGateway(pool, cfg.StorageKey, log)
	}

	stateService := service.NewStateService(store.New(), gateway, log)
	if err := stateService.Hydrate(ctx); err != nil {
		log.Fatal().Err(err).Msg("Failed to hydrate state")
	}

	if existing := len(stateService.Snapshot().Students); existing > 0 {
		fmt.Printf("Roster already has %d students, nothing to do\n", existing)
		return
	}

	seeds := []model.CreateStudentRequest{
		{Name: "Aarav Shah", Grade: "Grade 7", Phone: "9876543210", DOB: "2013-04-12", MonthlyFee: 600, FeeDay: 5},
		{Name: "Riya Patel", Grade: "Grade 7", Phone: "9876543211", DOB: "2013-08-03", MonthlyFee: 600, FeeDay: 5},
		{Name: "Kabir Mehta", Grade: "Grade 8", Phone: "9876543212", DOB: "2012-01-27", MonthlyFee: 700, FeeDay: 10},
		{Name: "Ananya Iyer", Grade: "Grade 8", Phone: "9876543213", DOB: "2012-11-19", MonthlyFee: 700, FeeDay: 10},
		{Name: "Vihaan Kulkarni", Grade: "Grade 9", Phone: "9876543214", DOB: "2011-06-30", MonthlyFee: 800, FeeDay: 1},
		{Name: "Ishita Rao", Grade: "Grade 9", Phone: "9876543215", MonthlyFee: 800, FeeDay: 1},
	}

	fmt.Printf("=== Seeding %d Students ===\n", len(seeds))
	for i := range seeds {
		student, err := stateService.AddStudent(&seeds[i])
		if err != nil {
			log.Fatal().Err(err).Str("name", seeds[i].Name).Msg("Seed failed")
		}
		fmt.Printf("  #%d %s\n", student.RollNumber, student.Name)
	}
	fmt.Println("Done")
}
