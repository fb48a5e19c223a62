package main

import (
	"context"
	"flag"
	"log"
	"time"

	"github.com/gdg-garage/flight-booking-api/internal/config"
	"github.com/gdg-garage/flight-booking-api/internal/database"
	"github.com/gdg-garage/flight-booking-api/internal/logging"
	"github.com/gdg-garage/flight-booking-api/internal/seed"
)

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	days := flag.Int("days", cfg.ScheduleDays, "number of days from today to schedule")
	flag.Parse()

	if err := logging.Init(cfg.AppEnv); err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer logging.Close()

	db, err := database.Connect(cfg)
	if err != nil {
		logging.Fatal("Failed to connect to database", "error", err.Error())
	}

	if _, err := seed.Run(context.Background(), db, time.Now(), *days); err != nil {
		logging.Fatal("Seeding failed", "error", err.Error())
	}
}
