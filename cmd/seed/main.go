package main

import (
	"flag"
	"log"

	"github.com/joho/godotenv"
	"github.com/wildanre/Evently-sub001/internal/config"
	"github.com/wildanre/Evently-sub001/internal/database"
	"github.com/wildanre/Evently-sub001/internal/seed"
	"github.com/wildanre/Evently-sub001/internal/store"
)

func main() {
	configPath := flag.String("config", "app.yml", "Path to configuration file")
	userCount := flag.Int("users", 20, "Number of sample users to create")
	eventCount := flag.Int("events", 10, "Number of sample events to create")
	flag.Parse()

	if err := godotenv.Load(); err != nil {
		log.Printf("No .env file loaded: %v", err)
	}

	cfg, err := config.LoadConfig(*configPath)
	if err != nil {
		log.Fatal(err)
	}

	if err := database.Init(cfg); err != nil {
		log.Fatal(err)
	}
	defer database.Close()

	st := store.New(database.GetConnection(), database.Type())
	if err := seed.New(st).Run(*userCount, *eventCount); err != nil {
		log.Fatal(err)
	}
}
