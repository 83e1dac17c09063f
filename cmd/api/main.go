package main

import (
	"flag"
	"log"

	"github.com/wildanre/Evently-sub001/internal/api"
	"github.com/wildanre/Evently-sub001/internal/config"
	"github.com/wildanre/Evently-sub001/internal/database"
	"github.com/wildanre/Evently-sub001/internal/notify"
	"github.com/wildanre/Evently-sub001/internal/payments"
	"github.com/wildanre/Evently-sub001/internal/storage"
	"github.com/wildanre/Evently-sub001/internal/store"
)

const version = "0.1.0"

func initializeAPI(configPath string) (*api.Api, error) {
	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		return nil, err
	}

	if err := database.Init(cfg); err != nil {
		return nil, err
	}

	st := store.New(database.GetConnection(), database.Type())
	notifier := notify.New(st)
	pay := payments.NewService(st, notifier, cfg)

	var images api.ImageStore
	if s3Client, err := storage.NewS3Client(cfg); err != nil {
		log.Printf("Image storage disabled: %v", err)
	} else {
		images = s3Client
	}

	return api.NewApi(cfg, st, pay, notifier, images)
}

func main() {
	configPath := flag.String("config", "app.yml", "Path to configuration file")
	flag.Parse()

	log.Printf("Starting Evently API v%s with config: %s", version, *configPath)

	api, err := initializeAPI(*configPath)
	if err != nil {
		log.Fatal(err)
	}

	api.Serve()
}
