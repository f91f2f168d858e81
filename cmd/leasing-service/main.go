package main

import (
	"fmt"
	"os"
	"time"

	"github.com/Bostads-AB-Mimer/onecore-leasing/internal/auth"
	"github.com/Bostads-AB-Mimer/onecore-leasing/internal/config"
	"github.com/Bostads-AB-Mimer/onecore-leasing/internal/db"
	"github.com/Bostads-AB-Mimer/onecore-leasing/internal/directory"
	"github.com/Bostads-AB-Mimer/onecore-leasing/internal/excel"
	httphandler "github.com/Bostads-AB-Mimer/onecore-leasing/internal/http"
	"github.com/Bostads-AB-Mimer/onecore-leasing/internal/http/middleware"
	"github.com/Bostads-AB-Mimer/onecore-leasing/internal/logger"
	"github.com/Bostads-AB-Mimer/onecore-leasing/internal/pdf"
	"github.com/Bostads-AB-Mimer/onecore-leasing/internal/repository"
	"github.com/Bostads-AB-Mimer/onecore-leasing/internal/rules"
	"github.com/Bostads-AB-Mimer/onecore-leasing/internal/scheduler"
	"github.com/Bostads-AB-Mimer/onecore-leasing/internal/service"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}

	log := logger.New(cfg.Environment)

	database, err := db.New(cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect database")
	}

	directoryTimeout, err := time.ParseDuration(cfg.Directory.Timeout)
	if err != nil {
		log.Fatal().Err(err).Msg("invalid directory timeout")
	}
	directoryClient := directory.NewClient(cfg.Directory.BaseURL, directoryTimeout, log)

	listingRepo := repository.NewListingRepository(database)
	applicantRepo := repository.NewApplicantRepository(database)
	offerRepo := repository.NewOfferRepository(database)

	engine := rules.NewEngine(rules.Config{
		PropertiesWithSpecificRules: cfg.Leasing.PropertiesWithSpecificRules,
		AreasWithSpecificRules:      cfg.Leasing.AreasWithSpecificRules,
	})

	coordinator := service.NewCoordinator(database)
	leasingService := service.NewLeasingService(
		listingRepo, applicantRepo, engine,
		directoryClient, directoryClient, directoryClient,
		log,
	)
	offerService := service.NewOfferService(listingRepo, applicantRepo, offerRepo, coordinator, log)

	jobs := scheduler.New(leasingService, offerService, log)
	if err := jobs.Start(cfg.Leasing.ExpirySchedule); err != nil {
		log.Fatal().Err(err).Msg("failed to start expiry poller")
	}
	defer jobs.Stop()

	tokenParser := auth.NewParser(cfg.Auth.AccessSecret)
	handler := httphandler.NewHandler(
		leasingService,
		offerService,
		excel.NewGenerator(),
		pdf.NewGenerator(),
		cfg.Leasing.OfferValidityDays,
		log,
	)
	authMiddleware := middleware.Auth(tokenParser)
	router := httphandler.NewRouter(handler, authMiddleware, cfg.Environment)

	addr := fmt.Sprintf("%s:%d", cfg.HTTP.Host, cfg.HTTP.Port)
	log.Info().Str("addr", addr).Msg("starting leasing service")

	if err := router.Run(addr); err != nil {
		log.Error().Err(err).Msg("server stopped")
		os.Exit(1)
	}
}
