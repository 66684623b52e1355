package main

import (
	"context"
	"fmt"
	"net/http"
	"os"

	"github.com/joho/godotenv"

	"github.com/fleetdesk/fleetdesk-backend/api/routes"
	"github.com/fleetdesk/fleetdesk-backend/internal/agents"
	"github.com/fleetdesk/fleetdesk-backend/internal/bookings"
	"github.com/fleetdesk/fleetdesk-backend/internal/catalog"
	"github.com/fleetdesk/fleetdesk-backend/internal/companies"
	"github.com/fleetdesk/fleetdesk-backend/internal/locations"
	"github.com/fleetdesk/fleetdesk-backend/internal/media"
	"github.com/fleetdesk/fleetdesk-backend/internal/payments"
	addonsvc "github.com/fleetdesk/fleetdesk-backend/internal/services"
	"github.com/fleetdesk/fleetdesk-backend/internal/social"
	"github.com/fleetdesk/fleetdesk-backend/internal/staticfiles"
	"github.com/fleetdesk/fleetdesk-backend/internal/users"
	"github.com/fleetdesk/fleetdesk-backend/internal/vehicles"
	"github.com/fleetdesk/fleetdesk-backend/pkg/config"
	"github.com/fleetdesk/fleetdesk-backend/pkg/db"
	"github.com/fleetdesk/fleetdesk-backend/pkg/imagesidecar"
	"github.com/fleetdesk/fleetdesk-backend/pkg/instagram"
	"github.com/fleetdesk/fleetdesk-backend/pkg/logger"
	"github.com/fleetdesk/fleetdesk-backend/pkg/metrics"
	"github.com/fleetdesk/fleetdesk-backend/pkg/migrate"
	"github.com/fleetdesk/fleetdesk-backend/pkg/redis"
	"github.com/fleetdesk/fleetdesk-backend/pkg/storage/azblob"
	"github.com/fleetdesk/fleetdesk-backend/pkg/stripe"
)

func main() {
	logg := logger.New(logger.Options{ServiceName: "api"})

	if err := godotenv.Load(); err != nil {
		logg.Warn(context.Background(), ".env file not found, relying on environment")
	}

	cfg, err := config.Load()
	if err != nil {
		logg.Error(context.Background(), "failed to load config", err)
		os.Exit(1)
	}

	logg = logger.New(logger.Options{
		ServiceName: "api",
		Level:       logger.ParseLevel(cfg.App.LogLevel),
		WarnStack:   cfg.App.LogWarnStack,
	})
	ctx := context.Background()

	dbClient, err := db.New(ctx, cfg.DB, logg)
	requireResource(ctx, logg, "database", err)
	defer func() {
		if err := dbClient.Close(); err != nil {
			logg.Error(ctx, "error closing database", err)
		}
	}()

	if err := migrate.MaybeRunDev(ctx, cfg, logg, dbClient); err != nil {
		logg.Error(ctx, "failed to run dev migrations", err)
		os.Exit(1)
	}

	redisClient, err := redis.New(ctx, cfg.Redis, logg)
	requireResource(ctx, logg, "redis", err)
	defer func() {
		if err := redisClient.Close(); err != nil {
			logg.Error(ctx, "error closing redis", err)
		}
	}()

	configCache := redis.NewCompanyConfigCache(redisClient, cfg.CompanyCache)
	go func() {
		if err := configCache.Listen(ctx, logg); err != nil {
			logg.Error(ctx, "company config invalidation listener stopped", err)
		}
	}()

	blobClient, err := azblob.NewClient(ctx, cfg.AzureBlob, logg)
	requireResource(ctx, logg, "blob storage", err)

	stripeClient, err := stripe.NewClient(ctx, cfg.Stripe, logg)
	requireResource(ctx, logg, "stripe", err)

	sidecarClient := imagesidecar.NewClient(cfg.Sidecar, logg)
	igClient := instagram.NewClient(cfg.Instagram, logg)

	companyRepo := companies.NewRepository(dbClient.DB())
	locationRepo := locations.NewRepository(dbClient)
	vehicleRepo := vehicles.NewRepository(dbClient.DB())
	catalogRepo := catalog.NewRepository(dbClient.DB())
	bookingRepo := bookings.NewRepository(dbClient.DB())
	addonRepo := addonsvc.NewRepository(dbClient.DB())
	paymentRepo := payments.NewRepository(dbClient.DB())
	socialRepo := social.NewRepository(dbClient.DB())
	userRepo := users.NewRepository(dbClient.DB())
	agentRepo := agents.NewRepository(dbClient.DB())

	companyService, err := companies.NewService(companyRepo, configCache)
	requireResource(ctx, logg, "company service", err)
	locationService, err := locations.NewService(locationRepo)
	requireResource(ctx, logg, "location service", err)
	vehicleService, err := vehicles.NewService(vehicleRepo)
	requireResource(ctx, logg, "vehicle service", err)
	catalogService, err := catalog.NewService(catalogRepo)
	requireResource(ctx, logg, "catalog service", err)
	bookingService, err := bookings.NewService(bookingRepo)
	requireResource(ctx, logg, "booking service", err)
	addonService, err := addonsvc.NewService(addonRepo)
	requireResource(ctx, logg, "additional services", err)
	paymentService, err := payments.NewService(paymentRepo, bookingRepo, companyRepo, stripeClient, logg)
	requireResource(ctx, logg, "payment service", err)
	mediaService, err := media.NewService(blobClient, sidecarClient, companyRepo, vehicleRepo, configCache, cfg.Media, logg)
	requireResource(ctx, logg, "media service", err)
	staticService, err := staticfiles.NewService(blobClient, cfg.AzureBlob.AllowedContainers)
	requireResource(ctx, logg, "static file service", err)
	socialService, err := social.NewService(socialRepo, companyRepo, vehicleRepo, igClient)
	requireResource(ctx, logg, "social service", err)
	userService, err := users.NewService(userRepo, cfg.JWT, cfg.Password)
	requireResource(ctx, logg, "user service", err)
	agentService, err := agents.NewService(agentRepo, cfg.JWT, cfg.Password)
	requireResource(ctx, logg, "agent service", err)

	httpMetrics := metrics.NewHTTPMetrics()

	port := os.Getenv("PORT")
	if port == "" {
		port = cfg.App.Port
	}
	addr := ":" + port
	ctx = logg.WithFields(ctx, map[string]any{
		"env":  cfg.App.Env,
		"addr": addr,
	})
	logg.Info(ctx, "starting api server")

	handler := routes.NewRouter(cfg, logg, httpMetrics, routes.Services{
		Companies: companyService,
		Locations: locationService,
		Vehicles:  vehicleService,
		Catalog:   catalogService,
		Bookings:  bookingService,
		Addons:    addonService,
		Payments:  paymentService,
		Media:     mediaService,
		Static:    staticService,
		Social:    socialService,
		Users:     userService,
		Agents:    agentService,
	}, sidecarClient, dbClient, redisClient, blobClient)

	server := &http.Server{
		Addr:    addr,
		Handler: handler,
	}

	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logg.Error(ctx, "api server stopped unexpectedly", err)
		os.Exit(1)
	}
}

func requireResource(ctx context.Context, logg *logger.Logger, resource string, err error) {
	if err == nil {
		return
	}
	logg.Error(ctx, fmt.Sprintf("resource not working: %s", resource), err)
	os.Exit(1)
}
