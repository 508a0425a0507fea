package main

import (
	"autobooking/internal/bookings/events"
	bookinghandler "autobooking/internal/bookings/handler"
	bookingrepo "autobooking/internal/bookings/repository"
	bookingservice "autobooking/internal/bookings/service"
	bookingvalidator "autobooking/internal/bookings/validator"
	cataloghandler "autobooking/internal/catalog/handler"
	catalogrepo "autobooking/internal/catalog/repository"
	catalogservice "autobooking/internal/catalog/service"
	catalogvalidator "autobooking/internal/catalog/validator"
	userhandler "autobooking/internal/users/handler"
	userrepo "autobooking/internal/users/repository"
	userservice "autobooking/internal/users/service"
	uservalidator "autobooking/internal/users/validator"
	"autobooking/pkg/app"
	"autobooking/pkg/auth"
	"autobooking/pkg/config"
	"autobooking/pkg/kafka"
)

const ServiceName = "api"

func main() {
	cfg := config.Load(ServiceName)
	cfg.SetMongo()

	cfg.Log.Info("Starting booking API")

	issuer := auth.NewTokenIssuer(cfg.JWTSecret, cfg.JWTTTL)

	serverApp := app.NewApplication(cfg)
	publisher := initPublisher(cfg, serverApp)

	// Repositories
	userRepository := userrepo.NewMongoUserRepository(cfg)
	favoriteRepository := userrepo.NewMongoFavoriteRepository(cfg)
	productRepository := catalogrepo.NewMongoProductRepository(cfg)
	categoryRepository := catalogrepo.NewMongoCategoryRepository(cfg)
	featureRepository := catalogrepo.NewMongoFeatureRepository(cfg)
	bookingRepository := bookingrepo.NewMongoBookingRepository(cfg)
	bookingLockRepository := bookingrepo.NewBookingLockRepository(cfg)

	// Services
	bookingService := bookingservice.NewBookingService(
		bookingRepository,
		bookingLockRepository,
		userRepository,
		productRepository,
		bookingvalidator.NewBookingValidator(cfg.Log),
		publisher,
		cfg,
	)

	catalogValidator := catalogvalidator.NewCatalogValidator(cfg.Log)
	productService := catalogservice.NewProductService(
		productRepository,
		categoryRepository,
		featureRepository,
		bookingService,
		bookingRepository,
		catalogValidator,
		cfg,
	)
	categoryService := catalogservice.NewCategoryService(categoryRepository, productRepository, catalogValidator, cfg)
	featureService := catalogservice.NewFeatureService(featureRepository, productRepository, catalogValidator, cfg)

	userValidator := uservalidator.NewUserValidator(cfg.Log)
	userService := userservice.NewUserService(userRepository, favoriteRepository, issuer, userValidator, cfg)
	favoriteService := userservice.NewFavoriteService(favoriteRepository, userRepository, productService, cfg)

	serverApp.SetApp(
		bookinghandler.NewBookingHandler(bookingService, issuer, cfg.Log),
		cataloghandler.NewProductHandler(productService, bookingService, issuer, cfg.Log),
		cataloghandler.NewCategoryHandler(categoryService, issuer, cfg.Log),
		cataloghandler.NewFeatureHandler(featureService, issuer, cfg.Log),
		userhandler.NewUserHandler(userService, favoriteService, issuer, cfg.Log),
	)
	serverApp.Run()
}

func initPublisher(cfg *config.Config, serverApp *app.Application) events.Publisher {
	if !cfg.KafkaEnabled() {
		cfg.Log.Info("Kafka disabled, booking events will not be published")
		return events.NewNopPublisher()
	}

	producer, err := kafka.NewProducer(cfg.KafkaBrokers, cfg.KafkaTopic)
	if err != nil {
		cfg.Log.Fatal("Failed to create Kafka producer", "error", err)
	}
	serverApp.AddCloser(producer)

	cfg.Log.Info("Kafka producer initialized", "topic", cfg.KafkaTopic)
	return events.NewKafkaPublisher(producer, cfg.Log)
}
