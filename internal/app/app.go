package app

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/dreamnest/recommendation-service/internal/adapter/messaging/nats"
	"github.com/dreamnest/recommendation-service/internal/adapter/repository/cache"
	"github.com/dreamnest/recommendation-service/internal/adapter/repository/mongodb"
	"github.com/dreamnest/recommendation-service/internal/config"
	"github.com/dreamnest/recommendation-service/internal/platform/logger"
	"github.com/dreamnest/recommendation-service/internal/recommendation/domain"
	"github.com/dreamnest/recommendation-service/internal/recommendation/usecase"
)

// App owns the service's infrastructure handles and use cases. The route
// layer is an external collaborator that consumes the use cases; the app
// itself only wires them and manages lifecycle.
type App struct {
	cfg    *config.Config
	log    logger.Logger
	client *mongo.Client
	cache  *cache.ListingCache
	pub    *nats.Publisher

	Preferences     *usecase.PreferenceUsecase
	Recommendations *usecase.RecommendationUsecase
	Integrity       *usecase.IntegrityUsecase
	Listings        *usecase.ListingUsecase
	Bookings        *usecase.BookingUsecase
	Admin           *usecase.AdminUsecase
}

func New(cfg *config.Config, log logger.Logger) (*App, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(cfg.MongoURI))
	if err != nil {
		return nil, err
	}
	if err := client.Ping(ctx, nil); err != nil {
		return nil, err
	}
	db := client.Database(cfg.MongoDatabase)

	listingCache, err := cache.NewListingCache(cfg.RedisAddr)
	if err != nil {
		return nil, err
	}

	publisher, err := nats.NewPublisher(cfg.NATSURL)
	if err != nil {
		return nil, err
	}

	userRepo := mongodb.NewUserRepository(db, log)
	listingRepo := mongodb.NewListingRepository(db, log)
	bookingRepo := mongodb.NewBookingRepository(db, log)
	txRunner := mongodb.NewTxRunner(client)
	clock := domain.NewClock()

	preferences := usecase.NewPreferenceUsecase(userRepo, listingRepo, bookingRepo, listingCache, clock, log)

	return &App{
		cfg:             cfg,
		log:             log,
		client:          client,
		cache:           listingCache,
		pub:             publisher,
		Preferences:     preferences,
		Recommendations: usecase.NewRecommendationUsecase(userRepo, listingRepo, clock, log),
		Integrity:       usecase.NewIntegrityUsecase(userRepo, listingRepo, bookingRepo, listingCache, publisher, txRunner, clock, log),
		Listings:        usecase.NewListingUsecase(userRepo, listingRepo, listingCache, clock, log),
		Bookings:        usecase.NewBookingUsecase(bookingRepo, listingRepo, preferences, clock, log),
		Admin:           usecase.NewAdminUsecase(userRepo, listingRepo, bookingRepo, clock, log),
	}, nil
}

// Run blocks until the process receives SIGINT or SIGTERM.
func (a *App) Run() {
	a.log.Info("recommendation service started")

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	a.log.Info("recommendation service shutting down")
	a.Close()
}

func (a *App) Close() {
	a.pub.Close()
	if err := a.cache.Close(); err != nil {
		a.log.Warnf("closing redis: %v", err)
	}
	if err := a.client.Disconnect(context.Background()); err != nil {
		a.log.Warnf("disconnecting mongo: %v", err)
	}
}
