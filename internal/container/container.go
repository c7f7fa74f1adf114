package container

import (
	"log/slog"

	"github.com/cloudinary/cloudinary-go/v2"
	"github.com/jmoiron/sqlx"
	"github.com/joshua-takyi/patinhas/internal/config"
	"github.com/joshua-takyi/patinhas/internal/helpers"
	"github.com/joshua-takyi/patinhas/internal/models"
	"github.com/joshua-takyi/patinhas/internal/services"
	"github.com/redis/go-redis/v9"
	"github.com/resend/resend-go/v2"
	"github.com/supabase-community/supabase-go"
	"go.mongodb.org/mongo-driver/mongo"
)

// Container holds all application dependencies
type Container struct {
	Config   *config.Config
	Logger   *slog.Logger
	Verifier *helpers.TokenVerifier
	Redis    *redis.Client

	BookingService *services.BookingService
	UserService    *services.UserService
	CatalogService *services.CatalogService
}

// Clients are the external connections opened by main. Only Supabase is
// required; the rest are nil when not configured.
type Clients struct {
	Supabase   *supabase.Client
	Postgres   *sqlx.DB
	MongoDB    *mongo.Client
	Redis      *redis.Client
	Cloudinary *cloudinary.Cloudinary
}

// NewContainer creates a new dependency injection container
func NewContainer(cfg *config.Config, logger *slog.Logger, verifier *helpers.TokenVerifier, clients Clients) *Container {
	supa := models.SupabaseNewRepo(clients.Supabase, cfg.SupabaseURL, cfg.SupabaseAnonKey)

	var bookingRepo models.BookingRepo = supa
	if cfg.StoreDriver == config.StorePostgres && clients.Postgres != nil {
		bookingRepo = models.PostgresNewRepo(clients.Postgres)
	}

	var notifier services.Notifier = services.DisabledNotifier{}
	if cfg.EmailEnabled() {
		notifier = services.NewResendNotifier(resend.NewClient(cfg.ResendAPIKey), cfg.EmailFrom)
	}

	var notificationLog models.NotificationLog
	if clients.MongoDB != nil {
		notificationLog = models.MongodbNewRepo(clients.MongoDB)
	}

	return NewWithServices(cfg, logger, verifier, clients.Redis,
		services.NewBookingService(bookingRepo, notifier, notificationLog, logger, cfg.Location()),
		services.NewUserService(supa),
		services.NewCatalogService(clients.Cloudinary, cfg.CloudinaryFolder, logger),
	)
}

// NewWithServices assembles a container from already built services.
func NewWithServices(cfg *config.Config, logger *slog.Logger, verifier *helpers.TokenVerifier, rdb *redis.Client,
	bookings *services.BookingService, users *services.UserService, catalog *services.CatalogService) *Container {
	return &Container{
		Config:         cfg,
		Logger:         logger,
		Verifier:       verifier,
		Redis:          rdb,
		BookingService: bookings,
		UserService:    users,
		CatalogService: catalog,
	}
}
