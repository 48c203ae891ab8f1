package container

import (
	"log/slog"
	"time"

	"github.com/cloudinary/cloudinary-go/v2"
	"github.com/joshua-takyi/courtdesk/internal/config"
	"github.com/joshua-takyi/courtdesk/internal/media"
	"github.com/joshua-takyi/courtdesk/internal/middleware"
	"github.com/joshua-takyi/courtdesk/internal/models"
	"github.com/joshua-takyi/courtdesk/internal/services"
	"go.mongodb.org/mongo-driver/mongo"
)

// Container holds all application dependencies
type Container struct {
	Config        *config.Config
	Logger        *slog.Logger
	Cloudinary    *cloudinary.Cloudinary
	MongoDBClient *mongo.Client
	Repo          *models.MongodbRepo
	RateLimiter   *middleware.RateLimiter

	ReservationService   *services.ReservationService
	CourtService         *services.CourtService
	CustomerService      *services.CustomerService
	ConfigurationService *services.ConfigurationService
	CompletionSweeper    *services.CompletionSweeper
}

// NewContainer creates a new dependency injection container. cld may be nil.
func NewContainer(
	cfg *config.Config,
	logger *slog.Logger,
	cld *cloudinary.Cloudinary,
	mongoDBClient *mongo.Client,
	loc *time.Location,
) *Container {
	repo := models.MongodbNewRepo(mongoDBClient, cfg.MongoDBName, cfg.MongoDBTransactions)

	var uploader services.LogoUploader
	if cld != nil {
		uploader = media.NewLogoUploader(cld)
	}

	return &Container{
		Config:        cfg,
		Logger:        logger,
		Cloudinary:    cld,
		MongoDBClient: mongoDBClient,
		Repo:          repo,
		RateLimiter:   middleware.NewRateLimiter(cfg.RateLimitRPS, cfg.RateLimitBurst, 3*time.Minute),

		ReservationService:   services.NewReservationService(repo, repo, repo, loc, logger),
		CourtService:         services.NewCourtService(repo, repo),
		CustomerService:      services.NewCustomerService(repo, repo),
		ConfigurationService: services.NewConfigurationService(repo, uploader, logger),
		CompletionSweeper:    services.NewCompletionSweeper(repo, logger),
	}
}
