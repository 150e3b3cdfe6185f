package services

import (
	"github.com/dropradar/dropstack/config"
	"github.com/dropradar/dropstack/interfaces"
	"github.com/dropradar/dropstack/internal/logger"
	"github.com/dropradar/dropstack/internal/repository"
	"github.com/dropradar/dropstack/services/availability"
	"github.com/dropradar/dropstack/services/events"
	"github.com/dropradar/dropstack/services/feed"
	"github.com/dropradar/dropstack/services/ingest"
	"github.com/dropradar/dropstack/services/scoring"
	"github.com/dropradar/dropstack/services/storage"
	"github.com/dropradar/dropstack/services/sweep"
)

type Services struct {
	StorageService      interfaces.StorageService
	EventPublisher      interfaces.EventPublisher
	FeedService         interfaces.FeedService
	ScoringService      interfaces.ScoringService
	AvailabilityService interfaces.AvailabilityService
	IngestService       interfaces.IngestService
	SweepService        interfaces.SweepService
}

func InitServices(cfg *config.Config, log logger.Logger, repos *repository.Repositories) (*Services, error) {
	var snapshotStorage interfaces.StorageService
	if cfg.R2StorageConfig.Configured() {
		snapshotStorage = storage.NewR2StorageService(cfg.R2StorageConfig)
	}

	var publisher interfaces.EventPublisher
	if cfg.AppConfig.RabbitMQURL != "" {
		publisherConfig := &events.PublisherConfig{
			MessageTTL:          events.DefaultMessageTTL,
			MaxRetries:          events.DefaultMaxRetries,
			PublishTimeout:      events.DefaultPublishTimeout,
			ReconnectBackoff:    events.DefaultReconnectBackoff,
			MaxReconnectBackoff: events.DefaultMaxReconnectBackoff,
		}
		var err error
		publisher, err = events.NewRabbitMQPublisher(cfg.AppConfig.RabbitMQURL, log, publisherConfig)
		if err != nil {
			return nil, err
		}
	}

	feedService := feed.NewFeedService(cfg.FeedConfig, log, snapshotStorage)
	scoringService := scoring.NewScoringService()
	availabilityService := availability.NewAvailabilityService(cfg.ValidationConfig, log)

	services := Services{
		StorageService:      snapshotStorage,
		EventPublisher:      publisher,
		FeedService:         feedService,
		ScoringService:      scoringService,
		AvailabilityService: availabilityService,
		IngestService: ingest.NewIngestService(
			cfg.IngestConfig,
			cfg.ValidationConfig,
			log,
			feedService,
			scoringService,
			availabilityService,
			repos.DomainRecordRepository,
			publisher,
		),
		SweepService: sweep.NewSweepService(cfg.SweepConfig, log, repos.DomainRecordRepository),
	}

	return &services, nil
}
