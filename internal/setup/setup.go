package setup

import (
	"context"

	"github.com/redis/go-redis/v9"

	"github.com/profwarlock/warlock/internal/astro"
	"github.com/profwarlock/warlock/internal/config"
	"github.com/profwarlock/warlock/internal/dedup"
	"github.com/profwarlock/warlock/internal/extract"
	"github.com/profwarlock/warlock/internal/geocode"
	"github.com/profwarlock/warlock/internal/handler"
	"github.com/profwarlock/warlock/internal/logger"
	"github.com/profwarlock/warlock/internal/mailer"
	"github.com/profwarlock/warlock/internal/objstore"
	"github.com/profwarlock/warlock/internal/pipeline"
	"github.com/profwarlock/warlock/internal/poster"
)

// Dependencies holds all initialized application components.
type Dependencies struct {
	Config   *config.Config
	Handler  *handler.Handler
	Pipeline *pipeline.Pipeline

	redis *redis.Client
}

// SetupDependencies wires the whole service from configuration.
func SetupDependencies(cfg *config.Config) (*Dependencies, error) {
	composer, err := poster.NewComposer(cfg.Public.Assets)
	if err != nil {
		return nil, err
	}

	qa := extract.NewHTTPQAClient(cfg.Public.QAEndpoint, cfg.Private.QAToken)
	go qa.Warmup(context.Background())

	extractor := extract.New(qa)
	geocoder := geocode.NewNominatim()
	charts := astro.NewService(*cfg.Public.UTCOffsetHours)
	sender := mailer.NewPostmarkClient(cfg.Private.PostmarkToken, cfg.Public.FromEmail, cfg.Public.SenderName)

	var store objstore.Store
	if cfg.Public.Storage.Endpoint != "" {
		store, err = objstore.NewMinioStore(cfg.Public.Storage, cfg.Private.StorageAccessKey, cfg.Private.StorageSecretKey)
		if err != nil {
			return nil, err
		}
	} else {
		logger.Log.Info("object storage disabled, posters will not be archived")
	}

	var rdb *redis.Client
	var filter pipeline.Deduper
	if cfg.Public.Redis.Addr != "" {
		rdb = redis.NewClient(&redis.Options{
			Addr:     cfg.Public.Redis.Addr,
			Password: cfg.Private.RedisPassword,
		})
		filter = dedup.NewFilter(rdb, cfg.Public.Redis.DedupTTL)
	} else {
		logger.Log.Info("redis disabled, duplicate deliveries will be reprocessed")
	}

	p := pipeline.New(pipeline.Deps{
		Extractor:   extractor,
		Geocoder:    geocoder,
		Charts:      charts,
		Composer:    composer,
		Sender:      sender,
		Store:       store,
		Dedup:       filter,
		DumpInbound: cfg.Public.SaveInboundEmails,
		DumpDir:     cfg.Public.InboundDumpDir,
	})

	h := handler.New(cfg, p, geocoder, charts, composer, store)

	return &Dependencies{
		Config:   cfg,
		Handler:  h,
		Pipeline: p,
		redis:    rdb,
	}, nil
}

// Close releases long-lived connections.
func (d *Dependencies) Close() error {
	if d.redis != nil {
		return d.redis.Close()
	}
	return nil
}
