package bootstrap

import (
	"context"
	"strings"

	"github.com/gin-gonic/gin"

	"archreview-backend/internal/llm"
	"archreview-backend/internal/llm/bedrock"
	"archreview-backend/internal/reviews"
	"archreview-backend/internal/services/health"
	"archreview-backend/internal/shared/config"
	"archreview-backend/internal/shared/server"
	"archreview-backend/internal/shared/storage/object"
	localstore "archreview-backend/internal/shared/storage/object/local"
	s3store "archreview-backend/internal/shared/storage/object/s3"
)

// App holds shared dependencies.
type App struct {
	Config        config.Config
	Router        *gin.Engine
	Store         object.Store
	LLM           llm.Client
	ReviewService *reviews.Service
}

// Build prepares dependencies and wires the router.
func Build(ctx context.Context, cfg config.Config) (*App, error) {
	if strings.TrimSpace(cfg.Env) == "" {
		cfg.Env = "dev"
	}
	if strings.TrimSpace(cfg.ObjectStoreType) == "" {
		cfg.ObjectStoreType = "local"
	}

	store, err := buildStore(ctx, cfg)
	if err != nil {
		return nil, err
	}

	client, err := bedrock.NewClient(ctx, cfg.AWSRegion, cfg.BedrockModelID)
	if err != nil {
		return nil, err
	}

	reviewSvc := reviews.NewService(client, store)

	app := &App{
		Config:        cfg,
		Store:         store,
		LLM:           client,
		ReviewService: reviewSvc,
	}
	app.Router = server.NewRouter(cfg, reviewSvc, health.NewService())
	return app, nil
}

func buildStore(ctx context.Context, cfg config.Config) (object.Store, error) {
	switch cfg.ObjectStoreType {
	case "s3":
		return s3store.New(ctx, cfg.AWSRegion, cfg.S3Bucket, cfg.S3Prefix, cfg.SSEKMSKeyID)
	default:
		return localstore.New(cfg.LocalStoreDir), nil
	}
}
