package cmd

import (
	"context"

	"github.com/Malowking/edugo/chart"
	"github.com/Malowking/edugo/core/cache"
	"github.com/Malowking/edugo/core/config"
	"github.com/Malowking/edugo/core/file_store"
	"github.com/Malowking/edugo/core/model"
	"github.com/Malowking/edugo/internal/controller/edugo"
	"github.com/Malowking/edugo/internal/dao"
	"github.com/Malowking/edugo/internal/history"
	"github.com/Malowking/edugo/internal/logic/chat"
	"github.com/Malowking/edugo/internal/logic/export"
	"github.com/Malowking/edugo/nl2sql/datasource"
	"github.com/Malowking/edugo/nl2sql/executor"
	"github.com/Malowking/edugo/nl2sql/generator"
	nl2sqlSchema "github.com/Malowking/edugo/nl2sql/schema"
	"github.com/Malowking/edugo/nl2sql/service"
	"github.com/gogf/gf/v2/frame/g"
	"github.com/redis/go-redis/v9"
)

// initComponents initializes all components of the application
func initComponents(ctx context.Context) (edugo.Deps, error) {
	// Validate configuration before initializing components
	g.Log().Info(ctx, "Validating application configuration...")
	settings := config.Load(ctx)
	if err := config.ValidateConfiguration(ctx, settings); err != nil {
		return edugo.Deps{}, err
	}

	// Initialize database
	if err := dao.InitDB(); err != nil {
		g.Log().Errorf(ctx, "Database connection initialization failed: %v", err)
		return edugo.Deps{}, err
	}

	// Initialize model gateway
	gateway, err := model.NewGateway(ctx, settings.LLM)
	if err != nil {
		g.Log().Errorf(ctx, "Model gateway initialization failed: %v", err)
		return edugo.Deps{}, err
	}
	g.Log().Infof(ctx, "Model gateway ready: provider=%s, model=%s", settings.LLM.Provider, settings.LLM.Model)

	// Initialize NL2SQL pipeline
	catalog := nl2sqlSchema.Students()
	exec := executor.NewExecutor(datasource.NewGormStore(dao.GetDB()), executor.Config{
		AdminToken:      settings.Security.AdminToken,
		MaxAffectedRows: settings.Security.MaxAffectedRows,
		MaxQueryRows:    settings.Security.MaxQueryRows,
		StoreTimeout:    settings.Security.StoreTimeout,
	})
	translator := service.NewTranslator(generator.NewSQLGenerator(catalog, gateway), exec)
	g.Log().Infof(ctx, "NL2SQL ready: catalog=%s", catalog.Version())

	// Initialize chart archive
	archive, err := file_store.NewStore(ctx, file_store.Options{
		Type:      settings.Archive.Backend,
		Dir:       settings.Archive.Dir,
		Endpoint:  settings.Archive.Endpoint,
		AccessKey: settings.Archive.AccessKey,
		SecretKey: settings.Archive.SecretKey,
		Bucket:    settings.Archive.Bucket,
		SSL:       settings.Archive.SSL,
	})
	if err != nil {
		g.Log().Errorf(ctx, "Chart archive initialization failed: %v", err)
		return edugo.Deps{}, err
	}
	renderer := chart.NewRenderer(settings.Chart.Width, settings.Chart.Height, settings.Chart.DPI)
	charts := chart.NewGenerator(gateway, renderer, archive)

	// Initialize session history
	var redisClient *redis.Client
	if settings.History.Backend == "redis" {
		if redisClient, err = cache.InitRedis(ctx); err != nil {
			return edugo.Deps{}, err
		}
	}
	store, err := history.NewStore(ctx, settings.History, redisClient)
	if err != nil {
		return edugo.Deps{}, err
	}

	router := chat.NewRouter(translator, charts, gateway, store, settings.LLM.Temperature, settings.LLM.MaxTokens)

	g.Log().Info(ctx, "✓ All components initialized successfully")
	return edugo.Deps{
		Router:     router,
		Translator: translator,
		Charts:     charts,
		Exporter:   export.NewExporter(settings.Export.Dir),
		History:    store,
	}, nil
}
