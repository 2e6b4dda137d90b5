package injector

import (
	"go.uber.org/zap"

	"github.com/lk2023060901/osint-analysis-backend/internal/conf"
	"github.com/lk2023060901/osint-analysis-backend/internal/data"
	"github.com/lk2023060901/osint-analysis-backend/internal/export"
	"github.com/lk2023060901/osint-analysis-backend/internal/investigation/biz"
	invdata "github.com/lk2023060901/osint-analysis-backend/internal/investigation/data"
	"github.com/lk2023060901/osint-analysis-backend/internal/pkg/logger"
	"github.com/lk2023060901/osint-analysis-backend/internal/pkg/workerpool"
	"github.com/lk2023060901/osint-analysis-backend/internal/server"
	"github.com/lk2023060901/osint-analysis-backend/internal/tips"
	"github.com/lk2023060901/osint-analysis-backend/internal/websearch"
	"github.com/lk2023060901/osint-analysis-backend/internal/websearch/provider"
)

// Data layer helpers

func provideData(config *conf.Config, log *logger.Logger) (*data.Data, func(), error) {
	return data.NewData(config, log)
}

func provideExportSink(config *conf.Config, log *logger.Logger) (export.Sink, func(), error) {
	return data.NewExportSink(config, log)
}

func provideInvestigationRepo(d *data.Data) biz.InvestigationRepo {
	return invdata.NewInvestigationRepo(d.Store)
}

// Use case helpers

// provideSearcher returns a nil Searcher when no provider is enabled, which
// disables the search endpoint.
func provideSearcher(config *conf.Config, log *logger.Logger) (biz.Searcher, func(), error) {
	providers, err := provider.NewFactory().CreateAll(config.Search.Providers)
	if err != nil {
		return nil, nil, err
	}
	if len(providers) == 0 {
		log.Warn("search disabled, no providers configured")
		return nil, func() {}, nil
	}

	pool, err := workerpool.New(&config.Search.Pool, log.Logger)
	if err != nil {
		return nil, nil, err
	}

	svc := websearch.NewService(providers, pool, config.Search.MaxResults, log)
	log.Info("search providers ready", zap.Strings("providers", svc.Providers()))
	return svc, pool.Shutdown, nil
}

func provideAdvisor(config *conf.Config, log *logger.Logger) tips.Advisor {
	return tips.NewAdvisor(&config.Tips, log)
}

func newApp(
	config *conf.Config,
	log *logger.Logger,
	httpServer *server.HTTPServer,
) *App {
	return &App{
		Config:     config,
		Logger:     log,
		HTTPServer: httpServer,
	}
}
