//go:build wireinject
// +build wireinject

package injector

import (
	"github.com/google/wire"

	"github.com/lk2023060901/osint-analysis-backend/internal/conf"
	"github.com/lk2023060901/osint-analysis-backend/internal/investigation/biz"
	"github.com/lk2023060901/osint-analysis-backend/internal/investigation/service"
	"github.com/lk2023060901/osint-analysis-backend/internal/pkg/logger"
	"github.com/lk2023060901/osint-analysis-backend/internal/server"
)

// ProviderSet is the Wire provider set for all dependencies
var ProviderSet = wire.NewSet(
	// Data layer
	dataProviderSet,

	// Use cases
	useCaseProviderSet,

	// HTTP services
	service.NewInvestigationService,

	// Servers
	server.NewHTTPServer,
)

// Data layer providers
var dataProviderSet = wire.NewSet(
	provideData,
	provideExportSink,
	provideInvestigationRepo,
)

// Use case providers
var useCaseProviderSet = wire.NewSet(
	provideSearcher,
	provideAdvisor,
	biz.NewInvestigationUseCase,
)

// InitializeApp initializes the application with Wire
func InitializeApp(config *conf.Config, log *logger.Logger) (*App, func(), error) {
	wire.Build(ProviderSet, newApp)
	return nil, nil, nil
}
