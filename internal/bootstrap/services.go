package bootstrap

import (
	"database/sql"
	"log/slog"

	"github.com/redis/go-redis/v9"

	"github.com/flashbackfa/entreprise-api/config"
	"github.com/flashbackfa/entreprise-api/internal/data"
	"github.com/flashbackfa/entreprise-api/internal/observability/metrics"
	"github.com/flashbackfa/entreprise-api/internal/service"
)

// ServiceContainer holds all application services.
type ServiceContainer struct {
	Auth        *service.AuthService
	Enterprises *service.EnterpriseService
	Dotations   *service.DotationService
	Impots      *service.ImpotsService
	Blanchiment *service.BlanchimentService
	Archives    *service.ArchiveService
	Documents   *service.DocumentService
	Metrics     *metrics.Metrics
}

// ServiceDeps groups dependencies for service initialization.
type ServiceDeps struct {
	Config      *config.AppConfig
	DB          *sql.DB
	RedisClient redis.UniversalClient
	Logger      *slog.Logger
}

// serviceRepositories groups data adapters backing service ports.
type serviceRepositories struct {
	Enterprises *data.EnterpriseRepo
	Dotations   *data.DotationRepo
	TaxBrackets *data.TaxBracketRepo
	Blanchiment *data.BlanchimentRepo
	Archives    *data.ArchiveRepo
	Documents   *data.DocumentRepo
}

func buildRepositories(db *sql.DB) serviceRepositories {
	return serviceRepositories{
		Enterprises: data.NewEnterpriseRepo(db),
		Dotations:   data.NewDotationRepo(db),
		TaxBrackets: data.NewTaxBracketRepo(db),
		Blanchiment: data.NewBlanchimentRepo(db),
		Archives:    data.NewArchiveRepo(db),
		Documents:   data.NewDocumentRepo(db),
	}
}

// BuildServices wires repositories and adapters into the service container.
func BuildServices(deps ServiceDeps) ServiceContainer {
	logger := deps.Logger
	if logger == nil {
		logger = slog.Default()
	}

	repos := buildRepositories(deps.DB)

	var authCfg config.AuthConfig
	if deps.Config != nil {
		authCfg = deps.Config.Auth
	}

	auth := BuildAuthService(AuthConfig{
		Auth:        authCfg,
		RedisClient: deps.RedisClient,
		Logger:      logger,
	})

	return ServiceContainer{
		Auth: auth,
		Enterprises: service.NewEnterpriseService(service.EnterpriseServiceOptions{
			Enterprises: repos.Enterprises,
		}),
		Dotations: service.NewDotationService(service.DotationServiceOptions{
			Reports:     repos.Dotations,
			Enterprises: repos.Enterprises,
		}),
		Impots: service.NewImpotsService(repos.TaxBrackets),
		Blanchiment: service.NewBlanchimentService(service.BlanchimentServiceOptions{
			Operations:  repos.Blanchiment,
			Enterprises: repos.Enterprises,
		}),
		Archives: service.NewArchiveService(service.ArchiveServiceOptions{
			Archives: repos.Archives,
		}),
		Documents: service.NewDocumentService(service.DocumentServiceOptions{
			Documents: repos.Documents,
		}),
		Metrics: metrics.New(),
	}
}
