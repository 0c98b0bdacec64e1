package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/aws/aws-lambda-go/lambda"
	"github.com/raywall/operadoras-api/pkg/cache"
	"github.com/raywall/operadoras-api/pkg/config"
	"github.com/raywall/operadoras-api/pkg/database"
	"github.com/raywall/operadoras-api/pkg/logger"
	"github.com/raywall/operadoras-api/pkg/metrics"
	"github.com/raywall/operadoras-api/pkg/observability"
	"github.com/raywall/operadoras-api/pkg/operadoras"
	"github.com/raywall/operadoras-api/pkg/secrets"
	"github.com/raywall/operadoras-api/pkg/transport"
	"github.com/rs/zerolog/log"
)

var (
	configPath string
	// Variáveis injetáveis para mocking
	serverStarter = transport.StartHTTPServer
	lambdaStarter = lambda.Start
)

func init() {
	// Opcional: sem arquivo a configuração vem só do ambiente
	configPath = os.Getenv("CONFIG_FILE_PATH")
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, configPath); err != nil {
		log.Fatal().Err(err).Msg("FATAL: falha ao executar o serviço")
	}
}

// run contém a lógica principal testável
func run(ctx context.Context, cfgPath string) error {
	// 1. Configuração (YAML + ambiente + placeholders ${env|ssm|secret.*})
	cfg, err := config.Load(cfgPath, expandPlaceholders(ctx))
	if err != nil {
		return err
	}

	// 2. Logger global e contextual
	logger.Configure(cfg.Logging, cfg.Service.Name)

	// 3. Senha do banco via Secrets Manager / SSM, quando configurado
	if err := secrets.ApplyDatabaseCredentials(ctx, &cfg.Database); err != nil {
		return err
	}

	// 4. Infraestrutura
	db, err := database.Open(ctx, cfg.Database)
	if err != nil {
		return err
	}
	defer db.Close()

	provider, err := observability.SetupMetrics(cfg.Metrics, cfg.Service.Name)
	if err != nil {
		return fmt.Errorf("falha ao configurar métricas: %w", err)
	}
	defer provider.Close()
	recorder := metrics.NewRecorder(provider)

	dashboardCache := cache.New(cfg.Cache)
	defer dashboardCache.Close()

	// 5. Domínio e transporte
	repo := operadoras.NewPostgresRepository(db, cfg.Database.QueryTimeout, recorder)
	svc := operadoras.NewService(repo, operadoras.Options{
		MaxPageSize: cfg.Service.MaxPageSize,
		Cache:       dashboardCache,
		CacheTTL:    cfg.Cache.TTL,
		Recorder:    recorder,
	})
	handler := transport.NewHandler(svc, cfg, recorder)

	// 6. Seleciona Runtime Strategy
	log.Info().
		Str("runtime", cfg.Service.Runtime).
		Bool("cache", cfg.Cache.Enabled()).
		Msg("serviço inicializado")

	switch cfg.Service.Runtime {
	case "local", "ec2", "ecs", "eks":
		return serverStarter(ctx, handler, cfg.Service)
	case "lambda":
		lambdaStarter(transport.NewLambdaHandler(handler).Handle)
		return nil
	default:
		return fmt.Errorf("runtime desconhecido: %s", cfg.Service.Runtime)
	}
}

func expandPlaceholders(ctx context.Context) config.Hook {
	return func(cfg *config.AppConfig) error {
		if err := secrets.NewInterpolator(cfg.Database.AWSRegion, nil, nil).Expand(ctx, cfg); err != nil {
			return fmt.Errorf("falha ao resolver placeholders da configuração: %w", err)
		}
		return nil
	}
}
