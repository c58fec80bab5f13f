package main

import (
	"context"
	"os"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/vfg2006/sales-prediction-dashboard/infrastructure/chart"
	"github.com/vfg2006/sales-prediction-dashboard/infrastructure/database/postgres"
	"github.com/vfg2006/sales-prediction-dashboard/infrastructure/repository"
	"github.com/vfg2006/sales-prediction-dashboard/infrastructure/tabular"
	"github.com/vfg2006/sales-prediction-dashboard/internal/api"
	"github.com/vfg2006/sales-prediction-dashboard/internal/config"
	"github.com/vfg2006/sales-prediction-dashboard/internal/scheduler"
	"github.com/vfg2006/sales-prediction-dashboard/internal/usecases/dashboarding"
	"github.com/vfg2006/sales-prediction-dashboard/internal/usecases/loading"
	"github.com/vfg2006/sales-prediction-dashboard/pkg/metrics"
)

func main() {
	// Inicializa configuração de logs
	configureLogger()

	cfg, err := config.NewConfig()
	if err != nil {
		logrus.Fatal(err)
	}

	// Define o nível de log com base na configuração
	logLevel, err := logrus.ParseLevel(cfg.App.LogLevel)
	if err != nil {
		logrus.Warnf("Nível de log inválido: %s, usando 'info'", cfg.App.LogLevel)
		logLevel = logrus.InfoLevel
	}
	logrus.SetLevel(logLevel)
	logrus.Infof("Nível de log configurado para: %s", logLevel)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var reg *metrics.Registry
	if cfg.Metrics.Enabled {
		reg = metrics.NewRegistry()
	}

	reader := datasetReader(ctx, cfg)

	cachedLoader := loading.NewCachedLoader(loading.NewLoader(reader, reg), reg)
	dashboardService := dashboarding.NewDashboardService(cachedLoader, cfg.Dataset, reg)

	// Os dois datasets precisam existir antes de aceitar requisições
	if err := dashboardService.Warmup(ctx); err != nil {
		logrus.WithError(err).Fatal("Erro ao carregar os datasets de vendas")
	}

	if _, err := os.Stat(cfg.App.LogoPath); err != nil {
		logrus.WithError(err).WithField("logo_path", cfg.App.LogoPath).Fatal("Logo do dashboard não encontrado")
	}

	renderer := chart.NewRenderer(cfg.Chart.Width, cfg.Chart.Height, reg)

	datasetAuditService := scheduler.NewDatasetAuditService(cachedLoader, reader, reg, cfg)
	if err := datasetAuditService.Start(ctx); err != nil {
		logrus.WithError(err).Error("Erro ao iniciar o agendador de auditoria de datasets")
	} else {
		logrus.Info("Agendador de auditoria de datasets iniciado com sucesso")
	}

	server, err := api.New(cfg, dashboardService, renderer, datasetAuditService, reg)
	if err != nil {
		logrus.Fatal(err)
	}

	if err := server.Run(ctx); err != nil {
		logrus.Error(err)
	}
}

// configureLogger configura o formato e comportamento dos logs
func configureLogger() {
	logrus.SetFormatter(&logrus.TextFormatter{
		FullTimestamp:   true,
		TimestampFormat: time.RFC3339,
	})
}

// datasetReader escolhe a fonte dos datasets: arquivos locais ou tabelas do PostgreSQL
func datasetReader(ctx context.Context, cfg *config.Config) tabular.Reader {
	if cfg.Dataset.Source != config.DatasetSourcePostgres {
		logrus.Info("Lendo datasets de arquivos locais")
		return tabular.NewFileReader()
	}

	pgConn := pgconn(ctx, cfg.Database)
	go func() {
		<-ctx.Done()
		pgConn.Close()
	}()

	logrus.Info("Lendo datasets de tabelas do PostgreSQL")
	return repository.NewSalesTableRepository(pgConn)
}

// pgconn cria uma conexão com o banco de dados
func pgconn(ctx context.Context, dbConfig config.Database) *postgres.Connection {
	conn, err := postgres.NewConnection(ctx, dbConfig)
	if err != nil {
		logrus.WithError(err).Fatal("Erro ao conectar ao PostgreSQL")
	}

	err = conn.Ping(ctx)
	if err != nil {
		logrus.WithError(err).Fatal("Erro ao testar conexão com PostgreSQL")
	}

	logrus.Info("Conexão com PostgreSQL estabelecida com sucesso")
	return conn
}
