package scheduler

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/go-co-op/gocron"
	"github.com/sirupsen/logrus"
	"github.com/vfg2006/sales-prediction-dashboard/infrastructure/tabular"
	"github.com/vfg2006/sales-prediction-dashboard/internal/config"
	"github.com/vfg2006/sales-prediction-dashboard/internal/domain"
	"github.com/vfg2006/sales-prediction-dashboard/pkg/metrics"
)

// Status de cada dataset auditado
const (
	AuditStatusOK         = "ok"
	AuditStatusChanged    = "changed"
	AuditStatusUnreadable = "unreadable"
)

// CachedDatasets expõe os datasets já carregados em memória
type CachedDatasets interface {
	Cached() []*domain.Dataset
}

// AuditFinding é o resultado da auditoria de um dataset
type AuditFinding struct {
	Path        string            `json:"path"`
	Origin      domain.DataOrigin `json:"origin"`
	Status      string            `json:"status"`
	CachedRows  int               `json:"cached_rows"`
	CurrentRows int               `json:"current_rows"`
	LoadedAt    time.Time         `json:"loaded_at"`
	Error       string            `json:"error,omitempty"`
}

type DatasetAuditConfig struct {
	CronSchedule string
	Enabled      bool
}

// DatasetAuditService relê periodicamente os datasets e avisa quando a fonte
// divergiu do que está em cache. O cache nunca é alterado: o dashboard continua
// servindo os dados carregados na inicialização.
type DatasetAuditService struct {
	scheduler *gocron.Scheduler
	config    DatasetAuditConfig
	datasets  CachedDatasets
	reader    tabular.Reader
	metrics   *metrics.Registry

	auditRunning         bool
	auditMutex           sync.Mutex
	lastAuditStartedAt   time.Time
	lastAuditCompletedAt time.Time
	lastFindings         []AuditFinding
}

func NewDatasetAuditService(
	datasets CachedDatasets,
	reader tabular.Reader,
	reg *metrics.Registry,
	appConfig *config.Config,
) *DatasetAuditService {
	auditConfig := DatasetAuditConfig{
		CronSchedule: appConfig.DatasetAudit.CronSchedule,
		Enabled:      appConfig.DatasetAudit.Enabled,
	}

	logrus.WithFields(logrus.Fields{
		"cron_schedule": auditConfig.CronSchedule,
		"audit_enabled": auditConfig.Enabled,
	}).Info("Configuração da auditoria de datasets carregada")

	return &DatasetAuditService{
		scheduler: gocron.NewScheduler(time.Local),
		config:    auditConfig,
		datasets:  datasets,
		reader:    reader,
		metrics:   reg,
	}
}

// Start inicia o agendador
func (s *DatasetAuditService) Start(ctx context.Context) error {
	if !s.config.Enabled {
		logrus.Info("Auditoria de datasets desabilitada por configuração")
		return nil
	}

	logrus.WithField("cron", s.config.CronSchedule).Info("Iniciando agendador de auditoria de datasets")

	_, err := s.scheduler.Cron(s.config.CronSchedule).Do(func() {
		s.audit(context.Background())
	})
	if err != nil {
		return fmt.Errorf("erro ao agendar auditoria de datasets: %w", err)
	}

	s.scheduler.StartAsync()

	go func() {
		<-ctx.Done()
		logrus.Info("Parando agendador de auditoria de datasets")
		s.scheduler.Stop()
	}()

	return nil
}

// audit compara cada dataset em cache com uma nova leitura da fonte
func (s *DatasetAuditService) audit(ctx context.Context) {
	s.auditMutex.Lock()
	if s.auditRunning {
		s.auditMutex.Unlock()
		logrus.Info("Auditoria de datasets já em andamento, ignorando")
		return
	}
	s.auditRunning = true
	s.lastAuditStartedAt = time.Now()
	s.auditMutex.Unlock()

	findings := make([]AuditFinding, 0)
	for _, dataset := range s.datasets.Cached() {
		finding := s.auditDataset(ctx, dataset)
		findings = append(findings, finding)

		entry := logrus.WithFields(logrus.Fields{
			"path_or_table":  finding.Path,
			"dataset_origin": finding.Origin,
			"cached_rows":    finding.CachedRows,
			"current_rows":   finding.CurrentRows,
		})

		switch finding.Status {
		case AuditStatusUnreadable:
			entry.WithField("error", finding.Error).Error("Dataset não pôde ser relido na auditoria")
		case AuditStatusChanged:
			entry.Warn("Dataset mudou desde o carregamento, reinicie o serviço para usar os novos dados")
		default:
			entry.Debug("Dataset sem alterações")
		}
	}

	if s.metrics != nil {
		s.metrics.AuditRuns.Inc()
	}

	s.auditMutex.Lock()
	s.auditRunning = false
	s.lastAuditCompletedAt = time.Now()
	s.lastFindings = findings
	s.auditMutex.Unlock()

	logrus.WithField("datasets", len(findings)).Info("Auditoria de datasets concluída")
}

func (s *DatasetAuditService) auditDataset(ctx context.Context, dataset *domain.Dataset) AuditFinding {
	finding := AuditFinding{
		Path:       dataset.Path,
		Origin:     dataset.Origin,
		Status:     AuditStatusOK,
		CachedRows: dataset.Stats.RowsRead,
		LoadedAt:   dataset.LoadedAt,
	}

	table, err := s.reader.ReadTable(ctx, dataset.Path)
	if err != nil {
		if s.metrics != nil {
			s.metrics.AuditFailures.Inc()
		}
		finding.Status = AuditStatusUnreadable
		finding.Error = err.Error()
		return finding
	}

	finding.CurrentRows = len(table.Rows)
	if finding.CurrentRows != finding.CachedRows {
		finding.Status = AuditStatusChanged
	}

	return finding
}

// TriggerManualSync inicia manualmente uma auditoria dos datasets
func (s *DatasetAuditService) TriggerManualSync() {
	s.auditMutex.Lock()
	if s.auditRunning {
		s.auditMutex.Unlock()
		logrus.Info("Auditoria de datasets já em andamento, ignorando solicitação manual")
		return
	}
	s.auditMutex.Unlock()

	logrus.Info("Iniciando auditoria manual de datasets")
	go s.audit(context.Background())
}

// GetStatus retorna o status atual da auditoria
func (s *DatasetAuditService) GetStatus() map[string]any {
	s.auditMutex.Lock()
	defer s.auditMutex.Unlock()

	findings := make([]AuditFinding, len(s.lastFindings))
	copy(findings, s.lastFindings)

	return map[string]any{
		"sync_running":           s.auditRunning,
		"sync_cron":              s.config.CronSchedule,
		"sync_enabled":           s.config.Enabled,
		"last_sync_started_at":   s.lastAuditStartedAt,
		"last_sync_completed_at": s.lastAuditCompletedAt,
		"last_findings":          findings,
	}
}
