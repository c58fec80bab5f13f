package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/joho/godotenv"
	"github.com/mitchellh/mapstructure"
	"github.com/sirupsen/logrus"
	"github.com/spf13/viper"
)

const (
	DatasetSourceFile     = "file"
	DatasetSourcePostgres = "postgres"
)

type Config struct {
	App          App          `mapstructure:",squash"`
	Server       Server       `mapstructure:",squash"`
	Database     Database     `mapstructure:",squash"`
	Dataset      Dataset      `mapstructure:",squash"`
	Chart        Chart        `mapstructure:",squash"`
	Metrics      Metrics      `mapstructure:",squash"`
	DatasetAudit DatasetAudit `mapstructure:",squash"`
}

type Server struct {
	Host               string   `mapstructure:"host"`
	Port               string   `mapstructure:"port"`
	CorsAllowedOrigins []string `mapstructure:"cors_allowed_origins"`
}

type Database struct {
	DSN      string `mapstructure:"-"`
	Driver   string `mapstructure:"database_driver"`
	Password string `mapstructure:"database_password"`
	URL      string `mapstructure:"database_url"`
	User     string `mapstructure:"database_user"`
}

type App struct {
	LogLevel string `mapstructure:"log_level"`
	LogoPath string `mapstructure:"logo_path"`
}

// Dataset define de onde vêm os dados de vendas e como são agregados
type Dataset struct {
	Source               string `mapstructure:"dataset_source"`
	PredictionPath       string `mapstructure:"dataset_prediction_path"`
	BeforePredictionPath string `mapstructure:"dataset_before_prediction_path"`
	TopProductsLimit     int    `mapstructure:"top_products_limit"`
}

type Chart struct {
	Width  int `mapstructure:"chart_width"`
	Height int `mapstructure:"chart_height"`
}

type Metrics struct {
	Enabled bool `mapstructure:"metrics_enabled"`
}

type DatasetAudit struct {
	CronSchedule string `mapstructure:"dataset_audit_cron"`
	Enabled      bool   `mapstructure:"dataset_audit_enabled"`
}

func SetDefaults() {
	viper.SetDefault("HOST", "localhost")
	viper.SetDefault("PORT", 8000)
	viper.SetDefault("CORS_ALLOWED_ORIGINS", "http://localhost:3000")

	viper.SetDefault("DATABASE_DRIVER", "postgres")
	viper.SetDefault("DATABASE_URL", "localhost:5432/sales?sslmode=disable")
	viper.SetDefault("DATABASE_USER", "postgres")
	viper.SetDefault("DATABASE_PASSWORD", "root")

	// Arquivos de entrada do dashboard
	viper.SetDefault("DATASET_SOURCE", DatasetSourceFile)
	viper.SetDefault("DATASET_PREDICTION_PATH", "Data_Prediction.csv")
	viper.SetDefault("DATASET_BEFORE_PREDICTION_PATH", "Data_Before_Prediction.csv")
	viper.SetDefault("TOP_PRODUCTS_LIMIT", 10)
	viper.SetDefault("LOGO_PATH", "logo.png")

	viper.SetDefault("CHART_WIDTH", 1024)
	viper.SetDefault("CHART_HEIGHT", 480)

	viper.SetDefault("METRICS_ENABLED", true)

	viper.SetDefault("DATASET_AUDIT_CRON", "*/30 * * * *") // A cada 30 minutos
	viper.SetDefault("DATASET_AUDIT_ENABLED", false)

	viper.SetDefault("LOG_LEVEL", "debug")
}

func NewConfig() (*Config, error) {
	// Primeiro carregar o arquivo .env usando godotenv
	loadEnvFile() // ONLY LOCAL

	config := &Config{}

	// Configurar valores padrão
	SetDefaults()

	// Configurar o Viper
	viper.SetConfigType("env")
	viper.SetConfigFile(".env")
	viper.AutomaticEnv() // Isso permite que o Viper leia variáveis de ambiente

	// Tentar ler o arquivo .env com o Viper (opcional, já que usamos godotenv)
	if err := viper.ReadInConfig(); err != nil {
		logrus.Info("Usando variáveis carregadas pelo godotenv (viper não conseguiu ler .env):", err)
	} else {
		logrus.Info("Arquivo .env lido pelo Viper com sucesso")
	}

	err := viper.Unmarshal(&config, viper.DecodeHook(
		mapstructure.ComposeDecodeHookFunc(
			mapstructure.StringToTimeDurationHookFunc(),
			mapstructure.StringToSliceHookFunc(","),
		),
	))
	if err != nil {
		return nil, err
	}

	if err := config.Validate(); err != nil {
		return nil, err
	}

	config.Database.DSN = fmt.Sprintf(
		"%s://%s:%s@%s",
		config.Database.Driver,
		config.Database.User,
		config.Database.Password,
		config.Database.URL,
	)

	return config, nil
}

// Validate verifica as combinações de configuração que impedem o dashboard de subir
func (c *Config) Validate() error {
	switch c.Dataset.Source {
	case DatasetSourceFile, DatasetSourcePostgres:
	default:
		return fmt.Errorf("config: DATASET_SOURCE inválido: %q (use %q ou %q)",
			c.Dataset.Source, DatasetSourceFile, DatasetSourcePostgres)
	}

	if c.Dataset.PredictionPath == "" || c.Dataset.BeforePredictionPath == "" {
		return fmt.Errorf("config: caminhos dos datasets são obrigatórios")
	}

	if c.Dataset.TopProductsLimit <= 0 {
		return fmt.Errorf("config: TOP_PRODUCTS_LIMIT deve ser positivo, recebido %d", c.Dataset.TopProductsLimit)
	}

	if c.Chart.Width <= 0 || c.Chart.Height <= 0 {
		return fmt.Errorf("config: dimensões de gráfico inválidas: %dx%d", c.Chart.Width, c.Chart.Height)
	}

	return nil
}

// Função auxiliar para carregar o arquivo .env usando godotenv
func loadEnvFile() {
	// Obter diretório atual
	cwd, err := os.Getwd()
	if err != nil {
		logrus.Warn("Não foi possível obter o diretório atual:", err)
		return
	}

	// Tentar várias localizações possíveis para o arquivo .env
	locations := []string{
		filepath.Join(cwd, ".env"),               // Diretório atual
		filepath.Join(filepath.Dir(cwd), ".env"), // Diretório pai
		filepath.Join(cwd, "../../.env"),         // Dois diretórios acima
	}

	for _, location := range locations {
		logrus.Debug("Tentando carregar .env de:", location)
		err := godotenv.Load(location)
		if err == nil {
			logrus.Info("Arquivo .env carregado com sucesso de:", location)
			return
		}
	}

	logrus.Warn("Não foi possível carregar o arquivo .env de nenhuma localização conhecida")
}
