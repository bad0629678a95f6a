package config

import (
	"github.com/kelseyhightower/envconfig"
)

// DatabaseConfig holds PostgreSQL database connection settings.
type DatabaseConfig struct {
	Host               string `envconfig:"DB_HOST"`
	Port               string `envconfig:"DB_PORT" default:"5432"`
	User               string `envconfig:"DB_USER"`
	Password           string `envconfig:"DB_PASSWORD"`
	Name               string `envconfig:"DB_NAME"`
	SSLMode            string `envconfig:"DB_SSLMODE" default:"disable"`
	MaxOpenConns       int    `envconfig:"DB_MAX_OPEN_CONNS" default:"10"`
	MaxIdleConns       int    `envconfig:"DB_MAX_IDLE_CONNS" default:"5"`
	ConnMaxLifetimeSec int    `envconfig:"DB_CONN_MAX_LIFETIME_SEC" default:"300"`
}

// MinIOConfig holds object storage settings for MinIO.
// PublicURL is the externally reachable base used to build file URLs; it defaults to the endpoint.
type MinIOConfig struct {
	Endpoint  string `envconfig:"MINIO_ENDPOINT"`
	AccessKey string `envconfig:"MINIO_ACCESS_KEY"`
	SecretKey string `envconfig:"MINIO_SECRET_KEY"`
	Bucket    string `envconfig:"MINIO_BUCKET"`
	UseSSL    bool   `envconfig:"MINIO_USE_SSL" default:"false"`
	PublicURL string `envconfig:"MINIO_PUBLIC_URL"`
}

// ReportConfig controls where generated rosters and invoices are written.
type ReportConfig struct {
	BaseDir  string `envconfig:"REPORT_BASE_DIR" default:"uploads"`
	Compress bool   `envconfig:"REPORT_PDF_COMPRESS" default:"true"`
}

// LogConfig controls the process logger.
type LogConfig struct {
	Level  string `envconfig:"LOG_LEVEL" default:"info"`
	Pretty bool   `envconfig:"LOG_PRETTY" default:"false"`
}

// TracingConfig mirrors the standard OTEL_* variables the tracer provider honours.
type TracingConfig struct {
	Disabled      bool    `envconfig:"OTEL_SDK_DISABLED" default:"false"`
	ServiceName   string  `envconfig:"OTEL_SERVICE_NAME" default:"secondopinion"`
	Protocol      string  `envconfig:"OTEL_EXPORTER_OTLP_PROTOCOL" default:"grpc"`
	Endpoint      string  `envconfig:"OTEL_EXPORTER_OTLP_ENDPOINT"`
	TraceEndpoint string  `envconfig:"OTEL_EXPORTER_OTLP_TRACES_ENDPOINT"`
	Sampler       string  `envconfig:"OTEL_TRACES_SAMPLER" default:"parentbased_traceidratio"`
	SamplerArg    float64 `envconfig:"OTEL_TRACES_SAMPLER_ARG" default:"1.0"`
}

// AppConfig is the centralized configuration struct for the application.
// It is populated from environment variables. Sensitive values are not hardcoded.
type AppConfig struct {
	AppHost  string `envconfig:"APP_HOST" default:"localhost:8080"`
	Port     string `envconfig:"PORT" default:"8080"`
	Database DatabaseConfig
	MinIO    MinIOConfig
	Report   ReportConfig
	Log      LogConfig
	Tracing  TracingConfig
}

// Load reads configuration from environment variables.
// A .env file can be auto-loaded by importing: _ "github.com/joho/godotenv/autoload"
// Real environment variables take precedence over .env values.
func Load() (*AppConfig, error) {
	var cfg AppConfig
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}
