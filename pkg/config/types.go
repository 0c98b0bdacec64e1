package config

import "time"

// AppConfig representa a configuração completa do serviço de consulta de operadoras.
// Cada campo pode vir do arquivo YAML (CONFIG_FILE_PATH) e ser sobrescrito por
// variáveis de ambiente.
type AppConfig struct {
	Service   ServiceConf   `yaml:"service"`
	Database  DatabaseConf  `yaml:"database"`
	Logging   LoggingConf   `yaml:"logging"`
	Metrics   MetricsConf   `yaml:"metrics"`
	Cache     CacheConf     `yaml:"cache"`
	CORS      CORSConf      `yaml:"cors"`
	RateLimit RateLimitConf `yaml:"rate_limit"`
}

// ServiceConf contém os metadados e configurações de runtime do serviço.
type ServiceConf struct {
	Name            string        `yaml:"name" env:"SERVICE_NAME" envDefault:"operadoras-api" validate:"required,hostname_rfc1123"`
	Runtime         string        `yaml:"runtime" env:"SERVICE_RUNTIME" envDefault:"local" validate:"required,oneof=local lambda ecs eks ec2"`
	Port            int           `yaml:"port" env:"SERVICE_PORT" envDefault:"8000" validate:"min=0,max=65535"`
	Timeout         time.Duration `yaml:"timeout" env:"SERVICE_TIMEOUT" envDefault:"30s" validate:"gt=0"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout" env:"SERVICE_SHUTDOWN_TIMEOUT" envDefault:"10s" validate:"gt=0"`
	MaxPageSize     int           `yaml:"max_page_size" env:"SERVICE_MAX_PAGE_SIZE" envDefault:"100" validate:"min=1"`
}

// DatabaseConf descreve a conexão com o PostgreSQL.
// A senha pode ser informada diretamente ou resolvida no AWS Secrets Manager
// (PasswordSecretID) ou no SSM Parameter Store (PasswordParameter).
type DatabaseConf struct {
	Host              string        `yaml:"host" env:"DB_HOST" envDefault:"localhost" validate:"required"`
	Port              int           `yaml:"port" env:"DB_PORT" envDefault:"5432" validate:"min=1,max=65535"`
	Name              string        `yaml:"name" env:"DB_NAME" envDefault:"intuitive_care_db" validate:"required"`
	User              string        `yaml:"user" env:"DB_USER" envDefault:"postgres" validate:"required"`
	Password          string        `yaml:"password" env:"DB_PASSWORD"`
	SSLMode           string        `yaml:"sslmode" env:"DB_SSLMODE" envDefault:"disable" validate:"oneof=disable require verify-ca verify-full"`
	PasswordSecretID  string        `yaml:"password_secret_id" env:"DB_PASSWORD_SECRET_ID"`
	PasswordParameter string        `yaml:"password_parameter" env:"DB_PASSWORD_SSM_PARAM"`
	AWSRegion         string        `yaml:"aws_region" env:"AWS_REGION"`
	MaxOpenConns      int           `yaml:"max_open_conns" env:"DB_MAX_OPEN_CONNS" envDefault:"10" validate:"min=1"`
	MaxIdleConns      int           `yaml:"max_idle_conns" env:"DB_MAX_IDLE_CONNS" envDefault:"5" validate:"min=0"`
	ConnMaxLifetime   time.Duration `yaml:"conn_max_lifetime" env:"DB_CONN_MAX_LIFETIME" envDefault:"30m"`
	QueryTimeout      time.Duration `yaml:"query_timeout" env:"DB_QUERY_TIMEOUT" envDefault:"5s" validate:"gt=0"`
}

// LoggingConf usa *bool em Enabled para que "enabled: false" no YAML não seja
// confundido com campo ausente e trocado pelo default.
type LoggingConf struct {
	Enabled *bool  `yaml:"enabled" env:"LOG_ENABLED" envDefault:"true"`
	Level   string `yaml:"level" env:"LOG_LEVEL" envDefault:"info" validate:"oneof=debug info warn error"`
	Format  string `yaml:"format" env:"LOG_FORMAT" envDefault:"json" validate:"oneof=json console"`
}

// IsEnabled trata ausência de configuração como habilitado.
func (l LoggingConf) IsEnabled() bool {
	return l.Enabled == nil || *l.Enabled
}

type MetricsConf struct {
	Datadog DatadogConf `yaml:"datadog"`
}

type DatadogConf struct {
	Enabled   bool   `yaml:"enabled" env:"DD_ENABLED"`
	Addr      string `yaml:"addr" env:"DD_AGENT_HOST" validate:"required_if=Enabled true"`
	Namespace string `yaml:"namespace" env:"DD_NAMESPACE" envDefault:"operadoras."`
}

// CacheConf habilita o cache Redis do dashboard quando Addr é informado.
type CacheConf struct {
	Addr     string        `yaml:"addr" env:"REDIS_ADDR" validate:"omitempty,hostname_port"`
	Password string        `yaml:"password" env:"REDIS_PASSWORD"`
	DB       int           `yaml:"db" env:"REDIS_DB" envDefault:"0" validate:"min=0"`
	TTL      time.Duration `yaml:"ttl" env:"CACHE_TTL" envDefault:"5m" validate:"gt=0"`
}

// Enabled indica se o cache Redis deve ser utilizado.
func (c CacheConf) Enabled() bool {
	return c.Addr != ""
}

type CORSConf struct {
	AllowedOrigins []string `yaml:"allowed_origins" env:"CORS_ALLOWED_ORIGINS" envDefault:"*" validate:"min=1,dive,required"`
}

// RateLimitConf limita requisições por segundo no processo. RPS zero desabilita.
type RateLimitConf struct {
	RPS   float64 `yaml:"rps" env:"RATE_LIMIT_RPS" envDefault:"0" validate:"min=0"`
	Burst int     `yaml:"burst" env:"RATE_LIMIT_BURST" envDefault:"20" validate:"min=0"`
}
