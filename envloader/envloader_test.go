package envloader

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	type Config struct {
		Host     string  `env:"DB_HOST" envDefault:"localhost"`
		Port     int     `env:"DB_PORT" envDefault:"5432"`
		MaxConns int32   `env:"DB_MAX_OPEN_CONNS" envDefault:"10"`
		Idle     uint    `env:"DB_MAX_IDLE_CONNS" envDefault:"5"`
		Debug    bool    `env:"DEBUG" envDefault:"false"`
		Ratio    float64 `env:"RATE_LIMIT_RPS" envDefault:"2.5"`
	}

	config := &Config{}
	require.NoError(t, Load(config))

	assert.Equal(t, "localhost", config.Host)
	assert.Equal(t, 5432, config.Port)
	assert.Equal(t, int32(10), config.MaxConns)
	assert.Equal(t, uint(5), config.Idle)
	assert.False(t, config.Debug)
	assert.Equal(t, 2.5, config.Ratio)
}

func TestLoad_EnvironmentOverridesDefault(t *testing.T) {
	type Config struct {
		Host  string `env:"DB_HOST" envDefault:"localhost"`
		Port  int    `env:"DB_PORT" envDefault:"5432"`
		Debug bool   `env:"DEBUG" envDefault:"false"`
	}

	t.Setenv("DB_HOST", "postgres.interno")
	t.Setenv("DB_PORT", "6543")
	t.Setenv("DEBUG", "TRUE")

	config := &Config{}
	require.NoError(t, Load(config))

	assert.Equal(t, "postgres.interno", config.Host)
	assert.Equal(t, 6543, config.Port)
	assert.True(t, config.Debug)
}

func TestLoad_EmptyEnvFallsBackToDefault(t *testing.T) {
	type Config struct {
		Name string `env:"SERVICE_NAME" envDefault:"operadoras-api"`
		Note string `env:"SERVICE_NOTE"`
	}

	t.Setenv("SERVICE_NAME", "")

	config := &Config{}
	require.NoError(t, Load(config))
	assert.Equal(t, "operadoras-api", config.Name)
	assert.Equal(t, "", config.Note)
}

func TestLoad_FieldsWithoutTagAreIgnored(t *testing.T) {
	type Config struct {
		Host   string `env:"DB_HOST" envDefault:"localhost"`
		Source string
	}

	config := &Config{Source: "yaml"}
	require.NoError(t, Load(config))
	assert.Equal(t, "yaml", config.Source)
}

func TestLoad_NestedStructs(t *testing.T) {
	type Database struct {
		Host string `env:"DB_HOST" envDefault:"localhost"`
		Name string `env:"DB_NAME" envDefault:"intuitive_care_db"`
	}
	type Cache struct {
		Addr string `env:"REDIS_ADDR"`
	}
	type AppConfig struct {
		Database Database
		Cache    *Cache
		Port     int `env:"SERVICE_PORT" envDefault:"8000"`
	}

	t.Setenv("REDIS_ADDR", "localhost:6379")

	config := &AppConfig{}
	require.NoError(t, Load(config))

	assert.Equal(t, "localhost", config.Database.Host)
	assert.Equal(t, "intuitive_care_db", config.Database.Name)
	require.NotNil(t, config.Cache)
	assert.Equal(t, "localhost:6379", config.Cache.Addr)
	assert.Equal(t, 8000, config.Port)
}

func TestLoad_InvalidConfig(t *testing.T) {
	var notPointer string
	err := Load(notPointer)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "pointer to struct")

	var notStruct int
	err = Load(&notStruct)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "got pointer to int")
}

func TestLoad_ConversionErrors(t *testing.T) {
	type Config struct {
		Port int `env:"DB_PORT" envDefault:"cinco-quatro"`
	}

	err := Load(&Config{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "error setting field Port")

	var fieldErr *FieldError
	require.ErrorAs(t, err, &fieldErr)
	assert.Equal(t, "cinco-quatro", fieldErr.Value)
	assert.Error(t, fieldErr.Unwrap())
}

func TestMustLoad(t *testing.T) {
	type Config struct {
		Port int `env:"SERVICE_PORT" envDefault:"8000"`
	}

	config := &Config{}
	assert.NotPanics(t, func() { MustLoad(config) })
	assert.Equal(t, 8000, config.Port)

	assert.Panics(t, func() { MustLoad("não é ponteiro") })
}

func TestLoad_DurationAndSliceFields(t *testing.T) {
	type Config struct {
		Timeout time.Duration `env:"QUERY_TIMEOUT" envDefault:"5s"`
		Origins []string      `env:"ALLOWED_ORIGINS" envDefault:"*"`
	}

	config := &Config{}
	require.NoError(t, Load(config))
	assert.Equal(t, 5*time.Second, config.Timeout)
	assert.Equal(t, []string{"*"}, config.Origins)

	t.Setenv("QUERY_TIMEOUT", "250ms")
	t.Setenv("ALLOWED_ORIGINS", "http://localhost:5173, https://painel.exemplo.com.br,")

	config2 := &Config{}
	require.NoError(t, Load(config2))
	assert.Equal(t, 250*time.Millisecond, config2.Timeout)
	assert.Equal(t, []string{"http://localhost:5173", "https://painel.exemplo.com.br"}, config2.Origins)
}

func TestLoad_InvalidDuration(t *testing.T) {
	type Config struct {
		Timeout time.Duration `env:"QUERY_TIMEOUT" envDefault:"cinco"`
	}

	err := Load(&Config{})
	require.Error(t, err)

	var fieldErr *FieldError
	require.ErrorAs(t, err, &fieldErr)
	assert.Equal(t, "QUERY_TIMEOUT", fieldErr.EnvVar)
}

func TestLoad_PrefilledFieldKeepsValue(t *testing.T) {
	type Config struct {
		Host string `env:"DB_HOST" envDefault:"localhost"`
		Port int    `env:"DB_PORT" envDefault:"5432"`
	}

	// Simula valores vindos de um arquivo YAML
	config := &Config{Host: "db.interno", Port: 6543}
	require.NoError(t, Load(config))
	assert.Equal(t, "db.interno", config.Host)
	assert.Equal(t, 6543, config.Port)

	t.Setenv("DB_HOST", "db.ambiente")
	require.NoError(t, Load(config))
	assert.Equal(t, "db.ambiente", config.Host)
}

func TestLoad_RequiredField(t *testing.T) {
	type Config struct {
		Password string `env:"DB_PASSWORD_REQUIRED_TEST" envRequired:"true"`
	}

	err := Load(&Config{})
	var missing *MissingRequiredError
	require.ErrorAs(t, err, &missing)
	assert.Contains(t, err.Error(), "DB_PASSWORD_REQUIRED_TEST")

	t.Setenv("DB_PASSWORD_REQUIRED_TEST", "segredo")
	config := &Config{}
	require.NoError(t, Load(config))
	assert.Equal(t, "segredo", config.Password)
}

func TestLoad_UnsupportedSlice(t *testing.T) {
	type Config struct {
		Ports []int `env:"PORTS" envDefault:"1,2"`
	}

	err := Load(&Config{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unsupported type")
}

func TestLoad_PointerFieldsKeepExplicitFalse(t *testing.T) {
	type Config struct {
		Enabled *bool `env:"LOG_ENABLED_PTR_TEST" envDefault:"true"`
		Retries *int  `env:"DB_RETRIES_PTR_TEST"`
	}

	// Ausente: recebe o default
	config := &Config{}
	require.NoError(t, Load(config))
	require.NotNil(t, config.Enabled)
	assert.True(t, *config.Enabled)
	assert.Nil(t, config.Retries)

	// false explícito (ex: YAML) não é trocado pelo default
	disabled := false
	config = &Config{Enabled: &disabled}
	require.NoError(t, Load(config))
	assert.False(t, *config.Enabled)

	t.Setenv("LOG_ENABLED_PTR_TEST", "false")
	t.Setenv("DB_RETRIES_PTR_TEST", "3")
	config = &Config{}
	require.NoError(t, Load(config))
	assert.False(t, *config.Enabled)
	require.NotNil(t, config.Retries)
	assert.Equal(t, 3, *config.Retries)

	t.Setenv("DB_RETRIES_PTR_TEST", "três")
	var fieldErr *FieldError
	assert.ErrorAs(t, Load(&Config{}), &fieldErr)
}
