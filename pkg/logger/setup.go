package logger

import (
	"io"
	"os"
	"strings"
	"time"

	"github.com/raywall/operadoras-api/pkg/config"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// Configure inicializa o logger global a partir da configuração de logging.
// O logger retornado também é instalado como zerolog/log.Logger, usado pelos
// handlers via log.Ctx quando a requisição não carrega um logger próprio.
func Configure(cfg config.LoggingConf, service string) zerolog.Logger {
	return configure(cfg, service, os.Stdout)
}

func configure(cfg config.LoggingConf, service string, out io.Writer) zerolog.Logger {
	level, err := zerolog.ParseLevel(strings.ToLower(cfg.Level))
	if err != nil || cfg.Level == "" {
		level = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(level)

	// JSON para produção, console "bonito" para uso local
	output := out
	if !cfg.IsEnabled() {
		output = io.Discard
	} else if cfg.Format == "console" {
		output = zerolog.ConsoleWriter{Out: out, TimeFormat: time.RFC3339}
	}

	logger := zerolog.New(output).
		With().
		Timestamp().
		Str("service", service).
		Logger()

	log.Logger = logger
	zerolog.DefaultContextLogger = &log.Logger

	return logger
}
