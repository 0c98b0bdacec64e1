// Package database abre o handle PostgreSQL usado pelos repositórios.
package database

import (
	"context"
	"database/sql"
	"fmt"
	"net"
	"net/url"
	"strconv"

	_ "github.com/lib/pq" // Driver Postgres
	"github.com/raywall/operadoras-api/pkg/config"
	"github.com/rs/zerolog/log"
)

// DriverName é o nome registrado pelo lib/pq no database/sql.
const DriverName = "postgres"

// DSN monta a connection string no formato URL aceito pelo lib/pq.
// Usuário e senha são escapados, então caracteres como '@' e '/' são seguros.
func DSN(cfg config.DatabaseConf) string {
	u := url.URL{
		Scheme: "postgres",
		Host:   net.JoinHostPort(cfg.Host, strconv.Itoa(cfg.Port)),
		Path:   "/" + cfg.Name,
	}
	if cfg.Password != "" {
		u.User = url.UserPassword(cfg.User, cfg.Password)
	} else {
		u.User = url.User(cfg.User)
	}

	q := url.Values{}
	sslMode := cfg.SSLMode
	if sslMode == "" {
		sslMode = "disable"
	}
	q.Set("sslmode", sslMode)
	if cfg.QueryTimeout > 0 {
		q.Set("connect_timeout", strconv.Itoa(max(1, int(cfg.QueryTimeout.Seconds()))))
	}
	u.RawQuery = q.Encode()

	return u.String()
}

// Open cria o pool de conexões. A indisponibilidade do banco na subida não é
// fatal: o erro é registrado e cada requisição passa a responder 500 até o
// banco voltar.
func Open(ctx context.Context, cfg config.DatabaseConf) (*sql.DB, error) {
	db, err := sql.Open(DriverName, DSN(cfg))
	if err != nil {
		return nil, fmt.Errorf("erro ao abrir conexão SQL: %w", err)
	}

	db.SetMaxOpenConns(cfg.MaxOpenConns)
	db.SetMaxIdleConns(cfg.MaxIdleConns)
	db.SetConnMaxLifetime(cfg.ConnMaxLifetime)

	if err := Ping(ctx, db, cfg); err != nil {
		log.Ctx(ctx).Warn().Err(err).
			Str("host", cfg.Host).
			Str("database", cfg.Name).
			Msg("banco indisponível na inicialização")
	}

	return db, nil
}

// Pinger é satisfeito por *sql.DB.
type Pinger interface {
	PingContext(ctx context.Context) error
}

// Ping verifica a conexão respeitando o timeout de query configurado.
func Ping(ctx context.Context, db Pinger, cfg config.DatabaseConf) error {
	ctxDb, cancel := context.WithTimeout(ctx, cfg.QueryTimeout)
	defer cancel()

	if err := db.PingContext(ctxDb); err != nil {
		return fmt.Errorf("erro ao conectar no banco: %w", err)
	}
	return nil
}
