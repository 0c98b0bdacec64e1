package operadoras

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/raywall/operadoras-api/pkg/metrics"
	"github.com/shopspring/decimal"
)

// Repository abstrai o acesso às tabelas de operadoras e despesas.
type Repository interface {
	// ListOperadoras devolve a página pedida e o total de linhas do filtro.
	ListOperadoras(ctx context.Context, f ListFilter) ([]Operadora, int, error)
	// DespesasPorUF devolve as UFs com maior total de despesas, em ordem decrescente.
	DespesasPorUF(ctx context.Context, limit int) ([]DespesaUF, error)
	// FindCadastro devolve todas as colunas da operadora ou ErrNotFound.
	FindCadastro(ctx context.Context, registroANS string) (Cadastro, error)
	// HistoricoDespesas devolve as despesas do mais recente para o mais antigo.
	HistoricoDespesas(ctx context.Context, registroANS string) ([]Despesa, error)
	Ping(ctx context.Context) error
}

// PostgresRepository implementa Repository sobre database/sql + lib/pq.
// Cada método abre e libera seus recursos (rows, tx) em todos os caminhos de saída.
type PostgresRepository struct {
	db           *sql.DB
	queryTimeout time.Duration
	recorder     *metrics.Recorder
}

// NewPostgresRepository cria o repositório. recorder pode ser nil.
func NewPostgresRepository(db *sql.DB, queryTimeout time.Duration, recorder *metrics.Recorder) *PostgresRepository {
	if queryTimeout <= 0 {
		queryTimeout = 5 * time.Second
	}
	return &PostgresRepository{db: db, queryTimeout: queryTimeout, recorder: recorder}
}

// observe mede a duração de uma query nomeada e registra a métrica.
func (r *PostgresRepository) observe(name string, start time.Time, err error) {
	r.recorder.ObserveQuery(name, time.Since(start), err)
}

// ListOperadoras executa contagem e página na mesma transação somente leitura,
// garantindo que total e dados venham do mesmo snapshot.
func (r *PostgresRepository) ListOperadoras(ctx context.Context, f ListFilter) (result []Operadora, total int, err error) {
	start := time.Now()
	defer func() { r.observe("list_operadoras", start, err) }()

	ctxDb, cancel := context.WithTimeout(ctx, r.queryTimeout)
	defer cancel()

	tx, err := r.db.BeginTx(ctxDb, &sql.TxOptions{Isolation: sql.LevelRepeatableRead, ReadOnly: true})
	if err != nil {
		return nil, 0, dbError(ctxDb, "erro ao conectar no banco", err)
	}
	defer tx.Rollback()

	countSQL, countArgs := buildCountQuery(f.Search)
	if err := tx.QueryRowContext(ctxDb, countSQL, countArgs...).Scan(&total); err != nil {
		return nil, 0, dbError(ctxDb, "erro ao contar operadoras", err)
	}

	pageSQL, pageArgs := buildPageQuery(f)
	rows, err := tx.QueryContext(ctxDb, pageSQL, pageArgs...)
	if err != nil {
		return nil, 0, dbError(ctxDb, "erro ao listar operadoras", err)
	}
	defer rows.Close()

	result = make([]Operadora, 0, f.Limit)
	for rows.Next() {
		var (
			op                            Operadora
			cnpj, razaoSocial, modalidade sql.NullString
		)
		if err := rows.Scan(&op.RegistroANS, &cnpj, &razaoSocial, &modalidade); err != nil {
			return nil, 0, dbError(ctxDb, "erro ao ler operadora", err)
		}
		op.CNPJ = nullableString(cnpj)
		op.RazaoSocial = nullableString(razaoSocial)
		op.Modalidade = nullableString(modalidade)
		result = append(result, op)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, dbError(ctxDb, "erro ao listar operadoras", err)
	}

	return result, total, nil
}

func (r *PostgresRepository) DespesasPorUF(ctx context.Context, limit int) (result []DespesaUF, err error) {
	start := time.Now()
	defer func() { r.observe("despesas_por_uf", start, err) }()

	ctxDb, cancel := context.WithTimeout(ctx, r.queryTimeout)
	defer cancel()

	rows, err := r.db.QueryContext(ctxDb, queryDespesasPorUF, limit)
	if err != nil {
		return nil, dbError(ctxDb, "erro ao agregar despesas por UF", err)
	}
	defer rows.Close()

	result = make([]DespesaUF, 0, limit)
	for rows.Next() {
		var (
			item  DespesaUF
			total decimal.NullDecimal
		)
		if err := rows.Scan(&item.UF, &total); err != nil {
			return nil, dbError(ctxDb, "erro ao ler total por UF", err)
		}
		// SUM de uma UF só com valores nulos vem NULL
		item.Total = total.Decimal
		result = append(result, item)
	}
	if err := rows.Err(); err != nil {
		return nil, dbError(ctxDb, "erro ao agregar despesas por UF", err)
	}

	return result, nil
}

// FindCadastro faz o mapeamento dinâmico de colunas, já que SELECT * devolve
// colunas que este serviço não conhece.
func (r *PostgresRepository) FindCadastro(ctx context.Context, registroANS string) (cadastro Cadastro, err error) {
	start := time.Now()
	defer func() {
		if errors.Is(err, ErrNotFound) {
			r.observe("cadastro_operadora", start, nil)
			return
		}
		r.observe("cadastro_operadora", start, err)
	}()

	ctxDb, cancel := context.WithTimeout(ctx, r.queryTimeout)
	defer cancel()

	rows, err := r.db.QueryContext(ctxDb, queryCadastro, registroANS)
	if err != nil {
		return nil, dbError(ctxDb, "erro ao buscar operadora", err)
	}
	defer rows.Close()

	if !rows.Next() {
		if err := rows.Err(); err != nil {
			return nil, dbError(ctxDb, "erro ao buscar operadora", err)
		}
		return nil, ErrNotFound
	}

	columns, err := rows.Columns()
	if err != nil {
		return nil, dbError(ctxDb, "erro ao ler colunas", err)
	}

	values := make([]interface{}, len(columns))
	valuePtrs := make([]interface{}, len(columns))
	for i := range columns {
		valuePtrs[i] = &values[i]
	}
	if err := rows.Scan(valuePtrs...); err != nil {
		return nil, dbError(ctxDb, "erro ao ler operadora", err)
	}

	return rowToCadastro(columns, values), nil
}

func (r *PostgresRepository) HistoricoDespesas(ctx context.Context, registroANS string) (result []Despesa, err error) {
	start := time.Now()
	defer func() { r.observe("historico_despesas", start, err) }()

	ctxDb, cancel := context.WithTimeout(ctx, r.queryTimeout)
	defer cancel()

	rows, err := r.db.QueryContext(ctxDb, queryHistorico, registroANS)
	if err != nil {
		return nil, dbError(ctxDb, "erro ao buscar histórico de despesas", err)
	}
	defer rows.Close()

	result = make([]Despesa, 0)
	for rows.Next() {
		var d Despesa
		if err := rows.Scan(&d.Ano, &d.Trimestre, &d.ValorDespesa); err != nil {
			return nil, dbError(ctxDb, "erro ao ler despesa", err)
		}
		result = append(result, d)
	}
	if err := rows.Err(); err != nil {
		return nil, dbError(ctxDb, "erro ao buscar histórico de despesas", err)
	}

	return result, nil
}

func (r *PostgresRepository) Ping(ctx context.Context) error {
	ctxDb, cancel := context.WithTimeout(ctx, r.queryTimeout)
	defer cancel()
	return r.db.PingContext(ctxDb)
}

// dbError anexa o erro do contexto quando o deadline (ou cancelamento) é a
// causa da falha, para que timeout não seja confundido com erro do banco.
func dbError(ctx context.Context, msg string, err error) error {
	if ctxErr := ctx.Err(); ctxErr != nil && !errors.Is(err, ctxErr) {
		return fmt.Errorf("%s: %w (%w)", msg, err, ctxErr)
	}
	return fmt.Errorf("%s: %w", msg, err)
}

// rowToCadastro converte []byte (numeric, bpchar...) em string para que o JSON
// não saia em base64.
func rowToCadastro(columns []string, values []interface{}) Cadastro {
	entry := make(Cadastro, len(columns))
	for i, col := range columns {
		if b, ok := values[i].([]byte); ok {
			entry[col] = string(b)
			continue
		}
		entry[col] = values[i]
	}
	return entry
}

func nullableString(ns sql.NullString) *string {
	if !ns.Valid {
		return nil
	}
	s := ns.String
	return &s
}
