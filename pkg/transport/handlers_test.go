package transport

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/raywall/operadoras-api/pkg/config"
	"github.com/raywall/operadoras-api/pkg/operadoras"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// stubRepository implementa operadoras.Repository com respostas fixas.
type stubRepository struct {
	page     []operadoras.Operadora
	total    int
	porUF    []operadoras.DespesaUF
	cadastro map[string]operadoras.Cadastro
	despesas map[string][]operadoras.Despesa
	err      error
	panics   bool
	// waitCtx faz ListOperadoras bloquear até o contexto da requisição expirar
	waitCtx bool

	lastFilter operadoras.ListFilter
}

func (s *stubRepository) ListOperadoras(ctx context.Context, f operadoras.ListFilter) ([]operadoras.Operadora, int, error) {
	if s.panics {
		panic("driver quebrado")
	}
	s.lastFilter = f
	if s.waitCtx {
		<-ctx.Done()
		return nil, 0, fmt.Errorf("erro ao listar operadoras: %w", ctx.Err())
	}
	if s.err != nil {
		return nil, 0, s.err
	}
	if len(s.page) > f.Limit {
		return s.page[:f.Limit], s.total, nil
	}
	return s.page, s.total, nil
}

func (s *stubRepository) DespesasPorUF(ctx context.Context, limit int) ([]operadoras.DespesaUF, error) {
	if s.err != nil {
		return nil, s.err
	}
	return s.porUF, nil
}

func (s *stubRepository) FindCadastro(ctx context.Context, registroANS string) (operadoras.Cadastro, error) {
	if s.err != nil {
		return nil, s.err
	}
	c, ok := s.cadastro[registroANS]
	if !ok {
		return nil, operadoras.ErrNotFound
	}
	return c, nil
}

func (s *stubRepository) HistoricoDespesas(ctx context.Context, registroANS string) ([]operadoras.Despesa, error) {
	return s.despesas[registroANS], nil
}

func (s *stubRepository) Ping(ctx context.Context) error { return s.err }

func testConfig() *config.AppConfig {
	return &config.AppConfig{
		Service: config.ServiceConf{Timeout: 5 * time.Second, MaxPageSize: 100},
		CORS:    config.CORSConf{AllowedOrigins: []string{"*"}},
	}
}

func newTestHandler(repo operadoras.Repository, cfg *config.AppConfig) http.Handler {
	svc := operadoras.NewService(repo, operadoras.Options{MaxPageSize: cfg.Service.MaxPageSize})
	return NewHandler(svc, cfg, nil)
}

func doRequest(h http.Handler, method, target string) *httptest.ResponseRecorder {
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, httptest.NewRequest(method, target, nil))
	return rr
}

func decodeBody(t *testing.T, rr *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &body))
	return body
}

func operadorasFixture(n int) []operadoras.Operadora {
	out := make([]operadoras.Operadora, n)
	for i := range out {
		razao := "UNIMED " + strings.Repeat("X", i+1)
		out[i] = operadoras.Operadora{RegistroANS: strings.Repeat("1", i+1), RazaoSocial: &razao}
	}
	return out
}

func TestStatus(t *testing.T) {
	rr := doRequest(newTestHandler(&stubRepository{}, testConfig()), http.MethodGet, "/")

	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, contentTypeJSON, rr.Header().Get("Content-Type"))
	assert.JSONEq(t, `{"status": "API Online"}`, rr.Body.String())
}

func TestListOperadoras(t *testing.T) {
	t.Run("Exemplo page=1 limit=10 search=Unimed com 23 resultados", func(t *testing.T) {
		repo := &stubRepository{page: operadorasFixture(23), total: 23}
		rr := doRequest(newTestHandler(repo, testConfig()), http.MethodGet, "/operadoras?page=1&limit=10&search=Unimed")

		require.Equal(t, http.StatusOK, rr.Code)
		body := decodeBody(t, rr)
		assert.Len(t, body["data"], 10)
		assert.Equal(t, float64(23), body["total"])
		assert.Equal(t, float64(1), body["page"])
		assert.Equal(t, float64(10), body["limit"])
		assert.Equal(t, float64(3), body["total_pages"])
		assert.Equal(t, operadoras.ListFilter{Search: "Unimed", Limit: 10, Offset: 0}, repo.lastFilter)
	})

	t.Run("Defaults sem parâmetros", func(t *testing.T) {
		repo := &stubRepository{total: 0}
		rr := doRequest(newTestHandler(repo, testConfig()), http.MethodGet, "/operadoras")

		require.Equal(t, http.StatusOK, rr.Code)
		assert.JSONEq(t, `{"data": [], "total": 0, "page": 1, "limit": 10, "total_pages": 1}`, rr.Body.String())
	})

	t.Run("Total múltiplo exato do limite", func(t *testing.T) {
		repo := &stubRepository{page: operadorasFixture(10), total: 20}
		rr := doRequest(newTestHandler(repo, testConfig()), http.MethodGet, "/operadoras?page=2&limit=10")

		require.Equal(t, http.StatusOK, rr.Code)
		assert.Equal(t, float64(2), decodeBody(t, rr)["total_pages"])
		assert.Equal(t, 10, repo.lastFilter.Offset)
	})

	t.Run("Busca é repassada sem interpretação", func(t *testing.T) {
		repo := &stubRepository{}
		rr := doRequest(newTestHandler(repo, testConfig()), http.MethodGet, "/operadoras?search=S%C3%A3o%20Paulo%25")

		require.Equal(t, http.StatusOK, rr.Code)
		assert.Equal(t, "São Paulo%", repo.lastFilter.Search)
	})

	for _, target := range []string{
		"/operadoras?page=abc",
		"/operadoras?limit=dez",
		"/operadoras?page=0",
		"/operadoras?limit=0",
		"/operadoras?limit=-3",
		"/operadoras?limit=101",
		"/operadoras?page=9223372036854775807&limit=100",
	} {
		t.Run("400 para "+target, func(t *testing.T) {
			repo := &stubRepository{}
			rr := doRequest(newTestHandler(repo, testConfig()), http.MethodGet, target)

			assert.Equal(t, http.StatusBadRequest, rr.Code)
			assert.NotEmpty(t, decodeBody(t, rr)["erro"])
			assert.Equal(t, operadoras.ListFilter{}, repo.lastFilter)
		})
	}

	t.Run("Falha no banco vira 500 sem detalhes", func(t *testing.T) {
		repo := &stubRepository{err: errors.New("dial tcp 10.0.0.5:5432: connection refused")}
		rr := doRequest(newTestHandler(repo, testConfig()), http.MethodGet, "/operadoras")

		assert.Equal(t, http.StatusInternalServerError, rr.Code)
		assert.JSONEq(t, `{"erro": "Erro ao consultar o banco de dados"}`, rr.Body.String())
	})

	t.Run("Deadline da consulta vira 504", func(t *testing.T) {
		repo := &stubRepository{err: fmt.Errorf("erro ao listar operadoras: %w", context.DeadlineExceeded)}
		rr := doRequest(newTestHandler(repo, testConfig()), http.MethodGet, "/operadoras")

		assert.Equal(t, http.StatusGatewayTimeout, rr.Code)
		assert.JSONEq(t, `{"erro": "tempo limite da consulta excedido"}`, rr.Body.String())
	})

	t.Run("Timeout da requisição vira 504", func(t *testing.T) {
		cfg := testConfig()
		cfg.Service.Timeout = 20 * time.Millisecond
		rr := doRequest(newTestHandler(&stubRepository{waitCtx: true}, cfg), http.MethodGet, "/operadoras")

		assert.Equal(t, http.StatusGatewayTimeout, rr.Code)
		assert.Equal(t, "tempo limite da consulta excedido", decodeBody(t, rr)["erro"])
	})
}

func TestDespesasPorUF(t *testing.T) {
	t.Run("Totais em ordem decrescente", func(t *testing.T) {
		repo := &stubRepository{porUF: []operadoras.DespesaUF{
			{UF: "SP", Total: decimal.NewFromInt(130)},
			{UF: "RJ", Total: decimal.NewFromInt(50)},
		}}
		rr := doRequest(newTestHandler(repo, testConfig()), http.MethodGet, "/dashboard/despesas-por-uf")

		require.Equal(t, http.StatusOK, rr.Code)
		assert.JSONEq(t, `[{"uf": "SP", "total": 130}, {"uf": "RJ", "total": 50}]`, rr.Body.String())
	})

	t.Run("Sem dados devolve lista vazia", func(t *testing.T) {
		rr := doRequest(newTestHandler(&stubRepository{}, testConfig()), http.MethodGet, "/dashboard/despesas-por-uf")

		require.Equal(t, http.StatusOK, rr.Code)
		assert.JSONEq(t, `[]`, rr.Body.String())
	})

	t.Run("Falha no banco vira 500", func(t *testing.T) {
		repo := &stubRepository{err: errors.New("timeout")}
		rr := doRequest(newTestHandler(repo, testConfig()), http.MethodGet, "/dashboard/despesas-por-uf")

		assert.Equal(t, http.StatusInternalServerError, rr.Code)
		assert.NotEmpty(t, decodeBody(t, rr)["erro"])
	})
}

func TestDetalhes(t *testing.T) {
	repo := &stubRepository{
		cadastro: map[string]operadoras.Cadastro{
			"123456": {"registro_ans": "123456", "razao_social": "UNIMED TESTE", "uf": "SP"},
			"654321": {"registro_ans": "654321", "razao_social": "SEM DESPESAS"},
		},
		despesas: map[string][]operadoras.Despesa{
			"123456": {
				{Ano: 2025, Trimestre: 2, ValorDespesa: decimal.NewNullDecimal(decimal.RequireFromString("1500.25"))},
				{Ano: 2024, Trimestre: 4, ValorDespesa: decimal.NewNullDecimal(decimal.NewFromInt(900))},
			},
		},
	}
	h := newTestHandler(repo, testConfig())

	t.Run("Operadora existente", func(t *testing.T) {
		rr := doRequest(h, http.MethodGet, "/operadoras/123456/detalhes")

		require.Equal(t, http.StatusOK, rr.Code)
		assert.JSONEq(t, `{
			"cadastro": {"registro_ans": "123456", "razao_social": "UNIMED TESTE", "uf": "SP"},
			"historico_despesas": [
				{"ano": 2025, "trimestre": 2, "valor_despesa": 1500.25},
				{"ano": 2024, "trimestre": 4, "valor_despesa": 900}
			]
		}`, rr.Body.String())
	})

	t.Run("Operadora sem despesas", func(t *testing.T) {
		rr := doRequest(h, http.MethodGet, "/operadoras/654321/detalhes")

		require.Equal(t, http.StatusOK, rr.Code)
		body := decodeBody(t, rr)
		assert.Equal(t, []interface{}{}, body["historico_despesas"])
		assert.NotEmpty(t, body["cadastro"])
	})

	t.Run("Operadora inexistente", func(t *testing.T) {
		rr := doRequest(h, http.MethodGet, "/operadoras/999999/detalhes")

		require.Equal(t, http.StatusNotFound, rr.Code)
		body := decodeBody(t, rr)
		assert.Equal(t, "Operadora não encontrada", body["erro"])
		assert.NotContains(t, body, "cadastro")
		assert.NotContains(t, body, "historico_despesas")
	})

	t.Run("Falha no banco vira 500", func(t *testing.T) {
		failing := newTestHandler(&stubRepository{err: errors.New("connection reset")}, testConfig())
		rr := doRequest(failing, http.MethodGet, "/operadoras/123456/detalhes")

		assert.Equal(t, http.StatusInternalServerError, rr.Code)
	})
}

func TestHealth(t *testing.T) {
	rr := doRequest(newTestHandler(&stubRepository{}, testConfig()), http.MethodGet, "/health")
	assert.Equal(t, http.StatusOK, rr.Code)
	assert.JSONEq(t, `{"status": "ok"}`, rr.Body.String())

	rr = doRequest(newTestHandler(&stubRepository{err: errors.New("down")}, testConfig()), http.MethodGet, "/health")
	assert.Equal(t, http.StatusServiceUnavailable, rr.Code)
	assert.NotEmpty(t, decodeBody(t, rr)["erro"])
}

func TestUnknownRouteAndMethod(t *testing.T) {
	h := newTestHandler(&stubRepository{}, testConfig())

	rr := doRequest(h, http.MethodGet, "/nao-existe")
	assert.Equal(t, http.StatusNotFound, rr.Code)
	assert.JSONEq(t, `{"erro": "rota não encontrada"}`, rr.Body.String())

	rr = doRequest(h, http.MethodPost, "/operadoras")
	assert.Equal(t, http.StatusMethodNotAllowed, rr.Code)
	assert.JSONEq(t, `{"erro": "método não permitido"}`, rr.Body.String())
}

func TestPanicBecomes500(t *testing.T) {
	rr := doRequest(newTestHandler(&stubRepository{panics: true}, testConfig()), http.MethodGet, "/operadoras")

	assert.Equal(t, http.StatusInternalServerError, rr.Code)
	assert.JSONEq(t, `{"erro": "erro interno do servidor"}`, rr.Body.String())
}
