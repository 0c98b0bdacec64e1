package operadoras

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"strconv"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/raywall/operadoras-api/pkg/cache"
	"github.com/raywall/operadoras-api/pkg/metrics"
	"github.com/rs/zerolog/log"
)

const (
	DefaultPage        = 1
	DefaultLimit       = 10
	DefaultMaxPageSize = 100

	// DashboardCacheKey guarda o resultado serializado do dashboard.
	DashboardCacheKey = "operadoras:dashboard:despesas-por-uf"
)

// ListParams são os parâmetros já convertidos da listagem.
type ListParams struct {
	Page   int
	Limit  int
	Search string
}

// Options configura o Service. Campos zerados assumem os defaults.
type Options struct {
	MaxPageSize int
	Cache       cache.Cache
	CacheTTL    time.Duration
	Recorder    *metrics.Recorder
}

// Service concentra as regras das três consultas sobre o Repository.
type Service struct {
	repo        Repository
	valid       *validator.Validate
	cache       cache.Cache
	cacheTTL    time.Duration
	recorder    *metrics.Recorder
	maxPageSize int
}

// NewService cria o serviço de consultas.
func NewService(repo Repository, opts Options) *Service {
	s := &Service{
		repo:        repo,
		valid:       validator.New(),
		cache:       opts.Cache,
		cacheTTL:    opts.CacheTTL,
		recorder:    opts.Recorder,
		maxPageSize: opts.MaxPageSize,
	}
	if s.cache == nil {
		s.cache = cache.NoopCache{}
	}
	if s.cacheTTL <= 0 {
		s.cacheTTL = 5 * time.Minute
	}
	if s.maxPageSize <= 0 {
		s.maxPageSize = DefaultMaxPageSize
	}
	return s
}

// ParseListParams converte os valores crus da query string. Ausência de
// page/limit assume os defaults; valores não numéricos ou fora dos limites
// resultam em *ValidationError.
func (s *Service) ParseListParams(rawPage, rawLimit, search string) (ListParams, error) {
	params := ListParams{Page: DefaultPage, Limit: DefaultLimit, Search: search}

	if rawPage != "" {
		page, err := strconv.Atoi(rawPage)
		if err != nil {
			return params, invalidParam("page", "parâmetro 'page' deve ser um número inteiro")
		}
		params.Page = page
	}

	if rawLimit != "" {
		limit, err := strconv.Atoi(rawLimit)
		if err != nil {
			return params, invalidParam("limit", "parâmetro 'limit' deve ser um número inteiro")
		}
		params.Limit = limit
	}

	return params, s.validateListParams(params)
}

func (s *Service) validateListParams(p ListParams) error {
	if err := s.valid.Var(p.Page, "min=1"); err != nil {
		return invalidParam("page", "parâmetro 'page' deve ser maior ou igual a 1")
	}
	if err := s.valid.Var(p.Limit, fmt.Sprintf("min=1,max=%d", s.maxPageSize)); err != nil {
		return invalidParam("limit", "parâmetro 'limit' deve estar entre 1 e %d", s.maxPageSize)
	}
	// offset = (page-1)*limit precisa caber em int
	if p.Page > math.MaxInt/p.Limit {
		return invalidParam("page", "parâmetro 'page' deve ser no máximo %d para limit=%d", math.MaxInt/p.Limit, p.Limit)
	}
	return nil
}

// ListOperadoras devolve a página pedida, ordenada por razão social.
func (s *Service) ListOperadoras(ctx context.Context, p ListParams) (*Page, error) {
	if err := s.validateListParams(p); err != nil {
		return nil, err
	}

	data, total, err := s.repo.ListOperadoras(ctx, ListFilter{
		Search: p.Search,
		Limit:  p.Limit,
		Offset: (p.Page - 1) * p.Limit,
	})
	if err != nil {
		return nil, err
	}
	if data == nil {
		data = []Operadora{}
	}

	return &Page{
		Data:       data,
		Total:      total,
		Page:       p.Page,
		Limit:      p.Limit,
		TotalPages: TotalPages(total, p.Limit),
	}, nil
}

// TotalPages usa divisão com arredondamento para cima e nunca devolve menos
// que 1: total=20, limit=10 resulta em 2; total=0 resulta em 1.
func TotalPages(total, limit int) int {
	if limit <= 0 || total <= 0 {
		return 1
	}
	return (total + limit - 1) / limit
}

// DespesasPorUF devolve as 10 UFs com maior total de despesas. Com cache
// habilitado o resultado é reaproveitado pelo TTL configurado; falhas no cache
// nunca impedem a consulta ao banco.
func (s *Service) DespesasPorUF(ctx context.Context) ([]DespesaUF, error) {
	logger := log.Ctx(ctx)

	raw, err := s.cache.Get(ctx, DashboardCacheKey)
	switch {
	case err == nil:
		var cached []DespesaUF
		jsonErr := json.Unmarshal(raw, &cached)
		if jsonErr == nil {
			s.recorder.ObserveCache(DashboardCacheKey, true)
			return cached, nil
		}
		logger.Warn().Err(jsonErr).Msg("valor inválido no cache do dashboard")
	case !errors.Is(err, cache.ErrMiss):
		logger.Warn().Err(err).Msg("falha ao ler cache do dashboard")
	}
	s.recorder.ObserveCache(DashboardCacheKey, false)

	result, err := s.repo.DespesasPorUF(ctx, DashboardLimit)
	if err != nil {
		return nil, err
	}
	if result == nil {
		result = []DespesaUF{}
	}

	if payload, err := json.Marshal(result); err == nil {
		if err := s.cache.Set(ctx, DashboardCacheKey, payload, s.cacheTTL); err != nil {
			logger.Warn().Err(err).Msg("falha ao gravar cache do dashboard")
		}
	}

	return result, nil
}

// Detalhes devolve cadastro e histórico. Se a operadora não existir, o
// histórico nem é consultado e o erro é ErrNotFound.
func (s *Service) Detalhes(ctx context.Context, registroANS string) (*Detalhes, error) {
	if registroANS == "" {
		return nil, invalidParam("registro_ans", "registro ANS não informado")
	}

	cadastro, err := s.repo.FindCadastro(ctx, registroANS)
	if err != nil {
		return nil, err
	}

	historico, err := s.repo.HistoricoDespesas(ctx, registroANS)
	if err != nil {
		return nil, err
	}
	if historico == nil {
		historico = []Despesa{}
	}

	return &Detalhes{Cadastro: cadastro, HistoricoDespesas: historico}, nil
}

// Health verifica se o banco responde.
func (s *Service) Health(ctx context.Context) error {
	return s.repo.Ping(ctx)
}
