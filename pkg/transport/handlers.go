package transport

import (
	"context"
	"net/http"

	"github.com/gorilla/mux"
	"github.com/raywall/operadoras-api/pkg/operadoras"
	"github.com/rs/zerolog/log"
)

// QueryService é o que os handlers precisam do serviço de operadoras.
type QueryService interface {
	ParseListParams(rawPage, rawLimit, search string) (operadoras.ListParams, error)
	ListOperadoras(ctx context.Context, p operadoras.ListParams) (*operadoras.Page, error)
	DespesasPorUF(ctx context.Context) ([]operadoras.DespesaUF, error)
	Detalhes(ctx context.Context, registroANS string) (*operadoras.Detalhes, error)
	Health(ctx context.Context) error
}

// Handlers agrupa os endpoints HTTP do serviço.
type Handlers struct {
	svc QueryService
}

// NewHandlers cria os handlers sobre o serviço informado.
func NewHandlers(svc QueryService) *Handlers {
	return &Handlers{svc: svc}
}

// Register associa cada endpoint ao router.
func (h *Handlers) Register(router *mux.Router) {
	router.HandleFunc("/", h.Status).Methods(http.MethodGet).Name("status")
	router.HandleFunc("/health", h.Health).Methods(http.MethodGet).Name("health")
	router.HandleFunc("/operadoras", h.ListOperadoras).Methods(http.MethodGet).Name("listar_operadoras")
	router.HandleFunc("/dashboard/despesas-por-uf", h.DespesasPorUF).Methods(http.MethodGet).Name("despesas_por_uf")
	router.HandleFunc("/operadoras/{registro_ans}/detalhes", h.Detalhes).Methods(http.MethodGet).Name("detalhes_operadora")

	router.NotFoundHandler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeErrorMessage(w, http.StatusNotFound, msgRouteNotFound)
	})
	router.MethodNotAllowedHandler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeErrorMessage(w, http.StatusMethodNotAllowed, msgMethodNotAllowed)
	})
}

func (h *Handlers) Status(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "API Online"})
}

func (h *Handlers) Health(w http.ResponseWriter, r *http.Request) {
	if err := h.svc.Health(r.Context()); err != nil {
		log.Ctx(r.Context()).Warn().Err(err).Msg("health check falhou")
		writeErrorMessage(w, http.StatusServiceUnavailable, msgDatabaseDown)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// ListOperadoras atende GET /operadoras?page=1&limit=10&search=Unimed
func (h *Handlers) ListOperadoras(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()

	params, err := h.svc.ParseListParams(query.Get("page"), query.Get("limit"), query.Get("search"))
	if err != nil {
		writeError(w, r, err)
		return
	}

	page, err := h.svc.ListOperadoras(r.Context(), params)
	if err != nil {
		writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, page)
}

func (h *Handlers) DespesasPorUF(w http.ResponseWriter, r *http.Request) {
	totals, err := h.svc.DespesasPorUF(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, totals)
}

func (h *Handlers) Detalhes(w http.ResponseWriter, r *http.Request) {
	registro := mux.Vars(r)["registro_ans"]

	detalhes, err := h.svc.Detalhes(r.Context(), registro)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, detalhes)
}
