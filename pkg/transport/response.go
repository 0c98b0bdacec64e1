package transport

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/raywall/operadoras-api/pkg/operadoras"
	"github.com/rs/zerolog/log"
)

const contentTypeJSON = "application/json; charset=utf-8"

// Mensagens devolvidas no campo "erro".
const (
	msgNotFound         = "Operadora não encontrada"
	msgDatabase         = "Erro ao consultar o banco de dados"
	msgDatabaseDown     = "banco de dados indisponível"
	msgTimeout          = "tempo limite da consulta excedido"
	msgRouteNotFound    = "rota não encontrada"
	msgMethodNotAllowed = "método não permitido"
	msgTooManyRequests  = "muitas requisições, tente novamente em instantes"
	msgInternal         = "erro interno do servidor"
)

// ErrorResponse é o envelope único de erro do serviço.
type ErrorResponse struct {
	Erro string `json:"erro"`
}

func writeJSON(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", contentTypeJSON)
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		log.Error().Err(err).Msg("Erro ao encode response")
	}
}

func writeErrorMessage(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, ErrorResponse{Erro: msg})
}

// writeError traduz erros do domínio para status HTTP. Detalhes de falhas de
// infraestrutura ficam apenas no log.
func writeError(w http.ResponseWriter, r *http.Request, err error) {
	var vErr *operadoras.ValidationError
	switch {
	case errors.As(err, &vErr):
		writeErrorMessage(w, http.StatusBadRequest, vErr.Message)
	case errors.Is(err, operadoras.ErrNotFound):
		writeErrorMessage(w, http.StatusNotFound, msgNotFound)
	case errors.Is(err, context.DeadlineExceeded):
		log.Ctx(r.Context()).Warn().Err(err).Str("path", r.URL.Path).Msg("consulta excedeu o tempo limite")
		writeErrorMessage(w, http.StatusGatewayTimeout, msgTimeout)
	case errors.Is(err, context.Canceled):
		// cliente desistiu; ninguém vai ler a resposta
		log.Ctx(r.Context()).Debug().Err(err).Msg("requisição cancelada pelo cliente")
		writeErrorMessage(w, http.StatusInternalServerError, msgDatabase)
	default:
		log.Ctx(r.Context()).Error().Err(err).Str("path", r.URL.Path).Msg("falha ao consultar o banco")
		writeErrorMessage(w, http.StatusInternalServerError, msgDatabase)
	}
}
