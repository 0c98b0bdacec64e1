package metrics

import (
	"fmt"
	"strconv"
	"time"

	"github.com/rs/zerolog/log"
)

// Recorder traduz eventos do serviço (requisições HTTP, queries, cache) em
// chamadas ao Provider. Falhas de envio são apenas registradas em log.
type Recorder struct {
	provider Provider
}

// NewRecorder cria um Recorder sobre o provider informado.
func NewRecorder(provider Provider) *Recorder {
	return &Recorder{provider: provider}
}

// ObserveRequest registra uma requisição HTTP concluída.
func (r *Recorder) ObserveRequest(route, method string, status int, latency time.Duration) {
	tags := []string{
		"route:" + route,
		"method:" + method,
		"status:" + strconv.Itoa(status),
	}
	r.emit(HTTPRequests, 1, tags)
	r.emit(HTTPLatency, float64(latency.Milliseconds()), tags)
}

// ObserveQuery registra a execução de uma query nomeada.
func (r *Recorder) ObserveQuery(query string, latency time.Duration, err error) {
	tags := []string{"query:" + query, "success:" + strconv.FormatBool(err == nil)}
	r.emit(DBQueries, 1, tags)
	r.emit(DBQueryLatency, float64(latency.Milliseconds()), tags)
}

// ObserveCache registra um acerto ou falha de cache.
func (r *Recorder) ObserveCache(key string, hit bool) {
	result := "miss"
	if hit {
		result = "hit"
	}
	r.emit(CacheLookups, 1, []string{"key:" + key, "result:" + result})
}

func (r *Recorder) emit(def MetricDefinition, value float64, tags []string) {
	if r == nil || r.provider == nil {
		return
	}

	var err error
	switch def.Type {
	case TypeCount:
		err = r.provider.Count(def.Name, value, tags)
	case TypeGauge:
		err = r.provider.Gauge(def.Name, value, tags)
	case TypeHistogram:
		err = r.provider.Histogram(def.Name, value, tags)
	default:
		err = fmt.Errorf("tipo de métrica desconhecido: %s", def.Type)
	}

	if err != nil {
		log.Debug().Err(err).Str("metric", def.Name).Msg("falha ao enviar métrica")
	}
}
