package transport

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"github.com/raywall/operadoras-api/pkg/config"
	"github.com/raywall/operadoras-api/pkg/metrics"
	"github.com/rs/zerolog/log"
)

// NewHandler monta o router com todos os endpoints e a cadeia de middlewares:
// observabilidade > recovery > CORS > rate limit > timeout > rotas.
func NewHandler(svc QueryService, cfg *config.AppConfig, recorder *metrics.Recorder) http.Handler {
	router := mux.NewRouter()
	NewHandlers(svc).Register(router)

	var handler http.Handler = router
	handler = TimeoutMiddleware(cfg.Service.Timeout)(handler)
	handler = RateLimitMiddleware(cfg.RateLimit.RPS, cfg.RateLimit.Burst)(handler)
	handler = CORSMiddleware(cfg.CORS.AllowedOrigins)(handler)
	handler = RecoveryMiddleware(handler)
	handler = ObservabilityMiddleware(router, recorder)(handler)

	return handler
}

// StartHTTPServer atende até ctx ser cancelado e então faz shutdown gracioso,
// aguardando as requisições em andamento por até ShutdownTimeout.
func StartHTTPServer(ctx context.Context, handler http.Handler, cfg config.ServiceConf) error {
	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Port),
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
		WriteTimeout:      cfg.Timeout + 5*time.Second,
		IdleTimeout:       120 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info().Msgf("Servidor HTTP ouvindo em %s", srv.Addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	log.Info().Msg("Encerrando servidor HTTP")
	grace := cfg.ShutdownTimeout
	if grace <= 0 {
		grace = 10 * time.Second
	}
	shutdownCtx, cancel := context.WithTimeout(context.Background(), grace)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("falha no shutdown do servidor: %w", err)
	}
	return nil
}
