package restserver

import (
	"context"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/chrissnell/moonhike/internal/log"
	"github.com/chrissnell/moonhike/pkg/config"
	"github.com/chrissnell/moonhike/pkg/evaluator"
	"github.com/google/uuid"
	gorillahandlers "github.com/gorilla/handlers"
	"github.com/gorilla/mux"
	"go.uber.org/zap"
)

type contextKey string

const requestIDKey contextKey = "request_id"

// Controller represents the REST server controller
type Controller struct {
	ctx        context.Context
	wg         *sync.WaitGroup
	serverData config.ServerData
	Server     http.Server
	logger     *zap.SugaredLogger
	handlers   *Handlers
}

// NewController creates a new REST server controller
func NewController(ctx context.Context, wg *sync.WaitGroup, configProvider config.ConfigProvider, ev *evaluator.Evaluator, logger *zap.SugaredLogger) (*Controller, error) {
	if logger == nil {
		logger = zap.NewNop().Sugar()
	}

	cfgData, err := configProvider.LoadConfig()
	if err != nil {
		return nil, fmt.Errorf("error loading configuration: %v", err)
	}

	ctrl := &Controller{
		ctx:        ctx,
		wg:         wg,
		serverData: cfgData.Server,
		logger:     logger,
	}
	ctrl.handlers = NewHandlers(configProvider, cfgData, ev, logger)

	router := ctrl.setupRouter()
	ctrl.Server.Addr = fmt.Sprintf("%v:%v", cfgData.Server.ListenAddr, cfgData.Server.Port)
	ctrl.Server.Handler = gorillahandlers.CompressHandler(gorillahandlers.RecoveryHandler()(router))
	ctrl.Server.ReadHeaderTimeout = 10 * time.Second

	return ctrl, nil
}

// StartController starts the REST server
func (c *Controller) StartController() error {
	c.logger.Infow("starting REST server", "addr", c.Server.Addr, "tls", c.serverData.Cert != "")
	c.wg.Add(1)

	go func() {
		defer c.wg.Done()

		if c.serverData.Cert != "" && c.serverData.Key != "" {
			if err := c.Server.ListenAndServeTLS(c.serverData.Cert, c.serverData.Key); err != http.ErrServerClosed {
				c.logger.Errorf("REST server error: %v", err)
			}
		} else {
			if err := c.Server.ListenAndServe(); err != http.ErrServerClosed {
				c.logger.Errorf("REST server error: %v", err)
			}
		}
	}()

	go func() {
		<-c.ctx.Done()
		c.logger.Info("shutting down the REST server...")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		c.Server.Shutdown(shutdownCtx)
	}()

	return nil
}

// setupRouter configures the HTTP router with all endpoints
func (c *Controller) setupRouter() *mux.Router {
	router := mux.NewRouter()
	router.Use(c.requestIDMiddleware)

	router.HandleFunc("/nights", c.handlers.GetNights).Methods(http.MethodGet)
	router.HandleFunc("/sites", c.handlers.GetSites).Methods(http.MethodGet)
	router.HandleFunc("/sites/{site}/nights", c.handlers.GetSiteNights).Methods(http.MethodGet)
	router.HandleFunc("/moon/phase", c.handlers.GetMoonPhase).Methods(http.MethodGet)
	router.HandleFunc("/health", c.handlers.GetHealth).Methods(http.MethodGet)

	return router
}

// requestIDMiddleware tags every request with an ID, echoed back in the
// X-Request-ID header and attached to log lines
func (c *Controller) requestIDMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := r.Header.Get("X-Request-ID")
		if id == "" {
			id = uuid.NewString()
		}
		w.Header().Set("X-Request-ID", id)

		start := time.Now()
		rec := log.NewStatusRecorder(w)
		next.ServeHTTP(rec, r.WithContext(context.WithValue(r.Context(), requestIDKey, id)))
		log.LogHTTPRequest(c.logger, log.HTTPLogEntry{
			RequestID:  id,
			Method:     r.Method,
			Path:       r.URL.Path,
			Status:     rec.Status,
			Duration:   time.Since(start),
			Size:       rec.Size,
			RemoteAddr: r.RemoteAddr,
			UserAgent:  r.UserAgent(),
		})
	})
}

func requestID(r *http.Request) string {
	id, _ := r.Context().Value(requestIDKey).(string)
	return id
}
