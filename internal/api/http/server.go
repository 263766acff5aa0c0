package httpapi

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"

	appPage "github.com/guided-checkout/guided-checkout/internal/application/page"
	appWorkflow "github.com/guided-checkout/guided-checkout/internal/application/workflow"
)

// Server holds dependencies for HTTP handlers.
type Server struct {
	workflowSvc  *appWorkflow.Service
	pageSvc      *appPage.Service
	cookieName   string
	cookieSecure bool
	checkoutURL  string
	logger       zerolog.Logger
}

func NewServer(
	workflowSvc *appWorkflow.Service,
	pageSvc *appPage.Service,
	cookieName string,
	cookieSecure bool,
	checkoutURL string,
	logger zerolog.Logger,
) *Server {
	return &Server{
		workflowSvc:  workflowSvc,
		pageSvc:      pageSvc,
		cookieName:   cookieName,
		cookieSecure: cookieSecure,
		checkoutURL:  checkoutURL,
		logger:       logger.With().Str("service", "http").Logger(),
	}
}

// Router builds the HTTP router.
func (s *Server) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(15 * time.Second))

	r.Route("/v1", func(r chi.Router) {
		r.Group(func(r chi.Router) {
			r.Use(s.shopperIdentity)

			r.Route("/wizard", func(r chi.Router) {
				r.Post("/start", s.startWizard)
				r.Post("/advance", s.advanceStep)
				r.Post("/back", s.goBack)
				r.Get("/progress", s.getProgress)
				r.Get("/complete", s.isComplete)
			})

			r.Get("/steps/{step}", s.viewStep)
			r.Get("/checkout", s.enterCheckout)
		})

		r.Get("/admin/diagnostics", s.getDiagnostics)
	})

	return r
}

// Helpers
func respondJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func respondError(w http.ResponseWriter, status int, code, message string) {
	respondJSON(w, status, map[string]interface{}{
		"error":   code,
		"message": message,
	})
}

func decodeBody(r *http.Request, v interface{}) error {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	return dec.Decode(v)
}
