package httpapi

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/guided-checkout/guided-checkout/internal/domain/wizard"
)

// Caps applied to submitted form data before it reaches the engine.
const (
	maxFormFields     = 50
	maxFieldValueSize = 500
)

type stepRequest struct {
	Step int               `json:"step"`
	Data map[string]string `json:"data,omitempty"`
}

func (s *Server) startWizard(w http.ResponseWriter, r *http.Request) {
	shopperID := shopperFromContext(r.Context())
	sess, err := s.workflowSvc.EnsureSession(r.Context(), shopperID)
	if err != nil {
		s.logger.Error().Err(err).Msg("wizard start failed")
		respondError(w, http.StatusServiceUnavailable, "STORE_UNAVAILABLE", "Please try again in a moment.")
		return
	}
	if sess == nil {
		respondJSON(w, http.StatusOK, map[string]interface{}{
			"success":      false,
			"message":      "Add a bookable item to your cart first.",
			"redirect_url": s.workflowSvc.StepURL(r.Context(), 0),
		})
		return
	}
	respondJSON(w, http.StatusOK, map[string]interface{}{
		"success":      true,
		"current_step": sess.CurrentStep,
		"redirect_url": s.workflowSvc.StepURL(r.Context(), sess.CurrentStep),
	})
}

func (s *Server) advanceStep(w http.ResponseWriter, r *http.Request) {
	var req stepRequest
	if err := decodeBody(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "INVALID_PARAM", err.Error())
		return
	}
	shopperID := shopperFromContext(r.Context())
	res := s.workflowSvc.Advance(r.Context(), shopperID, req.Step, sanitizeFormData(req.Data), clientIP(r))
	respondJSON(w, http.StatusOK, res)
}

func (s *Server) goBack(w http.ResponseWriter, r *http.Request) {
	var req stepRequest
	if err := decodeBody(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "INVALID_PARAM", err.Error())
		return
	}
	shopperID := shopperFromContext(r.Context())
	res := s.workflowSvc.GoBack(r.Context(), shopperID, req.Step)
	respondJSON(w, http.StatusOK, res)
}

func (s *Server) getProgress(w http.ResponseWriter, r *http.Request) {
	shopperID := shopperFromContext(r.Context())
	progress, err := s.workflowSvc.Progress(r.Context(), shopperID)
	if err != nil {
		respondError(w, http.StatusServiceUnavailable, "STORE_UNAVAILABLE", "Please try again in a moment.")
		return
	}
	respondJSON(w, http.StatusOK, progress)
}

func (s *Server) isComplete(w http.ResponseWriter, r *http.Request) {
	shopperID := shopperFromContext(r.Context())
	complete, err := s.workflowSvc.IsComplete(r.Context(), shopperID)
	if err != nil {
		respondError(w, http.StatusServiceUnavailable, "STORE_UNAVAILABLE", "Please try again in a moment.")
		return
	}
	respondJSON(w, http.StatusOK, map[string]interface{}{"complete": complete})
}

// viewStep is the page-protection guard: a shopper viewing a step they
// are not allowed on is redirected to the allowed step's page.
func (s *Server) viewStep(w http.ResponseWriter, r *http.Request) {
	step, err := strconv.Atoi(chi.URLParam(r, "step"))
	if err != nil || step < wizard.FirstStep || step > wizard.TotalSteps {
		respondError(w, http.StatusNotFound, "NOT_FOUND", "unknown step")
		return
	}
	shopperID := shopperFromContext(r.Context())
	allowed, err := s.workflowSvc.AllowedStepFor(r.Context(), shopperID)
	if err != nil {
		respondError(w, http.StatusServiceUnavailable, "STORE_UNAVAILABLE", "Please try again in a moment.")
		return
	}
	if allowed != step {
		target := s.workflowSvc.StepURL(r.Context(), allowed)
		if target != "" {
			s.logger.Info().
				Int("from_step", step).
				Int("to_step", allowed).
				Msg("redirecting shopper to allowed step")
			http.Redirect(w, r, withNotice(target), http.StatusSeeOther)
			return
		}
		// No publishable target to send the shopper to; leave them on
		// the requested page.
	}

	progress, err := s.workflowSvc.Progress(r.Context(), shopperID)
	if err != nil {
		respondError(w, http.StatusServiceUnavailable, "STORE_UNAVAILABLE", "Please try again in a moment.")
		return
	}
	respondJSON(w, http.StatusOK, map[string]interface{}{
		"step":     step,
		"url":      s.workflowSvc.StepURL(r.Context(), step),
		"progress": progress,
	})
}

// enterCheckout is the checkout-entry guard: an incomplete wizard on a
// bookable cart is sent to step 1 instead of the native checkout.
func (s *Server) enterCheckout(w http.ResponseWriter, r *http.Request) {
	shopperID := shopperFromContext(r.Context())
	complete, err := s.workflowSvc.IsComplete(r.Context(), shopperID)
	if err != nil {
		respondError(w, http.StatusServiceUnavailable, "STORE_UNAVAILABLE", "Please try again in a moment.")
		return
	}
	if complete {
		http.Redirect(w, r, s.checkoutURL, http.StatusSeeOther)
		return
	}
	sess, err := s.workflowSvc.EnsureSession(r.Context(), shopperID)
	if err != nil {
		respondError(w, http.StatusServiceUnavailable, "STORE_UNAVAILABLE", "Please try again in a moment.")
		return
	}
	if sess == nil {
		// No bookable item; the wizard does not apply.
		http.Redirect(w, r, s.checkoutURL, http.StatusSeeOther)
		return
	}
	target := s.workflowSvc.StepURL(r.Context(), sess.CurrentStep)
	if target == "" {
		respondError(w, http.StatusConflict, "NOT_COMPLETE", "You must complete all checkout steps before finalizing your order.")
		return
	}
	s.logger.Info().Str("shopper_id", shopperID.String()).Msg("redirecting checkout entry to wizard")
	http.Redirect(w, r, withNotice(target), http.StatusSeeOther)
}

func (s *Server) getDiagnostics(w http.ResponseWriter, r *http.Request) {
	diag, err := s.pageSvc.CheckConfiguration(r.Context())
	if err != nil {
		respondError(w, http.StatusInternalServerError, "INTERNAL_ERROR", err.Error())
		return
	}
	respondJSON(w, http.StatusOK, diag)
}

// sanitizeFormData trims values, drops empty keys and caps both field
// count and value length before data reaches the engine.
func sanitizeFormData(data map[string]string) map[string]string {
	out := make(map[string]string, len(data))
	for k, v := range data {
		k = strings.TrimSpace(k)
		if k == "" {
			continue
		}
		v = strings.TrimSpace(v)
		if len(v) > maxFieldValueSize {
			v = v[:maxFieldValueSize]
		}
		out[k] = v
		if len(out) >= maxFormFields {
			break
		}
	}
	return out
}

func withNotice(target string) string {
	if strings.Contains(target, "?") {
		return target + "&notice=step_redirect"
	}
	return target + "?notice=step_redirect"
}
