package workflow

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/guided-checkout/guided-checkout/internal/application/session"
	"github.com/guided-checkout/guided-checkout/internal/domain/cart"
	"github.com/guided-checkout/guided-checkout/internal/domain/order"
	"github.com/guided-checkout/guided-checkout/internal/domain/page"
	"github.com/guided-checkout/guided-checkout/internal/domain/wizard"
)

const (
	msgStepCompleted  = "Step completed."
	msgWentBack       = "Returned to the previous step."
	msgAtFirstStep    = "You are already at the first step."
	msgInvalidStep    = "This step is not available right now."
	msgRetry          = "Something went wrong while saving. Please try again."
	msgHandoffFailed  = "We could not finalize your order. Please try again."
	msgSessionExpired = "Your session has expired. Please start over."
)

// Service is the workflow engine: it sequences steps, authorizes
// transitions, delegates data checks to the Validator and persistence
// to the session service, and fires the order handoff on completion.
type Service struct {
	sessions    *session.Service
	validator   *Validator
	cart        cart.Service
	pages       page.Resolver
	pipeline    order.Pipeline
	checkoutURL string
	cartURL     string
	logger      zerolog.Logger
}

// NewService creates the workflow engine.
func NewService(
	sessions *session.Service,
	validator *Validator,
	cartSvc cart.Service,
	pages page.Resolver,
	pipeline order.Pipeline,
	checkoutURL string,
	cartURL string,
	logger zerolog.Logger,
) *Service {
	return &Service{
		sessions:    sessions,
		validator:   validator,
		cart:        cartSvc,
		pages:       pages,
		pipeline:    pipeline,
		checkoutURL: checkoutURL,
		cartURL:     cartURL,
		logger:      logger.With().Str("service", "workflow").Logger(),
	}
}

// Result is the navigation decision returned to the HTTP layer.
type Result struct {
	Success      bool   `json:"success"`
	Message      string `json:"message"`
	RedirectURL  string `json:"redirect_url,omitempty"`
	NextStep     int    `json:"next_step,omitempty"`
	PreviousStep int    `json:"previous_step,omitempty"`
}

// Progress describes wizard progress for rendering.
type Progress struct {
	CurrentStep        int            `json:"current_step"`
	TotalSteps         int            `json:"total_steps"`
	CompletedSteps     []int          `json:"completed_steps"`
	ProgressPercentage float64        `json:"progress_percentage"`
	StepLabels         map[int]string `json:"step_labels"`
}

// EnsureSession returns the shopper's active session, starting a new
// one when none exists and the cart carries a bookable item.
func (s *Service) EnsureSession(ctx context.Context, shopperID uuid.UUID) (*wizard.Session, error) {
	sess, err := s.sessions.Read(ctx, shopperID)
	if err != nil {
		return nil, err
	}
	if sess != nil {
		return sess, nil
	}
	bookable, err := s.cart.HasBookableItem(ctx, shopperID)
	if err != nil {
		return nil, err
	}
	if !bookable {
		return nil, nil
	}
	return s.sessions.Start(ctx, shopperID)
}

// Advance processes completion of step with the submitted data.
// Validation failures and out-of-sequence requests return a failure
// Result; the shopper stays on the current step.
func (s *Service) Advance(ctx context.Context, shopperID uuid.UUID, step int, data map[string]string, clientIP string) *Result {
	if step < wizard.FirstStep || step > wizard.TotalSteps {
		return &Result{Success: false, Message: msgInvalidStep}
	}

	sess, err := s.sessions.Read(ctx, shopperID)
	if err != nil {
		s.logger.Error().Err(err).Str("shopper_id", shopperID.String()).Msg("session read failed during advance")
		return &Result{Success: false, Message: msgRetry}
	}
	if sess == nil {
		return &Result{Success: false, Message: msgSessionExpired}
	}

	if !s.validator.TransitionIsLegal(step, sess) {
		s.logger.Warn().
			Str("shopper_id", shopperID.String()).
			Int("attempted_step", step).
			Int("allowed_step", sess.CurrentStep).
			Msg("illegal step transition")
		return &Result{Success: false, Message: msgInvalidStep}
	}

	if ok, reason := s.validator.DataIsValid(ctx, shopperID, step, data, sess); !ok {
		return &Result{Success: false, Message: reason}
	}

	var stamps map[string]string
	if step == wizard.StepSignature {
		stamps = map[string]string{
			wizard.SignatureKeyTimestamp:       time.Now().UTC().Format(time.RFC3339),
			wizard.SignatureKeyIPAddress:       clientIP,
			wizard.SignatureKeyContractVersion: sess.WizardVersion,
		}
	}

	sess, err = s.sessions.CompleteStep(ctx, shopperID, step, data, stamps)
	if err != nil {
		switch {
		case errors.Is(err, wizard.ErrSequence):
			return &Result{Success: false, Message: msgInvalidStep}
		case errors.Is(err, wizard.ErrStoreUnavailable):
			s.logger.Error().Err(err).Str("shopper_id", shopperID.String()).Int("step", step).Msg("session store unavailable")
			return &Result{Success: false, Message: msgRetry}
		default:
			s.logger.Error().Err(err).Str("shopper_id", shopperID.String()).Int("step", step).Msg("step completion failed")
			return &Result{Success: false, Message: msgRetry}
		}
	}

	if step == wizard.TotalSteps {
		// CompleteStep admits exactly one winner for step 4, so the
		// handoff fires at most once per session.
		meta := order.Metadata{
			FormData:      sess.FormData,
			SignatureData: sess.SignatureData,
			WizardVersion: sess.WizardVersion,
		}
		if err := s.pipeline.AttachMetadata(ctx, shopperID, meta); err != nil {
			s.logger.Error().Err(err).Str("shopper_id", shopperID.String()).Msg("order handoff failed")
			return &Result{Success: false, Message: msgHandoffFailed}
		}
		s.logger.Info().Str("shopper_id", shopperID.String()).Msg("wizard completed, metadata attached")
		return &Result{Success: true, Message: msgStepCompleted, RedirectURL: s.checkoutURL, NextStep: step + 1}
	}

	return &Result{
		Success:     true,
		Message:     msgStepCompleted,
		RedirectURL: s.stepURL(ctx, step+1),
		NextStep:    step + 1,
	}
}

// GoBack moves the shopper one step back without shrinking the
// completed set, so the step can be redone.
func (s *Service) GoBack(ctx context.Context, shopperID uuid.UUID, step int) *Result {
	sess, err := s.sessions.Read(ctx, shopperID)
	if err != nil {
		s.logger.Error().Err(err).Str("shopper_id", shopperID.String()).Msg("session read failed during back")
		return &Result{Success: false, Message: msgRetry}
	}
	if sess == nil {
		return &Result{Success: false, Message: msgSessionExpired}
	}
	if step != sess.CurrentStep {
		s.logger.Warn().
			Str("shopper_id", shopperID.String()).
			Int("attempted_step", step).
			Int("current_step", sess.CurrentStep).
			Msg("back requested from stale step, using session")
		step = sess.CurrentStep
	}
	if step <= wizard.FirstStep {
		return &Result{Success: false, Message: msgAtFirstStep}
	}

	previous := step - 1
	if _, err := s.sessions.Update(ctx, shopperID, session.Partial{CurrentStep: &previous}); err != nil {
		s.logger.Error().Err(err).Str("shopper_id", shopperID.String()).Msg("session update failed during back")
		return &Result{Success: false, Message: msgRetry}
	}
	return &Result{
		Success:      true,
		Message:      msgWentBack,
		RedirectURL:  s.stepURL(ctx, previous),
		PreviousStep: previous,
	}
}

// Progress returns the progress payload for the shopper's session. A
// missing session reads as an untouched wizard.
func (s *Service) Progress(ctx context.Context, shopperID uuid.UUID) (*Progress, error) {
	sess, err := s.sessions.Read(ctx, shopperID)
	if err != nil {
		return nil, err
	}
	current := wizard.FirstStep
	completed := []int{}
	if sess != nil {
		current = sess.CurrentStep
		completed = sess.CompletedSteps
	}
	return &Progress{
		CurrentStep:        current,
		TotalSteps:         wizard.TotalSteps,
		CompletedSteps:     completed,
		ProgressPercentage: float64(len(completed)) / float64(wizard.TotalSteps) * 100,
		StepLabels:         wizard.StepLabels,
	}, nil
}

// IsComplete reports whether the shopper has finished the wizard.
func (s *Service) IsComplete(ctx context.Context, shopperID uuid.UUID) (bool, error) {
	sess, err := s.sessions.Read(ctx, shopperID)
	if err != nil {
		return false, err
	}
	return sess != nil && sess.IsComplete(), nil
}

// AllowedStepFor returns the step the shopper may currently view,
// or 0 when the wizard does not apply (send to cart).
func (s *Service) AllowedStepFor(ctx context.Context, shopperID uuid.UUID) (int, error) {
	sess, err := s.sessions.Read(ctx, shopperID)
	if err != nil {
		return 0, err
	}
	return s.validator.AllowedStep(ctx, shopperID, sess), nil
}

// StepURL resolves the page URL for a step, or the cart URL for 0.
// An unconfigured step resolves to empty; callers must not redirect
// to an empty target.
func (s *Service) StepURL(ctx context.Context, step int) string {
	if step == 0 {
		return s.cartURL
	}
	return s.stepURL(ctx, step)
}

func (s *Service) stepURL(ctx context.Context, step int) string {
	url, err := s.pages.ResolveURL(ctx, step)
	if err != nil || url == "" {
		s.logger.Error().Err(err).Int("step", step).Msg("no published page configured for step")
		return ""
	}
	return url
}
