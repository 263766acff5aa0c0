package workflow

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/guided-checkout/guided-checkout/internal/domain/cart"
	"github.com/guided-checkout/guided-checkout/internal/domain/wizard"
)

// Validator holds the per-step business rules. Its methods are pure
// apart from the delegated cart checks and logging.
type Validator struct {
	cart           cart.Service
	requiredFields []string
	stepRules      map[int]string
	logger         zerolog.Logger
}

// NewValidator creates a step validator. requiredFields are the field
// names step 2 must carry; stepRules optionally maps a step number to
// a boolean expression evaluated against the submitted data.
func NewValidator(cartSvc cart.Service, requiredFields []string, stepRules map[int]string, logger zerolog.Logger) *Validator {
	return &Validator{
		cart:           cartSvc,
		requiredFields: requiredFields,
		stepRules:      stepRules,
		logger:         logger.With().Str("service", "workflow_validator").Logger(),
	}
}

// DataIsValid checks whether data satisfies step's requirements. The
// returned reason is shopper-facing and empty on success.
func (v *Validator) DataIsValid(ctx context.Context, shopperID uuid.UUID, step int, data map[string]string, sess *wizard.Session) (bool, string) {
	switch step {
	case wizard.StepSelection:
		empty, err := v.cart.IsEmpty(ctx, shopperID)
		if err != nil || empty {
			v.logger.Warn().Str("shopper_id", shopperID.String()).Err(err).Msg("selection step with empty cart")
			return false, "Your cart is empty."
		}
		bookable, err := v.cart.HasBookableItem(ctx, shopperID)
		if err != nil || !bookable {
			v.logger.Warn().Str("shopper_id", shopperID.String()).Err(err).Msg("selection step without bookable item")
			return false, "Your cart has no bookable item."
		}
	case wizard.StepCustomerInfo:
		for _, field := range v.requiredFields {
			if strings.TrimSpace(data[field]) == "" {
				v.logger.Warn().Str("field", field).Msg("required field missing")
				return false, "Please fill in all required fields."
			}
		}
	case wizard.StepSignature:
		if !isTruthy(data[wizard.SignatureKeyAccepted]) {
			v.logger.Warn().Str("shopper_id", shopperID.String()).Msg("signature not accepted")
			return false, "You must accept the contract to continue."
		}
	case wizard.StepConfirmation:
		if sess == nil {
			return false, "Your session has expired."
		}
		for _, required := range []int{wizard.StepSelection, wizard.StepCustomerInfo, wizard.StepSignature} {
			if !sess.HasCompleted(required) {
				v.logger.Warn().Int("missing_step", required).Msg("confirmation attempted with incomplete steps")
				return false, "You must complete all previous steps first."
			}
		}
		if len(sess.FormData) == 0 || len(sess.SignatureData) == 0 {
			v.logger.Warn().Str("shopper_id", shopperID.String()).Msg("confirmation attempted with incomplete data")
			return false, "Your information is incomplete. Please redo the previous steps."
		}
	default:
		return false, "Unknown step."
	}

	if rule, ok := v.stepRules[step]; ok {
		passed, err := EvaluateRule(rule, data)
		if err != nil {
			v.logger.Error().Err(err).Int("step", step).Msg("step rule evaluation failed")
			return false, "Please check your input and try again."
		}
		if !passed {
			return false, "Please check your input and try again."
		}
	}
	return true, ""
}

// TransitionIsLegal reports whether completing requestedStep is in
// sequence for the session.
func (v *Validator) TransitionIsLegal(requestedStep int, sess *wizard.Session) bool {
	if sess == nil {
		return false
	}
	return sess.CanComplete(requestedStep)
}

// AllowedStep reconciles the session against the cart and returns the
// step the shopper may act on: 0 when there is no session or the cart
// has no bookable item (send to cart), 1 when the session is
// incoherent (force restart), the session's current step otherwise.
func (v *Validator) AllowedStep(ctx context.Context, shopperID uuid.UUID, sess *wizard.Session) int {
	if sess == nil {
		return 0
	}
	bookable, err := v.cart.HasBookableItem(ctx, shopperID)
	if err != nil || !bookable {
		return 0
	}
	if !sess.IsCoherent() {
		v.logger.Warn().
			Str("shopper_id", shopperID.String()).
			Int("current_step", sess.CurrentStep).
			Ints("completed_steps", sess.CompletedSteps).
			Msg("incoherent wizard session, forcing restart")
		return wizard.FirstStep
	}
	return sess.CurrentStep
}

func isTruthy(v string) bool {
	switch strings.ToLower(strings.TrimSpace(v)) {
	case "true", "1", "yes", "on":
		return true
	}
	return false
}
