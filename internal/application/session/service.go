package session

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/guided-checkout/guided-checkout/internal/domain/wizard"
)

// Service owns wizard session mutation. It is the only writer of the
// session blob; all reads enforce expiry and shape validation.
type Service struct {
	store   wizard.Store
	ttl     time.Duration
	version string
	logger  zerolog.Logger
}

// NewService creates a session service.
func NewService(store wizard.Store, ttl time.Duration, version string, logger zerolog.Logger) *Service {
	return &Service{
		store:   store,
		ttl:     ttl,
		version: version,
		logger:  logger.With().Str("service", "session").Logger(),
	}
}

// Partial carries fields to merge into an existing session. Nil
// pointers leave the scalar untouched; map fields are key-unioned.
type Partial struct {
	CurrentStep   *int
	CompletedStep *int
	FormData      map[string]string
	SignatureData map[string]string
	CompletedAt   *time.Time
}

// Start overwrites any prior session with a fresh one at step 1.
func (s *Service) Start(ctx context.Context, shopperID uuid.UUID) (*wizard.Session, error) {
	sess := wizard.NewSession(s.version, s.ttl, time.Now().UTC())
	if err := s.persist(ctx, shopperID, sess); err != nil {
		return nil, err
	}
	s.logger.Info().Str("shopper_id", shopperID.String()).Msg("wizard session started")
	return sess, nil
}

// Read returns the shopper's session, or nil when none exists, the
// stored blob is expired, or it fails shape validation. Expired and
// corrupt sessions are cleared implicitly.
func (s *Service) Read(ctx context.Context, shopperID uuid.UUID) (*wizard.Session, error) {
	blob, err := s.store.Get(ctx, shopperID)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", wizard.ErrStoreUnavailable, err)
	}
	if blob == nil {
		return nil, nil
	}
	sess, err := wizard.Decode(blob)
	if err != nil {
		s.logger.Warn().Str("shopper_id", shopperID.String()).Msg("discarding corrupt wizard session")
		_ = s.store.Delete(ctx, shopperID)
		return nil, nil
	}
	if sess.IsExpired(time.Now().UTC()) {
		_ = s.store.Delete(ctx, shopperID)
		return nil, nil
	}
	return sess, nil
}

// Update merges partial into the stored session and refreshes its
// expiry. When no session exists the partial is applied to a fresh one.
func (s *Service) Update(ctx context.Context, shopperID uuid.UUID, partial Partial) (*wizard.Session, error) {
	if partial.CurrentStep != nil && (*partial.CurrentStep < wizard.FirstStep || *partial.CurrentStep > wizard.TotalSteps) {
		return nil, fmt.Errorf("current step %d: %w", *partial.CurrentStep, wizard.ErrValidation)
	}
	sess, err := s.Read(ctx, shopperID)
	if err != nil {
		return nil, err
	}
	if sess == nil {
		sess = wizard.NewSession(s.version, s.ttl, time.Now().UTC())
	}
	applyPartial(sess, partial)
	if err := s.persist(ctx, shopperID, sess); err != nil {
		return nil, err
	}
	return sess, nil
}

// Clear deletes the shopper's session.
func (s *Service) Clear(ctx context.Context, shopperID uuid.UUID) error {
	if err := s.store.Delete(ctx, shopperID); err != nil {
		return fmt.Errorf("%w: %v", wizard.ErrStoreUnavailable, err)
	}
	return nil
}

// CompleteStep records step as completed and advances current_step,
// merging captured data per step. Transition legality is re-validated
// against the stored session at write time, so of two racing advances
// for the same step only the first wins; the second sees current_step
// already moved and gets ErrSequence.
func (s *Service) CompleteStep(ctx context.Context, shopperID uuid.UUID, step int, data map[string]string, stamps map[string]string) (*wizard.Session, error) {
	sess, err := s.Read(ctx, shopperID)
	if err != nil {
		return nil, err
	}
	if sess == nil {
		return nil, wizard.ErrSequence
	}
	if !sess.CanComplete(step) {
		s.logger.Warn().
			Str("shopper_id", shopperID.String()).
			Int("requested_step", step).
			Int("current_step", sess.CurrentStep).
			Msg("step completion out of sequence")
		return nil, wizard.ErrSequence
	}

	sess.MarkCompleted(step)
	switch step {
	case wizard.StepCustomerInfo:
		sess.MergeForm(data)
	case wizard.StepSignature:
		// Client fields first, then server stamps: the stamps always
		// win, and a redo overwrites rather than duplicates them.
		sess.MergeSignature(data)
		sess.MergeSignature(stamps)
	}
	if step < wizard.TotalSteps {
		sess.CurrentStep = step + 1
	} else {
		now := time.Now().UTC()
		sess.CompletedAt = &now
	}

	if err := s.persist(ctx, shopperID, sess); err != nil {
		return nil, err
	}
	s.logger.Info().
		Str("shopper_id", shopperID.String()).
		Int("step", step).
		Int("next_step", sess.CurrentStep).
		Msg("wizard step completed")
	return sess, nil
}

func (s *Service) persist(ctx context.Context, shopperID uuid.UUID, sess *wizard.Session) error {
	sess.ExpiresAt = time.Now().UTC().Add(s.ttl)
	blob, err := sess.Encode()
	if err != nil {
		return fmt.Errorf("encode session: %w", err)
	}
	if err := s.store.Set(ctx, shopperID, blob, s.ttl); err != nil {
		if !errors.Is(err, wizard.ErrStoreUnavailable) {
			err = fmt.Errorf("%w: %v", wizard.ErrStoreUnavailable, err)
		}
		return err
	}
	return nil
}

func applyPartial(sess *wizard.Session, partial Partial) {
	if partial.CurrentStep != nil {
		sess.CurrentStep = *partial.CurrentStep
	}
	if partial.CompletedStep != nil {
		sess.MarkCompleted(*partial.CompletedStep)
	}
	if partial.FormData != nil {
		sess.MergeForm(partial.FormData)
	}
	if partial.SignatureData != nil {
		sess.MergeSignature(partial.SignatureData)
	}
	if partial.CompletedAt != nil {
		sess.CompletedAt = partial.CompletedAt
	}
}
