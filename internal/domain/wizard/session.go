package wizard

import (
	"encoding/json"
	"time"
)

// Step numbers of the guided checkout.
const (
	StepSelection    = 1
	StepCustomerInfo = 2
	StepSignature    = 3
	StepConfirmation = 4

	FirstStep  = StepSelection
	TotalSteps = 4
)

// StepLabels maps step numbers to their display labels.
var StepLabels = map[int]string{
	StepSelection:    "Selection",
	StepCustomerInfo: "Information",
	StepSignature:    "Signature",
	StepConfirmation: "Validation",
}

// Keys the server stamps into signature data. Client-supplied values
// under these keys are always overwritten.
const (
	SignatureKeyTimestamp       = "timestamp"
	SignatureKeyIPAddress       = "ip_address"
	SignatureKeyContractVersion = "contract_version"
	SignatureKeyAccepted        = "signature_accepted"
)

// Session is the per-shopper wizard state. It is persisted as a single
// JSON blob through a Store and only mutated via the session service.
type Session struct {
	StartedAt      time.Time         `json:"started_at"`
	CurrentStep    int               `json:"current_step"`
	CompletedSteps []int             `json:"completed_steps"`
	FormData       map[string]string `json:"form_data"`
	SignatureData  map[string]string `json:"signature_data"`
	WizardVersion  string            `json:"wizard_version"`
	ExpiresAt      time.Time         `json:"expires_at"`
	CompletedAt    *time.Time        `json:"completed_at,omitempty"`
}

// NewSession creates a fresh session at step 1.
func NewSession(version string, ttl time.Duration, now time.Time) *Session {
	return &Session{
		StartedAt:      now,
		CurrentStep:    FirstStep,
		CompletedSteps: []int{},
		FormData:       map[string]string{},
		SignatureData:  map[string]string{},
		WizardVersion:  version,
		ExpiresAt:      now.Add(ttl),
	}
}

func (s *Session) IsExpired(now time.Time) bool {
	return now.After(s.ExpiresAt)
}

// HasCompleted reports whether step is in the completed set.
func (s *Session) HasCompleted(step int) bool {
	for _, c := range s.CompletedSteps {
		if c == step {
			return true
		}
	}
	return false
}

// MarkCompleted adds step to the completed set. The set only grows;
// re-completing a step after going back is a no-op on the set.
func (s *Session) MarkCompleted(step int) {
	if !s.HasCompleted(step) {
		s.CompletedSteps = append(s.CompletedSteps, step)
	}
}

// IsComplete reports whether the whole wizard has been finished.
func (s *Session) IsComplete() bool {
	return len(s.CompletedSteps) >= TotalSteps && s.HasCompleted(StepConfirmation)
}

// CanComplete reports whether completing step is a legal transition:
// the step must be the one the shopper is currently on, and its
// predecessor must already be completed. Re-checked at write time so a
// double-submitted advance loses the race instead of advancing twice.
func (s *Session) CanComplete(step int) bool {
	if step != s.CurrentStep {
		return false
	}
	if step > FirstStep && !s.HasCompleted(step-1) {
		return false
	}
	return true
}

// IsCoherent verifies the structural invariants between current_step
// and completed_steps: the current step is at least one past the
// completed count, and every step below it has been completed.
func (s *Session) IsCoherent() bool {
	if s.CurrentStep < len(s.CompletedSteps)+1 && !s.IsComplete() {
		return false
	}
	for i := FirstStep; i < s.CurrentStep; i++ {
		if !s.HasCompleted(i) {
			return false
		}
	}
	return true
}

// MergeForm key-unions data into form_data; existing keys are
// overwritten by incoming values.
func (s *Session) MergeForm(data map[string]string) {
	if s.FormData == nil {
		s.FormData = map[string]string{}
	}
	for k, v := range data {
		s.FormData[k] = v
	}
}

// MergeSignature key-unions data into signature_data.
func (s *Session) MergeSignature(data map[string]string) {
	if s.SignatureData == nil {
		s.SignatureData = map[string]string{}
	}
	for k, v := range data {
		s.SignatureData[k] = v
	}
}

// Validate checks the shape of a session decoded from the store. A
// blob that fails here is treated as corrupt and discarded.
func (s *Session) Validate() error {
	if s.CurrentStep < FirstStep || s.CurrentStep > TotalSteps {
		return ErrCorruptSession
	}
	if len(s.CompletedSteps) > TotalSteps {
		return ErrCorruptSession
	}
	seen := map[int]struct{}{}
	for _, c := range s.CompletedSteps {
		if c < FirstStep || c > TotalSteps {
			return ErrCorruptSession
		}
		if _, dup := seen[c]; dup {
			return ErrCorruptSession
		}
		seen[c] = struct{}{}
	}
	if s.ExpiresAt.IsZero() {
		return ErrCorruptSession
	}
	return nil
}

// Encode serializes the session for the store.
func (s *Session) Encode() ([]byte, error) {
	return json.Marshal(s)
}

// Decode deserializes and shape-validates a stored session blob.
func Decode(blob []byte) (*Session, error) {
	var s Session
	if err := json.Unmarshal(blob, &s); err != nil {
		return nil, ErrCorruptSession
	}
	if err := s.Validate(); err != nil {
		return nil, err
	}
	if s.FormData == nil {
		s.FormData = map[string]string{}
	}
	if s.SignatureData == nil {
		s.SignatureData = map[string]string{}
	}
	if s.CompletedSteps == nil {
		s.CompletedSteps = []int{}
	}
	return &s, nil
}
