package wizard

import (
	"errors"
	"testing"
	"time"
)

func TestNewSession(t *testing.T) {
	now := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	s := NewSession("1.0", 20*time.Minute, now)
	if s.CurrentStep != FirstStep {
		t.Fatalf("expected fresh session at step %d, got %d", FirstStep, s.CurrentStep)
	}
	if len(s.CompletedSteps) != 0 {
		t.Fatalf("expected no completed steps, got %v", s.CompletedSteps)
	}
	if !s.ExpiresAt.Equal(now.Add(20 * time.Minute)) {
		t.Fatalf("unexpected expiry %v", s.ExpiresAt)
	}
	if s.IsExpired(now) {
		t.Fatalf("fresh session must not be expired")
	}
	if !s.IsExpired(now.Add(21 * time.Minute)) {
		t.Fatalf("session past expires_at must be expired")
	}
}

func TestMarkCompletedIsASet(t *testing.T) {
	s := NewSession("1.0", time.Minute, time.Now())
	s.MarkCompleted(1)
	s.MarkCompleted(1)
	s.MarkCompleted(2)
	if len(s.CompletedSteps) != 2 {
		t.Fatalf("expected completed set {1,2}, got %v", s.CompletedSteps)
	}
	if !s.HasCompleted(1) || !s.HasCompleted(2) || s.HasCompleted(3) {
		t.Fatalf("unexpected completed membership: %v", s.CompletedSteps)
	}
}

func TestCanComplete(t *testing.T) {
	s := NewSession("1.0", time.Minute, time.Now())
	if !s.CanComplete(1) {
		t.Fatalf("step 1 must be completable on a fresh session")
	}
	if s.CanComplete(2) {
		t.Fatalf("step 2 must not be completable while on step 1")
	}
	s.MarkCompleted(1)
	s.CurrentStep = 2
	if !s.CanComplete(2) {
		t.Fatalf("step 2 must be completable after step 1")
	}
	// Double submit: the first write moved current_step forward, so the
	// replay of the same step is no longer legal.
	s.MarkCompleted(2)
	s.CurrentStep = 3
	if s.CanComplete(2) {
		t.Fatalf("replayed completion of step 2 must be rejected")
	}
	// Predecessor gap.
	gap := NewSession("1.0", time.Minute, time.Now())
	gap.CurrentStep = 3
	gap.MarkCompleted(1)
	if gap.CanComplete(3) {
		t.Fatalf("step 3 must not be completable without step 2")
	}
}

func TestIsCoherent(t *testing.T) {
	s := NewSession("1.0", time.Minute, time.Now())
	if !s.IsCoherent() {
		t.Fatalf("fresh session must be coherent")
	}
	s.MarkCompleted(1)
	s.CurrentStep = 2
	if !s.IsCoherent() {
		t.Fatalf("session at step 2 with {1} completed must be coherent")
	}
	// Went back to step 1 with later work recorded: still coherent, the
	// shopper is redoing an earlier step.
	s.MarkCompleted(2)
	s.CurrentStep = 3
	if !s.IsCoherent() {
		t.Fatalf("session at step 3 with {1,2} completed must be coherent")
	}

	ahead := NewSession("1.0", time.Minute, time.Now())
	ahead.CurrentStep = 3
	if ahead.IsCoherent() {
		t.Fatalf("session at step 3 with nothing completed must be incoherent")
	}

	behind := NewSession("1.0", time.Minute, time.Now())
	behind.MarkCompleted(1)
	behind.MarkCompleted(2)
	behind.MarkCompleted(3)
	behind.CurrentStep = 2
	if behind.IsCoherent() {
		t.Fatalf("current_step below completed count must be incoherent")
	}
}

func TestIsCoherentFinishedSession(t *testing.T) {
	now := time.Now()
	s := NewSession("1.0", time.Minute, now)
	for i := 1; i <= 4; i++ {
		s.MarkCompleted(i)
	}
	s.CurrentStep = 4
	s.CompletedAt = &now
	if !s.IsComplete() {
		t.Fatalf("session with all four steps completed must be complete")
	}
	if !s.IsCoherent() {
		t.Fatalf("a finished session must stay coherent")
	}
}

func TestMergeOverwrites(t *testing.T) {
	s := NewSession("1.0", time.Minute, time.Now())
	s.MergeForm(map[string]string{"field_1": "a", "field_2": "b"})
	s.MergeForm(map[string]string{"field_2": "c", "field_3": "d"})
	if s.FormData["field_1"] != "a" || s.FormData["field_2"] != "c" || s.FormData["field_3"] != "d" {
		t.Fatalf("unexpected merged form data: %v", s.FormData)
	}

	s.MergeSignature(map[string]string{SignatureKeyTimestamp: "client-supplied"})
	s.MergeSignature(map[string]string{SignatureKeyTimestamp: "2026-03-01T10:00:00Z"})
	if s.SignatureData[SignatureKeyTimestamp] != "2026-03-01T10:00:00Z" {
		t.Fatalf("server stamp must overwrite client value, got %q", s.SignatureData[SignatureKeyTimestamp])
	}
}

func TestDecodeRoundTrip(t *testing.T) {
	now := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	s := NewSession("1.0", 20*time.Minute, now)
	s.MarkCompleted(1)
	s.CurrentStep = 2
	s.MergeForm(map[string]string{"field_1": "x"})

	blob, err := s.Encode()
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	got, err := Decode(blob)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if got.CurrentStep != 2 || !got.HasCompleted(1) || got.FormData["field_1"] != "x" {
		t.Fatalf("round trip lost state: %+v", got)
	}
	if got.WizardVersion != "1.0" {
		t.Fatalf("round trip lost version: %q", got.WizardVersion)
	}
}

func TestDecodeNilSafety(t *testing.T) {
	s, err := Decode([]byte(`{"current_step":1,"expires_at":"2026-03-01T10:20:00Z"}`))
	if err != nil {
		t.Fatalf("decode minimal blob: %v", err)
	}
	if s.FormData == nil || s.SignatureData == nil || s.CompletedSteps == nil {
		t.Fatalf("decoded maps and slices must be non-nil")
	}
}

func TestDecodeCorrupt(t *testing.T) {
	cases := []string{
		`not json`,
		`{"current_step":0,"expires_at":"2026-03-01T10:20:00Z"}`,
		`{"current_step":5,"expires_at":"2026-03-01T10:20:00Z"}`,
		`{"current_step":2,"completed_steps":[1,1],"expires_at":"2026-03-01T10:20:00Z"}`,
		`{"current_step":2,"completed_steps":[0],"expires_at":"2026-03-01T10:20:00Z"}`,
		`{"current_step":2,"completed_steps":[1,2,3,4,3],"expires_at":"2026-03-01T10:20:00Z"}`,
		`{"current_step":1}`,
	}
	for _, blob := range cases {
		if _, err := Decode([]byte(blob)); !errors.Is(err, ErrCorruptSession) {
			t.Fatalf("expected ErrCorruptSession for %s, got %v", blob, err)
		}
	}
}
