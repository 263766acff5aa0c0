package page

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"

	domainPage "github.com/guided-checkout/guided-checkout/internal/domain/page"
	"github.com/guided-checkout/guided-checkout/internal/domain/wizard"
)

// TTL bounds enforced on the wizard session, checked by diagnostics.
const (
	MinSessionTTL = 5 * time.Minute
	MaxSessionTTL = 60 * time.Minute
)

// Service resolves step pages and reports configuration problems.
// It implements page.Resolver for the workflow engine.
type Service struct {
	repo       domainPage.Repository
	baseURL    string
	sessionTTL time.Duration
	logger     zerolog.Logger
}

// NewService creates a page service. baseURL is the storefront origin
// step page URLs are built on.
func NewService(repo domainPage.Repository, baseURL string, sessionTTL time.Duration, logger zerolog.Logger) *Service {
	return &Service{
		repo:       repo,
		baseURL:    strings.TrimRight(baseURL, "/"),
		sessionTTL: sessionTTL,
		logger:     logger.With().Str("service", "page").Logger(),
	}
}

// ResolveURL returns the URL of the published page for step, or empty
// with wizard.ErrPageNotConfigured when none is configured. Missing
// pages are an operator problem, never a shopper-facing error.
func (s *Service) ResolveURL(ctx context.Context, step int) (string, error) {
	p, err := s.repo.GetByStep(ctx, step)
	if err != nil {
		return "", fmt.Errorf("resolve page for step %d: %w", step, err)
	}
	if p == nil || !p.Published {
		return "", fmt.Errorf("step %d: %w", step, wizard.ErrPageNotConfigured)
	}
	return s.baseURL + "/" + strings.TrimLeft(p.Slug, "/"), nil
}

// Diagnostics describes configuration problems for administrators.
type Diagnostics struct {
	Healthy  bool     `json:"healthy"`
	Problems []string `json:"problems"`
}

// CheckConfiguration reports unconfigured or unpublished step pages
// and out-of-range session TTL.
func (s *Service) CheckConfiguration(ctx context.Context) (*Diagnostics, error) {
	diag := &Diagnostics{Problems: []string{}}
	for step := wizard.FirstStep; step <= wizard.TotalSteps; step++ {
		p, err := s.repo.GetByStep(ctx, step)
		if err != nil {
			return nil, fmt.Errorf("check page for step %d: %w", step, err)
		}
		if p == nil {
			diag.Problems = append(diag.Problems, fmt.Sprintf("no page configured for step %d", step))
			continue
		}
		if !p.Published {
			diag.Problems = append(diag.Problems, fmt.Sprintf("page for step %d is not published", step))
		}
	}
	if s.sessionTTL < MinSessionTTL || s.sessionTTL > MaxSessionTTL {
		diag.Problems = append(diag.Problems, "session TTL must be between 5 and 60 minutes")
	}
	diag.Healthy = len(diag.Problems) == 0
	if !diag.Healthy {
		s.logger.Warn().Strs("problems", diag.Problems).Msg("wizard configuration incomplete")
	}
	return diag, nil
}
