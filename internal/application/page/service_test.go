package page

import (
	"context"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	domainPage "github.com/guided-checkout/guided-checkout/internal/domain/page"
	"github.com/guided-checkout/guided-checkout/internal/domain/wizard"
)

// MockRepository is a mock implementation of page.Repository
type MockRepository struct {
	mock.Mock
}

func (m *MockRepository) GetByStep(ctx context.Context, step int) (*domainPage.Page, error) {
	args := m.Called(ctx, step)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domainPage.Page), args.Error(1)
}

func (m *MockRepository) List(ctx context.Context) ([]*domainPage.Page, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domainPage.Page), args.Error(1)
}

func TestResolveURL(t *testing.T) {
	ctx := context.Background()
	repo := new(MockRepository)
	repo.On("GetByStep", mock.Anything, 2).Return(&domainPage.Page{
		Step: 2, Slug: "customer-info", Published: true,
	}, nil)
	svc := NewService(repo, "https://shop.example/", 20*time.Minute, zerolog.Nop())

	url, err := svc.ResolveURL(ctx, 2)
	require.NoError(t, err)
	assert.Equal(t, "https://shop.example/customer-info", url)
}

func TestResolveURLNotConfigured(t *testing.T) {
	ctx := context.Background()
	repo := new(MockRepository)
	repo.On("GetByStep", mock.Anything, 1).Return(nil, nil)
	repo.On("GetByStep", mock.Anything, 2).Return(&domainPage.Page{
		Step: 2, Slug: "customer-info", Published: false,
	}, nil)
	svc := NewService(repo, "https://shop.example", 20*time.Minute, zerolog.Nop())

	url, err := svc.ResolveURL(ctx, 1)
	assert.ErrorIs(t, err, wizard.ErrPageNotConfigured)
	assert.Empty(t, url)

	url, err = svc.ResolveURL(ctx, 2)
	assert.ErrorIs(t, err, wizard.ErrPageNotConfigured, "unpublished pages do not resolve")
	assert.Empty(t, url)
}

func TestCheckConfigurationHealthy(t *testing.T) {
	ctx := context.Background()
	repo := new(MockRepository)
	for step := 1; step <= 4; step++ {
		repo.On("GetByStep", mock.Anything, step).Return(&domainPage.Page{
			Step: step, Slug: "step", Published: true,
		}, nil)
	}
	svc := NewService(repo, "https://shop.example", 20*time.Minute, zerolog.Nop())

	diag, err := svc.CheckConfiguration(ctx)
	require.NoError(t, err)
	assert.True(t, diag.Healthy)
	assert.Empty(t, diag.Problems)
}

func TestCheckConfigurationProblems(t *testing.T) {
	ctx := context.Background()
	repo := new(MockRepository)
	repo.On("GetByStep", mock.Anything, 1).Return(&domainPage.Page{Step: 1, Slug: "selection", Published: true}, nil)
	repo.On("GetByStep", mock.Anything, 2).Return(nil, nil)
	repo.On("GetByStep", mock.Anything, 3).Return(&domainPage.Page{Step: 3, Slug: "signature", Published: false}, nil)
	repo.On("GetByStep", mock.Anything, 4).Return(&domainPage.Page{Step: 4, Slug: "validation", Published: true}, nil)
	svc := NewService(repo, "https://shop.example", 2*time.Hour, zerolog.Nop())

	diag, err := svc.CheckConfiguration(ctx)
	require.NoError(t, err)
	assert.False(t, diag.Healthy)
	assert.Len(t, diag.Problems, 3, "missing page, unpublished page and TTL out of range")
}
