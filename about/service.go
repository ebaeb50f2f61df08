// Package about serves the singleton profile document.
package about

import (
	"context"
	"errors"

	"github.com/surafelx/portfolio26/apperr"
	"github.com/surafelx/portfolio26/content"
	"github.com/surafelx/portfolio26/models"
	"github.com/surafelx/portfolio26/store"
)

const (
	// ProfileID is the fixed key of the one About document.
	ProfileID = "profile"

	kind     = "about"
	cacheKey = "about:profile"
)

type Service struct {
	store store.Collection[models.About]
	deps  content.Deps
}

func NewService(s store.Collection[models.About], deps content.Deps) *Service {
	return &Service{store: s, deps: deps}
}

func (s *Service) Get(ctx context.Context) (models.About, error) {
	a, err := content.Cached(ctx, s.deps, cacheKey, func(ctx context.Context) (models.About, error) {
		return s.store.Get(ctx, ProfileID)
	})
	if errors.Is(err, apperr.ErrNotFound) {
		return a, apperr.NotFound("About not found")
	}
	return a, err
}

// Update merges p into the profile, creating it when absent.
func (s *Service) Update(ctx context.Context, p models.AboutPatch) (models.About, error) {
	a, err := s.store.Get(ctx, ProfileID)
	created := false
	switch {
	case errors.Is(err, apperr.ErrNotFound):
		a = models.About{ID: ProfileID, CreatedAt: s.deps.Clock()}
		created = true
	case err != nil:
		return a, err
	}
	p.Apply(&a)
	return s.save(ctx, a, created)
}

// Replace stores a as the whole profile.
func (s *Service) Replace(ctx context.Context, a models.About) (models.About, error) {
	existing, err := s.store.Get(ctx, ProfileID)
	created := false
	switch {
	case errors.Is(err, apperr.ErrNotFound):
		a.CreatedAt = s.deps.Clock()
		created = true
	case err != nil:
		return a, err
	default:
		a.CreatedAt = existing.CreatedAt
	}
	return s.save(ctx, a, created)
}

func (s *Service) save(ctx context.Context, a models.About, created bool) (models.About, error) {
	a.ID = ProfileID
	a.UpdatedAt = s.deps.Clock()
	if a.Qualifications == nil {
		a.Qualifications = []string{}
	}
	if a.Experience == nil {
		a.Experience = []models.Experience{}
	}

	var err error
	action := "updated"
	if created {
		action = "created"
		err = s.store.Insert(ctx, a)
	} else {
		err = s.store.Replace(ctx, ProfileID, a)
	}
	if err != nil {
		return a, err
	}
	s.deps.Changed(ctx, kind, action, ProfileID, cacheKey)
	return a, nil
}
