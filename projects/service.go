package projects

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/surafelx/portfolio26/apperr"
	"github.com/surafelx/portfolio26/content"
	"github.com/surafelx/portfolio26/models"
	"github.com/surafelx/portfolio26/store"
	"github.com/surafelx/portfolio26/utils"
)

const (
	kind    = "project"
	listKey = "projects:list"

	DefaultPriority = 5
	MinPriority     = 1
	MaxPriority     = 10
)

type Service struct {
	store store.Collection[models.Project]
	deps  content.Deps
}

func NewService(s store.Collection[models.Project], deps content.Deps) *Service {
	return &Service{store: s, deps: deps}
}

// List returns projects by priority, highest first, then newest first.
func (s *Service) List(ctx context.Context) ([]models.Project, error) {
	all, err := content.Cached(ctx, s.deps, listKey, s.store.All)
	if err != nil {
		return nil, err
	}
	Sort(all)
	return all, nil
}

func Sort(all []models.Project) {
	sort.SliceStable(all, func(i, j int) bool {
		if all[i].Priority != all[j].Priority {
			return all[i].Priority > all[j].Priority
		}
		return all[i].CreatedAt.After(all[j].CreatedAt)
	})
}

func (s *Service) Get(ctx context.Context, id string) (models.Project, error) {
	p, err := s.store.Get(ctx, id)
	if errors.Is(err, apperr.ErrNotFound) {
		return p, apperr.NotFound("Project not found")
	}
	return p, err
}

func (s *Service) Create(ctx context.Context, p models.Project) (models.Project, error) {
	p.Title = strings.TrimSpace(p.Title)
	if p.Title == "" {
		return p, apperr.Missing("title")
	}
	p.ID = utils.Slugify(p.Title)
	if p.ID == "" {
		return p, apperr.Invalid("Title must contain letters or digits")
	}
	if p.Priority == 0 {
		p.Priority = DefaultPriority
	}
	if err := prepare(&p); err != nil {
		return p, err
	}
	now := s.deps.Clock()
	p.CreatedAt, p.UpdatedAt = now, now

	if err := s.store.Insert(ctx, p); err != nil {
		if errors.Is(err, apperr.ErrConflict) {
			return p, apperr.Conflict(fmt.Sprintf("A project with id %q already exists", p.ID))
		}
		return p, err
	}
	s.deps.Changed(ctx, kind, "created", p.ID, listKey)
	return p, nil
}

func (s *Service) Update(ctx context.Context, id string, patch models.ProjectPatch) (models.Project, error) {
	p, err := s.Get(ctx, id)
	if err != nil {
		return p, err
	}
	patch.Apply(&p)
	p.ID = id
	if strings.TrimSpace(p.Title) == "" {
		return p, apperr.Missing("title")
	}
	if err := prepare(&p); err != nil {
		return p, err
	}
	p.UpdatedAt = s.deps.Clock()

	if err := s.store.Replace(ctx, id, p); err != nil {
		if errors.Is(err, apperr.ErrNotFound) {
			return p, apperr.NotFound("Project not found")
		}
		return p, err
	}
	s.deps.Changed(ctx, kind, "updated", id, listKey)
	return p, nil
}

func (s *Service) Delete(ctx context.Context, id string) error {
	ok, err := s.store.Delete(ctx, id)
	if err != nil {
		return err
	}
	if !ok {
		return apperr.NotFound("Project not found")
	}
	s.deps.Changed(ctx, kind, "deleted", id, listKey)
	return nil
}

func prepare(p *models.Project) error {
	if p.Priority < MinPriority || p.Priority > MaxPriority {
		return apperr.Invalid(fmt.Sprintf("Priority must be between %d and %d", MinPriority, MaxPriority))
	}
	p.Tags = utils.NormalizeTags(p.Tags)
	if p.Keywords == nil {
		p.Keywords = []string{}
	}
	if p.TechStack == nil {
		p.TechStack = []string{}
	}
	return nil
}

// Filter keeps projects matching search in title, brief, tags or stack.
func Filter(all []models.Project, search, tag string) []models.Project {
	if search == "" && tag == "" {
		return all
	}
	out := make([]models.Project, 0, len(all))
	for _, p := range all {
		if tag != "" && !utils.HasTag(p.Tags, tag) {
			continue
		}
		if search != "" && !matches(p, search) {
			continue
		}
		out = append(out, p)
	}
	return out
}

func matches(p models.Project, search string) bool {
	if utils.ContainsIgnoreCase(p.Title, search) || utils.ContainsIgnoreCase(p.Brief, search) {
		return true
	}
	return utils.HasTag(p.Tags, search) || utils.HasTag(p.TechStack, search) || utils.HasTag(p.Keywords, search)
}
