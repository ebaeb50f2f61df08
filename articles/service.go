package articles

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/surafelx/portfolio26/apperr"
	"github.com/surafelx/portfolio26/blocks"
	"github.com/surafelx/portfolio26/content"
	"github.com/surafelx/portfolio26/models"
	"github.com/surafelx/portfolio26/store"
	"github.com/surafelx/portfolio26/utils"
)

const (
	kind    = "article"
	listKey = "articles:list"
)

type Service struct {
	store store.Collection[models.Article]
	deps  content.Deps
}

func NewService(s store.Collection[models.Article], deps content.Deps) *Service {
	return &Service{store: s, deps: deps}
}

// List returns every article, newest first.
func (s *Service) List(ctx context.Context) ([]models.Article, error) {
	all, err := content.Cached(ctx, s.deps, listKey, s.store.All)
	if err != nil {
		return nil, err
	}
	sort.SliceStable(all, func(i, j int) bool { return all[i].CreatedAt.After(all[j].CreatedAt) })
	return all, nil
}

func (s *Service) Get(ctx context.Context, id string) (models.Article, error) {
	a, err := s.store.Get(ctx, id)
	if errors.Is(err, apperr.ErrNotFound) {
		return a, apperr.NotFound("Article not found")
	}
	return a, err
}

// Create derives the id from the title. A second article whose title
// produces an existing id is rejected rather than overwriting the first.
func (s *Service) Create(ctx context.Context, a models.Article) (models.Article, error) {
	a.Title = strings.TrimSpace(a.Title)
	if a.Title == "" {
		return a, apperr.Missing("title")
	}
	a.ID = utils.Slugify(a.Title)
	if a.ID == "" {
		return a, apperr.Invalid("Title must contain letters or digits")
	}
	if err := s.prepare(&a); err != nil {
		return a, err
	}
	if a.PublishedAt == "" {
		a.PublishedAt = s.deps.Clock().Format("2006-01-02")
	}
	now := s.deps.Clock()
	a.CreatedAt, a.UpdatedAt = now, now

	if err := s.store.Insert(ctx, a); err != nil {
		if errors.Is(err, apperr.ErrConflict) {
			return a, apperr.Conflict(fmt.Sprintf("An article with id %q already exists", a.ID))
		}
		return a, err
	}
	s.deps.Changed(ctx, kind, "created", a.ID, listKey)
	return a, nil
}

// Update merges p into the stored article. The id never changes.
func (s *Service) Update(ctx context.Context, id string, p models.ArticlePatch) (models.Article, error) {
	a, err := s.Get(ctx, id)
	if err != nil {
		return a, err
	}
	p.Apply(&a)
	a.ID = id
	if strings.TrimSpace(a.Title) == "" {
		return a, apperr.Missing("title")
	}
	if p.Blocks != nil && p.ReadingTime == nil {
		a.ReadingTime = ""
	}
	if err := s.prepare(&a); err != nil {
		return a, err
	}
	a.UpdatedAt = s.deps.Clock()

	if err := s.store.Replace(ctx, id, a); err != nil {
		if errors.Is(err, apperr.ErrNotFound) {
			return a, apperr.NotFound("Article not found")
		}
		return a, err
	}
	s.deps.Changed(ctx, kind, "updated", id, listKey)
	return a, nil
}

// EditBlocks applies editor operations to the article body and saves it.
func (s *Service) EditBlocks(ctx context.Context, id string, ops []blocks.Op) (models.Article, error) {
	a, err := s.Get(ctx, id)
	if err != nil {
		return a, err
	}
	ed := blocks.NewEditor(a.Blocks, blocks.ArticleKinds, nil)
	if err := blocks.Apply(ed, ops); err != nil {
		return a, apperr.Invalid(err.Error())
	}
	seq := ed.Blocks()
	return s.Update(ctx, id, models.ArticlePatch{Blocks: &seq})
}

func (s *Service) Delete(ctx context.Context, id string) error {
	ok, err := s.store.Delete(ctx, id)
	if err != nil {
		return err
	}
	if !ok {
		return apperr.NotFound("Article not found")
	}
	s.deps.Changed(ctx, kind, "deleted", id, listKey)
	return nil
}

func (s *Service) Count(ctx context.Context) (int64, error) {
	return s.store.Count(ctx)
}

// MigrateLegacy converts articles that still carry a flat body into blocks
// and returns how many were rewritten.
func (s *Service) MigrateLegacy(ctx context.Context) (int, error) {
	all, err := s.store.All(ctx)
	if err != nil {
		return 0, err
	}
	converted := 0
	for _, a := range all {
		if len(a.Blocks) > 0 || strings.TrimSpace(a.Content) == "" {
			continue
		}
		a.Blocks = blocks.FromLegacy(a.Content)
		a.Content = ""
		a.ReadingTime = ""
		if err := s.prepare(&a); err != nil {
			return converted, fmt.Errorf("migrate article %s: %w", a.ID, err)
		}
		a.UpdatedAt = s.deps.Clock()
		if err := s.store.Replace(ctx, a.ID, a); err != nil {
			return converted, fmt.Errorf("migrate article %s: %w", a.ID, err)
		}
		converted++
		s.deps.Logger().Info("article migrated to blocks", "id", a.ID, "blocks", len(a.Blocks))
	}
	if converted > 0 {
		s.deps.Changed(ctx, kind, "migrated", "", listKey)
	}
	return converted, nil
}

func (s *Service) prepare(a *models.Article) error {
	if b, ok := blocks.Validate(a.Blocks, blocks.ArticleKinds); !ok {
		return apperr.Invalid(fmt.Sprintf("Unsupported block type %q", b.Kind))
	}
	a.Blocks = blocks.EnsureIDs(a.Blocks)
	if a.Blocks == nil {
		a.Blocks = []blocks.Block{}
	}
	a.Tags = utils.NormalizeTags(a.Tags)
	if strings.TrimSpace(a.ReadingTime) == "" {
		a.ReadingTime = blocks.ReadingTime(a.Blocks)
	}
	return nil
}

// Filter keeps articles matching the search text and tag.
func Filter(all []models.Article, search, tag string) []models.Article {
	if search == "" && tag == "" {
		return all
	}
	out := make([]models.Article, 0, len(all))
	for _, a := range all {
		if tag != "" && !utils.HasTag(a.Tags, tag) {
			continue
		}
		if search != "" && !utils.ContainsIgnoreCase(a.Title, search) && !utils.ContainsIgnoreCase(a.Excerpt, search) && !utils.HasTag(a.Tags, search) {
			continue
		}
		out = append(out, a)
	}
	return out
}
