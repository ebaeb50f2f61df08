package notes

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
)

const (
	kind    = "note"
	listKey = "notes:list"

	// idAttempts bounds retries when two notes are created in the same millisecond.
	idAttempts = 5
)

type Service struct {
	store store.Collection[models.Note]
	deps  content.Deps
}

func NewService(s store.Collection[models.Note], deps content.Deps) *Service {
	return &Service{store: s, deps: deps}
}

// List returns every note newest first, legacy bodies presented as blocks.
func (s *Service) List(ctx context.Context) ([]models.Note, error) {
	all, err := content.Cached(ctx, s.deps, listKey, s.store.All)
	if err != nil {
		return nil, err
	}
	for i := range all {
		all[i] = all[i].Normalized()
	}
	sort.SliceStable(all, func(i, j int) bool { return all[i].CreatedAt.After(all[j].CreatedAt) })
	return all, nil
}

func (s *Service) Get(ctx context.Context, id string) (models.Note, error) {
	n, err := s.store.Get(ctx, id)
	if errors.Is(err, apperr.ErrNotFound) {
		return n, apperr.NotFound("Note not found")
	}
	if err != nil {
		return n, err
	}
	return n.Normalized(), nil
}

// Create assigns a time-based id of the form note-<unix millis>.
func (s *Service) Create(ctx context.Context, n models.Note) (models.Note, error) {
	n.Title = strings.TrimSpace(n.Title)
	if n.Title == "" {
		return n, apperr.Missing("title")
	}
	if err := prepare(&n); err != nil {
		return n, err
	}
	now := s.deps.Clock()
	n.CreatedAt, n.UpdatedAt = now, now

	for attempt := 0; attempt < idAttempts; attempt++ {
		n.ID = fmt.Sprintf("note-%d", now.UnixMilli()+int64(attempt))
		err := s.store.Insert(ctx, n)
		if err == nil {
			s.deps.Changed(ctx, kind, "created", n.ID, listKey)
			return n, nil
		}
		if !errors.Is(err, apperr.ErrConflict) {
			return n, err
		}
	}
	return n, apperr.Conflict("Could not allocate a note id, try again")
}

// Update merges p into the stored note. Setting blocks drops any legacy body.
func (s *Service) Update(ctx context.Context, id string, p models.NotePatch) (models.Note, error) {
	n, err := s.store.Get(ctx, id)
	if errors.Is(err, apperr.ErrNotFound) {
		return n, apperr.NotFound("Note not found")
	}
	if err != nil {
		return n, err
	}
	p.Apply(&n)
	n.ID = id
	if strings.TrimSpace(n.Title) == "" {
		return n, apperr.Missing("title")
	}
	if err := prepare(&n); err != nil {
		return n, err
	}
	n.UpdatedAt = s.deps.Clock()

	if err := s.store.Replace(ctx, id, n); err != nil {
		if errors.Is(err, apperr.ErrNotFound) {
			return n, apperr.NotFound("Note not found")
		}
		return n, err
	}
	s.deps.Changed(ctx, kind, "updated", id, listKey)
	return n.Normalized(), nil
}

// EditBlocks applies editor operations to the note body. A legacy note is
// edited starting from its synthesized paragraph and is stored as blocks.
func (s *Service) EditBlocks(ctx context.Context, id string, ops []blocks.Op) (models.Note, error) {
	n, err := s.Get(ctx, id)
	if err != nil {
		return n, err
	}
	ed := blocks.NewEditor(n.Blocks, blocks.NoteKinds, nil)
	if err := blocks.Apply(ed, ops); err != nil {
		return n, apperr.Invalid(err.Error())
	}
	seq := ed.Blocks()
	return s.Update(ctx, id, models.NotePatch{Blocks: &seq})
}

func (s *Service) Delete(ctx context.Context, id string) error {
	ok, err := s.store.Delete(ctx, id)
	if err != nil {
		return err
	}
	if !ok {
		return apperr.NotFound("Note not found")
	}
	s.deps.Changed(ctx, kind, "deleted", id, listKey)
	return nil
}

func (s *Service) Count(ctx context.Context) (int64, error) {
	return s.store.Count(ctx)
}

// MigrateLegacy rewrites every note that still has a flat body into block
// form and returns how many were converted. Running it twice converts nothing.
func (s *Service) MigrateLegacy(ctx context.Context) (int, error) {
	all, err := s.store.All(ctx)
	if err != nil {
		return 0, err
	}
	converted := 0
	for _, n := range all {
		if len(n.Blocks) > 0 || n.Content == "" {
			continue
		}
		n = n.Normalized()
		n.Content = ""
		n.UpdatedAt = s.deps.Clock()
		if err := s.store.Replace(ctx, n.ID, n); err != nil {
			return converted, fmt.Errorf("migrate note %s: %w", n.ID, err)
		}
		converted++
		s.deps.Logger().Info("note migrated to blocks", "id", n.ID)
	}
	if converted > 0 {
		s.deps.Changed(ctx, kind, "migrated", "", listKey)
	}
	return converted, nil
}

func prepare(n *models.Note) error {
	if b, ok := blocks.Validate(n.Blocks, blocks.NoteKinds); !ok {
		return apperr.Invalid(fmt.Sprintf("Unsupported block type %q", b.Kind))
	}
	n.Blocks = blocks.EnsureIDs(n.Blocks)
	if n.Blocks == nil {
		n.Blocks = []blocks.Block{}
	}
	return nil
}
