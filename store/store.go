// Package store persists documents and view events behind backend-neutral
// interfaces. Mongo is the production backend; SQLite serves local
// development and tests.
package store

import (
	"context"
	"time"

	"github.com/surafelx/portfolio26/models"
)

// Document is anything stored under an application-assigned id.
type Document interface {
	DocID() string
	Created() time.Time
}

// Collection is a set of documents keyed by id. All returns newest first.
// Get, Replace report apperr.ErrNotFound for an unknown id; Insert reports
// apperr.ErrConflict when the id is taken and never overwrites.
type Collection[T Document] interface {
	All(ctx context.Context) ([]T, error)
	Get(ctx context.Context, id string) (T, error)
	Insert(ctx context.Context, doc T) error
	Replace(ctx context.Context, id string, doc T) error
	Delete(ctx context.Context, id string) (bool, error)
	Count(ctx context.Context) (int64, error)
}

// Events is the append-only view/visit log.
type Events interface {
	Append(ctx context.Context, ev models.ViewEvent) error
	// CountBySubject groups events of s by subject id, highest count first,
	// ties broken by id.
	CountBySubject(ctx context.Context, s models.Subject) ([]models.ViewCount, error)
	Count(ctx context.Context, s models.Subject) (int64, error)
	VisitStats(ctx context.Context) (models.VisitStats, error)
}

// Backend bundles every collection the application uses.
type Backend struct {
	Projects Collection[models.Project]
	Articles Collection[models.Article]
	Notes    Collection[models.Note]
	About    Collection[models.About]
	Contacts Collection[models.ContactMessage]
	Events   Events

	ping  func(ctx context.Context) error
	close func(ctx context.Context) error
}

func (b *Backend) Ping(ctx context.Context) error {
	if b.ping == nil {
		return nil
	}
	return b.ping(ctx)
}

func (b *Backend) Close(ctx context.Context) error {
	if b.close == nil {
		return nil
	}
	return b.close(ctx)
}
