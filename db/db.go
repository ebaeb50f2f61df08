// Package db owns the database handles. Connections are opened lazily on
// first use and shared by every caller afterwards.
package db

import (
	"context"
	"fmt"
	"sync"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
)

// Collection names. Each holds documents carrying their own "id" field.
const (
	Projects        = "projects"
	Articles        = "articles"
	Notes           = "notes"
	About           = "about"
	Visits          = "visits"
	ProjectViews    = "project_views"
	ArticleViews    = "article_views"
	NoteViews       = "note_views"
	ContactMessages = "contact_messages"
)

// DocumentCollections are keyed by a unique application id.
var DocumentCollections = []string{Projects, Articles, Notes, About, ContactMessages}

// Mongo is a lazily connected client. Database is safe for concurrent use;
// a failed attempt is not cached, so the next caller retries.
type Mongo struct {
	uri    string
	dbName string

	mu     sync.Mutex
	client *mongo.Client
	db     *mongo.Database
}

func NewMongo(uri, dbName string) *Mongo {
	return &Mongo{uri: uri, dbName: dbName}
}

// Database connects on first call and returns the shared handle.
func (m *Mongo) Database(ctx context.Context) (*mongo.Database, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.db != nil {
		return m.db, nil
	}

	connectCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	client, err := mongo.Connect(connectCtx, options.Client().ApplyURI(m.uri))
	if err != nil {
		return nil, fmt.Errorf("mongo connect: %w", err)
	}
	if err := client.Ping(connectCtx, readpref.Primary()); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("mongo ping: %w", err)
	}
	m.client = client
	m.db = client.Database(m.dbName)
	return m.db, nil
}

func (m *Mongo) Collection(ctx context.Context, name string) (*mongo.Collection, error) {
	d, err := m.Database(ctx)
	if err != nil {
		return nil, err
	}
	return d.Collection(name), nil
}

// Close disconnects if a connection was ever made.
func (m *Mongo) Close(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.client == nil {
		return nil
	}
	err := m.client.Disconnect(ctx)
	m.client, m.db = nil, nil
	return err
}

// EnsureIndexes creates the unique id indexes and the subject indexes used
// by view aggregation.
func (m *Mongo) EnsureIndexes(ctx context.Context) error {
	d, err := m.Database(ctx)
	if err != nil {
		return err
	}
	for _, name := range DocumentCollections {
		_, err := d.Collection(name).Indexes().CreateOne(ctx, mongo.IndexModel{
			Keys:    bson.D{{Key: "id", Value: 1}},
			Options: options.Index().SetUnique(true).SetName("id_unique"),
		})
		if err != nil {
			return fmt.Errorf("index %s.id: %w", name, err)
		}
	}
	views := map[string]string{ProjectViews: "projectId", ArticleViews: "articleId", NoteViews: "noteId", Visits: "ip"}
	for coll, field := range views {
		_, err := d.Collection(coll).Indexes().CreateOne(ctx, mongo.IndexModel{
			Keys: bson.D{{Key: field, Value: 1}},
		})
		if err != nil {
			return fmt.Errorf("index %s.%s: %w", coll, field, err)
		}
	}
	return nil
}

// Ping connects if needed and checks the server is reachable.
func (m *Mongo) Ping(ctx context.Context) error {
	d, err := m.Database(ctx)
	if err != nil {
		return err
	}
	return d.Client().Ping(ctx, readpref.Primary())
}
