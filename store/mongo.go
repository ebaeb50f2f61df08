package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/surafelx/portfolio26/apperr"
	"github.com/surafelx/portfolio26/db"
	"github.com/surafelx/portfolio26/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// NewMongoBackend wires every collection to conn. No connection is made
// until the first query.
func NewMongoBackend(conn *db.Mongo) *Backend {
	return &Backend{
		Projects: NewMongoCollection[models.Project](conn, db.Projects),
		Articles: NewMongoCollection[models.Article](conn, db.Articles),
		Notes:    NewMongoCollection[models.Note](conn, db.Notes),
		About:    NewMongoCollection[models.About](conn, db.About),
		Contacts: NewMongoCollection[models.ContactMessage](conn, db.ContactMessages),
		Events:   &MongoEvents{conn: conn},
		ping:     conn.Ping,
		close:    conn.Close,
	}
}

type MongoCollection[T Document] struct {
	conn *db.Mongo
	name string
}

func NewMongoCollection[T Document](conn *db.Mongo, name string) *MongoCollection[T] {
	return &MongoCollection[T]{conn: conn, name: name}
}

func (c *MongoCollection[T]) All(ctx context.Context) ([]T, error) {
	coll, err := c.conn.Collection(ctx, c.name)
	if err != nil {
		return nil, err
	}
	cur, err := coll.Find(ctx, bson.M{}, options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}}))
	if err != nil {
		return nil, fmt.Errorf("find %s: %w", c.name, err)
	}
	defer cur.Close(ctx)

	out := []T{}
	if err := cur.All(ctx, &out); err != nil {
		return nil, fmt.Errorf("decode %s: %w", c.name, err)
	}
	return out, nil
}

func (c *MongoCollection[T]) Get(ctx context.Context, id string) (T, error) {
	var doc T
	coll, err := c.conn.Collection(ctx, c.name)
	if err != nil {
		return doc, err
	}
	err = coll.FindOne(ctx, bson.M{"id": id}).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return doc, fmt.Errorf("%s %q: %w", c.name, id, apperr.ErrNotFound)
	}
	if err != nil {
		return doc, fmt.Errorf("find %s %q: %w", c.name, id, err)
	}
	return doc, nil
}

func (c *MongoCollection[T]) Insert(ctx context.Context, doc T) error {
	coll, err := c.conn.Collection(ctx, c.name)
	if err != nil {
		return err
	}
	if _, err := coll.InsertOne(ctx, doc); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return fmt.Errorf("%s %q: %w", c.name, doc.DocID(), apperr.ErrConflict)
		}
		return fmt.Errorf("insert %s: %w", c.name, err)
	}
	return nil
}

func (c *MongoCollection[T]) Replace(ctx context.Context, id string, doc T) error {
	coll, err := c.conn.Collection(ctx, c.name)
	if err != nil {
		return err
	}
	res, err := coll.ReplaceOne(ctx, bson.M{"id": id}, doc)
	if err != nil {
		return fmt.Errorf("replace %s %q: %w", c.name, id, err)
	}
	if res.MatchedCount == 0 {
		return fmt.Errorf("%s %q: %w", c.name, id, apperr.ErrNotFound)
	}
	return nil
}

func (c *MongoCollection[T]) Delete(ctx context.Context, id string) (bool, error) {
	coll, err := c.conn.Collection(ctx, c.name)
	if err != nil {
		return false, err
	}
	res, err := coll.DeleteOne(ctx, bson.M{"id": id})
	if err != nil {
		return false, fmt.Errorf("delete %s %q: %w", c.name, id, err)
	}
	return res.DeletedCount > 0, nil
}

func (c *MongoCollection[T]) Count(ctx context.Context) (int64, error) {
	coll, err := c.conn.Collection(ctx, c.name)
	if err != nil {
		return 0, err
	}
	return coll.CountDocuments(ctx, bson.M{})
}

// MongoEvents stores each subject in its own collection, with the subject
// id under "<subject>Id".
type MongoEvents struct {
	conn *db.Mongo
}

func (e *MongoEvents) Append(ctx context.Context, ev models.ViewEvent) error {
	coll, err := e.conn.Collection(ctx, ev.Subject.Collection())
	if err != nil {
		return err
	}
	doc := bson.M{
		"id":        ev.ID,
		"ip":        ev.IP,
		"userAgent": ev.UserAgent,
		"timestamp": ev.Timestamp,
	}
	if field := ev.Subject.Field(); field != "" {
		doc[field] = ev.SubjectID
	} else {
		doc["browser"] = ev.Browser
		doc["os"] = ev.OS
		doc["bot"] = ev.Bot
	}
	if _, err := coll.InsertOne(ctx, doc); err != nil {
		return fmt.Errorf("insert %s: %w", ev.Subject.Collection(), err)
	}
	return nil
}

func (e *MongoEvents) CountBySubject(ctx context.Context, s models.Subject) ([]models.ViewCount, error) {
	field := s.Field()
	if field == "" {
		return []models.ViewCount{}, nil
	}
	coll, err := e.conn.Collection(ctx, s.Collection())
	if err != nil {
		return nil, err
	}
	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: bson.M{field: bson.M{"$nin": bson.A{nil, ""}}}}},
		{{Key: "$group", Value: bson.M{"_id": "$" + field, "count": bson.M{"$sum": 1}}}},
		{{Key: "$sort", Value: bson.D{{Key: "count", Value: -1}, {Key: "_id", Value: 1}}}},
	}
	cur, err := coll.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, fmt.Errorf("aggregate %s: %w", s.Collection(), err)
	}
	defer cur.Close(ctx)

	out := []models.ViewCount{}
	if err := cur.All(ctx, &out); err != nil {
		return nil, fmt.Errorf("decode %s stats: %w", s.Collection(), err)
	}
	return out, nil
}

func (e *MongoEvents) Count(ctx context.Context, s models.Subject) (int64, error) {
	coll, err := e.conn.Collection(ctx, s.Collection())
	if err != nil {
		return 0, err
	}
	return coll.CountDocuments(ctx, bson.M{})
}

func (e *MongoEvents) VisitStats(ctx context.Context) (models.VisitStats, error) {
	coll, err := e.conn.Collection(ctx, models.SubjectVisit.Collection())
	if err != nil {
		return models.VisitStats{}, err
	}
	total, err := coll.CountDocuments(ctx, bson.M{})
	if err != nil {
		return models.VisitStats{}, fmt.Errorf("count visits: %w", err)
	}
	ips, err := coll.Distinct(ctx, "ip", bson.M{})
	if err != nil {
		return models.VisitStats{}, fmt.Errorf("distinct visit ips: %w", err)
	}
	return models.VisitStats{Total: total, UniqueIPs: int64(len(ips))}, nil
}
