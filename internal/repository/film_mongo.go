package repository

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/iliyamo/film-dashboard/internal/model"
)

// MongoFilmRepo stores films as documents, one collection per catalog.
// Documents may carry extra fields; only the four film attributes and
// the _id are projected.
type MongoFilmRepo struct {
	db *mongo.Database // database holding the films collections
}

// NewMongoFilmRepo constructs a MongoFilmRepo over db.
func NewMongoFilmRepo(db *mongo.Database) *MongoFilmRepo {
	return &MongoFilmRepo{db: db}
}

// ListFilms streams every document of collection in natural order.
func (r *MongoFilmRepo) ListFilms(ctx context.Context, collection string) ([]model.Film, error) {
	if collection == "" {
		return nil, ErrEmptyCollection
	}
	cur, err := r.db.Collection(collection).Find(ctx, bson.D{})
	if err != nil {
		return nil, fmt.Errorf("find %s: %w", collection, err)
	}
	defer cur.Close(ctx)

	var out []model.Film
	for cur.Next(ctx) {
		var doc bson.M
		if err := cur.Decode(&doc); err != nil {
			return nil, fmt.Errorf("decode %s document: %w", collection, err)
		}
		out = append(out, filmFromDocument(doc))
	}
	if err := cur.Err(); err != nil {
		return nil, fmt.Errorf("iterate %s: %w", collection, err)
	}
	return out, nil
}

// AddFilm inserts f without an _id and returns the id the driver generated.
func (r *MongoFilmRepo) AddFilm(ctx context.Context, collection string, f model.Film) (string, error) {
	if collection == "" {
		return "", ErrEmptyCollection
	}
	doc := bson.D{
		{Key: "name", Value: f.Name},
		{Key: "genre", Value: f.Genre},
		{Key: "director", Value: f.Director},
		{Key: "company", Value: f.Company},
	}
	res, err := r.db.Collection(collection).InsertOne(ctx, doc)
	if err != nil {
		return "", fmt.Errorf("insert into %s: %w", collection, err)
	}
	return documentID(res.InsertedID), nil
}

func filmFromDocument(doc bson.M) model.Film {
	return model.Film{
		ID:       documentID(doc["_id"]),
		Name:     stringField(doc, "name"),
		Genre:    stringField(doc, "genre"),
		Director: stringField(doc, "director"),
		Company:  stringField(doc, "company"),
	}
}

func documentID(v any) string {
	switch t := v.(type) {
	case nil:
		return ""
	case primitive.ObjectID:
		return t.Hex()
	case string:
		return t
	default:
		return fmt.Sprint(t)
	}
}

// stringField renders non-string values (imported numbers, booleans) with
// fmt so they still show up in the table.
func stringField(doc bson.M, key string) string {
	v, ok := doc[key]
	if !ok || v == nil {
		return ""
	}
	if s, ok := v.(string); ok {
		return s
	}
	return fmt.Sprint(v)
}
