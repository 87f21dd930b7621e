package source

import (
	"context"
	"encoding/json"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	errs "github.com/matzehuels/bookstack/pkg/errors"
)

// MongoOptions addresses a collection of book documents.
type MongoOptions struct {
	URI        string
	Database   string
	Collection string
	Timeout    time.Duration
}

// Mongo reads every document of a collection, in _id order, as the book list.
// Document fields use the same names as the JSON file. An "_id" field is
// dropped; a string "id" field is kept.
type Mongo struct {
	opts MongoOptions
}

// Default database and collection names.
const (
	DefaultMongoDatabase   = "bookstack"
	DefaultMongoCollection = "books"
)

// NewMongo returns a MongoDB source. Empty names use the defaults.
func NewMongo(opts MongoOptions) *Mongo {
	if opts.Database == "" {
		opts.Database = DefaultMongoDatabase
	}
	if opts.Collection == "" {
		opts.Collection = DefaultMongoCollection
	}
	if opts.Timeout <= 0 {
		opts.Timeout = 10 * time.Second
	}
	return &Mongo{opts: opts}
}

func (m *Mongo) Name() string { return "mongo:" + m.opts.Database + "." + m.opts.Collection }

func (m *Mongo) Fetch(ctx context.Context) ([]byte, error) {
	ctx, cancel := context.WithTimeout(ctx, m.opts.Timeout)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(m.opts.URI))
	if err != nil {
		return nil, errs.Wrap(errs.ErrCodeNetwork, err, "connect mongo")
	}
	defer func() { _ = client.Disconnect(context.Background()) }()

	coll := client.Database(m.opts.Database).Collection(m.opts.Collection)
	cursor, err := coll.Find(ctx, bson.D{}, options.Find().SetSort(bson.D{{Key: "_id", Value: 1}}))
	if err != nil {
		return nil, errs.Wrap(errs.ErrCodeNetwork, err, "query %s", m.Name())
	}
	var docs []bson.M
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, errs.Wrap(errs.ErrCodeNetwork, err, "read %s", m.Name())
	}
	return documentsJSON(docs)
}

// documentsJSON converts decoded documents to the JSON array the validator
// expects.
func documentsJSON(docs []bson.M) ([]byte, error) {
	out := make([]map[string]any, len(docs))
	for i, doc := range docs {
		m := make(map[string]any, len(doc))
		for k, v := range doc {
			if k == "_id" {
				continue
			}
			m[k] = jsonValue(v)
		}
		out[i] = m
	}
	data, err := json.Marshal(out)
	if err != nil {
		return nil, errs.Wrap(errs.ErrCodeInvalidFormat, err, "encode documents")
	}
	return data, nil
}

func jsonValue(v any) any {
	switch t := v.(type) {
	case primitive.Decimal128:
		return json.Number(t.String())
	case primitive.ObjectID:
		return t.Hex()
	case primitive.DateTime:
		return t.Time().UTC().Format(time.DateOnly)
	case primitive.D:
		return jsonValue(t.Map())
	case bson.M:
		m := make(map[string]any, len(t))
		for k, e := range t {
			m[k] = jsonValue(e)
		}
		return m
	case bson.A:
		a := make([]any, len(t))
		for i, e := range t {
			a[i] = jsonValue(e)
		}
		return a
	}
	return v
}
