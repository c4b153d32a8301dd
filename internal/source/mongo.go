package source

import (
	"context"
	"strings"
	"time"

	"github.com/pkg/errors"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"mongovault/internal/archive"
)

const connectTimeout = 10 * time.Second

type (
	mongoFactory struct{}

	mongoSource struct {
		client *mongo.Client
	}

	mongoIterator struct {
		cursor *mongo.Cursor
	}
)

func NewMongoFactory() Factory {
	return &mongoFactory{}
}

func (mongoFactory) Open(ctx context.Context, uri string) (Source, error) {
	ctx, cancel := context.WithTimeout(ctx, connectTimeout)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, errors.Wrap(err, "failed to connect to source")
	}
	if err := client.Ping(ctx, nil); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, errors.Wrap(err, "source did not respond to ping")
	}
	return &mongoSource{client: client}, nil
}

func (m *mongoSource) ListCollections(ctx context.Context, database string) ([]string, error) {
	names, err := m.client.Database(database).ListCollectionNames(ctx, bson.D{})
	if err != nil {
		return nil, errors.Wrap(err, "failed to list collections")
	}

	filtered := make([]string, 0, len(names))
	for _, name := range names {
		if strings.HasPrefix(name, "system.") {
			continue
		}
		filtered = append(filtered, name)
	}
	return filtered, nil
}

func (m *mongoSource) ReadAll(ctx context.Context, database, collection string) (archive.Iterator, error) {
	cursor, err := m.client.Database(database).Collection(collection).Find(ctx, bson.D{})
	if err != nil {
		return nil, errors.Wrapf(err, "failed to read collection %s", collection)
	}
	return &mongoIterator{cursor: cursor}, nil
}

func (m *mongoSource) Close(ctx context.Context) error {
	return m.client.Disconnect(ctx)
}

func (it *mongoIterator) Next(ctx context.Context) bool {
	return it.cursor.Next(ctx)
}

func (it *mongoIterator) Decode(out any) error {
	return it.cursor.Decode(out)
}

func (it *mongoIterator) Err() error {
	return it.cursor.Err()
}

func (it *mongoIterator) Close(ctx context.Context) error {
	return it.cursor.Close(ctx)
}
