package persist

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"

	"pageforge/internal/domain"
)

const (
	mongoDatabase   = "pageforge"
	mongoCollection = "layouts"
)

// mongoBackend mirrors layouts into a MongoDB collection, one document per
// (book, page, side).
type mongoBackend struct {
	client *mongo.Client
}

// layoutDoc is the stored document shape. The layout itself is embedded as
// a BSON subdocument via its JSON tags.
type layoutDoc struct {
	BookKey   string                `bson:"bookKey"`
	PageIndex int                   `bson:"pageIndex"`
	Side      string                `bson:"side"`
	Layout    domain.PageSideLayout `bson:"layout"`
	UpdatedAt time.Time             `bson:"updatedAt"`
}

func newMongoBackend(ctx context.Context, uri string) (*mongoBackend, error) {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	client, err := mongo.Connect(options.Client().ApplyURI(uri))
	if err != nil {
		return nil, fmt.Errorf("connect mongodb: %w", err)
	}
	if err := client.Ping(ctx, nil); err != nil {
		client.Disconnect(context.Background())
		return nil, fmt.Errorf("ping mongodb: %w", err)
	}
	return &mongoBackend{client: client}, nil
}

func (b *mongoBackend) collection() *mongo.Collection {
	return b.client.Database(mongoDatabase).Collection(mongoCollection)
}

func keyFilter(key domain.LayoutKey) bson.D {
	return bson.D{
		{Key: "bookKey", Value: key.BookKey},
		{Key: "pageIndex", Value: key.PageIndex},
		{Key: "side", Value: string(key.Side)},
	}
}

func (b *mongoBackend) TestConnection(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	return b.client.Ping(ctx, nil)
}

func (b *mongoBackend) UpsertLayout(ctx context.Context, key domain.LayoutKey, layout *domain.PageSideLayout) error {
	doc := layoutDoc{
		BookKey:   key.BookKey,
		PageIndex: key.PageIndex,
		Side:      string(key.Side),
		Layout:    *layout,
		UpdatedAt: time.Now().UTC(),
	}
	_, err := b.collection().ReplaceOne(ctx, keyFilter(key), doc,
		options.Replace().SetUpsert(true))
	if err != nil {
		return fmt.Errorf("mirror upsert: %w", err)
	}
	return nil
}

func (b *mongoBackend) LoadLayout(ctx context.Context, key domain.LayoutKey) (*domain.PageSideLayout, error) {
	var doc layoutDoc
	err := b.collection().FindOne(ctx, keyFilter(key)).Decode(&doc)
	if err == mongo.ErrNoDocuments {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("mirror load: %w", err)
	}
	return &doc.Layout, nil
}

func (b *mongoBackend) DeleteLayout(ctx context.Context, key domain.LayoutKey) error {
	_, err := b.collection().DeleteOne(ctx, keyFilter(key))
	if err != nil {
		return fmt.Errorf("mirror delete: %w", err)
	}
	return nil
}

func (b *mongoBackend) Close() error {
	return b.client.Disconnect(context.Background())
}
