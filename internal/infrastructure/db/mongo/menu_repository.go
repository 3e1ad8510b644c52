package mongo

import (
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/menuhub/menu-api/internal/core/domain"
)

const menuCollection = "menu_items"

// MenuRepository stores one document per menu item, ordered by insertion.
type MenuRepository struct {
	col *mongo.Collection
}

func NewMenuRepository(db *mongo.Database) *MenuRepository {
	return &MenuRepository{col: db.Collection(menuCollection)}
}

func (r *MenuRepository) List(ctx context.Context) ([]domain.MenuItem, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	cur, err := r.col.Find(ctx, bson.M{}, options.Find().SetSort(bson.D{{Key: "_id", Value: 1}}))
	if err != nil {
		return nil, fmt.Errorf("list menu: %w", err)
	}
	defer cur.Close(ctx)

	items := []domain.MenuItem{}
	if err := cur.All(ctx, &items); err != nil {
		return nil, fmt.Errorf("decode menu: %w", err)
	}
	return items, nil
}

func (r *MenuRepository) Get(ctx context.Context, id int) (*domain.MenuItem, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var item domain.MenuItem
	if err := r.col.FindOne(ctx, bson.M{"item_id": id}).Decode(&item); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrMenuItemNotFound
		}
		return nil, fmt.Errorf("find menu item: %w", err)
	}
	return &item, nil
}

func (r *MenuRepository) Append(ctx context.Context, item domain.MenuItem) ([]domain.MenuItem, error) {
	insertCtx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	if _, err := r.col.InsertOne(insertCtx, item); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return nil, domain.ErrMenuItemExists
		}
		return nil, fmt.Errorf("insert menu item: %w", err)
	}
	return r.List(ctx)
}

// Rename leaves the menu unchanged when no item has id.
func (r *MenuRepository) Rename(ctx context.Context, id int, name string) ([]domain.MenuItem, error) {
	updateCtx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	if _, err := r.col.UpdateOne(updateCtx, bson.M{"item_id": id}, bson.M{"$set": bson.M{"name": name}}); err != nil {
		return nil, fmt.Errorf("rename menu item: %w", err)
	}
	return r.List(ctx)
}

// Remove leaves the menu unchanged when no item has id.
func (r *MenuRepository) Remove(ctx context.Context, id int) ([]domain.MenuItem, error) {
	deleteCtx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	if _, err := r.col.DeleteOne(deleteCtx, bson.M{"item_id": id}); err != nil {
		return nil, fmt.Errorf("remove menu item: %w", err)
	}
	return r.List(ctx)
}

// EnsureIndexes makes item_id the unique key of the collection.
func (r *MenuRepository) EnsureIndexes(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, indexTimeout)
	defer cancel()

	_, err := r.col.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "item_id", Value: 1}},
		Options: options.Index().SetUnique(true),
	})
	return err
}
