package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/iliyamo/restaurant-booking/internal/model"
)

const menuColumns = "id, name, price, menu_item_description"

// MenuRepo is the SQL implementation of MenuStore.
type MenuRepo struct {
	db *sqlx.DB
}

// NewMenuRepo constructs a MenuRepo with the provided DB handle.
func NewMenuRepo(db *sqlx.DB) *MenuRepo {
	return &MenuRepo{db: db}
}

// Create inserts a menu item and populates item.ID.
func (r *MenuRepo) Create(ctx context.Context, item *model.MenuItem) error {
	const q = "INSERT INTO menu_items (name, price, menu_item_description) VALUES (?, ?, ?)"
	id, err := insertID(ctx, r.db, q, item.Name, item.Price, item.Description)
	if err != nil {
		return fmt.Errorf("insert menu item: %w", err)
	}
	item.ID = id
	return nil
}

// GetByID fetches a menu item by primary key. It returns ErrNotFound if no
// row matches.
func (r *MenuRepo) GetByID(ctx context.Context, id uint64) (*model.MenuItem, error) {
	var item model.MenuItem
	q := r.db.Rebind("SELECT " + menuColumns + " FROM menu_items WHERE id = ?")
	if err := r.db.GetContext(ctx, &item, q, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("get menu item %d: %w", id, err)
	}
	return &item, nil
}

// ListAll returns the whole menu ordered by id.
func (r *MenuRepo) ListAll(ctx context.Context) ([]model.MenuItem, error) {
	out := []model.MenuItem{}
	if err := r.db.SelectContext(ctx, &out, "SELECT "+menuColumns+" FROM menu_items ORDER BY id"); err != nil {
		return nil, fmt.Errorf("select menu items: %w", err)
	}
	return out, nil
}
