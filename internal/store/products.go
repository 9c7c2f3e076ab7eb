package store

import (
	"context"
	"database/sql"
	"fmt"

	"storefront-service/internal/models"
)

const productColumns = "id, short_name, long_name, price, images, quality, description, stock, overrides"

// GetProducts retrieves the full catalog in display order
func (s *Store) GetProducts(ctx context.Context) ([]models.Product, error) {
	var products []models.Product
	err := s.db.SelectContext(ctx, &products,
		"SELECT "+productColumns+" FROM products ORDER BY position, id")
	return products, err
}

// GetProductByID retrieves a product by ID
func (s *Store) GetProductByID(ctx context.Context, id string) (*models.Product, error) {
	var product models.Product
	err := s.db.GetContext(ctx, &product,
		"SELECT "+productColumns+" FROM products WHERE id = $1", id)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("product not found: %s", id)
	}
	if err != nil {
		return nil, err
	}
	return &product, nil
}

// ReplaceProducts swaps the whole catalog for the given list inside one
// transaction. Last writer wins; readers see either the old or the new set.
func (s *Store) ReplaceProducts(ctx context.Context, products []models.Product) error {
	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, "DELETE FROM products"); err != nil {
		return fmt.Errorf("failed to clear catalog: %w", err)
	}

	query := `
		INSERT INTO products (id, short_name, long_name, price, images, quality, description, stock, overrides, position)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`

	for i := range products {
		p := &products[i]
		if _, err := tx.ExecContext(ctx, query,
			p.ID, p.ShortName, p.LongName, p.Price, p.Images,
			p.Quality, p.Description, p.Stock, p.Overrides, i); err != nil {
			return fmt.Errorf("failed to insert product %s: %w", p.ID, err)
		}
	}

	return tx.Commit()
}

// CountProducts returns the catalog size
func (s *Store) CountProducts(ctx context.Context) (int, error) {
	var count int
	err := s.db.GetContext(ctx, &count, "SELECT COUNT(*) FROM products")
	return count, err
}
