package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"time"

	"agristore/internal/database"
	"agristore/internal/models"

	"github.com/fsnotify/fsnotify"
	"gopkg.in/yaml.v3"
)

// ErrProductNotFound is returned for unknown product ids.
var ErrProductNotFound = errors.New("product not found")

// ProductService is the catalog CRUD store, with an optional YAML seed file
// that is hot-reloaded when it changes.
type ProductService struct {
	db *database.DB
}

// NewProductService creates a product service
func NewProductService(db *database.DB) *ProductService {
	return &ProductService{db: db}
}

// List returns all products, newest first.
func (s *ProductService) List(ctx context.Context) ([]models.Product, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT id, name, description, price, image_url, category, created_at, updated_at
		FROM products ORDER BY created_at DESC, id DESC`)
	if err != nil {
		return nil, fmt.Errorf("failed to list products: %w", err)
	}
	defer rows.Close()

	products := []models.Product{}
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan product: %w", err)
		}
		products = append(products, *p)
	}
	return products, rows.Err()
}

// Get loads one product by id.
func (s *ProductService) Get(ctx context.Context, id int64) (*models.Product, error) {
	row := s.db.QueryRowContext(ctx, `SELECT id, name, description, price, image_url, category, created_at, updated_at
		FROM products WHERE id = ?`, id)
	p, err := scanProduct(row)
	if err == sql.ErrNoRows {
		return nil, ErrProductNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load product: %w", err)
	}
	return p, nil
}

// Create inserts a new product. Name and a non-negative price are required.
func (s *ProductService) Create(ctx context.Context, input *models.ProductInput) (*models.Product, error) {
	if input.Name == nil || *input.Name == "" || input.Price == nil || *input.Price < 0 {
		return nil, errors.New("name and valid price are required")
	}

	now := time.Now()
	result, err := s.db.ExecContext(ctx, `INSERT INTO products (name, description, price, image_url, category, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		*input.Name, strOrEmpty(input.Description), *input.Price, strOrEmpty(input.ImageURL), strOrEmpty(input.Category), now, now)
	if err != nil {
		return nil, fmt.Errorf("failed to create product: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("failed to read product id: %w", err)
	}
	return s.Get(ctx, id)
}

// Update applies a partial update; nil fields keep current values.
func (s *ProductService) Update(ctx context.Context, id int64, input *models.ProductInput) (*models.Product, error) {
	if input.Price != nil && *input.Price < 0 {
		return nil, errors.New("invalid price")
	}

	result, err := s.db.ExecContext(ctx, `UPDATE products SET
		name = COALESCE(?, name),
		description = COALESCE(?, description),
		price = COALESCE(?, price),
		image_url = COALESCE(?, image_url),
		category = COALESCE(?, category),
		updated_at = ?
		WHERE id = ?`,
		input.Name, input.Description, input.Price, input.ImageURL, input.Category, time.Now(), id)
	if err != nil {
		return nil, fmt.Errorf("failed to update product: %w", err)
	}
	if rows, _ := result.RowsAffected(); rows == 0 {
		return nil, ErrProductNotFound
	}
	return s.Get(ctx, id)
}

// Delete removes a product.
func (s *ProductService) Delete(ctx context.Context, id int64) error {
	result, err := s.db.ExecContext(ctx, `DELETE FROM products WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to delete product: %w", err)
	}
	if rows, _ := result.RowsAffected(); rows == 0 {
		return ErrProductNotFound
	}
	return nil
}

// SeedFromFile inserts catalog entries from a YAML file, skipping names that
// already exist. Used at boot and re-run when the seed file changes.
func (s *ProductService) SeedFromFile(ctx context.Context, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read seed file: %w", err)
	}

	var entries []models.ProductInput
	if err := yaml.Unmarshal(data, &entries); err != nil {
		return fmt.Errorf("failed to parse seed file: %w", err)
	}

	inserted := 0
	for i := range entries {
		entry := &entries[i]
		if entry.Name == nil || *entry.Name == "" || entry.Price == nil {
			continue
		}

		var count int
		if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM products WHERE name = ?`, *entry.Name).Scan(&count); err != nil {
			return fmt.Errorf("failed to check seed entry: %w", err)
		}
		if count > 0 {
			continue
		}

		if _, err := s.Create(ctx, entry); err != nil {
			return err
		}
		inserted++
	}

	if inserted > 0 {
		log.Printf("✅ [CATALOG] Seeded %d products from %s", inserted, path)
	}
	return nil
}

// WatchSeedFile re-seeds the catalog whenever the seed file is rewritten.
// Runs until ctx is cancelled.
func (s *ProductService) WatchSeedFile(ctx context.Context, path string) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create watcher: %w", err)
	}

	// Watch the directory: editors often replace the file wholesale, which
	// drops a watch placed on the file itself.
	if err := watcher.Add(filepath.Dir(path)); err != nil {
		watcher.Close()
		return fmt.Errorf("failed to watch seed directory: %w", err)
	}

	go func() {
		defer watcher.Close()
		for {
			select {
			case <-ctx.Done():
				return
			case event, ok := <-watcher.Events:
				if !ok {
					return
				}
				if filepath.Clean(event.Name) != filepath.Clean(path) {
					continue
				}
				if event.Op&(fsnotify.Write|fsnotify.Create) == 0 {
					continue
				}
				log.Printf("🔄 [CATALOG] Seed file changed, reloading: %s", path)
				if err := s.SeedFromFile(ctx, path); err != nil {
					log.Printf("⚠️  [CATALOG] Seed reload failed: %v", err)
				}
			case err, ok := <-watcher.Errors:
				if !ok {
					return
				}
				log.Printf("⚠️  [CATALOG] Watcher error: %v", err)
			}
		}
	}()

	return nil
}

func scanProduct(row rowScanner) (*models.Product, error) {
	var p models.Product
	var description, imageURL, category sql.NullString
	err := row.Scan(&p.ID, &p.Name, &description, &p.Price, &imageURL, &category, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		return nil, err
	}
	p.Description = description.String
	p.ImageURL = imageURL.String
	p.Category = category.String
	return &p, nil
}

func strOrEmpty(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
