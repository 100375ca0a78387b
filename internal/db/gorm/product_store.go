package gorm

import (
	"context"

	"github.com/giftwise/giftwise/internal/db"
	"github.com/giftwise/giftwise/pkg/models"
)

// CreateProduct inserts a product and backfills the generated ID and
// timestamps. An empty source defaults to the catalog.
func (s *Store) CreateProduct(ctx context.Context, p *models.Product) error {
	if p.Source == "" {
		p.Source = models.ProductSourceCatalog
	}
	row := fromProduct(p)
	if err := s.db.WithContext(ctx).Create(row).Error; err != nil {
		return err
	}
	p.ID = row.ID
	p.CreatedAt = row.CreatedAt
	p.UpdatedAt = row.UpdatedAt
	return nil
}

// GetProduct fetches a product by ID.
func (s *Store) GetProduct(ctx context.Context, id int64) (*models.Product, error) {
	var row Product
	if err := s.db.WithContext(ctx).First(&row, id).Error; err != nil {
		return nil, notFound(err)
	}
	return toProduct(&row), nil
}

// GetProductByName does an exact, case-sensitive name lookup. On
// duplicates the oldest row wins.
func (s *Store) GetProductByName(ctx context.Context, name string) (*models.Product, error) {
	var row Product
	err := s.db.WithContext(ctx).
		Where("name = ?", name).
		Order("id ASC").
		First(&row).Error
	if err != nil {
		return nil, notFound(err)
	}
	return toProduct(&row), nil
}

// ListProducts returns catalog entries matching the filter, in
// insertion order.
func (s *Store) ListProducts(ctx context.Context, filter db.ProductFilter) ([]*models.Product, error) {
	q := s.db.WithContext(ctx).Model(&Product{})
	if filter.Category != "" {
		q = q.Where("category = ?", filter.Category)
	}
	if filter.MinPrice > 0 {
		q = q.Where("price >= ?", filter.MinPrice)
	}
	if filter.MaxPrice > 0 {
		q = q.Where("price <= ?", filter.MaxPrice)
	}
	if filter.Source != "" {
		q = q.Where("source = ?", filter.Source)
	}
	if filter.Limit > 0 {
		q = q.Limit(filter.Limit)
	}

	var rows []Product
	if err := q.Order("id ASC").Find(&rows).Error; err != nil {
		return nil, err
	}
	out := make([]*models.Product, len(rows))
	for i := range rows {
		out[i] = toProduct(&rows[i])
	}
	return out, nil
}

// UpdateProduct replaces the mutable fields of a product.
func (s *Store) UpdateProduct(ctx context.Context, p *models.Product) error {
	res := s.db.WithContext(ctx).Model(&Product{}).
		Where("id = ?", p.ID).
		Updates(map[string]any{
			"name":          p.Name,
			"description":   p.Description,
			"price":         p.Price,
			"category":      p.Category,
			"categories":    p.Categories,
			"tags":          p.Tags,
			"occasions":     p.Occasions,
			"moods":         p.Moods,
			"relationships": p.Relationships,
			"age_ranges":    p.AgeRanges,
			"genders":       p.Genders,
			"image_url":     p.ImageURL,
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return db.ErrNotFound
	}
	return nil
}

// AddTag attaches a tag to a product. Manual tags get confidence 1.0.
func (s *Store) AddTag(ctx context.Context, t *models.ProductTag) error {
	if t.Source == "" {
		t.Source = models.TagSourceManual
	}
	if t.Source == models.TagSourceManual {
		t.Confidence = 1.0
	}
	row := &ProductTag{
		ProductID:  t.ProductID,
		Tag:        t.Tag,
		Source:     t.Source,
		Confidence: t.Confidence,
	}
	if err := s.db.WithContext(ctx).Create(row).Error; err != nil {
		return err
	}
	t.ID = row.ID
	t.CreatedAt = row.CreatedAt
	return nil
}

// ListTags returns a product's tags, oldest first.
func (s *Store) ListTags(ctx context.Context, productID int64) ([]*models.ProductTag, error) {
	var rows []ProductTag
	err := s.db.WithContext(ctx).
		Where("product_id = ?", productID).
		Order("id ASC").
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	out := make([]*models.ProductTag, len(rows))
	for i := range rows {
		out[i] = toProductTag(&rows[i])
	}
	return out, nil
}

// DeleteTag removes a tag.
func (s *Store) DeleteTag(ctx context.Context, id int64) error {
	res := s.db.WithContext(ctx).Delete(&ProductTag{}, id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return db.ErrNotFound
	}
	return nil
}

// CreateClassification records one auto-tagging pass over a product.
func (s *Store) CreateClassification(ctx context.Context, c *models.ProductClassification) error {
	row := &ProductClassification{
		ProductID:  c.ProductID,
		Category:   c.Category,
		Attributes: c.Attributes,
		Model:      c.Model,
		Confidence: c.Confidence,
	}
	if err := s.db.WithContext(ctx).Create(row).Error; err != nil {
		return err
	}
	c.ID = row.ID
	c.CreatedAt = row.CreatedAt
	return nil
}

// ListClassifications returns a product's classification history,
// newest first.
func (s *Store) ListClassifications(ctx context.Context, productID int64) ([]*models.ProductClassification, error) {
	var rows []ProductClassification
	err := s.db.WithContext(ctx).
		Where("product_id = ?", productID).
		Order("id DESC").
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	out := make([]*models.ProductClassification, len(rows))
	for i := range rows {
		out[i] = toClassification(&rows[i])
	}
	return out, nil
}
