// Package memory provides the in-memory reference store. It backs the
// tests and dev mode; production deployments substitute the gorm store
// behind the same contracts.
package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/giftwise/giftwise/internal/db"
	"github.com/giftwise/giftwise/pkg/models"
)

// Store keeps everything in maps guarded by one mutex. Reads copy the
// stored values so callers can't mutate shared state.
type Store struct {
	mu sync.RWMutex

	nextID int64

	users           map[int64]*models.User
	recipients      map[int64]*models.Recipient
	preferences     map[int64]*models.Preference
	occasions       map[int64]*models.Occasion
	products        map[int64]*models.Product
	productOrder    []int64 // preserves catalog iteration order for stable ties
	tags            map[int64]*models.ProductTag
	classifications map[int64]*models.ProductClassification
	recommendations map[int64]*models.Recommendation
	feedback        []*models.UserFeedback
	purchases       []*models.PurchaseRecord
	similarities    map[int64][]models.UserSimilarity
}

// NewStore creates an empty in-memory store.
func NewStore() *Store {
	return &Store{
		users:           make(map[int64]*models.User),
		recipients:      make(map[int64]*models.Recipient),
		preferences:     make(map[int64]*models.Preference),
		occasions:       make(map[int64]*models.Occasion),
		products:        make(map[int64]*models.Product),
		tags:            make(map[int64]*models.ProductTag),
		classifications: make(map[int64]*models.ProductClassification),
		recommendations: make(map[int64]*models.Recommendation),
		similarities:    make(map[int64][]models.UserSimilarity),
	}
}

// allocID hands out the next identity. Caller must hold s.mu.
func (s *Store) allocID() int64 {
	s.nextID++
	return s.nextID
}

// Ping always succeeds for the in-memory store.
func (s *Store) Ping(ctx context.Context) error { return nil }

// Close is a no-op for the in-memory store.
func (s *Store) Close() error { return nil }

// --- users ---

func (s *Store) CreateUser(ctx context.Context, u *models.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	u.ID = s.allocID()
	if u.CreatedAt.IsZero() {
		u.CreatedAt = time.Now()
	}
	cp := *u
	s.users[u.ID] = &cp
	return nil
}

func (s *Store) GetUser(ctx context.Context, id int64) (*models.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	u, ok := s.users[id]
	if !ok {
		return nil, db.ErrNotFound
	}
	cp := *u
	return &cp, nil
}

// --- recipients ---

func (s *Store) CreateRecipient(ctx context.Context, r *models.Recipient) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	r.ID = s.allocID()
	now := time.Now()
	if r.CreatedAt.IsZero() {
		r.CreatedAt = now
	}
	r.UpdatedAt = now
	cp := *r
	s.recipients[r.ID] = &cp
	return nil
}

func (s *Store) GetRecipient(ctx context.Context, id int64) (*models.Recipient, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	r, ok := s.recipients[id]
	if !ok {
		return nil, db.ErrNotFound
	}
	cp := *r
	return &cp, nil
}

func (s *Store) ListRecipients(ctx context.Context, userID int64) ([]*models.Recipient, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []*models.Recipient
	for _, r := range s.recipients {
		if r.UserID == userID {
			cp := *r
			out = append(out, &cp)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (s *Store) UpdateRecipient(ctx context.Context, r *models.Recipient) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.recipients[r.ID]; !ok {
		return db.ErrNotFound
	}
	r.UpdatedAt = time.Now()
	cp := *r
	s.recipients[r.ID] = &cp
	return nil
}

// DeleteRecipient removes the recipient and cascades to its
// preferences, occasions and recommendations.
func (s *Store) DeleteRecipient(ctx context.Context, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.recipients[id]; !ok {
		return db.ErrNotFound
	}
	delete(s.recipients, id)
	for pid, p := range s.preferences {
		if p.RecipientID == id {
			delete(s.preferences, pid)
		}
	}
	for oid, o := range s.occasions {
		if o.RecipientID == id {
			delete(s.occasions, oid)
		}
	}
	for rid, rec := range s.recommendations {
		if rec.RecipientID == id {
			delete(s.recommendations, rid)
		}
	}
	return nil
}

// --- preferences ---

func (s *Store) CreatePreference(ctx context.Context, p *models.Preference) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.recipients[p.RecipientID]; !ok {
		return db.ErrNotFound
	}
	p.ID = s.allocID()
	if p.CreatedAt.IsZero() {
		p.CreatedAt = time.Now()
	}
	cp := *p
	s.preferences[p.ID] = &cp
	return nil
}

func (s *Store) ListPreferences(ctx context.Context, recipientID int64) ([]*models.Preference, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []*models.Preference
	for _, p := range s.preferences {
		if p.RecipientID == recipientID {
			cp := *p
			out = append(out, &cp)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (s *Store) UpdatePreference(ctx context.Context, p *models.Preference) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.preferences[p.ID]; !ok {
		return db.ErrNotFound
	}
	cp := *p
	s.preferences[p.ID] = &cp
	return nil
}

func (s *Store) DeletePreference(ctx context.Context, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.preferences[id]; !ok {
		return db.ErrNotFound
	}
	delete(s.preferences, id)
	return nil
}

// --- occasions ---

func (s *Store) CreateOccasion(ctx context.Context, o *models.Occasion) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.recipients[o.RecipientID]; !ok {
		return db.ErrNotFound
	}
	o.ID = s.allocID()
	if o.CreatedAt.IsZero() {
		o.CreatedAt = time.Now()
	}
	cp := *o
	s.occasions[o.ID] = &cp
	return nil
}

func (s *Store) ListOccasions(ctx context.Context, recipientID int64) ([]*models.Occasion, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []*models.Occasion
	for _, o := range s.occasions {
		if o.RecipientID == recipientID {
			cp := *o
			out = append(out, &cp)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (s *Store) DeleteOccasion(ctx context.Context, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.occasions[id]; !ok {
		return db.ErrNotFound
	}
	delete(s.occasions, id)
	return nil
}

// --- products ---

func (s *Store) CreateProduct(ctx context.Context, p *models.Product) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	p.ID = s.allocID()
	now := time.Now()
	if p.CreatedAt.IsZero() {
		p.CreatedAt = now
	}
	p.UpdatedAt = now
	if p.Source == "" {
		p.Source = models.ProductSourceCatalog
	}
	cp := *p
	s.products[p.ID] = &cp
	s.productOrder = append(s.productOrder, p.ID)
	return nil
}

func (s *Store) GetProduct(ctx context.Context, id int64) (*models.Product, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	p, ok := s.products[id]
	if !ok {
		return nil, db.ErrNotFound
	}
	cp := *p
	return &cp, nil
}

func (s *Store) GetProductByName(ctx context.Context, name string) (*models.Product, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, id := range s.productOrder {
		if p, ok := s.products[id]; ok && p.Name == name {
			cp := *p
			return &cp, nil
		}
	}
	return nil, db.ErrNotFound
}

func (s *Store) ListProducts(ctx context.Context, filter db.ProductFilter) ([]*models.Product, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []*models.Product
	for _, id := range s.productOrder {
		p, ok := s.products[id]
		if !ok {
			continue
		}
		if filter.Category != "" && p.Category != filter.Category && !p.Categories.Contains(filter.Category) {
			continue
		}
		if filter.MinPrice > 0 && p.Price < filter.MinPrice {
			continue
		}
		if filter.MaxPrice > 0 && p.Price > filter.MaxPrice {
			continue
		}
		if filter.Source != "" && p.Source != filter.Source {
			continue
		}
		cp := *p
		out = append(out, &cp)
		if filter.Limit > 0 && len(out) >= filter.Limit {
			break
		}
	}
	return out, nil
}

func (s *Store) UpdateProduct(ctx context.Context, p *models.Product) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.products[p.ID]; !ok {
		return db.ErrNotFound
	}
	p.UpdatedAt = time.Now()
	cp := *p
	s.products[p.ID] = &cp
	return nil
}

// --- tags & classifications ---

func (s *Store) AddTag(ctx context.Context, t *models.ProductTag) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.products[t.ProductID]; !ok {
		return db.ErrNotFound
	}
	t.ID = s.allocID()
	if t.CreatedAt.IsZero() {
		t.CreatedAt = time.Now()
	}
	cp := *t
	s.tags[t.ID] = &cp
	return nil
}

func (s *Store) ListTags(ctx context.Context, productID int64) ([]*models.ProductTag, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []*models.ProductTag
	for _, t := range s.tags {
		if t.ProductID == productID {
			cp := *t
			out = append(out, &cp)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (s *Store) DeleteTag(ctx context.Context, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.tags[id]; !ok {
		return db.ErrNotFound
	}
	delete(s.tags, id)
	return nil
}

func (s *Store) CreateClassification(ctx context.Context, c *models.ProductClassification) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.products[c.ProductID]; !ok {
		return db.ErrNotFound
	}
	c.ID = s.allocID()
	if c.CreatedAt.IsZero() {
		c.CreatedAt = time.Now()
	}
	cp := *c
	s.classifications[c.ID] = &cp
	return nil
}

func (s *Store) ListClassifications(ctx context.Context, productID int64) ([]*models.ProductClassification, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []*models.ProductClassification
	for _, c := range s.classifications {
		if c.ProductID == productID {
			cp := *c
			out = append(out, &cp)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

// --- recommendations ---

func (s *Store) CreateRecommendation(ctx context.Context, r *models.Recommendation) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.products[r.ProductID]; !ok {
		return db.ErrNotFound
	}
	r.ID = s.allocID()
	now := time.Now()
	if r.CreatedAt.IsZero() {
		r.CreatedAt = now
	}
	r.UpdatedAt = now
	if r.Status == "" {
		r.Status = models.RecommendationNew
	}
	cp := *r
	cp.Product = nil
	s.recommendations[r.ID] = &cp
	return nil
}

func (s *Store) GetRecommendation(ctx context.Context, id int64) (*models.Recommendation, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	r, ok := s.recommendations[id]
	if !ok {
		return nil, db.ErrNotFound
	}
	cp := *r
	return &cp, nil
}

func (s *Store) ListRecommendations(ctx context.Context, userID, recipientID int64) ([]*models.Recommendation, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []*models.Recommendation
	for _, r := range s.recommendations {
		if r.UserID == userID && (recipientID == 0 || r.RecipientID == recipientID) {
			cp := *r
			out = append(out, &cp)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Score != out[j].Score {
			return out[i].Score > out[j].Score
		}
		return out[i].ID < out[j].ID
	})
	return out, nil
}

func (s *Store) UpdateRecommendationStatus(ctx context.Context, id int64, status models.RecommendationStatus) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	r, ok := s.recommendations[id]
	if !ok {
		return db.ErrNotFound
	}
	r.Status = status
	r.UpdatedAt = time.Now()
	return nil
}

// --- feedback ---

func (s *Store) CreateFeedback(ctx context.Context, f *models.UserFeedback) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	f.ID = s.allocID()
	if f.Value == 0 {
		f.Value = f.Type.Weight()
	}
	if f.CreatedAt.IsZero() {
		f.CreatedAt = time.Now()
	}
	cp := *f
	s.feedback = append(s.feedback, &cp)
	return nil
}

func (s *Store) ListFeedbackForProduct(ctx context.Context, userID, productID int64) ([]*models.UserFeedback, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []*models.UserFeedback
	for _, f := range s.feedback {
		if f.UserID == userID && f.ProductID == productID {
			cp := *f
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (s *Store) ListFeedback(ctx context.Context, userID int64) ([]*models.UserFeedback, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []*models.UserFeedback
	for _, f := range s.feedback {
		if f.UserID == userID {
			cp := *f
			out = append(out, &cp)
		}
	}
	return out, nil
}

// --- purchases ---

func (s *Store) CreatePurchase(ctx context.Context, p *models.PurchaseRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	p.ID = s.allocID()
	if p.PurchasedAt.IsZero() {
		p.PurchasedAt = time.Now()
	}
	cp := *p
	s.purchases = append(s.purchases, &cp)
	return nil
}

func (s *Store) ListPurchases(ctx context.Context, userID int64) ([]*models.PurchaseRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []*models.PurchaseRecord
	for _, p := range s.purchases {
		if p.UserID == userID {
			cp := *p
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (s *Store) ListPurchasers(ctx context.Context) ([]int64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	seen := make(map[int64]bool)
	var out []int64
	for _, p := range s.purchases {
		if !seen[p.UserID] {
			seen[p.UserID] = true
			out = append(out, p.UserID)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out, nil
}

// --- similarities ---

func (s *Store) ReplaceSimilarities(ctx context.Context, userID int64, sims []models.UserSimilarity) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	cp := make([]models.UserSimilarity, len(sims))
	copy(cp, sims)
	s.similarities[userID] = cp
	return nil
}

func (s *Store) TopSimilar(ctx context.Context, userID int64, limit int, minScore float64) ([]models.UserSimilarity, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []models.UserSimilarity
	for _, sim := range s.similarities[userID] {
		if sim.Score >= minScore {
			out = append(out, sim)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Score != out[j].Score {
			return out[i].Score > out[j].Score
		}
		return out[i].OtherUserID < out[j].OtherUserID
	})
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}
