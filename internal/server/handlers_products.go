package server

import (
	"net/http"
	"strconv"

	"github.com/giftwise/giftwise/internal/db"
	"github.com/giftwise/giftwise/pkg/models"
)

type productRequest struct {
	Name          string   `json:"name"`
	Description   string   `json:"description"`
	Price         float64  `json:"price"`
	Category      string   `json:"category"`
	Categories    []string `json:"categories"`
	Tags          []string `json:"tags"`
	Occasions     []string `json:"occasions"`
	Moods         []string `json:"moods"`
	Relationships []string `json:"relationships"`
	AgeRanges     []string `json:"age_ranges"`
	Genders       []string `json:"genders"`
	ImageURL      string   `json:"image_url"`
}

func (req *productRequest) validate() string {
	switch {
	case req.Name == "":
		return "name is required"
	case req.Price < 0:
		return "price must not be negative"
	}
	return ""
}

func (req *productRequest) apply(p *models.Product) {
	p.Name = req.Name
	p.Description = req.Description
	p.Price = req.Price
	p.Category = req.Category
	p.Categories = models.JSONStringArray(req.Categories)
	p.Tags = models.JSONStringArray(req.Tags)
	p.Occasions = models.JSONStringArray(req.Occasions)
	p.Moods = models.JSONStringArray(req.Moods)
	p.Relationships = models.JSONStringArray(req.Relationships)
	p.AgeRanges = models.JSONStringArray(req.AgeRanges)
	p.Genders = models.JSONStringArray(req.Genders)
	p.ImageURL = req.ImageURL
}

func (s *Service) handleCreateProduct(w http.ResponseWriter, r *http.Request) {
	var req productRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if msg := req.validate(); msg != "" {
		writeError(w, http.StatusBadRequest, msg)
		return
	}

	product := &models.Product{Source: models.ProductSourceCatalog}
	req.apply(product)
	if err := s.store.CreateProduct(r.Context(), product); err != nil {
		writeStoreError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, product)
}

func (s *Service) handleListProducts(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	filter := db.ProductFilter{
		Category: q.Get("category"),
		Source:   q.Get("source"),
	}
	if raw := q.Get("minPrice"); raw != "" {
		v, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid minPrice")
			return
		}
		filter.MinPrice = v
	}
	if raw := q.Get("maxPrice"); raw != "" {
		v, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid maxPrice")
			return
		}
		filter.MaxPrice = v
	}
	if raw := q.Get("limit"); raw != "" {
		v, err := strconv.Atoi(raw)
		if err != nil || v < 0 {
			writeError(w, http.StatusBadRequest, "invalid limit")
			return
		}
		filter.Limit = v
	}

	products, err := s.store.ListProducts(r.Context(), filter)
	if err != nil {
		writeStoreError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, products)
}

func (s *Service) handleGetProduct(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(w, r)
	if !ok {
		return
	}
	product, err := s.store.GetProduct(r.Context(), id)
	if err != nil {
		writeStoreError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, product)
}

func (s *Service) handleUpdateProduct(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(w, r)
	if !ok {
		return
	}
	product, err := s.store.GetProduct(r.Context(), id)
	if err != nil {
		writeStoreError(w, err)
		return
	}

	var req productRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if msg := req.validate(); msg != "" {
		writeError(w, http.StatusBadRequest, msg)
		return
	}

	req.apply(product)
	if err := s.store.UpdateProduct(r.Context(), product); err != nil {
		writeStoreError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, product)
}

type tagRequest struct {
	Tag string `json:"tag"`
}

func (s *Service) handleListTags(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(w, r)
	if !ok {
		return
	}
	if _, err := s.store.GetProduct(r.Context(), id); err != nil {
		writeStoreError(w, err)
		return
	}
	tags, err := s.store.ListTags(r.Context(), id)
	if err != nil {
		writeStoreError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, tags)
}

func (s *Service) handleAddTag(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(w, r)
	if !ok {
		return
	}
	if _, err := s.store.GetProduct(r.Context(), id); err != nil {
		writeStoreError(w, err)
		return
	}

	var req tagRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if req.Tag == "" {
		writeError(w, http.StatusBadRequest, "tag is required")
		return
	}

	tag := &models.ProductTag{
		ProductID: id,
		Tag:       req.Tag,
		Source:    models.TagSourceManual,
	}
	if err := s.store.AddTag(r.Context(), tag); err != nil {
		writeStoreError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, tag)
}

func (s *Service) handleDeleteTag(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(w, r)
	if !ok {
		return
	}
	if err := s.store.DeleteTag(r.Context(), id); err != nil {
		writeStoreError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Service) handleClassifyProduct(w http.ResponseWriter, r *http.Request) {
	if s.tagger == nil {
		writeError(w, http.StatusServiceUnavailable, "ai classification not configured")
		return
	}
	id, ok := idParam(w, r)
	if !ok {
		return
	}
	classification, err := s.tagger.Classify(r.Context(), id)
	if err != nil {
		s.metrics.recordAIFailure(r)
		writeStoreError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, classification)
}

func (s *Service) handleAutoTagAll(w http.ResponseWriter, r *http.Request) {
	if s.tagger == nil {
		writeError(w, http.StatusServiceUnavailable, "ai classification not configured")
		return
	}
	filter := db.ProductFilter{
		Category: r.URL.Query().Get("category"),
		Source:   r.URL.Query().Get("source"),
	}
	classified, err := s.tagger.ClassifyAll(r.Context(), filter)
	if err != nil {
		s.metrics.recordAIFailure(r)
		writeStoreError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]int{"classified": classified})
}
