package server

import (
	"net/http"
	"time"

	"github.com/giftwise/giftwise/pkg/models"
)

type recipientRequest struct {
	UserID       int64  `json:"user_id"`
	Name         string `json:"name"`
	Relationship string `json:"relationship"`
	Age          int    `json:"age"`
	Gender       string `json:"gender"`
	Notes        string `json:"notes"`
}

func (req *recipientRequest) validate() string {
	switch {
	case req.UserID <= 0:
		return "user_id is required"
	case req.Name == "":
		return "name is required"
	case req.Age < 0 || req.Age > 150:
		return "age out of range"
	}
	return ""
}

func (s *Service) handleCreateRecipient(w http.ResponseWriter, r *http.Request) {
	var req recipientRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if msg := req.validate(); msg != "" {
		writeError(w, http.StatusBadRequest, msg)
		return
	}

	recipient := &models.Recipient{
		UserID:       req.UserID,
		Name:         req.Name,
		Relationship: req.Relationship,
		Age:          req.Age,
		Gender:       req.Gender,
		Notes:        req.Notes,
	}
	if err := s.store.CreateRecipient(r.Context(), recipient); err != nil {
		writeStoreError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, recipient)
}

func (s *Service) handleListRecipients(w http.ResponseWriter, r *http.Request) {
	userID, err := queryInt64(r, "userId")
	if err != nil || userID <= 0 {
		writeError(w, http.StatusBadRequest, "userId query parameter is required")
		return
	}
	recipients, err := s.store.ListRecipients(r.Context(), userID)
	if err != nil {
		writeStoreError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, recipients)
}

func (s *Service) handleGetRecipient(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(w, r)
	if !ok {
		return
	}
	recipient, err := s.store.GetRecipient(r.Context(), id)
	if err != nil {
		writeStoreError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, recipient)
}

func (s *Service) handleUpdateRecipient(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(w, r)
	if !ok {
		return
	}
	existing, err := s.store.GetRecipient(r.Context(), id)
	if err != nil {
		writeStoreError(w, err)
		return
	}

	req := recipientRequest{
		UserID:       existing.UserID,
		Name:         existing.Name,
		Relationship: existing.Relationship,
		Age:          existing.Age,
		Gender:       existing.Gender,
		Notes:        existing.Notes,
	}
	if !decodeJSON(w, r, &req) {
		return
	}
	if msg := req.validate(); msg != "" {
		writeError(w, http.StatusBadRequest, msg)
		return
	}

	existing.Name = req.Name
	existing.Relationship = req.Relationship
	existing.Age = req.Age
	existing.Gender = req.Gender
	existing.Notes = req.Notes
	if err := s.store.UpdateRecipient(r.Context(), existing); err != nil {
		writeStoreError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, existing)
}

func (s *Service) handleDeleteRecipient(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(w, r)
	if !ok {
		return
	}
	if err := s.store.DeleteRecipient(r.Context(), id); err != nil {
		writeStoreError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

type preferenceRequest struct {
	Type       string `json:"type"`
	Value      string `json:"value"`
	Importance int    `json:"importance"`
}

func (s *Service) handleListPreferences(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(w, r)
	if !ok {
		return
	}
	if _, err := s.store.GetRecipient(r.Context(), id); err != nil {
		writeStoreError(w, err)
		return
	}
	prefs, err := s.store.ListPreferences(r.Context(), id)
	if err != nil {
		writeStoreError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, prefs)
}

func (s *Service) handleCreatePreference(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(w, r)
	if !ok {
		return
	}
	if _, err := s.store.GetRecipient(r.Context(), id); err != nil {
		writeStoreError(w, err)
		return
	}

	var req preferenceRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if req.Type == "" || req.Value == "" {
		writeError(w, http.StatusBadRequest, "type and value are required")
		return
	}
	if req.Importance < 0 || req.Importance > 10 {
		writeError(w, http.StatusBadRequest, "importance must be between 1 and 10")
		return
	}

	pref := &models.Preference{
		RecipientID: id,
		Type:        req.Type,
		Value:       req.Value,
		Importance:  req.Importance,
	}
	if err := s.store.CreatePreference(r.Context(), pref); err != nil {
		writeStoreError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, pref)
}

func (s *Service) handleUpdatePreference(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(w, r)
	if !ok {
		return
	}
	var req preferenceRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if req.Type == "" || req.Value == "" {
		writeError(w, http.StatusBadRequest, "type and value are required")
		return
	}

	pref := &models.Preference{
		ID:         id,
		Type:       req.Type,
		Value:      req.Value,
		Importance: req.Importance,
	}
	if err := s.store.UpdatePreference(r.Context(), pref); err != nil {
		writeStoreError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, pref)
}

func (s *Service) handleDeletePreference(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(w, r)
	if !ok {
		return
	}
	if err := s.store.DeletePreference(r.Context(), id); err != nil {
		writeStoreError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

type occasionRequest struct {
	Name         string    `json:"name"`
	Date         time.Time `json:"date"`
	Recurring    bool      `json:"recurring"`
	ReminderDays int       `json:"reminder_days"`
}

func (s *Service) handleListOccasions(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(w, r)
	if !ok {
		return
	}
	if _, err := s.store.GetRecipient(r.Context(), id); err != nil {
		writeStoreError(w, err)
		return
	}
	occasions, err := s.store.ListOccasions(r.Context(), id)
	if err != nil {
		writeStoreError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, occasions)
}

func (s *Service) handleCreateOccasion(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(w, r)
	if !ok {
		return
	}
	if _, err := s.store.GetRecipient(r.Context(), id); err != nil {
		writeStoreError(w, err)
		return
	}

	var req occasionRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if req.Name == "" {
		writeError(w, http.StatusBadRequest, "name is required")
		return
	}

	occasion := &models.Occasion{
		RecipientID:  id,
		Name:         req.Name,
		Date:         req.Date,
		Recurring:    req.Recurring,
		ReminderDays: req.ReminderDays,
	}
	if err := s.store.CreateOccasion(r.Context(), occasion); err != nil {
		writeStoreError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, occasion)
}

func (s *Service) handleDeleteOccasion(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(w, r)
	if !ok {
		return
	}
	if err := s.store.DeleteOccasion(r.Context(), id); err != nil {
		writeStoreError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
