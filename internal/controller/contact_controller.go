// internal/controller/contact_controller.go
package controller

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	appErrors "github.com/unclebandit/contacts-backend/internal/errors"
	"github.com/unclebandit/contacts-backend/internal/model"
	"github.com/unclebandit/contacts-backend/internal/service"
)

type ContactController struct {
	ContactService *service.ContactService
	Logger         *slog.Logger
}

// Routes mounts the contact endpoints on r.
func (c *ContactController) Routes(r chi.Router) {
	r.Get("/contacts", c.ListContacts)
	r.Get("/contacts/export", c.ExportContacts)
	r.Post("/contacts", c.CreateContact)
	r.Get("/contacts/{id}", c.GetContact)
	r.Put("/contacts/{id}", c.ReplaceContact)
	r.Patch("/contacts/{id}", c.PatchContact)
	r.Delete("/contacts/{id}", c.DeleteContact)
	r.Post("/contacts/{id}/favourite", c.ToggleFavourite)
}

func (c *ContactController) ListContacts(w http.ResponseWriter, r *http.Request) {
	q := service.ParseContactQuery(r.URL.Query())

	page, err := c.ContactService.ListContacts(r.Context(), q)
	if err != nil {
		c.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, page)
}

// ExportContacts returns the whole collection as a seed document.
func (c *ContactController) ExportContacts(w http.ResponseWriter, r *http.Request) {
	all, err := c.ContactService.AllContacts(r.Context())
	if err != nil {
		c.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, model.ContactDocument{Contacts: all})
}

func (c *ContactController) GetContact(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(w, r)
	if !ok {
		return
	}

	contact, err := c.ContactService.GetContact(r.Context(), id)
	if err != nil {
		c.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, contact)
}

func (c *ContactController) CreateContact(w http.ResponseWriter, r *http.Request) {
	var body model.ContactInput
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeJSONError(w, http.StatusBadRequest, "invalid body")
		return
	}

	contact, err := c.ContactService.CreateContact(r.Context(), body)
	if err != nil {
		c.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, contact)
}

func (c *ContactController) ReplaceContact(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(w, r)
	if !ok {
		return
	}

	var body model.ContactInput
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeJSONError(w, http.StatusBadRequest, "invalid body")
		return
	}

	contact, err := c.ContactService.ReplaceContact(r.Context(), id, body)
	if err != nil {
		c.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, contact)
}

func (c *ContactController) PatchContact(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(w, r)
	if !ok {
		return
	}

	var body model.ContactPatch
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeJSONError(w, http.StatusBadRequest, "invalid body")
		return
	}

	contact, err := c.ContactService.PatchContact(r.Context(), id, body)
	if err != nil {
		c.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, contact)
}

func (c *ContactController) ToggleFavourite(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(w, r)
	if !ok {
		return
	}

	contact, err := c.ContactService.ToggleFavourite(r.Context(), id)
	if err != nil {
		c.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, contact)
}

func (c *ContactController) DeleteContact(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(w, r)
	if !ok {
		return
	}

	if err := c.ContactService.DeleteContact(r.Context(), id); err != nil {
		c.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]int{"id": id})
}

func parseID(w http.ResponseWriter, r *http.Request) (int, bool) {
	id, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil {
		writeJSONError(w, http.StatusBadRequest, "invalid contact id")
		return 0, false
	}
	return id, true
}

// writeError maps service errors to HTTP statuses.
func (c *ContactController) writeError(w http.ResponseWriter, r *http.Request, err error) {
	var notFound *appErrors.ErrContactNotFound
	var invalid appErrors.ValidationErrors

	switch {
	case errors.As(err, &notFound):
		writeJSONError(w, http.StatusNotFound, err.Error())
	case errors.As(err, &invalid):
		writeJSON(w, http.StatusUnprocessableEntity, map[string]any{
			"error":  err.Error(),
			"fields": invalid,
		})
	default:
		if c.Logger != nil {
			c.Logger.Error("request failed", "method", r.Method, "path", r.URL.Path, "err", err)
		}
		writeJSONError(w, http.StatusInternalServerError, "internal server error")
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeJSONError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}
