package handlers

import (
	"bytes"
	"errors"
	"net/http"
	"strconv"

	"github.com/Varun5711/contatos/internal/logger"
	"github.com/Varun5711/contatos/internal/models"
	"github.com/Varun5711/contatos/internal/service"
)

const (
	msgContactNotFound = "Contato não encontrado"
	msgDeleted         = "Deletado com sucesso"
	csvFilename        = "contatos.csv"
)

type ContactHandler struct {
	contacts *service.ContactService
	log      *logger.Logger
}

func NewContactHandler(contacts *service.ContactService) *ContactHandler {
	return &ContactHandler{
		contacts: contacts,
		log:      logger.New("contact-handler"),
	}
}

func (h *ContactHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req models.ContactCreate
	if err := decodeJSON(w, r, &req); err != nil {
		h.log.Debug("Failed to decode contact: %v", err)
		WriteError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	contact, err := h.contacts.Create(r.Context(), req)
	if err != nil {
		h.handleError(w, r, err)
		return
	}

	respondJSON(w, http.StatusOK, contact)
}

func (h *ContactHandler) List(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	offset, err := queryInt(q.Get("skip"), 0)
	if err != nil {
		WriteError(w, http.StatusUnprocessableEntity, "skip must be an integer")
		return
	}
	limit, err := queryInt(q.Get("limit"), service.DefaultPageSize)
	if err != nil {
		WriteError(w, http.StatusUnprocessableEntity, "limit must be an integer")
		return
	}

	var favorite *bool
	if raw := q.Get("favorito"); raw != "" {
		v, err := strconv.ParseBool(raw)
		if err != nil {
			WriteError(w, http.StatusUnprocessableEntity, "favorito must be a boolean")
			return
		}
		favorite = &v
	}

	contacts, err := h.contacts.List(r.Context(), models.ListParams{
		Search:   q.Get("search"),
		Group:    q.Get("grupo"),
		Favorite: favorite,
		Offset:   offset,
		Limit:    limit,
	})
	if err != nil {
		h.handleError(w, r, err)
		return
	}

	respondJSON(w, http.StatusOK, contacts)
}

// ExportCSV renders the full export into memory first so a store failure
// still yields a clean 500 instead of a truncated attachment.
func (h *ContactHandler) ExportCSV(w http.ResponseWriter, r *http.Request) {
	var buf bytes.Buffer
	if err := h.contacts.ExportCSV(r.Context(), &buf); err != nil {
		h.handleError(w, r, err)
		return
	}

	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", "attachment; filename="+csvFilename)
	w.Header().Set("Content-Length", strconv.Itoa(buf.Len()))
	w.WriteHeader(http.StatusOK)
	if _, err := buf.WriteTo(w); err != nil {
		h.log.Warn("Failed to stream csv export: %v", err)
	}
}

func (h *ContactHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := h.pathID(w, r)
	if !ok {
		return
	}

	contact, err := h.contacts.GetByID(r.Context(), id)
	if err != nil {
		h.handleError(w, r, err)
		return
	}

	respondJSON(w, http.StatusOK, contact)
}

func (h *ContactHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := h.pathID(w, r)
	if !ok {
		return
	}

	var req models.ContactUpdate
	if err := decodeJSON(w, r, &req); err != nil {
		h.log.Debug("Failed to decode contact update: %v", err)
		WriteError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	contact, err := h.contacts.Update(r.Context(), id, req)
	if err != nil {
		h.handleError(w, r, err)
		return
	}

	respondJSON(w, http.StatusOK, contact)
}

func (h *ContactHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := h.pathID(w, r)
	if !ok {
		return
	}

	if err := h.contacts.Delete(r.Context(), id); err != nil {
		h.handleError(w, r, err)
		return
	}

	respondJSON(w, http.StatusOK, models.DetailResponse{Detail: msgDeleted})
}

func (h *ContactHandler) QRCode(w http.ResponseWriter, r *http.Request) {
	id, ok := h.pathID(w, r)
	if !ok {
		return
	}

	size, err := queryInt(r.URL.Query().Get("size"), 0)
	if err != nil {
		WriteError(w, http.StatusUnprocessableEntity, "size must be an integer")
		return
	}

	png, err := h.contacts.QRCode(r.Context(), id, size)
	if err != nil {
		h.handleError(w, r, err)
		return
	}

	w.Header().Set("Content-Type", "image/png")
	w.Header().Set("Content-Length", strconv.Itoa(len(png)))
	w.WriteHeader(http.StatusOK)
	w.Write(png)
}

func (h *ContactHandler) pathID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		WriteError(w, http.StatusUnprocessableEntity, "contact id must be an integer")
		return 0, false
	}
	return id, true
}

func (h *ContactHandler) handleError(w http.ResponseWriter, r *http.Request, err error) {
	var vErr *service.ValidationError
	switch {
	case errors.Is(err, service.ErrContactNotFound):
		WriteError(w, http.StatusNotFound, msgContactNotFound)
	case errors.As(err, &vErr):
		WriteError(w, http.StatusUnprocessableEntity, vErr.Error())
	default:
		h.log.Error("%s %s failed: %v", r.Method, r.URL.Path, err)
		WriteError(w, http.StatusInternalServerError, "Internal server error")
	}
}

func queryInt(raw string, defaultValue int) (int, error) {
	if raw == "" {
		return defaultValue, nil
	}
	return strconv.Atoi(raw)
}
