package handlers

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/Varun5711/contatos/internal/models"
)

const maxBodyBytes = 1 << 20

var errEmptyBody = errors.New("request body is empty")

func respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

// WriteError renders {"detail": message}. Middleware uses it so every error
// body has the same shape.
func WriteError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, models.DetailResponse{Detail: message})
}

func decodeJSON(w http.ResponseWriter, r *http.Request, dst interface{}) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		if errors.Is(err, io.EOF) {
			return errEmptyBody
		}
		return err
	}
	return nil
}
