package utils

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/surafelx/portfolio26/apperr"
)

type M map[string]interface{}

// RespondWithJSON writes data as a JSON body with the given status.
func RespondWithJSON(w http.ResponseWriter, statusCode int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		http.Error(w, "Failed to encode response", http.StatusInternalServerError)
	}
}

func RespondWithError(w http.ResponseWriter, code int, msg string) {
	RespondWithJSON(w, code, map[string]string{"error": msg})
}

// RespondWithErr maps err through the error taxonomy.
func RespondWithErr(w http.ResponseWriter, err error) {
	RespondWithError(w, apperr.Status(err), apperr.Message(err))
}

const maxBodyBytes = 1 << 20

// DecodeJSON reads a bounded JSON body into v.
func DecodeJSON(w http.ResponseWriter, r *http.Request, v interface{}) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	dec := json.NewDecoder(r.Body)
	if err := dec.Decode(v); err != nil {
		if errors.Is(err, io.EOF) {
			return apperr.Invalid("Request body is empty")
		}
		return apperr.Invalid("Invalid JSON")
	}
	return nil
}
