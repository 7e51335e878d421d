// internal/util/errors.go
// Definisi error aplikasi standar + mapping ke HTTP status

package util

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
)

type AppError struct {
	Code    string // e.g., "bad_input", "not_found", "too_large", "unavailable", "internal"
	Message string
}

func (e AppError) Error() string {
	if e.Code == "" {
		return e.Message
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func BadInput(msg string) AppError    { return AppError{Code: "bad_input", Message: msg} }
func NotFound(msg string) AppError    { return AppError{Code: "not_found", Message: msg} }
func Unavailable(msg string) AppError { return AppError{Code: "unavailable", Message: msg} }
func Internal(msg string) AppError    { return AppError{Code: "internal", Message: msg} }
func TooLarge(msg string) AppError    { return AppError{Code: "too_large", Message: msg} }

// Coded error dari paket lain yang membawa kode AppError sendiri
// (mis. dca.ValidationError -> "bad_input").
type Coded interface {
	error
	ErrorCode() string
}

// Classify mengubah error apa pun menjadi AppError + status HTTP.
func Classify(err error) (AppError, int) {
	var (
		ae   AppError
		c    Coded
		tooB *http.MaxBytesError
	)
	switch {
	case errors.As(err, &ae):
	case errors.As(err, &c):
		ae = AppError{Code: c.ErrorCode(), Message: err.Error()}
	case errors.As(err, &tooB):
		ae = TooLarge(fmt.Sprintf("request body exceeds %d bytes", tooB.Limit))
	default:
		ae = Internal(err.Error())
	}
	switch ae.Code {
	case "bad_input":
		return ae, http.StatusBadRequest
	case "not_found":
		return ae, http.StatusNotFound
	case "too_large":
		return ae, http.StatusRequestEntityTooLarge
	case "unavailable":
		return ae, http.StatusServiceUnavailable
	default:
		return ae, http.StatusInternalServerError
	}
}

// WriteError membalas {"error": code, "message": msg}.
func WriteError(w http.ResponseWriter, err error) {
	ae, status := Classify(err)
	WriteJSON(w, status, map[string]any{"error": ae.Code, "message": ae.Message})
}

// WriteJSON helper balasan JSON.
func WriteJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// StatusOf status HTTP untuk err.
func StatusOf(err error) int {
	_, status := Classify(err)
	return status
}

// ReadBody membaca body request maksimal limit byte. Body yang lebih besar
// -> too_large (413), bukan JSON terpotong.
func ReadBody(w http.ResponseWriter, r *http.Request, limit int64) ([]byte, error) {
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, limit))
	if err != nil {
		var tooB *http.MaxBytesError
		if errors.As(err, &tooB) {
			return nil, TooLarge(fmt.Sprintf("request body exceeds %d bytes", limit))
		}
		return nil, BadInput("read body: " + err.Error())
	}
	return body, nil
}
