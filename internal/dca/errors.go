// internal/dca/errors.go
// Error struktural engine DCA

package dca

import (
	"errors"
	"fmt"
)

// ErrValidation adalah sentinel untuk semua error validasi input.
// Pakai errors.Is(err, ErrValidation) di lapisan handler.
var ErrValidation = errors.New("validation error")

// ValidationError: input tabel kosong, window aktif kosong, window negatif,
// atau key metode tidak dikenal. Perhitungan dibatalkan seluruhnya.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return fmt.Sprintf("%s: %s", ErrValidation, e.Message)
	}
	return fmt.Sprintf("%s: %s: %s", ErrValidation, e.Field, e.Message)
}

func (e *ValidationError) Unwrap() error { return ErrValidation }

// ErrorCode kode error aplikasi; validasi selalu bad_input.
func (e *ValidationError) ErrorCode() string { return "bad_input" }

func invalid(field, format string, args ...any) error {
	return &ValidationError{Field: field, Message: fmt.Sprintf(format, args...)}
}
