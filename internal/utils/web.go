package utils

import (
	"encoding/json"
	"io"
	"net/http"

	"github.com/go-playground/validator/v10"

	"github.com/profwarlock/warlock/internal/errors"
	"github.com/profwarlock/warlock/internal/logger"
)

// WriteErrorAndStatusCode answers with the error's own status code, or
// 500 for untyped errors.
func WriteErrorAndStatusCode(w http.ResponseWriter, err error) {
	if e, ok := err.(*errors.ErrorWithStatusCode); ok {
		http.Error(w, err.Error(), e.StatusCode)
		return
	}
	http.Error(w, err.Error(), http.StatusInternalServerError)
}

// DecodeValidate decodes a JSON body and checks its validate tags.
func DecodeValidate(r io.ReadCloser, body any) error {
	if err := json.NewDecoder(r).Decode(body); err != nil {
		logger.Log.Debug("request body decode failed", "error", err)
		return errors.New(http.StatusBadRequest, "Body is invalid json")
	}
	validate := validator.New(validator.WithRequiredStructEnabled())
	if err := validate.Struct(body); err != nil {
		logger.Log.Debug("request body validation failed", "error", err)
		return errors.New(http.StatusBadRequest, "Required fields missing")
	}
	return nil
}

// Decode decodes a JSON body without validation.
func Decode(r io.ReadCloser, body any) error {
	if err := json.NewDecoder(r).Decode(body); err != nil {
		logger.Log.Debug("request body decode failed", "error", err)
		return errors.New(http.StatusBadRequest, "Body is invalid json")
	}
	return nil
}
