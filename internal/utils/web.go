package utils

import (
	"encoding/json"
	"io"
	"net/http"

	"github.com/go-playground/validator/v10"

	"github.com/forumkit/forumkit/internal/apperr"
	"github.com/forumkit/forumkit/internal/logger"
)

// WriteError maps a service error onto its HTTP status. Anything that is
// not an apperr is a 500.
func WriteError(w http.ResponseWriter, err error) {
	http.Error(w, err.Error(), apperr.StatusCode(err))
}

// DecodeValidate decodes a JSON body and enforces the DTO's validate
// tags.
func DecodeValidate(r io.ReadCloser, body any) error {
	if err := json.NewDecoder(r).Decode(body); err != nil {
		logger.Log.Debug("body decode failed", "error", err)
		return apperr.Validation("Body is invalid json")
	}
	validate := validator.New(validator.WithRequiredStructEnabled())
	if err := validate.Struct(body); err != nil {
		logger.Log.Debug("body validation failed", "error", err)
		return apperr.Validation("Required fields missing")
	}
	return nil
}
