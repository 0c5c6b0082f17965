package validators

import (
	"strings"

	"github.com/google/uuid"

	pkgerrors "github.com/meradukaan/meradukaan-backend/pkg/errors"
)

// ParseUUID parses a path or body identifier, reporting field in the error
// details when it is missing or malformed.
func ParseUUID(raw, field string) (uuid.UUID, error) {
	value := strings.TrimSpace(raw)
	if value == "" {
		return uuid.Nil, pkgerrors.New(pkgerrors.CodeValidation, field+" is required").
			WithDetails(map[string]any{"field": field})
	}
	id, err := uuid.Parse(value)
	if err != nil {
		return uuid.Nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid "+field).
			WithDetails(map[string]any{"field": field})
	}
	return id, nil
}
