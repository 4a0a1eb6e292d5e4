package validators

import (
	"strings"

	pkgerrors "github.com/angelmondragon/foodcart-engine/pkg/errors"
)

const maxIDLength = 128

func SanitizeString(input string, maxLen int) string {
	trimmed := strings.TrimSpace(input)
	if maxLen > 0 && len(trimmed) > maxLen {
		return trimmed[:maxLen]
	}
	return trimmed
}

// ItemID validates an item identifier taken from the URL path.
func ItemID(raw string) (string, error) {
	id := strings.TrimSpace(raw)
	if id == "" {
		return "", pkgerrors.New(pkgerrors.CodeValidation, "item id is required").WithDetails(map[string]string{"itemID": "is required"})
	}
	if len(id) > maxIDLength {
		return "", pkgerrors.New(pkgerrors.CodeValidation, "item id is too long").WithDetails(map[string]string{"itemID": "must be at most 128 characters"})
	}
	return id, nil
}
