package aggregate

import (
	"encoding/json"
	"strings"

	"github.com/denisok6893-rgb/city-matching/internal/domain"
)

// IsSuperhost classifies a raw host_is_superhost value.
//
// Precedence: a bool is used as-is; a string is trimmed and compared
// case-insensitively against "true", "t", "yes" and "1"; a number is true
// only when it equals 1; anything else (nil, slices, maps...) is false.
func IsSuperhost(v any) bool {
	switch x := v.(type) {
	case bool:
		return x
	case string:
		switch strings.ToLower(strings.TrimSpace(x)) {
		case "true", "t", "yes", "1":
			return true
		}
		return false
	case json.Number:
		f, err := x.Float64()
		return err == nil && f == 1
	case float64:
		return x == 1
	case float32:
		return x == 1
	case int:
		return x == 1
	case int8:
		return x == 1
	case int16:
		return x == 1
	case int32:
		return x == 1
	case int64:
		return x == 1
	case uint:
		return x == 1
	case uint8:
		return x == 1
	case uint16:
		return x == 1
	case uint32:
		return x == 1
	case uint64:
		return x == 1
	default:
		return false
	}
}

// superhostLabel returns the flow sink a row belongs to. An absent field
// is classified like nil.
func superhostLabel(row domain.Listing) string {
	var raw any
	if v, ok := row[domain.FieldSuperhost]; ok {
		raw = v
	}
	if IsSuperhost(raw) {
		return domain.SuperhostLabel
	}
	return domain.NotSuperhostLabel
}
