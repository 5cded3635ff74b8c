package defs

import (
	"fmt"
	"strings"
)

func parseEnumCaseInsensitive[E ~string](value string, allowed ...E) (E, error) {
	for _, candidate := range allowed {
		if strings.EqualFold(value, string(candidate)) {
			return candidate, nil
		}
	}

	var zero E
	return zero, fmt.Errorf("unsupported value %q, expected one of %v", value, allowed)
}
