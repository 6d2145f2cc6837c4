package core

import (
	"fmt"
	"strconv"
	"strings"
)

// CleanString trims all leading and trailing whitespace in `s` and optionally lowers it.
func CleanString(s string, lower ...bool) string {
	s = strings.TrimSpace(s)
	if len(lower) > 0 && lower[0] {
		return strings.ToLower(s)
	}
	return s
}

// NextSeqID returns the next sequential identifier under `prefix`, zero-padded
// to 3 digits ("STU001", "MOD042", ...). The highest existing numeric suffix is
// rescanned on every call; gaps left by deleted records are never reused.
func NextSeqID(prefix string, existing []string) string {
	var max int
	for _, id := range existing {
		if !strings.HasPrefix(id, prefix) {
			continue
		}
		if n, err := strconv.Atoi(strings.TrimPrefix(id, prefix)); err == nil && n > max {
			max = n
		}
	}
	return fmt.Sprintf("%s%0*d", prefix, Conf.GetInt("idPadWidth"), max+1)
}
