package app

import (
	"net/url"
	"strings"
)

// normalizeDBURL appends disable_prepared_binary_result=yes to the
// connection URL when requested, unless the caller already set it.
func normalizeDBURL(raw string, disablePreparedBinaryResult bool) string {
	if !disablePreparedBinaryResult {
		return raw
	}

	parsed, err := url.Parse(raw)
	if err != nil || parsed == nil {
		return raw
	}

	query := parsed.Query()
	if query.Get("disable_prepared_binary_result") != "" {
		return raw
	}
	query.Set("disable_prepared_binary_result", "yes")
	parsed.RawQuery = query.Encode()

	return parsed.String()
}

// dbNameFromURL extracts the database name for log context. It handles
// both URL and key=value DSN forms and returns "" when no name is set.
func dbNameFromURL(raw string) string {
	trimmed := strings.TrimSpace(raw)

	if parsed, err := url.Parse(trimmed); err == nil && parsed.Scheme != "" {
		if name := strings.TrimPrefix(parsed.Path, "/"); strings.TrimSpace(name) != "" {
			return strings.TrimSpace(name)
		}
	}

	for _, field := range strings.Fields(trimmed) {
		if !strings.HasPrefix(field, "dbname=") {
			continue
		}
		name := strings.Trim(strings.TrimPrefix(field, "dbname="), `"'`)
		if name != "" {
			return name
		}
	}

	return ""
}
