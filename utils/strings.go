package utils

import (
	"strings"

	"github.com/goccy/go-json"
)

func StructToBytes(s interface{}) ([]byte, error) {
	return json.Marshal(s)
}

func BytesToStruct(data []byte, s interface{}) error {
	return json.Unmarshal(data, s)
}

// IsAbsoluteURL reports whether path already names a full http(s) URL.
func IsAbsoluteURL(path string) bool {
	return strings.HasPrefix(path, "http://") || strings.HasPrefix(path, "https://")
}

// JoinURL prefixes path with base unless path is absolute.
func JoinURL(base, path string) string {
	if IsAbsoluteURL(path) {
		return path
	}
	base = strings.TrimRight(base, "/")
	if path != "" && !strings.HasPrefix(path, "/") {
		path = "/" + path
	}
	return base + path
}
