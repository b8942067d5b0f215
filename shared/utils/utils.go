package utils

import (
	"crypto/sha1"
	"encoding/hex"
	"sort"
)

// HashObject returns the hex SHA-1 of content followed by the object kind.
func HashObject(kind string, content []byte) string {
	h := sha1.New()
	h.Write(content)
	h.Write([]byte(kind))
	return hex.EncodeToString(h.Sum(nil))
}

// SortedKeys returns the keys of m in ascending order.
func SortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
