package utils

import (
	"crypto/sha1"
	"encoding/hex"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestHashObject(t *testing.T) {
	sum := sha1.Sum([]byte("helloblob"))
	assert.Equal(t, hex.EncodeToString(sum[:]), HashObject("blob", []byte("hello")))
	assert.Len(t, HashObject("commit", nil), 40)
	assert.NotEqual(t, HashObject("blob", []byte("x")), HashObject("commit", []byte("x")))
}

func TestSortedKeys(t *testing.T) {
	assert.Equal(t, []string{"a", "b", "c"}, SortedKeys(map[string]int{"c": 3, "a": 1, "b": 2}))
	assert.Empty(t, SortedKeys(map[string]bool{}))
}
