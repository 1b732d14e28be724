package redis

import (
	"fmt"
	"strconv"
)

const (
	// KeyPrefixUsage is the prefix for bookmark usage counters
	KeyPrefixUsage = "bookmarks:usage:"
)

// UsageKey returns the Redis key holding the usage counter of a bookmark
func UsageKey(id int64) string {
	return KeyPrefixUsage + strconv.FormatInt(id, 10)
}

// ExtractBookmarkID extracts the bookmark ID from a usage key
func ExtractBookmarkID(key string) (int64, error) {
	if len(key) <= len(KeyPrefixUsage) || key[:len(KeyPrefixUsage)] != KeyPrefixUsage {
		return 0, fmt.Errorf("invalid usage key: %s", key)
	}
	id, err := strconv.ParseInt(key[len(KeyPrefixUsage):], 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid usage key: %s", key)
	}
	return id, nil
}
