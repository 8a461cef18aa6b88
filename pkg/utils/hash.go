// backend/pkg/utils/hash.go
package utils

import (
	"crypto/md5"
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"strings"
	"time"
)

// NormalizeQuery lower-cases and trims a query for cache keying.
func NormalizeQuery(query string) string {
	return strings.ToLower(strings.TrimSpace(query))
}

// QueryHash returns the cache key hash of a normalized query. Hashing bounds
// the key length regardless of query size.
func QueryHash(query string) string {
	hash := md5.Sum([]byte(NormalizeQuery(query)))
	return hex.EncodeToString(hash[:])
}

// GenerateSessionID generates a session ID based on input string
func GenerateSessionID(input string) string {
	// Changes every hour so sessions roll over naturally
	hash := md5.Sum([]byte(input + fmt.Sprintf("%d", time.Now().Unix()/3600)))
	return hex.EncodeToString(hash[:])[:16]
}

// GenerateRandomID generates a random hex ID of the given length
func GenerateRandomID(length int) string {
	bytes := make([]byte, length)
	if _, err := rand.Read(bytes); err != nil {
		// Fallback to timestamp-based ID
		return fmt.Sprintf("%d", time.Now().UnixNano())
	}
	return hex.EncodeToString(bytes)[:length]
}
