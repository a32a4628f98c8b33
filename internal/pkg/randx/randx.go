/*
Package randx provides cryptographically secure random identifiers.

It generates the hex-encoded tokens used for authentication and room IDs,
and UUID connection IDs used for log correlation.
*/
package randx

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"

	"github.com/google/uuid"
)

// Hex returns a random hex string with byteLen*2 characters, read from crypto/rand.
func Hex(byteLen int) (string, error) {
	buf := make([]byte, byteLen)

	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("failed to read random bytes: %w", err)
	}

	return hex.EncodeToString(buf), nil
}

// ConnID generates a UUID v4 string identifying a single websocket connection.
func ConnID() string {
	return uuid.New().String()
}
