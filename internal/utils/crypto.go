// internal/utils/crypto.go
package utils

import (
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"math/big"
	"time"
)

const (
	alphanumeric = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"
	base36       = "abcdefghijklmnopqrstuvwxyz0123456789"
)

func GenerateRandomString(length int) (string, error) {
	return randomFrom(alphanumeric, length)
}

// GenerateRecordID returns "<prefix>_<unix millis>_<9 base36 chars>".
func GenerateRecordID(prefix string) (string, error) {
	suffix, err := randomFrom(base36, 9)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%s_%d_%s", prefix, time.Now().UnixMilli(), suffix), nil
}

func HashString(input string) string {
	return HashBytes([]byte(input))
}

func HashBytes(data []byte) string {
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])
}

func randomFrom(charset string, length int) (string, error) {
	b := make([]byte, length)

	for i := range b {
		n, err := rand.Int(rand.Reader, big.NewInt(int64(len(charset))))
		if err != nil {
			return "", err
		}
		b[i] = charset[n.Int64()]
	}

	return string(b), nil
}
