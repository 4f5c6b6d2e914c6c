package main

import (
	"crypto/rand"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/base64"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"golang.org/x/crypto/pbkdf2"
)

const (
	pbkdf2Iterations = 210_000
	pbkdf2SaltLen    = 16
	pbkdf2KeyLen     = 32
)

var errBadPasswordHash = errors.New("malformed password hash")

// hashPassword derives a salted PBKDF2-SHA256 hash and encodes it as
// pbkdf2:sha256:<iterations>$<salt>$<key> so the iteration count can be
// raised later without invalidating stored hashes.
func hashPassword(password string) ([]byte, error) {
	salt := make([]byte, pbkdf2SaltLen)
	_, err := rand.Read(salt)
	if err != nil {
		return nil, err
	}
	key := pbkdf2.Key([]byte(password), salt, pbkdf2Iterations, pbkdf2KeyLen, sha256.New)
	encoded := fmt.Sprintf("pbkdf2:sha256:%d$%s$%s",
		pbkdf2Iterations,
		base64.RawStdEncoding.EncodeToString(salt),
		base64.RawStdEncoding.EncodeToString(key))
	return []byte(encoded), nil
}

// verifyPassword reports whether password matches the stored hash. The
// final comparison is constant-time in the derived key.
func verifyPassword(hash []byte, password string) (bool, error) {
	parts := strings.Split(string(hash), "$")
	if len(parts) != 3 {
		return false, errBadPasswordHash
	}
	header := strings.Split(parts[0], ":")
	if len(header) != 3 || header[0] != "pbkdf2" || header[1] != "sha256" {
		return false, errBadPasswordHash
	}
	iterations, err := strconv.Atoi(header[2])
	if err != nil || iterations <= 0 {
		return false, errBadPasswordHash
	}
	salt, err := base64.RawStdEncoding.DecodeString(parts[1])
	if err != nil {
		return false, errBadPasswordHash
	}
	want, err := base64.RawStdEncoding.DecodeString(parts[2])
	if err != nil {
		return false, errBadPasswordHash
	}
	got := pbkdf2.Key([]byte(password), salt, iterations, len(want), sha256.New)
	return subtle.ConstantTimeCompare(got, want) == 1, nil
}
