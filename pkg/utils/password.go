package utils

import (
	"crypto/rand"
	"crypto/subtle"
	"encoding/base64"
	"errors"
	"strings"

	"golang.org/x/crypto/argon2"
)

// argon2id parameters; the stored form is base64(salt) + "." + base64(hash).
const (
	argonTime    = 1
	argonMemory  = 64 * 1024
	argonThreads = 4
	argonKeyLen  = 32
	saltLen      = 16
)

func HashPassword(password string) (string, error) {
	if password == "" {
		return "", errors.New("password cannot be empty")
	}

	salt := make([]byte, saltLen)
	if _, err := rand.Read(salt); err != nil {
		return "", ErrorHandler(err, "failed to generate salt")
	}

	hash := argon2.IDKey([]byte(password), salt, argonTime, argonMemory, argonThreads, argonKeyLen)

	saltBase64 := base64.StdEncoding.EncodeToString(salt)
	hashBase64 := base64.StdEncoding.EncodeToString(hash)
	return saltBase64 + "." + hashBase64, nil
}

func VerifyPassword(password, encodedHash string) error {
	parts := strings.Split(encodedHash, ".")
	if len(parts) != 2 {
		return errors.New("invalid encoded hash format")
	}

	salt, err := base64.StdEncoding.DecodeString(parts[0])
	if err != nil {
		return ErrorHandler(err, "failed to decode salt")
	}
	storedHash, err := base64.StdEncoding.DecodeString(parts[1])
	if err != nil {
		return ErrorHandler(err, "failed to decode stored hash")
	}

	hash := argon2.IDKey([]byte(password), salt, argonTime, argonMemory, argonThreads, argonKeyLen)
	if len(hash) != len(storedHash) || subtle.ConstantTimeCompare(hash, storedHash) != 1 {
		return errors.New("incorrect password")
	}
	return nil
}
