// Copyright 2025 Canonical Ltd.
// SPDX-License-Identifier: AGPL-3.0

package credentials

import (
	"crypto/md5"
	"crypto/rand"
	"crypto/sha1"
	"crypto/sha256"
	"crypto/sha512"
	"crypto/subtle"
	"encoding/hex"
	"errors"
	"fmt"
	"hash"
	"strings"

	"golang.org/x/crypto/bcrypt"
	"golang.org/x/crypto/pbkdf2"
	"golang.org/x/crypto/sha3"

	"github.com/canonical/db-federation-service/internal/types"
)

const (
	DefaultPBKDF2Iterations = 27500

	pbkdf2KeyLength  = 32
	pbkdf2SaltLength = 16
)

type hasher interface {
	hash(plaintext string) (string, error)
	verify(stored, plaintext string) bool
}

var _ VerifierInterface = (*Verifier)(nil)

// Verifier checks plaintext passwords against the stored form of one
// algorithm. The algorithm is resolved when the verifier is built.
type Verifier struct {
	algorithm Algorithm
	hasher    hasher
}

func (v *Verifier) Algorithm() Algorithm {
	return v.algorithm
}

// Verify reports whether plaintext matches the stored value. Digests are
// compared as lowercase hex in constant time.
func (v *Verifier) Verify(stored, plaintext string) bool {
	if stored == "" {
		return false
	}
	return v.hasher.verify(stored, plaintext)
}

// Hash produces the value to store for plaintext.
func (v *Verifier) Hash(plaintext string) (string, error) {
	return v.hasher.hash(plaintext)
}

type digestHasher struct {
	new func() hash.Hash
}

func (d digestHasher) sum(plaintext string) string {
	h := d.new()
	h.Write([]byte(plaintext))
	return hex.EncodeToString(h.Sum(nil))
}

func (d digestHasher) hash(plaintext string) (string, error) {
	return d.sum(plaintext), nil
}

func (d digestHasher) verify(stored, plaintext string) bool {
	return constantTimeHexEqual(d.sum(plaintext), stored)
}

type bcryptHasher struct {
	cost int
}

func (b bcryptHasher) hash(plaintext string) (string, error) {
	out, err := bcrypt.GenerateFromPassword([]byte(plaintext), b.cost)
	if err != nil {
		return "", fmt.Errorf("failed to hash password: %v", err)
	}
	return string(out), nil
}

func (b bcryptHasher) verify(stored, plaintext string) bool {
	return bcrypt.CompareHashAndPassword([]byte(strings.TrimSpace(stored)), []byte(plaintext)) == nil
}

// pbkdf2Hasher stores `<salt>:<hex>`, a bare `<hex>` means an empty salt.
type pbkdf2Hasher struct {
	iterations int
}

func (p pbkdf2Hasher) derive(salt, plaintext string) string {
	return hex.EncodeToString(pbkdf2.Key([]byte(plaintext), []byte(salt), p.iterations, pbkdf2KeyLength, sha256.New))
}

func (p pbkdf2Hasher) hash(plaintext string) (string, error) {
	raw := make([]byte, pbkdf2SaltLength)
	if _, err := rand.Read(raw); err != nil {
		return "", fmt.Errorf("failed to generate salt: %v", err)
	}

	salt := hex.EncodeToString(raw)

	return salt + ":" + p.derive(salt, plaintext), nil
}

func (p pbkdf2Hasher) verify(stored, plaintext string) bool {
	salt, digest := "", strings.TrimSpace(stored)
	if i := strings.LastIndex(digest, ":"); i >= 0 {
		salt, digest = digest[:i], digest[i+1:]
	}

	return constantTimeHexEqual(p.derive(salt, plaintext), digest)
}

func constantTimeHexEqual(computed, stored string) bool {
	stored = strings.ToLower(strings.TrimSpace(stored))
	return subtle.ConstantTimeCompare([]byte(computed), []byte(stored)) == 1
}

func resolve(a Algorithm, iterations int) (hasher, error) {
	switch a {
	case AlgorithmBcrypt:
		return bcryptHasher{cost: bcrypt.DefaultCost}, nil
	case AlgorithmMD5:
		return digestHasher{new: md5.New}, nil
	case AlgorithmSHA1:
		return digestHasher{new: sha1.New}, nil
	case AlgorithmSHA224:
		return digestHasher{new: sha256.New224}, nil
	case AlgorithmSHA256:
		return digestHasher{new: sha256.New}, nil
	case AlgorithmSHA384:
		return digestHasher{new: sha512.New384}, nil
	case AlgorithmSHA512:
		return digestHasher{new: sha512.New}, nil
	case AlgorithmSHA512_224:
		return digestHasher{new: sha512.New512_224}, nil
	case AlgorithmSHA512_256:
		return digestHasher{new: sha512.New512_256}, nil
	case AlgorithmSHA3_224:
		return digestHasher{new: sha3.New224}, nil
	case AlgorithmSHA3_256:
		return digestHasher{new: sha3.New256}, nil
	case AlgorithmSHA3_384:
		return digestHasher{new: sha3.New384}, nil
	case AlgorithmSHA3_512:
		return digestHasher{new: sha3.New512}, nil
	case AlgorithmPBKDF2SHA256:
		if iterations <= 0 {
			iterations = DefaultPBKDF2Iterations
		}
		return pbkdf2Hasher{iterations: iterations}, nil
	default:
		return nil, errors.New("unsupported hash algorithm")
	}
}

// NewVerifier resolves the algorithm once, iterations only apply to PBKDF2
// and default to DefaultPBKDF2Iterations when not positive.
func NewVerifier(a Algorithm, iterations int) (*Verifier, error) {
	h, err := resolve(a, iterations)
	if err != nil {
		return nil, types.NewConfigurationError("credentials.NewVerifier", fmt.Sprintf("unsupported hash algorithm %s", a), err)
	}

	v := new(Verifier)
	v.algorithm = a
	v.hasher = h

	return v, nil
}
