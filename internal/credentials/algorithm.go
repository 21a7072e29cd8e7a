// Copyright 2025 Canonical Ltd.
// SPDX-License-Identifier: AGPL-3.0

package credentials

import (
	"fmt"
	"strings"

	"github.com/canonical/db-federation-service/internal/types"
)

// Algorithm is a password hashing scheme an external database may use.
type Algorithm int

const (
	AlgorithmUnknown Algorithm = iota
	AlgorithmBcrypt
	AlgorithmMD5
	AlgorithmSHA1
	AlgorithmSHA224
	AlgorithmSHA256
	AlgorithmSHA384
	AlgorithmSHA512
	AlgorithmSHA512_224
	AlgorithmSHA512_256
	AlgorithmSHA3_224
	AlgorithmSHA3_256
	AlgorithmSHA3_384
	AlgorithmSHA3_512
	AlgorithmPBKDF2SHA256
)

var algorithmNames = map[Algorithm]string{
	AlgorithmBcrypt:       "bcrypt",
	AlgorithmMD5:          "MD5",
	AlgorithmSHA1:         "SHA-1",
	AlgorithmSHA224:       "SHA-224",
	AlgorithmSHA256:       "SHA-256",
	AlgorithmSHA384:       "SHA-384",
	AlgorithmSHA512:       "SHA-512",
	AlgorithmSHA512_224:   "SHA-512/224",
	AlgorithmSHA512_256:   "SHA-512/256",
	AlgorithmSHA3_224:     "SHA3-224",
	AlgorithmSHA3_256:     "SHA3-256",
	AlgorithmSHA3_384:     "SHA3-384",
	AlgorithmSHA3_512:     "SHA3-512",
	AlgorithmPBKDF2SHA256: "PBKDF2-SHA256",
}

// Algorithms lists every supported algorithm.
func Algorithms() []Algorithm {
	algs := make([]Algorithm, 0, len(algorithmNames))
	for a := AlgorithmBcrypt; a <= AlgorithmPBKDF2SHA256; a++ {
		algs = append(algs, a)
	}
	return algs
}

// ParseAlgorithm resolves a configured algorithm name. Names are matched
// case-insensitively, "Blowfish (bcrypt)" is accepted for bcrypt.
func ParseAlgorithm(s string) (Algorithm, error) {
	name := strings.TrimSpace(s)

	if strings.EqualFold(name, "Blowfish (bcrypt)") || strings.EqualFold(name, "blowfish") {
		return AlgorithmBcrypt, nil
	}

	supported := make([]string, 0, len(algorithmNames))
	for _, a := range Algorithms() {
		if strings.EqualFold(a.String(), name) {
			return a, nil
		}
		supported = append(supported, a.String())
	}

	return AlgorithmUnknown, types.NewConfigurationError(
		"credentials.ParseAlgorithm",
		fmt.Sprintf("unsupported hash algorithm %q, expected one of %s", s, strings.Join(supported, ", ")),
		nil,
	)
}

func (a Algorithm) String() string {
	if n, ok := algorithmNames[a]; ok {
		return n
	}
	return "unknown"
}

func (a Algorithm) MarshalText() ([]byte, error) {
	return []byte(a.String()), nil
}

func (a *Algorithm) UnmarshalText(b []byte) error {
	parsed, err := ParseAlgorithm(string(b))
	if err != nil {
		return err
	}

	*a = parsed

	return nil
}
