// Copyright 2025 Canonical Ltd.
// SPDX-License-Identifier: AGPL-3.0

package credentials

type VerifierInterface interface {
	Algorithm() Algorithm
	Verify(stored, plaintext string) bool
	Hash(plaintext string) (string, error)
}
