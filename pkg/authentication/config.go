// Copyright 2025 Canonical Ltd.
// SPDX-License-Identifier: AGPL-3.0

package authentication

import (
	"slices"
	"strings"
)

type Config struct {
	Issuer          string
	JwksURL         string
	AllowedSubjects []string
	RequiredScope   string
}

// subjectAllowed accepts every subject when no allow list is configured.
func (c *Config) subjectAllowed(subject string) bool {
	return len(c.AllowedSubjects) == 0 || slices.Contains(c.AllowedSubjects, subject)
}

func NewConfig(issuer, jwksURL, allowedSubjects, requiredScope string) *Config {
	c := &Config{
		Issuer:        issuer,
		JwksURL:       jwksURL,
		RequiredScope: requiredScope,
	}

	for _, s := range strings.Split(allowedSubjects, ",") {
		if s = strings.TrimSpace(s); s != "" {
			c.AllowedSubjects = append(c.AllowedSubjects, s)
		}
	}

	return c
}
