// Copyright 2025 Canonical Ltd.
// SPDX-License-Identifier: AGPL-3.0

package logging

import (
	"go.uber.org/zap"
)

// NewNoopLogger returns a logger that discards everything, handy in tests
// and in code paths that run before configuration is loaded.
func NewNoopLogger() *Logger {
	logger := new(Logger)
	logger.SugaredLogger = zap.NewNop().Sugar()
	logger.security = &SecurityLogger{z: zap.NewNop()}

	return logger
}
