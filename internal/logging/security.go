// Copyright 2025 Canonical Ltd.
// SPDX-License-Identifier: AGPL-3.0

package logging

import (
	"go.uber.org/zap"
)

const (
	eventSystemStartup  = "sys_startup"
	eventSystemShutdown = "sys_shutdown"
	eventAuthnSuccess   = "authn_login_success"
	eventAuthnFailure   = "authn_login_fail"
	eventAuthzFailure   = "authz_fail"
	eventAdminAction    = "admin_action"
)

var _ SecurityLoggerInterface = (*SecurityLogger)(nil)

type SecurityLogger struct {
	z *zap.Logger
}

func (s *SecurityLogger) SystemStartup() {
	s.z.Info("system startup", zap.String("event", eventSystemStartup))
}

func (s *SecurityLogger) SystemShutdown() {
	s.z.Info("system shutdown", zap.String("event", eventSystemShutdown))
}

func (s *SecurityLogger) AuthnSuccess(user string) {
	s.z.Info("login succeeded", zap.String("event", eventAuthnSuccess), zap.String("user", user))
}

func (s *SecurityLogger) AuthnFailure(user string) {
	s.z.Warn("login failed", zap.String("event", eventAuthnFailure), zap.String("user", user))
}

func (s *SecurityLogger) AuthzFailure(user, resource string) {
	s.z.Warn(
		"authorization failed",
		zap.String("event", eventAuthzFailure),
		zap.String("user", user),
		zap.String("resource", resource),
	)
}

func (s *SecurityLogger) AdminAction(user, action, resource string) {
	s.z.Info(
		"administrative action",
		zap.String("event", eventAdminAction),
		zap.String("user", user),
		zap.String("action", action),
		zap.String("resource", resource),
	)
}

// newSecurityLogger builds its own core at info level, security events are
// emitted regardless of the application log level.
func newSecurityLogger(c zap.Config) *SecurityLogger {
	c.Level = zap.NewAtomicLevelAt(zap.InfoLevel)

	z, err := c.Build()
	if err != nil {
		z = zap.NewNop()
	}

	return &SecurityLogger{z: z.Named("security")}
}
