// Copyright 2025 Canonical Ltd.
// SPDX-License-Identifier: AGPL-3.0

package federation

import (
	"errors"
)

var (
	ErrInstanceNotFound    = errors.New("federation instance not found")
	ErrUserNotFound        = errors.New("user not found")
	ErrInvalidUserID       = errors.New("invalid user id")
	ErrUserNotLinked       = errors.New("user is not linked to this instance")
	ErrSyncDisabled        = errors.New("synchronization is disabled for this instance")
	ErrSyncInProgress      = errors.New("synchronization already in progress")
	ErrLocalDeleteDisabled = errors.New("local delete is disabled for this instance")
	ErrUnlinkDisabled      = errors.New("unlink is disabled for this instance")
)
