// Copyright 2025 Canonical Ltd.
// SPDX-License-Identifier: AGPL-3.0

package types

import (
	"fmt"
)

const (
	ErrCodeConfiguration = "CONFIGURATION_ERROR"
	ErrCodeConnection    = "CONNECTION_ERROR"
	ErrCodeRowMapping    = "ROW_MAPPING_ERROR"
	ErrCodeSyncItem      = "SYNC_ITEM_ERROR"
)

// Sentinels for errors.Is, matching is done on Code only.
var (
	ErrConfiguration = &FederationError{Code: ErrCodeConfiguration, Message: "invalid configuration"}
	ErrConnection    = &FederationError{Code: ErrCodeConnection, Message: "connection unavailable"}
	ErrRowMapping    = &FederationError{Code: ErrCodeRowMapping, Message: "row mapping failed"}
	ErrSyncItem      = &FederationError{Code: ErrCodeSyncItem, Message: "record could not be reconciled"}
)

// FederationError represents a failure talking to, or interpreting data from,
// an external user database.
type FederationError struct {
	Code       string            // Machine-readable error code
	Message    string            // Human-readable error message
	Op         string            // Operation that failed
	Metadata   map[string]string // Additional context about the error
	Underlying error
}

func (e *FederationError) Error() string {
	msg := e.Message
	if e.Underlying != nil {
		msg = fmt.Sprintf("%s: %v", msg, e.Underlying)
	}

	if e.Op != "" {
		return fmt.Sprintf("%s: %s", e.Op, msg)
	}

	return msg
}

func (e *FederationError) Is(target error) bool {
	t, ok := target.(*FederationError)
	if !ok {
		return false
	}
	return t.Code == e.Code
}

func (e *FederationError) Unwrap() error {
	return e.Underlying
}

func NewConfigurationError(op, message string, err error) *FederationError {
	return &FederationError{
		Code:       ErrCodeConfiguration,
		Message:    message,
		Op:         op,
		Underlying: err,
	}
}

func NewConnectionError(op string, err error) *FederationError {
	return &FederationError{
		Code:       ErrCodeConnection,
		Message:    "connection unavailable",
		Op:         op,
		Underlying: err,
	}
}

func NewRowMappingError(op, column string, row int) *FederationError {
	return &FederationError{
		Code:    ErrCodeRowMapping,
		Message: fmt.Sprintf("row %d is missing required column %q", row, column),
		Op:      op,
		Metadata: map[string]string{
			"column": column,
			"row":    fmt.Sprint(row),
		},
	}
}

func NewSyncItemError(op, username, reason string, err error) *FederationError {
	return &FederationError{
		Code:    ErrCodeSyncItem,
		Message: reason,
		Op:      op,
		Metadata: map[string]string{
			"username": username,
		},
		Underlying: err,
	}
}
