// Copyright 2025 Canonical Ltd.
// SPDX-License-Identifier: AGPL-3.0

package types

// Response is the envelope every JSON endpoint answers with.
type Response struct {
	Data    interface{} `json:"data"`
	Message string      `json:"message"`
	Status  int         `json:"status"`
	Meta    *Pagination `json:"_meta,omitempty"`
}

type Pagination struct {
	First int `json:"first"`
	Max   int `json:"max"`
	Total int `json:"total,omitempty"`
}
