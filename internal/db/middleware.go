// Copyright 2025 Canonical Ltd.
// SPDX-License-Identifier: AGPL-3.0

package db

import (
	"net/http"

	"github.com/go-chi/chi/v5/middleware"

	"github.com/canonical/db-federation-service/internal/logging"
)

// TransactionMiddleware runs mutating requests inside a transaction of the
// local store, committed when the handler answers below 400.
func TransactionMiddleware(c DBClientInterface, logger logging.LoggerInterface) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			switch r.Method {
			case http.MethodGet, http.MethodHead, http.MethodOptions:
				next.ServeHTTP(w, r)
				return
			}

			ctx, tx, err := c.BeginTx(r.Context())
			if err != nil {
				logger.Errorf("failed to begin transaction: %v", err)
				http.Error(w, "internal server error", http.StatusInternalServerError)
				return
			}

			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)

			defer func() {
				if p := recover(); p != nil {
					tx.Rollback()
					panic(p)
				}
			}()

			next.ServeHTTP(ww, r.WithContext(ctx))

			if ww.Status() >= http.StatusBadRequest {
				if err := tx.Rollback(); err != nil {
					logger.Errorf("failed to rollback transaction: %v", err)
				}
				return
			}

			if err := tx.Commit(); err != nil {
				logger.Errorf("failed to commit transaction: %v", err)
			}
		})
	}
}
