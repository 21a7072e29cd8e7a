// Copyright 2025 Canonical Ltd.
// SPDX-License-Identifier: AGPL-3.0

package logging

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5/middleware"
)

// LogFormatter plugs the application logger into chi's RequestLogger,
// entries are only written at debug level.
type LogFormatter struct {
	logger LoggerInterface
}

func (f *LogFormatter) NewLogEntry(r *http.Request) middleware.LogEntry {
	return &LogEntry{
		logger: f.logger,
		method: r.Method,
		uri:    r.RequestURI,
		id:     middleware.GetReqID(r.Context()),
	}
}

type LogEntry struct {
	logger LoggerInterface

	method string
	uri    string
	id     string
}

func (e *LogEntry) Write(status, bytes int, header http.Header, elapsed time.Duration, extra interface{}) {
	e.logger.Debugf(
		"request_id=%s method=%s uri=%s status=%d bytes=%d elapsed=%s",
		e.id, e.method, e.uri, status, bytes, elapsed,
	)
}

func (e *LogEntry) Panic(v interface{}, stack []byte) {
	e.logger.Errorf("request_id=%s panic=%v stack=%s", e.id, v, stack)
}

func NewLogFormatter(logger LoggerInterface) *LogFormatter {
	return &LogFormatter{logger: logger}
}
