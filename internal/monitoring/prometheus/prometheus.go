// Copyright 2025 Canonical Ltd.
// SPDX-License-Identifier: AGPL-3.0

package prometheus

import (
	"errors"
	"fmt"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/canonical/db-federation-service/internal/logging"
	"github.com/canonical/db-federation-service/internal/monitoring"
)

var _ monitoring.MonitorInterface = (*Monitor)(nil)

type Monitor struct {
	service string

	responseTime *prometheus.HistogramVec
	queryTime    *prometheus.HistogramVec
	dependencies *prometheus.GaugeVec
	syncRecords  *prometheus.CounterVec

	logger logging.LoggerInterface
}

func (m *Monitor) GetService() string {
	return m.service
}

func (m *Monitor) SetResponseTimeMetric(tags map[string]string, value float64) error {
	if m.responseTime == nil {
		return fmt.Errorf("metric not instantiated")
	}

	m.responseTime.With(tags).Observe(value)

	return nil
}

func (m *Monitor) SetDependencyAvailability(tags map[string]string, value float64) error {
	if m.dependencies == nil {
		return fmt.Errorf("metric not instantiated")
	}

	m.dependencies.With(tags).Set(value)

	return nil
}

func (m *Monitor) AddSyncRecordsMetric(tags map[string]string, value float64) error {
	if m.syncRecords == nil {
		return fmt.Errorf("metric not instantiated")
	}

	m.syncRecords.With(tags).Add(value)

	return nil
}

func (m *Monitor) SetQueryTimeMetric(tags map[string]string, value float64) error {
	if m.queryTime == nil {
		return fmt.Errorf("metric not instantiated")
	}

	m.queryTime.With(tags).Observe(value)

	return nil
}

func (m *Monitor) registerHistograms() {
	m.responseTime = register(m.logger, prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:        "http_response_time_seconds",
			Help:        "http_response_time_seconds",
			ConstLabels: prometheus.Labels{"service": m.service},
		},
		[]string{"route", "status"},
	))

	m.queryTime = register(m.logger, prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:        "federation_query_time_seconds",
			Help:        "time spent running templates against external databases",
			ConstLabels: prometheus.Labels{"service": m.service},
		},
		[]string{"dialect", "query", "outcome"},
	))
}

func (m *Monitor) registerGauges() {
	m.dependencies = register(m.logger, prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Name:        "dependency_available",
			Help:        "dependency_available",
			ConstLabels: prometheus.Labels{"service": m.service},
		},
		[]string{"component"},
	))
}

func (m *Monitor) registerCounters() {
	m.syncRecords = register(m.logger, prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name:        "federation_sync_records_total",
			Help:        "number of external records processed by synchronization runs",
			ConstLabels: prometheus.Labels{"service": m.service},
		},
		[]string{"instance", "outcome"},
	))
}

// register adds the collector to the default registry, reusing the existing
// one when a monitor for the same service was already created.
func register[T prometheus.Collector](logger logging.LoggerInterface, c T) T {
	err := prometheus.Register(c)
	if err == nil {
		return c
	}

	are := prometheus.AlreadyRegisteredError{}
	if errors.As(err, &are) {
		if existing, ok := are.ExistingCollector.(T); ok {
			return existing
		}
	}

	logger.Errorf("failed to register metric: %v", err)

	return c
}

func NewMonitor(service string, logger logging.LoggerInterface) *Monitor {
	m := new(Monitor)

	m.service = service
	m.logger = logger

	m.registerHistograms()
	m.registerGauges()
	m.registerCounters()

	return m
}
