package main

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/angelmondragon/siteadmin-backend/pkg/logger"
	"github.com/angelmondragon/siteadmin-backend/pkg/metrics"
)

type countingJob struct{ runs int }

func (j *countingJob) Name() string { return "asset-sweeper" }

func (j *countingJob) Run(context.Context) error {
	j.runs++
	return nil
}

type heldLock struct{ releases int }

func (l *heldLock) Acquire(context.Context) (bool, error) { return true, nil }

func (l *heldLock) Release(context.Context) error {
	l.releases++
	return nil
}

func TestScheduledSweepReportsOnMetricsServer(t *testing.T) {
	registry := prometheus.NewRegistry()
	jobMetrics := metrics.NewJobMetrics(registry)
	job := &countingJob{}
	lock := &heldLock{}

	service, err := scheduleSweep(logger.Nop(), job, lock, jobMetrics, time.Minute)
	require.NoError(t, err)
	require.NoError(t, service.RunOnce(context.Background()))
	assert.Equal(t, 1, job.runs)
	assert.Equal(t, 1, lock.releases)

	srv := metricsServer(":0", registry)
	rec := httptest.NewRecorder()
	srv.Handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `siteadmin_job_success_total{job="asset-sweeper"} 1`)
}

func TestScheduleSweepRequiresLock(t *testing.T) {
	_, err := scheduleSweep(logger.Nop(), &countingJob{}, nil, nil, time.Minute)
	assert.Error(t, err)
}
