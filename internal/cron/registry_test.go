package cron

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubJob struct {
	name string
}

func (s *stubJob) Name() string              { return s.name }
func (s *stubJob) Run(context.Context) error { return nil }

func TestRegistryKeepsOrder(t *testing.T) {
	sweep := &stubJob{name: "asset-sweeper"}
	other := &stubJob{name: "lead-digest"}
	registry, err := NewRegistry(sweep, nil, other)
	require.NoError(t, err)

	assert.Equal(t, []string{"asset-sweeper", "lead-digest"}, registry.Names())
	jobs := registry.Jobs()
	require.Len(t, jobs, 2)
	assert.Same(t, sweep, jobs[0])

	jobs[0] = nil
	assert.NotNil(t, registry.Jobs()[0])
}

func TestRegistryRejectsDuplicateAndEmptyNames(t *testing.T) {
	_, err := NewRegistry(&stubJob{name: "a"}, &stubJob{name: "a"})
	assert.ErrorContains(t, err, "registered twice")

	registry, err := NewRegistry()
	require.NoError(t, err)
	assert.Error(t, registry.Register(&stubJob{}))
	assert.Empty(t, registry.Jobs())
}
