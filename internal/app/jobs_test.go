package app

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestNewScheduler(t *testing.T) {
	noop := Job{Name: "noop", Run: func(context.Context) error { return nil }}

	c, err := NewScheduler("@every 15m", time.Second, zap.NewNop(), noop, noop)
	require.NoError(t, err)
	assert.Len(t, c.Entries(), 2)

	c, err = NewScheduler("", time.Second, zap.NewNop(), noop)
	require.NoError(t, err)
	assert.Empty(t, c.Entries())

	_, err = NewScheduler("every now and then", time.Second, zap.NewNop(), noop)
	assert.Error(t, err)
}

func TestRunJobSwallowsErrors(t *testing.T) {
	calls := 0
	job := Job{Name: "flaky", Run: func(context.Context) error {
		calls++
		return errors.New("boom")
	}}
	assert.NotPanics(t, func() { RunJob(context.Background(), zap.NewNop(), job) })
	assert.Equal(t, 1, calls)
}
