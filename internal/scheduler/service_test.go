package scheduler

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/azure/mentions-sentiment-report/internal/config"
	"github.com/azure/mentions-sentiment-report/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockRunner struct {
	mock.Mock
}

func (m *MockRunner) RunReport(ctx context.Context) (*models.Report, error) {
	args := m.Called()
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Report), args.Error(1)
}

func TestCronExpression(t *testing.T) {
	assert.Equal(t, "0 0 9 * * *", CronExpression("daily"))
	assert.Equal(t, "0 0 9 * * MON", CronExpression("weekly"))
	assert.Equal(t, "0 0 9 * * *", CronExpression(""))
}

func TestNewService_InvalidTimeZone(t *testing.T) {
	_, err := NewService(&config.Config{TimeZone: "Mars/Olympus_Mons"}, &MockRunner{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid TIMEZONE")
}

func TestService_StartStop(t *testing.T) {
	service, err := NewService(&config.Config{TimeZone: "UTC", ReportSchedule: "weekly"}, &MockRunner{})
	require.NoError(t, err)

	require.NoError(t, service.Start())
	assert.Equal(t, 1, service.Entries())
	service.Stop()
}

func TestService_runOnce(t *testing.T) {
	runner := &MockRunner{}
	runner.On("RunReport").Return(nil, errors.New("disk full")).Once()

	service, err := NewService(&config.Config{TimeZone: "UTC", ReportSchedule: "daily"}, runner)
	require.NoError(t, err)

	// Errors are logged, not propagated
	service.runOnce()
	runner.AssertExpectations(t)
}

// blockingRunner holds each run until release is closed
type blockingRunner struct {
	started  chan struct{}
	release  chan struct{}
	deadline chan time.Time
}

func (b *blockingRunner) RunReport(ctx context.Context) (*models.Report, error) {
	deadline, _ := ctx.Deadline()
	b.deadline <- deadline
	close(b.started)
	<-b.release
	return &models.Report{}, nil
}

func TestService_TriggerIsBoundedAndAwaitedByStop(t *testing.T) {
	runner := &blockingRunner{
		started:  make(chan struct{}),
		release:  make(chan struct{}),
		deadline: make(chan time.Time, 1),
	}

	service, err := NewService(&config.Config{TimeZone: "UTC", ReportSchedule: "daily"}, runner)
	require.NoError(t, err)

	service.Trigger()

	select {
	case <-runner.started:
	case <-time.After(5 * time.Second):
		t.Fatal("triggered run did not start")
	}

	deadline := <-runner.deadline
	assert.False(t, deadline.IsZero())
	assert.WithinDuration(t, time.Now().Add(runTimeout), deadline, time.Minute)

	stopped := make(chan struct{})
	go func() {
		service.Stop()
		close(stopped)
	}()

	select {
	case <-stopped:
		t.Fatal("Stop returned while a triggered run was in progress")
	case <-time.After(100 * time.Millisecond):
	}

	close(runner.release)

	select {
	case <-stopped:
	case <-time.After(5 * time.Second):
		t.Fatal("Stop did not return after the run finished")
	}
}
