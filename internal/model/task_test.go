package model

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStatusValid(t *testing.T) {
	for _, s := range []Status{StatusPending, StatusInProgress, StatusCompleted, StatusArchived} {
		assert.True(t, s.Valid(), string(s))
	}
	assert.False(t, Status("done").Valid())
	assert.False(t, Status("").Valid())
}

func TestStatusCanTransition(t *testing.T) {
	tests := []struct {
		from, to Status
		want     bool
	}{
		{StatusPending, StatusInProgress, true},
		{StatusPending, StatusCompleted, true},
		{StatusInProgress, StatusCompleted, true},
		{StatusCompleted, StatusPending, true},
		{StatusCompleted, StatusArchived, true},
		{StatusArchived, StatusPending, true},
		{StatusArchived, StatusCompleted, false},
		{StatusArchived, StatusInProgress, false},
		{StatusPending, StatusPending, true},
		{Status("bogus"), StatusPending, false},
		{Status("bogus"), Status("bogus"), false},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, tt.from.CanTransition(tt.to), "%s -> %s", tt.from, tt.to)
	}
}

func TestSetStatusKeepsCompletedMirrorInSync(t *testing.T) {
	now := time.Date(2026, time.March, 1, 12, 0, 0, 0, time.UTC)
	task := &Task{Status: StatusPending}

	task.SetStatus(StatusCompleted, now)
	assert.Equal(t, StatusCompleted, task.Status)
	assert.True(t, task.Completed)
	require.NotNil(t, task.CompletedAt)
	assert.Equal(t, now, *task.CompletedAt)

	// Completing again keeps the first completion timestamp.
	later := now.Add(time.Hour)
	task.SetStatus(StatusCompleted, later)
	assert.Equal(t, now, *task.CompletedAt)

	task.SetStatus(StatusPending, later)
	assert.False(t, task.Completed)
	assert.Nil(t, task.CompletedAt)
}
