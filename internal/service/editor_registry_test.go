package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestEditorRegistryReturnsSameEditorPerSchedule(t *testing.T) {
	var built []string
	registry := NewEditorRegistry(context.Background(), func(scheduleID string) *ScheduleEditorService {
		built = append(built, scheduleID)
		return NewScheduleEditorService(scheduleID, nil, EditorCallbacks{}, nil, nil, nil, EditorConfig{})
	})
	defer registry.Close()

	a := registry.Get("sched-1")
	b := registry.Get("sched-1")
	c := registry.Get("sched-2")

	assert.Same(t, a, b)
	assert.NotSame(t, a, c)
	assert.Equal(t, []string{"sched-1", "sched-2"}, built)
}
