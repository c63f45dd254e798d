package service

import (
	"context"
	"sync"
)

// EditorFactory builds an editor for a schedule id.
type EditorFactory func(scheduleID string) *ScheduleEditorService

// EditorRegistry hands out one editor per schedule, created lazily.
// Editors started here are stopped together when the registry closes.
type EditorRegistry struct {
	mu      sync.Mutex
	ctx     context.Context
	factory EditorFactory
	editors map[string]*ScheduleEditorService
}

// NewEditorRegistry builds the registry. ctx bounds the lifetime of
// every editor's notifier.
func NewEditorRegistry(ctx context.Context, factory EditorFactory) *EditorRegistry {
	return &EditorRegistry{
		ctx:     ctx,
		factory: factory,
		editors: make(map[string]*ScheduleEditorService),
	}
}

// Get returns the editor for a schedule, creating and starting it on
// first use.
func (r *EditorRegistry) Get(scheduleID string) *ScheduleEditorService {
	r.mu.Lock()
	defer r.mu.Unlock()
	if editor, ok := r.editors[scheduleID]; ok {
		return editor
	}
	editor := r.factory(scheduleID)
	editor.Start(r.ctx)
	r.editors[scheduleID] = editor
	return editor
}

// Close stops every editor.
func (r *EditorRegistry) Close() {
	r.mu.Lock()
	editors := make([]*ScheduleEditorService, 0, len(r.editors))
	for _, e := range r.editors {
		editors = append(editors, e)
	}
	r.mu.Unlock()
	for _, e := range editors {
		e.Stop()
	}
}
