package client

import (
	"context"

	"github.com/rpggio/pmdash/internal/domain/project"
)

// Notifier receives success messages for completed mutations.
type Notifier func(message string)

// NotifyingStore reports successful mutations of the wrapped store.
// Failures pass through without a notification.
type NotifyingStore struct {
	RecordStore
	notify Notifier
}

// NewNotifyingStore wraps store. A nil notify disables notifications.
func NewNotifyingStore(store RecordStore, notify Notifier) *NotifyingStore {
	if notify == nil {
		notify = func(string) {}
	}
	return &NotifyingStore{RecordStore: store, notify: notify}
}

func (s *NotifyingStore) Create(ctx context.Context, req project.CreateRequest) (*project.Project, error) {
	proj, err := s.RecordStore.Create(ctx, req)
	if err == nil {
		s.notify("Project created successfully!")
	}
	return proj, err
}

func (s *NotifyingStore) Update(ctx context.Context, id string, patch project.Patch) (*project.Project, error) {
	proj, err := s.RecordStore.Update(ctx, id, patch)
	if err == nil {
		s.notify("Project updated successfully!")
	}
	return proj, err
}

func (s *NotifyingStore) Delete(ctx context.Context, id string) error {
	err := s.RecordStore.Delete(ctx, id)
	if err == nil {
		s.notify("Project deleted successfully!")
	}
	return err
}
