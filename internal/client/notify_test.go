package client

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/rpggio/pmdash/internal/domain/project"
)

type mockRecordStore struct {
	mock.Mock
}

func (m *mockRecordStore) List(ctx context.Context) ([]project.Project, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]project.Project), args.Error(1)
}

func (m *mockRecordStore) Create(ctx context.Context, req project.CreateRequest) (*project.Project, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*project.Project), args.Error(1)
}

func (m *mockRecordStore) Update(ctx context.Context, id string, patch project.Patch) (*project.Project, error) {
	args := m.Called(ctx, id, patch)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*project.Project), args.Error(1)
}

func (m *mockRecordStore) Delete(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func TestNotifyingStore(t *testing.T) {
	ctx := context.Background()
	inner := new(mockRecordStore)
	var messages []string
	store := NewNotifyingStore(inner, func(msg string) { messages = append(messages, msg) })

	inner.On("List", ctx).Return([]project.Project{{ID: "p1"}}, nil)
	inner.On("Create", ctx, project.CreateRequest{Name: "A"}).Return(&project.Project{ID: "p2"}, nil)
	inner.On("Update", ctx, "p2", mock.Anything).Return(nil, errors.New("boom"))
	inner.On("Delete", ctx, "p2").Return(nil)

	projects, err := store.List(ctx)
	require.NoError(t, err)
	require.Len(t, projects, 1)

	_, err = store.Create(ctx, project.CreateRequest{Name: "A"})
	require.NoError(t, err)

	_, err = store.Update(ctx, "p2", project.Patch{})
	require.Error(t, err)

	require.NoError(t, store.Delete(ctx, "p2"))

	require.Equal(t, []string{"Project created successfully!", "Project deleted successfully!"}, messages)
	inner.AssertExpectations(t)
}

func TestNotifyingStore_NilNotifier(t *testing.T) {
	inner := new(mockRecordStore)
	inner.On("Delete", mock.Anything, "p1").Return(nil)

	store := NewNotifyingStore(inner, nil)
	require.NoError(t, store.Delete(context.Background(), "p1"))
}

func TestFailureMessages(t *testing.T) {
	require.Nil(t, failure(nil))
	require.Equal(t, "Project not found", failure(project.ErrProjectNotFound).Error())

	f := &Failure{Message: "kept"}
	require.Same(t, f, failure(f))

	require.Equal(t, "Project not found", errorText(`{"error":"Project not found"}`))
	require.Equal(t, "plain text", errorText(" plain text \n"))
	require.Equal(t, "", errorText(""))
	require.Equal(t, `{"message":"quota exceeded"}`, errorText(`{"message":"quota exceeded"}`))
}
