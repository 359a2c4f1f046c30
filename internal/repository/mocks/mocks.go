package mocks

import (
	"context"
	"encoding/json"

	"github.com/rpggio/pmdash/internal/domain/preference"
	"github.com/rpggio/pmdash/internal/domain/project"
	"github.com/rpggio/pmdash/internal/domain/session"
	"github.com/stretchr/testify/mock"
)

// ProjectRepository is a mock for project.Repository.
type ProjectRepository struct {
	mock.Mock
}

func (m *ProjectRepository) Get(ctx context.Context, ownerID, id string) (*project.Project, error) {
	args := m.Called(ctx, ownerID, id)
	if proj, ok := args.Get(0).(*project.Project); ok {
		return proj, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *ProjectRepository) Save(ctx context.Context, ownerID string, proj *project.Project) error {
	args := m.Called(ctx, ownerID, proj)
	return args.Error(0)
}

func (m *ProjectRepository) Delete(ctx context.Context, ownerID, id string) error {
	args := m.Called(ctx, ownerID, id)
	return args.Error(0)
}

func (m *ProjectRepository) List(ctx context.Context, ownerID string) ([]project.Project, error) {
	args := m.Called(ctx, ownerID)
	if list, ok := args.Get(0).([]project.Project); ok {
		return list, args.Error(1)
	}
	return nil, args.Error(1)
}

// PreferenceRepository is a mock for preference.Repository.
type PreferenceRepository struct {
	mock.Mock
}

func (m *PreferenceRepository) Get(ctx context.Context, ownerID string) (preference.Preferences, error) {
	args := m.Called(ctx, ownerID)
	if prefs, ok := args.Get(0).(preference.Preferences); ok {
		return prefs, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *PreferenceRepository) Save(ctx context.Context, ownerID string, prefs preference.Preferences) error {
	args := m.Called(ctx, ownerID, prefs)
	return args.Error(0)
}

// KVStore is a mock for repository.KVStore.
type KVStore struct {
	mock.Mock
}

func (m *KVStore) Get(ctx context.Context, key string) (json.RawMessage, error) {
	args := m.Called(ctx, key)
	if raw, ok := args.Get(0).(json.RawMessage); ok {
		return raw, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *KVStore) Set(ctx context.Context, key string, value json.RawMessage) error {
	args := m.Called(ctx, key, value)
	return args.Error(0)
}

func (m *KVStore) Delete(ctx context.Context, key string) error {
	args := m.Called(ctx, key)
	return args.Error(0)
}

func (m *KVStore) GetByPrefix(ctx context.Context, prefix string) ([]json.RawMessage, error) {
	args := m.Called(ctx, prefix)
	if list, ok := args.Get(0).([]json.RawMessage); ok {
		return list, args.Error(1)
	}
	return nil, args.Error(1)
}

// UserRepository is a mock for repository.UserRepository.
type UserRepository struct {
	mock.Mock
}

func (m *UserRepository) Create(ctx context.Context, acct *session.Account) error {
	args := m.Called(ctx, acct)
	return args.Error(0)
}

func (m *UserRepository) Get(ctx context.Context, id string) (*session.Account, error) {
	args := m.Called(ctx, id)
	if acct, ok := args.Get(0).(*session.Account); ok {
		return acct, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *UserRepository) GetByEmail(ctx context.Context, email string) (*session.Account, error) {
	args := m.Called(ctx, email)
	if acct, ok := args.Get(0).(*session.Account); ok {
		return acct, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *UserRepository) Update(ctx context.Context, acct *session.Account) error {
	args := m.Called(ctx, acct)
	return args.Error(0)
}

func (m *UserRepository) TouchLastLogin(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}
