package jsonstore

import (
	"context"
	"fmt"
	"sync"

	"github.com/Phoen1xxz/stillpark/internal/core/ports"
)

const userParamsFile = "uservals.json"

// UserParamRepo implements ports.UserParamRepository over uservals.json,
// a map of user id to parameter/value pairs.
type UserParamRepo struct {
	store *Store

	mu     sync.RWMutex
	params map[string]map[string]string
}

// NewUserParamRepo loads the per-user parameters from the store.
func NewUserParamRepo(store *Store) (*UserParamRepo, error) {
	r := &UserParamRepo{store: store, params: map[string]map[string]string{}}
	if err := store.readFile(userParamsFile, &r.params); err != nil {
		return nil, err
	}
	if r.params == nil {
		r.params = map[string]map[string]string{}
	}
	return r, nil
}

// Get returns one stored parameter.
func (r *UserParamRepo) Get(ctx context.Context, userID, key string) (string, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if values, ok := r.params[userID]; ok {
		if v, ok := values[key]; ok {
			return v, nil
		}
	}
	return "", fmt.Errorf("param %s/%s: %w", userID, key, ports.ErrNotFound)
}

// Set stores one parameter and persists the file.
func (r *UserParamRepo) Set(ctx context.Context, userID, key, value string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.params[userID] == nil {
		r.params[userID] = map[string]string{}
	}
	r.params[userID][key] = value
	return r.store.writeFile(userParamsFile, r.params)
}
