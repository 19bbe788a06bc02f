// internal/registry/registry.go
package registry

import (
	"context"
	"sync"

	"go.uber.org/zap"

	"attendance-service/internal/model"
	"attendance-service/internal/sink"
)

// Store is the in-memory card-to-user registry. It is replaced wholesale
// on reload and appended to on successful registration; a failed fetch
// leaves the existing snapshot untouched.
type Store struct {
	fetcher sink.UserFetcher
	logger  *zap.Logger

	mu    sync.RWMutex
	users map[string]model.RegisteredUser
}

// NewStore creates an empty registry backed by the given snapshot source
func NewStore(fetcher sink.UserFetcher, logger *zap.Logger) *Store {
	return &Store{
		fetcher: fetcher,
		logger:  logger.With(zap.String("component", "registry")),
		users:   make(map[string]model.RegisteredUser),
	}
}

// Reload fetches the remote snapshot and swaps it in. On fetch failure
// the current registry is kept and the error returned.
func (s *Store) Reload(ctx context.Context) error {
	users, err := s.fetcher.FetchUsers(ctx)
	if err != nil {
		s.logger.Error("Registry reload failed, keeping current snapshot", zap.Error(err))
		return err
	}

	byCard := make(map[string]model.RegisteredUser, len(users))
	for _, user := range users {
		byCard[user.CardID] = user
	}

	s.mu.Lock()
	s.users = byCard
	s.mu.Unlock()

	s.logger.Info("Registered users loaded", zap.Int("count", len(byCard)))
	return nil
}

// Lookup returns the user registered for a card id
func (s *Store) Lookup(cardID string) (model.RegisteredUser, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	user, ok := s.users[cardID]
	return user, ok
}

// Insert adds or replaces a single user
func (s *Store) Insert(user model.RegisteredUser) {
	s.mu.Lock()
	s.users[user.CardID] = user
	s.mu.Unlock()

	s.logger.Info("User registered",
		zap.String("card_id", user.CardID),
		zap.String("role", string(user.Role)),
	)
}

// Count returns the number of registered users
func (s *Store) Count() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.users)
}
