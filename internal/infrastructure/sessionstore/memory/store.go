package memory

import (
	"context"
	"fmt"
	"time"

	gocache "github.com/patrickmn/go-cache"

	"github.com/kirillkom/legal-doc-assistant/internal/core/domain"
)

// Store keeps sessions in process memory with a sliding TTL. Every Put
// refreshes the expiration, so a session dies only after sitting idle for
// the full TTL.
type Store struct {
	cache *gocache.Cache
}

func New(ttl, sweepInterval time.Duration) *Store {
	return &Store{cache: gocache.New(ttl, sweepInterval)}
}

func (s *Store) Put(_ context.Context, session *domain.Session) error {
	s.cache.Set(session.ID(), session, gocache.DefaultExpiration)
	return nil
}

func (s *Store) Get(_ context.Context, id string) (*domain.Session, error) {
	value, found := s.cache.Get(id)
	if !found {
		return nil, domain.WrapError(domain.ErrSessionNotFound, "get session",
			fmt.Errorf("session %q does not exist or expired", id))
	}
	return value.(*domain.Session), nil
}

func (s *Store) Delete(_ context.Context, id string) error {
	s.cache.Delete(id)
	return nil
}

func (s *Store) Count(_ context.Context) (int, error) {
	return s.cache.ItemCount(), nil
}
