package memory

import (
	"context"
	"strings"
	"sync"
	"time"

	"ledgervote/contexts/governance/election-mirror/domain/entities"
	domainerrors "ledgervote/contexts/governance/election-mirror/domain/errors"
	"ledgervote/contexts/governance/election-mirror/ports"
)

type dedupRecord struct {
	payloadHash string
	expiresAt   time.Time
}

type Store struct {
	mu sync.RWMutex

	elections  map[string]entities.ElectionView
	principals map[string]entities.PrincipalRoles
	eventDedup map[string]dedupRecord
}

func NewStore() *Store {
	return &Store{
		elections:  make(map[string]entities.ElectionView),
		principals: make(map[string]entities.PrincipalRoles),
		eventDedup: make(map[string]dedupRecord),
	}
}

func (s *Store) UpsertElection(_ context.Context, view entities.ElectionView) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	key := entities.NormalizeKey(view.Address)
	if current, ok := s.elections[key]; ok && !view.NewerThan(current) {
		return false, nil
	}
	view.Address = key
	view.Candidates = append([]entities.CandidateView(nil), view.Candidates...)
	s.elections[key] = view
	return true, nil
}

func (s *Store) GetElection(_ context.Context, address string) (entities.ElectionView, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	view, ok := s.elections[entities.NormalizeKey(address)]
	if !ok {
		return entities.ElectionView{}, domainerrors.ErrElectionNotFound
	}
	view.Candidates = append([]entities.CandidateView(nil), view.Candidates...)
	return view, nil
}

func (s *Store) ListElections(_ context.Context) ([]entities.ElectionView, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	items := make([]entities.ElectionView, 0, len(s.elections))
	for _, view := range s.elections {
		view.Candidates = append([]entities.CandidateView(nil), view.Candidates...)
		items = append(items, view)
	}
	return items, nil
}

func (s *Store) UpsertPrincipalRoles(_ context.Context, roles entities.PrincipalRoles) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	roles.Principal = entities.NormalizeKey(roles.Principal)
	roles.Roles = append([]string(nil), roles.Roles...)
	s.principals[roles.Principal] = roles
	return nil
}

func (s *Store) GetPrincipalRoles(_ context.Context, principal string) (entities.PrincipalRoles, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	roles, ok := s.principals[entities.NormalizeKey(principal)]
	if !ok {
		return entities.PrincipalRoles{}, domainerrors.ErrPrincipalNotFound
	}
	roles.Roles = append([]string(nil), roles.Roles...)
	return roles, nil
}

func (s *Store) ReserveEvent(_ context.Context, eventID string, payloadHash string, expiresAt time.Time) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	key := strings.TrimSpace(eventID)
	existing, ok := s.eventDedup[key]
	if ok {
		if !existing.expiresAt.IsZero() && time.Now().UTC().After(existing.expiresAt.UTC()) {
			delete(s.eventDedup, key)
		} else {
			if existing.payloadHash != strings.TrimSpace(payloadHash) {
				return false, domainerrors.ErrDedupConflict
			}
			return true, nil
		}
	}

	s.eventDedup[key] = dedupRecord{
		payloadHash: strings.TrimSpace(payloadHash),
		expiresAt:   expiresAt.UTC(),
	}
	return false, nil
}

func (s *Store) ReleaseEvent(_ context.Context, eventID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.eventDedup, strings.TrimSpace(eventID))
	return nil
}

func (s *Store) Now() time.Time {
	return time.Now().UTC()
}

var _ ports.ReadModelStore = (*Store)(nil)
var _ ports.EventDedupStore = (*Store)(nil)
var _ ports.Clock = (*Store)(nil)
