package memory

import (
	"bytes"
	"context"
	"encoding/json"
	"strings"
	"sync"
	"time"

	"ledgervote/contexts/governance/access-control/domain/entities"
	domainerrors "ledgervote/contexts/governance/access-control/domain/errors"
	"ledgervote/contexts/governance/access-control/domain/valueobjects"
	"ledgervote/contexts/governance/access-control/ports"

	"github.com/google/uuid"
)

type outboxRecord struct {
	message   ports.OutboxMessage
	published bool
}

type assignmentTable map[entities.Role]map[valueobjects.Principal]entities.RoleAssignment

// Store is the in-process registry. Writers serialize on txMu and work on a
// private copy of the table that replaces the committed one on success.
type Store struct {
	txMu sync.Mutex
	mu   sync.RWMutex

	assignments assignmentTable
	outbox      []outboxRecord
	outboxIndex map[string]int
}

func NewStore() *Store {
	return &Store{
		assignments: make(assignmentTable),
		outboxIndex: make(map[string]int),
	}
}

func (s *Store) WithinTransaction(ctx context.Context, fn func(tx ports.RegistryTx) error) error {
	s.txMu.Lock()
	defer s.txMu.Unlock()
	if err := ctx.Err(); err != nil {
		return err
	}

	s.mu.RLock()
	tx := &registryTx{
		assignments:     s.assignments.clone(),
		committedOutbox: s.outboxPayload,
	}
	s.mu.RUnlock()

	if err := fn(tx); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.assignments = tx.assignments
	for _, message := range tx.staged {
		s.outboxIndex[message.OutboxID] = len(s.outbox)
		s.outbox = append(s.outbox, outboxRecord{message: message})
	}
	return nil
}

func (s *Store) outboxPayload(outboxID string) ([]byte, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	idx, ok := s.outboxIndex[outboxID]
	if !ok {
		return nil, false
	}
	return s.outbox[idx].message.Payload, true
}

func (s *Store) HasRole(_ context.Context, role entities.Role, subject valueobjects.Principal) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.assignments[role][subject]
	return ok, nil
}

func (s *Store) ListAssignments(_ context.Context, subject valueobjects.Principal) ([]entities.RoleAssignment, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	items := make([]entities.RoleAssignment, 0, len(entities.AllRoles()))
	for _, role := range entities.AllRoles() {
		if assignment, ok := s.assignments[role][subject]; ok {
			items = append(items, assignment)
		}
	}
	return items, nil
}

func (s *Store) ListHolders(_ context.Context, role entities.Role) ([]entities.RoleAssignment, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	items := make([]entities.RoleAssignment, 0, len(s.assignments[role]))
	for _, assignment := range s.assignments[role] {
		items = append(items, assignment)
	}
	return items, nil
}

func (s *Store) ListPendingOutbox(_ context.Context, limit int) ([]ports.OutboxMessage, error) {
	if limit <= 0 {
		limit = 100
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	items := make([]ports.OutboxMessage, 0, limit)
	for _, record := range s.outbox {
		if record.published {
			continue
		}
		items = append(items, record.message)
		if len(items) == limit {
			break
		}
	}
	return items, nil
}

func (s *Store) MarkOutboxPublished(_ context.Context, outboxID string, _ time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	idx, ok := s.outboxIndex[strings.TrimSpace(outboxID)]
	if !ok {
		return domainerrors.ErrNotFound
	}
	s.outbox[idx].published = true
	return nil
}

func (s *Store) Now() time.Time {
	return time.Now().UTC()
}

func (s *Store) NewID(_ context.Context) (string, error) {
	return uuid.NewString(), nil
}

type registryTx struct {
	assignments     assignmentTable
	committedOutbox func(outboxID string) ([]byte, bool)
	staged          []ports.OutboxMessage
}

func (t *registryTx) RolesOf(_ context.Context, subject valueobjects.Principal) ([]entities.Role, error) {
	roles := make([]entities.Role, 0, len(entities.AllRoles()))
	for _, role := range entities.AllRoles() {
		if _, ok := t.assignments[role][subject]; ok {
			roles = append(roles, role)
		}
	}
	return roles, nil
}

func (t *registryTx) CountHolders(_ context.Context, role entities.Role) (int, error) {
	return len(t.assignments[role]), nil
}

func (t *registryTx) Assign(_ context.Context, assignment entities.RoleAssignment) error {
	holders, ok := t.assignments[assignment.Role]
	if !ok {
		holders = make(map[valueobjects.Principal]entities.RoleAssignment)
		t.assignments[assignment.Role] = holders
	}
	holders[assignment.Subject] = assignment
	return nil
}

func (t *registryTx) Remove(_ context.Context, role entities.Role, subject valueobjects.Principal) error {
	delete(t.assignments[role], subject)
	return nil
}

func (t *registryTx) AppendOutbox(_ context.Context, envelope ports.EventEnvelope) error {
	payload, err := json.Marshal(envelope)
	if err != nil {
		return err
	}
	id := strings.TrimSpace(envelope.EventID)
	if id == "" {
		id = uuid.NewString()
	}
	if existing, ok := t.committedOutbox(id); ok {
		if !bytes.Equal(existing, payload) {
			return domainerrors.ErrOutboxConflict
		}
		return nil
	}
	for _, message := range t.staged {
		if message.OutboxID == id {
			return domainerrors.ErrOutboxConflict
		}
	}
	t.staged = append(t.staged, ports.OutboxMessage{
		OutboxID:     id,
		EventType:    envelope.EventType,
		PartitionKey: envelope.PartitionKey,
		Payload:      payload,
		CreatedAt:    envelope.OccurredAt.UTC(),
	})
	return nil
}

func (t assignmentTable) clone() assignmentTable {
	out := make(assignmentTable, len(t))
	for role, holders := range t {
		copied := make(map[valueobjects.Principal]entities.RoleAssignment, len(holders))
		for subject, assignment := range holders {
			copied[subject] = assignment
		}
		out[role] = copied
	}
	return out
}

var _ ports.Repository = (*Store)(nil)
var _ ports.OutboxRepository = (*Store)(nil)
var _ ports.Clock = (*Store)(nil)
var _ ports.IDGenerator = (*Store)(nil)
