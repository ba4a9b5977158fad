package memory

import (
	"bytes"
	"context"
	"encoding/json"
	"strings"
	"sync"
	"time"

	"ledgervote/contexts/governance/election-engine/domain/entities"
	domainerrors "ledgervote/contexts/governance/election-engine/domain/errors"
	"ledgervote/contexts/governance/election-engine/domain/valueobjects"
	"ledgervote/contexts/governance/election-engine/ports"

	"github.com/google/uuid"
)

type outboxRecord struct {
	message   ports.OutboxMessage
	published bool
}

type voterTable map[valueobjects.Address]entities.VoterRecord

// Store is the in-process election store. Each election has its own writer
// lock; factory transactions serialize on factoryMu. A transaction works on
// private copies that replace the committed state only on success.
type Store struct {
	factoryMu sync.Mutex
	mu        sync.RWMutex

	nextID      uint64
	order       []valueobjects.Address
	elections   map[valueobjects.Address]entities.Election
	voters      map[valueobjects.Address]voterTable
	locks       map[valueobjects.Address]*sync.Mutex
	outbox      []outboxRecord
	outboxIndex map[string]int
	idempotency map[string]ports.IdempotencyRecord
}

func NewStore() *Store {
	return &Store{
		elections:   make(map[valueobjects.Address]entities.Election),
		voters:      make(map[valueobjects.Address]voterTable),
		locks:       make(map[valueobjects.Address]*sync.Mutex),
		outboxIndex: make(map[string]int),
		idempotency: make(map[string]ports.IdempotencyRecord),
	}
}

func (s *Store) WithinFactory(ctx context.Context, fn func(tx ports.FactoryTx) error) error {
	s.factoryMu.Lock()
	defer s.factoryMu.Unlock()
	if err := ctx.Err(); err != nil {
		return err
	}

	s.mu.RLock()
	tx := &factoryTx{
		nextID: s.nextID,
		outbox: outboxStage{committed: s.outboxPayload},
		exists: s.exists,
	}
	s.mu.RUnlock()

	if err := fn(tx); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.nextID = tx.nextID
	for _, election := range tx.created {
		s.elections[election.Address] = election.Clone()
		s.voters[election.Address] = make(voterTable)
		s.locks[election.Address] = &sync.Mutex{}
		s.order = append(s.order, election.Address)
	}
	s.commitOutbox(tx.outbox.staged)
	return nil
}

func (s *Store) WithinElection(ctx context.Context, address valueobjects.Address, fn func(tx ports.ElectionTx) error) error {
	s.mu.RLock()
	lock, ok := s.locks[address]
	s.mu.RUnlock()
	if !ok {
		return domainerrors.ErrElectionNotFound
	}
	lock.Lock()
	defer lock.Unlock()
	if err := ctx.Err(); err != nil {
		return err
	}

	s.mu.RLock()
	tx := &electionTx{
		election: s.elections[address].Clone(),
		voters:   s.voters[address],
		staged:   make(voterTable),
		outbox:   outboxStage{committed: s.outboxPayload},
	}
	s.mu.RUnlock()

	if err := fn(tx); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if tx.dirty {
		s.elections[address] = tx.election
	}
	committed := s.voters[address]
	for voter, record := range tx.staged {
		committed[voter] = record
	}
	s.commitOutbox(tx.outbox.staged)
	return nil
}

func (s *Store) GetElection(_ context.Context, address valueobjects.Address) (entities.Election, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	election, ok := s.elections[address]
	if !ok {
		return entities.Election{}, domainerrors.ErrElectionNotFound
	}
	return election.Clone(), nil
}

func (s *Store) ListElections(_ context.Context) ([]entities.Election, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	items := make([]entities.Election, 0, len(s.order))
	for _, address := range s.order {
		items = append(items, s.elections[address].Clone())
	}
	return items, nil
}

func (s *Store) CountElections(_ context.Context) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.order), nil
}

func (s *Store) GetVoterRecord(_ context.Context, address valueobjects.Address, voter valueobjects.Address) (entities.VoterRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	records, ok := s.voters[address]
	if !ok {
		return entities.VoterRecord{}, domainerrors.ErrElectionNotFound
	}
	if record, ok := records[voter]; ok {
		return record, nil
	}
	return entities.VoterRecord{Voter: voter}, nil
}

func (s *Store) GetRecord(_ context.Context, key string, now time.Time) (ports.IdempotencyRecord, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	record, ok := s.idempotency[key]
	if !ok {
		return ports.IdempotencyRecord{}, false, nil
	}
	if !record.ExpiresAt.IsZero() && !now.Before(record.ExpiresAt) {
		delete(s.idempotency, key)
		return ports.IdempotencyRecord{}, false, nil
	}
	record.ResponsePayload = append([]byte(nil), record.ResponsePayload...)
	return record, true, nil
}

func (s *Store) PutRecord(_ context.Context, record ports.IdempotencyRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if existing, ok := s.idempotency[record.Key]; ok && existing.RequestHash != record.RequestHash {
		return domainerrors.ErrIdempotencyConflict
	}
	record.ResponsePayload = append([]byte(nil), record.ResponsePayload...)
	s.idempotency[record.Key] = record
	return nil
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

func (s *Store) exists(address valueobjects.Address) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.elections[address]
	return ok
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

// commitOutbox must be called with mu held.
func (s *Store) commitOutbox(staged []ports.OutboxMessage) {
	for _, message := range staged {
		s.outboxIndex[message.OutboxID] = len(s.outbox)
		s.outbox = append(s.outbox, outboxRecord{message: message})
	}
}

type outboxStage struct {
	committed func(outboxID string) ([]byte, bool)
	staged    []ports.OutboxMessage
}

func (o *outboxStage) add(envelope ports.EventEnvelope) error {
	payload, err := json.Marshal(envelope)
	if err != nil {
		return err
	}
	id := strings.TrimSpace(envelope.EventID)
	if id == "" {
		id = uuid.NewString()
	}
	if existing, ok := o.committed(id); ok {
		if !bytes.Equal(existing, payload) {
			return domainerrors.ErrOutboxConflict
		}
		return nil
	}
	for _, message := range o.staged {
		if message.OutboxID == id {
			return domainerrors.ErrOutboxConflict
		}
	}
	o.staged = append(o.staged, ports.OutboxMessage{
		OutboxID:     id,
		EventType:    envelope.EventType,
		PartitionKey: envelope.PartitionKey,
		Payload:      payload,
		CreatedAt:    envelope.OccurredAt.UTC(),
	})
	return nil
}

type factoryTx struct {
	nextID  uint64
	created []entities.Election
	outbox  outboxStage
	exists  func(valueobjects.Address) bool
}

func (t *factoryTx) NextElectionID(_ context.Context) (uint64, error) {
	t.nextID++
	return t.nextID, nil
}

func (t *factoryTx) CreateElection(_ context.Context, election entities.Election) error {
	if t.exists(election.Address) {
		return domainerrors.ErrDuplicate
	}
	for _, staged := range t.created {
		if staged.Address == election.Address {
			return domainerrors.ErrDuplicate
		}
	}
	t.created = append(t.created, election.Clone())
	return nil
}

func (t *factoryTx) AppendOutbox(_ context.Context, envelope ports.EventEnvelope) error {
	return t.outbox.add(envelope)
}

type electionTx struct {
	election entities.Election
	dirty    bool
	voters   voterTable
	staged   voterTable
	outbox   outboxStage
}

func (t *electionTx) LoadElection(_ context.Context) (entities.Election, error) {
	return t.election.Clone(), nil
}

func (t *electionTx) VoterRecord(_ context.Context, voter valueobjects.Address) (entities.VoterRecord, error) {
	if record, ok := t.staged[voter]; ok {
		return record, nil
	}
	if record, ok := t.voters[voter]; ok {
		return record, nil
	}
	return entities.VoterRecord{Voter: voter}, nil
}

func (t *electionTx) SaveElection(_ context.Context, election entities.Election) error {
	if election.Address != t.election.Address {
		return domainerrors.ErrElectionNotFound
	}
	t.election = election.Clone()
	t.dirty = true
	return nil
}

func (t *electionTx) SaveVoterRecord(_ context.Context, record entities.VoterRecord) error {
	t.staged[record.Voter] = record
	return nil
}

func (t *electionTx) AppendOutbox(_ context.Context, envelope ports.EventEnvelope) error {
	return t.outbox.add(envelope)
}

var _ ports.Repository = (*Store)(nil)
var _ ports.OutboxRepository = (*Store)(nil)
var _ ports.IdempotencyStore = (*Store)(nil)
var _ ports.Clock = (*Store)(nil)
var _ ports.IDGenerator = (*Store)(nil)
