package mongoadapter

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"ledgervote/contexts/governance/election-mirror/domain/entities"
	domainerrors "ledgervote/contexts/governance/election-mirror/domain/errors"
	"ledgervote/contexts/governance/election-mirror/ports"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const (
	electionsCollection  = "mirror_elections"
	principalsCollection = "mirror_principals"
	dedupCollection      = "mirror_event_dedup"
)

// Store persists the mirror read model in MongoDB. Election documents are
// keyed by lower-cased address and replaced only by a higher version.
type Store struct {
	elections  *mongo.Collection
	principals *mongo.Collection
	dedup      *mongo.Collection
	logger     *slog.Logger
}

func NewStore(db *mongo.Database, logger *slog.Logger) *Store {
	if logger == nil {
		logger = slog.Default()
	}
	return &Store{
		elections:  db.Collection(electionsCollection),
		principals: db.Collection(principalsCollection),
		dedup:      db.Collection(dedupCollection),
		logger:     logger,
	}
}

// EnsureIndexes creates the lookup and TTL indexes the store relies on.
func (s *Store) EnsureIndexes(ctx context.Context) error {
	if _, err := s.elections.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{{Key: "election_id", Value: 1}},
	}); err != nil {
		return s.logError("election_mirror_mongo_index_failed", err, "collection", electionsCollection)
	}
	if _, err := s.dedup.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "expires_at", Value: 1}},
		Options: options.Index().SetExpireAfterSeconds(0),
	}); err != nil {
		return s.logError("election_mirror_mongo_index_failed", err, "collection", dedupCollection)
	}
	return nil
}

// UpsertElection replaces the stored document when its version is lower or
// inserts it when absent. A duplicate key means a newer or equal version
// already exists.
func (s *Store) UpsertElection(ctx context.Context, view entities.ElectionView) (bool, error) {
	doc := toElectionDocument(view)
	filter := bson.D{
		{Key: "_id", Value: doc.Address},
		{Key: "version", Value: bson.D{{Key: "$lt", Value: doc.Version}}},
	}
	result, err := s.elections.ReplaceOne(ctx, filter, doc, options.Replace().SetUpsert(true))
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return false, nil
		}
		return false, s.logError("election_mirror_mongo_upsert_election_failed", err, "election_address", doc.Address)
	}
	return result.ModifiedCount > 0 || result.UpsertedCount > 0, nil
}

func (s *Store) GetElection(ctx context.Context, address string) (entities.ElectionView, error) {
	var doc electionDocument
	err := s.elections.FindOne(ctx, bson.D{{Key: "_id", Value: entities.NormalizeKey(address)}}).Decode(&doc)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return entities.ElectionView{}, domainerrors.ErrElectionNotFound
		}
		return entities.ElectionView{}, s.logError("election_mirror_mongo_get_election_failed", err, "election_address", address)
	}
	return doc.toView(), nil
}

func (s *Store) ListElections(ctx context.Context) ([]entities.ElectionView, error) {
	cursor, err := s.elections.Find(ctx, bson.D{}, options.Find().SetSort(bson.D{{Key: "election_id", Value: 1}}))
	if err != nil {
		return nil, s.logError("election_mirror_mongo_list_elections_failed", err)
	}
	var docs []electionDocument
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, s.logError("election_mirror_mongo_list_elections_decode_failed", err)
	}
	items := make([]entities.ElectionView, 0, len(docs))
	for _, doc := range docs {
		items = append(items, doc.toView())
	}
	return items, nil
}

func (s *Store) UpsertPrincipalRoles(ctx context.Context, roles entities.PrincipalRoles) error {
	doc := principalDocument{
		Principal: entities.NormalizeKey(roles.Principal),
		Roles:     append([]string{}, roles.Roles...),
		SyncedAt:  roles.SyncedAt.UTC(),
	}
	if _, err := s.principals.ReplaceOne(ctx,
		bson.D{{Key: "_id", Value: doc.Principal}},
		doc,
		options.Replace().SetUpsert(true),
	); err != nil {
		return s.logError("election_mirror_mongo_upsert_principal_failed", err, "principal", doc.Principal)
	}
	return nil
}

func (s *Store) GetPrincipalRoles(ctx context.Context, principal string) (entities.PrincipalRoles, error) {
	var doc principalDocument
	err := s.principals.FindOne(ctx, bson.D{{Key: "_id", Value: entities.NormalizeKey(principal)}}).Decode(&doc)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return entities.PrincipalRoles{}, domainerrors.ErrPrincipalNotFound
		}
		return entities.PrincipalRoles{}, s.logError("election_mirror_mongo_get_principal_failed", err, "principal", principal)
	}
	return entities.PrincipalRoles{
		Principal: doc.Principal,
		Roles:     doc.Roles,
		SyncedAt:  doc.SyncedAt.UTC(),
	}, nil
}

func (s *Store) ReserveEvent(ctx context.Context, eventID string, payloadHash string, expiresAt time.Time) (bool, error) {
	key := strings.TrimSpace(eventID)
	hash := strings.TrimSpace(payloadHash)
	_, err := s.dedup.InsertOne(ctx, dedupDocument{
		EventID:     key,
		PayloadHash: hash,
		ExpiresAt:   expiresAt.UTC(),
	})
	if err == nil {
		return false, nil
	}
	if !mongo.IsDuplicateKeyError(err) {
		return false, s.logError("election_mirror_mongo_reserve_event_failed", err, "event_id", key)
	}

	var existing dedupDocument
	if err := s.dedup.FindOne(ctx, bson.D{{Key: "_id", Value: key}}).Decode(&existing); err != nil {
		return false, s.logError("election_mirror_mongo_reserve_event_load_failed", err, "event_id", key)
	}
	if existing.PayloadHash != hash {
		return false, domainerrors.ErrDedupConflict
	}
	return true, nil
}

func (s *Store) ReleaseEvent(ctx context.Context, eventID string) error {
	if _, err := s.dedup.DeleteOne(ctx, bson.D{{Key: "_id", Value: strings.TrimSpace(eventID)}}); err != nil {
		return s.logError("election_mirror_mongo_release_event_failed", err, "event_id", eventID)
	}
	return nil
}

func (s *Store) logError(event string, err error, attrs ...any) error {
	fields := make([]any, 0, len(attrs)+8)
	fields = append(fields,
		"event", event,
		"module", "governance/election-mirror",
		"layer", "adapter",
		"error", err.Error(),
	)
	fields = append(fields, attrs...)
	s.logger.Error("election mirror store operation failed", fields...)
	return err
}

var _ ports.ReadModelStore = (*Store)(nil)
var _ ports.EventDedupStore = (*Store)(nil)
