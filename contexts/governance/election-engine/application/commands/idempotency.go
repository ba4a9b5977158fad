package commands

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"strings"
	"time"

	application "ledgervote/contexts/governance/election-engine/application"
	domainerrors "ledgervote/contexts/governance/election-engine/domain/errors"
	"ledgervote/contexts/governance/election-engine/ports"
)

func hashRequest(payload any) (string, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return "", err
	}
	sum := sha256.Sum256(body)
	return hex.EncodeToString(sum[:]), nil
}

// withIdempotency runs fn at most once per key. A repeated key with the same
// request returns the stored result and replayed=true; a repeated key with a
// different request fails with ErrIdempotencyConflict. An empty key or a nil
// store runs fn directly.
func withIdempotency[T any](
	ctx context.Context,
	uc ElectionUseCase,
	key string,
	operation string,
	request any,
	fn func() (T, error),
) (T, bool, error) {
	var zero T
	if strings.TrimSpace(key) == "" || uc.Idempotency == nil {
		result, err := fn()
		return result, false, err
	}
	logger := application.ResolveLogger(uc.Logger)
	requestHash, err := hashRequest(request)
	if err != nil {
		return zero, false, err
	}
	now := uc.now()
	existing, found, err := uc.Idempotency.GetRecord(ctx, key, now)
	if err != nil {
		logger.Error("election idempotency lookup failed",
			"event", "election_idempotency_get_failed",
			"module", "governance/election-engine",
			"layer", "application",
			"operation", operation,
			"error", err.Error(),
		)
		return zero, false, err
	}
	if found {
		if existing.RequestHash != requestHash || existing.Operation != operation {
			return zero, false, domainerrors.ErrIdempotencyConflict
		}
		var replay T
		if err := json.Unmarshal(existing.ResponsePayload, &replay); err != nil {
			return zero, false, err
		}
		logger.Info("election command replayed",
			"event", "election_idempotency_replayed",
			"module", "governance/election-engine",
			"layer", "application",
			"operation", operation,
		)
		return replay, true, nil
	}

	result, err := fn()
	if err != nil {
		return zero, false, err
	}
	payload, err := json.Marshal(result)
	if err != nil {
		return zero, false, err
	}
	ttl := uc.IdempotencyTTL
	if ttl <= 0 {
		ttl = 7 * 24 * time.Hour
	}
	if err := uc.Idempotency.PutRecord(ctx, ports.IdempotencyRecord{
		Key:             key,
		Operation:       operation,
		RequestHash:     requestHash,
		ResponsePayload: payload,
		ExpiresAt:       now.Add(ttl),
	}); err != nil {
		// The mutation is already committed; the caller still gets its result.
		logger.Error("election idempotency record write failed",
			"event", "election_idempotency_put_failed",
			"module", "governance/election-engine",
			"layer", "application",
			"operation", operation,
			"error", err.Error(),
		)
	}
	return result, false, nil
}
