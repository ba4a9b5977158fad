package bootstrap

import (
	"bytes"
	"context"
	"crypto/ecdsa"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"ledgervote/internal/platform/config"
	"ledgervote/internal/platform/httpserver"

	"github.com/ethereum/go-ethereum/accounts"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type principal struct {
	key     *ecdsa.PrivateKey
	address string
}

func newPrincipal(t *testing.T) principal {
	t.Helper()
	key, err := crypto.GenerateKey()
	require.NoError(t, err)
	return principal{key: key, address: strings.ToLower(crypto.PubkeyToAddress(key.PublicKey).Hex())}
}

var lastStamp atomic.Int64

// nextTimestamp returns a fresh X-Timestamp so identical requests sent
// back to back still produce distinct digests.
func nextTimestamp() string {
	for {
		last := lastStamp.Load()
		next := time.Now().UnixMilli()
		if next <= last {
			next = last + 1
		}
		if lastStamp.CompareAndSwap(last, next) {
			return strconv.FormatInt(next, 10)
		}
	}
}

func (p principal) signedRequest(t *testing.T, method string, path string, raw []byte) *http.Request {
	t.Helper()
	timestamp := nextTimestamp()
	sig, err := crypto.Sign(accounts.TextHash(httpserver.SignedDigest(method, path, timestamp, raw)), p.key)
	require.NoError(t, err)

	req := httptest.NewRequest(method, path, bytes.NewReader(raw))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Principal", p.address)
	req.Header.Set("X-Signature", hexutil.Encode(sig))
	req.Header.Set("X-Timestamp", timestamp)
	return req
}

func (p principal) send(t *testing.T, h http.Handler, method string, path string, body any, idempotencyKey string) *httptest.ResponseRecorder {
	t.Helper()
	var raw []byte
	if body != nil {
		var err error
		raw, err = json.Marshal(body)
		require.NoError(t, err)
	}
	req := p.signedRequest(t, method, path, raw)
	if idempotencyKey != "" {
		req.Header.Set("Idempotency-Key", idempotencyKey)
	}
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	return rr
}

func get(t *testing.T, h http.Handler, path string) *httptest.ResponseRecorder {
	t.Helper()
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, path, nil))
	return rr
}

func decode[T any](t *testing.T, rr *httptest.ResponseRecorder) T {
	t.Helper()
	var out T
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &out), rr.Body.String())
	return out
}

func memoryConfig(superAdmin string) config.Config {
	return config.Config{
		ServiceName:                  "ledgervote-test",
		HTTPPort:                     "0",
		StorageDriver:                config.StorageMemory,
		FactoryAddress:               "0x5FbDB2315678afecb367f032d93F642f64180aa3",
		BootstrapSuperAdmin:          superAdmin,
		ElectionAuthorityCanValidate: true,
		EnableMirrorConsumer:         true,
		OutboxPollInterval:           time.Second,
	}
}

func TestBuildWorkerRejectsMemoryDriver(t *testing.T) {
	_, err := BuildWorker(context.Background(), memoryConfig(""), slog.New(slog.NewTextHandler(io.Discard, nil)))
	require.Error(t, err)
}

func TestRelayFlowThroughSignedAPIAndMirror(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	admin := newPrincipal(t)
	manager := newPrincipal(t)
	voter := newPrincipal(t)
	candidate := newPrincipal(t)

	app, err := BuildAPI(ctx, memoryConfig(admin.address), slog.New(slog.NewTextHandler(io.Discard, nil)))
	require.NoError(t, err)
	require.NotNil(t, app.embedded)
	defer func() { require.NoError(t, app.Close()) }()
	h := app.Server().Handler()

	rr := admin.send(t, h, http.MethodPost, "/v1/roles/grant", map[string]string{"role": "ELECTION_MANAGER", "subject": manager.address}, "")
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())
	rr = manager.send(t, h, http.MethodPost, "/v1/roles/grant", map[string]string{"role": "VOTER", "subject": voter.address}, "")
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())

	now := time.Now().UTC()
	create := map[string]any{
		"name":                  "Student council",
		"description":           "Spring term",
		"registration_deadline": now.Add(time.Hour),
		"start_time":            now.Add(2 * time.Hour),
		"end_time":              now.Add(3 * time.Hour),
	}
	rr = voter.send(t, h, http.MethodPost, "/v1/elections", create, "")
	require.Equal(t, http.StatusForbidden, rr.Code, rr.Body.String())

	rr = manager.send(t, h, http.MethodPost, "/v1/elections", create, "create-1")
	require.Equal(t, http.StatusCreated, rr.Code, rr.Body.String())
	created := decode[struct {
		ElectionID uint64 `json:"election_id"`
		Address    string `json:"address"`
	}](t, rr)
	assert.Equal(t, uint64(1), created.ElectionID)

	rr = manager.send(t, h, http.MethodPost, "/v1/elections", create, "create-1")
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())
	assert.True(t, decode[struct {
		Replayed bool `json:"replayed"`
	}](t, rr).Replayed)

	base := "/v1/elections/" + created.Address
	rr = manager.send(t, h, http.MethodPost, base+"/lifecycle/start-registration", nil, "")
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())

	rr = candidate.send(t, h, http.MethodPost, base+"/candidates", map[string]string{"name": "Ada", "party": "Analytical"}, "")
	require.Equal(t, http.StatusCreated, rr.Code, rr.Body.String())

	rr = manager.send(t, h, http.MethodPost, base+"/candidates/1/validate", map[string]bool{"approve": true}, "")
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())

	rr = manager.send(t, h, http.MethodPost, base+"/lifecycle/start-voting", nil, "")
	require.Equal(t, http.StatusUnprocessableEntity, rr.Code, rr.Body.String())

	rr = get(t, h, base+"/candidates?status=approved")
	require.Equal(t, http.StatusOK, rr.Code)
	approved := decode[struct {
		Items []struct {
			Owner string `json:"owner"`
		} `json:"items"`
	}](t, rr)
	require.Len(t, approved.Items, 1)
	assert.Equal(t, candidate.address, strings.ToLower(approved.Items[0].Owner))

	rr = get(t, h, base)
	require.Equal(t, http.StatusOK, rr.Code)
	info := decode[struct {
		Version uint64 `json:"version"`
	}](t, rr)

	require.NoError(t, app.runtime.mirror.Projector.Start(ctx))
	require.NoError(t, app.embedded.RunOnce(ctx))

	require.Eventually(t, func() bool {
		rr := get(t, h, "/v1/mirror/elections/"+created.Address)
		if rr.Code != http.StatusOK {
			return false
		}
		var view struct {
			Version    uint64 `json:"version"`
			Candidates []any  `json:"candidates"`
		}
		if err := json.Unmarshal(rr.Body.Bytes(), &view); err != nil {
			return false
		}
		return view.Version == info.Version && len(view.Candidates) == 1
	}, 2*time.Second, 20*time.Millisecond)

	require.Eventually(t, func() bool {
		rr := get(t, h, "/v1/mirror/principals/"+voter.address+"/roles")
		return rr.Code == http.StatusOK && strings.Contains(rr.Body.String(), "VOTER")
	}, 2*time.Second, 20*time.Millisecond)
}

func TestSignedRoutesRejectForgedPrincipal(t *testing.T) {
	admin := newPrincipal(t)
	forger := newPrincipal(t)
	app, err := BuildAPI(context.Background(), memoryConfig(admin.address), slog.New(slog.NewTextHandler(io.Discard, nil)))
	require.NoError(t, err)
	h := app.Server().Handler()

	body := []byte(`{"role":"ELECTION_MANAGER","subject":"` + forger.address + `"}`)
	req := forger.signedRequest(t, http.MethodPost, "/v1/roles/grant", body)
	req.Header.Set("X-Principal", admin.address)
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	assert.Equal(t, http.StatusUnauthorized, rr.Code)

	req = httptest.NewRequest(http.MethodPost, "/v1/roles/grant", bytes.NewReader(body))
	rr = httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	assert.Equal(t, http.StatusUnauthorized, rr.Code)
}

func TestSignedRequestCannotBeReplayed(t *testing.T) {
	admin := newPrincipal(t)
	manager := newPrincipal(t)
	app, err := BuildAPI(context.Background(), memoryConfig(admin.address), slog.New(slog.NewTextHandler(io.Discard, nil)))
	require.NoError(t, err)
	h := app.Server().Handler()
	grant := map[string]string{"role": "ELECTION_MANAGER", "subject": manager.address}

	require.Equal(t, http.StatusOK, admin.send(t, h, http.MethodPost, "/v1/roles/grant", grant, "").Code)

	raw, err := json.Marshal(grant)
	require.NoError(t, err)
	captured := admin.signedRequest(t, http.MethodPost, "/v1/roles/revoke", raw)
	replay := captured.Clone(context.Background())
	replay.Body = io.NopCloser(bytes.NewReader(raw))

	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, captured)
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())

	require.Equal(t, http.StatusOK, admin.send(t, h, http.MethodPost, "/v1/roles/grant", grant, "").Code)

	rr = httptest.NewRecorder()
	h.ServeHTTP(rr, replay)
	assert.Equal(t, http.StatusUnauthorized, rr.Code)

	rr = get(t, h, "/v1/roles/ELECTION_MANAGER/subjects/"+manager.address)
	require.Equal(t, http.StatusOK, rr.Code)
	assert.True(t, decode[struct {
		Has bool `json:"has"`
	}](t, rr).Has)
}

func TestSignedRequestRejectsStaleTimestamp(t *testing.T) {
	admin := newPrincipal(t)
	app, err := BuildAPI(context.Background(), memoryConfig(admin.address), slog.New(slog.NewTextHandler(io.Discard, nil)))
	require.NoError(t, err)
	h := app.Server().Handler()

	body := []byte(`{"role":"VOTER","subject":"0x00000000000000000000000000000000000000a1"}`)
	stale := strconv.FormatInt(time.Now().Add(-time.Hour).UnixMilli(), 10)
	sig, err := crypto.Sign(accounts.TextHash(httpserver.SignedDigest(http.MethodPost, "/v1/roles/grant", stale, body)), admin.key)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPost, "/v1/roles/grant", bytes.NewReader(body))
	req.Header.Set("X-Principal", admin.address)
	req.Header.Set("X-Signature", hexutil.Encode(sig))
	req.Header.Set("X-Timestamp", stale)
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	assert.Equal(t, http.StatusUnauthorized, rr.Code)
}

func TestReadRoutesMapDomainErrors(t *testing.T) {
	app, err := BuildAPI(context.Background(), memoryConfig(""), slog.New(slog.NewTextHandler(io.Discard, nil)))
	require.NoError(t, err)
	h := app.Server().Handler()

	assert.Equal(t, http.StatusNotFound, get(t, h, "/v1/elections/0x00000000000000000000000000000000000000e1").Code)
	assert.Equal(t, http.StatusNotFound, get(t, h, "/v1/elections/not-an-address").Code)
	assert.Equal(t, http.StatusBadRequest, get(t, h, "/v1/elections/0x00000000000000000000000000000000000000e1/candidates/abc").Code)
	assert.Equal(t, http.StatusNotFound, get(t, h, "/v1/mirror/elections/0x00000000000000000000000000000000000000e1").Code)
	assert.Equal(t, http.StatusOK, get(t, h, "/healthz").Code)

	rr := get(t, h, "/v1/elections")
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, 0, decode[struct {
		Total int `json:"total"`
	}](t, rr).Total)
}
