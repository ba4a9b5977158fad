package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeSource(t *testing.T, root string, rel string, imports ...string) {
	t.Helper()
	src := "package x\n\nimport (\n"
	for _, imp := range imports {
		src += "\t_ \"" + imp + "\"\n"
	}
	src += ")\n"
	path := filepath.Join(root, filepath.FromSlash(rel))
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(src), 0o644))
}

func rulesByFile(violations []violation) map[string][]string {
	out := make(map[string][]string)
	for _, v := range violations {
		out[v.File] = append(out[v.File], v.Rule)
	}
	return out
}

func TestCollectViolationsAcceptsLayeredService(t *testing.T) {
	root := t.TempDir()
	engine := "contexts/governance/election-engine"
	writeSource(t, root, engine+"/domain/entities/election.go", "errors", "time")
	writeSource(t, root, engine+"/ports/ports.go", "context", modulePath+"/"+engine+"/domain/entities", modulePath+"/contracts/gen/events/v1")
	writeSource(t, root, engine+"/application/queries/elections.go", "github.com/samber/lo", modulePath+"/"+engine+"/ports")
	writeSource(t, root, engine+"/adapters/ethereum/address.go", "github.com/ethereum/go-ethereum/crypto")
	writeSource(t, root, engine+"/adapters/postgres/repository.go", "gorm.io/gorm")
	writeSource(t, root, "contracts/gen/events/v1/envelope.go", "encoding/json")
	writeSource(t, root, engine+"/domain/entities/election_test.go", "github.com/stretchr/testify/require")

	assert.Empty(t, collectViolations(root))
}

func TestCollectViolationsReportsEachRule(t *testing.T) {
	root := t.TempDir()
	engine := "contexts/governance/election-engine"
	mirror := "contexts/governance/election-mirror"
	writeSource(t, root, engine+"/domain/entities/election.go", "github.com/ethereum/go-ethereum/common")
	writeSource(t, root, engine+"/adapters/memory/store.go", "github.com/ethereum/go-ethereum/crypto")
	writeSource(t, root, engine+"/application/commands/vote.go", modulePath+"/internal/platform/db", "gorm.io/gorm")
	writeSource(t, root, engine+"/ports/ports.go", modulePath+"/"+engine+"/adapters/memory")
	writeSource(t, root, mirror+"/adapters/http/handler.go", modulePath+"/"+engine+"/application/queries")
	writeSource(t, root, "contracts/gen/events/v1/envelope.go", "github.com/google/uuid")

	got := rulesByFile(collectViolations(root))

	assert.ElementsMatch(t, []string{
		"domain imports only the standard library and its own domain",
		"chain primitives are confined to the election engine ethereum adapter",
	}, got[engine+"/domain/entities/election.go"])
	assert.Equal(t, []string{"chain primitives are confined to the election engine ethereum adapter"}, got[engine+"/adapters/memory/store.go"])
	assert.Len(t, got[engine+"/application/commands/vote.go"], 2)
	assert.Equal(t, []string{"ports import only their domain and the event contracts"}, got[engine+"/ports/ports.go"])
	assert.Equal(t, []string{"services exchange data through bootstrap bridges, never by import"}, got[mirror+"/adapters/http/handler.go"])
	assert.Equal(t, []string{"event contracts depend on the standard library only"}, got["contracts/gen/events/v1/envelope.go"])
}

func TestCollectViolationsSortsByFileAndLine(t *testing.T) {
	root := t.TempDir()
	writeSource(t, root, "contexts/governance/election-engine/domain/b.go", "net/http", "gorm.io/gorm", "github.com/google/uuid")
	writeSource(t, root, "contexts/governance/election-engine/domain/a.go", "gorm.io/gorm")

	violations := collectViolations(root)
	require.Len(t, violations, 3)
	assert.Equal(t, "contexts/governance/election-engine/domain/a.go", violations[0].File)
	assert.Less(t, violations[1].Line, violations[2].Line)
}

func TestIsStdlib(t *testing.T) {
	assert.True(t, isStdlib("net/http"))
	assert.True(t, isStdlib("context"))
	assert.False(t, isStdlib("gorm.io/gorm"))
	assert.False(t, isStdlib(modulePath+"/contracts/gen/events/v1"))
}
