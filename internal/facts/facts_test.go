package facts

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDisabledProviderReturnsCheer(t *testing.T) {
	p := New("Pirates", "🏴‍☠️", false, "")
	assert.Equal(t, "🏴‍☠️ Let's go team! ⚾", p.Fact())
}

func TestBuiltinFactsByTeam(t *testing.T) {
	p := New("Pirates", "🏴‍☠️", true, "")
	p.pick = func(n int) int { return 0 }
	assert.Equal(t, builtinFacts["pirates"][0], p.Fact())

	p.pick = func(n int) int { return n - 1 }
	assert.Equal(t, builtinFacts["pirates"][len(builtinFacts["pirates"])-1], p.Fact())
}

func TestRedSoxAlias(t *testing.T) {
	p := New("RedSox", "🧦", true, "")
	p.pick = func(n int) int { return 0 }
	assert.Equal(t, builtinFacts["red sox"][0], p.Fact())
}

func TestUnknownTeamGetsGenericFact(t *testing.T) {
	p := New("Mudhens", "🐔", true, "")
	got := p.Fact()
	assert.Contains(t, got, "Mudhens")
	assert.Contains(t, got, "🐔")
}

func TestCustomFactsFileWins(t *testing.T) {
	path := filepath.Join(t.TempDir(), "facts.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"team_name":"Pirates","facts":["custom one","custom two"]}`), 0o644))

	p := New("Pirates", "🏴‍☠️", true, path)
	p.pick = func(n int) int { return 1 }
	assert.Equal(t, "custom two", p.Fact())
}

func TestMalformedCustomFactsIgnored(t *testing.T) {
	path := filepath.Join(t.TempDir(), "facts.json")
	require.NoError(t, os.WriteFile(path, []byte("not json"), 0o644))

	p := New("Pirates", "🏴‍☠️", true, path)
	p.pick = func(n int) int { return 0 }
	assert.Equal(t, builtinFacts["pirates"][0], p.Fact())
}

func TestMissingCustomFactsFileIgnored(t *testing.T) {
	p := New("Pirates", "🏴‍☠️", true, "/nonexistent/facts.json")
	p.pick = func(n int) int { return 0 }
	assert.Equal(t, builtinFacts["pirates"][0], p.Fact())
}
