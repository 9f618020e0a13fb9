package sequencedmap_test

import (
	"slices"
	"testing"

	"github.com/speakeasy-api/openapi-stubgen/sequencedmap"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

func TestMap_Set_KeepsInsertionOrder(t *testing.T) {
	t.Parallel()

	m := sequencedmap.New(
		sequencedmap.NewElem("post", 1),
		sequencedmap.NewElem("get", 2),
	)
	m.Set("delete", 3)
	m.Set("post", 4)

	assert.Equal(t, []string{"post", "get", "delete"}, slices.Collect(m.Keys()))
	assert.Equal(t, 4, m.GetOrZero("post"), "existing key should be updated in place")
	assert.Equal(t, 3, m.Len())
}

func TestMap_NilSafe(t *testing.T) {
	t.Parallel()

	var m *sequencedmap.Map[string, int]

	assert.Equal(t, 0, m.Len())
	assert.False(t, m.Has("x"))
	_, ok := m.Get("x")
	assert.False(t, ok)
	assert.Empty(t, slices.Collect(m.Keys()))
	for range sequencedmap.AllSorted(m) {
		t.Fatal("nil map should not yield")
	}
}

func TestMap_ZeroValueSet(t *testing.T) {
	t.Parallel()

	var m sequencedmap.Map[string, string]
	m.Set("a", "b")

	v, ok := m.Get("a")
	require.True(t, ok)
	assert.Equal(t, "b", v)
}

func TestAllSorted_Success(t *testing.T) {
	t.Parallel()

	m := sequencedmap.New(
		sequencedmap.NewElem("name", "string"),
		sequencedmap.NewElem("id", "integer"),
		sequencedmap.NewElem("email", "string"),
	)

	var keys []string
	var values []string
	for k, v := range sequencedmap.AllSorted(m) {
		keys = append(keys, k)
		values = append(values, v)
	}

	assert.Equal(t, []string{"email", "id", "name"}, keys)
	assert.Equal(t, []string{"string", "integer", "string"}, values)
	assert.Equal(t, []string{"name", "id", "email"}, slices.Collect(m.Keys()), "sorting should not reorder the map")
}

func TestMap_UnmarshalYAML_Success(t *testing.T) {
	t.Parallel()

	type holder struct {
		Map *sequencedmap.Map[string, string] `yaml:"map"`
	}

	var h holder
	err := yaml.Unmarshal([]byte("map:\n  zeta: one\n  alpha: two\n  mid: three\n"), &h)
	require.NoError(t, err)
	require.NotNil(t, h.Map)

	assert.Equal(t, []string{"zeta", "alpha", "mid"}, slices.Collect(h.Map.Keys()))
	assert.Equal(t, "two", h.Map.GetOrZero("alpha"))
}

func TestMap_UnmarshalYAML_NullLeavesNil(t *testing.T) {
	t.Parallel()

	type holder struct {
		Map *sequencedmap.Map[string, string] `yaml:"map"`
	}

	var h holder
	require.NoError(t, yaml.Unmarshal([]byte("map: ~\n"), &h))
	assert.Nil(t, h.Map)
}

func TestMap_UnmarshalYAML_Error(t *testing.T) {
	t.Parallel()

	type holder struct {
		Map *sequencedmap.Map[string, int] `yaml:"map"`
	}

	tests := []struct {
		name        string
		yml         string
		expectError string
	}{
		{name: "sequence instead of mapping", yml: "map:\n  - a\n", expectError: "expected a mapping, got sequence"},
		{name: "value type mismatch", yml: "map:\n  a: nope\n", expectError: `decoding value of "a"`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			var h holder
			err := yaml.Unmarshal([]byte(tt.yml), &h)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.expectError)
		})
	}
}
