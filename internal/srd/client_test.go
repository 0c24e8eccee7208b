package srd

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/suderio/skirmish/internal/data"
	"github.com/suderio/skirmish/internal/rules"
)

const goblinJSON = `{
  "index": "goblin",
  "name": "Goblin",
  "hit_points": 7,
  "armor_class": [{"type": "armor", "value": 15}],
  "strength": 8, "dexterity": 14, "constitution": 10,
  "intelligence": 10, "wisdom": 8, "charisma": 8,
  "proficiencies": [
    {"value": 6, "proficiency": {"index": "skill-stealth", "name": "Skill: Stealth"}},
    {"value": 4, "proficiency": {"index": "saving-throw-dex", "name": "Saving Throw: DEX"}}
  ]
}`

func newServer(t *testing.T) (*httptest.Server, *int) {
	t.Helper()
	hits := 0
	mux := http.NewServeMux()
	mux.HandleFunc("/api/2014/monsters", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"count": 1, "results": [{"index": "goblin", "name": "Goblin", "url": "/api/2014/monsters/goblin"}]}`)
	})
	mux.HandleFunc("/api/2014/monsters/goblin", func(w http.ResponseWriter, r *http.Request) {
		hits++
		assert.Equal(t, "application/json", r.Header.Get("Accept"))
		fmt.Fprint(w, goblinJSON)
	})
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv, &hits
}

func TestFetchList(t *testing.T) {
	srv, _ := newServer(t)
	c := NewClient(srv.URL, t.TempDir(), false)

	list, err := c.FetchList(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 1, list.Count)
	assert.Equal(t, "goblin", list.Results[0].Index)
}

func TestFetchMonsterNotFound(t *testing.T) {
	srv, _ := newServer(t)
	c := NewClient(srv.URL, t.TempDir(), false)

	_, err := c.FetchMonster(context.Background(), "tarrasque")
	assert.ErrorContains(t, err, "404")
}

func TestTemplate(t *testing.T) {
	srv, _ := newServer(t)
	c := NewClient(srv.URL, t.TempDir(), false)

	m, err := c.FetchMonster(context.Background(), "goblin")
	require.NoError(t, err)
	tmpl := Template(m)

	assert.Equal(t, "Goblin", tmpl.Name)
	assert.Equal(t, 7, *tmpl.HP)
	assert.Equal(t, 15, *tmpl.AC)
	assert.Equal(t, 14, tmpl.Stats["dex_score"])
	assert.Equal(t, 4, tmpl.Stats["dex_save"])
	assert.Equal(t, "mod(stats.dex_score)", tmpl.Derived["dex"])
	assert.NotContains(t, tmpl.Stats, "stealth_save")
}

func TestImportRoundTripsThroughLoader(t *testing.T) {
	srv, hits := newServer(t)
	dir := t.TempDir()
	c := NewClient(srv.URL, dir, false)
	ref := APIReference{Index: "goblin", URL: "/api/2014/monsters/goblin"}

	require.NoError(t, c.Import(context.Background(), ref))
	assert.True(t, c.Exists("goblin"))

	registry, err := rules.NewRegistry(nil)
	require.NoError(t, err)
	tmpl, err := data.NewLoader([]string{dir}, registry).LoadCombatant("goblin")
	require.NoError(t, err)

	assert.Equal(t, 2, tmpl.Stats["dex"])
	assert.Equal(t, -1, tmpl.Stats["str"])
	assert.Equal(t, 4, tmpl.Stats["dex_save"])

	err = c.Import(context.Background(), ref)
	assert.True(t, errors.Is(err, ErrSkipped))
	assert.Equal(t, 1, *hits)

	forced := NewClient(srv.URL, dir, true)
	require.NoError(t, forced.Import(context.Background(), APIReference{Index: "goblin"}))
	assert.Equal(t, 2, *hits)
}
