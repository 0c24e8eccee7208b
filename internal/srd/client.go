// Package srd imports monster stat blocks from the 5e SRD API and stores
// them as combatant templates for offline use.
package srd

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/suderio/skirmish/internal/data"
)

const BaseURL = "https://www.dnd5eapi.co"

const monstersPath = "/api/2014/monsters"

var abilities = []string{"str", "dex", "con", "int", "wis", "cha"}

type Client struct {
	client  *http.Client
	baseURL string
	dataDir string
	force   bool
}

// NewClient builds a client writing templates under dataDir. An empty
// baseURL uses BaseURL.
func NewClient(baseURL, dataDir string, force bool) *Client {
	if baseURL == "" {
		baseURL = BaseURL
	}
	return &Client{
		client: &http.Client{
			Timeout: 30 * time.Second,
		},
		baseURL: strings.TrimSuffix(baseURL, "/"),
		dataDir: dataDir,
		force:   force,
	}
}

type APIReference struct {
	Index string `json:"index"`
	Name  string `json:"name"`
	URL   string `json:"url"`
}

type APIListResponse struct {
	Count   int            `json:"count"`
	Results []APIReference `json:"results"`
}

// Monster is the subset of the SRD monster document that maps onto a
// combatant.
type Monster struct {
	Index      string `json:"index"`
	Name       string `json:"name"`
	HitPoints  int    `json:"hit_points"`
	ArmorClass []struct {
		Value int `json:"value"`
	} `json:"armor_class"`
	Strength      int `json:"strength"`
	Dexterity     int `json:"dexterity"`
	Constitution  int `json:"constitution"`
	Intelligence  int `json:"intelligence"`
	Wisdom        int `json:"wisdom"`
	Charisma      int `json:"charisma"`
	Proficiencies []struct {
		Value       int          `json:"value"`
		Proficiency APIReference `json:"proficiency"`
	} `json:"proficiencies"`
}

func (c *Client) FetchList(ctx context.Context) (*APIListResponse, error) {
	var list APIListResponse
	if err := c.get(ctx, monstersPath, &list); err != nil {
		return nil, err
	}
	return &list, nil
}

// FetchMonster reads one monster by index ("goblin") or by the url of a
// list reference.
func (c *Client) FetchMonster(ctx context.Context, ref string) (*Monster, error) {
	path := ref
	if !strings.HasPrefix(ref, "/") {
		path = monstersPath + "/" + ref
	}
	var m Monster
	if err := c.get(ctx, path, &m); err != nil {
		return nil, err
	}
	return &m, nil
}

func (c *Client) get(ctx context.Context, path string, v any) error {
	url := c.baseURL + path
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("failed to fetch %s: %s", url, resp.Status)
	}
	return json.NewDecoder(resp.Body).Decode(v)
}

// Template converts a monster. Raw ability scores are kept as <ab>_score
// and the usual modifiers are declared as derived formulas, so the loader
// computes them. Saving throw proficiencies become <ab>_save.
func Template(m *Monster) *data.CombatantTemplate {
	scores := []int{m.Strength, m.Dexterity, m.Constitution, m.Intelligence, m.Wisdom, m.Charisma}

	t := &data.CombatantTemplate{
		Name:    m.Name,
		HP:      &m.HitPoints,
		Stats:   make(map[string]int),
		Derived: make(map[string]string),
	}
	if len(m.ArmorClass) > 0 {
		ac := m.ArmorClass[0].Value
		t.AC = &ac
	}
	for i, ab := range abilities {
		t.Stats[ab+"_score"] = scores[i]
		t.Derived[ab] = fmt.Sprintf("mod(stats.%s_score)", ab)
	}
	for _, p := range m.Proficiencies {
		if ab, ok := strings.CutPrefix(p.Proficiency.Index, "saving-throw-"); ok {
			t.Stats[ab+"_save"] = p.Value
		}
	}
	return t
}

// TemplatePath is where an imported monster is written.
func (c *Client) TemplatePath(index string) string {
	return filepath.Join(c.dataDir, "combatants", index+".yaml")
}

// Exists reports whether the template is already on disk.
func (c *Client) Exists(index string) bool {
	_, err := os.Stat(c.TemplatePath(index))
	return err == nil
}

// SaveTemplate writes combatants/<index>.yaml.
func (c *Client) SaveTemplate(index string, t *data.CombatantTemplate) error {
	localPath := c.TemplatePath(index)
	if err := os.MkdirAll(filepath.Dir(localPath), 0755); err != nil {
		return err
	}

	f, err := os.Create(localPath)
	if err != nil {
		return err
	}
	defer f.Close()

	encoder := yaml.NewEncoder(f)
	encoder.SetIndent(2)
	if err := encoder.Encode(t); err != nil {
		return err
	}
	return encoder.Close()
}

// ErrSkipped is returned by Import when the template exists and force is off.
var ErrSkipped = errors.New("template already present")

// Import fetches one monster and stores it as a template.
func (c *Client) Import(ctx context.Context, ref APIReference) error {
	if !c.force && c.Exists(ref.Index) {
		return ErrSkipped
	}
	target := ref.URL
	if target == "" {
		target = ref.Index
	}
	m, err := c.FetchMonster(ctx, target)
	if err != nil {
		return err
	}
	return c.SaveTemplate(ref.Index, Template(m))
}
