package schedule

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"sort"
	"strconv"
	"strings"
	"sync"
	"time"

	"reef-scout/scouting"
)

// ErrTBADisabled is returned when no TBA auth key is configured.
var ErrTBADisabled = errors.New("the blue alliance import is not configured")

type tbaMatch struct {
	Key         string `json:"key"`
	MatchNumber int    `json:"match_number"`
	CompLevel   string `json:"comp_level"` // "qm", "qf", "sf", "f"
	Alliances   struct {
		Red  tbaAlliance `json:"red"`
		Blue tbaAlliance `json:"blue"`
	} `json:"alliances"`
}

type tbaAlliance struct {
	TeamKeys []string `json:"team_keys"`
}

// TBAClient fetches event schedules from The Blue Alliance API v3.
type TBAClient struct {
	baseURL string
	authKey string
	http    *http.Client
	ttl     time.Duration

	mu        sync.Mutex
	cache     map[string][]scouting.Match
	fetchedAt map[string]time.Time
}

// NewTBAClient returns a client for baseURL. Responses are cached per event
// for ttl; a zero ttl disables the cache.
func NewTBAClient(baseURL, authKey string, ttl time.Duration, hc *http.Client) *TBAClient {
	if hc == nil {
		hc = &http.Client{Timeout: 15 * time.Second}
	}
	return &TBAClient{
		baseURL:   strings.TrimRight(baseURL, "/"),
		authKey:   authKey,
		http:      hc,
		ttl:       ttl,
		cache:     make(map[string][]scouting.Match),
		fetchedAt: make(map[string]time.Time),
	}
}

// Enabled reports whether an auth key is configured.
func (c *TBAClient) Enabled() bool { return c.authKey != "" }

// Qualifications returns the qualification schedule of eventKey ascending by
// match number. Playoff matches are dropped.
func (c *TBAClient) Qualifications(ctx context.Context, eventKey string) ([]scouting.Match, error) {
	if !c.Enabled() {
		return nil, ErrTBADisabled
	}
	eventKey = strings.ToLower(strings.TrimSpace(eventKey))
	if eventKey == "" {
		return nil, fmt.Errorf("%w: missing event key", ErrInvalidSchedule)
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	// schedules change while an event runs, so entries expire
	if m, ok := c.cache[eventKey]; ok && time.Since(c.fetchedAt[eventKey]) < c.ttl {
		return m, nil
	}

	raw, err := c.fetchMatches(ctx, eventKey)
	if err != nil {
		return nil, err
	}
	matches, err := qualificationSchedule(raw)
	if err != nil {
		return nil, err
	}

	c.cache[eventKey] = matches
	c.fetchedAt[eventKey] = time.Now()
	return matches, nil
}

func (c *TBAClient) fetchMatches(ctx context.Context, eventKey string) ([]tbaMatch, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet,
		fmt.Sprintf("%s/event/%s/matches/simple", c.baseURL, eventKey), nil)
	if err != nil {
		return nil, fmt.Errorf("build tba request: %w", err)
	}
	req.Header.Set("X-TBA-Auth-Key", c.authKey)
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch tba matches for %s: %w", eventKey, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("fetch tba matches for %s: status %d", eventKey, resp.StatusCode)
	}

	var matches []tbaMatch
	if err := json.NewDecoder(resp.Body).Decode(&matches); err != nil {
		return nil, fmt.Errorf("decode tba matches for %s: %w", eventKey, err)
	}
	return matches, nil
}

func qualificationSchedule(raw []tbaMatch) ([]scouting.Match, error) {
	var out []scouting.Match
	for _, m := range raw {
		if m.CompLevel != "qm" {
			continue
		}
		red, err := teamNumbers(m.Alliances.Red.TeamKeys)
		if err != nil {
			return nil, fmt.Errorf("%w: match %s: %v", ErrInvalidSchedule, m.Key, err)
		}
		blue, err := teamNumbers(m.Alliances.Blue.TeamKeys)
		if err != nil {
			return nil, fmt.Errorf("%w: match %s: %v", ErrInvalidSchedule, m.Key, err)
		}
		out = append(out, scouting.Match{
			Number: m.MatchNumber,
			Blue1:  blue[0], Blue2: blue[1], Blue3: blue[2],
			Red1: red[0], Red2: red[1], Red3: red[2],
		})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Number < out[j].Number })
	return out, nil
}

// teamNumbers converts "frc254" style keys into three slots. Missing slots
// stay zero.
func teamNumbers(keys []string) ([3]int, error) {
	var slots [3]int
	if len(keys) > len(slots) {
		return slots, fmt.Errorf("%d teams in one alliance", len(keys))
	}
	for i, k := range keys {
		n, err := strconv.Atoi(strings.TrimPrefix(k, "frc"))
		if err != nil || n <= 0 {
			return slots, fmt.Errorf("bad team key %q", k)
		}
		slots[i] = n
	}
	return slots, nil
}
