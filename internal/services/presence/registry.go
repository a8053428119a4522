// Package presence implements the TTL-based liveness registry: who is online,
// refreshed by hello/ping signals and expired lazily on every read.
package presence

import (
	"context"
	"errors"
	"log/slog"
	"sort"
	"strings"
	"sync"
	"time"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"

	"github.com/zhuravskayyar/cardastica-server/internal/dependencies/clock"
	"github.com/zhuravskayyar/cardastica-server/internal/model"
	"github.com/zhuravskayyar/cardastica-server/internal/normalize"
	"github.com/zhuravskayyar/cardastica-server/internal/storage"
)

const (
	// MaxPlayerIDLen bounds inbound player identifiers
	MaxPlayerIDLen = 64

	// DefaultListLimit is the listing page size when none is requested
	DefaultListLimit = 200
	// MinListLimit floors an explicit page size
	MinListLimit = 1
	// MaxListLimit caps the listing page size
	MaxListLimit = 500
)

// Config holds configuration for the registry
type Config struct {
	// TTL is the maximum silence before a record expires
	TTL time.Duration
}

// DefaultConfig returns the standard 90-second liveness window
func DefaultConfig() Config {
	return Config{TTL: 90 * time.Second}
}

// Registry owns the presence records. Its mutex makes hello, ping, cleanup
// and every read mutually exclusive, so a snapshot never observes a
// half-written record and cleanup never races an insert.
type Registry struct {
	storage  storage.Storage
	clock    clock.Clock
	logger   *slog.Logger
	cfg      Config
	mu       sync.Mutex
	collator *collate.Collator
}

// New creates a new presence registry
func New(store storage.Storage, clk clock.Clock, cfg Config, logger *slog.Logger) *Registry {
	if cfg.TTL == 0 {
		cfg.TTL = DefaultConfig().TTL
	}
	return &Registry{
		storage:  store,
		clock:    clk,
		logger:   logger.With(slog.String("component", "presence")),
		cfg:      cfg,
		collator: collate.New(language.Und, collate.IgnoreCase),
	}
}

// HelloInput carries a presence:hello payload. Name, Power, League and
// Profile are untrusted decoded JSON values; normalization makes them safe.
type HelloInput struct {
	PlayerID      string
	Name          any
	Power         any
	League        any
	Profile       any
	ConnectionRef string
}

// PingInput carries a presence:ping payload. Nil fields are omitted from the
// update; the prior value is retained.
type PingInput struct {
	PlayerID string
	Power    any
	League   any
	Profile  any
}

// OnlinePlayer is the public projection of one live record
type OnlinePlayer struct {
	PlayerID      string  `json:"playerId"`
	Name          string  `json:"name"`
	Power         *int    `json:"power"`
	League        *string `json:"league"`
	Avatar        string  `json:"avatar"`
	Level         int     `json:"level"`
	Title         string  `json:"title"`
	LastSeenMsAgo int64   `json:"lastSeenMsAgo"`
}

// Snapshot is a point-in-time sorted view of all live players
type Snapshot struct {
	Count int            `json:"count"`
	List  []OnlinePlayer `json:"list"`
}

// PlayerView is the full public record served by the query surface
type PlayerView struct {
	OnlinePlayer
	Profile model.Profile `json:"profile"`
}

// Hello registers or replaces a record with LastSeen = now. An empty player
// id (after trimming) is silently ignored: these are fire-and-forget
// transport events with no failure acknowledgment.
func (r *Registry) Hello(ctx context.Context, in HelloInput) error {
	id := normalize.Text(in.PlayerID, MaxPlayerIDLen)
	if id == "" {
		return nil
	}

	name := normalize.Name(in.Name)
	power := normalize.Power(in.Power)
	league := normalize.League(in.League)
	profile := normalize.Profile(in.Profile, name, power, league)

	r.mu.Lock()
	defer r.mu.Unlock()

	record := &model.PresenceRecord{
		PlayerID:      model.PlayerID(id),
		Name:          name,
		LastSeen:      r.clock.Now(),
		ConnectionRef: in.ConnectionRef,
		Power:         power,
		League:        league,
		Profile:       profile,
	}
	return r.storage.SavePresence(ctx, record)
}

// Ping refreshes LastSeen for an existing record and applies a partial
// update of any supplied fields. Unknown players are ignored: ping never
// creates a record.
func (r *Registry) Ping(ctx context.Context, in PingInput) error {
	id := normalize.Text(in.PlayerID, MaxPlayerIDLen)
	if id == "" {
		return nil
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	record, err := r.storage.GetPresence(ctx, model.PlayerID(id))
	if err != nil {
		if errors.Is(err, model.ErrPlayerNotFound) {
			return nil
		}
		return err
	}

	record.LastSeen = r.clock.Now()
	if in.Power != nil {
		record.Power = normalize.Power(in.Power)
	}
	if in.League != nil {
		record.League = normalize.League(in.League)
	}
	if in.Profile != nil {
		record.Profile = normalize.Profile(in.Profile, record.Name, record.Power, record.League)
	}
	return r.storage.SavePresence(ctx, record)
}

// Remove deletes a record immediately. Used when the gateway is configured
// to drop presence on transport disconnect instead of waiting out the TTL.
func (r *Registry) Remove(ctx context.Context, id string) error {
	id = strings.TrimSpace(id)
	if id == "" {
		return nil
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.storage.DeletePresence(ctx, model.PlayerID(id))
}

// Cleanup removes every record older than the TTL. Every read path calls
// this first, so readers never observe expired entries.
func (r *Registry) Cleanup(ctx context.Context) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.cleanupLocked(ctx, r.clock.Now())
}

func (r *Registry) cleanupLocked(ctx context.Context, now time.Time) error {
	records, err := r.storage.ListPresence(ctx)
	if err != nil {
		return err
	}
	removed := 0
	for _, record := range records {
		if now.Sub(record.LastSeen) > r.cfg.TTL {
			if err := r.storage.DeletePresence(ctx, record.PlayerID); err != nil {
				return err
			}
			removed++
		}
	}
	if removed > 0 {
		r.logger.Debug("expired presence records removed", slog.Int("removed", removed))
	}
	return nil
}

// Snapshot expires stale records, then returns every live player sorted by
// power (descending, missing power last), recency, and name.
func (r *Registry) Snapshot(ctx context.Context) (Snapshot, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.snapshotLocked(ctx)
}

func (r *Registry) snapshotLocked(ctx context.Context) (Snapshot, error) {
	now := r.clock.Now()
	if err := r.cleanupLocked(ctx, now); err != nil {
		return Snapshot{}, err
	}

	records, err := r.storage.ListPresence(ctx)
	if err != nil {
		return Snapshot{}, err
	}

	list := make([]OnlinePlayer, len(records))
	for i, record := range records {
		list[i] = projectRecord(record, now)
	}
	r.sortSnapshot(list)

	return Snapshot{Count: len(list), List: list}, nil
}

func (r *Registry) sortSnapshot(list []OnlinePlayer) {
	sort.Slice(list, func(i, j int) bool {
		pi, pj := sortPower(list[i].Power), sortPower(list[j].Power)
		if pi != pj {
			return pi > pj
		}
		if list[i].LastSeenMsAgo != list[j].LastSeenMsAgo {
			return list[i].LastSeenMsAgo < list[j].LastSeenMsAgo
		}
		return r.collator.CompareString(list[i].Name, list[j].Name) < 0
	})
}

// sortPower treats missing power as -1 so absent entries sort last
func sortPower(p *int) int {
	if p == nil {
		return -1
	}
	return *p
}

func projectRecord(record *model.PresenceRecord, now time.Time) OnlinePlayer {
	return OnlinePlayer{
		PlayerID:      string(record.PlayerID),
		Name:          record.Name,
		Power:         record.Power,
		League:        record.League,
		Avatar:        record.Profile.Avatar,
		Level:         record.Profile.Level,
		Title:         record.Profile.Title,
		LastSeenMsAgo: now.Sub(record.LastSeen).Milliseconds(),
	}
}

// Lookup expires stale records, then returns one player's full view
// including the normalized profile.
func (r *Registry) Lookup(ctx context.Context, id string) (*PlayerView, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	now := r.clock.Now()
	if err := r.cleanupLocked(ctx, now); err != nil {
		return nil, err
	}

	record, err := r.storage.GetPresence(ctx, model.PlayerID(strings.TrimSpace(id)))
	if err != nil {
		return nil, err
	}

	return &PlayerView{
		OnlinePlayer: projectRecord(record, now),
		Profile:      record.Profile.Clone(),
	}, nil
}

// DisplayName resolves a player id to a display name, falling back to the
// default when the player is unknown or expired. Expiry is checked against
// the record itself rather than running a full cleanup pass.
func (r *Registry) DisplayName(ctx context.Context, id string) string {
	r.mu.Lock()
	defer r.mu.Unlock()

	record, err := r.storage.GetPresence(ctx, model.PlayerID(strings.TrimSpace(id)))
	if err != nil || r.clock.Now().Sub(record.LastSeen) > r.cfg.TTL {
		return normalize.DefaultName
	}
	return record.Name
}

// List filters the snapshot by a case-insensitive substring match on name
// and truncates to limit. Zero means no limit was requested and takes the
// default; explicit values clamp to [MinListLimit, MaxListLimit]. Count
// reflects the filtered total regardless of truncation.
func (r *Registry) List(ctx context.Context, query string, limit int) (Snapshot, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	snap, err := r.snapshotLocked(ctx)
	if err != nil {
		return Snapshot{}, err
	}

	switch {
	case limit == 0:
		limit = DefaultListLimit
	case limit < MinListLimit:
		limit = MinListLimit
	case limit > MaxListLimit:
		limit = MaxListLimit
	}

	query = strings.ToLower(strings.TrimSpace(query))
	filtered := snap.List
	if query != "" {
		filtered = make([]OnlinePlayer, 0, len(snap.List))
		for _, player := range snap.List {
			if strings.Contains(strings.ToLower(player.Name), query) {
				filtered = append(filtered, player)
			}
		}
	}

	total := len(filtered)
	if len(filtered) > limit {
		filtered = filtered[:limit]
	}
	return Snapshot{Count: total, List: filtered}, nil
}
