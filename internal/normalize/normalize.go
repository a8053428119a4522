// Package normalize coerces untrusted inbound values into bounded, safe
// canonical forms. Every function is total: malformed input yields a safe
// default, never an error.
package normalize

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/zhuravskayyar/cardastica-server/internal/model"
)

const (
	// MaxNameLen bounds display names
	MaxNameLen = 48
	// MaxTextLen bounds free text fields
	MaxTextLen = 512
	// MaxTopCards bounds the showcased card list
	MaxTopCards = 9

	// DefaultName replaces empty display names
	DefaultName = "Player"
	// DefaultCardTitle replaces empty card titles
	DefaultCardTitle = "Card"

	// Profile display defaults, filled only when the field is empty
	defaultAvatar   = "assets/avatars/default.png"
	defaultTitle    = "Novice"
	defaultSubtitle = "Collector"
	// Baseline filled when the deck rating is absent or zero
	defaultRating = 1000
	// Tier label filled when no league is known
	defaultLeague = "Unranked"
)

// allowed avatar prefixes; anything else is blanked
var avatarPrefixes = []string{"http://", "https://", "assets/", "../../assets/"}

// Name stringifies and trims v, defaulting to "Player" when empty and
// truncating to 48 characters.
func Name(v any) string {
	s := strings.TrimSpace(stringify(v))
	if s == "" {
		return DefaultName
	}
	return truncate(s, MaxNameLen)
}

// Power coerces v to a non-negative integer score. Non-numeric or non-finite
// input yields nil; negative values floor at zero.
func Power(v any) *int {
	f, ok := toFloat(v)
	if !ok || math.IsNaN(f) || math.IsInf(f, 0) {
		return nil
	}
	n := int(math.Round(f))
	if n < 0 {
		n = 0
	}
	return &n
}

// League trims a league label, mapping nil and empty to nil.
func League(v any) *string {
	if v == nil {
		return nil
	}
	s := strings.TrimSpace(stringify(v))
	if s == "" {
		return nil
	}
	return &s
}

// Text stringifies and trims v, truncating to max characters. max itself is
// clamped to [1, 512].
func Text(v any, max int) string {
	if max < 1 {
		max = 1
	} else if max > MaxTextLen {
		max = MaxTextLen
	}
	s := strings.TrimSpace(stringify(v))
	if s == "" {
		return ""
	}
	return truncate(s, max)
}

// Avatar accepts only absolute URLs or known relative asset paths; anything
// else is blanked.
func Avatar(v any) string {
	s := Text(v, MaxTextLen)
	for _, prefix := range avatarPrefixes {
		if strings.HasPrefix(s, prefix) {
			return s
		}
	}
	return ""
}

// CardsPreview bounds and normalizes the showcased top-cards list: at most
// nine entries, each field coerced with the usual rules.
func CardsPreview(v any) []model.CardPreview {
	items, ok := v.([]any)
	if !ok {
		return []model.CardPreview{}
	}
	if len(items) > MaxTopCards {
		items = items[:MaxTopCards]
	}
	cards := make([]model.CardPreview, 0, len(items))
	for _, item := range items {
		raw, _ := item.(map[string]any)
		title := Text(raw["title"], 64)
		if title == "" {
			title = DefaultCardTitle
		}
		cards = append(cards, model.CardPreview{
			Title:   title,
			Art:     Avatar(raw["art"]),
			Power:   count(raw["power"]),
			Level:   level(raw["level"]),
			Rarity:  Text(raw["rarity"], 32),
			Element: strings.ToLower(Text(raw["element"], 32)),
		})
	}
	return cards
}

// Profile builds a fully-bounded profile from arbitrary input. Fallbacks
// carry the values supplied alongside the profile (hello name/power/league);
// display defaults fill only fields that normalize to empty or zero, so
// normalizing an already-normalized profile is a no-op.
func Profile(raw any, fallbackName string, fallbackPower *int, fallbackLeague *string) model.Profile {
	m, _ := raw.(map[string]any)

	name := Text(m["name"], MaxNameLen)
	if name == "" {
		name = fallbackName
	}
	if name == "" {
		name = DefaultName
	}

	p := model.Profile{
		Version:       model.ProfileVersion,
		Name:          name,
		Title:         Text(m["title"], 64),
		Subtitle:      Text(m["subtitle"], 64),
		Avatar:        Avatar(m["avatar"]),
		Level:         level(m["level"]),
		GuildRank:     Text(m["guildRank"], 32),
		Ratings:       ratings(m["ratings"], fallbackPower, fallbackLeague),
		Duel:          duelStats(m["duel"]),
		Bonuses:       bonuses(m["bonuses"]),
		DaysInGame:    count(m["daysInGame"]),
		LastLoginText: Text(m["lastLoginText"], 64),
		MedalsCount:   count(m["medalsCount"]),
		GiftsCount:    count(m["giftsCount"]),
		TopCards:      CardsPreview(m["topCards"]),
	}

	if p.Avatar == "" {
		p.Avatar = defaultAvatar
	}
	if p.Title == "" {
		p.Title = defaultTitle
	}
	if p.Subtitle == "" {
		p.Subtitle = defaultSubtitle
	}
	return p
}

func ratings(v any, fallbackPower *int, fallbackLeague *string) model.Ratings {
	m, _ := v.(map[string]any)
	r := model.Ratings{
		Deck:       count(m["deck"]),
		Duel:       count(m["duel"]),
		Arena:      count(m["arena"]),
		Tournament: count(m["tournament"]),
		League:     Text(m["league"], 32),
	}
	if r.Deck == 0 {
		if fallbackPower != nil && *fallbackPower > 0 {
			r.Deck = *fallbackPower
		} else {
			r.Deck = defaultRating
		}
	}
	if r.League == "" {
		if fallbackLeague != nil {
			r.League = *fallbackLeague
		} else {
			r.League = defaultLeague
		}
	}
	return r
}

func duelStats(v any) model.DuelStats {
	m, _ := v.(map[string]any)
	return model.DuelStats{
		Played: count(m["played"]),
		Wins:   count(m["wins"]),
		Losses: count(m["losses"]),
		Draws:  count(m["draws"]),
	}
}

func bonuses(v any) model.Bonuses {
	m, _ := v.(map[string]any)
	return model.Bonuses{
		XPPct:     count(m["xpPct"]),
		SilverPct: count(m["silverPct"]),
		GuildPct:  count(m["guildPct"]),
	}
}

// count coerces to a non-negative integer, defaulting to zero
func count(v any) int {
	if p := Power(v); p != nil {
		return *p
	}
	return 0
}

// level coerces to an integer of at least one
func level(v any) int {
	n := count(v)
	if n < 1 {
		return 1
	}
	return n
}

// stringify renders any scalar as a display string. Maps and slices do not
// have a meaningful display form and render empty.
func stringify(v any) string {
	switch s := v.(type) {
	case nil:
		return ""
	case string:
		return s
	case json.Number:
		return s.String()
	case float64:
		return strconv.FormatFloat(s, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(s)
	case int, int32, int64:
		return fmt.Sprintf("%d", s)
	case map[string]any, []any:
		return ""
	default:
		return fmt.Sprintf("%v", s)
	}
}

// toFloat coerces numeric-ish values, including numeric strings
func toFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int32:
		return float64(n), true
	case int64:
		return float64(n), true
	case json.Number:
		f, err := n.Float64()
		return f, err == nil
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(n), 64)
		return f, err == nil
	default:
		return 0, false
	}
}

// truncate cuts s to at most max runes
func truncate(s string, max int) string {
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	return string(runes[:max])
}
