package model

// ProfileVersion is the schema version stamped on every normalized profile
const ProfileVersion = 1

// Profile is the denormalized display aggregate attached to a presence
// record. Every field is bounded and defaulted by the normalize package so
// malformed or partial input never leaves a field oversized or unsafe.
type Profile struct {
	Version       int           `json:"v"`
	Name          string        `json:"name"`
	Title         string        `json:"title"`
	Subtitle      string        `json:"subtitle"`
	Avatar        string        `json:"avatar"`
	Level         int           `json:"level"`
	GuildRank     string        `json:"guildRank"`
	Ratings       Ratings       `json:"ratings"`
	Duel          DuelStats     `json:"duel"`
	Bonuses       Bonuses       `json:"bonuses"`
	DaysInGame    int           `json:"daysInGame"`
	LastLoginText string        `json:"lastLoginText"`
	MedalsCount   int           `json:"medalsCount"`
	GiftsCount    int           `json:"giftsCount"`
	TopCards      []CardPreview `json:"topCards"`
}

// Ratings holds the per-mode rating scores. League is the tier label shown
// next to the numeric ratings.
type Ratings struct {
	Deck       int    `json:"deck"`
	Duel       int    `json:"duel"`
	Arena      int    `json:"arena"`
	Tournament int    `json:"tournament"`
	League     string `json:"league"`
}

// DuelStats counts a player's duel outcomes
type DuelStats struct {
	Played int `json:"played"`
	Wins   int `json:"wins"`
	Losses int `json:"losses"`
	Draws  int `json:"draws"`
}

// Bonuses holds percentage boosts from the in-game economy
type Bonuses struct {
	XPPct     int `json:"xpPct"`
	SilverPct int `json:"silverPct"`
	GuildPct  int `json:"guildPct"`
}

// CardPreview is one entry of a profile's showcased top cards
type CardPreview struct {
	Title   string `json:"title"`
	Art     string `json:"art"`
	Power   int    `json:"power"`
	Level   int    `json:"level"`
	Rarity  string `json:"rarity"`
	Element string `json:"element"`
}

// Clone returns a deep copy of the profile
func (p Profile) Clone() Profile {
	out := p
	if p.TopCards != nil {
		out.TopCards = make([]CardPreview, len(p.TopCards))
		copy(out.TopCards, p.TopCards)
	}
	return out
}
