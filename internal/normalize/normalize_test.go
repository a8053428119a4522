package normalize

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/suite"

	"github.com/zhuravskayyar/cardastica-server/internal/model"
)

type NormalizeSuite struct {
	suite.Suite
}

func TestNormalizeSuite(t *testing.T) {
	suite.Run(t, new(NormalizeSuite))
}

// Name tests

func (s *NormalizeSuite) TestNameTrimsWhitespace() {
	s.Equal("Alice", Name("  Alice  "))
}

func (s *NormalizeSuite) TestNameDefaultsWhenEmpty() {
	s.Equal("Player", Name(""))
	s.Equal("Player", Name("   "))
	s.Equal("Player", Name(nil))
}

func (s *NormalizeSuite) TestNameNonStringInput() {
	s.Equal("42", Name(float64(42)))
	s.Equal("true", Name(true))
	s.Equal("Player", Name(map[string]any{"nested": "object"}))
	s.Equal("Player", Name([]any{"list"}))
}

func (s *NormalizeSuite) TestNameTruncatesToLimit() {
	long := strings.Repeat("x", 100)
	s.Len(Name(long), MaxNameLen)
}

func (s *NormalizeSuite) TestNameTruncatesByRunes() {
	long := strings.Repeat("я", 100)
	got := Name(long)
	s.Equal(MaxNameLen, len([]rune(got)))
}

// Power tests

func (s *NormalizeSuite) TestPowerRoundsToNearest() {
	p := Power(float64(12.6))
	s.Require().NotNil(p)
	s.Equal(13, *p)
}

func (s *NormalizeSuite) TestPowerFloorsNegativeAtZero() {
	p := Power(float64(-50))
	s.Require().NotNil(p)
	s.Equal(0, *p)
}

func (s *NormalizeSuite) TestPowerParsesNumericString() {
	p := Power(" 1500 ")
	s.Require().NotNil(p)
	s.Equal(1500, *p)
}

func (s *NormalizeSuite) TestPowerNilForNonNumeric() {
	s.Nil(Power(nil))
	s.Nil(Power("strong"))
	s.Nil(Power(true))
	s.Nil(Power(map[string]any{}))
}

func (s *NormalizeSuite) TestPowerNilForNonFinite() {
	s.Nil(Power("NaN"))
	s.Nil(Power("Inf"))
}

// League tests

func (s *NormalizeSuite) TestLeagueTrims() {
	l := League("  Gold  ")
	s.Require().NotNil(l)
	s.Equal("Gold", *l)
}

func (s *NormalizeSuite) TestLeagueNilWhenEmpty() {
	s.Nil(League(nil))
	s.Nil(League(""))
	s.Nil(League("   "))
}

// Text tests

func (s *NormalizeSuite) TestTextTruncatesToMax() {
	s.Equal("abcde", Text("abcdefgh", 5))
}

func (s *NormalizeSuite) TestTextClampsMax() {
	s.Equal("a", Text("abc", 0))
	s.Equal("a", Text("abc", -10))

	long := strings.Repeat("x", 1000)
	s.Len(Text(long, 9999), MaxTextLen)
}

func (s *NormalizeSuite) TestTextEmptyForNonScalar() {
	s.Equal("", Text(nil, 100))
	s.Equal("", Text(map[string]any{"a": 1}, 100))
}

// Avatar tests

func (s *NormalizeSuite) TestAvatarAcceptsKnownPrefixes() {
	s.Equal("http://cdn.example.com/a.png", Avatar("http://cdn.example.com/a.png"))
	s.Equal("https://cdn.example.com/a.png", Avatar("https://cdn.example.com/a.png"))
	s.Equal("assets/avatars/a.png", Avatar("assets/avatars/a.png"))
	s.Equal("../../assets/avatars/a.png", Avatar("../../assets/avatars/a.png"))
}

func (s *NormalizeSuite) TestAvatarBlanksUnknownSchemes() {
	s.Equal("", Avatar("javascript:alert(1)"))
	s.Equal("", Avatar("ftp://files.example.com/a.png"))
	s.Equal("", Avatar("/etc/passwd"))
	s.Equal("", Avatar(nil))
}

// CardsPreview tests

func (s *NormalizeSuite) TestCardsPreviewEmptyForNonList() {
	s.Empty(CardsPreview(nil))
	s.Empty(CardsPreview("cards"))
	s.Empty(CardsPreview(map[string]any{}))
}

func (s *NormalizeSuite) TestCardsPreviewCapsAtNine() {
	items := make([]any, 20)
	for i := range items {
		items[i] = map[string]any{"title": "C", "power": float64(i)}
	}
	s.Len(CardsPreview(items), MaxTopCards)
}

func (s *NormalizeSuite) TestCardsPreviewNormalizesFields() {
	cards := CardsPreview([]any{
		map[string]any{
			"title":   "",
			"art":     "evil://x",
			"power":   float64(-3),
			"level":   float64(0),
			"element": "FIRE",
		},
	})
	s.Require().Len(cards, 1)
	s.Equal(model.CardPreview{
		Title:   "Card",
		Art:     "",
		Power:   0,
		Level:   1,
		Rarity:  "",
		Element: "fire",
	}, cards[0])
}

// Profile tests

func (s *NormalizeSuite) TestProfileFillsDefaults() {
	p := Profile(nil, "", nil, nil)

	s.Equal(model.ProfileVersion, p.Version)
	s.Equal("Player", p.Name)
	s.Equal("Novice", p.Title)
	s.Equal("Collector", p.Subtitle)
	s.Equal("assets/avatars/default.png", p.Avatar)
	s.Equal(1, p.Level)
	s.Equal(1000, p.Ratings.Deck)
	s.Equal("Unranked", p.Ratings.League)
	s.Empty(p.TopCards)
}

func (s *NormalizeSuite) TestProfileUsesFallbacks() {
	power := 1850
	league := "Diamond"
	p := Profile(nil, "Zorana", &power, &league)

	s.Equal("Zorana", p.Name)
	s.Equal(1850, p.Ratings.Deck)
	s.Equal("Diamond", p.Ratings.League)
}

func (s *NormalizeSuite) TestProfileOwnFieldsBeatFallbacks() {
	power := 1850
	league := "Diamond"
	p := Profile(map[string]any{
		"name": "Ingame",
		"ratings": map[string]any{
			"deck":   float64(2000),
			"league": "Master",
		},
	}, "Zorana", &power, &league)

	s.Equal("Ingame", p.Name)
	s.Equal(2000, p.Ratings.Deck)
	s.Equal("Master", p.Ratings.League)
}

func (s *NormalizeSuite) TestProfileBoundsCollections() {
	p := Profile(map[string]any{
		"name":       strings.Repeat("n", 200),
		"daysInGame": float64(-5),
		"duel": map[string]any{
			"played": float64(10.4),
			"wins":   "7",
		},
	}, "", nil, nil)

	s.Equal(MaxNameLen, len([]rune(p.Name)))
	s.Equal(0, p.DaysInGame)
	s.Equal(10, p.Duel.Played)
	s.Equal(7, p.Duel.Wins)
}

func (s *NormalizeSuite) TestProfileIsIdempotent() {
	power := 777
	league := "Silver"
	first := Profile(map[string]any{
		"name":     "  Nika  ",
		"avatar":   "weird://path",
		"title":    "",
		"level":    "9",
		"topCards": []any{map[string]any{"title": "Dragon", "element": "Air"}},
	}, "Fallback", &power, &league)

	// Round-trip through JSON the way a client would echo it back
	data, err := json.Marshal(first)
	s.Require().NoError(err)
	var echoed map[string]any
	s.Require().NoError(json.Unmarshal(data, &echoed))

	second := Profile(echoed, first.Name, &power, &league)
	s.Equal(first, second)
}
