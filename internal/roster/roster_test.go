package roster

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"

	"github.com/albapepper/fivea/internal/teams"
)

func TestParseRow(t *testing.T) {
	row := Row{
		" ID ":           float64(7),
		"Name":           "Jamie Doe",
		"NickName":       " Jay ",
		"role":           "att",
		"Rating":         "12",
		"GK Willingness": "LOW",
		"wantsWith":      "3| 4 ||",
		"avoidsWith":     "",
		"attributes":     `{"pace":"high","grit":"bogus"}`,
	}

	p, ok := ParseRow(row, 0)
	require.True(t, ok)
	require.Equal(t, "7", p.ID)
	require.Equal(t, "Jay", p.Name)
	require.Equal(t, "Jamie Doe", p.RealName)
	require.Equal(t, teams.RoleATT, p.Role)
	require.Equal(t, MaxRating, p.Rating)
	require.Equal(t, teams.WillingLow, p.GKWillingness)
	require.Equal(t, []string{"3", "4"}, p.Wants)
	require.Empty(t, p.Avoids)
	require.Equal(t, teams.LevelHigh, p.Attributes.Pace)
	require.Equal(t, teams.LevelMid, p.Attributes.Grit)
	require.Equal(t, teams.LevelMid, p.Attributes.Shooting)
}

func TestParseRowDefaults(t *testing.T) {
	p, ok := ParseRow(Row{"nickname": "Sam", "role": "keeper", "rating": "abc", "attributes": "{not json"}, 4)
	require.True(t, ok)
	require.Equal(t, "5", p.ID)
	require.Equal(t, teams.RoleFLEX, p.Role)
	require.Equal(t, DefaultRating, p.Rating)
	require.Equal(t, teams.WillingNo, p.GKWillingness)
	require.Equal(t, teams.LevelMid, p.Attributes.Vision)

	p, ok = ParseRow(Row{"nickname": "Low", "rating": "0"}, 0)
	require.True(t, ok)
	require.Equal(t, MinRating, p.Rating)
}

func TestParseRowsSkipsUnknown(t *testing.T) {
	rows := []Row{
		{"nickname": "Ann"},
		{"nickname": "unknown"},
		{"nickname": "  "},
		{"name": "No Nick"},
		{"nickname": "Bob", "attributes": map[string]any{"stamina": "low"}},
	}
	players, skipped := ParseRows(rows)
	require.Equal(t, 3, skipped)
	require.Len(t, players, 2)
	require.Equal(t, "1", players[0].ID)
	require.Equal(t, "5", players[1].ID)
	require.Equal(t, teams.LevelLow, players[1].Attributes.Stamina)
}

func TestEncodeRowRoundTrip(t *testing.T) {
	in := teams.Player{
		ID:            "12",
		Name:          "Kit",
		RealName:      "Kit Marlow",
		Role:          teams.RoleDEF,
		Rating:        8,
		GKWillingness: teams.WillingYes,
		Wants:         []string{"1", "2"},
		Avoids:        []string{},
	}
	in.Attributes.Defense = teams.LevelHigh

	row := EncodeRow(in)
	require.Equal(t, "1|2", row[ColWantsWith])
	require.Contains(t, row[ColAttributes], `"defense":"high"`)
	require.Contains(t, row[ColAttributes], `"pace":"mid"`)

	out, ok := ParseRow(row, 0)
	require.True(t, ok)
	want := Normalize(in)
	if diff := cmp.Diff(want, out); diff != "" {
		t.Fatalf("round trip mismatch (-want +got):\n%s", diff)
	}
}

func TestNormalize(t *testing.T) {
	p := Normalize(teams.Player{ID: " 3 ", Name: "Max", Role: "mid", Rating: 0, Wants: []string{" 1 ", ""}})
	require.Equal(t, "3", p.ID)
	require.Equal(t, teams.RoleMID, p.Role)
	require.Equal(t, DefaultRating, p.Rating)
	require.Equal(t, teams.WillingNo, p.GKWillingness)
	require.Equal(t, []string{"1"}, p.Wants)
	require.Equal(t, []string{}, p.Avoids)
	require.Equal(t, teams.LevelMid, p.Attributes.Stamina)

	require.Equal(t, MaxRating, Normalize(teams.Player{Rating: 40}).Rating)
	require.Equal(t, MinRating, Normalize(teams.Player{Rating: -2}).Rating)
}

func TestSuggestedRating(t *testing.T) {
	var mid teams.Attributes
	require.InDelta(t, 5.51, SuggestedRatingFloat(mid), 1e-9)
	require.Equal(t, 6, SuggestedRating(mid))

	var high, low teams.Attributes
	for _, attr := range teams.AllAttributes {
		high.Set(attr, teams.LevelHigh)
		low.Set(attr, teams.LevelLow)
	}
	require.InDelta(t, 8.07, SuggestedRatingFloat(high), 1e-9)
	require.Equal(t, 8, SuggestedRating(high))
	require.InDelta(t, 2.95, SuggestedRatingFloat(low), 1e-9)
	require.Equal(t, 3, SuggestedRating(low))

	var mixed teams.Attributes
	mixed.Vision = teams.LevelHigh
	mixed.Pace = teams.LevelLow
	require.InDelta(t, 5.65, SuggestedRatingFloat(mixed), 1e-9)
}

func TestFormatFor(t *testing.T) {
	for path, want := range map[string]Format{
		"roster.yaml": FormatYAML,
		"a/b.YML":     FormatYAML,
		"x.json":      FormatJSON,
		"sheet.csv":   FormatCSV,
	} {
		got, err := FormatFor(path)
		require.NoError(t, err)
		require.Equal(t, want, got)
	}
	_, err := FormatFor("roster.txt")
	require.ErrorIs(t, err, ErrUnknownFormat)
}

func TestDecodeYAML(t *testing.T) {
	doc := `
owner: "2"
players:
  - id: "1"
    name: Ann
    role: gk
    rating: 7
    gkWillingness: yes
    attributes:
      pace: high
  - id: "2"
    name: Bob
    wantsWith: ["1"]
`
	f, err := Decode(strings.NewReader(doc), FormatYAML)
	require.NoError(t, err)
	require.Equal(t, "2", f.Owner)
	require.Len(t, f.Players, 2)
	require.Equal(t, teams.RoleGK, f.Players[0].Role)
	require.Equal(t, teams.WillingYes, f.Players[0].GKWillingness)
	require.Equal(t, teams.LevelHigh, f.Players[0].Attributes.Pace)
	require.Equal(t, teams.RoleFLEX, f.Players[1].Role)
	require.Equal(t, DefaultRating, f.Players[1].Rating)
	require.Equal(t, []string{"1"}, f.Players[1].Wants)
}

func TestDecodeJSONList(t *testing.T) {
	f, err := Decode(strings.NewReader(`[{"id":"9","name":"Cy","role":"DEF","rating":4}]`), FormatJSON)
	require.NoError(t, err)
	require.Len(t, f.Players, 1)
	require.Equal(t, teams.RoleDEF, f.Players[0].Role)

	_, err = Decode(strings.NewReader(`{"players": 3}`), FormatJSON)
	require.Error(t, err)
}

func TestCSVRoundTrip(t *testing.T) {
	players := []teams.Player{
		Normalize(teams.Player{ID: "1", Name: "Ann", Role: teams.RoleGK, Rating: 6, Wants: []string{"2"}}),
		Normalize(teams.Player{ID: "2", Name: "Bob, Jr.", Role: teams.RoleATT, Rating: 9, Avoids: []string{"1"}}),
	}

	var buf bytes.Buffer
	require.NoError(t, WriteCSV(&buf, players))

	path := filepath.Join(t.TempDir(), "roster.csv")
	require.NoError(t, os.WriteFile(path, buf.Bytes(), 0o600))

	f, err := LoadFile(path)
	require.NoError(t, err)
	if diff := cmp.Diff(players, f.Players); diff != "" {
		t.Fatalf("csv round trip mismatch (-want +got):\n%s", diff)
	}
}

func TestLoadFileErrors(t *testing.T) {
	_, err := LoadFile(filepath.Join(t.TempDir(), "missing.yaml"))
	require.ErrorIs(t, err, os.ErrNotExist)

	_, err = LoadFile("roster.toml")
	require.ErrorIs(t, err, ErrUnknownFormat)
}

func TestImportResult(t *testing.T) {
	var total ImportResult
	total.Add(ImportResult{PlayersUpserted: 3, PlayersSkipped: 1})
	other := ImportResult{PlayersUpserted: 2, MatchesRequeued: 1}
	other.AddErrorf("player %s: %s", "7", "boom")
	total.Add(other)

	require.Equal(t, []string{"player 7: boom"}, total.Errors)
	require.Equal(t, "players=5 skipped=1 matches_requeued=1 errors=1", total.Summary())
}

func TestCheckIDs(t *testing.T) {
	ids := []string{"1", "2", "3", "4", "5", "6", "7", "8", "9", "10"}
	require.NoError(t, CheckIDs(ids))

	require.ErrorIs(t, CheckIDs(ids[:9]), teams.ErrRosterSize)

	dup := append([]string(nil), ids...)
	dup[9] = " 1 "
	require.ErrorIs(t, CheckIDs(dup), ErrDuplicateID)

	dup[9] = ""
	require.ErrorIs(t, CheckIDs(dup), ErrDuplicateID)

	players := make([]teams.Player, len(ids))
	for i, id := range ids {
		players[i] = teams.Player{ID: id}
	}
	require.NoError(t, CheckPlayers(players))
}
