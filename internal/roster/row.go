// Package roster converts external roster records (spreadsheet rows, CSV,
// YAML and JSON files) into teams.Player values and back.
//
// Parsing is lenient: unknown roles become FLEX, unknown goalkeeper
// willingness becomes "no", ratings are clamped to 1-10 and malformed
// attribute payloads fall back to all-mid. Rows without a usable nickname
// are skipped rather than rejected.
package roster

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/albapepper/fivea/internal/teams"
)

const (
	MinRating     = 1
	MaxRating     = 10
	DefaultRating = 5

	listSeparator = "|"
)

// Column names as written to the sheet. Lookups are case and space
// insensitive.
const (
	ColID            = "id"
	ColName          = "name"
	ColNickname      = "nickname"
	ColRole          = "role"
	ColRating        = "rating"
	ColAvatar        = "avatar"
	ColGKWillingness = "gkWillingness"
	ColWantsWith     = "wantsWith"
	ColAvoidsWith    = "avoidsWith"
	ColAttributes    = "attributes"
)

// Columns is the sheet column order used for CSV export.
var Columns = []string{
	ColID, ColName, ColNickname, ColRole, ColRating, ColAvatar,
	ColGKWillingness, ColWantsWith, ColAvoidsWith, ColAttributes,
}

// Row is one raw record keyed by column header. Values are strings or, for
// JSON sources, numbers and nested objects.
type Row map[string]any

func normalizeKey(key string) string {
	return strings.ToLower(strings.Join(strings.Fields(key), ""))
}

// normalize rekeys r so lookups ignore case and whitespace.
func (r Row) normalize() Row {
	out := make(Row, len(r))
	for k, v := range r {
		out[normalizeKey(k)] = v
	}
	return out
}

func (r Row) str(col string) string {
	v, ok := r[normalizeKey(col)]
	if !ok || v == nil {
		return ""
	}
	switch t := v.(type) {
	case string:
		return strings.TrimSpace(t)
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	default:
		return strings.TrimSpace(fmt.Sprint(t))
	}
}

// ParseRow converts one record. index is the zero-based row position, used
// as the id fallback (index+1). ok is false for rows that should be skipped.
func ParseRow(raw Row, index int) (p teams.Player, ok bool) {
	r := raw.normalize()

	nickname := r.str(ColNickname)
	if nickname == "" || strings.EqualFold(nickname, "unknown") {
		return teams.Player{}, false
	}

	id := r.str(ColID)
	if id == "" {
		id = strconv.Itoa(index + 1)
	}

	return teams.Player{
		ID:            id,
		Name:          nickname,
		RealName:      r.str(ColName),
		Role:          ParseRole(r.str(ColRole)),
		Rating:        ParseRating(r.str(ColRating)),
		Avatar:        r.str(ColAvatar),
		GKWillingness: ParseWillingness(r.str(ColGKWillingness)),
		Wants:         ParseList(r.str(ColWantsWith)),
		Avoids:        ParseList(r.str(ColAvoidsWith)),
		Attributes:    parseAttributes(r[normalizeKey(ColAttributes)]),
	}, true
}

// ParseRows converts every record, returning the players and the number of
// skipped rows.
func ParseRows(rows []Row) ([]teams.Player, int) {
	players := make([]teams.Player, 0, len(rows))
	skipped := 0
	for i, row := range rows {
		p, ok := ParseRow(row, i)
		if !ok {
			skipped++
			continue
		}
		players = append(players, p)
	}
	return players, skipped
}

// EncodeRow is the inverse of ParseRow.
func EncodeRow(p teams.Player) Row {
	attrs, _ := json.Marshal(normalizeAttributes(p.Attributes))
	return Row{
		ColID:            p.ID,
		ColName:          p.RealName,
		ColNickname:      p.Name,
		ColRole:          string(p.Role),
		ColRating:        p.Rating,
		ColAvatar:        p.Avatar,
		ColGKWillingness: string(p.GKWillingness),
		ColWantsWith:     strings.Join(p.Wants, listSeparator),
		ColAvoidsWith:    strings.Join(p.Avoids, listSeparator),
		ColAttributes:    string(attrs),
	}
}

// Normalize applies the same defaults ParseRow applies, for players that
// arrive already structured (YAML, JSON, API bodies).
func Normalize(p teams.Player) teams.Player {
	p.ID = strings.TrimSpace(p.ID)
	p.Name = strings.TrimSpace(p.Name)
	p.Role = ParseRole(string(p.Role))
	if p.Rating == 0 {
		p.Rating = DefaultRating
	}
	p.Rating = clampRating(p.Rating)
	p.GKWillingness = ParseWillingness(string(p.GKWillingness))
	p.Attributes = normalizeAttributes(p.Attributes)
	p.Wants = cleanList(p.Wants)
	p.Avoids = cleanList(p.Avoids)
	return p
}

// ParseRole returns FLEX for anything that is not a known role.
func ParseRole(s string) teams.Role {
	role := teams.Role(strings.ToUpper(strings.TrimSpace(s)))
	for _, r := range teams.Roles {
		if r == role {
			return role
		}
	}
	return teams.RoleFLEX
}

// ParseWillingness returns "no" for anything that is not a known value.
func ParseWillingness(s string) teams.Willingness {
	switch w := teams.Willingness(strings.ToLower(strings.TrimSpace(s))); w {
	case teams.WillingYes, teams.WillingLow, teams.WillingNo:
		return w
	default:
		return teams.WillingNo
	}
}

// ParseRating reads the integer part of s and clamps it to 1-10. Empty or
// non-numeric input yields DefaultRating.
func ParseRating(s string) int {
	if s == "" {
		return DefaultRating
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(f) {
		return DefaultRating
	}
	return clampRating(int(math.Trunc(f)))
}

func clampRating(n int) int {
	return max(MinRating, min(MaxRating, n))
}

// ParseList splits a pipe-delimited id list, dropping blanks.
func ParseList(s string) []string {
	if strings.TrimSpace(s) == "" {
		return []string{}
	}
	return cleanList(strings.Split(s, listSeparator))
}

func cleanList(ids []string) []string {
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		if id = strings.TrimSpace(id); id != "" {
			out = append(out, id)
		}
	}
	return out
}

func isLevel(l teams.Level) bool {
	return l == teams.LevelLow || l == teams.LevelMid || l == teams.LevelHigh
}

// normalizeAttributes writes "mid" for every missing or invalid grade.
func normalizeAttributes(a teams.Attributes) teams.Attributes {
	var out teams.Attributes
	for _, attr := range teams.AllAttributes {
		out.Set(attr, a.Get(attr))
	}
	return out
}

// parseAttributes accepts a JSON string or an already decoded object.
func parseAttributes(v any) teams.Attributes {
	raw := map[string]any{}
	switch t := v.(type) {
	case string:
		if strings.TrimSpace(t) != "" {
			if err := json.Unmarshal([]byte(t), &raw); err != nil {
				raw = map[string]any{}
			}
		}
	case map[string]any:
		raw = t
	}

	var out teams.Attributes
	for _, attr := range teams.AllAttributes {
		level := teams.LevelMid
		if s, ok := raw[string(attr)].(string); ok && isLevel(teams.Level(s)) {
			level = teams.Level(s)
		}
		out.Set(attr, level)
	}
	return out
}
