package teams

import (
	"fmt"
	"math"
	"sort"
	"strings"
)

// The report is parsed by presentation layers: keep the bracketed section
// headers, the T1/T2 tokens and the "[ROLE] name" lineup tokens stable.

var rolePriority = map[Role]int{
	RoleGK:   0,
	RoleFLEX: 1,
	RoleDEF:  2,
	RoleMID:  3,
	RoleATT:  4,
}

var attributeLabels = map[Attribute]string{
	AttrShooting: "Shooting",
	AttrControl:  "Control",
	AttrPassing:  "Passing",
	AttrDefense:  "Defense",
	AttrPace:     "Pace",
	AttrVision:   "Vision",
	AttrGrit:     "Grit",
	AttrStamina:  "Stamina",
}

func favored(v1, v2 float64) string {
	switch {
	case v1 > v2:
		return "T1"
	case v2 > v1:
		return "T2"
	default:
		return "Even"
	}
}

func formatAdjustment(v float64) string {
	if v > 0 {
		return "+" + formatNumber(v)
	}
	return formatNumber(v)
}

func formatNumber(v float64) string {
	if v == math.Trunc(v) {
		return fmt.Sprintf("%d", int(v))
	}
	return fmt.Sprintf("%.1f", v)
}

func scoreLabel(score float64) string {
	switch {
	case score >= 70:
		return "highly balanced"
	case score >= 40:
		return "balanced"
	case score >= 0:
		return "playable but imbalanced"
	default:
		return "imbalanced"
	}
}

// formatLineup renders "[ROLE] name" tokens ordered by role, then name.
func formatLineup(side []Player) string {
	sorted := append([]Player(nil), side...)
	sort.SliceStable(sorted, func(i, j int) bool {
		pi, pj := rolePriority[sorted[i].Role], rolePriority[sorted[j].Role]
		if pi != pj {
			return pi < pj
		}
		return sorted[i].Name < sorted[j].Name
	})
	tokens := make([]string, len(sorted))
	for i, p := range sorted {
		tokens[i] = fmt.Sprintf("[%s] %s", p.Role, p.Name)
	}
	return strings.Join(tokens, " ")
}

func writeGKSection(sb *strings.Builder, t1, t2 gkProfile) {
	fmt.Fprintf(sb, "- Rule when no GK role: each team needs >= %d capable keepers (yes + low).\n", requiredCapableWhenNoGK)
	fmt.Fprintf(sb, "- T1: GK roles=%d, yes=%d, low=%d, no=%d, capable=%d\n", t1.gkRoles, t1.yes, t1.low, t1.no, t1.capable())
	fmt.Fprintf(sb, "- T2: GK roles=%d, yes=%d, low=%d, no=%d, capable=%d\n", t2.gkRoles, t2.yes, t2.low, t2.no, t2.capable())
}

func writeAttackSection(sb *strings.Builder, a attackSpread) {
	sb.WriteString("[Attack]\n")
	fmt.Fprintf(sb, "- ATT count: T1=%d, T2=%d, diff %d, adjustment %s.\n",
		a.att1, a.att2, absInt(a.att1-a.att2), formatAdjustment(a.adjustment))
	if a.heavyRoster && a.heavySide != "Even" {
		cover := "no"
		if a.heavyHasDef {
			cover = "yes"
		}
		fmt.Fprintf(sb, "- Attacker-heavy roster: heavier side %s, defender cover %s.\n", a.heavySide, cover)
	}
}

func writeLineupsAndSocial(sb *strings.Builder, team1, team2 []Player, social socialSatisfaction) {
	sb.WriteString("[Lineups]\n")
	fmt.Fprintf(sb, "- T1: %s\n", formatLineup(team1))
	fmt.Fprintf(sb, "- T2: %s\n", formatLineup(team2))
	sb.WriteString("\n[Social]\n")
	fmt.Fprintf(sb, "- Social Satisfaction: %d%% (Wants: %d/%d, Dislikes: %d/%d)\n",
		social.percentage(), social.wantsMet, social.wantsTotal, social.dislikesMet, social.dislikesTotal)
	fmt.Fprintf(sb, "- Met wants links: %s\n", metLinks(team1, team2, wantsLinks))
	fmt.Fprintf(sb, "- Met dislikes links: %s", metLinks(team1, team2, dislikeLinks))
}

// analysisReport renders the report for a ranked option.
func analysisReport(sc scored, stage Stage, social socialSatisfaction) string {
	b := sc.breakdown
	var sb strings.Builder

	fmt.Fprintf(&sb, "Analysis (Score: %d)\n\n", roundInt(b.Total))

	sb.WriteString("[Details]\n")
	fmt.Fprintf(&sb, "- Score formula: %s - rating(%dx10=%s) - attrs(%sx5=%s) - pace(%sx10=%s) - stamina(%sx8=%s) - defense(%sx5=%s) + gkPref(%s) + attack(%s) = %s.\n",
		formatNumber(balanceBase),
		b.RatingDiff, formatNumber(b.RatingPenalty),
		formatNumber(b.TotalAttrDiff), formatNumber(b.AttrPenalty),
		formatNumber(b.AttrDiffs[AttrPace]), formatNumber(b.PacePenalty),
		formatNumber(b.AttrDiffs[AttrStamina]), formatNumber(b.StaminaPenalty),
		formatNumber(b.AttrDiffs[AttrDefense]), formatNumber(b.DefensePenalty),
		formatAdjustment(b.GKAdjustment), formatAdjustment(b.AttackAdjustment),
		formatNumber(b.Total))
	fmt.Fprintf(&sb, "- Current score status: %d (%s).\n", roundInt(b.Total), scoreLabel(b.Total))
	fmt.Fprintf(&sb, "- Stage: %s.\n", stage)
	if stage == StageSocialHard {
		sb.WriteString("- FALLBACK USED: role caps, emergency GK and role split rules were dropped.\n")
	}
	sb.WriteString("- Favors marker: each balance line shows Favors: T1, T2, or Even.\n")

	sb.WriteString("\n[Balance]\n")
	fmt.Fprintf(&sb, "- Rating: T1 (%d) vs T2 (%d) -> Diff: %d -> Favors: %s\n",
		sc.stats1.rating, sc.stats2.rating, b.RatingDiff,
		favored(float64(sc.stats1.rating), float64(sc.stats2.rating)))
	for _, a := range AllAttributes {
		v1, v2 := sc.stats1.attrs[a], sc.stats2.attrs[a]
		fmt.Fprintf(&sb, "- %s: T1 (%.1f) vs T2 (%.1f) -> Diff: %.1f -> Favors: %s\n",
			attributeLabels[a], v1, v2, b.AttrDiffs[a], favored(v1, v2))
	}

	t1, t2 := profileGK(sc.team1), profileGK(sc.team2)
	sb.WriteString("\n[Emergency GK]\n")
	writeGKSection(&sb, t1, t2)
	if t1.emergencyOK() && t2.emergencyOK() {
		sb.WriteString("- Status: PASS (emergency GK condition satisfied).\n")
	} else {
		fmt.Fprintf(&sb, "- Status: FAIL (teams without GK role must have >= %d capable keepers).\n", requiredCapableWhenNoGK)
	}
	switch {
	case !sc.gk.applied:
		sb.WriteString("- Soft yes balance: not applied (both teams have a GK role).\n")
	case sc.gk.weakerTeam == "Even":
		fmt.Fprintf(&sb, "- Soft yes balance: yes diff %d, adjustment %s.\n",
			sc.gk.yesImbalance, formatAdjustment(sc.gk.adjustment))
	default:
		lowSupport := "no"
		if sc.gk.weakerHasLow {
			lowSupport = "yes"
		}
		fmt.Fprintf(&sb, "- Soft yes balance: yes diff %d, weaker side %s, low support %s, adjustment %s.\n",
			sc.gk.yesImbalance, sc.gk.weakerTeam, lowSupport, formatAdjustment(sc.gk.adjustment))
	}

	sb.WriteString("\n")
	writeAttackSection(&sb, sc.attack)

	sb.WriteString("\n")
	writeLineupsAndSocial(&sb, sc.team1, sc.team2, social)
	return sb.String()
}

// fallbackReport renders the report for the absolute fallback split,
// explaining which rules blocked every earlier stage.
func fallbackReport(sc scored, roster []Player, failures failureStats, social socialSatisfaction) string {
	var sb strings.Builder

	fmt.Fprintf(&sb, "Analysis (Score: %d)\n\n", roundInt(sc.breakdown.Total))

	sb.WriteString("[Details]\n")
	sb.WriteString("- FALLBACK USED: staged constraints could not be met.\n")
	fmt.Fprintf(&sb, "- Social Conflicts: %d%%\n", failures.pct(FailSocial))
	fmt.Fprintf(&sb, "- Role Issues: %d%%\n", failures.pct(FailRoles))
	fmt.Fprintf(&sb, "- Emergency GK Rule: %d%%\n", failures.pct(FailEmergencyGK))
	fmt.Fprintf(&sb, "- DEF/ATT Split Rule: %d%%\n", failures.pct(FailRoleSplit))
	fmt.Fprintf(&sb, "- Wants Strict Rule: %d%%\n", failures.pct(FailWantsStrict))
	fmt.Fprintf(&sb, "- Wants Mutual Rule: %d%%\n", failures.pct(FailWantsMutual))
	fmt.Fprintf(&sb, "- Owner Bias (Too strong): %d%%\n", failures.pct(FailOwnerBias))
	sb.WriteString("- Teams generated using Power Rating (Best Fit, ignoring constraints).\n")

	all := profileGK(roster)
	t1, t2 := profileGK(sc.team1), profileGK(sc.team2)
	sb.WriteString("\n[Emergency GK]\n")
	fmt.Fprintf(&sb, "- Selected GK willingness: yes=%d, low=%d, no=%d.\n", all.yes, all.low, all.no)
	writeGKSection(&sb, t1, t2)
	status := "FAIL"
	if t1.emergencyOK() && t2.emergencyOK() {
		status = "PASS"
	}
	fmt.Fprintf(&sb, "- Status in fallback split: %s\n", status)

	sb.WriteString("\n")
	writeAttackSection(&sb, sc.attack)

	sb.WriteString("\n")
	writeLineupsAndSocial(&sb, sc.team1, sc.team2, social)
	return sb.String()
}
