package teams

// stageRunner evaluates the shared partition list under one rule set at a
// time. Failure counters accumulate across states for the fallback report.
type stageRunner struct {
	players  []Player
	subsets  [][]int
	owner    string // empty when owner bias does not apply
	failures failureStats
}

func newStageRunner(players []Player, ownerID string) *stageRunner {
	r := &stageRunner{
		players:  players,
		subsets:  combinations(len(players), TeamSize),
		failures: failureStats{},
	}
	if ownerID != "" && inSide(players, ownerID) {
		r.owner = ownerID
	}
	return r
}

// nextStage is the orchestrator's transition on an empty stage.
func nextStage(s Stage) Stage {
	for i, st := range Stages {
		if st == s && i+1 < len(Stages) {
			return Stages[i+1]
		}
	}
	return StageFallback
}

// run returns the ranked canonical candidates of one stage and the failures
// recorded while producing them.
func (r *stageRunner) run(stage Stage) ([]*candidate, failureStats) {
	rules := stageRules[stage]
	rejected := failureStats{}
	set := newCandidateSet()

	for _, subset := range r.subsets {
		sideA, sideB := split(r.players, subset)
		if reason := r.admit(sideA, sideB, rules, rejected); reason != "" {
			continue
		}

		team1, team2, canonicalKey, displayKey := canonicalize(sideA, sideB)
		sc := scorePartition(team1, team2)
		set.offer(&candidate{
			scored:       sc,
			social:       socialFor(team1, team2),
			score:        sc.breakdown.Total,
			ratingDiff:   sc.breakdown.RatingDiff,
			canonicalKey: canonicalKey,
			displayKey:   displayKey,
		})
	}

	for reason, n := range rejected {
		r.failures[reason] += n
	}
	return set.ranked(), rejected
}

// admit applies rules to a raw partition. It returns the first failing check
// and records per-side failures for both sides.
func (r *stageRunner) admit(sideA, sideB []Player, rules ruleSet, rejected failureStats) FailureReason {
	reasonA := validateSide(sideA, rules.structural)
	reasonB := validateSide(sideB, rules.structural)
	if reasonA != "" || reasonB != "" {
		if reasonA != "" {
			rejected[reasonA]++
		}
		if reasonB != "" {
			rejected[reasonB]++
		}
		if reasonA != "" {
			return reasonA
		}
		return reasonB
	}

	if rules.structural && !roleSplitOK(sideA, sideB, r.players) {
		rejected[FailRoleSplit]++
		return FailRoleSplit
	}

	if reason := validateWants(sideA, sideB, rules.wants); reason != "" {
		rejected[reason]++
		return reason
	}

	if rules.ownerBias && r.owner != "" {
		if ownerBiasViolated(inSide(sideA, r.owner), sumRating(sideA), sumRating(sideB)) {
			rejected[FailOwnerBias]++
			return FailOwnerBias
		}
	}
	return ""
}

// resultFrom packages the top two candidates of a successful stage.
func resultFrom(stage Stage, ranked []*candidate) *Result {
	res := &Result{
		Primary:         ranked[0].toOption(stage),
		SecondaryReason: noSecondaryOptionReason,
	}
	if len(ranked) > 1 {
		res.Secondary = ranked[1].toOption(stage)
		res.SecondaryReason = secondaryOptionReason
		res.Comparison = compareOptions(res.Primary, res.Secondary, secondaryOptionReason)
	}
	return res
}

func sumRating(side []Player) int {
	n := 0
	for _, p := range side {
		n += p.Rating
	}
	return n
}
