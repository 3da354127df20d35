package engine

// All scoring, priority and tolerance constants for the matching pipeline
// live here. Components never hard-code these inline; keeping one table is
// what makes the confidence-monotonicity guarantee checkable.
const (
	// Similarity scores (0–100).
	scoreExact          = 100 // identical after normalization
	scoreAliasExpansion = 92  // identical only after abbreviation expansion
	scoreSingleWordLong = 65  // one shared token of length >= 7
	scoreSingleWord     = 55  // one shared token of length >= 5

	// Containment band: when one expanded string fully contains the other
	// and the length ratio exceeds containMinRatio, the score is
	// base + ratio*containSpan. The direction where the shorter string is
	// contained in the longer scores from the higher base.
	containMinRatio  = 0.4
	containBaseFwd   = 70
	containBaseRev   = 62
	containSpan      = 20
	tokenOverlapMin  = 0.5 // token-overlap ratio floor
	tokenOverlapBase = 50
	tokenOverlapSpan = 35
	tokenExactBonus  = 5 // exact token matches dominate near-matches

	// Edit-distance fallback, for short strings only.
	editFallbackMaxLen = 20
	editFallbackFloor  = 0.7
	editFallbackBase   = 40
	editFallbackSpan   = 20

	// Alias map priorities.
	priExactName    = 100
	priExpandedName = 98
	priStaticAlias  = 80
	priStaticExp    = 78
	priFieldWord    = 40

	// Crowd alias priority: min(crowdCap, crowdBase+floor((uses-3)*1.5)).
	crowdBase = 60
	crowdCap  = 90

	// Resolver thresholds.
	fuzzyFloor        = 55 // minimum fuzzy score kept as a candidate
	directMatchFloor  = 75 // confidence treated as a direct match
	mergeTolerance    = 5  // max spread between merged direct candidates
	conflictTolerance = 5  // max gap that flags a conflict

	// Hand-tuned (see the waterfall threshold precedent): penalty applied
	// to a fuzzy candidate whose field category disagrees with the
	// detected category, unless the field is cross-category. Tunable, not
	// a law.
	categoryMismatchPenalty = 25
)
