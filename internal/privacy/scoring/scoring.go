// Package scoring computes heuristic privacy risk scores for mobile apps
// from their declared permissions, store category, and observed network
// usage.
//
// The scorer is pure and deterministic: the same inputs always yield the
// same result, unknown taxonomy values degrade to neutral defaults, and no
// input can make it fail. A user-facing check must never be blocked by an
// unrecognized permission string.
package scoring

import (
	"fmt"
	"strings"
)

const (
	baseScore = 100

	// permissionPenaltyCap prevents an app with a long permission list from
	// dominating the score before network and category penalties apply.
	permissionPenaltyCap = 60

	// maxMediumRiskListed bounds the explanation text, not the score.
	maxMediumRiskListed = 5

	keepThreshold   = 70
	reviewThreshold = 40
	lowRiskScore    = 80
)

const androidPermissionPrefix = "android.permission."

// Result is the outcome of scoring one app.
type Result struct {
	Score       int
	Explanation string
	Action      string
}

// Actions returned in Result.Action.
const (
	ActionKeep              = "KEEP"
	ActionReview            = "REVIEW"
	ActionConsiderUninstall = "CONSIDER_UNINSTALL"
)

// Scorer holds the immutable risk tables. Construct once at startup and
// share across requests; Score is safe for concurrent use.
type Scorer struct {
	weights    map[string]int
	categories map[string]CategoryRule
}

// New builds a Scorer from the default tables.
func New() *Scorer {
	return NewWithTables(DefaultWeights(), DefaultCategoryRules())
}

// NewWithTables builds a Scorer from explicit tables. The maps must not be
// mutated after construction.
func NewWithTables(weights map[string]int, categories map[string]CategoryRule) *Scorer {
	return &Scorer{weights: weights, categories: categories}
}

// Score calculates the privacy score for an app.
//
// The score starts at 100 and penalties are deducted for risky permissions
// (capped), network activity, and category risk; trusted categories earn a
// discount. The result is clamped to [0,100]. Penalty sources are computed
// independently, so summation order never affects the result.
func (s *Scorer) Score(permissions []string, category string, networkUsageLevel string) Result {
	permissionPenalty, highRisk, mediumRisk := s.permissionPenalty(permissions)
	networkPenalty := s.networkPenalty(networkUsageLevel)
	categoryPenalty, trustedCategory := s.categoryPenalty(category)

	totalPenalty := permissionPenalty + networkPenalty + categoryPenalty
	finalScore := clamp(baseScore-totalPenalty, 0, baseScore)

	explanation := buildExplanation(explanationInput{
		highRisk:        highRisk,
		mediumRisk:      mediumRisk,
		highNetwork:     strings.ToUpper(networkUsageLevel) == "HIGH",
		trustedCategory: trustedCategory,
		category:        category,
		categoryPenalty: categoryPenalty,
		finalScore:      finalScore,
		noPermissions:   len(permissions) == 0,
	})

	return Result{
		Score:       finalScore,
		Explanation: explanation,
		Action:      actionFor(finalScore),
	}
}

// permissionPenalty sums the weights of known permissions, capped, and
// classifies known permissions for the explanation text. Unknown
// permissions contribute nothing.
func (s *Scorer) permissionPenalty(permissions []string) (penalty int, highRisk, mediumRisk []string) {
	for _, perm := range permissions {
		weight, known := s.weights[perm]
		if !known {
			continue
		}
		penalty += weight
		switch {
		case weight >= highRiskThreshold:
			highRisk = append(highRisk, simplifyPermissionName(perm))
		case weight >= mediumRiskThreshold:
			mediumRisk = append(mediumRisk, simplifyPermissionName(perm))
		}
	}
	if penalty > permissionPenaltyCap {
		penalty = permissionPenaltyCap
	}
	return penalty, highRisk, mediumRisk
}

func (s *Scorer) networkPenalty(level string) int {
	if penalty, ok := networkPenalties[strings.ToUpper(level)]; ok {
		return penalty
	}
	return unknownNetworkPenalty
}

// categoryPenalty looks up the signed category adjustment. Unmatched
// categories are neutral.
func (s *Scorer) categoryPenalty(category string) (penalty int, trusted bool) {
	rule, ok := s.categories[normalizeCategory(category)]
	if !ok {
		return 0, false
	}
	return rule.BasePenalty, rule.BasePenalty < 0
}

// normalizeCategory folds a client-supplied category into table keys:
// lowercase with spaces and ampersands replaced by underscores.
func normalizeCategory(category string) string {
	c := strings.ToLower(category)
	c = strings.ReplaceAll(c, " ", "_")
	c = strings.ReplaceAll(c, "&", "_")
	return c
}

type explanationInput struct {
	highRisk        []string
	mediumRisk      []string
	highNetwork     bool
	trustedCategory bool
	category        string
	categoryPenalty int
	finalScore      int
	noPermissions   bool
}

// buildExplanation concatenates an optional Concerns clause and an optional
// Positives clause with " | ". When neither applies the app gets a neutral
// sentence.
func buildExplanation(in explanationInput) string {
	var concerns, positives []string

	if len(in.highRisk) > 0 {
		concerns = append(concerns, "High-risk permissions: "+strings.Join(in.highRisk, ", "))
	}
	if len(in.mediumRisk) > 0 {
		listed := in.mediumRisk
		if len(listed) > maxMediumRiskListed {
			listed = listed[:maxMediumRiskListed]
		}
		concerns = append(concerns, "Sensitive permissions: "+strings.Join(listed, ", "))
	}
	if in.highNetwork {
		concerns = append(concerns, "High network activity may indicate data sharing")
	}

	if in.trustedCategory {
		positives = append(positives, fmt.Sprintf("Trusted category (%s): +%d points", in.category, -in.categoryPenalty))
	}
	if in.finalScore >= lowRiskScore {
		positives = append(positives, "Low privacy risk overall")
	}
	if in.noPermissions {
		positives = append(positives, "No dangerous permissions requested")
	}

	var parts []string
	if len(concerns) > 0 {
		parts = append(parts, "Concerns: "+strings.Join(concerns, "; "))
	}
	if len(positives) > 0 {
		parts = append(parts, "Positives: "+strings.Join(positives, "; "))
	}
	if len(parts) == 0 {
		return "This app has moderate privacy characteristics."
	}
	return strings.Join(parts, " | ")
}

func actionFor(score int) string {
	switch {
	case score >= keepThreshold:
		return ActionKeep
	case score >= reviewThreshold:
		return ActionReview
	default:
		return ActionConsiderUninstall
	}
}

// simplifyPermissionName converts a platform permission identifier into a
// human-readable name: the namespace prefix is stripped, underscores become
// spaces, and each word is title-cased.
func simplifyPermissionName(permission string) string {
	simple := strings.TrimPrefix(permission, androidPermissionPrefix)
	words := strings.Split(strings.ReplaceAll(simple, "_", " "), " ")
	for i, word := range words {
		if word == "" {
			continue
		}
		words[i] = strings.ToUpper(word[:1]) + strings.ToLower(word[1:])
	}
	return strings.Join(words, " ")
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
