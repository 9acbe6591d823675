package mission

import (
	"fmt"
	"slices"
	"strings"
)

// GuardResult represents the outcome of a guard evaluation.
type GuardResult struct {
	Allowed bool
	Reason  string // Human-readable reason (populated when not allowed)
}

// Error returns the guard result as an error if not allowed, nil otherwise.
func (r GuardResult) Error() error {
	if r.Allowed {
		return nil
	}
	return fmt.Errorf("%s", r.Reason)
}

// MissionContext provides the state a caller checks before changing a mission.
type MissionContext struct {
	VisitID     string
	MissionType Type
	VisitOpen   bool
	Completed   bool
}

// FinishContext provides context for mission finish guards.
type FinishContext struct {
	MissionContext
	HasValidOutcome bool
	Strict          bool // reject invalid outcomes instead of awarding them
}

// CanAnswerMission evaluates whether a mission's answer may be changed.
// Rules:
// - Visit must be open
// - Completed missions keep the answer they were finished with
func CanAnswerMission(ctx MissionContext) GuardResult {
	if !ctx.VisitOpen {
		return GuardResult{
			Allowed: false,
			Reason:  fmt.Sprintf("visit %s is no longer open", ctx.VisitID),
		}
	}
	if ctx.Completed {
		return GuardResult{
			Allowed: false,
			Reason:  fmt.Sprintf("mission %s of visit %s is already completed", ctx.MissionType, ctx.VisitID),
		}
	}
	return GuardResult{Allowed: true}
}

// CanToggleMission evaluates whether a mission may be started or paused.
// Rule: Visit must be open. Toggling a completed mission is a no-op, not an error.
func CanToggleMission(ctx MissionContext) GuardResult {
	if !ctx.VisitOpen {
		return GuardResult{
			Allowed: false,
			Reason:  fmt.Sprintf("visit %s is no longer open", ctx.VisitID),
		}
	}
	return GuardResult{Allowed: true}
}

// CanFinishMission evaluates whether a mission may be finished.
// Rules:
// - Visit must be open
// - In strict mode the outcome must be valid
// Finishing an already completed mission is allowed (no-op).
func CanFinishMission(ctx FinishContext) GuardResult {
	if !ctx.VisitOpen {
		return GuardResult{
			Allowed: false,
			Reason:  fmt.Sprintf("visit %s is no longer open", ctx.VisitID),
		}
	}
	if ctx.Completed {
		return GuardResult{Allowed: true}
	}
	if ctx.Strict && !ctx.HasValidOutcome {
		return GuardResult{
			Allowed: false,
			Reason:  fmt.Sprintf("mission %s of visit %s has no valid outcome yet", ctx.MissionType, ctx.VisitID),
		}
	}
	return GuardResult{Allowed: true}
}

// CheckAnswer evaluates whether an answer only uses offered choices.
// The engine tolerates any answer; this is input validation for callers
// collecting answers from people.
func CheckAnswer(a Answer) GuardResult {
	switch v := a.(type) {
	case HasOptionsAnswer:
		if v.First != "" && !slices.Contains(HasOptionsFirstAnswers, v.First) {
			return invalidChoice("first", v.First, HasOptionsFirstAnswers)
		}
		if v.Second != "" && !slices.Contains(HasOptionsSecondAnswers, v.Second) {
			return invalidChoice("second", v.Second, HasOptionsSecondAnswers)
		}
	case WantVeganAnswer:
		for exp := range v.Builtin {
			if !slices.Contains(BuiltinExpressions, exp) {
				return GuardResult{
					Allowed: false,
					Reason:  fmt.Sprintf("%q is not a builtin expression, add it as custom instead", exp),
				}
			}
		}
	case RateOptionsAnswer:
		for _, id := range sortedKeys(v) {
			if v[id] < 0 || v[id] > MaxRating {
				return GuardResult{
					Allowed: false,
					Reason:  fmt.Sprintf("rating %d for product %s outside 0..%d", v[id], id, MaxRating),
				}
			}
		}
	case OfferQualityAnswer:
		if v.Rating != nil && (*v.Rating < 1 || *v.Rating > MaxRating) {
			return GuardResult{
				Allowed: false,
				Reason:  fmt.Sprintf("offer quality %d outside 1..%d", *v.Rating, MaxRating),
			}
		}
	case EffortValueAnswer:
		if v != "" && !slices.Contains(EffortValueAnswers, string(v)) {
			return invalidChoice("effort value", string(v), EffortValueAnswers)
		}
	}
	return GuardResult{Allowed: true}
}

func invalidChoice(field, value string, choices []string) GuardResult {
	return GuardResult{
		Allowed: false,
		Reason:  fmt.Sprintf("%s answer %q must be one of: %s", field, value, strings.Join(choices, ", ")),
	}
}
