package mission

import "sort"

// Outcome is the canonical, submittable value derived from an Answer.
// A nil Outcome means "no answer yet".
type Outcome any

// Expression is one entry of a wantVegan outcome.
type Expression struct {
	Expression     string `json:"expression"`
	ExpressionType string `json:"expressionType"`
}

// Expression types.
const (
	ExpressionBuiltin = "builtin"
	ExpressionCustom  = "custom"
)

// ProductName names a product that may not exist in the catalogue yet.
type ProductName struct {
	Name string `json:"name"`
}

// ProductAvailability is one entry of a whatOptions outcome.
type ProductAvailability struct {
	Product ProductName `json:"product"`
	Info    string      `json:"info"`
}

// InfoAvailable marks a product reported by the participant as on offer.
const InfoAvailable = "available"

// ProductRef is one entry of a buyOptions outcome.
type ProductRef struct {
	Product string `json:"product"`
}

// ProductRating is one entry of a rateOptions outcome.
type ProductRating struct {
	Product string `json:"product"`
	Info    int    `json:"info"`
}

// Answer is the in-progress, mutable answer state of a mission. Each of the
// nine mission variants has its own Answer implementation; the set is closed.
type Answer interface {
	// Type returns the mission variant the answer belongs to.
	Type() Type

	// outcome computes the canonical outcome. Must be pure and return
	// values that share no memory with the answer.
	outcome() Outcome

	// valid reports whether the outcome may be submitted.
	valid(o Outcome) bool
}

// NewAnswer returns the initial answer for a mission type.
func NewAnswer(t Type) (Answer, error) {
	switch t {
	case TypeVisitBonus:
		return VisitBonusAnswer{}, nil
	case TypeHasOptions:
		return HasOptionsAnswer{}, nil
	case TypeWantVegan:
		return WantVeganAnswer{Builtin: map[string]bool{}}, nil
	case TypeWhatOptions:
		return WhatOptionsAnswer{}, nil
	case TypeBuyOptions:
		return BuyOptionsAnswer{}, nil
	case TypeGiveFeedback:
		return GiveFeedbackAnswer(""), nil
	case TypeRateOptions:
		return RateOptionsAnswer{}, nil
	case TypeOfferQuality:
		return OfferQualityAnswer{}, nil
	case TypeEffortValue:
		return EffortValueAnswer(""), nil
	}
	_, err := ParseType(string(t))
	return nil, err
}

// definedOutcome is the default validity rule.
func definedOutcome(o Outcome) bool {
	return o != nil
}

// VisitBonusAnswer is always answered: showing up is the outcome.
type VisitBonusAnswer struct{}

func (VisitBonusAnswer) Type() Type           { return TypeVisitBonus }
func (VisitBonusAnswer) outcome() Outcome     { return true }
func (VisitBonusAnswer) valid(o Outcome) bool { return definedOutcome(o) }

// HasOptionsAnswer is a two-stage choice. Second is only consulted when
// First is "theyDoNotKnow".
type HasOptionsAnswer struct {
	First  string `json:"first,omitempty" yaml:"first"`
	Second string `json:"second,omitempty" yaml:"second"`
}

func (HasOptionsAnswer) Type() Type { return TypeHasOptions }

func (a HasOptionsAnswer) outcome() Outcome {
	result := a.First
	if a.First == AnswerTheyDoNotKnow {
		result = a.Second
	}
	if result == "" {
		return nil
	}
	return result
}

func (HasOptionsAnswer) valid(o Outcome) bool { return definedOutcome(o) }

// WantVeganAnswer collects the expressions staff understood. Builtin maps a
// predefined expression to whether it was selected.
type WantVeganAnswer struct {
	Builtin map[string]bool `json:"builtin" yaml:"builtin"`
	Custom  []string        `json:"custom" yaml:"custom"`
}

func (WantVeganAnswer) Type() Type { return TypeWantVegan }

func (a WantVeganAnswer) outcome() Outcome {
	result := []Expression{}
	for _, exp := range selectedBuiltins(a.Builtin) {
		result = append(result, Expression{Expression: exp, ExpressionType: ExpressionBuiltin})
	}
	for _, exp := range a.Custom {
		result = append(result, Expression{Expression: exp, ExpressionType: ExpressionCustom})
	}
	return result
}

func (WantVeganAnswer) valid(o Outcome) bool {
	list, ok := o.([]Expression)
	return ok && len(list) > 0
}

// selectedBuiltins returns the selected keys, known expressions first in
// their canonical order, unknown keys after them sorted lexically.
func selectedBuiltins(builtin map[string]bool) []string {
	var selected []string
	known := make(map[string]bool, len(BuiltinExpressions))
	for _, exp := range BuiltinExpressions {
		known[exp] = true
		if builtin[exp] {
			selected = append(selected, exp)
		}
	}
	var extra []string
	for exp, isSelected := range builtin {
		if isSelected && !known[exp] {
			extra = append(extra, exp)
		}
	}
	sort.Strings(extra)
	return append(selected, extra...)
}

// WhatOptionsAnswer lists product names the participant found on offer.
type WhatOptionsAnswer []string

func (WhatOptionsAnswer) Type() Type { return TypeWhatOptions }

func (a WhatOptionsAnswer) outcome() Outcome {
	result := make([]ProductAvailability, 0, len(a))
	for _, name := range a {
		result = append(result, ProductAvailability{
			Product: ProductName{Name: name},
			Info:    InfoAvailable,
		})
	}
	return result
}

func (WhatOptionsAnswer) valid(o Outcome) bool {
	list, ok := o.([]ProductAvailability)
	return ok && len(list) > 0
}

// BuyOptionsAnswer maps product IDs to whether the participant bought them.
type BuyOptionsAnswer map[string]bool

func (BuyOptionsAnswer) Type() Type { return TypeBuyOptions }

func (a BuyOptionsAnswer) outcome() Outcome {
	result := []ProductRef{}
	for _, id := range sortedKeys(a) {
		if a[id] {
			result = append(result, ProductRef{Product: id})
		}
	}
	return result
}

func (BuyOptionsAnswer) valid(o Outcome) bool {
	list, ok := o.([]ProductRef)
	return ok && len(list) > 0
}

// GiveFeedbackAnswer is free text left for the location.
type GiveFeedbackAnswer string

func (GiveFeedbackAnswer) Type() Type         { return TypeGiveFeedback }
func (a GiveFeedbackAnswer) outcome() Outcome { return string(a) }

func (GiveFeedbackAnswer) valid(o Outcome) bool {
	s, ok := o.(string)
	return ok && len(s) > 0
}

// RateOptionsAnswer maps product IDs to a rating; 0 means unrated.
type RateOptionsAnswer map[string]int

func (RateOptionsAnswer) Type() Type { return TypeRateOptions }

func (a RateOptionsAnswer) outcome() Outcome {
	result := []ProductRating{}
	for _, id := range sortedKeys(a) {
		if rating := a[id]; rating > 0 {
			result = append(result, ProductRating{Product: id, Info: rating})
		}
	}
	return result
}

func (RateOptionsAnswer) valid(o Outcome) bool {
	list, ok := o.([]ProductRating)
	return ok && len(list) > 0
}

// OfferQualityAnswer rates the overall vegan offer. Rating is nil until set.
type OfferQualityAnswer struct {
	Rating *int `json:"rating,omitempty" yaml:"rating"`
}

// RateOffer returns an OfferQualityAnswer holding rating.
func RateOffer(rating int) OfferQualityAnswer {
	return OfferQualityAnswer{Rating: &rating}
}

func (OfferQualityAnswer) Type() Type { return TypeOfferQuality }

func (a OfferQualityAnswer) outcome() Outcome {
	if a.Rating == nil {
		return nil
	}
	return *a.Rating
}

func (OfferQualityAnswer) valid(o Outcome) bool { return definedOutcome(o) }

// EffortValueAnswer is "yes" or "no"; empty until set.
type EffortValueAnswer string

func (EffortValueAnswer) Type() Type { return TypeEffortValue }

func (a EffortValueAnswer) outcome() Outcome {
	if a == "" {
		return nil
	}
	return string(a)
}

func (EffortValueAnswer) valid(o Outcome) bool { return definedOutcome(o) }

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
