// Package mission contains the pure business logic for visit missions.
// This is part of the Functional Core - no I/O, only pure functions and
// in-memory state.
package mission

import (
	"errors"
	"fmt"
	"sort"
)

// Type identifies a mission variant.
type Type string

const (
	TypeVisitBonus   Type = "visitBonus"
	TypeHasOptions   Type = "hasOptions"
	TypeWantVegan    Type = "wantVegan"
	TypeWhatOptions  Type = "whatOptions"
	TypeBuyOptions   Type = "buyOptions"
	TypeGiveFeedback Type = "giveFeedback"
	TypeRateOptions  Type = "rateOptions"
	TypeOfferQuality Type = "offerQuality"
	TypeEffortValue  Type = "effortValue"
)

// ErrUnknownType is returned when a string does not name a mission variant.
var ErrUnknownType = errors.New("unknown mission type")

// typeInfo holds the per-type constants. Order is the display priority and
// must be unique across types.
type typeInfo struct {
	order  int
	points int
}

var typeTable = map[Type]typeInfo{
	TypeVisitBonus:   {order: 10, points: 50},
	TypeHasOptions:   {order: 20, points: 10},
	TypeWantVegan:    {order: 25, points: 10},
	TypeWhatOptions:  {order: 30, points: 10},
	TypeBuyOptions:   {order: 40, points: 20},
	TypeRateOptions:  {order: 50, points: 10},
	TypeGiveFeedback: {order: 60, points: 20},
	TypeOfferQuality: {order: 70, points: 10},
	TypeEffortValue:  {order: 80, points: 10},
}

// Order returns the display priority of the type (0 for unknown types).
func (t Type) Order() int {
	return typeTable[t].order
}

// Points returns the maximum number of points a mission of this type awards.
func (t Type) Points() int {
	return typeTable[t].points
}

// Valid reports whether t names one of the nine mission variants.
func (t Type) Valid() bool {
	_, ok := typeTable[t]
	return ok
}

func (t Type) String() string {
	return string(t)
}

// ParseType converts a string to a mission Type.
func ParseType(s string) (Type, error) {
	t := Type(s)
	if !t.Valid() {
		return "", fmt.Errorf("%w: %q", ErrUnknownType, s)
	}
	return t, nil
}

// Types returns every mission type sorted by ascending order.
func Types() []Type {
	types := make([]Type, 0, len(typeTable))
	for t := range typeTable {
		types = append(types, t)
	}
	SortTypes(types)
	return types
}

// SortTypes sorts types in place by ascending order.
func SortTypes(types []Type) {
	sort.Slice(types, func(i, j int) bool {
		return types[i].Order() < types[j].Order()
	})
}

// Answer choices offered to participants.
var (
	// HasOptionsFirstAnswers are the choices for the first stage of hasOptions.
	HasOptionsFirstAnswers = []string{"yes", "no", AnswerTheyDoNotKnow}
	// HasOptionsSecondAnswers are asked when the staff does not know.
	HasOptionsSecondAnswers = []string{"ratherYes", "ratherNo", "noClue"}
	// BuiltinExpressions are the predefined wantVegan expressions, in display order.
	BuiltinExpressions = []string{
		"vegan",
		"plantbased",
		"noAnimalproducts",
		"noMeat",
		"noMilk",
		"noEggs",
		"noHoney",
	}
	// EffortValueAnswers are the choices for effortValue.
	EffortValueAnswers = []string{"yes", "no"}
)

const (
	// AnswerTheyDoNotKnow routes hasOptions to its second stage.
	AnswerTheyDoNotKnow = "theyDoNotKnow"
	// MaxRating bounds rateOptions and offerQuality ratings.
	MaxRating = 5
)
