package mission

import (
	"encoding/json"
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"
)

// DecodeAnswer parses answer text for a mission of type t. The text is YAML,
// so JSON documents are accepted as well. Empty or null text yields the
// initial answer of the type.
//
// giveFeedback text is taken verbatim; only a JSON-quoted string, the form
// EncodeAnswer stores, is unquoted.
//
// Besides the canonical shapes, a few shorthands are accepted:
//   - hasOptions: a bare scalar sets the first-stage answer
//   - whatOptions: text that is not a list is a single product name, verbatim
//   - buyOptions: a list of product IDs marks each one bought
//   - offerQuality: a bare integer is the rating
func DecodeAnswer(t Type, data []byte) (Answer, error) {
	initial, err := NewAnswer(t)
	if err != nil {
		return nil, err
	}

	switch t {
	case TypeGiveFeedback:
		text, ok := plainText(data)
		if !ok {
			return initial, nil
		}
		return GiveFeedbackAnswer(text), nil
	case TypeWhatOptions:
		if !looksStructured(data) {
			text, ok := plainText(data)
			if !ok {
				return initial, nil
			}
			return WhatOptionsAnswer{strings.TrimSpace(text)}, nil
		}
	}

	var doc yaml.Node
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("failed to parse %s answer: %w", t, err)
	}
	if len(doc.Content) == 0 {
		return initial, nil
	}
	root := doc.Content[0]
	if root.Kind == yaml.ScalarNode && root.Tag == "!!null" {
		return initial, nil
	}

	answer, err := decodeNode(t, root)
	if err != nil {
		return nil, fmt.Errorf("failed to decode %s answer: %w", t, err)
	}
	return answer, nil
}

func decodeNode(t Type, root *yaml.Node) (Answer, error) {
	switch t {
	case TypeVisitBonus:
		return VisitBonusAnswer{}, nil

	case TypeHasOptions:
		if root.Kind == yaml.ScalarNode {
			return HasOptionsAnswer{First: root.Value}, nil
		}
		var a HasOptionsAnswer
		err := root.Decode(&a)
		return a, err

	case TypeWantVegan:
		var a WantVeganAnswer
		if err := root.Decode(&a); err != nil {
			return nil, err
		}
		if a.Builtin == nil {
			a.Builtin = map[string]bool{}
		}
		return a, nil

	case TypeWhatOptions:
		if root.Kind == yaml.ScalarNode {
			return WhatOptionsAnswer{root.Value}, nil
		}
		var a WhatOptionsAnswer
		err := root.Decode(&a)
		return a, err

	case TypeBuyOptions:
		if root.Kind == yaml.SequenceNode {
			var ids []string
			if err := root.Decode(&ids); err != nil {
				return nil, err
			}
			a := BuyOptionsAnswer{}
			for _, id := range ids {
				a[id] = true
			}
			return a, nil
		}
		a := BuyOptionsAnswer{}
		err := root.Decode(&a)
		return a, err

	case TypeRateOptions:
		a := RateOptionsAnswer{}
		err := root.Decode(&a)
		return a, err

	case TypeOfferQuality:
		if root.Kind == yaml.ScalarNode {
			var rating int
			if err := root.Decode(&rating); err != nil {
				return nil, err
			}
			return RateOffer(rating), nil
		}
		var a OfferQualityAnswer
		err := root.Decode(&a)
		return a, err

	case TypeEffortValue:
		if root.Kind != yaml.ScalarNode {
			return nil, fmt.Errorf("effort value must be one of %s", strings.Join(EffortValueAnswers, ", "))
		}
		return EffortValueAnswer(root.Value), nil
	}
	return nil, fmt.Errorf("%w: %q", ErrUnknownType, t)
}

// plainText returns free text as given, unquoting a JSON string. It
// reports false for empty or null text.
func plainText(data []byte) (string, bool) {
	trimmed := strings.TrimSpace(string(data))
	if trimmed == "" || trimmed == "null" {
		return "", false
	}
	if strings.HasPrefix(trimmed, `"`) {
		var s string
		if err := json.Unmarshal([]byte(trimmed), &s); err == nil {
			return s, true
		}
	}
	return string(data), true
}

// looksStructured reports whether text is a YAML or JSON collection rather
// than a bare value.
func looksStructured(data []byte) bool {
	trimmed := strings.TrimSpace(string(data))
	return strings.HasPrefix(trimmed, "[") ||
		strings.HasPrefix(trimmed, "{") ||
		strings.HasPrefix(trimmed, "- ") ||
		trimmed == "-"
}

// EncodeAnswer serializes an answer as JSON. DecodeAnswer reads it back.
func EncodeAnswer(a Answer) ([]byte, error) {
	return json.Marshal(a)
}

// EncodeOutcome serializes an outcome as JSON; a nil outcome is "null".
func EncodeOutcome(o Outcome) ([]byte, error) {
	return json.Marshal(o)
}

// DecodeOutcome parses a JSON outcome produced by EncodeOutcome for a
// mission of type t, restoring the concrete Go type.
func DecodeOutcome(t Type, data []byte) (Outcome, error) {
	trimmed := strings.TrimSpace(string(data))
	if trimmed == "" || trimmed == "null" {
		return nil, nil
	}

	var (
		out Outcome
		err error
	)
	switch t {
	case TypeVisitBonus:
		out, err = decodeJSON[bool](data)
	case TypeHasOptions, TypeGiveFeedback, TypeEffortValue:
		out, err = decodeJSON[string](data)
	case TypeWantVegan:
		out, err = decodeJSON[[]Expression](data)
	case TypeWhatOptions:
		out, err = decodeJSON[[]ProductAvailability](data)
	case TypeBuyOptions:
		out, err = decodeJSON[[]ProductRef](data)
	case TypeRateOptions:
		out, err = decodeJSON[[]ProductRating](data)
	case TypeOfferQuality:
		out, err = decodeJSON[int](data)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownType, t)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to decode %s outcome: %w", t, err)
	}
	return out, nil
}

func decodeJSON[T any](data []byte) (T, error) {
	var v T
	err := json.Unmarshal(data, &v)
	return v, err
}
