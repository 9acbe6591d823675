package mission

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecodeAnswer(t *testing.T) {
	four := 4

	tests := []struct {
		name  string
		typ   Type
		input string
		want  Answer
	}{
		{"empty input gives initial answer", TypeHasOptions, "", HasOptionsAnswer{}},
		{"null gives initial answer", TypeOfferQuality, "null", OfferQualityAnswer{}},
		{"visit bonus ignores input", TypeVisitBonus, "anything", VisitBonusAnswer{}},
		{"hasOptions json", TypeHasOptions, `{"first":"theyDoNotKnow","second":"ratherYes"}`, HasOptionsAnswer{First: "theyDoNotKnow", Second: "ratherYes"}},
		{"hasOptions scalar", TypeHasOptions, "yes", HasOptionsAnswer{First: "yes"}},
		{"wantVegan yaml", TypeWantVegan, "builtin: {vegan: true}\ncustom: [gf]", WantVeganAnswer{Builtin: map[string]bool{"vegan": true}, Custom: []string{"gf"}}},
		{"wantVegan custom only", TypeWantVegan, `{"custom":["gf"]}`, WantVeganAnswer{Builtin: map[string]bool{}, Custom: []string{"gf"}}},
		{"whatOptions list", TypeWhatOptions, `["seitan","oat milk"]`, WhatOptionsAnswer{"seitan", "oat milk"}},
		{"whatOptions scalar", TypeWhatOptions, "seitan", WhatOptionsAnswer{"seitan"}},
		{"buyOptions map", TypeBuyOptions, `{"p1":true,"p2":false}`, BuyOptionsAnswer{"p1": true, "p2": false}},
		{"buyOptions list", TypeBuyOptions, "[p1, p3]", BuyOptionsAnswer{"p1": true, "p3": true}},
		{"giveFeedback text", TypeGiveFeedback, "lovely place", GiveFeedbackAnswer("lovely place")},
		{"giveFeedback quoted json", TypeGiveFeedback, `"say \"hi\""`, GiveFeedbackAnswer(`say "hi"`)},
		{"giveFeedback keeps hash", TypeGiveFeedback, "Great food # would come back", GiveFeedbackAnswer("Great food # would come back")},
		{"giveFeedback starting with hash", TypeGiveFeedback, "#1 vegan place in town", GiveFeedbackAnswer("#1 vegan place in town")},
		{"giveFeedback with colon", TypeGiveFeedback, "Staff said: ask for the vegan menu", GiveFeedbackAnswer("Staff said: ask for the vegan menu")},
		{"giveFeedback keeps newlines", TypeGiveFeedback, "line one\nline two", GiveFeedbackAnswer("line one\nline two")},
		{"giveFeedback looks like a list", TypeGiveFeedback, "[sic] great", GiveFeedbackAnswer("[sic] great")},
		{"giveFeedback null", TypeGiveFeedback, "null", GiveFeedbackAnswer("")},
		{"whatOptions scalar with hash", TypeWhatOptions, "Burger #2", WhatOptionsAnswer{"Burger #2"}},
		{"whatOptions scalar with colon", TypeWhatOptions, "Bowl: large", WhatOptionsAnswer{"Bowl: large"}},
		{"whatOptions quoted", TypeWhatOptions, `"seitan"`, WhatOptionsAnswer{"seitan"}},
		{"whatOptions yaml list", TypeWhatOptions, "- seitan\n- tofu", WhatOptionsAnswer{"seitan", "tofu"}},
		{"rateOptions map", TypeRateOptions, `{"p1":0,"p2":4}`, RateOptionsAnswer{"p1": 0, "p2": 4}},
		{"offerQuality integer", TypeOfferQuality, "4", OfferQualityAnswer{Rating: &four}},
		{"offerQuality stored form", TypeOfferQuality, `{"rating":4}`, OfferQualityAnswer{Rating: &four}},
		{"effortValue", TypeEffortValue, "yes", EffortValueAnswer("yes")},
		{"effortValue stored empty", TypeEffortValue, `""`, EffortValueAnswer("")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := DecodeAnswer(tt.typ, []byte(tt.input))
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestDecodeAnswer_FeedbackOutcomeIsVerbatim(t *testing.T) {
	inputs := []string{
		"Great food # would come back",
		"#1 vegan place in town",
		"Staff said: ask for the vegan menu",
		"line one\nline two",
	}

	for _, input := range inputs {
		t.Run(input, func(t *testing.T) {
			answer, err := DecodeAnswer(TypeGiveFeedback, []byte(input))
			require.NoError(t, err)

			m, err := New(TypeGiveFeedback, nil)
			require.NoError(t, err)
			require.NoError(t, m.SetAnswer(answer))

			assert.Equal(t, input, m.Outcome())
			assert.True(t, m.HasValidOutcome())
		})
	}
}

func TestDecodeAnswer_Errors(t *testing.T) {
	tests := []struct {
		name  string
		typ   Type
		input string
	}{
		{"unknown type", Type("nope"), "x"},
		{"broken yaml", TypeWantVegan, "{builtin: [}"},
		{"rating not a number", TypeOfferQuality, "great"},
		{"ratings not a map", TypeRateOptions, "[1, 2]"},
		{"effort as list", TypeEffortValue, "[yes]"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := DecodeAnswer(tt.typ, []byte(tt.input))
			assert.Error(t, err)
		})
	}
}

func TestEncodeDecodeAnswer_AllTypes(t *testing.T) {
	answers := []Answer{
		VisitBonusAnswer{},
		HasOptionsAnswer{First: "no"},
		WantVeganAnswer{Builtin: map[string]bool{"noEggs": true}, Custom: []string{"ohne Ei"}},
		WhatOptionsAnswer{"falafel"},
		WhatOptionsAnswer{"Burger #2", "a: b"},
		BuyOptionsAnswer{"p9": true},
		GiveFeedbackAnswer("ok: fine"),
		GiveFeedbackAnswer("# first\nsecond line"),
		RateOptionsAnswer{"p9": 2},
		RateOffer(5),
		EffortValueAnswer("no"),
	}

	for _, a := range answers {
		t.Run(string(a.Type()), func(t *testing.T) {
			data, err := EncodeAnswer(a)
			require.NoError(t, err)

			back, err := DecodeAnswer(a.Type(), data)
			require.NoError(t, err)
			assert.Equal(t, a, back)
		})
	}
}

func TestDecodeOutcome(t *testing.T) {
	for _, typ := range Types() {
		t.Run(string(typ), func(t *testing.T) {
			out, err := DecodeOutcome(typ, []byte("null"))
			require.NoError(t, err)
			assert.Nil(t, out)
		})
	}

	out, err := DecodeOutcome(TypeRateOptions, []byte(`[{"product":"p2","info":4}]`))
	require.NoError(t, err)
	assert.Equal(t, []ProductRating{{Product: "p2", Info: 4}}, out)

	out, err = DecodeOutcome(TypeOfferQuality, []byte(`3`))
	require.NoError(t, err)
	assert.Equal(t, 3, out)

	out, err = DecodeOutcome(TypeVisitBonus, []byte(`true`))
	require.NoError(t, err)
	assert.Equal(t, true, out)

	_, err = DecodeOutcome(TypeWantVegan, []byte(`"vegan"`))
	assert.Error(t, err)
}

func TestEncodeOutcome_MatchesSubmissionShape(t *testing.T) {
	m, err := New(TypeWhatOptions, nil)
	require.NoError(t, err)
	require.NoError(t, m.SetAnswer(WhatOptionsAnswer{"tempeh"}))

	data, err := EncodeOutcome(m.Outcome())
	require.NoError(t, err)
	assert.JSONEq(t, `[{"product":{"name":"tempeh"},"info":"available"}]`, string(data))

	back, err := DecodeOutcome(TypeWhatOptions, data)
	require.NoError(t, err)
	assert.Equal(t, m.Outcome(), back)
}
