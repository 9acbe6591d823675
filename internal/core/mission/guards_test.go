package mission

import (
	"testing"
)

func TestCanAnswerMission(t *testing.T) {
	tests := []struct {
		name        string
		ctx         MissionContext
		wantAllowed bool
		wantReason  string
	}{
		{
			name:        "open visit, pending mission",
			ctx:         MissionContext{VisitID: "VISIT-001", MissionType: TypeBuyOptions, VisitOpen: true},
			wantAllowed: true,
		},
		{
			name:        "closed visit",
			ctx:         MissionContext{VisitID: "VISIT-001", MissionType: TypeBuyOptions, VisitOpen: false},
			wantAllowed: false,
			wantReason:  "visit VISIT-001 is no longer open",
		},
		{
			name:        "completed mission",
			ctx:         MissionContext{VisitID: "VISIT-002", MissionType: TypeGiveFeedback, VisitOpen: true, Completed: true},
			wantAllowed: false,
			wantReason:  "mission giveFeedback of visit VISIT-002 is already completed",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := CanAnswerMission(tt.ctx)

			if result.Allowed != tt.wantAllowed {
				t.Errorf("CanAnswerMission() Allowed = %v, want %v", result.Allowed, tt.wantAllowed)
			}
			if result.Reason != tt.wantReason {
				t.Errorf("CanAnswerMission() Reason = %q, want %q", result.Reason, tt.wantReason)
			}

			err := result.Error()
			if tt.wantAllowed && err != nil {
				t.Errorf("CanAnswerMission().Error() = %v, want nil", err)
			}
			if !tt.wantAllowed && err == nil {
				t.Error("CanAnswerMission().Error() = nil, want error")
			}
		})
	}
}

func TestCanToggleMission(t *testing.T) {
	if !CanToggleMission(MissionContext{VisitOpen: true, Completed: true}).Allowed {
		t.Error("toggling a completed mission in an open visit should be allowed (no-op)")
	}
	if CanToggleMission(MissionContext{VisitID: "VISIT-003"}).Allowed {
		t.Error("toggling in a closed visit should be refused")
	}
}

func TestCanFinishMission(t *testing.T) {
	tests := []struct {
		name        string
		ctx         FinishContext
		wantAllowed bool
		wantReason  string
	}{
		{
			name: "permissive mode allows invalid outcome",
			ctx: FinishContext{
				MissionContext: MissionContext{VisitID: "VISIT-001", MissionType: TypeOfferQuality, VisitOpen: true},
			},
			wantAllowed: true,
		},
		{
			name: "strict mode refuses invalid outcome",
			ctx: FinishContext{
				MissionContext: MissionContext{VisitID: "VISIT-001", MissionType: TypeOfferQuality, VisitOpen: true},
				Strict:         true,
			},
			wantAllowed: false,
			wantReason:  "mission offerQuality of visit VISIT-001 has no valid outcome yet",
		},
		{
			name: "strict mode allows valid outcome",
			ctx: FinishContext{
				MissionContext:  MissionContext{VisitID: "VISIT-001", MissionType: TypeOfferQuality, VisitOpen: true},
				HasValidOutcome: true,
				Strict:          true,
			},
			wantAllowed: true,
		},
		{
			name: "completed mission is a no-op even in strict mode",
			ctx: FinishContext{
				MissionContext: MissionContext{VisitID: "VISIT-001", MissionType: TypeOfferQuality, VisitOpen: true, Completed: true},
				Strict:         true,
			},
			wantAllowed: true,
		},
		{
			name: "closed visit",
			ctx: FinishContext{
				MissionContext:  MissionContext{VisitID: "VISIT-004", MissionType: TypeVisitBonus},
				HasValidOutcome: true,
			},
			wantAllowed: false,
			wantReason:  "visit VISIT-004 is no longer open",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := CanFinishMission(tt.ctx)

			if result.Allowed != tt.wantAllowed {
				t.Errorf("CanFinishMission() Allowed = %v, want %v", result.Allowed, tt.wantAllowed)
			}
			if result.Reason != tt.wantReason {
				t.Errorf("CanFinishMission() Reason = %q, want %q", result.Reason, tt.wantReason)
			}
		})
	}
}

func TestCheckAnswer(t *testing.T) {
	zero := 0

	tests := []struct {
		name        string
		answer      Answer
		wantAllowed bool
	}{
		{"known first answer", HasOptionsAnswer{First: "yes"}, true},
		{"unknown first answer", HasOptionsAnswer{First: "maybe"}, false},
		{"unknown second answer", HasOptionsAnswer{First: "theyDoNotKnow", Second: "sure"}, false},
		{"builtin expression", WantVeganAnswer{Builtin: map[string]bool{"noHoney": true}}, true},
		{"unknown builtin expression", WantVeganAnswer{Builtin: map[string]bool{"glutenFree": true}}, false},
		{"custom expressions are free text", WantVeganAnswer{Custom: []string{"anything"}}, true},
		{"rating in range", RateOptionsAnswer{"p1": 0, "p2": 5}, true},
		{"rating too high", RateOptionsAnswer{"p1": 6}, false},
		{"rating negative", RateOptionsAnswer{"p1": -1}, false},
		{"offer quality in range", RateOffer(1), true},
		{"offer quality zero", OfferQualityAnswer{Rating: &zero}, false},
		{"offer quality unset", OfferQualityAnswer{}, true},
		{"effort yes", EffortValueAnswer("yes"), true},
		{"effort maybe", EffortValueAnswer("maybe"), false},
		{"free feedback", GiveFeedbackAnswer("anything goes"), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := CheckAnswer(tt.answer)
			if result.Allowed != tt.wantAllowed {
				t.Errorf("CheckAnswer(%#v) Allowed = %v, want %v (reason %q)", tt.answer, result.Allowed, tt.wantAllowed, result.Reason)
			}
		})
	}
}
