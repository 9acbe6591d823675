// Package cli provides thin CLI adapters that translate between CLI concerns
// and application services. Adapters handle argument parsing, output formatting,
// but delegate business logic to services.
package cli

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"

	"github.com/example/veganaut/internal/ports/primary"
)

var (
	completedMark = color.New(color.FgGreen).Sprint("✓")
	startedMark   = color.New(color.FgYellow).Sprint("▶")
	pendingMark   = color.New(color.FgHiBlack).Sprint("·")
)

// VisitAdapter is a thin adapter that translates CLI operations to VisitService calls.
// It depends only on the VisitService interface, enabling easy testing with mocks.
type VisitAdapter struct {
	service primary.VisitService
	out     io.Writer
}

// NewVisitAdapter creates a new VisitAdapter with the given service.
func NewVisitAdapter(service primary.VisitService, out io.Writer) *VisitAdapter {
	return &VisitAdapter{
		service: service,
		out:     out,
	}
}

// Start starts a visit at a location.
func (a *VisitAdapter) Start(ctx context.Context, locationID, playerID, team string, missionTypes []string) error {
	resp, err := a.service.StartVisit(ctx, primary.StartVisitRequest{
		LocationID:   locationID,
		PlayerID:     playerID,
		Team:         team,
		MissionTypes: missionTypes,
	})
	if err != nil {
		return err
	}

	fmt.Fprintf(a.out, "✓ Started visit %s at %s (%d missions, %d points available)\n",
		resp.VisitID, resp.Visit.LocationID, len(resp.Visit.Missions), resp.Visit.RemainingPoints)
	return nil
}

// List lists visits with optional filters.
func (a *VisitAdapter) List(ctx context.Context, filters primary.VisitFilters) error {
	visits, err := a.service.ListVisits(ctx, filters)
	if err != nil {
		return fmt.Errorf("failed to list visits: %w", err)
	}

	if len(visits) == 0 {
		fmt.Fprintln(a.out, "No visits found")
		return nil
	}

	fmt.Fprintf(a.out, "\n%-12s %-10s %-20s %-10s %s\n", "ID", "STATUS", "LOCATION", "TEAM", "POINTS")
	fmt.Fprintln(a.out, "────────────────────────────────────────────────────────────────")
	for _, v := range visits {
		fmt.Fprintf(a.out, "%-12s %-10s %-20s %-10s %d/%d\n",
			v.ID, v.Status, v.LocationID, v.Team, v.EarnedPoints, v.PointsCap)
	}
	fmt.Fprintln(a.out)

	return nil
}

// Show displays a visit and its missions.
func (a *VisitAdapter) Show(ctx context.Context, visitID string) (*primary.Visit, error) {
	visit, err := a.service.GetVisit(ctx, visitID)
	if err != nil {
		return nil, fmt.Errorf("failed to get visit: %w", err)
	}

	fmt.Fprintf(a.out, "\nVisit:    %s\n", visit.ID)
	fmt.Fprintf(a.out, "Location: %s\n", visit.LocationID)
	if visit.PlayerID != "" {
		fmt.Fprintf(a.out, "Player:   %s\n", visit.PlayerID)
	}
	fmt.Fprintf(a.out, "Team:     %s\n", visit.Team)
	fmt.Fprintf(a.out, "Status:   %s\n", visit.Status)
	fmt.Fprintf(a.out, "Points:   %d earned, %d of %d remaining\n", visit.EarnedPoints, visit.RemainingPoints, visit.PointsCap)
	if visit.SubmittedAt != "" {
		fmt.Fprintf(a.out, "Submitted: %s\n", visit.SubmittedAt)
	}
	if visit.ClosedAt != "" {
		fmt.Fprintf(a.out, "Closed:   %s\n", visit.ClosedAt)
	}

	fmt.Fprintln(a.out, "\nMissions:")
	for _, m := range visit.Missions {
		fmt.Fprintf(a.out, "  %s %-13s %s\n", stateMark(m.State), m.Type, missionSummary(m))
	}
	fmt.Fprintln(a.out)

	return visit, nil
}

// Answer records the answer of a mission.
func (a *VisitAdapter) Answer(ctx context.Context, visitID, missionType, data string) error {
	m, err := a.service.AnswerMission(ctx, primary.AnswerMissionRequest{
		VisitID:     visitID,
		MissionType: missionType,
		Data:        data,
	})
	if err != nil {
		return err
	}

	fmt.Fprintf(a.out, "✓ Answered %s: %s\n", m.Type, m.Outcome)
	if !m.Valid {
		fmt.Fprintln(a.out, color.New(color.FgYellow).Sprint("  (not a valid outcome yet)"))
	}
	return nil
}

// Toggle starts or pauses a mission.
func (a *VisitAdapter) Toggle(ctx context.Context, visitID, missionType string) error {
	m, err := a.service.ToggleMission(ctx, visitID, missionType)
	if err != nil {
		return err
	}

	fmt.Fprintf(a.out, "%s %s is %s\n", stateMark(m.State), m.Type, m.State)
	return nil
}

// Finish completes a mission.
func (a *VisitAdapter) Finish(ctx context.Context, visitID, missionType string) error {
	resp, err := a.service.FinishMission(ctx, visitID, missionType)
	if err != nil {
		return err
	}

	if resp.AlreadyFinished {
		fmt.Fprintf(a.out, "Mission %s was already finished (%d points)\n", resp.Mission.Type, resp.Mission.ReceivedPoints)
	} else {
		fmt.Fprintf(a.out, "✓ Finished %s: +%d points\n", resp.Mission.Type, resp.Mission.ReceivedPoints)
	}
	fmt.Fprintf(a.out, "  %d points left in this visit\n", resp.RemainingPoints)
	if resp.NextMission != "" {
		fmt.Fprintf(a.out, "  Next: %s\n", resp.NextMission)
	} else {
		fmt.Fprintln(a.out, color.New(color.FgGreen).Sprint("  All missions completed"))
	}
	return nil
}

// Submit queues the completed missions of a visit.
func (a *VisitAdapter) Submit(ctx context.Context, visitID string) error {
	resp, err := a.service.SubmitVisit(ctx, visitID)
	if err != nil {
		return err
	}

	types := make([]string, len(resp.Submissions))
	points := 0
	for i, s := range resp.Submissions {
		types[i] = s.MissionType
		points += s.Points
	}
	fmt.Fprintf(a.out, "✓ Queued %d submissions (%d points) in batch %s\n", len(resp.Submissions), points, resp.BatchID)
	fmt.Fprintf(a.out, "  Missions: %s\n", strings.Join(types, ", "))
	fmt.Fprintf(a.out, "  Visit status: %s\n", resp.VisitStatus)
	return nil
}

// Submissions lists the queued submissions of a visit.
func (a *VisitAdapter) Submissions(ctx context.Context, visitID string) error {
	subs, err := a.service.ListSubmissions(ctx, visitID)
	if err != nil {
		return fmt.Errorf("failed to list submissions: %w", err)
	}

	if len(subs) == 0 {
		fmt.Fprintf(a.out, "No submissions for %s\n", visitID)
		return nil
	}

	fmt.Fprintf(a.out, "\n%-13s %-8s %-38s %s\n", "MISSION", "POINTS", "BATCH", "PAYLOAD")
	fmt.Fprintln(a.out, "────────────────────────────────────────────────────────────────")
	for _, s := range subs {
		fmt.Fprintf(a.out, "%-13s %-8d %-38s %s\n", s.MissionType, s.Points, s.BatchID, s.Payload)
	}
	fmt.Fprintln(a.out)
	return nil
}

// Close closes a visit.
func (a *VisitAdapter) Close(ctx context.Context, visitID string) error {
	if err := a.service.CloseVisit(ctx, visitID); err != nil {
		return err
	}

	fmt.Fprintf(a.out, "✓ Visit %s closed\n", visitID)
	return nil
}

func stateMark(state string) string {
	switch state {
	case "completed":
		return completedMark
	case "started":
		return startedMark
	default:
		return pendingMark
	}
}

func missionSummary(m *primary.Mission) string {
	var b strings.Builder
	if m.State == "completed" {
		fmt.Fprintf(&b, "%d pts", m.ReceivedPoints)
	} else {
		fmt.Fprintf(&b, "%d/%d pts", m.CurrentPoints, m.Points)
	}
	if m.Outcome != "" && m.Outcome != "null" {
		fmt.Fprintf(&b, "  %s", m.Outcome)
	}
	if m.Submitted {
		b.WriteString(color.New(color.FgCyan).Sprint("  [submitted]"))
	}
	return b.String()
}
