// Package visit contains the pure business logic for visits: the shared
// points budget and the ordered set of missions drawing from it.
// This is part of the Functional Core - no I/O.
package visit

import (
	"errors"
	"fmt"
	"sort"

	"github.com/example/veganaut/internal/core/mission"
)

// DefaultPointsCap is the budget of a visit when none is configured.
const DefaultPointsCap = 100

// ErrMissionNotFound is returned when a visit has no mission of a type.
var ErrMissionNotFound = errors.New("mission not part of visit")

// Params describes the visit to build.
type Params struct {
	ID         string
	LocationID string
	PlayerID   string
	Team       string
	PointsCap  int
	// Types lists the applicable missions; empty means every type.
	Types []mission.Type
}

// Visit is one session of missions at a location by one participant.
// It owns the points budget its missions draw from.
//
// A Visit is not safe for concurrent use.
type Visit struct {
	ID         string
	LocationID string
	PlayerID   string
	Team       string

	pointsCap int
	missions  []*mission.Mission
	finished  map[mission.Type]bool
	listeners []func(*mission.Mission)
}

// New creates a visit with one pending mission per applicable type.
func New(p Params) (*Visit, error) {
	types := p.Types
	if len(types) == 0 {
		types = mission.Types()
	}

	v, err := newVisit(p)
	if err != nil {
		return nil, err
	}
	for _, t := range types {
		if _, ok := v.find(t); ok {
			return nil, fmt.Errorf("duplicate mission type %s", t)
		}
		m, err := mission.New(t, v)
		if err != nil {
			return nil, err
		}
		v.missions = append(v.missions, m)
	}
	v.sortMissions()
	return v, nil
}

// Restore rebuilds a visit from mission snapshots. Listeners are not
// called for missions that were completed before.
func Restore(p Params, snapshots []mission.Snapshot) (*Visit, error) {
	v, err := newVisit(p)
	if err != nil {
		return nil, err
	}
	for _, s := range snapshots {
		m, err := mission.Restore(s, v)
		if err != nil {
			return nil, err
		}
		if _, ok := v.find(m.Type()); ok {
			return nil, fmt.Errorf("duplicate mission type %s", m.Type())
		}
		v.missions = append(v.missions, m)
		if m.Completed() {
			v.finished[m.Type()] = true
		}
	}
	if earned := v.EarnedPoints(); earned > v.pointsCap {
		return nil, fmt.Errorf("visit %s: earned %d points, more than its cap of %d", p.ID, earned, v.pointsCap)
	}
	v.sortMissions()
	return v, nil
}

func newVisit(p Params) (*Visit, error) {
	if p.PointsCap < 0 {
		return nil, fmt.Errorf("points cap must not be negative, got %d", p.PointsCap)
	}
	return &Visit{
		ID:         p.ID,
		LocationID: p.LocationID,
		PlayerID:   p.PlayerID,
		Team:       p.Team,
		pointsCap:  p.PointsCap,
		finished:   make(map[mission.Type]bool),
	}, nil
}

func (v *Visit) sortMissions() {
	sort.Slice(v.missions, func(i, j int) bool {
		return v.missions[i].Order() < v.missions[j].Order()
	})
}

func (v *Visit) find(t mission.Type) (*mission.Mission, bool) {
	for _, m := range v.missions {
		if m.Type() == t {
			return m, true
		}
	}
	return nil, false
}

// PointsCap returns the total points the visit may award.
func (v *Visit) PointsCap() int {
	return v.pointsCap
}

// EarnedPoints returns the sum of points awarded to completed missions.
func (v *Visit) EarnedPoints() int {
	total := 0
	for _, m := range v.missions {
		if m.Completed() {
			total += m.ReceivedPoints()
		}
	}
	return total
}

// RemainingAvailablePoints returns the cap minus the earned points, never
// negative.
func (v *Visit) RemainingAvailablePoints() int {
	return max(0, v.pointsCap-v.EarnedPoints())
}

// MissionFinished records the completion of m and notifies listeners.
// Repeated notifications for the same mission are ignored.
func (v *Visit) MissionFinished(m *mission.Mission) {
	if v.finished[m.Type()] {
		return
	}
	v.finished[m.Type()] = true
	for _, fn := range v.listeners {
		fn(m)
	}
}

// OnMissionFinished registers fn to run whenever a mission completes.
func (v *Visit) OnMissionFinished(fn func(*mission.Mission)) {
	v.listeners = append(v.listeners, fn)
}

// Missions returns the missions in display order.
func (v *Visit) Missions() []*mission.Mission {
	out := make([]*mission.Mission, len(v.missions))
	copy(out, v.missions)
	return out
}

// Mission returns the visit's mission of type t.
func (v *Visit) Mission(t mission.Type) (*mission.Mission, error) {
	m, ok := v.find(t)
	if !ok {
		return nil, fmt.Errorf("%w: %s in %s", ErrMissionNotFound, t, v.ID)
	}
	return m, nil
}

// NextMission returns the first mission in display order that is not
// completed, or nil when all are.
func (v *Visit) NextMission() *mission.Mission {
	for _, m := range v.missions {
		if !m.Completed() {
			return m
		}
	}
	return nil
}

// AllCompleted reports whether every mission of the visit is completed.
func (v *Visit) AllCompleted() bool {
	return v.NextMission() == nil
}

// SubmissionRecords returns the backend payloads of all completed missions.
func (v *Visit) SubmissionRecords() []mission.SubmissionRecord {
	var records []mission.SubmissionRecord
	for _, m := range v.missions {
		if m.Completed() {
			records = append(records, m.SubmissionRecord(v.Team))
		}
	}
	return records
}
