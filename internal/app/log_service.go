package app

import (
	"context"
	"fmt"
	"slices"
	"sort"
	"strconv"

	coremission "github.com/example/veganaut/internal/core/mission"
	"github.com/example/veganaut/internal/ports/primary"
	"github.com/example/veganaut/internal/ports/secondary"
)

// Audited entity types.
var logEntityTypes = []string{"visit", "mission", "submission"}

// LogServiceImpl implements the LogService interface.
type LogServiceImpl struct {
	logRepo secondary.VisitLogRepository
}

// NewLogService creates a new LogService with injected dependencies.
func NewLogService(logRepo secondary.VisitLogRepository) *LogServiceImpl {
	return &LogServiceImpl{
		logRepo: logRepo,
	}
}

// ListLogs retrieves log entries matching the given filters.
func (s *LogServiceImpl) ListLogs(ctx context.Context, filters primary.LogFilters) ([]*primary.LogEntry, error) {
	if filters.MissionType != "" {
		if _, err := coremission.ParseType(filters.MissionType); err != nil {
			return nil, err
		}
	}
	if filters.EntityType != "" && !slices.Contains(logEntityTypes, filters.EntityType) {
		return nil, fmt.Errorf("unknown entity type %q, expected one of %v", filters.EntityType, logEntityTypes)
	}

	records, err := s.logRepo.List(ctx, secondary.VisitLogFilters{
		VisitID:     filters.VisitID,
		MissionType: filters.MissionType,
		EntityType:  filters.EntityType,
		ActorID:     filters.ActorID,
		Limit:       filters.Limit,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list logs: %w", err)
	}

	entries := make([]*primary.LogEntry, len(records))
	for i, r := range records {
		entries[i] = recordToLogEntry(r)
	}
	return entries, nil
}

// ListFinishedMissions rebuilds the finished missions of a visit, in the
// order they were finished.
func (s *LogServiceImpl) ListFinishedMissions(ctx context.Context, visitID string) ([]*primary.FinishedMission, error) {
	records, err := s.logRepo.List(ctx, secondary.VisitLogFilters{
		VisitID:    visitID,
		EntityType: "mission",
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list logs of %s: %w", visitID, err)
	}

	byType := make(map[string]*primary.FinishedMission)
	for _, r := range records {
		if r.Action != "update" {
			continue
		}
		switch r.FieldName {
		case "completed", "received_points", "final_outcome":
		default:
			continue
		}

		finished, ok := byType[r.EntityID]
		if !ok {
			finished = &primary.FinishedMission{MissionType: r.EntityID}
			byType[r.EntityID] = finished
		}
		switch r.FieldName {
		case "completed":
			if r.NewValue == "true" {
				finished.ActorID = r.ActorID
				finished.FinishedAt = r.CreatedAt
			}
		case "received_points":
			finished.Points, _ = strconv.Atoi(r.NewValue)
		case "final_outcome":
			finished.Outcome = r.NewValue
		}
	}

	result := make([]*primary.FinishedMission, 0, len(byType))
	for _, f := range byType {
		if f.FinishedAt != "" {
			result = append(result, f)
		}
	}
	sort.Slice(result, func(i, j int) bool {
		if result[i].FinishedAt != result[j].FinishedAt {
			return result[i].FinishedAt < result[j].FinishedAt
		}
		return coremission.Type(result[i].MissionType).Order() < coremission.Type(result[j].MissionType).Order()
	})
	return result, nil
}

// PruneLogs deletes log entries older than the specified number of days.
func (s *LogServiceImpl) PruneLogs(ctx context.Context, olderThanDays int) (int, error) {
	if olderThanDays < 1 {
		return 0, fmt.Errorf("retention must be at least one day, got %d", olderThanDays)
	}
	return s.logRepo.PruneOlderThan(ctx, olderThanDays)
}

func recordToLogEntry(r *secondary.VisitLogRecord) *primary.LogEntry {
	return &primary.LogEntry{
		ID:         r.ID,
		VisitID:    r.VisitID,
		ActorID:    r.ActorID,
		EntityType: r.EntityType,
		EntityID:   r.EntityID,
		Action:     r.Action,
		FieldName:  r.FieldName,
		OldValue:   r.OldValue,
		NewValue:   r.NewValue,
		CreatedAt:  r.CreatedAt,
	}
}

// Ensure LogServiceImpl implements the interface
var _ primary.LogService = (*LogServiceImpl)(nil)
