package service

import (
	"time"

	"github.com/spheretrack/sphere/internal/engine"
	"github.com/spheretrack/sphere/internal/repository"
)

// ScoreService builds sphere score reports. It loads goals whose
// lifetime touches the scored window, previous period included, so the
// trend comparison sees the same goal set on both sides.
type ScoreService struct {
	goalRepo  repository.GoalRepository
	entryRepo repository.GoalEntryRepository
}

func NewScoreService(goalRepo repository.GoalRepository, entryRepo repository.GoalEntryRepository) *ScoreService {
	return &ScoreService{
		goalRepo:  goalRepo,
		entryRepo: entryRepo,
	}
}

func (s *ScoreService) Report(userID string, kind engine.ScorePeriod, now time.Time, customStart, customEnd *time.Time) (engine.ScoreReport, error) {
	period := engine.ScorePeriodRange(kind, now, customStart, customEnd)
	previous := engine.PreviousPeriod(period)

	goals, err := s.goalRepo.ActiveOverlapping(userID, previous.Start, period.End)
	if err != nil {
		return engine.ScoreReport{}, err
	}

	withEntries := make([]engine.GoalWithEntries, 0, len(goals))
	for _, goal := range goals {
		entries, err := s.entryRepo.EntriesBetween(goal.ID, previous.Start, period.End)
		if err != nil {
			return engine.ScoreReport{}, err
		}
		withEntries = append(withEntries, engine.GoalWithEntries{Goal: goal, Entries: entries})
	}

	return engine.BuildScoreReport(withEntries, kind, now, customStart, customEnd), nil
}
