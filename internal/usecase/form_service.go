package usecase

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/bagaskoro/goalpoll/internal/domain/fixture"
	"github.com/bagaskoro/goalpoll/internal/platform/logging"
)

const defaultFormMatchLimit = 5

// FormService derives a team's recent W/D/L form from raw match
// history. The provider's own form field is frequently null on the
// free plan, so form is always recomputed here.
type FormService struct {
	provider FootballDataProvider
	logger   *logging.Logger
}

func NewFormService(provider FootballDataProvider, logger *logging.Logger) *FormService {
	if logger == nil {
		logger = logging.Default()
	}

	return &FormService{provider: provider, logger: logger}
}

// ComputeForm returns up to limit outcome characters, most recent
// first. An empty string means "unknown", never an all-loss streak.
func (s *FormService) ComputeForm(ctx context.Context, teamID, limit int) (string, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.FormService.ComputeForm")
	defer span.End()

	if teamID <= 0 {
		return "", fmt.Errorf("%w: team id is required", ErrInvalidInput)
	}
	if s.provider == nil {
		return "", fmt.Errorf("%w: football data provider is not configured", ErrDependencyUnavailable)
	}
	if limit <= 0 {
		limit = defaultFormMatchLimit
	}

	// Fetch more than needed so filtering out unfinished rows still
	// leaves a full window.
	matches, err := s.provider.FetchFinishedTeamMatches(ctx, teamID, limit*2)
	if err != nil {
		return "", fmt.Errorf("fetch finished matches for form team_id=%d: %w", teamID, err)
	}

	finished := make([]ExternalMatch, 0, len(matches))
	for _, match := range matches {
		if !fixture.IsFinishedStatus(match.Status) {
			continue
		}
		if match.HomeTeamID != teamID && match.AwayTeamID != teamID {
			continue
		}
		finished = append(finished, match)
	}
	if len(finished) == 0 {
		s.logger.DebugContext(ctx, "no finished matches for form", "team_id", teamID)
		return "", nil
	}

	sort.SliceStable(finished, func(i, j int) bool {
		return finished[i].KickoffAt.After(finished[j].KickoffAt)
	})
	if len(finished) > limit {
		finished = finished[:limit]
	}

	var form strings.Builder
	for _, match := range finished {
		form.WriteByte(matchOutcomeForTeam(match, teamID))
	}

	return form.String(), nil
}

// matchOutcomeForTeam maps the provider winner indicator to the team's
// perspective, falling back to score comparison when the indicator is
// absent.
func matchOutcomeForTeam(match ExternalMatch, teamID int) byte {
	isHome := match.HomeTeamID == teamID

	switch strings.ToUpper(strings.TrimSpace(match.Winner)) {
	case fixture.WinnerDraw:
		return 'D'
	case fixture.WinnerHomeTeam:
		if isHome {
			return 'W'
		}
		return 'L'
	case fixture.WinnerAwayTeam:
		if !isHome {
			return 'W'
		}
		return 'L'
	}

	if match.HomeScore == nil || match.AwayScore == nil {
		return 'D'
	}
	teamScore, otherScore := *match.HomeScore, *match.AwayScore
	if !isHome {
		teamScore, otherScore = otherScore, teamScore
	}
	switch {
	case teamScore > otherScore:
		return 'W'
	case teamScore < otherScore:
		return 'L'
	default:
		return 'D'
	}
}
