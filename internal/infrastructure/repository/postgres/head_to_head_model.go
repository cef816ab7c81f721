package postgres

import (
	"database/sql"
	"time"
)

type headToHeadTableModel struct {
	ID            int64         `db:"id"`
	TeamLowID     int           `db:"team_low_id"`
	TeamHighID    int           `db:"team_high_id"`
	MatchID       int           `db:"match_id"`
	CompetitionID int           `db:"competition_id"`
	SeasonYear    int           `db:"season_year"`
	HomeTeamID    int           `db:"home_team_id"`
	AwayTeamID    int           `db:"away_team_id"`
	KickoffAt     time.Time     `db:"kickoff_at"`
	HomeScore     sql.NullInt64 `db:"home_score"`
	AwayScore     sql.NullInt64 `db:"away_score"`
	Status        string        `db:"status"`
	Winner        string        `db:"winner"`
	Venue         string        `db:"venue"`
	LastUpdatedAt sql.NullTime  `db:"last_updated_at"`
	CreatedAt     time.Time     `db:"created_at"`
	UpdatedAt     time.Time     `db:"updated_at"`
	DeletedAt     *time.Time    `db:"deleted_at"`
}

type headToHeadInsertModel struct {
	TeamLowID     int           `db:"team_low_id"`
	TeamHighID    int           `db:"team_high_id"`
	MatchID       int           `db:"match_id"`
	CompetitionID int           `db:"competition_id"`
	SeasonYear    int           `db:"season_year"`
	HomeTeamID    int           `db:"home_team_id"`
	AwayTeamID    int           `db:"away_team_id"`
	KickoffAt     time.Time     `db:"kickoff_at"`
	HomeScore     sql.NullInt64 `db:"home_score"`
	AwayScore     sql.NullInt64 `db:"away_score"`
	Status        string        `db:"status"`
	Winner        string        `db:"winner"`
	Venue         string        `db:"venue"`
	LastUpdatedAt *time.Time    `db:"last_updated_at"`
}
