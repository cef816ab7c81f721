package postgres

import (
	"database/sql"
	"time"
)

type fixtureTableModel struct {
	ID            int           `db:"id"`
	CompetitionID int           `db:"competition_id"`
	SeasonID      sql.NullInt64 `db:"season_id"`
	Matchday      int           `db:"matchday"`
	Stage         string        `db:"stage"`
	GroupName     string        `db:"group_name"`
	HomeTeamID    int           `db:"home_team_id"`
	AwayTeamID    int           `db:"away_team_id"`
	KickoffAt     time.Time     `db:"kickoff_at"`
	Status        string        `db:"status"`
	Minute        sql.NullInt64 `db:"minute"`
	InjuryTime    sql.NullInt64 `db:"injury_time"`
	Attendance    sql.NullInt64 `db:"attendance"`
	HomeScore     sql.NullInt64 `db:"home_score"`
	AwayScore     sql.NullInt64 `db:"away_score"`
	Winner        string        `db:"winner"`
	Venue         string        `db:"venue"`
	Referee       string        `db:"referee"`
	LastUpdatedAt sql.NullTime  `db:"last_updated_at"`
	CreatedAt     time.Time     `db:"created_at"`
	UpdatedAt     time.Time     `db:"updated_at"`
	DeletedAt     *time.Time    `db:"deleted_at"`
}

type fixtureInsertModel struct {
	ID            int           `db:"id"`
	CompetitionID int           `db:"competition_id"`
	SeasonID      sql.NullInt64 `db:"season_id"`
	Matchday      int           `db:"matchday"`
	Stage         string        `db:"stage"`
	GroupName     string        `db:"group_name"`
	HomeTeamID    int           `db:"home_team_id"`
	AwayTeamID    int           `db:"away_team_id"`
	KickoffAt     time.Time     `db:"kickoff_at"`
	Status        string        `db:"status"`
	Minute        sql.NullInt64 `db:"minute"`
	InjuryTime    sql.NullInt64 `db:"injury_time"`
	Attendance    sql.NullInt64 `db:"attendance"`
	HomeScore     sql.NullInt64 `db:"home_score"`
	AwayScore     sql.NullInt64 `db:"away_score"`
	Winner        string        `db:"winner"`
	Venue         string        `db:"venue"`
	Referee       string        `db:"referee"`
	LastUpdatedAt *time.Time    `db:"last_updated_at"`
}
