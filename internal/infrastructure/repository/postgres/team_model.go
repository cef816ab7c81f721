package postgres

import (
	"database/sql"
	"time"
)

type teamTableModel struct {
	ID               int           `db:"id"`
	Name             string        `db:"name"`
	ShortName        string        `db:"short_name"`
	TLA              string        `db:"tla"`
	CrestURL         string        `db:"crest_url"`
	Address          string        `db:"address"`
	Website          string        `db:"website"`
	Founded          sql.NullInt64 `db:"founded"`
	ClubColors       string        `db:"club_colors"`
	Venue            string        `db:"venue"`
	CoachName        string        `db:"coach_name"`
	CoachNationality string        `db:"coach_nationality"`
	LeagueRank       sql.NullInt64 `db:"league_rank"`
	LastUpdatedAt    sql.NullTime  `db:"last_updated_at"`
	CreatedAt        time.Time     `db:"created_at"`
	UpdatedAt        time.Time     `db:"updated_at"`
	DeletedAt        *time.Time    `db:"deleted_at"`
}

type teamInsertModel struct {
	ID               int           `db:"id"`
	Name             string        `db:"name"`
	ShortName        string        `db:"short_name"`
	TLA              string        `db:"tla"`
	CrestURL         string        `db:"crest_url"`
	Address          string        `db:"address"`
	Website          string        `db:"website"`
	Founded          sql.NullInt64 `db:"founded"`
	ClubColors       string        `db:"club_colors"`
	Venue            string        `db:"venue"`
	CoachName        string        `db:"coach_name"`
	CoachNationality string        `db:"coach_nationality"`
	LeagueRank       sql.NullInt64 `db:"league_rank"`
	LastUpdatedAt    *time.Time    `db:"last_updated_at"`
}
