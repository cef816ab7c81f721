package postgres

import (
	"database/sql"
	"time"
)

type standingTableModel struct {
	ID             int64        `db:"id"`
	CompetitionID  int          `db:"competition_id"`
	TeamID         int          `db:"team_id"`
	Position       int          `db:"position"`
	Played         int          `db:"played"`
	Won            int          `db:"won"`
	Draw           int          `db:"draw"`
	Lost           int          `db:"lost"`
	Points         int          `db:"points"`
	GoalsFor       int          `db:"goals_for"`
	GoalsAgainst   int          `db:"goals_against"`
	GoalDifference int          `db:"goal_difference"`
	Form           string       `db:"form"`
	LastUpdatedAt  sql.NullTime `db:"last_updated_at"`
	CreatedAt      time.Time    `db:"created_at"`
	UpdatedAt      time.Time    `db:"updated_at"`
	DeletedAt      *time.Time   `db:"deleted_at"`
}

type standingInsertModel struct {
	CompetitionID  int        `db:"competition_id"`
	TeamID         int        `db:"team_id"`
	Position       int        `db:"position"`
	Played         int        `db:"played"`
	Won            int        `db:"won"`
	Draw           int        `db:"draw"`
	Lost           int        `db:"lost"`
	Points         int        `db:"points"`
	GoalsFor       int        `db:"goals_for"`
	GoalsAgainst   int        `db:"goals_against"`
	GoalDifference int        `db:"goal_difference"`
	Form           string     `db:"form"`
	LastUpdatedAt  *time.Time `db:"last_updated_at"`
}
