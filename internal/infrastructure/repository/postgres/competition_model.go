package postgres

import (
	"database/sql"
	"time"
)

type competitionTableModel struct {
	ID              int           `db:"id"`
	Name            string        `db:"name"`
	Code            string        `db:"code"`
	Type            string        `db:"type"`
	AreaName        string        `db:"area_name"`
	AreaCode        string        `db:"area_code"`
	EmblemURL       string        `db:"emblem_url"`
	CurrentMatchday sql.NullInt64 `db:"current_matchday"`
	Plan            string        `db:"plan"`
	LastUpdatedAt   sql.NullTime  `db:"last_updated_at"`
	CreatedAt       time.Time     `db:"created_at"`
	UpdatedAt       time.Time     `db:"updated_at"`
	DeletedAt       *time.Time    `db:"deleted_at"`
}

type competitionInsertModel struct {
	ID              int           `db:"id"`
	Name            string        `db:"name"`
	Code            string        `db:"code"`
	Type            string        `db:"type"`
	AreaName        string        `db:"area_name"`
	AreaCode        string        `db:"area_code"`
	EmblemURL       string        `db:"emblem_url"`
	CurrentMatchday sql.NullInt64 `db:"current_matchday"`
	Plan            string        `db:"plan"`
	LastUpdatedAt   *time.Time    `db:"last_updated_at"`
}
