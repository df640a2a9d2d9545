package postgres

import (
	"database/sql"
	"time"

	"github.com/lib/pq"
)

type seasonTableModel struct {
	ID              int64          `db:"id"`
	PublicID        string         `db:"public_id"`
	CompetitionID   string         `db:"competition_id"`
	Year            int            `db:"year"`
	CurrentRound    int            `db:"current_round"`
	CurrentDate     time.Time      `db:"current_match_date"`
	CompetitorIDs   pq.StringArray `db:"competitor_ids"`
	CompetitorNames pq.StringArray `db:"competitor_names"`
	IsCurrent       bool           `db:"is_current"`
	CreatedAt       time.Time      `db:"created_at"`
	UpdatedAt       time.Time      `db:"updated_at"`
	ClosedAt        sql.NullTime   `db:"closed_at"`
	Version         int64          `db:"version"`
}

type seasonInsertModel struct {
	PublicID        string         `db:"public_id"`
	CompetitionID   string         `db:"competition_id"`
	Year            int            `db:"year"`
	CurrentRound    int            `db:"current_round"`
	CurrentDate     time.Time      `db:"current_match_date"`
	CompetitorIDs   pq.StringArray `db:"competitor_ids"`
	CompetitorNames pq.StringArray `db:"competitor_names"`
	IsCurrent       bool           `db:"is_current"`
	CreatedAt       time.Time      `db:"created_at"`
	ClosedAt        *time.Time     `db:"closed_at"`
}

type seasonFixtureTableModel struct {
	ID               int64         `db:"id"`
	PublicID         string        `db:"public_id"`
	SeasonID         string        `db:"season_public_id"`
	CompetitionID    string        `db:"competition_id"`
	Round            int           `db:"round"`
	MatchDate        time.Time     `db:"match_date"`
	HomeCompetitorID string        `db:"home_competitor_id"`
	AwayCompetitorID string        `db:"away_competitor_id"`
	Status           string        `db:"status"`
	HomeScore        sql.NullInt64 `db:"home_score"`
	AwayScore        sql.NullInt64 `db:"away_score"`
	Events           string        `db:"events"`
	FinishedAt       sql.NullTime  `db:"finished_at"`
	CreatedAt        time.Time     `db:"created_at"`
	UpdatedAt        time.Time     `db:"updated_at"`
}

type seasonFixtureInsertModel struct {
	PublicID         string     `db:"public_id"`
	SeasonID         string     `db:"season_public_id"`
	CompetitionID    string     `db:"competition_id"`
	Round            int        `db:"round"`
	MatchDate        time.Time  `db:"match_date"`
	HomeCompetitorID string     `db:"home_competitor_id"`
	AwayCompetitorID string     `db:"away_competitor_id"`
	Status           string     `db:"status"`
	HomeScore        *int       `db:"home_score"`
	AwayScore        *int       `db:"away_score"`
	Events           string     `db:"events"`
	FinishedAt       *time.Time `db:"finished_at"`
}

type seasonStandingTableModel struct {
	ID             int64      `db:"id"`
	SeasonID       string     `db:"season_public_id"`
	CompetitorID   string     `db:"competitor_id"`
	Position       int        `db:"position"`
	Played         int        `db:"played"`
	Won            int        `db:"won"`
	Drawn          int        `db:"drawn"`
	Lost           int        `db:"lost"`
	GoalsFor       int        `db:"goals_for"`
	GoalsAgainst   int        `db:"goals_against"`
	GoalDifference int        `db:"goal_difference"`
	Points         int        `db:"points"`
	Form           string     `db:"form"`
	CreatedAt      time.Time  `db:"created_at"`
	UpdatedAt      time.Time  `db:"updated_at"`
	DeletedAt      *time.Time `db:"deleted_at"`
}

type seasonStandingInsertModel struct {
	SeasonID       string `db:"season_public_id"`
	CompetitorID   string `db:"competitor_id"`
	Position       int    `db:"position"`
	Played         int    `db:"played"`
	Won            int    `db:"won"`
	Drawn          int    `db:"drawn"`
	Lost           int    `db:"lost"`
	GoalsFor       int    `db:"goals_for"`
	GoalsAgainst   int    `db:"goals_against"`
	GoalDifference int    `db:"goal_difference"`
	Points         int    `db:"points"`
	Form           string `db:"form"`
}

type playerSeasonStatsTableModel struct {
	ID           int64     `db:"id"`
	SeasonID     string    `db:"season_public_id"`
	CompetitorID string    `db:"competitor_id"`
	PlayerID     string    `db:"player_id"`
	Appearances  int       `db:"appearances"`
	Goals        int       `db:"goals"`
	Assists      int       `db:"assists"`
	YellowCards  int       `db:"yellow_cards"`
	RedCards     int       `db:"red_cards"`
	CreatedAt    time.Time `db:"created_at"`
	UpdatedAt    time.Time `db:"updated_at"`
}

type playerSeasonStatsInsertModel struct {
	SeasonID     string `db:"season_public_id"`
	CompetitorID string `db:"competitor_id"`
	PlayerID     string `db:"player_id"`
	Appearances  int    `db:"appearances"`
	Goals        int    `db:"goals"`
	Assists      int    `db:"assists"`
	YellowCards  int    `db:"yellow_cards"`
	RedCards     int    `db:"red_cards"`
}
