package querybuilder

import "testing"

func TestSelectBuilder(t *testing.T) {
	query, args, err := Select("public_id", "year").
		From("seasons").
		Where(Eq("competition_id", "premier"), IsNull("closed_at")).
		OrderBy("year DESC").
		Limit(10).
		ToSQL()
	if err != nil {
		t.Fatalf("build select query: %v", err)
	}

	wantQuery := "SELECT public_id, year FROM seasons WHERE competition_id = $1 AND closed_at IS NULL ORDER BY year DESC LIMIT 10"
	if query != wantQuery {
		t.Fatalf("unexpected query:\nwant: %s\ngot:  %s", wantQuery, query)
	}
	if len(args) != 1 || args[0] != "premier" {
		t.Fatalf("unexpected args: %+v", args)
	}
}

func TestInsertModel(t *testing.T) {
	query, args, err := InsertModel("seasons", rowModel{SeasonID: "s", Round: 1}, "RETURNING id")
	if err != nil {
		t.Fatalf("build insert query: %v", err)
	}

	wantQuery := "INSERT INTO seasons (season_public_id, round) VALUES ($1, $2) RETURNING id"
	if query != wantQuery {
		t.Fatalf("unexpected query:\nwant: %s\ngot:  %s", wantQuery, query)
	}
	if len(args) != 2 || args[0] != "s" || args[1] != 1 {
		t.Fatalf("unexpected args: %+v", args)
	}
}

func TestUpdateBuilder_ConditionalStatus(t *testing.T) {
	query, args, err := Update("season_fixtures").
		Set("status", "FINISHED").
		SetExpr("updated_at", "NOW()").
		Where(Eq("public_id", "s-r01-m01"), EqLiteral("status", "SCHEDULED")).
		ToSQL()
	if err != nil {
		t.Fatalf("build update query: %v", err)
	}

	wantQuery := "UPDATE season_fixtures SET status = $1, updated_at = NOW() WHERE public_id = $2 AND status = 'SCHEDULED'"
	if query != wantQuery {
		t.Fatalf("unexpected query:\nwant: %s\ngot:  %s", wantQuery, query)
	}
	if len(args) != 2 || args[0] != "FINISHED" || args[1] != "s-r01-m01" {
		t.Fatalf("unexpected args: %+v", args)
	}
}

type rowModel struct {
	SeasonID string `db:"season_public_id"`
	Round    int    `db:"round"`
	skipped  string
	Ignored  string `db:"-"`
}

func TestInsertModels(t *testing.T) {
	query, args, err := InsertModels("season_fixtures", []rowModel{
		{SeasonID: "s", Round: 1},
		{SeasonID: "s", Round: 2},
	}, "ON CONFLICT DO NOTHING")
	if err != nil {
		t.Fatalf("build insert models query: %v", err)
	}

	wantQuery := "INSERT INTO season_fixtures (season_public_id, round) VALUES ($1, $2), ($3, $4) ON CONFLICT DO NOTHING"
	if query != wantQuery {
		t.Fatalf("unexpected query:\nwant: %s\ngot:  %s", wantQuery, query)
	}
	if len(args) != 4 || args[2] != "s" || args[3] != 2 {
		t.Fatalf("unexpected args: %+v", args)
	}

	if _, _, err := InsertModels[rowModel]("season_fixtures", nil, ""); err == nil {
		t.Fatalf("expected error for empty models")
	}
}

func TestUpdateBuilder_SetExprArgs(t *testing.T) {
	query, args, err := Update("seasons").
		SetExpr("version", "version + ?", 1).
		Set("current_round", 4).
		Where(Eq("version", int64(3))).
		ToSQL()
	if err != nil {
		t.Fatalf("build update query: %v", err)
	}

	wantQuery := "UPDATE seasons SET version = version + $1, current_round = $2 WHERE version = $3"
	if query != wantQuery {
		t.Fatalf("unexpected query:\nwant: %s\ngot:  %s", wantQuery, query)
	}
	if len(args) != 3 || args[0] != 1 || args[1] != 4 || args[2] != int64(3) {
		t.Fatalf("unexpected args: %+v", args)
	}

	if _, _, err := Update("seasons").ToSQL(); err == nil {
		t.Fatalf("expected error for update without sets")
	}
}
