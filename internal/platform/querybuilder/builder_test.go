package querybuilder

import "testing"

func TestSelectBuilder(t *testing.T) {
	query, args, err := Select("id", "name").
		From("teams").
		Where(Eq("competition_id", 2013), IsNull("deleted_at")).
		OrderBy("name").
		Limit(20).
		ToSQL()
	if err != nil {
		t.Fatalf("build select query: %v", err)
	}

	wantQuery := "SELECT id, name FROM teams WHERE competition_id = $1 AND deleted_at IS NULL ORDER BY name LIMIT 20"
	if query != wantQuery {
		t.Fatalf("unexpected query:\nwant: %s\ngot:  %s", wantQuery, query)
	}
	if len(args) != 1 || args[0] != 2013 {
		t.Fatalf("unexpected args: %+v", args)
	}
}

func TestSelectBuilderIn(t *testing.T) {
	query, args, err := Select("id").
		From("fixtures").
		Where(In("status", []any{"SCHEDULED", "TIMED"})).
		ToSQL()
	if err != nil {
		t.Fatalf("build select query: %v", err)
	}

	wantQuery := "SELECT id FROM fixtures WHERE status IN ($1, $2)"
	if query != wantQuery {
		t.Fatalf("unexpected query:\nwant: %s\ngot:  %s", wantQuery, query)
	}
	if len(args) != 2 || args[0] != "SCHEDULED" || args[1] != "TIMED" {
		t.Fatalf("unexpected args: %+v", args)
	}
}

func TestInsertBuilder(t *testing.T) {
	query, args, err := InsertInto("competitions").
		Columns("id", "name").
		Values(2013, "Serie A").
		Suffix("ON CONFLICT (id) DO UPDATE SET name = EXCLUDED.name").
		ToSQL()
	if err != nil {
		t.Fatalf("build insert query: %v", err)
	}

	wantQuery := "INSERT INTO competitions (id, name) VALUES ($1, $2) ON CONFLICT (id) DO UPDATE SET name = EXCLUDED.name"
	if query != wantQuery {
		t.Fatalf("unexpected query:\nwant: %s\ngot:  %s", wantQuery, query)
	}
	if len(args) != 2 || args[0] != 2013 || args[1] != "Serie A" {
		t.Fatalf("unexpected args: %+v", args)
	}
}

func TestInsertModel(t *testing.T) {
	type row struct {
		ID   int    `db:"id"`
		Name string `db:"name"`
		Skip string `db:"-"`
	}

	builder, err := InsertModel("teams", row{ID: 64, Name: "Liverpool FC", Skip: "x"})
	if err != nil {
		t.Fatalf("build model insert: %v", err)
	}

	query, args, err := builder.ToSQL()
	if err != nil {
		t.Fatalf("build insert query: %v", err)
	}

	wantQuery := "INSERT INTO teams (id, name) VALUES ($1, $2)"
	if query != wantQuery {
		t.Fatalf("unexpected query:\nwant: %s\ngot:  %s", wantQuery, query)
	}
	if len(args) != 2 || args[0] != 64 || args[1] != "Liverpool FC" {
		t.Fatalf("unexpected args: %+v", args)
	}
}

func TestUpdateBuilder(t *testing.T) {
	query, args, err := Update("standings").
		Set("points", 42).
		SetExpr("updated_at", "NOW()").
		Where(Eq("team_id", 64), IsNull("deleted_at")).
		ToSQL()
	if err != nil {
		t.Fatalf("build update query: %v", err)
	}

	wantQuery := "UPDATE standings SET points = $1, updated_at = NOW() WHERE team_id = $2 AND deleted_at IS NULL"
	if query != wantQuery {
		t.Fatalf("unexpected query:\nwant: %s\ngot:  %s", wantQuery, query)
	}
	if len(args) != 2 || args[0] != 42 || args[1] != 64 {
		t.Fatalf("unexpected args: %+v", args)
	}
}
