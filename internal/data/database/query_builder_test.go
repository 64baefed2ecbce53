package database

import (
	"strings"
	"testing"
)

func TestBuildListQuery_BasicSelect(t *testing.T) {
	opts := NewListQueryOptions("enterprises")
	query, args := BuildListQuery(opts)

	expected := `SELECT * FROM "enterprises"`
	if query != expected {
		t.Errorf("Expected query %q, got %q", expected, query)
	}
	if len(args) != 0 {
		t.Errorf("Expected 0 args, got %d", len(args))
	}
}

func TestBuildListQuery_WithColumns(t *testing.T) {
	opts := NewListQueryOptions("enterprises",
		WithColumns("id", "guild_id", "name"),
	)
	query, args := BuildListQuery(opts)

	expected := `SELECT "id", "guild_id", "name" FROM "enterprises"`
	if query != expected {
		t.Errorf("Expected query %q, got %q", expected, query)
	}
	if len(args) != 0 {
		t.Errorf("Expected 0 args, got %d", len(args))
	}
}

func TestBuildListQuery_WithQualifiedColumns(t *testing.T) {
	opts := NewListQueryOptions("archives",
		WithColumns("archives.id", "archives.kind", "enterprises.name"),
	)
	query, args := BuildListQuery(opts)

	expected := `SELECT "archives"."id", "archives"."kind", "enterprises"."name" FROM "archives"`
	if query != expected {
		t.Errorf("Expected query %q, got %q", expected, query)
	}
	if len(args) != 0 {
		t.Errorf("Expected 0 args, got %d", len(args))
	}
}

func TestBuildListQuery_CountOnly(t *testing.T) {
	opts := NewListQueryOptions("enterprises",
		WithCountOnly(),
		WithCondition(WhereCond("blanchiment_enabled", Equal, true)),
	)
	query, args := BuildListQuery(opts)

	expected := `SELECT COUNT(*) FROM "enterprises" WHERE "blanchiment_enabled" = $1`
	if query != expected {
		t.Errorf("Expected query %q, got %q", expected, query)
	}
	if len(args) != 1 || args[0] != true {
		t.Errorf("Expected args [true], got %v", args)
	}
}

func TestBuildListQuery_WhereConditions(t *testing.T) {
	opts := NewListQueryOptions("blanchiment_operations",
		WithCondition(WhereCond("status", Equal, "pending")),
		WithCondition(WhereCond("amount", GreaterThan, 1000)),
	)
	query, args := BuildListQuery(opts)

	expected := `SELECT * FROM "blanchiment_operations" WHERE "status" = $1 AND "amount" > $2`
	if query != expected {
		t.Errorf("Expected query %q, got %q", expected, query)
	}
	if len(args) != 2 || args[0] != "pending" || args[1] != 1000 {
		t.Errorf("Expected args [pending, 1000], got %v", args)
	}
}

func TestBuildListQuery_WhereILike(t *testing.T) {
	opts := NewListQueryOptions("enterprises",
		WithCondition(WhereCond("name", ILike, "%bennys%")),
	)
	query, args := BuildListQuery(opts)

	expected := `SELECT * FROM "enterprises" WHERE "name" ILIKE $1`
	if query != expected {
		t.Errorf("Expected query %q, got %q", expected, query)
	}
	if len(args) != 1 || args[0] != "%bennys%" {
		t.Errorf("Expected args [%%bennys%%], got %v", args)
	}
}

func TestBuildListQuery_WhereIn_StringSlice(t *testing.T) {
	opts := NewListQueryOptions("archives",
		WithCondition(WhereCond("kind", In, []string{"dotation", "impot", "blanchiment"})),
	)
	query, args := BuildListQuery(opts)

	expected := `SELECT * FROM "archives" WHERE "kind" IN ($1, $2, $3)`
	if query != expected {
		t.Errorf("Expected query %q, got %q", expected, query)
	}
	if len(args) != 3 || args[0] != "dotation" || args[1] != "impot" || args[2] != "blanchiment" {
		t.Errorf("Expected args [dotation, impot, blanchiment], got %v", args)
	}
}

func TestBuildListQuery_WhereIn_IntSlice(t *testing.T) {
	opts := NewListQueryOptions("tax_brackets",
		WithCondition(WhereCond("position", In, []int{1, 2, 3})),
	)
	query, args := BuildListQuery(opts)

	expected := `SELECT * FROM "tax_brackets" WHERE "position" IN ($1, $2, $3)`
	if query != expected {
		t.Errorf("Expected query %q, got %q", expected, query)
	}
	if len(args) != 3 || args[0] != 1 || args[1] != 2 || args[2] != 3 {
		t.Errorf("Expected args [1, 2, 3], got %v", args)
	}
}

func TestBuildListQuery_WhereIn_EmptySliceSkipped(t *testing.T) {
	opts := NewListQueryOptions("archives",
		WithCondition(WhereCond("kind", In, []string{})),
	)
	query, args := BuildListQuery(opts)

	expected := `SELECT * FROM "archives"`
	if query != expected {
		t.Errorf("Expected query %q, got %q", expected, query)
	}
	if len(args) != 0 {
		t.Errorf("Expected 0 args, got %d", len(args))
	}
}

func TestBuildListQuery_OrderBy(t *testing.T) {
	opts := NewListQueryOptions("archives",
		WithOrderBy("created_at", "DESC"),
	)
	query, args := BuildListQuery(opts)

	expected := `SELECT * FROM "archives" ORDER BY "created_at" DESC`
	if query != expected {
		t.Errorf("Expected query %q, got %q", expected, query)
	}
	if len(args) != 0 {
		t.Errorf("Expected 0 args, got %d", len(args))
	}
}

func TestBuildListQuery_OrderBy_InvalidDirectionDropped(t *testing.T) {
	opts := NewListQueryOptions("archives",
		WithOrderBy("created_at", "DESC; DROP TABLE archives"),
	)
	query, _ := BuildListQuery(opts)

	expected := `SELECT * FROM "archives" ORDER BY "created_at"`
	if query != expected {
		t.Errorf("Expected query %q, got %q", expected, query)
	}
}

func TestBuildListQuery_LimitOffset(t *testing.T) {
	opts := NewListQueryOptions("dotation_reports",
		WithLimit(10),
		WithOffset(20),
	)
	query, args := BuildListQuery(opts)

	expected := `SELECT * FROM "dotation_reports" LIMIT $1 OFFSET $2`
	if query != expected {
		t.Errorf("Expected query %q, got %q", expected, query)
	}
	if len(args) != 2 || args[0] != 10 || args[1] != 20 {
		t.Errorf("Expected args [10, 20], got %v", args)
	}
}

func TestBuildListQuery_ComplexQuery(t *testing.T) {
	opts := NewListQueryOptions("archives",
		WithColumns("id", "enterprise_id", "kind"),
		WithCondition(WhereCond("enterprise_id", Equal, "ent-1")),
		WithCondition(WhereCond("kind", In, []string{"dotation", "impot"})),
		WithOrderBy("created_at", "DESC"),
		WithLimit(50),
		WithOffset(0),
	)
	query, args := BuildListQuery(opts)

	expected := `SELECT "id", "enterprise_id", "kind" FROM "archives" WHERE "enterprise_id" = $1 AND "kind" IN ($2, $3) ORDER BY "created_at" DESC LIMIT $4 OFFSET $5`
	if query != expected {
		t.Errorf("Expected query %q, got %q", expected, query)
	}
	if len(args) != 5 {
		t.Errorf("Expected 5 args, got %d: %v", len(args), args)
	}
}

func TestBuildListQuery_SQLInjectionPrevention(t *testing.T) {
	// Attempt SQL injection via table name
	opts := NewListQueryOptions("archives; DROP TABLE archives;--")
	query, _ := BuildListQuery(opts)

	// The entire malicious string becomes a quoted identifier
	expected := `SELECT * FROM "archives; DROP TABLE archives;--"`
	if query != expected {
		t.Errorf("Expected %q, got %q", expected, query)
	}
	if !strings.Contains(query, `"archives; DROP TABLE archives;--"`) {
		t.Errorf("Table name not properly quoted: %q", query)
	}
}

func TestBuildListQuery_NilOptions(t *testing.T) {
	query, args := BuildListQuery(nil)
	if query != "" || args != nil {
		t.Errorf("Expected empty query for nil options, got %q / %v", query, args)
	}
}
