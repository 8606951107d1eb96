package migrations

import (
	"context"
	"testing"

	"github.com/uptrace/bun"

	"github.com/chainsafe/token-wallet/pkg/pgutil"
)

type noteDao struct {
	bun.BaseModel `bun:"table:notes"`
	ID            int64  `bun:",pk,autoincrement"`
	Owner         string `bun:",notnull,type:varchar(100)"`
	Body          string `bun:",nullzero"`
}

func TestSchemaHelpers(t *testing.T) {
	db, cleanup := pgutil.SetupTestDB(t)
	defer cleanup()
	ctx := context.Background()

	if err := CreateSchema(ctx, db, &noteDao{}); err != nil {
		t.Fatalf("CreateSchema() failed: %v", err)
	}
	if err := CreateSchema(ctx, db, &noteDao{}); err != nil {
		t.Fatalf("CreateSchema() second call failed: %v", err)
	}
	pgutil.AssertTableExists(t, db, "notes")

	if err := CreateModelIndexes(ctx, db, &noteDao{}, "owner", "owner, id"); err != nil {
		t.Fatalf("CreateModelIndexes() failed: %v", err)
	}
	pgutil.AssertIndexExists(t, db, "idx_notes_owner")
	pgutil.AssertIndexExists(t, db, "idx_notes_owner_id")

	if _, err := db.NewInsert().Model(&noteDao{Owner: "a", Body: "x"}).Exec(ctx); err != nil {
		t.Fatalf("insert failed: %v", err)
	}
	pgutil.AssertRowCount(t, db, "notes", 1)

	if err := TruncateTables(ctx, db, &noteDao{}); err != nil {
		t.Fatalf("TruncateTables() failed: %v", err)
	}
	pgutil.AssertRowCount(t, db, "notes", 0)

	if err := DropTables(ctx, db, &noteDao{}); err != nil {
		t.Fatalf("DropTables() failed: %v", err)
	}
	pgutil.AssertTableNotExists(t, db, "notes")
}
