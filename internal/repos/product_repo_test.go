package repos_test

import (
	"fmt"
	"sync/atomic"
	"testing"

	"github.com/jmoiron/sqlx"
	_ "modernc.org/sqlite" // pure-Go SQLite driver

	"sugarstudio/internal/domain"
	"sugarstudio/internal/repos"
)

var memdbSeq atomic.Int64

func memdb(t *testing.T) *sqlx.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:repomemdb%d?mode=memory&cache=shared", memdbSeq.Add(1))
	db, err := repos.OpenDB(dsn)
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

func TestDecrementStockTx_Guarded(t *testing.T) {
	db := memdb(t)
	repo := repos.NewProductRepo(db)

	tx, err := db.Beginx()
	if err != nil {
		t.Fatal(err)
	}
	defer tx.Rollback()

	// red-velvet seeds with stock 4
	if err := repo.DecrementStockTx(tx, "red-velvet", 3); err != nil {
		t.Fatal(err)
	}
	// only 1 left inside this tx; asking for 2 must refuse
	err = repo.DecrementStockTx(tx, "red-velvet", 2)
	if domain.KindOf(err) != domain.KindState {
		t.Fatalf("want state error on oversell, got %v", err)
	}
	if err := tx.Rollback(); err != nil {
		t.Fatal(err)
	}

	p, err := repo.Get("red-velvet")
	if err != nil {
		t.Fatal(err)
	}
	if p.StockQuantity != 4 {
		t.Fatalf("rollback should leave stock at 4, got %d", p.StockQuantity)
	}
}

func TestRestoreStockTx_RoundTrip(t *testing.T) {
	db := memdb(t)
	repo := repos.NewProductRepo(db)

	tx, err := db.Beginx()
	if err != nil {
		t.Fatal(err)
	}
	if err := repo.DecrementStockTx(tx, "sourdough", 7); err != nil {
		t.Fatal(err)
	}
	if err := repo.RestoreStockTx(tx, "sourdough", 7); err != nil {
		t.Fatal(err)
	}
	if err := tx.Commit(); err != nil {
		t.Fatal(err)
	}

	p, err := repo.Get("sourdough")
	if err != nil {
		t.Fatal(err)
	}
	if p.StockQuantity != 10 {
		t.Fatalf("want 10 after round trip, got %d", p.StockQuantity)
	}
}

func TestAdjustStock_Operations(t *testing.T) {
	db := memdb(t)
	repo := repos.NewProductRepo(db)

	p, err := repo.AdjustStock("choco-chip", "add", 2)
	if err != nil {
		t.Fatal(err)
	}
	if p.StockQuantity != 50 {
		t.Fatalf("add: want 50, got %d", p.StockQuantity)
	}

	p, err = repo.AdjustStock("choco-chip", "subtract", 10)
	if err != nil {
		t.Fatal(err)
	}
	if p.StockQuantity != 40 {
		t.Fatalf("subtract: want 40, got %d", p.StockQuantity)
	}

	_, err = repo.AdjustStock("choco-chip", "subtract", 1000)
	if domain.KindOf(err) != domain.KindState {
		t.Fatalf("subtract below zero should refuse, got %v", err)
	}

	p, err = repo.AdjustStock("choco-chip", "set", 12)
	if err != nil {
		t.Fatal(err)
	}
	if p.StockQuantity != 12 {
		t.Fatalf("set: want 12, got %d", p.StockQuantity)
	}

	_, err = repo.AdjustStock("choco-chip", "halve", 1)
	if domain.KindOf(err) != domain.KindValidation {
		t.Fatalf("unknown op should be rejected, got %v", err)
	}

	_, err = repo.AdjustStock("no-such", "add", 1)
	if domain.KindOf(err) != domain.KindNotFound {
		t.Fatalf("unknown product should be not_found, got %v", err)
	}
}

func TestProductList_Filters(t *testing.T) {
	db := memdb(t)
	repo := repos.NewProductRepo(db)

	cakes, err := repo.List(repos.ProductFilter{CategoryID: "cakes"})
	if err != nil {
		t.Fatal(err)
	}
	if len(cakes) != 2 {
		t.Fatalf("want 2 cakes, got %d", len(cakes))
	}

	hits, err := repo.List(repos.ProductFilter{Q: "chocolate"})
	if err != nil {
		t.Fatal(err)
	}
	if len(hits) != 2 { // truffle cake and chip cookie
		t.Fatalf("want 2 chocolate hits, got %d", len(hits))
	}

	featured := true
	feat, err := repo.List(repos.ProductFilter{Featured: &featured})
	if err != nil {
		t.Fatal(err)
	}
	if len(feat) != 2 {
		t.Fatalf("want 2 featured, got %d", len(feat))
	}
}
