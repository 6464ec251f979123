package repos_test

import (
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"sugarstudio/internal/domain"
	"sugarstudio/internal/repos"
)

func insertOrder(t *testing.T, repo *repos.OrderRepo, status domain.Status) domain.Order {
	t.Helper()
	tx, err := repo.BeginTx()
	if err != nil {
		t.Fatal(err)
	}
	defer tx.Rollback()

	o := domain.Order{
		ID:          uuid.NewString(),
		OrderNumber: "BK" + uuid.NewString()[:8],
		TotalAmount: decimal.RequireFromString("80.00"),
		Status:      status,
		OrderType:   domain.OrderTypePickup,
	}
	if err := repo.InsertTx(tx, &o); err != nil {
		t.Fatal(err)
	}
	item := domain.OrderItem{
		ID:        uuid.NewString(),
		OrderID:   o.ID,
		ProductID: "vanilla-cup",
		Quantity:  1,
		UnitPrice: decimal.RequireFromString("80.00"),
		Subtotal:  decimal.RequireFromString("80.00"),
	}
	if err := repo.InsertItemTx(tx, &item); err != nil {
		t.Fatal(err)
	}
	if err := tx.Commit(); err != nil {
		t.Fatal(err)
	}
	return o
}

func TestUpdateStatus_CompareAndSwap(t *testing.T) {
	db := memdb(t)
	repo := repos.NewOrderRepo(db)
	o := insertOrder(t, repo, domain.StatusPending)

	ok, err := repo.UpdateStatus(o.ID, domain.StatusPending, domain.StatusConfirmed)
	if err != nil {
		t.Fatal(err)
	}
	if !ok {
		t.Fatal("swap from the current status should land")
	}

	// A second writer still holding the stale read must lose.
	ok, err = repo.UpdateStatus(o.ID, domain.StatusPending, domain.StatusPreparing)
	if err != nil {
		t.Fatal(err)
	}
	if ok {
		t.Fatal("stale swap must not land")
	}

	got, err := repo.Get(o.ID)
	if err != nil {
		t.Fatal(err)
	}
	if got.Status != domain.StatusConfirmed {
		t.Fatalf("want confirmed, got %s", got.Status)
	}
}

func TestOrderGet_IncludesItems(t *testing.T) {
	db := memdb(t)
	repo := repos.NewOrderRepo(db)
	o := insertOrder(t, repo, domain.StatusPending)

	got, err := repo.Get(o.ID)
	if err != nil {
		t.Fatal(err)
	}
	if len(got.Items) != 1 {
		t.Fatalf("want 1 item, got %d", len(got.Items))
	}
	if got.Items[0].ProductName != "Vanilla Bean Cupcake" {
		t.Fatalf("want joined product name, got %q", got.Items[0].ProductName)
	}

	byNum, err := repo.ByNumber(o.OrderNumber)
	if err != nil {
		t.Fatal(err)
	}
	if byNum.ID != o.ID {
		t.Fatalf("lookup by number returned %s", byNum.ID)
	}
}

func TestOrderList_StatusFilter(t *testing.T) {
	db := memdb(t)
	repo := repos.NewOrderRepo(db)
	insertOrder(t, repo, domain.StatusPending)
	insertOrder(t, repo, domain.StatusPending)
	insertOrder(t, repo, domain.StatusDelivered)

	pending, err := repo.List(repos.OrderFilter{Status: "pending"})
	if err != nil {
		t.Fatal(err)
	}
	if len(pending) != 2 {
		t.Fatalf("want 2 pending, got %d", len(pending))
	}
	if pending[0].ItemCount != 1 {
		t.Fatalf("want item_count 1, got %d", pending[0].ItemCount)
	}

	all, err := repo.List(repos.OrderFilter{})
	if err != nil {
		t.Fatal(err)
	}
	if len(all) != 3 {
		t.Fatalf("want 3 orders, got %d", len(all))
	}
}
