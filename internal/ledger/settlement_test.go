package ledger

import (
	"errors"
	"testing"
	"time"

	"partsledger/backend/internal/domain"
)

func testOptions() Options {
	seq := 0
	return Options{
		Method:             domain.InventoryMethodAVG,
		AllowNegativeStock: false,
		Now:                time.Date(2026, 3, 14, 10, 0, 0, 0, time.UTC),
		NewID: func(prefix string) string {
			seq++
			return prefix + "-test"
		},
		Actor: "admin",
	}
}

func testSnapshot() *Snapshot {
	snap := NewSnapshot()
	snap.Lots["p1"] = &domain.InventoryLot{ID: "lot-1", ProductID: "p1", AvgCost: 60000, QtyOnHand: 10}
	snap.Customers["c1"] = &domain.Party{ID: "c1", Type: domain.PartyTypeCustomer, Name: "Arman Electronics", Balance: 0}
	snap.Suppliers["s1"] = &domain.Party{ID: "s1", Type: domain.PartyTypeSupplier, Name: "Pars Components", Balance: 0}
	snap.Accounts["acc1"] = &domain.CashAccount{ID: "acc1", Name: "Register", Type: "cash", Balance: 1000000}
	return snap
}

func saleInvoice(qty, unitPrice, paid float64) *domain.Invoice {
	lineTotal := qty * unitPrice
	return &domain.Invoice{
		ID:              "inv-1",
		Type:            domain.InvoiceTypeSale,
		Number:          7,
		Date:            "2026-03-14",
		PartyType:       domain.PartyTypeCustomer,
		PartyID:         "c1",
		AccountID:       "acc1",
		Items:           []domain.InvoiceItem{{ProductID: "p1", Qty: qty, UnitPrice: unitPrice, LineTotal: lineTotal}},
		Subtotal:        lineTotal,
		GrandTotal:      lineTotal,
		PaidAmount:      paid,
		RemainingAmount: lineTotal - paid,
		Status:          domain.InvoiceStatusPaid,
	}
}

func TestSettleSaleUpdatesLotBalanceAndLedger(t *testing.T) {
	snap := testSnapshot()
	inv := saleInvoice(3, 80000, 240000)

	res, err := Settle(snap, inv, testOptions())
	if err != nil {
		t.Fatalf("settle failed: %v", err)
	}

	if snap.Lots["p1"].QtyOnHand != 7 {
		t.Fatalf("expected qty 7, got %v", snap.Lots["p1"].QtyOnHand)
	}
	if snap.Lots["p1"].AvgCost != 60000 {
		t.Fatalf("sale must not move avg cost, got %v", snap.Lots["p1"].AvgCost)
	}
	if snap.Customers["c1"].Balance != 0 {
		t.Fatalf("fully paid sale must leave customer balance untouched, got %v", snap.Customers["c1"].Balance)
	}
	if snap.Accounts["acc1"].Balance != 1240000 {
		t.Fatalf("expected account balance 1240000, got %v", snap.Accounts["acc1"].Balance)
	}
	if res.Entry.Category != domain.LedgerCategoryInvoice || res.Entry.Link == nil || res.Entry.Link.InvoiceID != "inv-1" {
		t.Fatalf("expected one invoice-linked ledger entry, got %+v", res.Entry)
	}
	if res.Entry.ToAccountID != "acc1" {
		t.Fatalf("sale proceeds must flow into the account, got %+v", res.Entry)
	}
}

func TestSettlePartiallyPaidSaleRaisesReceivable(t *testing.T) {
	snap := testSnapshot()
	inv := saleInvoice(2, 100000, 150000)
	inv.RemainingAmount = 50000
	inv.Status = domain.InvoiceStatusPartial

	if _, err := Settle(snap, inv, testOptions()); err != nil {
		t.Fatalf("settle failed: %v", err)
	}
	if snap.Customers["c1"].Balance != 50000 {
		t.Fatalf("expected receivable 50000, got %v", snap.Customers["c1"].Balance)
	}
}

func TestSettlePurchaseReweightsAverage(t *testing.T) {
	snap := testSnapshot()
	lineTotal := 5.0 * 70000
	inv := &domain.Invoice{
		ID:         "inv-2",
		Type:       domain.InvoiceTypePurchase,
		Number:     3,
		Date:       "2026-03-14",
		PartyType:  domain.PartyTypeSupplier,
		PartyID:    "s1",
		AccountID:  "acc1",
		Items:      []domain.InvoiceItem{{ProductID: "p1", Qty: 5, UnitPrice: 70000, LineTotal: lineTotal}},
		Subtotal:   lineTotal,
		GrandTotal: lineTotal,
		PaidAmount: lineTotal,
		Status:     domain.InvoiceStatusPaid,
	}

	if _, err := Settle(snap, inv, testOptions()); err != nil {
		t.Fatalf("settle failed: %v", err)
	}
	lot := snap.Lots["p1"]
	if lot.QtyOnHand != 15 {
		t.Fatalf("expected qty 15, got %v", lot.QtyOnHand)
	}
	if !almostEqual(lot.AvgCost, 63333.333333) {
		t.Fatalf("expected avg 63333.33, got %v", lot.AvgCost)
	}
	if snap.Accounts["acc1"].Balance != 1000000-lineTotal {
		t.Fatalf("purchase must draw down the account, got %v", snap.Accounts["acc1"].Balance)
	}
}

func TestSettleInsufficientStockRejectsBeforeMutation(t *testing.T) {
	snap := testSnapshot()
	inv := saleInvoice(25, 80000, 2000000)

	_, err := Settle(snap, inv, testOptions())
	if !errors.Is(err, ErrInsufficientStock) {
		t.Fatalf("expected ErrInsufficientStock, got %v", err)
	}
	if snap.Lots["p1"].QtyOnHand != 10 {
		t.Fatalf("rejection must not touch the lot, got %v", snap.Lots["p1"].QtyOnHand)
	}
	if snap.Accounts["acc1"].Balance != 1000000 {
		t.Fatalf("rejection must not touch the account, got %v", snap.Accounts["acc1"].Balance)
	}
	if snap.Customers["c1"].Balance != 0 {
		t.Fatalf("rejection must not touch the party, got %v", snap.Customers["c1"].Balance)
	}
}

func TestSettleMultiLineGuardChecksAllLinesFirst(t *testing.T) {
	snap := testSnapshot()
	snap.Lots["p2"] = &domain.InventoryLot{ID: "lot-2", ProductID: "p2", AvgCost: 1000, QtyOnHand: 1}

	inv := saleInvoice(2, 80000, 0)
	inv.PaidAmount = 0
	inv.RemainingAmount = inv.GrandTotal
	inv.Items = append(inv.Items, domain.InvoiceItem{ProductID: "p2", Qty: 5, UnitPrice: 2000, LineTotal: 10000})
	inv.GrandTotal += 10000

	_, err := Settle(snap, inv, testOptions())
	if !errors.Is(err, ErrInsufficientStock) {
		t.Fatalf("expected ErrInsufficientStock, got %v", err)
	}
	// First line had enough stock; it still must not have been consumed.
	if snap.Lots["p1"].QtyOnHand != 10 {
		t.Fatalf("all-or-nothing violated: p1 qty %v", snap.Lots["p1"].QtyOnHand)
	}
}

func TestSettleNegativeStockAllowedWhenConfigured(t *testing.T) {
	snap := testSnapshot()
	inv := saleInvoice(25, 80000, 2000000)

	opts := testOptions()
	opts.AllowNegativeStock = true
	if _, err := Settle(snap, inv, opts); err != nil {
		t.Fatalf("settle failed: %v", err)
	}
	// Stock-out still clamps at zero; the flag only skips the guard.
	if snap.Lots["p1"].QtyOnHand != 0 {
		t.Fatalf("expected qty clamped at 0, got %v", snap.Lots["p1"].QtyOnHand)
	}
}

func TestSettleEmptyInvoiceIsValidationError(t *testing.T) {
	snap := testSnapshot()
	inv := saleInvoice(1, 1000, 1000)
	inv.Items = nil

	_, err := Settle(snap, inv, testOptions())
	var verr *ValidationError
	if !errors.As(err, &verr) || len(verr.Violations) == 0 {
		t.Fatalf("expected validation error with violations, got %v", err)
	}
	if snap.Accounts["acc1"].Balance != 1000000 || snap.Lots["p1"].QtyOnHand != 10 {
		t.Fatalf("validation failure must not mutate state")
	}
}

func TestSettleRejectsFIFO(t *testing.T) {
	snap := testSnapshot()
	opts := testOptions()
	opts.Method = domain.InventoryMethodFIFO

	_, err := Settle(snap, saleInvoice(1, 1000, 1000), opts)
	if !errors.Is(err, ErrUnsupportedMethod) {
		t.Fatalf("expected ErrUnsupportedMethod, got %v", err)
	}
}

func TestSettleMissingAccountIsNotFound(t *testing.T) {
	snap := testSnapshot()
	inv := saleInvoice(1, 1000, 1000)
	inv.AccountID = "ghost"

	_, err := Settle(snap, inv, testOptions())
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestSettleReturnDrawsStockDown(t *testing.T) {
	snap := testSnapshot()
	inv := &domain.Invoice{
		ID:         "inv-3",
		Type:       domain.InvoiceTypeReturn,
		Number:     1,
		Date:       "2026-03-15",
		PartyType:  domain.PartyTypeCash,
		Items:      []domain.InvoiceItem{{ProductID: "p1", Qty: 2, UnitPrice: 60000, LineTotal: 120000}},
		GrandTotal: 120000,
		PaidAmount: 120000,
		Status:     domain.InvoiceStatusPaid,
		AccountID:  "acc1",
	}

	if _, err := Settle(snap, inv, testOptions()); err != nil {
		t.Fatalf("settle failed: %v", err)
	}
	if snap.Lots["p1"].QtyOnHand != 8 {
		t.Fatalf("return must draw stock down like a sale, got %v", snap.Lots["p1"].QtyOnHand)
	}
	if snap.Lots["p1"].AvgCost != 60000 {
		t.Fatalf("stock-out must not move the average, got %v", snap.Lots["p1"].AvgCost)
	}
	if snap.Accounts["acc1"].Balance != 880000 {
		t.Fatalf("return refund must leave the account, got %v", snap.Accounts["acc1"].Balance)
	}
}

func TestSettlePartyCustomerReceipt(t *testing.T) {
	snap := testSnapshot()
	snap.Customers["c1"].Balance = 90000

	res, err := SettleParty(snap, domain.PartyTypeCustomer, "c1", "acc1", 40000, testOptions())
	if err != nil {
		t.Fatalf("settle party failed: %v", err)
	}
	if snap.Customers["c1"].Balance != 50000 {
		t.Fatalf("expected balance 50000, got %v", snap.Customers["c1"].Balance)
	}
	if snap.Accounts["acc1"].Balance != 1040000 {
		t.Fatalf("expected account 1040000, got %v", snap.Accounts["acc1"].Balance)
	}
	if res.Entry.Category != domain.LedgerCategoryReceiveFromCustomer {
		t.Fatalf("unexpected category %s", res.Entry.Category)
	}
}

func TestSettlePartySupplierPayment(t *testing.T) {
	snap := testSnapshot()
	snap.Suppliers["s1"].Balance = 75000

	res, err := SettleParty(snap, domain.PartyTypeSupplier, "s1", "acc1", 75000, testOptions())
	if err != nil {
		t.Fatalf("settle party failed: %v", err)
	}
	if snap.Suppliers["s1"].Balance != 0 {
		t.Fatalf("expected payable cleared, got %v", snap.Suppliers["s1"].Balance)
	}
	if snap.Accounts["acc1"].Balance != 925000 {
		t.Fatalf("expected account 925000, got %v", snap.Accounts["acc1"].Balance)
	}
	if res.Entry.FromAccountID != "acc1" {
		t.Fatalf("supplier payment must leave the account, got %+v", res.Entry)
	}
}

func TestApplyCashEntryKinds(t *testing.T) {
	snap := testSnapshot()
	snap.Accounts["acc2"] = &domain.CashAccount{ID: "acc2", Name: "Bank", Type: "bank", Balance: 500000}

	if _, err := ApplyCashEntry(snap, domain.LedgerCategoryExpense, 30000, "acc1", "", "rent", testOptions()); err != nil {
		t.Fatalf("expense failed: %v", err)
	}
	if snap.Accounts["acc1"].Balance != 970000 {
		t.Fatalf("expected 970000 after expense, got %v", snap.Accounts["acc1"].Balance)
	}

	if _, err := ApplyCashEntry(snap, domain.LedgerCategoryIncome, 10000, "", "acc2", "interest", testOptions()); err != nil {
		t.Fatalf("income failed: %v", err)
	}
	if snap.Accounts["acc2"].Balance != 510000 {
		t.Fatalf("expected 510000 after income, got %v", snap.Accounts["acc2"].Balance)
	}

	res, err := ApplyCashEntry(snap, domain.LedgerCategoryTransfer, 100000, "acc1", "acc2", "float top-up", testOptions())
	if err != nil {
		t.Fatalf("transfer failed: %v", err)
	}
	if snap.Accounts["acc1"].Balance != 870000 || snap.Accounts["acc2"].Balance != 610000 {
		t.Fatalf("transfer balances wrong: %v / %v", snap.Accounts["acc1"].Balance, snap.Accounts["acc2"].Balance)
	}
	if res.Entry.FromAccountID != "acc1" || res.Entry.ToAccountID != "acc2" {
		t.Fatalf("transfer entry must name both accounts, got %+v", res.Entry)
	}

	if _, err := ApplyCashEntry(snap, "bogus", 100, "acc1", "", "", testOptions()); err == nil {
		t.Fatalf("expected unknown kind to be rejected")
	}
}
