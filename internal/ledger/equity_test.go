package ledger

import (
	"testing"

	"partsledger/backend/internal/domain"
)

func TestPartnerSharesProportional(t *testing.T) {
	partners := []domain.Partner{
		{ID: "pt1", Name: "A", OpeningCapital: 30000000},
		{ID: "pt2", Name: "B", OpeningCapital: 20000000},
		{ID: "pt3", Name: "C", OpeningCapital: 10000000},
	}

	shares := PartnerShares(partners, nil, 12000000)
	if len(shares) != 3 {
		t.Fatalf("expected 3 shares, got %d", len(shares))
	}

	wantShares := []float64{6000000, 4000000, 2000000}
	wantPercents := []float64{50, 100.0 / 3, 100.0 / 6}
	for i, s := range shares {
		if !almostEqual(s.Share, wantShares[i]) {
			t.Fatalf("share %d: expected %v, got %v", i, wantShares[i], s.Share)
		}
		if !almostEqual(s.Percent, wantPercents[i]) {
			t.Fatalf("percent %d: expected %v, got %v", i, wantPercents[i], s.Percent)
		}
	}

	totalPercent := 0.0
	totalShare := 0.0
	for _, s := range shares {
		totalPercent += s.Percent
		totalShare += s.Share
	}
	if !almostEqual(totalPercent, 100) {
		t.Fatalf("percents must sum to 100, got %v", totalPercent)
	}
	if !almostEqual(totalShare, 12000000) {
		t.Fatalf("shares must sum to total profit, got %v", totalShare)
	}
}

func TestPartnerSharesCapitalEventsMoveBasis(t *testing.T) {
	partners := []domain.Partner{
		{ID: "pt1", Name: "A", OpeningCapital: 1000},
		{ID: "pt2", Name: "B", OpeningCapital: 1000},
	}
	events := []domain.CapitalEvent{
		{PartnerID: "pt1", Type: domain.CapitalEventInvest, Amount: 2000},
		{PartnerID: "pt2", Type: domain.CapitalEventWithdraw, Amount: 500},
		{PartnerID: "pt2", Type: domain.CapitalEventInvest, Amount: 1500},
	}

	shares := PartnerShares(partners, events, 500)
	if shares[0].Basis != 3000 {
		t.Fatalf("expected basis 3000, got %v", shares[0].Basis)
	}
	if shares[1].Basis != 2000 {
		t.Fatalf("expected basis 2000, got %v", shares[1].Basis)
	}
	if !almostEqual(shares[0].Share, 300) || !almostEqual(shares[1].Share, 200) {
		t.Fatalf("unexpected shares %v / %v", shares[0].Share, shares[1].Share)
	}
}

func TestPartnerSharesZeroBasisDoesNotDivideByZero(t *testing.T) {
	partners := []domain.Partner{
		{ID: "pt1", Name: "A"},
		{ID: "pt2", Name: "B"},
	}

	shares := PartnerShares(partners, nil, 1000)
	for _, s := range shares {
		if s.Percent != 0 || s.Share != 0 {
			t.Fatalf("zero basis must yield zero allocation, got %+v", s)
		}
	}
}

func TestGrossProfitOnlyCountsSales(t *testing.T) {
	invoices := []domain.Invoice{
		{
			Type: domain.InvoiceTypeSale,
			Items: []domain.InvoiceItem{
				{LineTotal: 440000, CostAtSale: 300000},
			},
		},
		{
			Type: domain.InvoiceTypePurchase,
			Items: []domain.InvoiceItem{
				{LineTotal: 300000},
			},
		},
	}

	if got := GrossProfit(invoices); got != 140000 {
		t.Fatalf("expected 140000, got %v", got)
	}
}
