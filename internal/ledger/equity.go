package ledger

import (
	"partsledger/backend/internal/domain"
	"partsledger/backend/internal/money"
)

// PartnerShares allocates totalProfit across partners in proportion to their
// capital basis (opening capital plus invests minus withdraws). It is a pure
// projection over history: nothing is persisted and every call recomputes
// from scratch.
func PartnerShares(partners []domain.Partner, events []domain.CapitalEvent, totalProfit float64) []domain.PartnerShare {
	shares := make([]domain.PartnerShare, 0, len(partners))
	for _, p := range partners {
		basis := p.OpeningCapital
		for _, ev := range events {
			if ev.PartnerID != p.ID {
				continue
			}
			switch ev.Type {
			case domain.CapitalEventInvest:
				basis += ev.Amount
			case domain.CapitalEventWithdraw:
				basis -= ev.Amount
			}
		}
		shares = append(shares, domain.PartnerShare{ID: p.ID, Name: p.Name, Basis: basis})
	}

	totalBasis := money.SumBy(shares, func(s domain.PartnerShare) float64 { return s.Basis })
	if totalBasis == 0 {
		// All-zero bases would divide by zero; every share comes out zero.
		totalBasis = 1
	}

	for i := range shares {
		shares[i].Percent = shares[i].Basis / totalBasis * 100
		shares[i].Share = shares[i].Basis / totalBasis * totalProfit
	}
	return shares
}

// InvoiceProfit is revenue minus captured cost of goods for one invoice.
func InvoiceProfit(inv domain.Invoice) float64 {
	revenue := money.SumBy(inv.Items, func(it domain.InvoiceItem) float64 { return it.LineTotal })
	cost := money.SumBy(inv.Items, func(it domain.InvoiceItem) float64 { return it.CostAtSale })
	return revenue - cost
}

// GrossProfit folds InvoiceProfit over all sale invoices.
func GrossProfit(invoices []domain.Invoice) float64 {
	total := 0.0
	for _, inv := range invoices {
		if inv.Type != domain.InvoiceTypeSale {
			continue
		}
		total += InvoiceProfit(inv)
	}
	return total
}
