package ledger

import (
	"fmt"

	"partsledger/backend/internal/domain"
)

// Settle atomically applies a validated invoice to the snapshot: lot
// mutations, party balance, cash account balance, and exactly one ledger
// entry linking back to the invoice. Either every effect applies or none do;
// all rejections happen before the first mutation.
//
// For sales the cost basis must already be captured on each line via
// CostAtSale during invoice construction, since stock-out does not move the
// average but a purchase-side mutation in the same call would.
func Settle(snap *Snapshot, inv *domain.Invoice, opts Options) (*Settlement, error) {
	if violations := ValidateInvoice(inv); len(violations) > 0 {
		return nil, &ValidationError{Violations: violations}
	}
	if method := opts.method(); method != domain.InventoryMethodAVG {
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedMethod, method)
	}

	party, err := resolveParty(snap, inv.PartyType, inv.PartyID)
	if err != nil {
		return nil, err
	}

	var account *domain.CashAccount
	if inv.PaidAmount != 0 {
		account = snap.Accounts[inv.AccountID]
		if account == nil {
			return nil, fmt.Errorf("%w: cash account %q", ErrNotFound, inv.AccountID)
		}
	}

	// Stock-out guard: every sale line is checked before any lot mutates, so
	// a multi-line rejection leaves the snapshot untouched.
	if inv.Type == domain.InvoiceTypeSale && !opts.AllowNegativeStock {
		needed := make(map[string]float64, len(inv.Items))
		for _, item := range inv.Items {
			needed[item.ProductID] += item.Qty
		}
		for productID, qty := range needed {
			onHand := 0.0
			if lot := snap.Lots[productID]; lot != nil {
				onHand = lot.QtyOnHand
			}
			if onHand < qty {
				return nil, fmt.Errorf("%w: product %s has %v on hand, need %v", ErrInsufficientStock, productID, onHand, qty)
			}
		}
	}

	now := opts.now()
	result := &Settlement{}

	for _, item := range inv.Items {
		// Only purchases stock in; sales and returns draw stock down, with
		// the clamp in ApplyAverageCost bounding returns at zero.
		delta := -item.Qty
		if inv.Type == domain.InvoiceTypePurchase {
			delta = item.Qty
		}
		lot := ApplyAverageCost(snap.Lots, item.ProductID, delta, item.UnitPrice)
		if lot.ID == "" {
			lot.ID = opts.newID("lot")
		}
		lot.UpdatedAt = now
		result.Lots = appendLot(result.Lots, lot)
	}

	// Balance moves by the unpaid remainder, not the grand total, so a fully
	// paid invoice leaves the receivable/payable untouched.
	if party != nil {
		party.Balance += inv.RemainingAmount
		result.Party = party
	}

	if account != nil {
		if inv.Type == domain.InvoiceTypeSale {
			account.Balance += inv.PaidAmount
		} else {
			account.Balance -= inv.PaidAmount
		}
		result.Accounts = append(result.Accounts, account)
	}

	entry := domain.LedgerTransaction{
		ID:          opts.newID("lt"),
		Date:        inv.Date,
		Category:    domain.LedgerCategoryInvoice,
		Amount:      inv.GrandTotal,
		PartyType:   inv.PartyType,
		PartyID:     inv.PartyID,
		Description: fmt.Sprintf("%s invoice #%d", inv.Type, inv.Number),
		Link:        &domain.LedgerLink{Type: "invoice", InvoiceID: inv.ID},
		CreatedBy:   opts.Actor,
		CreatedAt:   now,
	}
	if account != nil {
		if inv.Type == domain.InvoiceTypeSale {
			entry.ToAccountID = account.ID
		} else {
			entry.FromAccountID = account.ID
		}
	}
	result.Entry = entry

	return result, nil
}

// SettleParty records a manual settlement against an open balance: a receipt
// from a customer or a payment to a supplier. The party balance drops by the
// amount in both cases; the cash account moves in for customers and out for
// suppliers.
func SettleParty(snap *Snapshot, partyType, partyID, accountID string, amount float64, opts Options) (*Settlement, error) {
	if amount <= 0 {
		return nil, &ValidationError{Violations: []string{"settlement amount must be positive"}}
	}

	party, err := resolveParty(snap, partyType, partyID)
	if err != nil {
		return nil, err
	}
	if party == nil {
		return nil, fmt.Errorf("%w: party %q", ErrNotFound, partyID)
	}
	account := snap.Accounts[accountID]
	if account == nil {
		return nil, fmt.Errorf("%w: cash account %q", ErrNotFound, accountID)
	}

	party.Balance -= amount
	entry := domain.LedgerTransaction{
		ID:          opts.newID("lt"),
		Date:        opts.now().Format("2006-01-02"),
		Amount:      amount,
		PartyType:   partyType,
		PartyID:     partyID,
		Description: "manual settlement",
		CreatedBy:   opts.Actor,
		CreatedAt:   opts.now(),
	}
	if partyType == domain.PartyTypeCustomer {
		account.Balance += amount
		entry.Category = domain.LedgerCategoryReceiveFromCustomer
		entry.ToAccountID = account.ID
	} else {
		account.Balance -= amount
		entry.Category = domain.LedgerCategoryPayToSupplier
		entry.FromAccountID = account.ID
	}

	return &Settlement{
		Party:    party,
		Accounts: []*domain.CashAccount{account},
		Entry:    entry,
	}, nil
}

// ApplyCashEntry posts an expense, income, or inter-account transfer and
// emits the matching ledger entry.
func ApplyCashEntry(snap *Snapshot, kind string, amount float64, fromID, toID, description string, opts Options) (*Settlement, error) {
	if amount <= 0 {
		return nil, &ValidationError{Violations: []string{"amount must be positive"}}
	}

	var from, to *domain.CashAccount
	switch kind {
	case domain.LedgerCategoryExpense:
		from = snap.Accounts[fromID]
		if from == nil {
			return nil, fmt.Errorf("%w: cash account %q", ErrNotFound, fromID)
		}
		from.Balance -= amount
	case domain.LedgerCategoryIncome:
		to = snap.Accounts[toID]
		if to == nil {
			return nil, fmt.Errorf("%w: cash account %q", ErrNotFound, toID)
		}
		to.Balance += amount
	case domain.LedgerCategoryTransfer:
		from = snap.Accounts[fromID]
		to = snap.Accounts[toID]
		if from == nil || to == nil {
			return nil, fmt.Errorf("%w: transfer accounts %q -> %q", ErrNotFound, fromID, toID)
		}
		from.Balance -= amount
		to.Balance += amount
	default:
		return nil, &ValidationError{Violations: []string{fmt.Sprintf("unknown cash entry kind %q", kind)}}
	}

	entry := domain.LedgerTransaction{
		ID:          opts.newID("lt"),
		Date:        opts.now().Format("2006-01-02"),
		Category:    kind,
		Amount:      amount,
		Description: description,
		CreatedBy:   opts.Actor,
		CreatedAt:   opts.now(),
	}
	result := &Settlement{Entry: entry}
	if from != nil {
		result.Entry.FromAccountID = from.ID
		result.Accounts = append(result.Accounts, from)
	}
	if to != nil {
		result.Entry.ToAccountID = to.ID
		result.Accounts = append(result.Accounts, to)
	}
	return result, nil
}

func resolveParty(snap *Snapshot, partyType, partyID string) (*domain.Party, error) {
	switch partyType {
	case domain.PartyTypeCustomer:
		party := snap.Customers[partyID]
		if party == nil {
			return nil, fmt.Errorf("%w: customer %q", ErrNotFound, partyID)
		}
		return party, nil
	case domain.PartyTypeSupplier:
		party := snap.Suppliers[partyID]
		if party == nil {
			return nil, fmt.Errorf("%w: supplier %q", ErrNotFound, partyID)
		}
		return party, nil
	default:
		// Cash invoices carry no party.
		return nil, nil
	}
}

func appendLot(lots []*domain.InventoryLot, lot *domain.InventoryLot) []*domain.InventoryLot {
	for _, existing := range lots {
		if existing == lot {
			return lots
		}
	}
	return append(lots, lot)
}
