package ledger

import "partsledger/backend/internal/domain"

// ValidateProduct returns the list of structural violations in a product
// record, checked against the existing catalog for sku uniqueness. An empty
// slice means valid; validation never mutates state and never errors.
func ValidateProduct(p domain.Product, existing []domain.Product) []string {
	var violations []string
	if p.Name == "" {
		violations = append(violations, "product name is required")
	}
	if p.SKU == "" {
		violations = append(violations, "product sku is required")
	}
	for _, other := range existing {
		if other.SKU == p.SKU && other.ID != p.ID {
			violations = append(violations, "product sku is already in use")
			break
		}
	}
	if p.SellPriceDefault < 0 {
		violations = append(violations, "sell price cannot be negative")
	}
	return violations
}

// ValidateInvoice checks an invoice before settlement: at least one line,
// strictly positive quantities, non-negative grand total.
func ValidateInvoice(inv *domain.Invoice) []string {
	var violations []string
	if len(inv.Items) == 0 {
		violations = append(violations, "at least one line item is required")
	}
	for _, item := range inv.Items {
		if item.Qty <= 0 {
			violations = append(violations, "line quantity must be positive")
			break
		}
	}
	if inv.GrandTotal < 0 {
		violations = append(violations, "grand total cannot be negative")
	}
	return violations
}
