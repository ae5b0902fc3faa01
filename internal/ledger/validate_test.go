package ledger

import (
	"testing"

	"partsledger/backend/internal/domain"
)

func TestValidateProduct(t *testing.T) {
	existing := []domain.Product{{ID: "p1", SKU: "RES-10K"}}

	if v := ValidateProduct(domain.Product{ID: "p2", SKU: "CAP-100U", Name: "Capacitor 100uF", SellPriceDefault: 1200}, existing); len(v) != 0 {
		t.Fatalf("expected valid product, got %v", v)
	}

	v := ValidateProduct(domain.Product{ID: "p2", SKU: "", Name: "", SellPriceDefault: -5}, existing)
	if len(v) != 3 {
		t.Fatalf("expected 3 violations, got %v", v)
	}

	if v := ValidateProduct(domain.Product{ID: "p2", SKU: "RES-10K", Name: "Duplicate"}, existing); len(v) != 1 {
		t.Fatalf("expected duplicate sku violation, got %v", v)
	}

	// Updating a product keeps its own sku without tripping the check.
	if v := ValidateProduct(domain.Product{ID: "p1", SKU: "RES-10K", Name: "Resistor 10k"}, existing); len(v) != 0 {
		t.Fatalf("self sku must not count as duplicate, got %v", v)
	}
}

func TestValidateInvoice(t *testing.T) {
	if v := ValidateInvoice(&domain.Invoice{GrandTotal: 100, Items: []domain.InvoiceItem{{Qty: 1}}}); len(v) != 0 {
		t.Fatalf("expected valid invoice, got %v", v)
	}

	if v := ValidateInvoice(&domain.Invoice{}); len(v) == 0 {
		t.Fatalf("empty invoice must be invalid")
	}

	v := ValidateInvoice(&domain.Invoice{
		GrandTotal: -1,
		Items:      []domain.InvoiceItem{{Qty: 0}},
	})
	if len(v) != 2 {
		t.Fatalf("expected qty and total violations, got %v", v)
	}
}
