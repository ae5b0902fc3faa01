// Package ledger is the accounting and inventory valuation engine: weighted
// average cost tracking, invoice settlement, manual party settlements, cash
// entries, and partner profit sharing. It owns no persistence and no clock;
// callers pass an explicit Snapshot of the records a settlement may touch and
// persist whatever comes back mutated.
package ledger

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"partsledger/backend/internal/domain"
)

var (
	// ErrInsufficientStock rejects a sale whose quantity exceeds stock on
	// hand. Checked for every line before any mutation is applied.
	ErrInsufficientStock = errors.New("insufficient stock")

	// ErrUnsupportedMethod rejects settlement under an inventory method the
	// engine does not implement (currently anything but AVG).
	ErrUnsupportedMethod = errors.New("unsupported inventory method")

	// ErrNotFound signals a referenced account or party missing from the
	// snapshot. The engine assumes referential integrity of incoming ids, so
	// this is a caller bug rather than a user-facing rejection.
	ErrNotFound = errors.New("referenced record not found")
)

// ValidationError carries the structural violations found in an invoice or
// product. It is returned before any state is touched.
type ValidationError struct {
	Violations []string
}

func (e *ValidationError) Error() string {
	return "validation failed: " + strings.Join(e.Violations, "; ")
}

// Snapshot is the in-memory working set a settlement operates on. The caller
// assembles it from the repository, hands it to the engine, and persists the
// records the returned Settlement names. Lots are keyed by product id, one
// lot per product.
type Snapshot struct {
	Lots      map[string]*domain.InventoryLot
	Customers map[string]*domain.Party
	Suppliers map[string]*domain.Party
	Accounts  map[string]*domain.CashAccount
}

func NewSnapshot() *Snapshot {
	return &Snapshot{
		Lots:      make(map[string]*domain.InventoryLot),
		Customers: make(map[string]*domain.Party),
		Suppliers: make(map[string]*domain.Party),
		Accounts:  make(map[string]*domain.CashAccount),
	}
}

// Options carries the configuration and the clock/identity collaborators a
// settlement needs.
type Options struct {
	Method             string
	AllowNegativeStock bool
	Now                time.Time
	NewID              func(prefix string) string
	Actor              string
}

func (o Options) method() string {
	if o.Method == "" {
		return domain.InventoryMethodAVG
	}
	return o.Method
}

func (o Options) now() time.Time {
	if o.Now.IsZero() {
		return time.Now().UTC()
	}
	return o.Now
}

func (o Options) newID(prefix string) string {
	if o.NewID == nil {
		return fmt.Sprintf("%s-%d", prefix, o.now().UnixNano())
	}
	return o.NewID(prefix)
}

// Settlement lists every record a ledger operation created or mutated, so
// the caller knows exactly what to persist.
type Settlement struct {
	Lots     []*domain.InventoryLot
	Party    *domain.Party
	Accounts []*domain.CashAccount
	Entry    domain.LedgerTransaction
}
