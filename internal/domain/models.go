package domain

import "time"

type Product struct {
	ID               string    `json:"id"`
	SKU              string    `json:"sku"`
	Name             string    `json:"name"`
	Category         string    `json:"category"`
	Brand            string    `json:"brand"`
	Unit             string    `json:"unit"`
	Barcode          string    `json:"barcode"`
	SellPriceDefault float64   `json:"sell_price_default"`
	MinStock         float64   `json:"min_stock"`
	Location         string    `json:"location"`
	Active           bool      `json:"active"`
	CreatedAt        time.Time `json:"created_at"`
	UpdatedAt        time.Time `json:"updated_at"`
}

// InventoryLot is the single weighted-average inventory record for a product.
// Exactly one lot exists per product once the product has been referenced by
// an invoice; qty on hand never goes below zero.
type InventoryLot struct {
	ID        string    `json:"id"`
	ProductID string    `json:"product_id"`
	AvgCost   float64   `json:"avg_cost"`
	QtyOnHand float64   `json:"qty_on_hand"`
	UpdatedAt time.Time `json:"updated_at"`
}

type InvoiceItem struct {
	ProductID    string  `json:"product_id"`
	SKUSnapshot  string  `json:"sku_snapshot"`
	NameSnapshot string  `json:"name_snapshot"`
	Qty          float64 `json:"qty"`
	Unit         string  `json:"unit"`
	UnitPrice    float64 `json:"unit_price"`
	Discount     float64 `json:"discount"`
	LineTotal    float64 `json:"line_total"`
	CostAtSale   float64 `json:"cost_at_sale,omitempty"`
}

type Payment struct {
	Method string  `json:"method"`
	Amount float64 `json:"amount"`
}

type Invoice struct {
	ID              string        `json:"id"`
	Type            string        `json:"type"`
	Number          int           `json:"number"`
	Date            string        `json:"date"`
	PartyType       string        `json:"party_type"`
	PartyID         string        `json:"party_id,omitempty"`
	AccountID       string        `json:"account_id,omitempty"`
	Items           []InvoiceItem `json:"items"`
	Subtotal        float64       `json:"subtotal"`
	DiscountTotal   float64       `json:"discount_total"`
	TaxEnabled      bool          `json:"tax_enabled"`
	TaxPercent      float64       `json:"tax_percent"`
	TaxAmount       float64       `json:"tax_amount"`
	Shipping        float64       `json:"shipping"`
	GrandTotal      float64       `json:"grand_total"`
	Payments        []Payment     `json:"payments,omitempty"`
	PaidAmount      float64       `json:"paid_amount"`
	RemainingAmount float64       `json:"remaining_amount"`
	Status          string        `json:"status"`
	Note            string        `json:"note,omitempty"`
	CreatedBy       string        `json:"created_by"`
	CreatedAt       time.Time     `json:"created_at"`
	UpdatedAt       time.Time     `json:"updated_at"`
}

// Party is a customer or supplier. Balance is a running signed
// receivable/payable mutated only by settlements, never recomputed
// from history.
type Party struct {
	ID        string    `json:"id"`
	Type      string    `json:"type"`
	Name      string    `json:"name"`
	Phone     string    `json:"phone"`
	Notes     string    `json:"notes,omitempty"`
	Balance   float64   `json:"balance"`
	CreatedAt time.Time `json:"created_at"`
}

type CashAccount struct {
	ID      string  `json:"id"`
	Name    string  `json:"name"`
	Type    string  `json:"type"`
	Balance float64 `json:"balance"`
}

type LedgerLink struct {
	Type      string `json:"type"`
	InvoiceID string `json:"invoice_id"`
}

// LedgerTransaction is an immutable audit record of a single money movement.
// Entries are append-only and never mutated after creation.
type LedgerTransaction struct {
	ID            string      `json:"id"`
	Date          string      `json:"date"`
	Category      string      `json:"category"`
	Amount        float64     `json:"amount"`
	FromAccountID string      `json:"from_account_id,omitempty"`
	ToAccountID   string      `json:"to_account_id,omitempty"`
	PartyType     string      `json:"party_type,omitempty"`
	PartyID       string      `json:"party_id,omitempty"`
	Description   string      `json:"description,omitempty"`
	Link          *LedgerLink `json:"link,omitempty"`
	CreatedBy     string      `json:"created_by"`
	CreatedAt     time.Time   `json:"created_at"`
}

type Partner struct {
	ID             string    `json:"id"`
	Name           string    `json:"name"`
	Notes          string    `json:"notes,omitempty"`
	OpeningCapital float64   `json:"opening_capital"`
	Active         bool      `json:"active"`
	CreatedAt      time.Time `json:"created_at"`
}

// CapitalEvent is an append-only invest/withdraw record that drives a
// partner's effective capital basis.
type CapitalEvent struct {
	ID        string  `json:"id"`
	PartnerID string  `json:"partner_id"`
	Type      string  `json:"type"`
	Amount    float64 `json:"amount"`
	Date      string  `json:"date"`
	Note      string  `json:"note,omitempty"`
}

type PartnerShare struct {
	ID      string  `json:"id"`
	Name    string  `json:"name"`
	Basis   float64 `json:"basis"`
	Percent float64 `json:"percent"`
	Share   float64 `json:"share"`
}

type AuditLog struct {
	ID        string    `json:"id"`
	Actor     string    `json:"actor"`
	ActorRole string    `json:"actor_role"`
	Action    string    `json:"action"`
	Entity    string    `json:"entity"`
	EntityID  string    `json:"entity_id"`
	Detail    string    `json:"detail"`
	CreatedAt time.Time `json:"created_at"`
}

type Actor struct {
	Username string
	Role     string
}

// UserAccount is an internal persistence model for auth credentials.
type UserAccount struct {
	Username  string
	Password  string
	Role      string
	Active    bool
	CreatedAt time.Time
}

type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type LoginResponse struct {
	AccessToken string `json:"access_token"`
	Role        string `json:"role"`
	ExpiresAt   string `json:"expires_at"`
}

type CashierCreateRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type CashierUser struct {
	Username  string    `json:"username"`
	Role      string    `json:"role"`
	Active    bool      `json:"active"`
	CreatedAt time.Time `json:"created_at"`
}

type ProductCreateRequest struct {
	SKU              string  `json:"sku"`
	Name             string  `json:"name"`
	Category         string  `json:"category"`
	Brand            string  `json:"brand"`
	Unit             string  `json:"unit"`
	Barcode          string  `json:"barcode"`
	SellPriceDefault float64 `json:"sell_price_default"`
	MinStock         float64 `json:"min_stock"`
	Location         string  `json:"location"`
}

type ProductUpdateRequest struct {
	Name             *string  `json:"name,omitempty"`
	Category         *string  `json:"category,omitempty"`
	Brand            *string  `json:"brand,omitempty"`
	SellPriceDefault *float64 `json:"sell_price_default,omitempty"`
	MinStock         *float64 `json:"min_stock,omitempty"`
	Location         *string  `json:"location,omitempty"`
	Active           *bool    `json:"active,omitempty"`
}

type PartyCreateRequest struct {
	Type  string `json:"type"`
	Name  string `json:"name"`
	Phone string `json:"phone"`
	Notes string `json:"notes"`
}

type AccountCreateRequest struct {
	Name    string  `json:"name"`
	Type    string  `json:"type"`
	Balance float64 `json:"balance"`
}

type InvoiceLineDraft struct {
	ProductID string  `json:"product_id"`
	Qty       float64 `json:"qty"`
	UnitPrice float64 `json:"unit_price"`
	Discount  float64 `json:"discount"`
}

// InvoiceDraft is the caller-facing input for creating an invoice. Totals,
// numbering and cost capture are computed by the service; the draft carries
// only what the cashier entered.
type InvoiceDraft struct {
	Type          string             `json:"type"`
	Date          string             `json:"date"`
	PartyID       string             `json:"party_id"`
	AccountID     string             `json:"account_id"`
	Lines         []InvoiceLineDraft `json:"lines"`
	TaxEnabled    bool               `json:"tax_enabled"`
	TaxPercent    float64            `json:"tax_percent"`
	Shipping      float64            `json:"shipping"`
	PaymentMethod string             `json:"payment_method"`
	PaidAmount    *float64           `json:"paid_amount,omitempty"`
	Note          string             `json:"note"`
}

type PartySettlementRequest struct {
	PartyID   string  `json:"party_id"`
	AccountID string  `json:"account_id"`
	Amount    float64 `json:"amount"`
}

type CashEntryRequest struct {
	Kind          string  `json:"kind"`
	Amount        float64 `json:"amount"`
	FromAccountID string  `json:"from_account_id"`
	ToAccountID   string  `json:"to_account_id"`
	Description   string  `json:"description"`
}

type PartnerCreateRequest struct {
	Name           string  `json:"name"`
	Notes          string  `json:"notes"`
	OpeningCapital float64 `json:"opening_capital"`
}

type CapitalEventRequest struct {
	PartnerID string  `json:"partner_id"`
	Type      string  `json:"type"`
	Amount    float64 `json:"amount"`
	Date      string  `json:"date"`
	Note      string  `json:"note"`
}

type SummaryReport struct {
	TotalSales     float64 `json:"total_sales"`
	TotalPurchases float64 `json:"total_purchases"`
	GrossProfit    float64 `json:"gross_profit"`
	InventoryValue float64 `json:"inventory_value"`
}

type PartnerReport struct {
	GeneratedAt string         `json:"generated_at"`
	TotalProfit float64        `json:"total_profit"`
	Shares      []PartnerShare `json:"shares"`
}

// Dataset is the full exportable state of the shop, mirroring the
// collections the repository persists.
type Dataset struct {
	Products      []Product           `json:"products"`
	InventoryLots []InventoryLot      `json:"inventory_lots"`
	Customers     []Party             `json:"customers"`
	Suppliers     []Party             `json:"suppliers"`
	CashAccounts  []CashAccount       `json:"cash_accounts"`
	Invoices      []Invoice           `json:"invoices"`
	Ledger        []LedgerTransaction `json:"ledger"`
	Partners      []Partner           `json:"partners"`
	CapitalEvents []CapitalEvent      `json:"capital_events"`
}

const (
	InvoiceTypeSale     = "sale"
	InvoiceTypePurchase = "purchase"
	InvoiceTypeReturn   = "return"
)

const (
	InvoiceStatusPaid    = "paid"
	InvoiceStatusPartial = "partial"
	InvoiceStatusUnpaid  = "unpaid"
)

const (
	PartyTypeCustomer = "customer"
	PartyTypeSupplier = "supplier"
	PartyTypeCash     = "cash"
)

const (
	CapitalEventInvest   = "invest"
	CapitalEventWithdraw = "withdraw"
)

const (
	LedgerCategoryInvoice             = "invoice"
	LedgerCategoryReceiveFromCustomer = "receive_from_customer"
	LedgerCategoryPayToSupplier       = "pay_to_supplier"
	LedgerCategoryExpense             = "expense"
	LedgerCategoryIncome              = "income"
	LedgerCategoryTransfer            = "transfer"
)

const (
	InventoryMethodAVG = "AVG"
	// InventoryMethodFIFO is reserved; settlement rejects it until lot
	// batches are tracked.
	InventoryMethodFIFO = "FIFO"
)
