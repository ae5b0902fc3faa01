package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"partsledger/backend/internal/cache"
	"partsledger/backend/internal/domain"
	"partsledger/backend/internal/ledger"
	"partsledger/backend/internal/money"
	"partsledger/backend/internal/store"
	"partsledger/backend/internal/xid"
)

type actorContextKey struct{}

func WithActor(ctx context.Context, actor domain.Actor) context.Context {
	return context.WithValue(ctx, actorContextKey{}, actor)
}

func ActorFromContext(ctx context.Context) (domain.Actor, bool) {
	actor, ok := ctx.Value(actorContextKey{}).(domain.Actor)
	return actor, ok
}

const partnerReportCacheKey = "report:partners"

// Options carries the tunables the service reads from configuration.
type Options struct {
	InventoryMethod    string
	AllowNegativeStock bool
	DefaultAccountID   string
	ReportCacheTTL     time.Duration
}

type Service struct {
	repo             store.Repository
	reports          cache.ReportCache
	inventoryMethod  string
	allowNegative    bool
	defaultAccountID string
	reportTTL        time.Duration
}

func New(repo store.Repository, reports cache.ReportCache, opts Options) *Service {
	if reports == nil {
		reports = cache.NoopReportCache{}
	}
	if opts.InventoryMethod == "" {
		opts.InventoryMethod = domain.InventoryMethodAVG
	}
	if opts.ReportCacheTTL < time.Second {
		opts.ReportCacheTTL = 30 * time.Second
	}

	return &Service{
		repo:             repo,
		reports:          reports,
		inventoryMethod:  opts.InventoryMethod,
		allowNegative:    opts.AllowNegativeStock,
		defaultAccountID: opts.DefaultAccountID,
		reportTTL:        opts.ReportCacheTTL,
	}
}

func (s *Service) ListProducts(ctx context.Context) ([]domain.Product, error) {
	return s.repo.ListProducts(ctx)
}

func (s *Service) CreateProduct(ctx context.Context, req domain.ProductCreateRequest) (domain.Product, error) {
	actor, ok := ActorFromContext(ctx)
	if !ok || actor.Role != "admin" {
		return domain.Product{}, fmt.Errorf("admin role required")
	}

	product := domain.Product{
		ID:               xid.New("prd"),
		SKU:              strings.ToUpper(strings.TrimSpace(req.SKU)),
		Name:             strings.TrimSpace(req.Name),
		Category:         strings.TrimSpace(req.Category),
		Brand:            strings.TrimSpace(req.Brand),
		Unit:             strings.TrimSpace(req.Unit),
		Barcode:          strings.TrimSpace(req.Barcode),
		SellPriceDefault: req.SellPriceDefault,
		MinStock:         req.MinStock,
		Location:         strings.TrimSpace(req.Location),
		Active:           true,
		CreatedAt:        time.Now().UTC(),
		UpdatedAt:        time.Now().UTC(),
	}

	existing, err := s.repo.ListProducts(ctx)
	if err != nil {
		return domain.Product{}, err
	}
	if violations := ledger.ValidateProduct(product, existing); len(violations) > 0 {
		return domain.Product{}, &ledger.ValidationError{Violations: violations}
	}

	created, err := s.repo.CreateProduct(ctx, product)
	if err != nil {
		return domain.Product{}, err
	}

	s.logAudit(ctx, "product_create", "product", created.ID, fmt.Sprintf("sku=%s,name=%s", created.SKU, created.Name))

	return *created, nil
}

func (s *Service) UpdateProduct(ctx context.Context, id string, req domain.ProductUpdateRequest) (domain.Product, error) {
	actor, ok := ActorFromContext(ctx)
	if !ok || actor.Role != "admin" {
		return domain.Product{}, fmt.Errorf("admin role required")
	}

	existing, err := s.repo.GetProduct(ctx, id)
	if err != nil {
		return domain.Product{}, err
	}

	updated := *existing
	if req.Name != nil {
		updated.Name = strings.TrimSpace(*req.Name)
	}
	if req.Category != nil {
		updated.Category = strings.TrimSpace(*req.Category)
	}
	if req.Brand != nil {
		updated.Brand = strings.TrimSpace(*req.Brand)
	}
	if req.SellPriceDefault != nil {
		updated.SellPriceDefault = *req.SellPriceDefault
	}
	if req.MinStock != nil {
		updated.MinStock = *req.MinStock
	}
	if req.Location != nil {
		updated.Location = strings.TrimSpace(*req.Location)
	}
	if req.Active != nil {
		updated.Active = *req.Active
	}
	updated.UpdatedAt = time.Now().UTC()

	all, err := s.repo.ListProducts(ctx)
	if err != nil {
		return domain.Product{}, err
	}
	if violations := ledger.ValidateProduct(updated, all); len(violations) > 0 {
		return domain.Product{}, &ledger.ValidationError{Violations: violations}
	}

	saved, err := s.repo.UpdateProduct(ctx, updated)
	if err != nil {
		return domain.Product{}, err
	}

	s.logAudit(ctx, "product_update", "product", saved.ID, fmt.Sprintf("active=%t,price=%v", saved.Active, saved.SellPriceDefault))

	return *saved, nil
}

func (s *Service) ListLots(ctx context.Context) ([]domain.InventoryLot, error) {
	return s.repo.ListLots(ctx)
}

// CreateInvoice computes totals, assigns the next sequential number, captures
// the cost basis of sale lines, settles the invoice against inventory and
// balances, and persists everything in one repository mutation.
func (s *Service) CreateInvoice(ctx context.Context, draft domain.InvoiceDraft) (domain.Invoice, error) {
	switch draft.Type {
	case domain.InvoiceTypeSale, domain.InvoiceTypePurchase, domain.InvoiceTypeReturn:
	default:
		return domain.Invoice{}, &ledger.ValidationError{Violations: []string{fmt.Sprintf("unknown invoice type %q", draft.Type)}}
	}

	if draft.Date == "" {
		draft.Date = time.Now().UTC().Format("2006-01-02")
	}
	if draft.AccountID == "" {
		draft.AccountID = s.defaultAccountID
	}

	partyType := domain.PartyTypeCash
	if draft.PartyID != "" {
		party, err := s.repo.GetParty(ctx, draft.PartyID)
		if err != nil {
			return domain.Invoice{}, err
		}
		partyType = party.Type
		if draft.Type == domain.InvoiceTypeSale && partyType != domain.PartyTypeCustomer {
			return domain.Invoice{}, &ledger.ValidationError{Violations: []string{"sale invoices require a customer party"}}
		}
		if draft.Type == domain.InvoiceTypePurchase && partyType != domain.PartyTypeSupplier {
			return domain.Invoice{}, &ledger.ValidationError{Violations: []string{"purchase invoices require a supplier party"}}
		}
	}

	items, err := s.buildItems(ctx, draft)
	if err != nil {
		return domain.Invoice{}, err
	}

	subtotal := money.SumBy(items, func(item domain.InvoiceItem) float64 { return item.LineTotal })
	discountTotal := money.SumBy(items, func(item domain.InvoiceItem) float64 { return item.Discount })
	taxAmount := 0.0
	if draft.TaxEnabled {
		taxAmount = money.Round2(subtotal * draft.TaxPercent / 100)
	}
	grandTotal := money.Round2(subtotal + taxAmount + draft.Shipping)

	paid := grandTotal
	if draft.PaidAmount != nil {
		paid = *draft.PaidAmount
	}
	if paid < 0 || paid > grandTotal {
		return domain.Invoice{}, &ledger.ValidationError{Violations: []string{"paid amount out of range"}}
	}
	remaining := money.Round2(grandTotal - paid)

	status := domain.InvoiceStatusPaid
	switch {
	case remaining == grandTotal && grandTotal > 0:
		status = domain.InvoiceStatusUnpaid
	case remaining > 0:
		status = domain.InvoiceStatusPartial
	}

	maxNumber, err := s.repo.MaxInvoiceNumber(ctx, draft.Type)
	if err != nil {
		return domain.Invoice{}, err
	}

	actor, _ := ActorFromContext(ctx)
	now := time.Now().UTC()

	method := draft.PaymentMethod
	if method == "" {
		method = "cash"
	}
	var payments []domain.Payment
	if paid > 0 {
		payments = []domain.Payment{{Method: method, Amount: paid}}
	}

	inv := domain.Invoice{
		ID:              xid.New("inv"),
		Type:            draft.Type,
		Number:          maxNumber + 1,
		Date:            draft.Date,
		PartyType:       partyType,
		PartyID:         draft.PartyID,
		AccountID:       draft.AccountID,
		Items:           items,
		Subtotal:        subtotal,
		DiscountTotal:   discountTotal,
		TaxEnabled:      draft.TaxEnabled,
		TaxPercent:      draft.TaxPercent,
		TaxAmount:       taxAmount,
		Shipping:        draft.Shipping,
		GrandTotal:      grandTotal,
		Payments:        payments,
		PaidAmount:      paid,
		RemainingAmount: remaining,
		Status:          status,
		Note:            strings.TrimSpace(draft.Note),
		CreatedBy:       actor.Username,
		CreatedAt:       now,
		UpdatedAt:       now,
	}

	snap, err := s.snapshot(ctx)
	if err != nil {
		return domain.Invoice{}, err
	}

	// Cost basis must be captured before settlement: a stock-out leaves the
	// average untouched, but the lot record may be created in the same call.
	if inv.Type == domain.InvoiceTypeSale {
		for i := range inv.Items {
			inv.Items[i].CostAtSale = ledger.CostAtSale(snap.Lots, inv.Items[i].ProductID, inv.Items[i].Qty)
		}
	}

	settlement, err := ledger.Settle(snap, &inv, s.ledgerOptions(actor))
	if err != nil {
		return domain.Invoice{}, err
	}

	if err := s.repo.ApplyMutation(ctx, mutationFor(&inv, settlement)); err != nil {
		return domain.Invoice{}, err
	}

	s.logAudit(ctx, "invoice_create", "invoice", inv.ID, fmt.Sprintf("type=%s,number=%d,total=%v,status=%s", inv.Type, inv.Number, inv.GrandTotal, inv.Status))

	// Only sale invoices feed the partner profit report.
	if inv.Type == domain.InvoiceTypeSale {
		s.invalidatePartnerReport(ctx)
	}

	return inv, nil
}

func (s *Service) buildItems(ctx context.Context, draft domain.InvoiceDraft) ([]domain.InvoiceItem, error) {
	items := make([]domain.InvoiceItem, 0, len(draft.Lines))
	for _, line := range draft.Lines {
		if line.ProductID == "" {
			return nil, &ledger.ValidationError{Violations: []string{"line product id required"}}
		}
		product, err := s.repo.GetProduct(ctx, line.ProductID)
		if err != nil {
			if errors.Is(err, store.ErrNotFound) {
				return nil, &ledger.ValidationError{Violations: []string{fmt.Sprintf("unknown product %q", line.ProductID)}}
			}
			return nil, err
		}

		unitPrice := line.UnitPrice
		if unitPrice == 0 && draft.Type == domain.InvoiceTypeSale {
			unitPrice = product.SellPriceDefault
		}

		items = append(items, domain.InvoiceItem{
			ProductID:    product.ID,
			SKUSnapshot:  product.SKU,
			NameSnapshot: product.Name,
			Qty:          line.Qty,
			Unit:         product.Unit,
			UnitPrice:    unitPrice,
			Discount:     line.Discount,
			LineTotal:    money.Round2(line.Qty*unitPrice - line.Discount),
		})
	}
	return items, nil
}

func (s *Service) ListInvoices(ctx context.Context, invoiceType string) ([]domain.Invoice, error) {
	return s.repo.ListInvoices(ctx, invoiceType)
}

func (s *Service) GetInvoice(ctx context.Context, id string) (domain.Invoice, error) {
	inv, err := s.repo.GetInvoice(ctx, id)
	if err != nil {
		return domain.Invoice{}, err
	}
	return *inv, nil
}

// SettleParty records a manual receipt from a customer or payment to a
// supplier against the party's open balance.
func (s *Service) SettleParty(ctx context.Context, req domain.PartySettlementRequest) (domain.LedgerTransaction, error) {
	party, err := s.repo.GetParty(ctx, req.PartyID)
	if err != nil {
		return domain.LedgerTransaction{}, err
	}
	if req.AccountID == "" {
		req.AccountID = s.defaultAccountID
	}

	snap, err := s.snapshot(ctx)
	if err != nil {
		return domain.LedgerTransaction{}, err
	}

	actor, _ := ActorFromContext(ctx)
	settlement, err := ledger.SettleParty(snap, party.Type, req.PartyID, req.AccountID, req.Amount, s.ledgerOptions(actor))
	if err != nil {
		return domain.LedgerTransaction{}, err
	}

	if err := s.repo.ApplyMutation(ctx, mutationFor(nil, settlement)); err != nil {
		return domain.LedgerTransaction{}, err
	}

	s.logAudit(ctx, "party_settle", "party", req.PartyID, fmt.Sprintf("amount=%v,account=%s", req.Amount, req.AccountID))

	return settlement.Entry, nil
}

// RecordCashEntry posts an expense, income, or transfer between accounts.
func (s *Service) RecordCashEntry(ctx context.Context, req domain.CashEntryRequest) (domain.LedgerTransaction, error) {
	snap, err := s.snapshot(ctx)
	if err != nil {
		return domain.LedgerTransaction{}, err
	}

	actor, _ := ActorFromContext(ctx)
	settlement, err := ledger.ApplyCashEntry(snap, req.Kind, req.Amount, req.FromAccountID, req.ToAccountID, strings.TrimSpace(req.Description), s.ledgerOptions(actor))
	if err != nil {
		return domain.LedgerTransaction{}, err
	}

	if err := s.repo.ApplyMutation(ctx, mutationFor(nil, settlement)); err != nil {
		return domain.LedgerTransaction{}, err
	}

	s.logAudit(ctx, "cash_entry", "ledger", settlement.Entry.ID, fmt.Sprintf("kind=%s,amount=%v", req.Kind, req.Amount))

	return settlement.Entry, nil
}

func (s *Service) ListParties(ctx context.Context, partyType string) ([]domain.Party, error) {
	return s.repo.ListParties(ctx, partyType)
}

func (s *Service) CreateParty(ctx context.Context, req domain.PartyCreateRequest) (domain.Party, error) {
	if req.Type != domain.PartyTypeCustomer && req.Type != domain.PartyTypeSupplier {
		return domain.Party{}, &ledger.ValidationError{Violations: []string{fmt.Sprintf("unknown party type %q", req.Type)}}
	}
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return domain.Party{}, &ledger.ValidationError{Violations: []string{"party name required"}}
	}

	prefix := "cus"
	if req.Type == domain.PartyTypeSupplier {
		prefix = "sup"
	}
	party := domain.Party{
		ID:        xid.New(prefix),
		Type:      req.Type,
		Name:      name,
		Phone:     strings.TrimSpace(req.Phone),
		Notes:     strings.TrimSpace(req.Notes),
		CreatedAt: time.Now().UTC(),
	}

	created, err := s.repo.CreateParty(ctx, party)
	if err != nil {
		return domain.Party{}, err
	}

	s.logAudit(ctx, "party_create", "party", created.ID, fmt.Sprintf("type=%s,name=%s", created.Type, created.Name))

	return *created, nil
}

func (s *Service) ListAccounts(ctx context.Context) ([]domain.CashAccount, error) {
	return s.repo.ListAccounts(ctx)
}

func (s *Service) CreateAccount(ctx context.Context, req domain.AccountCreateRequest) (domain.CashAccount, error) {
	actor, ok := ActorFromContext(ctx)
	if !ok || actor.Role != "admin" {
		return domain.CashAccount{}, fmt.Errorf("admin role required")
	}
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return domain.CashAccount{}, &ledger.ValidationError{Violations: []string{"account name required"}}
	}

	account := domain.CashAccount{
		ID:      xid.New("acc"),
		Name:    name,
		Type:    strings.TrimSpace(req.Type),
		Balance: req.Balance,
	}

	created, err := s.repo.CreateAccount(ctx, account)
	if err != nil {
		return domain.CashAccount{}, err
	}

	s.logAudit(ctx, "account_create", "account", created.ID, fmt.Sprintf("name=%s,opening=%v", created.Name, created.Balance))

	return *created, nil
}

func (s *Service) ListLedger(ctx context.Context, limit int) ([]domain.LedgerTransaction, error) {
	return s.repo.ListLedger(ctx, limit)
}

func (s *Service) ListPartners(ctx context.Context) ([]domain.Partner, error) {
	return s.repo.ListPartners(ctx)
}

func (s *Service) CreatePartner(ctx context.Context, req domain.PartnerCreateRequest) (domain.Partner, error) {
	actor, ok := ActorFromContext(ctx)
	if !ok || actor.Role != "admin" {
		return domain.Partner{}, fmt.Errorf("admin role required")
	}
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return domain.Partner{}, &ledger.ValidationError{Violations: []string{"partner name required"}}
	}
	if req.OpeningCapital < 0 {
		return domain.Partner{}, &ledger.ValidationError{Violations: []string{"opening capital must not be negative"}}
	}

	partner := domain.Partner{
		ID:             xid.New("ptr"),
		Name:           name,
		Notes:          strings.TrimSpace(req.Notes),
		OpeningCapital: req.OpeningCapital,
		Active:         true,
		CreatedAt:      time.Now().UTC(),
	}

	created, err := s.repo.CreatePartner(ctx, partner)
	if err != nil {
		return domain.Partner{}, err
	}

	s.logAudit(ctx, "partner_create", "partner", created.ID, fmt.Sprintf("name=%s,opening=%v", created.Name, created.OpeningCapital))
	s.invalidatePartnerReport(ctx)

	return *created, nil
}

func (s *Service) RecordCapitalEvent(ctx context.Context, req domain.CapitalEventRequest) (domain.CapitalEvent, error) {
	actor, ok := ActorFromContext(ctx)
	if !ok || actor.Role != "admin" {
		return domain.CapitalEvent{}, fmt.Errorf("admin role required")
	}
	if req.Type != domain.CapitalEventInvest && req.Type != domain.CapitalEventWithdraw {
		return domain.CapitalEvent{}, &ledger.ValidationError{Violations: []string{fmt.Sprintf("unknown capital event type %q", req.Type)}}
	}
	if req.Amount <= 0 {
		return domain.CapitalEvent{}, &ledger.ValidationError{Violations: []string{"amount must be positive"}}
	}

	partners, err := s.repo.ListPartners(ctx)
	if err != nil {
		return domain.CapitalEvent{}, err
	}
	known := false
	for _, partner := range partners {
		if partner.ID == req.PartnerID {
			known = true
			break
		}
	}
	if !known {
		return domain.CapitalEvent{}, store.ErrNotFound
	}

	if req.Date == "" {
		req.Date = time.Now().UTC().Format("2006-01-02")
	}

	event := domain.CapitalEvent{
		ID:        xid.New("cap"),
		PartnerID: req.PartnerID,
		Type:      req.Type,
		Amount:    req.Amount,
		Date:      req.Date,
		Note:      strings.TrimSpace(req.Note),
	}

	created, err := s.repo.CreateCapitalEvent(ctx, event)
	if err != nil {
		return domain.CapitalEvent{}, err
	}

	s.logAudit(ctx, "capital_event", "partner", req.PartnerID, fmt.Sprintf("type=%s,amount=%v", req.Type, req.Amount))
	s.invalidatePartnerReport(ctx)

	return *created, nil
}

func (s *Service) ListCapitalEvents(ctx context.Context, partnerID string) ([]domain.CapitalEvent, error) {
	return s.repo.ListCapitalEvents(ctx, partnerID)
}

func (s *Service) invalidatePartnerReport(ctx context.Context) {
	if err := s.reports.Invalidate(ctx, partnerReportCacheKey); err != nil {
		log.Printf("[service] WARN: partner report cache invalidation failed: %v", err)
	}
}

// PartnerReport allocates gross profit across partners by capital basis.
// The computed report is cached briefly since it walks every sale invoice.
func (s *Service) PartnerReport(ctx context.Context) (domain.PartnerReport, error) {
	if cached, ok, err := s.reports.Get(ctx, partnerReportCacheKey); err == nil && ok {
		return *cached, nil
	} else if err != nil {
		log.Printf("[service] WARN: partner report cache read failed: %v", err)
	}

	partners, err := s.repo.ListPartners(ctx)
	if err != nil {
		return domain.PartnerReport{}, err
	}
	events, err := s.repo.ListCapitalEvents(ctx, "")
	if err != nil {
		return domain.PartnerReport{}, err
	}
	invoices, err := s.repo.ListInvoices(ctx, domain.InvoiceTypeSale)
	if err != nil {
		return domain.PartnerReport{}, err
	}

	profit := ledger.GrossProfit(invoices)
	report := domain.PartnerReport{
		GeneratedAt: time.Now().UTC().Format(time.RFC3339),
		TotalProfit: profit,
		Shares:      ledger.PartnerShares(partners, events, profit),
	}

	if err := s.reports.Set(ctx, partnerReportCacheKey, &report, s.reportTTL); err != nil {
		log.Printf("[service] WARN: partner report cache write failed: %v", err)
	}

	return report, nil
}

func (s *Service) Summary(ctx context.Context) (domain.SummaryReport, error) {
	invoices, err := s.repo.ListInvoices(ctx, "")
	if err != nil {
		return domain.SummaryReport{}, err
	}
	lots, err := s.repo.ListLots(ctx)
	if err != nil {
		return domain.SummaryReport{}, err
	}

	report := domain.SummaryReport{}
	for _, inv := range invoices {
		switch inv.Type {
		case domain.InvoiceTypeSale:
			report.TotalSales += inv.GrandTotal
		case domain.InvoiceTypePurchase:
			report.TotalPurchases += inv.GrandTotal
		}
	}
	report.GrossProfit = ledger.GrossProfit(invoices)
	for _, lot := range lots {
		report.InventoryValue += lot.AvgCost * lot.QtyOnHand
	}

	return report, nil
}

// Export assembles the full dataset for backup or migration.
func (s *Service) Export(ctx context.Context) (domain.Dataset, error) {
	var ds domain.Dataset
	var err error

	if ds.Products, err = s.repo.ListProducts(ctx); err != nil {
		return domain.Dataset{}, err
	}
	if ds.InventoryLots, err = s.repo.ListLots(ctx); err != nil {
		return domain.Dataset{}, err
	}
	if ds.Customers, err = s.repo.ListParties(ctx, domain.PartyTypeCustomer); err != nil {
		return domain.Dataset{}, err
	}
	if ds.Suppliers, err = s.repo.ListParties(ctx, domain.PartyTypeSupplier); err != nil {
		return domain.Dataset{}, err
	}
	if ds.CashAccounts, err = s.repo.ListAccounts(ctx); err != nil {
		return domain.Dataset{}, err
	}
	if ds.Invoices, err = s.repo.ListInvoices(ctx, ""); err != nil {
		return domain.Dataset{}, err
	}
	if ds.Ledger, err = s.repo.ListLedger(ctx, 0); err != nil {
		return domain.Dataset{}, err
	}
	if ds.Partners, err = s.repo.ListPartners(ctx); err != nil {
		return domain.Dataset{}, err
	}
	if ds.CapitalEvents, err = s.repo.ListCapitalEvents(ctx, ""); err != nil {
		return domain.Dataset{}, err
	}

	s.logAudit(ctx, "export", "dataset", "all", fmt.Sprintf("invoices=%d,products=%d", len(ds.Invoices), len(ds.Products)))

	return ds, nil
}

func (s *Service) ListAuditLogs(ctx context.Context, limit int) ([]domain.AuditLog, error) {
	return s.repo.ListAuditLogs(ctx, limit)
}

func (s *Service) snapshot(ctx context.Context) (*ledger.Snapshot, error) {
	snap := ledger.NewSnapshot()

	lots, err := s.repo.ListLots(ctx)
	if err != nil {
		return nil, err
	}
	for i := range lots {
		lot := lots[i]
		snap.Lots[lot.ProductID] = &lot
	}

	parties, err := s.repo.ListParties(ctx, "")
	if err != nil {
		return nil, err
	}
	for i := range parties {
		party := parties[i]
		switch party.Type {
		case domain.PartyTypeCustomer:
			snap.Customers[party.ID] = &party
		case domain.PartyTypeSupplier:
			snap.Suppliers[party.ID] = &party
		}
	}

	accounts, err := s.repo.ListAccounts(ctx)
	if err != nil {
		return nil, err
	}
	for i := range accounts {
		account := accounts[i]
		snap.Accounts[account.ID] = &account
	}

	return snap, nil
}

func (s *Service) ledgerOptions(actor domain.Actor) ledger.Options {
	return ledger.Options{
		Method:             s.inventoryMethod,
		AllowNegativeStock: s.allowNegative,
		NewID:              xid.New,
		Actor:              actor.Username,
	}
}

func (s *Service) logAudit(ctx context.Context, action string, entity string, entityID string, detail string) {
	actor, ok := ActorFromContext(ctx)
	if !ok {
		actor = domain.Actor{Username: "system", Role: "system"}
	}

	if err := s.repo.CreateAuditLog(ctx, domain.AuditLog{
		ID:        xid.New("audit"),
		Actor:     actor.Username,
		ActorRole: actor.Role,
		Action:    action,
		Entity:    entity,
		EntityID:  entityID,
		Detail:    detail,
		CreatedAt: time.Now().UTC(),
	}); err != nil {
		log.Printf("[audit] WARN: failed to write audit log action=%s entity=%s/%s: %v", action, entity, entityID, err)
	}
}

func mutationFor(inv *domain.Invoice, settlement *ledger.Settlement) store.Mutation {
	m := store.Mutation{Invoice: inv}
	for _, lot := range settlement.Lots {
		m.Lots = append(m.Lots, *lot)
	}
	if settlement.Party != nil {
		m.Parties = append(m.Parties, *settlement.Party)
	}
	for _, account := range settlement.Accounts {
		m.Accounts = append(m.Accounts, *account)
	}
	entry := settlement.Entry
	m.Entry = &entry
	return m
}
