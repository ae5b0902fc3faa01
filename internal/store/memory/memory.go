package memory

import (
	"context"
	"log"
	"os"
	"slices"
	"strings"
	"sync"
	"time"

	"golang.org/x/crypto/bcrypt"

	"partsledger/backend/internal/domain"
	"partsledger/backend/internal/store"
	"partsledger/backend/internal/xid"
)

type Store struct {
	mu            sync.RWMutex
	products      map[string]domain.Product
	lotsByProduct map[string]domain.InventoryLot
	partiesByID   map[string]domain.Party
	accountsByID  map[string]domain.CashAccount
	invoicesByID  map[string]domain.Invoice
	ledger        []domain.LedgerTransaction
	partnersByID  map[string]domain.Partner
	capitalEvents []domain.CapitalEvent
	auditLogs     []domain.AuditLog
	usersByName   map[string]domain.UserAccount
}

// seedUsers builds the initial in-memory accounts for dev/demo mode.
// Credentials come from SEED_ADMIN_PASSWORD and SEED_CASHIER_PASSWORD; unset
// means hardcoded dev defaults with a warning. Production deployments use
// PostgreSQL (DATABASE_URL) and never hit this path.
func seedUsers() map[string]domain.UserAccount {
	adminPwd := envOr("SEED_ADMIN_PASSWORD", "admin123")
	cashierPwd := envOr("SEED_CASHIER_PASSWORD", "cashier123")
	if os.Getenv("SEED_ADMIN_PASSWORD") == "" || os.Getenv("SEED_CASHIER_PASSWORD") == "" {
		log.Println("[memory-store] WARNING: using default dev credentials. Set SEED_ADMIN_PASSWORD and SEED_CASHIER_PASSWORD to override.")
	}

	now := time.Now().UTC()
	users := map[string]domain.UserAccount{}
	for _, u := range []struct {
		username string
		password string
		role     string
	}{
		{"admin", adminPwd, "admin"},
		{"cashier", cashierPwd, "cashier"},
	} {
		hash, err := bcrypt.GenerateFromPassword([]byte(u.password), bcrypt.DefaultCost)
		if err != nil {
			log.Fatalf("[memory-store] failed to hash seed password for %s: %v", u.username, err)
		}
		users[u.username] = domain.UserAccount{
			Username:  u.username,
			Password:  string(hash),
			Role:      u.role,
			Active:    true,
			CreatedAt: now,
		}
	}
	return users
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

// NewSeeded returns a store pre-loaded with a small electronics-parts shop:
// catalog, opening stock, one customer and supplier, two cash accounts and
// two partners, so the API is usable immediately in dev mode.
func NewSeeded() *Store {
	now := time.Now().UTC()

	products := []domain.Product{
		{ID: "prd-res-10k", SKU: "RES-10K", Name: "Resistor 10k 1/4W", Category: "passive", Unit: "pc", SellPriceDefault: 500, MinStock: 200, Active: true},
		{ID: "prd-cap-100u", SKU: "CAP-100U", Name: "Capacitor 100uF 25V", Category: "passive", Unit: "pc", SellPriceDefault: 2500, MinStock: 100, Active: true},
		{ID: "prd-ne555", SKU: "IC-NE555", Name: "NE555 Timer IC", Category: "ic", Unit: "pc", SellPriceDefault: 9000, MinStock: 50, Active: true},
		{ID: "prd-nano", SKU: "BRD-NANO", Name: "Nano Dev Board", Category: "module", Unit: "pc", SellPriceDefault: 220000, MinStock: 10, Active: true},
		{ID: "prd-wire", SKU: "SLD-WIRE", Name: "Solder Wire 100g", Category: "consumable", Unit: "roll", SellPriceDefault: 85000, MinStock: 20, Active: true},
	}
	lots := map[string]domain.InventoryLot{
		"prd-res-10k":  {ID: "lot-res-10k", ProductID: "prd-res-10k", AvgCost: 300, QtyOnHand: 500, UpdatedAt: now},
		"prd-cap-100u": {ID: "lot-cap-100u", ProductID: "prd-cap-100u", AvgCost: 1500, QtyOnHand: 250, UpdatedAt: now},
		"prd-ne555":    {ID: "lot-ne555", ProductID: "prd-ne555", AvgCost: 6000, QtyOnHand: 80, UpdatedAt: now},
		"prd-nano":     {ID: "lot-nano", ProductID: "prd-nano", AvgCost: 150000, QtyOnHand: 25, UpdatedAt: now},
	}
	parties := map[string]domain.Party{
		"cus-arman": {ID: "cus-arman", Type: domain.PartyTypeCustomer, Name: "Arman Robotics", Phone: "0912000001", CreatedAt: now},
		"sup-pars":  {ID: "sup-pars", Type: domain.PartyTypeSupplier, Name: "Pars Components Co", Phone: "0212000002", CreatedAt: now},
	}
	accounts := map[string]domain.CashAccount{
		"acc-register": {ID: "acc-register", Name: "Register", Type: "cash", Balance: 5000000},
		"acc-bank":     {ID: "acc-bank", Name: "Main Bank", Type: "bank", Balance: 20000000},
	}
	partners := map[string]domain.Partner{
		"ptr-sina": {ID: "ptr-sina", Name: "Sina", OpeningCapital: 30000000, Active: true, CreatedAt: now},
		"ptr-omid": {ID: "ptr-omid", Name: "Omid", OpeningCapital: 20000000, Active: true, CreatedAt: now},
	}

	productMap := make(map[string]domain.Product, len(products))
	for _, p := range products {
		p.CreatedAt = now
		p.UpdatedAt = now
		productMap[p.ID] = p
	}

	return &Store{
		products:      productMap,
		lotsByProduct: lots,
		partiesByID:   parties,
		accountsByID:  accounts,
		invoicesByID:  make(map[string]domain.Invoice),
		ledger:        make([]domain.LedgerTransaction, 0, 128),
		partnersByID:  partners,
		capitalEvents: make([]domain.CapitalEvent, 0, 32),
		auditLogs:     make([]domain.AuditLog, 0, 128),
		usersByName:   seedUsers(),
	}
}

// NewEmpty returns a store with no seed data except auth users. Used by
// tests that want full control over state.
func NewEmpty() *Store {
	return &Store{
		products:      make(map[string]domain.Product),
		lotsByProduct: make(map[string]domain.InventoryLot),
		partiesByID:   make(map[string]domain.Party),
		accountsByID:  make(map[string]domain.CashAccount),
		invoicesByID:  make(map[string]domain.Invoice),
		ledger:        make([]domain.LedgerTransaction, 0, 16),
		partnersByID:  make(map[string]domain.Partner),
		capitalEvents: make([]domain.CapitalEvent, 0, 16),
		auditLogs:     make([]domain.AuditLog, 0, 16),
		usersByName:   seedUsers(),
	}
}

func (s *Store) ListProducts(_ context.Context) ([]domain.Product, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	products := make([]domain.Product, 0, len(s.products))
	for _, p := range s.products {
		products = append(products, p)
	}
	slices.SortFunc(products, func(a, b domain.Product) int {
		if a.Category == b.Category {
			return strings.Compare(a.Name, b.Name)
		}
		return strings.Compare(a.Category, b.Category)
	})
	return products, nil
}

func (s *Store) GetProduct(_ context.Context, id string) (*domain.Product, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	p, ok := s.products[id]
	if !ok {
		return nil, store.ErrNotFound
	}
	copied := p
	return &copied, nil
}

func (s *Store) CreateProduct(_ context.Context, product domain.Product) (*domain.Product, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, existing := range s.products {
		if existing.SKU == product.SKU {
			return nil, store.ErrConflict
		}
	}
	s.products[product.ID] = product
	created := product
	return &created, nil
}

func (s *Store) UpdateProduct(_ context.Context, product domain.Product) (*domain.Product, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.products[product.ID]; !ok {
		return nil, store.ErrNotFound
	}
	s.products[product.ID] = product
	updated := product
	return &updated, nil
}

func (s *Store) ListLots(_ context.Context) ([]domain.InventoryLot, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	lots := make([]domain.InventoryLot, 0, len(s.lotsByProduct))
	for _, lot := range s.lotsByProduct {
		lots = append(lots, lot)
	}
	slices.SortFunc(lots, func(a, b domain.InventoryLot) int {
		return strings.Compare(a.ProductID, b.ProductID)
	})
	return lots, nil
}

func (s *Store) ListParties(_ context.Context, partyType string) ([]domain.Party, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	parties := make([]domain.Party, 0, len(s.partiesByID))
	for _, p := range s.partiesByID {
		if partyType != "" && p.Type != partyType {
			continue
		}
		parties = append(parties, p)
	}
	slices.SortFunc(parties, func(a, b domain.Party) int {
		return strings.Compare(a.Name, b.Name)
	})
	return parties, nil
}

func (s *Store) GetParty(_ context.Context, id string) (*domain.Party, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	p, ok := s.partiesByID[id]
	if !ok {
		return nil, store.ErrNotFound
	}
	copied := p
	return &copied, nil
}

func (s *Store) CreateParty(_ context.Context, party domain.Party) (*domain.Party, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.partiesByID[party.ID]; exists {
		return nil, store.ErrConflict
	}
	s.partiesByID[party.ID] = party
	created := party
	return &created, nil
}

func (s *Store) ListAccounts(_ context.Context) ([]domain.CashAccount, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	accounts := make([]domain.CashAccount, 0, len(s.accountsByID))
	for _, a := range s.accountsByID {
		accounts = append(accounts, a)
	}
	slices.SortFunc(accounts, func(a, b domain.CashAccount) int {
		return strings.Compare(a.Name, b.Name)
	})
	return accounts, nil
}

func (s *Store) GetAccount(_ context.Context, id string) (*domain.CashAccount, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	a, ok := s.accountsByID[id]
	if !ok {
		return nil, store.ErrNotFound
	}
	copied := a
	return &copied, nil
}

func (s *Store) CreateAccount(_ context.Context, account domain.CashAccount) (*domain.CashAccount, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.accountsByID[account.ID]; exists {
		return nil, store.ErrConflict
	}
	s.accountsByID[account.ID] = account
	created := account
	return &created, nil
}

func (s *Store) ListInvoices(_ context.Context, invoiceType string) ([]domain.Invoice, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	invoices := make([]domain.Invoice, 0, len(s.invoicesByID))
	for _, inv := range s.invoicesByID {
		if invoiceType != "" && inv.Type != invoiceType {
			continue
		}
		invoices = append(invoices, inv)
	}
	slices.SortFunc(invoices, func(a, b domain.Invoice) int {
		if a.Type == b.Type {
			return a.Number - b.Number
		}
		return strings.Compare(a.Type, b.Type)
	})
	return invoices, nil
}

func (s *Store) GetInvoice(_ context.Context, id string) (*domain.Invoice, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	inv, ok := s.invoicesByID[id]
	if !ok {
		return nil, store.ErrNotFound
	}
	copied := inv
	copied.Items = slices.Clone(inv.Items)
	return &copied, nil
}

func (s *Store) MaxInvoiceNumber(_ context.Context, invoiceType string) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	max := 0
	for _, inv := range s.invoicesByID {
		if inv.Type == invoiceType && inv.Number > max {
			max = inv.Number
		}
	}
	return max, nil
}

func (s *Store) ListLedger(_ context.Context, limit int) ([]domain.LedgerTransaction, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if limit < 1 || limit > len(s.ledger) {
		limit = len(s.ledger)
	}
	// Newest first.
	entries := make([]domain.LedgerTransaction, 0, limit)
	for i := len(s.ledger) - 1; i >= 0 && len(entries) < limit; i-- {
		entries = append(entries, s.ledger[i])
	}
	return entries, nil
}

func (s *Store) ListPartners(_ context.Context) ([]domain.Partner, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	partners := make([]domain.Partner, 0, len(s.partnersByID))
	for _, p := range s.partnersByID {
		partners = append(partners, p)
	}
	slices.SortFunc(partners, func(a, b domain.Partner) int {
		return strings.Compare(a.Name, b.Name)
	})
	return partners, nil
}

func (s *Store) CreatePartner(_ context.Context, partner domain.Partner) (*domain.Partner, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.partnersByID[partner.ID]; exists {
		return nil, store.ErrConflict
	}
	s.partnersByID[partner.ID] = partner
	created := partner
	return &created, nil
}

func (s *Store) ListCapitalEvents(_ context.Context, partnerID string) ([]domain.CapitalEvent, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	events := make([]domain.CapitalEvent, 0, len(s.capitalEvents))
	for _, ev := range s.capitalEvents {
		if partnerID != "" && ev.PartnerID != partnerID {
			continue
		}
		events = append(events, ev)
	}
	return events, nil
}

func (s *Store) CreateCapitalEvent(_ context.Context, event domain.CapitalEvent) (*domain.CapitalEvent, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.partnersByID[event.PartnerID]; !exists {
		return nil, store.ErrNotFound
	}
	if event.ID == "" {
		event.ID = xid.New("cap")
	}
	s.capitalEvents = append(s.capitalEvents, event)
	created := event
	return &created, nil
}

// ApplyMutation persists every record of a settlement under one lock, so no
// reader ever observes a half-applied invoice.
func (s *Store) ApplyMutation(_ context.Context, m store.Mutation) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	// Every referenced record is checked before the first write, so a
	// rejection leaves the store untouched.
	if m.Invoice != nil {
		if _, exists := s.invoicesByID[m.Invoice.ID]; exists {
			return store.ErrConflict
		}
	}
	for _, party := range m.Parties {
		if _, exists := s.partiesByID[party.ID]; !exists {
			return store.ErrNotFound
		}
	}
	for _, account := range m.Accounts {
		if _, exists := s.accountsByID[account.ID]; !exists {
			return store.ErrNotFound
		}
	}

	if m.Invoice != nil {
		inv := *m.Invoice
		inv.Items = slices.Clone(m.Invoice.Items)
		s.invoicesByID[inv.ID] = inv
	}
	for _, lot := range m.Lots {
		s.lotsByProduct[lot.ProductID] = lot
	}
	for _, party := range m.Parties {
		s.partiesByID[party.ID] = party
	}
	for _, account := range m.Accounts {
		s.accountsByID[account.ID] = account
	}
	if m.Entry != nil {
		s.ledger = append(s.ledger, *m.Entry)
	}
	return nil
}

func (s *Store) CreateAuditLog(_ context.Context, entry domain.AuditLog) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if entry.ID == "" {
		entry.ID = xid.New("audit")
	}
	if entry.CreatedAt.IsZero() {
		entry.CreatedAt = time.Now().UTC()
	}
	s.auditLogs = append(s.auditLogs, entry)
	return nil
}

func (s *Store) ListAuditLogs(_ context.Context, limit int) ([]domain.AuditLog, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if limit < 1 || limit > len(s.auditLogs) {
		limit = len(s.auditLogs)
	}
	logs := make([]domain.AuditLog, 0, limit)
	for i := len(s.auditLogs) - 1; i >= 0 && len(logs) < limit; i-- {
		logs = append(logs, s.auditLogs[i])
	}
	return logs, nil
}

func (s *Store) CreateUser(_ context.Context, user domain.UserAccount) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.usersByName[user.Username]; exists {
		return store.ErrConflict
	}
	s.usersByName[user.Username] = user
	return nil
}

func (s *Store) ListUsers(_ context.Context) ([]domain.UserAccount, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	users := make([]domain.UserAccount, 0, len(s.usersByName))
	for _, u := range s.usersByName {
		users = append(users, u)
	}
	slices.SortFunc(users, func(a, b domain.UserAccount) int {
		return strings.Compare(a.Username, b.Username)
	})
	return users, nil
}

func (s *Store) UpdateUserPassword(_ context.Context, username string, password string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	user, ok := s.usersByName[username]
	if !ok {
		return store.ErrNotFound
	}
	user.Password = password
	s.usersByName[username] = user
	return nil
}
