package postgres

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
	_ "github.com/jackc/pgx/v5/stdlib"

	"partsledger/backend/internal/domain"
	"partsledger/backend/internal/store"
	"partsledger/backend/internal/xid"
)

// Store is the durable repository backed by PostgreSQL. Schema is managed by
// migrations outside this package; the store assumes the tables exist.
type Store struct {
	db *sql.DB
}

func New(ctx context.Context, databaseURL string) (*Store, error) {
	db, err := sql.Open("pgx", databaseURL)
	if err != nil {
		return nil, err
	}

	db.SetMaxIdleConns(8)
	db.SetMaxOpenConns(30)
	db.SetConnMaxLifetime(30 * time.Minute)

	pingCtx, cancel := context.WithTimeout(ctx, 6*time.Second)
	defer cancel()
	if err := db.PingContext(pingCtx); err != nil {
		_ = db.Close()
		return nil, err
	}

	return &Store{db: db}, nil
}

func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) ListProducts(ctx context.Context) ([]domain.Product, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, sku, name, category, brand, unit, barcode, sell_price_default, min_stock, location, active, created_at, updated_at
		FROM products
		ORDER BY category, name
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	products := make([]domain.Product, 0, 128)
	for rows.Next() {
		var p domain.Product
		if err := rows.Scan(&p.ID, &p.SKU, &p.Name, &p.Category, &p.Brand, &p.Unit, &p.Barcode, &p.SellPriceDefault, &p.MinStock, &p.Location, &p.Active, &p.CreatedAt, &p.UpdatedAt); err != nil {
			return nil, err
		}
		products = append(products, p)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return products, nil
}

func (s *Store) GetProduct(ctx context.Context, id string) (*domain.Product, error) {
	var p domain.Product
	err := s.db.QueryRowContext(ctx, `
		SELECT id, sku, name, category, brand, unit, barcode, sell_price_default, min_stock, location, active, created_at, updated_at
		FROM products
		WHERE id = $1
	`, id).Scan(&p.ID, &p.SKU, &p.Name, &p.Category, &p.Brand, &p.Unit, &p.Barcode, &p.SellPriceDefault, &p.MinStock, &p.Location, &p.Active, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, store.ErrNotFound
		}
		return nil, err
	}
	return &p, nil
}

func (s *Store) CreateProduct(ctx context.Context, p domain.Product) (*domain.Product, error) {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO products (id, sku, name, category, brand, unit, barcode, sell_price_default, min_stock, location, active, created_at, updated_at)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13)
	`, p.ID, p.SKU, p.Name, p.Category, p.Brand, p.Unit, p.Barcode, p.SellPriceDefault, p.MinStock, p.Location, p.Active, p.CreatedAt, p.UpdatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return nil, store.ErrConflict
		}
		return nil, err
	}
	created := p
	return &created, nil
}

func (s *Store) UpdateProduct(ctx context.Context, p domain.Product) (*domain.Product, error) {
	res, err := s.db.ExecContext(ctx, `
		UPDATE products
		SET name = $2, category = $3, brand = $4, unit = $5, barcode = $6, sell_price_default = $7, min_stock = $8, location = $9, active = $10, updated_at = $11
		WHERE id = $1
	`, p.ID, p.Name, p.Category, p.Brand, p.Unit, p.Barcode, p.SellPriceDefault, p.MinStock, p.Location, p.Active, p.UpdatedAt)
	if err != nil {
		return nil, err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return nil, err
	}
	if affected == 0 {
		return nil, store.ErrNotFound
	}
	updated := p
	return &updated, nil
}

func (s *Store) ListLots(ctx context.Context) ([]domain.InventoryLot, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, product_id, avg_cost, qty_on_hand, updated_at
		FROM inventory_lots
		ORDER BY product_id
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	lots := make([]domain.InventoryLot, 0, 128)
	for rows.Next() {
		var lot domain.InventoryLot
		if err := rows.Scan(&lot.ID, &lot.ProductID, &lot.AvgCost, &lot.QtyOnHand, &lot.UpdatedAt); err != nil {
			return nil, err
		}
		lots = append(lots, lot)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return lots, nil
}

func (s *Store) ListParties(ctx context.Context, partyType string) ([]domain.Party, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, type, name, phone, notes, balance, created_at
		FROM parties
		WHERE ($1 = '' OR type = $1)
		ORDER BY name
	`, partyType)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	parties := make([]domain.Party, 0, 64)
	for rows.Next() {
		var p domain.Party
		if err := rows.Scan(&p.ID, &p.Type, &p.Name, &p.Phone, &p.Notes, &p.Balance, &p.CreatedAt); err != nil {
			return nil, err
		}
		parties = append(parties, p)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return parties, nil
}

func (s *Store) GetParty(ctx context.Context, id string) (*domain.Party, error) {
	var p domain.Party
	err := s.db.QueryRowContext(ctx, `
		SELECT id, type, name, phone, notes, balance, created_at
		FROM parties
		WHERE id = $1
	`, id).Scan(&p.ID, &p.Type, &p.Name, &p.Phone, &p.Notes, &p.Balance, &p.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, store.ErrNotFound
		}
		return nil, err
	}
	return &p, nil
}

func (s *Store) CreateParty(ctx context.Context, p domain.Party) (*domain.Party, error) {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO parties (id, type, name, phone, notes, balance, created_at)
		VALUES ($1,$2,$3,$4,$5,$6,$7)
	`, p.ID, p.Type, p.Name, p.Phone, p.Notes, p.Balance, p.CreatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return nil, store.ErrConflict
		}
		return nil, err
	}
	created := p
	return &created, nil
}

func (s *Store) ListAccounts(ctx context.Context) ([]domain.CashAccount, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, name, type, balance
		FROM cash_accounts
		ORDER BY name
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	accounts := make([]domain.CashAccount, 0, 8)
	for rows.Next() {
		var a domain.CashAccount
		if err := rows.Scan(&a.ID, &a.Name, &a.Type, &a.Balance); err != nil {
			return nil, err
		}
		accounts = append(accounts, a)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return accounts, nil
}

func (s *Store) GetAccount(ctx context.Context, id string) (*domain.CashAccount, error) {
	var a domain.CashAccount
	err := s.db.QueryRowContext(ctx, `
		SELECT id, name, type, balance
		FROM cash_accounts
		WHERE id = $1
	`, id).Scan(&a.ID, &a.Name, &a.Type, &a.Balance)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, store.ErrNotFound
		}
		return nil, err
	}
	return &a, nil
}

func (s *Store) CreateAccount(ctx context.Context, a domain.CashAccount) (*domain.CashAccount, error) {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO cash_accounts (id, name, type, balance)
		VALUES ($1,$2,$3,$4)
	`, a.ID, a.Name, a.Type, a.Balance)
	if err != nil {
		if isUniqueViolation(err) {
			return nil, store.ErrConflict
		}
		return nil, err
	}
	created := a
	return &created, nil
}

func (s *Store) ListInvoices(ctx context.Context, invoiceType string) ([]domain.Invoice, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, type, number, date, party_type, party_id, account_id, subtotal, discount_total,
		       tax_enabled, tax_percent, tax_amount, shipping, grand_total, paid_amount,
		       remaining_amount, status, note, created_by, created_at, updated_at
		FROM invoices
		WHERE ($1 = '' OR type = $1)
		ORDER BY type, number
	`, invoiceType)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	invoices := make([]domain.Invoice, 0, 128)
	ids := make([]string, 0, 128)
	for rows.Next() {
		var inv domain.Invoice
		var partyID, accountID, note sql.NullString
		if err := rows.Scan(&inv.ID, &inv.Type, &inv.Number, &inv.Date, &inv.PartyType, &partyID, &accountID,
			&inv.Subtotal, &inv.DiscountTotal, &inv.TaxEnabled, &inv.TaxPercent, &inv.TaxAmount,
			&inv.Shipping, &inv.GrandTotal, &inv.PaidAmount, &inv.RemainingAmount, &inv.Status,
			&note, &inv.CreatedBy, &inv.CreatedAt, &inv.UpdatedAt); err != nil {
			return nil, err
		}
		inv.PartyID = partyID.String
		inv.AccountID = accountID.String
		inv.Note = note.String
		invoices = append(invoices, inv)
		ids = append(ids, inv.ID)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	itemsByInvoice, err := s.loadItems(ctx, ids)
	if err != nil {
		return nil, err
	}
	for i := range invoices {
		invoices[i].Items = itemsByInvoice[invoices[i].ID]
	}
	return invoices, nil
}

func (s *Store) GetInvoice(ctx context.Context, id string) (*domain.Invoice, error) {
	var inv domain.Invoice
	var partyID, accountID, note sql.NullString
	err := s.db.QueryRowContext(ctx, `
		SELECT id, type, number, date, party_type, party_id, account_id, subtotal, discount_total,
		       tax_enabled, tax_percent, tax_amount, shipping, grand_total, paid_amount,
		       remaining_amount, status, note, created_by, created_at, updated_at
		FROM invoices
		WHERE id = $1
	`, id).Scan(&inv.ID, &inv.Type, &inv.Number, &inv.Date, &inv.PartyType, &partyID, &accountID,
		&inv.Subtotal, &inv.DiscountTotal, &inv.TaxEnabled, &inv.TaxPercent, &inv.TaxAmount,
		&inv.Shipping, &inv.GrandTotal, &inv.PaidAmount, &inv.RemainingAmount, &inv.Status,
		&note, &inv.CreatedBy, &inv.CreatedAt, &inv.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, store.ErrNotFound
		}
		return nil, err
	}
	inv.PartyID = partyID.String
	inv.AccountID = accountID.String
	inv.Note = note.String

	itemsByInvoice, err := s.loadItems(ctx, []string{inv.ID})
	if err != nil {
		return nil, err
	}
	inv.Items = itemsByInvoice[inv.ID]
	return &inv, nil
}

func (s *Store) loadItems(ctx context.Context, invoiceIDs []string) (map[string][]domain.InvoiceItem, error) {
	result := make(map[string][]domain.InvoiceItem, len(invoiceIDs))
	if len(invoiceIDs) == 0 {
		return result, nil
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT invoice_id, product_id, sku_snapshot, name_snapshot, qty, unit, unit_price, discount, line_total, cost_at_sale
		FROM invoice_items
		WHERE invoice_id = ANY($1)
		ORDER BY invoice_id, position
	`, invoiceIDs)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var invoiceID string
		var item domain.InvoiceItem
		if err := rows.Scan(&invoiceID, &item.ProductID, &item.SKUSnapshot, &item.NameSnapshot,
			&item.Qty, &item.Unit, &item.UnitPrice, &item.Discount, &item.LineTotal, &item.CostAtSale); err != nil {
			return nil, err
		}
		result[invoiceID] = append(result[invoiceID], item)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

func (s *Store) MaxInvoiceNumber(ctx context.Context, invoiceType string) (int, error) {
	var max sql.NullInt64
	err := s.db.QueryRowContext(ctx, `
		SELECT MAX(number) FROM invoices WHERE type = $1
	`, invoiceType).Scan(&max)
	if err != nil {
		return 0, err
	}
	return int(max.Int64), nil
}

func (s *Store) ListLedger(ctx context.Context, limit int) ([]domain.LedgerTransaction, error) {
	// limit < 1 means no limit, matching the memory store.
	var rowLimit any
	if limit > 0 {
		rowLimit = limit
	}
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, date, category, amount, from_account_id, to_account_id, party_type, party_id,
		       description, link_type, link_invoice_id, created_by, created_at
		FROM ledger_transactions
		ORDER BY created_at DESC, id DESC
		LIMIT $1
	`, rowLimit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	entries := make([]domain.LedgerTransaction, 0, 64)
	for rows.Next() {
		var entry domain.LedgerTransaction
		var fromID, toID, partyType, partyID, desc, linkType, linkInvoiceID sql.NullString
		if err := rows.Scan(&entry.ID, &entry.Date, &entry.Category, &entry.Amount, &fromID, &toID,
			&partyType, &partyID, &desc, &linkType, &linkInvoiceID, &entry.CreatedBy, &entry.CreatedAt); err != nil {
			return nil, err
		}
		entry.FromAccountID = fromID.String
		entry.ToAccountID = toID.String
		entry.PartyType = partyType.String
		entry.PartyID = partyID.String
		entry.Description = desc.String
		if linkType.Valid {
			entry.Link = &domain.LedgerLink{Type: linkType.String, InvoiceID: linkInvoiceID.String}
		}
		entries = append(entries, entry)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return entries, nil
}

func (s *Store) ListPartners(ctx context.Context) ([]domain.Partner, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, name, notes, opening_capital, active, created_at
		FROM partners
		ORDER BY name
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	partners := make([]domain.Partner, 0, 8)
	for rows.Next() {
		var p domain.Partner
		if err := rows.Scan(&p.ID, &p.Name, &p.Notes, &p.OpeningCapital, &p.Active, &p.CreatedAt); err != nil {
			return nil, err
		}
		partners = append(partners, p)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return partners, nil
}

func (s *Store) CreatePartner(ctx context.Context, p domain.Partner) (*domain.Partner, error) {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO partners (id, name, notes, opening_capital, active, created_at)
		VALUES ($1,$2,$3,$4,$5,$6)
	`, p.ID, p.Name, p.Notes, p.OpeningCapital, p.Active, p.CreatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return nil, store.ErrConflict
		}
		return nil, err
	}
	created := p
	return &created, nil
}

func (s *Store) ListCapitalEvents(ctx context.Context, partnerID string) ([]domain.CapitalEvent, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, partner_id, type, amount, date, note
		FROM capital_events
		WHERE ($1 = '' OR partner_id = $1)
		ORDER BY date, id
	`, partnerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	events := make([]domain.CapitalEvent, 0, 32)
	for rows.Next() {
		var ev domain.CapitalEvent
		var note sql.NullString
		if err := rows.Scan(&ev.ID, &ev.PartnerID, &ev.Type, &ev.Amount, &ev.Date, &note); err != nil {
			return nil, err
		}
		ev.Note = note.String
		events = append(events, ev)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return events, nil
}

func (s *Store) CreateCapitalEvent(ctx context.Context, ev domain.CapitalEvent) (*domain.CapitalEvent, error) {
	if ev.ID == "" {
		ev.ID = xid.New("cap")
	}
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO capital_events (id, partner_id, type, amount, date, note)
		VALUES ($1,$2,$3,$4,$5,$6)
	`, ev.ID, ev.PartnerID, ev.Type, ev.Amount, ev.Date, nullIfEmpty(ev.Note))
	if err != nil {
		return nil, err
	}
	created := ev
	return &created, nil
}

// ApplyMutation persists a full settlement in one serializable transaction:
// invoice, item rows, lot upserts, party and account balances, ledger entry.
func (s *Store) ApplyMutation(ctx context.Context, m store.Mutation) error {
	tx, err := s.db.BeginTx(ctx, &sql.TxOptions{Isolation: sql.LevelSerializable})
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	if m.Invoice != nil {
		inv := m.Invoice
		_, err := tx.ExecContext(ctx, `
			INSERT INTO invoices (id, type, number, date, party_type, party_id, account_id, subtotal,
			                      discount_total, tax_enabled, tax_percent, tax_amount, shipping,
			                      grand_total, paid_amount, remaining_amount, status, note, created_by,
			                      created_at, updated_at)
			VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,$15,$16,$17,$18,$19,$20,$21)
		`, inv.ID, inv.Type, inv.Number, inv.Date, inv.PartyType, nullIfEmpty(inv.PartyID),
			nullIfEmpty(inv.AccountID), inv.Subtotal, inv.DiscountTotal, inv.TaxEnabled, inv.TaxPercent,
			inv.TaxAmount, inv.Shipping, inv.GrandTotal, inv.PaidAmount, inv.RemainingAmount,
			inv.Status, nullIfEmpty(inv.Note), inv.CreatedBy, inv.CreatedAt, inv.UpdatedAt)
		if err != nil {
			if isUniqueViolation(err) {
				return store.ErrConflict
			}
			return err
		}

		for position, item := range inv.Items {
			_, err := tx.ExecContext(ctx, `
				INSERT INTO invoice_items (invoice_id, position, product_id, sku_snapshot, name_snapshot,
				                           qty, unit, unit_price, discount, line_total, cost_at_sale)
				VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11)
			`, inv.ID, position, item.ProductID, item.SKUSnapshot, item.NameSnapshot,
				item.Qty, item.Unit, item.UnitPrice, item.Discount, item.LineTotal, item.CostAtSale)
			if err != nil {
				return err
			}
		}
	}

	for _, lot := range m.Lots {
		_, err := tx.ExecContext(ctx, `
			INSERT INTO inventory_lots (id, product_id, avg_cost, qty_on_hand, updated_at)
			VALUES ($1,$2,$3,$4,$5)
			ON CONFLICT (product_id)
			DO UPDATE SET avg_cost = EXCLUDED.avg_cost, qty_on_hand = EXCLUDED.qty_on_hand, updated_at = EXCLUDED.updated_at
		`, lot.ID, lot.ProductID, lot.AvgCost, lot.QtyOnHand, lot.UpdatedAt)
		if err != nil {
			return err
		}
	}

	for _, party := range m.Parties {
		res, err := tx.ExecContext(ctx, `
			UPDATE parties SET balance = $2 WHERE id = $1
		`, party.ID, party.Balance)
		if err != nil {
			return err
		}
		if affected, err := res.RowsAffected(); err != nil {
			return err
		} else if affected == 0 {
			return store.ErrNotFound
		}
	}

	for _, account := range m.Accounts {
		res, err := tx.ExecContext(ctx, `
			UPDATE cash_accounts SET balance = $2 WHERE id = $1
		`, account.ID, account.Balance)
		if err != nil {
			return err
		}
		if affected, err := res.RowsAffected(); err != nil {
			return err
		} else if affected == 0 {
			return store.ErrNotFound
		}
	}

	if m.Entry != nil {
		entry := m.Entry
		var linkType, linkInvoiceID any
		if entry.Link != nil {
			linkType = entry.Link.Type
			linkInvoiceID = entry.Link.InvoiceID
		}
		_, err := tx.ExecContext(ctx, `
			INSERT INTO ledger_transactions (id, date, category, amount, from_account_id, to_account_id,
			                                 party_type, party_id, description, link_type, link_invoice_id,
			                                 created_by, created_at)
			VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13)
		`, entry.ID, entry.Date, entry.Category, entry.Amount, nullIfEmpty(entry.FromAccountID),
			nullIfEmpty(entry.ToAccountID), nullIfEmpty(entry.PartyType), nullIfEmpty(entry.PartyID),
			nullIfEmpty(entry.Description), linkType, linkInvoiceID, entry.CreatedBy, entry.CreatedAt)
		if err != nil {
			return err
		}
	}

	return tx.Commit()
}

func (s *Store) CreateAuditLog(ctx context.Context, entry domain.AuditLog) error {
	if entry.ID == "" {
		entry.ID = xid.New("audit")
	}
	if entry.CreatedAt.IsZero() {
		entry.CreatedAt = time.Now().UTC()
	}
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO audit_logs (id, actor, actor_role, action, entity, entity_id, detail, created_at)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8)
	`, entry.ID, entry.Actor, entry.ActorRole, entry.Action, entry.Entity, entry.EntityID, entry.Detail, entry.CreatedAt)
	return err
}

func (s *Store) ListAuditLogs(ctx context.Context, limit int) ([]domain.AuditLog, error) {
	if limit < 1 {
		limit = 100
	}
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, actor, actor_role, action, entity, entity_id, detail, created_at
		FROM audit_logs
		ORDER BY created_at DESC, id DESC
		LIMIT $1
	`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	logs := make([]domain.AuditLog, 0, limit)
	for rows.Next() {
		var entry domain.AuditLog
		if err := rows.Scan(&entry.ID, &entry.Actor, &entry.ActorRole, &entry.Action, &entry.Entity, &entry.EntityID, &entry.Detail, &entry.CreatedAt); err != nil {
			return nil, err
		}
		logs = append(logs, entry)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return logs, nil
}

func (s *Store) CreateUser(ctx context.Context, user domain.UserAccount) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO users (username, password, role, active, created_at)
		VALUES ($1,$2,$3,$4,$5)
	`, user.Username, user.Password, user.Role, user.Active, user.CreatedAt)
	if err != nil && isUniqueViolation(err) {
		return store.ErrConflict
	}
	return err
}

func (s *Store) ListUsers(ctx context.Context) ([]domain.UserAccount, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT username, password, role, active, created_at
		FROM users
		ORDER BY username
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	users := make([]domain.UserAccount, 0, 8)
	for rows.Next() {
		var u domain.UserAccount
		if err := rows.Scan(&u.Username, &u.Password, &u.Role, &u.Active, &u.CreatedAt); err != nil {
			return nil, err
		}
		users = append(users, u)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return users, nil
}

func (s *Store) UpdateUserPassword(ctx context.Context, username string, password string) error {
	res, err := s.db.ExecContext(ctx, `
		UPDATE users SET password = $2 WHERE username = $1
	`, username, password)
	if err != nil {
		return err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return store.ErrNotFound
	}
	return nil
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == "23505"
	}
	return false
}

func nullIfEmpty(val string) any {
	if val == "" {
		return nil
	}
	return val
}
