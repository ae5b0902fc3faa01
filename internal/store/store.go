package store

import (
	"context"
	"errors"

	"partsledger/backend/internal/domain"
)

var (
	ErrNotFound = errors.New("not found")
	ErrConflict = errors.New("conflict")
)

// Mutation bundles every record one settlement created or changed. The
// repository persists all of it or none of it: the memory store applies it
// under a single lock, the postgres store inside one transaction. Nil and
// empty fields are skipped.
type Mutation struct {
	Invoice  *domain.Invoice
	Lots     []domain.InventoryLot
	Parties  []domain.Party
	Accounts []domain.CashAccount
	Entry    *domain.LedgerTransaction
}

// Repository is the persistence collaborator: a key-value-per-collection
// store keyed by id. Callers pre-filter collections into memory before
// handing them to the ledger engine; the engine itself never queries here.
type Repository interface {
	ListProducts(ctx context.Context) ([]domain.Product, error)
	GetProduct(ctx context.Context, id string) (*domain.Product, error)
	CreateProduct(ctx context.Context, product domain.Product) (*domain.Product, error)
	UpdateProduct(ctx context.Context, product domain.Product) (*domain.Product, error)

	ListLots(ctx context.Context) ([]domain.InventoryLot, error)

	ListParties(ctx context.Context, partyType string) ([]domain.Party, error)
	GetParty(ctx context.Context, id string) (*domain.Party, error)
	CreateParty(ctx context.Context, party domain.Party) (*domain.Party, error)

	ListAccounts(ctx context.Context) ([]domain.CashAccount, error)
	GetAccount(ctx context.Context, id string) (*domain.CashAccount, error)
	CreateAccount(ctx context.Context, account domain.CashAccount) (*domain.CashAccount, error)

	ListInvoices(ctx context.Context, invoiceType string) ([]domain.Invoice, error)
	GetInvoice(ctx context.Context, id string) (*domain.Invoice, error)
	MaxInvoiceNumber(ctx context.Context, invoiceType string) (int, error)

	ListLedger(ctx context.Context, limit int) ([]domain.LedgerTransaction, error)

	ListPartners(ctx context.Context) ([]domain.Partner, error)
	CreatePartner(ctx context.Context, partner domain.Partner) (*domain.Partner, error)
	ListCapitalEvents(ctx context.Context, partnerID string) ([]domain.CapitalEvent, error)
	CreateCapitalEvent(ctx context.Context, event domain.CapitalEvent) (*domain.CapitalEvent, error)

	ApplyMutation(ctx context.Context, m Mutation) error

	CreateAuditLog(ctx context.Context, entry domain.AuditLog) error
	ListAuditLogs(ctx context.Context, limit int) ([]domain.AuditLog, error)

	CreateUser(ctx context.Context, user domain.UserAccount) error
	ListUsers(ctx context.Context) ([]domain.UserAccount, error)
	UpdateUserPassword(ctx context.Context, username string, password string) error
}
