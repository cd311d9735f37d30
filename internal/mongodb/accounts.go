package mongodb

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/TheRmarkable/Common-Component-Backend/internal/domain"
)

const accountsCollection = "accounts"

// Accounts stores account aggregates as single documents with embedded
// balances and transactions. Saves are guarded by an optimistic version
// check so a read-modify-write cycle either commits whole or not at all.
type Accounts struct {
	coll *mongo.Collection
}

func NewAccounts(db *mongo.Database) *Accounts {
	return &Accounts{coll: db.Collection(accountsCollection)}
}

// Amounts are persisted as strings to keep decimal values exact.
type balanceDoc struct {
	Currency string `bson:"currency"`
	Amount   string `bson:"amount"`
}

type transactionDoc struct {
	ID        string    `bson:"id"`
	Kind      string    `bson:"kind"`
	Amount    string    `bson:"amount"`
	Currency  string    `bson:"currency"`
	Timestamp time.Time `bson:"timestamp"`
	Status    string    `bson:"status,omitempty"`
}

type accountDoc struct {
	ID           string           `bson:"_id"`
	UserID       string           `bson:"userId"`
	Balances     []balanceDoc     `bson:"balances"`
	Transactions []transactionDoc `bson:"transactions"`
	Version      int64            `bson:"version"`
	CreatedAt    time.Time        `bson:"createdAt"`
}

func docFromAccount(account *domain.Account) accountDoc {
	doc := accountDoc{
		ID:        account.ID,
		UserID:    account.UserID,
		Version:   account.Version,
		CreatedAt: account.CreatedAt,
	}

	for _, b := range account.Balances {
		doc.Balances = append(doc.Balances, balanceDoc{Currency: b.Currency, Amount: b.Amount.String()})
	}

	for _, tx := range account.Transactions {
		doc.Transactions = append(doc.Transactions, transactionDoc{
			ID:        tx.ID,
			Kind:      string(tx.Kind),
			Amount:    tx.Amount.String(),
			Currency:  tx.Currency,
			Timestamp: tx.Timestamp,
			Status:    string(tx.Status),
		})
	}

	return doc
}

func accountFromDoc(doc accountDoc) (*domain.Account, error) {
	account := &domain.Account{
		ID:        doc.ID,
		UserID:    doc.UserID,
		Version:   doc.Version,
		CreatedAt: doc.CreatedAt,
	}

	for _, b := range doc.Balances {
		amount, err := decimal.NewFromString(b.Amount)
		if err != nil {
			return nil, fmt.Errorf("error parsing balance amount %q: %w", b.Amount, err)
		}

		account.Balances = append(account.Balances, domain.Balance{Currency: b.Currency, Amount: amount})
	}

	for _, tx := range doc.Transactions {
		amount, err := decimal.NewFromString(tx.Amount)
		if err != nil {
			return nil, fmt.Errorf("error parsing transaction amount %q: %w", tx.Amount, err)
		}

		account.Transactions = append(account.Transactions, domain.Transaction{
			ID:        tx.ID,
			Kind:      domain.TransactionKind(tx.Kind),
			Amount:    amount,
			Currency:  tx.Currency,
			Timestamp: tx.Timestamp,
			Status:    domain.TransactionStatus(tx.Status),
		})
	}

	return account, nil
}

func (a *Accounts) Create(ctx context.Context, userID string) (*domain.Account, error) {
	account := domain.NewAccount(userID)

	if _, err := a.coll.InsertOne(ctx, docFromAccount(account)); err != nil {
		return nil, fmt.Errorf("error creating account: %w", err)
	}

	return account, nil
}

func (a *Accounts) Account(ctx context.Context, id string) (*domain.Account, error) {
	var doc accountDoc

	err := a.coll.FindOne(ctx, bson.M{"_id": id}).Decode(&doc)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrAccountNotFound
		}

		return nil, fmt.Errorf("error fetching account: %w", err)
	}

	return accountFromDoc(doc)
}

// Save replaces the aggregate document if and only if its stored version
// still matches the version the account was loaded at. Accounts are never
// deleted, so a missed match means a concurrent writer won the race.
func (a *Accounts) Save(ctx context.Context, account *domain.Account) error {
	doc := docFromAccount(account)
	doc.Version = account.Version + 1

	res, err := a.coll.ReplaceOne(ctx, bson.M{"_id": account.ID, "version": account.Version}, doc)
	if err != nil {
		return fmt.Errorf("error saving account: %w", err)
	}

	if res.MatchedCount == 0 {
		return domain.ErrVersionConflict
	}

	account.Version = doc.Version

	return nil
}
