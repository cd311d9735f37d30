package postgres

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgconn"

	"github.com/TheRmarkable/Common-Component-Backend/internal/domain"
	"github.com/TheRmarkable/Common-Component-Backend/pkg/logger"
)

const uniqueViolation = "23505"

type Postgres struct {
	DB *sql.DB
}

func New(db *sql.DB) *Postgres {
	return &Postgres{DB: db}
}

func (p *Postgres) Close() error {
	return p.DB.Close()
}

func (p *Postgres) CreateUser(user *domain.User) error {
	_, err := p.DB.Exec(
		`INSERT INTO users (id, identity_number, name, surname, email, role, mobile_number, inactive, verified, account_id, password_hash)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`,
		user.ID, user.IdentityNumber, user.Name, user.Surname, user.Email, user.Role,
		user.MobileNumber, user.Inactive, user.Verified, user.AccountID, user.PasswordHash,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			logger.Log.Warn("user already exists", logger.String("email", user.Email))
			return domain.ErrUserExists
		}

		return fmt.Errorf("error creating user: %w", err)
	}

	return nil
}

func scanUser(row *sql.Row) (*domain.User, error) {
	var user domain.User

	err := row.Scan(
		&user.ID, &user.IdentityNumber, &user.Name, &user.Surname, &user.Email, &user.Role,
		&user.MobileNumber, &user.Inactive, &user.Verified, &user.AccountID, &user.PasswordHash,
		&user.RegisteredAt,
	)
	if err != nil {
		return nil, err
	}

	return &user, nil
}

const userColumns = `id, identity_number, name, surname, email, role, mobile_number, inactive, verified, account_id, password_hash, registered_at`

func (p *Postgres) User(id string) (*domain.User, error) {
	row := p.DB.QueryRow(`SELECT `+userColumns+` FROM users WHERE id = $1`, id)

	user, err := scanUser(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrUserNotFound
		}

		return nil, fmt.Errorf("error fetching user: %w", err)
	}

	return user, nil
}

func (p *Postgres) UserByEmail(email string) (*domain.User, error) {
	row := p.DB.QueryRow(`SELECT `+userColumns+` FROM users WHERE email = $1`, email)

	user, err := scanUser(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrIncorrectCredentials
		}

		return nil, fmt.Errorf("error fetching user: %w", err)
	}

	return user, nil
}

func (p *Postgres) SetUserVerified(id string) error {
	res, err := p.DB.Exec(`UPDATE users SET verified = TRUE WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("error verifying user: %w", err)
	}

	return requireRowAffected(res, domain.ErrUserNotFound)
}

func (p *Postgres) LinkAccount(id, accountID string) error {
	res, err := p.DB.Exec(`UPDATE users SET account_id = $1 WHERE id = $2`, accountID, id)
	if err != nil {
		return fmt.Errorf("error linking account to user: %w", err)
	}

	return requireRowAffected(res, domain.ErrUserNotFound)
}

func (p *Postgres) CreateBankAccount(bank *domain.BankAccount) error {
	_, err := p.DB.Exec(
		`INSERT INTO bank_accounts (id, type, bank_name, account_number, branch_code, created_by)
		 VALUES ($1, $2, $3, $4, $5, $6)`,
		bank.ID, bank.Type, bank.BankName, bank.AccountNumber, bank.BranchCode, bank.CreatedBy,
	)
	if err != nil {
		return fmt.Errorf("error creating bank account: %w", err)
	}

	return nil
}

const bankColumns = `id, type, bank_name, account_number, branch_code, created_by, created_at`

func (p *Postgres) BankAccount(id string) (*domain.BankAccount, error) {
	row := p.DB.QueryRow(`SELECT `+bankColumns+` FROM bank_accounts WHERE id = $1`, id)

	var bank domain.BankAccount

	err := row.Scan(&bank.ID, &bank.Type, &bank.BankName, &bank.AccountNumber, &bank.BranchCode, &bank.CreatedBy, &bank.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrBankAccountNotFound
		}

		return nil, fmt.Errorf("error fetching bank account: %w", err)
	}

	return &bank, nil
}

func (p *Postgres) UpdateBankAccount(bank *domain.BankAccount) error {
	res, err := p.DB.Exec(
		`UPDATE bank_accounts SET bank_name = $1, account_number = $2, branch_code = $3 WHERE id = $4`,
		bank.BankName, bank.AccountNumber, bank.BranchCode, bank.ID,
	)
	if err != nil {
		return fmt.Errorf("error updating bank account: %w", err)
	}

	return requireRowAffected(res, domain.ErrBankAccountNotFound)
}

func (p *Postgres) DeleteBankAccount(id string) error {
	res, err := p.DB.Exec(`DELETE FROM bank_accounts WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("error deleting bank account: %w", err)
	}

	return requireRowAffected(res, domain.ErrBankAccountNotFound)
}

func (p *Postgres) BankAccountsByCreator(userID string) ([]domain.BankAccount, error) {
	return p.bankAccounts(`SELECT `+bankColumns+` FROM bank_accounts WHERE created_by = $1 ORDER BY created_at`, userID)
}

func (p *Postgres) CorporateBankAccounts() ([]domain.BankAccount, error) {
	return p.bankAccounts(`SELECT `+bankColumns+` FROM bank_accounts WHERE type = $1 ORDER BY created_at`, domain.BankTypeCorporate)
}

func (p *Postgres) bankAccounts(query string, args ...any) ([]domain.BankAccount, error) {
	rows, err := p.DB.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("error fetching bank accounts: %w", err)
	}
	defer func(rows *sql.Rows) {
		err := rows.Close()
		if err != nil {
			logger.Log.Error("error closing rows", logger.Error(err))
		}
	}(rows)

	var banks []domain.BankAccount

	for rows.Next() {
		var bank domain.BankAccount

		err = rows.Scan(&bank.ID, &bank.Type, &bank.BankName, &bank.AccountNumber, &bank.BranchCode, &bank.CreatedBy, &bank.CreatedAt)
		if err != nil {
			return nil, fmt.Errorf("error scanning bank account: %w", err)
		}

		banks = append(banks, bank)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating bank accounts: %w", err)
	}

	return banks, nil
}

func requireRowAffected(res sql.Result, notFound error) error {
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("error checking affected rows: %w", err)
	}

	if affected == 0 {
		return notFound
	}

	return nil
}
