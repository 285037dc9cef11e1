package adapter

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"

	"github.com/Masterminds/squirrel"
	"github.com/google/uuid"

	"github.com/iMedia24/workplacify/internal/auth"
	"github.com/iMedia24/workplacify/internal/db"
)

// accountColumns maps accepted Account keys to their column.
var accountColumns = map[string]string{
	auth.AccountUserID:            "user_id",
	auth.AccountType:              "type",
	auth.AccountProvider:          "provider",
	auth.AccountProviderAccountID: "provider_account_id",
	auth.AccountAccessToken:       "access_token",
	auth.AccountRefreshToken:      "refresh_token",
	auth.AccountExpiresAt:         "expires_at",
	auth.AccountTokenType:         "token_type",
	auth.AccountScope:             "scope",
	auth.AccountIDToken:           "id_token",
	auth.AccountSessionState:      "session_state",
	auth.AccountExtExpiresIn:      "ext_expires_in",
}

var integerColumns = map[string]bool{
	"expires_at":     true,
	"ext_expires_in": true,
}

var requiredColumns = []string{"user_id", "type", "provider", "provider_account_id"}

// SQLAdapter stores users and accounts in the relational database.
type SQLAdapter struct {
	db *db.DB
}

var _ Adapter = (*SQLAdapter)(nil)

func NewSQLAdapter(db *db.DB) *SQLAdapter {
	return &SQLAdapter{db: db}
}

func (a *SQLAdapter) CreateUser(ctx context.Context, user auth.User) (*auth.User, error) {
	return a.insertUser(ctx, a.db.DB, user)
}

func (a *SQLAdapter) insertUser(ctx context.Context, runner squirrel.BaseRunner, user auth.User) (*auth.User, error) {
	user.ID = uuid.NewString()

	_, err := a.db.Insert("users").
		SetMap(map[string]any{
			"id":             user.ID,
			"name":           nullString(user.Name),
			"email":          nullString(user.Email),
			"email_verified": user.EmailVerified,
			"image":          user.Image,
		}).
		RunWith(runner).
		ExecContext(ctx)
	if err != nil {
		return nil, fmt.Errorf("adapter: create user: %w", err)
	}
	return &user, nil
}

func (a *SQLAdapter) GetUser(ctx context.Context, id string) (*auth.User, error) {
	return scanUser(
		a.usersQuery().
			Where(squirrel.Eq{"u.id": id}).
			QueryRowContext(ctx),
	)
}

func (a *SQLAdapter) GetUserByEmail(ctx context.Context, email string) (*auth.User, error) {
	if email == "" {
		return nil, ErrNotFound
	}
	return scanUser(
		a.usersQuery().
			Where("LOWER(u.email) = LOWER(?)", email).
			QueryRowContext(ctx),
	)
}

func (a *SQLAdapter) GetUserByAccount(ctx context.Context, provider, providerAccountID string) (*auth.User, error) {
	return scanUser(
		a.usersQuery().
			Join("accounts a ON a.user_id = u.id").
			Where(squirrel.Eq{
				"a.provider":            provider,
				"a.provider_account_id": providerAccountID,
			}).
			QueryRowContext(ctx),
	)
}

// LinkAccount inserts the account. Keys without a column are rejected
// with ErrUnknownAccountField.
func (a *SQLAdapter) LinkAccount(ctx context.Context, account auth.Account) error {
	return a.insertAccount(ctx, a.db.DB, account)
}

// CreateUserAndLink inserts the user and the account in one transaction.
// account["userId"] is set to the new user's id.
func (a *SQLAdapter) CreateUserAndLink(ctx context.Context, user auth.User, account auth.Account) (*auth.User, error) {
	tx, err := a.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("adapter: begin: %w", err)
	}
	// no-op once committed
	defer func() { _ = tx.Rollback() }()

	created, err := a.insertUser(ctx, tx, user)
	if err != nil {
		return nil, err
	}

	link := account.Clone()
	link[auth.AccountUserID] = created.ID
	if err := a.insertAccount(ctx, tx, link); err != nil {
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("adapter: commit: %w", err)
	}
	return created, nil
}

func (a *SQLAdapter) insertAccount(ctx context.Context, runner squirrel.BaseRunner, account auth.Account) error {
	values := map[string]any{"id": uuid.NewString()}

	for key, v := range account {
		col, ok := accountColumns[key]
		if !ok {
			return fmt.Errorf("%w: %s", ErrUnknownAccountField, key)
		}
		if v == nil {
			continue
		}
		if integerColumns[col] {
			n, err := toInt64(v)
			if err != nil {
				return fmt.Errorf("adapter: account field %s: %w", key, err)
			}
			v = n
		}
		values[col] = v
	}

	for _, col := range requiredColumns {
		if s, _ := values[col].(string); s == "" {
			return fmt.Errorf("adapter: account missing %s", col)
		}
	}

	if _, err := a.db.Insert("accounts").SetMap(values).RunWith(runner).ExecContext(ctx); err != nil {
		return fmt.Errorf("adapter: link account: %w", err)
	}
	return nil
}

func (a *SQLAdapter) usersQuery() squirrel.SelectBuilder {
	return a.db.
		Select("u.id", "u.name", "u.email", "u.email_verified", "u.image").
		From("users u")
}

func scanUser(row squirrel.RowScanner) (*auth.User, error) {
	var (
		u                  auth.User
		name, email, image sql.NullString
	)
	if err := row.Scan(&u.ID, &name, &email, &u.EmailVerified, &image); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("adapter: scan user: %w", err)
	}

	u.Name = name.String
	u.Email = email.String
	if image.Valid {
		u.Image = &image.String
	}
	return &u, nil
}

func nullString(s string) any {
	if s == "" {
		return nil
	}
	return s
}

// toInt64 accepts the numeric shapes token responses decode into.
func toInt64(v any) (int64, error) {
	switch n := v.(type) {
	case int:
		return int64(n), nil
	case int32:
		return int64(n), nil
	case int64:
		return n, nil
	case float64:
		return int64(n), nil
	case json.Number:
		return n.Int64()
	case string:
		return strconv.ParseInt(n, 10, 64)
	default:
		return 0, fmt.Errorf("unsupported numeric value %T", v)
	}
}
