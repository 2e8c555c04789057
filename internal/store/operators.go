// Package store persists operator accounts and server settings in SQLite.
package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/erazemk/inventario/internal/model"
)

const operatorColumns = `id, username, name, password_hash, role, created_at, deleted_at`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanOperator(row rowScanner) (*model.Operator, error) {
	o := &model.Operator{}
	if err := row.Scan(&o.ID, &o.Username, &o.Name, &o.PasswordHash, &o.Role, &o.CreatedAt, &o.DeletedAt); err != nil {
		return nil, err
	}
	return o, nil
}

// CreateOperator creates a new operator account.
func CreateOperator(ctx context.Context, db *sql.DB, username, name, passwordHash, role string) (*model.Operator, error) {
	result, err := db.ExecContext(ctx,
		`INSERT INTO operators (username, name, password_hash, role) VALUES (?, ?, ?, ?)`,
		username, name, passwordHash, role,
	)
	if err != nil {
		return nil, fmt.Errorf("creating operator: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("getting operator id: %w", err)
	}

	return GetOperator(ctx, db, id)
}

// GetOperator returns an operator by ID, including soft-deleted ones.
func GetOperator(ctx context.Context, db *sql.DB, id int64) (*model.Operator, error) {
	o, err := scanOperator(db.QueryRowContext(ctx,
		`SELECT `+operatorColumns+` FROM operators WHERE id = ?`, id,
	))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("getting operator: %w", err)
	}
	return o, nil
}

// GetOperatorByUsername returns the active operator with the given username.
func GetOperatorByUsername(ctx context.Context, db *sql.DB, username string) (*model.Operator, error) {
	o, err := scanOperator(db.QueryRowContext(ctx,
		`SELECT `+operatorColumns+` FROM operators WHERE username = ? AND deleted_at IS NULL`, username,
	))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("getting operator by username: %w", err)
	}
	return o, nil
}

// ListOperators returns all non-deleted operators.
func ListOperators(ctx context.Context, db *sql.DB) ([]model.Operator, error) {
	rows, err := db.QueryContext(ctx,
		`SELECT `+operatorColumns+` FROM operators WHERE deleted_at IS NULL ORDER BY id`,
	)
	if err != nil {
		return nil, fmt.Errorf("listing operators: %w", err)
	}
	defer rows.Close()

	var operators []model.Operator
	for rows.Next() {
		o, err := scanOperator(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning operator: %w", err)
		}
		operators = append(operators, *o)
	}
	return operators, rows.Err()
}

// CountOperators returns the number of active operators.
func CountOperators(ctx context.Context, db *sql.DB) (int, error) {
	var n int
	err := db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM operators WHERE deleted_at IS NULL`,
	).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("counting operators: %w", err)
	}
	return n, nil
}

// UpdateOperator updates an operator's display name and role.
func UpdateOperator(ctx context.Context, db *sql.DB, id int64, name, role string) error {
	_, err := db.ExecContext(ctx,
		`UPDATE operators SET name = ?, role = ? WHERE id = ? AND deleted_at IS NULL`,
		name, role, id,
	)
	if err != nil {
		return fmt.Errorf("updating operator: %w", err)
	}
	return nil
}

// UpdateOperatorPassword updates an operator's password hash.
func UpdateOperatorPassword(ctx context.Context, db *sql.DB, id int64, passwordHash string) error {
	_, err := db.ExecContext(ctx,
		`UPDATE operators SET password_hash = ? WHERE id = ? AND deleted_at IS NULL`,
		passwordHash, id,
	)
	if err != nil {
		return fmt.Errorf("updating operator password: %w", err)
	}
	return nil
}

// DeleteOperator soft-deletes an operator so the username can be reused.
func DeleteOperator(ctx context.Context, db *sql.DB, id int64) error {
	_, err := db.ExecContext(ctx,
		`UPDATE operators SET deleted_at = CURRENT_TIMESTAMP WHERE id = ? AND deleted_at IS NULL`,
		id,
	)
	if err != nil {
		return fmt.Errorf("deleting operator: %w", err)
	}
	return nil
}
