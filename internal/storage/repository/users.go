package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/GisoInvest/giso-invest-auth-backend/internal/models"
)

const userColumns = `uid, username, email, password_hash, trial_start_date, trial_end_date,
			      trial_days_used, trial_active, subscription_plan, subscription_status,
			      payment_required, subscription_start_date, subscription_end_date,
			      last_payment_date, next_billing_date, last_trial_check, created_at, last_login`

// RegisterUser сохраняет нового пользователя в базу данных и возвращает его UID.
// Конфликты уникальности по username и email превращаются в ErrUsernameTaken
// и ErrEmailTaken соответственно.
func (s *Storage) RegisterUser(ctx context.Context, user models.User) (string, error) {
	const op = "storage.RegisterUser"
	select {
	case <-ctx.Done():
		return "", fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	var newUID string
	query := `INSERT INTO users (username, email, password_hash, trial_start_date, trial_end_date,
			      trial_active, subscription_plan, subscription_status, last_login)
			  VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
			  RETURNING uid;`
	if err := s.DB.QueryRowContext(ctx, query,
		user.Username, user.Email, user.PasswordHash, user.TrialStartDate, user.TrialEndDate,
		user.TrialActive, user.SubscriptionPlan, user.SubscriptionStatus, user.LastLogin).Scan(&newUID); err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgerrcode.UniqueViolation {
			if strings.Contains(pgErr.ConstraintName, "email") {
				return "", fmt.Errorf("%s: %w", op, ErrEmailTaken)
			}
			return "", fmt.Errorf("%s: %w", op, ErrUsernameTaken)
		}
		return "", fmt.Errorf("%s: %w", op, err)
	}
	return newUID, nil
}

// GetUser возвращает пользователя по его UID.
func (s *Storage) GetUser(ctx context.Context, userUID string) (*models.User, error) {
	const op = "storage.GetUser"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT ` + userColumns + `
			  FROM users
			  WHERE uid = $1`
	row := s.DB.QueryRowContext(ctx, query, userUID)
	u, err := scanUser(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%s: %w", op, ErrNotFound)
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return u, nil
}

// GetUserByUsernameOrEmail возвращает пользователя по имени либо электронной почте.
func (s *Storage) GetUserByUsernameOrEmail(ctx context.Context, identifier string) (*models.User, error) {
	const op = "storage.GetUserByUsernameOrEmail"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT ` + userColumns + `
			  FROM users
			  WHERE username = $1 OR email = $1`
	row := s.DB.QueryRowContext(ctx, query, identifier)
	u, err := scanUser(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%s: %w", op, ErrNotFound)
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return u, nil
}

// UpdateLastLogin обновляет дату последнего входа пользователя.
func (s *Storage) UpdateLastLogin(ctx context.Context, userUID string, at time.Time) error {
	const op = "storage.UpdateLastLogin"
	select {
	case <-ctx.Done():
		return fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `UPDATE users SET last_login = $1 WHERE uid = $2`
	_, err := s.DB.ExecContext(ctx, query, at, userUID)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

// UpdateProfile обновляет имя пользователя и электронную почту.
// Конфликты уникальности превращаются в ErrUsernameTaken и ErrEmailTaken.
func (s *Storage) UpdateProfile(ctx context.Context, userUID, username, email string) error {
	const op = "storage.UpdateProfile"
	select {
	case <-ctx.Done():
		return fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `UPDATE users SET username = $1, email = $2 WHERE uid = $3`
	_, err := s.DB.ExecContext(ctx, query, username, email, userUID)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgerrcode.UniqueViolation {
			if strings.Contains(pgErr.ConstraintName, "email") {
				return fmt.Errorf("%s: %w", op, ErrEmailTaken)
			}
			return fmt.Errorf("%s: %w", op, ErrUsernameTaken)
		}
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

// UpdateTrialState записывает пересчитанный кэш состояния пробного периода.
func (s *Storage) UpdateTrialState(ctx context.Context, userUID string, daysUsed int,
	status string, paymentRequired bool, checkedAt time.Time) error {
	const op = "storage.UpdateTrialState"
	select {
	case <-ctx.Done():
		return fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `UPDATE users
			  SET trial_days_used = $1,
			      subscription_status = $2,
			      payment_required = $3,
			      last_trial_check = $4
			  WHERE uid = $5`
	_, err := s.DB.ExecContext(ctx, query, daysUsed, status, paymentRequired, checkedAt, userUID)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

// UpdateSubscription записывает поля тарифа и биллинга пользователя.
func (s *Storage) UpdateSubscription(ctx context.Context, user *models.User) error {
	const op = "storage.UpdateSubscription"
	select {
	case <-ctx.Done():
		return fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `UPDATE users
			  SET subscription_plan = $1,
			      subscription_status = $2,
			      payment_required = $3,
			      trial_active = $4,
			      subscription_start_date = $5,
			      subscription_end_date = $6,
			      last_payment_date = $7,
			      next_billing_date = $8
			  WHERE uid = $9`
	_, err := s.DB.ExecContext(ctx, query,
		user.SubscriptionPlan, user.SubscriptionStatus, user.PaymentRequired, user.TrialActive,
		user.SubscriptionStartDate, user.SubscriptionEndDate, user.LastPaymentDate,
		user.NextBillingDate, user.UID)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

// rowScanner покрывает *sql.Row и *sql.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}

func scanUser(row rowScanner) (*models.User, error) {
	u := &models.User{}
	var subStart, subEnd, lastPayment, nextBilling, lastCheck, lastLogin sql.NullTime
	if err := row.Scan(&u.UID, &u.Username, &u.Email, &u.PasswordHash,
		&u.TrialStartDate, &u.TrialEndDate, &u.TrialDaysUsed, &u.TrialActive,
		&u.SubscriptionPlan, &u.SubscriptionStatus, &u.PaymentRequired,
		&subStart, &subEnd, &lastPayment, &nextBilling, &lastCheck,
		&u.CreatedAt, &lastLogin); err != nil {
		return nil, err
	}

	if subStart.Valid {
		u.SubscriptionStartDate = &subStart.Time
	}
	if subEnd.Valid {
		u.SubscriptionEndDate = &subEnd.Time
	}
	if lastPayment.Valid {
		u.LastPaymentDate = &lastPayment.Time
	}
	if nextBilling.Valid {
		u.NextBillingDate = &nextBilling.Time
	}
	if lastCheck.Valid {
		u.LastTrialCheck = &lastCheck.Time
	}
	if lastLogin.Valid {
		u.LastLogin = &lastLogin.Time
	}
	return u, nil
}
