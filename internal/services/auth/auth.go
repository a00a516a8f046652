// Package services содержит логику бизнес-уровня для работы с учётными
// записями: регистрация с инициализацией пробного периода, вход по имени
// или почте, валидация JWT и операции с профилем.
package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/GisoInvest/giso-invest-auth-backend/internal/lib/jwt"
	"github.com/GisoInvest/giso-invest-auth-backend/internal/lib/password"
	"github.com/GisoInvest/giso-invest-auth-backend/internal/lib/trial"
	"github.com/GisoInvest/giso-invest-auth-backend/internal/models"
	"github.com/GisoInvest/giso-invest-auth-backend/internal/storage/repository"
)

// ErrInvalidCredentials возвращается при неверной паре логин/пароль.
// Сознательно не различает "нет такого пользователя" и "не тот пароль".
var ErrInvalidCredentials = errors.New("invalid credentials")

// UserRepository описывает контракт для работы с пользователями в базе данных.
type UserRepository interface {
	// RegisterUser сохраняет нового пользователя и возвращает его UID.
	RegisterUser(ctx context.Context, user models.User) (string, error)
	// GetUser возвращает пользователя по UID.
	GetUser(ctx context.Context, userUID string) (*models.User, error)
	// GetUserByUsernameOrEmail возвращает пользователя по имени или почте.
	GetUserByUsernameOrEmail(ctx context.Context, identifier string) (*models.User, error)
	// UpdateLastLogin фиксирует время последнего входа.
	UpdateLastLogin(ctx context.Context, userUID string, at time.Time) error
	// UpdateProfile обновляет имя пользователя и почту.
	UpdateProfile(ctx context.Context, userUID, username, email string) error
}

// AuthService отвечает за регистрацию, авторизацию, валидацию JWT и профиль.
type AuthService struct {
	users    UserRepository
	jwtMaker jwt.Maker
	log      *slog.Logger
}

// NewAuthService создает новый экземпляр AuthService.
func NewAuthService(users UserRepository, jwtMaker jwt.Maker, log *slog.Logger) *AuthService {
	return &AuthService{
		users:    users,
		jwtMaker: jwtMaker,
		log:      log,
	}
}

// Register создает нового пользователя с хэшированием пароля и свежим
// пробным периодом на trial.Days дней, затем выдаёт JWT.
func (s *AuthService) Register(ctx context.Context, username, email, rawPassword string) (*models.User, string, error) {
	const op = "services.auth.Register"

	hashed, err := password.GetHash(rawPassword)
	if err != nil {
		return nil, "", fmt.Errorf("%s: %w", op, err)
	}

	now := time.Now().UTC()
	user := models.User{
		Username:           username,
		Email:              email,
		PasswordHash:       hashed,
		TrialStartDate:     now,
		TrialEndDate:       now.AddDate(0, 0, trial.Days),
		TrialDaysUsed:      0,
		TrialActive:        true,
		SubscriptionPlan:   trial.PlanTrial,
		SubscriptionStatus: trial.StatusTrialActive,
		PaymentRequired:    false,
		CreatedAt:          now,
	}

	uid, err := s.users.RegisterUser(ctx, user)
	if err != nil {
		return nil, "", err
	}
	user.UID = uid
	lastLogin := now
	user.LastLogin = &lastLogin

	token, err := s.jwtMaker.GenerateToken(uid, username, email)
	if err != nil {
		return nil, "", fmt.Errorf("%s: %w", op, err)
	}

	s.log.Info("registered new user", slog.String("uid", uid))
	return &user, token, nil
}

// Login проверяет пароль пользователя по имени или почте и генерирует JWT.
// Любая причина отказа сворачивается в ErrInvalidCredentials.
func (s *AuthService) Login(ctx context.Context, identifier, rawPassword string) (*models.User, string, error) {
	const op = "services.auth.Login"

	user, err := s.users.GetUserByUsernameOrEmail(ctx, identifier)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, "", ErrInvalidCredentials
		}
		return nil, "", err
	}
	if err := password.CompareHash(user.PasswordHash, rawPassword); err != nil {
		return nil, "", ErrInvalidCredentials
	}

	now := time.Now().UTC()
	if err := s.users.UpdateLastLogin(ctx, user.UID, now); err != nil {
		s.log.Warn("failed to update last login", slog.String("uid", user.UID), slog.Any("err", err))
	}
	user.LastLogin = &now

	token, err := s.jwtMaker.GenerateToken(user.UID, user.Username, user.Email)
	if err != nil {
		return nil, "", fmt.Errorf("%s: %w", op, err)
	}
	return user, token, nil
}

// ValidateToken проверяет JWT и возвращает актуальную запись пользователя.
func (s *AuthService) ValidateToken(ctx context.Context, token string) (*models.User, error) {
	claims, err := s.jwtMaker.ParseToken(token)
	if err != nil {
		return nil, err
	}
	return s.users.GetUser(ctx, claims.UserUID)
}

// Refresh выдаёт новый JWT для уже аутентифицированного пользователя
// и фиксирует время входа.
func (s *AuthService) Refresh(ctx context.Context, userUID string) (*models.User, string, error) {
	const op = "services.auth.Refresh"

	user, err := s.users.GetUser(ctx, userUID)
	if err != nil {
		return nil, "", err
	}
	token, err := s.jwtMaker.GenerateToken(user.UID, user.Username, user.Email)
	if err != nil {
		return nil, "", fmt.Errorf("%s: %w", op, err)
	}

	now := time.Now().UTC()
	if err := s.users.UpdateLastLogin(ctx, user.UID, now); err != nil {
		s.log.Warn("failed to update last login", slog.String("uid", user.UID), slog.Any("err", err))
	}
	user.LastLogin = &now
	return user, token, nil
}

// Profile возвращает запись пользователя по UID.
func (s *AuthService) Profile(ctx context.Context, userUID string) (*models.User, error) {
	return s.users.GetUser(ctx, userUID)
}

// UpdateProfile меняет имя пользователя и/или почту. Пустое значение
// оставляет текущее.
func (s *AuthService) UpdateProfile(ctx context.Context, userUID, username, email string) (*models.User, error) {
	user, err := s.users.GetUser(ctx, userUID)
	if err != nil {
		return nil, err
	}
	if username == "" {
		username = user.Username
	}
	if email == "" {
		email = user.Email
	}
	if err := s.users.UpdateProfile(ctx, userUID, username, email); err != nil {
		return nil, err
	}
	user.Username = username
	user.Email = email
	return user, nil
}
