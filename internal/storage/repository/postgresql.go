// Package repository реализует хранилище данных на основе PostgreSQL
// для управления учётными записями, объектами недвижимости, портфелями
// и отчётами. Предоставляет методы создания, чтения, обновления, удаления
// и идемпотентного пакетного импорта записей.
package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	// Регистрация драйвера pgx для использования с database/sql.
	_ "github.com/jackc/pgx/v5/stdlib"
)

// Ошибки уровня хранилища, по которым сервисы определяют HTTP-статус.
var (
	// ErrNotFound возвращается, когда запись не существует либо принадлежит другому владельцу.
	ErrNotFound = errors.New("not found")
	// ErrAlreadyExists возвращается при нарушении уникальности записи.
	ErrAlreadyExists = errors.New("already exists")
	// ErrUsernameTaken возвращается, когда имя пользователя уже занято.
	ErrUsernameTaken = errors.New("username already exists")
	// ErrEmailTaken возвращается, когда электронная почта уже занята.
	ErrEmailTaken = errors.New("email already exists")
)

// Storage инкапсулирует соединение с базой данных PostgreSQL
// и реализует методы работы с данными приложения.
type Storage struct {
	DB *sql.DB
}

// New создаёт подключение к PostgreSQL и проверяет его доступность.
func New(storageConnectionString string) (*Storage, error) {
	const op = "storage.New"

	db, err := sql.Open("pgx", storageConnectionString)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if err = db.PingContext(context.Background()); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return &Storage{
		DB: db,
	}, nil
}

// CheckDatabaseReady проверяет готовность базы данных.
func CheckDatabaseReady(storage *Storage) error {
	var exists bool
	err := storage.DB.QueryRow(`SELECT EXISTS (
        SELECT FROM information_schema.tables
        WHERE table_name = 'users'
    )`).Scan(&exists)
	if err != nil || !exists {
		return fmt.Errorf("required table users missing or query error: %w", err)
	}
	return nil
}
