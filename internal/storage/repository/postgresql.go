// Package repository реализует хранилище данных на основе PostgreSQL
// для пользователей, автомобилей, подписок и кампаний. Инкременты сумм
// и переключения статусов выполняются условными UPDATE в одном запросе,
// чтобы параллельные взносы и оформления подписок не теряли обновлений.
package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	// Регистрация драйвера pgx для использования с database/sql.
	_ "github.com/jackc/pgx/v5/stdlib"
)

// Storage инкапсулирует соединение с базой данных PostgreSQL
// и реализует порты хранилища доменных сервисов.
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
        WHERE table_name = 'campaigns'
    )`).Scan(&exists)
	if err != nil || !exists {
		return fmt.Errorf("required table campaigns missing or query error: %w", err)
	}
	return nil
}

// mustJSON сериализует значение для записи в JSONB-колонку.
func mustJSON(v any) []byte {
	data, err := json.Marshal(v)
	if err != nil {
		return []byte("null")
	}
	return data
}

// scanJSON декодирует JSONB-колонку в целевую структуру; NULL оставляет значение нулевым.
func scanJSON(raw []byte, target any) error {
	if len(raw) == 0 {
		return nil
	}
	return json.Unmarshal(raw, target)
}
