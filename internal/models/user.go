// Package models содержит доменные структуры маркетплейса CarTanga:
// пользователей, автомобили, подписки и краудфандинговые кампании,
// а также вспомогательные типы для приёма данных из JSON-запросов.
package models

import "encoding/json"

// User представляет зарегистрированного пользователя системы.
type User struct {
	UID                string  `json:"id"`                 // Уникальный идентификатор пользователя
	Name               string  `json:"name"`               // Имя пользователя
	Email              string  `json:"email"`              // Электронная почта (уникальная)
	PasswordHash       string  `json:"-"`                  // Хэш пароля пользователя
	Phone              string  `json:"phone"`              // Телефон
	DrivingLicense     string  `json:"drivingLicense"`     // Номер водительского удостоверения
	Role               string  `json:"-"`                  // Роль пользователя, admin или user
	ActiveSubscription *string `json:"activeSubscription"` // ID активной подписки, nil если нет
}

// IsAdmin сообщает, является ли пользователь администратором.
func (u *User) IsAdmin() bool {
	return u.Role == "admin"
}

// MarshalJSON добавляет к пользователю вычисляемый флаг isAdmin.
// Сама роль наружу не отдается.
func (u User) MarshalJSON() ([]byte, error) {
	type alias User
	return json.Marshal(struct {
		alias
		IsAdmin bool `json:"isAdmin"`
	}{alias(u), u.IsAdmin()})
}
