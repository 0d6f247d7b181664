package models

import "time"

// Статусы оплаты подписки. Поле перезаписывается значением вызывающего
// без проверки по enum, значения ниже — ожидаемые.
const (
	PaymentPending = "Pending"
	PaymentPaid    = "Paid"
)

// AllWeekdays — дни доступа по умолчанию, если клиент их не указал.
var AllWeekdays = []string{"Monday", "Tuesday", "Wednesday", "Thursday", "Friday", "Saturday", "Sunday"}

// Subscription представляет подписку пользователя на автомобиль.
type Subscription struct {
	ID            string    `json:"id"`
	UserUID       string    `json:"userId"`
	VehicleID     string    `json:"vehicleId"`
	Tier          string    `json:"tier"`
	StartDate     time.Time `json:"startDate"`
	EndDate       time.Time `json:"endDate"`
	AccessDays    []string  `json:"accessDays"`
	Price         float64   `json:"price"`
	PaymentStatus string    `json:"paymentStatus"`
	IsActive      bool      `json:"isActive"`
	CreatedAt     time.Time `json:"createdAt"`
}

// SubscriptionInfo — подписка, дополненная связанными записями
// автомобиля и пользователя для списочных выдач.
type SubscriptionInfo struct {
	Subscription
	Vehicle *Vehicle `json:"vehicle,omitempty"`
	User    *User    `json:"user,omitempty"`
}

// DummySubscription используется для приёма данных из JSON-запроса на создание подписки.
// Даты приходят строками в формате 2006-01-02 и парсятся в сервисе.
type DummySubscription struct {
	Tier       string   `json:"tier" validate:"required"`
	VehicleID  string   `json:"vehicleId" validate:"required"`
	StartDate  string   `json:"startDate" validate:"required"`
	EndDate    string   `json:"endDate" validate:"required"`
	AccessDays []string `json:"accessDays"`
	Price      float64  `json:"price" validate:"required,gt=0"`
}
