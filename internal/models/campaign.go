package models

import "time"

// Статусы кампании. Active -> Completed происходит ровно один раз,
// когда собранная сумма впервые достигает целевой. Active -> Cancelled —
// явное действие администратора. Оба перехода необратимы.
const (
	CampaignActive    = "Active"
	CampaignCompleted = "Completed"
	CampaignCancelled = "Cancelled"
)

// Campaign представляет краудфандинговую кампанию на покупку
// одного нового автомобиля автопарка.
type Campaign struct {
	ID            string         `json:"id"`
	Title         string         `json:"title"`
	Description   string         `json:"description"`
	VehicleSpec   VehicleSpec    `json:"vehicleType"`
	TargetAmount  float64        `json:"targetAmount"`
	CurrentAmount float64        `json:"currentAmount"`
	StartDate     time.Time      `json:"startDate"`
	EndDate       time.Time      `json:"endDate"`
	Status        string         `json:"status"`
	Contributions []Contribution `json:"subscribers"`
	Rewards       []RewardTier   `json:"rewards"`
	VehicleID     *string        `json:"vehicleId"` // Автомобиль, созданный по завершении; устанавливается не более одного раза
}

// CampaignInfo — кампания, дополненная созданным автомобилем
// (nil, пока кампания не завершена).
type CampaignInfo struct {
	Campaign
	Vehicle *Vehicle `json:"vehicle"`
}

// VehicleSpec — целевая спецификация автомобиля кампании.
type VehicleSpec struct {
	Make     string `json:"make" validate:"required"`
	Model    string `json:"model" validate:"required"`
	Year     int    `json:"year" validate:"required"`
	Category string `json:"category" validate:"required"`
}

// Contribution — один взнос пользователя в кампанию.
type Contribution struct {
	UserUID string    `json:"user"`
	Amount  float64   `json:"amount"`
	Date    time.Time `json:"date"`
}

// RewardTier — уровень вознаграждения за взнос от минимальной суммы.
type RewardTier struct {
	MinContribution float64 `json:"minContribution"`
	Description     string  `json:"description"`
}

// DummyCampaign используется для приёма данных из JSON-запроса на создание кампании.
type DummyCampaign struct {
	Title        string       `json:"title" validate:"required"`
	Description  string       `json:"description" validate:"required"`
	VehicleSpec  *VehicleSpec `json:"vehicleType" validate:"required"`
	TargetAmount float64      `json:"targetAmount" validate:"required,gt=0"`
	StartDate    string       `json:"startDate" validate:"required"`
	EndDate      string       `json:"endDate" validate:"required"`
	Rewards      []RewardTier `json:"rewards"`
}

// CampaignPatch перечисляет поля кампании, разрешённые к обновлению.
type CampaignPatch struct {
	Title        *string       `json:"title"`
	Description  *string       `json:"description"`
	VehicleSpec  *VehicleSpec  `json:"vehicleType"`
	TargetAmount *float64      `json:"targetAmount"`
	StartDate    *string       `json:"startDate"`
	EndDate      *string       `json:"endDate"`
	Rewards      *[]RewardTier `json:"rewards"`
}
