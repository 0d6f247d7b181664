package models

// Vehicle представляет автомобиль автопарка.
//
// Флаг Availability переключается сервисом подписок (занять/освободить)
// и сервисом кампаний (создание автомобиля из завершённой кампании).
type Vehicle struct {
	ID                  string              `json:"id"`
	Make                string              `json:"make"`
	Model               string              `json:"model"`
	Year                int                 `json:"year"`
	Category            string              `json:"category"`
	Images              []string            `json:"images"`
	Description         string              `json:"description"`
	Specifications      map[string]string   `json:"specifications"`
	Location            string              `json:"location"`
	Availability        bool                `json:"availability"`
	CurrentSubscription *string             `json:"currentSubscription"` // ID активной подписки, nil если автомобиль свободен
	MaintenanceHistory  []MaintenanceRecord `json:"maintenanceHistory"`
	CampaignID          *string             `json:"campaignId"` // Кампания, из которой создан автомобиль
}

// MaintenanceRecord описывает одну запись истории обслуживания автомобиля.
type MaintenanceRecord struct {
	Date        string  `json:"date" validate:"required"`
	Description string  `json:"description" validate:"required"`
	Cost        float64 `json:"cost" validate:"required,gt=0"`
}

// DummyVehicle используется для приёма данных из JSON-запроса на создание автомобиля.
type DummyVehicle struct {
	Make           string            `json:"make" validate:"required"`
	Model          string            `json:"model" validate:"required"`
	Year           int               `json:"year" validate:"required"`
	Category       string            `json:"category" validate:"required"`
	Images         []string          `json:"images"`
	Description    string            `json:"description" validate:"required"`
	Specifications map[string]string `json:"specifications"`
	Location       string            `json:"location" validate:"required"`
}

// VehiclePatch перечисляет поля автомобиля, разрешённые к обновлению.
// Поля-указатели: nil означает "не менять".
type VehiclePatch struct {
	Make           *string            `json:"make"`
	Model          *string            `json:"model"`
	Year           *int               `json:"year"`
	Category       *string            `json:"category"`
	Images         *[]string          `json:"images"`
	Description    *string            `json:"description"`
	Specifications *map[string]string `json:"specifications"`
	Location       *string            `json:"location"`
	Availability   *bool              `json:"availability"`
}
