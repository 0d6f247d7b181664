package memory

import (
	"context"
	"time"

	"github.com/cartanga/cartanga/internal/lib/password"
	"github.com/cartanga/cartanga/internal/models"
)

// Seed наполняет хранилище демонстрационными данными: учетные записи
// администратора и пользователя, небольшой автопарк и одна активная кампания.
// Используется, когда приложение запущено без строки подключения к базе.
func (s *Store) Seed(ctx context.Context) error {
	adminHash, err := password.GetHash("admin123")
	if err != nil {
		return err
	}
	userHash, err := password.GetHash("demo123")
	if err != nil {
		return err
	}

	if _, err = s.RegisterUser(ctx, models.User{
		Name:         "Demo Admin",
		Email:        "admin@cartanga.com",
		PasswordHash: adminHash,
		Role:         "admin",
	}); err != nil {
		return err
	}
	if _, err = s.RegisterUser(ctx, models.User{
		Name:           "Demo User",
		Email:          "demo@cartanga.com",
		PasswordHash:   userHash,
		Phone:          "+34 600 000 000",
		DrivingLicense: "B-1234567",
		Role:           "user",
	}); err != nil {
		return err
	}

	demoVehicles := []models.Vehicle{
		{
			Make: "Toyota", Model: "Corolla", Year: 2022, Category: "Sedan",
			Images:         []string{},
			Description:    "Reliable city sedan with hybrid drive",
			Specifications: map[string]string{"fuel": "hybrid", "transmission": "automatic"},
			Location:       "Main Location", Availability: true,
			MaintenanceHistory: []models.MaintenanceRecord{},
		},
		{
			Make: "Volkswagen", Model: "Golf", Year: 2021, Category: "Hatchback",
			Images:         []string{},
			Description:    "Compact hatchback, perfect for the city",
			Specifications: map[string]string{"fuel": "petrol", "transmission": "manual"},
			Location:       "Main Location", Availability: true,
			MaintenanceHistory: []models.MaintenanceRecord{},
		},
		{
			Make: "Tesla", Model: "Model 3", Year: 2023, Category: "Electric",
			Images:         []string{},
			Description:    "Long range electric sedan",
			Specifications: map[string]string{"fuel": "electric", "range": "500km"},
			Location:       "Main Location", Availability: true,
			MaintenanceHistory: []models.MaintenanceRecord{},
		},
	}
	for _, v := range demoVehicles {
		if _, err = s.CreateVehicle(ctx, v); err != nil {
			return err
		}
	}

	_, err = s.CreateCampaign(ctx, models.Campaign{
		Title:       "Electric van for weekend trips",
		Description: "Help us add an electric van to the shared fleet",
		VehicleSpec: models.VehicleSpec{
			Make: "Ford", Model: "E-Transit", Year: 2024, Category: "Van",
		},
		TargetAmount:  25000,
		CurrentAmount: 0,
		StartDate:     time.Now().UTC(),
		EndDate:       time.Now().UTC().AddDate(0, 3, 0),
		Status:        models.CampaignActive,
		Contributions: []models.Contribution{},
		Rewards: []models.RewardTier{
			{MinContribution: 100, Description: "One free weekend with the van"},
			{MinContribution: 500, Description: "One free month of Basic tier"},
		},
	})
	return err
}
