package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/cartanga/cartanga/internal/lib/apperr"
	"github.com/cartanga/cartanga/internal/models"
)

const vehicleColumns = `id, make, model, year, category, images, description,
			      specifications, location, availability, current_subscription,
			      maintenance_history, campaign_id`

// CreateVehicle вставляет новый автомобиль и возвращает его ID.
func (s *Storage) CreateVehicle(ctx context.Context, v models.Vehicle) (string, error) {
	const op = "storage.CreateVehicle"
	select {
	case <-ctx.Done():
		return "", fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `INSERT INTO vehicles (make, model, year, category, images, description,
			      specifications, location, availability, maintenance_history, campaign_id)
			  VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
			  RETURNING id`
	var newID string
	err := s.DB.QueryRowContext(ctx, query,
		v.Make, v.Model, v.Year, v.Category, mustJSON(v.Images), v.Description,
		mustJSON(v.Specifications), v.Location, v.Availability,
		mustJSON(v.MaintenanceHistory), v.CampaignID).Scan(&newID)
	if err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}
	return newID, nil
}

// ReadVehicle возвращает автомобиль по его ID.
func (s *Storage) ReadVehicle(ctx context.Context, id string) (*models.Vehicle, error) {
	const op = "storage.ReadVehicle"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT ` + vehicleColumns + ` FROM vehicles WHERE id = $1`
	return scanVehicleRow(s.DB.QueryRowContext(ctx, query, id), op)
}

// ListVehicles возвращает список всех автомобилей.
func (s *Storage) ListVehicles(ctx context.Context) ([]*models.Vehicle, error) {
	const op = "storage.ListVehicles"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT ` + vehicleColumns + ` FROM vehicles ORDER BY make, model`
	rows, err := s.DB.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer func() {
		_ = rows.Close()
	}()

	var result []*models.Vehicle
	for rows.Next() {
		item, err := scanVehicle(rows, op)
		if err != nil {
			return nil, err
		}
		result = append(result, item)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return result, nil
}

// UpdateVehicle применяет patch к автомобилю и возвращает обновлённую запись.
// Обновляются только поля, заданные в patch.
func (s *Storage) UpdateVehicle(ctx context.Context, id string, patch models.VehiclePatch) (*models.Vehicle, error) {
	const op = "storage.UpdateVehicle"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	var sets []string
	var args []any
	add := func(column string, value any) {
		args = append(args, value)
		sets = append(sets, fmt.Sprintf("%s = $%d", column, len(args)))
	}
	if patch.Make != nil {
		add("make", *patch.Make)
	}
	if patch.Model != nil {
		add("model", *patch.Model)
	}
	if patch.Year != nil {
		add("year", *patch.Year)
	}
	if patch.Category != nil {
		add("category", *patch.Category)
	}
	if patch.Images != nil {
		add("images", mustJSON(*patch.Images))
	}
	if patch.Description != nil {
		add("description", *patch.Description)
	}
	if patch.Specifications != nil {
		add("specifications", mustJSON(*patch.Specifications))
	}
	if patch.Location != nil {
		add("location", *patch.Location)
	}
	if patch.Availability != nil {
		add("availability", *patch.Availability)
	}
	if len(sets) == 0 {
		return s.ReadVehicle(ctx, id)
	}

	args = append(args, id)
	query := fmt.Sprintf(`UPDATE vehicles SET %s WHERE id = $%d RETURNING `+vehicleColumns,
		strings.Join(sets, ", "), len(args))
	return scanVehicleRow(s.DB.QueryRowContext(ctx, query, args...), op)
}

// DeleteVehicle удаляет автомобиль и возвращает количество удалённых строк.
// Каскадного удаления связанных подписок и кампаний нет.
func (s *Storage) DeleteVehicle(ctx context.Context, id string) (int, error) {
	const op = "storage.DeleteVehicle"
	select {
	case <-ctx.Done():
		return 0, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `DELETE FROM vehicles WHERE id = $1`
	result, err := s.DB.ExecContext(ctx, query, id)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	return int(rowsAffected), nil
}

// AppendMaintenanceRecord добавляет запись в историю обслуживания
// и возвращает обновлённый автомобиль.
func (s *Storage) AppendMaintenanceRecord(ctx context.Context, id string, record models.MaintenanceRecord) (*models.Vehicle, error) {
	const op = "storage.AppendMaintenanceRecord"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `UPDATE vehicles
			  SET maintenance_history = maintenance_history || $1::jsonb
			  WHERE id = $2
			  RETURNING ` + vehicleColumns
	return scanVehicleRow(s.DB.QueryRowContext(ctx, query, mustJSON([]models.MaintenanceRecord{record}), id), op)
}

// ClaimVehicle помечает автомобиль занятым, только если он свободен.
// Возвращает false, если автомобиль уже занят параллельной подпиской.
func (s *Storage) ClaimVehicle(ctx context.Context, id string) (bool, error) {
	const op = "storage.ClaimVehicle"
	select {
	case <-ctx.Done():
		return false, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `UPDATE vehicles
			  SET availability = FALSE
			  WHERE id = $1
			    AND availability = TRUE`
	result, err := s.DB.ExecContext(ctx, query, id)
	if err != nil {
		return false, fmt.Errorf("%s: %w", op, err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("%s: %w", op, err)
	}
	return rowsAffected == 1, nil
}

// SetCurrentSubscription записывает ссылку автомобиля на активную подписку.
func (s *Storage) SetCurrentSubscription(ctx context.Context, id, subscriptionID string) error {
	const op = "storage.SetCurrentSubscription"
	select {
	case <-ctx.Done():
		return fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `UPDATE vehicles
			  SET current_subscription = $1
			  WHERE id = $2`
	if _, err := s.DB.ExecContext(ctx, query, subscriptionID, id); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

// ReleaseVehicle освобождает автомобиль: возвращает доступность
// и сбрасывает ссылку на подписку.
func (s *Storage) ReleaseVehicle(ctx context.Context, id string) error {
	const op = "storage.ReleaseVehicle"
	select {
	case <-ctx.Done():
		return fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `UPDATE vehicles
			  SET availability = TRUE,
			      current_subscription = NULL
			  WHERE id = $1`
	if _, err := s.DB.ExecContext(ctx, query, id); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanVehicle(row rowScanner, op string) (*models.Vehicle, error) {
	var v models.Vehicle
	var images, specifications, maintenanceHistory []byte
	var currentSubscription, campaignID sql.NullString
	if err := row.Scan(&v.ID, &v.Make, &v.Model, &v.Year, &v.Category, &images,
		&v.Description, &specifications, &v.Location, &v.Availability,
		&currentSubscription, &maintenanceHistory, &campaignID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%s: %w", op, apperr.ErrNotFound)
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	v.Images = []string{}
	v.Specifications = map[string]string{}
	v.MaintenanceHistory = []models.MaintenanceRecord{}
	if err := scanJSON(images, &v.Images); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if err := scanJSON(specifications, &v.Specifications); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if err := scanJSON(maintenanceHistory, &v.MaintenanceHistory); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if currentSubscription.Valid {
		v.CurrentSubscription = &currentSubscription.String
	}
	if campaignID.Valid {
		v.CampaignID = &campaignID.String
	}
	return &v, nil
}

func scanVehicleRow(row *sql.Row, op string) (*models.Vehicle, error) {
	return scanVehicle(row, op)
}
