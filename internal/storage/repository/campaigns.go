package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/cartanga/cartanga/internal/lib/apperr"
	"github.com/cartanga/cartanga/internal/models"
)

const campaignColumns = `id, title, description, vehicle_spec, target_amount,
			      current_amount, start_date, end_date, status, contributions,
			      rewards, vehicle_id`

// CreateCampaign вставляет новую кампанию и возвращает её ID.
func (s *Storage) CreateCampaign(ctx context.Context, c models.Campaign) (string, error) {
	const op = "storage.CreateCampaign"
	select {
	case <-ctx.Done():
		return "", fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `INSERT INTO campaigns (title, description, vehicle_spec, target_amount,
			      current_amount, start_date, end_date, status, contributions, rewards)
			  VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
			  RETURNING id`
	var newID string
	err := s.DB.QueryRowContext(ctx, query,
		c.Title, c.Description, mustJSON(c.VehicleSpec), c.TargetAmount,
		c.CurrentAmount, c.StartDate, c.EndDate, c.Status,
		mustJSON(c.Contributions), mustJSON(c.Rewards)).Scan(&newID)
	if err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}
	return newID, nil
}

// ReadCampaign возвращает кампанию по её ID.
func (s *Storage) ReadCampaign(ctx context.Context, id string) (*models.Campaign, error) {
	const op = "storage.ReadCampaign"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT ` + campaignColumns + ` FROM campaigns WHERE id = $1`
	return scanCampaign(s.DB.QueryRowContext(ctx, query, id), op)
}

// ListActiveCampaigns возвращает все кампании со статусом Active.
func (s *Storage) ListActiveCampaigns(ctx context.Context) ([]*models.Campaign, error) {
	const op = "storage.ListActiveCampaigns"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT ` + campaignColumns + `
			  FROM campaigns
			  WHERE status = $1
			  ORDER BY start_date`
	rows, err := s.DB.QueryContext(ctx, query, models.CampaignActive)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer func() {
		_ = rows.Close()
	}()

	var result []*models.Campaign
	for rows.Next() {
		item, err := scanCampaign(rows, op)
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

// UpdateCampaign применяет patch к кампании и возвращает обновлённую запись.
func (s *Storage) UpdateCampaign(ctx context.Context, id string, patch models.CampaignPatch) (*models.Campaign, error) {
	const op = "storage.UpdateCampaign"
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
	if patch.Title != nil {
		add("title", *patch.Title)
	}
	if patch.Description != nil {
		add("description", *patch.Description)
	}
	if patch.VehicleSpec != nil {
		add("vehicle_spec", mustJSON(*patch.VehicleSpec))
	}
	if patch.TargetAmount != nil {
		add("target_amount", *patch.TargetAmount)
	}
	if patch.StartDate != nil {
		add("start_date", *patch.StartDate)
	}
	if patch.EndDate != nil {
		add("end_date", *patch.EndDate)
	}
	if patch.Rewards != nil {
		add("rewards", mustJSON(*patch.Rewards))
	}
	if len(sets) == 0 {
		return s.ReadCampaign(ctx, id)
	}

	args = append(args, id)
	query := fmt.Sprintf(`UPDATE campaigns SET %s WHERE id = $%d RETURNING `+campaignColumns,
		strings.Join(sets, ", "), len(args))
	return scanCampaign(s.DB.QueryRowContext(ctx, query, args...), op)
}

// Contribute атомарно добавляет взнос в кампанию: дописывает запись в список,
// увеличивает собранную сумму и переводит статус в Completed, если целевая
// сумма достигнута. Всё выполняется одним условным UPDATE, чтобы параллельные
// взносы не теряли обновлений. Возвращает sql.ErrNoRows через apperr.ErrInvalidState,
// если кампания не в статусе Active.
func (s *Storage) Contribute(ctx context.Context, id, userUID string, amount float64) (*models.Campaign, error) {
	const op = "storage.Contribute"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	contribution := models.Contribution{
		UserUID: userUID,
		Amount:  amount,
		Date:    time.Now().UTC(),
	}
	query := `UPDATE campaigns
			  SET contributions = contributions || $1::jsonb,
			      current_amount = current_amount + $2,
			      status = CASE
			          WHEN current_amount + $2 >= target_amount THEN 'Completed'
			          ELSE status
			      END
			  WHERE id = $3
			    AND status = 'Active'
			  RETURNING ` + campaignColumns
	campaign, err := scanCampaign(s.DB.QueryRowContext(ctx, query,
		mustJSON([]models.Contribution{contribution}), amount, id), op)
	if err != nil {
		if errors.Is(err, apperr.ErrNotFound) {
			// Кампания либо отсутствует, либо не активна — различает сервис.
			return nil, fmt.Errorf("%s: %w", op, apperr.ErrInvalidState)
		}
		return nil, err
	}
	return campaign, nil
}

// LinkVehicle привязывает созданный автомобиль к кампании.
// Ссылка устанавливается не более одного раза: повторные вызовы не перезаписывают её.
func (s *Storage) LinkVehicle(ctx context.Context, id, vehicleID string) error {
	const op = "storage.LinkVehicle"
	select {
	case <-ctx.Done():
		return fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `UPDATE campaigns
			  SET vehicle_id = $1
			  WHERE id = $2
			    AND vehicle_id IS NULL`
	if _, err := s.DB.ExecContext(ctx, query, vehicleID, id); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

// CancelCampaign безусловно переводит кампанию в статус Cancelled.
// Возвращает количество изменённых строк.
func (s *Storage) CancelCampaign(ctx context.Context, id string) (int, error) {
	const op = "storage.CancelCampaign"
	select {
	case <-ctx.Done():
		return 0, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `UPDATE campaigns
			  SET status = $1
			  WHERE id = $2`
	result, err := s.DB.ExecContext(ctx, query, models.CampaignCancelled, id)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	return int(rowsAffected), nil
}

func scanCampaign(row rowScanner, op string) (*models.Campaign, error) {
	var c models.Campaign
	var vehicleSpec, contributions, rewards []byte
	var vehicleID sql.NullString
	if err := row.Scan(&c.ID, &c.Title, &c.Description, &vehicleSpec,
		&c.TargetAmount, &c.CurrentAmount, &c.StartDate, &c.EndDate,
		&c.Status, &contributions, &rewards, &vehicleID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%s: %w", op, apperr.ErrNotFound)
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	c.Contributions = []models.Contribution{}
	c.Rewards = []models.RewardTier{}
	if err := scanJSON(vehicleSpec, &c.VehicleSpec); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if err := scanJSON(contributions, &c.Contributions); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if err := scanJSON(rewards, &c.Rewards); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if vehicleID.Valid {
		c.VehicleID = &vehicleID.String
	}
	return &c, nil
}
