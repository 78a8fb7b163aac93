package services

import (
	"cashier/metrics"
	"cashier/models"
	"context"
	"fmt"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type TurnoverSummary struct {
	TotalRequired  decimal.Decimal `json:"totalRequired"`
	TotalCompleted decimal.Decimal `json:"totalCompleted"`
	TotalRemaining decimal.Decimal `json:"totalRemaining"`
	CanWithdraw    bool            `json:"canWithdraw"`
}

// TurnoverProgress reports how one wagering amount was spread over the
// user's open requirements.
type TurnoverProgress struct {
	Applied   decimal.Decimal `json:"applied"`
	Discarded decimal.Decimal `json:"discarded"`
	Entries   []uint          `json:"entries"`
}

// RecordTurnoverProgress applies wagered volume oldest deposit first.
func (s *Service) RecordTurnoverProgress(ctx context.Context, userID uint, wagered decimal.Decimal) (TurnoverProgress, error) {
	var progress TurnoverProgress
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var err error
		progress, err = recordTurnoverProgress(tx, userID, wagered)
		return err
	})
	if err != nil {
		return progress, err
	}

	metrics.TurnoverApplied.Add(progress.Applied.InexactFloat64())
	return progress, nil
}

func recordTurnoverProgress(tx *gorm.DB, userID uint, wagered decimal.Decimal) (TurnoverProgress, error) {
	progress := TurnoverProgress{Applied: decimal.Zero, Discarded: decimal.Zero}
	if !wagered.IsPositive() {
		return progress, nil
	}

	var entries []models.DepositTurnover
	if err := tx.Clauses(forUpdate).
		Where("user_id = ? AND status = ? AND remaining_turnover > 0", userID, models.TurnoverActive).
		Order("created_at ASC, id ASC").
		Find(&entries).Error; err != nil {
		return progress, fmt.Errorf("load open turnovers: %w", err)
	}

	left := wagered
	for _, entry := range entries {
		if !left.IsPositive() {
			break
		}

		step := decimal.Min(left, entry.RemainingTurnover)
		res := tx.Model(&models.DepositTurnover{}).
			Where("id = ? AND remaining_turnover >= ?", entry.ID, step).
			Updates(map[string]any{
				"completed_turnover": gorm.Expr("completed_turnover + ?", step),
				"remaining_turnover": gorm.Expr("remaining_turnover - ?", step),
				"status": gorm.Expr("CASE WHEN remaining_turnover - ? <= 0 THEN ? ELSE status END",
					step, models.TurnoverCompleted),
			})
		if res.Error != nil {
			return progress, fmt.Errorf("apply turnover %d: %w", entry.ID, res.Error)
		}
		if res.RowsAffected == 0 {
			return progress, fmt.Errorf("apply turnover %d: remaining changed underneath", entry.ID)
		}

		left = left.Sub(step)
		progress.Applied = progress.Applied.Add(step)
		progress.Entries = append(progress.Entries, entry.ID)
	}

	progress.Discarded = left
	return progress, nil
}

func (s *Service) GetAggregateTurnover(ctx context.Context, userID uint) (TurnoverSummary, error) {
	return aggregateTurnover(s.db.WithContext(ctx), userID)
}

// aggregateTurnover sums every entry of the user, whatever its status.
func aggregateTurnover(tx *gorm.DB, userID uint) (TurnoverSummary, error) {
	var row struct {
		TotalRequired  decimal.Decimal
		TotalCompleted decimal.Decimal
		TotalRemaining decimal.Decimal
	}
	if err := tx.Model(&models.DepositTurnover{}).
		Select("COALESCE(SUM(required_turnover), 0) AS total_required, "+
			"COALESCE(SUM(completed_turnover), 0) AS total_completed, "+
			"COALESCE(SUM(remaining_turnover), 0) AS total_remaining").
		Where("user_id = ?", userID).
		Scan(&row).Error; err != nil {
		return TurnoverSummary{}, fmt.Errorf("aggregate turnover: %w", err)
	}

	return TurnoverSummary{
		TotalRequired:  row.TotalRequired,
		TotalCompleted: row.TotalCompleted,
		TotalRemaining: row.TotalRemaining,
		CanWithdraw:    !row.TotalRemaining.IsPositive(),
	}, nil
}

func (s *Service) ListTurnovers(ctx context.Context, userID uint) ([]models.DepositTurnover, TurnoverSummary, error) {
	db := s.db.WithContext(ctx)

	var count int64
	if err := db.Model(&models.User{}).Where("id = ?", userID).Count(&count).Error; err != nil {
		return nil, TurnoverSummary{}, fmt.Errorf("check user: %w", err)
	}
	if count == 0 {
		return nil, TurnoverSummary{}, NotFoundError("user")
	}

	entries := []models.DepositTurnover{}
	if err := db.Where("user_id = ?", userID).
		Order("created_at DESC, id DESC").
		Find(&entries).Error; err != nil {
		return nil, TurnoverSummary{}, fmt.Errorf("list turnovers: %w", err)
	}

	summary, err := aggregateTurnover(db, userID)
	if err != nil {
		return nil, TurnoverSummary{}, err
	}
	return entries, summary, nil
}
