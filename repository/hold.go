package repository

import (
	"bus_booking/apperror"
	"bus_booking/model"
	"context"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type HoldRepository struct {
	db *gorm.DB
}

func NewHoldRepository(db *gorm.DB) *HoldRepository {
	return &HoldRepository{db: db}
}

func (r *HoldRepository) CreateHold(ctx context.Context, hold *model.Hold) error {
	if err := r.db.WithContext(ctx).Create(hold).Error; err != nil {
		return apperror.Internal("create hold", err)
	}
	return nil
}

func (r *HoldRepository) GetHold(ctx context.Context, holdId string) (*model.Hold, error) {
	var hold model.Hold
	if err := r.db.WithContext(ctx).Preload("Seats").Where("id = ?", holdId).First(&hold).Error; err != nil {
		return nil, notFoundOr(err, "hold", holdId, "get hold")
	}
	return &hold, nil
}

func (r *HoldRepository) GetHoldForUpdate(ctx context.Context, holdId string) (*model.Hold, error) {
	var hold model.Hold
	if err := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("id = ?", holdId).
		First(&hold).Error; err != nil {
		return nil, notFoundOr(err, "hold", holdId, "lock hold")
	}
	if err := r.db.WithContext(ctx).Where("hold_id = ?", holdId).Order("seat_id ASC").Find(&hold.Seats).Error; err != nil {
		return nil, apperror.Internal("lock hold", err)
	}
	return &hold, nil
}

func (r *HoldRepository) DeleteHold(ctx context.Context, holdId string) (bool, error) {
	db := r.db.WithContext(ctx)
	if err := db.Where("hold_id = ?", holdId).Delete(&model.HoldSeat{}).Error; err != nil {
		return false, apperror.Internal("delete hold", err)
	}
	result := db.Where("id = ?", holdId).Delete(&model.Hold{})
	if result.Error != nil {
		return false, apperror.Internal("delete hold", result.Error)
	}
	return result.RowsAffected > 0, nil
}

func (r *HoldRepository) ListExpiredHolds(ctx context.Context, now time.Time, after *HoldCursor, limit int) ([]model.Hold, error) {
	var holds []model.Hold
	query := r.db.WithContext(ctx).Where("expires_at <= ?", now)
	if after != nil {
		query = query.Where("(expires_at > ? OR (expires_at = ? AND id > ?))", after.ExpiresAt, after.ExpiresAt, after.ID)
	}
	if err := query.
		Order("expires_at ASC, id ASC").
		Limit(limit).
		Find(&holds).Error; err != nil {
		return nil, apperror.Internal("list expired holds", err)
	}
	return holds, nil
}

func (r *HoldRepository) FindHoldsForSeats(ctx context.Context, seatIds []uint) ([]model.Hold, error) {
	db := r.db.WithContext(ctx)
	var holds []model.Hold
	if err := db.
		Preload("Seats").
		Where("id IN (?)", db.Model(&model.HoldSeat{}).Select("hold_id").Where("seat_id IN ?", seatIds)).
		Find(&holds).Error; err != nil {
		return nil, apperror.Internal("find holds for seats", err)
	}
	return holds, nil
}
