package repository

import (
	"bus_booking/apperror"
	"bus_booking/model"
	"context"

	"gorm.io/gorm"
)

type UserRepository struct {
	db *gorm.DB
}

func NewUserRepository(db *gorm.DB) *UserRepository {
	return &UserRepository{db: db}
}

func (r *UserRepository) CreateUser(ctx context.Context, user *model.User) error {
	if err := r.db.WithContext(ctx).Create(user).Error; err != nil {
		return apperror.Internal("create user", err)
	}
	return nil
}

func (r *UserRepository) GetUser(ctx context.Context, id uint) (*model.User, error) {
	var user model.User
	if err := r.db.WithContext(ctx).First(&user, id).Error; err != nil {
		return nil, notFoundOr(err, "user", id, "get user")
	}
	return &user, nil
}

func (r *UserRepository) GetUserByEmail(ctx context.Context, email string) (*model.User, error) {
	var user model.User
	if err := r.db.WithContext(ctx).Where(&model.User{Email: email}).First(&user).Error; err != nil {
		return nil, notFoundOr(err, "user", email, "get user")
	}
	return &user, nil
}

func (r *UserRepository) EmailExists(ctx context.Context, email string) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&model.User{}).Where("email = ?", email).Count(&count).Error; err != nil {
		return false, apperror.Internal("check email", err)
	}
	return count > 0, nil
}

type VendorRepository struct {
	db *gorm.DB
}

func NewVendorRepository(db *gorm.DB) *VendorRepository {
	return &VendorRepository{db: db}
}

func (r *VendorRepository) CreateVendor(ctx context.Context, vendor *model.Vendor) error {
	if err := r.db.WithContext(ctx).Create(vendor).Error; err != nil {
		return apperror.Internal("create vendor", err)
	}
	return nil
}

func (r *VendorRepository) GetVendor(ctx context.Context, id uint) (*model.Vendor, error) {
	var vendor model.Vendor
	if err := r.db.WithContext(ctx).First(&vendor, id).Error; err != nil {
		return nil, notFoundOr(err, "vendor", id, "get vendor")
	}
	return &vendor, nil
}

func (r *VendorRepository) GetVendorByEmail(ctx context.Context, email string) (*model.Vendor, error) {
	var vendor model.Vendor
	if err := r.db.WithContext(ctx).Where(&model.Vendor{Email: email}).First(&vendor).Error; err != nil {
		return nil, notFoundOr(err, "vendor", email, "get vendor")
	}
	return &vendor, nil
}

func (r *VendorRepository) ListVendors(ctx context.Context, status model.VendorStatus) ([]model.Vendor, error) {
	query := r.db.WithContext(ctx).Order("created_at DESC")
	if status != "" {
		query = query.Where("status = ?", status)
	}
	var vendors []model.Vendor
	if err := query.Find(&vendors).Error; err != nil {
		return nil, apperror.Internal("list vendors", err)
	}
	return vendors, nil
}

func (r *VendorRepository) SaveVendor(ctx context.Context, vendor *model.Vendor) error {
	if err := r.db.WithContext(ctx).Save(vendor).Error; err != nil {
		return apperror.Internal("save vendor", err)
	}
	return nil
}

func (r *VendorRepository) EmailExists(ctx context.Context, email string) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&model.Vendor{}).Where("email = ?", email).Count(&count).Error; err != nil {
		return false, apperror.Internal("check email", err)
	}
	return count > 0, nil
}
