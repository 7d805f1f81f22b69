package repository

import (
	"bus_booking/apperror"
	"bus_booking/model"
	"context"

	"gorm.io/gorm"
)

// FleetRepository stores what vendors manage: buses, routes, and the
// shared city and bus type catalogues.
type FleetRepository struct {
	db *gorm.DB
}

func NewFleetRepository(db *gorm.DB) *FleetRepository {
	return &FleetRepository{db: db}
}

func (r *FleetRepository) CreateBus(ctx context.Context, bus *model.Bus) error {
	if err := r.db.WithContext(ctx).Omit("Vendor", "BusType").Create(bus).Error; err != nil {
		return apperror.Internal("create bus", err)
	}
	return nil
}

func (r *FleetRepository) SaveBus(ctx context.Context, bus *model.Bus) error {
	if err := r.db.WithContext(ctx).Omit("Vendor", "BusType").Save(bus).Error; err != nil {
		return apperror.Internal("save bus", err)
	}
	return nil
}

func (r *FleetRepository) GetBus(ctx context.Context, id uint) (*model.Bus, error) {
	var bus model.Bus
	if err := r.db.WithContext(ctx).Preload("BusType").First(&bus, id).Error; err != nil {
		return nil, notFoundOr(err, "bus", id, "get bus")
	}
	return &bus, nil
}

func (r *FleetRepository) ListBusesByVendor(ctx context.Context, vendorId uint) ([]model.Bus, error) {
	var buses []model.Bus
	if err := r.db.WithContext(ctx).Preload("BusType").Where("vendor_id = ?", vendorId).Order("id ASC").Find(&buses).Error; err != nil {
		return nil, apperror.Internal("list buses", err)
	}
	return buses, nil
}

func (r *FleetRepository) DeleteBus(ctx context.Context, id uint) error {
	if err := r.db.WithContext(ctx).Delete(&model.Bus{}, id).Error; err != nil {
		return apperror.Internal("delete bus", err)
	}
	return nil
}

func (r *FleetRepository) BusNumberExists(ctx context.Context, number string) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&model.Bus{}).Where("bus_number = ?", number).Count(&count).Error; err != nil {
		return false, apperror.Internal("check bus number", err)
	}
	return count > 0, nil
}

func (r *FleetRepository) GetBusType(ctx context.Context, id uint) (*model.BusType, error) {
	var busType model.BusType
	if err := r.db.WithContext(ctx).First(&busType, id).Error; err != nil {
		return nil, notFoundOr(err, "bus type", id, "get bus type")
	}
	return &busType, nil
}

func (r *FleetRepository) ListBusTypes(ctx context.Context) ([]model.BusType, error) {
	var types []model.BusType
	if err := r.db.WithContext(ctx).Order("type ASC").Find(&types).Error; err != nil {
		return nil, apperror.Internal("list bus types", err)
	}
	return types, nil
}

func (r *FleetRepository) CreateCity(ctx context.Context, city *model.City) error {
	if err := r.db.WithContext(ctx).Create(city).Error; err != nil {
		return apperror.Internal("create city", err)
	}
	return nil
}

func (r *FleetRepository) ListCities(ctx context.Context) ([]model.City, error) {
	var cities []model.City
	if err := r.db.WithContext(ctx).Order("name ASC").Find(&cities).Error; err != nil {
		return nil, apperror.Internal("list cities", err)
	}
	return cities, nil
}

func (r *FleetRepository) GetCity(ctx context.Context, id uint) (*model.City, error) {
	var city model.City
	if err := r.db.WithContext(ctx).First(&city, id).Error; err != nil {
		return nil, notFoundOr(err, "city", id, "get city")
	}
	return &city, nil
}

func (r *FleetRepository) CreateRoute(ctx context.Context, route *model.Route) error {
	if err := r.db.WithContext(ctx).Omit("SourceCity", "DestinationCity").Create(route).Error; err != nil {
		return apperror.Internal("create route", err)
	}
	return nil
}

func (r *FleetRepository) ListRoutesByVendor(ctx context.Context, vendorId uint) ([]model.Route, error) {
	var routes []model.Route
	if err := r.db.WithContext(ctx).
		Preload("SourceCity").
		Preload("DestinationCity").
		Where("vendor_id = ?", vendorId).
		Find(&routes).Error; err != nil {
		return nil, apperror.Internal("list routes", err)
	}
	return routes, nil
}
