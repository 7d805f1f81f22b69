package service

import (
	"bus_booking/apperror"
	"bus_booking/model"
	"bus_booking/validate"
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/jinzhu/copier"
)

type FleetStore interface {
	CreateBus(ctx context.Context, bus *model.Bus) error
	SaveBus(ctx context.Context, bus *model.Bus) error
	GetBus(ctx context.Context, id uint) (*model.Bus, error)
	ListBusesByVendor(ctx context.Context, vendorId uint) ([]model.Bus, error)
	DeleteBus(ctx context.Context, id uint) error
	BusNumberExists(ctx context.Context, number string) (bool, error)
	GetBusType(ctx context.Context, id uint) (*model.BusType, error)
	ListBusTypes(ctx context.Context) ([]model.BusType, error)
	CreateCity(ctx context.Context, city *model.City) error
	ListCities(ctx context.Context) ([]model.City, error)
	GetCity(ctx context.Context, id uint) (*model.City, error)
	CreateRoute(ctx context.Context, route *model.Route) error
	ListRoutesByVendor(ctx context.Context, vendorId uint) ([]model.Route, error)
}

// ImageUploader stores an image and returns its public URL.
type ImageUploader interface {
	UploadImage(ctx context.Context, r io.Reader, folder, publicId string) (string, error)
}

type FleetService struct {
	fleet    FleetStore
	uploader ImageUploader
}

func NewFleetService(fleet FleetStore, uploader ImageUploader) *FleetService {
	return &FleetService{fleet: fleet, uploader: uploader}
}

func (s *FleetService) CreateBus(ctx context.Context, vendorId uint, input model.CreateBusInput) (*model.Bus, error) {
	if err := validate.Struct(input); err != nil {
		return nil, err
	}
	input.BusNumber = strings.ToUpper(strings.TrimSpace(input.BusNumber))
	exists, err := s.fleet.BusNumberExists(ctx, input.BusNumber)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, apperror.ConflictError{Resource: "bus", Msg: "bus number already registered"}
	}
	if _, err := s.fleet.GetBusType(ctx, input.BusTypeId); err != nil {
		if apperror.IsNotFound(err) {
			return nil, apperror.ValidationError{Field: "busTypeId", Reason: "unknown bus type"}
		}
		return nil, err
	}

	var bus model.Bus
	if err := copier.Copy(&bus, &input); err != nil {
		return nil, apperror.Internal("map bus", err)
	}
	bus.VendorId = vendorId
	if bus.SeatCols == 0 {
		bus.SeatCols = model.DefaultSeatsPerRow
	}
	if err := s.fleet.CreateBus(ctx, &bus); err != nil {
		return nil, err
	}
	slog.Info("bus created", "bus_id", bus.ID, "vendor_id", vendorId)
	return &bus, nil
}

func (s *FleetService) UpdateBus(ctx context.Context, vendorId, busId uint, input model.UpdateBusInput) (*model.Bus, error) {
	if err := validate.Struct(input); err != nil {
		return nil, err
	}
	bus, err := s.ownedBus(ctx, vendorId, busId)
	if err != nil {
		return nil, err
	}
	if input.BusTypeId != 0 {
		if _, err := s.fleet.GetBusType(ctx, input.BusTypeId); err != nil {
			if apperror.IsNotFound(err) {
				return nil, apperror.ValidationError{Field: "busTypeId", Reason: "unknown bus type"}
			}
			return nil, err
		}
	}
	if err := copier.CopyWithOption(bus, &input, copier.Option{IgnoreEmpty: true}); err != nil {
		return nil, apperror.Internal("map bus", err)
	}
	if err := s.fleet.SaveBus(ctx, bus); err != nil {
		return nil, err
	}
	return bus, nil
}

func (s *FleetService) GetBus(ctx context.Context, id uint) (*model.Bus, error) {
	return s.fleet.GetBus(ctx, id)
}

func (s *FleetService) ListBuses(ctx context.Context, vendorId uint) ([]model.Bus, error) {
	return s.fleet.ListBusesByVendor(ctx, vendorId)
}

func (s *FleetService) DeleteBus(ctx context.Context, vendorId, busId uint) error {
	if _, err := s.ownedBus(ctx, vendorId, busId); err != nil {
		return err
	}
	return s.fleet.DeleteBus(ctx, busId)
}

// UploadBusImage stores the picture under buses/ and saves its URL on the bus.
func (s *FleetService) UploadBusImage(ctx context.Context, vendorId, busId uint, r io.Reader) (*model.Bus, error) {
	if s.uploader == nil {
		return nil, apperror.Internal("upload bus image", fmt.Errorf("image storage is not configured"))
	}
	bus, err := s.ownedBus(ctx, vendorId, busId)
	if err != nil {
		return nil, err
	}
	url, err := s.uploader.UploadImage(ctx, r, "buses", fmt.Sprintf("bus-%d", bus.ID))
	if err != nil {
		return nil, apperror.Internal("upload bus image", err)
	}
	bus.ImageUrl = &url
	if err := s.fleet.SaveBus(ctx, bus); err != nil {
		return nil, err
	}
	return bus, nil
}

func (s *FleetService) ListBusTypes(ctx context.Context) ([]model.BusType, error) {
	return s.fleet.ListBusTypes(ctx)
}

func (s *FleetService) ListCities(ctx context.Context) ([]model.City, error) {
	return s.fleet.ListCities(ctx)
}

func (s *FleetService) CreateCity(ctx context.Context, input model.CreateCityInput) (*model.City, error) {
	if err := validate.Struct(input); err != nil {
		return nil, err
	}
	city := model.City{Name: strings.TrimSpace(input.Name)}
	if err := s.fleet.CreateCity(ctx, &city); err != nil {
		return nil, err
	}
	return &city, nil
}

func (s *FleetService) CreateRoute(ctx context.Context, vendorId uint, input model.CreateRouteInput) (*model.Route, error) {
	if err := validate.Struct(input); err != nil {
		return nil, err
	}
	source, err := s.city(ctx, "sourceCityId", input.SourceCityId)
	if err != nil {
		return nil, err
	}
	destination, err := s.city(ctx, "destinationCityId", input.DestinationCityId)
	if err != nil {
		return nil, err
	}

	var route model.Route
	if err := copier.Copy(&route, &input); err != nil {
		return nil, apperror.Internal("map route", err)
	}
	route.VendorId = vendorId
	if err := s.fleet.CreateRoute(ctx, &route); err != nil {
		return nil, err
	}
	route.SourceCity = *source
	route.DestinationCity = *destination
	return &route, nil
}

func (s *FleetService) ListRoutes(ctx context.Context, vendorId uint) ([]model.Route, error) {
	return s.fleet.ListRoutesByVendor(ctx, vendorId)
}

func (s *FleetService) city(ctx context.Context, field string, id uint) (*model.City, error) {
	city, err := s.fleet.GetCity(ctx, id)
	if apperror.IsNotFound(err) {
		return nil, apperror.ValidationError{Field: field, Reason: "unknown city"}
	}
	return city, err
}

func (s *FleetService) ownedBus(ctx context.Context, vendorId, busId uint) (*model.Bus, error) {
	bus, err := s.fleet.GetBus(ctx, busId)
	if err != nil {
		return nil, err
	}
	if bus.VendorId != vendorId {
		return nil, apperror.NotFoundError{Resource: "bus", ID: busId}
	}
	return bus, nil
}
