package service

import (
	"bus_booking/apperror"
	"bus_booking/constants"
	"bus_booking/helper"
	"bus_booking/model"
	"bus_booking/validate"
	"context"
	"log/slog"
	"strings"

	"github.com/jinzhu/copier"
	"github.com/jonboulle/clockwork"
)

type UserStore interface {
	CreateUser(ctx context.Context, user *model.User) error
	GetUser(ctx context.Context, id uint) (*model.User, error)
	GetUserByEmail(ctx context.Context, email string) (*model.User, error)
	EmailExists(ctx context.Context, email string) (bool, error)
}

type VendorStore interface {
	CreateVendor(ctx context.Context, vendor *model.Vendor) error
	GetVendor(ctx context.Context, id uint) (*model.Vendor, error)
	GetVendorByEmail(ctx context.Context, email string) (*model.Vendor, error)
	ListVendors(ctx context.Context, status model.VendorStatus) ([]model.Vendor, error)
	SaveVendor(ctx context.Context, vendor *model.Vendor) error
	EmailExists(ctx context.Context, email string) (bool, error)
}

// VendorMailer tells a vendor that an admin decided on the registration.
type VendorMailer interface {
	VendorDecision(ctx context.Context, vendor *model.Vendor) error
}

type AuthService struct {
	users   UserStore
	vendors VendorStore
	mailer  VendorMailer
	clock   clockwork.Clock
}

func NewAuthService(users UserStore, vendors VendorStore, mailer VendorMailer, clock clockwork.Clock) *AuthService {
	if clock == nil {
		clock = clockwork.NewRealClock()
	}
	return &AuthService{users: users, vendors: vendors, mailer: mailer, clock: clock}
}

func (s *AuthService) RegisterUser(ctx context.Context, input model.RegisterUserInput) (*model.User, error) {
	if err := validate.Struct(input); err != nil {
		return nil, err
	}
	input.Email = strings.ToLower(strings.TrimSpace(input.Email))
	exists, err := s.users.EmailExists(ctx, input.Email)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, apperror.ConflictError{Resource: "user", Msg: constants.ERROR_EMAIL_ALREADY_USED}
	}

	var user model.User
	if err := copier.Copy(&user, &input); err != nil {
		return nil, apperror.Internal("map user", err)
	}
	hash, err := helper.HashPassword(input.Password)
	if err != nil {
		return nil, apperror.Internal("hash password", err)
	}
	user.Password = hash
	user.Role = constants.ROLE_USER
	if err := s.users.CreateUser(ctx, &user); err != nil {
		return nil, err
	}
	slog.Info("user registered", "user_id", user.ID)
	return &user, nil
}

// Login authenticates users and the admin account.
func (s *AuthService) Login(ctx context.Context, input model.LoginInput) (model.TokenData, error) {
	if err := validate.Struct(input); err != nil {
		return model.TokenData{}, err
	}
	user, err := s.users.GetUserByEmail(ctx, strings.ToLower(strings.TrimSpace(input.Email)))
	if err != nil {
		if apperror.IsNotFound(err) {
			return model.TokenData{}, apperror.UnauthorizedError{Msg: constants.ERROR_INVALID_CREDENTIALS}
		}
		return model.TokenData{}, err
	}
	if !helper.CheckPasswordHash(input.Password, user.Password) {
		return model.TokenData{}, apperror.UnauthorizedError{Msg: constants.ERROR_INVALID_CREDENTIALS}
	}
	return s.issue(model.TokenClaim{UserId: user.ID, Email: user.Email, Role: user.Role})
}

func (s *AuthService) Me(ctx context.Context, claim model.TokenClaim) (any, error) {
	if claim.Role == constants.ROLE_VENDOR {
		return s.vendors.GetVendor(ctx, claim.VendorId)
	}
	return s.users.GetUser(ctx, claim.UserId)
}

func (s *AuthService) RegisterVendor(ctx context.Context, input model.RegisterVendorInput) (*model.Vendor, error) {
	if err := validate.Struct(input); err != nil {
		return nil, err
	}
	input.Email = strings.ToLower(strings.TrimSpace(input.Email))
	exists, err := s.vendors.EmailExists(ctx, input.Email)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, apperror.ConflictError{Resource: "vendor", Msg: constants.ERROR_EMAIL_ALREADY_USED}
	}

	var vendor model.Vendor
	if err := copier.Copy(&vendor, &input); err != nil {
		return nil, apperror.Internal("map vendor", err)
	}
	hash, err := helper.HashPassword(input.Password)
	if err != nil {
		return nil, apperror.Internal("hash password", err)
	}
	vendor.Password = hash
	vendor.Status = model.VendorPending
	if err := s.vendors.CreateVendor(ctx, &vendor); err != nil {
		return nil, err
	}
	slog.Info("vendor registered", "vendor_id", vendor.ID)
	return &vendor, nil
}

func (s *AuthService) LoginVendor(ctx context.Context, input model.LoginInput) (model.TokenData, error) {
	if err := validate.Struct(input); err != nil {
		return model.TokenData{}, err
	}
	vendor, err := s.vendors.GetVendorByEmail(ctx, strings.ToLower(strings.TrimSpace(input.Email)))
	if err != nil {
		if apperror.IsNotFound(err) {
			return model.TokenData{}, apperror.UnauthorizedError{Msg: constants.ERROR_INVALID_CREDENTIALS}
		}
		return model.TokenData{}, err
	}
	if !helper.CheckPasswordHash(input.Password, vendor.Password) {
		return model.TokenData{}, apperror.UnauthorizedError{Msg: constants.ERROR_INVALID_CREDENTIALS}
	}
	if vendor.Status != model.VendorApproved {
		return model.TokenData{}, apperror.UnauthorizedError{Msg: constants.ERROR_VENDOR_NOT_APPROVED}
	}
	return s.issue(model.TokenClaim{VendorId: vendor.ID, Email: vendor.Email, Role: constants.ROLE_VENDOR})
}

func (s *AuthService) UpdateVendor(ctx context.Context, vendorId uint, input model.UpdateVendorInput) (*model.Vendor, error) {
	if err := validate.Struct(input); err != nil {
		return nil, err
	}
	vendor, err := s.vendors.GetVendor(ctx, vendorId)
	if err != nil {
		return nil, err
	}
	if err := copier.CopyWithOption(vendor, &input, copier.Option{IgnoreEmpty: true}); err != nil {
		return nil, apperror.Internal("map vendor", err)
	}
	if err := s.vendors.SaveVendor(ctx, vendor); err != nil {
		return nil, err
	}
	return vendor, nil
}

func (s *AuthService) ListVendors(ctx context.Context, status model.VendorStatus) ([]model.Vendor, error) {
	switch status {
	case "", model.VendorPending, model.VendorApproved, model.VendorRejected:
	default:
		return nil, apperror.ValidationError{Field: "status", Reason: "must be one of PENDING APPROVED REJECTED"}
	}
	return s.vendors.ListVendors(ctx, status)
}

func (s *AuthService) ApproveVendor(ctx context.Context, vendorId uint) (*model.Vendor, error) {
	return s.decideVendor(ctx, vendorId, model.VendorApproved)
}

func (s *AuthService) RejectVendor(ctx context.Context, vendorId uint) (*model.Vendor, error) {
	return s.decideVendor(ctx, vendorId, model.VendorRejected)
}

func (s *AuthService) decideVendor(ctx context.Context, vendorId uint, status model.VendorStatus) (*model.Vendor, error) {
	vendor, err := s.vendors.GetVendor(ctx, vendorId)
	if err != nil {
		return nil, err
	}
	if vendor.Status == status {
		return vendor, nil
	}
	vendor.Status = status
	if err := s.vendors.SaveVendor(ctx, vendor); err != nil {
		return nil, err
	}
	slog.Info("vendor status changed", "vendor_id", vendor.ID, "status", status)

	if s.mailer != nil {
		if err := s.mailer.VendorDecision(ctx, vendor); err != nil {
			slog.Warn("vendor notice not sent", "vendor_id", vendor.ID, "error", err)
		}
	}
	return vendor, nil
}

func (s *AuthService) issue(claim model.TokenClaim) (model.TokenData, error) {
	token, err := helper.GenerateAccessToken(claim, s.clock.Now())
	if err != nil {
		return model.TokenData{}, apperror.Internal("sign token", err)
	}
	return token, nil
}
