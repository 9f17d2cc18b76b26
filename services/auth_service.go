package services

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	commonerrors "github.com/PKL-SST-2025/BatikKita-Be/common/errors"
	"github.com/PKL-SST-2025/BatikKita-Be/models"
	"github.com/PKL-SST-2025/BatikKita-Be/repository"
)

type AuthService interface {
	Register(ctx context.Context, req *models.RegisterRequest) (*models.AuthResponse, *ServiceError)
	Login(ctx context.Context, req *models.LoginRequest) (*models.AuthResponse, *ServiceError)
	Profile(ctx context.Context, userID uuid.UUID) (*models.UserPublic, *ServiceError)
	UpdateProfile(ctx context.Context, userID uuid.UUID, req *models.UpdateProfileRequest) (*models.UserPublic, *ServiceError)
	ChangePassword(ctx context.Context, userID uuid.UUID, req *models.ChangePasswordRequest) *ServiceError

	ListAddresses(ctx context.Context, userID uuid.UUID) ([]models.UserAddress, *ServiceError)
	CreateAddress(ctx context.Context, userID uuid.UUID, req *models.CreateAddressRequest) (*models.UserAddress, *ServiceError)
	UpdateAddress(ctx context.Context, addressID, userID uuid.UUID, req *models.UpdateAddressRequest) (*models.UserAddress, *ServiceError)
	DeleteAddress(ctx context.Context, addressID, userID uuid.UUID) *ServiceError
}

type authServiceImpl struct {
	users  repository.UserRepository
	tokens *TokenService
	events EventPublisher
	logger *zap.Logger
}

func NewAuthService(users repository.UserRepository, tokens *TokenService, events EventPublisher, logger *zap.Logger) AuthService {
	return &authServiceImpl{users: users, tokens: tokens, events: events, logger: logger}
}

func (s *authServiceImpl) Register(ctx context.Context, req *models.RegisterRequest) (*models.AuthResponse, *ServiceError) {
	email := strings.ToLower(strings.TrimSpace(req.Email))

	if _, err := s.users.FindByEmail(ctx, email); err == nil {
		return nil, badRequest("Email is already registered")
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		s.logger.Error("failed to check existing email", zap.Error(err))
		return nil, internal("Failed to register")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		s.logger.Error("failed to hash password", zap.Error(err))
		return nil, internal("Failed to register")
	}

	user := models.User{
		Name:     strings.TrimSpace(req.Name),
		Email:    email,
		Password: string(hash),
		Role:     models.RoleCustomer,
		Phone:    req.Phone,
		IsActive: true,
	}
	if err := s.users.Create(ctx, &user); err != nil {
		s.logger.Error("failed to create user", zap.Error(err))
		return nil, internal("Failed to register")
	}

	token, err := s.tokens.Issue(user.ID.String(), user.Role)
	if err != nil {
		s.logger.Error("failed to issue token", zap.Error(err))
		return nil, internal("Failed to register")
	}

	if s.events != nil {
		event := models.DomainEvent{
			Event:     models.EventUserRegistered,
			UserID:    user.ID,
			Timestamp: time.Now(),
		}
		if err := s.events.Publish(ctx, event); err != nil {
			s.logger.Warn("failed to publish user.registered event", zap.Error(err))
		}
	}

	return &models.AuthResponse{Token: token, User: user.Public()}, nil
}

// Login deliberately returns the same message for an unknown email and a
// wrong password.
func (s *authServiceImpl) Login(ctx context.Context, req *models.LoginRequest) (*models.AuthResponse, *ServiceError) {
	email := strings.ToLower(strings.TrimSpace(req.Email))

	user, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fromCommon(commonerrors.ErrInvalidCredentials, "")
		}
		s.logger.Error("failed to fetch user", zap.Error(err))
		return nil, internal("Failed to login")
	}
	if !user.IsActive {
		return nil, fromCommon(commonerrors.ErrInvalidCredentials, "")
	}
	if bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(req.Password)) != nil {
		return nil, fromCommon(commonerrors.ErrInvalidCredentials, "")
	}

	token, err := s.tokens.Issue(user.ID.String(), user.Role)
	if err != nil {
		s.logger.Error("failed to issue token", zap.Error(err))
		return nil, internal("Failed to login")
	}
	return &models.AuthResponse{Token: token, User: user.Public()}, nil
}

func (s *authServiceImpl) Profile(ctx context.Context, userID uuid.UUID) (*models.UserPublic, *ServiceError) {
	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, notFound("User not found")
		}
		s.logger.Error("failed to fetch user", zap.Error(err))
		return nil, internal("Failed to fetch profile")
	}
	public := user.Public()
	return &public, nil
}

func (s *authServiceImpl) UpdateProfile(ctx context.Context, userID uuid.UUID, req *models.UpdateProfileRequest) (*models.UserPublic, *ServiceError) {
	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, notFound("User not found")
		}
		s.logger.Error("failed to fetch user", zap.Error(err))
		return nil, internal("Failed to update profile")
	}

	if req.Name != nil {
		name := strings.TrimSpace(*req.Name)
		if name == "" {
			return nil, badRequest("Name must not be empty")
		}
		user.Name = name
	}
	if req.Phone != nil {
		user.Phone = req.Phone
	}

	if err := s.users.Update(ctx, user); err != nil {
		s.logger.Error("failed to update user", zap.Error(err))
		return nil, internal("Failed to update profile")
	}
	public := user.Public()
	return &public, nil
}

func (s *authServiceImpl) ChangePassword(ctx context.Context, userID uuid.UUID, req *models.ChangePasswordRequest) *ServiceError {
	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return notFound("User not found")
		}
		s.logger.Error("failed to fetch user", zap.Error(err))
		return internal("Failed to change password")
	}

	if bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(req.CurrentPassword)) != nil {
		return badRequest("Current password is incorrect")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.NewPassword), bcrypt.DefaultCost)
	if err != nil {
		s.logger.Error("failed to hash password", zap.Error(err))
		return internal("Failed to change password")
	}
	user.Password = string(hash)

	if err := s.users.Update(ctx, user); err != nil {
		s.logger.Error("failed to update password", zap.Error(err))
		return internal("Failed to change password")
	}
	return nil
}

func (s *authServiceImpl) ListAddresses(ctx context.Context, userID uuid.UUID) ([]models.UserAddress, *ServiceError) {
	addresses, err := s.users.ListAddresses(ctx, userID)
	if err != nil {
		s.logger.Error("failed to list addresses", zap.Error(err))
		return nil, internal("Failed to fetch addresses")
	}
	return addresses, nil
}

func (s *authServiceImpl) CreateAddress(ctx context.Context, userID uuid.UUID, req *models.CreateAddressRequest) (*models.UserAddress, *ServiceError) {
	if req.IsDefault {
		if err := s.users.ClearDefaultAddress(ctx, userID); err != nil {
			s.logger.Error("failed to clear default address", zap.Error(err))
			return nil, internal("Failed to save address")
		}
	}

	address := models.UserAddress{
		UserID:     userID,
		Label:      req.Label,
		FullName:   req.FullName,
		Phone:      req.Phone,
		Street:     req.Street,
		City:       req.City,
		Province:   req.Province,
		PostalCode: req.PostalCode,
		Country:    req.Country,
		IsDefault:  req.IsDefault,
	}
	if err := s.users.CreateAddress(ctx, &address); err != nil {
		s.logger.Error("failed to create address", zap.Error(err))
		return nil, internal("Failed to save address")
	}
	return &address, nil
}

func (s *authServiceImpl) UpdateAddress(ctx context.Context, addressID, userID uuid.UUID, req *models.UpdateAddressRequest) (*models.UserAddress, *ServiceError) {
	address, err := s.users.FindAddressOwned(ctx, addressID, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, notFound("Address not found")
		}
		s.logger.Error("failed to fetch address", zap.Error(err))
		return nil, internal("Failed to update address")
	}

	if req.Label != nil {
		address.Label = *req.Label
	}
	if req.FullName != nil {
		address.FullName = *req.FullName
	}
	if req.Phone != nil {
		address.Phone = *req.Phone
	}
	if req.Street != nil {
		address.Street = *req.Street
	}
	if req.City != nil {
		address.City = *req.City
	}
	if req.Province != nil {
		address.Province = *req.Province
	}
	if req.PostalCode != nil {
		address.PostalCode = *req.PostalCode
	}
	if req.Country != nil {
		address.Country = *req.Country
	}
	if req.IsDefault != nil {
		if *req.IsDefault && !address.IsDefault {
			if err := s.users.ClearDefaultAddress(ctx, userID); err != nil {
				s.logger.Error("failed to clear default address", zap.Error(err))
				return nil, internal("Failed to update address")
			}
		}
		address.IsDefault = *req.IsDefault
	}

	if err := s.users.UpdateAddress(ctx, address); err != nil {
		s.logger.Error("failed to update address", zap.Error(err))
		return nil, internal("Failed to update address")
	}
	return address, nil
}

func (s *authServiceImpl) DeleteAddress(ctx context.Context, addressID, userID uuid.UUID) *ServiceError {
	deleted, err := s.users.DeleteAddressOwned(ctx, addressID, userID)
	if err != nil {
		s.logger.Error("failed to delete address", zap.Error(err))
		return internal("Failed to delete address")
	}
	if !deleted {
		return notFound("Address not found")
	}
	return nil
}
