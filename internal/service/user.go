package service

import (
	"context"
	"strings"
	"unicode"
	"unicode/utf8"

	"rustic-lights-backend/internal/apperr"
	"rustic-lights-backend/internal/auth"
	"rustic-lights-backend/internal/dto"
	"rustic-lights-backend/internal/model"
	"rustic-lights-backend/internal/repository"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

const bcryptCost = 12

type UserService interface {
	Register(ctx context.Context, req *dto.RegisterRequest) (*dto.UserResponse, error)
	Login(ctx context.Context, req *dto.LoginRequest) (*dto.TokenPairResponse, error)
	Refresh(ctx context.Context, refreshToken string) (*dto.TokenPairResponse, error)
	Logout(token string)
	GetUser(ctx context.Context, id uuid.UUID) (*dto.UserResponse, error)
	UpdateUser(ctx context.Context, id uuid.UUID, req *dto.UpdateUserRequest) (*dto.UserResponse, error)
	DeleteUser(ctx context.Context, id uuid.UUID) error
	CreateAddress(ctx context.Context, userID uuid.UUID, req *dto.AddressRequest) (*model.Address, error)
	ListAddresses(ctx context.Context, userID uuid.UUID) ([]*model.Address, error)
}

type userServiceImpl struct {
	userRepo    repository.UserRepository
	addressRepo repository.AddressRepository
	tokenMaker  *auth.Maker
	blacklist   *auth.Blacklist
}

func NewUserService(
	userRepo repository.UserRepository,
	addressRepo repository.AddressRepository,
	tokenMaker *auth.Maker,
	blacklist *auth.Blacklist,
) UserService {
	return &userServiceImpl{
		userRepo:    userRepo,
		addressRepo: addressRepo,
		tokenMaker:  tokenMaker,
		blacklist:   blacklist,
	}
}

func (s *userServiceImpl) Register(ctx context.Context, req *dto.RegisterRequest) (*dto.UserResponse, error) {
	email := strings.ToLower(req.Email)

	exists, err := s.userRepo.ExistsByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, apperr.Conflict("User with this email already exists")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcryptCost)
	if err != nil {
		return nil, err
	}

	user := &model.User{
		Name:     titleCase(req.Name),
		Email:    email,
		Password: string(hash),
		Phone:    req.Phone,
		Role:     "CUSTOMER",
	}
	if err := s.userRepo.Create(ctx, user); err != nil {
		return nil, err
	}

	return userResponse(user), nil
}

func (s *userServiceImpl) Login(ctx context.Context, req *dto.LoginRequest) (*dto.TokenPairResponse, error) {
	user, err := s.userRepo.FindByEmail(ctx, strings.ToLower(req.Email))
	if err != nil {
		return nil, apperr.Unauthorized("Invalid email or password")
	}
	if bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(req.Password)) != nil {
		return nil, apperr.Unauthorized("Invalid email or password")
	}

	pair, err := s.tokenMaker.TokenPair(user.ID, user.Email)
	if err != nil {
		return nil, err
	}
	return &dto.TokenPairResponse{
		AccessToken:  pair.AccessToken,
		RefreshToken: pair.RefreshToken,
	}, nil
}

func (s *userServiceImpl) Refresh(ctx context.Context, refreshToken string) (*dto.TokenPairResponse, error) {
	if s.blacklist.Contains(refreshToken) {
		return nil, apperr.Unauthorized("Token has been revoked")
	}
	claims, err := s.tokenMaker.Verify(refreshToken)
	if err != nil {
		return nil, err
	}

	userID, err := uuid.Parse(claims.Subject)
	if err != nil {
		return nil, apperr.Unauthorized("Invalid token subject")
	}
	user, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		return nil, apperr.Unauthorized("User no longer exists")
	}

	// the used refresh token is revoked so each token rotates once
	s.blacklist.Add(refreshToken)

	pair, err := s.tokenMaker.TokenPair(user.ID, user.Email)
	if err != nil {
		return nil, err
	}
	return &dto.TokenPairResponse{
		AccessToken:  pair.AccessToken,
		RefreshToken: pair.RefreshToken,
	}, nil
}

func (s *userServiceImpl) Logout(token string) {
	s.blacklist.Add(token)
}

func (s *userServiceImpl) GetUser(ctx context.Context, id uuid.UUID) (*dto.UserResponse, error) {
	user, err := s.userRepo.FindByID(ctx, id)
	if err != nil {
		return nil, notFoundOr(err, "User not found")
	}
	return userResponse(user), nil
}

func (s *userServiceImpl) UpdateUser(ctx context.Context, id uuid.UUID, req *dto.UpdateUserRequest) (*dto.UserResponse, error) {
	user, err := s.userRepo.FindByID(ctx, id)
	if err != nil {
		return nil, notFoundOr(err, "User not found")
	}

	user.Name = titleCase(req.Name)
	user.Phone = req.Phone
	user.Profile = req.Profile

	if err := s.userRepo.Update(ctx, user); err != nil {
		return nil, err
	}
	return userResponse(user), nil
}

func (s *userServiceImpl) DeleteUser(ctx context.Context, id uuid.UUID) error {
	if _, err := s.userRepo.FindByID(ctx, id); err != nil {
		return notFoundOr(err, "User not found")
	}
	return s.userRepo.Delete(ctx, id)
}

func (s *userServiceImpl) CreateAddress(ctx context.Context, userID uuid.UUID, req *dto.AddressRequest) (*model.Address, error) {
	if _, err := s.userRepo.FindByID(ctx, userID); err != nil {
		return nil, notFoundOr(err, "User not found")
	}
	address := &model.Address{
		UserID: userID,
		Name:   req.Name,
		Phone:  req.Phone,
		County: req.County,
		City:   req.City,
		Street: req.Street,
	}
	if err := s.addressRepo.Create(ctx, address); err != nil {
		return nil, err
	}
	return address, nil
}

func (s *userServiceImpl) ListAddresses(ctx context.Context, userID uuid.UUID) ([]*model.Address, error) {
	return s.addressRepo.ListForUser(ctx, userID)
}

func userResponse(user *model.User) *dto.UserResponse {
	return &dto.UserResponse{
		ID:        user.ID,
		Name:      user.Name,
		Email:     user.Email,
		Phone:     user.Phone,
		Role:      user.Role,
		Profile:   user.Profile,
		CreatedAt: user.CreatedAt,
	}
}

func titleCase(name string) string {
	r, size := utf8.DecodeRuneInString(name)
	if size == 0 || r == utf8.RuneError {
		return name
	}
	return string(unicode.ToUpper(r)) + name[size:]
}
