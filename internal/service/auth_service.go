package service

import (
	"go-resto-backend/internal/model"
	"go-resto-backend/internal/repository"
	"go-resto-backend/pkg/apperr"
	"go-resto-backend/pkg/jwt"
)

type AuthService interface {
	Login(email, password string) (*LoginResponse, error)
	ResetPassword(email, oldPassword, newPassword string) error
	ValidateToken(tokenString string) (*TokenValidationResponse, error)
}

type LoginResponse struct {
	Token      string             `json:"token"`
	User       model.UserResponse `json:"user"`
	Role       *model.Role        `json:"role"`
	Privileges []string           `json:"privileges"`
}

type TokenValidationResponse struct {
	User       model.UserResponse `json:"user"`
	Role       *model.Role        `json:"role"`
	Privileges []string           `json:"privileges"`
}

type authService struct {
	userRepo repository.UserRepository
}

func NewAuthService(userRepo repository.UserRepository) AuthService {
	return &authService{
		userRepo: userRepo,
	}
}

func (s *authService) Login(email, password string) (*LoginResponse, error) {
	user, err := s.userRepo.FindByEmail(email)
	if err != nil {
		return nil, apperr.Unauthorized("Credenciales inválidas")
	}

	if !user.IsActive {
		return nil, apperr.Forbidden("Usuario inactivo")
	}

	if !user.CheckPassword(password) {
		return nil, apperr.Unauthorized("Credenciales inválidas")
	}

	roleCode := ""
	if user.Role != nil {
		roleCode = user.Role.Code
	}

	token, err := jwt.GenerateToken(user.ID, user.Email, user.FullName, roleCode, user.GetPrivilegeCodes())
	if err != nil {
		return nil, err
	}

	return &LoginResponse{
		Token:      token,
		User:       user.ToResponse(),
		Role:       user.Role,
		Privileges: user.GetPrivilegeCodes(),
	}, nil
}

func (s *authService) ResetPassword(email, oldPassword, newPassword string) error {
	user, err := s.userRepo.FindByEmail(email)
	if err != nil {
		return apperr.NotFound("Usuario no encontrado")
	}

	if !user.CheckPassword(oldPassword) {
		return apperr.Unauthorized("La contraseña actual es incorrecta")
	}

	if len(newPassword) < 6 {
		return apperr.Validation("La nueva contraseña debe tener al menos 6 caracteres")
	}

	if err := user.SetPassword(newPassword); err != nil {
		return err
	}

	return s.userRepo.Update(user)
}

func (s *authService) ValidateToken(tokenString string) (*TokenValidationResponse, error) {
	claims, err := jwt.ValidateToken(tokenString)
	if err != nil {
		return nil, apperr.Unauthorized("Token inválido o expirado")
	}

	user, err := s.userRepo.FindByID(claims.UserID)
	if err != nil {
		return nil, apperr.Unauthorized("Usuario no encontrado")
	}

	if !user.IsActive {
		return nil, apperr.Forbidden("Usuario inactivo")
	}

	return &TokenValidationResponse{
		User:       user.ToResponse(),
		Role:       user.Role,
		Privileges: user.GetPrivilegeCodes(),
	}, nil
}
