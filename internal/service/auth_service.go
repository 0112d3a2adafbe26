package service

import (
	"ai_tutor_backend/internal/config"
	"ai_tutor_backend/internal/model"
	"ai_tutor_backend/internal/repository"
	"ai_tutor_backend/internal/util"
	"errors"
	"strings"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

type AuthService struct {
	UserRepo *repository.UserRepository
	Cfg      *config.Config
}

func NewAuthService(userRepo *repository.UserRepository, cfg *config.Config) *AuthService {
	return &AuthService{
		UserRepo: userRepo,
		Cfg:      cfg,
	}
}

// Register 创建用户并签发 token
func (s *AuthService) Register(name, email, password string) (*model.User, string, error) {
	email = strings.ToLower(strings.TrimSpace(email))

	exists, err := s.UserRepo.ExistsByEmail(email)
	if err != nil {
		return nil, "", err
	}
	if exists {
		return nil, "", util.ErrEmailRegistered
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, "", err
	}

	user := &model.User{
		Name:     strings.TrimSpace(name),
		Email:    email,
		Password: string(hashedPassword),
	}
	if err := s.UserRepo.Create(user); err != nil {
		// 并发注册同一邮箱时由唯一索引兜底
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, "", util.ErrEmailRegistered
		}
		return nil, "", err
	}

	token, err := util.GenerateJWT(user, s.Cfg.JWT.Secret, s.Cfg.JWT.ExpireTime)
	if err != nil {
		return nil, "", err
	}
	return user, token, nil
}

func (s *AuthService) Login(email, password string) (*model.User, string, error) {
	email = strings.ToLower(strings.TrimSpace(email))

	user, err := s.UserRepo.FindByEmail(email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, "", util.ErrInvalidCredentials
		}
		return nil, "", err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)); err != nil {
		return nil, "", util.ErrInvalidCredentials
	}

	token, err := util.GenerateJWT(user, s.Cfg.JWT.Secret, s.Cfg.JWT.ExpireTime)
	if err != nil {
		return nil, "", err
	}
	return user, token, nil
}
