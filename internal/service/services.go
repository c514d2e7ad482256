package service

import (
	"github.com/avolkov/ipod-store/internal/auth"
	"github.com/avolkov/ipod-store/internal/config"
	"github.com/avolkov/ipod-store/internal/repository"
)

type Services struct {
	Users    *UserService
	Products *ProductService
}

func NewServices(repos *repository.Repositories, cfg *config.Config) *Services {
	hasher := auth.NewHasher(cfg.BcryptCost)
	tokens := auth.NewTokenService([]byte(cfg.JWTSecret), cfg.TokenTTL)

	return &Services{
		Users:    NewUserService(repos.Users, hasher, tokens, cfg),
		Products: NewProductService(repos.Products),
	}
}
