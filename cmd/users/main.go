package main

import (
	"roomly/internal/users/handler"
	"roomly/internal/users/repository"
	"roomly/internal/users/service"
	"roomly/pkg/app"
	"roomly/pkg/auth"
	"roomly/pkg/config"
	"roomly/pkg/middleware"
)

const ServiceName = "users"

func main() {
	cfg := config.Load(ServiceName)
	cfg.SetMongo()
	defer cfg.GracefulShutdown()

	cfg.Log.Info("Starting Users service")

	issuer := auth.NewTokenIssuer(cfg.JWTSecret, cfg.JWTTTL)
	userService := initServices(cfg, issuer)
	protect := middleware.RequireAuth(issuer, cfg.Log)

	serverApp := app.NewApplication()
	serverApp.SetApp(cfg, handler.NewUserHandler(userService, cfg.Log, protect))
	serverApp.Run()
}

func initServices(cfg *config.Config, issuer *auth.TokenIssuer) service.UserService {
	userRepo := repository.NewMongoUserRepository(cfg)
	userService := service.NewUserService(userRepo, issuer, cfg)

	cfg.Log.Info("User service initialized", "database", cfg.MongoDatabaseName)
	return userService
}
