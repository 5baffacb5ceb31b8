package app

import (
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/templui/imagefolders/internal/config"
	"github.com/templui/imagefolders/internal/db"
	"github.com/templui/imagefolders/internal/repository"
	"github.com/templui/imagefolders/internal/service"
	"github.com/templui/imagefolders/internal/storage"
)

type App struct {
	Cfg           *config.Config
	DB            *sqlx.DB
	Storage       storage.Storage
	AuthService   *service.AuthService
	FolderService *service.FolderService
	ImageService  *service.ImageService
	FileService   *service.FileService
}

func New(cfg *config.Config) (*App, error) {
	// Initialize database
	database, err := db.Init(cfg.DBDriver, cfg.DBConnection)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}

	// Run database migrations
	err = db.RunMigrations(database.DB, cfg.DBDriver)
	if err != nil {
		_ = database.Close()
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	// Repositories
	folderRepository := repository.NewFolderRepository(database)
	imageRepository := repository.NewImageRepository(database)

	// Storage
	fileStorage, err := storage.New(cfg)
	if err != nil {
		_ = database.Close()
		return nil, fmt.Errorf("failed to initialize storage: %w", err)
	}

	// Services
	authService := service.NewAuthService(cfg.JWTSecret)
	folderService := service.NewFolderService(folderRepository, cfg.StoreTimeout)
	imageService := service.NewImageService(imageRepository, folderRepository, cfg.StoreTimeout)
	fileService := service.NewFileService(imageService, fileStorage, cfg.MaxUploadSize, cfg.StoreTimeout)

	return &App{
		Cfg:           cfg,
		DB:            database,
		Storage:       fileStorage,
		AuthService:   authService,
		FolderService: folderService,
		ImageService:  imageService,
		FileService:   fileService,
	}, nil
}

func (a *App) Close() error {
	if a.DB != nil {
		return db.Close(a.DB)
	}
	return nil
}
