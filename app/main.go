// Файл: main.go

package main

import (
	"context"
	"net/http"

	"treecare-system/internal/entities"
	"treecare-system/internal/integrations"
	"treecare-system/internal/integrations/httpbackend"
	"treecare-system/internal/integrations/mock"
	"treecare-system/internal/offline"
	"treecare-system/internal/repositories"
	"treecare-system/internal/routes"
	"treecare-system/internal/services"
	"treecare-system/pkg/config"
	"treecare-system/pkg/customvalidator"
	apperrors "treecare-system/pkg/errors"
	applogger "treecare-system/pkg/logger"
	"treecare-system/pkg/utils"
	appwebsocket "treecare-system/pkg/websocket"

	"github.com/go-playground/validator/v10"
	"github.com/go-redis/redis/v8"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"go.uber.org/zap"
)

func main() {
	e := echo.New()
	logger := applogger.NewLogger()
	cfg := config.New()

	e.Use(middleware.RecoverWithConfig(middleware.RecoverConfig{
		DisableStackAll: true,
		StackSize:       1 << 10,
		LogErrorFunc: func(c echo.Context, err error, stack []byte) error {
			logger.Error("!!! ОБНАРУЖЕНА ПАНИКА (PANIC) !!!",
				zap.String("method", c.Request().Method),
				zap.String("uri", c.Request().RequestURI),
				zap.Error(err),
				zap.String("stack", string(stack)),
			)
			if !c.Response().Committed {
				httpErr := apperrors.NewHttpError(http.StatusInternalServerError, "Внутренняя ошибка сервера", err, nil)
				utils.ErrorResponse(c, httpErr, logger)
			}
			return err
		},
	}))

	e.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins: []string{"http://localhost:5173", "http://localhost:8080"},
		AllowMethods: []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodOptions},
		AllowHeaders: []string{echo.HeaderOrigin, echo.HeaderContentType, echo.HeaderAccept},
	}))

	v := validator.New()
	if err := customvalidator.RegisterCustomValidations(v); err != nil {
		logger.Fatal("Ошибка регистрации кастомных правил валидации", zap.Error(err))
	}
	e.Validator = utils.NewValidator(v)

	redisClient := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Address,
		Password: cfg.Redis.Password,
		DB:       0,
	})
	if _, err := redisClient.Ping(context.Background()).Result(); err != nil {
		logger.Fatal("не удалось подключиться к Redis", zap.Error(err), zap.String("address", cfg.Redis.Address))
	}
	cacheRepo := repositories.NewRedisCacheRepository(redisClient)

	// Провайдер удалённой синхронизации разрешается один раз здесь и
	// внедряется в оркестратор; "none" — честный локальный режим.
	registry := integrations.NewRegistry()
	if err := registry.Register(httpbackend.New(cfg.RemoteBackend.BaseURL, cfg.RemoteBackend.PollInterval, logger)); err != nil {
		logger.Fatal("не удалось зарегистрировать http-провайдера", zap.Error(err))
	}
	if err := registry.Register(mock.NewMockProvider()); err != nil {
		logger.Fatal("не удалось зарегистрировать mock-провайдера", zap.Error(err))
	}
	if cfg.RemoteBackend.Provider != "" && cfg.RemoteBackend.Provider != "none" {
		if err := registry.SetActive(cfg.RemoteBackend.Provider); err != nil {
			logger.Fatal("неизвестный провайдер удалённой синхронизации", zap.Error(err),
				zap.String("provider", cfg.RemoteBackend.Provider))
		}
	}

	orchestrator := services.NewDataOrchestrator(registry.GetActive(), cacheRepo, logger)

	// Каждая смена снапшота (локальный save или удалённое обновление)
	// уходит всем подключённым клиентам.
	hub := appwebsocket.NewHub(logger)
	go hub.Run()
	orchestrator.Subscribe(func(snap *entities.Snapshot) {
		if err := hub.Broadcast(appwebsocket.MessageSnapshotUpdated, snap); err != nil {
			logger.Warn("Не удалось разослать обновление снапшота", zap.Error(err))
		}
	})

	// Офлайн-прокси: установка оболочки best-effort (ориджин может быть
	// выключен при старте), активация чистит неймспейсы прошлых версий.
	assetCache := offline.NewRedisAssetCache(cacheRepo)
	proxy := offline.NewProxy(cfg.AssetProxy.OriginURL, cfg.AssetProxy.CacheVersion, assetCache, logger)
	if err := proxy.Install(context.Background()); err != nil {
		logger.Warn("Предзагрузка оболочки не удалась, кеш наполнится оппортунистически", zap.Error(err))
	}
	if err := proxy.Activate(context.Background()); err != nil {
		logger.Error("Активация кеша ресурсов не удалась", zap.Error(err))
	}

	routes.InitRouter(e, orchestrator, proxy, hub, logger)

	// Прогрев: каскад загрузки и подписка на удалённые обновления.
	orchestrator.Load(context.Background())
	if err := orchestrator.StartRemoteSync(context.Background()); err != nil {
		logger.Error("Не удалось запустить удалённую синхронизацию", zap.Error(err))
	}

	logger.Info("🚀 Сервер запущен на :" + cfg.Server.Port)
	if err := e.Start(":" + cfg.Server.Port); err != nil {
		logger.Fatal("Ошибка запуска сервера", zap.Error(err))
	}
}
