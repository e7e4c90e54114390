package routes

import (
	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"treecare-system/internal/controllers"
	"treecare-system/internal/offline"
	"treecare-system/internal/services"
	appwebsocket "treecare-system/pkg/websocket"
)

// InitRouter собирает сервисы, контроллеры и маршруты в одном месте.
func InitRouter(
	e *echo.Echo,
	orchestrator services.DataOrchestratorInterface,
	proxy *offline.Proxy,
	hub *appwebsocket.Hub,
	logger *zap.Logger,
) {
	logger.Info("InitRouter: Начало создания маршрутов")

	api := e.Group("/api")

	// --- 1. СЕРВИСЫ ---
	ticketService := services.NewTicketService(orchestrator, logger)
	reportService := services.NewReportService(orchestrator, logger)

	// --- 2. КОНТРОЛЛЕРЫ ---
	ticketController := controllers.NewTicketController(ticketService, logger)
	snapshotController := controllers.NewSnapshotController(orchestrator, logger)
	reportController := controllers.NewReportController(reportService, logger)
	wsController := controllers.NewWebSocketController(hub, logger)

	// --- 3. РОУТЕРЫ ---
	runTicketRouter(api, ticketController)
	runSnapshotRouter(api, snapshotController)
	runReportRouter(api, reportController)

	e.GET("/ws", wsController.ServeWs)
	e.Any("/assets/*", proxy.Handle)
	e.GET("/metrics", echo.WrapHandler(promhttp.Handler()))
}
