package controllers

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"treecare-system/internal/services"
	"treecare-system/pkg/utils"
)

type SnapshotController struct {
	orchestrator services.DataOrchestratorInterface
	logger       *zap.Logger
}

func NewSnapshotController(orchestrator services.DataOrchestratorInterface, logger *zap.Logger) *SnapshotController {
	return &SnapshotController{orchestrator: orchestrator, logger: logger}
}

// GetSnapshot отдаёт весь снапшот. Каскад загрузки никогда не возвращает
// ошибку, поэтому здесь нет ветки отказа.
func (c *SnapshotController) GetSnapshot(ctx echo.Context) error {
	snap := c.orchestrator.Load(ctx.Request().Context())
	return utils.SuccessResponse(ctx, snap, "Снапшот успешно получен", http.StatusOK)
}

// ReloadSnapshot — явная переинициализация: сброс состояния и новый
// проход каскада.
func (c *SnapshotController) ReloadSnapshot(ctx echo.Context) error {
	c.orchestrator.Reinitialize()
	snap := c.orchestrator.Load(ctx.Request().Context())

	c.logger.Info("Снапшот перезагружен по запросу",
		zap.String("state", c.orchestrator.State().String()),
		zap.Int("tickets", len(snap.Tickets)),
	)
	return utils.SuccessResponse(ctx, snap, "Снапшот успешно перезагружен", http.StatusOK)
}
