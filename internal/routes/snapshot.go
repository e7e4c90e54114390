package routes

import (
	"github.com/labstack/echo/v4"

	"treecare-system/internal/controllers"
)

func runSnapshotRouter(g *echo.Group, ctrl *controllers.SnapshotController) {
	g.GET("/snapshot", ctrl.GetSnapshot)
	g.POST("/snapshot/reload", ctrl.ReloadSnapshot)
}
