package routes

import (
	"github.com/labstack/echo/v4"

	"treecare-system/internal/controllers"
)

func runReportRouter(g *echo.Group, ctrl *controllers.ReportController) {
	g.GET("/report", ctrl.GetReport)
}
