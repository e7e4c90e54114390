package routes

import (
	"github.com/labstack/echo/v4"

	"treecare-system/internal/controllers"
)

func runTicketRouter(g *echo.Group, ctrl *controllers.TicketController) {
	g.GET("/tickets", ctrl.GetTickets)
	g.GET("/tickets/:id", ctrl.FindTicket)
	g.POST("/tickets", ctrl.CreateTicket)
	g.PUT("/tickets/:id", ctrl.UpdateTicket)
	g.GET("/stats", ctrl.GetStats)
}
