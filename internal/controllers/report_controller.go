package controllers

import (
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"

	"treecare-system/internal/entities"
	"treecare-system/internal/services"
	"treecare-system/pkg/utils"
)

type ReportController struct {
	reportService services.ReportServiceInterface
	logger        *zap.Logger
}

func NewReportController(reportService services.ReportServiceInterface, logger *zap.Logger) *ReportController {
	return &ReportController{reportService: reportService, logger: logger}
}

func (c *ReportController) GetReport(ctx echo.Context) error {
	reqCtx := ctx.Request().Context()

	filter, format := c.parseFilters(ctx)
	c.logger.Debug("Запрос на отчет с фильтрами", zap.Any("filters", filter), zap.String("format", format))

	data, total, err := c.reportService.GetReport(reqCtx, filter)
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}

	if format == "xlsx" {
		return c.respondWithXLSX(ctx, data)
	}

	return utils.SuccessResponse(ctx, map[string]interface{}{
		"list":  data,
		"total": total,
	}, "Отчет успешно сформирован", http.StatusOK)
}

func (c *ReportController) parseFilters(ctx echo.Context) (services.ReportFilter, string) {
	filter := services.ReportFilter{
		Status: ctx.QueryParam("status"),
		Zone:   ctx.QueryParam("zone"),
	}
	format := strings.ToLower(ctx.QueryParam("format"))

	if df := ctx.QueryParam("date_from"); df != "" {
		if t, err := time.Parse(entities.TicketDateLayout, df); err == nil {
			filter.DateFrom = &t
		}
	}
	if dt := ctx.QueryParam("date_to"); dt != "" {
		if t, err := time.Parse(entities.TicketDateLayout, dt); err == nil {
			filter.DateTo = &t
		}
	}

	return filter, format
}

var reportHeaders = []string{
	"ID", "Заголовок", "Категория", "Статус", "Приоритет", "Участок",
	"Порода", "Тип повреждения", "Обхват, см", "Кол-во", "Операция",
	"Дата", "Исполнители", "Примечания",
}

func rowToSlice(t entities.Ticket) []interface{} {
	return []interface{}{
		t.ID, t.Title, t.Category, t.Status, t.Priority, t.ZoneName,
		t.TreeType, t.DamageType, t.Circumference, t.Quantity, t.Operation,
		t.Date, strings.Join(t.Assignees, ", "), t.Notes,
	}
}

func (c *ReportController) respondWithXLSX(ctx echo.Context, data []entities.Ticket) error {
	f := excelize.NewFile()
	sheet := "Отчет по заявкам"
	f.SetSheetName("Sheet1", sheet)
	f.SetSheetRow(sheet, "A1", &reportHeaders)
	style, _ := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	f.SetCellStyle(sheet, "A1", "N1", style)

	for i, item := range data {
		cell, _ := excelize.CoordinatesToCellName(1, i+2)
		row := rowToSlice(item)
		f.SetSheetRow(sheet, cell, &row)
	}
	f.SetColWidth(sheet, "B", "B", 40)
	f.SetColWidth(sheet, "C", "H", 18)
	f.SetColWidth(sheet, "K", "N", 25)

	fileName := fmt.Sprintf("report_%s.xlsx", time.Now().Format("2006-01-02"))
	ctx.Response().Header().Set(echo.HeaderContentType, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	ctx.Response().Header().Set("Content-Disposition", "attachment; filename="+fileName)
	ctx.Response().WriteHeader(http.StatusOK)
	return f.Write(ctx.Response().Writer)
}
