package services

import (
	"context"
	"time"

	"go.uber.org/zap"

	"treecare-system/internal/entities"
)

// ReportFilter — фильтры выгрузки отчёта по заявкам.
type ReportFilter struct {
	Status   string
	Zone     string
	DateFrom *time.Time
	DateTo   *time.Time
}

type ReportServiceInterface interface {
	GetReport(ctx context.Context, filter ReportFilter) ([]entities.Ticket, uint64, error)
}

type reportService struct {
	orchestrator DataOrchestratorInterface
	logger       *zap.Logger
}

func NewReportService(orchestrator DataOrchestratorInterface, logger *zap.Logger) ReportServiceInterface {
	return &reportService{
		orchestrator: orchestrator,
		logger:       logger,
	}
}

func (s *reportService) GetReport(ctx context.Context, filter ReportFilter) ([]entities.Ticket, uint64, error) {
	snap := s.orchestrator.Load(ctx)

	items := make([]entities.Ticket, 0, len(snap.Tickets))
	for _, t := range snap.Tickets {
		if filter.Status != "" && t.Status != filter.Status {
			continue
		}
		if filter.Zone != "" && t.Zone != filter.Zone {
			continue
		}
		if filter.DateFrom != nil || filter.DateTo != nil {
			created, err := time.Parse(entities.TicketDateLayout, t.Date)
			if err != nil {
				// Заявка с нечитаемой датой в выгрузку по периоду не попадает.
				continue
			}
			if filter.DateFrom != nil && created.Before(*filter.DateFrom) {
				continue
			}
			if filter.DateTo != nil && created.After(*filter.DateTo) {
				continue
			}
		}
		items = append(items, t)
	}

	return items, uint64(len(items)), nil
}
