package services

import (
	"context"
	"strings"
	"time"

	"go.uber.org/zap"

	"treecare-system/internal/dto"
	"treecare-system/internal/entities"
	apperrors "treecare-system/pkg/errors"
)

type TicketServiceInterface interface {
	GetTickets(ctx context.Context, filter dto.TicketFilter) ([]entities.Ticket, uint64, error)
	FindTicket(ctx context.Context, id uint64) (*entities.Ticket, error)
	CreateTicket(ctx context.Context, payload dto.CreateTicketDTO) (*entities.Ticket, error)
	UpdateTicket(ctx context.Context, id uint64, payload dto.UpdateTicketDTO) (*entities.Ticket, error)
	GetStats(ctx context.Context) (entities.Stats, error)
}

// TicketService работает поверх оркестратора: читает его снапшот и
// проводит все мутации через Save, заключая их в явную блокировку
// редактирования (BeginEdit/EndEdit).
type TicketService struct {
	orchestrator DataOrchestratorInterface
	logger       *zap.Logger
}

func NewTicketService(orchestrator DataOrchestratorInterface, logger *zap.Logger) TicketServiceInterface {
	return &TicketService{
		orchestrator: orchestrator,
		logger:       logger,
	}
}

func (s *TicketService) GetTickets(ctx context.Context, filter dto.TicketFilter) ([]entities.Ticket, uint64, error) {
	snap := s.orchestrator.Load(ctx)

	matched := make([]entities.Ticket, 0, len(snap.Tickets))
	for _, t := range snap.Tickets {
		if !matchTicket(t, filter) {
			continue
		}
		matched = append(matched, t)
	}
	total := uint64(len(matched))

	// Пагинация после фильтрации.
	if filter.Limit > 0 {
		start := (filter.Page - 1) * filter.Limit
		if start < 0 {
			start = 0
		}
		if start >= len(matched) {
			return []entities.Ticket{}, total, nil
		}
		end := start + filter.Limit
		if end > len(matched) {
			end = len(matched)
		}
		matched = matched[start:end]
	}

	return matched, total, nil
}

func matchTicket(t entities.Ticket, filter dto.TicketFilter) bool {
	if filter.Status != "" && t.Status != filter.Status {
		return false
	}
	if filter.Category != "" && t.Category != filter.Category {
		return false
	}
	if filter.Zone != "" && t.Zone != filter.Zone {
		return false
	}
	if filter.Search != "" {
		needle := strings.ToLower(filter.Search)
		if !strings.Contains(strings.ToLower(t.Title), needle) &&
			!strings.Contains(strings.ToLower(t.Description), needle) &&
			!strings.Contains(strings.ToLower(t.Notes), needle) {
			return false
		}
	}
	return true
}

func (s *TicketService) FindTicket(ctx context.Context, id uint64) (*entities.Ticket, error) {
	snap := s.orchestrator.Load(ctx)
	ticket := snap.FindTicket(id)
	if ticket == nil {
		return nil, apperrors.ErrTicketNotFound
	}
	found := *ticket
	return &found, nil
}

func (s *TicketService) CreateTicket(ctx context.Context, payload dto.CreateTicketDTO) (*entities.Ticket, error) {
	s.orchestrator.BeginEdit()
	defer s.orchestrator.EndEdit()

	snap := s.orchestrator.Load(ctx).Clone()

	ticket := entities.Ticket{
		ID:            snap.NextTicketID(),
		Title:         payload.Title,
		Description:   payload.Description,
		Category:      payload.Category,
		Status:        payload.Status,
		Priority:      payload.Priority,
		Zone:          payload.Zone,
		ZoneName:      snap.ZoneName(payload.Zone),
		TreeType:      payload.TreeType,
		DamageType:    payload.DamageType,
		Circumference: payload.Circumference,
		Quantity:      payload.Quantity,
		Impact:        payload.Impact,
		Operation:     payload.Operation,
		Date:          payload.Date,
		Assignees:     payload.Assignees,
		Images:        payload.Images,
		Notes:         payload.Notes,
	}
	if ticket.Status == "" {
		ticket.Status = entities.StatusNew
	}
	if ticket.Priority == "" {
		ticket.Priority = entities.PriorityNormal
	}
	if ticket.Date == "" {
		ticket.Date = time.Now().Format(entities.TicketDateLayout)
	}
	if ticket.Assignees == nil {
		ticket.Assignees = []string{}
	}
	if ticket.Images == nil {
		ticket.Images = []string{}
	}

	snap.Tickets = append(snap.Tickets, ticket)
	s.orchestrator.Save(ctx, snap)

	s.logger.Info("Заявка создана",
		zap.Uint64("ticketID", ticket.ID),
		zap.String("zone", ticket.Zone),
		zap.String("priority", ticket.Priority),
	)
	return &ticket, nil
}

func (s *TicketService) UpdateTicket(ctx context.Context, id uint64, payload dto.UpdateTicketDTO) (*entities.Ticket, error) {
	s.orchestrator.BeginEdit()
	defer s.orchestrator.EndEdit()

	snap := s.orchestrator.Load(ctx).Clone()

	ticket := snap.FindTicket(id)
	if ticket == nil {
		return nil, apperrors.ErrTicketNotFound
	}

	merged, hasChanges := mergeTicket(ticket, payload)
	if !hasChanges {
		result := *ticket
		return &result, nil
	}
	if merged.Zone != ticket.Zone {
		merged.ZoneName = snap.ZoneName(merged.Zone)
	}
	*ticket = merged

	s.orchestrator.Save(ctx, snap)

	s.logger.Info("Заявка обновлена", zap.Uint64("ticketID", id))
	result := *ticket
	return &result, nil
}

// mergeTicket накладывает частичное обновление на копию заявки.
// nil-поля не трогаются. id неизменяем по определению.
func mergeTicket(original *entities.Ticket, changes dto.UpdateTicketDTO) (entities.Ticket, bool) {
	hasChanges := false
	merged := *original

	setString := func(dst *string, src *string) {
		if src != nil && *dst != *src {
			*dst = *src
			hasChanges = true
		}
	}
	setInt := func(dst *int, src *int) {
		if src != nil && *dst != *src {
			*dst = *src
			hasChanges = true
		}
	}

	setString(&merged.Title, changes.Title)
	setString(&merged.Description, changes.Description)
	setString(&merged.Category, changes.Category)
	setString(&merged.Status, changes.Status)
	setString(&merged.Priority, changes.Priority)
	setString(&merged.Zone, changes.Zone)
	setString(&merged.TreeType, changes.TreeType)
	setString(&merged.DamageType, changes.DamageType)
	setString(&merged.Impact, changes.Impact)
	setString(&merged.Operation, changes.Operation)
	setString(&merged.Date, changes.Date)
	setString(&merged.Notes, changes.Notes)
	setInt(&merged.Circumference, changes.Circumference)
	setInt(&merged.Quantity, changes.Quantity)

	if changes.Assignees != nil {
		merged.Assignees = append([]string(nil), (*changes.Assignees)...)
		hasChanges = true
	}
	if changes.Images != nil {
		merged.Images = append([]string(nil), (*changes.Images)...)
		hasChanges = true
	}

	return merged, hasChanges
}

func (s *TicketService) GetStats(ctx context.Context) (entities.Stats, error) {
	snap := s.orchestrator.Load(ctx)
	return snap.Stats, nil
}
