// Файл: pkg/customvalidator/validator.go
package customvalidator

import (
	"time"

	"github.com/go-playground/validator/v10"

	"treecare-system/internal/entities"
)

// RegisterCustomValidations регистрирует доменные правила валидации.
// Единая точка регистрации: и сервер, и тесты используют её.
func RegisterCustomValidations(v *validator.Validate) error {
	if err := v.RegisterValidation("ticketstatus", isTicketStatus); err != nil {
		return err
	}
	if err := v.RegisterValidation("ticketpriority", isTicketPriority); err != nil {
		return err
	}
	if err := v.RegisterValidation("ticketdate", isTicketDate); err != nil {
		return err
	}
	return nil
}

func isTicketStatus(fl validator.FieldLevel) bool {
	return entities.IsValidStatus(fl.Field().String())
}

func isTicketPriority(fl validator.FieldLevel) bool {
	return entities.IsValidPriority(fl.Field().String())
}

// isTicketDate проверяет формат "YYYY-MM-DD HH:MM" из снапшота.
func isTicketDate(fl validator.FieldLevel) bool {
	s := fl.Field().String()
	if s == "" {
		return true
	}
	_, err := time.Parse(entities.TicketDateLayout, s)
	return err == nil
}
