package errors

import "fmt"

var (
	// Заявки
	ErrTicketNotFound = fmt.Errorf("заявка не найдена")
	ErrInvalidStatus  = fmt.Errorf("недопустимый статус заявки")

	// Общие
	ErrNotFound   = fmt.Errorf("запись не найдена")
	ErrBadRequest = fmt.Errorf("неверный запрос")

	// Кеш и синхронизация
	ErrCacheMiss     = fmt.Errorf("запись в кеше отсутствует")
	ErrStaleSchema   = fmt.Errorf("в кеше обнаружены данные устаревшей схемы")
	ErrRemoteOffline = fmt.Errorf("удалённый бекенд недоступен")
)

// HttpError — ошибка с HTTP-кодом, пользовательским сообщением и
// внутренней причиной для логов.
type HttpError struct {
	Code    int
	Message string
	Err     error
	Context map[string]interface{}
}

func (e *HttpError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *HttpError) Unwrap() error { return e.Err }

func NewHttpError(code int, message string, err error, context map[string]interface{}) *HttpError {
	return &HttpError{Code: code, Message: message, Err: err, Context: context}
}

// Кастомные типы ошибок
type InvalidInputError struct {
	Message string
}

func (e *InvalidInputError) Error() string { return e.Message }

func NewInvalidInputError(format string, args ...interface{}) error {
	return &InvalidInputError{Message: fmt.Sprintf(format, args...)}
}
