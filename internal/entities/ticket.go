package entities

// Статусы жизненного цикла заявки. Обычный порядок:
// new -> inProgress -> pending -> completed.
const (
	StatusNew        = "new"
	StatusInProgress = "inProgress"
	StatusPending    = "pending"
	StatusCompleted  = "completed"
)

const (
	PriorityNormal = "normal"
	PriorityUrgent = "urgent"
)

// TicketDateLayout — формат поля date в снапшоте ("YYYY-MM-DD HH:MM").
const TicketDateLayout = "2006-01-02 15:04"

// Ticket — одна заявка о повреждении дерева.
// Поля сериализуются ровно в том виде, в котором их ожидает фронтенд.
type Ticket struct {
	ID            uint64   `json:"id"`
	Title         string   `json:"title"`
	Description   string   `json:"description"`
	Category      string   `json:"category"`
	Status        string   `json:"status"`
	Priority      string   `json:"priority"`
	Zone          string   `json:"zone"`
	ZoneName      string   `json:"zoneName"`
	TreeType      string   `json:"treeType"`
	DamageType    string   `json:"damageType"`
	Circumference int      `json:"circumference"`
	Quantity      int      `json:"quantity"`
	Impact        string   `json:"impact"`
	Operation     string   `json:"operation"`
	Date          string   `json:"date"`
	Assignees     []string `json:"assignees"`
	Images        []string `json:"images"`
	Notes         string   `json:"notes"`
}

// TicketStatuses возвращает все допустимые статусы в порядке жизненного цикла.
func TicketStatuses() []string {
	return []string{StatusNew, StatusInProgress, StatusPending, StatusCompleted}
}

// IsValidStatus проверяет, что строка является известным статусом.
func IsValidStatus(s string) bool {
	switch s {
	case StatusNew, StatusInProgress, StatusPending, StatusCompleted:
		return true
	}
	return false
}

// IsValidPriority проверяет, что строка является известным приоритетом.
func IsValidPriority(p string) bool {
	return p == PriorityNormal || p == PriorityUrgent
}
