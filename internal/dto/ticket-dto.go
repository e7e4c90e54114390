package dto

// CreateTicketDTO — тело POST /api/tickets.
// Статус и приоритет необязательны: по умолчанию new/normal.
type CreateTicketDTO struct {
	Title         string   `json:"title" validate:"required,min=3,max=150"`
	Description   string   `json:"description" validate:"max=2000"`
	Category      string   `json:"category" validate:"required"`
	Status        string   `json:"status" validate:"omitempty,ticketstatus"`
	Priority      string   `json:"priority" validate:"omitempty,ticketpriority"`
	Zone          string   `json:"zone" validate:"required"`
	TreeType      string   `json:"treeType"`
	DamageType    string   `json:"damageType"`
	Circumference int      `json:"circumference" validate:"min=0"`
	Quantity      int      `json:"quantity" validate:"min=0"`
	Impact        string   `json:"impact"`
	Operation     string   `json:"operation"`
	Date          string   `json:"date" validate:"omitempty,ticketdate"`
	Assignees     []string `json:"assignees"`
	Images        []string `json:"images"`
	Notes         string   `json:"notes"`
}

// UpdateTicketDTO — тело PUT /api/tickets/:id. Все поля опциональны,
// nil означает "не менять".
type UpdateTicketDTO struct {
	Title         *string   `json:"title" validate:"omitempty,min=3,max=150"`
	Description   *string   `json:"description" validate:"omitempty,max=2000"`
	Category      *string   `json:"category"`
	Status        *string   `json:"status" validate:"omitempty,ticketstatus"`
	Priority      *string   `json:"priority" validate:"omitempty,ticketpriority"`
	Zone          *string   `json:"zone"`
	TreeType      *string   `json:"treeType"`
	DamageType    *string   `json:"damageType"`
	Circumference *int      `json:"circumference" validate:"omitempty,min=0"`
	Quantity      *int      `json:"quantity" validate:"omitempty,min=0"`
	Impact        *string   `json:"impact"`
	Operation     *string   `json:"operation"`
	Date          *string   `json:"date" validate:"omitempty,ticketdate"`
	Assignees     *[]string `json:"assignees"`
	Images        *[]string `json:"images"`
	Notes         *string   `json:"notes"`
}

// TicketFilter — параметры списка заявок.
type TicketFilter struct {
	Status   string
	Category string
	Zone     string
	Search   string
	Page     int
	Limit    int
}
