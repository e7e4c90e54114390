package entities

// User — профиль, отображаемый в шапке приложения.
type User struct {
	Name   string `json:"name"`
	Role   string `json:"role"`
	Avatar string `json:"avatar"`
}

// Stats — денормализованная проекция по tickets (счётчики по статусам).
// Инвариант: stats всегда равен живому пересчёту tickets, поэтому
// единственный легальный способ её обновить — RecomputeStats.
type Stats struct {
	Total      int `json:"total"`
	New        int `json:"new"`
	InProgress int `json:"inProgress"`
	Pending    int `json:"pending"`
	Completed  int `json:"completed"`
}

// Category — элемент справочника категорий работ.
type Category struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// Zone — участок территории кампуса.
type Zone struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// DamageType — элемент справочника типов повреждений.
type DamageType struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	Icon string `json:"icon"`
}

// Snapshot — агрегирующий корень: всё состояние приложения целиком.
// Им монопольно владеет DataOrchestrator, остальные компоненты читают
// его по ссылке и сохраняют изменения только через оркестратор.
type Snapshot struct {
	User        User         `json:"user"`
	Stats       Stats        `json:"stats"`
	Categories  []Category   `json:"categories"`
	TreeTypes   []string     `json:"treeTypes"`
	Zones       []Zone       `json:"zones"`
	DamageTypes []DamageType `json:"damageTypes"`
	Operations  []string     `json:"operations"`
	Tickets     []Ticket     `json:"tickets"`
}

// RecomputeStats пересчитывает stats из tickets. Вызывается перед каждым
// сохранением: stats от вызывающего кода никогда не принимается на веру.
func (s *Snapshot) RecomputeStats() {
	stats := Stats{Total: len(s.Tickets)}
	for _, t := range s.Tickets {
		switch t.Status {
		case StatusNew:
			stats.New++
		case StatusInProgress:
			stats.InProgress++
		case StatusPending:
			stats.Pending++
		case StatusCompleted:
			stats.Completed++
		}
	}
	s.Stats = stats
}

// NextTicketID возвращает следующий монотонный идентификатор заявки.
func (s *Snapshot) NextTicketID() uint64 {
	var max uint64
	for _, t := range s.Tickets {
		if t.ID > max {
			max = t.ID
		}
	}
	return max + 1
}

// FindTicket ищет заявку по id. Возвращает nil, если её нет.
func (s *Snapshot) FindTicket(id uint64) *Ticket {
	for i := range s.Tickets {
		if s.Tickets[i].ID == id {
			return &s.Tickets[i]
		}
	}
	return nil
}

// ZoneName возвращает человекочитаемое имя участка по его id.
func (s *Snapshot) ZoneName(zoneID string) string {
	for _, z := range s.Zones {
		if z.ID == zoneID {
			return z.Name
		}
	}
	return ""
}

// Clone делает глубокую копию снапшота. Используется оркестратором,
// чтобы подписчики не держали ссылку на изменяемое состояние.
func (s *Snapshot) Clone() *Snapshot {
	c := *s
	c.Categories = append([]Category(nil), s.Categories...)
	c.TreeTypes = append([]string(nil), s.TreeTypes...)
	c.Zones = append([]Zone(nil), s.Zones...)
	c.DamageTypes = append([]DamageType(nil), s.DamageTypes...)
	c.Operations = append([]string(nil), s.Operations...)
	c.Tickets = make([]Ticket, len(s.Tickets))
	for i, t := range s.Tickets {
		t.Assignees = append([]string(nil), t.Assignees...)
		t.Images = append([]string(nil), t.Images...)
		c.Tickets[i] = t
	}
	return &c
}
