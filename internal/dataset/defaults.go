// Файл: internal/dataset/defaults.go
package dataset

import "treecare-system/internal/entities"

// Канонические справочники. Это единственный источник истины для
// categories/treeTypes/damageTypes: при чтении из локального кеша
// справочники заменяются на эти списки (с миграцией ссылок в заявках).

// Categories возвращает канонический справочник категорий работ.
func Categories() []entities.Category {
	return []entities.Category{
		{ID: "damage", Name: "Повреждение"},
		{ID: "maintenance", Name: "Уход"},
		{ID: "planting", Name: "Посадка"},
		{ID: "inspection", Name: "Осмотр"},
	}
}

// TreeTypes возвращает канонический список пород деревьев.
func TreeTypes() []string {
	return []string{"Дуб", "Клён", "Липа", "Берёза", "Сосна", "Ель", "Тополь", "Ясень", "Каштан"}
}

// Zones возвращает участки территории кампуса.
func Zones() []entities.Zone {
	return []entities.Zone{
		{ID: "north", Name: "Северный кампус"},
		{ID: "south", Name: "Южный кампус"},
		{ID: "main", Name: "Главный корпус"},
		{ID: "park", Name: "Парковая зона"},
		{ID: "sport", Name: "Спортивный городок"},
	}
}

// DamageTypes возвращает канонический справочник типов повреждений.
// Старые коды accident/nature из ранних сидов сюда больше не входят,
// заявки с ними мигрируются при чтении (см. migrate.go).
func DamageTypes() []entities.DamageType {
	return []entities.DamageType{
		{ID: "fallen", Name: "Упавшее дерево", Icon: "/img/icons/fallen.svg"},
		{ID: "broken", Name: "Сломанные ветви", Icon: "/img/icons/broken.svg"},
		{ID: "tilted", Name: "Наклон ствола", Icon: "/img/icons/tilted.svg"},
	}
}

// Operations возвращает список типовых операций бригады.
func Operations() []string {
	return []string{
		"Спил",
		"Обрезка кроны",
		"Санитарная обрезка",
		"Вывоз древесины",
		"Укрепление растяжками",
		"Лечение коры",
	}
}

// DefaultUser — профиль по умолчанию для пустого снапшота.
func DefaultUser() entities.User {
	return entities.User{
		Name:   "Фарход Назаров",
		Role:   "Бригадир",
		Avatar: "/img/avatars/foreman.png",
	}
}

// EmptySnapshot возвращает структурно валидный, но пустой снапшот:
// справочники заполнены, tickets пуст, stats нулевые. Это терминальный
// fallback каскада загрузки — UI на нём рисует пустое, но рабочее состояние.
func EmptySnapshot() *entities.Snapshot {
	s := &entities.Snapshot{
		User:        DefaultUser(),
		Categories:  Categories(),
		TreeTypes:   TreeTypes(),
		Zones:       Zones(),
		DamageTypes: DamageTypes(),
		Operations:  Operations(),
		Tickets:     []entities.Ticket{},
	}
	s.RecomputeStats()
	return s
}
