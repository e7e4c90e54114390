// Файл: internal/dataset/migrate.go
package dataset

import "treecare-system/internal/entities"

// legacyDamageCodes — коды повреждений из старых сидов и соответствующие им
// актуальные коды. Простая подмена справочника оставляла бы в заявках
// "висячие" ссылки, поэтому мигрируем и сами заявки.
var legacyDamageCodes = map[string]string{
	"accident": "broken",
	"nature":   "fallen",
}

// Migrate приводит снапшот из локального кеша к актуальной схеме:
// справочники заменяются каноническими списками, а ссылки в заявках
// на устаревшие коды повреждений переписываются на новые. Возвращает
// количество мигрированных заявок.
func Migrate(s *entities.Snapshot) int {
	s.Categories = Categories()
	s.TreeTypes = TreeTypes()
	s.DamageTypes = DamageTypes()
	if len(s.Zones) == 0 {
		s.Zones = Zones()
	}
	if len(s.Operations) == 0 {
		s.Operations = Operations()
	}

	migrated := 0
	for i := range s.Tickets {
		if repl, ok := legacyDamageCodes[s.Tickets[i].DamageType]; ok {
			s.Tickets[i].DamageType = repl
			migrated++
		}
	}
	return migrated
}
