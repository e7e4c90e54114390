// Файл: seeders/generator.go
package seeders

import (
	"fmt"
	"math/rand"
	"time"

	"treecare-system/internal/dataset"
	"treecare-system/internal/entities"
)

// GenerateSnapshot собирает синтетический, но правдоподобный снапшот:
// все ссылки заявок разрешаются в канонических справочниках, id идут
// монотонно с единицы. Фиксированный seed даёт воспроизводимый набор.
func GenerateSnapshot(count int, seed int64) *entities.Snapshot {
	rng := rand.New(rand.NewSource(seed))

	snap := dataset.EmptySnapshot()
	statuses := entities.TicketStatuses()
	now := time.Now()

	for i := 0; i < count; i++ {
		damageType := snap.DamageTypes[rng.Intn(len(snap.DamageTypes))]
		zone := snap.Zones[rng.Intn(len(snap.Zones))]
		category := snap.Categories[rng.Intn(len(snap.Categories))]
		titles := ticketTitles[damageType.ID]

		priority := entities.PriorityNormal
		if rng.Intn(4) == 0 {
			priority = entities.PriorityUrgent
		}

		var assignees []string
		for _, name := range workerNames {
			if rng.Intn(4) == 0 {
				assignees = append(assignees, name)
			}
		}
		if assignees == nil {
			assignees = []string{}
		}

		ticket := entities.Ticket{
			ID:            uint64(i + 1),
			Title:         titles[rng.Intn(len(titles))],
			Description:   fmt.Sprintf("Заявка по участку «%s», требуется выезд бригады.", zone.Name),
			Category:      category.ID,
			Status:        statuses[rng.Intn(len(statuses))],
			Priority:      priority,
			Zone:          zone.ID,
			ZoneName:      zone.Name,
			TreeType:      snap.TreeTypes[rng.Intn(len(snap.TreeTypes))],
			DamageType:    damageType.ID,
			Circumference: 40 + rng.Intn(200),
			Quantity:      1 + rng.Intn(4),
			Impact:        impacts[rng.Intn(len(impacts))],
			Operation:     snap.Operations[rng.Intn(len(snap.Operations))],
			Date:          now.AddDate(0, 0, -rng.Intn(30)).Format(entities.TicketDateLayout),
			Assignees:     assignees,
			Images:        []string{},
			Notes:         notes[rng.Intn(len(notes))],
		}
		snap.Tickets = append(snap.Tickets, ticket)
	}

	snap.RecomputeStats()
	return snap
}
