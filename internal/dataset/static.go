// Файл: internal/dataset/static.go
package dataset

import (
	_ "embed"
	"encoding/json"
	"fmt"

	"treecare-system/internal/entities"
)

// dataset.json генерируется командой seeders/cmd/seed и вшивается в бинарник.
// Это неизменяемый комплектный источник данных — третий ярус каскада загрузки.
//
//go:embed dataset.json
var staticDataset []byte

// LoadStatic разбирает вшитый статический снапшот. Ошибка здесь означает
// испорченный артефакт сборки, вызывающий код трактует её как промах яруса.
func LoadStatic() (*entities.Snapshot, error) {
	var snap entities.Snapshot
	if err := json.Unmarshal(staticDataset, &snap); err != nil {
		return nil, fmt.Errorf("ошибка разбора вшитого dataset.json: %w", err)
	}
	snap.RecomputeStats()
	return &snap, nil
}
