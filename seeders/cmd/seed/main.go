package main

import (
	"encoding/json"
	"flag"
	"log"
	"os"

	"treecare-system/seeders"
)

// Генератор статического набора данных. Результат кладётся в
// internal/dataset/dataset.json и вшивается в бинарник при сборке.
func main() {
	var (
		out   = flag.String("out", "internal/dataset/dataset.json", "куда записать сгенерированный снапшот")
		count = flag.Int("count", 10, "сколько заявок сгенерировать")
		seed  = flag.Int64("seed", 42, "seed генератора для воспроизводимости")
	)
	flag.Parse()

	log.Println("▶️  Генерация статического набора данных...")

	snap := seeders.GenerateSnapshot(*count, *seed)

	body, err := json.MarshalIndent(snap, "", "  ")
	if err != nil {
		log.Fatalf("❌ Ошибка сериализации снапшота: %v", err)
	}
	if err := os.WriteFile(*out, body, 0o644); err != nil {
		log.Fatalf("❌ Ошибка записи %s: %v", *out, err)
	}

	log.Printf("✅ Готово: %s (%d заявок)", *out, len(snap.Tickets))
}
