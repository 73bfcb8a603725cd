// Command buildset assembles a quiz set from the imported learning units
// and appends it to the stage sequence.
package main

import (
	"context"
	"flag"
	"log"
	"strings"

	"github.com/example/lingofeed/internal/config"
	"github.com/example/lingofeed/internal/database"
	"github.com/example/lingofeed/internal/quiz"
)

func main() {
	title := flag.String("title", "", "set title")
	order := flag.Int("order", 0, "stage order, must be unused")
	count := flag.Int("count", quiz.DefaultItemCount, "number of items")
	tags := flag.String("tags", "", "comma-separated category names")
	flag.Parse()

	if *title == "" || *order < 1 {
		log.Fatal("-title and a positive -order are required")
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}
	if err := database.Connect(cfg.Database); err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer database.Close()

	ctx := context.Background()

	units, err := database.NewUnitRepository().All(ctx)
	if err != nil {
		log.Fatalf("Failed to load learning units: %v", err)
	}

	hashtags := database.NewHashtagRepository()
	var tagIDs []int64
	for _, name := range strings.Split(*tags, ",") {
		name = strings.TrimSpace(strings.TrimPrefix(strings.TrimSpace(name), "#"))
		if name == "" {
			continue
		}
		tag, err := hashtags.GetOrCreate(ctx, name)
		if err != nil {
			log.Fatalf("Failed to resolve hashtag %q: %v", name, err)
		}
		tagIDs = append(tagIDs, tag.ID)
	}

	set, err := quiz.NewGenerator().CreateSet(ctx, *title, *order, units, tagIDs, *count)
	if err != nil {
		log.Fatalf("Failed to build quiz set: %v", err)
	}
	log.Printf("Created quiz set %q at stage %d with %d items", set.Title, set.Order, set.ItemCount)
}
