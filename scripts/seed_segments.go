package main

import (
	"context"
	"fmt"
	"log"
	"sort"
	"time"

	"github.com/prospecta/company-search/internal/config"
	"github.com/prospecta/company-search/internal/logging"
	"github.com/prospecta/company-search/internal/taxonomy"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Copies the bundled segment taxonomy file into the MongoDB segment collection
// used when TAXONOMY_SOURCE=mongo.
func main() {
	fmt.Println("🌱 Seeding segment taxonomy...")

	// Initialize logging and configuration
	if err := logging.InitLogger(); err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	if err := config.LoadConfig(); err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	// Initialize MongoDB
	if err := config.InitMongoDB(); err != nil {
		log.Fatalf("Failed to initialize MongoDB: %v", err)
	}
	defer config.CloseMongoDB()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	source := taxonomy.FileSource{Path: config.AppConfig.TaxonomyFile}
	segments, err := source.Load(ctx)
	if err != nil {
		log.Fatalf("Failed to read taxonomy: %v", err)
	}

	names := make([]string, 0, len(segments))
	for name := range segments {
		names = append(names, name)
	}
	sort.Strings(names)

	collection := config.MongoDB.Collection(config.AppConfig.SegmentCollection)
	if _, err := collection.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "name", Value: 1}},
		Options: options.Index().SetUnique(true).SetName("idx_segment_name"),
	}); err != nil {
		log.Fatalf("Failed to create segment index: %v", err)
	}

	// Upsert so re-running the script refreshes codes in place
	for _, name := range names {
		_, err := collection.UpdateOne(ctx,
			bson.M{"name": name},
			bson.M{"$set": bson.M{"name": name, "codes": segments[name], "updated_at": time.Now()}},
			options.Update().SetUpsert(true),
		)
		if err != nil {
			log.Fatalf("Failed to upsert segment %s: %v", name, err)
		}
		fmt.Printf("✅ %s: %d codes\n", name, len(segments[name]))
	}

	fmt.Printf("🎉 Seeded %d segments into %s\n", len(names), config.AppConfig.SegmentCollection)
}
