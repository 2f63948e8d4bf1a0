package taxonomy

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/prospecta/company-search/internal/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// FileSource reads the taxonomy from a JSON file shaped as
// {"segments": {"saude": [{"code": "8610-1/01", "description": "..."}]}}
type FileSource struct {
	Path string
}

// Name identifies the source in logs
func (s FileSource) Name() string {
	return "file:" + s.Path
}

// Load reads and decodes the file
func (s FileSource) Load(_ context.Context) (Segments, error) {
	raw, err := os.ReadFile(s.Path)
	if err != nil {
		return nil, fmt.Errorf("failed to read taxonomy file: %w", err)
	}

	var doc struct {
		Segments Segments `json:"segments"`
	}
	if err := json.Unmarshal(raw, &doc); err != nil {
		return nil, fmt.Errorf("failed to decode taxonomy file: %w", err)
	}
	if len(doc.Segments) == 0 {
		return nil, fmt.Errorf("taxonomy file %s has no segments", s.Path)
	}
	return doc.Segments, nil
}

// segmentDocument is one segment stored in MongoDB
type segmentDocument struct {
	Name  string                `bson:"name"`
	Codes []models.IndustryCode `bson:"codes"`
}

// MongoSource reads the taxonomy from a MongoDB collection, one document per segment
type MongoSource struct {
	Collection *mongo.Collection
}

// Name identifies the source in logs
func (s MongoSource) Name() string {
	if s.Collection == nil {
		return "mongo:<nil>"
	}
	return "mongo:" + s.Collection.Name()
}

// Load reads every segment document
func (s MongoSource) Load(ctx context.Context) (Segments, error) {
	if s.Collection == nil {
		return nil, fmt.Errorf("segment collection not configured")
	}

	cursor, err := s.Collection.Find(ctx, bson.M{}, options.Find().SetSort(bson.D{{Key: "name", Value: 1}}))
	if err != nil {
		return nil, fmt.Errorf("failed to find segments: %w", err)
	}
	defer cursor.Close(ctx)

	var docs []segmentDocument
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("failed to decode segments: %w", err)
	}

	segments := make(Segments, len(docs))
	for _, doc := range docs {
		segments[doc.Name] = append(segments[doc.Name], doc.Codes...)
	}
	if len(segments) == 0 {
		return nil, fmt.Errorf("segment collection %s is empty", s.Collection.Name())
	}
	return segments, nil
}
