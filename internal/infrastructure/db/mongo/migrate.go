package mongo

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
)

// MigrateLegacyCategories promotes the deprecated single-category vendor
// field into the categories array. It is a one-time maintenance routine run
// deliberately (for example at startup or from an ops task), not a hook on
// the write path. Returns the number of documents migrated.
func (r *MongoAccountRepository) MigrateLegacyCategories(ctx context.Context) (int64, error) {
	filter := bson.M{
		"vendor.primary_category": bson.M{"$exists": true, "$ne": ""},
		"$or": bson.A{
			bson.M{"vendor.categories": bson.M{"$exists": false}},
			bson.M{"vendor.categories": bson.M{"$size": 0}},
		},
	}

	cur, err := r.coll.Find(ctx, filter)
	if err != nil {
		return 0, fmt.Errorf("find legacy vendors: %w", err)
	}
	defer cur.Close(ctx)

	var migrated int64
	for cur.Next(ctx) {
		var doc accountDoc
		if err := cur.Decode(&doc); err != nil {
			return migrated, fmt.Errorf("decode legacy vendor: %w", err)
		}
		if doc.Vendor == nil || doc.Vendor.LegacyCategory == "" {
			continue
		}

		update := bson.M{
			"$set":   bson.M{"vendor.categories": []string{doc.Vendor.LegacyCategory}},
			"$unset": bson.M{"vendor.primary_category": ""},
		}
		if _, err := r.coll.UpdateByID(ctx, doc.ID, update); err != nil {
			return migrated, fmt.Errorf("migrate vendor %s: %w", doc.ID.Hex(), err)
		}
		migrated++
	}
	if err := cur.Err(); err != nil {
		return migrated, fmt.Errorf("iterate legacy vendors: %w", err)
	}
	return migrated, nil
}
