// migration/backfill_legacy_expenses.go
// Brings user documents written by the previous Node service up to the
// current expense layout:
//   - expenseId is filled from the sub-document _id (or a new UUID)
//   - categories are lower-cased and mapped onto the fixed set
//   - missing contacts become an empty array
//   - missing myexpense is recomputed from the amount and contacts
//
// USAGE: expense-api backfill-legacy (mongo backend only). Safe to re-run.

package migration

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"

	"github.com/LovationAdmin/expense-api/models"
	"github.com/LovationAdmin/expense-api/utils"
)

// Stats counts what a backfill run did to user documents.
type Stats struct {
	Scanned  int
	Migrated int
	Skipped  int
	Conflict int
	Failed   int
}

type legacyUser struct {
	ID       bson.ObjectID `bson:"_id"`
	UserID   string        `bson:"UserID"`
	Expenses []bson.M      `bson:"expenses"`
}

// MigrateExpense updates a single embedded expense in place and reports
// whether anything changed.
func MigrateExpense(e bson.M) bool {
	changed := false

	if id, _ := e["expenseId"].(string); id == "" {
		if oid, ok := e["_id"].(bson.ObjectID); ok {
			e["expenseId"] = oid.Hex()
		} else {
			e["expenseId"] = uuid.New().String()
		}
		changed = true
	}

	if raw, ok := e["category"].(string); ok {
		if normalized := string(models.NormalizeCategory(raw)); normalized != raw {
			e["category"] = normalized
			changed = true
		}
	} else {
		e["category"] = string(models.CategoryMisc)
		changed = true
	}

	contacts, ok := e["contacts"].(bson.A)
	if !ok {
		contacts = bson.A{}
		e["contacts"] = contacts
		changed = true
	}

	if _, ok := e["myexpense"]; !ok {
		if amount, ok := toFloat(e["expenseAmount"]); ok {
			e["myexpense"] = models.SplitShare(amount, len(contacts))
			changed = true
		}
	}

	return changed
}

func migrateUser(u *legacyUser) bool {
	changed := false
	for _, e := range u.Expenses {
		if MigrateExpense(e) {
			changed = true
		}
	}
	return changed
}

// BackfillLegacyExpenses scans every user document and rewrites the ones that
// still carry the old layout. The rewrite only applies if the expenses array
// has the length that was read, so an expense appended meanwhile is never
// overwritten; such users are counted as Conflict and picked up by the next run.
func BackfillLegacyExpenses(ctx context.Context, users *mongo.Collection) (Stats, error) {
	var stats Stats

	slog.Info("[Migration] starting legacy expense backfill", "collection", users.Name())

	cursor, err := users.Find(ctx, bson.M{})
	if err != nil {
		return stats, fmt.Errorf("failed to query users: %w", err)
	}
	defer cursor.Close(ctx)

	for cursor.Next(ctx) {
		stats.Scanned++

		var u legacyUser
		if err := cursor.Decode(&u); err != nil {
			slog.Error("[Migration] failed to decode user", "error", err)
			stats.Failed++
			continue
		}

		if !migrateUser(&u) {
			stats.Skipped++
			continue
		}

		res, err := users.UpdateOne(ctx,
			bson.M{"_id": u.ID, "expenses": bson.M{"$size": len(u.Expenses)}},
			bson.M{"$set": bson.M{"expenses": u.Expenses}},
		)
		switch {
		case err != nil:
			slog.Error("[Migration] failed to update user", "user_id", utils.MaskID(u.UserID), "error", err)
			stats.Failed++
		case res.MatchedCount == 0:
			slog.Warn("[Migration] user changed during backfill, skipped", "user_id", utils.MaskID(u.UserID))
			stats.Conflict++
		default:
			stats.Migrated++
		}
	}
	if err := cursor.Err(); err != nil {
		return stats, fmt.Errorf("cursor failed: %w", err)
	}

	slog.Info("[Migration] legacy expense backfill finished",
		"scanned", stats.Scanned,
		"migrated", stats.Migrated,
		"skipped", stats.Skipped,
		"conflict", stats.Conflict,
		"failed", stats.Failed,
	)
	return stats, nil
}

func toFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case int32:
		return float64(n), true
	case int64:
		return float64(n), true
	case bson.Decimal128:
		f, err := strconv.ParseFloat(n.String(), 64)
		return f, err == nil
	default:
		return 0, false
	}
}

