package db

import (
	"encoding/hex"
	"fmt"
	"log/slog"
	"math/rand"
	"time"

	"golang.org/x/crypto/sha3"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// seedRandom fixes the generated data so every run produces the same graph.
const seedRandom = 20240611

var (
	seedNames     = []string{"Alex", "Sam", "Jordan", "Taylor", "Riley", "Casey", "Morgan", "Jamie", "Avery", "Quinn"}
	seedInterests = []string{"hiking", "music", "travel", "coffee", "art", "running", "cooking", "books", "film", "yoga"}
	seedCities    = []string{"Berlin", "Lisbon", "Austin", "Seoul", "Nairobi"}
	seedGenders   = []Gender{GenderMale, GenderFemale, GenderNonBinary, GenderOther}
)

// SeedNullifier derives a stable fake World ID nullifier hash for seed user n.
func SeedNullifier(n int) string {
	h := sha3.NewLegacyKeccak256()
	_, _ = fmt.Fprintf(h, "seed-user-%d", n)
	return "0x" + hex.EncodeToString(h.Sum(nil))
}

// SeedTestData resets the database and populates it with demo identities,
// profiles, swipes and matches.
//
// Behavior:
//  1. Clears every table.
//  2. Creates 20 identities with complete profiles.
//  3. Generates ~150 swipes (~70% likes); every 3rd like is reciprocated and
//     becomes a match, every 2nd match has chat unlocked.
//
// Compatible with MySQL, Postgres and SQLite.
func SeedTestData(db *gorm.DB, log *slog.Logger) error {
	r := rand.New(rand.NewSource(seedRandom))

	// --- Fresh start ---
	for _, table := range []string{"messages", "matches", "swipes", "transactions", "subscriptions", "profiles", "users"} {
		if err := db.Exec("DELETE FROM " + table).Error; err != nil {
			return fmt.Errorf("failed to clear %s: %w", table, err)
		}
	}

	// id resets are best effort; a failure only means ids keep counting up
	var resets []string
	switch db.Dialector.Name() {
	case "mysql":
		for _, table := range []string{"users", "profiles", "matches"} {
			resets = append(resets, "ALTER TABLE "+table+" AUTO_INCREMENT = 1")
		}
	case "sqlite":
		resets = append(resets, "DELETE FROM sqlite_sequence WHERE name IN ('users', 'profiles', 'matches')")
	}
	execBestEffort(db, log, resets)

	log.Info("cleared existing data")

	// --- Identities + profiles ---
	ids := make([]uint64, 0, 20)
	for i := 1; i <= 20; i++ {
		level := VerificationDevice
		if i%2 == 0 {
			level = VerificationOrb
		}
		user := User{
			NullifierHash:     SeedNullifier(i),
			VerificationLevel: level,
			ProfileCompleted:  true,
			LastLoginAt:       time.Now().Add(-time.Duration(r.Intn(500)) * time.Hour),
		}
		if err := db.Create(&user).Error; err != nil {
			return fmt.Errorf("failed to seed user: %w", err)
		}

		profile := Profile{
			UserID:    user.ID,
			Name:      fmt.Sprintf("%s %d", seedNames[i%len(seedNames)], i),
			Age:       18 + r.Intn(30),
			Gender:    seedGenders[i%len(seedGenders)],
			Bio:       "Seeded profile",
			Interests: pick(r, seedInterests, 3),
			Location:  seedCities[r.Intn(len(seedCities))],
			Images:    []string{},
		}
		if err := db.Create(&profile).Error; err != nil {
			return fmt.Errorf("failed to seed profile: %w", err)
		}
		ids = append(ids, user.ID)
	}
	log.Info("seeded identities with profiles", "count", len(ids))

	// --- Swipes and matches ---
	counter := 0
	for _, actorID := range ids {
		for j := 0; j < 8; j++ {
			targetID := ids[r.Intn(len(ids))]
			if actorID == targetID {
				continue
			}

			action := ActionPass
			if r.Intn(100) < 70 {
				action = ActionLike
			}

			swipe := Swipe{ActorID: actorID, TargetID: targetID, Action: action}
			res := db.Clauses(clause.OnConflict{DoNothing: true}).Create(&swipe)
			if res.Error != nil {
				return fmt.Errorf("failed to seed swipe: %w", res.Error)
			}
			if res.RowsAffected == 0 || action != ActionLike {
				continue
			}

			// reciprocate every 3rd like
			counter++
			if counter%3 != 0 {
				continue
			}
			back := Swipe{ActorID: targetID, TargetID: actorID, Action: ActionLike}
			if err := db.Clauses(clause.OnConflict{DoNothing: true}).Create(&back).Error; err != nil {
				return fmt.Errorf("failed to seed reciprocal swipe: %w", err)
			}
			var existing Swipe
			if err := db.Where("actor_id = ? AND target_id = ?", targetID, actorID).First(&existing).Error; err != nil {
				return err
			}
			if existing.Action != ActionLike {
				continue
			}

			lo, hi := OrderedPair(actorID, targetID)
			match := Match{User1ID: lo, User2ID: hi, Status: MatchMatched, ChatUnlocked: counter%2 == 0}
			if err := db.Clauses(clause.OnConflict{DoNothing: true}).Create(&match).Error; err != nil {
				return fmt.Errorf("failed to seed match: %w", err)
			}
		}
	}
	log.Info("seeded swipes and matches", "likes", counter)

	return nil
}

// execBestEffort runs each statement, logging failures at debug level.
func execBestEffort(db *gorm.DB, log *slog.Logger, stmts []string) {
	for _, stmt := range stmts {
		if err := db.Exec(stmt).Error; err != nil {
			log.Debug("id sequence reset failed", "stmt", stmt, "err", err)
		}
	}
}

// OrderedPair returns (min, max) of a and b.
func OrderedPair(a, b uint64) (uint64, uint64) {
	if a < b {
		return a, b
	}
	return b, a
}

func pick(r *rand.Rand, from []string, n int) []string {
	idx := r.Perm(len(from))[:n]
	out := make([]string, 0, n)
	for _, i := range idx {
		out = append(out, from[i])
	}
	return out
}
