package main

import (
	"os"
	"strconv"
	"time"

	"github.com/brianvoe/gofakeit/v7"
	"github.com/charmbracelet/log"
	"github.com/joho/godotenv"
	"github.com/mauv0809/tierboard/internal/board"
	"github.com/mauv0809/tierboard/internal/database"
	"github.com/mauv0809/tierboard/internal/leaderboard"
	"github.com/mauv0809/tierboard/internal/rating"
)

const defaultPlayers = 200

// Simplified config loading for the script
func loadConfig() (dbName, primaryURL, authToken string, count int, seed uint64) {
	if err := godotenv.Load(); err != nil {
		log.Warn("No .env file found, reading from environment variables")
	}

	dbName = os.Getenv("DB_NAME")
	if dbName == "" {
		dbName = "tierboard.db"
	}
	primaryURL = os.Getenv("TURSO_PRIMARY_URL")
	authToken = os.Getenv("TURSO_AUTH_TOKEN")

	count = defaultPlayers
	if v := os.Getenv("SEED_PLAYERS"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n <= 0 {
			log.Fatalf("SEED_PLAYERS must be a positive number, got %q", v)
		}
		count = n
	}

	seed = uint64(time.Now().UnixNano())
	if v := os.Getenv("SEED"); v != "" {
		n, err := strconv.ParseUint(v, 10, 64)
		if err != nil {
			log.Fatalf("SEED must be a number, got %q", v)
		}
		seed = n
	}
	return dbName, primaryURL, authToken, count, seed
}

func fakePlayers(faker *gofakeit.Faker, count int) (classic, ffa []leaderboard.Player) {
	ranks := rating.RankLabels()
	for i := 0; i < count; i++ {
		p := leaderboard.Player{Name: faker.Username()}
		if faker.Bool() {
			p.RobloxLink = "https://www.roblox.com/users/" + faker.Numerify("#########") + "/profile"
		}

		c := p
		c.Rank = ranks[faker.Number(0, len(ranks)-1)]
		classic = append(classic, c)

		f := p
		f.Stars = rating.StarSteps[faker.Number(0, len(rating.StarSteps)-1)].Float()
		ffa = append(ffa, f)
	}
	return classic, ffa
}

func main() {
	log.Info("Starting database seeder...")
	dbName, primaryURL, authToken, count, seed := loadConfig()

	db, teardown, err := database.InitDB(dbName, primaryURL, authToken)
	if err != nil {
		log.Fatalf("Failed to initialize database: %s", err)
	}
	defer teardown()

	store := board.New(db)
	faker := gofakeit.New(seed)
	classic, ffa := fakePlayers(faker, count)

	startTime := time.Now()
	for kind, players := range map[leaderboard.Kind][]leaderboard.Player{
		leaderboard.Classic: classic,
		leaderboard.FFA:     ffa,
	} {
		res, err := store.ReplaceAll(kind, players)
		if err != nil {
			log.Fatalf("Failed to seed %s board: %s", kind, err)
		}
		log.Info("Seeded board", "board", kind, "imported", res.Imported, "skipped", res.Skipped)
	}

	log.Info("Successfully seeded both leaderboards.", "seed", seed, "duration", time.Since(startTime))
}
