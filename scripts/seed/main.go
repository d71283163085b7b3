// Seed loads a demo owner with a full todo list and a month of session
// history. Run from project root: go run ./scripts/seed
package main

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/google/uuid"

	"focusdock/internal/database"
	"focusdock/internal/models"
)

var demoTodos = []string{
	"Review yesterday's pull requests",
	"Write the sprint retro notes",
	"Refactor the session worker",
	"Plan tomorrow's deep-work block",
	"Clear the support inbox",
	"Update the deployment runbook",
	"Pair on the cache invalidation bug",
}

func main() {
	loadEnvFile(".env")

	ctx := context.Background()
	db := database.DB(ctx)
	if db == nil {
		fmt.Fprintln(os.Stderr, "DATABASE_URL not set or DB connection failed")
		os.Exit(1)
	}
	if err := database.EnsureSchema(ctx); err != nil {
		fmt.Fprintln(os.Stderr, "Schema failed:", err)
		os.Exit(1)
	}

	ownerID := "demo-owner"
	if len(os.Args) > 1 {
		ownerID = os.Args[1]
	}
	now := time.Now().UTC()

	for i, text := range demoTodos {
		_, err := db.ExecContext(ctx,
			`INSERT INTO todos (id, text, completed, ord, owner_id, created_at, updated_at)
			 VALUES ($1, $2, $3, $4, $5, $6, $6)
			 ON CONFLICT (owner_id, ord) DO NOTHING`,
			uuid.NewString(), text, i%3 == 0, i+1, ownerID, now)
		if err != nil {
			fmt.Fprintln(os.Stderr, "Todo insert failed:", err)
			os.Exit(1)
		}
	}

	// Four weeks of history: three pomodoros and one break per weekday.
	inserted := 0
	for day := 0; day < 28; day++ {
		date := now.AddDate(0, 0, -day)
		if wd := date.Weekday(); wd == time.Saturday || wd == time.Sunday {
			continue
		}
		for n := 0; n < 4; n++ {
			sessionType, minutes := models.SessionPomodoro, 25
			if n == 3 {
				sessionType, minutes = models.SessionBreak, 5
			}
			at := time.Date(date.Year(), date.Month(), date.Day(), 9+2*n, 30, 0, 0, time.UTC)
			_, err := db.ExecContext(ctx,
				`INSERT INTO sessions (id, type, duration_minutes, date, clock_time, owner_id, created_at)
				 VALUES ($1, $2, $3, $4, $5, $6, $7)`,
				uuid.NewString(), sessionType, minutes, at, at.Format("15:04:05"), ownerID, now)
			if err != nil {
				fmt.Fprintln(os.Stderr, "Session insert failed:", err)
				os.Exit(1)
			}
			inserted++
		}
	}

	fmt.Printf("Seeded owner %q: %d todos, %d sessions\n", ownerID, len(demoTodos), inserted)
}

func loadEnvFile(path string) {
	f, err := os.Open(path)
	if err != nil {
		return
	}
	defer f.Close()
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		idx := strings.Index(line, "=")
		if idx <= 0 {
			continue
		}
		key := strings.TrimSpace(line[:idx])
		val := strings.TrimSpace(line[idx+1:])
		if strings.HasPrefix(val, `"`) && strings.HasSuffix(val, `"`) {
			val = strings.Trim(val, `"`)
		} else if strings.HasPrefix(val, "'") && strings.HasSuffix(val, "'") {
			val = strings.Trim(val, "'")
		}
		if key != "" && os.Getenv(key) == "" {
			_ = os.Setenv(key, val)
		}
	}
}
