package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/brianvoe/gofakeit/v7"
	"github.com/joho/godotenv"

	"github.com/adminkit/portal-core/internal/supabase"
)

// Seeds the client_updates table with fake entries so the dashboard feed
// has something to show during development.
const numUpdates = 12

func main() {
	_ = godotenv.Load(".env.local")
	gofakeit.Seed(time.Now().UnixNano())

	client := supabase.New(supabase.Config{
		URL:     os.Getenv("SUPABASE_URL"),
		AnonKey: os.Getenv("SUPABASE_ANON_KEY"),
	})
	if !client.Configured() {
		log.Fatal("SUPABASE_URL and SUPABASE_ANON_KEY must be set")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	fmt.Println("Seeding client updates...")
	for i := 0; i < numUpdates; i++ {
		company := gofakeit.Company()
		notes := gofakeit.Sentence(12)

		err := client.Insert(ctx, "client_updates", map[string]string{
			"company": company,
			"notes":   notes,
		})
		if err != nil {
			log.Fatalf("Failed to insert update for %s: %v", company, err)
		}
		fmt.Printf("  + %s\n", company)
	}
	fmt.Printf("Done: inserted %d updates\n", numUpdates)
}
