// seed creates a demo user and a few articles in the configured store.
// Run: go run ./cmd/seed
package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"

	"github.com/ErlanBelekov/briefly/config"
	"github.com/ErlanBelekov/briefly/internal/domain"
	"github.com/ErlanBelekov/briefly/internal/infrastructure/stores"
	ctxlog "github.com/ErlanBelekov/briefly/internal/log"
	"github.com/ErlanBelekov/briefly/internal/usecase"
)

const (
	seedName     = "Demo User"
	seedEmail    = "demo@briefly.local"
	seedPassword = "demo-password"
)

var articles = []usecase.CreateArticleInput{
	{
		Title:     "Getting started with Go",
		Body:      "Go is a statically typed, compiled language designed at Google. It is known for fast builds, a small language definition and first class concurrency. This article walks through installing the toolchain and writing a first program.",
		Tags:      []string{"go", "tutorial"},
		Published: true,
	},
	{
		Title: "Context cancellation in practice",
		Body:  "Every blocking call in a server should accept a context. Cancellation flows from the request down to the database driver, so abandoned requests stop consuming resources. We look at timeouts, deadlines and common mistakes.",
		Tags:  []string{"go, concurrency"},
	},
	{
		Title:     "Why structured logging",
		Body:      "Structured logs are key value records rather than free text. They can be filtered and aggregated without regular expressions. The standard library slog package makes this the default in Go.",
		Tags:      []string{"observability", "go"},
		Published: true,
	},
}

func main() {
	ctx := context.Background()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config error: %v (JWT_SECRET and a store must be configured, e.g. STORE_DRIVER=sqlite)", err)
	}
	logger := ctxlog.New(os.Stderr, cfg.Env, cfg.SlogLevel())

	st, err := stores.Open(ctx, cfg, logger)
	if err != nil {
		log.Fatalf("stores: %v", err)
	}
	defer st.Close()

	sessions := usecase.NewSessionManager(st.Sessions, []byte(cfg.JWTSecret), usecase.WithSessionTTL(cfg.SessionTTL))
	auth := usecase.NewAuthUsecase(st.Users, sessions, usecase.WithBcryptCost(cfg.BcryptCost))
	articleUsecase := usecase.NewArticleUsecase(st.Articles)

	// Re-runs log into the existing demo user instead of failing.
	result, err := auth.Register(ctx, usecase.RegisterInput{Name: seedName, Email: seedEmail, Password: seedPassword})
	if errors.Is(err, domain.ErrEmailExists) {
		result, err = auth.Login(ctx, usecase.LoginInput{Email: seedEmail, Password: seedPassword})
	}
	if err != nil {
		log.Fatalf("demo user: %v", err)
	}
	userID := result.User.ID

	existing, err := articleUsecase.List(ctx, userID, domain.ArticleFilter{})
	if err != nil {
		log.Fatalf("list articles: %v", err)
	}
	titles := make(map[string]bool, len(existing))
	for _, a := range existing {
		titles[a.Title] = true
	}

	var created, skipped int
	for _, in := range articles {
		if titles[in.Title] {
			skipped++
			continue
		}
		in.OwnerID = userID
		if _, err := articleUsecase.Create(ctx, in); err != nil {
			log.Fatalf("create article %q: %v", in.Title, err)
		}
		created++
	}

	fmt.Println("Seed complete")
	fmt.Println()
	fmt.Printf("  User:             %s / %s\n", seedEmail, seedPassword)
	fmt.Printf("  User ID:          %s\n", userID)
	fmt.Printf("  Articles created: %d  (skipped %d already existing)\n", created, skipped)
	fmt.Println()
	fmt.Println("Try it:")
	fmt.Println()
	fmt.Printf("  export TOKEN=%s\n", result.Token)
	fmt.Printf("  curl -s http://localhost:%s/articles -H \"Authorization: Bearer $TOKEN\"\n", cfg.Port)
	fmt.Printf("  curl -s http://localhost:%s/articles/stats -H \"Authorization: Bearer $TOKEN\"\n", cfg.Port)
	fmt.Printf("  curl -s -X POST http://localhost:%s/summaries -H \"Authorization: Bearer $TOKEN\" \\\n", cfg.Port)
	fmt.Println("    -H 'Content-Type: application/json' -d '{\"text\":\"Paste any text here.\"}'")
}
