// cmd/seeder/main.go
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/unclebandit/contacts-backend/internal/config"
	"github.com/unclebandit/contacts-backend/internal/logger"
	"github.com/unclebandit/contacts-backend/internal/model"
	"github.com/unclebandit/contacts-backend/internal/repository"
)

const defaultSeedFile = "seed/contacts.json"

type seedDocument struct {
	Contacts []model.ContactInput `json:"contacts"`
}

func main() {
	config.LoadDotEnv()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	log := logger.New(logger.Options{Level: cfg.LogLevel, Format: cfg.LogFormat, Logfile: cfg.LogFile})

	file := defaultSeedFile
	if len(os.Args) > 1 {
		file = os.Args[1]
	}

	ctx := context.Background()
	repo, closeRepo, err := repository.Open(ctx, cfg)
	if err != nil {
		log.Error("failed to open store", "driver", cfg.StoreDriver, "err", err)
		os.Exit(1)
	}
	defer closeRepo()

	f, err := os.Open(file)
	if err != nil {
		log.Error("failed to read seed file", "file", file, "err", err)
		os.Exit(1)
	}
	defer f.Close()

	n, err := seed(ctx, repo, f)
	if err != nil {
		log.Error("seeding failed", "file", file, "seeded", n, "err", err)
		os.Exit(1)
	}
	log.Info("database seeding completed", "file", file, "contacts", n, "store", cfg.StoreDriver)
}

// seed validates and inserts every contact in the document read from r.
// It stops at the first invalid record and returns how many were stored.
func seed(ctx context.Context, repo repository.ContactRepositoryInterface, r io.Reader) (int, error) {
	var doc seedDocument
	if err := json.NewDecoder(r).Decode(&doc); err != nil {
		return 0, fmt.Errorf("decode seed document: %w", err)
	}

	for i, in := range doc.Contacts {
		if err := in.Validate(); err != nil {
			return i, fmt.Errorf("contact %d (%s): %w", i, in.Name, err)
		}
		c := in.ToContact(0)
		if err := repo.Create(ctx, &c); err != nil {
			return i, fmt.Errorf("create %s: %w", in.Name, err)
		}
	}
	return len(doc.Contacts), nil
}
