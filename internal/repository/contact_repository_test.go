package repository_test

import (
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/unclebandit/contacts-backend/internal/config"
	"github.com/unclebandit/contacts-backend/internal/db"
	appErrors "github.com/unclebandit/contacts-backend/internal/errors"
	"github.com/unclebandit/contacts-backend/internal/model"
	"github.com/unclebandit/contacts-backend/internal/repository"
)

func openJSON(t *testing.T) repository.ContactRepositoryInterface {
	t.Helper()
	repo, err := repository.OpenJSONFile(filepath.Join(t.TempDir(), "db.json"))
	if err != nil {
		t.Fatalf("open json: %v", err)
	}
	return repo
}

func openSQLite(t *testing.T) repository.ContactRepositoryInterface {
	t.Helper()
	conn, err := db.Open(context.Background(), "sqlite", filepath.Join(t.TempDir(), "contacts.sqlite"))
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	t.Cleanup(func() { conn.Close() })
	return &repository.SQLRepository{DB: conn, Driver: "sqlite"}
}

func TestRepositories(t *testing.T) {
	backends := map[string]func(*testing.T) repository.ContactRepositoryInterface{
		"json":   openJSON,
		"sqlite": openSQLite,
	}
	for name, open := range backends {
		t.Run(name, func(t *testing.T) {
			t.Run("crud", func(t *testing.T) { testCRUD(t, open(t)) })
			t.Run("not found", func(t *testing.T) { testNotFound(t, open(t)) })
		})
	}
}

func testCRUD(t *testing.T, repo repository.ContactRepositoryInterface) {
	ctx := context.Background()

	alice := &model.Contact{Name: "Alice Smith", Email: "alice@example.com", Phone: "0712345678"}
	bob := &model.Contact{Name: "Bob Jones", Email: "bob@example.com", Phone: "0723456789", Favourite: true}
	if err := repo.Create(ctx, alice); err != nil {
		t.Fatalf("create alice: %v", err)
	}
	if err := repo.Create(ctx, bob); err != nil {
		t.Fatalf("create bob: %v", err)
	}
	if alice.ID == 0 || bob.ID == alice.ID {
		t.Fatalf("expected distinct ids, got %d and %d", alice.ID, bob.ID)
	}

	got, err := repo.GetByID(ctx, bob.ID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if *got != *bob {
		t.Errorf("expected %+v, got %+v", *bob, *got)
	}

	alice.Address = "Nairobi"
	alice.Favourite = true
	if err := repo.Update(ctx, alice); err != nil {
		t.Fatalf("update: %v", err)
	}

	all, err := repo.List(ctx)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(all) != 2 || all[0] != *alice || all[1] != *bob {
		t.Errorf("unexpected list %+v", all)
	}

	if err := repo.Delete(ctx, alice.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}
	all, _ = repo.List(ctx)
	if len(all) != 1 || all[0].ID != bob.ID {
		t.Errorf("expected only bob after delete, got %+v", all)
	}

	if err := repo.Ping(ctx); err != nil {
		t.Errorf("ping: %v", err)
	}
}

func testNotFound(t *testing.T, repo repository.ContactRepositoryInterface) {
	ctx := context.Background()
	var nf *appErrors.ErrContactNotFound

	if _, err := repo.GetByID(ctx, 42); !errors.As(err, &nf) || nf.ContactID != 42 {
		t.Errorf("get: expected not found for 42, got %v", err)
	}
	if err := repo.Update(ctx, &model.Contact{ID: 42, Name: "x"}); !errors.As(err, &nf) {
		t.Errorf("update: expected not found, got %v", err)
	}
	if err := repo.Delete(ctx, 42); !errors.As(err, &nf) {
		t.Errorf("delete: expected not found, got %v", err)
	}
}

func TestJSONFileDocument(t *testing.T) {
	path := filepath.Join(t.TempDir(), "db.json")
	seed := `{"contacts":[{"id":7,"name":"Carol","email":"carol@example.com","phone":"0700000000","address":"","favourite":false}],"profile":{"name":"me"}}`
	if err := os.WriteFile(path, []byte(seed), 0o600); err != nil {
		t.Fatal(err)
	}

	repo, err := repository.OpenJSONFile(path)
	if err != nil {
		t.Fatalf("open: %v", err)
	}

	c := &model.Contact{Name: "Dave", Email: "dave@example.com", Phone: "0711111111"}
	if err := repo.Create(context.Background(), c); err != nil {
		t.Fatalf("create: %v", err)
	}
	if c.ID != 8 {
		t.Errorf("expected id after max (8), got %d", c.ID)
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	var doc struct {
		Contacts []model.Contact `json:"contacts"`
		Profile  map[string]any  `json:"profile"`
	}
	if err := json.Unmarshal(raw, &doc); err != nil {
		t.Fatalf("decode written document: %v", err)
	}
	if len(doc.Contacts) != 2 || doc.Contacts[1].Name != "Dave" {
		t.Errorf("expected both contacts persisted, got %+v", doc.Contacts)
	}
	if doc.Profile["name"] != "me" {
		t.Errorf("expected unrelated keys preserved, got %+v", doc.Profile)
	}

	reopened, err := repository.OpenJSONFile(path)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	all, _ := reopened.List(context.Background())
	if len(all) != 2 {
		t.Errorf("expected 2 contacts after reopen, got %d", len(all))
	}
}

func TestJSONFileCreatesMissingDocument(t *testing.T) {
	path := filepath.Join(t.TempDir(), "fresh.json")
	repo, err := repository.OpenJSONFile(path)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	all, err := repo.List(context.Background())
	if err != nil || len(all) != 0 {
		t.Fatalf("expected empty list, got %v %v", all, err)
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("expected document created: %v", err)
	}
	var doc map[string][]model.Contact
	if err := json.Unmarshal(raw, &doc); err != nil {
		t.Fatal(err)
	}
	if c, ok := doc["contacts"]; !ok || c == nil {
		t.Errorf("expected empty contacts array, got %s", raw)
	}
}

func TestJSONFileSharedWithAnotherWriter(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "db.json")

	server, err := repository.OpenJSONFile(path)
	if err != nil {
		t.Fatalf("open server repo: %v", err)
	}
	seeder, err := repository.OpenJSONFile(path)
	if err != nil {
		t.Fatalf("open seeder repo: %v", err)
	}

	seeded := &model.Contact{Name: "Seeded", Email: "seeded@example.com", Phone: "0700000001"}
	if err := seeder.Create(ctx, seeded); err != nil {
		t.Fatalf("seed: %v", err)
	}
	viaAPI := &model.Contact{Name: "ViaAPI", Email: "api@example.com", Phone: "0700000002"}
	if err := server.Create(ctx, viaAPI); err != nil {
		t.Fatalf("create: %v", err)
	}
	if viaAPI.ID == seeded.ID {
		t.Errorf("id %d reused", viaAPI.ID)
	}

	reopened, err := repository.OpenJSONFile(path)
	if err != nil {
		t.Fatal(err)
	}
	all, _ := reopened.List(ctx)
	if len(all) != 2 || all[0].Name != "Seeded" || all[1].Name != "ViaAPI" {
		t.Errorf("expected both writers' contacts on disk, got %+v", all)
	}

	if got, err := server.GetByID(ctx, seeded.ID); err != nil || got.Name != "Seeded" {
		t.Errorf("server should see the seeded contact, got %+v, %v", got, err)
	}
}

func TestJSONFilePicksUpHandEdits(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "db.json")

	repo, err := repository.OpenJSONFile(path)
	if err != nil {
		t.Fatal(err)
	}
	edited := `{"contacts":[{"id":3,"name":"Edited","email":"e@example.com","phone":"0700000003"}]}`
	if err := os.WriteFile(path, []byte(edited), 0o600); err != nil {
		t.Fatal(err)
	}

	all, err := repo.List(ctx)
	if err != nil || len(all) != 1 || all[0].Name != "Edited" {
		t.Fatalf("expected edited document, got %+v, %v", all, err)
	}
}

func TestOpenByDriver(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()

	for _, driver := range []string{config.DriverJSON, config.DriverSQLite} {
		cfg := config.Config{
			StoreDriver: driver,
			DBFile:      filepath.Join(dir, "db.json"),
			SQLitePath:  filepath.Join(dir, "contacts.sqlite"),
		}
		repo, closeFn, err := repository.Open(ctx, cfg)
		if err != nil {
			t.Fatalf("%s: open: %v", driver, err)
		}
		if err := repo.Ping(ctx); err != nil {
			t.Errorf("%s: ping: %v", driver, err)
		}
		if err := closeFn(); err != nil {
			t.Errorf("%s: close: %v", driver, err)
		}
	}

	if _, _, err := repository.Open(ctx, config.Config{StoreDriver: "mongo"}); err == nil {
		t.Error("expected error for unknown driver")
	}
}
