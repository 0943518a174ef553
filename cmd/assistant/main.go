package main

import (
	"context"
	"errors"
	"flag"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"gitlab.com/dirk.krummacker/contacts-assistant/internal/addressbook"
	"gitlab.com/dirk.krummacker/contacts-assistant/internal/assistant"
	"gitlab.com/dirk.krummacker/contacts-assistant/internal/config"
	"gitlab.com/dirk.krummacker/contacts-assistant/internal/storage"
)

// Usage examples on the command line:
// > go run main.go
// > ASSISTANT_STORAGE=mysql DBHOST=localhost:3306 DBUSER=dirk DBPWD=bullo92 go run main.go
func main() {
	configPtr := flag.String("config", "", "the config file to read (default: assistant.yaml if present)")
	flag.Parse()

	cfg, err := config.Load(*configPtr)
	if err != nil {
		log.Fatal(err)
	}
	logger := cfg.NewLogger(os.Stderr)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	store, closeStore := openStore(cfg, logger)
	defer closeStore()

	book := addressbook.New(addressbook.WithLogger(logger))
	msg, err := book.LoadFrom(ctx, store)
	if err != nil {
		log.Fatal(err)
	}

	a := assistant.New(book, os.Stdout, logger)
	a.Println(msg)
	if err := a.Run(ctx, os.Stdin); err != nil && !errors.Is(err, context.Canceled) {
		closeStore()
		log.Fatal(err)
	}

	// Saving must not be cut short by the signal that may have ended the loop.
	if err := book.SaveTo(context.Background(), store); err != nil {
		closeStore()
		log.Fatal(err)
	}
}

// openStore creates the store selected by the configuration and a function that releases it.
func openStore(cfg *config.Config, logger *slog.Logger) (storage.Store, func()) {
	if cfg.Storage != config.StorageMySQL {
		return storage.NewFileStore(cfg.File, logger), func() {}
	}
	sqlDB, err := storage.OpenMySQL(cfg.DB.User, cfg.DB.Password, cfg.DB.Host, cfg.DB.Name)
	if err != nil {
		log.Fatal(err)
	}
	store := storage.NewSQLStore(sqlDB, logger)
	return store, func() { store.Close() }
}
