package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"time"

	"gitlab.com/dirk.krummacker/contacts-assistant/internal/config"
	"gitlab.com/dirk.krummacker/contacts-assistant/internal/storage"
)

// Polls the configured MySQL database until it answers, e.g. before running the migration in a
// freshly started container.
//
// Usage example on the command line:
// > DBHOST=localhost:3306 DBUSER=dirk DBPWD=bullo92 go run main.go -timeout=2m
func main() {
	configPtr := flag.String("config", "", "the config file to read")
	intervalPtr := flag.Duration("interval", 5*time.Second, "the time between two attempts")
	timeoutPtr := flag.Duration("timeout", 0, "give up after this duration (0 waits forever)")
	flag.Parse()

	cfg, err := config.Load(*configPtr)
	if err != nil {
		log.Fatal(err)
	}
	sqlDB, err := storage.OpenMySQL(cfg.DB.User, cfg.DB.Password, cfg.DB.Host, cfg.DB.Name)
	if err != nil {
		log.Fatal(err)
	}
	defer sqlDB.Close()

	started := time.Now()
	for {
		ctx, cancel := context.WithTimeout(context.Background(), *intervalPtr)
		err := sqlDB.PingContext(ctx)
		cancel()
		if err == nil {
			fmt.Printf("Database %s is available\n", cfg.DB.Host)
			return
		}
		fmt.Println(err)
		waited := time.Since(started)
		if *timeoutPtr > 0 && waited >= *timeoutPtr {
			log.Fatalf("database %s not available after %s", cfg.DB.Host, waited.Round(time.Second))
		}
		fmt.Printf("Waiting %d seconds", int(waited.Seconds()))
		fmt.Println()
		time.Sleep(*intervalPtr)
	}
}
