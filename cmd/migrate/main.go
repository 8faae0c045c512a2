package main

import (
	"fmt"
	"log"
	"os"

	"github.com/joho/godotenv"

	"github.com/segyhp/fee-ledger/internal/bootstrap"
	"github.com/segyhp/fee-ledger/internal/config"
	"github.com/segyhp/fee-ledger/migrations"
)

func main() {
	_ = godotenv.Load()

	command := "up"
	if len(os.Args) > 1 {
		command = os.Args[1]
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	db, err := bootstrap.DB(cfg)
	if err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}
	defer db.Close()

	switch command {
	case "up":
		err = migrations.Up(db.DB)
	case "down":
		err = migrations.Down(db.DB)
	case "status":
		err = migrations.Status(db.DB)
	default:
		err = fmt.Errorf("unknown command %q, want up, down or status", command)
	}
	if err != nil {
		log.Fatalf("Migration failed: %v", err)
	}
}
