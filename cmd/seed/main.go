package main

import (
	"context"
	"flag"
	"log"
	"time"

	"dailgraph/internal/config"
	"dailgraph/internal/seed"
	"dailgraph/internal/storage"

	"github.com/joho/godotenv"
)

func main() {
	_ = godotenv.Load(".env")
	workbook := flag.String("workbook", "data/dail_cases.xlsx", "path to the DAIL case table workbook")
	demo := flag.Bool("demo", false, "load the synthetic demo graph instead of a workbook")
	skipDerive := flag.Bool("skip-derive", false, "skip the theory/court derivation pass")
	flag.Parse()

	cfg := config.Load()
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Minute)
	defer cancel()

	db, err := storage.NewDB(ctx, cfg.PostgresURL)
	if err != nil {
		log.Fatal(err)
	}
	defer db.Close()
	if err := storage.EnsureSchema(ctx, db); err != nil {
		log.Fatal(err)
	}

	s := seed.NewSeeder(db)
	var n int
	if *demo {
		if err := s.SeedDemo(ctx); err != nil {
			log.Fatal(err)
		}
	} else {
		n, err = s.ImportCaseWorkbook(ctx, *workbook)
		if err != nil {
			log.Fatalf("import failed after %d cases: %v", n, err)
		}
	}

	if !*skipDerive {
		theories, courts, err := s.DeriveEntities(ctx)
		if err != nil {
			log.Fatal(err)
		}
		log.Printf("derivation complete: %d theory links, %d court links", theories, courts)
	}
	if !*demo {
		log.Printf("seeding complete: %d cases", n)
	}
}
