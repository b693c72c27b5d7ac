// Command seed applies a SQL file to the database. It is used to create the
// schema on a fresh database and to load demo data in development.
package main

import (
	"context"
	"database/sql"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "github.com/lib/pq"
)

func main() {
	dbURL := flag.String("db", "", "Database URL (or set DATABASE_URL env)")
	sqlFile := flag.String("file", "scripts/schema.sql", "Path to SQL file to apply")
	flag.Parse()

	databaseURL := *dbURL
	if databaseURL == "" {
		databaseURL = os.Getenv("DATABASE_URL")
	}
	if databaseURL == "" {
		databaseURL = urlFromEnv()
	}
	if databaseURL == "" {
		fmt.Println("Error: Database URL required. Use -db flag or set DATABASE_URL env")
		os.Exit(1)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	db, err := sql.Open("postgres", databaseURL)
	if err != nil {
		fmt.Printf("Error connecting to database: %v\n", err)
		os.Exit(1)
	}
	defer db.Close()

	if err := db.PingContext(ctx); err != nil {
		fmt.Printf("Error pinging database: %v\n", err)
		os.Exit(1)
	}
	fmt.Println("Connected to database")

	path, err := filepath.Abs(*sqlFile)
	if err != nil {
		fmt.Printf("Error resolving file path: %v\n", err)
		os.Exit(1)
	}

	contents, err := os.ReadFile(path)
	if err != nil {
		fmt.Printf("Error reading SQL file %s: %v\n", path, err)
		os.Exit(1)
	}

	fmt.Printf("Applying: %s\n", path)
	if _, err := db.ExecContext(ctx, string(contents)); err != nil {
		fmt.Printf("Error executing SQL: %v\n", err)
		os.Exit(1)
	}

	printSummary(ctx, db)
	fmt.Println("Done")
}

// urlFromEnv builds a connection URL from the server's DB_* variables so the
// tool works inside the same container as the API.
func urlFromEnv() string {
	host := os.Getenv("DB_HOST")
	user := os.Getenv("DB_USER")
	password := os.Getenv("DB_PASSWORD")
	name := os.Getenv("DB_NAME")
	if host == "" || user == "" || name == "" {
		return ""
	}

	port := os.Getenv("DB_PORT")
	if port == "" {
		port = "5432"
	}
	sslMode := os.Getenv("DB_SSLMODE")
	if sslMode == "" {
		sslMode = "disable"
	}

	return fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=%s",
		user, password, host, port, name, sslMode)
}

func printSummary(ctx context.Context, db *sql.DB) {
	tables := []string{
		"usuarios", "marcas", "tipos_producto", "entalles", "telas",
		"muestras_base", "bases", "fichas", "tizados", "historial",
	}

	for _, table := range tables {
		var count int
		if err := db.QueryRowContext(ctx, "SELECT COUNT(*) FROM "+table).Scan(&count); err != nil {
			continue
		}
		fmt.Printf("  %-16s %d rows\n", table, count)
	}
}
