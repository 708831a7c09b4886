package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/yethikrishna/y0-waitlist-builder/internal/auth"
	"github.com/yethikrishna/y0-waitlist-builder/internal/constants"
	"github.com/yethikrishna/y0-waitlist-builder/internal/db/repositories"
)

// Grants the admin role to a user id and prints a bearer token for it.
func main() {
	userID := flag.String("user", "", "user id to grant admin and mint a token for")
	email := flag.String("email", "", "email embedded in the token")
	ttl := flag.Duration("ttl", 24*time.Hour, "token lifetime")
	flag.Parse()

	if *userID == "" {
		log.Fatal("usage: admin_token_gen -user <uuid> [-email <email>] [-ttl 24h]")
	}

	secret := os.Getenv("ADMIN_JWT_SECRET")
	if secret == "" {
		log.Fatal("ADMIN_JWT_SECRET is required")
	}

	host := os.Getenv("PG_HOST")
	port := os.Getenv("PG_PORT")
	user := os.Getenv("PG_USER")
	dbname := os.Getenv("PG_DB")
	password := os.Getenv("PG_PASSWORD")
	dsn := fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=disable", user, password, host, port, dbname)

	gdb, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		log.Fatalf("open db: %v", err)
	}

	roles := repositories.NewRoleRepository(gdb)
	if err := roles.Grant(context.Background(), *userID, constants.RoleAdmin); err != nil {
		log.Fatalf("grant admin role: %v", err)
	}

	verifier := auth.NewTokenVerifier([]byte(secret))
	token, err := verifier.Mint(*userID, *email, *ttl)
	if err != nil {
		log.Fatalf("mint token: %v", err)
	}

	fmt.Println("Admin token:", token)
}
