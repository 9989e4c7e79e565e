// Seed creates the default admin account and the initial LAMOGO menu.
// Safe to run repeatedly: existing rows are left alone.
package main

import (
	"context"
	"errors"
	"log"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/lamogo-pos/api/internal/config"
	"github.com/lamogo-pos/api/internal/database"
	"github.com/lamogo-pos/api/internal/enum"
	"golang.org/x/crypto/bcrypt"
)

type menuSeed struct {
	name        string
	description string
	price       string
	imageURL    string
}

var menuSeeds = []menuSeed{
	{"Nasi Goreng Lamogo", "Nasi goreng spesial ala Lamogo", "25000", "nasigoreng.jpg"},
	{"Lele Terbang", "Lele goreng kriuk khas Lamongan", "28000", "lamongan.jpg"},
	{"Es Teh Manis", "Segelas es teh manis dingin", "5000", "es_teh.jpg"},
	{"Pecel Ayam", "Ayam goreng dengan sambal khas Lamogo", "27000", "pecelayam.jpg"},
	{"Bebek Goreng", "Bebek goreng gurih dengan sambal korek", "30000", "bebek.jpg"},
	{"Soto Lamongan", "Soto ayam khas Lamongan dengan koya", "25000", "soto.jpg"},
	{"Tahu Tempe", "Tahu tempe goreng gurih", "10000", "tahu_tempe.jpg"},
	{"Rawon Lamongan", "Rawon daging dengan kuah hitam khas", "32000", "rawon.jpg"},
	{"Es Jeruk Segar", "Segelas es jeruk peras segar", "7000", "es_jeruk.jpg"},
}

const (
	adminEmail    = "admin@lamogo.com"
	adminPassword = "admin123"
)

func main() {
	cfg := config.Load()

	ctx := context.Background()
	pool, err := pgxpool.New(ctx, cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("FATAL: connect to database: %v", err)
	}
	defer pool.Close()

	queries := database.New(pool)

	if err := seedAdmin(ctx, queries); err != nil {
		log.Fatalf("FATAL: seed admin: %v", err)
	}
	if err := seedMenu(ctx, queries); err != nil {
		log.Fatalf("FATAL: seed menu: %v", err)
	}

	log.Println("Seeding complete")
}

func seedAdmin(ctx context.Context, queries *database.Queries) error {
	_, err := queries.GetUserByEmail(ctx, adminEmail)
	if err == nil {
		log.Printf("admin user %s already exists, skipping", adminEmail)
		return nil
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return err
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(adminPassword), bcrypt.DefaultCost)
	if err != nil {
		return err
	}

	user, err := queries.CreateUser(ctx, database.CreateUserParams{
		Name:           "Admin",
		Email:          adminEmail,
		HashedPassword: string(hashed),
		Role:           enum.UserRoleAdmin,
	})
	if err != nil {
		return err
	}

	log.Printf("created admin user %s (%s)", user.Email, user.ID)
	return nil
}

func seedMenu(ctx context.Context, queries *database.Queries) error {
	count, err := queries.CountMenuItems(ctx)
	if err != nil {
		return err
	}
	if count > 0 {
		log.Printf("menu already has %d items, skipping", count)
		return nil
	}

	for _, seed := range menuSeeds {
		var price pgtype.Numeric
		if err := price.Scan(seed.price); err != nil {
			return err
		}

		item, err := queries.CreateMenuItem(ctx, database.CreateMenuItemParams{
			Name:        seed.name,
			Description: pgtype.Text{String: seed.description, Valid: true},
			Price:       price,
			ImageUrl:    pgtype.Text{String: seed.imageURL, Valid: true},
			IsActive:    true,
		})
		if err != nil {
			return err
		}
		log.Printf("created menu item %s (%s)", item.Name, item.ID)
	}

	return nil
}
