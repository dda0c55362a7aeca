// Command seed loads the demonstration catalog and accounts into MongoDB.
// With RESET_DB=true every API collection is dropped first.
package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/rs/zerolog"

	"github.com/bilemo/catalog-api/internal/core/domain"
	"github.com/bilemo/catalog-api/internal/infrastructure/config"
	"github.com/bilemo/catalog-api/internal/infrastructure/crypto"
	"github.com/bilemo/catalog-api/internal/infrastructure/db/mongo"
	"github.com/bilemo/catalog-api/pkg/logger"
)

type productFixture struct {
	model     string
	price     float64
	year      string
	weight    int
	platform  string
	brand     int
	color     string
	screen    float64
	storage   int
	ram       int
	cores     int
	cameraMpx int
	battery   int
}

type accountFixture struct {
	username string
	password string
}

var brands = []string{"Apple", "Samsung", "Huawei", "Xiaomi"}

var products = []productFixture{
	{"iPhone 12 - 256", 816, "2020", 162, "iOS 14", 0, "black", 6.1, 256, 4, 6, 12, 2815},
	{"iPhone 12 Pro - 512", 1200, "2020", 187, "iOS 14", 0, "graphite", 6.1, 512, 6, 6, 12, 2815},
	{"iPhone 12 Pro Max - 512", 1280, "2020", 226, "iOS 14", 0, "graphite", 6.7, 512, 6, 6, 12, 3687},
	{"iPhone 12 Mini - 256", 736, "2020", 133, "iOS 14", 0, "black", 5.4, 256, 4, 6, 12, 2227},
	{"iPhone 11 - 256", 688, "2019", 194, "iOS 13", 0, "black", 6.1, 256, 4, 6, 12, 3110},
	{"iPhone SE - 256", 528, "2020", 148, "iOS 13", 0, "black", 4.7, 256, 3, 6, 12, 1821},
	{"iPhone XR - 128", 512, "2018", 194, "iOS 12", 0, "black", 6.1, 128, 3, 6, 12, 2942},
	{"S21 Ultra 5G - 512 Go - 16 Go", 1152, "2021", 228, "Android 11", 1, "black", 6.8, 512, 16, 8, 108, 5000},
	{"S21+ 5G - 256 Go - 8 Go", 880, "2021", 202, "Android 11", 1, "black", 6.7, 256, 8, 8, 108, 4800},
	{"S21 5G - 256 Go - 8 Go", 728, "2021", 171, "Android 11", 1, "grey", 6.2, 256, 8, 8, 108, 4000},
	{"S20 FE G781 5G", 608, "2020", 193, "Android 10", 1, "blue", 6.5, 128, 6, 8, 108, 4500},
	{"Samsung Galaxy A52 5G", 320, "2021", 189, "Android 11", 1, "black", 6.5, 128, 6, 8, 64, 4500},
	{"P40 Pro 5G", 600, "2020", 203, "Android 10", 2, "black", 6.5, 256, 8, 8, 50, 4200},
	{"P40 5G", 360, "2020", 175, "Android 10", 2, "black", 6.1, 128, 8, 8, 50, 3800},
	{"Mi 11 5G", 640, "2021", 196, "Android 11", 3, "blue", 6.8, 256, 8, 8, 108, 4600},
	{"Mi 11i 5G", 560, "2021", 196, "Android 11", 3, "black", 6.6, 256, 8, 8, 108, 4520},
}

var admin = accountFixture{"BilemoAdmin", "K1ndOfS3cr3t"}

// customers maps each customer account to the simple users it owns.
var customers = []struct {
	accountFixture
	owned []accountFixture
}{
	{accountFixture{"PeugeotFrance", "416s411v+"}, []accountFixture{
		{"P17-fournitures", "14q81mh"},
		{"CollaborateursPeugeot", "Atv18n"},
		{"Siege75GrandeArmee", "Kgh75GA#"},
	}},
	{accountFixture{"ChauffeurPrive", "8g14srvsh6"}, []accountFixture{
		{"FleetManagement", "FL33Tmng"},
		{"CE-ChauffeurPrive", "c298cen"},
	}},
	{accountFixture{"PhoneStoreRivoli", "N3v3rFound"}, []accountFixture{
		{"Eric", "kaboulox*"},
		{"Nina", "ikigai75"},
	}},
	{accountFixture{"Deliveroo", "Runn4w4y"}, []accountFixture{
		{"ServiceAchat", "92cay46k"},
	}},
	{accountFixture{"KaufmanAndBroad", "Gst42Dsn%18"}, []accountFixture{
		{"Secteur Nord", "gt4tr8sp"},
		{"Secteur Sud", "np3tsu67"},
	}},
}

const serviceName = "bilemo-seed"

func main() {
	cfg := config.Load()
	log := logger.Init(logger.Options{
		Level:   cfg.LogLevel,
		Pretty:  !cfg.IsProduction(),
		Service: serviceName,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	if err := run(ctx, cfg, log); err != nil {
		log.Error().Err(err).Msg("seeding failed")
		os.Exit(1)
	}
	log.Info().Msg("seeding done")
}

func run(ctx context.Context, cfg *config.Config, log zerolog.Logger) error {
	client, db, err := mongo.Connect(ctx, mongo.Config{URI: cfg.Mongo.URI, Database: cfg.Mongo.Database, AppName: serviceName})
	if err != nil {
		return err
	}
	defer func() { _ = client.Disconnect(context.Background()) }()

	if cfg.ResetDB {
		if err := mongo.Reset(ctx, db); err != nil {
			return fmt.Errorf("reset database: %w", err)
		}
		log.Warn().Str("database", cfg.Mongo.Database).Msg("database reset")
	}

	productRepo := mongo.NewProductRepository(db)
	userRepo := mongo.NewUserRepository(db)
	if err := productRepo.EnsureIndexes(ctx); err != nil {
		return err
	}
	if err := userRepo.EnsureIndexes(ctx); err != nil {
		return err
	}

	if err := seedCatalog(ctx, productRepo); err != nil {
		return err
	}
	log.Info().Int("brands", len(brands)).Int("products", len(products)).Msg("catalog seeded")

	hasher := crypto.NewBcryptHasher(cfg.BcryptCost)
	created, err := seedAccounts(ctx, userRepo, hasher)
	if err != nil {
		return err
	}
	log.Info().Int("users", created).Msg("accounts seeded")
	return nil
}

func seedCatalog(ctx context.Context, repo *mongo.ProductRepository) error {
	saved := make([]*domain.Brand, len(brands))
	for i, name := range brands {
		b, err := repo.CreateBrand(ctx, name)
		if err != nil {
			return err
		}
		saved[i] = b
	}

	for _, f := range products {
		brand := saved[f.brand]
		_, err := repo.CreateProduct(ctx, &domain.Product{
			Model:       f.model,
			BrandID:     brand.ID,
			Brand:       brand,
			Price:       f.price,
			ReleaseYear: f.year,
			Weight:      f.weight,
			Platform:    f.platform,
			Color:       f.color,
			ScreenSize:  f.screen,
			Storage:     f.storage,
			RAM:         f.ram,
			Cores:       f.cores,
			CameraMpx:   f.cameraMpx,
			Battery:     f.battery,
		})
		if err != nil {
			return fmt.Errorf("product %q: %w", f.model, err)
		}
	}
	return nil
}

func seedAccounts(ctx context.Context, repo *mongo.UserRepository, hasher *crypto.BcryptHasher) (int, error) {
	created := 0
	add := func(a accountFixture, role string, owner *int64) (*domain.User, error) {
		hash, err := hasher.Hash(a.password)
		if err != nil {
			return nil, err
		}
		u, err := repo.Create(ctx, &domain.User{
			Username:     a.username,
			PasswordHash: hash,
			Roles:        []string{role},
			OwnerID:      owner,
			CreatedAt:    time.Now().UTC(),
		})
		if err != nil {
			return nil, fmt.Errorf("user %q: %w", a.username, err)
		}
		created++
		return u, nil
	}

	if _, err := add(admin, domain.RoleAdmin, nil); err != nil {
		return created, err
	}
	for _, c := range customers {
		customer, err := add(c.accountFixture, domain.RoleCustomer, nil)
		if err != nil {
			return created, err
		}
		for _, u := range c.owned {
			ownerID := customer.ID
			if _, err := add(u, domain.RoleUser, &ownerID); err != nil {
				return created, err
			}
		}
	}
	return created, nil
}
