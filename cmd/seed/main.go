// Command seed provisions a fresh database: a default admin account and the
// standard category catalog. Existing documents are left untouched, so it is
// safe to run repeatedly.
package main

import (
	"context"
	"log"
	"os"
	"strings"
	"time"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"eco-swift-backend/apperr"
	"eco-swift-backend/config"
	"eco-swift-backend/db"
	"eco-swift-backend/models"
	"eco-swift-backend/services"
	"eco-swift-backend/store"
	"eco-swift-backend/utils"
)

type seedCategory struct {
	name        string
	description string
}

var defaultCategories = []seedCategory{
	{"Vacuum Cleaners", "Eco-friendly vacuum cleaners and sustainable cleaning equipment"},
	{"Clothing", "Sustainable and organic clothing made from eco-friendly materials"},
	{"Shoes & Footwear", "Eco-friendly shoes and sustainable footwear from ethical brands"},
	{"Accessories", "Sustainable fashion accessories made from recycled and organic materials"},
	{"Bags & Luggage", "Eco-friendly bags, backpacks, and luggage from sustainable materials"},
	{"Skincare", "Natural and organic skincare products free from harmful chemicals"},
	{"Hair Care", "Sustainable hair care products with natural and organic ingredients"},
	{"Personal Care", "Eco-friendly personal care essentials for daily wellness"},
	{"Furniture", "Sustainable and recycled furniture made from eco-friendly materials"},
	{"Home Decor", "Eco-friendly home decoration items and sustainable interior design"},
	{"Bedding & Linens", "Organic and sustainable bedding made from natural fibers"},
	{"Kitchenware", "Sustainable kitchen tools and cookware from eco-friendly materials"},
	{"Organic Food", "Certified organic food products grown without pesticides"},
	{"Beverages", "Organic and sustainable beverages including teas, coffees, and juices"},
	{"Snacks", "Healthy and organic snacks made from natural ingredients"},
	{"Supplements", "Natural health supplements from organic and sustainable sources"},
	{"Fitness Equipment", "Sustainable fitness and exercise equipment made from recycled materials"},
	{"Yoga & Meditation", "Eco-friendly yoga mats and meditation accessories for mindful living"},
	{"Baby Products", "Organic and safe baby products free from harmful chemicals"},
	{"Kids Toys", "Sustainable and educational toys made from eco-friendly materials"},
	{"Outdoor Gear", "Eco-friendly outdoor and camping equipment for nature enthusiasts"},
	{"Sports Equipment", "Sustainable sports and athletic gear made from recycled materials"},
	{"Pet Supplies", "Eco-friendly pet food and accessories for your sustainable pet care"},
	{"Office Supplies", "Sustainable office and stationery products made from recycled materials"},
	{"Books", "Eco-friendly books and educational materials from sustainable publishers"},
	{"Car Accessories", "Sustainable automotive accessories and eco-friendly car products"},
	{"Recycled Products", "Products made from recycled materials across all categories"},
	{"Certified Organic", "Certified organic products verified for sustainability and quality"},
}

func main() {
	cfg := config.Load()

	logger, err := utils.InitLogger(cfg.LogLevel, cfg.Server.Env)
	if err != nil {
		log.Fatalf("logger init: %v", err)
	}
	defer logger.Sync()

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	client, err := db.Connect(ctx, cfg.Mongo.URI)
	if err != nil {
		logger.Fatal("mongodb connection failed", zap.Error(err))
	}
	defer client.Disconnect(context.Background())

	database := client.Database(cfg.Mongo.Database)
	if err := db.EnsureIndexes(ctx, database); err != nil {
		logger.Fatal("index creation failed", zap.Error(err))
	}

	if err := seedAdmin(ctx, store.NewUserStore(database), logger); err != nil {
		logger.Fatal("seeding admin failed", zap.Error(err))
	}
	if err := seedCategories(ctx, store.NewCategoryStore(database), logger); err != nil {
		logger.Fatal("seeding categories failed", zap.Error(err))
	}
}

func seedAdmin(ctx context.Context, users *store.UserStore, logger *zap.Logger) error {
	email := strings.ToLower(envOr("ADMIN_EMAIL", "admin@ecoswift.com"))
	password := envOr("ADMIN_PASSWORD", "Admin123!")
	name := envOr("ADMIN_NAME", "Admin User")

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}

	admin := &models.User{
		Name:     name,
		Email:    email,
		Password: string(hash),
		Role:     models.RoleAdmin,
	}
	if err := users.Insert(ctx, admin); err != nil {
		if apperr.Is(err, apperr.CodeConflict) {
			logger.Warn("admin user already exists, skipping", zap.String("email", email))
			return nil
		}
		return err
	}

	logger.Info("admin user created", zap.String("email", email))
	logger.Warn("change the default admin password after first login")
	return nil
}

func seedCategories(ctx context.Context, categories *store.CategoryStore, logger *zap.Logger) error {
	created, skipped := 0, 0
	for _, c := range defaultCategories {
		slug := services.GenerateSlug(c.name)
		category := &models.Category{
			Name:        c.name,
			Slug:        slug,
			Description: c.description,
		}
		if err := categories.Insert(ctx, category); err != nil {
			if apperr.Is(err, apperr.CodeConflict) {
				logger.Warn("category already exists, skipping", zap.String("slug", slug))
				skipped++
				continue
			}
			return err
		}
		logger.Info("category created", zap.String("name", c.name), zap.String("slug", slug))
		created++
	}

	logger.Info("seeding finished",
		zap.Int("created", created),
		zap.Int("skipped", skipped),
		zap.Int("total", len(defaultCategories)))
	return nil
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
