package config

import (
	"encoding/json"
	"fmt"
	"log"
	"net/url"
	"os"
	"strings"
	"time"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/datatypes"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"salle-backend/models"
)

func envOrDefault(key, def string) string {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return def
	}
	return value
}

func mysqlDSNFromURL(raw string) (string, error) {
	u, err := url.Parse(raw)
	if err != nil {
		return "", err
	}

	user := u.User.Username()
	pass, _ := u.User.Password()
	host := u.Hostname()
	port := u.Port()
	if port == "" {
		port = "3306"
	}

	dbName := strings.TrimPrefix(u.Path, "/")
	if dbName == "" {
		return "", fmt.Errorf("mysql url missing database name")
	}

	q := u.Query()
	if q.Get("charset") == "" {
		q.Set("charset", "utf8mb4")
	}
	if q.Get("parseTime") == "" {
		q.Set("parseTime", "True")
	}
	if q.Get("loc") == "" {
		q.Set("loc", "Local")
	}

	return fmt.Sprintf("%s:%s@tcp(%s:%s)/%s?%s", user, pass, host, port, dbName, q.Encode()), nil
}

func resolveMySQLDSN() (string, error) {
	raw := strings.TrimSpace(os.Getenv("MYSQL_URL"))
	if raw == "" {
		raw = strings.TrimSpace(os.Getenv("DATABASE_URL"))
	}

	if raw != "" {
		if strings.HasPrefix(raw, "mysql://") {
			return mysqlDSNFromURL(raw)
		}
		return raw, nil
	}

	user := envOrDefault("DB_USER", "root")
	pass := envOrDefault("DB_PASS", "")
	host := envOrDefault("DB_HOST", "127.0.0.1")
	port := envOrDefault("DB_PORT", "3306")
	dbName := envOrDefault("DB_NAME", "salle_db")

	return fmt.Sprintf("%s:%s@tcp(%s:%s)/%s?charset=utf8mb4&parseTime=True&loc=Local",
		user, pass, host, port, dbName,
	), nil
}

// Connect opens the database, verifies it answers a ping, and applies
// migrations. The readiness check happens here, once, at startup; callers
// receive the handle via dependency injection and there is no package-level
// singleton to fall out of sync.
func Connect() (*gorm.DB, error) {
	dsn, err := resolveMySQLDSN()
	if err != nil {
		return nil, err
	}

	gormLogger := logger.New(
		log.New(os.Stdout, "\r\n", log.LstdFlags),
		logger.Config{
			SlowThreshold: time.Second,
			LogLevel:      logger.Warn,
			Colorful:      false,
		},
	)

	db, err := gorm.Open(mysql.Open(dsn), &gorm.Config{Logger: gormLogger})
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("get sql.DB: %w", err)
	}
	if err := sqlDB.Ping(); err != nil {
		return nil, fmt.Errorf("database not ready: %w", err)
	}
	sqlDB.SetMaxOpenConns(25)
	sqlDB.SetMaxIdleConns(5)
	sqlDB.SetConnMaxLifetime(30 * time.Minute)

	if err := Migrate(db); err != nil {
		return nil, err
	}
	if err := Seed(db); err != nil {
		return nil, err
	}
	return db, nil
}

// Migrate applies the schema in parent->child order.
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&models.Admin{},
		&models.AdminSession{},
		&models.Room{},
		&models.Reservation{},
		&models.Advertisement{},
	)
}

// Seed ensures a default admin account and, on a fresh database, a couple
// of rooms so the public site is not empty.
func Seed(db *gorm.DB) error {
	var adminCount int64
	db.Model(&models.Admin{}).Count(&adminCount)
	if adminCount == 0 {
		email := envOrDefault("ADMIN_EMAIL", "admin@salles.local")
		password := envOrDefault("ADMIN_PASSWORD", "admin123")

		hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
		if err != nil {
			return fmt.Errorf("hash default admin password: %w", err)
		}
		admin := models.Admin{
			FullName: "Administrateur",
			Email:    email,
			Password: string(hash),
		}
		if err := db.Create(&admin).Error; err != nil {
			log.Printf("warning: failed to create default admin: %v", err)
		} else {
			log.Println("Default admin seeded")
		}
	}

	var roomCount int64
	db.Model(&models.Room{}).Count(&roomCount)
	if roomCount == 0 {
		amenities := func(items ...string) datatypes.JSON {
			b, _ := json.Marshal(items)
			return datatypes.JSON(b)
		}
		rooms := []models.Room{
			{
				Name:        "Salle Baobab",
				Description: "Grande salle de conférence lumineuse",
				Capacity:    120,
				PricePerDay: 250_000,
				Amenities:   amenities("wifi", "projecteur", "climatisation", "sonorisation"),
				Available:   true,
			},
			{
				Name:        "Salle Teranga",
				Description: "Salle de réunion pour comités et formations",
				Capacity:    40,
				PricePerDay: 100_000,
				Amenities:   amenities("wifi", "tableau blanc", "climatisation"),
				Available:   true,
			},
			{
				Name:        "Salle Sahel",
				Description: "Petit espace de travail modulable",
				Capacity:    15,
				PricePerDay: 50_000,
				Amenities:   amenities("wifi", "écran"),
				Available:   true,
			},
		}
		if err := db.Create(&rooms).Error; err != nil {
			log.Printf("warning: failed to seed rooms: %v", err)
		} else {
			log.Println("Rooms seeded")
		}
	}

	return nil
}
