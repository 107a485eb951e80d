package config

import (
	"fmt"
	"log"
	"net/url"
	"os"
	"strings"
	"time"

	"travel-backend/models"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/datatypes"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

var DB *gorm.DB

func EnvOrDefault(key, def string) string {
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

	user := EnvOrDefault("DB_USER", "root")
	pass := EnvOrDefault("DB_PASS", "")
	host := EnvOrDefault("DB_HOST", "127.0.0.1")
	port := EnvOrDefault("DB_PORT", "3306")
	dbName := EnvOrDefault("DB_NAME", "travel_db")

	return fmt.Sprintf("%s:%s@tcp(%s:%s)/%s?charset=utf8mb4&parseTime=True&loc=Local",
		user, pass, host, port, dbName,
	), nil
}

func ConnectDatabase() error {
	dsn, err := resolveMySQLDSN()
	if err != nil {
		return err
	}

	newLogger := logger.New(
		log.New(os.Stdout, "\r\n", log.LstdFlags),
		logger.Config{
			SlowThreshold: time.Second,
			LogLevel:      logger.Warn,
			Colorful:      true,
		},
	)

	db, err := gorm.Open(mysql.Open(dsn), &gorm.Config{Logger: newLogger})
	if err != nil {
		return err
	}

	DB = db

	if err := DB.AutoMigrate(
		&models.User{},
		&models.Listing{},
		&models.Booking{},
		&models.Payment{},
	); err != nil {
		return err
	}

	SeedDatabase()
	return nil
}

// SeedDatabase puts a default host account and a couple of listings into an
// empty database so the API is usable right after first boot.
func SeedDatabase() {
	var userCount int64
	DB.Model(&models.User{}).Count(&userCount)

	var host models.User
	if userCount == 0 {
		hash, err := bcrypt.GenerateFromPassword([]byte("host1234"), bcrypt.DefaultCost)
		if err != nil {
			log.Printf("warning: failed to hash default host password: %v", err)
		} else {
			host = models.User{
				Email:     "host@travel.local",
				FirstName: "Default",
				LastName:  "Host",
				Password:  string(hash),
				Role:      "host",
			}
			if err := DB.Create(&host).Error; err != nil {
				log.Printf("warning: failed to create default host: %v", err)
			} else {
				log.Println("Default host seeded")
			}
		}
	}

	var listingCount int64
	DB.Model(&models.Listing{}).Count(&listingCount)
	if listingCount == 0 {
		listings := []models.Listing{
			{
				Title:         "Lakeside Cottage",
				Description:   "Two-bedroom cottage with a private dock",
				Location:      "Bahir Dar",
				PricePerNight: 1200,
				Amenities:     datatypes.JSON(`["wifi","parking","kitchen"]`),
				HostID:        host.ID,
			},
			{
				Title:         "City Center Apartment",
				Description:   "Studio apartment near the main square",
				Location:      "Addis Ababa",
				PricePerNight: 850,
				Amenities:     datatypes.JSON(`["wifi","elevator"]`),
				HostID:        host.ID,
			},
		}
		if err := DB.Create(&listings).Error; err != nil {
			log.Printf("warning: failed to seed listings: %v", err)
		} else {
			log.Println("Listings seeded")
		}
	}
}
