package config

import (
	"fmt"
	"log"
	"net/url"
	"os"
	"strings"
	"time"

	"rental-backend/models"
	"rental-backend/utils"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

var DB *gorm.DB

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

	user := utils.EnvOrDefault("DB_USER", "root")
	pass := utils.EnvOrDefault("DB_PASS", "")
	host := utils.EnvOrDefault("DB_HOST", "127.0.0.1")
	port := utils.EnvOrDefault("DB_PORT", "3306")
	dbName := utils.EnvOrDefault("DB_NAME", "rental_db")

	dsn := fmt.Sprintf("%s:%s@tcp(%s:%s)/%s?charset=utf8mb4&parseTime=True&loc=Local",
		user, pass, host, port, dbName,
	)
	return dsn, nil
}

// Migrate runs AutoMigrate in parent->child order. Split out so tests can run
// it against their own gorm handle.
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&models.User{},
		&models.Property{},
		&models.Reservation{},
		&models.CleaningTask{},
		&models.CalendarFeed{},
		&models.CalendarEvent{},
		&models.GuidebookSection{},
		&models.GuidebookRecommendation{},
		&models.PropertyReview{},
	)
}

func SeedDatabase() {
	// ---------------- Default owner ----------------
	var ownerCount int64
	DB.Model(&models.User{}).Where("role = ?", models.RoleOwner).Count(&ownerCount)
	if ownerCount == 0 {
		hash, err := bcrypt.GenerateFromPassword([]byte(utils.EnvOrDefault("SEED_OWNER_PASSWORD", "owner123")), bcrypt.DefaultCost)
		if err != nil {
			log.Printf("warning: failed to hash default owner password: %v", err)
		} else {
			owner := models.User{
				FullName: "Owner Account",
				Email:    "owner@rental.local",
				Password: string(hash),
				Role:     models.RoleOwner,
			}
			if err := DB.Create(&owner).Error; err != nil {
				log.Printf("warning: failed to create default owner: %v", err)
			} else {
				log.Println("Default owner seeded")
			}
		}
	}

	// ---------------- Demo property ----------------
	var propCount int64
	DB.Model(&models.Property{}).Count(&propCount)
	if propCount == 0 && utils.EnvOrDefault("SEED_DEMO_DATA", "false") == "true" {
		var owner models.User
		if err := DB.Where("role = ?", models.RoleOwner).First(&owner).Error; err == nil {
			prop := models.Property{
				OwnerID:      owner.ID,
				Name:         "Lakeside Cabin",
				Slug:         "lakeside-cabin",
				Description:  "Two-bedroom cabin on the lake",
				PropertyType: models.PropertyTypeCabin,
				Street:       "12 Shoreline Dr",
				City:         "Traverse City",
				State:        "MI",
				Zip:          "49684",
				Country:      "US",
				Bedrooms:     2,
				Bathrooms:    1.5,
				MaxGuests:    6,
				NightlyPrice: 180,
			}
			if err := DB.Create(&prop).Error; err != nil {
				log.Printf("warning: failed to seed demo property: %v", err)
			} else {
				sections := []models.GuidebookSection{
					{PropertyID: prop.ID, Title: "Check-in", Body: "Lockbox code is sent the morning of arrival.", Icon: "key", SortOrder: 1},
					{PropertyID: prop.ID, Title: "Wifi", Body: "Network: lakeside / Password: on the fridge.", Icon: "wifi", SortOrder: 2},
				}
				if err := DB.Create(&sections).Error; err != nil {
					log.Printf("warning: failed to seed guidebook sections: %v", err)
				}
				log.Println("Demo property seeded")
			}
		}
	}
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

	if err := Migrate(DB); err != nil {
		return err
	}

	SeedDatabase()
	return nil
}
