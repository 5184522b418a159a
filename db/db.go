package db

import (
	"fmt"
	"log"
	"strings"

	"github.com/google/uuid"
	"github.com/techagentng/awaz/config"
	"github.com/techagentng/awaz/models"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

type GormDB struct {
	DB *gorm.DB
}

func GetDB(c *config.Config) *GormDB {
	gormDB := &GormDB{}
	gormDB.Init(c)
	return gormDB
}

func (g *GormDB) Init(c *config.Config) {
	g.DB = getPostgresDB(c)

	if err := Migrate(g.DB); err != nil {
		log.Fatalf("unable to run migrations: %v", err)
	}
}

func getPostgresDB(c *config.Config) *gorm.DB {
	log.Printf("Connecting to postgres: host=%s port=%d db=%s", c.PostgresHost, c.PostgresPort, c.PostgresDB)
	postgresDSN := fmt.Sprintf("host=%s user=%s password=%s dbname=%s port=%d TimeZone=%s",
		c.PostgresHost, c.PostgresUser, c.PostgresPassword, c.PostgresDB, c.PostgresPort, c.PostgresTimeZone)

	gormConfig := &gorm.Config{}
	if c.Env != "prod" {
		gormConfig.Logger = logger.Default.LogMode(logger.Info)
	}
	gormDB, err := gorm.Open(postgres.New(postgres.Config{
		DSN: postgresDSN,
	}), gormConfig)
	if err != nil {
		log.Fatal(err)
	}

	return gormDB
}

// Migrate creates the schema and seeds the lookup tables every deployment needs.
func Migrate(db *gorm.DB) error {
	err := db.AutoMigrate(
		&models.Role{},
		&models.Municipality{},
		&models.Ward{},
		&models.Category{},
		&models.Status{},
		&models.User{},
		&models.Blacklist{},
		&models.ResetSession{},
		&models.Complaint{},
		&models.Like{},
		&models.Comment{},
		&models.Report{},
	)
	if err != nil {
		return fmt.Errorf("auto migrate: %w", err)
	}
	if err := SeedRoles(db); err != nil {
		return fmt.Errorf("seed roles: %w", err)
	}
	if err := SeedStatuses(db); err != nil {
		return fmt.Errorf("seed statuses: %w", err)
	}
	return nil
}

func SeedRoles(db *gorm.DB) error {
	for _, name := range models.Roles {
		role := models.Role{ID: uuid.New(), Name: name}
		if err := db.FirstOrCreate(&role, models.Role{Name: name}).Error; err != nil {
			return err
		}
	}
	return nil
}

func SeedStatuses(db *gorm.DB) error {
	for _, name := range models.Statuses {
		status := models.Status{Name: name}
		if err := db.FirstOrCreate(&status, models.Status{Name: name}).Error; err != nil {
			return err
		}
	}
	return nil
}

// Slugify lowercases s and joins its alphanumeric runs with dashes.
func Slugify(s string) string {
	var b strings.Builder
	dash := false
	for _, r := range strings.ToLower(strings.TrimSpace(s)) {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			b.WriteRune(r)
			dash = false
		case b.Len() > 0 && !dash:
			b.WriteByte('-')
			dash = true
		}
	}
	return strings.TrimSuffix(b.String(), "-")
}
