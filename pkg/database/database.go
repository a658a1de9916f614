package database

import (
	"fmt"
	"log"
	"technicia_backend/internal/config"
	"technicia_backend/internal/model"

	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func InitDB(cfg *config.DatabaseConfig) (*gorm.DB, error) {
	dsn := fmt.Sprintf("%s:%s@tcp(%s:%d)/%s?charset=%s&parseTime=%t&loc=Local",
		cfg.User,
		cfg.Password,
		cfg.Host,
		cfg.Port,
		cfg.DBName,
		cfg.Charset,
		cfg.ParseTime,
	)

	db, err := gorm.Open(mysql.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Info),
	})

	if err != nil {
		return nil, err
	}

	log.Println("Database connection established")

	return db, nil
}

// Migrate creates or updates the schema and seeds the skill catalog. Release
// deployments run it via the -migrate flag; debug mode runs it on startup.
func Migrate(db *gorm.DB) error {
	if err := migrateModels(db); err != nil {
		return err
	}
	seedSkills(db)
	return nil
}

func migrateModels(db *gorm.DB) error {
	return db.AutoMigrate(
		&model.User{},
		&model.StudentProfile{},
		&model.EducatorProfile{},
		&model.CompanyProfile{},
		&model.Skill{},
		&model.UserSkill{},
		&model.Question{},
		&model.TestSession{},
		&model.SessionQuestion{},
		&model.Answer{},
		&model.ViolationRecord{},
		&model.FaceVerificationLog{},
	)
}

// seedSkills inserts a starter skill catalog when the table is empty. Question
// import tooling expects these names to exist.
func seedSkills(db *gorm.DB) {
	var count int64
	db.Model(&model.Skill{}).Count(&count)
	if count > 0 {
		return
	}

	defaults := []model.Skill{
		{Name: "Python", Category: "Programming Languages"},
		{Name: "JavaScript", Category: "Programming Languages"},
		{Name: "Java", Category: "Programming Languages"},
		{Name: "React", Category: "Frontend"},
		{Name: "Node.js", Category: "Backend"},
		{Name: "SQL", Category: "Databases"},
		{Name: "Data Structures", Category: "Computer Science"},
		{Name: "Machine Learning", Category: "AI/ML"},
	}
	for _, s := range defaults {
		db.Create(&s)
	}
}
