// Question bank import script.
//
// The API never writes to test_questions; this script is the only ingest
// path. Run it after seeding skills, pointing at a JSON file of questions.
//
// Usage: go run scripts/import_questions.go <questions.json>

package main

import (
	"encoding/json"
	"log"
	"os"

	"technicia_backend/internal/config"
	"technicia_backend/internal/model"
	"technicia_backend/internal/repository"
	"technicia_backend/pkg/database"
	"technicia_backend/pkg/logger"
)

type questionImport struct {
	SkillName        string          `json:"skillName"`
	QuestionType     string          `json:"questionType"`
	DifficultyLevel  string          `json:"difficultyLevel"`
	QuestionText     string          `json:"questionText"`
	Options          json.RawMessage `json:"options"`
	CorrectAnswer    string          `json:"correctAnswer"`
	Points           int             `json:"points"`
	TimeLimitSeconds *int            `json:"timeLimitSeconds"`
}

func main() {
	if len(os.Args) < 2 {
		log.Fatal("usage: import_questions <questions.json>")
	}

	cfg, err := config.LoadConfig("configs")
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}
	logger.InitLogger(cfg)

	db, err := database.InitDB(&cfg.Database)
	if err != nil {
		log.Fatalf("database connection failed: %v", err)
	}

	data, err := os.ReadFile(os.Args[1])
	if err != nil {
		log.Fatalf("failed to read %s: %v", os.Args[1], err)
	}

	var imports []questionImport
	if err := json.Unmarshal(data, &imports); err != nil {
		log.Fatalf("failed to parse %s: %v", os.Args[1], err)
	}

	skills := repository.NewSkillRepository(db)
	imported, skipped := 0, 0
	for _, q := range imports {
		skill, err := skills.FindByNameLike(q.SkillName)
		if err != nil {
			log.Printf("skipping question, unknown skill %q", q.SkillName)
			skipped++
			continue
		}

		points := q.Points
		if points <= 0 {
			points = 1
		}

		question := &model.Question{
			SkillID:          skill.ID,
			QuestionType:     model.QuestionType(q.QuestionType),
			DifficultyLevel:  model.DifficultyLevel(q.DifficultyLevel),
			QuestionText:     q.QuestionText,
			Options:          q.Options,
			CorrectAnswer:    q.CorrectAnswer,
			Points:           points,
			TimeLimitSeconds: q.TimeLimitSeconds,
		}
		if err := db.Create(question).Error; err != nil {
			log.Printf("failed to insert question: %v", err)
			skipped++
			continue
		}
		imported++
	}

	log.Printf("imported %d questions, skipped %d", imported, skipped)
}
