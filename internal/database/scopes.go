package database

import (
	"strings"

	"gorm.io/gorm"
)

// WorkType restricts tickets to a work type. An empty value is a no-op.
func WorkType(workType string) func(db *gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		if workType == "" {
			return db
		}
		return db.Where("tickets.work_type = ?", workType)
	}
}

// GameName restricts tickets to a game. An empty value is a no-op.
func GameName(gameName string) func(db *gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		if gameName == "" {
			return db
		}
		return db.Where("tickets.game_name = ?", gameName)
	}
}

// SearchText matches summary or description case-insensitively.
func SearchText(search string) func(db *gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		search = strings.TrimSpace(search)
		if search == "" {
			return db
		}
		pattern := "%" + escapeLike(strings.ToLower(search)) + "%"
		group := db.Session(&gorm.Session{NewDB: true})
		return db.Where(
			group.Where("LOWER(tickets.summary) LIKE ? ESCAPE '!'", pattern).
				Or("LOWER(tickets.description) LIKE ? ESCAPE '!'", pattern),
		)
	}
}

// ContainsFold matches column values containing the given text, ignoring
// case. An empty value is a no-op.
func ContainsFold(column, text string) func(db *gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		text = strings.TrimSpace(text)
		if text == "" {
			return db
		}
		return db.Where("LOWER("+column+") LIKE ? ESCAPE '!'", "%"+escapeLike(strings.ToLower(text))+"%")
	}
}

func escapeLike(s string) string {
	replacer := strings.NewReplacer(`!`, `!!`, `%`, `!%`, `_`, `!_`)
	return replacer.Replace(s)
}
