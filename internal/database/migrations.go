package database

import (
	"fmt"
	"log/slog"

	"github.com/yukikurage/bugfree-api/internal/models"
	"gorm.io/gorm"
)

// AddIndexes creates the secondary indexes used by ticket filtering and
// assignee lookups. Existing indexes are left alone.
func AddIndexes(db *gorm.DB) error {
	indexes := []struct {
		model   any
		name    string
		columns string
	}{
		// Ticket filters
		{&models.Ticket{}, "idx_tickets_work_type", "work_type"},
		{&models.Ticket{}, "idx_tickets_game_name", "game_name"},
		{&models.Ticket{}, "idx_tickets_assignee_id", "assignee_id"},

		// Attachment lookups by ticket
		{&models.Attachment{}, "idx_ticket_attachments_ticket_id", "ticket_id"},

		// Assignee lists per project
		{&models.ProjectAssignment{}, "idx_project_assignments_project_name", "project_name"},
		{&models.ProjectAssignment{}, "idx_project_assignments_user_id", "user_id"},
	}

	migrator := db.Migrator()
	for _, idx := range indexes {
		if migrator.HasIndex(idx.model, idx.name) {
			continue
		}

		stmt := &gorm.Statement{DB: db}
		if err := stmt.Parse(idx.model); err != nil {
			return fmt.Errorf("failed to parse model for index %s: %w", idx.name, err)
		}

		sql := fmt.Sprintf("CREATE INDEX %s ON %s (%s)", idx.name, stmt.Schema.Table, idx.columns)
		if err := db.Exec(sql).Error; err != nil {
			return fmt.Errorf("failed to create index %s: %w", idx.name, err)
		}

		slog.Info("created index", "index", idx.name, "table", stmt.Schema.Table, "columns", idx.columns)
	}

	return nil
}
