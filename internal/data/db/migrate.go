package db

import (
	"fmt"

	"gorm.io/gorm"

	"github.com/yungbote/puzzlegraph/internal/domain/puzzle"
)

func AutoMigrateAll(db *gorm.DB) error {
	if err := db.AutoMigrate(
		&puzzle.StateRow{},
		&puzzle.MoveRow{},
	); err != nil {
		return fmt.Errorf("auto migrate: %w", err)
	}
	return nil
}
