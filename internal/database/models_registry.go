package database

import "inkwell/internal/models"

// PersistentModels returns the authoritative set of schema-managed GORM models.
// User must stay ahead of the models that reference it.
func PersistentModels() []interface{} {
	return []interface{}{
		&models.User{},
		&models.Blog{},
		&models.BlogTag{},
		&models.Like{},
		&models.Comment{},
	}
}
