package model

import (
	"gorm.io/gorm"
)

// Keys 全部可迁移的模型名称
var Keys = []string{"Category", "Product", "Stock", "User", "Role", "History"}

func AutoMigrate(db *gorm.DB, key string) error {
	switch key {

	case "Category":
		return db.AutoMigrate(Category{})

	case "Product":
		return db.AutoMigrate(Product{})

	case "Stock":
		return db.AutoMigrate(Stock{})

	case "User":
		return db.AutoMigrate(User{})

	case "Role":
		return db.AutoMigrate(Role{})

	case "History":
		return db.AutoMigrate(History{})
	}
	return nil
}

// AutoMigrateAll 迁移全部模型
func AutoMigrateAll(db *gorm.DB) error {
	for _, key := range Keys {
		if err := AutoMigrate(db, key); err != nil {
			return err
		}
	}
	return nil
}
