package migration

import (
	"fmt"
	"log"

	"supplement-catalog/entities"

	"gorm.io/gorm"
)

func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(&entities.CatalogEntry{}); err != nil {
		log.Fatalf("Error migrating catalog entry database: %v", err)
		return err
	}
	if err := db.AutoMigrate(&entities.AssetObject{}); err != nil {
		log.Fatalf("Error migrating asset object database: %v", err)
		return err
	}
	if err := db.AutoMigrate(&entities.PublishRun{}); err != nil {
		log.Fatalf("Error migrating publish run database: %v", err)
		return err
	}
	if err := db.AutoMigrate(&entities.CategoryNode{}); err != nil {
		log.Fatalf("Error migrating category node database: %v", err)
		return err
	}

	fmt.Println("Database migration complete")
	return nil
}
