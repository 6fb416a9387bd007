package mirror

import (
	"context"

	"supplement-catalog/entities"

	"gorm.io/gorm"
)

type (
	// MirrorRepository is the publish ledger: what the mirror has already
	// seen of each record, and the run history.
	MirrorRepository interface {
		GetEntry(ctx context.Context, sampleID string) (*entities.CatalogEntry, error)
		SaveEntry(ctx context.Context, entry *entities.CatalogEntry) error
		GetAssets(ctx context.Context, sampleID string) ([]entities.AssetObject, error)
		ReplaceAssets(ctx context.Context, sampleID string, assets []entities.AssetObject) error
		CreateRun(ctx context.Context, run *entities.PublishRun) error
		UpdateRun(ctx context.Context, run *entities.PublishRun) error
	}

	mirrorRepository struct {
		db *gorm.DB
	}
)

func NewMirrorRepository(db *gorm.DB) MirrorRepository {
	return &mirrorRepository{db: db}
}

func (r *mirrorRepository) GetEntry(ctx context.Context, sampleID string) (*entities.CatalogEntry, error) {
	var entry entities.CatalogEntry
	if err := r.db.WithContext(ctx).Where("sample_id = ?", sampleID).First(&entry).Error; err != nil {
		return nil, err
	}
	return &entry, nil
}

func (r *mirrorRepository) SaveEntry(ctx context.Context, entry *entities.CatalogEntry) error {
	return r.db.WithContext(ctx).Save(entry).Error
}

func (r *mirrorRepository) GetAssets(ctx context.Context, sampleID string) ([]entities.AssetObject, error) {
	var assets []entities.AssetObject
	if err := r.db.WithContext(ctx).
		Where("sample_id = ?", sampleID).
		Order("view asc").
		Find(&assets).Error; err != nil {
		return nil, err
	}
	return assets, nil
}

func (r *mirrorRepository) ReplaceAssets(ctx context.Context, sampleID string, assets []entities.AssetObject) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("sample_id = ?", sampleID).Delete(&entities.AssetObject{}).Error; err != nil {
			return err
		}
		for _, asset := range assets {
			if err := tx.Create(&asset).Error; err != nil {
				return err
			}
		}
		return nil
	})
}

func (r *mirrorRepository) CreateRun(ctx context.Context, run *entities.PublishRun) error {
	return r.db.WithContext(ctx).Create(run).Error
}

func (r *mirrorRepository) UpdateRun(ctx context.Context, run *entities.PublishRun) error {
	return r.db.WithContext(ctx).Save(run).Error
}
