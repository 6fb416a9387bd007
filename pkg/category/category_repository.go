package category

import (
	"context"

	"supplement-catalog/entities"

	"gorm.io/gorm"
)

type (
	// CategoryRepository persists the region/cat1/cat2 tree in the working
	// store index. The tree is the editor; directories on disk are derived
	// from it by sync.
	CategoryRepository interface {
		ListRegions(ctx context.Context) ([]string, error)
		ListCat1(ctx context.Context, region string) ([]string, error)
		ListCat2(ctx context.Context, region string, cat1 string) ([]string, error)
		Ensure(ctx context.Context, region string, cat1 string, cat2 string) error
		Exists(ctx context.Context, region string, cat1 string, cat2 string) (bool, error)
		Remove(ctx context.Context, region string, cat1 string, cat2 string) (bool, error)
	}

	categoryRepository struct {
		db *gorm.DB
	}
)

func NewCategoryRepository(db *gorm.DB) CategoryRepository {
	return &categoryRepository{db: db}
}

func (r *categoryRepository) ListRegions(ctx context.Context) ([]string, error) {
	var regions []string
	if err := r.db.WithContext(ctx).Model(&entities.CategoryNode{}).
		Distinct("region").
		Order("region asc").
		Pluck("region", &regions).Error; err != nil {
		return nil, err
	}
	return regions, nil
}

func (r *categoryRepository) ListCat1(ctx context.Context, region string) ([]string, error) {
	var cats []string
	if err := r.db.WithContext(ctx).Model(&entities.CategoryNode{}).
		Where("region = ? AND cat1 <> ''", region).
		Distinct("cat1").
		Order("cat1 asc").
		Pluck("cat1", &cats).Error; err != nil {
		return nil, err
	}
	return cats, nil
}

func (r *categoryRepository) ListCat2(ctx context.Context, region string, cat1 string) ([]string, error) {
	var cats []string
	if err := r.db.WithContext(ctx).Model(&entities.CategoryNode{}).
		Where("region = ? AND cat1 = ? AND cat2 <> ''", region, cat1).
		Distinct("cat2").
		Order("cat2 asc").
		Pluck("cat2", &cats).Error; err != nil {
		return nil, err
	}
	return cats, nil
}

func (r *categoryRepository) Ensure(ctx context.Context, region string, cat1 string, cat2 string) error {
	var count int64
	if err := r.db.WithContext(ctx).Model(&entities.CategoryNode{}).
		Where("region = ? AND cat1 = ? AND cat2 = ?", region, cat1, cat2).
		Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return nil
	}
	return r.db.WithContext(ctx).Create(&entities.CategoryNode{
		Region: region,
		Cat1:   cat1,
		Cat2:   cat2,
	}).Error
}

func (r *categoryRepository) Exists(ctx context.Context, region string, cat1 string, cat2 string) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&entities.CategoryNode{}).
		Where("region = ? AND cat1 = ? AND cat2 = ?", region, cat1, cat2).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *categoryRepository) Remove(ctx context.Context, region string, cat1 string, cat2 string) (bool, error) {
	query := r.db.WithContext(ctx).Where("region = ? AND cat1 = ?", region, cat1)
	if cat2 != "" {
		query = query.Where("cat2 = ?", cat2)
	}

	result := query.Delete(&entities.CategoryNode{})
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}
