package category

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"supplement-catalog/domain"
	"supplement-catalog/internal/utils"

	"gopkg.in/yaml.v2"
)

type (
	CategoryService interface {
		List(ctx context.Context, region string) (domain.CategoryTree, error)
		Add(ctx context.Context, region string, cat1 string, cat2 string) error
		Remove(ctx context.Context, region string, cat1 string, cat2 string) (bool, error)
		SyncDirs(ctx context.Context, region string) ([]string, error)
		GenerateStub(ctx context.Context, req domain.GenerateStubRequest) (string, error)
	}

	categoryService struct {
		categoryRepository CategoryRepository
		root               string
	}
)

func NewCategoryService(categoryRepository CategoryRepository, root string) CategoryService {
	return &categoryService{
		categoryRepository: categoryRepository,
		root:               root,
	}
}

func (s *categoryService) List(ctx context.Context, region string) (domain.CategoryTree, error) {
	cat1s, err := s.categoryRepository.ListCat1(ctx, region)
	if err != nil {
		return domain.CategoryTree{}, err
	}

	tree := domain.CategoryTree{Region: region, Cats: make(map[string][]string, len(cat1s))}
	for _, cat1 := range cat1s {
		cat2s, err := s.categoryRepository.ListCat2(ctx, region, cat1)
		if err != nil {
			return domain.CategoryTree{}, err
		}
		tree.Cats[cat1] = cat2s
	}
	return tree, nil
}

// Add ensures the node and its parents exist. cat1 and cat2 may be empty to
// add just a region or a first-level category.
func (s *categoryService) Add(ctx context.Context, region string, cat1 string, cat2 string) error {
	if region == "" {
		return domain.ErrEmptyCategoryLevel
	}
	if cat2 != "" && cat1 == "" {
		return domain.ErrEmptyCategoryLevel
	}

	if err := s.categoryRepository.Ensure(ctx, region, "", ""); err != nil {
		return err
	}
	if cat1 == "" {
		return nil
	}
	if err := s.categoryRepository.Ensure(ctx, region, cat1, ""); err != nil {
		return err
	}
	if cat2 == "" {
		return nil
	}
	return s.categoryRepository.Ensure(ctx, region, cat1, cat2)
}

// Remove deletes meta entries only; it never deletes files on disk.
func (s *categoryService) Remove(ctx context.Context, region string, cat1 string, cat2 string) (bool, error) {
	if region == "" || cat1 == "" {
		return false, domain.ErrEmptyCategoryLevel
	}
	return s.categoryRepository.Remove(ctx, region, cat1, cat2)
}

// SyncDirs creates any directory the meta tree names that is missing on
// disk, plus the canonical products/ and images/ directories per region.
// An empty region syncs every known region.
func (s *categoryService) SyncDirs(ctx context.Context, region string) ([]string, error) {
	regions := []string{region}
	if region == "" {
		var err error
		regions, err = s.categoryRepository.ListRegions(ctx)
		if err != nil {
			return nil, err
		}
	}

	var created []string
	for _, reg := range regions {
		for _, dir := range []string{
			filepath.Join(s.root, reg, "products"),
			filepath.Join(s.root, reg, "images"),
		} {
			madeNew, err := ensureDir(dir)
			if err != nil {
				return created, err
			}
			if madeNew {
				created = append(created, dir)
			}
		}

		cat1s, err := s.categoryRepository.ListCat1(ctx, reg)
		if err != nil {
			return created, err
		}
		for _, cat1 := range cat1s {
			cat2s, err := s.categoryRepository.ListCat2(ctx, reg, cat1)
			if err != nil {
				return created, err
			}
			for _, cat2 := range cat2s {
				dir := filepath.Join(s.root, reg, cat1, cat2)
				madeNew, err := ensureDir(dir)
				if err != nil {
					return created, err
				}
				if madeNew {
					created = append(created, dir)
				}
			}
		}
	}
	return created, nil
}

// GenerateStub writes a draft product YAML into the category's directory.
// Strict about unknown categories to catch typos before they become paths.
func (s *categoryService) GenerateStub(ctx context.Context, req domain.GenerateStubRequest) (string, error) {
	if err := utils.Validate.Struct(req); err != nil {
		return "", err
	}

	for _, level := range [][3]string{
		{req.Region, "", ""},
		{req.Region, req.Cat1, ""},
		{req.Region, req.Cat1, req.Cat2},
	} {
		ok, err := s.categoryRepository.Exists(ctx, level[0], level[1], level[2])
		if err != nil {
			return "", err
		}
		if !ok {
			return "", fmt.Errorf("%w: %s/%s/%s", domain.ErrCategoryNotFound, level[0], level[1], level[2])
		}
	}

	if _, err := s.SyncDirs(ctx, req.Region); err != nil {
		return "", err
	}

	targetDir := filepath.Join(s.root, req.Region, req.Cat1, req.Cat2)
	if _, err := ensureDir(targetDir); err != nil {
		return "", err
	}

	outPath := filepath.Join(targetDir, utils.SlugifyFilename(req.Name)+".yaml")
	if _, err := os.Stat(outPath); err == nil && !req.Overwrite {
		return "", fmt.Errorf("%w: %s", domain.ErrStubAlreadyExists, outPath)
	}

	stub, err := renderStub(req)
	if err != nil {
		return "", err
	}
	if err := os.WriteFile(outPath, stub, 0o644); err != nil {
		return "", err
	}
	return outPath, nil
}

func renderStub(req domain.GenerateStubRequest) ([]byte, error) {
	rec := domain.Record{
		SampleID:   req.SampleID,
		Name:       req.Name,
		Region:     req.Region,
		LabelText:  req.Description,
		ObservedAt: time.Now().UTC().Format(time.RFC3339),
	}

	body, err := yaml.Marshal(&rec)
	if err != nil {
		return nil, err
	}

	header := fmt.Sprintf("# supplement catalog product stub\n# generated_at: %s\n# path: %s/%s/%s/%s.yaml\n",
		time.Now().UTC().Format(time.RFC3339),
		req.Region, req.Cat1, req.Cat2, utils.SlugifyFilename(req.Name))
	return append([]byte(header), body...), nil
}

func ensureDir(dir string) (bool, error) {
	if _, err := os.Stat(dir); err == nil {
		return false, nil
	} else if !os.IsNotExist(err) {
		return false, err
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return false, err
	}
	return true, nil
}
