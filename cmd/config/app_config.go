package config

import (
	"strconv"

	"supplement-catalog/internal/utils"
	"supplement-catalog/internal/utils/storage"
	"supplement-catalog/pkg/category"
	"supplement-catalog/pkg/mirror"
	"supplement-catalog/pkg/record"
	"supplement-catalog/pkg/report"
	"supplement-catalog/pkg/schema"

	"gorm.io/gorm"
)

// App bundles the wired services the CLI subcommands dispatch to.
type App struct {
	Category category.CategoryService
	Record   record.RecordService
	Mirror   mirror.MirrorService
	Report   report.ReportService
}

func NewApp(db *gorm.DB) (*App, error) {
	utils.InitValidator()

	root := utils.GetConfig("CATALOG_ROOT")
	if root == "" {
		root = "supplements"
	}

	uploadRate, _ := strconv.ParseFloat(utils.GetConfig("UPLOAD_RATE"), 64)

	// utils
	s3 := storage.NewAwsS3()

	// Repository
	categoryRepository := category.NewCategoryRepository(db)
	mirrorRepository := mirror.NewMirrorRepository(db)
	recordRepository := record.NewRecordRepository(root)

	// Service
	schemaService := schema.NewSchemaService(root)
	recordService := record.NewRecordService(recordRepository, schemaService)
	categoryService := category.NewCategoryService(categoryRepository, root)
	mirrorService := mirror.NewMirrorService(
		mirrorRepository,
		recordRepository,
		recordService,
		schemaService,
		s3,
		utils.GetConfig("ASSETS_DOMAIN"),
		uploadRate,
	)
	reportService := report.NewReportService(utils.GetConfig("REPORT_RECIPIENT"))

	return &App{
		Category: categoryService,
		Record:   recordService,
		Mirror:   mirrorService,
		Report:   reportService,
	}, nil
}
