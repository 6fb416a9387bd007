package record

import (
	"context"
	"errors"
	"path/filepath"
	"strings"

	"supplement-catalog/domain"
	"supplement-catalog/internal/ctxlog"
	"supplement-catalog/internal/utils"
	"supplement-catalog/pkg/schema"

	"github.com/go-playground/validator/v10"
)

type (
	RecordService interface {
		Check(ctx context.Context, region string) (domain.CheckSummary, error)
		CheckFile(ctx context.Context, path string, sc domain.Schema) domain.CheckReport
	}

	recordService struct {
		recordRepository RecordRepository
		schemaService    schema.SchemaService
	}
)

func NewRecordService(recordRepository RecordRepository, schemaService schema.SchemaService) RecordService {
	return &recordService{
		recordRepository: recordRepository,
		schemaService:    schemaService,
	}
}

// Check validates every record of a region against the active schema.
// Violations are non-fatal to the batch: an invalid record is reported and
// the remaining records keep processing.
func (s *recordService) Check(ctx context.Context, region string) (domain.CheckSummary, error) {
	sc, err := s.schemaService.Load(region)
	if err != nil {
		return domain.CheckSummary{}, err
	}

	files, err := s.recordRepository.ListRecordFiles(region)
	if err != nil {
		return domain.CheckSummary{}, err
	}

	logger := ctxlog.FromContext(ctx).With("region", region)

	summary := domain.CheckSummary{Region: region}
	for _, path := range files {
		report := s.CheckFile(ctx, path, sc)
		summary.Checked++
		if report.Valid {
			summary.Passed++
		} else {
			summary.Failed++
			logger.Warn("record failed validation",
				"sample_id", report.SampleID,
				"violations", len(report.Violations))
		}
		summary.Reports = append(summary.Reports, report)
	}

	return summary, nil
}

func (s *recordService) CheckFile(_ context.Context, path string, sc domain.Schema) domain.CheckReport {
	report := domain.CheckReport{Path: path}

	rec, fields, _, err := s.recordRepository.ReadRecord(path)
	if err != nil {
		report.SampleID = strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
		report.Violations = append(report.Violations, domain.Violation{
			Field:  "file",
			Kind:   domain.ViolationMalformedFile,
			Detail: err.Error(),
		})
		return report
	}

	report.SampleID = rec.SampleID
	if report.SampleID == "" {
		report.SampleID = strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	}

	violations := s.schemaService.Validate(fields, sc)
	violations = append(violations, structViolations(rec)...)
	report.Violations = dedupe(violations)
	report.Valid = len(report.Violations) == 0
	return report
}

// structViolations runs the typed format checks (identifier pattern, ISO 8601
// timestamps, date fields) that the field-wise schema pass does not cover.
func structViolations(rec domain.Record) []domain.Violation {
	err := utils.Validate.Struct(rec)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return []domain.Violation{{
			Field:  "record",
			Kind:   domain.ViolationInvalidValue,
			Detail: err.Error(),
		}}
	}

	var violations []domain.Violation
	for _, fe := range fieldErrs {
		var kind string
		switch fe.Tag() {
		case "sample_id":
			kind = domain.ViolationMalformedID
		case "iso8601", "datetime":
			kind = domain.ViolationMalformedTimestamp
		case "required":
			// Already reported by the schema pass under the same field.
			kind = domain.ViolationMissingRequired
		case "min":
			kind = domain.ViolationEmptyRequired
		default:
			kind = domain.ViolationInvalidValue
		}
		violations = append(violations, domain.Violation{
			Field:  fe.Field(),
			Kind:   kind,
			Detail: "failed " + fe.Tag() + " constraint",
		})
	}
	return violations
}

func dedupe(violations []domain.Violation) []domain.Violation {
	seen := make(map[string]bool, len(violations))
	var out []domain.Violation
	for _, v := range violations {
		key := v.Field + "|" + v.Kind
		if seen[key] {
			continue
		}
		seen[key] = true
		out = append(out, v)
	}
	return out
}
