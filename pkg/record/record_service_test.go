package record

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"supplement-catalog/domain"
	"supplement-catalog/internal/utils"
	"supplement-catalog/pkg/schema"

	"github.com/stretchr/testify/require"
)

func TestMain(m *testing.M) {
	utils.InitValidator()
	os.Exit(m.Run())
}

const testSchemaJSON = `{
  "version": "1.0",
  "region": "cn",
  "required": ["sample_id", "name", "brand", "region", "form", "serving_size", "active_ingredients", "observed_at", "sources"],
  "optional": ["other_ingredients", "label_text", "batch_no", "manufactured_at", "expires_at"],
  "prohibited": ["buy_link", "rating", "trust_score", "recommendation"],
  "enums": {"form": ["capsule", "tablet", "powder", "liquid", "softgel", "gummy"]},
  "timestamp_fields": ["observed_at"]
}`

const validRecordYAML = `sample_id: cn-sup-001
name: Vitamin C 500
brand: Acme Naturals
region: cn
form: tablet
serving_size: 1 tablet daily
active_ingredients:
  - ascorbic acid 500mg
observed_at: "2025-03-01T09:30:00Z"
sources:
  - retail packaging
`

func newWorkingStore(t *testing.T) string {
	t.Helper()
	root := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(root, "cn", "products"), 0o755))
	require.NoError(t, os.WriteFile(
		filepath.Join(root, "cn", "schema.json"), []byte(testSchemaJSON), 0o644))
	return root
}

func writeRecord(t *testing.T, root string, name string, body string) string {
	t.Helper()
	path := filepath.Join(root, "cn", "products", name)
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func newTestService(root string) RecordService {
	return NewRecordService(NewRecordRepository(root), schema.NewSchemaService(root))
}

func TestCheck_ValidRecordPasses(t *testing.T) {
	t.Parallel()

	root := newWorkingStore(t)
	writeRecord(t, root, "cn-sup-001.yaml", validRecordYAML)

	summary, err := newTestService(root).Check(context.Background(), "cn")
	require.NoError(t, err)
	require.Equal(t, 1, summary.Checked)
	require.Equal(t, 1, summary.Passed)
	require.Zero(t, summary.Failed)
	require.True(t, summary.Reports[0].Valid)
	require.Equal(t, "cn-sup-001", summary.Reports[0].SampleID)
}

func TestCheck_BuyLinkRejectedEvenIfOtherwiseValid(t *testing.T) {
	t.Parallel()

	root := newWorkingStore(t)
	writeRecord(t, root, "cn-sup-001.yaml",
		validRecordYAML+`buy_link: "https://shop.example.com/vitamin-c"`+"\n")

	summary, err := newTestService(root).Check(context.Background(), "cn")
	require.NoError(t, err)
	require.Equal(t, 1, summary.Failed)

	report := summary.Reports[0]
	require.False(t, report.Valid)
	require.Len(t, report.Violations, 1)
	require.Equal(t, "buy_link", report.Violations[0].Field)
	require.Equal(t, domain.ViolationProhibitedField, report.Violations[0].Kind)
}

func TestCheck_UnknownFormFails(t *testing.T) {
	t.Parallel()

	root := newWorkingStore(t)
	writeRecord(t, root, "cn-sup-002.yaml", `sample_id: cn-sup-002
name: Magnesium Spray
brand: Acme Naturals
region: cn
form: spray
serving_size: 2 sprays daily
active_ingredients:
  - magnesium chloride
observed_at: "2025-03-01T09:30:00Z"
sources:
  - retail packaging
`)

	summary, err := newTestService(root).Check(context.Background(), "cn")
	require.NoError(t, err)
	require.Equal(t, 1, summary.Failed)

	report := summary.Reports[0]
	require.Len(t, report.Violations, 1)
	require.Equal(t, "form", report.Violations[0].Field)
	require.Equal(t, domain.ViolationInvalidEnum, report.Violations[0].Kind)
}

func TestCheck_MissingRequiredFieldIsNamed(t *testing.T) {
	t.Parallel()

	root := newWorkingStore(t)
	// No brand, no sources.
	writeRecord(t, root, "cn-sup-003.yaml", `sample_id: cn-sup-003
name: Zinc Picolinate
region: cn
form: capsule
serving_size: 1 capsule daily
active_ingredients:
  - zinc picolinate 22mg
observed_at: "2025-03-01T09:30:00Z"
`)

	summary, err := newTestService(root).Check(context.Background(), "cn")
	require.NoError(t, err)

	report := summary.Reports[0]
	require.False(t, report.Valid)

	fields := make(map[string]string, len(report.Violations))
	for _, v := range report.Violations {
		fields[v.Field] = v.Kind
	}
	require.Equal(t, domain.ViolationMissingRequired, fields["brand"])
	require.Equal(t, domain.ViolationMissingRequired, fields["sources"])
}

func TestCheck_AllViolationsReportedTogether(t *testing.T) {
	t.Parallel()

	root := newWorkingStore(t)
	writeRecord(t, root, "cn-sup-004.yaml", `sample_id: BAD-ID
name: Mystery Blend
brand: Acme Naturals
region: cn
form: elixir
serving_size: 1 scoop
active_ingredients:
  - proprietary blend
observed_at: "not-a-timestamp"
sources:
  - retail packaging
rating: 5
`)

	summary, err := newTestService(root).Check(context.Background(), "cn")
	require.NoError(t, err)

	report := summary.Reports[0]
	require.False(t, report.Valid)

	kinds := make(map[string]bool, len(report.Violations))
	for _, v := range report.Violations {
		kinds[v.Kind] = true
	}
	require.True(t, kinds[domain.ViolationMalformedID])
	require.True(t, kinds[domain.ViolationInvalidEnum])
	require.True(t, kinds[domain.ViolationMalformedTimestamp])
	require.True(t, kinds[domain.ViolationProhibitedField])
}

func TestCheck_MalformedFileDoesNotStopBatch(t *testing.T) {
	t.Parallel()

	root := newWorkingStore(t)
	writeRecord(t, root, "broken.yaml", "sample_id: [unclosed\n  name: :::\n")
	writeRecord(t, root, "cn-sup-001.yaml", validRecordYAML)

	summary, err := newTestService(root).Check(context.Background(), "cn")
	require.NoError(t, err)
	require.Equal(t, 2, summary.Checked)
	require.Equal(t, 1, summary.Passed)
	require.Equal(t, 1, summary.Failed)

	var brokenReport domain.CheckReport
	for _, report := range summary.Reports {
		if !report.Valid {
			brokenReport = report
		}
	}
	require.Equal(t, domain.ViolationMalformedFile, brokenReport.Violations[0].Kind)
}

func TestCheck_UnknownRegion(t *testing.T) {
	t.Parallel()

	root := newWorkingStore(t)
	require.NoError(t, os.MkdirAll(filepath.Join(root, "us"), 0o755))
	require.NoError(t, os.WriteFile(
		filepath.Join(root, "us", "schema.json"), []byte(testSchemaJSON), 0o644))

	_, err := newTestService(root).Check(context.Background(), "us")
	require.ErrorIs(t, err, domain.ErrRegionNotFound)
}
