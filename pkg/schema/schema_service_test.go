package schema

import (
	"os"
	"path/filepath"
	"testing"

	"supplement-catalog/domain"

	"github.com/stretchr/testify/require"
)

const testSchemaJSON = `{
  "version": "1.0",
  "region": "cn",
  "required": ["sample_id", "name", "brand", "region", "form", "serving_size", "active_ingredients", "observed_at", "sources"],
  "optional": ["other_ingredients", "label_text", "batch_no", "manufactured_at", "expires_at"],
  "prohibited": ["buy_link", "rating", "trust_score", "recommendation"],
  "enums": {"form": ["capsule", "tablet", "powder", "liquid", "softgel", "gummy"]},
  "timestamp_fields": ["observed_at"]
}`

func writeSchema(t *testing.T, root string, region string, body string) {
	t.Helper()
	dir := filepath.Join(root, region)
	require.NoError(t, os.MkdirAll(dir, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "schema.json"), []byte(body), 0o644))
}

func validRecordFields() map[string]interface{} {
	return map[string]interface{}{
		"sample_id":          "cn-sup-001",
		"name":               "Vitamin C 500",
		"brand":              "Acme Naturals",
		"region":             "cn",
		"form":               "tablet",
		"serving_size":       "1 tablet daily",
		"active_ingredients": []interface{}{"ascorbic acid 500mg"},
		"observed_at":        "2025-03-01T09:30:00Z",
		"sources":            []interface{}{"retail packaging"},
	}
}

func TestLoad(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	writeSchema(t, root, "cn", testSchemaJSON)

	sc, err := NewSchemaService(root).Load("cn")
	require.NoError(t, err)
	require.Equal(t, domain.SchemaVersion, sc.Version)
	require.Contains(t, sc.Required, "sample_id")
	require.Contains(t, sc.Prohibited, "buy_link")
}

func TestLoad_MissingSchema(t *testing.T) {
	t.Parallel()

	_, err := NewSchemaService(t.TempDir()).Load("cn")
	require.ErrorIs(t, err, domain.ErrSchemaNotFound)
}

func TestLoad_UnsupportedVersion(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	writeSchema(t, root, "cn", `{"version": "2.0"}`)

	_, err := NewSchemaService(root).Load("cn")
	require.ErrorIs(t, err, domain.ErrUnsupportedSchemaVersion)
}

func TestValidate_ValidRecord(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	writeSchema(t, root, "cn", testSchemaJSON)
	svc := NewSchemaService(root)
	sc, err := svc.Load("cn")
	require.NoError(t, err)

	violations := svc.Validate(validRecordFields(), sc)
	require.Empty(t, violations)
}

func TestValidate_MissingRequiredFieldIsNamed(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	writeSchema(t, root, "cn", testSchemaJSON)
	svc := NewSchemaService(root)
	sc, err := svc.Load("cn")
	require.NoError(t, err)

	for _, field := range sc.Required {
		fields := validRecordFields()
		delete(fields, field)

		violations := svc.Validate(fields, sc)
		require.NotEmpty(t, violations, "dropping %q should fail validation", field)

		found := false
		for _, v := range violations {
			if v.Field == field && v.Kind == domain.ViolationMissingRequired {
				found = true
			}
		}
		require.True(t, found, "violation should name the missing field %q", field)
	}
}

func TestValidate_EmptyRequiredField(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	writeSchema(t, root, "cn", testSchemaJSON)
	svc := NewSchemaService(root)
	sc, err := svc.Load("cn")
	require.NoError(t, err)

	fields := validRecordFields()
	fields["active_ingredients"] = []interface{}{}

	violations := svc.Validate(fields, sc)
	require.Equal(t, []domain.Violation{{
		Field:  "active_ingredients",
		Kind:   domain.ViolationEmptyRequired,
		Detail: "required field is empty",
	}}, violations)
}

func TestValidate_ProhibitedFieldRejectedRegardless(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	writeSchema(t, root, "cn", testSchemaJSON)
	svc := NewSchemaService(root)
	sc, err := svc.Load("cn")
	require.NoError(t, err)

	// Otherwise fully valid record.
	fields := validRecordFields()
	fields["buy_link"] = "https://shop.example.com/vitamin-c"

	violations := svc.Validate(fields, sc)
	require.Len(t, violations, 1)
	require.Equal(t, "buy_link", violations[0].Field)
	require.Equal(t, domain.ViolationProhibitedField, violations[0].Kind)
}

func TestValidate_UnknownFormFailsEnum(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	writeSchema(t, root, "cn", testSchemaJSON)
	svc := NewSchemaService(root)
	sc, err := svc.Load("cn")
	require.NoError(t, err)

	fields := validRecordFields()
	fields["form"] = "spray"

	violations := svc.Validate(fields, sc)
	require.Len(t, violations, 1)
	require.Equal(t, "form", violations[0].Field)
	require.Equal(t, domain.ViolationInvalidEnum, violations[0].Kind)
}

func TestValidate_MalformedTimestamp(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	writeSchema(t, root, "cn", testSchemaJSON)
	svc := NewSchemaService(root)
	sc, err := svc.Load("cn")
	require.NoError(t, err)

	fields := validRecordFields()
	fields["observed_at"] = "01/03/2025"

	violations := svc.Validate(fields, sc)
	require.Len(t, violations, 1)
	require.Equal(t, "observed_at", violations[0].Field)
	require.Equal(t, domain.ViolationMalformedTimestamp, violations[0].Kind)
}

func TestValidate_MalformedSampleID(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	writeSchema(t, root, "cn", testSchemaJSON)
	svc := NewSchemaService(root)
	sc, err := svc.Load("cn")
	require.NoError(t, err)

	fields := validRecordFields()
	fields["sample_id"] = "CN_SUP_1"

	violations := svc.Validate(fields, sc)
	require.Len(t, violations, 1)
	require.Equal(t, "sample_id", violations[0].Field)
	require.Equal(t, domain.ViolationMalformedID, violations[0].Kind)
}

func TestValidate_CollectsAllViolations(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	writeSchema(t, root, "cn", testSchemaJSON)
	svc := NewSchemaService(root)
	sc, err := svc.Load("cn")
	require.NoError(t, err)

	fields := validRecordFields()
	delete(fields, "name")
	fields["form"] = "spray"
	fields["buy_link"] = "https://shop.example.com"
	fields["observed_at"] = "yesterday"

	violations := svc.Validate(fields, sc)
	require.Len(t, violations, 4)
}

func TestValidate_DoesNotMutateRecord(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	writeSchema(t, root, "cn", testSchemaJSON)
	svc := NewSchemaService(root)
	sc, err := svc.Load("cn")
	require.NoError(t, err)

	fields := validRecordFields()
	fields["buy_link"] = "https://shop.example.com"
	before := len(fields)

	_ = svc.Validate(fields, sc)
	require.Len(t, fields, before)
}
