package schema

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"supplement-catalog/domain"
)

type (
	// SchemaService loads the versioned field-constraint definition of a
	// region and checks parsed records against it. Validation is exhaustive:
	// every violated constraint is collected so a data entry operator can fix
	// a record in one pass.
	SchemaService interface {
		Load(region string) (domain.Schema, error)
		Validate(record map[string]interface{}, s domain.Schema) []domain.Violation
	}

	schemaService struct {
		root string
	}
)

var sampleIDPattern = regexp.MustCompile(`^[a-z]{2}-sup-\d{3}$`)

func NewSchemaService(root string) SchemaService {
	return &schemaService{root: root}
}

func (s *schemaService) Load(region string) (domain.Schema, error) {
	path := filepath.Join(s.root, region, "schema.json")

	raw, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return domain.Schema{}, fmt.Errorf("%w: %s", domain.ErrSchemaNotFound, path)
		}
		return domain.Schema{}, err
	}

	var sc domain.Schema
	if err := json.Unmarshal(raw, &sc); err != nil {
		return domain.Schema{}, fmt.Errorf("%w: %v", domain.ErrMalformedSchema, err)
	}

	if sc.Version != domain.SchemaVersion {
		return domain.Schema{}, fmt.Errorf("%w: got %q, engine supports %q",
			domain.ErrUnsupportedSchemaVersion, sc.Version, domain.SchemaVersion)
	}

	return sc, nil
}

// Validate is a pure check: it never mutates the record or the schema.
func (s *schemaService) Validate(record map[string]interface{}, sc domain.Schema) []domain.Violation {
	var violations []domain.Violation

	for _, field := range sc.Required {
		value, ok := record[field]
		if !ok {
			violations = append(violations, domain.Violation{
				Field:  field,
				Kind:   domain.ViolationMissingRequired,
				Detail: "required field is missing",
			})
			continue
		}
		if isEmpty(value) {
			violations = append(violations, domain.Violation{
				Field:  field,
				Kind:   domain.ViolationEmptyRequired,
				Detail: "required field is empty",
			})
		}
	}

	// Prohibited fields invalidate the record by policy, regardless of how
	// correct the rest of it is.
	for _, field := range sc.Prohibited {
		if _, ok := record[field]; ok {
			violations = append(violations, domain.Violation{
				Field:  field,
				Kind:   domain.ViolationProhibitedField,
				Detail: "field is prohibited by catalog policy",
			})
		}
	}

	for field, allowed := range sc.Enums {
		value, ok := record[field]
		if !ok || isEmpty(value) {
			continue
		}
		str, isStr := value.(string)
		if !isStr || !contains(allowed, str) {
			violations = append(violations, domain.Violation{
				Field:  field,
				Kind:   domain.ViolationInvalidEnum,
				Detail: fmt.Sprintf("value %v not one of %s", value, strings.Join(allowed, ", ")),
			})
		}
	}

	for _, field := range sc.Timestamps {
		value, ok := record[field]
		if !ok || isEmpty(value) {
			continue
		}
		str, isStr := value.(string)
		if !isStr {
			violations = append(violations, domain.Violation{
				Field:  field,
				Kind:   domain.ViolationMalformedTimestamp,
				Detail: "timestamp must be an ISO 8601 string",
			})
			continue
		}
		if _, err := time.Parse(time.RFC3339, str); err != nil {
			violations = append(violations, domain.Violation{
				Field:  field,
				Kind:   domain.ViolationMalformedTimestamp,
				Detail: fmt.Sprintf("%q is not a valid ISO 8601 timestamp", str),
			})
		}
	}

	if value, ok := record["sample_id"]; ok && !isEmpty(value) {
		if str, isStr := value.(string); !isStr || !sampleIDPattern.MatchString(str) {
			violations = append(violations, domain.Violation{
				Field:  "sample_id",
				Kind:   domain.ViolationMalformedID,
				Detail: fmt.Sprintf("%v does not match the xx-sup-NNN identifier format", value),
			})
		}
	}

	return violations
}

func isEmpty(value interface{}) bool {
	switch v := value.(type) {
	case nil:
		return true
	case string:
		return strings.TrimSpace(v) == ""
	case []interface{}:
		return len(v) == 0
	case []string:
		return len(v) == 0
	case map[string]interface{}:
		return len(v) == 0
	default:
		return false
	}
}

func contains(list []string, s string) bool {
	for _, item := range list {
		if item == s {
			return true
		}
	}
	return false
}
