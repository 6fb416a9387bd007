package record

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"supplement-catalog/domain"

	"gopkg.in/yaml.v2"
)

type (
	// RecordRepository reads the working store on disk:
	// <root>/<region>/{products/*.yaml, images/<id>/{front,back,side}.png}.
	RecordRepository interface {
		ListRecordFiles(region string) ([]string, error)
		ReadRecord(path string) (domain.Record, map[string]interface{}, []byte, error)
		ImagePaths(region string, sampleID string) (map[string]string, error)
	}

	recordRepository struct {
		root string
	}
)

func NewRecordRepository(root string) RecordRepository {
	return &recordRepository{root: root}
}

func (r *recordRepository) ListRecordFiles(region string) ([]string, error) {
	dir := filepath.Join(r.root, region, "products")

	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", domain.ErrRegionNotFound, dir)
		}
		return nil, err
	}

	var files []string
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		name := entry.Name()
		if strings.HasSuffix(name, ".yaml") || strings.HasSuffix(name, ".yml") {
			files = append(files, filepath.Join(dir, name))
		}
	}
	sort.Strings(files)
	return files, nil
}

func (r *recordRepository) ReadRecord(path string) (domain.Record, map[string]interface{}, []byte, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return domain.Record{}, nil, nil, fmt.Errorf("%w: %s", domain.ErrRecordNotFound, path)
		}
		return domain.Record{}, nil, nil, err
	}

	var generic map[interface{}]interface{}
	if err := yaml.Unmarshal(raw, &generic); err != nil {
		return domain.Record{}, nil, raw, fmt.Errorf("%w: %v", domain.ErrMalformedRecord, err)
	}

	var rec domain.Record
	if err := yaml.Unmarshal(raw, &rec); err != nil {
		return domain.Record{}, nil, raw, fmt.Errorf("%w: %v", domain.ErrMalformedRecord, err)
	}

	fields, _ := normalizeValue(generic).(map[string]interface{})
	return rec, fields, raw, nil
}

func (r *recordRepository) ImagePaths(region string, sampleID string) (map[string]string, error) {
	dir := filepath.Join(r.root, region, "images", sampleID)

	paths := make(map[string]string, len(domain.AssetViews))
	for _, view := range domain.AssetViews {
		path := filepath.Join(dir, view+".png")
		if _, err := os.Stat(path); err != nil {
			if os.IsNotExist(err) {
				continue
			}
			return nil, err
		}
		paths[view] = path
	}
	return paths, nil
}

// normalizeValue rewrites the map[interface{}]interface{} trees produced by
// yaml.v2 into map[string]interface{} so the validation engine can address
// fields by name.
func normalizeValue(value interface{}) interface{} {
	switch v := value.(type) {
	case map[interface{}]interface{}:
		out := make(map[string]interface{}, len(v))
		for key, item := range v {
			out[fmt.Sprintf("%v", key)] = normalizeValue(item)
		}
		return out
	case []interface{}:
		out := make([]interface{}, len(v))
		for i, item := range v {
			out[i] = normalizeValue(item)
		}
		return out
	default:
		return v
	}
}
