package mirror

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"supplement-catalog/domain"
	"supplement-catalog/entities"
	"supplement-catalog/internal/ctxlog"
	"supplement-catalog/internal/utils/storage"
	"supplement-catalog/pkg/digest"
	"supplement-catalog/pkg/record"
	"supplement-catalog/pkg/schema"

	"github.com/google/uuid"
	"golang.org/x/time/rate"
	"gorm.io/gorm"
)

type (
	// MirrorService propagates validated records and their images from the
	// working store to the public object-store mirror. Publication is
	// all-or-nothing per record: either the full record-plus-images set lands
	// on the mirror, or compensating deletes remove whatever was written.
	MirrorService interface {
		PublishRegion(ctx context.Context, region string) (domain.PublishSummary, error)
	}

	mirrorService struct {
		mirrorRepository MirrorRepository
		recordRepository record.RecordRepository
		recordService    record.RecordService
		schemaService    schema.SchemaService
		store            storage.AwsS3
		assetsDomain     string
		limiter          *rate.Limiter
	}
)

const defaultUploadRate = 5

func NewMirrorService(
	mirrorRepository MirrorRepository,
	recordRepository record.RecordRepository,
	recordService record.RecordService,
	schemaService schema.SchemaService,
	store storage.AwsS3,
	assetsDomain string,
	uploadRate float64,
) MirrorService {
	if uploadRate <= 0 {
		uploadRate = defaultUploadRate
	}
	return &mirrorService{
		mirrorRepository: mirrorRepository,
		recordRepository: recordRepository,
		recordService:    recordService,
		schemaService:    schemaService,
		store:            store,
		assetsDomain:     assetsDomain,
		limiter:          rate.NewLimiter(rate.Limit(uploadRate), 1),
	}
}

func (s *mirrorService) PublishRegion(ctx context.Context, region string) (domain.PublishSummary, error) {
	sc, err := s.schemaService.Load(region)
	if err != nil {
		return domain.PublishSummary{}, err
	}

	files, err := s.recordRepository.ListRecordFiles(region)
	if err != nil {
		return domain.PublishSummary{}, err
	}

	run := &entities.PublishRun{
		ID:        uuid.New(),
		Region:    region,
		StartedAt: time.Now().UTC(),
	}
	if err := s.mirrorRepository.CreateRun(ctx, run); err != nil {
		return domain.PublishSummary{}, err
	}

	logger := ctxlog.FromContext(ctx).With("region", region, "run_id", run.ID.String())
	summary := domain.PublishSummary{RunID: run.ID, Region: region}

	for _, path := range files {
		report := s.recordService.CheckFile(ctx, path, sc)

		if !report.Valid {
			summary.Failed++
			summary.Results = append(summary.Results, domain.PublishResult{
				SampleID: report.SampleID,
				Status:   domain.PublishStatusFailed,
				Reason:   domain.ErrRecordNotValid.Error(),
				Reports:  report.Violations,
			})
			continue
		}

		status, err := s.publishRecord(ctx, region, path, run.ID)
		if err != nil {
			// Fatal to this record's publication only; the batch continues
			// and the record stays unpublished in the working store.
			summary.Failed++
			summary.Results = append(summary.Results, domain.PublishResult{
				SampleID: report.SampleID,
				Status:   domain.PublishStatusFailed,
				Reason:   err.Error(),
			})
			logger.Error("publish failed", "sample_id", report.SampleID, "error", err)
			continue
		}

		switch status {
		case domain.PublishStatusSkipped:
			summary.Skipped++
		default:
			summary.Published++
		}
		summary.Results = append(summary.Results, domain.PublishResult{
			SampleID: report.SampleID,
			Status:   status,
		})
	}

	finished := time.Now().UTC()
	run.FinishedAt = &finished
	run.Published = summary.Published
	run.Skipped = summary.Skipped
	run.Failed = summary.Failed
	if err := s.mirrorRepository.UpdateRun(ctx, run); err != nil {
		return summary, err
	}

	logger.Info("publish run finished",
		"published", summary.Published,
		"skipped", summary.Skipped,
		"failed", summary.Failed)
	return summary, nil
}

func (s *mirrorService) publishRecord(ctx context.Context, region string, path string, runID uuid.UUID) (string, error) {
	rec, _, raw, err := s.recordRepository.ReadRecord(path)
	if err != nil {
		return "", err
	}

	contentHash := digest.Bytes(raw)

	imagePaths, err := s.recordRepository.ImagePaths(region, rec.SampleID)
	if err != nil {
		return "", err
	}
	for _, view := range domain.AssetViews {
		if _, ok := imagePaths[view]; !ok {
			return "", fmt.Errorf("%w: %s", domain.ErrMissingAssetView, view)
		}
	}

	assets := make([]entities.AssetObject, 0, len(domain.AssetViews))
	for _, view := range domain.AssetViews {
		sum, err := digest.File(imagePaths[view])
		if err != nil {
			return "", err
		}
		stat, err := os.Stat(imagePaths[view])
		if err != nil {
			return "", err
		}
		assets = append(assets, entities.AssetObject{
			ID:        uuid.New(),
			SampleID:  rec.SampleID,
			View:      view,
			SHA256:    sum,
			SizeBytes: stat.Size(),
			ObjectKey: s.imageKey(region, rec.SampleID, view),
		})
	}

	unchanged, err := s.isUnchanged(ctx, rec.SampleID, contentHash, assets)
	if err != nil {
		return "", err
	}
	if unchanged {
		ctxlog.FromContext(ctx).Info("record unchanged, skipping upload", "sample_id", rec.SampleID)
		return domain.PublishStatusSkipped, nil
	}

	manifest, err := s.buildManifest(rec, contentHash, assets)
	if err != nil {
		return "", err
	}
	manifestJSON, err := json.MarshalIndent(manifest, "", "  ")
	if err != nil {
		return "", err
	}

	// Assets first, record document and manifest last. A consumer that sees
	// the record document can rely on every asset it references existing.
	var uploaded []string
	rollback := func() {
		for _, key := range uploaded {
			_ = s.store.DeleteFile(ctx, key)
		}
	}

	for _, asset := range assets {
		if err := s.limiter.Wait(ctx); err != nil {
			rollback()
			return "", err
		}
		if err := s.store.UploadFile(ctx, asset.ObjectKey, imagePaths[asset.View], storage.AllowImage...); err != nil {
			rollback()
			return "", fmt.Errorf("%w: %v", domain.ErrUploadFailed, err)
		}
		uploaded = append(uploaded, asset.ObjectKey)
	}

	recordKey := s.recordKey(region, rec.SampleID)
	if err := s.limiter.Wait(ctx); err != nil {
		rollback()
		return "", err
	}
	if err := s.store.UploadBytes(ctx, recordKey, raw, "application/yaml"); err != nil {
		rollback()
		return "", fmt.Errorf("%w: %v", domain.ErrUploadFailed, err)
	}
	uploaded = append(uploaded, recordKey)

	if err := s.limiter.Wait(ctx); err != nil {
		rollback()
		return "", err
	}
	if err := s.store.UploadBytes(ctx, s.manifestKey(region, rec.SampleID), manifestJSON, "application/json"); err != nil {
		rollback()
		return "", fmt.Errorf("%w: %v", domain.ErrUploadFailed, err)
	}

	now := time.Now().UTC()
	entry := &entities.CatalogEntry{
		SampleID:    rec.SampleID,
		Region:      region,
		Name:        rec.Name,
		Brand:       rec.Brand,
		Form:        rec.Form,
		ContentHash: contentHash,
		Status:      domain.PublishStatusPublished,
		PublishedAt: &now,
		RunID:       &runID,
	}
	if err := s.mirrorRepository.SaveEntry(ctx, entry); err != nil {
		return "", err
	}
	if err := s.mirrorRepository.ReplaceAssets(ctx, rec.SampleID, assets); err != nil {
		return "", err
	}

	ctxlog.FromContext(ctx).Info("record published",
		"sample_id", rec.SampleID,
		"content_hash", contentHash)
	return domain.PublishStatusPublished, nil
}

// isUnchanged reports whether the ledger already holds this exact content:
// same record hash, published status, and identical digests for every view.
func (s *mirrorService) isUnchanged(ctx context.Context, sampleID string, contentHash string, assets []entities.AssetObject) (bool, error) {
	entry, err := s.mirrorRepository.GetEntry(ctx, sampleID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return false, nil
		}
		return false, err
	}
	if entry.Status != domain.PublishStatusPublished || entry.ContentHash != contentHash {
		return false, nil
	}

	known, err := s.mirrorRepository.GetAssets(ctx, sampleID)
	if err != nil {
		return false, err
	}
	knownByView := make(map[string]string, len(known))
	for _, asset := range known {
		knownByView[asset.View] = asset.SHA256
	}
	for _, asset := range assets {
		if knownByView[asset.View] != asset.SHA256 {
			return false, nil
		}
	}
	return true, nil
}

func (s *mirrorService) buildManifest(rec domain.Record, contentHash string, assets []entities.AssetObject) (domain.Manifest, error) {
	manifestAssets := make([]domain.ManifestAsset, 0, len(assets))
	for _, asset := range assets {
		uri := s.store.GetPublicLinkKey(asset.ObjectKey)
		if s.assetsDomain != "" && !strings.HasPrefix(uri, "https://"+s.assetsDomain+"/") {
			return domain.Manifest{}, fmt.Errorf("%w: %s", domain.ErrAssetDomainMismatch, uri)
		}
		manifestAssets = append(manifestAssets, domain.ManifestAsset{
			Role:   asset.View,
			SHA256: asset.SHA256,
			URI:    uri,
		})
	}

	return domain.Manifest{
		RecordID:    rec.SampleID,
		Timestamp:   rec.ObservedAt,
		ContentHash: contentHash,
		Assets:      manifestAssets,
		License:     domain.DefaultLicense(),
		RightsOwner: "Supplement Catalog Asset Custodian",
		Authority: map[string]string{
			"canonical_uri":    s.store.GetPublicLinkKey(s.recordKey(rec.Region, rec.SampleID)),
			"authority_domain": s.assetsDomain,
		},
	}, nil
}

func (s *mirrorService) imageKey(region string, sampleID string, view string) string {
	return fmt.Sprintf("%s/images/%s/%s.png", region, sampleID, view)
}

func (s *mirrorService) recordKey(region string, sampleID string) string {
	return fmt.Sprintf("%s/products/%s.yaml", region, sampleID)
}

func (s *mirrorService) manifestKey(region string, sampleID string) string {
	return fmt.Sprintf("%s/manifests/%s.json", region, sampleID)
}
