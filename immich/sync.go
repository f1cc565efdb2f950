package immich

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/alexjbarnes/immich-sync/internal/history"
)

//go:generate mockgen -source=sync.go -destination=mock_api_test.go -package=immich -mock_names=assetAPI=MockAssetAPI

// assetAPI is the subset of Client the Syncer drives. Extracted for
// testability.
type assetAPI interface {
	ResolveAlbum(ctx context.Context, name string) (string, error)
	UploadAsset(ctx context.Context, deviceID string, f CandidateFile) (UploadResult, error)
	AddToAlbum(ctx context.Context, albumID, assetID string) error
}

// SyncConfig carries the per-run parameters for a Syncer.
type SyncConfig struct {
	// Dir is the local directory to scan.
	Dir string
	// AlbumName is the album every settled asset gets linked into.
	AlbumName string
	// DeviceID is the logical device name sent with each upload.
	DeviceID string
	// Extensions are the accepted file extensions.
	Extensions []string
	// Identity derives progress-store keys for candidate files.
	Identity Identity
	// Store is the durable progress record.
	Store history.Store
}

// Syncer drives one synchronization pass end to end: resolve the album,
// upload unseen files oldest-first, link each settled asset into the
// album, and persist progress after every file. Processing is
// deliberately sequential: it bounds load on the server and keeps
// progress writes race-free.
type Syncer struct {
	api    assetAPI
	cfg    SyncConfig
	logger *slog.Logger
}

// NewSyncer creates a Syncer for the given API client and parameters.
func NewSyncer(api assetAPI, cfg SyncConfig, logger *slog.Logger) *Syncer {
	return &Syncer{
		api:    api,
		cfg:    cfg,
		logger: logger,
	}
}

// Run performs a single pass and returns the number of newly settled
// files. Album resolution failure aborts the run before any file is
// touched. Per-file upload failures are logged and leave that file
// unsettled for the next run; album-link failures are logged but the
// file still settles, because a missing link is cosmetic while a
// re-upload is not.
func (s *Syncer) Run(ctx context.Context) (int, error) {
	s.logger.Info("looking for album", slog.String("album", s.cfg.AlbumName))

	albumID, err := s.api.ResolveAlbum(ctx, s.cfg.AlbumName)
	if err != nil {
		return 0, fmt.Errorf("resolving album: %w", err)
	}
	s.logger.Info("album resolved", slog.String("album", s.cfg.AlbumName), slog.String("id", albumID))

	files, err := ScanDir(s.cfg.Dir, s.cfg.Extensions, s.logger)
	if err != nil {
		return 0, fmt.Errorf("scanning sync dir: %w", err)
	}

	processed := 0

	for _, f := range files {
		if err := ctx.Err(); err != nil {
			return processed, err
		}

		key, err := s.cfg.Identity.Key(f)
		if err != nil {
			s.logger.Warn("computing identity, skipping",
				slog.String("file", f.Name),
				slog.String("error", err.Error()),
			)
			continue
		}

		if s.cfg.Store.Contains(key) {
			continue
		}

		s.logger.Info("uploading", slog.String("file", f.Name))

		result, err := s.api.UploadAsset(ctx, s.cfg.DeviceID, f)
		if err != nil {
			// Unsettled: the file is retried on the next run.
			s.logger.Error("upload failed",
				slog.String("file", f.Name),
				slog.String("error", err.Error()),
			)
			continue
		}

		switch result.Outcome {
		case OutcomeDeduplicated:
			s.logger.Info("already on server", slog.String("file", f.Name), slog.String("asset_id", result.AssetID))
		case OutcomeRejectedDuplicate:
			s.logger.Warn("duplicate rejected by server",
				slog.String("file", f.Name),
				slog.Bool("identified", result.AssetID != ""),
			)
		}

		if result.AssetID != "" {
			if err := s.api.AddToAlbum(ctx, albumID, result.AssetID); err != nil {
				// The asset exists on the server either way; settling
				// below keeps it from ever being re-uploaded.
				s.logger.Warn("adding to album failed",
					slog.String("file", f.Name),
					slog.String("asset_id", result.AssetID),
					slog.String("error", err.Error()),
				)
			}
		}

		if err := s.cfg.Store.Add(key); err != nil {
			s.logger.Error("persisting history",
				slog.String("file", f.Name),
				slog.String("error", err.Error()),
			)
		}

		processed++
	}

	s.logger.Info("sync complete",
		slog.Int("processed", processed),
		slog.Int("settled_total", s.cfg.Store.Len()),
	)

	return processed, nil
}
