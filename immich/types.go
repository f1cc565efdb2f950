package immich

import (
	"fmt"
	"time"
)

// Outcome classifies the server's response to an asset upload. Any
// outcome means the file is settled on the server; genuine failures are
// reported as errors instead, leaving the file to be retried next run.
type Outcome int

const (
	// OutcomeCreated: 201, a truly new asset was stored.
	OutcomeCreated Outcome = iota
	// OutcomeDeduplicated: 200, the server matched an existing asset
	// and treats the upload as a success.
	OutcomeDeduplicated
	// OutcomeRejectedDuplicate: 409, the server rejected the upload as
	// a hard duplicate conflict.
	OutcomeRejectedDuplicate
)

func (o Outcome) String() string {
	switch o {
	case OutcomeCreated:
		return "created"
	case OutcomeDeduplicated:
		return "deduplicated"
	case OutcomeRejectedDuplicate:
		return "rejected-duplicate"
	default:
		return fmt.Sprintf("outcome(%d)", int(o))
	}
}

// UploadResult is the classified response to one asset upload. AssetID
// is empty when the server rejected a duplicate without identifying it;
// such a file still settles but cannot be linked into an album.
type UploadResult struct {
	Outcome Outcome
	AssetID string
}

// Album is one entry from GET /api/albums.
type Album struct {
	ID         string `json:"id"`
	AlbumName  string `json:"albumName"`
	AssetCount int    `json:"assetCount"`
}

// uploadResponse is the JSON body of POST /api/assets on 200 and 201.
type uploadResponse struct {
	ID     string `json:"id"`
	Status string `json:"status"`
}

// addAssetsRequest is the payload for PUT /api/albums/{id}/assets. The
// server treats the operation as a set union, so repeat adds are safe.
type addAssetsRequest struct {
	IDs []string `json:"ids"`
}

// CandidateFile is one image file eligible for upload, captured from
// filesystem metadata at scan time and immutable for the run.
type CandidateFile struct {
	Path  string
	Name  string
	Size  int64
	MTime time.Time
	CTime time.Time
}

// DeviceAssetID returns the composite key the server uses to recognize
// resubmission of the same physical file: base filename, byte size and
// modification time in whole seconds. It must stay stable across runs
// so server-side dedup still works after local history loss.
func (f CandidateFile) DeviceAssetID() string {
	return fmt.Sprintf("%s-%d-%d", f.Name, f.Size, f.MTime.Unix())
}

// CreatedAt returns the file's creation timestamp, falling back to the
// modification time on platforms without a usable ctime.
func (f CandidateFile) CreatedAt() time.Time {
	if f.CTime.IsZero() {
		return f.MTime
	}

	return f.CTime
}
