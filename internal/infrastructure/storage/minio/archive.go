package minio

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"sort"
	"strings"
	"time"

	"github.com/minio/minio-go/v7"

	"github.com/turtacn/DPR-Intelligence/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/DPR-Intelligence/pkg/errors"
)

const (
	reportPrefix      = "reports/"
	reportContentType = "application/json"
	maxReportBytes    = 16 << 20
)

var ErrReportNotFound = errors.New(errors.ErrCodeNotFound, "report not found")

// ReportKey is the object key for a report id.
func ReportKey(id string) string { return reportPrefix + id + ".json" }

// ReportInfo describes one archived report.
type ReportInfo struct {
	ID           string    `json:"id"`
	Key          string    `json:"key"`
	Size         int64     `json:"size"`
	LastModified time.Time `json:"last_modified"`
}

// ReportArchive stores JSON reports under reports/<id>.json.
type ReportArchive struct {
	client *Client
	logger logging.Logger
}

func NewReportArchive(client *Client, log logging.Logger) *ReportArchive {
	return &ReportArchive{client: client, logger: logging.OrNop(log)}
}

// Put marshals report, writes it under id and returns the object key.
// documentID is stored as user metadata when set.
func (a *ReportArchive) Put(ctx context.Context, id, documentID string, report any) (string, error) {
	if id == "" {
		return "", errors.New(errors.ErrCodeValidation, "report id is required")
	}
	api, err := a.client.objects()
	if err != nil {
		return "", err
	}
	data, err := json.Marshal(report)
	if err != nil {
		return "", errors.Wrap(err, errors.ErrCodeSerialization, "failed to marshal report")
	}
	opts := minio.PutObjectOptions{ContentType: reportContentType}
	if documentID != "" {
		opts.UserMetadata = map[string]string{"document-id": documentID}
	}
	key := ReportKey(id)
	if _, err := api.PutObject(ctx, a.client.bucket, key, bytes.NewReader(data), int64(len(data)), opts); err != nil {
		return "", errors.Wrapf(err, errors.ErrCodeArchiveFailed, "failed to archive report %s", id)
	}
	a.logger.Debug("report archived", logging.String("key", key), logging.Int("bytes", len(data)))
	return key, nil
}

// Get reads the report stored under id into dest.
func (a *ReportArchive) Get(ctx context.Context, id string, dest any) error {
	api, err := a.client.objects()
	if err != nil {
		return err
	}
	rc, err := api.GetObject(ctx, a.client.bucket, ReportKey(id))
	if err != nil {
		if isNotFound(err) {
			return ErrReportNotFound
		}
		return errors.Wrapf(err, errors.ErrCodeArchiveFailed, "failed to read report %s", id)
	}
	defer rc.Close()

	data, err := io.ReadAll(io.LimitReader(rc, maxReportBytes))
	if err != nil {
		return errors.Wrapf(err, errors.ErrCodeArchiveFailed, "failed to read report %s", id)
	}
	if err := json.Unmarshal(data, dest); err != nil {
		return errors.Wrap(err, errors.ErrCodeSerialization, "failed to decode report")
	}
	return nil
}

// Exists reports whether a report is archived under id.
func (a *ReportArchive) Exists(ctx context.Context, id string) (bool, error) {
	api, err := a.client.objects()
	if err != nil {
		return false, err
	}
	if _, err := api.StatObject(ctx, a.client.bucket, ReportKey(id)); err != nil {
		if isNotFound(err) {
			return false, nil
		}
		return false, errors.Wrap(err, errors.ErrCodeArchiveFailed, "failed to stat report")
	}
	return true, nil
}

// Delete removes the report. Deleting a missing report is not an error.
func (a *ReportArchive) Delete(ctx context.Context, id string) error {
	api, err := a.client.objects()
	if err != nil {
		return err
	}
	if err := api.RemoveObject(ctx, a.client.bucket, ReportKey(id)); err != nil && !isNotFound(err) {
		return errors.Wrapf(err, errors.ErrCodeArchiveFailed, "failed to delete report %s", id)
	}
	return nil
}

// List returns archived reports, newest first, at most limit entries.
func (a *ReportArchive) List(ctx context.Context, limit int) ([]ReportInfo, error) {
	api, err := a.client.objects()
	if err != nil {
		return nil, err
	}
	var out []ReportInfo
	for obj := range api.ListObjects(ctx, a.client.bucket, reportPrefix) {
		if obj.Err != nil {
			return nil, errors.Wrap(obj.Err, errors.ErrCodeArchiveFailed, "failed to list reports")
		}
		if !strings.HasSuffix(obj.Key, ".json") {
			continue
		}
		out = append(out, ReportInfo{
			ID:           strings.TrimSuffix(strings.TrimPrefix(obj.Key, reportPrefix), ".json"),
			Key:          obj.Key,
			Size:         obj.Size,
			LastModified: obj.LastModified,
		})
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].LastModified.After(out[j].LastModified) })
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func isNotFound(err error) bool {
	code := minio.ToErrorResponse(err).Code
	return code == "NoSuchKey" || code == "NoSuchBucket"
}

//Personal.AI order the ending
