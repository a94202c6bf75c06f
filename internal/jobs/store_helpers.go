package jobs

import (
	"database/sql"
	"time"
)

const jobColumns = "seq, id, source_name, source_size, source_data, status, progress, cleaned_data, vector_data, failure_reason, created_at, updated_at"

func scanJob(scanner interface{ Scan(dest ...any) error }) (*Job, error) {
	var (
		seq           int64
		id            string
		sourceName    string
		sourceSize    int64
		sourceData    []byte
		statusStr     string
		progress      int
		cleaned       []byte
		vector        []byte
		failureReason sql.NullString
		createdRaw    sql.NullString
		updatedRaw    sql.NullString
	)

	if err := scanner.Scan(
		&seq,
		&id,
		&sourceName,
		&sourceSize,
		&sourceData,
		&statusStr,
		&progress,
		&cleaned,
		&vector,
		&failureReason,
		&createdRaw,
		&updatedRaw,
	); err != nil {
		return nil, err
	}

	return &Job{
		ID:  id,
		Seq: seq,
		Source: SourceAsset{
			Name: sourceName,
			Size: sourceSize,
			Data: sourceData,
		},
		Status:        Status(statusStr),
		Progress:      progress,
		Cleaned:       cleaned,
		Vector:        vector,
		FailureReason: failureReason.String,
		CreatedAt:     parseTime(createdRaw),
		UpdatedAt:     parseTime(updatedRaw),
	}, nil
}

func parseTime(raw sql.NullString) time.Time {
	if !raw.Valid || raw.String == "" {
		return time.Time{}
	}
	t, err := time.Parse(time.RFC3339Nano, raw.String)
	if err != nil {
		return time.Time{}
	}
	return t
}

func formatTime(t time.Time) string {
	return t.UTC().Format(time.RFC3339Nano)
}

func nullableBlob(data []byte) any {
	if data == nil {
		return nil
	}
	return data
}

func nullableString(value string) any {
	if value == "" {
		return nil
	}
	return value
}
