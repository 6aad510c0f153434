package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/fwojciec/doctext"
	"github.com/google/uuid"
)

// Compile-time interface verification.
var _ doctext.MetadataStore = (*ResourceService)(nil)

// ResourceService implements doctext.MetadataStore using SQLite.
type ResourceService struct {
	db *DB
}

// NewResourceService creates a new ResourceService.
func NewResourceService(db *DB) *ResourceService {
	return &ResourceService{db: db}
}

// CreateResource creates a new resource, assigning its ID.
func (s *ResourceService) CreateResource(ctx context.Context, res *doctext.Resource) error {
	if err := res.Validate(); err != nil {
		return err
	}

	res.ID = uuid.New().String()
	now := time.Now().UTC()
	res.CreatedAt = now
	res.UpdatedAt = now

	extras, err := encodeExtras(res.Extras)
	if err != nil {
		return err
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO resources (id, dataset_id, name, url, format, extras, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`, res.ID, res.DatasetID, res.Name, res.URL, res.Format, extras,
		res.CreatedAt.Format(time.RFC3339), res.UpdatedAt.Format(time.RFC3339))

	return err
}

// FindResourceByID retrieves a resource by ID.
func (s *ResourceService) FindResourceByID(ctx context.Context, id string) (*doctext.Resource, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT id, dataset_id, name, url, format, extras, created_at, updated_at
		FROM resources
		WHERE id = ?
	`, id)

	res, err := scanResource(row.Scan)
	if err == sql.ErrNoRows {
		return nil, doctext.Errorf(doctext.ENOTFOUND, "resource not found")
	}
	return res, err
}

// FindResources retrieves resources matching the filter, newest first.
func (s *ResourceService) FindResources(ctx context.Context, filter doctext.ResourceFilter) ([]*doctext.Resource, error) {
	var query strings.Builder
	var args []any

	query.WriteString("SELECT id, dataset_id, name, url, format, extras, created_at, updated_at FROM resources WHERE 1=1")

	if filter.ID != nil {
		query.WriteString(" AND id = ?")
		args = append(args, *filter.ID)
	}
	if filter.DatasetID != nil {
		query.WriteString(" AND dataset_id = ?")
		args = append(args, *filter.DatasetID)
	}
	if filter.Format != nil {
		query.WriteString(" AND format = ?")
		args = append(args, *filter.Format)
	}

	query.WriteString(" ORDER BY created_at DESC")
	appendPagination(&query, &args, filter.Limit, filter.Offset)

	rows, err := s.db.QueryContext(ctx, query.String(), args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var resources []*doctext.Resource
	for rows.Next() {
		res, err := scanResource(rows.Scan)
		if err != nil {
			return nil, err
		}
		resources = append(resources, res)
	}

	return resources, rows.Err()
}

// UpdateExtras merges the given keys into the resource's extras, last writer
// wins per key. The single-connection pool serializes the read-merge-write.
func (s *ResourceService) UpdateExtras(ctx context.Context, id string, extras map[string]string) error {
	res, err := s.FindResourceByID(ctx, id)
	if err != nil {
		return err
	}

	if res.Extras == nil {
		res.Extras = make(map[string]string, len(extras))
	}
	for k, v := range extras {
		res.Extras[k] = v
	}

	encoded, err := encodeExtras(res.Extras)
	if err != nil {
		return err
	}

	_, err = s.db.ExecContext(ctx, `
		UPDATE resources
		SET extras = ?, updated_at = ?
		WHERE id = ?
	`, encoded, time.Now().UTC().Format(time.RFC3339), id)

	return err
}

// DeleteResource permanently removes a resource.
func (s *ResourceService) DeleteResource(ctx context.Context, id string) error {
	result, err := s.db.ExecContext(ctx, "DELETE FROM resources WHERE id = ?", id)
	if err != nil {
		return err
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}

	if rows == 0 {
		return doctext.Errorf(doctext.ENOTFOUND, "resource not found")
	}

	return nil
}

// scanResource reads one resources row via the given scan function.
func scanResource(scan func(dest ...any) error) (*doctext.Resource, error) {
	var res doctext.Resource
	var extras, createdAt, updatedAt string

	if err := scan(&res.ID, &res.DatasetID, &res.Name, &res.URL, &res.Format,
		&extras, &createdAt, &updatedAt); err != nil {
		return nil, err
	}

	if err := json.Unmarshal([]byte(extras), &res.Extras); err != nil {
		return nil, fmt.Errorf("failed to parse extras: %w", err)
	}

	var err error
	res.CreatedAt, err = parseRFC3339(createdAt, "created_at")
	if err != nil {
		return nil, err
	}
	res.UpdatedAt, err = parseRFC3339(updatedAt, "updated_at")
	if err != nil {
		return nil, err
	}

	return &res, nil
}

func encodeExtras(extras map[string]string) (string, error) {
	if extras == nil {
		return "{}", nil
	}
	encoded, err := json.Marshal(extras)
	if err != nil {
		return "", fmt.Errorf("failed to encode extras: %w", err)
	}
	return string(encoded), nil
}
