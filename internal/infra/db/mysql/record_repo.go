package mysql

import (
    "context"
    "database/sql"
    "time"

    domain "github.com/aydinworks/content-advisor/internal/domain/records"
)

type RecordRepository struct {
    db *sql.DB
}

func NewRecordRepository(db *sql.DB) *RecordRepository {
    return &RecordRepository{db: db}
}

// Save inserts a search record. Records are append-only; a duplicate ID is a no-op.
func (r *RecordRepository) Save(ctx context.Context, rec *domain.SearchRecord) error {
    const q = `
INSERT IGNORE INTO search_records
  (id, title, risk_score, risk_level, content_type, summary, report_url, created_at)
VALUES (?,?,?,?,?,?,?,?);
`
    title := stringOrDash(rec.Title)
    createdAt := rec.CreatedAt
    if createdAt.IsZero() {
        createdAt = time.Now()
    }
    _, err := r.db.ExecContext(ctx, q, rec.ID, title, rec.RiskScore, rec.RiskLevel, rec.ContentType, rec.Summary, rec.ReportURL, createdAt)
    return err
}

// Latest returns the most recent records ordered by created_at desc
func (r *RecordRepository) Latest(ctx context.Context, limit int) ([]*domain.SearchRecord, error) {
    if limit <= 0 {
        limit = 5
    }
    const q = `
SELECT id, title, risk_score, risk_level, content_type, summary, report_url, created_at
FROM search_records
ORDER BY created_at DESC, id DESC
LIMIT ?;
`
    rows, err := r.db.QueryContext(ctx, q, limit)
    if err != nil {
        return nil, err
    }
    defer rows.Close()
    return scanRecords(rows)
}

// Paginate returns a page of records ordered by created_at desc
func (r *RecordRepository) Paginate(ctx context.Context, page, pageSize int) (domain.PaginatedResult, error) {
    if page <= 0 {
        page = 1
    }
    if pageSize <= 0 {
        pageSize = 20
    }
    offset := (page - 1) * pageSize

    const q = `
SELECT id, title, risk_score, risk_level, content_type, summary, report_url, created_at
FROM search_records
ORDER BY created_at DESC, id DESC
LIMIT ? OFFSET ?;
`
    rows, err := r.db.QueryContext(ctx, q, pageSize, offset)
    if err != nil {
        return domain.PaginatedResult{}, err
    }
    defer rows.Close()
    recs, err := scanRecords(rows)
    if err != nil {
        return domain.PaginatedResult{}, err
    }

    // Get total count for pagination
    total, err := r.Count(ctx)
    if err != nil {
        return domain.PaginatedResult{}, err
    }

    return domain.NewPaginatedResult(recs, page, pageSize, total), nil
}

// Count returns the total number of stored records
func (r *RecordRepository) Count(ctx context.Context) (int64, error) {
    var total int64
    err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM search_records;`).Scan(&total)
    return total, err
}

func scanRecords(rows *sql.Rows) ([]*domain.SearchRecord, error) {
    var out []*domain.SearchRecord
    for rows.Next() {
        var rec domain.SearchRecord
        var summary, reportURL sql.NullString
        var created time.Time
        if err := rows.Scan(&rec.ID, &rec.Title, &rec.RiskScore, &rec.RiskLevel, &rec.ContentType, &summary, &reportURL, &created); err != nil {
            return nil, err
        }
        rec.Summary = summary.String
        rec.ReportURL = reportURL.String
        rec.CreatedAt = created
        out = append(out, &rec)
    }
    return out, rows.Err()
}
