package postgres

import (
    "context"
    "database/sql"
    "strings"
    "time"

    domain "github.com/aydinworks/content-advisor/internal/domain/faults"
)

type FaultRepository struct {
    db *sql.DB
}

func NewFaultRepository(db *sql.DB) *FaultRepository { return &FaultRepository{db: db} }

func (r *FaultRepository) Save(ctx context.Context, f *domain.Fault) error {
    const q = `
INSERT INTO analysis_faults
  (query, content_type, kind, message, created_at)
VALUES ($1,$2,$3,$4,$5);
`
    query := f.Query
    if strings.TrimSpace(query) == "" { query = "-" }
    msg := f.Message
    if strings.TrimSpace(msg) == "" { msg = "-" }
    created := f.CreatedAt
    if created.IsZero() { created = time.Now() }
    _, err := r.db.ExecContext(ctx, q, query, f.ContentType, f.Kind, msg, created)
    return err
}

func (r *FaultRepository) Latest(ctx context.Context, limit int) ([]*domain.Fault, error) {
    if limit <= 0 { limit = 20 }
    const q = `
SELECT id, query, content_type, kind, message, created_at
FROM analysis_faults
ORDER BY created_at DESC, id DESC
LIMIT $1;`
    rows, err := r.db.QueryContext(ctx, q, limit)
    if err != nil { return nil, err }
    defer rows.Close()
    var out []*domain.Fault
    for rows.Next() {
        var f domain.Fault
        var created time.Time
        if err := rows.Scan(&f.ID, &f.Query, &f.ContentType, &f.Kind, &f.Message, &created); err != nil {
            return nil, err
        }
        f.CreatedAt = created
        out = append(out, &f)
    }
    return out, rows.Err()
}
