package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	entsql "entgo.io/ent/dialect/sql"
	"github.com/google/uuid"

	"github.com/joseph-ayodele/medocs/constants"
	"github.com/joseph-ayodele/medocs/internal/common"
	"github.com/joseph-ayodele/medocs/internal/entity"
)

const documentsTable = "documents"

// Fixed width so lexical order on created_at is chronological.
const timestampLayout = "2006-01-02T15:04:05.000000000Z"

var documentColumns = []string{
	"id", "name", "doc_type", "doc_date", "doctor", "hospital", "summary",
	"tags", "content", "confidence", "created_at",
}

// SQLStore persists documents through an ent dialect driver, so the same
// code serves SQLite and PostgreSQL.
type SQLStore struct {
	drv    *entsql.Driver
	logger *slog.Logger
	now    func() time.Time
}

func NewSQLStore(drv *entsql.Driver, logger *slog.Logger) *SQLStore {
	if logger == nil {
		logger = slog.Default()
	}
	return &SQLStore{drv: drv, logger: logger.With("component", "store", "dialect", drv.Dialect()), now: time.Now}
}

// Migrate creates the documents table when missing.
func (s *SQLStore) Migrate(ctx context.Context) error {
	if err := s.drv.Exec(ctx, createTableQuery(s.drv.Dialect()), []any{}, nil); err != nil {
		s.logger.Error("store.migrate.failed", "error", err)
		return common.NewAppError(common.CodeStore, "create documents table", errors.Join(common.ErrDatabase, err))
	}
	return nil
}

func createTableQuery(dialect string) string {
	d := entsql.Dialect(dialect)
	columns := []entsql.Querier{
		d.Column("id").Type("varchar(36) NOT NULL"),
		d.Column("name").Type("text NOT NULL"),
		d.Column("doc_type").Type("varchar(32) NOT NULL"),
		d.Column("doc_date").Type("varchar(10) NOT NULL"),
		d.Column("doctor").Type("text"),
		d.Column("hospital").Type("text"),
		d.Column("summary").Type("text"),
		d.Column("tags").Type("text NOT NULL"),
		d.Column("content").Type("text"),
		d.Column("confidence").Type("double precision NOT NULL"),
		d.Column("created_at").Type("varchar(40) NOT NULL"),
	}
	return d.String(func(b *entsql.Builder) {
		b.WriteString("CREATE TABLE IF NOT EXISTS ").Ident(documentsTable).Pad().Wrap(func(b *entsql.Builder) {
			b.JoinComma(columns...).Comma().WriteString("PRIMARY KEY ").Wrap(func(b *entsql.Builder) {
				b.Ident("id")
			})
		})
	})
}

func (s *SQLStore) Append(ctx context.Context, doc entity.StoredDocument) (entity.StoredDocument, error) {
	doc = prepare(doc, s.now)
	tags, err := json.Marshal(doc.Tags)
	if err != nil {
		return entity.StoredDocument{}, fmt.Errorf("encode tags: %w", err)
	}
	q, args := entsql.Dialect(s.drv.Dialect()).
		Insert(documentsTable).
		Columns(documentColumns...).
		Values(
			doc.ID.String(),
			doc.Name,
			string(doc.Type),
			doc.Date.Format(entity.DateLayout),
			nullable(doc.Doctor),
			nullable(doc.Hospital),
			nullable(doc.Summary),
			string(tags),
			nullable(doc.Content),
			doc.Confidence,
			doc.CreatedAt.UTC().Format(timestampLayout),
		).
		Query()
	if err := s.drv.Exec(ctx, q, args, nil); err != nil {
		s.logger.Error("store.append.failed", "id", doc.ID, "error", err)
		return entity.StoredDocument{}, common.NewAppError(common.CodeStore, "insert document", errors.Join(common.ErrDatabase, err))
	}
	s.logger.Debug("store.append.ok", "id", doc.ID, "type", doc.Type)
	return doc, nil
}

func (s *SQLStore) All(ctx context.Context) ([]entity.StoredDocument, error) {
	sel := entsql.Dialect(s.drv.Dialect()).
		Select(documentColumns...).
		From(entsql.Table(documentsTable)).
		OrderBy("created_at", "id")
	return s.query(ctx, sel)
}

func (s *SQLStore) Find(ctx context.Context, id uuid.UUID) (entity.StoredDocument, error) {
	sel := entsql.Dialect(s.drv.Dialect()).
		Select(documentColumns...).
		From(entsql.Table(documentsTable)).
		Where(entsql.EQ("id", id.String()))
	docs, err := s.query(ctx, sel)
	if err != nil {
		return entity.StoredDocument{}, err
	}
	if len(docs) == 0 {
		return entity.StoredDocument{}, fmt.Errorf("document %s: %w", id, common.ErrNotFound)
	}
	return docs[0], nil
}

func (s *SQLStore) query(ctx context.Context, sel *entsql.Selector) ([]entity.StoredDocument, error) {
	q, args := sel.Query()
	rows := &entsql.Rows{}
	if err := s.drv.Query(ctx, q, args, rows); err != nil {
		s.logger.Error("store.query.failed", "error", err)
		return nil, common.NewAppError(common.CodeStore, "query documents", errors.Join(common.ErrDatabase, err))
	}
	defer func() {
		if err := rows.Close(); err != nil {
			s.logger.Warn("store.rows.close_failed", "error", err)
		}
	}()

	out := make([]entity.StoredDocument, 0)
	for rows.Next() {
		doc, err := scanDocument(rows)
		if err != nil {
			return nil, common.NewAppError(common.CodeStore, "scan document", errors.Join(common.ErrDatabase, err))
		}
		out = append(out, doc)
	}
	if err := rows.Err(); err != nil {
		return nil, common.NewAppError(common.CodeStore, "iterate documents", errors.Join(common.ErrDatabase, err))
	}
	return out, nil
}

func scanDocument(rows *entsql.Rows) (entity.StoredDocument, error) {
	var (
		doc                                 entity.StoredDocument
		id, docType, docDate, tags, created string
		doctor, hospital, summary, content  sql.NullString
	)
	if err := rows.Scan(&id, &doc.Name, &docType, &docDate, &doctor, &hospital, &summary, &tags, &content, &doc.Confidence, &created); err != nil {
		return doc, err
	}
	var err error
	if doc.ID, err = uuid.Parse(id); err != nil {
		return doc, fmt.Errorf("parse id %q: %w", id, err)
	}
	if doc.Date, err = time.Parse(entity.DateLayout, docDate); err != nil {
		return doc, fmt.Errorf("parse doc_date %q: %w", docDate, err)
	}
	if doc.CreatedAt, err = time.Parse(timestampLayout, created); err != nil {
		return doc, fmt.Errorf("parse created_at %q: %w", created, err)
	}
	if err := json.Unmarshal([]byte(tags), &doc.Tags); err != nil {
		return doc, fmt.Errorf("decode tags: %w", err)
	}
	doc.Type, _ = constants.Canonicalize(docType)
	doc.Doctor = fromNull(doctor)
	doc.Hospital = fromNull(hospital)
	doc.Summary = fromNull(summary)
	doc.Content = fromNull(content)
	return doc, nil
}

func nullable(p *string) any {
	if p == nil {
		return nil
	}
	return *p
}

func fromNull(ns sql.NullString) *string {
	if !ns.Valid {
		return nil
	}
	v := ns.String
	return &v
}
