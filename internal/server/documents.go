package server

import (
	"context"
	"encoding/base64"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"google.golang.org/protobuf/types/known/structpb"

	"github.com/joseph-ayodele/medocs/constants"
	"github.com/joseph-ayodele/medocs/internal/common"
	"github.com/joseph-ayodele/medocs/internal/core"
	"github.com/joseph-ayodele/medocs/internal/core/search"
	"github.com/joseph-ayodele/medocs/internal/entity"
	"github.com/joseph-ayodele/medocs/internal/export"
	"github.com/joseph-ayodele/medocs/internal/repository"
)

// Uploader is satisfied by *core.Processor.
type Uploader interface {
	ProcessUpload(ctx context.Context, up core.Upload) (core.UploadResult, error)
}

// Searcher is satisfied by *search.Engine.
type Searcher interface {
	Search(ctx context.Context, query string, corpus []entity.StoredDocument, opts search.Options) []entity.SearchResult
}

type DocumentsService struct {
	uploader Uploader
	store    repository.DocumentStore
	searcher Searcher
	exporter *export.Service
	opts     search.Options
	logger   *slog.Logger
}

var _ DocumentsServer = (*DocumentsService)(nil)

func NewDocumentsService(uploader Uploader, store repository.DocumentStore, searcher Searcher, exporter *export.Service, opts search.Options, logger *slog.Logger) *DocumentsService {
	if logger == nil {
		logger = slog.Default()
	}
	return &DocumentsService{
		uploader: uploader,
		store:    store,
		searcher: searcher,
		exporter: exporter,
		opts:     opts,
		logger:   logger,
	}
}

// Process accepts {name, content_type, data (base64), ocr_method?} and returns
// {document, processed}.
func (s *DocumentsService) Process(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	logger := common.LoggerFromContext(ctx, s.logger)
	name := stringField(req, "name")
	contentType := stringField(req, "content_type")
	encoded := stringField(req, "data")
	methodName := strings.ToLower(strings.TrimSpace(stringField(req, "ocr_method")))

	v := common.NewValidator().
		Field("name", name, common.Required, common.MaxLength(255)).
		Field("content_type", contentType, common.Required).
		Field("data", encoded, common.Required)
	if err := common.ValidateAndReturnError(v); err != nil {
		logger.Warn("documents.process.invalid", "error", err)
		return nil, err
	}
	method, ok := constants.ParseOCRMethod(methodName)
	if !ok {
		return nil, common.InvalidArgumentErrorf("ocr_method %q must be one of auto, local, cloud", methodName)
	}
	data, err := base64.StdEncoding.DecodeString(encoded)
	if err != nil {
		return nil, common.InvalidArgumentError("data must be standard base64")
	}

	res, err := s.uploader.ProcessUpload(ctx, core.Upload{
		Name:        name,
		ContentType: contentType,
		Data:        data,
		Method:      method,
	})
	if err != nil {
		return nil, common.ToStatus(err)
	}
	return toStruct(res)
}

// Search accepts {query, enhance?} and returns {results}. It never fails on
// AI trouble; only a store failure is surfaced.
func (s *DocumentsService) Search(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	query := stringField(req, "query")
	v := common.NewValidator().Field("query", query, common.MaxLength(1000))
	if err := common.ValidateAndReturnError(v); err != nil {
		return nil, err
	}
	opts := s.opts
	if enhance, ok := boolField(req, "enhance"); ok {
		opts.Enhance = enhance
	}

	corpus, err := s.store.All(ctx)
	if err != nil {
		return nil, common.ToStatus(err)
	}
	results := s.searcher.Search(ctx, query, corpus, opts)
	return toStruct(map[string]any{"results": results})
}

// List accepts {type?} and returns {documents} in insertion order.
func (s *DocumentsService) List(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	docType := stringField(req, "type")
	v := common.NewValidator().Field("type", docType, common.OneOf(constants.DocumentTypesAsStrings()...))
	if err := common.ValidateAndReturnError(v); err != nil {
		return nil, err
	}
	docs, err := s.store.All(ctx)
	if err != nil {
		return nil, common.ToStatus(err)
	}
	out := make([]entity.StoredDocument, 0, len(docs))
	for _, d := range docs {
		if docType == "" || string(d.Type) == docType {
			out = append(out, d)
		}
	}
	return toStruct(map[string]any{"documents": out})
}

// Get accepts {id} and returns {document}.
func (s *DocumentsService) Get(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	id := stringField(req, "id")
	v := common.NewValidator().Field("id", id, common.Required, common.UUID)
	if err := common.ValidateAndReturnError(v); err != nil {
		return nil, err
	}
	doc, err := s.store.Find(ctx, uuid.MustParse(id))
	if err != nil {
		return nil, common.ToStatus(err)
	}
	return toStruct(map[string]any{"document": doc})
}

// Export accepts {query?, from_date?, to_date?} and returns {filename, xlsx
// (base64)}. With a query the workbook holds that query's results; otherwise
// the stored documents in the date window.
func (s *DocumentsService) Export(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	if s.exporter == nil {
		return nil, common.UnavailableError("export is not configured")
	}
	query := strings.TrimSpace(stringField(req, "query"))

	var (
		data     []byte
		filename string
		err      error
	)
	if query != "" {
		corpus, lerr := s.store.All(ctx)
		if lerr != nil {
			return nil, common.ToStatus(lerr)
		}
		data, err = s.exporter.SearchResultsXLSX(query, s.searcher.Search(ctx, query, corpus, s.opts))
		filename = "search-results.xlsx"
	} else {
		from, ferr := dateField(req, "from_date")
		if ferr != nil {
			return nil, ferr
		}
		to, terr := dateField(req, "to_date")
		if terr != nil {
			return nil, terr
		}
		data, err = s.exporter.DocumentsXLSX(ctx, from, to)
		filename = "documents.xlsx"
	}
	if err != nil {
		return nil, common.ToStatus(err)
	}
	return toStruct(map[string]any{
		"filename": filename,
		"xlsx":     base64.StdEncoding.EncodeToString(data),
	})
}

func dateField(req *structpb.Struct, key string) (*time.Time, error) {
	raw := strings.TrimSpace(stringField(req, key))
	if raw == "" {
		return nil, nil
	}
	t, err := time.Parse(entity.DateLayout, raw)
	if err != nil {
		return nil, common.InvalidArgumentErrorf("%s invalid (YYYY-MM-DD): %v", key, err)
	}
	return &t, nil
}
