package knowledge

import (
	"context"
	"fmt"
	"path"
	"strings"
	"time"

	"github.com/gabriel-vasile/mimetype"
	"github.com/rs/zerolog"

	"github.com/aifirstlegal/masterclass-server/internal/utils/idgen"
	"github.com/aifirstlegal/masterclass-server/internal/utils/platformerrors"
)

const (
	defaultFileType     = "application/octet-stream"
	missingFieldsReason = "Filename, content, and fileType are required"
)

// Service defines knowledge-base operations.
type Service interface {
	Upload(ctx context.Context, params UploadParams) (*Document, error)
	UploadFile(ctx context.Context, params FileParams) (*Document, error)
	List(ctx context.Context) ([]*Document, error)
	SetStatus(ctx context.Context, id string, status Status) (*Document, error)
	Delete(ctx context.Context, id string) error
	// ActiveContents returns the content of up to limit active documents.
	ActiveContents(ctx context.Context, limit int) ([]string, error)
}

// Config holds upload limits.
type Config struct {
	MaxFileBytes int64
}

// DefaultService implements the Service interface.
type DefaultService struct {
	repo    Repository
	objects ObjectStore
	cfg     Config
	log     zerolog.Logger
	now     func() time.Time
}

// NewService creates a new knowledge service. objects may be nil.
func NewService(repo Repository, objects ObjectStore, cfg Config, log zerolog.Logger) *DefaultService {
	if cfg.MaxFileBytes <= 0 {
		cfg.MaxFileBytes = 5 * 1024 * 1024
	}
	return &DefaultService{
		repo:    repo,
		objects: objects,
		cfg:     cfg,
		log:     log.With().Str("component", "knowledge-service").Logger(),
		now:     time.Now,
	}
}

func (s *DefaultService) Upload(ctx context.Context, params UploadParams) (*Document, error) {
	return s.create(ctx, params, "", "")
}

func (s *DefaultService) create(ctx context.Context, params UploadParams, detected, storageKey string) (*Document, error) {
	if params.Filename == "" || params.Content == "" || params.FileType == "" {
		return nil, platformerrors.NewError(ctx, platformerrors.LayerDomain, platformerrors.ErrorTypeValidation,
			missingFieldsReason, nil, "knowledge-upload-validation-001").
			WithDetails(map[string]bool{
				"filename": params.Filename != "",
				"content":  params.Content != "",
				"fileType": params.FileType != "",
			})
	}

	size := params.FileSize
	if size <= 0 {
		size = int64(len(params.Content))
	}

	now := s.now().UTC()
	doc := &Document{
		ID:           idgen.NewRowID(),
		Filename:     params.Filename,
		Content:      params.Content,
		FileType:     params.FileType,
		FileSize:     size,
		DetectedType: detected,
		StorageKey:   storageKey,
		Status:       StatusActive,
		UploadDate:   now,
		UpdatedAt:    now,
	}
	if err := s.repo.Create(ctx, doc); err != nil {
		return nil, err
	}

	s.log.Info().Str("document_id", doc.ID).Str("filename", doc.Filename).Int64("size", doc.FileSize).Msg("knowledge document stored")
	return doc, nil
}

func (s *DefaultService) UploadFile(ctx context.Context, params FileParams) (*Document, error) {
	name := strings.TrimSpace(params.Filename)
	if name == "" || len(params.Data) == 0 {
		return nil, platformerrors.NewError(ctx, platformerrors.LayerDomain, platformerrors.ErrorTypeValidation,
			"file is empty or has no name", nil, "knowledge-file-validation-001")
	}
	size := int64(len(params.Data))
	if size > s.cfg.MaxFileBytes {
		return nil, platformerrors.NewError(ctx, platformerrors.LayerDomain, platformerrors.ErrorTypeValidation,
			fmt.Sprintf("%s is larger than %d bytes", name, s.cfg.MaxFileBytes), nil, "knowledge-file-too-large-001")
	}

	detected := mimetype.Detect(params.Data)
	fileType := strings.TrimSpace(params.DeclaredType)
	if fileType == "" {
		fileType = baseType(detected.String())
	}
	if fileType == "" {
		fileType = defaultFileType
	}

	content := extractContent(name, fileType, detected, params.Data)

	id := idgen.NewRowID()
	storageKey := ""
	if s.objects != nil && s.objects.Enabled() {
		key := path.Join("knowledge", id, path.Base(name))
		if err := s.objects.Upload(ctx, key, params.Data, fileType); err != nil {
			s.log.Warn().Err(err).Str("filename", name).Msg("archive knowledge original failed")
		} else {
			storageKey = key
		}
	}

	return s.create(ctx, UploadParams{
		Filename: name,
		Content:  content,
		FileType: fileType,
		FileSize: size,
	}, baseType(detected.String()), storageKey)
}

func (s *DefaultService) List(ctx context.Context) ([]*Document, error) {
	return s.repo.List(ctx)
}

func (s *DefaultService) SetStatus(ctx context.Context, id string, status Status) (*Document, error) {
	if !status.Valid() {
		return nil, platformerrors.NewError(ctx, platformerrors.LayerDomain, platformerrors.ErrorTypeValidation,
			"status must be active or inactive", nil, "knowledge-status-validation-001")
	}
	if err := s.repo.UpdateStatus(ctx, id, status); err != nil {
		return nil, err
	}
	return s.repo.FindByID(ctx, id)
}

func (s *DefaultService) Delete(ctx context.Context, id string) error {
	if _, err := s.repo.FindByID(ctx, id); err != nil {
		return err
	}
	return s.repo.Delete(ctx, id)
}

func (s *DefaultService) ActiveContents(ctx context.Context, limit int) ([]string, error) {
	docs, err := s.repo.ListActive(ctx, limit)
	if err != nil {
		return nil, err
	}
	contents := make([]string, 0, len(docs))
	for _, doc := range docs {
		contents = append(contents, doc.Content)
	}
	return contents, nil
}

func extractContent(name, fileType string, detected *mimetype.MIME, data []byte) string {
	lower := strings.ToLower(name)
	switch {
	case fileType == "application/pdf" || detected.Is("application/pdf"):
		return fmt.Sprintf("PDF file: %s (%d bytes). Content extraction is not supported for PDF files.", name, len(data))
	case isTextual(fileType, detected), strings.HasSuffix(lower, ".md"), strings.HasSuffix(lower, ".txt"):
		return strings.ToValidUTF8(string(data), "")
	default:
		return fmt.Sprintf("File: %s (%s, %d bytes). Content extraction not supported for this file type.", name, fileType, len(data))
	}
}

func isTextual(fileType string, detected *mimetype.MIME) bool {
	if strings.HasPrefix(fileType, "text/") || fileType == "application/json" {
		return true
	}
	for m := detected; m != nil; m = m.Parent() {
		if m.Is("text/plain") || m.Is("application/json") {
			return true
		}
	}
	return false
}

func baseType(mime string) string {
	if idx := strings.Index(mime, ";"); idx >= 0 {
		mime = mime[:idx]
	}
	return strings.TrimSpace(mime)
}
