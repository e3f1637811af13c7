// Package export builds the downloadable batch documents: the printable
// xlsx batch sheet and its PDF rendition.
package export

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/auctionhouse/backend/internal/application/intake"
	"github.com/auctionhouse/backend/internal/domain/catalog"
	"github.com/auctionhouse/backend/internal/domain/shared"
	"github.com/auctionhouse/backend/internal/infrastructure/imagestore"
	"github.com/auctionhouse/backend/internal/infrastructure/pdfconvert"
	"github.com/auctionhouse/backend/internal/infrastructure/sheet"
	"go.uber.org/zap"
)

// MIME types of the download surface
const (
	MIMEXLSX = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	MIMEPDF  = "application/pdf"
)

// File is a named binary blob ready to be sent as a download.
type File struct {
	Name string
	MIME string
	Data []byte
}

// PrecheckResult reports which items of a batch have no usable photo.
type PrecheckResult struct {
	Total   int      `json:"total"`
	Missing []string `json:"missing"`
}

// OK reports whether every item has a resolvable image.
func (r PrecheckResult) OK() bool { return len(r.Missing) == 0 }

// MissingImagesError refuses an export while any item photo is missing,
// carrying the offending item codes for the operator.
type MissingImagesError struct {
	Codes []string
}

func (e *MissingImagesError) Error() string {
	return fmt.Sprintf("batch has %d items without images: %s",
		len(e.Codes), strings.Join(e.Codes, ", "))
}

// Service assembles batch exports from the catalog repositories and the
// injected rendering capabilities.
type Service struct {
	scope     intake.TransactionScope
	resolver  imagestore.Resolver
	builder   sheet.Builder
	converter pdfconvert.Converter
	exportDir string
	logger    *zap.Logger
}

// NewService creates an export service. Builder and converter are
// capabilities; pass sheet.Unavailable / pdfconvert.Unavailable when the
// deployment lacks them and callers get a distinct "feature unavailable"
// error instead of a crash.
func NewService(
	scope intake.TransactionScope,
	resolver imagestore.Resolver,
	builder sheet.Builder,
	converter pdfconvert.Converter,
	exportDir string,
	logger *zap.Logger,
) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{
		scope:     scope,
		resolver:  resolver,
		builder:   builder,
		converter: converter,
		exportDir: exportDir,
		logger:    logger,
	}
}

// batchData is everything one export call reads from the store.
type batchData struct {
	key           catalog.BatchKey
	consignorName string
	items         []*catalog.Item
}

func (s *Service) fetch(ctx context.Context, intakeDate, consignorCode string) (*batchData, error) {
	key, err := intake.ParseBatchKey(intakeDate, consignorCode)
	if err != nil {
		return nil, err
	}

	data := &batchData{key: key}
	err = s.scope.Execute(ctx, func(repos intake.TransactionalRepositories) error {
		consignor, err := repos.Consignors().FindByCode(ctx, key.ConsignorCode)
		switch {
		case errors.Is(err, shared.ErrNotFound):
			data.consignorName = key.ConsignorCode
		case err != nil:
			return err
		default:
			data.consignorName = consignor.DisplayName()
		}

		data.items, err = repos.Items().FindByBatch(ctx, key)
		return err
	})
	if err != nil {
		return nil, err
	}

	catalog.SortByCode(data.items, func(i *catalog.Item) string { return i.Code })
	return data, nil
}

func (s *Service) missingImages(items []*catalog.Item) []string {
	missing := make([]string, 0)
	for _, it := range items {
		ref := strings.TrimSpace(it.ImageRef())
		if ref == "" || !s.resolver.Exists(ref) {
			missing = append(missing, it.Code)
		}
	}
	return missing
}

// Precheck lists the item codes whose photos are missing or unreadable.
func (s *Service) Precheck(ctx context.Context, intakeDate, consignorCode string) (*PrecheckResult, error) {
	data, err := s.fetch(ctx, intakeDate, consignorCode)
	if err != nil {
		return nil, err
	}
	return &PrecheckResult{
		Total:   len(data.items),
		Missing: s.missingImages(data.items),
	}, nil
}

// ExportWorkbook renders the batch sheet and returns it as a named download.
// It refuses with MissingImagesError while any item photo is missing.
func (s *Service) ExportWorkbook(ctx context.Context, intakeDate, consignorCode string) (*File, error) {
	data, err := s.fetch(ctx, intakeDate, consignorCode)
	if err != nil {
		return nil, err
	}
	if missing := s.missingImages(data.items); len(missing) > 0 {
		return nil, &MissingImagesError{Codes: missing}
	}
	return s.buildWorkbook(data)
}

func (s *Service) buildWorkbook(data *batchData) (*File, error) {
	rows := make([]sheet.Row, 0, len(data.items))
	for _, it := range data.items {
		row := sheet.Row{
			Code:      it.Code,
			ImagePath: it.ImageRef(),
		}
		if it.Name != nil {
			row.Name = *it.Name
		}
		if it.Notes != nil {
			row.Notes = *it.Notes
		}
		if it.StartingPrice != nil {
			v, _ := it.StartingPrice.Float64()
			row.StartingPrice = &v
		}
		if it.ReservePrice != nil {
			v, _ := it.ReservePrice.Float64()
			row.ReservePrice = &v
		}
		rows = append(rows, row)
	}

	batchCode := data.key.BatchCode()
	bytes, err := s.builder.Build(sheet.BatchInfo{
		BatchCode:     batchCode,
		ConsignorName: data.consignorName,
		ItemCount:     len(rows),
		GeneratedAt:   time.Now(),
	}, rows)
	if err != nil {
		return nil, err
	}

	s.logger.Info("batch workbook built",
		zap.String("batch_code", batchCode),
		zap.Int("items", len(rows)),
		zap.Int("bytes", len(bytes)))
	return &File{Name: batchCode + ".xlsx", MIME: MIMEXLSX, Data: bytes}, nil
}

// ExportPDF renders the batch sheet, converts it through the office host and
// persists the PDF under {exportDir}/pdf/{BatchCode}.pdf so repeated exports
// overwrite predictably. The converted bytes are also returned for download.
func (s *Service) ExportPDF(ctx context.Context, intakeDate, consignorCode string) (*File, error) {
	data, err := s.fetch(ctx, intakeDate, consignorCode)
	if err != nil {
		return nil, err
	}
	if missing := s.missingImages(data.items); len(missing) > 0 {
		return nil, &MissingImagesError{Codes: missing}
	}

	workbook, err := s.buildWorkbook(data)
	if err != nil {
		return nil, err
	}

	batchCode := data.key.BatchCode()
	tmpXLSX := filepath.Join(os.TempDir(), workbook.Name)
	if err := os.WriteFile(tmpXLSX, workbook.Data, 0o644); err != nil {
		return nil, fmt.Errorf("write temporary spreadsheet: %w", err)
	}
	defer os.Remove(tmpXLSX)

	pdfPath := filepath.Join(s.exportDir, "pdf", batchCode+".pdf")
	if err := s.converter.Convert(ctx, tmpXLSX, pdfPath); err != nil {
		return nil, err
	}

	pdfBytes, err := os.ReadFile(pdfPath)
	if err != nil {
		return nil, fmt.Errorf("read converted PDF: %w", err)
	}

	s.logger.Info("batch PDF exported",
		zap.String("batch_code", batchCode),
		zap.String("path", pdfPath),
		zap.Int("bytes", len(pdfBytes)))
	return &File{Name: batchCode + ".pdf", MIME: MIMEPDF, Data: pdfBytes}, nil
}
