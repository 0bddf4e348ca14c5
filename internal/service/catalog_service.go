package service

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"

	"github.com/JSSP85/SolarApp-sub002/config"
	"github.com/JSSP85/SolarApp-sub002/internal/dto"
)

// Workbook sheet names. The catalog spreadsheet is maintained by the
// quality office; the layout is fixed by convention.
const (
	sheetComponents = "Components" // Family | Code | Name
	sheetDimensions = "Dimensions" // Code | Dimension | Nominal | TolPlus | TolMinus
	sheetDrawings   = "Drawings"   // Code | ImageCode | File
)

// CatalogService serves the spreadsheet-backed component catalog.
// Read-only; loaded once at startup.
type CatalogService interface {
	Families() []string
	CodesForFamily(family string) []dto.CatalogCode
	DimensionsForCode(code string) []dto.CatalogDimension
	DrawingForCode(code string) *dto.DrawingResponse
}

type drawingRef struct {
	imageCode string
	file      string
}

type catalogService struct {
	families   []string
	codes      map[string][]dto.CatalogCode      // family → codes
	dimensions map[string][]dto.CatalogDimension // code → dims
	drawings   map[string]drawingRef             // code → drawing
	baseURL    string
	logger     *zap.Logger
}

// NewCatalogService loads the component workbook.
func NewCatalogService(cfg *config.CatalogConfig, logger *zap.Logger) (CatalogService, error) {
	f, err := excelize.OpenFile(cfg.WorkbookPath)
	if err != nil {
		return nil, fmt.Errorf("open catalog workbook: %w", err)
	}
	defer f.Close()

	svc := &catalogService{
		codes:      make(map[string][]dto.CatalogCode),
		dimensions: make(map[string][]dto.CatalogDimension),
		drawings:   make(map[string]drawingRef),
		baseURL:    strings.TrimRight(cfg.DrawingsBaseURL, "/"),
		logger:     logger,
	}

	if err := svc.loadComponents(f); err != nil {
		return nil, err
	}
	if err := svc.loadDimensions(f); err != nil {
		return nil, err
	}
	if err := svc.loadDrawings(f); err != nil {
		return nil, err
	}

	logger.Info("component catalog loaded",
		zap.String("workbook", cfg.WorkbookPath),
		zap.Int("families", len(svc.families)),
		zap.Int("codes", len(svc.dimensions)),
	)
	return svc, nil
}

// NewEmptyCatalogService builds a catalog where every lookup misses.
func NewEmptyCatalogService(logger *zap.Logger) CatalogService {
	return &catalogService{
		codes:      make(map[string][]dto.CatalogCode),
		dimensions: make(map[string][]dto.CatalogDimension),
		drawings:   make(map[string]drawingRef),
		logger:     logger,
	}
}

func (s *catalogService) loadComponents(f *excelize.File) error {
	rows, err := f.GetRows(sheetComponents)
	if err != nil {
		return fmt.Errorf("read %s sheet: %w", sheetComponents, err)
	}

	seen := make(map[string]bool)
	for i, row := range rows {
		if i == 0 || len(row) < 2 {
			continue // header or short row
		}
		family := strings.TrimSpace(row[0])
		code := strings.TrimSpace(row[1])
		if family == "" || code == "" {
			continue
		}
		name := code
		if len(row) > 2 && strings.TrimSpace(row[2]) != "" {
			name = strings.TrimSpace(row[2])
		}

		if !seen[family] {
			seen[family] = true
			s.families = append(s.families, family)
		}
		s.codes[family] = append(s.codes[family], dto.CatalogCode{Code: code, Name: name})
	}
	sort.Strings(s.families)
	return nil
}

func (s *catalogService) loadDimensions(f *excelize.File) error {
	rows, err := f.GetRows(sheetDimensions)
	if err != nil {
		return fmt.Errorf("read %s sheet: %w", sheetDimensions, err)
	}

	for i, row := range rows {
		if i == 0 || len(row) < 3 {
			continue
		}
		code := strings.TrimSpace(row[0])
		dimCode := strings.TrimSpace(row[1])
		if code == "" || dimCode == "" {
			continue
		}

		nominal, err := parseCell(row, 2)
		if err != nil {
			s.logger.Warn("skipping dimension row with bad nominal",
				zap.Int("row", i+1), zap.String("code", code))
			continue
		}
		tolPlus, _ := parseCell(row, 3)
		tolMinus, _ := parseCell(row, 4)

		s.dimensions[code] = append(s.dimensions[code], dto.CatalogDimension{
			Code:           dimCode,
			Nominal:        nominal,
			TolerancePlus:  tolPlus,
			ToleranceMinus: tolMinus,
		})
	}
	return nil
}

func (s *catalogService) loadDrawings(f *excelize.File) error {
	rows, err := f.GetRows(sheetDrawings)
	if err != nil {
		return fmt.Errorf("read %s sheet: %w", sheetDrawings, err)
	}

	for i, row := range rows {
		if i == 0 || len(row) < 3 {
			continue
		}
		code := strings.TrimSpace(row[0])
		if code == "" {
			continue
		}
		s.drawings[code] = drawingRef{
			imageCode: strings.TrimSpace(row[1]),
			file:      strings.TrimSpace(row[2]),
		}
	}
	return nil
}

func parseCell(row []string, idx int) (float64, error) {
	if idx >= len(row) {
		return 0, nil
	}
	cell := strings.TrimSpace(strings.ReplaceAll(row[idx], ",", "."))
	if cell == "" {
		return 0, nil
	}
	return strconv.ParseFloat(cell, 64)
}

func (s *catalogService) Families() []string {
	out := make([]string, len(s.families))
	copy(out, s.families)
	return out
}

func (s *catalogService) CodesForFamily(family string) []dto.CatalogCode {
	codes := s.codes[family]
	out := make([]dto.CatalogCode, len(codes))
	copy(out, codes)
	return out
}

func (s *catalogService) DimensionsForCode(code string) []dto.CatalogDimension {
	dims := s.dimensions[code]
	out := make([]dto.CatalogDimension, len(dims))
	copy(out, dims)
	return out
}

// DrawingForCode resolves a drawing reference. A miss is descriptive and
// never an error; the caller's form keeps working without the image.
func (s *catalogService) DrawingForCode(code string) *dto.DrawingResponse {
	ref, ok := s.drawings[code]
	if !ok || ref.file == "" {
		return &dto.DrawingResponse{
			Found:        false,
			ErrorMessage: fmt.Sprintf("no drawing available for component code %q", code),
		}
	}

	src := ref.file
	if s.baseURL != "" {
		src = s.baseURL + "/" + strings.TrimLeft(ref.file, "/")
	}
	return &dto.DrawingResponse{
		Found:     true,
		Src:       src,
		ImageCode: ref.imageCode,
	}
}
