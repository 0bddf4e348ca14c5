package service

import (
	"path/filepath"
	"strings"
	"testing"

	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"

	"github.com/JSSP85/SolarApp-sub002/config"
)

// writeTestWorkbook builds a minimal catalog workbook on disk.
func writeTestWorkbook(t *testing.T) string {
	t.Helper()

	f := excelize.NewFile()
	defer f.Close()

	f.SetSheetName("Sheet1", sheetComponents)
	components := [][]interface{}{
		{"Family", "Code", "Name"},
		{"Torque Tubes", "TT-200", "Torque tube 200mm"},
		{"Torque Tubes", "TT-300", "Torque tube 300mm"},
		{"Piles", "PL-100", "Pile 100"},
	}
	for i, row := range components {
		cell, _ := excelize.CoordinatesToCellName(1, i+1)
		if err := f.SetSheetRow(sheetComponents, cell, &row); err != nil {
			t.Fatalf("write components: %v", err)
		}
	}

	if _, err := f.NewSheet(sheetDimensions); err != nil {
		t.Fatalf("create dimensions sheet: %v", err)
	}
	dimensions := [][]interface{}{
		{"Code", "Dimension", "Nominal", "TolPlus", "TolMinus"},
		{"TT-200", "A", "200,5", "0,5", "0,5"}, // decimal comma
		{"TT-200", "B", "12", "1", "1"},
	}
	for i, row := range dimensions {
		cell, _ := excelize.CoordinatesToCellName(1, i+1)
		if err := f.SetSheetRow(sheetDimensions, cell, &row); err != nil {
			t.Fatalf("write dimensions: %v", err)
		}
	}

	if _, err := f.NewSheet(sheetDrawings); err != nil {
		t.Fatalf("create drawings sheet: %v", err)
	}
	drawings := [][]interface{}{
		{"Code", "ImageCode", "File"},
		{"TT-200", "DRW-TT200", "tt200.png"},
	}
	for i, row := range drawings {
		cell, _ := excelize.CoordinatesToCellName(1, i+1)
		if err := f.SetSheetRow(sheetDrawings, cell, &row); err != nil {
			t.Fatalf("write drawings: %v", err)
		}
	}

	path := filepath.Join(t.TempDir(), "catalog.xlsx")
	if err := f.SaveAs(path); err != nil {
		t.Fatalf("save workbook: %v", err)
	}
	return path
}

func setupTestCatalogService(t *testing.T) CatalogService {
	t.Helper()
	svc, err := NewCatalogService(&config.CatalogConfig{
		WorkbookPath:    writeTestWorkbook(t),
		DrawingsBaseURL: "https://drawings.example.com/",
	}, zap.NewNop())
	if err != nil {
		t.Fatalf("NewCatalogService should succeed: %v", err)
	}
	return svc
}

func TestCatalogService_Families(t *testing.T) {
	svc := setupTestCatalogService(t)

	families := svc.Families()
	if len(families) != 2 {
		t.Fatalf("expected 2 families, got %v", families)
	}
	// sorted
	if families[0] != "Piles" || families[1] != "Torque Tubes" {
		t.Errorf("expected sorted families, got %v", families)
	}
}

func TestCatalogService_CodesForFamily(t *testing.T) {
	svc := setupTestCatalogService(t)

	codes := svc.CodesForFamily("Torque Tubes")
	if len(codes) != 2 {
		t.Fatalf("expected 2 codes, got %v", codes)
	}
	if codes[0].Code != "TT-200" || codes[0].Name != "Torque tube 200mm" {
		t.Errorf("unexpected first code %+v", codes[0])
	}

	if len(svc.CodesForFamily("Unknown")) != 0 {
		t.Error("unknown family should return no codes")
	}
}

func TestCatalogService_DimensionsForCode_DecimalComma(t *testing.T) {
	svc := setupTestCatalogService(t)

	dims := svc.DimensionsForCode("TT-200")
	if len(dims) != 2 {
		t.Fatalf("expected 2 dimensions, got %v", dims)
	}
	if dims[0].Nominal != 200.5 {
		t.Errorf("decimal comma should parse as 200.5, got %f", dims[0].Nominal)
	}
	if dims[0].TolerancePlus != 0.5 || dims[0].ToleranceMinus != 0.5 {
		t.Errorf("unexpected tolerances %+v", dims[0])
	}
}

func TestCatalogService_DrawingForCode(t *testing.T) {
	svc := setupTestCatalogService(t)

	hit := svc.DrawingForCode("TT-200")
	if !hit.Found {
		t.Fatalf("expected a drawing hit, got %+v", hit)
	}
	if hit.Src != "https://drawings.example.com/tt200.png" {
		t.Errorf("unexpected src %s", hit.Src)
	}
	if hit.ImageCode != "DRW-TT200" {
		t.Errorf("unexpected image code %s", hit.ImageCode)
	}

	miss := svc.DrawingForCode("PL-100")
	if miss.Found {
		t.Error("expected a miss for a code without a drawing")
	}
	if !strings.Contains(miss.ErrorMessage, "PL-100") {
		t.Errorf("miss message should name the code, got %q", miss.ErrorMessage)
	}
}

func TestCatalogService_EmptyCatalogMissesGracefully(t *testing.T) {
	svc := NewEmptyCatalogService(zap.NewNop())

	if len(svc.Families()) != 0 {
		t.Error("empty catalog should have no families")
	}
	miss := svc.DrawingForCode("TT-200")
	if miss.Found {
		t.Error("empty catalog lookups must miss")
	}
}
