package service

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"time"

	ics "github.com/arran4/golang-ical"
	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"

	"github.com/JSSP85/SolarApp-sub002/internal/model"
	"github.com/JSSP85/SolarApp-sub002/internal/repository"
	"github.com/JSSP85/SolarApp-sub002/pkg/dates"
)

// ── export business errors ──

var (
	ErrExportNoRecords = errors.New("no non-conformities to export")
	ErrExportGenerate  = errors.New("generate export file failed")
)

// ExportService produces downloadable views of the NC register.
//
// Design notes:
//   - The register exports to Excel (.xlsx); the buffer is returned and
//     the handler sets the HTTP headers.
//   - Open records with a planned closure date export as an iCalendar
//     feed so inspectors can subscribe to closure deadlines.
type ExportService interface {
	// ExportRegister exports the filtered NC register to Excel.
	ExportRegister(ctx context.Context, f *repository.NCListFilters) (*bytes.Buffer, string, error)
	// ExportClosureCalendar exports planned closure dates as an ICS feed.
	ExportClosureCalendar(ctx context.Context) (string, string, error)
}

type exportService struct {
	repo   *repository.Repository
	logger *zap.Logger
}

// NewExportService creates an ExportService instance.
func NewExportService(repo *repository.Repository, logger *zap.Logger) ExportService {
	return &exportService{repo: repo, logger: logger}
}

// registerHeader is the column layout of the register sheet.
var registerHeader = []string{
	"Number", "Status", "Priority", "Project", "Supplier", "Component Code",
	"Component", "Quantity", "Description", "Detection Source",
	"Created", "Planned Closure", "Actual Closure", "Days Open",
}

func (s *exportService) ExportRegister(ctx context.Context, f *repository.NCListFilters) (*bytes.Buffer, string, error) {
	ncs, err := s.repo.NC.List(ctx, f, 0)
	if err != nil {
		s.logger.Error("export fetch failed", zap.Error(err))
		return nil, "", err
	}
	if len(ncs) == 0 {
		return nil, "", ErrExportNoRecords
	}

	file := excelize.NewFile()
	defer file.Close()

	const sheet = "NC Register"
	file.SetSheetName("Sheet1", sheet)

	for col, title := range registerHeader {
		cell, _ := excelize.CoordinatesToCellName(col+1, 1)
		if err := file.SetCellValue(sheet, cell, title); err != nil {
			return nil, "", ErrExportGenerate
		}
	}

	headerStyle, err := file.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
		Fill: excelize.Fill{Type: "pattern", Color: []string{"DDDDDD"}, Pattern: 1},
	})
	if err == nil {
		last, _ := excelize.CoordinatesToCellName(len(registerHeader), 1)
		_ = file.SetCellStyle(sheet, "A1", last, headerStyle)
	}

	for i := range ncs {
		nc := &ncs[i]
		values := []interface{}{
			nc.Number, nc.Status, nc.Priority, nc.Project, nc.Supplier,
			nc.ComponentCode, nc.Component, nc.Quantity, nc.Description,
			nc.DetectionSource,
			dates.Format(nc.CreatedDate),
			dates.FormatPtr(nc.PlannedClosureDate),
			dates.FormatPtr(nc.ActualClosureDate),
			nc.DaysOpen(),
		}
		for col, v := range values {
			cell, _ := excelize.CoordinatesToCellName(col+1, i+2)
			if err := file.SetCellValue(sheet, cell, v); err != nil {
				return nil, "", ErrExportGenerate
			}
		}
	}

	buf, err := file.WriteToBuffer()
	if err != nil {
		s.logger.Error("write excel buffer failed", zap.Error(err))
		return nil, "", ErrExportGenerate
	}

	filename := fmt.Sprintf("nc-register-%s.xlsx", time.Now().Format("2006-01-02"))
	return buf, filename, nil
}

func (s *exportService) ExportClosureCalendar(ctx context.Context) (string, string, error) {
	ncs, err := s.repo.NC.List(ctx, nil, 0)
	if err != nil {
		s.logger.Error("calendar fetch failed", zap.Error(err))
		return "", "", err
	}

	cal := ics.NewCalendar()
	cal.SetMethod(ics.MethodPublish)
	cal.SetProductId("-//SolarApp//NC Tracker//EN")

	count := 0
	for i := range ncs {
		nc := &ncs[i]
		if model.IsClosure(nc.Status) || nc.PlannedClosureDate == nil {
			continue
		}

		event := cal.AddEvent(nc.NCID + "@solar-qc")
		event.SetCreatedTime(nc.CreatedAt)
		event.SetDtStampTime(time.Now())
		event.SetAllDayStartAt(*nc.PlannedClosureDate)
		event.SetAllDayEndAt(nc.PlannedClosureDate.AddDate(0, 0, 1))
		event.SetSummary(fmt.Sprintf("%s closure due: %s", nc.Number, nc.Project))
		event.SetDescription(nc.Description)
		count++
	}

	if count == 0 {
		return "", "", ErrExportNoRecords
	}

	filename := fmt.Sprintf("nc-closures-%s.ics", time.Now().Format("2006-01-02"))
	return cal.Serialize(), filename, nil
}
