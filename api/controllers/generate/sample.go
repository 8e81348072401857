package generate_controller

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/gofiber/fiber/v2"
	"github.com/sunthewhat/easy-cert-batch/type/response"
	"github.com/xuri/excelize/v2"
)

const sampleFilename = "sample.xlsx"

var sampleHeader = []any{"Имя/Name", "Фамилия/Surname", "Название тренинга/Название", "Даты/Дата", "ID", "Город/City", "Страна/Country"}

var sampleRows = [][]any{
	{"Anna", "Ivanova", "Project Management", "10.01.25 - 17.01.25", "CERT-001", "Москва", "Россия"},
	{"John", "Smith", "Go Fundamentals", "5 March 2025", "CERT-002", "London", "UK"},
}

// SampleExcel serves the configured sample workbook, or a generated one
// showing the recognised headers when none is configured.
func (ctrl *GenerateController) SampleExcel(c *fiber.Ctx) error {
	if ctrl.sampleWorkbook != "" {
		if _, err := os.Stat(ctrl.sampleWorkbook); err == nil {
			return c.Download(ctrl.sampleWorkbook, sampleFilename)
		}
		slog.Warn("Configured sample workbook not found, generating one", "path", ctrl.sampleWorkbook)
	}

	data, err := BuildSampleWorkbook()
	if err != nil {
		slog.Error("Failed to build sample workbook", "error", err)
		return response.SendError(c, "Failed to build sample workbook")
	}

	c.Set(fiber.HeaderContentType, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	c.Set(fiber.HeaderContentDisposition, fmt.Sprintf(`attachment; filename="%s"`, sampleFilename))
	return c.Status(fiber.StatusOK).Send(data)
}

// BuildSampleWorkbook writes the sample header and rows into a new workbook.
func BuildSampleWorkbook() ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	sheet := f.GetSheetName(0)
	if err := f.SetSheetRow(sheet, "A1", &sampleHeader); err != nil {
		return nil, fmt.Errorf("write header: %w", err)
	}
	for i, row := range sampleRows {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return nil, err
		}
		if err := f.SetSheetRow(sheet, cell, &row); err != nil {
			return nil, fmt.Errorf("write row %d: %w", i+2, err)
		}
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("write workbook: %w", err)
	}
	return buf.Bytes(), nil
}
