// Package reports строит Excel-выгрузки.
package reports

import (
	"bytes"
	"fmt"
	"time"

	"github.com/xuri/excelize/v2"

	"tanukibot/internal/models"
)

const LeadsSheet = "Заявки"

var leadsHeaders = []string{"ID", "Дата", "ФИО", "Авто", "Телефон", "Пользователь", "Telegram ID"}

// BuildLeadsWorkbook строит XLSX с заявками.
// BuildLeadsWorkbook renders leads into an in-memory XLSX file.
func BuildLeadsWorkbook(leads []models.LeadView) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	index, err := f.NewSheet(LeadsSheet)
	if err != nil {
		return nil, fmt.Errorf("reports: new sheet: %w", err)
	}
	f.SetActiveSheet(index)
	if err := f.DeleteSheet("Sheet1"); err != nil { // Удаляем стандартный лист / Delete default sheet
		return nil, fmt.Errorf("reports: delete default sheet: %w", err)
	}

	for i, header := range leadsHeaders {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		f.SetCellValue(LeadsSheet, cell, header)
	}

	for i, l := range leads {
		row := i + 2
		user := l.Fullname
		if l.Username != "" {
			user = "@" + l.Username
		}
		values := []interface{}{l.ID, l.CreatedAt.Format("02.01.2006 15:04"), l.FIO, l.CarInfo, l.Phone, user, l.TelegramID}
		for col, v := range values {
			cell, _ := excelize.CoordinatesToCellName(col+1, row)
			f.SetCellValue(LeadsSheet, cell, v)
		}
	}
	f.SetColWidth(LeadsSheet, "C", "D", 40)

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		return nil, fmt.Errorf("reports: write xlsx: %w", err)
	}
	return buf.Bytes(), nil
}

// LeadsFileName - имя файла выгрузки на момент now.
func LeadsFileName(now time.Time) string {
	return fmt.Sprintf("leads_%s.xlsx", now.Format("20060102_150405"))
}
