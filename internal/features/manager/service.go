package manager

import (
	"context"
	"fmt"
	"time"

	"go-placement/internal/features/ticket"

	"github.com/xuri/excelize/v2"
)

// ManagerService exposes the escalated-ticket queue to managers.
type ManagerService interface {
	ListQueue(ctx context.Context, page, limit int64) ([]ticket.ManagerTicket, int64, error)
	ExportQueue(ctx context.Context) ([]byte, string, error)
}

type ManagerServiceImpl struct {
	repo ticket.ManagerTicketRepository
}

func NewManagerService(repo ticket.ManagerTicketRepository) ManagerService {
	return &ManagerServiceImpl{repo: repo}
}

func (s *ManagerServiceImpl) ListQueue(ctx context.Context, page, limit int64) ([]ticket.ManagerTicket, int64, error) {
	return s.repo.FindAll(ctx, page, limit)
}

// ExportQueue renders the full escalated queue as an XLSX workbook.
func (s *ManagerServiceImpl) ExportQueue(ctx context.Context) ([]byte, string, error) {
	tickets, err := s.repo.FindAllUnpaged(ctx)
	if err != nil {
		return nil, "", err
	}

	f := excelize.NewFile()
	defer f.Close()

	sheetName := "Escalated Tickets"
	index, err := f.NewSheet(sheetName)
	if err != nil {
		return nil, "", err
	}
	f.SetActiveSheet(index)
	f.DeleteSheet("Sheet1")

	columns := []string{
		"Ticket ID", "Subject", "Status", "Priority", "Category",
		"User", "User Email", "Assigned To", "Created At", "Escalated At",
	}

	headerStyle, _ := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
		Fill: excelize.Fill{Type: "pattern", Color: []string{"#E0E0E0"}, Pattern: 1},
	})

	for i, col := range columns {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		f.SetCellValue(sheetName, cell, col)
		f.SetCellStyle(sheetName, cell, cell, headerStyle)
	}

	for rowIdx, t := range tickets {
		values := []any{
			t.TicketID,
			t.Subject,
			string(t.Status),
			string(t.Priority),
			t.Category,
			t.UserName,
			t.UserEmail,
			t.SalesPerson,
			t.TicketCreatedAt.Format("2006-01-02 15:04:05"),
			t.EscalatedAt.Format("2006-01-02 15:04:05"),
		}
		for colIdx, val := range values {
			cell, _ := excelize.CoordinatesToCellName(colIdx+1, rowIdx+2)
			f.SetCellValue(sheetName, cell, val)
		}
	}

	for i := range columns {
		col, _ := excelize.ColumnNumberToName(i + 1)
		f.SetColWidth(sheetName, col, col, 15)
	}

	buffer, err := f.WriteToBuffer()
	if err != nil {
		return nil, "", err
	}

	filename := fmt.Sprintf("escalated_tickets_%s.xlsx", time.Now().Format("20060102_150405"))
	return buffer.Bytes(), filename, nil
}
