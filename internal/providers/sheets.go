package providers

import (
	"context"
	"fmt"
	"os"

	"google.golang.org/api/option"
	"google.golang.org/api/sheets/v4"

	"github.com/aymerigermain/dashboard-acadi/internal/config"
)

// SheetReader returns a spreadsheet range as a 2-D grid of strings,
// header row first when the range includes it.
type SheetReader interface {
	Read(ctx context.Context, spreadsheetID, rangeSpec string) ([][]string, error)
}

// SheetsClient implements SheetReader against the Google Sheets API
// using service account credentials.
type SheetsClient struct {
	svc *sheets.Service
}

func NewSheetsClient(ctx context.Context, cfg config.SheetsConfig) (*SheetsClient, error) {
	creds := []byte(cfg.CredentialsJSON)
	if cfg.CredentialsFile != "" {
		data, err := os.ReadFile(cfg.CredentialsFile)
		if err != nil {
			return nil, fmt.Errorf("read google credentials: %w", err)
		}
		creds = data
	}

	svc, err := sheets.NewService(ctx,
		option.WithCredentialsJSON(creds),
		option.WithScopes(sheets.SpreadsheetsReadonlyScope),
	)
	if err != nil {
		return nil, fmt.Errorf("create sheets service: %w", err)
	}

	return &SheetsClient{svc: svc}, nil
}

func (s *SheetsClient) Read(ctx context.Context, spreadsheetID, rangeSpec string) ([][]string, error) {
	resp, err := s.svc.Spreadsheets.Values.Get(spreadsheetID, rangeSpec).Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("get sheet values: %w", err)
	}

	grid := make([][]string, 0, len(resp.Values))
	for _, row := range resp.Values {
		cells := make([]string, len(row))
		for i, cell := range row {
			cells[i] = cellString(cell)
		}
		grid = append(grid, cells)
	}
	return grid, nil
}

func cellString(cell any) string {
	switch v := cell.(type) {
	case nil:
		return ""
	case string:
		return v
	default:
		return fmt.Sprint(v)
	}
}
