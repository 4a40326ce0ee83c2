package services

import (
	"context"
	"fmt"
	"log"
	"os"
	"time"

	"google.golang.org/api/option"
	"google.golang.org/api/sheets/v4"

	"github.com/realflow-ai/realflow-backend/internal/leads"
	"github.com/realflow-ai/realflow-backend/internal/vapi"
)

// SheetsService appends one row per processed call to the configured Google
// Sheet. The sheet is the primary log: it is written before any database
// step and its failures never block the rest of the flow.
type SheetsService struct {
	srv     *sheets.Service
	sheetID string
}

// NewSheetsService creates a new Google Sheets service instance from the
// GOOGLE_SHEET_ID and GOOGLE_SHEETS_CREDENTIALS environment variables.
func NewSheetsService() (*SheetsService, error) {
	sheetID := os.Getenv("GOOGLE_SHEET_ID")
	credentials := os.Getenv("GOOGLE_SHEETS_CREDENTIALS")

	if sheetID == "" || credentials == "" {
		return nil, fmt.Errorf("missing Google Sheets credentials in environment variables")
	}

	srv, err := sheets.NewService(context.Background(),
		option.WithCredentialsJSON([]byte(credentials)),
		option.WithScopes(sheets.SpreadsheetsScope))
	if err != nil {
		return nil, fmt.Errorf("failed to create Sheets client: %w", err)
	}

	return &SheetsService{
		srv:     srv,
		sheetID: sheetID,
	}, nil
}

// LogCall appends a call row matching the sheet headers: timestamp, caller
// details, urgency, hot-lead flag and a notes column carrying the score.
func (s *SheetsService) LogCall(params vapi.Parameters) error {
	score := leads.Score(params)

	hot := "NO"
	if params.Bool("is_hot_lead") {
		hot = "YES"
	}

	row := []interface{}{
		time.Now().Format("2006-01-02 15:04:05"),
		params.String("caller_name"),
		params.String("caller_phone"),
		params.String("caller_email"),
		params.String("caller_role"),
		params.String("asset_type"),
		params.String("location"),
		params.String("deal_size"),
		params.String("urgency"),
		params.String("inquiry_summary"),
		hot,
		fmt.Sprintf("Score: %d/100 | %s", score, params.String("additional_notes")),
	}

	_, err := s.srv.Spreadsheets.Values.
		Append(s.sheetID, "Sheet1!A:L", &sheets.ValueRange{Values: [][]interface{}{row}}).
		ValueInputOption("USER_ENTERED").
		Do()
	if err != nil {
		return err
	}

	log.Println("✅ Logged to Google Sheets successfully!")
	return nil
}
