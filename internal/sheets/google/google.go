package google

import (
	"context"
	"fmt"
	"os"

	"golang.org/x/oauth2"
	googleoauth "golang.org/x/oauth2/google"
	"google.golang.org/api/option"
	"google.golang.org/api/sheets/v4"

	"catalogsync/internal/config"
	sheetpkg "catalogsync/internal/sheets"
)

type Sheet struct {
	service       *sheets.Service
	spreadsheetID string
}

// NewSheet picks credentials in order: service-account file, OAuth refresh
// token, API key. An API key can only read public sheets.
func NewSheet(ctx context.Context, cfg config.Config) (*Sheet, error) {
	if err := cfg.Require("GOOGLE_SHEET_ID", cfg.GoogleSheetID); err != nil {
		return nil, err
	}

	opt, err := clientOption(ctx, cfg)
	if err != nil {
		return nil, err
	}

	svc, err := sheets.NewService(ctx, opt)
	if err != nil {
		return nil, fmt.Errorf("create sheets service: %w", err)
	}

	return &Sheet{service: svc, spreadsheetID: cfg.GoogleSheetID}, nil
}

func clientOption(ctx context.Context, cfg config.Config) (option.ClientOption, error) {
	switch {
	case cfg.GoogleCredentialsFile != "":
		blob, err := os.ReadFile(cfg.GoogleCredentialsFile)
		if err != nil {
			return nil, fmt.Errorf("read google credentials: %w", err)
		}
		creds, err := googleoauth.CredentialsFromJSON(ctx, blob, sheets.SpreadsheetsScope)
		if err != nil {
			return nil, fmt.Errorf("parse google credentials: %w", err)
		}
		return option.WithCredentials(creds), nil
	case cfg.GoogleRefreshToken != "":
		if err := cfg.RequireAll(
			"GOOGLE_CLIENT_ID", cfg.GoogleClientID,
			"GOOGLE_CLIENT_SECRET", cfg.GoogleClientSecret,
		); err != nil {
			return nil, err
		}
		oauthCfg := &oauth2.Config{
			ClientID:     cfg.GoogleClientID,
			ClientSecret: cfg.GoogleClientSecret,
			Endpoint:     googleoauth.Endpoint,
			Scopes:       []string{sheets.SpreadsheetsScope},
		}
		tokenSource := oauthCfg.TokenSource(ctx, &oauth2.Token{RefreshToken: cfg.GoogleRefreshToken})
		return option.WithTokenSource(tokenSource), nil
	case cfg.GoogleAPIKey != "":
		return option.WithAPIKey(cfg.GoogleAPIKey), nil
	default:
		return nil, fmt.Errorf("missing google credentials: set GOOGLE_CREDENTIALS_FILE, GOOGLE_REFRESH_TOKEN or GOOGLE_API_KEY")
	}
}

func (s *Sheet) Read(ctx context.Context, a1 string) ([][]string, error) {
	rng, err := sheetpkg.ParseRange(a1)
	if err != nil {
		return nil, err
	}
	width, err := rng.Width()
	if err != nil {
		return nil, err
	}

	resp, err := s.service.Spreadsheets.Values.Get(s.spreadsheetID, a1).Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", a1, err)
	}

	return sheetpkg.PadRows(toStrings(resp.Values), width), nil
}

func (s *Sheet) Write(ctx context.Context, cell string, value string) error {
	body := &sheets.ValueRange{Values: [][]interface{}{{value}}}
	_, err := s.service.Spreadsheets.Values.Update(s.spreadsheetID, cell, body).
		ValueInputOption("RAW").
		Context(ctx).
		Do()
	if err != nil {
		return fmt.Errorf("write %s: %w", cell, err)
	}
	return nil
}

func (s *Sheet) Close() error { return nil }

func toStrings(values [][]interface{}) [][]string {
	out := make([][]string, 0, len(values))
	for _, row := range values {
		cells := make([]string, len(row))
		for i, v := range row {
			if v == nil {
				continue
			}
			if s, ok := v.(string); ok {
				cells[i] = s
				continue
			}
			cells[i] = fmt.Sprint(v)
		}
		out = append(out, cells)
	}
	return out
}
