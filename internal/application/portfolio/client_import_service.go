package portfolio

import (
	"context"
	"io"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/pulse/backend/internal/domain/portfolio"
	"github.com/pulse/backend/internal/domain/shared"
	csvimport "github.com/pulse/backend/internal/infrastructure/import"
)

// MaxImportFileSize is the largest accepted client CSV upload.
const MaxImportFileSize = 5 * 1024 * 1024

// ClientImportResult summarizes a CSV import run
type ClientImportResult struct {
	TotalRows int                  `json:"total_rows"`
	Imported  int                  `json:"imported"`
	Skipped   int                  `json:"skipped"`
	Errors    []csvimport.RowError `json:"errors,omitempty"`
	DryRun    bool                 `json:"dry_run"`
}

// ClientImportService imports clients in bulk from CSV files
type ClientImportService struct {
	clientService *ClientService
	clientRepo    portfolio.ClientRepository
	logger        *zap.Logger
}

// NewClientImportService creates a new client import service
func NewClientImportService(
	clientService *ClientService,
	clientRepo portfolio.ClientRepository,
	logger *zap.Logger,
) *ClientImportService {
	return &ClientImportService{
		clientService: clientService,
		clientRepo:    clientRepo,
		logger:        logger,
	}
}

// importRules returns the validation rules for client CSV rows. Only "name" is
// required; profile columns are optional and validated against the same limits
// as the client profile API.
func (s *ClientImportService) importRules() []csvimport.FieldRule {
	return []csvimport.FieldRule{
		csvimport.Field("name").Required().String().MaxLength(200).Unique().Build(),
		csvimport.Field("description").String().Build(),
		csvimport.Field("website").String().MaxLength(500).Build(),
		csvimport.Field("industry").String().MaxLength(50).Build(),
		csvimport.Field("company_size").String().MaxLength(20).Build(),
		csvimport.Field("revenue_range").String().MaxLength(20).Build(),
		csvimport.Field("geographic_focus").String().MaxLength(200).Build(),
		csvimport.Field("marketing_maturity").String().MaxLength(20).Build(),
		csvimport.Field("business_models").String().MaxLength(200).Build(),
	}
}

// ImportCSV validates a client CSV and, unless dryRun is set, creates a client
// per valid row. Rows that fail validation or creation are reported in the
// result; valid rows are still imported.
func (s *ClientImportService) ImportCSV(ctx context.Context, tenantID, userID uuid.UUID, fileName string, reader io.Reader, fileSize int64, dryRun bool) (*ClientImportResult, error) {
	if fileSize > MaxImportFileSize {
		return nil, shared.NewDomainError("FILE_TOO_LARGE", "Import file exceeds the 5MB limit")
	}

	s.logger.Info("Importing clients from CSV",
		zap.String("tenant_id", tenantID.String()),
		zap.String("file_name", fileName),
		zap.Bool("dry_run", dryRun))

	session := csvimport.NewImportSession(tenantID, userID, csvimport.EntityClients, fileName, fileSize)

	parser, err := csvimport.NewCSVParser(reader)
	if err != nil {
		return nil, shared.NewDomainError("INVALID_FILE", "Could not read CSV file: "+err.Error())
	}
	if err := parser.ParseHeader(); err != nil {
		return nil, shared.NewDomainError("INVALID_FILE", "Could not read CSV header: "+err.Error())
	}
	if missing := parser.ValidateHeaders([]string{"name"}); len(missing) > 0 {
		return nil, shared.NewDomainError("MISSING_COLUMNS", "CSV is missing required column: "+strings.Join(missing, ", "))
	}

	rows, err := parser.ReadAllRows()
	if err != nil {
		return nil, shared.NewDomainError("INVALID_FILE", "Could not read CSV rows: "+err.Error())
	}
	if len(rows) == 0 {
		return nil, shared.NewDomainError("EMPTY_FILE", "CSV contains no data rows")
	}

	validator := csvimport.NewFieldValidator(s.importRules(), 100)
	uniqueChecker := csvimport.NewUniquenessValidator(func(entityType, field, value string) (bool, error) {
		return s.clientRepo.ExistsByName(ctx, tenantID, value)
	}, 100)

	result := &ClientImportResult{
		TotalRows: len(rows),
		DryRun:    dryRun,
	}

	var validRows []*csvimport.Row
	for _, row := range rows {
		ok := validator.ValidateRow(row)
		if !uniqueChecker.ValidateUnique(row.LineNumber, "name", string(csvimport.EntityClients), row.Get("name")) {
			ok = false
		}
		if ok {
			validRows = append(validRows, row)
		} else {
			result.Skipped++
		}
	}

	result.Errors = append(result.Errors, validator.Errors().Errors()...)
	result.Errors = append(result.Errors, uniqueChecker.Errors().Errors()...)

	if dryRun {
		session.UpdateState(csvimport.StateValidated)
		return result, nil
	}

	session.UpdateState(csvimport.StateImporting)
	for _, row := range validRows {
		input := CreateClientInput{
			TenantID:          tenantID,
			Name:              row.Get("name"),
			Description:       row.Get("description"),
			Website:           row.Get("website"),
			Industry:          row.Get("industry"),
			CompanySize:       row.Get("company_size"),
			RevenueRange:      row.Get("revenue_range"),
			GeographicFocus:   row.Get("geographic_focus"),
			MarketingMaturity: row.Get("marketing_maturity"),
			BusinessModels:    splitBusinessModels(row.Get("business_models")),
		}

		if _, err := s.clientService.Create(ctx, input); err != nil {
			result.Skipped++
			result.Errors = append(result.Errors, csvimport.NewRowError(
				row.LineNumber, "name", csvimport.ErrCodeImportValidation, err.Error()))
			continue
		}
		result.Imported++
	}
	session.UpdateState(csvimport.StateCompleted)

	s.logger.Info("Client CSV import finished",
		zap.String("tenant_id", tenantID.String()),
		zap.Int("total", result.TotalRows),
		zap.Int("imported", result.Imported),
		zap.Int("skipped", result.Skipped))

	return result, nil
}

// splitBusinessModels parses the comma-separated business_models column
func splitBusinessModels(raw string) []string {
	if raw == "" {
		return nil
	}
	parts := strings.Split(raw, ",")
	models := make([]string, 0, len(parts))
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			models = append(models, trimmed)
		}
	}
	return models
}
