package parser

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strings"

	"backoffice-recon/pkg/logger"
)

// LoadProviderNames reads counterparty master data (provider code to display
// name) from a CSV file with at least the columns provider_code and
// display_name. The result is a read-only lookup table handed to the
// invoice name-matching step.
//
// Malformed rows are logged and skipped; the load only fails when the file
// itself cannot be read or the header is unusable.
func LoadProviderNames(filePath string) (map[string]string, error) {
	file, err := os.Open(filePath)
	if err != nil {
		return nil, fmt.Errorf("open master data file: %w", err)
	}
	defer file.Close()

	return readProviderNames(file)
}

func readProviderNames(r io.Reader) (map[string]string, error) {
	reader := csv.NewReader(r)
	reader.LazyQuotes = true
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("read master data header: %w", err)
	}

	codeCol, nameCol := -1, -1
	for i, col := range header {
		switch strings.ToLower(strings.TrimSpace(col)) {
		case "provider_code", "code":
			codeCol = i
		case "display_name", "name":
			nameCol = i
		}
	}
	if codeCol < 0 || nameCol < 0 {
		return nil, fmt.Errorf("invalid master data format: missing provider_code or display_name column")
	}

	names := make(map[string]string)
	lineNumber := 1
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		lineNumber++
		if err != nil {
			logger.GetLogger().WithError(err).WithField("line", lineNumber).Warn("Skipping malformed master data row")
			continue
		}
		if codeCol >= len(record) || nameCol >= len(record) {
			logger.GetLogger().WithField("line", lineNumber).Warn("Skipping short master data row")
			continue
		}

		code := strings.TrimSpace(record[codeCol])
		name := strings.TrimSpace(record[nameCol])
		if code == "" || name == "" {
			continue
		}
		names[code] = name
	}

	return names, nil
}
