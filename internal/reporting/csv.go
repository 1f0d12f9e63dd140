package reporting

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"time"

	"banktech/internal/money"
)

var csvHeader = []string{"entry_id", "date", "kind", "description", "counterparty", "amount"}

// WriteStatementCSV writes one row per statement line with signed decimal amounts.
func WriteStatementCSV(w io.Writer, statement Statement) error {
	out := csv.NewWriter(w)
	if err := out.Write(csvHeader); err != nil {
		return fmt.Errorf("WriteStatementCSV: %w", err)
	}
	for _, line := range statement.Lines {
		record := []string{
			strconv.FormatInt(line.EntryID, 10),
			line.Timestamp.UTC().Format(time.RFC3339),
			string(line.Kind),
			line.Description,
			line.Counterparty,
			money.FormatMinor(line.Amount),
		}
		if err := out.Write(record); err != nil {
			return fmt.Errorf("WriteStatementCSV: %w", err)
		}
	}
	out.Flush()
	if err := out.Error(); err != nil {
		return fmt.Errorf("WriteStatementCSV: %w", err)
	}
	return nil
}
