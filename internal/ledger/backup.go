package ledger

import (
	"bytes"
	"encoding/json"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/Mshaban73/Cashier/internal/domain"
	"github.com/Mshaban73/Cashier/internal/validation"
)

// BackupFilename is the download name for an export taken on day.
func BackupFilename(day time.Time) string {
	return fmt.Sprintf("backup_treasury_%s.json", domain.FormatDay(day))
}

type exportFile struct {
	Transactions []exportEntry `json:"transactions"`
}

// exportEntry writes the amount as a JSON number.
type exportEntry struct {
	ID          string      `json:"id"`
	Date        string      `json:"date"`
	Description string      `json:"description"`
	Amount      json.Number `json:"amount"`
	Type        string      `json:"type"`
}

// ExportBackup serialises the full collection in the backup file shape.
func ExportBackup(transactions []domain.Transaction) ([]byte, error) {
	file := exportFile{Transactions: make([]exportEntry, 0, len(transactions))}
	for _, tx := range transactions {
		file.Transactions = append(file.Transactions, exportEntry{
			ID:          tx.ID,
			Date:        tx.Timestamp.Format(time.RFC3339Nano),
			Description: tx.Description,
			Amount:      json.Number(tx.Amount.String()),
			Type:        string(tx.Kind),
		})
	}
	return json.MarshalIndent(file, "", "  ")
}

type backupFile struct {
	Transactions *[]backupEntry `json:"transactions" validate:"required,dive"`
}

type backupEntry struct {
	ID          string           `json:"id" validate:"required"`
	Date        string           `json:"date" validate:"required"`
	Description string           `json:"description" validate:"required"`
	Amount      *decimal.Decimal `json:"amount" validate:"required"`
	Type        string           `json:"type" validate:"required,oneof=ايراد مصروف"`
}

// ParseBackup strictly decodes a backup file. Any entry missing a field, or
// carrying a field that does not parse, rejects the whole file.
func ParseBackup(data []byte) ([]domain.Transaction, error) {
	var file backupFile
	if err := json.NewDecoder(bytes.NewReader(data)).Decode(&file); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrImportFormat, err)
	}
	if err := validation.Struct(file); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrImportFormat, err)
	}

	entries := *file.Transactions
	out := make([]domain.Transaction, 0, len(entries))
	for i, entry := range entries {
		at, err := time.Parse(time.RFC3339Nano, entry.Date)
		if err != nil {
			return nil, fmt.Errorf("%w: transactions[%d].date %q", domain.ErrImportFormat, i, entry.Date)
		}
		if entry.Amount.IsNegative() {
			return nil, fmt.Errorf("%w: transactions[%d].amount is negative", domain.ErrImportFormat, i)
		}
		out = append(out, domain.Transaction{
			ID:          entry.ID,
			Timestamp:   at,
			Description: entry.Description,
			Amount:      *entry.Amount,
			Kind:        domain.TransactionKind(entry.Type),
		})
	}
	return out, nil
}

// MergeBackup unions existing with imported, de-duplicated on id. For a
// repeated id the last occurrence in existing-then-imported order wins, so an
// imported entry replaces a stored one. The result is chronological.
func MergeBackup(existing []domain.Transaction, imported []domain.Transaction) []domain.Transaction {
	combined := make([]domain.Transaction, 0, len(existing)+len(imported))
	combined = append(combined, existing...)
	combined = append(combined, imported...)

	last := make(map[string]int, len(combined))
	for i, tx := range combined {
		last[tx.ID] = i
	}

	merged := make([]domain.Transaction, 0, len(last))
	for i, tx := range combined {
		if last[tx.ID] == i {
			merged = append(merged, tx)
		}
	}
	return SortChronological(merged)
}

// ImportBackup parses data and merges it into existing. On any parse failure
// existing is returned untouched alongside an ErrImportFormat error.
func ImportBackup(existing []domain.Transaction, data []byte) ([]domain.Transaction, error) {
	imported, err := ParseBackup(data)
	if err != nil {
		return existing, err
	}
	return MergeBackup(existing, imported), nil
}
