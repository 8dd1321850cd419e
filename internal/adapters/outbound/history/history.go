package history

import (
	"encoding/json"
	"os"
	"path/filepath"

	"github.com/google/uuid"

	"github.com/codejanitor/janitor/internal/domain"
)

// DefaultPath is where records live relative to the project root.
const DefaultPath = ".janitor/history/records.json"

// FileHistory implements domain.RecordStore using JSON file storage.
type FileHistory struct {
	path      string
	maxRecord int
}

// New stores records at path, relative to the project root unless absolute.
// At most maxRecords are kept; 0 keeps everything.
func New(path string, maxRecords int) *FileHistory {
	if path == "" {
		path = DefaultPath
	}
	return &FileHistory{path: path, maxRecord: maxRecords}
}

func (h *FileHistory) file(projectPath string) string {
	if filepath.IsAbs(h.path) {
		return h.path
	}
	return filepath.Join(projectPath, h.path)
}

// Save appends record, assigning an ID when it has none.
func (h *FileHistory) Save(projectPath string, record domain.AnalysisRecord) (domain.AnalysisRecord, error) {
	records, err := h.Load(projectPath)
	if err != nil {
		return domain.AnalysisRecord{}, err
	}

	if record.ID == "" {
		record.ID = uuid.NewString()
	}
	records = append(records, record)
	if h.maxRecord > 0 && len(records) > h.maxRecord {
		records = records[len(records)-h.maxRecord:]
	}

	fp := h.file(projectPath)
	if err := os.MkdirAll(filepath.Dir(fp), 0755); err != nil {
		return domain.AnalysisRecord{}, err
	}

	data, err := json.MarshalIndent(records, "", "  ")
	if err != nil {
		return domain.AnalysisRecord{}, err
	}
	if err := os.WriteFile(fp, data, 0644); err != nil {
		return domain.AnalysisRecord{}, err
	}
	return record, nil
}

// Load returns every record in insertion order.
func (h *FileHistory) Load(projectPath string) ([]domain.AnalysisRecord, error) {
	data, err := os.ReadFile(h.file(projectPath))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, err
	}

	var records []domain.AnalysisRecord
	if err := json.Unmarshal(data, &records); err != nil {
		return nil, err
	}
	return records, nil
}
