package types //nolint:revive,nolintlint // allow pkg name 'types'

import (
	"bytes"
	"encoding/json"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/spf13/cast"
	"gopkg.in/yaml.v2"
)

// ProgressStatus describes the state of a batch when progress is reported.
type ProgressStatus string

const (
	ProgressProcessing  ProgressStatus = "processing"
	ProgressInterrupted ProgressStatus = "interrupted"
	ProgressCompleted   ProgressStatus = "completed"
)

// BatchProgress is delivered to progress observers after each item of a batch.
type BatchProgress struct {
	BatchID    uuid.UUID      `json:"batchId"`
	Current    int            `json:"current"`
	Total      int            `json:"total"`
	Percentage float64        `json:"percentage"`
	Status     ProgressStatus `json:"status"`
	Message    string         `json:"message"`
}

// BatchResult holds the records of every attempted request, in submission order.
//
// Attempted is always len(Records) and never exceeds Total.
type BatchResult struct {
	ID        uuid.UUID           `json:"id"`
	Records   []TransactionRecord `json:"records"`
	Succeeded int                 `json:"succeeded"`
	Attempted int                 `json:"attempted"`
	Total     int                 `json:"total"`
}

// Failed returns the number of attempted records that did not confirm.
func (b BatchResult) Failed() int {
	return b.Attempted - b.Succeeded
}

// Interrupted reports whether the batch stopped before attempting every request.
func (b BatchResult) Interrupted() bool {
	return b.Attempted < b.Total
}

// Batch is the file representation of an ordered list of operations.
type Batch struct {
	Operations    []OperationRequest `json:"operations" yaml:"operations" validate:"required,min=1,dive"`
	StopOnFailure bool               `json:"stopOnFailure" yaml:"stopOnFailure"`
}

// Validate runs tag based validation on the batch.
func (b *Batch) Validate() error {
	validate := validator.New()

	return validate.Struct(b)
}

// NewBatchFromJSON decodes and validates a JSON batch. Numbers are kept as json.Number so that
// large integer arguments survive decoding.
func NewBatchFromJSON(reader io.Reader) (*Batch, error) {
	var out Batch
	dec := json.NewDecoder(reader)
	dec.UseNumber()
	if err := dec.Decode(&out); err != nil {
		return nil, err
	}

	if err := out.Validate(); err != nil {
		return nil, err
	}

	return &out, nil
}

// NewBatchFromYAML decodes and validates a YAML batch.
func NewBatchFromYAML(reader io.Reader) (*Batch, error) {
	var out Batch
	if err := yaml.NewDecoder(reader).Decode(&out); err != nil {
		return nil, err
	}

	for i := range out.Operations {
		for j, arg := range out.Operations[i].Args {
			out.Operations[i].Args[j] = normalizeYAML(arg)
		}
	}

	if err := out.Validate(); err != nil {
		return nil, err
	}

	return &out, nil
}

// LoadBatch reads a batch file, choosing the decoder from the file extension.
func LoadBatch(path string) (*Batch, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		return NewBatchFromJSON(bytes.NewReader(b))
	case ".yaml", ".yml":
		return NewBatchFromYAML(bytes.NewReader(b))
	default:
		return nil, NewUnsupportedBatchFormatError(path)
	}
}

// normalizeYAML converts the map[interface{}]interface{} values produced by yaml.v2 into
// map[string]any so arguments look the same regardless of the source format.
func normalizeYAML(v any) any {
	switch value := v.(type) {
	case map[any]any:
		out := make(map[string]any, len(value))
		for k, item := range value {
			out[cast.ToString(k)] = normalizeYAML(item)
		}

		return out
	case []any:
		out := make([]any, len(value))
		for i, item := range value {
			out[i] = normalizeYAML(item)
		}

		return out
	default:
		return value
	}
}
