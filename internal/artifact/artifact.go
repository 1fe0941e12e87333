// Package artifact persists and loads the durable output of a training run:
// the fitted model and the canonical feature schema. The two files are only
// meaningful together, so each carries the schema fingerprint and loading
// refuses a mismatched pair instead of producing silently wrong predictions.
package artifact

import (
	"encoding/gob"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"

	"github.com/limaflow/congestion/internal/feature"
	"github.com/limaflow/congestion/internal/model"
)

// ErrNotFound marks a missing model or schema file. Front-ends surface this
// as "train the model first" rather than a generic I/O failure.
var ErrNotFound = errors.New("model artifacts not found")

// ErrMismatch means the model and schema files do not belong to the same
// training run. Scoring against the wrong schema is undefined behavior, so
// this is fatal.
var ErrMismatch = errors.New("model and schema artifacts do not match")

// Bundle is a loaded (model, schema) pair plus run metadata. Immutable once
// loaded; safe to share across concurrent predictions.
type Bundle struct {
	Forest      *model.RandomForest
	Schema      feature.Schema
	Fingerprint string
	RunID       string
	CreatedAt   time.Time
	Accuracy    float64 // held-out accuracy at training time
	MeanCV      float64 // winning candidate's mean cross-validation accuracy
}

// modelFile is the gob payload written to the model path.
type modelFile struct {
	Forest            *model.RandomForest
	SchemaFingerprint string
	RunID             string
	CreatedAt         time.Time
	Accuracy          float64
	MeanCV            float64
}

// schemaFile is the JSON payload written to the schema path.
type schemaFile struct {
	Columns     []string  `json:"columns"`
	Fingerprint string    `json:"fingerprint"`
	RunID       string    `json:"run_id"`
	CreatedAt   time.Time `json:"created_at"`
}

// Save writes the two artifact files, stamping both with the schema
// fingerprint and a fresh run ID. Parent directories are created as needed.
func Save(modelPath, schemaPath string, forest *model.RandomForest, schema feature.Schema, accuracy, meanCV float64) (*Bundle, error) {
	bundle := &Bundle{
		Forest:      forest,
		Schema:      schema,
		Fingerprint: schema.Fingerprint(),
		RunID:       uuid.NewString(),
		CreatedAt:   time.Now().UTC(),
		Accuracy:    accuracy,
		MeanCV:      meanCV,
	}

	if err := writeSchema(schemaPath, bundle); err != nil {
		return nil, err
	}
	if err := writeModel(modelPath, bundle); err != nil {
		return nil, err
	}
	return bundle, nil
}

// Load reads and pairs the two artifact files. A missing file yields
// ErrNotFound; fingerprint or run disagreement yields ErrMismatch.
func Load(modelPath, schemaPath string) (*Bundle, error) {
	mf, err := readModel(modelPath)
	if err != nil {
		return nil, err
	}
	sf, err := readSchema(schemaPath)
	if err != nil {
		return nil, err
	}

	schema := feature.Schema(sf.Columns)
	if schema.Fingerprint() != sf.Fingerprint {
		return nil, fmt.Errorf("%w: schema file fingerprint %s does not match its columns", ErrMismatch, sf.Fingerprint)
	}
	if mf.SchemaFingerprint != sf.Fingerprint {
		return nil, fmt.Errorf("%w: model trained against schema %s, schema file is %s", ErrMismatch, mf.SchemaFingerprint, sf.Fingerprint)
	}

	return &Bundle{
		Forest:      mf.Forest,
		Schema:      schema,
		Fingerprint: sf.Fingerprint,
		RunID:       mf.RunID,
		CreatedAt:   mf.CreatedAt,
		Accuracy:    mf.Accuracy,
		MeanCV:      mf.MeanCV,
	}, nil
}

func writeSchema(path string, bundle *Bundle) error {
	payload, err := json.MarshalIndent(schemaFile{
		Columns:     bundle.Schema,
		Fingerprint: bundle.Fingerprint,
		RunID:       bundle.RunID,
		CreatedAt:   bundle.CreatedAt,
	}, "", "  ")
	if err != nil {
		return fmt.Errorf("encode schema artifact: %w", err)
	}
	if err := ensureDir(path); err != nil {
		return err
	}
	if err := os.WriteFile(path, payload, 0o644); err != nil {
		return fmt.Errorf("write schema artifact: %w", err)
	}
	return nil
}

func writeModel(path string, bundle *Bundle) error {
	if err := ensureDir(path); err != nil {
		return err
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create model artifact: %w", err)
	}
	defer f.Close()

	if err := gob.NewEncoder(f).Encode(modelFile{
		Forest:            bundle.Forest,
		SchemaFingerprint: bundle.Fingerprint,
		RunID:             bundle.RunID,
		CreatedAt:         bundle.CreatedAt,
		Accuracy:          bundle.Accuracy,
		MeanCV:            bundle.MeanCV,
	}); err != nil {
		return fmt.Errorf("encode model artifact: %w", err)
	}
	return nil
}

func readModel(path string) (modelFile, error) {
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return modelFile{}, fmt.Errorf("%w: %s", ErrNotFound, path)
		}
		return modelFile{}, fmt.Errorf("open model artifact: %w", err)
	}
	defer f.Close()

	var mf modelFile
	if err := gob.NewDecoder(f).Decode(&mf); err != nil {
		return modelFile{}, fmt.Errorf("decode model artifact: %w", err)
	}
	return mf, nil
}

func readSchema(path string) (schemaFile, error) {
	payload, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return schemaFile{}, fmt.Errorf("%w: %s", ErrNotFound, path)
		}
		return schemaFile{}, fmt.Errorf("read schema artifact: %w", err)
	}

	var sf schemaFile
	if err := json.Unmarshal(payload, &sf); err != nil {
		return schemaFile{}, fmt.Errorf("decode schema artifact: %w", err)
	}
	return sf, nil
}

func ensureDir(path string) error {
	dir := filepath.Dir(path)
	if dir == "." {
		return nil
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create artifact directory: %w", err)
	}
	return nil
}
