// Package sqlite provides SQLite database writing for formula dictionaries
package sqlite

import (
	"database/sql"
	"fmt"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/ChrisMcGann/FormKey/pkg/batch"
	"github.com/ChrisMcGann/FormKey/pkg/core"
)

const (
	// Date format for HeaderTable (ISO 8601)
	headerDateFormat = "2006-01-02"
	// Schema version written to HeaderTable
	schemaVersion = 1
)

// Writer handles writing formula windows to SQLite database files
type Writer struct {
	db         *sql.DB
	outputPath string
	mode       core.Mode
	formulaID  int
	windows    int
	finalized  bool
}

// NewWriter creates a new SQLite writer
func NewWriter(outputPath string, mode core.Mode) (*Writer, error) {
	db, err := sql.Open("sqlite3", outputPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	w := &Writer{
		db:         db,
		outputPath: outputPath,
		mode:       mode,
		formulaID:  1,
	}

	if err := w.createTables(); err != nil {
		db.Close()
		return nil, err
	}

	return w, nil
}

// createTables creates the required database schema
func (w *Writer) createTables() error {
	schema := `
	CREATE TABLE IF NOT EXISTS WindowTable (
		WindowId INTEGER PRIMARY KEY,
		LowMass DOUBLE,
		HighMass DOUBLE,
		Polarity TEXT,
		Bounds TEXT,
		Candidates INTEGER,
		ElapsedMs DOUBLE,
		Error TEXT
	);

	CREATE TABLE IF NOT EXISTS FormulaTable (
		FormulaId INTEGER PRIMARY KEY,
		WindowId INTEGER REFERENCES WindowTable(WindowId),
		Formula TEXT,
		NeutralFormula TEXT,
		Mass DOUBLE,
		Abundance DOUBLE,
		C INTEGER,
		H INTEGER,
		O INTEGER,
		N INTEGER,
		S INTEGER,
		P INTEGER,
		Na INTEGER,
		K INTEGER,
		HeteroClass TEXT,
		HeteroCount INTEGER,
		DBE DOUBLE
	);

	CREATE INDEX IF NOT EXISTS FormulaMassIndex ON FormulaTable (Mass);

	CREATE TABLE IF NOT EXISTS HeaderTable (
		version INTEGER NOT NULL DEFAULT 0,
		CreationDate TEXT,
		IonizationMode TEXT,
		Windows INTEGER,
		Formulae INTEGER
	);
	`

	_, err := w.db.Exec(schema)
	if err != nil {
		return fmt.Errorf("failed to create tables: %w", err)
	}

	return nil
}

// WriteWindow writes one window and its formulae in a single transaction
func (w *Writer) WriteWindow(res *batch.WindowResult) error {
	tx, err := w.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	var errText interface{} = nil
	if res.Err != nil {
		errText = res.Err.Error()
	}

	windowID := res.Index + 1
	_, err = tx.Exec(`
		INSERT INTO WindowTable (WindowId, LowMass, HighMass, Polarity, Bounds, Candidates, ElapsedMs, Error)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`,
		windowID,
		res.Window.Low,
		res.Window.High,
		res.Mode.Polarity(),
		res.Bounds.String(),
		len(res.Candidates),
		float64(res.Elapsed.Microseconds())/1000,
		errText,
	)
	if err != nil {
		return fmt.Errorf("failed to insert window: %w", err)
	}

	stmt, err := tx.Prepare(`
		INSERT INTO FormulaTable (
			FormulaId, WindowId, Formula, NeutralFormula, Mass, Abundance,
			C, H, O, N, S, P, Na, K, HeteroClass, HeteroCount, DBE
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return fmt.Errorf("failed to prepare formula statement: %w", err)
	}
	defer stmt.Close()

	id := w.formulaID
	for _, c := range res.Candidates {
		_, err := stmt.Exec(
			id,
			windowID,
			c.Formula(),
			c.NeutralFormula(),
			c.Mass,
			c.Abundance,
			c.C, c.H, c.O, c.N, c.S, c.P, c.Na, c.K,
			c.HeteroClass(),
			c.HeteroCount(),
			c.DBE(),
		)
		if err != nil {
			return fmt.Errorf("failed to insert formula %s: %w", c.Formula(), err)
		}
		id++
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit window: %w", err)
	}
	w.formulaID = id
	w.windows++
	return nil
}

// Finalize writes the header table and closes the database
func (w *Writer) Finalize() error {
	if w.finalized {
		return nil
	}
	w.finalized = true

	_, err := w.db.Exec(`
		INSERT INTO HeaderTable (version, CreationDate, IonizationMode, Windows, Formulae)
		VALUES (?, ?, ?, ?, ?)
	`, schemaVersion, time.Now().Format(headerDateFormat), w.mode.String(), w.windows, w.formulaID-1)
	if err != nil {
		w.db.Close()
		return fmt.Errorf("failed to insert header: %w", err)
	}

	// Close database
	if err := w.db.Close(); err != nil {
		return fmt.Errorf("failed to close database: %w", err)
	}

	return nil
}

// Close closes the database connection (alias for Finalize)
func (w *Writer) Close() error {
	return w.Finalize()
}
