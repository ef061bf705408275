package dataset

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/phuslu/log"
)

// LoadOptions controls how tabular rows are turned into records
type LoadOptions struct {
	// NoLabel is the class value that marks an unlabeled record
	NoLabel string
}

// DefaultLoadOptions returns options matching the id,class,abstract files
func DefaultLoadOptions() LoadOptions {
	return LoadOptions{NoLabel: NoLabel}
}

// Header is the first row of a record file
var Header = []string{"id", "class", "abstract"}

// Load reads id,class,abstract rows. Rows with fewer than three fields or a
// non-numeric id are logged and skipped. A leading header row is ignored.
func Load(r io.Reader, opts LoadOptions) (*Store, error) {
	if opts.NoLabel == "" {
		opts.NoLabel = NoLabel
	}

	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true

	store := &Store{}
	row := 0
	for {
		fields, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		row++
		if err != nil {
			var parseErr *csv.ParseError
			if errors.As(err, &parseErr) {
				log.Warn().Int("row", row).Err(err).Msg("skipping malformed row")
				continue
			}
			return nil, fmt.Errorf("failed to read records: %w", err)
		}

		if len(fields) < 3 {
			log.Warn().Int("row", row).Int("fields", len(fields)).Msg("skipping row with too few fields")
			continue
		}

		id, err := strconv.Atoi(strings.TrimSpace(fields[0]))
		if err != nil {
			if row == 1 {
				continue // header
			}
			log.Warn().Int("row", row).Str("id", fields[0]).Msg("skipping row with invalid id")
			continue
		}

		label := Some(fields[1])
		if fields[1] == opts.NoLabel {
			label = None()
		}

		store.records = append(store.records, Record{
			ID:    id,
			Label: label,
			Text:  strings.Join(fields[2:], ","),
		})
	}

	return store, nil
}

// LoadFile opens path and loads it with Load
func LoadFile(path string, opts LoadOptions) (*Store, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open record file: %w", err)
	}
	defer f.Close()

	store, err := Load(f, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to load %s: %w", path, err)
	}
	log.Debug().Str("path", path).Int("records", store.Len()).Msg("loaded records")
	return store, nil
}

// WriteCSV writes the store as id,class,abstract rows with a header
func (s *Store) WriteCSV(w io.Writer) error {
	writer := csv.NewWriter(w)
	if err := writer.Write(Header); err != nil {
		return fmt.Errorf("failed to write header: %w", err)
	}
	for _, r := range s.records {
		if err := writer.Write([]string{strconv.Itoa(r.ID), r.Label.String(), r.Text}); err != nil {
			return fmt.Errorf("failed to write record %d: %w", r.ID, err)
		}
	}
	writer.Flush()
	return writer.Error()
}

// SaveFile writes the store to path with WriteCSV
func (s *Store) SaveFile(path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create record file: %w", err)
	}
	if err := s.WriteCSV(f); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
