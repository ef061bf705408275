package ingest

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"time"

	"github.com/phuslu/log"
)

const (
	ClassUp   = "U"
	ClassDown = "D"
)

// closeColumn is the Close column of a Yahoo Finance daily export
// (Date,Open,High,Low,Close,Adj Close,Volume)
const closeColumn = 4

// DailyClose is the closing value of the index on one day
type DailyClose struct {
	Date  time.Time
	Close float64
}

// LoadIndexCloses reads daily closes in file order. Rows with an
// unparseable date or close are logged and skipped.
func LoadIndexCloses(r io.Reader) ([]DailyClose, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1

	var closes []DailyClose
	for row := 1; ; row++ {
		fields, err := reader.Read()
		if errors.Is(err, io.EOF) {
			return closes, nil
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read index data: %w", err)
		}
		if row == 1 {
			continue // header
		}
		if len(fields) <= closeColumn {
			log.Warn().Int("row", row).Int("fields", len(fields)).Msg("skipping short index row")
			continue
		}

		date, err := time.Parse("2006-01-02", fields[0])
		if err != nil {
			log.Warn().Int("row", row).Str("date", fields[0]).Msg("skipping index row with invalid date")
			continue
		}
		value, err := strconv.ParseFloat(fields[closeColumn], 64)
		if err != nil {
			log.Warn().Int("row", row).Str("close", fields[closeColumn]).Msg("skipping index row with invalid close")
			continue
		}
		closes = append(closes, DailyClose{Date: date, Close: value})
	}
}

// LoadIndexFile opens path and reads it with LoadIndexCloses
func LoadIndexFile(path string) ([]DailyClose, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open index file: %w", err)
	}
	defer f.Close()
	return LoadIndexCloses(f)
}

// Movements classifies each trading day after the first as up when its
// close is strictly above the previous close and down otherwise.
func Movements(closes []DailyClose) map[string]string {
	movements := make(map[string]string, len(closes))
	for i := 1; i < len(closes); i++ {
		class := ClassDown
		if closes[i].Close > closes[i-1].Close {
			class = ClassUp
		}
		movements[dayKey(closes[i].Date)] = class
	}
	return movements
}
