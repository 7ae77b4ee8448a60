package report

import (
	"bufio"
	"bytes"
	"encoding/csv"
	"fmt"
	"io"
	"strconv"

	"github.com/azure/mentions-sentiment-report/internal/models"
)

// DefaultCSVFile is the export file name used when none is configured
const DefaultCSVFile = "analise_tim_mentions.csv"

// utf8BOM lets spreadsheet tools detect the encoding
const utf8BOM = "\ufeff"

var csvHeader = []string{"", string(models.Positive), string(models.Negative), string(models.Neutral)}

// WriteCSV writes one row per date (ascending) with the date as the row index
func WriteCSV(w io.Writer, stats models.DailyStats) error {
	if _, err := io.WriteString(w, utf8BOM); err != nil {
		return fmt.Errorf("failed to write BOM: %w", err)
	}

	writer := csv.NewWriter(w)
	if err := writer.Write(csvHeader); err != nil {
		return fmt.Errorf("failed to write CSV header: %w", err)
	}

	for _, date := range stats.Dates() {
		counts := stats[date]
		record := []string{
			date,
			strconv.Itoa(counts.Positive),
			strconv.Itoa(counts.Negative),
			strconv.Itoa(counts.Neutral),
		}
		if err := writer.Write(record); err != nil {
			return fmt.Errorf("failed to write CSV row for %s: %w", date, err)
		}
	}

	writer.Flush()
	return writer.Error()
}

// EncodeCSV returns the CSV export as bytes
func EncodeCSV(stats models.DailyStats) ([]byte, error) {
	var buf bytes.Buffer
	if err := WriteCSV(&buf, stats); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// ReadCSV parses an export produced by WriteCSV. Columns are matched by header name.
func ReadCSV(r io.Reader) (models.DailyStats, error) {
	br := bufio.NewReader(r)
	if head, err := br.Peek(len(utf8BOM)); err == nil && string(head) == utf8BOM {
		br.Discard(len(utf8BOM))
	}

	reader := csv.NewReader(br)
	records, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to parse CSV: %w", err)
	}
	if len(records) == 0 {
		return nil, fmt.Errorf("CSV is empty")
	}

	columns := make(map[string]int)
	for i, name := range records[0] {
		columns[name] = i
	}
	for _, label := range csvHeader[1:] {
		if _, ok := columns[label]; !ok {
			return nil, fmt.Errorf("CSV is missing column %q", label)
		}
	}

	stats := make(models.DailyStats, len(records)-1)
	for line, record := range records[1:] {
		values := make(map[string]int, 3)
		for _, label := range csvHeader[1:] {
			n, err := strconv.Atoi(record[columns[label]])
			if err != nil {
				return nil, fmt.Errorf("invalid %s count on row %d: %w", label, line+2, err)
			}
			if n < 0 {
				return nil, fmt.Errorf("negative %s count on row %d", label, line+2)
			}
			values[label] = n
		}

		stats[record[0]] = models.Counts{
			Positive: values[string(models.Positive)],
			Negative: values[string(models.Negative)],
			Neutral:  values[string(models.Neutral)],
		}
	}

	return stats, nil
}
