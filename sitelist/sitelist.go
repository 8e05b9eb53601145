// Package sitelist reads and writes the tabular site list: one row per
// portal with its agency name and, once scraped, its discovered news URL.
package sitelist

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"log"
	"os"

	"github.com/zombar/newslink/models"
)

// ErrMissingColumn indicates a required column is absent from the input CSV.
var ErrMissingColumn = errors.New("required column not found")

// Columns names the CSV columns carrying each SiteRecord field.
type Columns struct {
	Portal string
	Agency string
	News   string
}

// DefaultColumns returns the column names used by the gov.br site exports.
func DefaultColumns() Columns {
	return Columns{
		Portal: "Portal",
		Agency: "Órgão",
		News:   "Noticias",
	}
}

// Read loads site records from a CSV file. Portal and agency columns are
// required; the news column is optional and empty cells mean the site has
// not been scraped yet.
func Read(path string, cols Columns) ([]models.SiteRecord, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("site list %s: %w", path, err)
	}
	defer f.Close()

	records, err := parse(f, cols)
	if err != nil {
		return nil, fmt.Errorf("site list %s: %w", path, err)
	}

	log.Printf("Loaded %d sites from %s", len(records), path)
	return records, nil
}

func parse(f *os.File, cols Columns) ([]models.SiteRecord, error) {
	r := csv.NewReader(f)

	header, err := r.Read()
	if err != nil {
		return nil, fmt.Errorf("failed to read header: %w", err)
	}

	idx := make(map[string]int, len(header))
	for i, name := range header {
		idx[name] = i
	}

	portalIdx, ok := idx[cols.Portal]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrMissingColumn, cols.Portal)
	}
	agencyIdx, ok := idx[cols.Agency]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrMissingColumn, cols.Agency)
	}
	newsIdx, hasNews := idx[cols.News]

	var records []models.SiteRecord
	for {
		row, err := r.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read row: %w", err)
		}

		rec := models.SiteRecord{
			PortalURL:  row[portalIdx],
			AgencyName: row[agencyIdx],
		}
		if hasNews {
			rec.DiscoveredURL = row[newsIdx]
		}
		records = append(records, rec)
	}

	return records, nil
}

// Marshal renders the records as CSV bytes, preserving input order.
func Marshal(records []models.SiteRecord, cols Columns) ([]byte, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)

	if err := w.Write([]string{cols.Portal, cols.Agency, cols.News}); err != nil {
		return nil, fmt.Errorf("failed to write header: %w", err)
	}

	for _, rec := range records {
		row := []string{rec.PortalURL, rec.AgencyName, rec.DiscoveredURL}
		if err := w.Write(row); err != nil {
			return nil, fmt.Errorf("failed to write row: %w", err)
		}
	}

	w.Flush()
	if err := w.Error(); err != nil {
		return nil, fmt.Errorf("failed to flush CSV: %w", err)
	}

	return buf.Bytes(), nil
}

// Write saves the records to a CSV file.
func Write(path string, records []models.SiteRecord, cols Columns) error {
	data, err := Marshal(records, cols)
	if err != nil {
		return err
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("site list %s: %w", path, err)
	}
	return nil
}
