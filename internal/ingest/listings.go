package ingest

import (
	"encoding/csv"
	"io"
	"os"
	"strings"

	"github.com/rotisserie/eris"

	"github.com/sells-group/recovery-cli/internal/model"
)

// ReadListingsCSV parses a property_id,status file of listing signals keyed
// by property record id. Unrecognized statuses collapse to unknown.
func ReadListingsCSV(path string) (map[string]model.ListingStatus, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, eris.Wrapf(err, "ingest: open %s", path)
	}
	defer f.Close() //nolint:errcheck

	cr := csv.NewReader(f)
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true

	out := make(map[string]model.ListingStatus)
	first := true
	for {
		row, err := cr.Read()
		if err == io.EOF {
			break
		} else if err != nil {
			return nil, eris.Wrapf(err, "ingest: read %s", path)
		}
		if len(row) < 2 {
			continue
		}
		// Tolerate a header row.
		if first {
			first = false
			if strings.EqualFold(strings.TrimSpace(row[0]), "property_id") {
				continue
			}
		}

		id := strings.TrimSpace(row[0])
		if id == "" {
			continue
		}
		switch status := model.ListingStatus(strings.ToLower(strings.TrimSpace(row[1]))); status {
		case model.ListingActive, model.ListingPending, model.ListingSold:
			out[id] = status
		default:
			out[id] = model.ListingUnknown
		}
	}
	return out, nil
}
