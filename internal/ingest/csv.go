// Package ingest reads raw county and agency CSV exports into canonical
// records. Source files disagree wildly on header names; a synonym table maps
// them onto one schema before anything downstream runs.
package ingest

import (
	"encoding/csv"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/google/uuid"
	"github.com/jszwec/csvutil"
	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/sells-group/recovery-cli/internal/model"
)

// headerSynonyms maps the header variants seen in real exports onto canonical
// column names. Matching is case-insensitive after trimming.
var headerSynonyms = map[string]string{
	// owner
	"owner":          "owner_name",
	"owner name":     "owner_name",
	"claimant":       "owner_name",
	"claimant name":  "owner_name",
	"name":           "owner_name",
	"defendant":      "owner_name",
	"property owner": "owner_name",
	// co-owner / borrower
	"co-owner":      "co_owner",
	"co owner":      "co_owner",
	"coowner":       "co_owner",
	"joint owner":   "co_owner",
	"borrower":      "borrower",
	"borrower name": "borrower",
	// money
	"amount":          "amount",
	"amount owed":     "amount",
	"amount due":      "amount",
	"funds":           "amount",
	"surplus":         "amount",
	"surplus amount":  "amount",
	"balance":         "amount",
	"excess proceeds": "amount",
	"estimated value": "estimated_value",
	"est value":       "estimated_value",
	"market value":    "estimated_value",
	"avm":             "estimated_value",
	"loan balance":    "loan_balance",
	"loan amount":     "loan_balance",
	"mortgage":        "loan_balance",
	// location
	"address":          "address",
	"property address": "address",
	"street":           "address",
	"street address":   "address",
	"city":             "city",
	"state":            "state",
	"st":               "state",
	"zip":              "zip",
	"zipcode":          "zip",
	"zip code":         "zip",
	"postal code":      "zip",
	// misc
	"case":         "case_number",
	"case number":  "case_number",
	"case no":      "case_number",
	"cause number": "case_number",
	"phone":        "phone",
	"phone number": "phone",
	"telephone":    "phone",
	"email":        "email",
	"auction date": "auction_date",
	"sale date":    "auction_date",
}

// canonicalHeader returns the canonical name for a raw header, or the
// lowercased raw header when no synonym is known.
func canonicalHeader(raw string) string {
	key := strings.ToLower(strings.TrimSpace(raw))
	if canon, ok := headerSynonyms[key]; ok {
		return canon
	}
	return key
}

type fundsRow struct {
	OwnerName  string  `csv:"owner_name"`
	CoOwner    string  `csv:"co_owner"`
	Amount     float64 `csv:"amount"`
	Address    string  `csv:"address"`
	City       string  `csv:"city"`
	State      string  `csv:"state"`
	Zip        string  `csv:"zip"`
	CaseNumber string  `csv:"case_number"`
	Phone      string  `csv:"phone"`
	Email      string  `csv:"email"`
}

type propertyRow struct {
	OwnerName      string  `csv:"owner_name"`
	Borrower       string  `csv:"borrower"`
	Address        string  `csv:"address"`
	City           string  `csv:"city"`
	State          string  `csv:"state"`
	Zip            string  `csv:"zip"`
	EstimatedValue float64 `csv:"estimated_value"`
	LoanBalance    float64 `csv:"loan_balance"`
	AuctionDate    string  `csv:"auction_date"`
}

// FundsImport is one funds record plus the contact details that belong on the
// lead rather than the record.
type FundsImport struct {
	Record model.FundsRecord
	Phone  string
	Email  string
}

// ReadFundsCSV parses an unclaimed-funds export. Rows without an owner name
// or with a non-positive amount are skipped, not errors: real exports carry
// subtotal and notice rows. Rows whose fields fail to decode (a "$12,500.00"
// amount, say) are likewise skipped and logged; only an unreadable header is
// fatal.
func ReadFundsCSV(path, source string) ([]FundsImport, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, eris.Wrapf(err, "ingest: open %s", path)
	}
	defer f.Close() //nolint:errcheck

	dec, err := newDecoder(f)
	if err != nil {
		return nil, eris.Wrapf(err, "ingest: read header of %s", path)
	}

	var out []FundsImport
	malformed := 0
	for {
		var row fundsRow
		if err := dec.Decode(&row); err == io.EOF {
			break
		} else if err != nil {
			malformed++
			zap.L().Warn("skipping malformed row",
				zap.String("csv", path),
				zap.Error(err),
			)
			continue
		}
		if strings.TrimSpace(row.OwnerName) == "" || row.Amount <= 0 {
			continue
		}
		owner := strings.TrimSpace(row.OwnerName)
		out = append(out, FundsImport{
			Record: model.FundsRecord{
				ID: recordID(source, row.CaseNumber, owner,
					strconv.FormatFloat(row.Amount, 'f', 2, 64), row.Address, row.Zip),
				OwnerName:  owner,
				CoOwner:    strings.TrimSpace(row.CoOwner),
				Amount:     row.Amount,
				Address:    strings.TrimSpace(row.Address),
				City:       strings.TrimSpace(row.City),
				State:      strings.ToUpper(strings.TrimSpace(row.State)),
				Zip:        strings.TrimSpace(row.Zip),
				CaseNumber: strings.TrimSpace(row.CaseNumber),
				Source:     source,
			},
			Phone: strings.TrimSpace(row.Phone),
			Email: strings.TrimSpace(row.Email),
		})
	}
	if malformed > 0 {
		zap.L().Warn("funds import skipped malformed rows",
			zap.String("csv", path),
			zap.Int("malformed", malformed),
		)
	}
	return out, nil
}

// ReadPropertyCSV parses a distressed-property export. Rows without an owner
// name are skipped.
func ReadPropertyCSV(path, source string) ([]model.PropertyRecord, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, eris.Wrapf(err, "ingest: open %s", path)
	}
	defer f.Close() //nolint:errcheck

	dec, err := newDecoder(f)
	if err != nil {
		return nil, eris.Wrapf(err, "ingest: read header of %s", path)
	}

	var out []model.PropertyRecord
	malformed := 0
	for {
		var row propertyRow
		if err := dec.Decode(&row); err == io.EOF {
			break
		} else if err != nil {
			malformed++
			zap.L().Warn("skipping malformed row",
				zap.String("csv", path),
				zap.Error(err),
			)
			continue
		}
		if strings.TrimSpace(row.OwnerName) == "" {
			continue
		}
		owner := strings.TrimSpace(row.OwnerName)
		out = append(out, model.PropertyRecord{
			ID:             recordID(source, owner, row.Address, row.Zip, row.AuctionDate),
			OwnerName:      owner,
			Borrower:       strings.TrimSpace(row.Borrower),
			Address:        strings.TrimSpace(row.Address),
			City:           strings.TrimSpace(row.City),
			State:          strings.ToUpper(strings.TrimSpace(row.State)),
			Zip:            strings.TrimSpace(row.Zip),
			EstimatedValue: row.EstimatedValue,
			LoanBalance:    row.LoanBalance,
			AuctionDate:    strings.TrimSpace(row.AuctionDate),
			Source:         source,
		})
	}
	if malformed > 0 {
		zap.L().Warn("property import skipped malformed rows",
			zap.String("csv", path),
			zap.Int("malformed", malformed),
		)
	}
	return out, nil
}

// recordNamespace scopes the deterministic record ids below.
var recordNamespace = uuid.NewSHA1(uuid.NameSpaceOID, []byte("recovery-cli/records"))

// recordID derives a stable id from a record's natural key. Re-reading the
// same export yields the same ids, so the store's insert-or-ignore dedupes
// re-imports instead of minting duplicates.
func recordID(parts ...string) string {
	for i, p := range parts {
		parts[i] = strings.ToUpper(strings.TrimSpace(p))
	}
	return uuid.NewSHA1(recordNamespace, []byte(strings.Join(parts, "|"))).String()
}

// newDecoder builds a csvutil decoder whose header has been canonicalized
// through the synonym table. Unknown columns are ignored.
func newDecoder(r io.Reader) (*csvutil.Decoder, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true

	rawHeader, err := cr.Read()
	if err != nil {
		return nil, err
	}
	header := make([]string, len(rawHeader))
	for i, h := range rawHeader {
		header[i] = canonicalHeader(h)
	}

	dec, err := csvutil.NewDecoder(cr, header...)
	if err != nil {
		return nil, err
	}
	dec.DisallowMissingColumns = false
	return dec, nil
}
