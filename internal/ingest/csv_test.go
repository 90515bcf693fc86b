package ingest

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sells-group/recovery-cli/internal/model"
)

func writeCSV(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestReadFundsCSV(t *testing.T) {
	path := writeCSV(t, "funds.csv", `Claimant Name,Surplus Amount,Property Address,City,ST,Zip Code,Case No,Phone,Email
John Smith,52000,12 Main St,Austin,tx,78701,CV-2024-1,+15550001111,john@example.com
Mary Jones,8000,9 Oak Ave,Dallas,TX,75201,CV-2024-2,,
`)

	got, err := ReadFundsCSV(path, "travis-county")
	require.NoError(t, err)
	require.Len(t, got, 2)

	first := got[0]
	assert.Equal(t, "John Smith", first.Record.OwnerName)
	assert.InDelta(t, 52_000, first.Record.Amount, 0.01)
	assert.Equal(t, "12 Main St", first.Record.Address)
	assert.Equal(t, "TX", first.Record.State)
	assert.Equal(t, "CV-2024-1", first.Record.CaseNumber)
	assert.Equal(t, "travis-county", first.Record.Source)
	assert.Equal(t, "+15550001111", first.Phone)
	assert.Equal(t, "john@example.com", first.Email)
	assert.NotEmpty(t, first.Record.ID)

	assert.Equal(t, "Mary Jones", got[1].Record.OwnerName)
	assert.Empty(t, got[1].Phone)
}

func TestReadFundsCSVSkipsJunkRows(t *testing.T) {
	path := writeCSV(t, "funds.csv", `Owner,Amount
John Smith,52000
,10000
TOTAL,0
Mary Jones,-5
`)

	got, err := ReadFundsCSV(path, "src")
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "John Smith", got[0].Record.OwnerName)
}

func TestReadFundsCSVHeaderSynonyms(t *testing.T) {
	// A different agency's export: same data, different labels.
	path := writeCSV(t, "funds.csv", `Defendant,Excess Proceeds,Street,State,Postal Code
John Smith,52000,12 Main St,TX,78701
`)

	got, err := ReadFundsCSV(path, "src")
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "John Smith", got[0].Record.OwnerName)
	assert.InDelta(t, 52_000, got[0].Record.Amount, 0.01)
	assert.Equal(t, "12 Main St", got[0].Record.Address)
	assert.Equal(t, "78701", got[0].Record.Zip)
}

func TestReadFundsCSVSkipsMalformedRows(t *testing.T) {
	// County clerks export currency-formatted amounts; those rows must not
	// take the rest of the batch down with them.
	path := writeCSV(t, "funds.csv", `Owner Name,Amount
John Smith,52000
Mary Jones,"$12,500.00"
Bob Brown,8000
`)

	got, err := ReadFundsCSV(path, "src")
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "John Smith", got[0].Record.OwnerName)
	assert.Equal(t, "Bob Brown", got[1].Record.OwnerName)
}

func TestReadPropertyCSVSkipsMalformedRows(t *testing.T) {
	path := writeCSV(t, "props.csv", `Owner,Estimated Value
John Smith,80000
Mary Jones,not-a-number
`)

	got, err := ReadPropertyCSV(path, "src")
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "John Smith", got[0].OwnerName)
}

func TestReadFundsCSVDeterministicIDs(t *testing.T) {
	content := `Owner,Amount,Case Number
John Smith,52000,CV-2024-1
Mary Jones,8000,CV-2024-2
`
	first, err := ReadFundsCSV(writeCSV(t, "a.csv", content), "src")
	require.NoError(t, err)
	second, err := ReadFundsCSV(writeCSV(t, "b.csv", content), "src")
	require.NoError(t, err)

	require.Len(t, first, 2)
	require.Len(t, second, 2)
	// Same export, same ids: the store's insert-or-ignore can dedupe.
	assert.Equal(t, first[0].Record.ID, second[0].Record.ID)
	assert.Equal(t, first[1].Record.ID, second[1].Record.ID)
	assert.NotEqual(t, first[0].Record.ID, first[1].Record.ID)

	// A different source is a different record.
	other, err := ReadFundsCSV(writeCSV(t, "c.csv", content), "other-county")
	require.NoError(t, err)
	assert.NotEqual(t, first[0].Record.ID, other[0].Record.ID)
}

func TestReadPropertyCSVDeterministicIDs(t *testing.T) {
	content := `Owner,Address,Zip
John Smith,12 Main St,78701
`
	first, err := ReadPropertyCSV(writeCSV(t, "a.csv", content), "src")
	require.NoError(t, err)
	second, err := ReadPropertyCSV(writeCSV(t, "b.csv", content), "src")
	require.NoError(t, err)
	assert.Equal(t, first[0].ID, second[0].ID)
}

func TestReadFundsCSVIgnoresUnknownColumns(t *testing.T) {
	path := writeCSV(t, "funds.csv", `Owner,Amount,Internal Notes
John Smith,52000,do not call after 5
`)

	got, err := ReadFundsCSV(path, "src")
	require.NoError(t, err)
	require.Len(t, got, 1)
}

func TestReadFundsCSVMissingFile(t *testing.T) {
	_, err := ReadFundsCSV(filepath.Join(t.TempDir(), "nope.csv"), "src")
	assert.Error(t, err)
}

func TestReadPropertyCSV(t *testing.T) {
	path := writeCSV(t, "props.csv", `Property Owner,Borrower Name,Address,City,State,Zip,AVM,Loan Balance,Sale Date
John Smith,Jane Smith,12 Main St,Austin,tx,78701,80000,50000,2026-04-01
,,,,,,,,
`)

	got, err := ReadPropertyCSV(path, "foreclosure-list")
	require.NoError(t, err)
	require.Len(t, got, 1)

	p := got[0]
	assert.Equal(t, "John Smith", p.OwnerName)
	assert.Equal(t, "Jane Smith", p.Borrower)
	assert.Equal(t, "TX", p.State)
	assert.InDelta(t, 80_000, p.EstimatedValue, 0.01)
	assert.InDelta(t, 50_000, p.LoanBalance, 0.01)
	assert.Equal(t, "2026-04-01", p.AuctionDate)
	assert.Equal(t, "foreclosure-list", p.Source)
}

func TestLeadFromFunds(t *testing.T) {
	now := time.Date(2026, 3, 10, 14, 0, 0, 0, time.UTC)
	imp := &FundsImport{
		Record: model.FundsRecord{
			ID:        "f1",
			OwnerName: "John Smith",
			Amount:    52_000,
			City:      "Austin",
			State:     "TX",
			Zip:       "78701",
		},
		Phone: "+15550001111",
		Email: "john@example.com",
	}

	lead := LeadFromFunds(imp, now)
	assert.NotEmpty(t, lead.ID)
	assert.Equal(t, "John Smith", lead.OwnerName)
	assert.InDelta(t, 52_000, lead.AmountOwed, 0.01)
	assert.Equal(t, []string{"+15550001111"}, lead.Phones)
	assert.Equal(t, model.StatusNew, lead.Status)
	assert.Equal(t, int64(1), lead.Version)
	assert.Equal(t, now, lead.CreatedAt)
	// The record points back at its lead for golden-match stamping.
	assert.Equal(t, lead.ID, imp.Record.LeadID)
}

func TestLeadFromFundsDeterministicID(t *testing.T) {
	now := time.Now()
	a := &FundsImport{Record: model.FundsRecord{ID: "f1", OwnerName: "John Smith", Amount: 52_000}}
	b := &FundsImport{Record: model.FundsRecord{ID: "f1", OwnerName: "John Smith", Amount: 52_000}}
	c := &FundsImport{Record: model.FundsRecord{ID: "f2", OwnerName: "Mary Jones", Amount: 8_000}}

	// Re-importing the same record resolves to the same lead.
	assert.Equal(t, LeadFromFunds(a, now).ID, LeadFromFunds(b, now).ID)
	assert.NotEqual(t, LeadFromFunds(a, now).ID, LeadFromFunds(c, now).ID)
}

func TestLeadFromFundsNoPhone(t *testing.T) {
	imp := &FundsImport{Record: model.FundsRecord{ID: "f1", OwnerName: "Mary Jones", Amount: 8_000}}
	lead := LeadFromFunds(imp, time.Now())
	assert.Nil(t, lead.Phones)
	assert.False(t, lead.HasPhone())
}

func TestReadListingsCSV(t *testing.T) {
	path := writeCSV(t, "listings.csv", `property_id,status
p1,active
p2,SOLD
p3,something-weird
,active
p4,pending
`)

	got, err := ReadListingsCSV(path)
	require.NoError(t, err)
	assert.Equal(t, map[string]model.ListingStatus{
		"p1": model.ListingActive,
		"p2": model.ListingSold,
		"p3": model.ListingUnknown,
		"p4": model.ListingPending,
	}, got)
}

func TestReadListingsCSVNoHeader(t *testing.T) {
	path := writeCSV(t, "listings.csv", "p1,active\n")
	got, err := ReadListingsCSV(path)
	require.NoError(t, err)
	assert.Equal(t, model.ListingActive, got["p1"])
}
