package ingest

import (
	"time"

	"github.com/google/uuid"

	"github.com/sells-group/recovery-cli/internal/model"
)

// leadNamespace scopes deterministic lead ids, keyed by funds record id.
var leadNamespace = uuid.NewSHA1(uuid.NameSpaceOID, []byte("recovery-cli/leads"))

// LeadFromFunds builds a new lead from an imported funds record and links the
// record back to it. Every funds row becomes exactly one lead; property
// records only ever attach through golden-match promotion. The lead id is
// derived from the record id, so re-importing a file maps each row back onto
// the lead it created the first time.
func LeadFromFunds(imp *FundsImport, now time.Time) *model.Lead {
	lead := &model.Lead{
		ID:        uuid.NewSHA1(leadNamespace, []byte(imp.Record.ID)).String(),
		OwnerName: imp.Record.OwnerName,
		Address:   imp.Record.Address,
		City:      imp.Record.City,
		State:     imp.Record.State,
		Zip:       imp.Record.Zip,

		AmountOwed: imp.Record.Amount,
		Email:      imp.Email,

		Status:    model.StatusNew,
		Version:   1,
		CreatedAt: now.UTC(),
		UpdatedAt: now.UTC(),
	}
	if imp.Phone != "" {
		lead.Phones = []string{imp.Phone}
	}
	imp.Record.LeadID = lead.ID
	return lead
}
