package model

// FundsRecord is a canonicalized unclaimed-funds record: money held by an
// agency and owed to a person. Source files use many synonymous headers for
// the amount; ingestion maps them onto this one schema before scoring or
// matching ever runs.
type FundsRecord struct {
	ID string `json:"id"`

	// LeadID links the record to the lead created from it on ingest;
	// golden-match promotion writes back through this link.
	LeadID string `json:"lead_id,omitempty"`

	OwnerName  string  `json:"owner_name"`
	CoOwner    string  `json:"co_owner,omitempty"`
	Amount     float64 `json:"amount"`
	Address    string  `json:"address,omitempty"`
	City       string  `json:"city,omitempty"`
	State      string  `json:"state,omitempty"`
	Zip        string  `json:"zip,omitempty"`
	CaseNumber string  `json:"case_number,omitempty"`
	Source     string  `json:"source,omitempty"`
}

// PropertyRecord is a canonicalized distressed-property record: a property
// in pre-foreclosure or auction with recoverable equity.
type PropertyRecord struct {
	ID             string  `json:"id"`
	OwnerName      string  `json:"owner_name"`
	Borrower       string  `json:"borrower,omitempty"`
	Address        string  `json:"address,omitempty"`
	City           string  `json:"city,omitempty"`
	State          string  `json:"state,omitempty"`
	Zip            string  `json:"zip,omitempty"`
	EstimatedValue float64 `json:"estimated_value"`
	LoanBalance    float64 `json:"loan_balance,omitempty"`
	AuctionDate    string  `json:"auction_date,omitempty"`
	Source         string  `json:"source,omitempty"`
}

// Equity returns the estimated recoverable equity for the property.
func (p *PropertyRecord) Equity() float64 {
	eq := p.EstimatedValue - p.LoanBalance
	if eq < 0 {
		return 0
	}
	return eq
}

// ListingStatus is an externally supplied signal about a property's market
// activity. The matcher consumes it as an input; it never fetches it.
type ListingStatus string

const (
	ListingActive  ListingStatus = "active"
	ListingPending ListingStatus = "pending"
	ListingSold    ListingStatus = "sold"
	ListingUnknown ListingStatus = "unknown"
)

// SaleInProgress reports whether the listing signal indicates an active or
// pending sale, which fast-tracks golden-match promotion.
func (s ListingStatus) SaleInProgress() bool {
	return s == ListingActive || s == ListingPending
}

// Confidence is the reliability tier of a match candidate.
type Confidence string

const (
	ConfidenceExact  Confidence = "exact"
	ConfidenceHigh   Confidence = "high"
	ConfidenceMedium Confidence = "medium"
	ConfidenceLow    Confidence = "low"
)

// rank orders confidence tiers for comparison; higher is better.
func (c Confidence) rank() int {
	switch c {
	case ConfidenceExact:
		return 3
	case ConfidenceHigh:
		return 2
	case ConfidenceMedium:
		return 1
	default:
		return 0
	}
}

// AtLeast reports whether c is at least as confident as other.
func (c Confidence) AtLeast(other Confidence) bool {
	return c.rank() >= other.rank()
}

// MatchCandidate is the ephemeral output of one matcher pass: a funds record
// and a property record that appear to reference the same person.
type MatchCandidate struct {
	FundsID       string        `json:"funds_id"`
	PropertyID    string        `json:"property_id"`
	Confidence    Confidence    `json:"confidence"`
	CombinedValue float64       `json:"combined_value"`
	MatchedName   string        `json:"matched_name"`
	ListingStatus ListingStatus `json:"listing_status,omitempty"`
}

// Key returns the deduplication key for the candidate. Promotion is keyed by
// this pair so re-running the matcher never double-counts a golden match.
func (m *MatchCandidate) Key() string {
	return m.FundsID + "|" + m.PropertyID
}
