package domain

// FeedItem is one article reference parsed from the press-release feed.
// The link is already normalized (https forced, canonical host).
// Immutable once parsed.
type FeedItem struct {
	Title        string
	Link         string
	PublishedRaw string
}

// RenderedPage holds the visible text and title obtained by loading a
// page in the browser. It is ephemeral: produced per fetch and consumed
// immediately by the extractor, never persisted.
type RenderedPage struct {
	Title string `json:"title"`
	Text  string `json:"text"`
}

// AwardEvent is one structured contract-award record extracted from one
// paragraph of article text. Events are terminal: returned to the caller
// or handed to the persistence sink, never mutated after construction.
//
// Invariants: Amount is nil or a non-negative finite number; Agencies
// always starts with the top-level department followed by the active
// sub-agency heading when one has been seen.
type AwardEvent struct {
	Source     string         `json:"source" bson:"source"`
	SourceURL  string         `json:"source_url" bson:"source_url"`
	Published  string         `json:"published_at" bson:"published_at"`
	Title      string         `json:"title" bson:"title"`
	Summary    string         `json:"summary" bson:"summary"`
	Body       string         `json:"body" bson:"body"`
	Agencies   []string       `json:"agencies" bson:"agencies"`
	Vendors    []string       `json:"vendors" bson:"vendors"`
	ContractID string         `json:"contract_id" bson:"contract_id"`
	Amount     *float64       `json:"amount" bson:"amount"`
	AmountUnit string         `json:"amount_unit" bson:"amount_unit"`
	AmountText string         `json:"amount_text" bson:"amount_text"`
	Reasons    []string       `json:"reasons" bson:"reasons"`
	Meta       map[string]any `json:"meta" bson:"meta"`
}

// Reason codes tagging an event's inferred nature.
const (
	ReasonContractAward        = "contract_award"
	ReasonContractModification = "contract_modification"
	ReasonOptionExercise       = "option_exercise"
	ReasonNoSignal             = "no_signal"
)
