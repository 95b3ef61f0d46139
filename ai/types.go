package ai

import "encoding/json"

// TableStatus describes the state of the table at the very bottom of a page.
type TableStatus string

const (
	// TableNone means no table is open at the page break.
	TableNone TableStatus = "no_table"
	// TableOpenHeadless means the table continues on the next page without
	// repeating its headers; rows must be mapped to ActiveColumns.
	TableOpenHeadless TableStatus = "table_open_headless"
	// TableOpenWithHeaders means the table continues but the next page is
	// expected to repeat its headers.
	TableOpenWithHeaders TableStatus = "table_open_with_headers"
)

// PageState is the rolling context carried from one page to the next during
// sequential extraction. It tells the extraction model how the previous page
// ended so that tables spanning page boundaries are reconstructed correctly.
type PageState struct {
	TableStatus        TableStatus `json:"table_status"`
	ActiveColumns      []string    `json:"active_columns"`
	ActiveSectionTitle string      `json:"active_section_title"`
}

// InitialPageState returns the state presented to the extractor before any
// page has been processed.
func InitialPageState() PageState {
	return PageState{
		TableStatus:        TableNone,
		ActiveColumns:      []string{},
		ActiveSectionTitle: "Start",
	}
}

// JSON returns the deterministic serialized form of the state, as embedded in
// extraction prompts. Struct field order is fixed, so the output is stable.
func (s PageState) JSON() string {
	bs, err := json.Marshal(s)
	if err != nil {
		// PageState contains only strings; marshaling cannot fail.
		panic(err)
	}
	return string(bs)
}

// InvoiceContext holds invoice-level metadata reported by the extractor.
// Fields are raw strings as seen on the page; empty means not found.
// Fragments from individual pages are merged first-write-wins into one
// aggregate per document.
type InvoiceContext struct {
	InvoiceNumber string `json:"invoice_number"`
	InvoiceDate   string `json:"invoice_date"` // ISO 8601 issue date
	SenderName    string `json:"sender_name"`
	ReceiverName  string `json:"receiver_name"`
	Currency      string `json:"currency"`     // ISO 4217, inferred from symbols or labels
	TotalAmount   string `json:"total_amount"` // raw total, may include commas or symbols
}

// ExtractedLineItem is a single table row reported by the extraction model.
// Numeric fields are normalized by the model; nil means not present.
type ExtractedLineItem struct {
	ItemCode     string   `json:"item_code"`
	Description  string   `json:"description"`
	DeliveryDate string   `json:"delivery_date"`
	Quantity     *float64 `json:"quantity_value"`
	QuantityUnit string   `json:"quantity_unit"`
	UnitPrice    *float64 `json:"unit_price"`
	LineTotal    *float64 `json:"line_total_amount"`
	Section      string   `json:"section"` // section header the item appears under
}

// PageExtraction is the extractor's output for one page of a multi-page chain.
type PageExtraction struct {
	NextPageState  PageState           `json:"next_page_state"`
	InvoiceContext *InvoiceContext     `json:"invoice_context"`
	LineItems      []ExtractedLineItem `json:"line_items"`
}

// SinglePageExtraction is the extractor's output for the one-shot path used
// on single-page documents.
type SinglePageExtraction struct {
	InvoiceContext InvoiceContext      `json:"invoice_context"`
	LineItems      []ExtractedLineItem `json:"line_items"`
}
