package extraction

import "github.com/poiesic/invoicit/ai"

// MergeContext copies source fields into target wherever target is still
// empty. The first page that reports a value wins; later pages cannot
// overwrite it.
func MergeContext(target, source *ai.InvoiceContext) {
	if source == nil {
		return
	}

	fill := func(dst *string, src string) {
		if *dst == "" && src != "" {
			*dst = src
		}
	}

	fill(&target.InvoiceNumber, source.InvoiceNumber)
	fill(&target.InvoiceDate, source.InvoiceDate)
	fill(&target.SenderName, source.SenderName)
	fill(&target.ReceiverName, source.ReceiverName)
	fill(&target.Currency, source.Currency)
	fill(&target.TotalAmount, source.TotalAmount)
}
