package main

import (
	"fmt"
	"strings"

	"github.com/poiesic/invoicit/core"
)

// formatLineItems renders line item results as aligned text blocks.
func formatLineItems(items []*core.LineItemResult) string {
	if len(items) == 0 {
		return "No line items found."
	}

	blocks := make([]string, 0, len(items))
	for i, item := range items {
		qty := "N/A"
		if item.Quantity != nil {
			qty = strings.TrimSpace(fmt.Sprintf("%g %s", *item.Quantity, item.QuantityUnit))
		}

		date := "N/A"
		if !item.InvoiceDate.IsZero() {
			date = item.InvoiceDate.Format("2006-01-02")
		}

		blocks = append(blocks, strings.Join([]string{
			fmt.Sprintf("Line Item #%d\tscore (%.4f)", i+1, item.Score),
			fmt.Sprintf("  Page        : %d", item.PageNumber),
			fmt.Sprintf("  Section     : %s", orNA(item.Section)),
			fmt.Sprintf("  Description : %s", item.Description),
			fmt.Sprintf("  Item Code   : %s", orNA(item.ItemCode)),
			fmt.Sprintf("  Quantity    : %s", qty),
			fmt.Sprintf("  Unit Price  : %s", amount(item.UnitPrice)),
			fmt.Sprintf("  Total       : %s", amount(item.TotalAmount)),
			fmt.Sprintf("  Delivery    : %s", orNA(item.DeliveryDate)),
			fmt.Sprintf("  Invoice No. : %s", orNA(item.InvoiceNumber)),
			fmt.Sprintf("  Sender      : %s", orNA(item.SenderName)),
			fmt.Sprintf("  Invoice Date: %s", date),
		}, "\n"))
	}

	return strings.Join(blocks, "\n\n")
}

// formatInvoices renders invoice results as aligned text blocks.
func formatInvoices(invoices []*core.InvoiceResult) string {
	if len(invoices) == 0 {
		return "No invoices found."
	}

	blocks := make([]string, 0, len(invoices))
	for i, inv := range invoices {
		date := "N/A"
		if !inv.InvoiceDate.IsZero() {
			date = inv.InvoiceDate.Format("2006-01-02")
		}

		errMsg := "None"
		if inv.ErrorMessage != "" {
			errMsg = inv.ErrorMessage
		}

		blocks = append(blocks, strings.Join([]string{
			fmt.Sprintf("Invoice #%d", i+1),
			fmt.Sprintf("  File        : %s", inv.Filename),
			fmt.Sprintf("  Status      : %s", inv.Status),
			fmt.Sprintf("  Invoice No. : %s", orNA(inv.InvoiceNumber)),
			fmt.Sprintf("  Date        : %s", date),
			fmt.Sprintf("  Sender      : %s", orNA(inv.SenderName)),
			fmt.Sprintf("  Currency    : %s", orNA(inv.Currency)),
			fmt.Sprintf("  Total       : %s", amount(inv.TotalAmount)),
			fmt.Sprintf("  Error       : %s", errMsg),
		}, "\n"))
	}

	return strings.Join(blocks, "\n\n")
}

func amount(v *float64) string {
	if v == nil {
		return "N/A"
	}
	return fmt.Sprintf("%.2f", *v)
}

func orNA(s string) string {
	if s == "" {
		return "N/A"
	}
	return s
}
