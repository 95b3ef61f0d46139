package badger

import (
	"encoding/binary"
	"fmt"

	"github.com/poiesic/invoicit/core"
)

// Key prefixes for different data types
const (
	invoicePrefix     = "invrec"
	invoiceHashPrefix = "invhash"
	invoiceIDSeq      = "invrecseq"
	lineItemPrefix    = "lirec"
	lineItemInvPrefix = "liinv"
	lineItemIDSeq     = "lirecseq"
)

// makeInvoiceKey generates a key for an invoice by ID.
func makeInvoiceKey(id core.ID) []byte {
	return []byte(fmt.Sprintf("%s:%d", invoicePrefix, id))
}

// makeInvoiceHashKey generates a key for the unique file hash index.
// Format: prefix:hash
func makeInvoiceHashKey(fileHash string) []byte {
	return []byte(fmt.Sprintf("%s:%s", invoiceHashPrefix, fileHash))
}

// makeLineItemKey generates a key for a line item by ID.
func makeLineItemKey(id core.ID) []byte {
	return []byte(fmt.Sprintf("%s:%d", lineItemPrefix, id))
}

// makeLineItemInvoiceKey generates a composite key for the invoice index.
// Format: prefix:invoiceID:itemID
func makeLineItemInvoiceKey(invoiceID, itemID core.ID) []byte {
	prefix := lineItemInvPrefix + ":"
	prefixBytes := []byte(prefix)
	prefixSize := len(prefixBytes)
	totalSize := prefixSize + 16 // 8 bytes for invoiceID + 8 bytes for itemID
	buf := make([]byte, totalSize)
	offset := copy(buf, prefixBytes)
	// Write in BigEndian order so lexicographic sort works correctly
	binary.BigEndian.PutUint64(buf[offset:], uint64(invoiceID))
	offset += 8
	binary.BigEndian.PutUint64(buf[offset:], uint64(itemID))
	return buf
}

// makePartialLineItemInvoiceKey generates a partial key for scanning all line
// items of one invoice.
// Format: prefix:invoiceID
func makePartialLineItemInvoiceKey(invoiceID core.ID) []byte {
	prefix := lineItemInvPrefix + ":"
	prefixBytes := []byte(prefix)
	prefixSize := len(prefixBytes)
	totalSize := prefixSize + 8 // 8 bytes for invoiceID
	buf := make([]byte, totalSize)
	offset := copy(buf, prefixBytes)
	// Write in BigEndian order so lexicographic sort works correctly
	binary.BigEndian.PutUint64(buf[offset:], uint64(invoiceID))
	return buf
}
