package core

// Hand-written MUS serializers for the persisted domain types. Field order is
// part of the storage format; append new fields at the end only.

import (
	"time"

	"github.com/mus-format/mus-go/ord"
	"github.com/mus-format/mus-go/raw"
	"github.com/mus-format/mus-go/varint"
)

// IDMUS serializes IDs as varint-encoded uint64.
var IDMUS = idMUS{}

// InvoiceMUS serializes Invoice records.
var InvoiceMUS = invoiceMUS{}

// LineItemMUS serializes LineItem records.
var LineItemMUS = lineItemMUS{}

type idMUS struct{}

func (idMUS) Marshal(v ID, bs []byte) (n int) {
	return varint.Uint64.Marshal(uint64(v), bs)
}

func (idMUS) Unmarshal(bs []byte) (v ID, n int, err error) {
	u, n, err := varint.Uint64.Unmarshal(bs)
	return ID(u), n, err
}

func (idMUS) Size(v ID) (size int) {
	return varint.Uint64.Size(uint64(v))
}

func (idMUS) Skip(bs []byte) (n int, err error) {
	return varint.Uint64.Skip(bs)
}

// marshalTime encodes a timestamp as a presence flag plus Unix microseconds,
// so the zero time survives a round trip exactly.
func marshalTime(v time.Time, bs []byte) (n int) {
	if v.IsZero() {
		return ord.Bool.Marshal(false, bs)
	}
	n = ord.Bool.Marshal(true, bs)
	n += varint.Int64.Marshal(v.UnixMicro(), bs[n:])
	return n
}

func unmarshalTime(bs []byte) (v time.Time, n int, err error) {
	set, n, err := ord.Bool.Unmarshal(bs)
	if err != nil || !set {
		return time.Time{}, n, err
	}
	micro, n1, err := varint.Int64.Unmarshal(bs[n:])
	n += n1
	if err != nil {
		return time.Time{}, n, err
	}
	return time.UnixMicro(micro).UTC(), n, nil
}

func sizeTime(v time.Time) (size int) {
	if v.IsZero() {
		return ord.Bool.Size(false)
	}
	return ord.Bool.Size(true) + varint.Int64.Size(v.UnixMicro())
}

func marshalFloatPtr(v *float64, bs []byte) (n int) {
	if v == nil {
		return ord.Bool.Marshal(false, bs)
	}
	n = ord.Bool.Marshal(true, bs)
	n += raw.Float64.Marshal(*v, bs[n:])
	return n
}

func unmarshalFloatPtr(bs []byte) (v *float64, n int, err error) {
	set, n, err := ord.Bool.Unmarshal(bs)
	if err != nil || !set {
		return nil, n, err
	}
	f, n1, err := raw.Float64.Unmarshal(bs[n:])
	n += n1
	if err != nil {
		return nil, n, err
	}
	return &f, n, nil
}

func sizeFloatPtr(v *float64) (size int) {
	if v == nil {
		return ord.Bool.Size(false)
	}
	return ord.Bool.Size(true) + raw.Float64.Size(*v)
}

func marshalVector(v []float32, bs []byte) (n int) {
	n = varint.Int.Marshal(len(v), bs)
	for _, f := range v {
		n += raw.Float32.Marshal(f, bs[n:])
	}
	return n
}

func unmarshalVector(bs []byte) (v []float32, n int, err error) {
	length, n, err := varint.Int.Unmarshal(bs)
	if err != nil {
		return nil, n, err
	}
	if length == 0 {
		return nil, n, nil
	}
	v = make([]float32, length)
	for i := 0; i < length; i++ {
		var n1 int
		v[i], n1, err = raw.Float32.Unmarshal(bs[n:])
		n += n1
		if err != nil {
			return nil, n, err
		}
	}
	return v, n, nil
}

func sizeVector(v []float32) (size int) {
	size = varint.Int.Size(len(v))
	for _, f := range v {
		size += raw.Float32.Size(f)
	}
	return size
}

type invoiceMUS struct{}

func (invoiceMUS) Marshal(v Invoice, bs []byte) (n int) {
	n = IDMUS.Marshal(v.Id, bs)
	n += ord.String.Marshal(v.Filename, bs[n:])
	n += ord.String.Marshal(v.FileHash, bs[n:])
	n += marshalTime(v.UploadDate, bs[n:])
	n += varint.Int.Marshal(int(v.Status), bs[n:])
	n += ord.String.Marshal(v.ErrorMessage, bs[n:])
	n += varint.Int.Marshal(v.TotalPages, bs[n:])
	n += varint.Int64.Marshal(int64(v.ProcessingTime), bs[n:])
	n += ord.String.Marshal(v.InvoiceNumber, bs[n:])
	n += marshalTime(v.InvoiceDate, bs[n:])
	n += ord.String.Marshal(v.SenderName, bs[n:])
	n += ord.String.Marshal(v.ReceiverName, bs[n:])
	n += ord.String.Marshal(v.Currency, bs[n:])
	n += marshalFloatPtr(v.TotalAmount, bs[n:])
	n += marshalTime(v.InsertedAt, bs[n:])
	n += marshalTime(v.UpdatedAt, bs[n:])
	return n
}

func (invoiceMUS) Unmarshal(bs []byte) (v Invoice, n int, err error) {
	var n1 int
	if v.Id, n, err = IDMUS.Unmarshal(bs); err != nil {
		return
	}
	if v.Filename, n1, err = ord.String.Unmarshal(bs[n:]); err != nil {
		return v, n + n1, err
	}
	n += n1
	if v.FileHash, n1, err = ord.String.Unmarshal(bs[n:]); err != nil {
		return v, n + n1, err
	}
	n += n1
	if v.UploadDate, n1, err = unmarshalTime(bs[n:]); err != nil {
		return v, n + n1, err
	}
	n += n1
	var status int
	if status, n1, err = varint.Int.Unmarshal(bs[n:]); err != nil {
		return v, n + n1, err
	}
	v.Status = ProcessingStatus(status)
	n += n1
	if v.ErrorMessage, n1, err = ord.String.Unmarshal(bs[n:]); err != nil {
		return v, n + n1, err
	}
	n += n1
	if v.TotalPages, n1, err = varint.Int.Unmarshal(bs[n:]); err != nil {
		return v, n + n1, err
	}
	n += n1
	var procTime int64
	if procTime, n1, err = varint.Int64.Unmarshal(bs[n:]); err != nil {
		return v, n + n1, err
	}
	v.ProcessingTime = time.Duration(procTime)
	n += n1
	if v.InvoiceNumber, n1, err = ord.String.Unmarshal(bs[n:]); err != nil {
		return v, n + n1, err
	}
	n += n1
	if v.InvoiceDate, n1, err = unmarshalTime(bs[n:]); err != nil {
		return v, n + n1, err
	}
	n += n1
	if v.SenderName, n1, err = ord.String.Unmarshal(bs[n:]); err != nil {
		return v, n + n1, err
	}
	n += n1
	if v.ReceiverName, n1, err = ord.String.Unmarshal(bs[n:]); err != nil {
		return v, n + n1, err
	}
	n += n1
	if v.Currency, n1, err = ord.String.Unmarshal(bs[n:]); err != nil {
		return v, n + n1, err
	}
	n += n1
	if v.TotalAmount, n1, err = unmarshalFloatPtr(bs[n:]); err != nil {
		return v, n + n1, err
	}
	n += n1
	if v.InsertedAt, n1, err = unmarshalTime(bs[n:]); err != nil {
		return v, n + n1, err
	}
	n += n1
	if v.UpdatedAt, n1, err = unmarshalTime(bs[n:]); err != nil {
		return v, n + n1, err
	}
	n += n1
	return v, n, nil
}

func (invoiceMUS) Size(v Invoice) (size int) {
	size = IDMUS.Size(v.Id)
	size += ord.String.Size(v.Filename)
	size += ord.String.Size(v.FileHash)
	size += sizeTime(v.UploadDate)
	size += varint.Int.Size(int(v.Status))
	size += ord.String.Size(v.ErrorMessage)
	size += varint.Int.Size(v.TotalPages)
	size += varint.Int64.Size(int64(v.ProcessingTime))
	size += ord.String.Size(v.InvoiceNumber)
	size += sizeTime(v.InvoiceDate)
	size += ord.String.Size(v.SenderName)
	size += ord.String.Size(v.ReceiverName)
	size += ord.String.Size(v.Currency)
	size += sizeFloatPtr(v.TotalAmount)
	size += sizeTime(v.InsertedAt)
	size += sizeTime(v.UpdatedAt)
	return size
}

func (s invoiceMUS) Skip(bs []byte) (n int, err error) {
	_, n, err = s.Unmarshal(bs)
	return n, err
}

type lineItemMUS struct{}

func (lineItemMUS) Marshal(v LineItem, bs []byte) (n int) {
	n = IDMUS.Marshal(v.Id, bs)
	n += IDMUS.Marshal(v.InvoiceId, bs[n:])
	n += varint.Int.Marshal(v.PageNumber, bs[n:])
	n += ord.String.Marshal(v.Description, bs[n:])
	n += ord.String.Marshal(v.Section, bs[n:])
	n += ord.String.Marshal(v.ItemCode, bs[n:])
	n += ord.String.Marshal(v.DeliveryDate, bs[n:])
	n += marshalFloatPtr(v.Quantity, bs[n:])
	n += ord.String.Marshal(v.QuantityUnit, bs[n:])
	n += marshalFloatPtr(v.UnitPrice, bs[n:])
	n += marshalFloatPtr(v.TotalAmount, bs[n:])
	n += ord.String.Marshal(v.SearchText, bs[n:])
	n += marshalVector(v.Vector, bs[n:])
	n += marshalTime(v.InsertedAt, bs[n:])
	n += marshalTime(v.UpdatedAt, bs[n:])
	return n
}

func (lineItemMUS) Unmarshal(bs []byte) (v LineItem, n int, err error) {
	var n1 int
	if v.Id, n, err = IDMUS.Unmarshal(bs); err != nil {
		return
	}
	if v.InvoiceId, n1, err = IDMUS.Unmarshal(bs[n:]); err != nil {
		return v, n + n1, err
	}
	n += n1
	if v.PageNumber, n1, err = varint.Int.Unmarshal(bs[n:]); err != nil {
		return v, n + n1, err
	}
	n += n1
	if v.Description, n1, err = ord.String.Unmarshal(bs[n:]); err != nil {
		return v, n + n1, err
	}
	n += n1
	if v.Section, n1, err = ord.String.Unmarshal(bs[n:]); err != nil {
		return v, n + n1, err
	}
	n += n1
	if v.ItemCode, n1, err = ord.String.Unmarshal(bs[n:]); err != nil {
		return v, n + n1, err
	}
	n += n1
	if v.DeliveryDate, n1, err = ord.String.Unmarshal(bs[n:]); err != nil {
		return v, n + n1, err
	}
	n += n1
	if v.Quantity, n1, err = unmarshalFloatPtr(bs[n:]); err != nil {
		return v, n + n1, err
	}
	n += n1
	if v.QuantityUnit, n1, err = ord.String.Unmarshal(bs[n:]); err != nil {
		return v, n + n1, err
	}
	n += n1
	if v.UnitPrice, n1, err = unmarshalFloatPtr(bs[n:]); err != nil {
		return v, n + n1, err
	}
	n += n1
	if v.TotalAmount, n1, err = unmarshalFloatPtr(bs[n:]); err != nil {
		return v, n + n1, err
	}
	n += n1
	if v.SearchText, n1, err = ord.String.Unmarshal(bs[n:]); err != nil {
		return v, n + n1, err
	}
	n += n1
	if v.Vector, n1, err = unmarshalVector(bs[n:]); err != nil {
		return v, n + n1, err
	}
	n += n1
	if v.InsertedAt, n1, err = unmarshalTime(bs[n:]); err != nil {
		return v, n + n1, err
	}
	n += n1
	if v.UpdatedAt, n1, err = unmarshalTime(bs[n:]); err != nil {
		return v, n + n1, err
	}
	n += n1
	return v, n, nil
}

func (lineItemMUS) Size(v LineItem) (size int) {
	size = IDMUS.Size(v.Id)
	size += IDMUS.Size(v.InvoiceId)
	size += varint.Int.Size(v.PageNumber)
	size += ord.String.Size(v.Description)
	size += ord.String.Size(v.Section)
	size += ord.String.Size(v.ItemCode)
	size += ord.String.Size(v.DeliveryDate)
	size += sizeFloatPtr(v.Quantity)
	size += ord.String.Size(v.QuantityUnit)
	size += sizeFloatPtr(v.UnitPrice)
	size += sizeFloatPtr(v.TotalAmount)
	size += ord.String.Size(v.SearchText)
	size += sizeVector(v.Vector)
	size += sizeTime(v.InsertedAt)
	size += sizeTime(v.UpdatedAt)
	return size
}

func (s lineItemMUS) Skip(bs []byte) (n int, err error) {
	_, n, err = s.Unmarshal(bs)
	return n, err
}
