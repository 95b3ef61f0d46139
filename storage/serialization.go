// Copyright 2025 Poiesic Systems
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.


package storage

import (
	"github.com/poiesic/invoicit/core"
)

// MarshalID serializes an ID to bytes.
func MarshalID(id core.ID) []byte {
	buf := make([]byte, core.IDMUS.Size(id))
	core.IDMUS.Marshal(id, buf)
	return buf
}

// UnmarshalID deserializes an ID from bytes.
func UnmarshalID(data []byte) (core.ID, error) {
	var id core.ID
	id, _, err := core.IDMUS.Unmarshal(data)
	return id, err
}

// MarshalInvoice serializes an Invoice to bytes.
func MarshalInvoice(invoice *core.Invoice) []byte {
	buf := make([]byte, core.InvoiceMUS.Size(*invoice))
	core.InvoiceMUS.Marshal(*invoice, buf)
	return buf
}

// UnmarshalInvoice deserializes an Invoice from bytes.
func UnmarshalInvoice(data []byte) (*core.Invoice, error) {
	invoice, _, err := core.InvoiceMUS.Unmarshal(data)
	if err != nil {
		return nil, err
	}
	return &invoice, nil
}

// MarshalLineItem serializes a LineItem to bytes.
func MarshalLineItem(item *core.LineItem) []byte {
	buf := make([]byte, core.LineItemMUS.Size(*item))
	core.LineItemMUS.Marshal(*item, buf)
	return buf
}

// UnmarshalLineItem deserializes a LineItem from bytes.
func UnmarshalLineItem(data []byte) (*core.LineItem, error) {
	item, _, err := core.LineItemMUS.Unmarshal(data)
	if err != nil {
		return nil, err
	}
	return &item, nil
}
