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

package badger

import (
	"errors"

	"github.com/mus-format/mus-go/ord"
	"github.com/mus-format/mus-go/raw"
	"github.com/mus-format/mus-go/varint"
	"github.com/poiesic/guidex/index"
)

// errInvalidVectorLength guards against corrupt rows whose decoded vector
// length is negative or larger than the remaining payload could hold.
var errInvalidVectorLength = errors.New("invalid embedding vector length")

// rowSer serializes index.Row values, composed from mus-go primitive
// serializers: length-prefixed strings, a varint vector length, and raw
// fixed-width float32 components.
var rowSer = rowSerializer{}

type rowSerializer struct{}

func (rowSerializer) Marshal(r index.Row, bs []byte) (n int) {
	n = ord.String.Marshal(r.ID, bs)
	n += ord.String.Marshal(r.Title, bs[n:])
	n += ord.String.Marshal(r.Category, bs[n:])
	n += ord.String.Marshal(r.Text, bs[n:])
	n += varint.Int.Marshal(len(r.Embedding), bs[n:])
	for _, v := range r.Embedding {
		n += raw.Float32.Marshal(v, bs[n:])
	}
	return n
}

func (rowSerializer) Unmarshal(bs []byte) (r index.Row, n int, err error) {
	var n1 int
	if r.ID, n, err = ord.String.Unmarshal(bs); err != nil {
		return
	}
	if r.Title, n1, err = ord.String.Unmarshal(bs[n:]); err != nil {
		return
	}
	n += n1
	if r.Category, n1, err = ord.String.Unmarshal(bs[n:]); err != nil {
		return
	}
	n += n1
	if r.Text, n1, err = ord.String.Unmarshal(bs[n:]); err != nil {
		return
	}
	n += n1
	var length int
	if length, n1, err = varint.Int.Unmarshal(bs[n:]); err != nil {
		return
	}
	n += n1
	if length < 0 || length > (len(bs)-n)/raw.Float32.Size(0) {
		err = errInvalidVectorLength
		return
	}
	r.Embedding = make([]float32, 0, length)
	for i := 0; i < length; i++ {
		var v float32
		if v, n1, err = raw.Float32.Unmarshal(bs[n:]); err != nil {
			return
		}
		n += n1
		r.Embedding = append(r.Embedding, v)
	}
	return
}

func (rowSerializer) Size(r index.Row) (size int) {
	size = ord.String.Size(r.ID)
	size += ord.String.Size(r.Title)
	size += ord.String.Size(r.Category)
	size += ord.String.Size(r.Text)
	size += varint.Int.Size(len(r.Embedding))
	for _, v := range r.Embedding {
		size += raw.Float32.Size(v)
	}
	return size
}

// MarshalRow serializes a row to bytes.
func MarshalRow(r index.Row) []byte {
	buf := make([]byte, rowSer.Size(r))
	rowSer.Marshal(r, buf)
	return buf
}

// UnmarshalRow deserializes a row from bytes.
func UnmarshalRow(data []byte) (index.Row, error) {
	r, _, err := rowSer.Unmarshal(data)
	return r, err
}
