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
	"fmt"
	"time"

	"github.com/mus-format/mus-go/ord"
	"github.com/mus-format/mus-go/varint"
	"github.com/poiesic/lectern/core"
)

// MarshalCachedAnswer serializes a CachedAnswer to bytes.
// Fields are written in a fixed order: item id, query, answer, creation
// time as unix nanoseconds.
func MarshalCachedAnswer(answer *core.CachedAnswer) []byte {
	size := varint.Uint64.Size(uint64(answer.ItemId)) +
		ord.String.Size(answer.Query) +
		ord.String.Size(answer.Answer) +
		varint.Int64.Size(answer.CreatedAt.UnixNano())

	buf := make([]byte, size)
	n := varint.Uint64.Marshal(uint64(answer.ItemId), buf)
	n += ord.String.Marshal(answer.Query, buf[n:])
	n += ord.String.Marshal(answer.Answer, buf[n:])
	varint.Int64.Marshal(answer.CreatedAt.UnixNano(), buf[n:])
	return buf
}

// UnmarshalCachedAnswer deserializes a CachedAnswer from bytes.
// Decoding failures surface as ErrTruncatedData; a value that cannot be
// decoded is unusable regardless of how it was damaged.
func UnmarshalCachedAnswer(data []byte) (*core.CachedAnswer, error) {
	itemId, n, err := varint.Uint64.Unmarshal(data)
	if err != nil {
		return nil, fmt.Errorf("%w: item id: %v", ErrTruncatedData, err)
	}

	query, consumed, err := ord.String.Unmarshal(data[n:])
	if err != nil {
		return nil, fmt.Errorf("%w: query: %v", ErrTruncatedData, err)
	}
	n += consumed

	answer, consumed, err := ord.String.Unmarshal(data[n:])
	if err != nil {
		return nil, fmt.Errorf("%w: answer: %v", ErrTruncatedData, err)
	}
	n += consumed

	nanos, _, err := varint.Int64.Unmarshal(data[n:])
	if err != nil {
		return nil, fmt.Errorf("%w: created at: %v", ErrTruncatedData, err)
	}

	return &core.CachedAnswer{
		ItemId:    core.ID(itemId),
		Query:     query,
		Answer:    answer,
		CreatedAt: time.Unix(0, nanos).UTC(),
	}, nil
}
