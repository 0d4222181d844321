// Package runid generates sortable identifiers for assignment runs.
package runid

import (
	cryptorand "crypto/rand"
	"encoding/binary"
	"io"
	mathrand "math/rand"
	"sync"
	"time"

	oklid "github.com/oklog/ulid/v2"
)

var monotonicPool = sync.Pool{
	New: func() any {
		var seed int64
		if err := binary.Read(cryptorand.Reader, binary.BigEndian, &seed); err != nil {
			seed = time.Now().UnixNano()
		}
		rand := mathrand.New(mathrand.NewSource(seed))
		return oklid.Monotonic(rand, 0)
	},
}

// New returns a ULID for a run started at t. IDs from the same process
// sort in creation order.
func New(t time.Time) (oklid.ULID, error) {
	mono := monotonicPool.Get().(io.Reader)
	defer monotonicPool.Put(mono)

	return oklid.New(oklid.Timestamp(t), mono)
}

// String is New(time.Now()) as a string; it returns "unknown" if the
// entropy source fails.
func String() string {
	id, err := New(time.Now())
	if err != nil {
		return "unknown"
	}
	return id.String()
}
