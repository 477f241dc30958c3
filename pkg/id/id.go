// Package id generates identifiers for journal records.
package id

import (
	"bytes"
	cryptoRand "crypto/rand"
	"crypto/sha256"
	"encoding/binary"
	"io"
	"math/rand"
	"sync"
	"time"

	"github.com/oklog/ulid/v2"
)

var (
	mu   sync.Mutex
	mono io.Reader
)

func init() {
	// Monotonic entropy keeps IDs minted within one millisecond ordered.
	var seed int64
	_ = binary.Read(cryptoRand.Reader, binary.LittleEndian, &seed)
	if seed == 0 {
		seed = time.Now().UnixNano()
	}

	mono = ulid.Monotonic(rand.New(rand.NewSource(seed)), 0)
}

// New returns a ULID stamped with the current time.
func New() string {
	return NewAt(time.Now())
}

// NewAt returns a ULID whose timestamp component is t. Imported trades are
// stamped with their trade date so that ID order follows trade order.
// Times before the Unix epoch are stamped as the epoch.
func NewAt(t time.Time) string {
	mu.Lock()
	defer mu.Unlock()
	return mint(t, mono)
}

// Derive returns a ULID stamped with t whose entropy is a hash of key. The
// same t and key always give the same ID.
func Derive(t time.Time, key string) string {
	sum := sha256.Sum256([]byte(key))
	return mint(t, bytes.NewReader(sum[:]))
}

func mint(t time.Time, entropy io.Reader) string {
	if t.Before(time.Unix(0, 0)) {
		t = time.Unix(0, 0)
	}
	id, err := ulid.New(ulid.Timestamp(t.UTC()), entropy)
	if err != nil {
		// only fails when entropy is exhausted or t overflows the 48-bit clock
		panic(err)
	}
	return id.String()
}

// Time returns the timestamp embedded in a ULID string.
func Time(s string) (time.Time, bool) {
	u, err := ulid.ParseStrict(s)
	if err != nil {
		return time.Time{}, false
	}
	return ulid.Time(u.Time()).UTC(), true
}
