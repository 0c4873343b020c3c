package keyspace

import (
	"time"

	"github.com/edisdb/edis/lib/zset"
)

// ValueType is the declared type of a stored Item: one of the five
// value families (string, hash, list, set, zset).
type ValueType byte

const (
	TypeString ValueType = iota + 1
	TypeHash
	TypeList
	TypeSet
	TypeZSet
)

func (t ValueType) String() string {
	switch t {
	case TypeString:
		return "string"
	case TypeHash:
		return "hash"
	case TypeList:
		return "list"
	case TypeSet:
		return "set"
	case TypeZSet:
		return "zset"
	default:
		return "none"
	}
}

// Encoding is advisory metadata describing how value is represented.
// Only the canonical encoding per type is ever chosen on write; other
// values may appear via migration and are preserved verbatim on read.
type Encoding byte

const (
	EncodingRaw Encoding = iota + 1
	EncodingInt
	EncodingZiplist
	EncodingLinkedList
	EncodingIntset
	EncodingHashTable
	EncodingZipmap
	EncodingSkiplist
	// encodingUnknown marks a record whose Type byte wasn't recognized on
	// decode. getItem turns this into error(wrong_type) without deleting
	// the record, leaving it for manual inspection.
	encodingUnknown Encoding = 0xff
)

func (e Encoding) String() string {
	switch e {
	case EncodingRaw:
		return "raw"
	case EncodingInt:
		return "int"
	case EncodingZiplist:
		return "ziplist"
	case EncodingLinkedList:
		return "linkedlist"
	case EncodingIntset:
		return "intset"
	case EncodingHashTable:
		return "hashtable"
	case EncodingZipmap:
		return "zipmap"
	case EncodingSkiplist:
		return "skiplist"
	default:
		return "unknown"
	}
}

// Item is the in-memory form of a keyspace record. Exactly one of the
// value fields is populated, matching Type; which one is the codec's
// concern, not the handlers'.
type Item struct {
	Key      []byte
	Type     ValueType
	Encoding Encoding
	Expire   time.Time // zero value means "never expires"

	Str  []byte
	Hash map[string][]byte
	List [][]byte
	Set  [][]byte // kept sorted ascending by bytes.Compare for deterministic iteration
	ZSet *zset.Set
}

// HasExpire reports whether the item carries a real expiry instant.
func (it *Item) HasExpire() bool { return !it.Expire.IsZero() }

// ExpiredAt reports whether the item's expiry is at or before now.
func (it *Item) ExpiredAt(now time.Time) bool {
	return it.HasExpire() && !it.Expire.After(now)
}
