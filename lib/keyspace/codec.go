package keyspace

import (
	"bytes"
	"encoding/gob"
	"time"

	"github.com/edisdb/edis/lib/store"
	"github.com/edisdb/edis/lib/zset"
)

// itemEnvelope is the self-describing on-disk shape of an Item: a tagged
// union keyed by Type, with ExpireUnixNano=0 meaning "never expires" (a
// real epoch-zero expiry is indistinguishable from "never", which is
// acceptable: nothing should legitimately expire in 1970).
type itemEnvelope struct {
	Type           byte
	Encoding       byte
	ExpireUnixNano int64
	Payload        []byte
}

type zsetMember struct {
	Score  float64
	Member []byte
}

func encodeItem(it *Item) ([]byte, error) {
	env := itemEnvelope{
		Type:     byte(it.Type),
		Encoding: byte(it.Encoding),
	}
	if it.HasExpire() {
		env.ExpireUnixNano = it.Expire.UnixNano()
	}

	var payloadBuf bytes.Buffer
	enc := gob.NewEncoder(&payloadBuf)

	var err error
	switch it.Type {
	case TypeString:
		err = enc.Encode(it.Str)
	case TypeHash:
		err = enc.Encode(it.Hash)
	case TypeList:
		err = enc.Encode(it.List)
	case TypeSet:
		err = enc.Encode(it.Set)
	case TypeZSet:
		members := it.ZSet.Members()
		out := make([]zsetMember, len(members))
		for i, m := range members {
			out[i] = zsetMember{Score: m.Score, Member: m.Member}
		}
		err = enc.Encode(out)
	}
	if err != nil {
		return nil, err
	}
	env.Payload = payloadBuf.Bytes()

	var buf bytes.Buffer
	if err := gob.NewEncoder(&buf).Encode(env); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// decodeItem decodes raw into an Item. An unrecognized Type byte decodes
// successfully but with encodingUnknown/Type left at its raw (invalid)
// value; callers must check isCorrupt before trusting the value fields.
func decodeItem(key []byte, raw []byte) (*Item, error) {
	var env itemEnvelope
	if err := gob.NewDecoder(bytes.NewReader(raw)).Decode(&env); err != nil {
		return nil, err
	}

	it := &Item{
		Key:      key,
		Type:     ValueType(env.Type),
		Encoding: Encoding(env.Encoding),
	}
	if env.ExpireUnixNano != 0 {
		it.Expire = time.Unix(0, env.ExpireUnixNano)
	}

	if isCorrupt(it.Type) {
		it.Encoding = encodingUnknown
		return it, nil
	}

	dec := gob.NewDecoder(bytes.NewReader(env.Payload))
	var err error
	switch it.Type {
	case TypeString:
		err = dec.Decode(&it.Str)
	case TypeHash:
		err = dec.Decode(&it.Hash)
	case TypeList:
		err = dec.Decode(&it.List)
	case TypeSet:
		err = dec.Decode(&it.Set)
	case TypeZSet:
		var members []zsetMember
		if err = dec.Decode(&members); err == nil {
			it.ZSet = zset.New()
			for _, m := range members {
				it.ZSet.Add(m.Member, m.Score)
			}
		}
	}
	if err != nil {
		return nil, err
	}
	return it, nil
}

func isCorrupt(t ValueType) bool {
	switch t {
	case TypeString, TypeHash, TypeList, TypeSet, TypeZSet:
		return false
	default:
		return true
	}
}

// ExpectedType is an expected-type filter for getItem; expectAny accepts
// any declared type without a wrong_type check.
type ExpectedType struct {
	Type     ValueType
	expectAny bool
}

// Typed builds an ExpectedType that requires exactly t.
func Typed(t ValueType) ExpectedType { return ExpectedType{Type: t} }

// AnyType accepts an item of any declared type.
func AnyType() ExpectedType { return ExpectedType{expectAny: true} }

// getItem looks up key, applies the expiry gate, and type-checks
// against expected unless it is AnyType(). found is false both when
// the key is absent and when it was lazily expired by this call.
func getItem(eng store.Engine, expected ExpectedType, key []byte, now time.Time) (it *Item, found bool, err error) {
	raw, ok, err := eng.Get(key)
	if err != nil {
		return nil, false, storageErr(err)
	}
	if !ok {
		return nil, false, nil
	}

	it, err = decodeItem(key, raw)
	if err != nil {
		return nil, false, storageErr(err)
	}

	if isCorrupt(it.Type) {
		return nil, false, NewError(ErrWrongType)
	}

	if it.ExpiredAt(now) {
		if err := eng.Delete(key); err != nil {
			return nil, false, storageErr(err)
		}
		return nil, false, nil
	}

	if !expected.expectAny && it.Type != expected.Type {
		return nil, false, NewError(ErrWrongType)
	}

	return it, true, nil
}

// existsItem reports whether a record is present, ignoring expiry.
// Used only by APIs whose semantics are "is the byte slot occupied"
// (e.g. DEL, MOVE's destination check); every value-returning path
// must use getItem instead.
func existsItem(eng store.Engine, key []byte) (bool, error) {
	_, ok, err := eng.Get(key)
	if err != nil {
		return false, storageErr(err)
	}
	return ok, nil
}

func putItem(eng store.Engine, it *Item) error {
	raw, err := encodeItem(it)
	if err != nil {
		return storageErr(err)
	}
	if err := eng.Put(it.Key, raw); err != nil {
		return storageErr(err)
	}
	return nil
}

func deleteItem(eng store.Engine, key []byte) error {
	if err := eng.Delete(key); err != nil {
		return storageErr(err)
	}
	return nil
}
