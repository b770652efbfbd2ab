// Package zonestore persists compiled zone data in a bbolt database.
// Each zone lives in a nested bucket keyed by its canonical origin;
// record sets are framed through the wire encoder and optionally zstd
// compressed.
package zonestore

import (
	"encoding/binary"
	"errors"
	"fmt"
	"time"

	"github.com/klauspost/compress/zstd"
	bbolt "go.etcd.io/bbolt"
	bberrors "go.etcd.io/bbolt/errors"

	"github.com/nameplane/dnswire/internal/dns/common/clock"
	"github.com/nameplane/dnswire/internal/dns/common/utils"
	"github.com/nameplane/dnswire/internal/dns/domain"
	"github.com/nameplane/dnswire/internal/dns/wire"
)

var (
	bucketZones = []byte("zones")
	bucketMeta  = []byte("meta")

	keySerial = []byte("serial")
	keyBuilt  = []byte("built")
)

// Value encoding markers. The first byte of every stored value says how
// the rest is packed.
const (
	valueRaw  byte = 0
	valueZstd byte = 1
)

// ErrZoneNotFound is returned when the requested zone has not been
// compiled into the store.
var ErrZoneNotFound = errors.New("zone not found in store")

// Options configures a Store.
type Options struct {
	// Path is the bolt database file.
	Path string

	// Compress enables zstd compression of record set values.
	Compress bool

	// Clock stamps build metadata. Defaults to the system clock.
	Clock clock.Clock
}

// Store persists compiled zone data.
type Store struct {
	db       *bbolt.DB
	compress bool
	clock    clock.Clock
	enc      *zstd.Encoder
	dec      *zstd.Decoder
}

// Stats summarizes store content.
type Stats struct {
	Zones      int
	RecordSets int
	Serial     uint64
	BuiltUnix  int64
}

// Open opens (or creates) a bolt database at opts.Path and ensures the
// buckets exist.
func Open(opts Options) (*Store, error) {
	if opts.Clock == nil {
		opts.Clock = clock.RealClock{}
	}
	db, err := bbolt.Open(opts.Path, 0o600, &bbolt.Options{Timeout: 1 * time.Second})
	if err != nil {
		return nil, err
	}
	if err := db.Update(func(tx *bbolt.Tx) error {
		if _, err := tx.CreateBucketIfNotExists(bucketZones); err != nil {
			return err
		}
		if _, err := tx.CreateBucketIfNotExists(bucketMeta); err != nil {
			return err
		}
		return nil
	}); err != nil {
		_ = db.Close()
		return nil, err
	}

	enc, err := zstd.NewWriter(nil)
	if err != nil {
		_ = db.Close()
		return nil, err
	}
	// The decoder is always built: an existing database may hold
	// compressed values even when compression is off for this run.
	dec, err := zstd.NewReader(nil)
	if err != nil {
		enc.Close()
		_ = db.Close()
		return nil, err
	}

	return &Store{db: db, compress: opts.Compress, clock: opts.Clock, enc: enc, dec: dec}, nil
}

// Close releases the database and compression resources.
func (s *Store) Close() error {
	encErr := s.enc.Close()
	s.dec.Close()
	if err := s.db.Close(); err != nil {
		return err
	}
	return encErr
}

// PutZone replaces the stored content of one zone with the given records
// and stamps the build metadata. Records are grouped into record sets by
// owner name and type.
func (s *Store) PutZone(origin domain.Name, records []domain.Record) error {
	apex := utils.CanonicalText(origin.String())
	if apex == "" {
		return fmt.Errorf("cannot store a zone with the root origin")
	}

	sets := make(map[string][]domain.Record)
	var order []string
	for _, r := range records {
		key := recordKey(r.Name, r.Type)
		if _, seen := sets[key]; !seen {
			order = append(order, key)
		}
		sets[key] = append(sets[key], r)
	}

	return s.db.Update(func(tx *bbolt.Tx) error {
		zones := tx.Bucket(bucketZones)
		if zones == nil {
			return fmt.Errorf("zones bucket missing")
		}
		if err := zones.DeleteBucket([]byte(apex)); err != nil && !errors.Is(err, bberrors.ErrBucketNotFound) {
			return err
		}
		zb, err := zones.CreateBucket([]byte(apex))
		if err != nil {
			return err
		}
		for _, key := range order {
			value, err := s.encodeValue(sets[key])
			if err != nil {
				return fmt.Errorf("encoding record set %s: %w", key, err)
			}
			if err := zb.Put([]byte(key), value); err != nil {
				return err
			}
		}
		return s.stampMeta(tx)
	})
}

// Records returns the stored record set for (name, rrtype) within the
// given zone. A compiled zone without such a set yields an empty result;
// an unknown zone yields ErrZoneNotFound.
func (s *Store) Records(origin, name domain.Name, rrtype domain.RRType) ([]domain.Record, error) {
	apex := utils.CanonicalText(origin.String())
	key := recordKey(name, rrtype)

	var records []domain.Record
	err := s.db.View(func(tx *bbolt.Tx) error {
		zones := tx.Bucket(bucketZones)
		if zones == nil {
			return ErrZoneNotFound
		}
		zb := zones.Bucket([]byte(apex))
		if zb == nil {
			return ErrZoneNotFound
		}
		value := zb.Get([]byte(key))
		if value == nil {
			return nil
		}
		frame, err := s.decodeValue(value)
		if err != nil {
			return fmt.Errorf("record set %s in zone %s: %w", key, apex, err)
		}
		records, err = decodeFrame(frame, name)
		if err != nil {
			return fmt.Errorf("record set %s in zone %s: %w", key, apex, err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return records, nil
}

// Zones lists the origins compiled into the store.
func (s *Store) Zones() ([]domain.Name, error) {
	var names []domain.Name
	err := s.db.View(func(tx *bbolt.Tx) error {
		zones := tx.Bucket(bucketZones)
		if zones == nil {
			return nil
		}
		return zones.ForEach(func(k, v []byte) error {
			if v != nil {
				return nil
			}
			name, err := domain.ParseName(string(k)+".", nil)
			if err != nil {
				return fmt.Errorf("invalid zone bucket %q: %w", k, err)
			}
			names = append(names, name)
			return nil
		})
	})
	if err != nil {
		return nil, err
	}
	return names, nil
}

// Stats summarizes the store without decoding values.
func (s *Store) Stats() Stats {
	st := Stats{}
	_ = s.db.View(func(tx *bbolt.Tx) error {
		if zones := tx.Bucket(bucketZones); zones != nil {
			_ = zones.ForEach(func(k, v []byte) error {
				if v != nil {
					return nil
				}
				st.Zones++
				if zb := zones.Bucket(k); zb != nil {
					st.RecordSets += zb.Stats().KeyN
				}
				return nil
			})
		}
		if meta := tx.Bucket(bucketMeta); meta != nil {
			if v := meta.Get(keySerial); len(v) == 8 {
				st.Serial = binary.BigEndian.Uint64(v)
			}
			if v := meta.Get(keyBuilt); len(v) == 8 {
				st.BuiltUnix = int64(binary.BigEndian.Uint64(v))
			}
		}
		return nil
	})
	return st
}

// stampMeta bumps the serial and records the build time.
func (s *Store) stampMeta(tx *bbolt.Tx) error {
	meta := tx.Bucket(bucketMeta)
	if meta == nil {
		return fmt.Errorf("meta bucket missing")
	}
	serial := uint64(0)
	if v := meta.Get(keySerial); len(v) == 8 {
		serial = binary.BigEndian.Uint64(v)
	}
	serial++
	sbuf := make([]byte, 8)
	binary.BigEndian.PutUint64(sbuf, serial)
	if err := meta.Put(keySerial, sbuf); err != nil {
		return err
	}
	bbuf := make([]byte, 8)
	binary.BigEndian.PutUint64(bbuf, uint64(s.clock.Now().Unix()))
	return meta.Put(keyBuilt, bbuf)
}

// encodeValue frames a record set and applies compression when it
// actually shrinks the value.
func (s *Store) encodeValue(records []domain.Record) ([]byte, error) {
	frame, err := encodeFrame(records)
	if err != nil {
		return nil, err
	}
	if s.compress {
		packed := s.enc.EncodeAll(frame, nil)
		if len(packed) < len(frame) {
			return append([]byte{valueZstd}, packed...), nil
		}
	}
	return append([]byte{valueRaw}, frame...), nil
}

// decodeValue strips the encoding marker and decompresses when needed.
func (s *Store) decodeValue(value []byte) ([]byte, error) {
	if len(value) == 0 {
		return nil, fmt.Errorf("empty record set value")
	}
	switch value[0] {
	case valueRaw:
		return value[1:], nil
	case valueZstd:
		return s.dec.DecodeAll(value[1:], nil)
	default:
		return nil, fmt.Errorf("unknown record set encoding 0x%02x", value[0])
	}
}

// encodeFrame serializes a record set: a record count followed by
// {type, class, ttl, rdlen, rdata} per record.
func encodeFrame(records []domain.Record) ([]byte, error) {
	if len(records) > 65535 {
		return nil, fmt.Errorf("record set too large: %d records", len(records))
	}
	e := wire.NewEncoder()
	e.EmitUint16(uint16(len(records)))
	for _, r := range records {
		if len(r.Data) > 65535 {
			return nil, fmt.Errorf("rdata too large: %d bytes", len(r.Data))
		}
		e.EmitUint16(uint16(r.Type))
		e.EmitUint16(uint16(r.Class))
		e.EmitUint32(r.TTL)
		e.EmitUint16(uint16(len(r.Data)))
		e.EmitBytes(r.Data)
	}
	return e.Bytes(), nil
}

// decodeFrame parses a record set frame, attaching the owner name.
func decodeFrame(frame []byte, name domain.Name) ([]domain.Record, error) {
	d := wire.NewDecoder(frame)
	count, err := d.ReadUint16()
	if err != nil {
		return nil, err
	}
	var records []domain.Record
	for i := 0; i < int(count); i++ {
		t, err := d.ReadUint16()
		if err != nil {
			return nil, err
		}
		class, err := d.ReadUint16()
		if err != nil {
			return nil, err
		}
		ttl, err := d.ReadUint32()
		if err != nil {
			return nil, err
		}
		rdlen, err := d.ReadUint16()
		if err != nil {
			return nil, err
		}
		data, err := d.ReadBytes(int(rdlen))
		if err != nil {
			return nil, err
		}
		records = append(records, domain.Record{
			Name:  name,
			Type:  domain.RRType(t),
			Class: domain.RRClass(class),
			TTL:   ttl,
			Data:  data,
		})
	}
	if d.Remaining() != 0 {
		return nil, fmt.Errorf("%d trailing bytes after record set", d.Remaining())
	}
	return records, nil
}

// recordKey builds the bucket key for a record set.
func recordKey(name domain.Name, t domain.RRType) string {
	return utils.CanonicalText(name.String()) + "|" + t.String()
}
