package zonestore

import (
	"bytes"
	"errors"
	"path/filepath"
	"strings"
	"testing"
	"time"

	bbolt "go.etcd.io/bbolt"

	"github.com/nameplane/dnswire/internal/dns/common/clock"
	"github.com/nameplane/dnswire/internal/dns/domain"
)

func tempDB(t *testing.T) string {
	t.Helper()
	return filepath.Join(t.TempDir(), "zones.db")
}

func mustName(t *testing.T, text string) domain.Name {
	t.Helper()
	n, err := domain.ParseName(text, nil)
	if err != nil {
		t.Fatalf("ParseName(%q): %v", text, err)
	}
	return n
}

func openStore(t *testing.T, opts Options) *Store {
	t.Helper()
	if opts.Path == "" {
		opts.Path = tempDB(t)
	}
	st, err := Open(opts)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	t.Cleanup(func() { _ = st.Close() })
	return st
}

func TestOpen_BadPath(t *testing.T) {
	badPath := filepath.Join(t.TempDir(), "no-such-dir", "zones.db")
	st, err := Open(Options{Path: badPath})
	if err == nil || st != nil {
		t.Fatalf("expected Open to fail when parent directory does not exist")
	}
}

func TestPutZone_AndRecords(t *testing.T) {
	st := openStore(t, Options{})

	origin := mustName(t, "example.com.")
	www := mustName(t, "www.example.com.")
	mail := mustName(t, "mail.example.com.")

	records := []domain.Record{
		{Name: www, Type: domain.RRTypeA, Class: domain.RRClassIN, TTL: 300, Data: []byte{192, 0, 2, 1}},
		{Name: www, Type: domain.RRTypeA, Class: domain.RRClassIN, TTL: 300, Data: []byte{192, 0, 2, 2}},
		{Name: mail, Type: domain.RRTypeMX, Class: domain.RRClassIN, TTL: 600, Data: []byte{0, 10, 4, 'm', 'a', 'i', 'l', 0}},
	}
	if err := st.PutZone(origin, records); err != nil {
		t.Fatalf("PutZone: %v", err)
	}

	got, err := st.Records(origin, www, domain.RRTypeA)
	if err != nil {
		t.Fatalf("Records: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("expected 2 A records, got %d", len(got))
	}
	for i, r := range got {
		if r.Name.String() != "www.example.com." {
			t.Errorf("record %d name = %s", i, r.Name.String())
		}
		if r.Type != domain.RRTypeA || r.Class != domain.RRClassIN || r.TTL != 300 {
			t.Errorf("record %d fields = %+v", i, r)
		}
	}
	if !bytes.Equal(got[0].Data, []byte{192, 0, 2, 1}) || !bytes.Equal(got[1].Data, []byte{192, 0, 2, 2}) {
		t.Errorf("unexpected rdata: %v, %v", got[0].Data, got[1].Data)
	}

	// A compiled zone without the requested set yields an empty result.
	got, err = st.Records(origin, www, domain.RRTypeAAAA)
	if err != nil {
		t.Fatalf("Records for absent set: %v", err)
	}
	if len(got) != 0 {
		t.Errorf("expected no AAAA records, got %d", len(got))
	}

	// An unknown zone is an error.
	_, err = st.Records(mustName(t, "other.org."), www, domain.RRTypeA)
	if !errors.Is(err, ErrZoneNotFound) {
		t.Errorf("expected ErrZoneNotFound, got %v", err)
	}
}

func TestPutZone_ReplacesPreviousContent(t *testing.T) {
	st := openStore(t, Options{})

	origin := mustName(t, "example.com.")
	www := mustName(t, "www.example.com.")

	first := []domain.Record{
		{Name: www, Type: domain.RRTypeA, Class: domain.RRClassIN, TTL: 300, Data: []byte{192, 0, 2, 1}},
	}
	if err := st.PutZone(origin, first); err != nil {
		t.Fatalf("PutZone: %v", err)
	}

	second := []domain.Record{
		{Name: www, Type: domain.RRTypeAAAA, Class: domain.RRClassIN, TTL: 300, Data: bytes.Repeat([]byte{0x20}, 16)},
	}
	if err := st.PutZone(origin, second); err != nil {
		t.Fatalf("PutZone: %v", err)
	}

	got, err := st.Records(origin, www, domain.RRTypeA)
	if err != nil {
		t.Fatalf("Records: %v", err)
	}
	if len(got) != 0 {
		t.Errorf("expected stale A set to be gone, got %d records", len(got))
	}
	got, err = st.Records(origin, www, domain.RRTypeAAAA)
	if err != nil || len(got) != 1 {
		t.Fatalf("expected replacement AAAA set, got %d records err=%v", len(got), err)
	}
}

func TestPutZone_RootOriginRejected(t *testing.T) {
	st := openStore(t, Options{})
	root := domain.NewName()
	if err := st.PutZone(root, nil); err == nil {
		t.Fatal("expected error for root origin, got nil")
	}
}

func TestRecords_CompressedValues(t *testing.T) {
	st := openStore(t, Options{Compress: true})

	origin := mustName(t, "example.com.")
	owner := mustName(t, "txt.example.com.")

	// Highly repetitive rdata so compression is guaranteed to shrink it.
	seg := append([]byte{250}, bytes.Repeat([]byte{'a'}, 250)...)
	records := []domain.Record{
		{Name: owner, Type: domain.RRTypeTXT, Class: domain.RRClassIN, TTL: 60, Data: seg},
		{Name: owner, Type: domain.RRTypeTXT, Class: domain.RRClassIN, TTL: 60, Data: seg},
	}
	if err := st.PutZone(origin, records); err != nil {
		t.Fatalf("PutZone: %v", err)
	}

	// The stored value should carry the zstd marker.
	err := st.db.View(func(tx *bbolt.Tx) error {
		zb := tx.Bucket(bucketZones).Bucket([]byte("example.com"))
		if zb == nil {
			t.Fatal("zone bucket missing")
		}
		v := zb.Get([]byte("txt.example.com|TXT"))
		if len(v) == 0 {
			t.Fatal("record set value missing")
		}
		if v[0] != valueZstd {
			t.Errorf("expected zstd marker, got 0x%02x", v[0])
		}
		return nil
	})
	if err != nil {
		t.Fatalf("View: %v", err)
	}

	got, err := st.Records(origin, owner, domain.RRTypeTXT)
	if err != nil {
		t.Fatalf("Records: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("expected 2 TXT records, got %d", len(got))
	}
	for i, r := range got {
		if !bytes.Equal(r.Data, seg) {
			t.Errorf("record %d rdata mismatch after decompression", i)
		}
	}
}

func TestEncodeValue_SkipsUnhelpfulCompression(t *testing.T) {
	st := openStore(t, Options{Compress: true})

	// A tiny incompressible value should be stored raw.
	value, err := st.encodeValue([]domain.Record{
		{Type: domain.RRTypeA, Class: domain.RRClassIN, TTL: 1, Data: []byte{1, 2, 3, 4}},
	})
	if err != nil {
		t.Fatalf("encodeValue: %v", err)
	}
	if value[0] != valueRaw {
		t.Errorf("expected raw marker for incompressible value, got 0x%02x", value[0])
	}
}

func TestStats_AndSerial(t *testing.T) {
	mock := &clock.MockClock{CurrentTime: time.Unix(1700000000, 0)}
	path := tempDB(t)
	st := openStore(t, Options{Path: path, Clock: mock})

	origin := mustName(t, "example.com.")
	www := mustName(t, "www.example.com.")
	other := mustName(t, "other.org.")
	web := mustName(t, "web.other.org.")

	rec := func(n domain.Name, t domain.RRType) domain.Record {
		return domain.Record{Name: n, Type: t, Class: domain.RRClassIN, TTL: 60, Data: []byte{192, 0, 2, 1}}
	}

	if err := st.PutZone(origin, []domain.Record{rec(www, domain.RRTypeA)}); err != nil {
		t.Fatalf("PutZone: %v", err)
	}
	mock.Advance(10 * time.Second)
	if err := st.PutZone(other, []domain.Record{rec(web, domain.RRTypeA), rec(other, domain.RRTypeA)}); err != nil {
		t.Fatalf("PutZone: %v", err)
	}

	stats := st.Stats()
	if stats.Zones != 2 {
		t.Errorf("Zones = %d, want 2", stats.Zones)
	}
	if stats.RecordSets != 3 {
		t.Errorf("RecordSets = %d, want 3", stats.RecordSets)
	}
	if stats.Serial != 2 {
		t.Errorf("Serial = %d, want 2", stats.Serial)
	}
	if stats.BuiltUnix != 1700000010 {
		t.Errorf("BuiltUnix = %d, want 1700000010", stats.BuiltUnix)
	}

	// The serial survives reopening the database.
	if err := st.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}
	st2 := openStore(t, Options{Path: path, Clock: mock})
	if err := st2.PutZone(origin, []domain.Record{rec(www, domain.RRTypeA)}); err != nil {
		t.Fatalf("PutZone after reopen: %v", err)
	}
	if got := st2.Stats().Serial; got != 3 {
		t.Errorf("Serial after reopen = %d, want 3", got)
	}
}

func TestZones(t *testing.T) {
	st := openStore(t, Options{})

	if names, err := st.Zones(); err != nil || len(names) != 0 {
		t.Fatalf("expected no zones in fresh store, got %v err=%v", names, err)
	}

	com := mustName(t, "example.com.")
	org := mustName(t, "example.org.")
	rec := domain.Record{Name: mustName(t, "www.example.com."), Type: domain.RRTypeA, Class: domain.RRClassIN, TTL: 60, Data: []byte{192, 0, 2, 1}}
	if err := st.PutZone(com, []domain.Record{rec}); err != nil {
		t.Fatalf("PutZone: %v", err)
	}
	rec.Name = mustName(t, "www.example.org.")
	if err := st.PutZone(org, []domain.Record{rec}); err != nil {
		t.Fatalf("PutZone: %v", err)
	}

	names, err := st.Zones()
	if err != nil {
		t.Fatalf("Zones: %v", err)
	}
	if len(names) != 2 {
		t.Fatalf("expected 2 zones, got %d", len(names))
	}
	// Bolt iterates keys in lexicographic order.
	if names[0].String() != "example.com." || names[1].String() != "example.org." {
		t.Errorf("unexpected zone names: %v, %v", names[0].String(), names[1].String())
	}
}

func TestRecords_CorruptValue(t *testing.T) {
	st := openStore(t, Options{})

	origin := mustName(t, "example.com.")
	www := mustName(t, "www.example.com.")
	if err := st.PutZone(origin, []domain.Record{
		{Name: www, Type: domain.RRTypeA, Class: domain.RRClassIN, TTL: 60, Data: []byte{192, 0, 2, 1}},
	}); err != nil {
		t.Fatalf("PutZone: %v", err)
	}

	// Overwrite with an unknown encoding marker.
	if err := st.db.Update(func(tx *bbolt.Tx) error {
		zb := tx.Bucket(bucketZones).Bucket([]byte("example.com"))
		return zb.Put([]byte("www.example.com|A"), []byte{0x7F, 1, 2, 3})
	}); err != nil {
		t.Fatalf("seed corrupt value: %v", err)
	}
	if _, err := st.Records(origin, www, domain.RRTypeA); err == nil || !strings.Contains(err.Error(), "unknown record set encoding") {
		t.Errorf("expected unknown encoding error, got %v", err)
	}

	// Overwrite with a truncated raw frame.
	if err := st.db.Update(func(tx *bbolt.Tx) error {
		zb := tx.Bucket(bucketZones).Bucket([]byte("example.com"))
		return zb.Put([]byte("www.example.com|A"), []byte{valueRaw, 0, 1, 0})
	}); err != nil {
		t.Fatalf("seed truncated value: %v", err)
	}
	if _, err := st.Records(origin, www, domain.RRTypeA); err == nil {
		t.Error("expected error for truncated frame, got nil")
	}
}

func TestFrameRoundTrip(t *testing.T) {
	www := mustName(t, "www.example.com.")
	records := []domain.Record{
		{Name: www, Type: domain.RRTypeA, Class: domain.RRClassIN, TTL: 300, Data: []byte{192, 0, 2, 1}},
		{Name: www, Type: domain.RRTypeA, Class: domain.RRClassIN, TTL: 300, Data: []byte{192, 0, 2, 2}},
	}

	frame, err := encodeFrame(records)
	if err != nil {
		t.Fatalf("encodeFrame: %v", err)
	}
	got, err := decodeFrame(frame, www)
	if err != nil {
		t.Fatalf("decodeFrame: %v", err)
	}
	if len(got) != len(records) {
		t.Fatalf("expected %d records, got %d", len(records), len(got))
	}
	for i := range records {
		if got[i].Type != records[i].Type || got[i].Class != records[i].Class || got[i].TTL != records[i].TTL {
			t.Errorf("record %d fields mismatch: %+v", i, got[i])
		}
		if !bytes.Equal(got[i].Data, records[i].Data) {
			t.Errorf("record %d rdata mismatch", i)
		}
	}
}

func TestFrameRoundTrip_Empty(t *testing.T) {
	frame, err := encodeFrame(nil)
	if err != nil {
		t.Fatalf("encodeFrame: %v", err)
	}
	got, err := decodeFrame(frame, domain.NewName())
	if err != nil {
		t.Fatalf("decodeFrame: %v", err)
	}
	if len(got) != 0 {
		t.Errorf("expected empty set, got %d records", len(got))
	}
}

func TestDecodeFrame_TrailingBytes(t *testing.T) {
	frame, err := encodeFrame(nil)
	if err != nil {
		t.Fatalf("encodeFrame: %v", err)
	}
	frame = append(frame, 0xFF)
	if _, err := decodeFrame(frame, domain.NewName()); err == nil || !strings.Contains(err.Error(), "trailing bytes") {
		t.Errorf("expected trailing bytes error, got %v", err)
	}
}

func TestEncodeFrame_OversizedRdata(t *testing.T) {
	www := mustName(t, "www.example.com.")
	_, err := encodeFrame([]domain.Record{
		{Name: www, Type: domain.RRTypeTXT, Class: domain.RRClassIN, TTL: 60, Data: make([]byte, 65536)},
	})
	if err == nil {
		t.Error("expected error for oversized rdata, got nil")
	}
}

func TestRecordKey(t *testing.T) {
	if got := recordKey(mustName(t, "WWW.Example.COM."), domain.RRTypeA); got != "www.example.com|A" {
		t.Errorf("recordKey = %q, want www.example.com|A", got)
	}
}
