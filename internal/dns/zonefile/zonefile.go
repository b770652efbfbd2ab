// Package zonefile provides functions for loading and parsing DNS zone files
// in various formats. It supports loading zones from YAML, JSON, and TOML
// files, and converting them into wire-encoded records grouped by zone origin.
package zonefile

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/knadh/koanf"
	"github.com/knadh/koanf/parsers/json"
	"github.com/knadh/koanf/parsers/toml"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/file"

	"github.com/nameplane/dnswire/internal/dns/common/log"
	"github.com/nameplane/dnswire/internal/dns/common/utils"
	"github.com/nameplane/dnswire/internal/dns/domain"
	"github.com/nameplane/dnswire/internal/dns/rdata"
)

// Zone holds the parsed content of one zone: its origin and the records
// that belong under it.
type Zone struct {
	Origin  domain.Name
	Records []domain.Record
}

// Options controls how zone files are interpreted.
type Options struct {
	// DefaultTTL is applied to records in files without a ttl key, in seconds.
	DefaultTTL uint32

	// CheckOrigin skips files whose origin is a bare public suffix.
	CheckOrigin bool

	// Zones restricts loading to the listed origins when non-empty.
	Zones []string
}

// LoadDirectory walks the given directory, loading all supported zone files
// (YAML, JSON, TOML) and returning a map of canonical origin text to Zone.
// Files sharing an origin are merged into one Zone. Returns an error if any
// file fails to parse.
func LoadDirectory(dir string, opts Options) (map[string]Zone, error) {
	zones := make(map[string]Zone)

	allowed := make(map[string]bool, len(opts.Zones))
	for _, z := range opts.Zones {
		allowed[utils.CanonicalText(z)] = true
	}

	err := filepath.WalkDir(dir, func(path string, d os.DirEntry, err error) error {
		if err != nil || d.IsDir() {
			return err
		}

		zone, ok, err := loadFile(path, opts)
		if err != nil {
			return fmt.Errorf("error parsing zone file %s: %w", path, err)
		}
		if !ok {
			return nil
		}

		key := utils.CanonicalText(zone.Origin.String())
		if len(allowed) > 0 && !allowed[key] {
			log.Debug(map[string]any{"path": path, "origin": key}, "zone origin not in allowlist, skipping file")
			return nil
		}

		if existing, found := zones[key]; found {
			existing.Records = append(existing.Records, zone.Records...)
			zones[key] = existing
		} else {
			zones[key] = zone
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return zones, nil
}

// expandOwner returns the fully qualified owner name, expanding '@' to the
// origin and resolving relative names against it.
func expandOwner(owner string, origin domain.Name) (domain.Name, error) {
	if owner == "@" {
		return origin, nil
	}
	return domain.ParseName(owner, &origin)
}

// toStringValues converts a raw parsed value (string or []any of strings)
// into a slice of non-empty strings. Empty and non-string elements are
// skipped; unrecognized value types yield nil.
func toStringValues(val any) []string {
	switch v := val.(type) {
	case string:
		s := strings.TrimSpace(v)
		if s == "" {
			return nil
		}
		return []string{s}
	case []any:
		out := make([]string, 0, len(v))
		for _, elem := range v {
			s, ok := elem.(string)
			if !ok {
				continue
			}
			s = strings.TrimSpace(s)
			if s == "" {
				continue
			}
			out = append(out, s)
		}
		if len(out) == 0 {
			return nil
		}
		return out
	default:
		return nil
	}
}

// buildRecords creates one Record per value for a given owner name and RR
// type. Values are encoded to wire rdata against the zone origin.
func buildRecords(owner domain.Name, origin domain.Name, rrType string, values []string, ttl uint32) ([]domain.Record, error) {
	rType := domain.RRTypeFromString(rrType)
	var records []domain.Record
	for _, s := range values {
		data, err := rdata.Encode(rType, s, &origin)
		if err != nil {
			return nil, err
		}
		rr, err := domain.NewRecord(owner, rType, domain.RRClassIN, ttl, data, s)
		if err != nil {
			return nil, err
		}
		records = append(records, rr)
	}
	return records, nil
}

// loadFile loads and parses a single zone file. The second return value is
// false when the file was skipped rather than parsed: unsupported extension,
// or a public suffix origin with CheckOrigin set.
func loadFile(path string, opts Options) (Zone, bool, error) {
	ext := strings.ToLower(filepath.Ext(path))
	var parser koanf.Parser
	switch ext {
	case ".yaml", ".yml":
		parser = yaml.Parser()
	case ".json":
		parser = json.Parser()
	case ".toml":
		parser = toml.Parser()
	default:
		return Zone{}, false, nil // unsupported file type
	}

	// Owner keys contain dots, so the koanf delimiter must be a character
	// that cannot appear in a domain name.
	k := koanf.New("/")
	if err := k.Load(file.Provider(path), parser); err != nil {
		return Zone{}, false, fmt.Errorf("failed to load zone file %s: %w", path, err)
	}

	originText := k.String("origin")
	if originText == "" {
		return Zone{}, false, fmt.Errorf("zone file %s missing 'origin'", path)
	}
	if !strings.HasSuffix(originText, ".") {
		originText += "."
	}
	origin, err := domain.ParseName(originText, nil)
	if err != nil {
		return Zone{}, false, fmt.Errorf("zone file %s has invalid origin %q: %w", path, originText, err)
	}
	if origin.IsRoot() {
		return Zone{}, false, fmt.Errorf("zone file %s has empty origin", path)
	}

	if opts.CheckOrigin && utils.IsPublicSuffix(origin.String()) {
		log.Warn(map[string]any{"path": path, "origin": origin.String()}, "zone origin is a public suffix, skipping file")
		return Zone{}, false, nil
	}

	ttl := opts.DefaultTTL
	if v := k.Int("ttl"); v > 0 {
		ttl = uint32(v)
	}

	var records []domain.Record
	for owner, raw := range k.Raw() {
		if owner == "origin" || owner == "ttl" {
			continue
		}
		rawMap, ok := raw.(map[string]any)
		if !ok {
			continue
		}
		name, err := expandOwner(owner, origin)
		if err != nil {
			return Zone{}, false, fmt.Errorf("invalid owner %q in %s: %w", owner, path, err)
		}
		for rrType, val := range rawMap {
			values := toStringValues(val)
			if len(values) == 0 {
				continue
			}
			recs, err := buildRecords(name, origin, rrType, values, ttl)
			if err != nil {
				return Zone{}, false, fmt.Errorf("invalid %s record for %s in %s: %w", rrType, name.String(), path, err)
			}
			records = append(records, recs...)
		}
	}
	return Zone{Origin: origin, Records: records}, true, nil
}
