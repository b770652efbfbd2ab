package main

import (
	"bytes"
	"fmt"
	"os"
	"sort"
	"time"

	"github.com/nameplane/dnswire/internal/dns/common/clock"
	"github.com/nameplane/dnswire/internal/dns/common/log"
	"github.com/nameplane/dnswire/internal/dns/common/utils"
	"github.com/nameplane/dnswire/internal/dns/config"
	"github.com/nameplane/dnswire/internal/dns/domain"
	"github.com/nameplane/dnswire/internal/dns/rdata"
	"github.com/nameplane/dnswire/internal/dns/repos/zoneset"
	"github.com/nameplane/dnswire/internal/dns/repos/zonestore"
	"github.com/nameplane/dnswire/internal/dns/zonefile"
)

const (
	// Version information
	version = "0.1.0-dev"
	appName = "zonec"
)

// Application holds all the components of one compiler run
type Application struct {
	config *config.AppConfig
	zones  map[string]zonefile.Zone
	store  *zonestore.Store
	index  *zoneset.ZoneSet
}

func main() {
	// Load configuration from environment
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Configuration error: %v\n", err)
		os.Exit(1)
	}

	// Configure global logging
	err = log.Configure(cfg.Env, cfg.LogLevel)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Logging configuration error: %v\n", err)
		os.Exit(1)
	}

	log.Info(map[string]any{
		"app":        appName,
		"version":    version,
		"env":        cfg.Env,
		"log_level":  cfg.LogLevel,
		"zone_dir":   cfg.ZoneDir,
		"store_path": cfg.StorePath,
		"compress":   cfg.Compress,
	}, "Starting zone compiler")

	// Build application with all dependencies
	app, err := buildApplication(cfg)
	if err != nil {
		log.Fatal(map[string]any{"error": err}, "Failed to build application")
	}

	if err := app.Run(); err != nil {
		_ = app.Close()
		log.Fatal(map[string]any{"error": err}, "Zone compilation failed")
	}

	if err := app.Close(); err != nil {
		log.Fatal(map[string]any{"error": err}, "Failed to close zone store")
	}

	log.Info(nil, "Zone compilation completed")
}

// buildApplication constructs all components and wires them together
func buildApplication(cfg *config.AppConfig) (*Application, error) {
	// Create shared clock so the store's build metadata is consistent
	clk := clock.RealClock{}

	// Load and parse all zone files up front; a broken file fails the
	// whole run before anything is written.
	zones, err := zonefile.LoadDirectory(cfg.ZoneDir, zonefile.Options{
		DefaultTTL:  cfg.DefaultTTL,
		CheckOrigin: cfg.CheckOrigin,
		Zones:       cfg.Zones,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to load zone directory: %w", err)
	}

	// Open the compiled zone store
	store, err := zonestore.Open(zonestore.Options{
		Path:     cfg.StorePath,
		Compress: cfg.Compress,
		Clock:    clk,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to open zone store: %w", err)
	}

	// Build the zone membership index used by the verification pass
	index, err := zoneset.New(cfg.CacheSize, cfg.BloomFPRate)
	if err != nil {
		_ = store.Close()
		return nil, fmt.Errorf("failed to build zone index: %w", err)
	}

	log.Info(map[string]any{
		"zone_dir": cfg.ZoneDir,
		"zones":    len(zones),
	}, "Zone files loaded")

	return &Application{
		config: cfg,
		zones:  zones,
		store:  store,
		index:  index,
	}, nil
}

// Run compiles every loaded zone into the store, then verifies that the
// compiled data reads back intact.
func (app *Application) Run() error {
	start := time.Now()

	if len(app.zones) == 0 {
		log.Warn(map[string]any{"zone_dir": app.config.ZoneDir}, "No zone files found, nothing to compile")
		return nil
	}

	records, err := app.compileZones()
	if err != nil {
		return err
	}

	if err := app.loadIndex(); err != nil {
		return err
	}

	if err := app.verifyZones(); err != nil {
		return err
	}

	stats := app.store.Stats()
	log.Info(map[string]any{
		"zones":       stats.Zones,
		"record_sets": stats.RecordSets,
		"records":     records,
		"serial":      stats.Serial,
		"duration":    time.Since(start).String(),
	}, "Store compiled and verified")
	return nil
}

// Close releases the compiled zone store.
func (app *Application) Close() error {
	return app.store.Close()
}

// compileZones writes every loaded zone into the store in deterministic
// order, returning the total record count.
func (app *Application) compileZones() (int, error) {
	origins := make([]string, 0, len(app.zones))
	for origin := range app.zones {
		origins = append(origins, origin)
	}
	sort.Strings(origins)

	total := 0
	for _, origin := range origins {
		zone := app.zones[origin]
		if err := app.store.PutZone(zone.Origin, zone.Records); err != nil {
			return 0, fmt.Errorf("failed to compile zone %s: %w", origin, err)
		}
		total += len(zone.Records)
		log.Info(map[string]any{
			"zone":    origin,
			"records": len(zone.Records),
		}, "Zone compiled")
	}
	return total, nil
}

// loadIndex points the membership index at the set of compiled apexes.
// The apex list is read back from the store rather than the in-memory
// zones, so the index reflects what was actually written.
func (app *Application) loadIndex() error {
	apexes, err := app.store.Zones()
	if err != nil {
		return fmt.Errorf("failed to list compiled zones: %w", err)
	}
	app.index.Load(apexes)
	return nil
}

// verifyZones re-reads every compiled record through the index and the
// store and round-trips its rdata, so a corrupt store never ships.
func (app *Application) verifyZones() error {
	verified := 0
	for origin, zone := range app.zones {
		for _, r := range zone.Records {
			apex, found := app.index.Resolve(r.Name)
			if !found {
				return fmt.Errorf("verify %s: owner %s resolves to no compiled zone", origin, r.Name)
			}
			if utils.CanonicalText(apex.String()) != origin {
				// A deeper compiled zone owns this name; the record is
				// unreachable through zone resolution.
				log.Warn(map[string]any{
					"zone":  origin,
					"owner": r.Name.String(),
					"apex":  apex.String(),
				}, "Record occluded by a deeper zone")
			}

			stored, err := app.store.Records(zone.Origin, r.Name, r.Type)
			if err != nil {
				return fmt.Errorf("verify %s: reading %s %s: %w", origin, r.Name, r.Type, err)
			}
			if !containsRecordData(stored, r.Data) {
				return fmt.Errorf("verify %s: record %s %s missing from compiled store", origin, r.Name, r.Type)
			}

			if err := roundTripRData(r); err != nil {
				return fmt.Errorf("verify %s: record %s %s: %w", origin, r.Name, r.Type, err)
			}
			verified++
		}
	}

	stats := app.index.Stats()
	log.Debug(map[string]any{
		"records":      verified,
		"apexes":       stats.Apexes,
		"cache_hits":   stats.Hits,
		"cache_misses": stats.Misses,
	}, "Verification pass finished")
	return nil
}

// containsRecordData reports whether any stored record carries the
// given rdata bytes.
func containsRecordData(records []domain.Record, data []byte) bool {
	for _, r := range records {
		if bytes.Equal(r.Data, data) {
			return true
		}
	}
	return false
}

// roundTripRData decodes a record's wire data to presentation form and
// re-encodes it. Decoded names come out fully qualified, so the second
// encode needs no origin; any byte drift means one of the codecs is
// wrong for this value.
func roundTripRData(r domain.Record) error {
	text, err := rdata.Decode(r.Type, r.Data)
	if err != nil {
		return fmt.Errorf("decoding rdata: %w", err)
	}
	again, err := rdata.Encode(r.Type, text, nil)
	if err != nil {
		return fmt.Errorf("re-encoding rdata %q: %w", text, err)
	}
	if !bytes.Equal(again, r.Data) {
		return fmt.Errorf("rdata %q did not round-trip", text)
	}
	return nil
}
