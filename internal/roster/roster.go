package roster

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"
	"sync"

	"go.uber.org/zap"

	"github.com/nekogravitycat/brf-booking-backend/internal/apartment"
	"github.com/nekogravitycat/brf-booking-backend/internal/pkg/remote"
)

var ErrMissingColumns = errors.New("roster csv needs rfid_uid and lgh_id columns")

// Entry is one RFID tag from the roster.
type Entry struct {
	UID          string
	ApartmentID  string
	House        string
	LghInternal  string
	SkvLgh       string
	AccessGroups string
	Active       bool
}

// Profile returns the attributes used to provision the tag's apartment.
func (e Entry) Profile() apartment.RosterProfile {
	return apartment.RosterProfile{
		ApartmentID:  e.ApartmentID,
		House:        e.House,
		LghInternal:  e.LghInternal,
		SkvLgh:       e.SkvLgh,
		AccessGroups: e.AccessGroups,
	}
}

// Parse reads a roster CSV keyed by rfid_uid. Rows without a uid or
// apartment id are skipped; a later row wins over an earlier one with the
// same uid. A missing active column means every tag is active.
func Parse(content string) (map[string]Entry, error) {
	r := csv.NewReader(strings.NewReader(strings.TrimPrefix(content, "\ufeff")))
	r.FieldsPerRecord = -1
	r.TrimLeadingSpace = true

	header, err := r.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return map[string]Entry{}, nil
		}
		return nil, fmt.Errorf("read roster header: %w", err)
	}

	cols := make(map[string]int, len(header))
	for i, h := range header {
		cols[strings.ToLower(strings.TrimSpace(h))] = i
	}
	aptCol, ok := cols["lgh_id"]
	if !ok {
		aptCol, ok = cols["apartment_id"]
	}
	uidCol, hasUID := cols["rfid_uid"]
	if !ok || !hasUID {
		return nil, ErrMissingColumns
	}

	field := func(rec []string, name string) (string, bool) {
		i, ok := cols[name]
		if !ok || i >= len(rec) {
			return "", false
		}
		return strings.TrimSpace(rec[i]), true
	}

	entries := make(map[string]Entry)
	for {
		rec, err := r.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read roster row: %w", err)
		}
		if uidCol >= len(rec) || aptCol >= len(rec) {
			continue
		}

		e := Entry{
			UID:         strings.TrimSpace(rec[uidCol]),
			ApartmentID: strings.TrimSpace(rec[aptCol]),
			Active:      true,
		}
		if e.UID == "" || e.ApartmentID == "" {
			continue
		}
		e.House, _ = field(rec, "house")
		e.LghInternal, _ = field(rec, "lgh_internal")
		e.SkvLgh, _ = field(rec, "skv_lgh")
		e.AccessGroups, _ = field(rec, "access_groups")
		if v, ok := field(rec, "active"); ok {
			e.Active = parseActive(v)
		}
		entries[e.UID] = e
	}
	return entries, nil
}

func parseActive(v string) bool {
	switch strings.ToLower(v) {
	case "1", "true", "yes":
		return true
	}
	return false
}

// Cache holds the last loaded roster in memory.
type Cache struct {
	mu      sync.RWMutex
	entries map[string]Entry

	fetcher remote.Fetcher
	url     string
	log     *zap.Logger
}

func NewCache(fetcher remote.Fetcher, url string, log *zap.Logger) *Cache {
	return &Cache{
		entries: map[string]Entry{},
		fetcher: fetcher,
		url:     strings.TrimSpace(url),
		log:     log,
	}
}

// Lookup finds a tag by uid.
func (c *Cache) Lookup(uid string) (Entry, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	e, ok := c.entries[strings.TrimSpace(uid)]
	return e, ok
}

func (c *Cache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}

// Replace swaps the cached roster.
func (c *Cache) Replace(entries map[string]Entry) {
	c.mu.Lock()
	c.entries = entries
	c.mu.Unlock()
}

// Reload fetches and parses the roster and swaps it in. The old roster is
// kept when anything fails. Without a configured URL it does nothing.
func (c *Cache) Reload(ctx context.Context) error {
	if c.url == "" {
		c.log.Info("no roster url configured, skipping rfid roster load")
		return nil
	}

	content, err := c.fetcher.FetchText(ctx, c.url)
	if err != nil {
		return fmt.Errorf("fetch roster: %w", err)
	}
	entries, err := Parse(content)
	if err != nil {
		return err
	}

	c.Replace(entries)
	c.log.Info("rfid roster loaded", zap.Int("entries", len(entries)))
	return nil
}
