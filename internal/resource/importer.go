package resource

import (
	"context"
	"errors"
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"

	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"github.com/nekogravitycat/brf-booking-backend/internal/pkg/remote"
)

var costNumberPattern = regexp.MustCompile(`-?\d+(?:[.,]\d+)?`)

// Cost map keys tried in order before any other key.
var preferredCostKeys = []string{"weekday", "vardag", "default", "weekend", "helg"}

// Importer seeds the catalog from a remote booking.yaml. Objects whose name
// already exists (case-insensitive) are left untouched.
type Importer struct {
	service Service
	fetcher remote.Fetcher
	url     string
	log     *zap.Logger
}

// ResolveConfigURL picks the booking.yaml location: the explicit URL if set,
// otherwise booking.yaml next to the roster CSV when that is a GitHub URL.
func ResolveConfigURL(configURL, csvURL string) string {
	if u := strings.TrimSpace(configURL); u != "" {
		return u
	}
	if u := strings.TrimSpace(csvURL); u != "" {
		return remote.SiblingURL(u, "booking.yaml")
	}
	return ""
}

func NewImporter(service Service, fetcher remote.Fetcher, url string, log *zap.Logger) *Importer {
	return &Importer{service: service, fetcher: fetcher, url: url, log: log}
}

// Import fetches and applies booking.yaml, returning the number of resources created.
// A missing URL is not an error.
func (im *Importer) Import(ctx context.Context) (int, error) {
	if im.url == "" {
		im.log.Info("no booking config url configured, skipping resource import")
		return 0, nil
	}

	content, err := im.fetcher.FetchText(ctx, im.url)
	if err != nil {
		return 0, fmt.Errorf("fetch booking config: %w", err)
	}

	objects, err := ParseBookableObjects([]byte(content))
	if err != nil {
		return 0, err
	}
	if len(objects) == 0 {
		im.log.Warn("no bookable_objects found in booking config", zap.String("url", im.url))
		return 0, nil
	}

	names, err := im.service.ListNames(ctx)
	if err != nil {
		return 0, err
	}
	existing := make(map[string]struct{}, len(names))
	for _, n := range names {
		if key := strings.ToLower(strings.TrimSpace(n)); key != "" {
			existing[key] = struct{}{}
		}
	}

	inserted := 0
	for _, res := range objects {
		key := strings.ToLower(res.Name)
		if _, ok := existing[key]; ok {
			continue
		}
		if err := im.service.Create(ctx, res); err != nil {
			if errors.Is(err, ErrNameTaken) {
				continue
			}
			return inserted, fmt.Errorf("create resource %q: %w", res.Name, err)
		}
		existing[key] = struct{}{}
		inserted++
	}

	im.log.Info("booking config imported", zap.String("url", im.url), zap.Int("inserted", inserted))
	return inserted, nil
}

type bookableObject struct {
	Name string `yaml:"name"`
	Type string `yaml:"type"`
	Cost any    `yaml:"cost"`
}

// ParseBookableObjects decodes booking.yaml. The document is either a map with a
// bookable_objects list or the list itself; entries without a name are dropped.
func ParseBookableObjects(content []byte) ([]*Resource, error) {
	var root yaml.Node
	if err := yaml.Unmarshal(content, &root); err != nil {
		return nil, fmt.Errorf("invalid booking config yaml: %w", err)
	}
	if len(root.Content) == 0 {
		return nil, nil
	}

	doc := root.Content[0]
	var listNode *yaml.Node
	switch doc.Kind {
	case yaml.SequenceNode:
		listNode = doc
	case yaml.MappingNode:
		for i := 0; i+1 < len(doc.Content); i += 2 {
			if doc.Content[i].Value == "bookable_objects" && doc.Content[i+1].Kind == yaml.SequenceNode {
				listNode = doc.Content[i+1]
			}
		}
	}
	if listNode == nil {
		return nil, nil
	}

	var out []*Resource
	for _, item := range listNode.Content {
		if item.Kind != yaml.MappingNode {
			continue
		}
		var obj bookableObject
		if err := item.Decode(&obj); err != nil {
			continue
		}
		name := strings.TrimSpace(obj.Name)
		if name == "" {
			continue
		}
		price := PriceCentsFromCost(obj.Cost)
		res := &Resource{
			Name:        name,
			BookingType: ParseBookingType(obj.Type),
			IsActive:    true,
			PriceCents:  price,
			IsBillable:  price > 0,
		}
		res.Normalize()
		out = append(out, res)
	}
	return out, nil
}

// PriceCentsFromCost converts a cost entry (number, "150 kr", or a map of
// weekday/weekend prices) into cents. Unknown or non-positive costs are 0.
func PriceCentsFromCost(cost any) int {
	var (
		amount float64
		ok     bool
	)
	if m, isMap := cost.(map[string]any); isMap {
		for _, key := range preferredCostKeys {
			if amount, ok = toAmount(m[key]); ok {
				break
			}
		}
		if !ok {
			for _, v := range m {
				if amount, ok = toAmount(v); ok {
					break
				}
			}
		}
	} else {
		amount, ok = toAmount(cost)
	}

	if !ok || amount <= 0 {
		return 0
	}
	return int(math.Round(amount * 100))
}

func toAmount(v any) (float64, bool) {
	switch n := v.(type) {
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	case float64:
		return n, true
	case string:
		match := costNumberPattern.FindString(strings.TrimSpace(n))
		if match == "" {
			return 0, false
		}
		f, err := strconv.ParseFloat(strings.Replace(match, ",", ".", 1), 64)
		if err != nil {
			return 0, false
		}
		return f, true
	}
	return 0, false
}
