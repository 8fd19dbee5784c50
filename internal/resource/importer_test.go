package resource

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type stubFetcher struct {
	body string
	err  error
	urls []string
}

func (f *stubFetcher) FetchText(_ context.Context, url string) (string, error) {
	f.urls = append(f.urls, url)
	return f.body, f.err
}

type memService struct {
	Service
	created []*Resource
	names   []string
}

func (m *memService) ListNames(context.Context) ([]string, error) {
	return m.names, nil
}

func (m *memService) Create(_ context.Context, res *Resource) error {
	res.ID = int64(len(m.created) + 1)
	m.created = append(m.created, res)
	return nil
}

const bookingYAML = `
bookable_objects:
  - name: Tvättstuga Hus 1
    type: hourslots
    cost: 0
  - name: Gästlägenhet
    type: daily
    cost:
      vardag: "250 kr"
      helg: "350 kr"
  - name: "  "
    type: daily
  - name: Bastu
    type: weekly
    cost: "12,50 kr"
`

func TestParseBookableObjects(t *testing.T) {
	objects, err := ParseBookableObjects([]byte(bookingYAML))
	require.NoError(t, err)
	require.Len(t, objects, 3)

	assert.Equal(t, "Tvättstuga Hus 1", objects[0].Name)
	assert.Equal(t, BookingTypeTimeSlot, objects[0].BookingType)
	assert.False(t, objects[0].IsBillable)

	assert.Equal(t, BookingTypeFullDay, objects[1].BookingType)
	assert.Equal(t, 25000, objects[1].PriceCents)
	assert.True(t, objects[1].IsBillable)

	assert.Equal(t, BookingTypeTimeSlot, objects[2].BookingType)
	assert.Equal(t, 1250, objects[2].PriceCents)
}

func TestParseBookableObjectsBareList(t *testing.T) {
	objects, err := ParseBookableObjects([]byte("- name: Bastu\n  type: daily\n- just a string\n"))
	require.NoError(t, err)
	require.Len(t, objects, 1)
	assert.Equal(t, BookingTypeFullDay, objects[0].BookingType)

	objects, err = ParseBookableObjects([]byte("something: else\n"))
	require.NoError(t, err)
	assert.Empty(t, objects)

	_, err = ParseBookableObjects([]byte("bookable_objects: [\n"))
	assert.Error(t, err)
}

func TestPriceCentsFromCost(t *testing.T) {
	assert.Equal(t, 15000, PriceCentsFromCost(150))
	assert.Equal(t, 9950, PriceCentsFromCost(99.5))
	assert.Equal(t, 0, PriceCentsFromCost("gratis"))
	assert.Equal(t, 0, PriceCentsFromCost(-10))
	assert.Equal(t, 0, PriceCentsFromCost(nil))
	assert.Equal(t, 20000, PriceCentsFromCost(map[string]any{"weekend": 300, "weekday": "200"}))
	assert.Equal(t, 30000, PriceCentsFromCost(map[string]any{"weekend": 300}))
}

func TestImporterSkipsExistingNames(t *testing.T) {
	svc := &memService{names: []string{"tvättstuga hus 1"}}
	fetcher := &stubFetcher{body: bookingYAML}
	im := NewImporter(svc, fetcher, "https://example.com/booking.yaml", zap.NewNop())

	n, err := im.Import(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, n)
	require.Len(t, svc.created, 2)
	assert.Equal(t, "Gästlägenhet", svc.created[0].Name)
	assert.Equal(t, "Bastu", svc.created[1].Name)
}

func TestImporterWithoutURLIsNoop(t *testing.T) {
	svc := &memService{}
	fetcher := &stubFetcher{}
	n, err := NewImporter(svc, fetcher, "", zap.NewNop()).Import(context.Background())
	require.NoError(t, err)
	assert.Zero(t, n)
	assert.Empty(t, fetcher.urls)
}

func TestImporterPropagatesFetchError(t *testing.T) {
	fetcher := &stubFetcher{err: errors.New("boom")}
	_, err := NewImporter(&memService{}, fetcher, "https://example.com/x.yaml", zap.NewNop()).Import(context.Background())
	require.Error(t, err)
	assert.True(t, strings.Contains(err.Error(), "boom"))
}

func TestResolveConfigURL(t *testing.T) {
	assert.Equal(t, "https://example.com/b.yaml", ResolveConfigURL(" https://example.com/b.yaml ", "ignored"))
	assert.Equal(t,
		"https://api.github.com/repos/brf/roster/contents/booking.yaml?ref=main",
		ResolveConfigURL("", "https://github.com/brf/roster/blob/main/rfid.csv"),
	)
	assert.Empty(t, ResolveConfigURL("", "https://example.com/rfid.csv"))
	assert.Empty(t, ResolveConfigURL("", ""))
}
