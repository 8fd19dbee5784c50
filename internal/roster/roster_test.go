package roster

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

const sampleCSV = "\ufeffrfid_uid,lgh_id,house,lgh_internal,skv_lgh,access_groups,active\n" +
	"AA11,1-1001,1,101,1001,tvatt,1\n" +
	"BB22,1-1002,,102,1002,,no\n" +
	"CC33, 2-2001 ,2,201,2001,,Yes\n" +
	",3-3001,3,,,,1\n" +
	"DD44,,3,,,,1\n"

func TestParse(t *testing.T) {
	entries, err := Parse(sampleCSV)
	require.NoError(t, err)
	require.Len(t, entries, 3)

	aa := entries["AA11"]
	assert.Equal(t, "1-1001", aa.ApartmentID)
	assert.Equal(t, "1", aa.House)
	assert.Equal(t, "tvatt", aa.AccessGroups)
	assert.True(t, aa.Active)

	assert.False(t, entries["BB22"].Active)
	assert.True(t, entries["CC33"].Active)
	assert.Equal(t, "2-2001", entries["CC33"].ApartmentID)
	assert.Equal(t, "2001", entries["CC33"].Profile().SkvLgh)
}

func TestParseWithoutActiveColumn(t *testing.T) {
	entries, err := Parse("rfid_uid,apartment_id\nAA11,1-1001\n")
	require.NoError(t, err)
	assert.True(t, entries["AA11"].Active)
}

func TestParseMissingColumns(t *testing.T) {
	_, err := Parse("uid,apartment\nAA11,1-1001\n")
	assert.ErrorIs(t, err, ErrMissingColumns)

	entries, err := Parse("")
	require.NoError(t, err)
	assert.Empty(t, entries)
}

type stubFetcher struct {
	content string
	err     error
}

func (f stubFetcher) FetchText(context.Context, string) (string, error) {
	return f.content, f.err
}

func TestCacheReload(t *testing.T) {
	c := NewCache(stubFetcher{content: sampleCSV}, "https://example.test/roster.csv", zap.NewNop())
	require.NoError(t, c.Reload(context.Background()))
	assert.Equal(t, 3, c.Len())

	e, ok := c.Lookup(" AA11 ")
	require.True(t, ok)
	assert.Equal(t, "1-1001", e.ApartmentID)

	_, ok = c.Lookup("nope")
	assert.False(t, ok)

	c.fetcher = stubFetcher{err: errors.New("github down")}
	assert.Error(t, c.Reload(context.Background()))
	assert.Equal(t, 3, c.Len(), "failed reloads keep the old roster")
}

func TestCacheReloadWithoutURL(t *testing.T) {
	c := NewCache(stubFetcher{err: errors.New("must not be called")}, " ", zap.NewNop())
	assert.NoError(t, c.Reload(context.Background()))
	assert.Zero(t, c.Len())
}
