package snapshot

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/adscope/kwc/internal/types"
)

const sampleYAML = `
keywords:
  - id: kw-1
    keyword: running shoes
    match_type: Broad
  - id: kw-2
    keyword: running shoes for men
    match_type: exact
    category: footwear
performances:
  - keyword_id: kw-1
    keyword: running shoes
    campaign_id: auto
    impressions: 1000
    ctr: 0.3
  - keyword: running shoes for men
    campaign_id: exact-men
    impressions: 200
    ctr: 0.8
assignments:
  kw-1: auto
campaign_sets:
  kw-1: [auto, manual]
`

func TestParse(t *testing.T) {
	snap, err := Parse([]byte(sampleYAML), Options{Strict: true})
	require.NoError(t, err)

	require.Len(t, snap.Keywords, 2)
	assert.Equal(t, types.MatchBroad, snap.Keywords[0].MatchType)
	assert.Equal(t, "footwear", snap.Keywords[1].Category)

	require.Len(t, snap.Performances, 2)
	assert.Equal(t, "", snap.Performances[1].KeywordID)
	assert.Equal(t, 1000.0, snap.Performances[0].Impressions)

	assert.Equal(t, types.CampaignAssignments{"kw-1": "auto"}, snap.Assignments)
	assert.Equal(t, types.CampaignSets{"kw-1": {"auto", "manual"}}, snap.CampaignSets)
}

func TestParse_JSON(t *testing.T) {
	data := `{"keywords":[{"keyword":"yoga mat","match_type":"phrase"}],"performances":[{"keyword":"yoga mat","impressions":10}]}`

	snap, err := Parse([]byte(data), Options{Strict: true})
	require.NoError(t, err)
	assert.Equal(t, types.MatchPhrase, snap.Keywords[0].MatchType)
	assert.Nil(t, snap.Assignments)
}

func TestParse_InvalidMatchType(t *testing.T) {
	_, err := Parse([]byte("keywords:\n  - keyword: x\n    match_type: sideways\n"), Options{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid match type")
}

func TestParse_ValidationStrictness(t *testing.T) {
	data := []byte(`
keywords:
  - keyword: shoes
    match_type: broad
performances:
  - keyword: shoes
    spend: -5
`)

	_, err := Parse(data, Options{Strict: true})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "spend cannot be negative")

	snap, err := Parse(data, Options{Strict: false})
	require.NoError(t, err)
	assert.Equal(t, -5.0, snap.Performances[0].Spend, "lenient load keeps the record unchanged")
}

func TestLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "snapshot.yaml")
	require.NoError(t, os.WriteFile(path, []byte(sampleYAML), 0o644))

	snap, err := Load(path, Options{Strict: true})
	require.NoError(t, err)

	in := snap.Input()
	assert.Len(t, in.Keywords, 2)
	assert.Len(t, in.Performances, 2)
	assert.Equal(t, "auto", in.Assignments["kw-1"])
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"), Options{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "reading snapshot file")
}

func TestMarshalRoundTrip(t *testing.T) {
	snap, err := Parse([]byte(sampleYAML), Options{Strict: true})
	require.NoError(t, err)

	data, err := snap.Marshal()
	require.NoError(t, err)

	again, err := Parse(data, Options{Strict: true})
	require.NoError(t, err)
	assert.Equal(t, snap, again)
}
