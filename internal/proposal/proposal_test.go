package proposal

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kulturarv/wikibasekit/pkg/wikibase"
)

const sampleProposal = `
labels:
  en: ["Vasa", "Wasa"]
  sv: ["Vasa"]
descriptions:
  en: Swedish warship
matched: Q170
default_reference:
  tested:
    - property: P248
      entity: Q5
  untested:
    - property: P813
      string: "2020-01-01"
claims:
  - property: P31
    entity: Q11446
    qualifiers:
      - property: P585
        time: "+1628-08-10T00:00:00Z"
        precision: 11
  - property: P2043
    amount: "69"
    unit: Q11573
  - property: P1448
    mono_language: sv
    mono_text: Vasa
  - property: P570
    special: novalue
    force: true
    reference:
      tested:
        - property: P248
          entity: Q6
`

func TestDecode(t *testing.T) {
	item, err := Decode([]byte(sampleProposal))
	require.NoError(t, err)

	assert.Equal(t, []string{"Vasa", "Wasa"}, item.Labels["en"])
	assert.Equal(t, "Swedish warship", item.Descriptions["en"])
	assert.Equal(t, wikibase.EntityID("Q170"), item.Matched)

	require.NotNil(t, item.DefaultRef)
	assert.Len(t, item.DefaultRef.Tested(), 1)
	assert.Len(t, item.DefaultRef.Untested(), 1)

	instance := item.Statements["P31"]
	require.Len(t, instance, 1)
	assert.Equal(t, "Q11446", instance[0].Value().String())
	quals := instance[0].Qualifiers()
	require.Len(t, quals, 1)
	assert.Equal(t, wikibase.PropertyID("P585"), quals[0].Property)
	ts, ok := quals[0].Value.(wikibase.Time)
	require.True(t, ok)
	assert.Equal(t, wikibase.PrecisionDay, ts.Precision)
	assert.Equal(t, int64(1628), ts.Year)

	draught := item.Statements["P2043"]
	require.Len(t, draught, 1)
	quantity, ok := draught[0].Value().(wikibase.Quantity)
	require.True(t, ok)
	assert.Equal(t, "69", quantity.Amount)
	assert.Equal(t, wikibase.EntityID("Q11573"), quantity.Unit)

	name := item.Statements["P1448"]
	require.Len(t, name, 1)
	mono, ok := name[0].Value().(wikibase.MonolingualText)
	require.True(t, ok)
	assert.Equal(t, "sv", mono.Language)

	died := item.Statements["P570"]
	require.Len(t, died, 1)
	assert.True(t, died[0].Special())
	assert.Equal(t, wikibase.SnakNoValue, died[0].SnakType())
	assert.True(t, died[0].Forced())
	require.NotNil(t, died[0].Reference())
}

func TestDecodeMinimal(t *testing.T) {
	item, err := Decode([]byte("labels:\n  en: [\"Thing\"]\n"))
	require.NoError(t, err)
	assert.Empty(t, item.Matched)
	assert.Nil(t, item.DefaultRef)
	assert.Empty(t, item.Statements)
}

func TestDecodeRejectsBadInput(t *testing.T) {
	cases := map[string]string{
		"malformed yaml":    "labels: [unclosed",
		"bad matched id":    "matched: P31\n",
		"bad property":      "claims:\n  - property: Q31\n    entity: Q5\n",
		"valueless claim":   "claims:\n  - property: P31\n",
		"bad special":       "claims:\n  - property: P31\n    special: banana\n",
		"mono without lang": "claims:\n  - property: P1448\n    mono_text: Vasa\n",
		"empty reference":   "claims:\n  - property: P31\n    entity: Q5\n    reference: {}\n",
	}
	for name, doc := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := Decode([]byte(doc))
			assert.Error(t, err)
		})
	}
}
