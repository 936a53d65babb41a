package lexicon

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/veridoc/clausematch/core"
)

func TestSynonymsFor(t *testing.T) {
	lex := Default()

	t.Run("direct group member", func(t *testing.T) {
		syns := lex.SynonymsFor("custody")
		assert.Contains(t, syns, "guardianship")
		assert.Contains(t, syns, "parental rights")
		assert.NotContains(t, syns, "custody")
	})

	t.Run("term embedded in keyword", func(t *testing.T) {
		syns := lex.SynonymsFor("custodial")
		assert.Contains(t, syns, "guardianship")
	})

	t.Run("case insensitive", func(t *testing.T) {
		assert.Equal(t, lex.SynonymsFor("custody"), lex.SynonymsFor("CUSTODY"))
	})

	t.Run("unknown keyword", func(t *testing.T) {
		assert.Empty(t, lex.SynonymsFor("zebra"))
	})
}

func TestCategories(t *testing.T) {
	lex := Default()

	t.Run("single category", func(t *testing.T) {
		assert.Equal(t, []string{"custody"}, lex.Categories([]string{"custody", "children"}))
	})

	t.Run("multiple categories in group order", func(t *testing.T) {
		got := lex.Categories([]string{"termination", "payment"})
		assert.Equal(t, []string{"payment", "termination"}, got)
	})

	t.Run("no categories", func(t *testing.T) {
		assert.Empty(t, lex.Categories([]string{"banana"}))
	})
}

func TestClassifyIntent(t *testing.T) {
	lex := Default()

	tests := []struct {
		query string
		want  core.Intent
	}{
		{"Where is the payment section?", core.IntentLocation},
		{"Show me the dispute resolution section", core.IntentLocation},
		{"What does indemnification mean?", core.IntentExplanation},
		{"Explain the confidentiality clause", core.IntentExplanation},
		{"Who has custody of the children?", core.IntentResponsibility},
		{"Who is responsible for repairs?", core.IntentResponsibility},
		{"When does the lease expire?", core.IntentTiming},
		{"How long is the notice period?", core.IntentTiming},
		{"How to terminate the agreement", core.IntentProcess},
		{"What steps are required to file a claim", core.IntentProcess},
		{"custody arrangement", core.IntentGeneral},
		{"", core.IntentGeneral},
	}

	for _, tt := range tests {
		t.Run(tt.query, func(t *testing.T) {
			assert.Equal(t, tt.want, lex.ClassifyIntent(tt.query))
		})
	}
}

func TestClassifyIntent_PriorityOrder(t *testing.T) {
	lex := Default()

	// "where" (location) outranks "who is" (responsibility)
	assert.Equal(t, core.IntentLocation, lex.ClassifyIntent("Where does it say who is liable?"))
}

func TestEntities(t *testing.T) {
	lex := Default()

	t.Run("finds entity phrases", func(t *testing.T) {
		entities := lex.Entities("Which court handles disputes between the parties to this contract?")
		assert.Contains(t, entities, "court")
		assert.Contains(t, entities, "parties")
		assert.Contains(t, entities, "contract")
	})

	t.Run("deduplicates", func(t *testing.T) {
		entities := lex.Entities("the contract, the contract, the contract")
		assert.Equal(t, []string{"contract"}, entities)
	})

	t.Run("no entities", func(t *testing.T) {
		assert.Empty(t, lex.Entities("who gets the dog"))
	})
}

func TestRelatedTerms(t *testing.T) {
	lex := Default()

	related := lex.RelatedTerms([]string{"custody"})
	require.Len(t, related, 1)
	assert.Contains(t, related[0], "guardianship")
	assert.NotContains(t, related[0], "custody")
}

func TestWithSynonymCap(t *testing.T) {
	lex := New(defaultGroups, WithSynonymCap(3))
	assert.Equal(t, 3, lex.SynonymCap())

	// invalid cap keeps the default
	lex = New(defaultGroups, WithSynonymCap(0))
	assert.Equal(t, defaultSynonymCap, lex.SynonymCap())
}

func TestStaticThesaurus(t *testing.T) {
	th := DefaultThesaurus()

	t.Run("known word", func(t *testing.T) {
		related := th.Expand("children")
		assert.Contains(t, related, "minors")
		assert.NotContains(t, related, "children")
	})

	t.Run("unknown word", func(t *testing.T) {
		assert.Empty(t, th.Expand("xylophone"))
	})

	t.Run("case insensitive", func(t *testing.T) {
		assert.Equal(t, th.Expand("children"), th.Expand("Children"))
	})
}
