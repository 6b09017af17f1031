package reply

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDeriveFeatures_Basics(t *testing.T) {
	t.Parallel()

	ctx := Context{
		TweetText: "anyone know why the deploy broke?",
		IsReply:   true,
		ThreadContext: []Message{
			{Author: "alice", Text: "shipping today"},
			{Author: "bob", Text: "congrats"},
		},
	}

	f := DeriveFeatures(ctx, DefaultTaxonomy())
	assert.True(t, f.IsReply)
	assert.Equal(t, 2, f.ThreadLen)
	assert.True(t, f.HasText)
	assert.Contains(t, f.Categories, "question")
}

func TestDeriveFeatures_EmptyText(t *testing.T) {
	t.Parallel()

	f := DeriveFeatures(Context{TweetText: "   "}, DefaultTaxonomy())
	assert.False(t, f.HasText)
	assert.Empty(t, f.Categories)
}

func TestDeriveFeatures_OneCategoryPerRule(t *testing.T) {
	t.Parallel()

	// Multiple keywords of the same rule must not duplicate the category.
	ctx := Context{TweetText: "lol that joke was funny"}
	f := DeriveFeatures(ctx, DefaultTaxonomy())

	count := 0
	for _, c := range f.Categories {
		if c == "humor" {
			count++
		}
	}
	assert.Equal(t, 1, count)
}

func TestDeriveFeatures_CaseInsensitive(t *testing.T) {
	t.Parallel()

	f := DeriveFeatures(Context{TweetText: "BREAKING: model update announced"}, DefaultTaxonomy())
	assert.Contains(t, f.Categories, "news")
}

func TestDeriveFeatures_NilTaxonomy(t *testing.T) {
	t.Parallel()

	f := DeriveFeatures(Context{TweetText: "code code code"}, nil)
	assert.Empty(t, f.Categories)
	assert.True(t, f.HasText)
}

func TestDeriveFeatures_Pure(t *testing.T) {
	t.Parallel()

	ctx := Context{TweetText: "hot take: this api is wrong", IsReply: true}
	tax := DefaultTaxonomy()
	first := DeriveFeatures(ctx, tax)
	for i := 0; i < 50; i++ {
		assert.Equal(t, first, DeriveFeatures(ctx, tax))
	}
}
