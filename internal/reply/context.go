// Package reply models the reply context handed to the engine by the host
// page, and the derived features scoring works from. The engine never calls
// back into the page; a Context value is a complete snapshot.
package reply

import "strings"

// Message is one entry of the thread leading up to the reply.
type Message struct {
	Author string `json:"author"`
	Text   string `json:"text"`
}

// Context is the situation the user is replying in. ThreadContext is ordered
// oldest first and may be empty.
type Context struct {
	TweetText     string    `json:"tweet_text"`
	IsReply       bool      `json:"is_reply"`
	ThreadContext []Message `json:"thread_context,omitempty"`
	TimeOfDay     int       `json:"time_of_day"` // 0-23
	DayOfWeek     int       `json:"day_of_week"` // 0-6, Sunday = 0
}

// Features are the coarse signals derived from a Context. Categories holds
// keyword-category names in detection order, deduplicated.
type Features struct {
	IsReply    bool
	ThreadLen  int
	HasText    bool
	Categories []string
}

// Taxonomy maps a category name to the lowercase keywords that trigger it.
// The exact table is tunable policy, not a fixed algorithm; tests assert
// properties of derivation, not the word list.
type Taxonomy []CategoryRule

// CategoryRule is one taxonomy entry. Order matters: categories are reported
// in rule order.
type CategoryRule struct {
	Category string   `yaml:"category"`
	Keywords []string `yaml:"keywords"`
}

// DefaultTaxonomy returns the shipped keyword taxonomy.
func DefaultTaxonomy() Taxonomy {
	return Taxonomy{
		{Category: "question", Keywords: []string{"?", "how do", "how to", "why ", "what if", "anyone know"}},
		{Category: "tech", Keywords: []string{"code", "software", "engineering", "api", "model", "data", "startup", "launch", "open source"}},
		{Category: "news", Keywords: []string{"breaking", "announced", "report", "update", "just in"}},
		{Category: "debate", Keywords: []string{"disagree", "wrong", "actually", "unpopular opinion", "hot take", "controversial"}},
		{Category: "humor", Keywords: []string{"lol", "lmao", "joke", "funny", "meme"}},
	}
}

// DeriveFeatures computes the feature vector for a context under the given
// taxonomy. It is a pure function; a nil taxonomy derives no categories.
func DeriveFeatures(ctx Context, tax Taxonomy) Features {
	f := Features{
		IsReply:   ctx.IsReply,
		ThreadLen: len(ctx.ThreadContext),
		HasText:   strings.TrimSpace(ctx.TweetText) != "",
	}

	text := strings.ToLower(ctx.TweetText)
	if text == "" {
		return f
	}
	for _, rule := range tax {
		for _, kw := range rule.Keywords {
			if strings.Contains(text, kw) {
				f.Categories = append(f.Categories, rule.Category)
				break
			}
		}
	}
	return f
}
