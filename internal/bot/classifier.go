package bot

import "strings"

// Reply is the classification result: what to send back, how to react, and
// which intent matched.
type Reply struct {
	Body     string
	Reaction string
	Intent   string
}

// Classifier maps free-text input to a reply using the catalog's ordered
// keyword rules. It holds no mutable state and is safe for concurrent use.
type Classifier struct {
	catalog *Catalog
}

// NewClassifier creates a classifier over a loaded catalog.
func NewClassifier(catalog *Catalog) *Classifier {
	return &Classifier{catalog: catalog}
}

// Classify returns the reply for text. Matching is a plain substring check
// against the lowercased, trimmed input ("konsultasi" matches "saya minta
// konsultasi dong"); the first rule with any matching keyword wins. Input
// that matches no rule gets the fallback template.
func (cl *Classifier) Classify(text string) Reply {
	normalized := strings.ToLower(strings.TrimSpace(text))

	for _, rule := range cl.catalog.Rules {
		for _, kw := range rule.Keywords {
			if strings.Contains(normalized, kw) {
				return cl.reply(rule.Intent)
			}
		}
	}
	return cl.reply(cl.catalog.Fallback)
}

func (cl *Classifier) reply(intent string) Reply {
	tmpl := cl.catalog.Intents[intent]
	return Reply{
		Body:     cl.catalog.Render(tmpl.Body),
		Reaction: tmpl.Reaction,
		Intent:   intent,
	}
}
