package bot

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"
)

// IntentConsultation marks messages that need a human follow-up. Replies for
// this intent additionally notify the operator.
const IntentConsultation = "konsultasi"

// Template is one canned reply: the message body plus the emoji used to
// react to the inbound message.
type Template struct {
	Body     string `json:"body"`
	Reaction string `json:"reaction"`
}

// Rule maps a keyword set to an intent. Rules are evaluated in file order;
// the first match wins.
type Rule struct {
	Keywords []string `json:"keywords"`
	Intent   string   `json:"intent"`
}

// ErrorTemplates are the two out-of-band replies.
type ErrorTemplates struct {
	UnsupportedType string `json:"unsupported_type"`
	General         string `json:"general_error"`
}

// Catalog is the reply catalog loaded once at startup. It is immutable after
// load.
type Catalog struct {
	Placeholders map[string]string   `json:"placeholders"`
	Fallback     string              `json:"fallback"`
	Rules        []Rule              `json:"rules"`
	Intents      map[string]Template `json:"intents"`
	Errors       ErrorTemplates      `json:"errors"`
}

// LoadCatalog reads and validates the reply catalog from a JSON file.
// Any problem here is fatal to startup.
func LoadCatalog(path string) (*Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("bot: read templates: %w", err)
	}
	var c Catalog
	if err := json.Unmarshal(data, &c); err != nil {
		return nil, fmt.Errorf("bot: parse templates: %w", err)
	}
	if err := c.validate(); err != nil {
		return nil, err
	}
	// Keywords are matched against lowercased input, so normalize them
	// once here instead of on every classification.
	for i, rule := range c.Rules {
		for j, kw := range rule.Keywords {
			c.Rules[i].Keywords[j] = strings.ToLower(strings.TrimSpace(kw))
		}
	}
	return &c, nil
}

func (c *Catalog) validate() error {
	if len(c.Intents) == 0 {
		return fmt.Errorf("bot: templates define no intents")
	}
	if c.Fallback == "" {
		return fmt.Errorf("bot: templates missing fallback intent name")
	}
	if _, ok := c.Intents[c.Fallback]; !ok {
		return fmt.Errorf("bot: fallback intent %q is not defined", c.Fallback)
	}
	for _, rule := range c.Rules {
		if len(rule.Keywords) == 0 {
			return fmt.Errorf("bot: rule for intent %q has no keywords", rule.Intent)
		}
		if _, ok := c.Intents[rule.Intent]; !ok {
			return fmt.Errorf("bot: rule references undefined intent %q", rule.Intent)
		}
	}
	if c.Errors.UnsupportedType == "" || c.Errors.General == "" {
		return fmt.Errorf("bot: templates missing error messages")
	}
	return nil
}

// Render substitutes every configured {placeholder} token in body.
// Tokens without a configured value are left verbatim.
func (c *Catalog) Render(body string) string {
	for key, value := range c.Placeholders {
		body = strings.ReplaceAll(body, "{"+key+"}", value)
	}
	return body
}
