package domain

import (
	_ "embed"
	"fmt"
	"regexp"
	"strings"

	"gopkg.in/yaml.v3"
)

//go:embed rules.yaml
var rulesYAML []byte

type rulesFile struct {
	Families []struct {
		Category string   `yaml:"category"`
		Keywords []string `yaml:"keywords"`
	} `yaml:"families"`
	Default  string   `yaml:"default"`
	Overused []string `yaml:"overused"`
}

var rules = mustLoadRules()

func mustLoadRules() rulesFile {
	var parsed rulesFile
	if err := yaml.Unmarshal(rulesYAML, &parsed); err != nil {
		panic("discovery: bad embedded rules.yaml: " + err.Error())
	}
	if len(parsed.Families) == 0 || parsed.Default == "" {
		panic("discovery: rules.yaml must declare families and a default category")
	}
	return parsed
}

// OverusedLandmarks lists landmarks the request builder tells the model to
// avoid unless the user's query names them.
func OverusedLandmarks() []string {
	out := make([]string, len(rules.Overused))
	copy(out, rules.Overused)
	return out
}

type keywordFamily struct {
	category Category
	pattern  *regexp.Regexp
}

// Classifier derives a category from description text. Families are checked
// in declaration order; the first match wins.
type Classifier struct {
	families []keywordFamily
	fallback Category
}

// NewClassifier compiles the embedded keyword families.
func NewClassifier() *Classifier {
	families := make([]keywordFamily, 0, len(rules.Families))
	for _, f := range rules.Families {
		families = append(families, keywordFamily{
			category: Category(f.Category),
			pattern:  regexp.MustCompile(strings.Join(f.Keywords, "|")),
		})
	}
	return &Classifier{
		families: families,
		fallback: Category(rules.Default),
	}
}

// Classify returns the first matching family's category, or the fallback.
func (c *Classifier) Classify(description string) Category {
	lowered := strings.ToLower(description)
	for _, f := range c.families {
		if f.pattern.MatchString(lowered) {
			return f.category
		}
	}
	return c.fallback
}

// Repair fills in the category on every record that arrived without one.
// Records that already carry a category are left untouched, which makes the
// pass idempotent.
func (c *Classifier) Repair(batch SuggestionBatch) {
	for i := range batch {
		if batch[i].Place.Category == "" {
			batch[i].Place.Category = c.Classify(batch[i].Place.Description)
		}
	}
}

// String is used in log lines describing the active rule set.
func (c *Classifier) String() string {
	names := make([]string, len(c.families))
	for i, f := range c.families {
		names[i] = string(f.category)
	}
	return fmt.Sprintf("classifier(%s, default=%s)", strings.Join(names, ">"), c.fallback)
}
