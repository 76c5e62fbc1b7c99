package presentation

import (
	_ "embed"
	"fmt"

	"github.com/ledgercheck/finhealth/pkg/models/domain"
	"golang.org/x/text/language"
	"gopkg.in/ini.v1"
)

//go:embed catalog.ini
var defaultCatalog []byte

// Catalog resolves recommendation codes to display text.
type Catalog interface {
	Languages() []language.Tag
	Match(lang string) language.Tag
	Text(code domain.RecommendationCode, lang string) string
}

type iniCatalog struct {
	cfg      *ini.File
	tags     []language.Tag
	sections map[language.Tag]*ini.Section
	matcher  language.Matcher
}

// NewCatalog loads the catalog at path, or the built-in one when path is empty.
// The first section is the fallback language.
func NewCatalog(path string) (Catalog, error) {
	var source interface{} = defaultCatalog
	if path != "" {
		source = path
	}
	cfg, err := ini.Load(source)
	if err != nil {
		return nil, fmt.Errorf("failed to load catalog: %w", err)
	}

	c := &iniCatalog{cfg: cfg, sections: make(map[language.Tag]*ini.Section)}
	for _, section := range cfg.Sections() {
		if len(section.Keys()) == 0 {
			continue
		}
		tag, err := language.Parse(section.Name())
		if err != nil {
			return nil, fmt.Errorf("catalog section %q is not a language tag: %w", section.Name(), err)
		}
		c.tags = append(c.tags, tag)
		c.sections[tag] = section
	}
	if len(c.tags) == 0 {
		return nil, fmt.Errorf("catalog has no languages")
	}
	c.matcher = language.NewMatcher(c.tags)
	return c, nil
}

func (c *iniCatalog) Languages() []language.Tag {
	out := make([]language.Tag, len(c.tags))
	copy(out, c.tags)
	return out
}

// Match picks the closest catalog language, falling back to the first one.
func (c *iniCatalog) Match(lang string) language.Tag {
	requested, err := language.Parse(lang)
	if err != nil {
		return c.tags[0]
	}
	_, idx, conf := c.matcher.Match(requested)
	if conf == language.No {
		return c.tags[0]
	}
	return c.tags[idx]
}

// Text returns the localized text for a code. Free text that is not a code is returned as is,
// and a code missing from every section resolves to itself.
func (c *iniCatalog) Text(code domain.RecommendationCode, lang string) string {
	if !code.IsCode() {
		return string(code)
	}
	for _, tag := range []language.Tag{c.Match(lang), c.tags[0]} {
		if key, err := c.sections[tag].GetKey(string(code)); err == nil {
			return key.String()
		}
	}
	return string(code)
}
