// Package proposal decodes YAML proposal files into preview items. A
// proposal is the declarative form of one record an ingestion bot would
// produce: names, descriptions and claims keyed by property.
package proposal

import (
	"fmt"

	"github.com/goccy/go-yaml"

	"github.com/kulturarv/wikibasekit/pkg/preview"
	"github.com/kulturarv/wikibasekit/pkg/statement"
	"github.com/kulturarv/wikibasekit/pkg/wikibase"
)

// Document is the YAML shape of a proposal file.
type Document struct {
	Labels       map[string][]string `yaml:"labels"`
	Descriptions map[string]string   `yaml:"descriptions"`
	Matched      string              `yaml:"matched"`
	Claims       []Claim             `yaml:"claims"`
	DefaultRef   *Reference          `yaml:"default_reference"`
}

// Claim is one proposed statement.
type Claim struct {
	Property   string     `yaml:"property"`
	Value      `yaml:",inline"`
	Special    string     `yaml:"special"`
	Force      bool       `yaml:"force"`
	Qualifiers []Snak     `yaml:"qualifiers"`
	Reference  *Reference `yaml:"reference"`
}

// Snak is one property-value pair.
type Snak struct {
	Property string `yaml:"property"`
	Value    `yaml:",inline"`
}

// Value is the union of accepted YAML value fields; exactly one of Entity,
// String, Mono, Amount or Time may be set.
type Value struct {
	Entity    string `yaml:"entity"`
	String    string `yaml:"string"`
	MonoLang  string `yaml:"mono_language"`
	MonoText  string `yaml:"mono_text"`
	Amount    string `yaml:"amount"`
	Unit      string `yaml:"unit"`
	Time      string `yaml:"time"`
	Precision int    `yaml:"precision"`
}

// Reference is a citation split into tested and untested sources.
type Reference struct {
	Tested   []Snak `yaml:"tested"`
	Untested []Snak `yaml:"untested"`
}

// Decode parses a proposal file into a preview item.
func Decode(data []byte) (*preview.Item, error) {
	var doc Document
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("parsing proposal: %w", err)
	}

	item := &preview.Item{
		Labels:       doc.Labels,
		Descriptions: doc.Descriptions,
		Statements:   make(map[wikibase.PropertyID][]*statement.Statement),
	}

	if doc.Matched != "" {
		matched, err := wikibase.ParseEntityID(doc.Matched)
		if err != nil {
			return nil, fmt.Errorf("matched entity: %w", err)
		}
		item.Matched = matched
	}

	if doc.DefaultRef != nil {
		ref, err := decodeReference(doc.DefaultRef)
		if err != nil {
			return nil, fmt.Errorf("default reference: %w", err)
		}
		item.DefaultRef = ref
	}

	for i, c := range doc.Claims {
		prop, err := wikibase.ParsePropertyID(c.Property)
		if err != nil {
			return nil, fmt.Errorf("claim %d: %w", i, err)
		}
		st, err := decodeStatement(c)
		if err != nil {
			return nil, fmt.Errorf("claim %d (%s): %w", i, prop, err)
		}
		item.Statements[prop] = append(item.Statements[prop], st)
	}
	return item, nil
}

// decodeStatement builds one statement from its YAML form.
func decodeStatement(c Claim) (*statement.Statement, error) {
	var st *statement.Statement
	if c.Special != "" {
		var err error
		st, err = statement.NewSpecial(wikibase.SnakType(c.Special))
		if err != nil {
			return nil, err
		}
	} else {
		value, err := decodeValue(c.Value)
		if err != nil {
			return nil, err
		}
		st = statement.New(value)
	}
	if c.Force {
		st.WithForce()
	}

	for _, qs := range c.Qualifiers {
		prop, err := wikibase.ParsePropertyID(qs.Property)
		if err != nil {
			return nil, fmt.Errorf("qualifier: %w", err)
		}
		value, err := decodeValue(qs.Value)
		if err != nil {
			return nil, fmt.Errorf("qualifier %s: %w", prop, err)
		}
		q, err := statement.NewQualifier(prop, value)
		if err != nil {
			return nil, err
		}
		st.AddQualifier(&q)
	}

	if c.Reference != nil {
		ref, err := decodeReference(c.Reference)
		if err != nil {
			return nil, err
		}
		if err := st.AddReference(ref); err != nil {
			return nil, err
		}
	}
	return st, nil
}

// decodeReference builds a reference from its YAML form.
func decodeReference(r *Reference) (*statement.Reference, error) {
	tested, err := decodeSnaks(r.Tested)
	if err != nil {
		return nil, err
	}
	untested, err := decodeSnaks(r.Untested)
	if err != nil {
		return nil, err
	}
	return statement.NewReference(tested, untested)
}

// decodeSnaks builds source snaks from their YAML form.
func decodeSnaks(snaks []Snak) ([]wikibase.Snak, error) {
	out := make([]wikibase.Snak, 0, len(snaks))
	for _, s := range snaks {
		prop, err := wikibase.ParsePropertyID(s.Property)
		if err != nil {
			return nil, err
		}
		value, err := decodeValue(s.Value)
		if err != nil {
			return nil, fmt.Errorf("source %s: %w", prop, err)
		}
		out = append(out, wikibase.NewSnak(prop, value))
	}
	return out, nil
}

// decodeValue builds the tagged value from whichever YAML field is set.
func decodeValue(v Value) (wikibase.Value, error) {
	switch {
	case v.Entity != "":
		id, err := wikibase.ParseEntityID(v.Entity)
		if err != nil {
			return nil, err
		}
		return wikibase.EntityValue{ID: id}, nil

	case v.Time != "":
		precision := wikibase.TimePrecision(v.Precision)
		if v.Precision == 0 {
			precision = wikibase.PrecisionDay
		}
		ts, err := wikibase.ParseTimestamp(v.Time, precision)
		if err != nil {
			return nil, err
		}
		return ts, nil

	case v.Amount != "":
		var unit wikibase.EntityID
		if v.Unit != "" {
			parsed, err := wikibase.ParseEntityID(v.Unit)
			if err != nil {
				return nil, err
			}
			unit = parsed
		}
		return wikibase.Quantity{Amount: v.Amount, Unit: unit}, nil

	case v.MonoText != "":
		if v.MonoLang == "" {
			return nil, fmt.Errorf("monolingual text needs mono_language")
		}
		return wikibase.MonolingualText{Language: v.MonoLang, Text: v.MonoText}, nil

	case v.String != "":
		return wikibase.StringValue(v.String), nil

	default:
		return nil, fmt.Errorf("no value supplied")
	}
}
