// Package wdq rewrites the legacy CLAIM/STRING/TREE boolean query language
// into SPARQL against the graph query service, executes the result and
// decodes entity bindings back into the integer id tails callers of the
// legacy language expect.
package wdq

import (
	"strings"

	"github.com/kulturarv/wikibasekit/pkg/constants"
	"github.com/kulturarv/wikibasekit/pkg/errors"
	"github.com/kulturarv/wikibasekit/pkg/wikibase"
)

// prefixBlock declares the namespaces of the query service: entity,
// direct-predicate, reification and reference.
var prefixBlock = "PREFIX wd: <" + constants.EntityNamespace + ">\n" +
	"PREFIX wdt: <" + constants.DirectPredicateNamespace + ">\n" +
	"PREFIX p: <" + constants.PredicateNamespace + ">\n" +
	"PREFIX ps: <" + constants.StatementNamespace + ">\n" +
	"PREFIX pq: <" + constants.QualifierNamespace + ">\n" +
	"PREFIX pr: <" + constants.ReferenceNamespace + ">\n"

// Translate rewrites a legacy query into a complete SPARQL query selecting
// ?item. Unsupported constructs (top-level AND, comma-separated claims)
// fail fast with a positional QueryError.
func Translate(legacy string) (string, error) {
	body, err := translateTop(legacy)
	if err != nil {
		return "", err
	}
	return prefixBlock + "SELECT ?item WHERE { " + body + " }", nil
}

// translateTop dispatches on the top-level form.
func translateTop(legacy string) (string, error) {
	s := strings.TrimSpace(legacy)
	if s == "" {
		return "", errors.NewQueryError(legacy, 0, "empty query")
	}
	if idx := indexOutsideQuotes(s, " AND "); idx >= 0 {
		return "", errors.NewQueryError(legacy, idx, "top-level AND is not supported")
	}

	switch {
	case strings.HasPrefix(s, "STRING["):
		return translateString(s)
	case strings.HasPrefix(s, "TREE["):
		return translateTree(s)
	case strings.HasPrefix(s, "CLAIM["):
		return translateClaim(s)
	default:
		return "", errors.NewQueryError(legacy, 0, "expected CLAIM, STRING or TREE")
	}
}

// translateString handles STRING[P:"value"].
func translateString(s string) (string, error) {
	inner, rest, err := bracketContent(s, len("STRING"))
	if err != nil {
		return "", err
	}
	if strings.TrimSpace(rest) != "" {
		return "", errors.NewQueryError(s, len(s)-len(rest), "trailing input after STRING")
	}

	propPart, valPart, ok := strings.Cut(inner, ":")
	if !ok {
		return "", errors.NewQueryError(s, 0, "STRING needs a property and a quoted value")
	}
	prop, err := wikibase.ParsePropertyID(propPart)
	if err != nil {
		return "", errors.NewQueryError(s, 0, "bad property in STRING: "+propPart)
	}
	value, err := unquote(valPart)
	if err != nil {
		return "", errors.NewQueryError(s, 0, "STRING value must be quoted")
	}
	return "?item wdt:" + string(prop) + " " + sparqlLiteral(value) + " .", nil
}

// translateClaim handles CLAIM[P], CLAIM[P:Q] and the qualifier-filtered
// CLAIM[P]{...} / CLAIM[P:Q]{...} forms.
func translateClaim(s string) (string, error) {
	inner, rest, err := bracketContent(s, len("CLAIM"))
	if err != nil {
		return "", err
	}
	if idx := strings.IndexByte(inner, ','); idx >= 0 {
		return "", errors.NewQueryError(s, len("CLAIM[")+idx, "comma separation is not supported")
	}

	prop, value, err := parsePropValue(inner)
	if err != nil {
		return "", errors.NewQueryError(s, 0, err.Error())
	}

	rest = strings.TrimSpace(rest)
	if rest == "" {
		object := "[]"
		if value != "" {
			object = "wd:" + string(value)
		}
		return "?item wdt:" + string(prop) + " " + object + " .", nil
	}

	if !strings.HasPrefix(rest, "{") || !strings.HasSuffix(rest, "}") {
		return "", errors.NewQueryError(s, len(s)-len(rest), "expected qualifier block")
	}
	branches, err := translateQualifiers(rest[1 : len(rest)-1])
	if err != nil {
		return "", err
	}

	object := "[]"
	if value != "" {
		object = "wd:" + string(value)
	}
	body := "?item p:" + string(prop) + " ?statement . " +
		"?statement ps:" + string(prop) + " " + object + " . " + branches
	return body, nil
}

// translateQualifiers turns the {...} sub-expression into UNION branches
// over the statement-reification node. Leaves are CLAIM[p:q],
// STRING[p:"s"] and NOCLAIM[p:q], joined by OR.
func translateQualifiers(expr string) (string, error) {
	parts := splitOutsideQuotes(expr, " OR ")
	branches := make([]string, 0, len(parts))
	for _, part := range parts {
		leaf, err := translateQualifierLeaf(strings.TrimSpace(part))
		if err != nil {
			return "", err
		}
		branches = append(branches, "{ "+leaf+" }")
	}
	return strings.Join(branches, " UNION "), nil
}

// translateQualifierLeaf handles one qualifier leaf.
func translateQualifierLeaf(leaf string) (string, error) {
	switch {
	case strings.HasPrefix(leaf, "CLAIM["):
		inner, rest, err := bracketContent(leaf, len("CLAIM"))
		if err != nil || strings.TrimSpace(rest) != "" {
			return "", errors.NewQueryError(leaf, 0, "malformed qualifier CLAIM")
		}
		prop, value, err := parsePropValue(inner)
		if err != nil || value == "" {
			return "", errors.NewQueryError(leaf, 0, "qualifier CLAIM needs property and value")
		}
		return "?statement pq:" + string(prop) + " wd:" + string(value) + " .", nil

	case strings.HasPrefix(leaf, "STRING["):
		inner, rest, err := bracketContent(leaf, len("STRING"))
		if err != nil || strings.TrimSpace(rest) != "" {
			return "", errors.NewQueryError(leaf, 0, "malformed qualifier STRING")
		}
		propPart, valPart, ok := strings.Cut(inner, ":")
		if !ok {
			return "", errors.NewQueryError(leaf, 0, "qualifier STRING needs property and value")
		}
		prop, err := wikibase.ParsePropertyID(propPart)
		if err != nil {
			return "", errors.NewQueryError(leaf, 0, "bad property in qualifier STRING")
		}
		value, err := unquote(valPart)
		if err != nil {
			return "", errors.NewQueryError(leaf, 0, "qualifier STRING value must be quoted")
		}
		return "?statement pq:" + string(prop) + " " + sparqlLiteral(value) + " .", nil

	case strings.HasPrefix(leaf, "NOCLAIM["):
		inner, rest, err := bracketContent(leaf, len("NOCLAIM"))
		if err != nil || strings.TrimSpace(rest) != "" {
			return "", errors.NewQueryError(leaf, 0, "malformed qualifier NOCLAIM")
		}
		prop, value, err := parsePropValue(inner)
		if err != nil || value == "" {
			return "", errors.NewQueryError(leaf, 0, "qualifier NOCLAIM needs property and value")
		}
		return "FILTER NOT EXISTS { ?statement pq:" + string(prop) + " wd:" + string(value) + " . }", nil

	default:
		return "", errors.NewQueryError(leaf, 0, "expected CLAIM, STRING or NOCLAIM qualifier")
	}
}

// translateTree handles the transitive-closure form TREE[Q][P2][P3].
// Either property may be absent (empty or missing bracket), degenerating
// per the translation rules.
func translateTree(s string) (string, error) {
	inner, rest, err := bracketContent(s, len("TREE"))
	if err != nil {
		return "", err
	}
	root, err := wikibase.ParseEntityID(strings.TrimSpace(inner))
	if err != nil {
		return "", errors.NewQueryError(s, 0, "TREE needs a root entity")
	}

	down, up := "", "" // P2 walks down to items, P3 walks up from the root
	rest = strings.TrimSpace(rest)
	for i := 0; i < 2 && strings.HasPrefix(rest, "["); i++ {
		var part string
		part, rest, err = bracketContent(rest, 0)
		if err != nil {
			return "", err
		}
		rest = strings.TrimSpace(rest)
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		prop, perr := wikibase.ParsePropertyID(part)
		if perr != nil {
			return "", errors.NewQueryError(s, 0, "bad property in TREE: "+part)
		}
		if i == 0 {
			down = string(prop)
		} else {
			up = string(prop)
		}
	}
	if rest != "" {
		return "", errors.NewQueryError(s, len(s)-len(rest), "trailing input after TREE")
	}

	switch {
	case down != "" && up != "":
		return "?tree0 (wdt:" + down + ")* ?item . ?tree0 (wdt:" + up + ")* wd:" + string(root) + " .", nil
	case down != "":
		return "?tree0 (wdt:" + down + ")* ?item . BIND (wd:" + string(root) + " AS ?tree0)", nil
	case up != "":
		return "?item (wdt:" + up + ")* wd:" + string(root) + " .", nil
	default:
		return "BIND (wd:" + string(root) + " AS ?item)", nil
	}
}

// parsePropValue splits "P:Q" or "P" into a property and an optional
// entity value.
func parsePropValue(inner string) (wikibase.PropertyID, wikibase.EntityID, error) {
	propPart, valPart, hasValue := strings.Cut(inner, ":")
	prop, err := wikibase.ParsePropertyID(strings.TrimSpace(propPart))
	if err != nil {
		return "", "", errors.New("bad property: " + propPart)
	}
	if !hasValue {
		return prop, "", nil
	}
	value, err := wikibase.ParseEntityID(strings.TrimSpace(valPart))
	if err != nil {
		return "", "", errors.New("bad entity value: " + valPart)
	}
	return prop, value, nil
}

// bracketContent returns the content of the bracket group starting at
// offset and the remainder after it. Quotes inside the group are honoured.
func bracketContent(s string, offset int) (inner, rest string, err error) {
	if offset >= len(s) || s[offset] != '[' {
		return "", "", errors.NewQueryError(s, offset, "expected '['")
	}
	inQuotes := false
	for i := offset + 1; i < len(s); i++ {
		switch s[i] {
		case '"':
			inQuotes = !inQuotes
		case ']':
			if !inQuotes {
				return s[offset+1 : i], s[i+1:], nil
			}
		}
	}
	return "", "", errors.NewQueryError(s, offset, "unterminated '['")
}

// indexOutsideQuotes returns the first index of sub outside quoted spans,
// or -1.
func indexOutsideQuotes(s, sub string) int {
	inQuotes := false
	for i := 0; i+len(sub) <= len(s); i++ {
		if s[i] == '"' {
			inQuotes = !inQuotes
			continue
		}
		if !inQuotes && strings.HasPrefix(s[i:], sub) {
			return i
		}
	}
	return -1
}

// splitOutsideQuotes splits on sep, honouring quoted spans.
func splitOutsideQuotes(s, sep string) []string {
	var parts []string
	for {
		idx := indexOutsideQuotes(s, sep)
		if idx < 0 {
			return append(parts, s)
		}
		parts = append(parts, s[:idx])
		s = s[idx+len(sep):]
	}
}

// unquote strips the surrounding double quotes of a legacy string value.
func unquote(s string) (string, error) {
	s = strings.TrimSpace(s)
	if len(s) < 2 || s[0] != '"' || s[len(s)-1] != '"' {
		return "", errors.New("not a quoted string")
	}
	return s[1 : len(s)-1], nil
}

// sparqlLiteral renders a SPARQL string literal.
func sparqlLiteral(s string) string {
	s = strings.ReplaceAll(s, `\`, `\\`)
	s = strings.ReplaceAll(s, `"`, `\"`)
	return `"` + s + `"`
}
