// Package wikibase defines the entity model of the knowledge graph and the
// client interface the write layer talks to: entities with language-keyed
// labels, descriptions and aliases, claims with qualifiers and reference
// blocks, and a tagged value union covering entity references, strings,
// monolingual text, quantities and time points.
//
// Identifiers are canonicalised strings ("Q123" for entities, "P123" for
// properties). Value equality dispatches per variant: time points compare at
// the coarser of their precisions and entity references are compared after
// redirect bypass.
package wikibase
