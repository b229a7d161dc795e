package writer

import (
	"context"
	"fmt"

	"golang.org/x/text/cases"

	"github.com/kulturarv/wikibasekit/pkg/errors"
	"github.com/kulturarv/wikibasekit/pkg/wikibase"
)

// AddLabels sets the given language-keyed labels, touching a language only
// if it has no label yet or overwrite is set. All changes go out in a
// single edit; the write is skipped entirely when nothing changed.
func (w *Writer) AddLabels(ctx context.Context, e *wikibase.Entity, labels map[string]string, overwrite bool, summary string) error {
	changed := make(map[string]string)
	for lang, label := range labels {
		existing, ok := e.Labels[lang]
		if ok && !overwrite {
			continue
		}
		if existing == label {
			continue
		}
		changed[lang] = label
	}
	if len(changed) == 0 {
		return nil
	}

	composed := w.compose(fmt.Sprintf("Added [%s] label to [[%s]]", sortedLanguages(changed), e.ID), summary)
	return w.write(ctx, e, composed, func() error {
		if err := w.client.EditLabels(ctx, e.ID, changed, composed); err != nil {
			return errors.NewAPIError("edit labels", string(e.ID), "write failed", err)
		}
		return nil
	})
}

// AddDescriptions is the description analogue of AddLabels.
func (w *Writer) AddDescriptions(ctx context.Context, e *wikibase.Entity, descriptions map[string]string, overwrite bool, summary string) error {
	changed := make(map[string]string)
	for lang, desc := range descriptions {
		existing, ok := e.Descriptions[lang]
		if ok && !overwrite {
			continue
		}
		if existing == desc {
			continue
		}
		changed[lang] = desc
	}
	if len(changed) == 0 {
		return nil
	}

	composed := w.compose(fmt.Sprintf("Added [%s] description to [[%s]]", sortedLanguages(changed), e.ID), summary)
	return w.write(ctx, e, composed, func() error {
		if err := w.client.EditDescriptions(ctx, e.ID, changed, composed); err != nil {
			return errors.NewAPIError("edit descriptions", string(e.ID), "write failed", err)
		}
		return nil
	})
}

// AddLabelOrAlias promotes names per language: the first name becomes the
// label when the language has none, every other name becomes an alias
// unless it already equals the label or an existing alias. Comparison is
// case-folded unless caseSensitive is set. One edit per write kind (labels,
// aliases) aggregates all languages.
func (w *Writer) AddLabelOrAlias(ctx context.Context, e *wikibase.Entity, names map[string][]string, caseSensitive bool, summary string) error {
	newLabels := make(map[string]string)
	newAliases := make(map[string][]string)

	for lang, candidates := range names {
		label, hasLabel := e.Labels[lang]
		aliases := append([]string(nil), e.Aliases[lang]...)
		added := false

		for _, name := range candidates {
			if !hasLabel {
				newLabels[lang] = name
				label, hasLabel = name, true
				continue
			}
			if namesEqual(name, label, caseSensitive) {
				continue
			}
			if containsName(aliases, name, caseSensitive) {
				continue
			}
			aliases = append(aliases, name)
			added = true
		}

		if added {
			newAliases[lang] = aliases
		}
	}

	if len(newLabels) > 0 {
		composed := w.compose(fmt.Sprintf("Added [%s] label to [[%s]]", sortedLanguages(newLabels), e.ID), summary)
		err := w.write(ctx, e, composed, func() error {
			if err := w.client.EditLabels(ctx, e.ID, newLabels, composed); err != nil {
				return errors.NewAPIError("edit labels", string(e.ID), "write failed", err)
			}
			return nil
		})
		if err != nil {
			return err
		}
	}

	if len(newAliases) > 0 {
		composed := w.compose(fmt.Sprintf("Added [%s] alias to [[%s]]", sortedLanguages(newAliases), e.ID), summary)
		err := w.write(ctx, e, composed, func() error {
			if err := w.client.EditAliases(ctx, e.ID, newAliases, composed); err != nil {
				return errors.NewAPIError("edit aliases", string(e.ID), "write failed", err)
			}
			return nil
		})
		if err != nil {
			return err
		}
	}

	return nil
}

// namesEqual compares two names under the case-sensitivity flag.
func namesEqual(a, b string, caseSensitive bool) bool {
	if caseSensitive {
		return a == b
	}
	folder := cases.Fold()
	return folder.String(a) == folder.String(b)
}

// containsName reports whether the list already carries the name.
func containsName(list []string, name string, caseSensitive bool) bool {
	for _, have := range list {
		if namesEqual(have, name, caseSensitive) {
			return true
		}
	}
	return false
}
