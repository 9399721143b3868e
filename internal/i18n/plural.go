package i18n

import "strconv"

// ResultsFooter renders the "N results found" line under the result list.
// Russian needs three plural forms with the 11–19 exception; everything
// else takes the English singular/plural pair.
func (t *Translator) ResultsFooter(count int) string {
	n := strconv.Itoa(count)

	if t.lang == "ru" {
		return n + " " + t.ruForms(count)
	}

	noun := t.T("search.result_plural", nil)
	if count == 1 {
		noun = t.T("search.result_singular", nil)
	}
	return n + " " + noun + " " + t.T("search.found", nil)
}

func (t *Translator) ruForms(count int) string {
	abs := count
	if abs < 0 {
		abs = -abs
	}
	tail := abs % 100
	last := tail % 10

	switch {
	case tail > 10 && tail < 20:
		return t.T("search.results_plural_5", nil) + " " + t.T("search.found_plural", nil)
	case last > 1 && last < 5:
		return t.T("search.results_plural_2_4", nil) + " " + t.T("search.found_plural", nil)
	case last == 1:
		return t.T("search.result_singular", nil) + " " + t.T("search.found_singular", nil)
	default:
		return t.T("search.results_plural_5", nil) + " " + t.T("search.found_plural", nil)
	}
}
