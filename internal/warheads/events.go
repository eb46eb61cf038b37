package warheads

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
)

// EventSet maps a year to the historical event shown when the animation
// reaches it. Descriptions use "\n" for line breaks.
type EventSet map[int]string

// DefaultEvents returns the events annotated in the reference chart.
func DefaultEvents() EventSet {
	return EventSet{
		1945: "USA zrzuca\nbomby atomowe na\nHiroszimę i Nagasaki.",
		1947: "Początek zimnej wojny",
		1949: "ZSRR testuje pierwszą\nbombę atomową\n'Pierwszy Błysk'.",
		1952: "Wielka Brytania przeprowadza pierwszy\ntest nuklearny na Wyspach Montebello.",
		1960: "Francja eksploduje swoją\npierwszą bombę atomową na Saharze.",
		1962: "Kryzys kubański,\nnapięty konflikt między USA a ZSRR.",
		1964: "Chiny testują swoją pierwszą\nbombę atomową 'Projekt 596'.",
		1968: "Otwarcie do podpisu Traktatu\no nierozprzestrzenianiu broni jądrowej (NPT).",
		1974: "Indie przeprowadzają test nuklearny\n'Uśmiechnięty Budda' w Pokhran.",
		1986: "Izrael prawdopodobnie posiada nawet do 200 głowic nuklearnych,\nwedług informacji Mordechaja Vanunu.",
		1991: "Koniec zimnej wojny",
		2006: "Korea Północna zaczyna testować broń nuklearną.",
	}
}

// ParseEvents converts config-file events keyed by year strings. HTML line
// breaks ("<br>") are accepted and normalised to "\n".
func ParseEvents(raw map[string]string) (EventSet, error) {
	events := make(EventSet, len(raw))
	for key, text := range raw {
		year, err := strconv.Atoi(strings.TrimSpace(key))
		if err != nil {
			return nil, fmt.Errorf("event key %q is not a year: %w", key, err)
		}
		text = strings.ReplaceAll(text, "<br>", "\n")
		text = strings.ReplaceAll(text, "<br/>", "\n")
		events[year] = strings.TrimSpace(text)
	}
	return events, nil
}

// Has reports whether year carries an event.
func (e EventSet) Has(year int) bool {
	_, ok := e[year]
	return ok
}

// Years returns the event years in ascending order.
func (e EventSet) Years() []int {
	years := make([]int, 0, len(e))
	for y := range e {
		years = append(years, y)
	}
	sort.Ints(years)
	return years
}
