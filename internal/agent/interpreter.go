package agent

import (
	"regexp"
	"strconv"
	"strings"
	"unicode"

	"go-paper-ledger/internal/service"
)

var (
	thousandsSep = regexp.MustCompile(`(\d),(\d{3})`)
	clauseSep    = regexp.MustCompile(`(?i)\s+-\s+|\s*[;\n•]\s*|,\s*|\.\s+|\s+and\s+|:\s+`)
	quantityLine = regexp.MustCompile(`(?i)^(?:.*?\b)?(\d+)\s+(?:(?:sheets|reams|units|packs|packets|rolls|boxes|pieces|pads|sets|cases|count)\s+of\s+)?([a-z0-9].*)$`)
	phraseStop   = regexp.MustCompile(`(?i)\s+(?:for|to|by|in|on|at|with|so|that|which|as|please|from)\s+.*$|\s*\(.*$`)
)

// Quantities attached to these nouns describe the event, not the order.
var nonProductNouns = map[string]bool{
	"guest": true, "guests": true, "people": true, "attendee": true, "attendees": true,
	"participant": true, "participants": true, "day": true, "days": true, "week": true,
	"weeks": true, "year": true, "years": true, "student": true, "students": true,
	"employee": true, "employees": true, "percent": true, "am": true, "pm": true,
}

// KeywordInterpreter pulls "<quantity> [unit of] <item>" phrases out of free
// text. It does no language understanding beyond that pattern.
type KeywordInterpreter struct{}

func NewKeywordInterpreter() *KeywordInterpreter {
	return &KeywordInterpreter{}
}

func (KeywordInterpreter) Interpret(text string) []service.ItemRequest {
	text = thousandsSep.ReplaceAllString(text, "${1}${2}")

	var items []service.ItemRequest
	for _, clause := range clauseSep.Split(text, -1) {
		item, ok := parseClause(strings.TrimSpace(clause))
		if ok {
			items = append(items, item)
		}
	}
	return items
}

func parseClause(clause string) (service.ItemRequest, bool) {
	m := quantityLine.FindStringSubmatch(clause)
	if m == nil {
		return service.ItemRequest{}, false
	}
	quantity, err := strconv.Atoi(m[1])
	if err != nil || quantity <= 0 {
		return service.ItemRequest{}, false
	}

	phrase := phraseStop.ReplaceAllString(m[2], "")
	phrase = strings.Trim(phrase, " .!?\"'")
	if !strings.ContainsFunc(phrase, unicode.IsLetter) {
		return service.ItemRequest{}, false
	}
	if first := strings.ToLower(strings.Fields(phrase)[0]); nonProductNouns[first] {
		return service.ItemRequest{}, false
	}
	return service.ItemRequest{Description: phrase, Quantity: quantity}, true
}
