// Package format converts the small Markdown subset used in bot replies into
// Telegram message entities, so messages never fail on unescaped characters.
package format

import (
	"regexp"
	"sort"
	"strings"
	"unicode/utf8"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

type ParseResult struct {
	Text     string
	Entities []tgbotapi.MessageEntity
}

var (
	headerRe = regexp.MustCompile(`(?m)^#{1,6}\s+(.+?)$`)
	boldRe   = regexp.MustCompile(`\*\*(.+?)\*\*`)
	codeRe   = regexp.MustCompile("`([^`]+?)`")
)

// Escaped marker characters are parked on private-use runes, which ParseMarkdown
// never matches, and put back once entities are built. Both forms are one
// UTF-16 unit wide, so offsets are unaffected.
var (
	escaper   = strings.NewReplacer("*", "\uE000", "`", "\uE001", "#", "\uE002")
	unescaper = strings.NewReplacer("\uE000", "*", "\uE001", "`", "\uE002", "#")
)

// Escape marks user text as literal so ParseMarkdown keeps its markers.
func Escape(text string) string {
	return escaper.Replace(text)
}

// UTF16Len counts UTF-16 code units, the unit Telegram uses for entity
// offsets.
func UTF16Len(s string) int {
	n := 0
	for _, r := range s {
		if r >= 0x10000 {
			n += 2
		} else {
			n++
		}
	}
	return n
}

// ParseMarkdown strips **bold**, `code` and "# header" markers and returns
// the plain text with matching entities. Headers become bold.
func ParseMarkdown(text string) ParseResult {
	result := headerRe.ReplaceAllString(text, "**$1**")

	var entities []tgbotapi.MessageEntity
	for _, m := range []struct {
		re   *regexp.Regexp
		kind string
	}{
		{boldRe, "bold"},
		{codeRe, "code"},
	} {
		result, entities = extract(result, m.re, m.kind, entities)
	}

	sort.SliceStable(entities, func(i, j int) bool {
		return entities[i].Offset < entities[j].Offset
	})

	return ParseResult{
		Text:     unescaper.Replace(strings.TrimRight(result, " \n")),
		Entities: entities,
	}
}

// extract removes one kind of marker at a time, recording an entity for the
// inner text. Earlier entities are shifted as markers before them vanish.
func extract(text string, re *regexp.Regexp, kind string, entities []tgbotapi.MessageEntity) (string, []tgbotapi.MessageEntity) {
	for {
		loc := re.FindStringSubmatchIndex(text)
		if loc == nil {
			return text, entities
		}

		inner := text[loc[2]:loc[3]]
		offset := UTF16Len(text[:loc[0]])
		openLen := UTF16Len(text[loc[0]:loc[2]])
		closeLen := UTF16Len(text[loc[3]:loc[1]])
		innerLen := UTF16Len(inner)

		for i := range entities {
			switch {
			case entities[i].Offset >= offset+openLen+innerLen:
				entities[i].Offset -= openLen + closeLen
			case entities[i].Offset > offset:
				entities[i].Offset -= openLen
			}
		}

		entities = append(entities, tgbotapi.MessageEntity{
			Type:   kind,
			Offset: offset,
			Length: innerLen,
		})
		text = text[:loc[0]] + inner + text[loc[1]:]
	}
}

// Truncate cuts s to at most n runes, adding "…" when something was removed.
func Truncate(s string, n int) string {
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	runes := []rune(s)
	return string(runes[:n-1]) + "…"
}
