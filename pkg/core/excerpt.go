package core

import (
	"strings"
	"unicode/utf8"

	jsoniter "github.com/json-iterator/go"
)

const (
	excerptLength   = 150
	excerptEllipsis = "..."

	shortTextField = "shortText"
	slugField      = "slug"
)

// excerpt derives the short text of an article document.
//
// An explicit top-level shortText wins. Otherwise, the text values of the document are joined
// in order, leaving out slugs. Whitespace is collapsed and the result is cut to excerptLength runes.
func excerpt(data []byte) (string, error) {
	iter := jsoniter.ParseBytes(jsoniter.ConfigCompatibleWithStandardLibrary, data)

	var (
		texts     []string
		shortText string
		hasShort  bool
	)
	if iter.WhatIsNext() == jsoniter.ObjectValue {
		iter.ReadObjectCB(func(it *jsoniter.Iterator, field string) bool {
			switch {
			case field == shortTextField && it.WhatIsNext() == jsoniter.StringValue:
				shortText, hasShort = it.ReadString(), true
			case field == slugField:
				it.Skip()
			default:
				texts = collectText(it, texts)
			}
			return it.Error == nil
		})
	} else {
		texts = collectText(iter, texts)
	}
	if iter.Error != nil {
		return "", iter.Error
	}

	if hasShort {
		return truncate(collapse(shortText)), nil
	}
	return truncate(collapse(strings.Join(texts, " "))), nil
}

func collectText(it *jsoniter.Iterator, texts []string) []string {
	switch it.WhatIsNext() {
	case jsoniter.StringValue:
		return append(texts, it.ReadString())
	case jsoniter.ArrayValue:
		for it.ReadArray() {
			texts = collectText(it, texts)
		}
	case jsoniter.ObjectValue:
		it.ReadObjectCB(func(it *jsoniter.Iterator, field string) bool {
			if field == slugField {
				it.Skip()
			} else {
				texts = collectText(it, texts)
			}
			return it.Error == nil
		})
	default:
		it.Skip()
	}
	return texts
}

func collapse(text string) string {
	return strings.Join(strings.Fields(text), " ")
}

func truncate(text string) string {
	if utf8.RuneCountInString(text) <= excerptLength {
		return text
	}
	runes := []rune(text)
	return strings.TrimRight(string(runes[:excerptLength]), " ") + excerptEllipsis
}
