package notion

import (
	"time"

	"github.com/jomei/notionapi"
)

// PageTitle returns the text of the page's title property
func PageTitle(page *notionapi.Page) string {
	for _, prop := range page.Properties {
		if rich, ok := TitleOf(prop); ok {
			return PlainText(rich)
		}
	}
	return ""
}

// TitleOf returns the rich text of a title property
func TitleOf(prop notionapi.Property) ([]notionapi.RichText, bool) {
	switch v := prop.(type) {
	case *notionapi.TitleProperty:
		return v.Title, true
	case notionapi.TitleProperty:
		return v.Title, true
	}
	return nil, false
}

// RichTextOf returns the rich text of a rich_text property
func RichTextOf(prop notionapi.Property) ([]notionapi.RichText, bool) {
	switch v := prop.(type) {
	case *notionapi.RichTextProperty:
		return v.RichText, true
	case notionapi.RichTextProperty:
		return v.RichText, true
	}
	return nil, false
}

// URLOf returns the value of a url property
func URLOf(prop notionapi.Property) (string, bool) {
	switch v := prop.(type) {
	case *notionapi.URLProperty:
		return v.URL, true
	case notionapi.URLProperty:
		return v.URL, true
	}
	return "", false
}

// DateOf returns the start of a date property
func DateOf(prop notionapi.Property) (time.Time, bool) {
	var date *notionapi.DateObject
	switch v := prop.(type) {
	case *notionapi.DateProperty:
		date = v.Date
	case notionapi.DateProperty:
		date = v.Date
	default:
		return time.Time{}, false
	}
	if date == nil || date.Start == nil {
		return time.Time{}, false
	}
	return time.Time(*date.Start), true
}
