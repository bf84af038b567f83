package model

import jsoniter "github.com/json-iterator/go"

// Article is derived on read from the JSON blob bound to /articles/<slug>/index-json
type Article struct {
	Slug      string              `json:"slug"`
	Data      jsoniter.RawMessage `json:"data"`
	ShortText string              `json:"-"`
}

// ArticleInfo is the short version of an article, as listed
type ArticleInfo struct {
	Slug      string `json:"slug"`
	ShortText string `json:"shortText"`
}
