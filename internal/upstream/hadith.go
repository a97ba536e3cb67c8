package upstream

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/pkg/errors"
	"golang.org/x/sync/singleflight"
)

// Editions is the fixed set of hadith collections the app serves.
var Editions = map[string]bool{
	"abudawud": true,
	"bukhari":  true,
	"dehlawi":  true,
	"ibnmajah": true,
	"malik":    true,
	"muslim":   true,
	"nasai":    true,
	"nawawi":   true,
	"qudsi":    true,
	"tirmidhi": true,
}

// langCodes maps the short language path segment to the CDN's edition
// prefix.
var langCodes = map[string]string{
	"ar": "ara",
	"en": "eng",
}

// ValidLang reports whether lang is a supported language segment.
func ValidLang(lang string) bool {
	_, ok := langCodes[lang]
	return ok
}

// EditionDoc is a full hadith edition. Metadata and the hadith list are
// carried unparsed; the app serves them as-is and the reader renders them.
type EditionDoc struct {
	Metadata json.RawMessage `json:"metadata"`
	Hadiths  json.RawMessage `json:"hadiths"`
}

// HadithClient downloads hadith editions and the CDN info document.
// Editions are multi-megabyte and change rarely, so downloads go through
// the retry fetcher and are collapsed with singleflight: concurrent
// requests for the same (lang, edition) share one upstream call.
type HadithClient struct {
	base  string
	http  Doer
	retry RetryPolicy
	group singleflight.Group
}

func NewHadithClient(base string, client Doer, retry RetryPolicy) *HadithClient {
	if client == nil {
		client = http.DefaultClient
	}
	return &HadithClient{base: base, http: client, retry: retry}
}

// Edition fetches one collection in one language. lang and edition must
// already be validated by the caller.
func (c *HadithClient) Edition(ctx context.Context, lang, edition string) (*EditionDoc, error) {
	key := lang + ":" + edition
	v, err, _ := c.group.Do(key, func() (any, error) {
		url := fmt.Sprintf("%s/editions/%s-%s.json", c.base, langCodes[lang], edition)
		// The download is shared across collapsed callers, so it must not
		// die with the first caller's request. The per-attempt timeout in
		// the retry policy still bounds it.
		body, err := FetchWithRetry(context.WithoutCancel(ctx), c.http, url, c.retry)
		if err != nil {
			return nil, err
		}
		var doc EditionDoc
		if err := json.Unmarshal(body, &doc); err != nil {
			return nil, errors.Wrap(err, "decode hadith edition")
		}
		return &doc, nil
	})
	if err != nil {
		return nil, err
	}
	return v.(*EditionDoc), nil
}

// Info fetches the CDN's free-form info document describing available
// editions and sections.
func (c *HadithClient) Info(ctx context.Context) (json.RawMessage, error) {
	v, err, _ := c.group.Do("info", func() (any, error) {
		body, err := FetchWithRetry(context.WithoutCancel(ctx), c.http, c.base+"/info.json", c.retry)
		if err != nil {
			return nil, err
		}
		if !json.Valid(body) {
			return nil, errors.New("upstream info document is not valid JSON")
		}
		return json.RawMessage(body), nil
	})
	if err != nil {
		return nil, err
	}
	return v.(json.RawMessage), nil
}
