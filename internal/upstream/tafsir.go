package upstream

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/pkg/errors"
)

// tafsirKeys maps the app's language segment to the upstream translation
// key.
var tafsirKeys = map[string]string{
	"en": "english_saheeh",
	"ar": "arabic_moyassar",
}

// Ayah is one normalized tafsir verse.
type Ayah struct {
	Ayah      int    `json:"ayah"`
	Text      string `json:"text"`
	Footnotes string `json:"footnotes,omitempty"`
}

// tafsirResult mirrors the upstream per-verse record.
type tafsirResult struct {
	Aya         string `json:"aya"`
	Translation string `json:"translation"`
	Footnotes   string `json:"footnotes"`
}

// TafsirClient fetches a sura's tafsir and normalizes it to the app's
// {ayah, text, footnotes?} shape so nothing downstream touches the raw
// upstream records.
type TafsirClient struct {
	base string
	http Doer
}

func NewTafsirClient(base string, client Doer) *TafsirClient {
	if client == nil {
		client = http.DefaultClient
	}
	return &TafsirClient{base: base, http: client}
}

// Sura fetches all verses of one sura. lang and sura must already be
// validated by the caller (lang in {ar, en}, 1 <= sura <= 114).
func (c *TafsirClient) Sura(ctx context.Context, lang string, sura int) ([]Ayah, error) {
	url := fmt.Sprintf("%s/translation/sura/%s/%d", c.base, tafsirKeys[lang], sura)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, errors.Wrap(err, "build request")
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return nil, errors.Wrapf(err, "fetch %s", url)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, errors.Wrap(err, "read body")
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &StatusError{StatusCode: resp.StatusCode, Body: body}
	}

	var payload struct {
		Result []tafsirResult `json:"result"`
	}
	if err := json.Unmarshal(body, &payload); err != nil {
		return nil, errors.Wrap(err, "decode tafsir response")
	}

	ayahs := make([]Ayah, 0, len(payload.Result))
	for i, r := range payload.Result {
		n := i + 1
		// Upstream numbers verses as strings; fall back to position.
		if _, err := fmt.Sscanf(r.Aya, "%d", &n); err != nil {
			n = i + 1
		}
		ayahs = append(ayahs, Ayah{Ayah: n, Text: r.Translation, Footnotes: r.Footnotes})
	}
	return ayahs, nil
}
