package upstream

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/pkg/errors"
)

// Envelope is the Aladhan API response shape. Data is kept unparsed so the
// cached payload round-trips byte-identical to what the upstream sent.
type Envelope struct {
	Code   int             `json:"code"`
	Status string          `json:"status"`
	Data   json.RawMessage `json:"data"`
}

// AladhanClient calls the Aladhan calendar/conversion API. These payloads
// are small and the routes carry their own TTL cache, so there is no retry
// here; a single request per miss is enough.
type AladhanClient struct {
	base string
	http Doer
}

func NewAladhanClient(base string, client Doer) *AladhanClient {
	if client == nil {
		client = http.DefaultClient
	}
	return &AladhanClient{base: base, http: client}
}

// Calendar fetches a month of Hijri/Gregorian calendar data.
// typ is "gToH" or "hToG" (validated by the handler before calling).
func (c *AladhanClient) Calendar(ctx context.Context, typ string, month, year int) (*Envelope, error) {
	url := fmt.Sprintf("%s/v1/%sCalendar/%d/%d", c.base, typ, month, year)
	return c.getEnvelope(ctx, url)
}

// Convert converts a single DD-MM-YYYY date between the two calendars.
func (c *AladhanClient) Convert(ctx context.Context, typ, date string) (*Envelope, error) {
	url := fmt.Sprintf("%s/v1/%s/%s", c.base, typ, date)
	return c.getEnvelope(ctx, url)
}

func (c *AladhanClient) getEnvelope(ctx context.Context, url string) (*Envelope, error) {
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

	var env Envelope
	if err := json.Unmarshal(body, &env); err != nil {
		return nil, errors.Wrap(err, "decode aladhan response")
	}
	return &env, nil
}
