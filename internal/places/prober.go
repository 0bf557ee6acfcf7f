package places

import (
	"context"
	"errors"
	"fmt"
	"io"
	"math"
	"net/http"
	"time"

	"github.com/tidwall/gjson"

	"github.com/vportales/geoprobe/internal/catalog"
)

// Prober issues a single probe per worker index and converts the result into
// an Outcome. It never returns an error: every failure mode is captured in
// the record itself.
type Prober struct {
	client  *http.Client
	catalog *catalog.Catalog
	target  string
}

func NewProber(client *http.Client, cat *catalog.Catalog, target string) (*Prober, error) {
	if client == nil {
		return nil, errors.New("client cannot be nil")
	}
	if cat == nil {
		return nil, errors.New("catalog cannot be nil")
	}
	if target == "" {
		return nil, errors.New("target URL is required")
	}
	return &Prober{client: client, catalog: cat, target: target}, nil
}

// Probe executes one GET against the target for the given worker index.
func (p *Prober) Probe(ctx context.Context, workerID int) Outcome {
	if ctx == nil {
		ctx = context.Background()
	}

	params := p.catalog.ParamsFor(workerID)
	outcome := Outcome{
		WorkerID:  workerID,
		Query:     params.Query,
		Timestamp: time.Now(),
		APIStatus: StatusUnknown,
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, p.target+"?"+params.Values().Encode(), nil)
	if err != nil {
		outcome.Error = err.Error()
		return outcome
	}

	start := time.Now()
	resp, err := p.client.Do(req)
	if err != nil {
		// Transport failure: status code stays 0, latency stays 0.
		outcome.Error = err.Error()
		return outcome
	}
	defer resp.Body.Close()

	outcome.ResponseTimeMs = roundMs(time.Since(start))
	outcome.StatusCode = resp.StatusCode

	if resp.StatusCode == http.StatusOK {
		body, readErr := io.ReadAll(resp.Body)
		if readErr != nil {
			outcome.Error = readErr.Error()
			return outcome
		}
		return p.classifyBody(outcome, body)
	}

	_, _ = io.Copy(io.Discard, resp.Body)
	switch resp.StatusCode {
	case http.StatusForbidden:
		outcome.Error = ErrMsgForbidden
	case http.StatusTooManyRequests:
		outcome.Error = ErrMsgTooManyRequests
	default:
		outcome.Error = fmt.Sprintf("HTTP %d", resp.StatusCode)
	}
	return outcome
}

// classifyBody maps the upstream status label of a 200 response onto the
// outcome record.
func (p *Prober) classifyBody(outcome Outcome, body []byte) Outcome {
	if !gjson.ValidBytes(body) {
		outcome.Error = ErrMsgInvalidJSON
		return outcome
	}

	status := gjson.GetBytes(body, "status").String()
	if status == "" {
		status = StatusUnknown
	}
	outcome.APIStatus = status

	switch status {
	case StatusOK:
		outcome.Success = true
		outcome.ResultsCount = int(gjson.GetBytes(body, "results.#").Int())
	case StatusRequestDenied, StatusInvalidRequest:
		if msg := gjson.GetBytes(body, "error_message").String(); msg != "" {
			outcome.Error = msg
		} else {
			outcome.Error = ErrMsgRequestDenied
		}
	case StatusOverQueryLimit:
		outcome.Error = ErrMsgRateLimited
	}
	return outcome
}

func roundMs(d time.Duration) float64 {
	ms := float64(d) / float64(time.Millisecond)
	return math.Round(ms*100) / 100
}
