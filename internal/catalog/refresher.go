package catalog

import (
	"context"
	"fmt"
	"io"
	"time"

	openai "github.com/sashabaranov/go-openai"

	"github.com/parleyhq/parley/internal/infra/eventbus"
	"github.com/parleyhq/parley/internal/infra/llm"
)

// RefreshEvent is published on eventbus.TopicModelsRefreshed after each
// successful upstream check.
type RefreshEvent struct {
	CheckedAt         time.Time
	UpstreamAvailable int
}

// modelLister is the slice of the OpenAI client the refresher needs.
type modelLister interface {
	ListModels(ctx context.Context) (openai.ModelsList, error)
}

// CredentialSource resolves provider keys; only the OpenAI key matters here.
type CredentialSource interface {
	Resolve(ctx context.Context) (llm.Credentials, error)
}

// Refresher periodically confirms the upstream model listing and announces
// each successful check on the bus. Failures are logged and skipped; the
// served catalog never depends on the upstream being reachable.
type Refresher struct {
	creds    CredentialSource
	bus      eventbus.EventBus
	interval time.Duration
	out      io.Writer

	// newClient is swapped in tests.
	newClient func(apiKey string) modelLister
}

// NewRefresher builds a refresher polling at interval.
func NewRefresher(creds CredentialSource, bus eventbus.EventBus, interval time.Duration, out io.Writer) *Refresher {
	return &Refresher{
		creds:    creds,
		bus:      bus,
		interval: interval,
		out:      out,
		newClient: func(apiKey string) modelLister {
			return openai.NewClient(apiKey)
		},
	}
}

// Run polls until ctx is cancelled. The first check happens immediately.
func (r *Refresher) Run(ctx context.Context) {
	ticker := time.NewTicker(r.interval)
	defer ticker.Stop()

	r.checkOnce(ctx)
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			r.checkOnce(ctx)
		}
	}
}

func (r *Refresher) checkOnce(ctx context.Context) {
	creds, err := r.creds.Resolve(ctx)
	if err != nil {
		fmt.Fprintf(r.out, "catalog refresh: resolve credentials: %v\n", err)
		return
	}
	if creds.OpenAI == "" {
		// No key configured yet; nothing to check.
		return
	}

	list, err := r.newClient(creds.OpenAI).ListModels(ctx)
	if err != nil {
		fmt.Fprintf(r.out, "catalog refresh: list models: %v\n", err)
		return
	}

	r.bus.Publish(eventbus.TopicModelsRefreshed, RefreshEvent{
		CheckedAt:         time.Now().UTC(),
		UpstreamAvailable: len(list.Models),
	})
}

// SettingsSink records refresh bookkeeping.
type SettingsSink interface {
	Set(ctx context.Context, key, value string) error
}

// RecordRefreshes consumes refresh events and stamps the
// models_refreshed_at setting. It returns when ctx is cancelled.
func RecordRefreshes(ctx context.Context, bus eventbus.EventBus, sink SettingsSink, key string, out io.Writer) {
	ch := bus.Subscribe(eventbus.TopicModelsRefreshed)
	for {
		select {
		case <-ctx.Done():
			return
		case evt := <-ch:
			refresh, ok := evt.Payload.(RefreshEvent)
			if !ok {
				continue
			}
			if err := sink.Set(ctx, key, refresh.CheckedAt.Format(time.RFC3339)); err != nil {
				fmt.Fprintf(out, "catalog refresh: record timestamp: %v\n", err)
			}
		}
	}
}
