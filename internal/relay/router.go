package relay

import (
	"context"
	"encoding/base64"
	"errors"
	"log"
	"strconv"
	"sync"
	"time"

	"github.com/dobhashi/dobhashi/internal/language"
	"github.com/dobhashi/dobhashi/internal/observability"
	"github.com/dobhashi/dobhashi/internal/pipeline"
	"github.com/dobhashi/dobhashi/internal/protocol"
	"github.com/dobhashi/dobhashi/internal/registry"
	"github.com/dobhashi/dobhashi/internal/speech"
	"github.com/dobhashi/dobhashi/internal/upstream"
)

// Sender is the transport boundary for one connection: enqueue an outbound
// message. Send reports false when the queue is saturated or the connection
// is gone; the relay treats both as a drop.
type Sender interface {
	Send(msg any) bool
}

// Pipeline runs one audio message through the three engine stages.
type Pipeline interface {
	Run(ctx context.Context, audio []byte, sourceLang, targetLang string) ([]byte, error)
}

// Router drives the per-connection protocol state machine and dispatches
// pipeline output across connections. A connection moves from Connected
// (language unset) to LanguageSet, may re-select freely, and is Closed when
// its goroutine returns. The registry is the single source of truth for who
// is listening in which language; transports are tracked separately so
// delivery resolves the counterpart at completion time, not at send time.
type Router struct {
	registry *registry.Registry
	pipeline Pipeline
	metrics  *observability.Metrics

	mu    sync.RWMutex
	links map[string]Sender

	inflight sync.WaitGroup
}

func NewRouter(reg *registry.Registry, p Pipeline, metrics *observability.Metrics) *Router {
	return &Router{
		registry: reg,
		pipeline: p,
		metrics:  metrics,
		links:    make(map[string]Sender),
	}
}

// RunConnection owns one connection for its lifetime: registers it, consumes
// decoded inbound messages until the channel closes or ctx is cancelled, and
// tears the registry entry down on exit. Pipelines started here keep running
// after exit; only the counterpart matters for delivery.
func (r *Router) RunConnection(ctx context.Context, connID string, inbound <-chan any, sender Sender) {
	r.registry.Register(connID)
	r.attach(connID, sender)
	r.metrics.ActiveConnections.Set(float64(r.registry.ActiveCount()))
	r.metrics.RelayEvents.WithLabelValues("connected").Inc()

	defer func() {
		r.detach(connID)
		r.registry.Unregister(connID)
		r.metrics.ActiveConnections.Set(float64(r.registry.ActiveCount()))
		r.metrics.RelayEvents.WithLabelValues("disconnected").Inc()
	}()

	for {
		select {
		case <-ctx.Done():
			return
		case msg, ok := <-inbound:
			if !ok {
				return
			}
			switch m := msg.(type) {
			case protocol.LanguageSelect:
				r.handleLanguageSelect(connID, m, sender)
			case protocol.AudioMessage:
				r.handleAudio(ctx, connID, m, sender)
			default:
				sender.Send(protocol.ErrorReply{Error: "unsupported message"})
			}
		}
	}
}

// Wait blocks until all in-flight pipelines have completed. Used on shutdown
// so translations already paid for still get delivered.
func (r *Router) Wait() {
	r.inflight.Wait()
}

func (r *Router) handleLanguageSelect(connID string, msg protocol.LanguageSelect, sender Sender) {
	if err := r.registry.SetLanguage(connID, msg.Language); err != nil {
		r.metrics.RelayEvents.WithLabelValues("language_rejected").Inc()
		sender.Send(protocol.ErrorReply{Error: "Invalid language"})
		return
	}
	r.metrics.RelayEvents.WithLabelValues("language_set").Inc()
	sender.Send(protocol.LanguageSet(msg.Language))
}

func (r *Router) handleAudio(ctx context.Context, connID string, msg protocol.AudioMessage, sender Sender) {
	sourceLang, err := r.registry.Language(connID)
	if err != nil || sourceLang == registry.Unset {
		sender.Send(protocol.ErrorReply{Error: "Set language first"})
		return
	}

	audio, err := base64.StdEncoding.DecodeString(msg.Audio)
	if err != nil {
		sender.Send(protocol.ErrorReply{Error: "invalid audio encoding: " + err.Error()})
		return
	}

	targetLang, ok := language.Counterpart(sourceLang)
	if !ok {
		// Unreachable while the registry only admits supported codes.
		sender.Send(protocol.ErrorReply{Error: "Invalid language"})
		return
	}

	// The pipeline outlives the originating connection: delivery is keyed by
	// the target, looked up fresh once the result is ready.
	pctx := context.WithoutCancel(ctx)
	r.inflight.Add(1)
	go func() {
		defer r.inflight.Done()
		r.runPipeline(pctx, connID, audio, sourceLang, targetLang, sender)
	}()
}

func (r *Router) runPipeline(ctx context.Context, originID string, audio []byte, sourceLang, targetLang string, origin Sender) {
	start := time.Now()
	out, err := r.pipeline.Run(ctx, audio, sourceLang, targetLang)
	if err != nil {
		log.Printf("pipeline failed for %s (%s->%s): %v", originID, sourceLang, targetLang, err)
		r.metrics.EngineErrors.WithLabelValues(stageOf(err), errorCode(err)).Inc()
		// The counterpart never learns a translation was attempted; the
		// failure goes back to the sender.
		origin.Send(protocol.ErrorReply{Error: err.Error()})
		return
	}
	r.metrics.ObservePipelineLatency(time.Since(start))

	targetID, ok := r.registry.FindByLanguage(targetLang)
	if !ok {
		// Nobody is listening in the target language. Dropping silently is
		// deliberate; the counter is the only trace.
		r.metrics.RelayEvents.WithLabelValues("no_counterpart").Inc()
		return
	}
	target, ok := r.link(targetID)
	if !ok {
		r.metrics.RelayEvents.WithLabelValues("no_counterpart").Inc()
		return
	}

	push := protocol.TranslatedAudio{
		Audio:    base64.StdEncoding.EncodeToString(out),
		Language: targetLang,
	}
	if !target.Send(push) {
		r.metrics.RelayEvents.WithLabelValues("delivery_dropped").Inc()
		return
	}
	r.metrics.RelayEvents.WithLabelValues("delivered").Inc()
}

func (r *Router) attach(connID string, sender Sender) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.links[connID] = sender
}

func (r *Router) detach(connID string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.links, connID)
}

func (r *Router) link(connID string) (Sender, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	sender, ok := r.links[connID]
	return sender, ok
}

func stageOf(err error) string {
	var se *pipeline.StageError
	if errors.As(err, &se) {
		return se.Stage
	}
	return "pipeline"
}

func errorCode(err error) string {
	switch {
	case errors.Is(err, speech.ErrAudioTooLong):
		return "audio_too_long"
	case errors.Is(err, speech.ErrAudioInvalid):
		return "audio_invalid"
	}
	var ue *upstream.Error
	if errors.As(err, &ue) {
		if ue.Status == 0 {
			return "upstream_transport"
		}
		return "upstream_" + strconv.Itoa(ue.Status)
	}
	return "error"
}
