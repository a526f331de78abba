package bot

import (
	"context"
	"math/rand"
	"time"

	"github.com/AgungCahyo/chatBot-WA/internal/cache"
	"github.com/AgungCahyo/chatBot-WA/internal/observability/metrics"
	"github.com/AgungCahyo/chatBot-WA/internal/whatsapp"
	"github.com/AgungCahyo/chatBot-WA/pkg/logging"
)

// Messenger is the outbound surface of the WhatsApp client the responder
// needs. *whatsapp.Client satisfies it.
type Messenger interface {
	SendText(ctx context.Context, to, body string) error
	SendReaction(ctx context.Context, to, messageID, emoji string) error
	MarkRead(ctx context.Context, messageID string) error
	SendTyping(ctx context.Context, messageID string) error
}

// Notifier forwards consultation requests to the operator.
type Notifier interface {
	ConsultationRequest(ctx context.Context, msg whatsapp.InboundMessage) error
}

// Responder drives the reply flow for one inbound delivery. The webhook
// handler has already acknowledged the HTTP request by the time Process
// runs, so nothing here affects the webhook response.
type Responder struct {
	cache      *cache.MessageCache
	limiter    *cache.SenderLimiter
	classifier *Classifier
	errors     ErrorTemplates
	messenger  Messenger
	notifier   Notifier
	metrics    *metrics.BotMetrics
	logger     *logging.Logger

	delayMin time.Duration
	delayMax time.Duration

	// Injectable for tests.
	sleep func(time.Duration)
	now   func() time.Time
}

// ResponderConfig wires the responder's collaborators.
type ResponderConfig struct {
	Cache      *cache.MessageCache
	Limiter    *cache.SenderLimiter
	Classifier *Classifier
	Errors     ErrorTemplates
	Messenger  Messenger
	Notifier   Notifier
	Metrics    *metrics.BotMetrics
	Logger     *logging.Logger
	DelayMin   time.Duration
	DelayMax   time.Duration
}

// NewResponder creates a responder.
func NewResponder(cfg ResponderConfig) *Responder {
	if cfg.Cache == nil {
		panic("bot: cache cannot be nil")
	}
	if cfg.Limiter == nil {
		panic("bot: limiter cannot be nil")
	}
	if cfg.Classifier == nil {
		panic("bot: classifier cannot be nil")
	}
	if cfg.Messenger == nil {
		panic("bot: messenger cannot be nil")
	}
	logger := cfg.Logger
	if logger == nil {
		logger = logging.Default()
	}
	if cfg.DelayMax < cfg.DelayMin {
		cfg.DelayMax = cfg.DelayMin
	}
	return &Responder{
		cache:      cfg.Cache,
		limiter:    cfg.Limiter,
		classifier: cfg.Classifier,
		errors:     cfg.Errors,
		messenger:  cfg.Messenger,
		notifier:   cfg.Notifier,
		metrics:    cfg.Metrics,
		logger:     logger.Component("responder"),
		delayMin:   cfg.DelayMin,
		delayMax:   cfg.DelayMax,
		sleep:      time.Sleep,
		now:        time.Now,
	}
}

// step is one stage of the reply pipeline. A critical step's failure aborts
// the pipeline into the generic-error fallback; a best-effort failure is
// logged and the pipeline continues.
type step struct {
	name     string
	critical bool
	run      func(ctx context.Context) error
}

// Process handles a single inbound delivery end to end.
func (r *Responder) Process(ctx context.Context, msg whatsapp.InboundMessage) {
	if msg.ID == "" || msg.From == "" {
		r.metrics.ObserveInbound(metrics.OutcomeIgnored)
		return
	}

	// Check-and-mark is one atomic cache operation so concurrent
	// redeliveries of the same id cannot both pass.
	if !r.cache.CheckAndMark(msg.ID) {
		r.logger.Debug("duplicate delivery dropped", "message_id", msg.ID)
		r.metrics.ObserveInbound(metrics.OutcomeDuplicate)
		return
	}
	r.cache.MaybeCompact()
	r.metrics.SetCacheSize(r.cache.Size())

	// A rate-limited message stays marked as processed: redelivery would
	// look like a duplicate anyway, so the whole reply chain is dropped.
	if r.limiter.IsLimited(msg.From, r.now()) {
		r.logger.Info("sender rate limited", "from", msg.From, "message_id", msg.ID)
		r.metrics.ObserveInbound(metrics.OutcomeRateLimited)
		return
	}

	if msg.Type != "text" {
		r.logger.Info("unsupported message type", "type", msg.Type, "from", msg.From)
		r.metrics.ObserveInbound(metrics.OutcomeUnsupported)
		if err := r.sendText(ctx, msg.From, r.errors.UnsupportedType); err != nil {
			r.logger.Error("failed to send unsupported-type reply", "error", err, "to", msg.From)
			r.sendFallback(ctx, msg.From)
		}
		return
	}

	reply := r.classifier.Classify(msg.Text)
	r.logger.Info("message classified",
		"message_id", msg.ID,
		"from", msg.From,
		"intent", reply.Intent,
	)

	start := r.now()
	var steps []step
	if reply.Intent == IntentConsultation {
		steps = r.consultationSteps(msg, reply)
	} else {
		steps = r.standardSteps(msg, reply)
	}
	ok := r.runPipeline(ctx, msg.From, steps)
	r.metrics.ObserveReplyLatency(r.now().Sub(start).Seconds())
	if ok {
		r.metrics.ObserveInbound(metrics.OutcomeReplied)
	} else {
		r.metrics.ObserveInbound(metrics.OutcomeError)
	}
}

// consultationSteps notify a human operator in addition to replying.
// Everything after the typing indicator is treated as critical: the original
// flow wrapped the whole branch in one error handler.
func (r *Responder) consultationSteps(msg whatsapp.InboundMessage, reply Reply) []step {
	return []step{
		{name: "typing", critical: false, run: func(ctx context.Context) error {
			return r.sendTyping(ctx, msg.ID)
		}},
		{name: "delay", critical: false, run: func(ctx context.Context) error {
			r.waitReplyDelay()
			return nil
		}},
		{name: "reply", critical: true, run: func(ctx context.Context) error {
			return r.sendText(ctx, msg.From, reply.Body)
		}},
		{name: "notify_operator", critical: true, run: func(ctx context.Context) error {
			return r.notifyOperator(ctx, msg)
		}},
		{name: "reaction", critical: true, run: func(ctx context.Context) error {
			return r.sendReaction(ctx, msg.From, msg.ID, reply.Reaction)
		}},
	}
}

func (r *Responder) standardSteps(msg whatsapp.InboundMessage, reply Reply) []step {
	return []step{
		{name: "reaction", critical: false, run: func(ctx context.Context) error {
			return r.sendReaction(ctx, msg.From, msg.ID, reply.Reaction)
		}},
		{name: "typing", critical: false, run: func(ctx context.Context) error {
			return r.sendTyping(ctx, msg.ID)
		}},
		{name: "delay", critical: false, run: func(ctx context.Context) error {
			r.waitReplyDelay()
			return nil
		}},
		{name: "reply", critical: true, run: func(ctx context.Context) error {
			return r.sendText(ctx, msg.From, reply.Body)
		}},
		{name: "mark_read", critical: false, run: func(ctx context.Context) error {
			return r.markRead(ctx, msg.ID)
		}},
	}
}

func (r *Responder) runPipeline(ctx context.Context, to string, steps []step) bool {
	for _, s := range steps {
		err := s.run(ctx)
		if err == nil {
			continue
		}
		if s.critical {
			r.logger.Error("reply step failed", "step", s.name, "error", err, "to", to)
			r.sendFallback(ctx, to)
			return false
		}
		r.logger.Warn("best-effort step failed", "step", s.name, "error", err, "to", to)
	}
	return true
}

// sendFallback makes the single fallback attempt to tell the sender
// something went wrong. Its own failure is logged and nothing more.
func (r *Responder) sendFallback(ctx context.Context, to string) {
	if err := r.sendText(ctx, to, r.errors.General); err != nil {
		r.logger.Error("fallback error reply failed", "error", err, "to", to)
	}
}

func (r *Responder) waitReplyDelay() {
	delay := r.delayMin
	if spread := r.delayMax - r.delayMin; spread > 0 {
		delay += time.Duration(rand.Int63n(int64(spread) + 1))
	}
	if delay > 0 {
		r.sleep(delay)
	}
}

func (r *Responder) notifyOperator(ctx context.Context, msg whatsapp.InboundMessage) error {
	if r.notifier == nil {
		return nil
	}
	err := r.notifier.ConsultationRequest(ctx, msg)
	r.metrics.ObserveOutbound("notify", err)
	return err
}

func (r *Responder) sendText(ctx context.Context, to, body string) error {
	err := r.messenger.SendText(ctx, to, body)
	r.metrics.ObserveOutbound("text", err)
	return err
}

func (r *Responder) sendReaction(ctx context.Context, to, messageID, emoji string) error {
	if emoji == "" {
		return nil
	}
	err := r.messenger.SendReaction(ctx, to, messageID, emoji)
	r.metrics.ObserveOutbound("reaction", err)
	return err
}

func (r *Responder) sendTyping(ctx context.Context, messageID string) error {
	err := r.messenger.SendTyping(ctx, messageID)
	r.metrics.ObserveOutbound("typing", err)
	return err
}

func (r *Responder) markRead(ctx context.Context, messageID string) error {
	err := r.messenger.MarkRead(ctx, messageID)
	r.metrics.ObserveOutbound("read", err)
	return err
}

// CacheSize exposes the dedup cache size for the status endpoint.
func (r *Responder) CacheSize() int {
	return r.cache.Size()
}
