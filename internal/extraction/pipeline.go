package extraction

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/phrazzld/taskmate-api/internal/domain"
	"github.com/phrazzld/taskmate-api/internal/generation"
	"github.com/phrazzld/taskmate-api/internal/platform/logger"
)

// Source tells where the drafts of a Result came from.
type Source string

// Possible result sources
const (
	SourceUpstream Source = "upstream"
	SourceFallback Source = "fallback"
	SourceNone     Source = "none"
)

// Defaults applied by NewPipeline.
const (
	DefaultTimeout        = 10 * time.Second
	DefaultTitleWordLimit = 6
	// MaxTasks bounds how many drafts one message can produce.
	MaxTasks = 10
)

// Result is the outcome of extracting tasks from one message.
type Result struct {
	Drafts []domain.TaskDraft
	Source Source
}

// Config configures a Pipeline. Zero values select the defaults.
type Config struct {
	// Generator is the upstream model. Nil means extraction always falls back.
	Generator      generation.TextGenerator
	Lexicon        *Lexicon
	Timeout        time.Duration
	TitleWordLimit int
	Now            func() time.Time
	Logger         *slog.Logger
}

// Pipeline turns free-text chat messages into task drafts.
// It is safe for concurrent use.
type Pipeline struct {
	generator generation.TextGenerator
	matcher   *matcher
	titles    *titleNormalizer
	timeout   time.Duration
	wordLimit int
	now       func() time.Time
	logger    *slog.Logger
}

// NewPipeline creates a Pipeline from cfg.
func NewPipeline(cfg Config) *Pipeline {
	lex := cfg.Lexicon
	if lex == nil {
		lex = DefaultLexicon()
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	wordLimit := cfg.TitleWordLimit
	if wordLimit <= 0 {
		wordLimit = DefaultTitleWordLimit
	}
	now := cfg.Now
	if now == nil {
		now = time.Now
	}
	log := cfg.Logger
	if log == nil {
		log = slog.Default()
	}

	return &Pipeline{
		generator: cfg.Generator,
		matcher:   newMatcher(lex),
		titles:    newTitleNormalizer(lex.Filler, wordLimit),
		timeout:   timeout,
		wordLimit: wordLimit,
		now:       now,
		logger:    log.With(slog.String("component", "extraction_pipeline")),
	}
}

// Extract returns the task drafts found in message. It never fails: upstream
// errors, timeouts and unusable output degrade to the keyword fallback, and a
// message without any task signal yields an empty result.
func (p *Pipeline) Extract(ctx context.Context, message string) Result {
	log := logger.FromContextOrDefault(ctx, p.logger)
	message = strings.TrimSpace(message)
	if message == "" {
		return Result{Source: SourceNone}
	}

	now := p.now()
	sig := p.matcher.detect(message)

	// Without an indicator or a table match the message is chatter, whatever
	// the model would make of it.
	if !sig.hasIndicator && sig.entry == nil {
		log.Debug("no task signals in message")
		return Result{Source: SourceNone}
	}

	drafts, err := p.extractUpstream(ctx, message, sig, now)
	switch {
	case err != nil:
		log.Warn("upstream extraction failed, using fallback", slog.String("error", err.Error()))
	case len(drafts) > 0:
		log.Debug("extracted tasks upstream", slog.Int("count", len(drafts)))
		return Result{Drafts: drafts, Source: SourceUpstream}
	default:
		log.Debug("upstream returned no tasks despite task signals, using fallback")
	}

	return p.fallback(message, sig, now)
}

// extractUpstream runs the model and normalizes its output. An empty slice
// with a nil error means the model found nothing.
func (p *Pipeline) extractUpstream(ctx context.Context, message string, sig signals, now time.Time) ([]domain.TaskDraft, error) {
	if p.generator == nil {
		return nil, fmt.Errorf("%w: no generator configured", generation.ErrUpstreamUnavailable)
	}

	prompt, err := renderPrompt(message, now, p.wordLimit)
	if err != nil {
		return nil, err
	}

	text, err := p.generate(ctx, prompt)
	if err != nil {
		return nil, err
	}

	raw, err := parseTasks(text)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", generation.ErrInvalidResponse, err)
	}

	drafts := make([]domain.TaskDraft, 0, len(raw))
	for _, r := range raw {
		if len(drafts) == MaxTasks {
			break
		}
		if draft, ok := p.normalize(r, sig, now); ok {
			drafts = append(drafts, draft)
		}
	}
	return drafts, nil
}

// generate calls the generator under the pipeline timeout. The call runs in
// its own goroutine so a generator that ignores ctx cannot hold the request
// past the deadline.
func (p *Pipeline) generate(ctx context.Context, prompt string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, p.timeout)
	defer cancel()

	type reply struct {
		text string
		err  error
	}
	done := make(chan reply, 1)

	go func() {
		text, err := p.generator.Generate(ctx, prompt)
		done <- reply{text: text, err: err}
	}()

	select {
	case r := <-done:
		if r.err != nil {
			return "", fmt.Errorf("%w: %v", generation.ErrUpstreamUnavailable, r.err)
		}
		return r.text, nil
	case <-ctx.Done():
		return "", fmt.Errorf("%w: %v", generation.ErrUpstreamUnavailable, ctx.Err())
	}
}

// normalize converts one model task to a draft. It reports false when the
// title is empty after cleaning.
func (p *Pipeline) normalize(r rawTask, sig signals, now time.Time) (domain.TaskDraft, bool) {
	title := p.titles.normalize(r.Title)
	if title == "" {
		return domain.TaskDraft{}, false
	}

	draft := domain.TaskDraft{
		Title:    title,
		Priority: resolvePriority(r.Priority, sig.urgent),
		Category: strings.TrimSpace(r.Category),
		DueDate:  p.matcher.resolveDeadline(sig.dayOffset, r.Deadline, now),
	}
	if draft.Category == "" {
		draft.Category = domain.DefaultCategory
	}
	if desc := strings.TrimSpace(r.Description); desc != "" {
		draft.Description = &desc
	}
	return draft, true
}

// fallback builds drafts from the lexicon alone.
func (p *Pipeline) fallback(message string, sig signals, now time.Time) Result {
	priority := domain.PriorityMedium
	if sig.urgent {
		priority = domain.PriorityHigh
	}

	offset := 0
	if sig.dayOffset != nil {
		offset = *sig.dayOffset
	}
	due := startOfDay(now, offset)

	switch {
	case sig.entry != nil:
		category := sig.entry.Category
		if category == "" {
			category = domain.DefaultCategory
		}
		return Result{
			Drafts: []domain.TaskDraft{{
				Title:    sig.entry.Title,
				Priority: priority,
				Category: category,
				DueDate:  &due,
			}},
			Source: SourceFallback,
		}
	case sig.hasIndicator && sig.words >= 2:
		return Result{
			Drafts: []domain.TaskDraft{{
				Title:    message,
				Priority: priority,
				Category: domain.DefaultCategory,
				DueDate:  &due,
			}},
			Source: SourceFallback,
		}
	default:
		return Result{Source: SourceNone}
	}
}
