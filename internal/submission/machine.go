package submission

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/debemdeboas/typoteka/internal/config"
	"github.com/debemdeboas/typoteka/internal/model"
	"github.com/debemdeboas/typoteka/internal/upload"
)

type State int

const (
	Receiving State = iota
	Finalizing
	Committed
	Rejected
	AbortedByClient
)

func (s State) String() string {
	switch s {
	case Receiving:
		return "receiving"
	case Finalizing:
		return "finalizing"
	case Committed:
		return "committed"
	case Rejected:
		return "rejected"
	case AbortedByClient:
		return "aborted"
	default:
		return fmt.Sprintf("state(%d)", int(s))
	}
}

func (s State) Terminal() bool {
	return s == Committed || s == Rejected || s == AbortedByClient
}

type OutcomeKind int

const (
	Created OutcomeKind = iota + 1
	ValidationError
)

func (k OutcomeKind) String() string {
	switch k {
	case Created:
		return "created"
	case ValidationError:
		return "validation_error"
	default:
		return "unknown"
	}
}

// Outcome is the single result of a submission that was not aborted.
type Outcome struct {
	Kind      OutcomeKind
	ArticleID model.ArticleID
	// Reason is safe to show to the author.
	Reason string
	Err    error
	Draft  Draft
}

// Classifier decides where an uploaded file goes, if anywhere.
type Classifier interface {
	Classify(mediaType, filename string) upload.Descriptor
}

// Creator persists finished articles. repository.Gateway satisfies it.
type Creator interface {
	CreateArticle(ctx context.Context, a *model.Article) (model.ArticleID, error)
}

// Machine holds the state of one submission. It is not safe for concurrent use;
// the parser feeding it is sequential.
type Machine struct {
	classifier Classifier
	creator    Creator
	now        func() time.Time

	state    State
	draft    Draft
	rejected bool
	current  *upload.Descriptor
	outcome  *Outcome
}

type Option func(*Machine)

// WithClock replaces time.Now as the source of the default publication date.
func WithClock(now func() time.Time) Option {
	return func(m *Machine) { m.now = now }
}

func NewMachine(classifier Classifier, creator Creator, opts ...Option) *Machine {
	m := &Machine{
		classifier: classifier,
		creator:    creator,
		now:        time.Now,
		state:      Receiving,
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

func (m *Machine) State() State { return m.state }

// Draft returns a copy of the draft as accumulated so far.
func (m *Machine) Draft() Draft { return m.draft }

// Outcome is available once the machine reached Committed or Rejected.
func (m *Machine) Outcome() (Outcome, bool) {
	if m.outcome == nil {
		return Outcome{}, false
	}
	return *m.outcome, true
}

// Destination describes the file part currently being received, if any.
func (m *Machine) Destination() (upload.Descriptor, bool) {
	if m.current == nil {
		return upload.Descriptor{}, false
	}
	return *m.current, true
}

// Step applies one event. It is the only way the machine changes.
func (m *Machine) Step(ctx context.Context, ev Event) error {
	if m.state.Terminal() {
		return fmt.Errorf("%w: %s in state %s", ErrTerminal, ev, m.state)
	}

	l := zerolog.Ctx(ctx)

	switch e := ev.(type) {
	case FieldEvent:
		m.draft.Accept(e.Name, e.Value)

	case FileBeginEvent:
		d := m.classifier.Classify(e.MediaType, e.Filename)
		m.current = &d
		if !d.Accepted {
			m.rejected = true
			l.Warn().Str("filename", e.Filename).Str("media_type", e.MediaType).Msg("Rejected uploaded file")
		}

	case FileCompleteEvent:
		if m.current != nil && m.current.Accepted {
			m.draft.Picture = m.current.Filename
		}
		m.current = nil

	case AbortEvent:
		m.current = nil
		m.state = AbortedByClient
		l.Error().Err(ErrClientAbort).Str("title", m.draft.Title).Msg("Submission aborted")

	case ParseErrorEvent:
		m.current = nil
		m.state = Finalizing
		err := ErrFormParse
		if e.Err != nil {
			err = fmt.Errorf("%w: %w", ErrFormParse, e.Err)
		}
		// The date still gets normalized so the form can be shown again.
		_ = m.draft.Finalize(m.now())
		m.reject(ctx, config.ErrFormNotParsed, err)

	case EndEvent:
		m.current = nil
		m.state = Finalizing
		m.finalize(ctx)

	default:
		return fmt.Errorf("unknown event %T", ev)
	}
	return nil
}

func (m *Machine) finalize(ctx context.Context) {
	if err := m.draft.Finalize(m.now()); err != nil {
		m.reject(ctx, config.ErrDateNotParsed, err)
		return
	}

	if m.rejected {
		m.reject(ctx, config.ErrUnsupportedFileExtension, ErrUnsupportedFileType)
		return
	}

	article, err := m.draft.Article()
	if err != nil {
		m.reject(ctx, config.ErrArticleNotCreated, fmt.Errorf("%w: %w", ErrGatewayCreate, err))
		return
	}

	id, err := m.creator.CreateArticle(ctx, article)
	if err == nil && id == "" {
		err = errors.New("empty article id")
	}
	if err != nil {
		m.reject(ctx, config.ErrArticleNotCreated, fmt.Errorf("%w: %w", ErrGatewayCreate, err))
		return
	}

	m.state = Committed
	m.outcome = &Outcome{Kind: Created, ArticleID: id, Draft: m.draft}
	zerolog.Ctx(ctx).Info().Str("article_id", string(id)).Msg("Article created")
}

func (m *Machine) reject(ctx context.Context, reason string, err error) {
	m.draft.Picture = ""
	m.state = Rejected
	m.outcome = &Outcome{Kind: ValidationError, Reason: reason, Err: err, Draft: m.draft}
	zerolog.Ctx(ctx).Warn().Err(err).Str("reason", reason).Msg("Submission rejected")
}
