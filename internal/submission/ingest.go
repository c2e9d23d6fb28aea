package submission

import (
	"context"
	"errors"
	"fmt"
	"io"
	"mime"
	"mime/multipart"
	"net/http"
	"time"

	"github.com/rs/zerolog"

	"github.com/debemdeboas/typoteka/internal/upload"
)

// DefaultMaxBytes bounds a whole submission, picture included.
const DefaultMaxBytes int64 = 2 << 20

// maxFieldBytes bounds a single text field so one field cannot exhaust the body budget silently.
const maxFieldBytes int64 = 1 << 20

// Ingestor reads multipart submissions and drives one Machine per request.
type Ingestor struct {
	classifier Classifier
	store      upload.Store
	creator    Creator
	maxBytes   int64
	now        func() time.Time

	// OnPicture is called with the size of every stored picture.
	OnPicture func(size int64)
}

func NewIngestor(classifier Classifier, store upload.Store, creator Creator, maxBytes int64) *Ingestor {
	if maxBytes <= 0 {
		maxBytes = DefaultMaxBytes
	}
	return &Ingestor{
		classifier: classifier,
		store:      store,
		creator:    creator,
		maxBytes:   maxBytes,
		now:        time.Now,
	}
}

// SetClock replaces time.Now for the machines this ingestor creates.
func (in *Ingestor) SetClock(now func() time.Time) {
	in.now = now
}

// Ingest consumes the request body and returns the finished machine. The caller
// decides what to answer from its state and outcome.
func (in *Ingestor) Ingest(w http.ResponseWriter, r *http.Request) *Machine {
	ctx := r.Context()
	m := NewMachine(in.classifier, in.creator, WithClock(in.now))

	r.Body = http.MaxBytesReader(w, r.Body, in.maxBytes)
	mr, err := r.MultipartReader()
	if err != nil {
		in.fail(ctx, m, err)
		return m
	}

	var staged []stagedPicture
	defer func() { in.settle(ctx, m, staged) }()

	for {
		part, err := mr.NextPart()
		if errors.Is(err, io.EOF) {
			step(ctx, m, EndEvent{})
			return m
		}
		if err != nil {
			in.fail(ctx, m, err)
			return m
		}

		if !isFilePart(part) {
			value, err := readField(part)
			part.Close()
			if err != nil {
				in.fail(ctx, m, err)
				return m
			}
			step(ctx, m, FieldEvent{Name: part.FormName(), Value: value})
			continue
		}

		// A file input left empty still sends a part, with an empty filename.
		if part.FileName() == "" {
			_, err := io.Copy(io.Discard, part)
			part.Close()
			if err != nil {
				in.fail(ctx, m, err)
				return m
			}
			continue
		}

		step(ctx, m, FileBeginEvent{
			FieldName: part.FormName(),
			Filename:  part.FileName(),
			MediaType: part.Header.Get("Content-Type"),
		})

		d, _ := m.Destination()
		sp, err := in.receiveFile(ctx, d, part)
		part.Close()
		if sp.Staged != nil {
			staged = append(staged, sp)
		}
		if err != nil {
			in.fail(ctx, m, err)
			return m
		}
		step(ctx, m, FileCompleteEvent{Size: sp.size})
	}
}

type stagedPicture struct {
	upload.Staged
	size int64
}

// receiveFile streams an accepted part into the store or drains a rejected one.
// The returned picture has a nil Staged when nothing reached the store.
func (in *Ingestor) receiveFile(ctx context.Context, d upload.Descriptor, part *multipart.Part) (stagedPicture, error) {
	if !d.Accepted {
		n, err := io.Copy(io.Discard, part)
		return stagedPicture{size: n}, err
	}

	w, err := in.store.Create(ctx, d)
	if err != nil {
		_, _ = io.Copy(io.Discard, part)
		return stagedPicture{}, fmt.Errorf("storing picture: %w", err)
	}

	n, err := io.Copy(w, part)
	if cerr := w.Close(); err == nil && cerr != nil {
		err = fmt.Errorf("storing picture: %w", cerr)
	}
	return stagedPicture{Staged: w, size: n}, err
}

// settle moves the picture named by a committed article into place and
// discards every other staged part. It runs after the client may have gone,
// so it ignores request cancellation.
func (in *Ingestor) settle(ctx context.Context, m *Machine, staged []stagedPicture) {
	log := zerolog.Ctx(ctx)
	ctx = context.WithoutCancel(ctx)

	keep := -1
	if out, ok := m.Outcome(); ok && m.State() == Committed {
		for i, sp := range staged {
			if sp.Descriptor().Filename == out.Draft.Picture {
				keep = i
			}
		}
	}

	for i, sp := range staged {
		if i != keep {
			if err := sp.Discard(ctx); err != nil {
				log.Warn().Err(err).Str("filename", sp.Descriptor().Filename).Msg("Failed to discard staged picture")
			}
			continue
		}
		if err := sp.Commit(ctx); err != nil {
			log.Error().Err(err).Str("filename", sp.Descriptor().Filename).Msg("Article created but its picture was not stored")
			_ = sp.Discard(ctx)
			continue
		}
		if in.OnPicture != nil {
			in.OnPicture(sp.size)
		}
	}
}

// step feeds one event to the machine. The driver never sends events after a
// terminal state, so an error here means its control flow is broken.
func step(ctx context.Context, m *Machine, ev Event) {
	if err := m.Step(ctx, ev); err != nil {
		zerolog.Ctx(ctx).Debug().Err(err).Stringer("event", ev).Stringer("state", m.State()).Msg("Event not applied")
	}
}

// fail turns a read error into an abort when the client went away, and into a
// parse error otherwise.
func (in *Ingestor) fail(ctx context.Context, m *Machine, err error) {
	if ctx.Err() != nil {
		step(ctx, m, AbortEvent{})
		return
	}

	var tooLarge *http.MaxBytesError
	if errors.As(err, &tooLarge) {
		err = fmt.Errorf("submission exceeds %d bytes", tooLarge.Limit)
	}
	step(ctx, m, ParseErrorEvent{Err: err})
}

func isFilePart(p *multipart.Part) bool {
	_, params, err := mime.ParseMediaType(p.Header.Get("Content-Disposition"))
	if err != nil {
		return false
	}
	_, ok := params["filename"]
	return ok
}

func readField(p *multipart.Part) (string, error) {
	b, err := io.ReadAll(io.LimitReader(p, maxFieldBytes+1))
	if err != nil {
		return "", err
	}
	if int64(len(b)) > maxFieldBytes {
		return "", fmt.Errorf("field %q exceeds %d bytes", p.FormName(), maxFieldBytes)
	}
	return string(b), nil
}
