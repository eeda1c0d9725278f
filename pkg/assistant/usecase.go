package assistant

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2/log"
	"github.com/samber/mo"

	"github.com/artem13815/assignment-helper/pkg/answer"
	"github.com/artem13815/assignment-helper/pkg/extract"
	"github.com/artem13815/assignment-helper/pkg/llm"
	"github.com/artem13815/assignment-helper/pkg/prompt"
	"github.com/artem13815/assignment-helper/pkg/storage/scratch"
)

var ErrEmptyQuestion = errors.New("question is required")

// UseCase answers one question. Failures come back as the error side of the result.
type UseCase interface {
	Answer(ctx context.Context, q Question) mo.Result[string]
}

type Options struct {
	// MaxContentChars bounds file content placed in the prompt; 0 means unbounded.
	MaxContentChars int
	// Timeout bounds the completion call; 0 leaves it to the client.
	Timeout time.Duration
}

type service struct {
	llm       llm.ChatModel
	scratch   *scratch.Dir
	extractor *extract.Extractor
	opts      Options
}

func NewService(model llm.ChatModel, dir *scratch.Dir, opts Options) UseCase {
	return &service{
		llm:       model,
		scratch:   dir,
		extractor: extract.New(dir),
		opts:      opts,
	}
}

func (s *service) Answer(ctx context.Context, q Question) mo.Result[string] {
	if strings.TrimSpace(q.Text) == "" {
		return mo.Err[string](ErrEmptyQuestion)
	}

	content := mo.None[string]()
	if up, ok := q.Upload.Get(); ok {
		c, err := s.fileContent(ctx, up)
		if err != nil {
			return mo.Err[string](err)
		}
		c, cut := prompt.Truncate(c, s.opts.MaxContentChars)
		if cut {
			log.Infow("file content truncated", "filename", up.Filename, "limit", s.opts.MaxContentChars)
		}
		content = mo.Some(c)
	}

	user := prompt.Compose(q.Text, content)
	if s.opts.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.opts.Timeout)
		defer cancel()
	}
	text, err := s.llm.Ask(ctx, prompt.SystemMessage, user)
	return mo.TupleToResult(text, err)
}

// fileContent stores the upload, reads the answer cell and removes the upload again.
// Only a failure to store the upload is returned; extraction problems become content.
func (s *service) fileContent(ctx context.Context, up Upload) (string, error) {
	path, err := s.scratch.Save(up.Filename, up.Content)
	if err != nil {
		return "", err
	}
	defer func() {
		if err := s.scratch.Remove(path); err != nil {
			log.Warnw("temp upload not removed", "path", path, "error", err)
		}
	}()

	kind := extract.KindOf(up.Filename)
	loc, err := s.extractor.Locate(ctx, kind, path)
	if err != nil {
		log.Infow("file not extracted", "filename", up.Filename, "kind", kind.String(), "error", err)
		return extract.Diagnostic(err), nil
	}
	defer loc.Release()
	return answer.Lookup(loc.CSVPath), nil
}
