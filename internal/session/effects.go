package session

import (
	"time"

	"github.com/briankim1512/SlideSearch/internal/search"
	"github.com/briankim1512/SlideSearch/internal/slide"
)

// Effect is work the host must carry out after an event. Effects never
// touch the Session directly; their outcome comes back as another event.
type Effect interface {
	effect()
}

// ScheduleSearch asks the host to call DebounceFired(Token) after After.
type ScheduleSearch struct {
	Token uint64
	After time.Duration
}

// RunSearch asks the host to run the request against the slide store and
// report back through SearchCompleted.
type RunSearch struct {
	Request search.Request
}

// RunStitch asks the host to stitch IDs and report back through
// StitchCompleted. Open marks the single-slide open action.
type RunStitch struct {
	IDs  []slide.ID
	Open bool
}

// RunIngest asks the host to ingest Paths, forwarding progress through
// IngestProgress and the result through IngestCompleted.
type RunIngest struct {
	Paths []string
}

func (ScheduleSearch) effect() {}
func (RunSearch) effect()      {}
func (RunStitch) effect()      {}
func (RunIngest) effect()      {}

type NoticeLevel int

const (
	NoticeInfo NoticeLevel = iota
	NoticeWarn
	NoticeError
)

func (l NoticeLevel) String() string {
	switch l {
	case NoticeWarn:
		return "warn"
	case NoticeError:
		return "error"
	default:
		return "info"
	}
}

// Notice is the single user-visible message of the session.
type Notice struct {
	Level NoticeLevel
	Text  string
}
