// Package track consumes context-resolve events from a message queue
// and maintains a usage history, flushed to disk on a fixed interval.
//
// Messages are acknowledged only after they have been folded into the
// history, so a crash before the ack redelivers rather than loses the
// event. Flushing is decoupled from message handling; at most one save
// interval of updates can be lost on abrupt termination.
package track

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/hashicorp/go-multierror"
	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/robfig/cron/v3"

	"github.com/localstash/localstash/internal/fsutil"
	"github.com/localstash/localstash/internal/messages"
)

// DefaultSaveInterval is the flush interval used when none is
// configured.
const DefaultSaveInterval = 2 * time.Second

// Options configures the tracker service.
type Options struct {
	// URL is the AMQP broker to consume from.
	URL string
	// Queue holds the context resolve events.
	Queue string
	// File receives the persisted history.
	File string
	// SaveInterval is the flush cadence; zero means DefaultSaveInterval.
	SaveInterval time.Duration
	// Verbose dumps the affected host/user records after every recorded
	// event.
	Verbose bool
	// Out receives the consumer's status lines; nil discards.
	Out io.Writer
	// Logger receives diagnostics; nil builds a stderr logger.
	Logger *log.Logger
}

// Service owns the usage history and its flush scheduler.
type Service struct {
	opts   Options
	out    io.Writer
	logger *log.Logger

	mu      sync.Mutex
	history History
	dirty   bool

	cron *cron.Cron
	now  func() time.Time
}

// New loads any persisted history and prepares the service. The broker
// is not contacted until Run.
func New(opts Options) (*Service, error) {
	if opts.URL == "" {
		return nil, errors.New(messages.TrackURLRequired)
	}
	if opts.Queue == "" {
		return nil, errors.New(messages.TrackQueueRequired)
	}
	if opts.File == "" {
		return nil, errors.New(messages.TrackFileRequired)
	}
	if opts.SaveInterval <= 0 {
		opts.SaveInterval = DefaultSaveInterval
	}
	if opts.Out == nil {
		opts.Out = io.Discard
	}
	logger := opts.Logger
	if logger == nil {
		logger = log.NewWithOptions(os.Stderr, log.Options{
			Prefix: "track",
		})
	}
	history, err := LoadHistory(opts.File)
	if err != nil {
		return nil, err
	}
	return &Service{
		opts:    opts,
		out:     opts.Out,
		logger:  logger,
		history: history,
		cron:    cron.New(),
		now:     time.Now,
	}, nil
}

// History returns a point-in-time copy of the usage history.
func (s *Service) History() History {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.history.Clone()
}

// Run consumes the queue until ctx is cancelled, flushing the history on
// the save interval. Cancellation is a graceful shutdown: the scheduler
// stops, an in-flight flush completes, and the history is flushed one
// last time.
func (s *Service) Run(ctx context.Context) error {
	conn, err := amqp.Dial(s.opts.URL)
	if err != nil {
		return fmt.Errorf(messages.TrackDialFmt, s.opts.URL, err)
	}
	defer func() { _ = conn.Close() }()

	channel, err := conn.Channel()
	if err != nil {
		return fmt.Errorf(messages.TrackChannelFmt, err)
	}
	queue, err := channel.QueueDeclare(s.opts.Queue, false, false, false, false, nil)
	if err != nil {
		return fmt.Errorf(messages.TrackConsumeFmt, s.opts.Queue, err)
	}
	deliveries, err := channel.ConsumeWithContext(ctx, queue.Name, "", false, false, false, false, nil)
	if err != nil {
		return fmt.Errorf(messages.TrackConsumeFmt, s.opts.Queue, err)
	}

	_, _ = fmt.Fprintf(s.out, messages.TrackListeningFmt, s.opts.URL)
	_, _ = fmt.Fprintf(s.out, messages.TrackSavingFmt, s.opts.File)

	s.startFlusher()
	for d := range deliveries {
		s.handle(d)
	}
	stopErr := s.stop()

	if ctx.Err() == nil {
		return multierror.Append(errors.New(messages.TrackConsumerClosed), stopErr).ErrorOrNil()
	}
	_, _ = fmt.Fprintln(s.out, messages.TrackGracefulShutdown)
	return stopErr
}

// handle folds one delivery into the history and acknowledges it.
// Messages that do not parse are reported and dropped; redelivering a
// poison message would loop forever.
func (s *Service) handle(d amqp.Delivery) {
	if err := s.record(d.Body); err != nil {
		_, _ = fmt.Fprintf(s.out, messages.TrackUnexpectedMessageFmt, d.Body)
		s.logger.Warn("message dropped", "error", err)
	}
	if err := d.Ack(false); err != nil {
		s.logger.Error("ack failed", "error", err)
	}
}

type resolveMessage struct {
	Host    string `json:"host"`
	User    string `json:"user"`
	Context struct {
		ResolvedPackages []resolvedPackage `json:"resolved_packages"`
		Timestamp        int64             `json:"timestamp"`
	} `json:"context"`
}

type resolvedPackage struct {
	Variables struct {
		Name    string `json:"name"`
		Version string `json:"version"`
	} `json:"variables"`
}

// record parses a resolve event and updates the history. The event's
// timestamp is preferred; a missing one falls back to the current time.
func (s *Service) record(body []byte) error {
	var msg resolveMessage
	if err := json.Unmarshal(body, &msg); err != nil {
		return err
	}
	if msg.Host == "" || msg.User == "" {
		return errors.New(messages.TrackEventIncomplete)
	}
	ts := msg.Context.Timestamp
	if ts == 0 {
		ts = s.now().Unix()
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	recorded := 0
	for _, p := range msg.Context.ResolvedPackages {
		if p.Variables.Name == "" {
			continue
		}
		key := p.Variables.Name + "-" + p.Variables.Version
		s.history.Record(msg.Host, msg.User, key, ts)
		s.logger.Debug("updated", "host", msg.Host, "user", msg.User, "package", key)
		recorded++
	}
	if recorded > 0 {
		s.dirty = true
		if s.opts.Verbose {
			s.dumpUser(msg.Host, msg.User)
		}
	}
	return nil
}

// dumpUser prints the host/user records just updated. Caller holds mu.
func (s *Service) dumpUser(host, user string) {
	s.history.DumpUser(s.out, host, user)
}

// startFlusher schedules the periodic flush. Flush failures are logged
// and retried on the next tick; the history stays dirty.
func (s *Service) startFlusher() {
	s.cron.Schedule(cron.Every(s.opts.SaveInterval), cron.FuncJob(func() {
		if err := s.flush(); err != nil {
			s.logger.Error("history flush failed", "error", err)
		}
	}))
	s.cron.Start()
}

// stop halts the flush scheduler, waits for an in-flight flush to
// complete, and flushes whatever changed since the last tick.
func (s *Service) stop() error {
	<-s.cron.Stop().Done()
	return s.flush()
}

// flush persists the history if it changed since the last flush. The
// snapshot is taken under the lock but written outside it, so a slow
// disk never blocks message acknowledgment.
func (s *Service) flush() error {
	s.mu.Lock()
	if !s.dirty {
		s.mu.Unlock()
		return nil
	}
	snapshot := s.history.Clone()
	s.dirty = false
	s.mu.Unlock()

	if err := s.write(snapshot); err != nil {
		s.mu.Lock()
		s.dirty = true
		s.mu.Unlock()
		return err
	}
	return nil
}

func (s *Service) write(snapshot History) error {
	data, err := json.MarshalIndent(snapshot, "", "  ")
	if err != nil {
		return fmt.Errorf(messages.TrackWriteHistoryFmt, s.opts.File, err)
	}
	if err := os.MkdirAll(filepath.Dir(s.opts.File), 0o755); err != nil {
		return fmt.Errorf(messages.TrackWriteHistoryFmt, s.opts.File, err)
	}
	if err := fsutil.WriteFileAtomic(s.opts.File, data, 0o644); err != nil {
		return fmt.Errorf(messages.TrackWriteHistoryFmt, s.opts.File, err)
	}
	return nil
}
