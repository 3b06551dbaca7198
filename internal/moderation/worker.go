package moderation

import (
	"context"
	"strings"

	"github.com/abadojack/whatlanggo"
	"github.com/google/uuid"
	"github.com/vedran77/haven/internal/domain"
	"github.com/vedran77/haven/internal/repository"
	"go.uber.org/zap"
)

const unsafeMarker = "unsafe"

// Notifier pushes the removal to connected clients once a message has been
// soft-deleted.
type Notifier interface {
	NotifyDeletedMessage(conv domain.ConversationRef, messageID uuid.UUID, reason *string)
}

// Worker consumes message ids enqueued at send time and applies the
// classifier's verdict. It is fully decoupled from the send path: verdicts
// land after the sender's request has returned, and any failure here leaves
// the message visible (fail open, at most one attempt per message).
type Worker struct {
	messageRepo repository.MessageRepository
	classifier  Classifier
	notifier    Notifier
	jobs        chan uuid.UUID
	log         *zap.SugaredLogger
}

func NewWorker(messageRepo repository.MessageRepository, classifier Classifier, queueSize int, log *zap.SugaredLogger) *Worker {
	return &Worker{
		messageRepo: messageRepo,
		classifier:  classifier,
		jobs:        make(chan uuid.UUID, queueSize),
		log:         log,
	}
}

// SetNotifier sets the real-time notifier (optional dependency).
func (w *Worker) SetNotifier(n Notifier) {
	w.notifier = n
}

// Enqueue never blocks; when the queue is full the job is dropped and the
// message simply stays unmoderated.
func (w *Worker) Enqueue(messageID uuid.UUID) {
	select {
	case w.jobs <- messageID:
	default:
		w.log.Warnw("moderation queue full, dropping job", "message_id", messageID)
	}
}

// Run consumes the queue until ctx is cancelled.
func (w *Worker) Run(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case id, ok := <-w.jobs:
			if !ok {
				return nil
			}
			w.process(ctx, id)
		}
	}
}

func (w *Worker) process(ctx context.Context, id uuid.UUID) {
	msg, err := w.messageRepo.GetByID(ctx, id)
	if err != nil {
		w.log.Warnw("moderation: loading message", "message_id", id, "error", err)
		return
	}
	if msg == nil || msg.Deleted {
		// Already gone (author delete) or already moderated.
		return
	}

	verdict, err := w.classifier.Classify(ctx, msg.Content)
	if err != nil {
		// Fail open: the message stays visible.
		w.log.Warnw("moderation: classification failed", "message_id", id, "error", err)
		return
	}

	if !strings.HasPrefix(verdict, unsafeMarker) {
		return
	}

	code := strings.TrimSpace(strings.TrimPrefix(verdict, unsafeMarker))
	reason := ReasonForCode(code)

	if err := w.messageRepo.MarkDeleted(ctx, id, &reason); err != nil {
		w.log.Errorw("moderation: soft delete failed", "message_id", id, "error", err)
		return
	}

	info := whatlanggo.Detect(msg.Content)
	w.log.Infow("moderation: message removed",
		"message_id", id,
		"category", code,
		"reason", reason,
		"lang", info.Lang.Iso6391(),
	)

	if w.notifier != nil {
		w.notifier.NotifyDeletedMessage(msg.Conversation, id, &reason)
	}
}
