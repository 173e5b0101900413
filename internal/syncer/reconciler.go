package syncer

import (
	"context"
	"fmt"
	"runtime/debug"
	"sort"
	"time"

	"github.com/takak2166/notion2telegram/internal/logger"
	"github.com/takak2166/notion2telegram/internal/markdown"
	"github.com/takak2166/notion2telegram/internal/models"
	"github.com/takak2166/notion2telegram/internal/store"
)

// DefaultSkipPrefixes are the title prefixes excluded from sync. The second
// one keeps the mapping database itself out.
var DefaultSkipPrefixes = []string{"[DRAFT]", "[TG_SYNC]"}

// Reconciler runs sync passes
type Reconciler struct {
	pages     PageSource
	content   ContentAssembler
	messenger Messenger
	store     store.Store

	skipPrefixes []string
	dumpDir      string
	now          func() time.Time
}

// Option configures a Reconciler
type Option func(*Reconciler)

// WithSkipPrefixes replaces the title prefixes that exclude a page
func WithSkipPrefixes(prefixes []string) Option {
	return func(r *Reconciler) {
		r.skipPrefixes = prefixes
	}
}

// WithErrorDumpDir writes the text of messages rejected by the chat into dir
func WithErrorDumpDir(dir string) Option {
	return func(r *Reconciler) {
		r.dumpDir = dir
	}
}

// WithClock overrides the time source used for reports
func WithClock(now func() time.Time) Option {
	return func(r *Reconciler) {
		r.now = now
	}
}

// New creates a Reconciler
func New(pages PageSource, content ContentAssembler, messenger Messenger, st store.Store, opts ...Option) *Reconciler {
	r := &Reconciler{
		pages:        pages,
		content:      content,
		messenger:    messenger,
		store:        st,
		skipPrefixes: DefaultSkipPrefixes,
		now:          time.Now,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Pass runs one reconciliation pass against state. It never panics; failures
// that stop the pass are returned in Report.Err.
func (r *Reconciler) Pass(ctx context.Context, state *State) (report Report) {
	report = Report{
		StartedAt: r.now(),
		Outcomes:  make(map[string]Outcome),
	}

	defer func() {
		if p := recover(); p != nil {
			report.Err = fmt.Errorf("sync pass panicked: %v", p)
			state.Loaded = false
			logger.Error("Sync pass panicked", report.Err, map[string]interface{}{
				"stack": string(debug.Stack()),
			})
		}
		report.Duration = r.now().Sub(report.StartedAt)
		logReport(report)
	}()

	pages, err := r.pages.ListPages(ctx)
	if err != nil {
		report.Err = fmt.Errorf("failed to list pages: %w", err)
		return report
	}

	if !state.Loaded {
		if err := r.load(ctx, state); err != nil {
			report.Err = err
			return report
		}
	}

	prior := copyRecords(state.Records)
	next := make(map[string]models.SyncRecord, len(pages))
	present := make(map[string]bool, len(pages))

	for _, page := range pages {
		page.ID = models.NormalizePageID(page.ID)
		if page.Excluded(r.skipPrefixes) {
			report.Outcomes[page.ID] = OutcomeSkipped
			logger.Debug("Skipping excluded page", map[string]interface{}{
				"page_id": page.ID,
				"title":   page.Title,
			})
			continue
		}
		present[page.ID] = true

		old, hasOld := prior[page.ID]
		outcome, rec := r.syncPageSafe(ctx, page, old, hasOld)
		report.Outcomes[page.ID] = outcome
		if outcome != OutcomeError || hasOld {
			next[page.ID] = rec
		}
	}

	gone := goneIDs(prior, present)
	for _, id := range gone {
		report.Outcomes[id] = OutcomeRetired
		report.Cleanup = append(report.Cleanup, r.retire(ctx, prior[id])...)
	}

	pending := r.persist(ctx, prior, next, gone, state.Pending)

	state.Records = next
	state.Pending = pending
	if err := r.load(ctx, state); err != nil {
		logger.Error("Failed to reload sync records, will retry next pass", err)
	}

	return report
}

// syncPageSafe is syncPage with a panic turned into an error outcome
func (r *Reconciler) syncPageSafe(ctx context.Context, page models.SourcePage, old models.SyncRecord, hasOld bool) (outcome Outcome, rec models.SyncRecord) {
	defer func() {
		if p := recover(); p != nil {
			logger.Error("Page sync panicked", fmt.Errorf("%v", p), map[string]interface{}{
				"page_id": page.ID,
				"title":   page.Title,
			})
			outcome, rec = OutcomeError, old
		}
	}()
	return r.syncPage(ctx, page, old, hasOld)
}

// syncPage decides and applies the action for one page. On error the old
// record is returned unchanged so the next pass retries.
func (r *Reconciler) syncPage(ctx context.Context, page models.SourcePage, old models.SyncRecord, hasOld bool) (Outcome, models.SyncRecord) {
	fields := map[string]interface{}{
		"page_id": page.ID,
		"title":   page.Title,
	}

	if hasOld && old.Unix() == models.UnixSeconds(page.LastEdited) {
		return OutcomeNoop, old
	}

	body, err := r.content.Assemble(ctx, page.ID)
	if err != nil {
		logger.Warn("Failed to assemble page, will retry next pass", err, fields)
		return OutcomeError, old
	}
	text := markdown.Message(page.Title, body)

	rec := models.SyncRecord{
		PageID:     page.ID,
		LastEdited: page.LastEdited,
		Title:      page.Title,
	}

	if hasOld && old.MessageID != 0 {
		err := r.messenger.Edit(ctx, old.MessageID, text)
		if err == nil {
			err = r.messenger.Pin(ctx, old.MessageID)
		}
		if err == nil {
			rec.MessageID = old.MessageID
			logger.Info("Updated pinned message", withField(fields, "message_id", old.MessageID))
			return OutcomeUpdated, rec
		}
		logger.Warn("Failed to update message, posting a new one", err, withField(fields, "message_id", old.MessageID))
		r.diagnose(page.ID, text, err)
	}

	id, err := r.messenger.Send(ctx, text)
	if err != nil {
		logger.Error("Failed to post message", err, fields)
		r.diagnose(page.ID, text, err)
		return OutcomeError, old
	}
	if err := r.messenger.Pin(ctx, id); err != nil {
		logger.Warn("Failed to pin message", err, withField(fields, "message_id", id))
	}

	rec.MessageID = id
	if hasOld {
		logger.Info("Replaced pinned message", withField(fields, "message_id", id))
		return OutcomeUpdated, rec
	}
	logger.Info("Created pinned message", withField(fields, "message_id", id))
	return OutcomeCreated, rec
}

// retire unpins and deletes the message of a page that left the source set.
// Both operations are attempted regardless of each other's result.
func (r *Reconciler) retire(ctx context.Context, rec models.SyncRecord) []CleanupResult {
	if rec.MessageID == 0 {
		return nil
	}

	ops := []struct {
		action CleanupAction
		run    func(context.Context, int) error
	}{
		{CleanupUnpin, r.messenger.Unpin},
		{CleanupDelete, r.messenger.Delete},
	}

	results := make([]CleanupResult, 0, len(ops))
	for _, op := range ops {
		res := CleanupResult{PageID: rec.PageID, MessageID: rec.MessageID, Action: op.action}
		res.Err = safeCall(func() error { return op.run(ctx, rec.MessageID) })
		if res.Err != nil {
			logger.Warn(fmt.Sprintf("Failed to %s retired message", op.action), res.Err, map[string]interface{}{
				"page_id":    rec.PageID,
				"message_id": rec.MessageID,
			})
		}
		results = append(results, res)
	}

	logger.Info("Retired message", map[string]interface{}{
		"page_id":    rec.PageID,
		"message_id": rec.MessageID,
		"title":      rec.Title,
	})
	return results
}

// persist writes changed records and archives gone ones. It returns the
// records that could not be written.
func (r *Reconciler) persist(ctx context.Context, prior, next map[string]models.SyncRecord, gone []string, pending map[string]models.SyncRecord) map[string]models.SyncRecord {
	failed := make(map[string]models.SyncRecord)

	for _, id := range sortedIDs(next) {
		rec := next[id]
		old, ok := prior[id]
		_, retry := pending[id]
		if ok && old.Equal(rec) && !retry {
			continue
		}
		if err := r.store.Upsert(ctx, rec); err != nil {
			logger.Error("Failed to store sync record", err, map[string]interface{}{
				"page_id":    id,
				"message_id": rec.MessageID,
			})
			failed[id] = rec
		}
	}

	for _, id := range gone {
		if err := r.store.Archive(ctx, id); err != nil {
			logger.Error("Failed to archive sync record", err, map[string]interface{}{
				"page_id": id,
			})
		}
	}

	return failed
}

// load replaces state.Records with the store contents, keeping records that
// are still waiting to be persisted
func (r *Reconciler) load(ctx context.Context, state *State) error {
	records, err := r.store.LoadAll(ctx)
	if err != nil {
		state.Loaded = false
		return fmt.Errorf("failed to load sync records: %w", err)
	}
	for id, rec := range state.Pending {
		records[id] = rec
	}
	state.Records = records
	state.Loaded = true
	return nil
}

func safeCall(fn func() error) (err error) {
	defer func() {
		if p := recover(); p != nil {
			err = fmt.Errorf("panic: %v", p)
		}
	}()
	return fn()
}

func goneIDs(prior map[string]models.SyncRecord, present map[string]bool) []string {
	var gone []string
	for id := range prior {
		if !present[id] {
			gone = append(gone, id)
		}
	}
	sort.Strings(gone)
	return gone
}

func sortedIDs(records map[string]models.SyncRecord) []string {
	ids := make([]string, 0, len(records))
	for id := range records {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

func copyRecords(in map[string]models.SyncRecord) map[string]models.SyncRecord {
	out := make(map[string]models.SyncRecord, len(in))
	for id, rec := range in {
		out[id] = rec
	}
	return out
}

func withField(fields map[string]interface{}, key string, value interface{}) map[string]interface{} {
	out := make(map[string]interface{}, len(fields)+1)
	for k, v := range fields {
		out[k] = v
	}
	out[key] = value
	return out
}

func logReport(report Report) {
	fields := map[string]interface{}{
		"duration":         report.Duration.String(),
		"created":          report.Count(OutcomeCreated),
		"updated":          report.Count(OutcomeUpdated),
		"no_op":            report.Count(OutcomeNoop),
		"retired":          report.Count(OutcomeRetired),
		"skipped":          report.Count(OutcomeSkipped),
		"errors":           report.Count(OutcomeError),
		"cleanup_failures": len(report.CleanupFailures()),
	}
	if report.Err != nil {
		logger.Error("Sync pass failed", report.Err, fields)
		return
	}
	logger.Info("Sync pass finished", fields)
}
