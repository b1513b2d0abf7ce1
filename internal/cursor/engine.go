package cursor

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/vinayprograms/tracecap/internal/extract"
	"github.com/vinayprograms/tracecap/internal/journal"
	"github.com/vinayprograms/tracecap/internal/normalize"
	"github.com/vinayprograms/tracecap/internal/sanitize"
)

// KeyValueSource is the subset of the Key-Value Source Adapter the
// cursor engine needs: a single-key get and a batched multi-get, with
// an absent key represented by a nil byte slice.
type KeyValueSource interface {
	Get(key string) ([]byte, bool, error)
	MGet(keys []string) ([][]byte, error)
}

const (
	channelMessages = "msg"
	channelResponse = "rsp"
)

// Engine runs §4.5's per-session algorithm against one Document entry.
type Engine struct {
	KV     KeyValueSource
	Writer *journal.Writer
	Grace  time.Duration

	// Logger, if set, receives one Info line per grace-window skip
	// naming the (session, seq, channel) and how long it had been
	// missing — forensic signal for an operator.
	Logger *zap.Logger
}

// ProcessSession implements §4.5 in full: materializing the session
// entry (honoring legacy aliases), pruning stale missing-payload
// records, reading the published max sequence, and walking forward one
// sequence at a time until a gap can't be resolved yet. doc.Sessions[id]
// is updated in place; the caller is responsible for a single Save at
// the end of the poll pass.
func (e *Engine) ProcessSession(doc *Document, id string, now time.Time) error {
	entry := materialize(doc.Sessions[id])
	entry.Missing = prune(entry.Missing, entry.CursorSeq, now, e.Grace)

	maxSeq, ok, err := e.readMaxSeq(id)
	if err != nil {
		return fmt.Errorf("cursor: read seq for %s: %w", id, err)
	}
	if !ok {
		writeBack(doc, id, entry)
		return nil
	}
	if entry.CursorSeq >= maxSeq {
		writeBack(doc, id, entry)
		return nil
	}

	sanitizedID := sanitize.Path(id)
	cursorSeq := entry.CursorSeq

	for seq := cursorSeq + 1; seq <= maxSeq; seq++ {
		msgKey := fmt.Sprintf("session:%s:req:%d:messages", id, seq)
		rspKey := fmt.Sprintf("session:%s:req:%d:response", id, seq)

		msgPayload, rspPayload, err := e.fetchChannels(msgKey, rspKey)
		if err != nil {
			return fmt.Errorf("cursor: fetch payloads for %s seq %d: %w", id, seq, err)
		}

		msgReady, msgSkippable := resolveChannel(entry.Missing, channelMessages, seq, msgPayload != nil, now, e.Grace)
		rspReady, rspSkippable := resolveChannel(entry.Missing, channelResponse, seq, rspPayload != nil, now, e.Grace)

		if (!msgReady && !msgSkippable) || (!rspReady && !rspSkippable) {
			break
		}

		if !msgReady && msgSkippable {
			e.logSkip(id, seq, channelMessages, entry.Missing[missingKey(channelMessages, seq)], now)
		}
		if !rspReady && rspSkippable {
			e.logSkip(id, seq, channelResponse, entry.Missing[missingKey(channelResponse, seq)], now)
		}

		events := buildEvents(seq, now, msgPayload, msgReady, rspPayload, rspReady)
		if err := e.Writer.Append(sanitizedID, events); err != nil {
			return fmt.Errorf("cursor: append journal for %s: %w", id, err)
		}

		delete(entry.Missing, missingKey(channelMessages, seq))
		delete(entry.Missing, missingKey(channelResponse, seq))
		cursorSeq = seq
	}

	entry.CursorSeq = cursorSeq
	entry.Missing = prune(entry.Missing, entry.CursorSeq, now, e.Grace)
	writeBack(doc, id, entry)
	return nil
}

func materialize(entry SessionState) SessionState {
	if entry.CursorSeq == 0 {
		if alt := maxInt64(entry.LastMsgSeq, entry.LastRspSeq); alt > 0 {
			entry.CursorSeq = alt
		}
	}
	if entry.CursorSeq < 0 {
		entry.CursorSeq = 0
	}
	if entry.Missing == nil {
		entry.Missing = map[string]int64{}
	}
	return entry
}

func writeBack(doc *Document, id string, entry SessionState) {
	entry.LastMsgSeq = entry.CursorSeq
	entry.LastRspSeq = entry.CursorSeq
	if len(entry.Missing) == 0 {
		entry.Missing = nil
	}
	doc.Sessions[id] = entry
}

func missingKey(channel string, seq int64) string {
	return fmt.Sprintf("%s:%d", channel, seq)
}

// prune implements §4.5 step 2/6: drop unparsable keys, keys at or
// below cursorSeq, and keys whose first-seen timestamp is older than
// max(4*grace, 600s).
func prune(missing map[string]int64, cursorSeq int64, now time.Time, grace time.Duration) map[string]int64 {
	if len(missing) == 0 {
		return missing
	}
	staleThreshold := grace.Seconds() * 4
	if staleThreshold < 600 {
		staleThreshold = 600
	}
	cutoff := now.Unix() - int64(staleThreshold)

	out := map[string]int64{}
	for key, firstSeen := range missing {
		channel, seq, ok := parseMissingKey(key)
		if !ok {
			continue
		}
		if seq <= cursorSeq {
			continue
		}
		if firstSeen < cutoff {
			continue
		}
		out[missingKey(channel, seq)] = firstSeen
	}
	if len(out) == 0 {
		return nil
	}
	return out
}

func parseMissingKey(key string) (channel string, seq int64, ok bool) {
	parts := strings.SplitN(key, ":", 2)
	if len(parts) != 2 {
		return "", 0, false
	}
	channel = parts[0]
	if channel != channelMessages && channel != channelResponse {
		return "", 0, false
	}
	seq, err := strconv.ParseInt(parts[1], 10, 64)
	if err != nil || seq < 0 {
		return "", 0, false
	}
	return channel, seq, true
}

// resolveChannel implements §4.5 step 5b: clears a resolved missing
// entry on arrival, records first-seen absence, and reports whether an
// absent channel has aged past the grace window.
func resolveChannel(missing map[string]int64, channel string, seq int64, present bool, now time.Time, grace time.Duration) (ready, skippable bool) {
	key := missingKey(channel, seq)
	if present {
		delete(missing, key)
		return true, false
	}
	firstSeen, exists := missing[key]
	if !exists {
		missing[key] = now.Unix()
		return false, false
	}
	return false, now.Unix()-firstSeen >= int64(grace.Seconds())
}

// logSkip records, at Info level, exactly which (session, seq, channel)
// was skipped by the grace window and how long it had been missing.
// A nil Logger makes this a no-op.
func (e *Engine) logSkip(id string, seq int64, channel string, firstSeen int64, now time.Time) {
	if e.Logger == nil {
		return
	}
	e.Logger.Info("cursor: skipping channel past grace window",
		zap.String("session", id),
		zap.Int64("seq", seq),
		zap.String("channel", channel),
		zap.Int64("missing_for_seconds", now.Unix()-firstSeen),
	)
}

func (e *Engine) readMaxSeq(id string) (int64, bool, error) {
	key := fmt.Sprintf("session:%s:seq", id)
	b, present, err := e.KV.Get(key)
	if err != nil {
		return 0, false, err
	}
	if !present {
		return 0, false, nil
	}
	seq, err := strconv.ParseInt(strings.TrimSpace(string(b)), 10, 64)
	if err != nil {
		return 0, false, nil
	}
	return seq, true, nil
}

// fetchChannels batches the messages/response get per §4.5 step 5a,
// falling back to individual gets if the batch RPC itself fails (§7).
func (e *Engine) fetchChannels(msgKey, rspKey string) (msgPayload, rspPayload []byte, err error) {
	values, err := e.KV.MGet([]string{msgKey, rspKey})
	if err == nil && len(values) == 2 {
		return values[0], values[1], nil
	}

	msgPayload, _, getErr := e.KV.Get(msgKey)
	if getErr != nil {
		msgPayload = nil
	}
	rspPayload, _, getErr = e.KV.Get(rspKey)
	if getErr != nil {
		rspPayload = nil
	}
	return msgPayload, rspPayload, nil
}

// buildEvents implements the per-request ordering from §4.4/§5:
// normalized message events first (in message/content order), then the
// response's tool-input events, then its answer event — a skipped
// channel contributes nothing.
func buildEvents(seq int64, now time.Time, msgPayload []byte, msgReady bool, rspPayload []byte, rspReady bool) []journal.Event {
	var events []journal.Event

	if msgReady && msgPayload != nil {
		var messages []any
		if err := json.Unmarshal(msgPayload, &messages); err == nil {
			for _, ev := range normalize.Messages(messages) {
				events = append(events, toJournalEvent(seq, now, ev))
			}
		}
	}

	if rspReady && rspPayload != nil {
		result := extract.Response(string(rspPayload))

		seen := map[string]bool{}
		for _, tu := range result.ToolUses {
			text := normalize.ToolInputText(tu.Name, tu.Input)
			if text == "" || seen[text] {
				continue
			}
			seen[text] = true
			events = append(events, journal.ToolIO(now, seq, "input", text))
		}

		if result.Answer != nil {
			events = append(events, journal.LLMAnswer(now, seq, *result.Answer))
		}
	}

	return events
}

func toJournalEvent(seq int64, now time.Time, ev normalize.Event) journal.Event {
	if ev.Kind == normalize.KindToolIO {
		return journal.ToolIO(now, seq, ev.Phase, ev.Text)
	}
	return journal.UserInput(now, seq, ev.Text)
}

func maxInt64(a, b int64) int64 {
	if a > b {
		return a
	}
	return b
}
