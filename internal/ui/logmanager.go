// internal/ui/logmanager.go
package ui

import (
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/sirupsen/logrus"
)

const DefaultMaxLogMessages = 100

// LogUIManager is a logrus hook keeping the most recent warnings and errors for the
// on-screen log overlay.
type LogUIManager struct {
	mu             sync.Mutex
	logMessages    []string
	maxLogMessages int
	onChange       func()
}

var _ logrus.Hook = (*LogUIManager)(nil)

func NewLogUIManager(maxMessages int) *LogUIManager {
	if maxMessages <= 0 {
		maxMessages = DefaultMaxLogMessages
	}
	return &LogUIManager{
		logMessages:    make([]string, 0, maxMessages),
		maxLogMessages: maxMessages,
	}
}

// OnChange registers a function called after every new message.
func (lm *LogUIManager) OnChange(fn func()) {
	lm.mu.Lock()
	defer lm.mu.Unlock()
	lm.onChange = fn
}

// Levels implements logrus.Hook.
func (lm *LogUIManager) Levels() []logrus.Level {
	return []logrus.Level{logrus.PanicLevel, logrus.FatalLevel, logrus.ErrorLevel, logrus.WarnLevel}
}

// Fire implements logrus.Hook.
func (lm *LogUIManager) Fire(e *logrus.Entry) error {
	var b strings.Builder
	fmt.Fprintf(&b, "%s %s %s", e.Time.Format("15:04:05"), strings.ToUpper(e.Level.String()), e.Message)
	keys := make([]string, 0, len(e.Data))
	for k := range e.Data {
		if k == "gallery" {
			continue
		}
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		fmt.Fprintf(&b, " %s=%v", k, e.Data[k])
	}
	lm.AddLogMessage(b.String())
	return nil
}

func (lm *LogUIManager) AddLogMessage(message string) {
	lm.mu.Lock()
	lm.logMessages = append(lm.logMessages, message)
	if len(lm.logMessages) > lm.maxLogMessages {
		lm.logMessages = lm.logMessages[len(lm.logMessages)-lm.maxLogMessages:]
	}
	fn := lm.onChange
	lm.mu.Unlock()
	if fn != nil {
		fn()
	}
}

// Messages returns a copy of the stored messages, oldest first.
func (lm *LogUIManager) Messages() []string {
	lm.mu.Lock()
	defer lm.mu.Unlock()
	return append([]string(nil), lm.logMessages...)
}

// Tail returns the last n messages joined by newlines.
func (lm *LogUIManager) Tail(n int) string {
	msgs := lm.Messages()
	if n > 0 && len(msgs) > n {
		msgs = msgs[len(msgs)-n:]
	}
	return strings.Join(msgs, "\n")
}

// attach adds the hook to the logger behind log, if it has one.
func (lm *LogUIManager) attach(log logrus.FieldLogger) bool {
	switch l := log.(type) {
	case *logrus.Logger:
		l.AddHook(lm)
	case *logrus.Entry:
		l.Logger.AddHook(lm)
	default:
		return false
	}
	return true
}
