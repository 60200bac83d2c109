package logging

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/mattn/go-isatty"
)

const (
	colorReset  = "\x1b[0m"
	colorDim    = "\x1b[2m"
	colorRed    = "\x1b[31m"
	colorYellow = "\x1b[33m"
	colorCyan   = "\x1b[36m"
)

type consoleHandler struct {
	mu     sync.Mutex
	writer io.Writer
	level  *slog.LevelVar
	attrs  []slog.Attr
	groups []string
	color  bool
}

func newConsoleHandler(w io.Writer, lvl *slog.LevelVar) slog.Handler {
	color := false
	if file, ok := w.(*os.File); ok {
		color = isatty.IsTerminal(file.Fd()) || isatty.IsCygwinTerminal(file.Fd())
	}
	return &consoleHandler{writer: w, level: lvl, color: color}
}

func (h *consoleHandler) Enabled(_ context.Context, level slog.Level) bool {
	return level >= h.level.Level()
}

func (h *consoleHandler) Handle(_ context.Context, record slog.Record) error {
	timestamp := record.Time
	if timestamp.IsZero() {
		timestamp = time.Now()
	}

	kvs := make([]kv, 0, record.NumAttrs()+len(h.attrs))
	flattenAttrs(&kvs, h.groups, h.attrs)
	record.Attrs(func(attr slog.Attr) bool {
		flattenAttr(&kvs, h.groups, attr)
		return true
	})

	var component string
	filtered := kvs[:0]
	for _, pair := range kvs {
		if pair.key == FieldComponent && component == "" {
			component = fmt.Sprint(pair.value)
			continue
		}
		filtered = append(filtered, pair)
	}
	sort.SliceStable(filtered, func(i, j int) bool { return fieldRank(filtered[i].key) < fieldRank(filtered[j].key) })

	var line strings.Builder
	line.WriteString(h.dim(timestamp.Format("15:04:05")))
	line.WriteByte(' ')
	line.WriteString(h.levelTag(record.Level))
	if component != "" {
		line.WriteByte(' ')
		line.WriteString(h.paint(colorCyan, component))
	}
	line.WriteByte(' ')
	line.WriteString(record.Message)
	for _, pair := range filtered {
		line.WriteByte(' ')
		line.WriteString(h.dim(pair.key + "="))
		line.WriteString(fmt.Sprint(pair.value))
	}
	line.WriteByte('\n')

	h.mu.Lock()
	defer h.mu.Unlock()
	_, err := io.WriteString(h.writer, line.String())
	return err
}

func (h *consoleHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	clone := h.clone()
	clone.attrs = append(clone.attrs, attrs...)
	return clone
}

func (h *consoleHandler) WithGroup(name string) slog.Handler {
	if name == "" {
		return h
	}
	clone := h.clone()
	clone.groups = append(clone.groups, name)
	return clone
}

func (h *consoleHandler) clone() *consoleHandler {
	return &consoleHandler{
		writer: h.writer,
		level:  h.level,
		attrs:  append([]slog.Attr(nil), h.attrs...),
		groups: append([]string(nil), h.groups...),
		color:  h.color,
	}
}

func (h *consoleHandler) levelTag(level slog.Level) string {
	switch {
	case level >= slog.LevelError:
		return h.paint(colorRed, "ERR")
	case level >= slog.LevelWarn:
		return h.paint(colorYellow, "WRN")
	case level >= slog.LevelInfo:
		return "INF"
	default:
		return h.dim("DBG")
	}
}

func (h *consoleHandler) paint(color, value string) string {
	if !h.color {
		return value
	}
	return color + value + colorReset
}

func (h *consoleHandler) dim(value string) string {
	return h.paint(colorDim, value)
}

// fieldRank pins identity fields ahead of the free-form remainder.
func fieldRank(key string) int {
	switch key {
	case FieldRunID:
		return 0
	case FieldTrackID:
		return 1
	case FieldQuery:
		return 2
	case FieldEventType:
		return 3
	default:
		return 4
	}
}

type kv struct {
	key   string
	value any
}

func flattenAttrs(out *[]kv, groups []string, attrs []slog.Attr) {
	for _, attr := range attrs {
		flattenAttr(out, groups, attr)
	}
}

func flattenAttr(out *[]kv, groups []string, attr slog.Attr) {
	if attr.Equal(slog.Attr{}) {
		return
	}
	value := attr.Value.Resolve()
	if value.Kind() == slog.KindGroup {
		nested := groups
		if attr.Key != "" {
			nested = append(append([]string(nil), groups...), attr.Key)
		}
		for _, member := range value.Group() {
			flattenAttr(out, nested, member)
		}
		return
	}
	key := attr.Key
	if len(groups) > 0 {
		key = strings.Join(groups, ".") + "." + key
	}
	*out = append(*out, kv{key: key, value: value.Any()})
}
