package log

import (
	"bytes"
	"context"
	"io"
	"log/slog"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/charmbracelet/lipgloss"
)

// Styles for the colorized text handler. lipgloss degrades these to plain
// text when the writer is not a terminal.
var (
	styleKey   = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
	styleValue = lipgloss.NewStyle().Foreground(lipgloss.Color("6"))
	styleNum   = lipgloss.NewStyle().Foreground(lipgloss.Color("3"))
	styleTime  = lipgloss.NewStyle().Foreground(lipgloss.Color("4"))
	styleTrue  = lipgloss.NewStyle().Foreground(lipgloss.Color("2"))
	styleFalse = lipgloss.NewStyle().Foreground(lipgloss.Color("1"))

	styleLevel = map[Level]lipgloss.Style{
		LevelTrace: lipgloss.NewStyle().Foreground(lipgloss.Color("5")),
		LevelDebug: lipgloss.NewStyle().Foreground(lipgloss.Color("4")),
		LevelInfo:  lipgloss.NewStyle().Foreground(lipgloss.Color("2")),
		LevelWarn:  lipgloss.NewStyle().Foreground(lipgloss.Color("3")),
		LevelError: lipgloss.NewStyle().Foreground(lipgloss.Color("1")).Bold(true),
	}
)

// prettyHandler is a colorized text handler for interactive use. Values
// print unquoted; attributes preset through WithAttrs prefix every record.
type prettyHandler struct {
	mu         *sync.Mutex
	w          io.Writer
	level      slog.Level
	caller     bool
	formatTime FormatTime
	preset     []slog.Attr
	group      string
}

func newPrettyHandler(w io.Writer, level slog.Level, caller bool, formatTime FormatTime) *prettyHandler {
	return &prettyHandler{
		mu:         &sync.Mutex{},
		w:          w,
		level:      level,
		caller:     caller,
		formatTime: formatTime,
	}
}

func (h *prettyHandler) Enabled(_ context.Context, level slog.Level) bool {
	return level >= h.level
}

func (h *prettyHandler) Handle(_ context.Context, r slog.Record) error {
	buf := new(bytes.Buffer)

	if !r.Time.IsZero() {
		if formatted := h.formatTime(r.Time); formatted != "" {
			buf.WriteString(styleTime.Render(formatted))
		}
	}

	level := Level(r.Level)

	style, ok := styleLevel[level]
	if !ok {
		style = styleValue
	}

	h.sep(buf)
	buf.WriteString(style.Render(strings.ToUpper(level.String())))

	if h.caller {
		if src := r.Source(); src != nil {
			h.sep(buf)
			buf.WriteString(styleKey.Render(
				src.File + ":" + strconv.Itoa(src.Line)))
		}
	}

	h.sep(buf)
	buf.WriteString(r.Message)

	for _, a := range h.preset {
		h.attr(buf, a)
	}

	r.Attrs(func(a slog.Attr) bool {
		h.attr(buf, a)

		return true
	})

	buf.WriteByte('\n')

	h.mu.Lock()
	defer h.mu.Unlock()

	_, err := h.w.Write(buf.Bytes())

	return err
}

func (h *prettyHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	c := *h
	c.preset = append(h.preset[:len(h.preset):len(h.preset)], attrs...)

	return &c
}

func (h *prettyHandler) WithGroup(name string) slog.Handler {
	c := *h

	if c.group != "" {
		name = c.group + "." + name
	}

	c.group = name

	return &c
}

func (h *prettyHandler) sep(buf *bytes.Buffer) {
	if buf.Len() > 0 {
		buf.WriteByte(' ')
	}
}

func (h *prettyHandler) attr(buf *bytes.Buffer, a slog.Attr) {
	key := a.Key
	if h.group != "" {
		key = h.group + "." + key
	}

	v := a.Value.Resolve()

	if v.Kind() == slog.KindGroup {
		for _, ga := range v.Group() {
			h.attr(buf, slog.Attr{Key: key + "." + ga.Key, Value: ga.Value})
		}

		return
	}

	h.sep(buf)
	buf.WriteString(styleKey.Render(key))
	buf.WriteByte('=')
	h.value(buf, v)
}

func (h *prettyHandler) value(buf *bytes.Buffer, v slog.Value) {
	switch v.Kind() {
	case slog.KindInt64:
		buf.WriteString(styleNum.Render(strconv.FormatInt(v.Int64(), 10)))
	case slog.KindUint64:
		buf.WriteString(styleNum.Render(strconv.FormatUint(v.Uint64(), 10)))
	case slog.KindFloat64:
		buf.WriteString(styleNum.Render(
			strconv.FormatFloat(v.Float64(), 'g', -1, 64)))
	case slog.KindBool:
		if v.Bool() {
			buf.WriteString(styleTrue.Render("true"))
		} else {
			buf.WriteString(styleFalse.Render("false"))
		}
	case slog.KindDuration:
		buf.WriteString(styleNum.Render(v.Duration().String()))
	case slog.KindTime:
		buf.WriteString(styleTime.Render(v.Time().Format(time.RFC3339)))
	default:
		buf.WriteString(styleValue.Render(v.String()))
	}
}
