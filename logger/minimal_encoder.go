package logger

import (
	"fmt"
	"math"
	"strings"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/buffer"
	"go.uber.org/zap/zapcore"
)

const (
	colorReset = "\x1b[0m"
	colorBold  = "\x1b[1m"
)

// palette holds the ANSI colours of one theme.
type palette struct {
	fg        string
	time      string
	id        string
	number    string
	symbol    string
	key       string
	component []string // rotated by name hash
	warn      string
	warnBg    string
	err       string
	errBg     string
}

var themes = map[string]palette{
	// Gruvbox Dark (warm, muted)
	"gruvbox": {
		fg:        "\x1b[38;5;223m",
		time:      "\x1b[38;5;108m",
		id:        "\x1b[38;5;109m",
		number:    "\x1b[38;5;175m",
		symbol:    "\x1b[38;5;142m",
		key:       "\x1b[38;5;245m",
		component: []string{"\x1b[38;5;208m", "\x1b[38;5;214m"},
		warn:      "\x1b[38;5;214m",
		warnBg:    "\x1b[48;5;58m",
		err:       "\x1b[38;5;167m",
		errBg:     "\x1b[48;5;88m",
	},
	// Everforest Dark (forest greens)
	"everforest": {
		fg:        "\x1b[38;5;223m",
		time:      "\x1b[38;5;107m",
		id:        "\x1b[38;5;109m",
		number:    "\x1b[38;5;108m",
		symbol:    "\x1b[38;5;108m",
		key:       "\x1b[38;5;65m",
		component: []string{"\x1b[38;5;108m", "\x1b[38;5;65m", "\x1b[38;5;208m"},
		warn:      "\x1b[38;5;179m",
		warnBg:    "\x1b[48;5;58m",
		err:       "\x1b[38;5;167m",
		errBg:     "\x1b[48;5;52m",
	},
}

// Current active theme, set from output.log_theme or GRIDSENSE_LOG_THEME
var currentTheme = "everforest"

// SetTheme selects a colour theme; unknown names are ignored.
func SetTheme(theme string) {
	if _, ok := themes[theme]; ok {
		currentTheme = theme
	}
}

// Themes lists the accepted theme names.
func Themes() []string { return []string{"everforest", "gruvbox"} }

func colors() palette { return themes[currentTheme] }

// minimalEncoder writes one calm line per entry:
//
//	13:04:35  WARN  b.worker  ꩜ batch complete  runs=120 duration_ms=5012
//
// The level only appears for WARN and above. Every field is printed.
type minimalEncoder struct {
	zapcore.Encoder
	pool buffer.Pool
	// fields added through With, already rendered
	context []zapcore.Field
}

func newMinimalEncoder() *minimalEncoder {
	return &minimalEncoder{
		Encoder: zapcore.NewJSONEncoder(zap.NewProductionEncoderConfig()),
		pool:    buffer.NewPool(),
	}
}

func (enc *minimalEncoder) Clone() zapcore.Encoder {
	ctx := make([]zapcore.Field, len(enc.context))
	copy(ctx, enc.context)
	return &minimalEncoder{Encoder: enc.Encoder.Clone(), pool: enc.pool, context: ctx}
}

// AddString and friends are how zap hands With fields to the encoder; capture
// them so EncodeEntry can print them alongside the entry's own fields.
func (enc *minimalEncoder) AddString(key, value string) {
	enc.context = append(enc.context, zap.String(key, value))
}

func (enc *minimalEncoder) AddInt64(key string, value int64) {
	enc.context = append(enc.context, zap.Int64(key, value))
}

func (enc *minimalEncoder) AddInt32(key string, value int32) {
	enc.context = append(enc.context, zap.Int32(key, value))
}

func (enc *minimalEncoder) AddUint64(key string, value uint64) {
	enc.context = append(enc.context, zap.Uint64(key, value))
}

func (enc *minimalEncoder) AddDuration(key string, value time.Duration) {
	enc.context = append(enc.context, zap.Duration(key, value))
}

func (enc *minimalEncoder) AddFloat64(key string, value float64) {
	enc.context = append(enc.context, zap.Float64(key, value))
}

func (enc *minimalEncoder) AddBool(key string, value bool) {
	enc.context = append(enc.context, zap.Bool(key, value))
}

func (enc *minimalEncoder) AddReflected(key string, value interface{}) error {
	enc.context = append(enc.context, zap.Any(key, value))
	return nil
}

func (enc *minimalEncoder) EncodeEntry(ent zapcore.Entry, fields []zapcore.Field) (*buffer.Buffer, error) {
	c := colors()
	line := enc.pool.Get()

	line.AppendString(c.time)
	line.AppendString(ent.Time.Format("15:04:05"))
	line.AppendString(colorReset)

	if lvl := levelString(ent.Level, c); lvl != "" {
		line.AppendString("  ")
		line.AppendString(lvl)
	}

	if ent.LoggerName != "" {
		line.AppendString("  ")
		line.AppendString(componentColor(ent.LoggerName, c))
		line.AppendString(abbreviateName(ent.LoggerName))
		line.AppendString(colorReset)
	}

	all := make([]zapcore.Field, 0, len(enc.context)+len(fields))
	all = append(all, enc.context...)
	all = append(all, fields...)

	line.AppendString("  ")
	if symbol, rest := takeSymbol(all); symbol != "" {
		line.AppendString(c.symbol + symbol + colorReset + " ")
		all = rest
	}
	line.AppendString(c.fg + ent.Message + colorReset)

	if len(all) > 0 {
		line.AppendString("  ")
		line.AppendString(formatFields(all, c))
	}

	line.AppendString("\n")
	return line, nil
}

func levelString(level zapcore.Level, c palette) string {
	switch level {
	case zapcore.DebugLevel, zapcore.InfoLevel:
		return ""
	case zapcore.WarnLevel:
		return colorBold + c.warnBg + c.warn + "WARN" + colorReset
	default:
		return colorBold + c.errBg + c.err + level.CapitalString() + colorReset
	}
}

func componentColor(name string, c palette) string {
	hash := 0
	for _, r := range name {
		hash += int(r)
	}
	return c.component[hash%len(c.component)]
}

// abbreviateName shortens dotted names: batch.worker -> b.worker
func abbreviateName(name string) string {
	parts := strings.Split(name, ".")
	if len(parts) > 1 {
		return string(parts[0][0]) + "." + strings.Join(parts[1:], ".")
	}
	return name
}

func takeSymbol(fields []zapcore.Field) (string, []zapcore.Field) {
	for i, f := range fields {
		if f.Key == FieldSymbol && f.Type == zapcore.StringType {
			rest := make([]zapcore.Field, 0, len(fields)-1)
			rest = append(rest, fields[:i]...)
			return f.String, append(rest, fields[i+1:]...)
		}
	}
	return "", fields
}

func formatFields(fields []zapcore.Field, c palette) string {
	parts := make([]string, 0, len(fields))
	for _, f := range fields {
		val, numeric := fieldValue(f)
		color := c.fg
		switch {
		case numeric:
			color = c.number
		case strings.HasSuffix(f.Key, "_id"):
			color = c.id
		}
		parts = append(parts, c.key+f.Key+"="+colorReset+color+val+colorReset)
	}
	return strings.Join(parts, " ")
}

// fieldValue renders a field's value and reports whether it is numeric.
func fieldValue(f zapcore.Field) (string, bool) {
	switch f.Type {
	case zapcore.StringType:
		return f.String, false
	case zapcore.Int64Type, zapcore.Int32Type, zapcore.Int16Type, zapcore.Int8Type:
		return fmt.Sprintf("%d", f.Integer), true
	case zapcore.Uint64Type, zapcore.Uint32Type, zapcore.Uint16Type, zapcore.Uint8Type:
		return fmt.Sprintf("%d", uint64(f.Integer)), true
	case zapcore.Float64Type:
		return fmt.Sprintf("%g", math.Float64frombits(uint64(f.Integer))), true
	case zapcore.Float32Type:
		return fmt.Sprintf("%g", math.Float32frombits(uint32(f.Integer))), true
	case zapcore.BoolType:
		return fmt.Sprintf("%t", f.Integer == 1), false
	case zapcore.DurationType:
		return time.Duration(f.Integer).String(), true
	case zapcore.ErrorType:
		if err, ok := f.Interface.(error); ok {
			return err.Error(), false
		}
	}
	if f.Interface != nil {
		return fmt.Sprintf("%v", f.Interface), false
	}
	return "", false
}
