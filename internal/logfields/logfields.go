package logfields

import "log/slog"

// Canonical log field name constants to avoid drift across packages.
const (
	KeyBuildID    = "build_id"
	KeyStage      = "stage"
	KeyDurationMS = "duration_ms"
	KeySource     = "source"
	KeyRepo       = "repository"
	KeyPath       = "path"
	KeyOutput     = "output"
	KeyTitle      = "title"
	KeyState      = "state"
	KeyAsset      = "asset"
	KeyCount      = "count"
	KeyWorkers    = "workers"
	KeyError      = "error"
)

// Simple helpers returning slog.Attr. Keeping each granular means callers can compose.
func BuildID(id string) slog.Attr     { return slog.String(KeyBuildID, id) }
func Stage(name string) slog.Attr     { return slog.String(KeyStage, name) }
func DurationMS(ms float64) slog.Attr { return slog.Float64(KeyDurationMS, ms) }
func Source(s string) slog.Attr       { return slog.String(KeySource, s) }
func Repository(r string) slog.Attr   { return slog.String(KeyRepo, r) }
func Path(p string) slog.Attr         { return slog.String(KeyPath, p) }
func Output(o string) slog.Attr       { return slog.String(KeyOutput, o) }
func Title(t string) slog.Attr        { return slog.String(KeyTitle, t) }
func State(s string) slog.Attr        { return slog.String(KeyState, s) }
func Asset(a string) slog.Attr        { return slog.String(KeyAsset, a) }
func Count(n int) slog.Attr           { return slog.Int(KeyCount, n) }
func Workers(n int) slog.Attr         { return slog.Int(KeyWorkers, n) }
func Error(err error) slog.Attr {
	if err == nil {
		return slog.String(KeyError, "")
	}
	return slog.String(KeyError, err.Error())
}
