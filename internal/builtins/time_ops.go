package builtins

import (
	"time"

	"github.com/glisp-lang/glisp/internal/runtime"
)

const internalTimeUnitsPerSecond = 1_000_000_000

var processStart = time.Now()

func registerTime(env *runtime.Env) {
	def(env, "internal-time-units-per-second", 0, 0, func(a []runtime.Value) (runtime.Value, error) {
		return runtime.Long(internalTimeUnitsPerSecond), nil
	})
	def(env, "get-internal-real-time", 0, 0, func(a []runtime.Value) (runtime.Value, error) {
		return runtime.Long(time.Since(processStart).Nanoseconds()), nil
	})
	def(env, "get-internal-run-time", 0, 0, func(a []runtime.Value) (runtime.Value, error) {
		return runtime.Long(time.Since(processStart).Nanoseconds()), nil
	})
	def(env, "get-internal-cpu-time", 0, 0, func(a []runtime.Value) (runtime.Value, error) {
		return runtime.Long(time.Since(processStart).Nanoseconds()), nil
	})
	def(env, "sleep", 1, 1, func(a []runtime.Value) (runtime.Value, error) {
		secs, ok := toFloat(a[0])
		if !ok {
			return nil, runtime.NewTypeError("sleep requires a number of seconds", runtime.Position{})
		}
		time.Sleep(time.Duration(secs * float64(time.Second)))
		return runtime.Nil, nil
	})
	def(env, "get-universal-time", 0, 0, func(a []runtime.Value) (runtime.Value, error) {
		return runtime.Long(universalTime(time.Now())), nil
	})
	def(env, "get-decoded-time", 0, 0, func(a []runtime.Value) (runtime.Value, error) {
		now := time.Now()
		sec, min, hour := now.Second(), now.Minute(), now.Hour()
		day, month, year := now.Day(), int(now.Month()), now.Year()
		weekday := (int(now.Weekday()) + 6) % 7 // Common Lisp: 0=Monday
		_, offset := now.Zone()
		tz := -offset / 3600
		dst := runtime.BoolValue(false)
		return runtime.FromSlice([]runtime.Value{
			runtime.Long(sec), runtime.Long(min), runtime.Long(hour),
			runtime.Long(day), runtime.Long(month), runtime.Long(year),
			runtime.Long(weekday), dst, runtime.Long(tz),
		}), nil
	})
}

// universalTime computes seconds since 1900-01-01 00:00:00 UTC, the Common
// Lisp epoch, matching get-universal-time's contract.
func universalTime(t time.Time) int64 {
	epoch := time.Date(1900, 1, 1, 0, 0, 0, 0, time.UTC)
	return int64(t.UTC().Sub(epoch).Seconds())
}
