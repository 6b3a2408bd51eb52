package logging

import (
	"fmt"
	"log/slog"
	"os"
	"runtime/debug"
	"time"
)

// RecoverPanic logs a recovered panic, writes its stack trace to
// lens-panic-<name>-<time>.log and runs cleanup. Use it deferred.
func RecoverPanic(name string, cleanup func()) {
	r := recover()
	if r == nil {
		return
	}
	slog.Error("panic", "in", name, "value", r)

	filename := fmt.Sprintf("lens-panic-%s-%s.log", name, time.Now().Format("20060102-150405"))
	if file, err := os.Create(filename); err != nil {
		slog.Error("creating panic log", "file", filename, "error", err)
	} else {
		fmt.Fprintf(file, "Panic in %s: %v\n\n", name, r)
		fmt.Fprintf(file, "Time: %s\n\n", time.Now().Format(time.RFC3339))
		fmt.Fprintf(file, "Stack Trace:\n%s\n", debug.Stack())
		file.Close()
		slog.Info("panic details written", "file", filename)
	}

	if cleanup != nil {
		cleanup()
	}
}
