package main

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/dustin/go-humanize"

	"github.com/dgnsrekt/readalong/playback"
	"github.com/dgnsrekt/readalong/speech"
	"github.com/dgnsrekt/readalong/transcript"
)

// runPlain reads the transcript without the TUI, printing each word as it
// goes on air. Cancelling ctx stops the run.
func runPlain(ctx context.Context, w io.Writer, store *transcript.Store, scheduler *playback.Scheduler, driver *speech.Driver) error {
	n := store.Len()
	last := transcript.NoIndex
	scheduler.OnChange(func(st playback.State) {
		if !st.IsPlaying || !st.HasCurrent() || st.CurrentIndex == last {
			return
		}
		last = st.CurrentIndex
		word, ok := store.At(st.CurrentIndex)
		if !ok {
			return
		}
		fmt.Fprintf(w, "[%d/%d] %s\n", st.CurrentIndex+1, n, word.Text)
	})

	// Stop from a separate goroutine; observers may not call it.
	runCtx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go func() {
		select {
		case <-ctx.Done():
			scheduler.Stop()
		case <-runCtx.Done():
		}
	}()

	started := time.Now()
	err := scheduler.Start(runCtx, store)

	stats := driver.Stats()
	fmt.Fprintf(w, "%s: %s %s spoken in %s\n",
		keyword(driver.Engine()),
		humanize.Comma(int64(stats.Utterances)),
		plural(stats.Utterances, "word", "words"),
		time.Since(started).Round(time.Millisecond))
	if ctx.Err() != nil && err == nil {
		fmt.Fprintln(w, "Stopped.")
	}
	return err
}

func plural(n int, one, many string) string {
	if n == 1 {
		return one
	}
	return many
}
