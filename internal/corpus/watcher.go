package corpus

import (
	"os"

	"github.com/fsnotify/fsnotify"

	"github.com/0xricksanchez/hantu-go/internal/ferrors"
)

// Watcher feeds newly-written files in a corpus directory into a live
// Corpus while a fuzz session is running, recovering the intent of the
// original's load_corpus_from_disk being re-callable mid-session: an
// external minimizer or triage tool can drop new seeds into the corpus
// directory and have them picked up without restarting the fuzzer.
type Watcher struct {
	w    *fsnotify.Watcher
	errC chan error
	done chan struct{}
}

// Watch starts watching dir and adds every subsequently created or written
// regular file to corpus. The initial directory contents are not loaded by
// Watch; call Load first to seed the corpus.
func Watch(dir string, corpus *Corpus) (*Watcher, error) {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, ferrors.Wrap(ferrors.KindIO, err)
	}
	if err := w.Add(dir); err != nil {
		_ = w.Close()
		return nil, ferrors.Wrap(ferrors.KindPathDoesNotExist, err)
	}

	watcher := &Watcher{w: w, errC: make(chan error, 1), done: make(chan struct{})}
	go watcher.loop(corpus)
	return watcher, nil
}

func (cw *Watcher) loop(corpus *Corpus) {
	defer close(cw.errC)
	for {
		select {
		case ev, ok := <-cw.w.Events:
			if !ok {
				return
			}
			if ev.Op&(fsnotify.Create|fsnotify.Write) == 0 {
				continue
			}
			info, err := os.Stat(ev.Name)
			if err != nil || info.IsDir() {
				continue
			}
			data, err := os.ReadFile(ev.Name)
			if err != nil {
				continue
			}
			corpus.Add(data)
		case err, ok := <-cw.w.Errors:
			if !ok {
				return
			}
			select {
			case cw.errC <- err:
			default:
			}
		case <-cw.done:
			return
		}
	}
}

// Errors returns the channel watcher errors are reported on.
func (cw *Watcher) Errors() <-chan error { return cw.errC }

// Close stops the watcher and releases the underlying OS resources.
func (cw *Watcher) Close() error {
	close(cw.done)
	return cw.w.Close()
}
