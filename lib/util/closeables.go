package util

import (
	"io"
	"sync"
)

var (
	closeOnExit []io.Closer
	closeMutex  sync.Mutex
)

// RegisterCloser registers an io.Closer to be closed during shutdown.
// This function is thread-safe.
func RegisterCloser(c io.Closer) {
	closeMutex.Lock()
	defer closeMutex.Unlock()
	closeOnExit = append(closeOnExit, c)
	log.WithField("count", len(closeOnExit)).Debug("Registered closer")
}

// DeregisterCloser removes c from the shutdown list without closing it.
// Resources released on their normal path call this once they are done.
func DeregisterCloser(c io.Closer) {
	closeMutex.Lock()
	defer closeMutex.Unlock()
	for i := range closeOnExit {
		if closeOnExit[i] == c {
			closeOnExit = append(closeOnExit[:i], closeOnExit[i+1:]...)
			log.WithField("count", len(closeOnExit)).Debug("Deregistered closer")
			return
		}
	}
}

// CloseAll closes all registered io.Closer instances and clears the list.
// This function is thread-safe.
func CloseAll() {
	closeMutex.Lock()
	defer closeMutex.Unlock()

	log.WithField("count", len(closeOnExit)).Debug("Closing all registered closers")

	for idx := range closeOnExit {
		if err := closeOnExit[idx].Close(); err != nil {
			log.WithError(err).Warn("Error closing resource")
		}
	}
	closeOnExit = nil
	log.Debug("All closers closed")
}
