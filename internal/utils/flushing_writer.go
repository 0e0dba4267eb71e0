package utils

import (
	"io"
	"sync"
)

type flusher interface {
	Flush() error
}

// FlushingWriter relays child process output to a destination, flushing buffered destinations after every
// write so each line is visible as soon as it arrives. Writes are serialized and the forwarded byte count is kept.
type FlushingWriter struct {
	destination    io.Writer
	mutex          sync.Mutex
	bytesForwarded int64
}

// NewFlushingWriter wraps destination. A destination that already is a FlushingWriter is returned as is,
// and a nil destination yields a writer that discards everything.
func NewFlushingWriter(destination io.Writer) *FlushingWriter {
	if existing, isFlushingWriter := destination.(*FlushingWriter); isFlushingWriter && existing != nil {
		return existing
	}
	if destination == nil {
		destination = io.Discard
	}
	return &FlushingWriter{destination: destination}
}

// Write forwards data and flushes the destination when it supports flushing.
func (writer *FlushingWriter) Write(data []byte) (int, error) {
	writer.mutex.Lock()
	defer writer.mutex.Unlock()

	bytesWritten, writeError := writer.destination.Write(data)
	writer.bytesForwarded += int64(bytesWritten)
	if writeError != nil {
		return bytesWritten, writeError
	}

	if bufferedDestination, isBuffered := writer.destination.(flusher); isBuffered {
		return bytesWritten, bufferedDestination.Flush()
	}
	return bytesWritten, nil
}

// BytesForwarded reports how many bytes reached the destination so far.
func (writer *FlushingWriter) BytesForwarded() int64 {
	writer.mutex.Lock()
	defer writer.mutex.Unlock()
	return writer.bytesForwarded
}
