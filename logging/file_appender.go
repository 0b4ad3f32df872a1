package logging

import (
	"gopkg.in/natefinch/lumberjack.v2"
)

// A FileAppender writes console formatted logs to a file that is rotated by size.
type FileAppender struct {
	*ConsoleAppender
	file *lumberjack.Logger
}

// NewFileAppender appends to path, keeping up to maxBackups compressed files of maxSizeMB each.
func NewFileAppender(path string, maxSizeMB, maxBackups int) *FileAppender {
	file := &lumberjack.Logger{
		Filename:   path,
		MaxSize:    maxSizeMB,
		MaxBackups: maxBackups,
		Compress:   true,
	}
	return &FileAppender{ConsoleAppender: NewWriterAppender(file), file: file}
}

// Close closes the current file.
func (a *FileAppender) Close() error {
	return a.file.Close()
}
