package logadapter

import "go.uber.org/zap"

// Badger2Zap adapts a zap logger to BadgerDB's Logger interface.
type Badger2Zap struct {
	*zap.SugaredLogger
}

// NewBadger2Zap creates a new Badger2Zap logger, named "badger".
func NewBadger2Zap(logger *zap.Logger) *Badger2Zap {
	return &Badger2Zap{
		SugaredLogger: logger.Named("badger").Sugar(),
	}
}

func (logger *Badger2Zap) Warningf(template string, args ...interface{}) {
	logger.Warnf(template, args...)
}

// Infof logs with DEBUG level. BadgerDB reports every compaction and value log GC run on INFO.
func (logger *Badger2Zap) Infof(template string, args ...interface{}) {
	logger.Debugf(template, args...)
}
