package keyspace

import "github.com/edisdb/edis/common"

// Notifier is called synchronously before every command dispatch. A
// failing notify aborts the command with error(notify_failed) and the
// handler never runs. A real pub/sub bus sitting behind this interface
// is external; the core only calls it.
type Notifier interface {
	Notify(actorIndex int, cmd common.Command) error
}

// NopNotifier never rejects a command. Used by tests and by any actor
// constructed without a real notification bus.
type NopNotifier struct{}

func (NopNotifier) Notify(int, common.Command) error { return nil }

// logNotifier logs every dispatched command through the ambient-stack
// logger and never rejects one - the CLI entry point's default, until a
// real notification bus is wired in front of it.
type logNotifier struct {
	log common.Logger
}

// NewLogNotifier builds a Notifier that logs each command at debug level.
func NewLogNotifier(log common.Logger) Notifier {
	if log == nil {
		log = common.NopLogger{}
	}
	return &logNotifier{log: log}
}

func (n *logNotifier) Notify(actorIndex int, cmd common.Command) error {
	n.log.Debugf("actor %d: %s %d arg(s)", actorIndex, cmd.Cmd, len(cmd.Args))
	return nil
}
