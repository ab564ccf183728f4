package history

import (
	"github.com/dhamidi/subcmd"
)

// Recorder saves every dispatch it is handed to the database at DBPath.
type Recorder struct {
	DBPath string
}

func NewRecorder(dbPath string) *Recorder {
	if dbPath == "" {
		dbPath = DefaultDatabasePath
	}
	return &Recorder{DBPath: dbPath}
}

// Record implements subcmd.Recorder.
func (r *Recorder) Record(ev subcmd.Event) error {
	inv, err := New(ev.Program, ev.Subcommand, ev.Args)
	if err != nil {
		return err
	}
	inv.Outcome = string(ev.Outcome)
	inv.ExitCode = ev.ExitCode
	if ev.Err != nil {
		inv.Error = ev.Err.Error()
	}
	return SaveTo(inv, r.DBPath)
}
