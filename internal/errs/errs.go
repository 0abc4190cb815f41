// Package errs defines the simulation's single internal fatal-error type:
// every fatal condition across config, I/O, and the simulation core
// surfaces through this one type so that cmd/hfire can choose a process
// exit code from its Kind instead of string-matching error text. Grounded
// on the teacher's fmt.Errorf("...: %w", err) wrapping convention and
// single log.Fatalf exit path, generalized into an explicit taxonomy.
package errs

// Kind enumerates the taxonomy of a fatal condition.
type Kind int

const (
	// Config is a missing or malformed configuration key, or an
	// unparseable value. Fatal at startup.
	Config Kind = iota
	// IO is a missing file or a read/write failure. Fatal at startup or
	// at the affected export point.
	IO
	// Domain is an out-of-range row/col, a real-world coordinate outside
	// the grid, a pipeline stage-ordering violation, or a missing
	// fuel-model lookup. Fatal; indicates programmer error or corrupt
	// input, never recoverable.
	Domain
)

func (k Kind) String() string {
	switch k {
	case Config:
		return "config"
	case IO:
		return "io"
	case Domain:
		return "domain"
	default:
		return "unknown"
	}
}

// E is the carrier type: a Kind, the failing operation, a message, and an
// optional wrapped cause.
type E struct {
	Kind Kind
	Op   string
	Msg  string
	Err  error
}

func (e *E) Error() string {
	if e.Err != nil {
		return e.Kind.String() + ": " + e.Op + ": " + e.Msg + ": " + e.Err.Error()
	}
	return e.Kind.String() + ": " + e.Op + ": " + e.Msg
}

func (e *E) Unwrap() error { return e.Err }

// New builds an *E without a wrapped cause.
func New(kind Kind, op, msg string) *E { return &E{Kind: kind, Op: op, Msg: msg} }

// Wrap builds an *E around an existing error.
func Wrap(kind Kind, op, msg string, err error) *E { return &E{Kind: kind, Op: op, Msg: msg, Err: err} }
