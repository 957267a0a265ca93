package orchestrator

// State identifies where the pipeline currently is. A run walks
// Loading through Done and settles back to Idle; Failed is the transient
// state on any step error before the reset to Idle.
type State int

const (
	Idle State = iota
	AwaitingModel
	Loading
	Preprocessing
	Inferring
	Decoding
	Rendering
	Done
	Failed
)

func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case AwaitingModel:
		return "awaiting_model"
	case Loading:
		return "loading"
	case Preprocessing:
		return "preprocessing"
	case Inferring:
		return "inferring"
	case Decoding:
		return "decoding"
	case Rendering:
		return "rendering"
	case Done:
		return "done"
	case Failed:
		return "failed"
	default:
		return "unknown"
	}
}
