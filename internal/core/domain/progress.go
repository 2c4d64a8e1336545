package domain

// ProgressKind classifies a progress line emitted by the exporter on its diagnostic stream
type ProgressKind string

const (
	ProgressItem       ProgressKind = "item"       // an item is being exported
	ProgressWritten    ProgressKind = "written"    // an item was written successfully
	ProgressComplete   ProgressKind = "complete"   // the whole export finished
	ProgressDiscovered ProgressKind = "discovered" // the exporter found N items to process
)

// ProgressEvent is one recognised progress line
type ProgressEvent struct {
	Kind    ProgressKind `json:"kind"`
	Message string       `json:"message"`
	// Count is only set for discovered events that carry a number
	Count int `json:"count,omitempty"`
}

// ProgressSummary tallies progress events over one export
type ProgressSummary struct {
	Items      int  `json:"items"`
	Written    int  `json:"written"`
	Completed  bool `json:"completed"`
	Discovered int  `json:"discovered"`
}

// Record folds an event into the summary. The latest discovery count wins.
func (s *ProgressSummary) Record(event ProgressEvent) {
	switch event.Kind {
	case ProgressItem:
		s.Items++
	case ProgressWritten:
		s.Written++
	case ProgressComplete:
		s.Completed = true
	case ProgressDiscovered:
		if event.Count > 0 {
			s.Discovered = event.Count
		}
	}
}

func IsValidProgressKind(k string) bool {
	switch ProgressKind(k) {
	case ProgressItem, ProgressWritten, ProgressComplete, ProgressDiscovered:
		return true
	default:
		return false
	}
}
