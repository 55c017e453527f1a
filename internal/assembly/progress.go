package assembly

// Progress stages
const (
	StageStart     = "start"
	StageSlide     = "slide"
	StageSkipped   = "skipped"
	StageSerialize = "serialize"
	StageComplete  = "complete"
)

// ProgressEvent reports one step of an assembly
type ProgressEvent struct {
	Stage   string `json:"stage"`
	Index   int    `json:"index"`
	Total   int    `json:"total"`
	Kind    string `json:"kind,omitempty"`
	Message string `json:"message"`
}

// ProgressCallback receives progress events. It may be called from several
// goroutines at once.
type ProgressCallback func(event ProgressEvent)

func (a *Assembler) emit(event ProgressEvent) {
	if a.onProgress != nil {
		a.onProgress(event)
	}
}
