package studio

import "fmt"

// Pipeline stages a RenderFault can come from.
const (
	StageCollect = "collect"
	StageBuild   = "build"
	StageEncode  = "encode"
)

const bannerPrefix = "An error occurred: "

// RenderFault is any failure after input collection started. There is one
// fault kind; Stage is diagnostic only.
type RenderFault struct {
	Stage string
	Err   error
}

func (f *RenderFault) Error() string {
	return fmt.Sprintf("%s: %v", f.Stage, f.Err)
}

func (f *RenderFault) Unwrap() error {
	return f.Err
}

// Banner is the message shown to the user.
func (f *RenderFault) Banner() string {
	return bannerPrefix + f.Err.Error()
}

func fault(stage string, err error) *RenderFault {
	return &RenderFault{Stage: stage, Err: err}
}
