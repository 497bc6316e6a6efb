package wizard

import "github.com/reportu/reportu/internal/report"

// submitDoneMsg carries the outcome of a delivered submission back to the
// update loop, which is the only place the machine may be touched.
type submitDoneMsg struct {
	result report.Result
}

// DescriptionEditedMsg is sent when the external editor returns.
type DescriptionEditedMsg struct {
	Content string
	Err     error
}

// FilesChosenMsg is sent when the media browser picks files to attach.
type FilesChosenMsg struct {
	Paths []string
}
