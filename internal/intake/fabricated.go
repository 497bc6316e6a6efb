package intake

import (
	"context"
	"time"

	"github.com/reportu/reportu/internal/report"
)

// FabricatedReference is the reference handed out by the offline submitter.
const FabricatedReference = "REP-123456"

// Fabricated is an offline Submitter. It waits Delay, then accepts every
// report with the same reference. Nothing is recorded.
type Fabricated struct {
	Delay time.Duration
}

func (f Fabricated) Submit(ctx context.Context, sub report.Submission) (report.Receipt, error) {
	if f.Delay > 0 {
		timer := time.NewTimer(f.Delay)
		defer timer.Stop()
		select {
		case <-timer.C:
		case <-ctx.Done():
			return report.Receipt{}, ctx.Err()
		}
	}
	return report.Receipt{
		Reference:   FabricatedReference,
		Country:     sub.Report.Country,
		SubmittedAt: time.Now(),
	}, nil
}
