package batch

import (
	"context"

	"github.com/arraypress/edd-register-recount-tools/internal/logger"
	"github.com/arraypress/edd-register-recount-tools/internal/recount"
)

// RecountJob executes one page of a callback-pair recount tool per step.
// A job whose tool key cannot be resolved is inert: it completes
// immediately and reports 100 percent. That degradation is deliberate and
// silent toward the host; only a warning is logged.
type RecountJob struct {
	req       Request
	batchSize int64
	callback  recount.BatchFunc
	count     recount.CountFunc
}

// NewJob resolves the request's tool key against the registry and returns
// the job that will run this step. Class-based tools resolve through the
// factory; callback tools run as a RecountJob.
func NewJob(reg *recount.Registry, factory *Factory, req Request) Job {
	def, ok := reg.Lookup(req.ToolKey)
	if !ok {
		logger.Warn("unknown recount tool, step degrades to no-op", "tool_key", req.ToolKey)
		return &RecountJob{req: req, batchSize: recount.DefaultBatchSize}
	}

	if def.Type == recount.TypeClass {
		ctor, ok := factory.Resolve(def.Class, def.File)
		if !ok {
			return &RecountJob{req: req, batchSize: recount.DefaultBatchSize}
		}
		return ctor(req)
	}

	return &RecountJob{
		req:       req,
		batchSize: def.BatchSize,
		callback:  def.Callback,
		count:     def.Count,
	}
}

// Data computes the page offset for the current step and invokes the tool
// callback once, returning its raw result.
func (j *RecountJob) Data(ctx context.Context) ([]string, error) {
	if j.callback == nil {
		return nil, nil
	}

	offset := (j.req.step() - 1) * j.batchSize
	return j.callback(ctx, offset, j.batchSize)
}

// ProcessStep runs one page. It stops exactly when the page comes back
// empty, independent of the page contents otherwise.
func (j *RecountJob) ProcessStep(ctx context.Context) (bool, error) {
	items, err := j.Data(ctx)
	if err != nil {
		return false, err
	}
	return len(items) > 0, nil
}

// PercentComplete derives progress from the count callback and the pages
// already processed. A non-positive total reports 100 regardless of step.
func (j *RecountJob) PercentComplete(ctx context.Context) (float64, error) {
	if j.count == nil {
		return 100, nil
	}

	total, err := j.count(ctx)
	if err != nil {
		return 0, err
	}
	if total <= 0 {
		return 100, nil
	}

	processed := (j.req.step() - 1) * j.batchSize
	percentage := float64(processed) / float64(total) * 100
	if percentage > 100 {
		percentage = 100
	}
	return percentage, nil
}
