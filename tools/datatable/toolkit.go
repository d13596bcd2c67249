package datatable

import (
	"github.com/cockroachdb/errors"

	"github.com/aidekit/aidekit/tools"
)

// Toolkit bundles the data analysis tools.
type Toolkit struct {
	Analyze    *AnalyzeTool
	Status     *StatusTool
	Preprocess *PreprocessTool
}

// New creates the data analysis toolkit.
func New() (*Toolkit, error) {
	k := &Toolkit{}
	var err error
	if k.Analyze, err = newAnalyze(); err != nil {
		return nil, errors.WithMessage(err, "failed to create analyze tool")
	}
	if k.Status, err = newStatus(); err != nil {
		return nil, errors.WithMessage(err, "failed to create status tool")
	}
	if k.Preprocess, err = newPreprocess(); err != nil {
		return nil, errors.WithMessage(err, "failed to create preprocess tool")
	}
	return k, nil
}

// Tools returns the toolkit tools in registration order.
func (k *Toolkit) Tools() []tools.ITool {
	return []tools.ITool{
		k.Analyze,
		k.Status,
		k.Preprocess,
	}
}
