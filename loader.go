package canvix

import (
	"context"
	"runtime"
	"sync"

	"github.com/canvix/canvix/utils"
)

// maxLoadWorkers caps the number of concurrently running image loaders.
const maxLoadWorkers = 20

// loadResult carries the outcome of a single image load.
type loadResult struct {
	src string
	img *Layer
	err error
}

// AddImageLayers loads the given sources concurrently and appends each
// decoded image as a new layer. The layers are appended in completion order,
// which gives no ordering guarantee between the sources: whichever image
// finishes decoding first is added first.
//
// The number of concurrently running loaders is bound by conc; a
// non-positive value defaults to the number of CPUs. The operation stops
// early when the context is cancelled, returning the layers added so far
// together with the context error. Individual load failures do not stop the
// remaining loads; the first one encountered is reported after all sources
// have been drained.
func (c *Canvas) AddImageLayers(ctx context.Context, conc int, srcs ...string) ([]*Layer, error) {
	if len(srcs) == 0 {
		return nil, nil
	}
	if conc <= 0 {
		conc = runtime.NumCPU()
	}
	conc = utils.Min(utils.Min(conc, len(srcs)), maxLoadWorkers)

	jobs := make(chan string)
	results := make(chan loadResult)

	var wg sync.WaitGroup
	wg.Add(conc)
	for i := 0; i < conc; i++ {
		go func() {
			defer wg.Done()
			for src := range jobs {
				img, err := loadImage(ctx, src)

				res := loadResult{src: src, err: err}
				if err == nil {
					res.img = NewLayer(img, src)
				}
				select {
				case results <- res:
				case <-ctx.Done():
					return
				}
			}
		}()
	}

	// Feed the sources until done or cancelled.
	go func() {
		defer close(jobs)
		for _, src := range srcs {
			select {
			case jobs <- src:
			case <-ctx.Done():
				return
			}
		}
	}()

	// Close the results channel after the workers are drained.
	go func() {
		wg.Wait()
		close(results)
	}()

	var (
		layers   []*Layer
		firstErr error
	)
	for res := range results {
		if res.err != nil {
			if firstErr == nil {
				firstErr = res.err
			}
			continue
		}
		if err := c.AddLayer(res.img); err != nil {
			if firstErr == nil {
				firstErr = err
			}
			continue
		}
		layers = append(layers, res.img)
	}

	if err := ctx.Err(); err != nil {
		return layers, err
	}
	return layers, firstErr
}
