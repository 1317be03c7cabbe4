package bake

import (
	"runtime"
	"sync"
)

// parallelThreshold is the minimum row count to split a bake across
// workers. Below this, a single band is faster than the channel round trips.
const parallelThreshold = 64

// band is a contiguous range of rows [y0, y1).
type band struct {
	index  int
	y0, y1 int
}

// bandJob is one band of one pass.
type bandJob struct {
	band band
	fn   func(b band)
}

// bandPool runs row bands on persistent worker goroutines.
type bandPool struct {
	numWorkers int

	workChan chan bandJob   // sends work to workers
	doneChan chan struct{}  // workers signal completion
	stopChan chan struct{}  // signals workers to exit
	wg       sync.WaitGroup // tracks active workers
	running  bool           // true if workers are running
}

func newBandPool(numWorkers int) *bandPool {
	if numWorkers <= 0 {
		numWorkers = runtime.GOMAXPROCS(0)
	}
	return &bandPool{numWorkers: numWorkers}
}

// start launches the worker goroutines.
func (p *bandPool) start() {
	if p.running {
		return
	}

	p.workChan = make(chan bandJob, p.numWorkers)
	p.doneChan = make(chan struct{}, p.numWorkers)
	p.stopChan = make(chan struct{})
	p.running = true

	for i := 0; i < p.numWorkers; i++ {
		p.wg.Add(1)
		go p.worker()
	}
}

// stop signals all workers to exit and waits for them.
func (p *bandPool) stop() {
	if !p.running {
		return
	}

	close(p.stopChan)
	p.wg.Wait()
	close(p.workChan)
	close(p.doneChan)
	p.running = false
}

func (p *bandPool) worker() {
	defer p.wg.Done()

	for {
		select {
		case <-p.stopChan:
			return
		case job, ok := <-p.workChan:
			if !ok {
				return
			}
			job.fn(job.band)
			p.doneChan <- struct{}{}
		}
	}
}

// bands splits h rows into the bands one pass will use.
func (p *bandPool) bands(h int) []band {
	n := p.numWorkers
	if !p.running || h < parallelThreshold || n < 1 {
		n = 1
	}
	if n > h {
		n = h
	}
	if n < 1 {
		return nil
	}

	out := make([]band, n)
	size := (h + n - 1) / n
	for i := range out {
		y0 := i * size
		y1 := y0 + size
		if y1 > h {
			y1 = h
		}
		out[i] = band{index: i, y0: y0, y1: y1}
	}
	return out
}

// run calls fn for every band and returns once all have finished. Must
// only be called from one goroutine at a time.
func (p *bandPool) run(bands []band, fn func(b band)) {
	if !p.running || len(bands) == 1 {
		for _, b := range bands {
			fn(b)
		}
		return
	}

	// Dispatch and collect in step: workChan only holds numWorkers jobs
	sent, done := 0, 0
	for done < len(bands) {
		if sent < len(bands) {
			select {
			case p.workChan <- bandJob{band: bands[sent], fn: fn}:
				sent++
			case <-p.doneChan:
				done++
			}
			continue
		}
		<-p.doneChan
		done++
	}
}
