// Package worker runs payloads through a handler on a fixed set of
// goroutines.
//
// Results carry the index of the job that produced them, so callers that
// need input order can restore it:
//
//	pool := worker.NewPool(ctx, handler, 4)
//	go func() {
//	    for i, payload := range payloads {
//	        pool.Submit(worker.Job{Index: i, Payload: payload})
//	    }
//	    pool.Close()
//	}()
//	for r := range pool.Results() {
//	    out[r.Index] = r
//	}
package worker
