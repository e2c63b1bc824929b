package cron

import "context"

// Job is a unit of scheduled work. Name feeds log fields and metric labels,
// so it should stay stable across releases.
type Job interface {
	Name() string
	Run(ctx context.Context) error
}

// Registry holds the jobs a worker executes each cycle, keyed by name in
// registration order. Registering a second job under an existing name
// replaces the first, so a wiring mistake surfaces as one run instead of two.
type Registry struct {
	order  []string
	byName map[string]Job
}

func NewRegistry(jobs ...Job) *Registry {
	r := &Registry{byName: make(map[string]Job)}
	for _, job := range jobs {
		r.Register(job)
	}
	return r
}

// Register adds or replaces a job; nil jobs are ignored.
func (r *Registry) Register(job Job) {
	if job == nil {
		return
	}
	name := job.Name()
	if _, exists := r.byName[name]; !exists {
		r.order = append(r.order, name)
	}
	r.byName[name] = job
}

// Jobs returns the registered jobs in first-registration order.
func (r *Registry) Jobs() []Job {
	out := make([]Job, 0, len(r.order))
	for _, name := range r.order {
		out = append(out, r.byName[name])
	}
	return out
}
