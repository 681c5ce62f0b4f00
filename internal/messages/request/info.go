package request

import (
	"time"

	"github.com/ykhdr/dictcrack/pkg/api"
)

type Status string

const (
	StatusNew        Status = "NEW"
	StatusInProgress Status = "IN_PROGRESS"
	StatusReady      Status = "READY"
	StatusError      Status = "ERROR"
)

type Id string

type Info struct {
	ID          Id                `bson:"_id"`
	Status      Status            `bson:"status"`
	Request     *api.CrackRequest `bson:"request"`
	Found       bool              `bson:"found"`
	Candidate   string            `bson:"candidate"`
	Attempts    int64             `bson:"attempts"`
	ErrorReason string            `bson:"error_reason"`
	CreatedAt   time.Time         `bson:"created_at"`
	FinishedAt  time.Time         `bson:"finished_at"`
}

func (r *Info) Copy() *Info {
	c := *r
	if r.Request != nil {
		req := *r.Request
		c.Request = &req
	}
	return &c
}

func (r *Info) Done() bool {
	return r.Status == StatusReady || r.Status == StatusError
}

// Finish records a completed scan.
func (r *Info) Finish(found bool, candidate string, attempts int64, at time.Time) {
	r.Status = StatusReady
	r.Found = found
	r.Candidate = candidate
	r.Attempts = attempts
	r.FinishedAt = at
}

func (r *Info) Fail(reason string, at time.Time) {
	r.Status = StatusError
	r.ErrorReason = reason
	r.FinishedAt = at
}
