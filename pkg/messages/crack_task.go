package messages

import "encoding/xml"

// CrackTask is a crack job received from the task queue.
type CrackTask struct {
	XMLName   xml.Name `xml:"CrackTask" bson:"-"`
	RequestId string   `xml:"RequestId" bson:"request_id"`
	Algorithm string   `xml:"Algorithm" bson:"algorithm"`
	Hash      string   `xml:"Hash" bson:"hash"`
	Wordlist  string   `xml:"Wordlist" bson:"wordlist"`
}

type TaskStatus string

const (
	TaskFound    TaskStatus = "FOUND"
	TaskNotFound TaskStatus = "NOT_FOUND"
	TaskError    TaskStatus = "ERROR"
)

// CrackTaskResult answers one CrackTask.
type CrackTaskResult struct {
	XMLName   xml.Name   `xml:"CrackTaskResult" bson:"-"`
	Id        string     `xml:"Id" bson:"_id"`
	RequestId string     `xml:"RequestId" bson:"request_id"`
	Status    TaskStatus `xml:"Status" bson:"status"`
	Candidate string     `xml:"Candidate,omitempty" bson:"candidate,omitempty"`
	Attempts  int64      `xml:"Attempts" bson:"attempts"`
	Error     string     `xml:"Error,omitempty" bson:"error,omitempty"`
}
