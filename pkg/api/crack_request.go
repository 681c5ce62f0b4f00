package api

// CrackRequest is the JSON body of POST /api/hash/crack.
type CrackRequest struct {
	Algorithm string `json:"algorithm" bson:"algorithm"`
	Hash      string `json:"hash" bson:"hash"`
	Wordlist  string `json:"wordlist" bson:"wordlist"`
}

type CrackResponse struct {
	RequestId string `json:"requestId"`
}

type StatusResponse struct {
	Status   string   `json:"status"`
	Found    bool     `json:"found"`
	Data     []string `json:"data"`
	Attempts int64    `json:"attempts"`
	Error    string   `json:"error,omitempty"`
}
