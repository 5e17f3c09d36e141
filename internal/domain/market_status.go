package domain

// Market status values
const (
	MarketOpen   = "ABERTO"
	MarketClosed = "FECHADO"
)

// MarketSession is the state of one exchange session
type MarketSession struct {
	Status string `json:"status"`
	Time   string `json:"time"`
}

// MarketStatus reports the New York and Asia sessions
type MarketStatus struct {
	NewYork MarketSession `json:"new_york"`
	Asia    MarketSession `json:"asia"`
}
