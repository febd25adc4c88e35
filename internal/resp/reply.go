package resp

// Reply is the request/response level view of a decoded value: an Error
// variant is a failed command, anything else succeeded.
type Reply struct {
	Value   Value
	Message string
	Failed  bool
}

// Classify maps a decoded value onto a Reply. Total and side-effect
// free, there is no third case.
func Classify(v Value) Reply {
	if v.Type == TypeError {
		return Reply{Message: string(v.String), Failed: true}
	}
	return Reply{Value: v}
}
