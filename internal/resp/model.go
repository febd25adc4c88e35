package resp

const (
	TypeSimpleString = '+'
	TypeError        = '-'
	TypeInteger      = ':'
	TypeBulkString   = '$'
	TypeArray        = '*'
)

// Value is a single decoded RESP unit. The variant is selected by Type,
// except for the null sentinel: both a length -1 bulk string and a
// length -1 array decode to a Value with IsNull set and no type tag,
// and the two cannot be told apart afterwards.
//
// String holds raw bytes for SimpleString, Error and BulkString. Bulk
// string payloads are binary safe and preserved byte-for-byte. A Value
// produced by Decode aliases the input buffer instead of copying it.
type Value struct {
	String  []byte // SimpleString, Error, BulkString
	Array   []Value
	Integer int64
	Type    byte
	IsNull  bool
}
