package osc

// TypeTag identifies the wire encoding of a single OSC argument.
type TypeTag rune

const (
	TypeFloat32 TypeTag = 'f'
	TypeInt32   TypeTag = 'i'
	TypeString  TypeTag = 's'
	TypeInvalid TypeTag = 0
)

// ToTypeTag returns the OSC TypeTag for the given argument. All Go integer
// types map to 'i' and both float types map to 'f'; the builder narrows the
// value to 32 bits on the wire. Returns TypeInvalid if the argument type is
// unsupported.
func ToTypeTag(arg interface{}) TypeTag {
	switch arg.(type) {
	case float32, float64:
		return TypeFloat32
	case int, int32, int64:
		return TypeInt32
	case string:
		return TypeString
	default:
		return TypeInvalid
	}
}
