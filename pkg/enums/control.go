package enums

// Control identifies an interactive element whose state the core drives.
type Control string

const ControlConfirmPayment Control = "confirm_payment"

// String implements fmt.Stringer.
func (c Control) String() string {
	return string(c)
}
