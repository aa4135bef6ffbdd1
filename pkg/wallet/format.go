package wallet

// FormatAddress truncates an address for display: the first 6 characters,
// an ellipsis and the last 4. Inputs shorter than 10 characters are
// returned unchanged.
func FormatAddress(address string) string {
	if len(address) < 10 {
		return address
	}
	return address[:6] + "..." + address[len(address)-4:]
}
