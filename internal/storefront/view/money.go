package view

import "strconv"

// FormatINR renders whole rupees with Indian digit grouping: the last three
// digits, then groups of two. 123456 becomes "₹1,23,456".
func FormatINR(amount int64) string {
	sign := ""
	if amount < 0 {
		sign = "-"
		amount = -amount
	}
	return sign + "₹" + groupIndian(strconv.FormatInt(amount, 10))
}

func groupIndian(digits string) string {
	if len(digits) <= 3 {
		return digits
	}

	head, tail := digits[:len(digits)-3], digits[len(digits)-3:]

	out := make([]byte, 0, len(digits)+len(digits)/2)
	first := len(head) % 2
	if first == 1 {
		out = append(out, head[0])
	}
	for i := first; i < len(head); i += 2 {
		if len(out) > 0 {
			out = append(out, ',')
		}
		out = append(out, head[i], head[i+1])
	}
	out = append(out, ',')
	return string(append(out, tail...))
}
