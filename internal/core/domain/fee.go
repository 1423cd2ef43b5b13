package domain

import "math/bits"

// BpsDenominator is the basis-point scale.
const BpsDenominator = 10000

// SplitPayment divides amount into the platform fee and the vehicle payment.
// fee = floor(amount * feeBps / 10000) is computed over a 128-bit product so the
// multiply never wraps. fee + payment == amount always holds on success.
func SplitPayment(amount uint64, feeBps uint16) (fee, payment uint64, err error) {
	hi, lo := bits.Mul64(amount, uint64(feeBps))
	if hi >= BpsDenominator {
		// quotient would not fit in 64 bits
		return 0, 0, ErrMathOverflow
	}
	fee, _ = bits.Div64(hi, lo, BpsDenominator)

	payment, borrow := bits.Sub64(amount, fee, 0)
	if borrow != 0 {
		return 0, 0, ErrMathOverflow
	}
	return fee, payment, nil
}
