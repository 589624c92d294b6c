package stream

// vestedAmount returns how much of the locked balance has vested to
// the recipient at the given height. Nothing vests before the stream
// starts and nothing more vests after the timeframe ends.
//
// The raw product of elapsed blocks and payment rate can exceed the
// locked balance, for example when the rate was raised mid-stream, so
// the result is capped at the balance. Because of the cap a saturated
// multiplication is sound here: a product that overflows uint64 is
// larger than any possible balance.
func vestedAmount(s *Stream, height uint64) uint64 {
	tf := s.Timeframe
	if height > tf.EndBlock {
		height = tf.EndBlock
	}
	if height <= tf.StartBlock {
		return 0
	}
	elapsed := height - tf.StartBlock
	vested := mulSat(elapsed, s.PaymentPerBlock)
	if vested > s.Balance {
		return s.Balance
	}
	return vested
}

// withdrawableAmount returns what the recipient can take out at the
// given height: everything vested minus what was already withdrawn.
func withdrawableAmount(s *Stream, height uint64) uint64 {
	vested := vestedAmount(s, height)
	if vested <= s.WithdrawnBalance {
		return 0
	}
	return vested - s.WithdrawnBalance
}

// refundableAmount returns what the sender can reclaim at the given
// height: the part of the balance that will never vest.
//
// Together with withdrawableAmount this partitions the remaining
// funds: withdrawable + refundable is balance - withdrawn. An update
// can lower the rate below what was already withdrawn, in that case
// the withdrawn amount is the floor so the refund never exceeds what
// the stream account still holds.
func refundableAmount(s *Stream, height uint64) uint64 {
	floor := vestedAmount(s, height)
	if s.WithdrawnBalance > floor {
		floor = s.WithdrawnBalance
	}
	return s.Balance - floor
}

// mulSat multiplies a and b, saturating at the maximum uint64 on
// overflow.
func mulSat(a, b uint64) uint64 {
	if a == 0 || b == 0 {
		return 0
	}
	p := a * b
	if p/a != b {
		return 1<<64 - 1
	}
	return p
}
