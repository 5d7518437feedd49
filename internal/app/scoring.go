package app

// AnswerTimeCap is the ceiling, in seconds, applied to answer time for scoring and accumulation.
const AnswerTimeCap = 20

const basePoints = 10

// EffectiveTime clamps an elapsed answer time into [0, AnswerTimeCap].
func EffectiveTime(elapsedSeconds int64) int64 {
	if elapsedSeconds < 0 {
		return 0
	}
	if elapsedSeconds > AnswerTimeCap {
		return AnswerTimeCap
	}
	return elapsedSeconds
}

// Score returns floor(10 * (1 + (20-t)/20)) for the effective time t, which is 20 for an
// instant answer and 10 at or beyond the cap. It is evaluated as 10 + (20-t)/2 so no float
// rounding can creep in.
func Score(elapsedSeconds int64) int {
	t := EffectiveTime(elapsedSeconds)
	return basePoints + int(AnswerTimeCap-t)*basePoints/AnswerTimeCap
}
