package shell

import (
	"math/rand/v2"
	"time"
)

// Jitter returns a sleeper that pads every base delay with 50 to 300 ms of
// uniform noise so the pacing never looks mechanical. Tests inject a no-op
// sleeper instead.
func Jitter() func(time.Duration) {
	return func(d time.Duration) {
		time.Sleep(d + time.Duration(50+rand.IntN(250))*time.Millisecond)
	}
}
