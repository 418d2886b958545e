package hwsim

import (
	"sync"
	"time"
)

// LED is a simulated user LED.
type LED struct {
	lock    sync.Mutex
	on      bool
	toggles int
}

// Toggle inverts the LED.
func (l *LED) Toggle() {
	l.lock.Lock()
	defer l.lock.Unlock()

	l.on = !l.on
	l.toggles++
}

// On tells if the LED is lit.
func (l *LED) On() bool {
	l.lock.Lock()
	defer l.lock.Unlock()

	return l.on
}

// Toggles returns how many times the LED has been toggled.
func (l *LED) Toggles() int {
	l.lock.Lock()
	defer l.lock.Unlock()

	return l.toggles
}

// VirtualClock advances a virtual time instead of blocking.
type VirtualClock struct {
	lock sync.Mutex
	now  time.Duration
}

// Sleep advances the virtual time by d.
func (c *VirtualClock) Sleep(d time.Duration) {
	c.lock.Lock()
	defer c.lock.Unlock()

	c.now += d
}

// Now returns the virtual time elapsed since the clock was created.
func (c *VirtualClock) Now() time.Duration {
	c.lock.Lock()
	defer c.lock.Unlock()

	return c.now
}
